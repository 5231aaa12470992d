package job

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LogStore keeps one timestamped log file per run. Retention is a fixed
// window pruned best-effort; pruning never blocks or fails a run.
type LogStore struct {
	dir    string
	logger *zap.Logger
}

const runLogRetention = 14 * 24 * time.Hour

func NewLogStore(dir string, logger *zap.Logger) *LogStore {
	return &LogStore{dir: dir, logger: logger}
}

// Create opens the log file for one run. The UUID prefix keeps names
// unique even when two runs start within the same second on restart.
func (l *LogStore) Create(startedAt time.Time, runUUID string) (*os.File, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, err
	}
	short := runUUID
	if len(short) > 8 {
		short = short[:8]
	}
	name := fmt.Sprintf("run_%s_%s.log", startedAt.Format("2006-01-02_150405"), short)
	return os.Create(filepath.Join(l.dir, name))
}

// Prune removes run logs older than the retention window.
func (l *LogStore) Prune() {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-runLogRetention)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "run_") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(l.dir, entry.Name())); err != nil {
			l.logger.Warn("failed to prune run log", zap.String("file", entry.Name()), zap.Error(err))
		}
	}
}
