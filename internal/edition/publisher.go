package edition

import (
	"os"
	"path/filepath"
	"sort"
	"time"
)

// maxBackups is how many archived editions are kept; the archive page
// links them as past editions.
const maxBackups = 30

// Publisher swaps the live edition under the web root, archiving the
// previous one as edition_<timestamp>.html first.
type Publisher struct {
	webRoot   string
	backupDir string
}

func NewPublisher(webRoot, backupDir string) *Publisher {
	return &Publisher{webRoot: webRoot, backupDir: backupDir}
}

func (p *Publisher) indexPath() string {
	return filepath.Join(p.webRoot, "index.html")
}

// Publish archives the current edition, rotates old backups, and writes
// the new HTML. The write happens last, so a failed backup leaves the
// live edition unchanged.
func (p *Publisher) Publish(html []byte, now time.Time) error {
	if err := os.MkdirAll(p.webRoot, 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(p.backupDir, 0o755); err != nil {
		return err
	}

	if _, err := os.Stat(p.indexPath()); err == nil {
		backup := filepath.Join(p.backupDir, "edition_"+now.Format("2006-01-02_150405")+".html")
		if err := os.Rename(p.indexPath(), backup); err != nil {
			return err
		}
		p.rotate()
	}

	return os.WriteFile(p.indexPath(), html, 0o644)
}

// rotate drops the oldest backups beyond maxBackups. Timestamped names
// sort chronologically.
func (p *Publisher) rotate() {
	backups, err := filepath.Glob(filepath.Join(p.backupDir, "edition_*.html"))
	if err != nil || len(backups) <= maxBackups {
		return
	}
	sort.Strings(backups)
	for _, old := range backups[:len(backups)-maxBackups] {
		os.Remove(old)
	}
}

func (p *Publisher) EditionExists() bool {
	_, err := os.Stat(p.indexPath())
	return err == nil
}

func (p *Publisher) BackupCount() int {
	backups, err := filepath.Glob(filepath.Join(p.backupDir, "edition_*.html"))
	if err != nil {
		return 0
	}
	return len(backups)
}
