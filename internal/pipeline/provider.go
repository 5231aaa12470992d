package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Provider holds the currently effective stage list. When a stage file is
// configured, Watch keeps it fresh; a run always snapshots the list once
// at start, so a reload never changes a run mid-flight.
type Provider struct {
	mu     sync.RWMutex
	stages []Stage
	logger *zap.Logger
}

func NewProvider(stages []Stage, logger *zap.Logger) *Provider {
	return &Provider{stages: stages, logger: logger}
}

func (p *Provider) Stages() []Stage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

func (p *Provider) set(stages []Stage) {
	p.mu.Lock()
	p.stages = stages
	p.mu.Unlock()
}

// Watch reloads the stage file whenever it is rewritten. The watch is on
// the containing directory, not the file: editors that save by rename
// replace the inode, and a file-level watch would die with the old one.
// Events are debounced because editors fire several writes per save. A
// file that no longer parses is logged and the previous stage list stays
// in effect.
func (p *Provider) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}
	name := filepath.Base(path)

	go func() {
		defer watcher.Close()
		const debounce = 100 * time.Millisecond
		var pending *time.Time

		ticker := time.NewTicker(debounce)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					now := time.Now()
					pending = &now
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.logger.Warn("stage file watch error", zap.Error(err))
			case <-ticker.C:
				if pending == nil || time.Since(*pending) < debounce {
					continue
				}
				pending = nil
				stages, err := LoadStagesFile(path)
				if err != nil {
					p.logger.Warn("stage file reload rejected", zap.String("path", path), zap.Error(err))
					continue
				}
				p.set(stages)
				p.logger.Info("stage file reloaded", zap.String("path", path), zap.Int("stages", len(stages)))
			}
		}
	}()
	return nil
}
