package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/tsat/internal/rewrite"
)

// reloadDelay lets a burst of writes settle before the file is read.
const reloadDelay = 100 * time.Millisecond

// RuleWatcher reloads a rule file whenever it changes.
type RuleWatcher struct {
	path    string
	engine  *Engine
	watcher *fsnotify.Watcher
}

// WatchRules starts watching path. The directory is watched rather than
// the file so that editors replacing the file by rename are seen too.
func (e *Engine) WatchRules(path string) (*RuleWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("error adding directory to watcher: %w", err)
	}
	return &RuleWatcher{path: abs, engine: e, watcher: w}, nil
}

// Run reloads the rules on every change until ctx is done, then closes the
// watcher. onReload, if not nil, receives each new rule set. A rule file
// that fails to load is logged and the previous rules stay active.
func (rw *RuleWatcher) Run(ctx context.Context, onReload func([]*rewrite.Rewrite)) error {
	defer rw.watcher.Close()
	logger := rw.engine.logger.With(zap.String("path", rw.path))

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-rw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != rw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timer = time.After(reloadDelay)
			}
		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case <-timer:
			timer = nil
			if err := rw.engine.LoadRules(rw.path); err != nil {
				logger.Error("reloading rules", zap.Error(err))
				continue
			}
			if onReload != nil {
				onReload(rw.engine.Rules())
			}
		}
	}
}
