// Package watch re-applies the stack whenever one of its documents changes
// on disk. Bursts of writes (editors, atomic renames) are debounced into a
// single apply.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/melodix-project/maestro/pkg/logger"
)

const defaultDebounce = 500 * time.Millisecond

// ApplyFunc re-reconciles and re-applies the stack.
type ApplyFunc func(ctx context.Context) error

// Watcher watches a set of document paths and triggers an apply on change.
type Watcher struct {
	paths    []string
	debounce time.Duration
	apply    ApplyFunc
}

// New returns a watcher over the given document paths.
func New(paths []string, apply ApplyFunc) *Watcher {
	return &Watcher{paths: paths, debounce: defaultDebounce, apply: apply}
}

// Run watches until ctx is cancelled. Documents are written through renames,
// so the watches go on the parent directories and events are filtered back
// to the documents themselves.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(w.paths))
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	added := 0
	for dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			// Optional documents live in directories that may not exist,
			// like dashboard/ on an install without the dashboard.
			logger.Debug("Directory absent, not watched", "dir", dir)
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		added++
	}
	if added == 0 {
		return fmt.Errorf("none of the document directories exist")
	}
	logger.Info("Watching stack documents", "count", len(watched))

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[event.Name] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Document changed", "path", event.Name, "op", event.Op.String())
			if timer != nil && !timer.Stop() {
				// Drain a tick that fired before the Stop
				select {
				case <-timerC:
				default:
				}
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.apply(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// Keep watching, the next save may fix it
				logger.Error("Re-apply failed", "error", err)
			} else {
				logger.Info("Stack re-applied")
			}
		}
	}
}
