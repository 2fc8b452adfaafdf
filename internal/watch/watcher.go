package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"tidy-go/internal/tidy"
)

// OrganizeFunc is the single entry point the watcher drives: "organize this
// folder now". The engine behind it is idempotent on an already-organized
// folder, so redundant triggers are harmless.
type OrganizeFunc func(ctx context.Context) error

// Watcher monitors one directory for new entries and invokes the organize
// entry point after a quiet period. Debouncing and batching of rapid event
// bursts is the watcher's responsibility, not the engine's.
type Watcher struct {
	dir      string
	debounce time.Duration
	organize OrganizeFunc
	logger   tidy.Logger
}

// New creates a watcher for dir. debounce is the quiet period to wait after
// the last filesystem event before triggering a pass.
func New(dir string, debounce time.Duration, organize OrganizeFunc, logger tidy.Logger) *Watcher {
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		organize: organize,
		logger:   logger,
	}
}

// Run watches until ctx is cancelled. Create and rename events arm a
// debounce timer; when it fires without further events, one organize pass
// runs. Errors from a pass are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Info("watching for new files", "dir", w.dir, "debounce", w.debounce)

	// The timer is armed lazily on the first interesting event.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped", "dir", w.dir)
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("filesystem event", "op", event.Op.String(), "name", event.Name)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-timer.C:
			if err := w.organize(ctx); err != nil {
				w.logger.Error("organize pass failed", "dir", w.dir, "error", err)
			}
		}
	}
}
