// Package watch triggers a callback when the desktop settles after changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"desksort/internal/desk"
)

// Options tune when the callback fires.
type Options struct {
	// Debounce is the quiet period after the last relevant event.
	Debounce time.Duration
	// Interval additionally fires the callback periodically. Zero disables it.
	Interval time.Duration
	// Ignore filters out events by entry name.
	Ignore func(name string) bool
}

// Watcher watches a single directory, non-recursively.
type Watcher struct {
	dir      string
	opts     Options
	logger   desk.Logger
	onChange func(context.Context)
}

func New(dir string, opts Options, logger desk.Logger, onChange func(context.Context)) *Watcher {
	if opts.Ignore == nil {
		opts.Ignore = func(string) bool { return false }
	}
	return &Watcher{dir: dir, opts: opts, logger: logger, onChange: onChange}
}

// Run blocks until ctx is cancelled. Watch errors are logged, not returned;
// only failing to start watching is an error.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.logger.Info("watching", "path", w.dir, "debounce", w.opts.Debounce.String())

	debounce := time.NewTimer(w.opts.Debounce)
	stopTimer(debounce)

	var tick <-chan time.Time
	if w.opts.Interval > 0 {
		ticker := time.NewTicker(w.opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer(debounce)
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			stopTimer(debounce)
			debounce.Reset(w.opts.Debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		case <-debounce.C:
			w.onChange(ctx)
		case <-tick:
			w.onChange(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	return !w.opts.Ignore(filepath.Base(event.Name))
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
