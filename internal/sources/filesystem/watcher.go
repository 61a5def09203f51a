// Package filesystem watches the document directory and triggers
// re-ingestion when the corpus changes on disk.
package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nyayalabs/nyaya-cli/internal/logger"
)

// DefaultDebounce coalesces bursts of filesystem events into one
// trigger. Editors and downloads touch files several times in a row.
const DefaultDebounce = 2 * time.Second

// Watcher observes a directory for PDF changes and invokes a callback
// after the events settle.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func(ctx context.Context)
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce sets the settle window before the callback fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for dir. onChange runs after changes settle.
func New(dir string, onChange func(ctx context.Context), opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		debounce: DefaultDebounce,
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch blocks until the context is cancelled, invoking the callback
// whenever PDF files in the directory change.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("watching %s for document changes", w.dir)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("document change: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-timerCh:
			timer = nil
			timerCh = nil
			w.onChange(ctx)
		}
	}
}

// relevant reports whether the event concerns a PDF being added,
// modified, renamed, or removed.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create | fsnotify.Write | fsnotify.Rename | fsnotify.Remove) {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".pdf")
}
