// Package watcher re-runs a function when a file changes.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler is called after the watched file changed. Calls never overlap.
type Handler func(ctx context.Context) error

// FileWatcher watches a single file and calls its handler once per burst of changes.
//
// The directory containing the file is watched instead of the file itself so that editors replacing the file on
// save keep being observed.
type FileWatcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	logger   *slog.Logger

	ready     chan struct{}
	readyOnce sync.Once
}

type Option func(w *FileWatcher)

// WithDebounce sets how long the watcher waits for more changes before calling the handler. Default: 200ms.
func WithDebounce(d time.Duration) Option {
	return func(w *FileWatcher) {
		w.debounce = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *FileWatcher) {
		w.logger = logger
	}
}

func New(path string, handler Handler, opts ...Option) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &FileWatcher{
		path:     abs,
		handler:  handler,
		debounce: 200 * time.Millisecond,
		logger:   slog.Default(),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch blocks until ctx is canceled or the handler returns an error. A canceled context is not an error.
func (w *FileWatcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create a watcher: %w", err)
	}
	defer fw.Close()

	err = fw.Add(filepath.Dir(w.path))
	if err != nil {
		return fmt.Errorf("failed to watch %v: %w", w.path, err)
	}
	w.logger.Debug("watching", slog.String("path", w.path), slog.Duration("debounce", w.debounce))
	w.readyOnce.Do(func() {
		close(w.ready)
	})

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("file changed", slog.String("path", event.Name), slog.String("op", event.Op.String()))

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
				continue
			}
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
			w.logger.Warn("watcher error", slog.String("error", err.Error()))
		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.handler(ctx); err != nil {
				return err
			}
		}
	}
}
