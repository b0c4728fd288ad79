package content

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/GoCodeAlone/modular"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

var ErrWatcherClosed = errors.New("content watcher event stream closed")

type WatcherOption func(*Watcher)

func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(l modular.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithReloadHandler is called after each successful reload with the new
// catalog, and with the error of each failed one.
func WithReloadHandler(ok func(*Content), failed func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = ok
		w.onFailure = failed
	}
}

// Watcher reloads a content file into a Store when it changes on disk. A
// reload that fails to parse or validate leaves the previous catalog live.
type Watcher struct {
	path      string
	store     *Store
	debounce  time.Duration
	logger    modular.Logger
	onReload  func(*Content)
	onFailure func(error)
}

func NewWatcher(path string, store *Store, opts ...WatcherOption) (*Watcher, error) {
	if _, err := FormatFor(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve content path %s: %w", path, err)
	}
	w := &Watcher{path: abs, store: store, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path is the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run watches until ctx is cancelled. It watches the parent directory so a
// save that replaces the file through a rename is still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create content watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.debug("Watching content file", "path", w.path, "debounce", w.debounce)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if !w.relevant(ev) {
				continue
			}
			// every event restarts the quiet window
			settle = time.After(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.warn("Content watcher error", "error", err)

		case <-settle:
			settle = nil
			if _, err := w.Reload(); err != nil {
				w.warn("Content reload failed, keeping previous catalog", "path", w.path, "error", err)
			}
		}
	}
}

// Reload reads the file now and swaps it into the store.
func (w *Watcher) Reload() (*Content, error) {
	c, err := Load(w.path)
	if err != nil {
		if w.onFailure != nil {
			w.onFailure(err)
		}
		return nil, err
	}
	w.store.Swap(c)
	if w.logger != nil {
		w.logger.Info("Content reloaded", "path", w.path, "projects", len(c.Projects), "services", len(c.Services))
	}
	if w.onReload != nil {
		w.onReload(c)
	}
	return c, nil
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) debug(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}

func (w *Watcher) warn(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Warn(msg, args...)
	}
}
