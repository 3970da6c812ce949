// Package watcher implements file system watching for live reloading.
package watcher

import (
	"context"
	"iter"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/jasmin/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
// fsnotify watches directories, so the parent directory of every path is added
// and events are filtered down to the requested files.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	watched   map[string]struct{}
	events    chan ports.WatchEvent
	stopOnce  sync.Once
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "create file watcher")
	}
	return &Watcher{
		fsWatcher: watcher,
		logger:    logger,
		watched:   make(map[string]struct{}),
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Factory returns a ports.WatcherFactory creating fsnotify watchers that log to logger.
func Factory(logger ports.Logger) ports.WatcherFactory {
	return func() (ports.Watcher, error) {
		return NewWatcher(logger)
	}
}

// Start begins watching the given files. A watcher that fails to start is stopped.
func (w *Watcher) Start(ctx context.Context, paths []string) error {
	dirs := make(map[string]struct{})
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			_ = w.Stop()
			return zerr.With(zerr.Wrap(err, "watch file"), "path", path)
		}
		w.watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			_ = w.Stop()
			return zerr.With(zerr.Wrap(err, "watch directory"), "path", dir)
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fsWatcher.Close()
	})
	return err
}

// Events returns an iterator of file system events.
// The iterator ends when the watcher is stopped or its context is canceled.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := w.convertEvent(event)
			if !ok {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Error(zerr.Wrap(err, "file watcher"))
			}
		}
	}
}

// convertEvent converts an fsnotify event for a watched file to a ports.WatchEvent.
func (w *Watcher) convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	path := filepath.Clean(event.Name)
	if _, ok := w.watched[path]; !ok {
		return ports.WatchEvent{}, false
	}

	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: path, Operation: op}, true
}

// Watch starts w on paths and calls onChange with the changed paths after
// each debounce window. It blocks until ctx is canceled and stops w on return.
// An empty watch set returns immediately.
func Watch(ctx context.Context, w ports.Watcher, paths []string, onChange func([]string)) error {
	if len(paths) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := w.Start(ctx, paths); err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	debouncer := NewDebouncer(DefaultDebounceWindow, onChange)
	defer debouncer.Flush()

	for event := range w.Events() {
		debouncer.Add(event.Path)
	}
	return nil
}

// Follow watches the latest watch set received from watchSets, each one with a
// new watcher from newWatcher. A watch set equal to the watched one is ignored.
// It blocks until ctx is canceled or a watcher fails.
func Follow(
	ctx context.Context,
	newWatcher ports.WatcherFactory,
	watchSets <-chan []string,
	onChange func([]string),
) error {
	var (
		current []string
		cancel  context.CancelFunc = func() {}
		done    chan error
	)
	stop := func() error {
		cancel()
		if done == nil {
			return nil
		}
		err := <-done
		done = nil
		return err
	}
	defer func() { _ = stop() }()

	for {
		select {
		case <-ctx.Done():
			return stop()
		case err := <-done:
			done = nil
			cancel()
			if err != nil {
				return err
			}
		case next := <-watchSets:
			if done != nil && slices.Equal(next, current) {
				continue
			}
			if err := stop(); err != nil {
				return err
			}
			current = next
			if len(next) == 0 {
				continue
			}

			w, err := newWatcher()
			if err != nil {
				return err
			}
			var watchCtx context.Context
			watchCtx, cancel = context.WithCancel(ctx)
			result := make(chan error, 1)
			done = result
			go func() { result <- Watch(watchCtx, w, next, onChange) }()
		}
	}
}
