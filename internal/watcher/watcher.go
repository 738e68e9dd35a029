// Package watcher reports settled changes to a single file, such as the batch
// file an analyzer rewrites after each run.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler is called for each settled event, one at a time.
type Handler func(ctx context.Context, ev Event)

// Watcher watches one file through its parent directory, so editors and
// tools that replace the file by rename are still seen.
type Watcher struct {
	path   string
	opts   Options
	logger *slog.Logger
	fsw    *fsnotify.Watcher

	mu      sync.Mutex
	pending *pendingChange
	settled chan Event

	closeOnce sync.Once
}

// pendingChange tracks a file that may still be changing.
type pendingChange struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// New creates a watcher for path. The parent directory must exist; the file
// itself may appear later.
func New(path string, logger *slog.Logger, opts Options) (*Watcher, error) {
	opts.setDefaults()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:    abs,
		opts:    opts,
		logger:  logger.With("watch_path", abs),
		fsw:     fsw,
		settled: make(chan Event, 1),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run delivers settled events to handle until ctx is cancelled or the
// watcher is closed. Handler calls never overlap.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer w.cancelPending()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleFsnotifyEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)

		case ev := <-w.settled:
			w.logger.Debug("watched file settled", "event", ev.Type.String(), "size", ev.Size)
			handle(ctx, ev)
		}
	}
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.cancelPending()
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) handleFsnotifyEvent(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}

	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		w.cancelPending()
		w.emit(Event{Type: EventRemoved, Path: w.path})
	case ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create):
		w.startSettling()
	}
}

// startSettling (re)arms the settle timer with the file's current state.
func (w *Watcher) startSettling() {
	info, err := os.Stat(w.path)
	if err != nil || info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.timer.Stop()
	}
	w.pending = &pendingChange{size: info.Size(), modTime: info.ModTime()}
	w.pending.timer = time.AfterFunc(w.opts.SettleDelay, w.checkSettled)
}

// checkSettled emits the change if the file has not changed since the timer
// was armed, and re-arms it otherwise.
func (w *Watcher) checkSettled() {
	w.mu.Lock()
	pending := w.pending
	if pending == nil {
		w.mu.Unlock()
		return
	}

	info, err := os.Stat(w.path)
	if err != nil {
		w.pending = nil
		w.mu.Unlock()
		w.emit(Event{Type: EventRemoved, Path: w.path})
		return
	}

	if info.Size() != pending.size || !info.ModTime().Equal(pending.modTime) {
		pending.size = info.Size()
		pending.modTime = info.ModTime()
		pending.timer = time.AfterFunc(w.opts.SettleDelay, w.checkSettled)
		w.mu.Unlock()
		return
	}

	w.pending = nil
	w.mu.Unlock()

	w.emit(Event{
		Type:    EventChanged,
		Path:    w.path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.timer.Stop()
		w.pending = nil
	}
}

// emit queues ev for Run. When an event is already queued the newer one
// replaces it, since only the latest state of the file matters.
func (w *Watcher) emit(ev Event) {
	for {
		select {
		case w.settled <- ev:
			return
		default:
		}
		select {
		case <-w.settled:
		default:
		}
	}
}
