// Package watch observes the documentation root for file creations and
// writes, debouncing editor save storms before handing surviving events
// to the reconciler (spec §4.3.2). Grounded on fsnotify usage in
// jinterlante1206-AleutianLocal's file watcher, generalized from a full
// recursive graph-update watcher down to the single flat directory this
// domain's completion-artifact convention needs.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Handler is invoked once per debounced, surviving file event with its
// basename relative to the watched root.
type Handler func(basename string)

// Watcher wraps an fsnotify.Watcher with a debounce window. It never
// terminates on a per-file handler error; Handler is expected to log its
// own failures (the reconciler's SyncFile already does).
type Watcher struct {
	root     string
	debounce time.Duration
	handler  Handler
	log      zerolog.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New builds a Watcher rooted at root with the given debounce window.
func New(root string, debounce time.Duration, handler Handler, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		root:     root,
		debounce: debounce,
		handler:  handler,
		log:      log,
		fsw:      fsw,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Run blocks until ctx is cancelled or Close is called, dispatching
// debounced events to the handler. Meant to run in its own goroutine,
// mirroring the dashboard loop's cooperative, single-threaded shape.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.debounceEvent(ctx, filepath.Base(event.Name))
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// debounceEvent coalesces repeated events for the same basename within
// the debounce window into a single handler call, the "editor save
// storm" case spec §4.3.2 calls out.
func (w *Watcher) debounceEvent(ctx context.Context, basename string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, exists := w.pending[basename]; exists {
		t.Stop()
	}
	w.pending[basename] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, basename)
		w.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		default:
		}
		w.handler(basename)
	})
}

// Close releases the underlying fsnotify watcher and cancels any pending
// debounce timers.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.pending {
		t.Stop()
	}
	w.pending = nil
	w.mu.Unlock()
	return w.fsw.Close()
}
