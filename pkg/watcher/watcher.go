// Package watcher turns files dropped into the export directory into
// validation runs. Exports are copied in by operators or by the switch
// tooling's scheduled dump, so we debounce per file to avoid validating a
// half-written copy.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long a file must be quiet before it is handed to
// the handler.
const DefaultDebounce = 500 * time.Millisecond

// Handler is called with the path of a settled export file.
type Handler func(path string)

// Watcher watches a directory for new or rewritten CSV exports.
type Watcher struct {
	log      *logrus.Logger
	dir      string
	debounce time.Duration
	handler  Handler

	watcher *fsnotify.Watcher

	mu     sync.Mutex
	timers map[string]*time.Timer

	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher creates a watcher over dir. A zero debounce uses
// DefaultDebounce.
func NewWatcher(log *logrus.Logger, dir string, debounce time.Duration, handler Handler) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()

		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		log:      log,
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		watcher:  fsw,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

// Start begins dispatching events until the context is cancelled or Stop
// is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)

		if err := w.watcher.Close(); err != nil {
			w.log.WithError(err).Error("Failed to close fsnotify watcher")
		}
	})
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()

			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.log.WithError(err).Error("Watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	if !strings.EqualFold(filepath.Ext(event.Name), ".csv") {
		return
	}

	w.log.WithFields(logrus.Fields{
		"path": event.Name,
		"op":   event.Op.String(),
	}).Debug("Export file changed")

	w.mu.Lock()
	defer w.mu.Unlock()

	// Restart the per-file timer; the handler only fires once the file
	// has been quiet for the debounce window.
	if timer, ok := w.timers[event.Name]; ok {
		timer.Stop()
	}

	path := event.Name
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}

		w.handler(path)
	})
}
