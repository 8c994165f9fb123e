// Package watcher monitors the open document for writes by other
// processes, with debouncing, and publishes change events through the
// broker.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/hollow/internal/log"
	"github.com/zjrosen/hollow/internal/pubsub"
)

// Watcher monitors one document file for external changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	broker    *pubsub.Broker[string]
	done      chan struct{}
	ownQuiet  time.Duration

	mu         sync.Mutex
	quietUntil time.Time
}

// Config holds watcher configuration options.
type Config struct {
	Path        string
	DebounceDur time.Duration
	// OwnWriteQuiet is how long after NoteOwnWrite events are dropped,
	// so the editor's own saves do not raise external-change notices.
	OwnWriteQuiet time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(path string) Config {
	return Config{
		Path:          path,
		DebounceDur:   500 * time.Millisecond,
		OwnWriteQuiet: 2 * time.Second,
	}
}

// New creates a watcher that publishes FileChangedEvent to broker.
func New(cfg Config, broker *pubsub.Broker[string]) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      cfg.Path,
		debounce:  cfg.DebounceDur,
		broker:    broker,
		done:      make(chan struct{}),
		ownQuiet:  cfg.OwnWriteQuiet,
	}, nil
}

// Start begins watching the document's directory. Watching the
// directory rather than the file survives atomic replace-by-rename
// saves, which swap the inode out from under a file watch.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	go w.loop()
	log.Debug(log.CatWatcher, "watching document", "path", w.path)
	return nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// NoteOwnWrite opens a quiet window during which change events are
// dropped. Call it right after the editor saves the document.
func (w *Watcher) NoteOwnWrite() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.quietUntil = time.Now().Add(w.ownQuiet)
}

func (w *Watcher) inQuietWindow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Now().Before(w.quietUntil)
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				pending = false
				if w.inQuietWindow() {
					continue
				}
				w.broker.Publish(pubsub.FileChangedEvent, w.path)
				log.Debug(log.CatWatcher, "change published", "path", w.path)
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent reports whether the event is a write to the watched
// document. The editor's own temp and backup siblings are ignored.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(event.Name) == filepath.Base(w.path)
}
