// Package settings watches the Claude settings files that carry credentials.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/glm-statusline/internal/logger"
)

// DebounceInterval coalesces bursts of file events into one change.
const DebounceInterval = 100 * time.Millisecond

// EventType defines the type of settings event.
type EventType int

const (
	EventChanged EventType = iota
	EventError
)

// Event reports a settings change or a watcher failure.
type Event struct {
	Error error
	Path  string
	Type  EventType
}

// Watcher reports changes to a fixed set of files. It watches their parent
// directories so files created after start are noticed too.
type Watcher struct {
	mu            sync.Mutex
	files         map[string]bool
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New starts watching files. Files whose directory does not exist are skipped.
func New(files []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	w := &Watcher{
		files:     make(map[string]bool),
		watcher:   fsw,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, file := range files {
		file = filepath.Clean(file)
		w.files[file] = true

		dir := filepath.Dir(file)
		if dirs[dir] {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			logger.Warn("failed to watch settings directory", "dir", dir, "error", err)
			continue
		}
		dirs[dir] = true
	}

	go w.watchLoop()
	return w, nil
}

// Events returns the event channel.
func (w *Watcher) Events() <-chan Event {
	return w.eventChan
}

// Watched returns the directories being watched.
func (w *Watcher) Watched() []string {
	return w.watcher.WatchList()
}

// watchLoop handles file system events with debouncing.
func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only care about our settings files
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				// Debounce rapid changes
				w.mu.Lock()
				if w.debounceTimer != nil {
					w.debounceTimer.Stop()
				}
				path := event.Name
				w.debounceTimer = time.AfterFunc(DebounceInterval, func() {
					w.sendEvent(Event{Type: EventChanged, Path: path})
				})
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendEvent(Event{Type: EventError, Error: err})

		case <-w.stopChan:
			return
		}
	}
}

// sendEvent sends an event without blocking, dropping the oldest queued one when full.
func (w *Watcher) sendEvent(event Event) {
	select {
	case <-w.stopChan:
		return
	default:
	}

	select {
	case w.eventChan <- event:
	default:
		select {
		case <-w.eventChan:
		default:
		}
		select {
		case w.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopChan)

		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()

		err = w.watcher.Close()
	})
	return err
}
