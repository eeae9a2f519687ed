package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a change notification.
type EventType int

const (
	// EventTasksChanged indicates the database file (or its journal) was
	// written.
	EventTasksChanged EventType = iota

	// EventInvalidated signals that the watcher could not classify a change
	// and callers should refresh everything.
	EventInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventTasksChanged:
		return "tasks_changed"
	case EventInvalidated:
		return "invalidated"
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Event is emitted by Watch when underlying storage changes.
type Event struct {
	Type EventType
	Path string
}

// Watch streams change events for the SQLite file at dbPath until ctx is
// cancelled. Callers should drain the returned channel; bursts of writes are
// coalesced into one event. The channel is closed once ctx is done or the
// watcher fails.
func Watch(ctx context.Context, dbPath string) (<-chan Event, error) {
	if dbPath == "" {
		return nil, errors.New("store: database path unknown")
	}
	dir := filepath.Dir(dbPath)
	base := filepath.Base(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure db dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
			}
		})
	}
	if err := watcher.Add(dir); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", dir, err)
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer closeWatcher()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// The consumer is behind; it will refresh on the next event.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.Enqueue(Event{Type: EventInvalidated, Path: dbPath}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				// Matches dayplan.db, dayplan.db-journal and dayplan.db-wal.
				if !strings.HasPrefix(filepath.Base(evt.Name), base) {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				throttle.Enqueue(Event{Type: EventTasksChanged, Path: dbPath}, send)
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces rapid change notifications so consumers refresh
// once per burst of writes.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]Event
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]Event),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev.Type] = ev
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[EventType]Event)
	t.timer = nil
	t.mu.Unlock()

	for _, ev := range pending {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
