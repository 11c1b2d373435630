package notify

import (
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// EventType identifies what a broadcast event carries.
type EventType string

// EventType constants.
const (
	EventNotification EventType = "notification"
	EventDismiss      EventType = "dismiss"
	EventNavigate     EventType = "navigate"
)

// Event is what SSE listeners receive.
type Event struct {
	Type         EventType     `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
	ID           string        `json:"id,omitempty"`
	Route        string        `json:"route,omitempty"`
}

// Broadcaster fans notifications and navigation events out to listeners and
// remembers recent notifications so a screen that connects late still shows them.
type Broadcaster struct {
	listeners []chan Event
	recent    []Notification
	now       func() time.Time
	mu        sync.RWMutex
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{now: time.Now}
}

// AddListener adds an event listener.
func (b *Broadcaster) AddListener() chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, constants.EventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (b *Broadcaster) RemoveListener(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// ListenerCount returns the number of connected listeners.
func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// send delivers an event to all listeners. Caller must hold at least the read lock.
func (b *Broadcaster) send(event Event) {
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// Notify implements Notifier.
func (b *Broadcaster) Notify(n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.recent = append(b.pruneLocked(), n)
	if len(b.recent) > constants.RecentNotificationLimit {
		b.recent = b.recent[len(b.recent)-constants.RecentNotificationLimit:]
	}
	b.send(Event{Type: EventNotification, Notification: &n})
}

// Navigate publishes a navigation event.
func (b *Broadcaster) Navigate(route string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.send(Event{Type: EventNavigate, Route: route})
}

// Dismiss removes a notification before it expires. Returns false if it is unknown.
func (b *Broadcaster) Dismiss(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, n := range b.recent {
		if n.ID == id {
			b.recent = append(b.recent[:i], b.recent[i+1:]...)
			b.send(Event{Type: EventDismiss, ID: id})
			return true
		}
	}
	return false
}

// Recent returns notifications that are neither expired nor dismissed, oldest first.
func (b *Broadcaster) Recent() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recent = b.pruneLocked()
	out := make([]Notification, len(b.recent))
	copy(out, b.recent)
	return out
}

func (b *Broadcaster) pruneLocked() []Notification {
	now := b.now()
	kept := b.recent[:0]
	for _, n := range b.recent {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	return kept
}
