// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// MockJournal is an in-memory implementation of database.Journal.
type MockJournal struct {
	mu     sync.RWMutex
	events []database.JournalEvent

	// Error injection
	AppendError error
	RecentError error
	CountError  error
}

// NewMockJournal creates an empty mock journal.
func NewMockJournal() *MockJournal {
	return &MockJournal{}
}

// Append stores an event.
func (m *MockJournal) Append(ctx context.Context, event database.JournalEvent) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Recent returns up to limit events of kind, newest first.
func (m *MockJournal) Recent(ctx context.Context, kind string, limit int) ([]database.JournalEvent, error) {
	if m.RecentError != nil {
		return nil, m.RecentError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []database.JournalEvent
	for i := len(m.events) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if kind != "" && m.events[i].Kind != kind {
			continue
		}
		out = append(out, m.events[i])
	}
	return out, nil
}

// Count returns the number of stored events.
func (m *MockJournal) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events), nil
}

// Events returns a copy of every stored event in insertion order.
func (m *MockJournal) Events() []database.JournalEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]database.JournalEvent, len(m.events))
	copy(out, m.events)
	return out
}
