package database

import (
	"context"
)

// JournalWriter appends kiosk events.
type JournalWriter interface {
	// Append stores a single event. Events are never updated.
	Append(ctx context.Context, event JournalEvent) error
}

// JournalReader lists kiosk events.
type JournalReader interface {
	// Recent returns up to limit events, newest first. An empty kind matches every kind.
	Recent(ctx context.Context, kind string, limit int) ([]JournalEvent, error)
	// Count returns the number of stored events.
	Count(ctx context.Context) (int, error)
}

// Journal is the full journal store.
type Journal interface {
	JournalWriter
	JournalReader
}
