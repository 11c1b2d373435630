package postgres

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
)

// JournalRepository provides PostgreSQL-backed journal storage
type JournalRepository struct {
	pool *Pool
}

// NewJournalRepository creates a new PostgreSQL journal repository
func NewJournalRepository(pool *Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// Append stores an event
func (r *JournalRepository) Append(ctx context.Context, event database.JournalEvent) error {
	query := `
		INSERT INTO kiosk_events (id, kind, status, message, subject_name, detail, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	err := r.pool.exec(ctx, query,
		event.ID, event.Kind, event.Status, event.Message,
		event.SubjectName, event.Detail, event.Error, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append journal event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first. An empty kind matches every kind.
func (r *JournalRepository) Recent(ctx context.Context, kind string, limit int) ([]database.JournalEvent, error) {
	if limit <= 0 {
		limit = constants.DefaultJournalLimit
	}

	query := `
		SELECT id, kind, status, message, subject_name, detail, error, created_at
		FROM kiosk_events
		WHERE $1::text = '' OR kind = $1::text
		ORDER BY created_at DESC, id
		LIMIT $2
	`

	rows, err := r.pool.query(ctx, query, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("list journal events: %w", err)
	}
	defer rows.Close()

	var events []database.JournalEvent
	for rows.Next() {
		var e database.JournalEvent
		if err := rows.Scan(&e.ID, &e.Kind, &e.Status, &e.Message, &e.SubjectName, &e.Detail, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal events: %w", err)
	}
	return events, nil
}

// Count returns the number of stored events
func (r *JournalRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.queryRow(ctx, "SELECT COUNT(*) FROM kiosk_events").Scan(&count); err != nil {
		return 0, fmt.Errorf("count journal events: %w", err)
	}
	return count, nil
}
