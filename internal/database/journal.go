// Package database holds the storage contracts for the kiosk journal.
package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-attendance/internal/orchestrator"
)

// Recorder turns orchestrator outcomes into journal events.
type Recorder struct {
	writer JournalWriter
	now    func() time.Time
}

// NewRecorder creates a recorder backed by writer.
func NewRecorder(writer JournalWriter) *Recorder {
	return &Recorder{writer: writer, now: time.Now}
}

// Record implements orchestrator.Journal. Dropped triggers are not journaled.
func (r *Recorder) Record(ctx context.Context, outcome orchestrator.Outcome) error {
	if outcome.Status == orchestrator.StatusDropped {
		return nil
	}
	return r.writer.Append(ctx, EventFromOutcome(outcome, r.now()))
}

// EventFromOutcome builds the event stored for outcome.
func EventFromOutcome(outcome orchestrator.Outcome, at time.Time) JournalEvent {
	event := JournalEvent{
		ID:          uuid.NewString(),
		Kind:        string(outcome.Kind),
		Status:      string(outcome.Status),
		Message:     outcome.Message,
		SubjectName: outcome.Subject,
		Detail:      outcome.Detail,
		CreatedAt:   at.UTC(),
	}
	if outcome.Err != nil {
		event.Error = outcome.Err.Error()
	}
	return event
}
