package database

import "time"

// JournalEvent is one recorded orchestrator outcome.
type JournalEvent struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	SubjectName string    `json:"subject_name,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
