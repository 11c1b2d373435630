// Package notify delivers short-lived, dismissible notifications to the kiosk operator.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Level classifies a notification.
type Level string

// Level constants.
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a single operator-facing message.
type Notification struct {
	ID        string        `json:"id"`
	Level     Level         `json:"level"`
	Message   string        `json:"message"`
	Action    string        `json:"action"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// New builds a notification with the default action and duration.
func New(level Level, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Action:    constants.NotificationAction,
		Duration:  constants.NotificationDuration,
		CreatedAt: time.Now(),
	}
}

// Expired reports whether the notification should no longer be shown.
func (n Notification) Expired(now time.Time) bool {
	return n.Duration > 0 && now.Sub(n.CreatedAt) >= n.Duration
}

// Notifier receives notifications produced by the orchestrators and the camera.
type Notifier interface {
	Notify(n Notification)
}

// Info, Success and Error are shorthands for sending a new notification.
func Info(n Notifier, message string)    { n.Notify(New(LevelInfo, message)) }
func Success(n Notifier, message string) { n.Notify(New(LevelSuccess, message)) }
func Error(n Notifier, message string)   { n.Notify(New(LevelError, message)) }

// Console prints notifications as single lines, used by the one-shot CLI commands.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console notifier writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Notify writes the notification to the console.
func (c *Console) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := "•"
	switch n.Level {
	case LevelSuccess:
		prefix = "✅"
	case LevelError:
		prefix = "❌"
	}
	fmt.Fprintf(c.out, "%s %s\n", prefix, n.Message)
}

// Discard drops every notification.
type Discard struct{}

// Notify implements Notifier.
func (Discard) Notify(Notification) {}

// Multi forwards every notification to each non-nil notifier in order.
type Multi []Notifier

// NewMulti builds a Multi, skipping nil notifiers.
func NewMulti(notifiers ...Notifier) Multi {
	out := make(Multi, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Notify implements Notifier.
func (m Multi) Notify(n Notification) {
	for _, target := range m {
		target.Notify(n)
	}
}
