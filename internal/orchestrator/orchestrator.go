// Package orchestrator sequences a camera capture and a round trip to the
// recognition service for the two kiosk workflows: enrollment and attendance.
package orchestrator

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// ErrValidation marks input rejected before the camera or the service is touched.
var ErrValidation = errors.New("invalid input")

// Operator-facing messages.
const (
	MsgCameraNotReady    = "Camera is not ready"
	MsgNameRequired      = "Please enter student name"
	MsgEnrolled          = "Student registered successfully!"
	MsgEnrollFailed      = "Error registering student"
	MsgAttendanceMarked  = "Attendance marked successfully"
	MsgRecognitionFailed = "Error recognizing face"
)

// Kind names the workflow an Outcome belongs to.
type Kind string

// Kind constants.
const (
	KindEnroll    Kind = "enroll"
	KindRecognize Kind = "recognize"
)

// Status is how a run ended.
type Status string

// Status constants.
const (
	// StatusDropped means the trigger arrived while another run was in flight.
	StatusDropped   Status = "dropped"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Outcome describes a finished run. Message is the notification the operator saw;
// Detail is the message returned by the service, if any.
type Outcome struct {
	Kind    Kind   `json:"kind"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Subject string `json:"subject,omitempty"`
	Detail  string `json:"detail,omitempty"`
	// Navigate is the route shown after the success notification.
	Navigate string `json:"navigate,omitempty"`
	Err      error  `json:"-"`
}

// Succeeded reports whether the run completed successfully.
func (o Outcome) Succeeded() bool { return o.Status == StatusSucceeded }

// Camera is the part of a camera session the orchestrators read from.
type Camera interface {
	Ready() bool
	Frame() (image.Image, error)
}

// Navigator switches the kiosk to another screen.
type Navigator interface {
	Navigate(route string)
}

// Journal records outcomes for auditing. Record errors are logged and otherwise ignored.
type Journal interface {
	Record(ctx context.Context, outcome Outcome) error
}

// RecognizeService is the recognition half of the remote service.
type RecognizeService interface {
	Recognize(ctx context.Context, imageDataURL string) (*recognition.RecognizeResponse, error)
}

// EnrollService is the enrollment half of the remote service.
type EnrollService interface {
	AddStudent(ctx context.Context, name string, jpeg []byte) (*recognition.EnrollResponse, error)
}

// Deps are the collaborators shared by both orchestrators. Nil fields fall back to
// no-op implementations and slog.Default.
type Deps struct {
	Notifier  notify.Notifier
	Logger    *slog.Logger
	Journal   Journal
	Navigator Navigator
}

func (d Deps) withDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = notify.Discard{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// validationError carries the operator-facing text of a rejected input.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }
