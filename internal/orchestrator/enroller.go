package orchestrator

import (
	"context"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/capture"
	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/roster"
)

// Enroller registers a new student from the name field and the live frame.
// The camera session is left running after a successful enrollment.
type Enroller struct {
	pipeline *Pipeline[*recognition.EnrollResponse]
	service  EnrollService

	mu   sync.Mutex
	name string
}

// NewEnroller creates an enroller with an empty name field.
func NewEnroller(cam Camera, service EnrollService, deps Deps) *Enroller {
	e := &Enroller{service: service}
	e.pipeline = NewPipeline(KindEnroll, cam, validateName, e.submit, e.interpret, MsgEnrollFailed, deps)
	return e
}

// SetName updates the name field.
func (e *Enroller) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.name = name
}

// Name returns the name field.
func (e *Enroller) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

// InFlight reports whether an enrollment is in progress.
func (e *Enroller) InFlight() bool {
	return e.pipeline.InFlight()
}

// Run enrolls the student named in the name field. A blank name is rejected
// without touching the camera or the service.
func (e *Enroller) Run(ctx context.Context) Outcome {
	return e.pipeline.Run(ctx, e.Name())
}

func validateName(name string) (string, error) {
	normalized := roster.NormalizeStudentName(name)
	if normalized == "" {
		return "", &validationError{msg: MsgNameRequired}
	}
	return normalized, nil
}

func (e *Enroller) submit(ctx context.Context, name string, img *capture.Image) (*recognition.EnrollResponse, error) {
	return e.service.AddStudent(ctx, name, img.Bytes())
}

func (e *Enroller) interpret(name string, resp *recognition.EnrollResponse) Outcome {
	e.SetName("")
	return Outcome{Message: MsgEnrolled, Subject: name, Detail: resp.Message}
}
