package orchestrator

import (
	"context"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/capture"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// Recognizer marks attendance by matching the live frame against enrolled students.
type Recognizer struct {
	pipeline *Pipeline[*recognition.RecognizeResponse]
	service  RecognizeService

	mu         sync.Mutex
	lastResult string
}

// NewRecognizer creates a recognizer. navigator may be nil.
func NewRecognizer(cam Camera, service RecognizeService, navigator Navigator, deps Deps) *Recognizer {
	r := &Recognizer{service: service}
	deps.Navigator = navigator
	r.pipeline = NewPipeline(KindRecognize, cam, nil, r.submit, r.interpret, MsgRecognitionFailed, deps)
	return r
}

// Run captures the current frame and submits it as an inline data URL.
// On a match the attendance screen is shown exactly once.
func (r *Recognizer) Run(ctx context.Context) Outcome {
	return r.pipeline.Run(ctx, "")
}

// InFlight reports whether a recognition is in progress.
func (r *Recognizer) InFlight() bool {
	return r.pipeline.InFlight()
}

// LastResult returns the message of the last successful recognition.
func (r *Recognizer) LastResult() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastResult
}

func (r *Recognizer) submit(ctx context.Context, _ string, img *capture.Image) (*recognition.RecognizeResponse, error) {
	return r.service.Recognize(ctx, img.DataURL())
}

func (r *Recognizer) interpret(_ string, resp *recognition.RecognizeResponse) Outcome {
	r.mu.Lock()
	r.lastResult = resp.Message
	r.mu.Unlock()

	return Outcome{
		Message:  MsgAttendanceMarked,
		Subject:  resp.Name,
		Detail:   resp.Message,
		Navigate: constants.RouteAttendance,
	}
}
