package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/capture"
	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// Validator checks and normalizes the subject before anything else happens.
type Validator func(subject string) (string, error)

// Submitter sends the captured image to the service.
type Submitter[T any] func(ctx context.Context, subject string, img *capture.Image) (T, error)

// Interpreter handles a successful response. The returned Message is the success notification.
type Interpreter[T any] func(subject string, resp T) Outcome

// Pipeline is the capture-then-submit sequence shared by the orchestrators.
// At most one run is in flight; a trigger arriving meanwhile is dropped.
type Pipeline[T any] struct {
	kind        Kind
	camera      Camera
	validate    Validator
	submit      Submitter[T]
	interpret   Interpreter[T]
	failureText string

	notifier  notify.Notifier
	logger    *slog.Logger
	journal   Journal
	navigator Navigator

	inFlight atomic.Bool
}

// NewPipeline wires a pipeline. validate may be nil.
func NewPipeline[T any](kind Kind, cam Camera, validate Validator, submit Submitter[T], interpret Interpreter[T], failureText string, deps Deps) *Pipeline[T] {
	deps = deps.withDefaults()
	return &Pipeline[T]{
		kind:        kind,
		camera:      cam,
		validate:    validate,
		submit:      submit,
		interpret:   interpret,
		failureText: failureText,
		notifier:    deps.Notifier,
		logger:      deps.Logger.With("component", string(kind)),
		journal:     deps.Journal,
		navigator:   deps.Navigator,
	}
}

// InFlight reports whether a run is currently in progress.
func (p *Pipeline[T]) InFlight() bool {
	return p.inFlight.Load()
}

// Run executes one pass. It never panics on service or camera failures; they are
// turned into a notification and a failed Outcome. A successful Outcome with a
// Navigate route navigates after its notification is shown.
func (p *Pipeline[T]) Run(ctx context.Context, subject string) Outcome {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Debug("operation already in flight, trigger dropped")
		return Outcome{Kind: p.kind, Status: StatusDropped}
	}
	defer p.inFlight.Store(false)

	out := p.run(ctx, subject)
	if out.Message != "" {
		if out.Succeeded() {
			notify.Success(p.notifier, out.Message)
		} else {
			notify.Error(p.notifier, out.Message)
		}
	}
	if out.Succeeded() && out.Navigate != "" && p.navigator != nil {
		p.navigator.Navigate(out.Navigate)
	}
	p.record(ctx, out)
	return out
}

func (p *Pipeline[T]) run(ctx context.Context, subject string) Outcome {
	if p.validate != nil {
		normalized, err := p.validate(subject)
		if err != nil {
			p.logger.Info("input rejected", "error", err)
			return p.failed(subject, err.Error(), err)
		}
		subject = normalized
	}

	if !p.camera.Ready() {
		p.logger.Warn("camera is not ready")
		return p.failed(subject, MsgCameraNotReady, camera.ErrNotReady)
	}

	img, err := capture.Capture(p.camera)
	if err != nil {
		if errors.Is(err, camera.ErrNotReady) {
			p.logger.Warn("camera is not ready")
			return p.failed(subject, MsgCameraNotReady, err)
		}
		p.logger.Error("failed to capture frame", "error", err)
		return p.failed(subject, p.failureText, fmt.Errorf("capturing image: %w", err))
	}

	p.logger.Debug("submitting image", "bytes", len(img.Bytes()))
	resp, err := p.submit(ctx, subject, img)
	if err != nil {
		if se, ok := recognition.AsServiceError(err); ok {
			p.logger.Warn("service rejected request", "status", se.Status, "error", se.Message)
			return p.failed(subject, se.Message, err)
		}
		p.logger.Error("request failed", "error", err)
		return p.failed(subject, p.failureText, err)
	}

	out := p.interpret(subject, resp)
	out.Kind = p.kind
	out.Status = StatusSucceeded
	p.logger.Info("operation succeeded", "subject", out.Subject, "detail", out.Detail)
	return out
}

func (p *Pipeline[T]) failed(subject, message string, err error) Outcome {
	return Outcome{Kind: p.kind, Status: StatusFailed, Message: message, Subject: subject, Err: err}
}

func (p *Pipeline[T]) record(ctx context.Context, out Outcome) {
	if p.journal == nil {
		return
	}
	if err := p.journal.Record(ctx, out); err != nil {
		p.logger.Warn("failed to journal outcome", "error", err)
	}
}
