package camera

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/notify"
)

// State is the lifecycle state of a Session.
type State int

// State constants.
const (
	StateIdle State = iota
	StateStarting
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state name in JSON responses.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name produced by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{StateIdle, StateStarting, StateReady, StateFailed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown camera state %q", text)
}

// Session is the single owner of a device stream. A Ready session always holds a
// live stream; Failed and Idle sessions hold none.
type Session struct {
	device   Device
	notifier notify.Notifier
	logger   *slog.Logger

	mu     sync.Mutex
	state  State
	stream Stream
}

// NewSession creates an Idle session for device.
func NewSession(device Device, notifier notify.Notifier, logger *slog.Logger) *Session {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		device:   device,
		notifier: notifier,
		logger:   logger.With("component", "camera"),
	}
}

// Start opens the device. Failures move the session to Failed, notify the operator
// and are returned for callers that want to log them; Start never panics.
// Starting a session that is already Starting or Ready is a no-op.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateStarting || s.state == StateReady {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStarting
	s.mu.Unlock()

	s.logger.Info("starting camera")
	stream, err := s.device.Open(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateFailed
		s.stream = nil
		s.logger.Error("error accessing camera", "error", err)
		notify.Error(s.notifier, "Error accessing camera")
		return fmt.Errorf("starting camera: %w", err)
	}

	// Stop was called while the device was opening.
	if s.state != StateStarting {
		stopAll(stream)
		return fmt.Errorf("starting camera: %w", ErrNotReady)
	}

	s.stream = stream
	s.state = StateReady
	s.logger.Info("camera started", "tracks", len(stream.Tracks()))
	return nil
}

// Stop releases the stream: every track is stopped, then the handle is cleared.
// It is safe to call on an Idle or already stopped session.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream != nil {
		stopAll(s.stream)
		s.stream = nil
		s.logger.Info("camera stopped")
	}
	s.state = StateIdle
}

// State returns the current state, demoting a Ready session whose stream died to Failed.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkLiveLocked()
	return s.state
}

// Ready reports whether frames can be captured.
func (s *Session) Ready() bool {
	return s.State() == StateReady
}

// ActiveTracks returns the number of running tracks held by the session.
func (s *Session) ActiveTracks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return 0
	}
	return activeTracks(s.stream)
}

// Frame returns the frame currently displayed, or ErrNotReady.
func (s *Session) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkLiveLocked() {
		return nil, ErrNotReady
	}
	img, err := s.stream.Frame()
	if err != nil {
		return nil, fmt.Errorf("reading frame: %w", err)
	}
	return img, nil
}

// Surface returns the current frame as JPEG for display, or ErrNotReady.
func (s *Session) Surface() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkLiveLocked() {
		return nil, ErrNotReady
	}
	return s.stream.Snapshot()
}

// checkLiveLocked reports whether the session is Ready with a live stream.
// A Ready session whose tracks have all ended is moved to Failed and its handle released.
func (s *Session) checkLiveLocked() bool {
	if s.state != StateReady || s.stream == nil {
		return false
	}
	if activeTracks(s.stream) > 0 {
		return true
	}
	s.logger.Warn("camera stream ended unexpectedly")
	stopAll(s.stream)
	s.stream = nil
	s.state = StateFailed
	return false
}
