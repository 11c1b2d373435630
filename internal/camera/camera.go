// Package camera owns the kiosk camera: a Session acquires a Device, exposes the
// live frame while Ready, and releases every track on Stop.
package camera

import (
	"context"
	"errors"
	"image"
)

// ErrNotReady is returned when a frame is requested from a session that is not Ready.
var ErrNotReady = errors.New("camera is not ready")

// ErrPermissionDenied is returned when the operating system refuses access to the device.
var ErrPermissionDenied = errors.New("camera permission denied")

// ErrStreamEnded is returned by a stream whose source has stopped producing frames.
var ErrStreamEnded = errors.New("camera stream ended")

// Track is one constituent of a stream (the video track of a webcam).
type Track interface {
	Kind() string
	Stop()
	Active() bool
}

// Stream is a live handle on an opened device.
type Stream interface {
	Tracks() []Track
	// Frame decodes the frame currently displayed.
	Frame() (image.Image, error)
	// Snapshot returns the current frame as JPEG for a display surface.
	Snapshot() ([]byte, error)
}

// Device opens a stream. Open may block while the device warms up; ctx bounds that wait.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// stopAll stops every track of a stream individually.
func stopAll(s Stream) {
	for _, t := range s.Tracks() {
		t.Stop()
	}
}

// activeTracks counts the tracks of s that are still running.
func activeTracks(s Stream) int {
	n := 0
	for _, t := range s.Tracks() {
		if t.Active() {
			n++
		}
	}
	return n
}
