package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/constants"
	_ "golang.org/x/image/bmp"
)

// StillDevice serves a fixed image as the live frame. It stands in for a webcam on
// headless kiosks and in tests.
type StillDevice struct {
	Path  string      // image file (jpeg, png or bmp); ignored when Image is set
	Image image.Image // in-memory frame
}

// Open decodes the image once and returns a single-track stream.
func (d *StillDevice) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := d.Image
	if img == nil {
		data, err := os.ReadFile(d.Path)
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, d.Path)
			}
			return nil, fmt.Errorf("could not read still image: %w", err)
		}
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode still image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: constants.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode still image: %w", err)
	}

	s := &stillStream{img: img, snapshot: buf.Bytes()}
	s.track = &stillTrack{stream: s}
	return s, nil
}

type stillStream struct {
	mu       sync.RWMutex
	img      image.Image
	snapshot []byte
	stopped  bool
	track    *stillTrack
}

func (s *stillStream) Tracks() []Track { return []Track{s.track} }

func (s *stillStream) Frame() (image.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		return nil, ErrStreamEnded
	}
	return s.img, nil
}

func (s *stillStream) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		return nil, ErrStreamEnded
	}
	return s.snapshot, nil
}

type stillTrack struct {
	stream *stillStream
}

func (t *stillTrack) Kind() string { return "video" }

func (t *stillTrack) Stop() {
	t.stream.mu.Lock()
	t.stream.stopped = true
	t.stream.mu.Unlock()
}

func (t *stillTrack) Active() bool {
	t.stream.mu.RLock()
	defer t.stream.mu.RUnlock()
	return !t.stream.stopped
}
