package camera

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// FFmpegDevice captures a webcam through an ffmpeg subprocess that writes MJPEG
// frames to stdout.
type FFmpegDevice struct {
	Path          string   // ffmpeg binary
	Format        string   // input format, e.g. v4l2
	Device        string   // input device, e.g. /dev/video0
	InputOptions  []string // options placed before -i
	WarmupTimeout time.Duration
	Logger        *slog.Logger
}

// Args returns the ffmpeg command line used to open the device.
func (d *FFmpegDevice) Args() []string {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if d.Format != "" {
		args = append(args, "-f", d.Format)
	}
	args = append(args, d.InputOptions...)
	args = append(args, "-i", d.Device, "-f", "image2pipe", "-vcodec", "mjpeg", "-q:v", "2", "-")
	return args
}

// Open starts ffmpeg and waits until the first frame arrives.
func (d *FFmpegDevice) Open(ctx context.Context) (Stream, error) {
	path, err := exec.LookPath(d.Path)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	// The stream outlives ctx, which only bounds the warm-up.
	cmd := exec.Command(path, d.Args()...) //nolint:gosec // binary and device come from operator config
	stderr := &lockedBuffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create ffmpeg pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &ffmpegStream{
		cmd:        cmd,
		stderr:     stderr,
		firstFrame: make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger,
	}
	go s.readFrames(stdout)

	timeout := d.WarmupTimeout
	if timeout <= 0 {
		timeout = constants.CameraWarmupTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.firstFrame:
		return s, nil
	case <-s.done:
		s.stop()
		return nil, classifyFFmpegError(s.stderrText())
	case <-timer.C:
		s.stop()
		return nil, fmt.Errorf("no frame from %s within %s", d.Device, timeout)
	case <-ctx.Done():
		s.stop()
		return nil, ctx.Err()
	}
}

// classifyFFmpegError maps ffmpeg's stderr to the camera error taxonomy.
func classifyFFmpegError(stderr string) error {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = "ffmpeg exited before producing a frame"
	}
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission denied") || strings.Contains(lower, "not authorized") {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, msg)
	}
	return errors.New(msg)
}

type ffmpegStream struct {
	cmd    *exec.Cmd
	logger *slog.Logger

	stderr *lockedBuffer

	mu     sync.RWMutex
	latest []byte

	firstOnce  sync.Once
	firstFrame chan struct{}
	done       chan struct{}
	stopOnce   sync.Once
	stopped    bool
}

func (s *ffmpegStream) readFrames(r io.Reader) {
	defer close(s.done)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, constants.FrameBufferSize), constants.MaxFrameSize)
	scanner.Split(SplitJPEG)

	for scanner.Scan() {
		frame := make([]byte, len(scanner.Bytes()))
		copy(frame, scanner.Bytes())

		s.mu.Lock()
		s.latest = frame
		s.mu.Unlock()

		s.firstOnce.Do(func() { close(s.firstFrame) })
	}
	if err := scanner.Err(); err != nil {
		s.logger.Warn("camera frame reader stopped", "error", err)
	}
}

func (s *ffmpegStream) stderrText() string {
	return s.stderr.String()
}

// lockedBuffer collects ffmpeg's stderr while the process is still writing to it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (s *ffmpegStream) stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		_ = s.cmd.Wait()
	})
}

func (s *ffmpegStream) active() bool {
	s.mu.RLock()
	stopped := s.stopped
	s.mu.RUnlock()
	if stopped {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *ffmpegStream) Tracks() []Track {
	return []Track{&ffmpegTrack{stream: s}}
}

func (s *ffmpegStream) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, ErrStreamEnded
	}
	return s.latest, nil
}

func (s *ffmpegStream) Frame() (image.Image, error) {
	data, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}

type ffmpegTrack struct {
	stream *ffmpegStream
}

func (t *ffmpegTrack) Kind() string { return "video" }
func (t *ffmpegTrack) Stop()        { t.stream.stop() }
func (t *ffmpegTrack) Active() bool { return t.stream.active() }
