// Package kiosk wires the camera, the orchestrators and the attendance ledger
// into one application shared by the CLI and the web server.
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/ledger"
	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/kozaktomas/face-attendance/internal/orchestrator"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// Service is the remote recognition service as the kiosk uses it.
type Service interface {
	orchestrator.RecognizeService
	orchestrator.EnrollService
	ledger.Source
	Students(ctx context.Context) ([]recognition.Student, error)
}

// Options customize New. Every field is optional.
type Options struct {
	Device   camera.Device    // defaults to NewDevice(cfg.Camera)
	Service  Service          // defaults to an HTTP client for cfg.Service.URL
	Notifier notify.Notifier  // extra sink besides the event broadcaster
	Journal  database.Journal // outcome journal; nil disables journaling
	Logger   *slog.Logger
	// CaptureDir saves raw service responses for building test fixtures.
	CaptureDir string
}

// Kiosk holds one instance of every screen's state.
type Kiosk struct {
	Service    Service
	Camera     *camera.Session
	Recognizer *orchestrator.Recognizer
	Enroller   *orchestrator.Enroller
	Ledger     *ledger.ViewModel
	Events     *notify.Broadcaster
	Journal    database.JournalReader

	logger *slog.Logger
}

// New builds a kiosk. The camera is left Idle.
func New(cfg *config.Config, opts Options) (*Kiosk, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	service := opts.Service
	if service == nil {
		client, err := recognition.NewWithCapture(cfg.Service.URL, opts.CaptureDir)
		if err != nil {
			return nil, fmt.Errorf("creating recognition client: %w", err)
		}
		service = client
	}

	device := opts.Device
	if device == nil {
		device = NewDevice(cfg.Camera, logger)
	}

	events := notify.NewBroadcaster()
	notifier := notify.NewMulti(events, opts.Notifier)

	k := &Kiosk{
		Service: service,
		Events:  events,
		logger:  logger,
	}

	deps := orchestrator.Deps{Notifier: notifier, Logger: logger}
	if opts.Journal != nil {
		deps.Journal = database.NewRecorder(opts.Journal)
		k.Journal = opts.Journal
	}

	k.Camera = camera.NewSession(device, notifier, logger)
	k.Ledger = ledger.NewViewModel(service, notifier, logger)
	k.Recognizer = orchestrator.NewRecognizer(k.Camera, service, k, deps)
	k.Enroller = orchestrator.NewEnroller(k.Camera, service, deps)
	return k, nil
}

// NewDevice picks the camera device described by cfg: a still image when
// StillImage is set, ffmpeg otherwise.
func NewDevice(cfg config.CameraConfig, logger *slog.Logger) camera.Device {
	if cfg.StillImage != "" {
		return &camera.StillDevice{Path: cfg.StillImage}
	}
	return &camera.FFmpegDevice{
		Path:          cfg.FFmpegPath,
		Format:        cfg.Format,
		Device:        cfg.Device,
		InputOptions:  cfg.InputOptions,
		WarmupTimeout: cfg.WarmupTimeout,
		Logger:        logger,
	}
}

// Routes are the screens a kiosk can show.
var Routes = []string{constants.RouteRecognize, constants.RouteRegister, constants.RouteAttendance}

// IsRoute reports whether route names a kiosk screen.
func IsRoute(route string) bool {
	return slices.Contains(Routes, route)
}

// Navigate implements orchestrator.Navigator. Showing the attendance screen
// re-fetches the ledger before listeners are told to switch.
func (k *Kiosk) Navigate(route string) {
	if route == constants.RouteAttendance {
		// Load failures are reported through the ledger's own error state.
		_ = k.Ledger.Load(context.Background())
	}
	k.Events.Navigate(route)
}

// Students lists enrolled students.
func (k *Kiosk) Students(ctx context.Context) ([]recognition.Student, error) {
	students, err := k.Service.Students(ctx)
	if err != nil {
		k.logger.Error("error loading students", "error", err)
		return nil, fmt.Errorf("listing students: %w", err)
	}
	return students, nil
}

// RecentEvents lists journaled outcomes, or ErrJournalDisabled.
func (k *Kiosk) RecentEvents(ctx context.Context, kind string, limit int) ([]database.JournalEvent, error) {
	if k.Journal == nil {
		return nil, ErrJournalDisabled
	}
	return k.Journal.Recent(ctx, kind, limit)
}

// ErrJournalDisabled is returned when no journal is configured.
var ErrJournalDisabled = errors.New("journal is not configured (set DATABASE_URL)")

// Close releases the camera.
func (k *Kiosk) Close() {
	k.Camera.Stop()
}
