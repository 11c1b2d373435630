package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/database/postgres"
	"github.com/kozaktomas/face-attendance/internal/kiosk"
	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/spf13/cobra"
)

var (
	captureDir string
	logLevel   string
	cameraFile string
)

var rootCmd = &cobra.Command{
	Use:   "face-attendance",
	Short: "A kiosk client for face-recognition attendance",
	Long: `Face Attendance is a kiosk client for a remote face-recognition service.
It drives a local camera to register students and mark attendance, and shows
the attendance ledger, either from the command line or through a local web UI.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&captureDir, "capture", "", "Directory to save service responses for testing")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&cameraFile, "camera-file", "", "Serve this image as the camera instead of ffmpeg")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig reads the environment and applies the persistent flags.
func loadConfig() *config.Config {
	cfg := config.Load()
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if cameraFile != "" {
		cfg.Camera.StillImage = cameraFile
	}
	return cfg
}

// newLogger builds the stderr text logger. Unknown levels fall back to info.
func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// openJournal connects to PostgreSQL when DATABASE_URL is set. A connection
// failure is logged and the kiosk runs without a journal.
func openJournal(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*postgres.Pool, database.Journal) {
	if cfg.Database.URL == "" {
		return nil, nil
	}
	pool, err := postgres.Open(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Warn("journal disabled", "error", err)
		return nil, nil
	}
	return pool, postgres.NewJournalRepository(pool)
}

// setupKiosk builds the kiosk with the journal and a console notifier when
// console is non-nil. The returned cleanup stops the camera and closes the
// journal.
func setupKiosk(ctx context.Context, console notify.Notifier) (*kiosk.Kiosk, *config.Config, func(), error) {
	cfg := loadConfig()
	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	pool, journal := openJournal(ctx, cfg, logger)
	opts := kiosk.Options{
		Notifier:   console,
		Journal:    journal,
		Logger:     logger,
		CaptureDir: captureDir,
	}

	k, err := kiosk.New(cfg, opts)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, nil, nil, err
	}

	cleanup := func() {
		k.Close()
		if pool != nil {
			if err := pool.Close(); err != nil {
				logger.Warn("failed to close journal", "error", err)
			}
		}
	}
	return k, cfg, cleanup, nil
}
