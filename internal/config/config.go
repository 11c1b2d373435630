package config

import (
	_ "embed"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed cameras.yaml
var camerasYAML []byte

// DefaultServiceURL is the recognition service the kiosk talks to when ATTENDANCE_API_URL is unset.
const DefaultServiceURL = "http://localhost:5000/api"

type Config struct {
	Service  ServiceConfig
	Camera   CameraConfig
	Web      WebConfig
	Database DatabaseConfig
	Log      LogConfig
}

type ServiceConfig struct {
	URL string // base URL of the recognition service, including the /api prefix
}

// CameraConfig describes how the ffmpeg camera device is opened.
// When StillImage is set the kiosk serves that file as the live frame instead.
type CameraConfig struct {
	FFmpegPath    string
	Format        string   // ffmpeg input format (v4l2, avfoundation, dshow)
	Device        string   // ffmpeg input device name
	InputOptions  []string // extra ffmpeg options placed before -i
	StillImage    string
	WarmupTimeout time.Duration
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // CORS origins besides localhost
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL for the kiosk journal (optional)
	MaxOpenConns int    // Maximum open connections (default 5)
	MaxIdleConns int    // Maximum idle connections (default 2)
}

type LogConfig struct {
	Level string // debug, info, warn, error
}

// CameraPresets holds the per-OS ffmpeg input defaults shipped with the binary.
type CameraPresets struct {
	Presets map[string]CameraPreset `yaml:"presets"`
}

type CameraPreset struct {
	Format       string   `yaml:"format"`
	Device       string   `yaml:"device"`
	InputOptions []string `yaml:"input_options"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envDuration reads an environment variable as a Go duration string.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList reads a comma-separated environment variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// LoadCameraPresets parses the embedded camera presets.
func LoadCameraPresets() CameraPresets {
	var presets CameraPresets
	if err := yaml.Unmarshal(camerasYAML, &presets); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded cameras.yaml: " + err.Error())
	}
	return presets
}

// Preset returns the preset for the given GOOS, falling back to linux.
func (p CameraPresets) Preset(goos string) CameraPreset {
	if preset, ok := p.Presets[goos]; ok {
		return preset
	}
	return p.Presets["linux"]
}

func Load() *Config {
	preset := LoadCameraPresets().Preset(runtime.GOOS)

	return &Config{
		Service: ServiceConfig{
			URL: envString("ATTENDANCE_API_URL", DefaultServiceURL),
		},
		Camera: CameraConfig{
			FFmpegPath:    envString("CAMERA_FFMPEG", "ffmpeg"),
			Format:        envString("CAMERA_FORMAT", preset.Format),
			Device:        envString("CAMERA_DEVICE", preset.Device),
			InputOptions:  preset.InputOptions,
			StillImage:    os.Getenv("CAMERA_STILL_IMAGE"),
			WarmupTimeout: envDuration("CAMERA_WARMUP_TIMEOUT", 10*time.Second),
		},
		Web: WebConfig{
			Host: envString("WEB_HOST", "127.0.0.1"),
			Port: envInt("WEB_PORT", 8080),

			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 5),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 2),
		},
		Log: LogConfig{
			Level: envString("LOG_LEVEL", "info"),
		},
	}
}
