package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ATTENDANCE_API_URL", "")
	t.Setenv("WEB_PORT", "")
	t.Setenv("CAMERA_WARMUP_TIMEOUT", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()

	if cfg.Service.URL != DefaultServiceURL {
		t.Errorf("expected service URL %q, got %q", DefaultServiceURL, cfg.Service.URL)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Web.Port)
	}
	if cfg.Camera.WarmupTimeout != 10*time.Second {
		t.Errorf("expected 10s warmup, got %v", cfg.Camera.WarmupTimeout)
	}
	if cfg.Camera.FFmpegPath != "ffmpeg" {
		t.Errorf("expected ffmpeg path 'ffmpeg', got %q", cfg.Camera.FFmpegPath)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected empty database URL, got %q", cfg.Database.URL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ATTENDANCE_API_URL", "http://kiosk-backend:5000/api")
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("CAMERA_DEVICE", "/dev/video2")
	t.Setenv("CAMERA_WARMUP_TIMEOUT", "2s")
	t.Setenv("CAMERA_STILL_IMAGE", "/tmp/face.jpg")

	cfg := Load()

	if cfg.Service.URL != "http://kiosk-backend:5000/api" {
		t.Errorf("unexpected service URL %q", cfg.Service.URL)
	}
	if cfg.Web.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Web.Port)
	}
	if cfg.Camera.Device != "/dev/video2" {
		t.Errorf("expected device /dev/video2, got %q", cfg.Camera.Device)
	}
	if cfg.Camera.WarmupTimeout != 2*time.Second {
		t.Errorf("expected 2s warmup, got %v", cfg.Camera.WarmupTimeout)
	}
	if cfg.Camera.StillImage != "/tmp/face.jpg" {
		t.Errorf("unexpected still image %q", cfg.Camera.StillImage)
	}
}

func TestEnvInt_InvalidFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"unset", "", 7},
		{"valid", "12", 12},
		{"negative", "-3", 7},
		{"zero", "0", 7},
		{"garbage", "abc", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_INT", tt.value)
			if got := envInt("TEST_ENV_INT", 7); got != tt.want {
				t.Errorf("envInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEnvDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("TEST_ENV_DURATION", "soon")
	if got := envDuration("TEST_ENV_DURATION", time.Second); got != time.Second {
		t.Errorf("expected fallback 1s, got %v", got)
	}
}

func TestCameraPresets(t *testing.T) {
	presets := LoadCameraPresets()

	tests := []struct {
		goos   string
		format string
	}{
		{"linux", "v4l2"},
		{"darwin", "avfoundation"},
		{"windows", "dshow"},
		{"plan9", "v4l2"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			preset := presets.Preset(tt.goos)
			if preset.Format != tt.format {
				t.Errorf("Preset(%q).Format = %q, want %q", tt.goos, preset.Format, tt.format)
			}
			if preset.Device == "" {
				t.Errorf("Preset(%q) has no device", tt.goos)
			}
		})
	}
}

func TestEnvList(t *testing.T) {
	t.Setenv("WEB_ALLOWED_ORIGINS", " https://kiosk.example.com, ,http://10.0.0.5:8080 ")
	got := envList("WEB_ALLOWED_ORIGINS")
	if len(got) != 2 || got[0] != "https://kiosk.example.com" || got[1] != "http://10.0.0.5:8080" {
		t.Errorf("envList = %v", got)
	}

	t.Setenv("WEB_ALLOWED_ORIGINS", "")
	if got := envList("WEB_ALLOWED_ORIGINS"); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}
