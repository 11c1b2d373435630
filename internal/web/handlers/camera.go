package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/kiosk"
)

// CameraHandler exposes the camera session lifecycle. Screens start the camera
// when they are shown and stop it when they are left.
type CameraHandler struct {
	kiosk  *kiosk.Kiosk
	logger *slog.Logger
}

// NewCameraHandler creates a new camera handler
func NewCameraHandler(k *kiosk.Kiosk, logger *slog.Logger) *CameraHandler {
	return &CameraHandler{kiosk: k, logger: logger}
}

// CameraStatus is the camera state as reported to screens.
type CameraStatus struct {
	State        camera.State `json:"state"`
	Ready        bool         `json:"ready"`
	ActiveTracks int          `json:"active_tracks"`
}

func (h *CameraHandler) status() CameraStatus {
	state := h.kiosk.Camera.State()
	return CameraStatus{
		State:        state,
		Ready:        state == camera.StateReady,
		ActiveTracks: h.kiosk.Camera.ActiveTracks(),
	}
}

// Status returns the camera state
func (h *CameraHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.status())
}

// Start opens the camera. A failure is reported to the operator as a
// notification and answered with 503.
func (h *CameraHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.kiosk.Camera.Start(r.Context()); err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, camera.ErrPermissionDenied) {
			status = http.StatusForbidden
		}
		respondJSON(w, status, map[string]any{
			"error":  "Error accessing camera",
			"camera": h.status(),
		})
		return
	}
	respondJSON(w, http.StatusOK, h.status())
}

// Stop releases the camera
func (h *CameraHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.kiosk.Camera.Stop()
	respondJSON(w, http.StatusOK, h.status())
}

// Frame returns the frame currently shown on the display surface as JPEG
func (h *CameraHandler) Frame(w http.ResponseWriter, r *http.Request) {
	data, err := h.kiosk.Camera.Surface()
	if err != nil {
		if errors.Is(err, camera.ErrNotReady) {
			respondError(w, http.StatusConflict, "Camera is not ready")
			return
		}
		h.logger.Error("failed to read camera frame", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read camera frame")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
