package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/kiosk"
)

// RegisterHandler drives the student registration screen
type RegisterHandler struct {
	kiosk    *kiosk.Kiosk
	students *StudentsHandler
	logger   *slog.Logger
}

// NewRegisterHandler creates a new register handler. Successful enrollments
// invalidate the students list cache.
func NewRegisterHandler(k *kiosk.Kiosk, students *StudentsHandler, logger *slog.Logger) *RegisterHandler {
	return &RegisterHandler{kiosk: k, students: students, logger: logger}
}

// RegisterForm is the state of the registration form
type RegisterForm struct {
	Name     string `json:"name"`
	InFlight bool   `json:"in_flight"`
}

// NameRequest sets the name field
type NameRequest struct {
	Name *string `json:"name"`
}

// Get returns the form state
func (h *RegisterHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, RegisterForm{
		Name:     h.kiosk.Enroller.Name(),
		InFlight: h.kiosk.Enroller.InFlight(),
	})
}

// SetName updates the name field
func (h *RegisterHandler) SetName(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Name == nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	h.kiosk.Enroller.SetName(*req.Name)
	h.Get(w, r)
}

// Register enrolls the student in the name field. A body with a name sets the
// field first.
func (h *RegisterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Name != nil {
		h.kiosk.Enroller.SetName(*req.Name)
	}

	// An enrollment the service accepted must still reset the form.
	out := h.kiosk.Enroller.Run(context.WithoutCancel(r.Context()))
	if out.Succeeded() {
		h.logger.Info("student registered", "name", sanitizeForLog(out.Subject))
		if h.students != nil {
			h.students.cache.invalidate()
		}
	}
	respondOutcome(w, out)
}
