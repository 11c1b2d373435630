package handlers

import (
	"context"
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/kiosk"
)

// RecognizeHandler drives the face recognition screen
type RecognizeHandler struct {
	kiosk *kiosk.Kiosk
}

// NewRecognizeHandler creates a new recognize handler
func NewRecognizeHandler(k *kiosk.Kiosk) *RecognizeHandler {
	return &RecognizeHandler{kiosk: k}
}

// Recognize captures the current frame and marks attendance. The call is not
// cancelled when the client goes away.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	respondOutcome(w, h.kiosk.Recognizer.Run(context.WithoutCancel(r.Context())))
}

// Last returns the message of the last successful recognition
func (h *RecognizeHandler) Last(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"result":    h.kiosk.Recognizer.LastResult(),
		"in_flight": h.kiosk.Recognizer.InFlight(),
	})
}
