package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/kiosk"
)

// JournalHandler lists journaled orchestrator outcomes
type JournalHandler struct {
	kiosk  *kiosk.Kiosk
	logger *slog.Logger
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(k *kiosk.Kiosk, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{kiosk: k, logger: logger}
}

// List returns recent events. Query parameters: kind, limit.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := constants.DefaultJournalLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	events, err := h.kiosk.RecentEvents(r.Context(), r.URL.Query().Get("kind"), limit)
	if err != nil {
		if errors.Is(err, kiosk.ErrJournalDisabled) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to list journal events", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list journal events")
		return
	}
	if events == nil {
		events = []database.JournalEvent{}
	}
	respondJSON(w, http.StatusOK, events)
}
