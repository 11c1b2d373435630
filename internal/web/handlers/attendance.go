package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/kiosk"
	"github.com/kozaktomas/face-attendance/internal/ledger"
)

// AttendanceHandler serves the attendance records screen
type AttendanceHandler struct {
	kiosk *kiosk.Kiosk
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(k *kiosk.Kiosk) *AttendanceHandler {
	return &AttendanceHandler{kiosk: k}
}

// Get returns the ledger. The list is fetched on first use; sort and direction
// query parameters reorder it without fetching.
func (h *AttendanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	key, err := ledger.ParseSortKey(query.Get("sort"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	direction, err := ledger.ParseDirection(query.Get("direction"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	vm := h.kiosk.Ledger
	view := vm.View()
	if view.Records == nil && view.Error == "" && !view.Loading {
		// Errors end up in the view.
		_ = vm.Load(r.Context())
	}

	if query.Has("sort") || query.Has("direction") {
		vm.Sort(key, direction)
	}
	respondJSON(w, http.StatusOK, vm.View())
}

// Refresh re-fetches the ledger, resetting the sort
func (h *AttendanceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	// Errors end up in the view.
	_ = h.kiosk.Ledger.Refresh(r.Context())
	respondJSON(w, http.StatusOK, h.kiosk.Ledger.View())
}
