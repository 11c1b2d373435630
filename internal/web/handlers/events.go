package handlers

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/kiosk"
)

// EventsHandler streams notifications and navigation events to screens
type EventsHandler struct {
	kiosk *kiosk.Kiosk

	done      chan struct{}
	closeOnce sync.Once
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(k *kiosk.Kiosk) *EventsHandler {
	return &EventsHandler{kiosk: k, done: make(chan struct{})}
}

// Close ends every open stream. The server calls it on shutdown.
func (h *EventsHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// NavigateRequest switches the kiosk screen
type NavigateRequest struct {
	Route string `json:"route"`
}

// Navigate shows another screen on every connected display
func (h *EventsHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if !kiosk.IsRoute(req.Route) {
		respondError(w, http.StatusBadRequest, "unknown route")
		return
	}
	h.kiosk.Navigate(req.Route)
	respondJSON(w, http.StatusOK, req)
}

// Stream sends the notifications still on screen, then every event until the
// client disconnects or the server shuts down.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	stream, ok := openEventStream(w)
	if !ok {
		return
	}

	events := h.kiosk.Events
	eventCh := events.AddListener()
	defer events.RemoveListener(eventCh)

	if err := stream.send("status", map[string]any{
		"notifications": events.Recent(),
		"camera":        h.kiosk.Camera.State(),
	}); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.done:
			return
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			if err := stream.send(string(event.Type), event); err != nil {
				return
			}
		}
	}
}

// Notifications lists notifications that have not expired or been dismissed
func (h *EventsHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.kiosk.Events.Recent())
}

// Dismiss closes a notification
func (h *EventsHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing notification ID")
		return
	}
	if !h.kiosk.Events.Dismiss(id) {
		respondError(w, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
