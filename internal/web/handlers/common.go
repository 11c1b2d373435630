// Package handlers implements the kiosk HTTP API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/orchestrator"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a size-limited JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

// outcomeStatus maps an orchestrator outcome to an HTTP status code.
func outcomeStatus(out orchestrator.Outcome) int {
	switch out.Status {
	case orchestrator.StatusSucceeded:
		return http.StatusOK
	case orchestrator.StatusDropped:
		return http.StatusConflict
	}

	switch {
	case errors.Is(out.Err, orchestrator.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(out.Err, camera.ErrNotReady):
		return http.StatusConflict
	case recognition.IsNetworkError(out.Err):
		return http.StatusBadGateway
	}
	if _, ok := recognition.AsServiceError(out.Err); ok {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondOutcome sends the outcome of an orchestrator run.
func respondOutcome(w http.ResponseWriter, out orchestrator.Outcome) {
	if out.Status == orchestrator.StatusDropped {
		out.Message = "operation already in progress"
	}
	respondJSON(w, outcomeStatus(out), out)
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
