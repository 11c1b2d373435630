package handlers

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/kiosk"
)

// mockService records calls made to a fake recognition service.
type mockService struct {
	recognizeCalls  atomic.Int32
	addCalls        atomic.Int32
	studentsCalls   atomic.Int32
	attendanceCalls atomic.Int32
}

// setupMockService creates a fake recognition service. Handlers passed in
// override the defaults for their pattern.
func setupMockService(t *testing.T, overrides map[string]http.HandlerFunc) (*httptest.Server, *mockService) {
	t.Helper()
	calls := &mockService{}

	defaults := map[string]http.HandlerFunc{
		"/api/recognize": func(w http.ResponseWriter, r *http.Request) {
			calls.recognizeCalls.Add(1)
			writeJSON(w, http.StatusOK, map[string]any{"message": "Marked: Ann", "name": "Ann", "id": 1})
		},
		"/api/add_student": func(w http.ResponseWriter, r *http.Request) {
			calls.addCalls.Add(1)
			writeJSON(w, http.StatusOK, map[string]any{"message": "Student added successfully", "id": 3})
		},
		"/api/students": func(w http.ResponseWriter, r *http.Request) {
			calls.studentsCalls.Add(1)
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Ann"}, {"id": 2, "name": "Bob"}, {"id": 3, "name": "Jiří"}})
		},
		"/api/attendance": func(w http.ResponseWriter, r *http.Request) {
			calls.attendanceCalls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":2,"name":"Bob","lastAttendance":null},{"id":1,"name":"Ann","lastAttendance":"2024-01-01T10:00:00Z"}]`))
		},
	}
	for pattern, h := range overrides {
		defaults[pattern] = h
	}

	mux := http.NewServeMux()
	for pattern, h := range defaults {
		mux.HandleFunc(pattern, h)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, calls
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// testFrame is a small non-blank frame.
func testFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	for x := 0; x < 16; x++ {
		img.Set(x, x%12, color.RGBA{G: 180, A: 255})
	}
	return img
}

// newTestKiosk creates a kiosk talking to server with a still camera.
func newTestKiosk(t *testing.T, server *httptest.Server) *kiosk.Kiosk {
	t.Helper()
	cfg := &config.Config{Service: config.ServiceConfig{URL: server.URL + "/api"}}
	k, err := kiosk.New(cfg, kiosk.Options{Device: &camera.StillDevice{Image: testFrame()}})
	if err != nil {
		t.Fatalf("failed to create kiosk: %v", err)
	}
	t.Cleanup(k.Close)
	return k
}

// startCamera starts the kiosk camera or fails the test.
func startCamera(t *testing.T, k *kiosk.Kiosk) {
	t.Helper()
	if err := k.Camera.Start(context.Background()); err != nil {
		t.Fatalf("failed to start camera: %v", err)
	}
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody unmarshals the recorder body into T.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}
