package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/kozaktomas/face-attendance/internal/orchestrator"
)

func TestRecognizeHandler_Success(t *testing.T) {
	server, calls := setupMockService(t, nil)
	k := newTestKiosk(t, server)
	startCamera(t, k)
	events := k.Events.AddListener()
	defer k.Events.RemoveListener(events)

	h := NewRecognizeHandler(k)
	rec := httptest.NewRecorder()
	h.Recognize(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recognize", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	out := decodeBody[orchestrator.Outcome](t, rec)
	if out.Message != "Attendance marked successfully" || out.Detail != "Marked: Ann" {
		t.Errorf("unexpected outcome %+v", out)
	}
	if calls.recognizeCalls.Load() != 1 || calls.attendanceCalls.Load() != 1 {
		t.Errorf("expected one recognize and one ledger fetch, got %d/%d",
			calls.recognizeCalls.Load(), calls.attendanceCalls.Load())
	}

	var navigations int
	for len(events) > 0 {
		if ev := <-events; ev.Type == notify.EventNavigate && ev.Route == constants.RouteAttendance {
			navigations++
		}
	}
	if navigations != 1 {
		t.Errorf("expected exactly one navigation, got %d", navigations)
	}

	rec = httptest.NewRecorder()
	h.Last(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recognize", nil))
	if body := decodeBody[map[string]any](t, rec); body["result"] != "Marked: Ann" {
		t.Errorf("expected last result, got %v", body)
	}
}

func TestRecognizeHandler_NoMatch(t *testing.T) {
	server, calls := setupMockService(t, map[string]http.HandlerFunc{
		"/api/recognize": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"error": "no match"})
		},
	})
	k := newTestKiosk(t, server)
	startCamera(t, k)

	rec := httptest.NewRecorder()
	NewRecognizeHandler(k).Recognize(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recognize", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	if out := decodeBody[orchestrator.Outcome](t, rec); out.Message != "no match" {
		t.Errorf("expected verbatim service error, got %q", out.Message)
	}
	if calls.attendanceCalls.Load() != 0 {
		t.Error("ledger must not be fetched without a match")
	}
}

func TestRecognizeHandler_CameraNotReady(t *testing.T) {
	server, calls := setupMockService(t, nil)
	k := newTestKiosk(t, server)

	rec := httptest.NewRecorder()
	NewRecognizeHandler(k).Recognize(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recognize", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	if calls.recognizeCalls.Load() != 0 {
		t.Error("service must not be called")
	}
}

func TestRecognizeHandler_ClientGoneStillMarks(t *testing.T) {
	server, calls := setupMockService(t, nil)
	k := newTestKiosk(t, server)
	startCamera(t, k)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recognize", nil).WithContext(ctx)

	rec := httptest.NewRecorder()
	NewRecognizeHandler(k).Recognize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after client disconnect, got %d: %s", rec.Code, rec.Body.String())
	}
	if calls.recognizeCalls.Load() != 1 {
		t.Errorf("expected the service called once, got %d", calls.recognizeCalls.Load())
	}
	if k.Recognizer.LastResult() != "Marked: Ann" {
		t.Errorf("expected last result recorded, got %q", k.Recognizer.LastResult())
	}
}
