package orchestrator

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

type fakeCamera struct {
	ready  bool
	frames atomic.Int32
}

func (c *fakeCamera) Ready() bool { return c.ready }

func (c *fakeCamera) Frame() (image.Image, error) {
	if !c.ready {
		return nil, camera.ErrNotReady
	}
	c.frames.Add(1)
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		img.Set(x, 3, color.RGBA{R: 200, A: 255})
	}
	return img, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []notify.Notification
}

func (r *recordingNotifier) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recordingNotifier) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.items))
	for i, n := range r.items {
		out[i] = n.Message
	}
	return out
}

type countingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *countingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

type fakeRecognizeService struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	resp    *recognition.RecognizeResponse
	err     error
	gotURL  string
}

func (s *fakeRecognizeService) Recognize(_ context.Context, dataURL string) (*recognition.RecognizeResponse, error) {
	s.calls.Add(1)
	s.gotURL = dataURL
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return s.resp, s.err
}

type fakeEnrollService struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	resp    *recognition.EnrollResponse
	err     error
	gotName string
	gotJPEG []byte
}

func (s *fakeEnrollService) AddStudent(_ context.Context, name string, jpeg []byte) (*recognition.EnrollResponse, error) {
	s.calls.Add(1)
	s.gotName = name
	s.gotJPEG = jpeg
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return s.resp, s.err
}

type fakeJournal struct {
	mu       sync.Mutex
	outcomes []Outcome
	err      error
}

func (j *fakeJournal) Record(_ context.Context, o Outcome) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outcomes = append(j.outcomes, o)
	return j.err
}

func TestRecognizer_Success(t *testing.T) {
	cam := &fakeCamera{ready: true}
	svc := &fakeRecognizeService{resp: &recognition.RecognizeResponse{Message: "Recognized as Ann", Name: "Ann", ID: 1}}
	nav := &countingNavigator{}
	notifier := &recordingNotifier{}
	journal := &fakeJournal{}

	r := NewRecognizer(cam, svc, nav, Deps{Notifier: notifier, Journal: journal})
	out := r.Run(context.Background())

	if !out.Succeeded() {
		t.Fatalf("expected success, got %+v", out)
	}
	if out.Subject != "Ann" || out.Detail != "Recognized as Ann" {
		t.Errorf("unexpected outcome %+v", out)
	}
	if r.LastResult() != "Recognized as Ann" {
		t.Errorf("expected last result to be kept, got %q", r.LastResult())
	}
	if msgs := notifier.messages(); len(msgs) != 1 || msgs[0] != MsgAttendanceMarked {
		t.Errorf("expected single success notification, got %v", msgs)
	}
	if len(nav.routes) != 1 || nav.routes[0] != constants.RouteAttendance {
		t.Errorf("expected exactly one navigation to attendance, got %v", nav.routes)
	}
	if !strings.HasPrefix(svc.gotURL, "data:image/jpeg;base64,") {
		t.Errorf("expected JPEG data URL, got %.40q", svc.gotURL)
	}
	if r.InFlight() {
		t.Error("guard must be reset after success")
	}
	if len(journal.outcomes) != 1 || journal.outcomes[0].Kind != KindRecognize {
		t.Errorf("expected one journaled recognize outcome, got %+v", journal.outcomes)
	}
}

func TestRecognizer_ServiceErrorShownVerbatim(t *testing.T) {
	cam := &fakeCamera{ready: true}
	svc := &fakeRecognizeService{err: &recognition.ServiceError{Status: 400, Message: "Face not detected"}}
	nav := &countingNavigator{}
	notifier := &recordingNotifier{}

	r := NewRecognizer(cam, svc, nav, Deps{Notifier: notifier})
	out := r.Run(context.Background())

	if out.Status != StatusFailed || out.Message != "Face not detected" {
		t.Errorf("unexpected outcome %+v", out)
	}
	if msgs := notifier.messages(); len(msgs) != 1 || msgs[0] != "Face not detected" {
		t.Errorf("expected verbatim service error, got %v", msgs)
	}
	if len(nav.routes) != 0 {
		t.Errorf("expected no navigation, got %v", nav.routes)
	}
	if r.LastResult() != "" {
		t.Errorf("last result must not change on failure, got %q", r.LastResult())
	}
	if r.InFlight() {
		t.Error("guard must be reset after failure")
	}
}

func TestRecognizer_NetworkFailure(t *testing.T) {
	cam := &fakeCamera{ready: true}
	svc := &fakeRecognizeService{err: &recognition.NetworkError{Op: "POST /recognize", Err: errors.New("connection refused")}}
	notifier := &recordingNotifier{}

	r := NewRecognizer(cam, svc, nil, Deps{Notifier: notifier})
	out := r.Run(context.Background())

	if out.Status != StatusFailed || !recognition.IsNetworkError(out.Err) {
		t.Errorf("unexpected outcome %+v", out)
	}
	if msgs := notifier.messages(); len(msgs) != 1 || msgs[0] != MsgRecognitionFailed {
		t.Errorf("expected generic failure notification, got %v", msgs)
	}
	if r.InFlight() {
		t.Error("guard must be reset after failure")
	}
}

func TestRecognizer_CameraNotReady(t *testing.T) {
	cam := &fakeCamera{ready: false}
	svc := &fakeRecognizeService{}
	notifier := &recordingNotifier{}

	r := NewRecognizer(cam, svc, nil, Deps{Notifier: notifier})
	out := r.Run(context.Background())

	if !errors.Is(out.Err, camera.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", out.Err)
	}
	if svc.calls.Load() != 0 {
		t.Error("service must not be called when camera is not ready")
	}
	if msgs := notifier.messages(); len(msgs) != 1 || msgs[0] != MsgCameraNotReady {
		t.Errorf("expected camera not ready notification, got %v", msgs)
	}
	if r.InFlight() {
		t.Error("guard must be reset")
	}
}

func TestRecognizer_DuplicateTriggerDropped(t *testing.T) {
	cam := &fakeCamera{ready: true}
	svc := &fakeRecognizeService{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
		resp:    &recognition.RecognizeResponse{Message: "ok"},
	}
	nav := &countingNavigator{}

	r := NewRecognizer(cam, svc, nav, Deps{})

	done := make(chan Outcome)
	go func() { done <- r.Run(context.Background()) }()
	<-svc.entered

	if !r.InFlight() {
		t.Fatal("expected run to be in flight")
	}
	if out := r.Run(context.Background()); out.Status != StatusDropped {
		t.Errorf("expected duplicate to be dropped, got %+v", out)
	}

	close(svc.release)
	if out := <-done; !out.Succeeded() {
		t.Errorf("expected first run to succeed, got %+v", out)
	}
	if svc.calls.Load() != 1 {
		t.Errorf("expected service to receive exactly one request, got %d", svc.calls.Load())
	}
	if len(nav.routes) != 1 {
		t.Errorf("expected one navigation, got %d", len(nav.routes))
	}

	// The guard is free again.
	svc.entered = nil
	if out := r.Run(context.Background()); !out.Succeeded() {
		t.Errorf("expected subsequent run to succeed, got %+v", out)
	}
}

func TestEnroller_BlankNameRejected(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		t.Run(name, func(t *testing.T) {
			cam := &fakeCamera{ready: true}
			svc := &fakeEnrollService{}
			notifier := &recordingNotifier{}

			e := NewEnroller(cam, svc, Deps{Notifier: notifier})
			e.SetName(name)
			out := e.Run(context.Background())

			if !errors.Is(out.Err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", out.Err)
			}
			if svc.calls.Load() != 0 {
				t.Error("service must not be called")
			}
			if cam.frames.Load() != 0 {
				t.Error("camera must not be read")
			}
			if msgs := notifier.messages(); len(msgs) != 1 || msgs[0] != MsgNameRequired {
				t.Errorf("expected name required notification, got %v", msgs)
			}
			if e.InFlight() {
				t.Error("guard must be reset")
			}
		})
	}
}

func TestEnroller_Success(t *testing.T) {
	cam := &fakeCamera{ready: true}
	svc := &fakeEnrollService{resp: &recognition.EnrollResponse{Message: "Student added", ID: 7}}
	notifier := &recordingNotifier{}

	e := NewEnroller(cam, svc, Deps{Notifier: notifier})
	e.SetName("  Ann ")
	out := e.Run(context.Background())

	if !out.Succeeded() || out.Subject != "Ann" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if svc.gotName != "Ann" {
		t.Errorf("expected trimmed name, got %q", svc.gotName)
	}
	if len(svc.gotJPEG) < 2 || svc.gotJPEG[0] != 0xFF || svc.gotJPEG[1] != 0xD8 {
		t.Error("expected JPEG payload")
	}
	if e.Name() != "" {
		t.Errorf("expected name field reset, got %q", e.Name())
	}
	if msgs := notifier.messages(); len(msgs) != 1 || msgs[0] != MsgEnrolled {
		t.Errorf("expected success notification, got %v", msgs)
	}
	if !cam.Ready() {
		t.Error("camera must keep running")
	}
}

func TestEnroller_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"service error", &recognition.ServiceError{Status: 400, Message: "Face not detected"}, "Face not detected"},
		{"network error", &recognition.NetworkError{Op: "POST /add_student", Err: errors.New("timeout")}, MsgEnrollFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := &fakeCamera{ready: true}
			svc := &fakeEnrollService{err: tt.err}
			notifier := &recordingNotifier{}

			e := NewEnroller(cam, svc, Deps{Notifier: notifier})
			e.SetName("Ann")
			out := e.Run(context.Background())

			if out.Status != StatusFailed {
				t.Errorf("expected failure, got %+v", out)
			}
			if msgs := notifier.messages(); len(msgs) != 1 || msgs[0] != tt.wantMsg {
				t.Errorf("expected %q, got %v", tt.wantMsg, msgs)
			}
			if e.Name() != "Ann" {
				t.Errorf("name must be kept on failure, got %q", e.Name())
			}
			if e.InFlight() {
				t.Error("guard must be reset")
			}
		})
	}
}

func TestEnroller_CameraNotReady(t *testing.T) {
	cam := &fakeCamera{ready: false}
	svc := &fakeEnrollService{}
	notifier := &recordingNotifier{}

	e := NewEnroller(cam, svc, Deps{Notifier: notifier})
	e.SetName("Ann")
	out := e.Run(context.Background())

	if !errors.Is(out.Err, camera.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", out.Err)
	}
	if svc.calls.Load() != 0 {
		t.Error("service must not be called")
	}
	if msgs := notifier.messages(); len(msgs) != 1 || msgs[0] != MsgCameraNotReady {
		t.Errorf("unexpected notifications %v", msgs)
	}
}

func TestEnroller_DuplicateTriggerDropped(t *testing.T) {
	cam := &fakeCamera{ready: true}
	svc := &fakeEnrollService{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
		resp:    &recognition.EnrollResponse{},
	}

	e := NewEnroller(cam, svc, Deps{})
	e.SetName("Ann")

	done := make(chan Outcome)
	go func() { done <- e.Run(context.Background()) }()
	<-svc.entered

	if out := e.Run(context.Background()); out.Status != StatusDropped {
		t.Errorf("expected dropped, got %+v", out)
	}
	close(svc.release)
	<-done

	if svc.calls.Load() != 1 {
		t.Errorf("expected exactly one request, got %d", svc.calls.Load())
	}
}

func TestPipeline_JournalErrorIgnored(t *testing.T) {
	cam := &fakeCamera{ready: true}
	svc := &fakeRecognizeService{resp: &recognition.RecognizeResponse{Message: "ok"}}
	journal := &fakeJournal{err: errors.New("database down")}
	notifier := &recordingNotifier{}

	r := NewRecognizer(cam, svc, nil, Deps{Notifier: notifier, Journal: journal})
	if out := r.Run(context.Background()); !out.Succeeded() {
		t.Fatalf("journal failure must not fail the run: %+v", out)
	}
	for _, msg := range notifier.messages() {
		if strings.Contains(msg, "database") {
			t.Errorf("journal error surfaced to operator: %q", msg)
		}
	}
}

// sequence records notifications and navigations in the order they happen.
type sequence struct {
	mu    sync.Mutex
	steps []string
}

func (s *sequence) add(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step)
}

type sequenceNotifier struct{ seq *sequence }

func (n sequenceNotifier) Notify(note notify.Notification) { n.seq.add("notify:" + note.Message) }

type sequenceNavigator struct{ seq *sequence }

func (n sequenceNavigator) Navigate(route string) { n.seq.add("navigate:" + route) }

func TestRecognizer_NotifiesBeforeNavigating(t *testing.T) {
	seq := &sequence{}
	svc := &fakeRecognizeService{resp: &recognition.RecognizeResponse{Message: "Marked: Ann", Name: "Ann"}}

	r := NewRecognizer(&fakeCamera{ready: true}, svc, sequenceNavigator{seq}, Deps{Notifier: sequenceNotifier{seq}})
	out := r.Run(context.Background())

	if out.Navigate != constants.RouteAttendance {
		t.Errorf("expected outcome to carry the attendance route, got %q", out.Navigate)
	}
	want := []string{"notify:" + MsgAttendanceMarked, "navigate:" + constants.RouteAttendance}
	if strings.Join(seq.steps, "|") != strings.Join(want, "|") {
		t.Errorf("got steps %v, want %v", seq.steps, want)
	}
}

func TestRecognizer_FailureDoesNotNavigate(t *testing.T) {
	seq := &sequence{}
	svc := &fakeRecognizeService{err: &recognition.ServiceError{Status: 200, Message: "no match"}}

	r := NewRecognizer(&fakeCamera{ready: true}, svc, sequenceNavigator{seq}, Deps{Notifier: sequenceNotifier{seq}})
	r.Run(context.Background())

	if len(seq.steps) != 1 || seq.steps[0] != "notify:no match" {
		t.Errorf("expected only the service error, got %v", seq.steps)
	}
}
