package cmd

import (
	"errors"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/orchestrator"
)

func TestNeedsCamera(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"\t\n", false},
		{"Ann", true},
		{"  Jiří  ", true},
	}
	for _, tc := range tests {
		if got := needsCamera(tc.name); got != tc.want {
			t.Errorf("needsCamera(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestReportOutcome(t *testing.T) {
	ok := orchestrator.Outcome{Kind: orchestrator.KindEnroll, Status: orchestrator.StatusSucceeded}
	if err := reportOutcome(ok, false); err != nil {
		t.Errorf("expected nil for success, got %v", err)
	}

	cause := errors.New("boom")
	failed := orchestrator.Outcome{Kind: orchestrator.KindEnroll, Status: orchestrator.StatusFailed, Message: "Error registering student", Err: cause}
	if err := reportOutcome(failed, false); !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}

	dropped := orchestrator.Outcome{Kind: orchestrator.KindEnroll, Status: orchestrator.StatusDropped, Message: "busy"}
	if err := reportOutcome(dropped, false); err == nil || err.Error() != "busy" {
		t.Errorf("expected message error, got %v", err)
	}
}
