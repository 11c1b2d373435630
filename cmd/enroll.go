package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/kozaktomas/face-attendance/internal/orchestrator"
	"github.com/kozaktomas/face-attendance/internal/roster"
	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Register a new student from the camera",
	Long: `Captures a frame from the camera and registers it with the recognition
service under the given name.`,
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("name", "", "Student name")
	enrollCmd.Flags().Bool("json", false, "Output as JSON")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := mustGetString(cmd, "name")
	jsonOutput := mustGetBool(cmd, "json")

	k, _, cleanup, err := setupKiosk(ctx, notify.NewConsole(os.Stdout))
	if err != nil {
		return fmt.Errorf("failed to set up kiosk: %w", err)
	}
	defer cleanup()

	k.Enroller.SetName(name)

	if needsCamera(name) {
		if err := k.Camera.Start(ctx); err != nil {
			return fmt.Errorf("failed to start camera: %w", err)
		}
	}

	out := withSpinner("Registering student", func() orchestrator.Outcome {
		return k.Enroller.Run(ctx)
	})
	return reportOutcome(out, jsonOutput)
}

// needsCamera reports whether an enrollment for name gets past validation.
// Blank names are rejected before the camera is touched.
func needsCamera(name string) bool {
	return roster.NormalizeStudentName(name) != ""
}

// reportOutcome prints an orchestrator outcome and turns failures into a
// command error. The console notifier already showed the message.
func reportOutcome(out orchestrator.Outcome, jsonOutput bool) error {
	if jsonOutput {
		if err := outputJSON(out); err != nil {
			return err
		}
	} else if out.Succeeded() && out.Detail != "" {
		fmt.Printf("  Service: %s\n", out.Detail)
	}

	if !out.Succeeded() {
		if out.Err != nil {
			return fmt.Errorf("%s: %w", out.Kind, out.Err)
		}
		return errors.New(out.Message)
	}
	return nil
}
