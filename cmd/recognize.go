package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/kozaktomas/face-attendance/internal/orchestrator"
	"github.com/spf13/cobra"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize",
	Short: "Mark attendance for the face in front of the camera",
	Long: `Captures a frame from the camera and sends it to the recognition service.
On a match the student's attendance is marked and the refreshed ledger can be
printed with --ledger.`,
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().Bool("ledger", false, "Print the attendance ledger after a match")
	recognizeCmd.Flags().Bool("json", false, "Output as JSON")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	jsonOutput := mustGetBool(cmd, "json")

	k, _, cleanup, err := setupKiosk(ctx, notify.NewConsole(os.Stdout))
	if err != nil {
		return fmt.Errorf("failed to set up kiosk: %w", err)
	}
	defer cleanup()

	if err := k.Camera.Start(ctx); err != nil {
		return fmt.Errorf("failed to start camera: %w", err)
	}

	out := withSpinner("Recognizing face", func() orchestrator.Outcome {
		return k.Recognizer.Run(ctx)
	})
	if err := reportOutcome(out, jsonOutput); err != nil {
		return err
	}

	// A match navigates to the ledger, which loads it.
	if mustGetBool(cmd, "ledger") && !jsonOutput {
		fmt.Println()
		return printLedger(k.Ledger.View())
	}
	return nil
}
