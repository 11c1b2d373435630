package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kozaktomas/face-attendance/internal/ledger"
	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/spf13/cobra"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Show the attendance ledger",
	Long: `Fetches every student's last attendance from the recognition service.
Use --sort and --direction to order the list; students never marked present
are listed first.`,
	RunE: runAttendance,
}

func init() {
	rootCmd.AddCommand(attendanceCmd)

	attendanceCmd.Flags().String("sort", "", "Sort column: id, name, lastAttendance")
	attendanceCmd.Flags().String("direction", "asc", "Sort direction: asc, desc, none")
	attendanceCmd.Flags().Bool("json", false, "Output as JSON")
}

func runAttendance(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sortFlag := mustGetString(cmd, "sort")
	jsonOutput := mustGetBool(cmd, "json")

	key, err := ledger.ParseSortKey(sortFlag)
	if err != nil {
		return err
	}
	direction, err := ledger.ParseDirection(mustGetString(cmd, "direction"))
	if err != nil {
		return err
	}

	k, _, cleanup, err := setupKiosk(ctx, notify.NewConsole(os.Stderr))
	if err != nil {
		return fmt.Errorf("failed to set up kiosk: %w", err)
	}
	defer cleanup()

	loadErr := withSpinner("Loading attendance", func() error {
		return k.Ledger.Load(ctx)
	})
	if loadErr != nil {
		return fmt.Errorf("loading attendance: %w", loadErr)
	}

	if sortFlag != "" {
		k.Ledger.Sort(key, direction)
	}

	view := k.Ledger.View()
	if jsonOutput {
		return outputJSON(view)
	}
	return printLedger(view)
}

func printLedger(view ledger.View) error {
	if view.Error != "" {
		return errors.New(view.Error)
	}
	if len(view.Records) == 0 {
		fmt.Println("No attendance records found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLAST ATTENDANCE")
	fmt.Fprintln(w, "--\t----\t---------------")
	for _, r := range view.Records {
		fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Name, ledger.FormatLastAttendance(r.LastAttendance))
	}
	w.Flush()

	fmt.Printf("\nTotal: %d students\n", len(view.Records))
	return nil
}
