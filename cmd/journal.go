package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recent kiosk events",
	Long: `Lists recorded enrollment and recognition outcomes from the PostgreSQL
journal. Requires DATABASE_URL.`,
	RunE: runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().String("kind", "", "Only list events of this kind (enroll, recognize)")
	journalCmd.Flags().Int("limit", constants.DefaultJournalLimit, "Maximum number of events")
	journalCmd.Flags().Bool("json", false, "Output as JSON")
}

func runJournal(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	k, _, cleanup, err := setupKiosk(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to set up kiosk: %w", err)
	}
	defer cleanup()

	events, err := k.RecentEvents(ctx, mustGetString(cmd, "kind"), mustGetInt(cmd, "limit"))
	if err != nil {
		return fmt.Errorf("failed to list journal events: %w", err)
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(events)
	}
	if len(events) == 0 {
		fmt.Println("No events recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tKIND\tSTATUS\tSUBJECT\tMESSAGE")
	fmt.Fprintln(w, "----\t----\t------\t-------\t-------")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Kind, e.Status, e.SubjectName, e.Message)
	}
	w.Flush()

	if count, err := k.Journal.Count(ctx); err == nil {
		fmt.Printf("\nShowing %d of %d events\n", len(events), count)
	}
	return nil
}
