package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/roster"
	"github.com/spf13/cobra"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List enrolled students",
	Long: `Lists the students enrolled with the recognition service.
--search matches names ignoring case and diacritics.`,
	RunE: runStudents,
}

func init() {
	rootCmd.AddCommand(studentsCmd)

	studentsCmd.Flags().String("search", "", "Filter by name")
	studentsCmd.Flags().Bool("json", false, "Output as JSON")
}

type studentsResult struct {
	students []recognition.Student
	err      error
}

func runStudents(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	search := mustGetString(cmd, "search")

	k, _, cleanup, err := setupKiosk(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to set up kiosk: %w", err)
	}
	defer cleanup()

	res := withSpinner("Loading students", func() studentsResult {
		students, err := k.Students(ctx)
		return studentsResult{students: students, err: err}
	})
	if res.err != nil {
		return res.err
	}

	students := roster.Filter(res.students, func(s recognition.Student) string { return s.Name }, search)
	if mustGetBool(cmd, "json") {
		if students == nil {
			students = []recognition.Student{}
		}
		return outputJSON(students)
	}

	if len(students) == 0 {
		fmt.Println("No students found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	fmt.Fprintln(w, "--\t----")
	for _, s := range students {
		fmt.Fprintf(w, "%d\t%s\n", s.ID, s.Name)
	}
	w.Flush()

	if search != "" {
		fmt.Printf("\nMatched: %d of %d students\n", len(students), len(res.students))
	} else {
		fmt.Printf("\nTotal: %d students\n", len(students))
	}
	return nil
}
