package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var testsCmd = &cobra.Command{
	Use:   "tests [pipeline_id]",
	Short: "List the test suite results of a pipeline run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipelineID, err := parseID(args[0], "pipeline")
		if err != nil {
			return err
		}

		results, err := newClient().ListTestResults(cmd.Context(), pipelineID)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			cmd.Printf("No test results for pipeline %d\n", pipelineID)
			return nil
		}

		t := newTable(cmd.OutOrStdout(), table.Row{"Suite", "Total", "Passed", "Failed", "Skipped", "Duration", "Coverage"})
		for _, r := range results {
			failed := text.FgGreen.Sprint(r.FailedTests)
			if r.FailedTests > 0 {
				failed = text.FgRed.Sprint(r.FailedTests)
			}
			t.AppendRow(table.Row{
				r.TestSuite,
				r.TotalTests,
				r.PassedTests,
				failed,
				r.SkippedTests,
				millis(r.Duration),
				orDash(r.Coverage),
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(testsCmd)
}
