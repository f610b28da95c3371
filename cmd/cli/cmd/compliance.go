package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var complianceCmd = &cobra.Command{
	Use:   "compliance [pipeline_id]",
	Short: "List the compliance checks evaluated for a pipeline run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipelineID, err := parseID(args[0], "pipeline")
		if err != nil {
			return err
		}

		checks, err := newClient().ListComplianceChecks(cmd.Context(), pipelineID)
		if err != nil {
			return err
		}
		if len(checks) == 0 {
			cmd.Printf("No compliance checks for pipeline %d\n", pipelineID)
			return nil
		}

		t := newTable(cmd.OutOrStdout(), table.Row{"ID", "Framework", "Type", "Check", "Status", "Severity", "Remediation"})
		for _, c := range checks {
			severity := "-"
			if c.Severity != nil {
				severity = colorizeSeverity(*c.Severity)
			}
			t.AppendRow(table.Row{
				c.ID,
				c.Framework,
				c.CheckType,
				c.CheckName,
				colorizeStatus(c.Status),
				severity,
				orDash(c.Remediation),
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(complianceCmd)
}
