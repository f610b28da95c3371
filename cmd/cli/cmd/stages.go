package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var stagesCmd = &cobra.Command{
	Use:   "stages [pipeline_id]",
	Short: "List the stages of a pipeline run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipelineID, err := parseID(args[0], "pipeline")
		if err != nil {
			return err
		}

		stages, err := newClient().ListStages(cmd.Context(), pipelineID)
		if err != nil {
			return err
		}
		if len(stages) == 0 {
			cmd.Printf("No stages for pipeline %d\n", pipelineID)
			return nil
		}

		t := newTable(cmd.OutOrStdout(), table.Row{"ID", "Stage", "Status", "Started", "Duration", "Artifacts"})
		for _, s := range stages {
			t.AppendRow(table.Row{
				s.ID,
				s.StageName,
				colorizeStatus(s.Status),
				formatTimeWithRelative(s.StartTime),
				seconds(s.Duration),
				orDash(s.ArtifactsURL),
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stagesCmd)
}
