package cmd

import (
	"devsecboard/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var qualityCmd = &cobra.Command{
	Use:     "quality",
	Aliases: []string{"code"},
	Short:   "Show code quality metrics",
	Long:    `Show the most recently updated code quality metrics, or those of one pipeline run with --pipeline.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipelineID, _ := cmd.Flags().GetInt64("pipeline")

		client := newClient()
		var m *store.CodeMetrics
		var err error
		if pipelineID > 0 {
			m, err = client.PipelineCodeMetrics(cmd.Context(), pipelineID)
		} else {
			m, err = client.LatestCodeMetrics(cmd.Context())
		}
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout(), table.Row{"Metric", "Value"})
		t.AppendRows([]table.Row{
			{"Pipeline", idOrDash(m.PipelineRunID)},
			{"Coverage", m.Coverage + "%"},
			{"Lines of Code", intOrDash(m.LinesOfCode)},
			{"Cyclomatic Complexity", orDash(m.CyclomaticComplexity)},
			{"Maintainability Index", orDash(m.MaintainabilityIndex)},
			{"Technical Debt", orDash(m.TechnicalDebt)},
			{"Duplicated Lines", intOrDash(m.DuplicatedLines)},
			{"Code Smells", intOrDash(m.CodeSmells)},
			{"Bugs", intOrDash(m.Bugs)},
			{"Vulnerabilities", intOrDash(m.Vulnerabilities)},
			{"Security Hotspots", intOrDash(m.SecurityHotspots)},
			{"Last Updated", formatTimeWithRelative(&m.LastUpdated)},
		})
		t.Render()
		return nil
	},
}

func init() {
	qualityCmd.Flags().Int64("pipeline", 0, "metrics of this pipeline run instead of the latest")
	rootCmd.AddCommand(qualityCmd)
}
