package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:     "metrics",
	Aliases: []string{"dashboard", "overview"},
	Short:   "Show the dashboard overview metrics",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newClient().DashboardMetrics(cmd.Context())
		if err != nil {
			return err
		}

		cmd.Printf("Dashboard metrics (%s)\n", m.Period)

		t := newTable(cmd.OutOrStdout(), table.Row{"Area", "Metric", "Value"})
		t.AppendRows([]table.Row{
			{"Pipelines", "Total", m.TotalPipelines},
			{"Pipelines", "Successful", text.FgGreen.Sprint(m.SuccessfulPipelines)},
			{"Pipelines", "Failed", text.FgRed.Sprint(m.FailedPipelines)},
			{"Pipelines", "Success Rate", ratio(m.SuccessfulPipelines, m.TotalPipelines)},
			{"Pipelines", "Average Duration", seconds(&m.AverageDuration)},
		})
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"Security", "Total Issues", m.TotalSecurityIssues},
			{"Security", "Critical", colorizeSeverity("critical") + fmt.Sprintf(" %d", m.CriticalIssues)},
			{"Security", "High", colorizeSeverity("high") + fmt.Sprintf(" %d", m.HighIssues)},
			{"Security", "Medium", colorizeSeverity("medium") + fmt.Sprintf(" %d", m.MediumIssues)},
			{"Security", "Low", colorizeSeverity("low") + fmt.Sprintf(" %d", m.LowIssues)},
			{"Security", "Resolved", m.ResolvedIssues},
		})
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"Quality", "Average Coverage", m.AverageCoverage + "%"},
			{"Quality", "Average Complexity", m.AverageComplexity},
			{"Quality", "Technical Debt", m.TotalTechnicalDebt},
		})
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"Deployments", "Total", m.TotalDeployments},
			{"Deployments", "Successful", text.FgGreen.Sprint(m.SuccessfulDeployments)},
			{"Deployments", "Failed", text.FgRed.Sprint(m.FailedDeployments)},
			{"Deployments", "Average Time", seconds(&m.AverageDeploymentTime)},
		})
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}})
		t.Render()

		cmd.Printf("Last updated %s\n", formatTimeWithRelative(&m.LastUpdated))
		return nil
	},
}

func ratio(part, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
