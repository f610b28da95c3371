package cmd

import (
	"fmt"
	"slices"
	"strings"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var issuesCmd = &cobra.Command{
	Use:     "issues",
	Aliases: []string{"issue", "security"},
	Short:   "Inspect and triage security findings",
}

var issuesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List security findings, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipelineID, _ := cmd.Flags().GetInt64("pipeline")
		severity, _ := cmd.Flags().GetString("severity")
		status, _ := cmd.Flags().GetString("status")
		category, _ := cmd.Flags().GetString("category")

		if severity != "" && !slices.Contains(api.Severities, severity) {
			return fmt.Errorf("invalid severity %q (one of %s)", severity, strings.Join(api.Severities, ", "))
		}
		if status != "" && !slices.Contains(api.IssueStatuses, status) {
			return fmt.Errorf("invalid status %q (one of %s)", status, strings.Join(api.IssueStatuses, ", "))
		}
		filter := store.SecurityIssueFilter{
			Severity: store.Severity(severity),
			Status:   store.IssueStatus(status),
			Category: category,
		}

		client := newClient()
		var issues []store.SecurityIssue
		var err error
		if pipelineID > 0 {
			// The pipeline scoped endpoint takes no filters.
			issues, err = client.ListPipelineSecurityIssues(cmd.Context(), pipelineID)
			issues = slices.DeleteFunc(issues, func(issue store.SecurityIssue) bool { return !filter.Match(issue) })
		} else {
			issues, err = client.ListSecurityIssues(cmd.Context(), filter)
		}
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			cmd.Println("No security issues")
			return nil
		}

		t := newTable(cmd.OutOrStdout(), table.Row{"ID", "Severity", "Status", "Title", "Tool", "Location", "CWE", "Assignee"})
		for _, issue := range issues {
			location := issue.File
			if issue.Line != nil {
				location = fmt.Sprintf("%s:%d", issue.File, *issue.Line)
			}
			t.AppendRow(table.Row{
				issue.ID,
				colorizeSeverity(issue.Severity),
				colorizeStatus(issue.Status),
				issue.Title,
				issue.Tool,
				location,
				orDash(issue.CWEID),
				orDash(issue.AssignedTo),
			})
		}
		t.Render()
		cmd.Println(severitySummary(issues))
		return nil
	},
}

var issuesUpdateCmd = &cobra.Command{
	Use:   "update [issue_id]",
	Short: "Change the triage status or assignee of a security finding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "issue")
		if err != nil {
			return err
		}

		req := api.UpdateSecurityIssueRequest{
			Status:     changedString(cmd, "status"),
			AssignedTo: changedString(cmd, "assignee"),
		}
		if req.Status == nil && req.AssignedTo == nil {
			return fmt.Errorf("nothing to update: set --status or --assignee")
		}

		issue, err := newClient().UpdateSecurityIssue(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		cmd.Printf("Issue %d is %s", issue.ID, colorizeStatus(issue.Status))
		if issue.AssignedTo != nil {
			cmd.Printf(", assigned to %s", *issue.AssignedTo)
		}
		if issue.ResolvedAt != nil {
			cmd.Printf(", resolved %s", formatTimeWithRelative(issue.ResolvedAt))
		}
		cmd.Println()
		return nil
	},
}

// severitySummary counts findings per severity, most severe first.
func severitySummary(issues []store.SecurityIssue) string {
	counts := make(map[string]int)
	for _, issue := range issues {
		counts[string(issue.Severity)]++
	}
	var parts []string
	for _, severity := range api.Severities {
		if n := counts[severity]; n > 0 {
			parts = append(parts, severityColor(severity).Sprintf("%d %s", n, severity))
		}
	}
	return fmt.Sprintf("Total: %d (%s)", len(issues), strings.Join(parts, ", "))
}

func init() {
	issuesListCmd.Flags().Int64("pipeline", 0, "only findings of this pipeline run")
	issuesListCmd.Flags().String("severity", "", "filter by severity (critical, high, medium, low, info)")
	issuesListCmd.Flags().String("status", "", "filter by status (open, acknowledged, resolved, false_positive)")
	issuesListCmd.Flags().String("category", "", "filter by category")

	issuesUpdateCmd.Flags().String("status", "", "new status (open, acknowledged, resolved, false_positive)")
	issuesUpdateCmd.Flags().String("assignee", "", "person responsible for the fix")

	issuesCmd.AddCommand(issuesListCmd, issuesUpdateCmd)
	rootCmd.AddCommand(issuesCmd)
}
