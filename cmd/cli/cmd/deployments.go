package cmd

import (
	"fmt"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var deploymentsCmd = &cobra.Command{
	Use:     "deployments",
	Aliases: []string{"deployment", "deploy"},
	Short:   "Inspect and update deployments",
}

var deploymentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deployments, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipelineID, _ := cmd.Flags().GetInt64("pipeline")

		client := newClient()
		var deployments []store.Deployment
		var err error
		if pipelineID > 0 {
			deployments, err = client.ListPipelineDeployments(cmd.Context(), pipelineID)
		} else {
			deployments, err = client.ListDeployments(cmd.Context())
		}
		if err != nil {
			return err
		}
		if len(deployments) == 0 {
			cmd.Println("No deployments")
			return nil
		}

		t := newTable(cmd.OutOrStdout(), table.Row{"ID", "Pipeline", "Environment", "Version", "Status", "Deployed By", "Started", "URL"})
		for _, d := range deployments {
			t.AppendRow(table.Row{
				d.ID,
				d.PipelineRunID,
				d.Environment,
				d.Version,
				colorizeStatus(d.Status),
				d.DeployedBy,
				formatTimeWithRelative(d.StartTime),
				orDash(d.DeploymentURL),
			})
		}
		t.Render()
		return nil
	},
}

var deploymentsUpdateCmd = &cobra.Command{
	Use:   "update [deployment_id]",
	Short: "Change the status of a deployment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "deployment")
		if err != nil {
			return err
		}

		req := api.UpdateDeploymentRequest{
			Status:  changedString(cmd, "status"),
			Version: changedString(cmd, "version"),
		}
		if req.Status == nil && req.Version == nil {
			return fmt.Errorf("nothing to update: set --status or --version")
		}

		d, err := newClient().UpdateDeployment(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		cmd.Printf("Deployment %d of %s to %s is %s\n", d.ID, d.Version, d.Environment, colorizeStatus(d.Status))
		if d.StartTime != nil && d.EndTime != nil {
			cmd.Printf("Took %s\n", formatDuration(d.EndTime.Sub(*d.StartTime)))
		}
		if d.RollbackTime != nil {
			cmd.Printf("Rolled back %s\n", formatTimeWithRelative(d.RollbackTime))
		}
		return nil
	},
}

func init() {
	deploymentsListCmd.Flags().Int64("pipeline", 0, "only deployments of this pipeline run")

	deploymentsUpdateCmd.Flags().String("status", "", "new status (pending, deploying, success, failed, rolled_back)")
	deploymentsUpdateCmd.Flags().String("version", "", "deployed version")

	deploymentsCmd.AddCommand(deploymentsListCmd, deploymentsUpdateCmd)
	rootCmd.AddCommand(deploymentsCmd)
}
