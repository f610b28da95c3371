package cmd

import (
	"fmt"
	"strconv"

	"devsecboard/internal/store"
	"devsecboard/pkg/api"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var pipelinesCmd = &cobra.Command{
	Use:     "pipelines",
	Aliases: []string{"pipeline", "pl"},
	Short:   "Inspect and drive pipeline runs",
}

var pipelinesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pipeline runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, err := newClient().ListPipelines(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			cmd.Println("No pipeline runs")
			return nil
		}

		t := newTable(cmd.OutOrStdout(), table.Row{"ID", "Name", "Branch", "Status", "Stage", "Started", "Duration", "Triggered By"})
		for _, run := range runs {
			t.AppendRow(table.Row{
				run.ID,
				run.Name,
				run.Branch,
				colorizeStatus(run.Status),
				orDash(run.CurrentStage),
				formatTimeWithRelative(run.StartTime),
				seconds(run.Duration),
				run.TriggeredBy,
			})
		}
		t.Render()
		return nil
	},
}

var pipelinesCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the earliest started pipeline that is still running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := newClient().CurrentPipeline(cmd.Context())
		if err != nil {
			return err
		}
		printPipeline(cmd, run)
		return nil
	},
}

var pipelinesGetCmd = &cobra.Command{
	Use:   "get [pipeline_id]",
	Short: "Show a single pipeline run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "pipeline")
		if err != nil {
			return err
		}
		run, err := newClient().GetPipeline(cmd.Context(), id)
		if err != nil {
			return err
		}
		printPipeline(cmd, run)
		return nil
	},
}

var pipelinesStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new pipeline run",
	Long:  `Start a new running pipeline. Omitted flags fall back to the server defaults (branch main, environment staging).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := api.StartPipelineRequest{
			Name:        changedString(cmd, "name"),
			Branch:      changedString(cmd, "branch"),
			TriggeredBy: changedString(cmd, "triggered-by"),
			CommitHash:  changedString(cmd, "commit"),
			Environment: changedString(cmd, "environment"),
		}

		run, err := newClient().StartPipeline(cmd.Context(), req)
		if err != nil {
			return err
		}
		cmd.Printf("Pipeline %d started\n", run.ID)
		printPipeline(cmd, run)
		return nil
	},
}

var pipelinesUpdateCmd = &cobra.Command{
	Use:   "update [pipeline_id]",
	Short: "Update the status or current stage of a pipeline run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "pipeline")
		if err != nil {
			return err
		}

		req := api.UpdatePipelineRequest{
			Status:       changedString(cmd, "status"),
			CurrentStage: changedString(cmd, "stage"),
		}
		if req.Status == nil && req.CurrentStage == nil {
			return fmt.Errorf("nothing to update: set --status or --stage")
		}

		run, err := newClient().UpdatePipeline(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		printPipeline(cmd, run)
		return nil
	},
}

func printPipeline(cmd *cobra.Command, run *store.PipelineRun) {
	cmd.Printf("%s Pipeline %d\n", statusIcon(string(run.Status)), run.ID)
	cmd.Println("──────────────────────────────")
	cmd.Printf("Name:         %s\n", run.Name)
	cmd.Printf("Branch:       %s\n", run.Branch)
	cmd.Printf("Status:       %s\n", colorizeStatus(run.Status))
	cmd.Printf("Stage:        %s\n", orDash(run.CurrentStage))
	cmd.Printf("Commit:       %s\n", orDash(run.CommitHash))
	cmd.Printf("Environment:  %s\n", orDash(run.Environment))
	cmd.Printf("Triggered By: %s\n", run.TriggeredBy)
	cmd.Printf("Started:      %s\n", formatTimeWithRelative(run.StartTime))
	cmd.Printf("Finished:     %s\n", formatTimeWithRelative(run.EndTime))
	cmd.Printf("Duration:     %s\n", seconds(run.Duration))
}

func parseID(raw, label string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", label, raw)
	}
	return id, nil
}

// changedString returns the flag value only when the user set it.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func init() {
	pipelinesStartCmd.Flags().String("name", "", "pipeline name")
	pipelinesStartCmd.Flags().String("branch", "", "branch being built")
	pipelinesStartCmd.Flags().String("triggered-by", "", "who or what started the run")
	pipelinesStartCmd.Flags().String("commit", "", "commit hash")
	pipelinesStartCmd.Flags().String("environment", "", "target environment")

	pipelinesUpdateCmd.Flags().String("status", "", "new status (pending, running, success, failed, cancelled)")
	pipelinesUpdateCmd.Flags().String("stage", "", "current stage (source, build, sast, test, dast, deploy)")

	pipelinesCmd.AddCommand(pipelinesListCmd, pipelinesCurrentCmd, pipelinesGetCmd, pipelinesStartCmd, pipelinesUpdateCmd)
	rootCmd.AddCommand(pipelinesCmd)
}
