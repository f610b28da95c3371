package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"devsecboard/pkg/api"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live changes from the dashboard",
	Long:  `Follow the change feed of the dashboard and print one line per created or updated record. Press Ctrl+C to stop.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipelineID, _ := cmd.Flags().GetInt64("pipeline")
		limit, _ := cmd.Flags().GetInt("limit")

		endpoint, err := newClient().EventsURL(pipelineID)
		if err != nil {
			return err
		}

		// Trap Ctrl+C to exit gracefully
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
		if err != nil {
			if resp != nil {
				return fmt.Errorf("failed to connect to %s: %s", endpoint, resp.Status)
			}
			return fmt.Errorf("failed to connect to %s: %w", endpoint, err)
		}
		defer conn.Close()

		go func() {
			<-ctx.Done()
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		}()

		cmd.Printf("Watching %s\n", endpoint)
		for seen := 0; limit <= 0 || seen < limit; seen++ {
			var ev api.ChangeEvent
			if err := conn.ReadJSON(&ev); err != nil {
				if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return nil
				}
				var closeErr *websocket.CloseError
				if errors.As(err, &closeErr) {
					return fmt.Errorf("server closed the feed: %w", err)
				}
				return fmt.Errorf("reading event: %w", err)
			}
			cmd.Println(formatEvent(ev))
		}
		return nil
	},
}

func formatEvent(ev api.ChangeEvent) string {
	line := fmt.Sprintf("%s  %-8s %-17s #%d", ev.Time.Local().Format("15:04:05"), ev.Action, ev.Entity, ev.ID)
	if ev.PipelineRunID != nil {
		line += fmt.Sprintf("  pipeline %d", *ev.PipelineRunID)
	}
	if data, ok := ev.Data.(map[string]any); ok {
		if status, ok := data["status"].(string); ok {
			line += "  " + colorizeStatus(status)
		}
	}
	return line
}

func init() {
	watchCmd.Flags().Int64("pipeline", 0, "only changes belonging to this pipeline run")
	watchCmd.Flags().Int("limit", 0, "exit after this many events (0 streams until interrupted)")
	rootCmd.AddCommand(watchCmd)
}
