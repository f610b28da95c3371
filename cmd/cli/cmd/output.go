package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	return t
}

// statusColor maps any status value of the dashboard to a terminal color.
func statusColor(status string) text.Color {
	switch status {
	case "success", "passed", "resolved":
		return text.FgGreen
	case "failed", "rolled_back":
		return text.FgRed
	case "running", "deploying", "warning", "acknowledged":
		return text.FgYellow
	case "pending", "open":
		return text.FgCyan
	default:
		return text.FgHiBlack
	}
}

func statusIcon(status string) string {
	switch status {
	case "success", "passed", "resolved":
		return "✓"
	case "failed", "rolled_back":
		return "✗"
	case "running", "deploying":
		return "⏳"
	case "pending", "open":
		return "◯"
	case "warning", "acknowledged":
		return "!"
	default:
		return "•"
	}
}

func colorizeStatus[S ~string](status S) string {
	s := string(status)
	return statusColor(s).Sprintf("%s %s", statusIcon(s), s)
}

func severityColor(severity string) text.Color {
	switch severity {
	case "critical":
		return text.FgRed
	case "high":
		return text.FgHiRed
	case "medium":
		return text.FgYellow
	case "low":
		return text.FgCyan
	default:
		return text.FgGreen
	}
}

func colorizeSeverity[S ~string](severity S) string {
	return severityColor(string(severity)).Sprint(string(severity))
}

func formatTimeWithRelative(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s", t.Local().Format("2006-01-02 15:04:05"), text.FgHiBlack.Sprintf("(%s ago)", relativeTime(*t)))
}

func relativeTime(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh", int(duration.Hours()))
	}
	days := int(duration.Hours() / 24)
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	} else if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// seconds renders a duration stored in whole seconds.
func seconds(v *int) string {
	if v == nil {
		return "-"
	}
	return formatDuration(time.Duration(*v) * time.Second)
}

func millis(v *int) string {
	if v == nil {
		return "-"
	}
	return formatDuration(time.Duration(*v) * time.Millisecond)
}

func orDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func idOrDash(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}
