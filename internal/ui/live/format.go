package live

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"tokenbench/internal/runner"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatStatus renders a status string for a row.
func formatStatus(row RunRow, noColor bool) string {
	label := statusLabel(row.Status)
	if row.Status == runner.RunIncorrect && row.Reason != "" {
		label = label + " (" + truncate(row.Reason, 40) + ")"
	}
	if noColor {
		return label
	}
	return statusStyle(row.Status).Render(label)
}

// statusLabel maps status codes to display labels.
func statusLabel(status runner.RunEventType) string {
	switch status {
	case runner.RunQueued:
		return "queued"
	case runner.RunStarted:
		return "running"
	case runner.RunCorrect:
		return "correct"
	case runner.RunIncorrect:
		return "incorrect"
	case runner.RunErrored:
		return "error"
	default:
		return string(status)
	}
}

// formatTurns renders the turn count once a row has finished.
func formatTurns(row RunRow) string {
	if !isTerminalStatus(row.Status) {
		return ""
	}
	return strconv.FormatInt(row.NumTurns, 10)
}

// formatContext renders the context token count for display.
func formatContext(row RunRow) string {
	if !isTerminalStatus(row.Status) || row.ContextTokens <= 0 {
		return ""
	}
	return humanize.Comma(row.ContextTokens)
}

// formatCost renders the run cost for display.
func formatCost(row RunRow) string {
	if !isTerminalStatus(row.Status) {
		return ""
	}
	return fmt.Sprintf("$%.4f", row.CostUSD)
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row RunRow, now time.Time) string {
	if !row.FinishedAt.IsZero() && !row.StartedAt.IsZero() {
		return row.FinishedAt.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	if !row.StartedAt.IsZero() {
		return now.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	return ""
}

// truncate limits text to the given byte length.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit-3] + "..."
}

// statusStyle selects a style for a given status.
func statusStyle(status runner.RunEventType) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case runner.RunCorrect:
		color = lipgloss.Color("42")
	case runner.RunIncorrect:
		color = lipgloss.Color("220")
	case runner.RunErrored:
		color = lipgloss.Color("196")
	case runner.RunStarted:
		color = lipgloss.Color("33")
	case runner.RunQueued:
		color = lipgloss.Color("246")
	}
	return lipgloss.NewStyle().Foreground(color)
}
