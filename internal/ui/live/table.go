package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// defaultColumns defines the run table layout.
func defaultColumns() []table.Column {
	return []table.Column{
		{Title: "Task", Width: 24},
		{Title: "Mode", Width: 12},
		{Title: "Model", Width: 10},
		{Title: "Rep", Width: 4},
		{Title: "Status", Width: 14},
		{Title: "Turns", Width: 6},
		{Title: "Context", Width: 10},
		{Title: "Cost", Width: 9},
		{Title: "Elapsed", Width: 9},
	}
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			row.Task,
			row.Mode,
			row.Model,
			fmtInt(row.Repetition),
			formatStatus(row, noColor),
			formatTurns(row),
			formatContext(row),
			formatCost(row),
			formatRowDuration(row, now),
		})
	}
	return rows
}
