package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the table layout for an unknown terminal width.
func defaultColumns() []table.Column {
	return columnsForWidth(100)
}

// columnsForWidth sizes the dataset and error columns to the terminal.
func columnsForWidth(width int) []table.Column {
	const fixed = 4 + 20 + 10 + 10
	rest := max(width-fixed, 30)
	name := min(max(rest/3, 12), 40)
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Dataset", Width: name},
		{Title: "Status", Width: 20},
		{Title: "Rows", Width: 10},
		{Title: "Time", Width: 10},
		{Title: "Error", Width: max(rest-name, 12)},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			fmtInt(row.Index + 1),
			formatName(row.Name),
			formatStatus(row, noColor),
			formatRows(row),
			formatRowDuration(row, now),
			formatError(row.Error),
		})
	}
	return rows
}
