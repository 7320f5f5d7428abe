package live

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"datacat/internal/catalog"
)

// formatName truncates long dataset names for display.
func formatName(name string) string {
	const limit = 40
	if len(name) <= limit {
		return name
	}
	return name[:limit-3] + "..."
}

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatStatus renders a status string for a row.
func formatStatus(row DatasetRow, noColor bool) string {
	label := string(row.Status)
	if row.Status == catalog.DatasetValidating && row.Check != "" {
		label += " " + row.Check
	}
	return stylizeStatus(label, row.Status, noColor)
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row DatasetRow, now time.Time) string {
	if !row.FinishedAt.IsZero() && !row.StartedAt.IsZero() {
		return row.FinishedAt.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	if !row.StartedAt.IsZero() {
		return now.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	return ""
}

// formatRows formats the dataset length for display.
func formatRows(row DatasetRow) string {
	if !row.HasRows {
		return ""
	}
	return fmtInt(row.Rows)
}

// formatError flattens an error message onto a single line.
func formatError(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	const limit = 60
	if len(normalized) <= limit {
		return normalized
	}
	return normalized[:limit-3] + "..."
}

// stylizeStatus applies status coloring when enabled.
func stylizeStatus(text string, status catalog.DatasetStatus, noColor bool) string {
	if noColor {
		return text
	}
	return statusStyle(status).Render(text)
}

// statusStyle selects a style for a given status.
func statusStyle(status catalog.DatasetStatus) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case catalog.DatasetPassed:
		color = lipgloss.Color("42")
	case catalog.DatasetFailed:
		color = lipgloss.Color("220")
	case catalog.DatasetError:
		color = lipgloss.Color("196")
	case catalog.DatasetReading:
		color = lipgloss.Color("33")
	case catalog.DatasetValidating:
		color = lipgloss.Color("201")
	case catalog.DatasetQueued:
		color = lipgloss.Color("246")
	}
	return lipgloss.NewStyle().Foreground(color)
}
