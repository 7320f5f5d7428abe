package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the check header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	line := "Check"
	if state.Catalog != "" {
		line += " " + state.Catalog
	}
	if !state.StartedAt.IsZero() {
		line += " | Elapsed: " + now.Sub(state.StartedAt).Round(100*time.Millisecond).String()
	}
	if state.Finished {
		line += " | done"
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Queued: " + fmtInt(counts.Queued) +
		" Reading: " + fmtInt(counts.Reading) +
		" Validating: " + fmtInt(counts.Validating) +
		" Done: " + fmtInt(counts.Done) +
		" Passed: " + fmtInt(counts.Passed) +
		" Failed: " + fmtInt(counts.Failed) +
		" Error: " + fmtInt(counts.Error)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
