package live

import (
	"fmt"
	"time"

	"datacat/internal/catalog"
)

// Begin seeds one queued row per dataset.
func Begin(state State, datasets []string) State {
	state.Rows = make([]DatasetRow, len(datasets))
	for i, name := range datasets {
		state.Rows[i] = DatasetRow{Index: i, Name: name, Status: catalog.DatasetQueued}
	}
	state.Counts = recount(state.Rows)
	state.LastEvent = ""
	state.Finished = false
	return state
}

// Reduce applies a dataset event to the UI state.
func Reduce(state State, event catalog.DatasetEvent) State {
	state = ensureRow(state, event)
	state = applyDatasetEvent(state, event)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, event catalog.DatasetEvent) State {
	if event.Index < 0 || event.Index < len(state.Rows) {
		return state
	}
	rows := make([]DatasetRow, event.Index+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = DatasetRow{Index: i, Status: catalog.DatasetQueued}
	}
	state.Rows = rows
	return state
}

// applyDatasetEvent updates a row with the given event.
func applyDatasetEvent(state State, event catalog.DatasetEvent) State {
	if event.Index < 0 || event.Index >= len(state.Rows) {
		return state
	}
	row := state.Rows[event.Index]
	if row.Name == "" {
		row.Name = event.Dataset
	}
	row.Status = event.Status
	if event.Check != "" {
		row.Check = event.Check
	}
	if event.Status == catalog.DatasetReading && row.StartedAt.IsZero() {
		row.StartedAt = event.EmittedAt
	}
	if event.Status == catalog.DatasetValidating || event.Status.Terminal() {
		if event.Status != catalog.DatasetError {
			row.Rows = event.Rows
			row.HasRows = true
		}
	}
	if event.Status.Terminal() {
		row.FinishedAt = event.EmittedAt
		if row.StartedAt.IsZero() && event.Duration > 0 && !event.EmittedAt.IsZero() {
			row.StartedAt = event.EmittedAt.Add(-event.Duration)
		}
		row.Error = event.Error
	}
	state.Rows[event.Index] = row
	return state
}

// recount recomputes status counts for the current rows.
func recount(rows []DatasetRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case catalog.DatasetQueued:
			counts.Queued++
		case catalog.DatasetReading:
			counts.Reading++
		case catalog.DatasetValidating:
			counts.Validating++
		case catalog.DatasetPassed:
			counts.Done++
			counts.Passed++
		case catalog.DatasetFailed:
			counts.Done++
			counts.Failed++
		case catalog.DatasetError:
			counts.Done++
			counts.Error++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event catalog.DatasetEvent) string {
	switch event.Status {
	case catalog.DatasetPassed:
		return fmt.Sprintf("%s passed (%s)", event.Dataset, formatDuration(event.Duration))
	case catalog.DatasetFailed:
		return fmt.Sprintf("%s failed %s: %s", event.Dataset, event.Check, event.Error)
	case catalog.DatasetError:
		return fmt.Sprintf("%s read error: %s", event.Dataset, event.Error)
	}
	return ""
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(100 * time.Millisecond).String()
}
