package live

import (
	"time"

	"datacat/internal/catalog"
)

// DatasetRow holds UI state for a single dataset.
type DatasetRow struct {
	Index      int
	Name       string
	Status     catalog.DatasetStatus
	Check      string
	Rows       int
	HasRows    bool
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// StatusCounts aggregates counts by status bucket.
type StatusCounts struct {
	Queued     int
	Reading    int
	Validating int
	Done       int
	Passed     int
	Failed     int
	Error      int
}

// State captures the live UI state for a catalog check.
type State struct {
	Catalog   string
	StartedAt time.Time
	Finished  bool
	LastEvent string
	Rows      []DatasetRow
	Counts    StatusCounts
}
