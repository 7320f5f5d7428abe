package live

import "datacat/internal/catalog"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventCheckStart signals the start of a catalog check.
	EventCheckStart EventKind = iota
	// EventDataset delivers a dataset status update.
	EventDataset
	// EventCheckEnd signals check completion.
	EventCheckEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind     EventKind
	Catalog  string
	Datasets []string
	Dataset  catalog.DatasetEvent
	Failed   int
}
