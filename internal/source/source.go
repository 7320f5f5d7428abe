// Package source holds the data sources a catalog entry can construct:
// in-memory values, files read through DuckDB or YAML, SQL queries and SQL
// tables. Each is registered under datacat.source.
package source

import (
	"context"
	"errors"
	"fmt"

	"datacat/internal/frame"
)

// Source reads a dataset.
type Source interface {
	Read(ctx context.Context) (any, error)
}

// Sink accepts a dataset to store.
type Sink interface {
	Write(ctx context.Context, data any) error
}

// ErrUnsupportedData reports a value a sink cannot store.
var ErrUnsupportedData = errors.New("unsupported data")

// ToFrame converts tabular values into a frame.
func ToFrame(data any) (*frame.Frame, error) {
	switch typed := data.(type) {
	case *frame.Frame:
		if typed == nil {
			return nil, fmt.Errorf("%w: nil frame", ErrUnsupportedData)
		}
		return typed, nil
	case frame.Frame:
		return &typed, nil
	case []map[string]any:
		return frame.FromRecords(typed, nil)
	case []any:
		records := make([]map[string]any, 0, len(typed))
		for i, item := range typed {
			record, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: item %d is %T, want a mapping", ErrUnsupportedData, i, item)
			}
			records = append(records, record)
		}
		return frame.FromRecords(records, nil)
	default:
		return nil, fmt.Errorf("%w: %T is not tabular", ErrUnsupportedData, data)
	}
}
