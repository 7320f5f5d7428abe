// Package frame provides a small column-named table used as the tabular
// data value exchanged between sources, sinks and validators.
package frame

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"
)

// Frame is a rectangular table with named columns.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// New builds a frame, normalizing cell values.
func New(columns []string, rows [][]any) (*Frame, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, column := range columns {
		if _, ok := seen[column]; ok {
			return nil, fmt.Errorf("frame: duplicate column %q", column)
		}
		seen[column] = struct{}{}
	}
	out := &Frame{Columns: slices.Clone(columns), Rows: make([][]any, 0, len(rows))}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("frame: row %d has %d values, want %d", i, len(row), len(columns))
		}
		normalized := make([]any, len(row))
		for j, cell := range row {
			normalized[j] = Normalize(cell)
		}
		out.Rows = append(out.Rows, normalized)
	}
	return out, nil
}

// FromColumns builds a frame from column slices of equal length. Columns are
// laid out in order when given, otherwise sorted by name.
func FromColumns(data map[string][]any, order []string) (*Frame, error) {
	columns := order
	if len(columns) == 0 {
		columns = make([]string, 0, len(data))
		for name := range data {
			columns = append(columns, name)
		}
		sort.Strings(columns)
	}
	length := -1
	for _, name := range columns {
		values, ok := data[name]
		if !ok {
			return nil, fmt.Errorf("frame: missing column %q", name)
		}
		if length >= 0 && len(values) != length {
			return nil, fmt.Errorf("frame: column %q has %d values, want %d", name, len(values), length)
		}
		length = len(values)
	}
	if length < 0 {
		length = 0
	}
	rows := make([][]any, length)
	for i := range rows {
		row := make([]any, len(columns))
		for j, name := range columns {
			row[j] = data[name][i]
		}
		rows[i] = row
	}
	return New(columns, rows)
}

// FromRecords builds a frame from row mappings. Without an explicit column
// order the union of keys is used, sorted. Absent keys become nil.
func FromRecords(records []map[string]any, order []string) (*Frame, error) {
	columns := order
	if len(columns) == 0 {
		set := map[string]struct{}{}
		for _, record := range records {
			for key := range record {
				set[key] = struct{}{}
			}
		}
		for key := range set {
			columns = append(columns, key)
		}
		sort.Strings(columns)
	}
	rows := make([][]any, 0, len(records))
	for _, record := range records {
		row := make([]any, len(columns))
		for j, name := range columns {
			row[j] = record[name]
		}
		rows = append(rows, row)
	}
	return New(columns, rows)
}

// FromRows drains a query result into a frame. The rows are closed.
func FromRows(rows *sql.Rows) (*Frame, error) {
	if rows == nil {
		return nil, errors.New("frame: rows is nil")
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("frame: columns: %w", err)
	}
	var data [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("frame: scan: %w", err)
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("frame: rows: %w", err)
	}
	return New(columns, data)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Index returns the position of a column, or -1.
func (f *Frame) Index(name string) int {
	if f == nil {
		return -1
	}
	return slices.Index(f.Columns, name)
}

// Column returns the values of one column.
func (f *Frame) Column(name string) ([]any, bool) {
	idx := f.Index(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Records returns the rows as mappings keyed by column name.
func (f *Frame) Records() []map[string]any {
	if f == nil {
		return nil
	}
	out := make([]map[string]any, 0, len(f.Rows))
	for _, row := range f.Rows {
		record := make(map[string]any, len(f.Columns))
		for j, name := range f.Columns {
			record[name] = row[j]
		}
		out = append(out, record)
	}
	return out
}

// Normalize maps driver-specific cell types onto int64, float64, string,
// bool, time.Time or nil. Unsigned values above math.MaxInt64 stay uint64.
func Normalize(v any) any {
	switch typed := v.(type) {
	case int:
		return int64(typed)
	case int8:
		return int64(typed)
	case int16:
		return int64(typed)
	case int32:
		return int64(typed)
	case uint8:
		return int64(typed)
	case uint16:
		return int64(typed)
	case uint32:
		return int64(typed)
	case uint:
		return normalizeUint(uint64(typed))
	case uint64:
		return normalizeUint(typed)
	case float32:
		return float64(typed)
	case []byte:
		return string(typed)
	case time.Time:
		return typed.UTC()
	default:
		return v
	}
}

func normalizeUint(v uint64) any {
	if v > math.MaxInt64 {
		return v
	}
	return int64(v)
}
