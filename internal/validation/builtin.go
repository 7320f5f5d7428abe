package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"datacat/internal/frame"
	"datacat/internal/symbol"
)

// ErrRejected is wrapped by every built-in check failure.
var ErrRejected = errors.New("data rejected")

func rejected(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}

// Length returns the row or element count of data.
func Length(data any) (int, error) {
	switch typed := data.(type) {
	case nil:
		return 0, nil
	case *frame.Frame:
		return typed.Len(), nil
	case string:
		return len(typed), nil
	}
	value := reflect.ValueOf(data)
	switch value.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return value.Len(), nil
	default:
		return 0, fmt.Errorf("cannot count %T", data)
	}
}

func notEmpty(data any, _ symbol.Args) error {
	n, err := Length(data)
	if err != nil {
		return err
	}
	if n == 0 {
		return rejected("dataset is empty")
	}
	return nil
}

func asFrame(data any) (*frame.Frame, error) {
	f, ok := data.(*frame.Frame)
	if !ok || f == nil {
		return nil, fmt.Errorf("expected a frame, got %T", data)
	}
	return f, nil
}

func columnsArg(args symbol.Args) ([]string, error) {
	var decoded struct {
		Columns []string `arg:"columns"`
	}
	if err := args.Decode(&decoded); err != nil {
		return nil, err
	}
	return decoded.Columns, nil
}

func hasColumns(data any, args symbol.Args) error {
	f, err := asFrame(data)
	if err != nil {
		return err
	}
	columns, err := columnsArg(args)
	if err != nil {
		return err
	}
	var missing []string
	for _, column := range columns {
		if f.Index(column) < 0 {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return rejected("missing columns %s", strings.Join(missing, ", "))
	}
	return nil
}

func noNulls(data any, args symbol.Args) error {
	f, err := asFrame(data)
	if err != nil {
		return err
	}
	columns, err := columnsArg(args)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		columns = f.Columns
	}
	for _, column := range columns {
		values, ok := f.Column(column)
		if !ok {
			return rejected("missing column %s", column)
		}
		for i, value := range values {
			if value == nil {
				return rejected("column %s has a null at row %d", column, i)
			}
		}
	}
	return nil
}

// RowCount checks the number of rows lies within bounds. Last keeps the
// count seen by the most recent call.
type RowCount struct {
	Min  int
	Max  int
	Last int
}

// NewRowCount builds a RowCount. A zero max means unbounded.
func NewRowCount(lower, upper int) (*RowCount, error) {
	if lower < 0 || upper < 0 {
		return nil, fmt.Errorf("row count: bounds must not be negative")
	}
	if upper > 0 && lower > upper {
		return nil, fmt.Errorf("row count: min %d exceeds max %d", lower, upper)
	}
	return &RowCount{Min: lower, Max: upper}, nil
}

// Validate counts the rows of data.
func (r *RowCount) Validate(data any) error {
	n, err := Length(data)
	if err != nil {
		return err
	}
	r.Last = n
	if n < r.Min {
		return rejected("%d rows, want at least %d", n, r.Min)
	}
	if r.Max > 0 && n > r.Max {
		return rejected("%d rows, want at most %d", n, r.Max)
	}
	return nil
}

// Name returns the type name.
func (r *RowCount) Name() string {
	return "RowCount"
}
