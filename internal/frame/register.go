package frame

import (
	"fmt"

	"datacat/internal/symbol"
)

// Register adds the frame constructors to reg under datacat.frame.
func Register(reg *symbol.Registry) {
	reg.Register("datacat.frame.Frame", symbol.NewType("Frame", []string{"columns", "rows"}, build).
		WithRequired("columns").
		WithMethod("from_columns", symbol.NewType("Frame", []string{"data", "columns"}, buildFromColumns).WithRequired("data")).
		WithMethod("from_records", symbol.NewType("Frame", []string{"records", "columns"}, buildFromRecords).WithRequired("records")))
}

func build(args symbol.Args) (any, error) {
	columns, err := stringList(args["columns"])
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	var rows [][]any
	if raw, ok := args["rows"]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("rows: expected a list, got %T", raw)
		}
		for i, item := range list {
			row, ok := item.([]any)
			if !ok {
				return nil, fmt.Errorf("rows[%d]: expected a list, got %T", i, item)
			}
			rows = append(rows, row)
		}
	}
	return New(columns, rows)
}

func buildFromColumns(args symbol.Args) (any, error) {
	order, err := stringList(args["columns"])
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	raw, ok := args["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("data: expected a mapping of columns, got %T", args["data"])
	}
	data := make(map[string][]any, len(raw))
	for name, values := range raw {
		list, ok := values.([]any)
		if !ok {
			return nil, fmt.Errorf("data.%s: expected a list, got %T", name, values)
		}
		data[name] = list
	}
	return FromColumns(data, order)
}

func buildFromRecords(args symbol.Args) (any, error) {
	order, err := stringList(args["columns"])
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	raw, ok := args["records"].([]any)
	if !ok {
		return nil, fmt.Errorf("records: expected a list, got %T", args["records"])
	}
	records := make([]map[string]any, 0, len(raw))
	for i, item := range raw {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("records[%d]: expected a mapping, got %T", i, item)
		}
		records = append(records, record)
	}
	return FromRecords(records, order)
}

func stringList(v any) ([]string, error) {
	switch typed := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return typed, nil
	case []any:
		out := make([]string, 0, len(typed))
		for i, item := range typed {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("[%d]: expected a string, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", v)
	}
}
