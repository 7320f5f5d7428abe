package validation

import (
	"fmt"

	"datacat/internal/symbol"
)

// Register adds the built-in checks to reg under datacat.validation.
func Register(reg *symbol.Registry) {
	reg.Register("datacat.validation.not_empty", NewCheck("not_empty", nil, notEmpty))
	reg.Register("datacat.validation.has_columns", NewCheck("has_columns", []string{"columns"}, hasColumns).WithRequired("columns"))
	reg.Register("datacat.validation.no_nulls", NewCheck("no_nulls", []string{"columns"}, noNulls))
	reg.Register("datacat.validation.RowCount", symbol.NewType("RowCount", []string{"min", "max"}, func(args symbol.Args) (any, error) {
		lower, err := args.Int("min", 0)
		if err != nil {
			return nil, err
		}
		upper, err := args.Int("max", 0)
		if err != nil {
			return nil, err
		}
		return NewRowCount(lower, upper)
	}))
	reg.Register("datacat.validation.JSONSchema", symbol.NewType("JSONSchema", []string{"schema", "path"}, func(args symbol.Args) (any, error) {
		schema, hasSchema := args["schema"]
		path, err := args.String("path", "")
		if err != nil {
			return nil, err
		}
		switch {
		case hasSchema && path != "":
			return nil, fmt.Errorf("JSONSchema: give either schema or path, not both")
		case path != "":
			return NewJSONSchemaFromFile(path)
		case hasSchema:
			return NewJSONSchema(schema)
		default:
			return nil, fmt.Errorf("JSONSchema: %w schema or path", symbol.ErrMissingArgument)
		}
	}))
}
