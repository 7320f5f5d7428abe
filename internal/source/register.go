package source

import (
	"fmt"

	"datacat/internal/symbol"
)

// Register adds the data sources to reg under datacat.source.
func Register(reg *symbol.Registry) {
	reg.Register("datacat.source.MemorySource", symbol.NewType("MemorySource", []string{"data"}, newMemorySource))
	reg.Register("datacat.source.RangeSource", symbol.NewType("RangeSource", []string{"n"}, newRangeSource).WithRequired("n"))
	reg.Register("datacat.source.Wrapper", symbol.NewType("Wrapper", []string{"inner"}, newWrapper).WithRequired("inner"))
	reg.Register("datacat.source.FileSource", symbol.NewType("FileSource", []string{"path", "format", "read_args", "write_args"}, newFileSource).WithRequired("path"))
	reg.Register("datacat.source.SQLSource", symbol.NewType("SQLSource", []string{"query", "params", "driver", "connection"}, newSQLSource).WithRequired("query"))
	reg.Register("datacat.source.SQLTableSource", symbol.NewType("SQLTableSource", []string{"table", "driver", "mode", "connection"}, newSQLTableSource).WithRequired("table"))
}

func newMemorySource(args symbol.Args) (any, error) {
	return &MemorySource{Data: args["data"]}, nil
}

func newRangeSource(args symbol.Args) (any, error) {
	n, err := args.Int("n", 0)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("argument n: must not be negative, got %d", n)
	}
	return &RangeSource{N: n}, nil
}

func newWrapper(args symbol.Args) (any, error) {
	inner, ok := args["inner"].(Source)
	if !ok {
		return nil, fmt.Errorf("argument inner: expected a data source, got %T", args["inner"])
	}
	return &Wrapper{Inner: inner}, nil
}

type fileArgs struct {
	Path      string         `arg:"path"`
	Format    string         `arg:"format"`
	ReadArgs  map[string]any `arg:"read_args"`
	WriteArgs map[string]any `arg:"write_args"`
}

func newFileSource(args symbol.Args) (any, error) {
	var decoded fileArgs
	if err := args.Decode(&decoded); err != nil {
		return nil, err
	}
	return NewFileSource(decoded.Path, decoded.Format, decoded.ReadArgs, decoded.WriteArgs)
}

// Connection stays untyped so a pre-initialized *sql.DB passes through as is.
type sqlArgs struct {
	Query      string `arg:"query"`
	Table      string `arg:"table"`
	Params     []any  `arg:"params"`
	Driver     string `arg:"driver"`
	Mode       string `arg:"mode"`
	Connection any    `arg:"connection"`
}

func decodeSQLArgs(args symbol.Args) (sqlArgs, error) {
	var decoded sqlArgs
	if err := args.Decode(&decoded); err != nil {
		return sqlArgs{}, err
	}
	if _, err := lookupDialect(decoded.Driver); err != nil {
		return sqlArgs{}, err
	}
	if decoded.Connection == nil {
		return sqlArgs{}, fmt.Errorf("%w connection", symbol.ErrMissingArgument)
	}
	return decoded, nil
}

func newSQLSource(args symbol.Args) (any, error) {
	decoded, err := decodeSQLArgs(args)
	if err != nil {
		return nil, err
	}
	return &SQLSource{Query: decoded.Query, Params: decoded.Params, Driver: decoded.Driver, Connection: decoded.Connection}, nil
}

func newSQLTableSource(args symbol.Args) (any, error) {
	decoded, err := decodeSQLArgs(args)
	if err != nil {
		return nil, err
	}
	switch decoded.Mode {
	case "", ModeReplace, ModeAppend:
	default:
		return nil, fmt.Errorf("argument mode: expected %s or %s, got %q", ModeReplace, ModeAppend, decoded.Mode)
	}
	return &SQLTableSource{Table: decoded.Table, Driver: decoded.Driver, Mode: decoded.Mode, Connection: decoded.Connection}, nil
}
