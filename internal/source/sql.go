package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"datacat/internal/frame"
)

// SQLSource runs a query and reads its result as a frame.
type SQLSource struct {
	Query      string
	Params     []any
	Driver     string
	Connection any
}

// Read runs the query.
func (s *SQLSource) Read(ctx context.Context) (any, error) {
	db, release, err := connect(ctx, s.Driver, s.Connection)
	if err != nil {
		return nil, fmt.Errorf("sql source: %w", err)
	}
	defer release()
	rows, err := db.QueryContext(ctx, s.Query, s.Params...)
	if err != nil {
		return nil, fmt.Errorf("sql source: query: %w", err)
	}
	return frame.FromRows(rows)
}

func (s *SQLSource) String() string {
	return fmt.Sprintf("SQLSource(driver=%s, query=%q)", driverName(s.Driver), s.Query)
}

// Table write modes.
const (
	ModeReplace = "replace"
	ModeAppend  = "append"
)

// SQLTableSource reads and writes a whole table.
type SQLTableSource struct {
	Table      string
	Driver     string
	Mode       string
	Connection any
}

// Read selects every row of the table.
func (s *SQLTableSource) Read(ctx context.Context) (any, error) {
	db, release, err := connect(ctx, s.Driver, s.Connection)
	if err != nil {
		return nil, fmt.Errorf("sql table %s: %w", s.Table, err)
	}
	defer release()
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(s.Table))
	if err != nil {
		return nil, fmt.Errorf("sql table %s: query: %w", s.Table, err)
	}
	return frame.FromRows(rows)
}

// Write stores data in the table. Replace mode loads a staging table and
// swaps it in inside one transaction; append mode creates the table when
// missing and inserts.
func (s *SQLTableSource) Write(ctx context.Context, data any) error {
	f, err := ToFrame(data)
	if err != nil {
		return fmt.Errorf("sql table %s: %w", s.Table, err)
	}
	d, err := lookupDialect(s.Driver)
	if err != nil {
		return fmt.Errorf("sql table %s: %w", s.Table, err)
	}
	db, release, err := connect(ctx, s.Driver, s.Connection)
	if err != nil {
		return fmt.Errorf("sql table %s: %w", s.Table, err)
	}
	defer release()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sql table %s: begin: %w", s.Table, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	target := quoteIdent(s.Table)
	switch s.mode() {
	case ModeAppend:
		create := strings.Replace(d.createTable(target, f), "CREATE TABLE", "CREATE TABLE IF NOT EXISTS", 1)
		if _, err := tx.ExecContext(ctx, create); err != nil {
			return fmt.Errorf("sql table %s: create: %w", s.Table, err)
		}
		if err := d.load(ctx, tx, target, f, false); err != nil {
			return fmt.Errorf("sql table %s: %w", s.Table, err)
		}
	case ModeReplace:
		staging := stagingName(s.Table)
		if err := d.load(ctx, tx, quoteIdent(staging), f, true); err != nil {
			return fmt.Errorf("sql table %s: %w", s.Table, err)
		}
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+target); err != nil {
			return fmt.Errorf("sql table %s: drop: %w", s.Table, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", quoteIdent(staging), quoteIdent(baseName(s.Table)))); err != nil {
			return fmt.Errorf("sql table %s: rename: %w", s.Table, err)
		}
	default:
		return fmt.Errorf("sql table %s: unknown mode %q", s.Table, s.Mode)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sql table %s: commit: %w", s.Table, err)
	}
	committed = true
	return nil
}

func (s *SQLTableSource) String() string {
	return fmt.Sprintf("SQLTableSource(driver=%s, table=%s)", driverName(s.Driver), s.Table)
}

func (s *SQLTableSource) mode() string {
	if s.Mode == "" {
		return ModeReplace
	}
	return s.Mode
}

// stagingName keeps the schema of table and adds a unique suffix.
func stagingName(table string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return table + "_staging_" + suffix[:12]
}

func baseName(table string) string {
	if idx := strings.LastIndex(table, "."); idx >= 0 {
		return table[idx+1:]
	}
	return table
}

func driverName(driver string) string {
	if driver == "" {
		return DefaultDriver
	}
	return driver
}
