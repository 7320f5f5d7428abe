package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"datacat/internal/frame"
)

// DefaultDriver is used when a SQL source does not name one.
const DefaultDriver = "duckdb"

type dialect struct {
	driver     string
	dollarArgs bool
	integer    string
	float      string
	boolean    string
	timestamp  string
	text       string
}

var dialects = map[string]dialect{
	"duckdb":   {driver: "duckdb", integer: "BIGINT", float: "DOUBLE", boolean: "BOOLEAN", timestamp: "TIMESTAMP", text: "VARCHAR"},
	"sqlite3":  {driver: "sqlite3", integer: "INTEGER", float: "REAL", boolean: "BOOLEAN", timestamp: "TIMESTAMP", text: "TEXT"},
	"postgres": {driver: "postgres", dollarArgs: true, integer: "BIGINT", float: "DOUBLE PRECISION", boolean: "BOOLEAN", timestamp: "TIMESTAMP", text: "TEXT"},
}

func lookupDialect(driver string) (dialect, error) {
	if driver == "" {
		driver = DefaultDriver
	}
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported sql driver %q", driver)
	}
	return d, nil
}

func (d dialect) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		if d.dollarArgs {
			parts[i] = "$" + strconv.Itoa(i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

func (d dialect) columnType(values []any) string {
	for _, v := range values {
		switch v.(type) {
		case nil:
			continue
		case int64:
			return d.integer
		case float64:
			return d.float
		case bool:
			return d.boolean
		case time.Time:
			return d.timestamp
		default:
			return d.text
		}
	}
	return d.text
}

func (d dialect) createTable(name string, f *frame.Frame) string {
	defs := make([]string, len(f.Columns))
	for i, column := range f.Columns {
		values, _ := f.Column(column)
		defs[i] = quoteIdent(column) + " " + d.columnType(values)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))
}

func (d dialect) insert(name string, f *frame.Frame) string {
	columns := make([]string, len(f.Columns))
	for i, column := range f.Columns {
		columns[i] = quoteIdent(column)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(columns, ", "), d.placeholders(len(columns)))
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

func (d dialect) load(ctx context.Context, db execer, table string, f *frame.Frame, create bool) error {
	if create {
		if _, err := db.ExecContext(ctx, d.createTable(table, f)); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	if f.Len() == 0 {
		return nil
	}
	stmt, err := db.PrepareContext(ctx, d.insert(table, f))
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()
	for i, row := range f.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert row %d into %s: %w", i, table, err)
		}
	}
	return nil
}

// quoteIdent quotes a possibly schema-qualified identifier.
func quoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = `"` + strings.ReplaceAll(part, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var optionName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// optionList renders options as `key = literal` pairs in key order.
func optionList(options map[string]any, keys []string) (string, error) {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if !optionName.MatchString(key) {
			return "", fmt.Errorf("invalid option name %q", key)
		}
		literal, err := sqlLiteral(options[key])
		if err != nil {
			return "", fmt.Errorf("option %s: %w", key, err)
		}
		parts = append(parts, key+" = "+literal)
	}
	return strings.Join(parts, ", "), nil
}

func sqlLiteral(v any) (string, error) {
	switch typed := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return quoteLiteral(typed), nil
	case bool:
		return strconv.FormatBool(typed), nil
	case int:
		return strconv.Itoa(typed), nil
	case int64:
		return strconv.FormatInt(typed, 10), nil
	case uint64:
		return strconv.FormatUint(typed, 10), nil
	case float64:
		return strconv.FormatFloat(typed, 'g', -1, 64), nil
	case []any:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			literal, err := sqlLiteral(item)
			if err != nil {
				return "", err
			}
			items = append(items, literal)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	case map[string]any:
		keys := sortedKeys(typed)
		items := make([]string, 0, len(keys))
		for _, key := range keys {
			literal, err := sqlLiteral(typed[key])
			if err != nil {
				return "", err
			}
			items = append(items, quoteLiteral(key)+": "+literal)
		}
		return "{" + strings.Join(items, ", ") + "}", nil
	default:
		return "", fmt.Errorf("unsupported literal %T", v)
	}
}

// connect returns a database for connection, which is either an open
// *sql.DB or a DSN. The release func closes only databases opened here.
func connect(ctx context.Context, driver string, connection any) (*sql.DB, func(), error) {
	switch typed := connection.(type) {
	case *sql.DB:
		if typed == nil {
			return nil, nil, errors.New("connection is nil")
		}
		return typed, func() {}, nil
	case string:
		d, err := lookupDialect(driver)
		if err != nil {
			return nil, nil, err
		}
		db, err := sql.Open(d.driver, typed)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", d.driver, err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ping %s: %w", d.driver, err)
		}
		return db, func() { _ = db.Close() }, nil
	case nil:
		return nil, nil, errors.New("connection is required")
	default:
		return nil, nil, fmt.Errorf("connection must be a DSN or *sql.DB, got %T", connection)
	}
}
