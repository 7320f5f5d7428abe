package source

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"datacat/internal/frame"
)

// File formats.
const (
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatParquet = "parquet"
	FormatYAML    = "yaml"
)

var readFunctions = map[string]string{
	FormatCSV:     "read_csv_auto",
	FormatJSON:    "read_json_auto",
	FormatParquet: "read_parquet",
}

// FileSource reads and writes a file. Tabular formats go through DuckDB;
// yaml files hold any value.
type FileSource struct {
	Path      string
	Format    string
	ReadArgs  map[string]any
	WriteArgs map[string]any
}

// NewFileSource checks the format, inferring it from the extension when empty.
func NewFileSource(path, format string, readArgs, writeArgs map[string]any) (*FileSource, error) {
	if path == "" {
		return nil, fmt.Errorf("file source: path is required")
	}
	if format == "" {
		format = formatFromExt(path)
	}
	format = strings.ToLower(format)
	if _, ok := readFunctions[format]; !ok && format != FormatYAML {
		return nil, fmt.Errorf("file source %s: unsupported format %q", path, format)
	}
	return &FileSource{Path: path, Format: format, ReadArgs: readArgs, WriteArgs: writeArgs}, nil
}

func formatFromExt(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "yml":
		return FormatYAML
	case "ndjson", "jsonl":
		return FormatJSON
	case "pq":
		return FormatParquet
	default:
		return ext
	}
}

// Read loads the file.
func (s *FileSource) Read(ctx context.Context) (any, error) {
	if s.Format == FormatYAML {
		return s.readYAML()
	}
	query, err := s.readQuery()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(DefaultDriver, "")
	if err != nil {
		return nil, fmt.Errorf("file source %s: open duckdb: %w", s.Path, err)
	}
	defer db.Close()
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("file source %s: read: %w", s.Path, err)
	}
	return frame.FromRows(rows)
}

func (s *FileSource) readQuery() (string, error) {
	options, err := optionList(s.ReadArgs, sortedKeys(s.ReadArgs))
	if err != nil {
		return "", fmt.Errorf("file source %s: read_args: %w", s.Path, err)
	}
	args := quoteLiteral(s.Path)
	if options != "" {
		args += ", " + options
	}
	return fmt.Sprintf("SELECT * FROM %s(%s)", readFunctions[s.Format], args), nil
}

func (s *FileSource) readYAML() (any, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("file source %s: %w", s.Path, err)
	}
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("file source %s: parse yaml: %w", s.Path, err)
	}
	return out, nil
}

// Write replaces the file. Content goes to a temporary file in the same
// directory first and is renamed into place.
func (s *FileSource) Write(ctx context.Context, data any) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file source %s: create dir: %w", s.Path, err)
	}
	tmp := filepath.Join(dir, "."+filepath.Base(s.Path)+"."+uuid.NewString()+".tmp")
	var err error
	if s.Format == FormatYAML {
		err = writeYAML(tmp, data)
	} else {
		err = s.copyTo(ctx, tmp, data)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file source %s: %w", s.Path, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file source %s: rename: %w", s.Path, err)
	}
	return nil
}

func (s *FileSource) copyTo(ctx context.Context, target string, data any) error {
	f, err := ToFrame(data)
	if err != nil {
		return err
	}
	if len(f.Columns) == 0 {
		return fmt.Errorf("%w: frame has no columns", ErrUnsupportedData)
	}
	options := map[string]any{"format": s.Format}
	if s.Format == FormatCSV {
		options["header"] = true
	}
	for key, value := range s.WriteArgs {
		options[key] = value
	}
	keys := sortedKeys(options)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if !optionName.MatchString(key) {
			return fmt.Errorf("write_args: invalid option name %q", key)
		}
		literal := fmt.Sprint(options[key])
		if key != "format" {
			if literal, err = sqlLiteral(options[key]); err != nil {
				return fmt.Errorf("write_args %s: %w", key, err)
			}
		}
		parts = append(parts, key+" "+literal)
	}

	db, err := sql.Open(DefaultDriver, "")
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("duckdb conn: %w", err)
	}
	defer conn.Close()

	d := dialects[DefaultDriver]
	table := quoteIdent("datacat_" + strings.ReplaceAll(uuid.NewString(), "-", ""))
	if err := d.load(ctx, conn, table, f, true); err != nil {
		return err
	}
	copyStmt := fmt.Sprintf("COPY %s TO %s (%s)", table, quoteLiteral(target), strings.Join(parts, ", "))
	if _, err := conn.ExecContext(ctx, copyStmt); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}

func writeYAML(path string, data any) error {
	if f, ok := data.(*frame.Frame); ok {
		data = f.Records()
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (s *FileSource) String() string {
	return fmt.Sprintf("FileSource(path=%s, format=%s)", s.Path, s.Format)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
