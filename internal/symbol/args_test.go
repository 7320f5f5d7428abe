package symbol

import (
	"testing"
	"time"
)

type decodeTarget struct {
	Path    string         `arg:"path"`
	Columns []string       `arg:"columns"`
	Options map[string]any `arg:"options"`
	Timeout time.Duration  `arg:"timeout"`
	Handle  any            `arg:"handle"`
}

// TestArgsDecode verifies literal and object arguments land in tagged fields.
func TestArgsDecode(t *testing.T) {
	handle := &dummySource{v: 3}
	args := Args{
		"path":    "data.csv",
		"columns": []any{"x", "y"},
		"options": map[string]any{"header": true},
		"timeout": "2s",
		"handle":  handle,
	}
	var out decodeTarget
	if err := args.Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Path != "data.csv" || len(out.Columns) != 2 || out.Options["header"] != true {
		t.Fatalf("unexpected decode result %+v", out)
	}
	if out.Timeout != 2*time.Second {
		t.Fatalf("expected 2s timeout, got %s", out.Timeout)
	}
	if out.Handle != handle {
		t.Fatalf("expected handle to be passed through")
	}
}

// TestArgsTypedGetters verifies getters and their fallbacks.
func TestArgsTypedGetters(t *testing.T) {
	args := Args{"n": 3, "f": 4.0, "s": "x", "bad": true}
	if n, err := args.Int("n", 0); err != nil || n != 3 {
		t.Fatalf("Int(n) = %d, %v", n, err)
	}
	if f, err := args.Int("f", 0); err != nil || f != 4 {
		t.Fatalf("Int(f) = %d, %v", f, err)
	}
	if d, err := args.Int("missing", 9); err != nil || d != 9 {
		t.Fatalf("Int(missing) = %d, %v", d, err)
	}
	if _, err := args.Int("bad", 0); err == nil {
		t.Fatalf("expected type error")
	}
	if s, err := args.String("s", ""); err != nil || s != "x" {
		t.Fatalf("String(s) = %q, %v", s, err)
	}
	if _, err := args.String("n", ""); err == nil {
		t.Fatalf("expected type error")
	}
}

// TestParsePath verifies the module, attribute and method split.
func TestParsePath(t *testing.T) {
	path, err := ParsePath("datacat.frame.Frame:from_columns")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if path.Module != "datacat.frame" || path.Attr != "Frame" || path.Method != "from_columns" {
		t.Fatalf("unexpected path %+v", path)
	}
	if path.String() != "datacat.frame.Frame:from_columns" {
		t.Fatalf("unexpected string %q", path.String())
	}
}
