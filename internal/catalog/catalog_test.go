package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"datacat/internal/builtin"
	"datacat/internal/frame"
	"datacat/internal/objectgraph"
	"datacat/internal/source"
	"datacat/internal/symbol"
	"datacat/internal/testutil"
	"datacat/internal/validation"
)

const rangeDoc = `
numbers:
  callable: datacat.source.RangeSource
  args: {n: 3}
wrapped:
  callable: datacat.source.Wrapper
  args:
    inner:
      callable: datacat.source.RangeSource
      args: {n: 2}
`

func mustCatalog(t *testing.T, doc string, opts ...Option) *Catalog {
	t.Helper()
	c, err := FromDocument(doc, builtin.Registry(), opts...)
	if err != nil {
		t.Fatalf("from document: %v", err)
	}
	return c
}

// TestReadRangeSource verifies the basic end-to-end read.
func TestReadRangeSource(t *testing.T) {
	c := mustCatalog(t, rangeDoc)
	got, err := c.Read(testutil.Context(t, 0), "numbers")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, got); diff != "" {
		t.Fatalf("numbers mismatch (-want +got):\n%s", diff)
	}
}

// TestNestedEntryBuildsWrapper verifies nested nodes become constructor arguments.
func TestNestedEntryBuildsWrapper(t *testing.T) {
	c := mustCatalog(t, rangeDoc)
	src, ok := c.Source("wrapped")
	if !ok {
		t.Fatalf("expected wrapped dataset")
	}
	w, ok := src.(*source.Wrapper)
	if !ok {
		t.Fatalf("expected *source.Wrapper, got %T", src)
	}
	if inner, ok := w.Inner.(*source.RangeSource); !ok || inner.N != 2 {
		t.Fatalf("unexpected inner %#v", w.Inner)
	}
	got, err := c.Read(testutil.Context(t, 0), "wrapped")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff([]int{0, 1}, got); diff != "" {
		t.Fatalf("wrapped mismatch (-want +got):\n%s", diff)
	}
}

// TestNamesAndString verifies declaration order and the summary form.
func TestNamesAndString(t *testing.T) {
	c := mustCatalog(t, rangeDoc)
	if diff := cmp.Diff([]string{"numbers", "wrapped"}, c.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	want := "  numbers: RangeSource(n=3)\n  wrapped: Wrapper(inner=RangeSource(n=2))\n"
	if got := c.Indent(2); got != want {
		t.Fatalf("unexpected string form:\n%s", got)
	}
}

// TestTemplateParameters verifies the document is rendered before parsing.
func TestTemplateParameters(t *testing.T) {
	doc := `
numbers:
  callable: datacat.source.RangeSource
  args: {n: {{ .size }}}
`
	c := mustCatalog(t, doc, WithParameters(map[string]any{"size": 4}))
	got, err := c.Read(testutil.Context(t, 0), "numbers")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, got); diff != "" {
		t.Fatalf("numbers mismatch (-want +got):\n%s", diff)
	}
}

// TestPreInitializedFillsGaps verifies injected values leave explicit args alone.
func TestPreInitializedFillsGaps(t *testing.T) {
	doc := `
explicit:
  callable: datacat.source.RangeSource
  args: {n: 1}
injected:
  callable: datacat.source.RangeSource
  args: {}
`
	c := mustCatalog(t, doc, WithPreInitialized(symbol.Args{"n": 5, "unrelated": true}))
	ctx := testutil.Context(t, 0)
	explicit, _ := c.Read(ctx, "explicit")
	injected, _ := c.Read(ctx, "injected")
	if len(explicit.([]int)) != 1 || len(injected.([]int)) != 5 {
		t.Fatalf("unexpected lengths %v %v", explicit, injected)
	}
}

// TestPreInitializedConnection verifies a shared database handle reaches SQL sources.
func TestPreInitializedConnection(t *testing.T) {
	db := testutil.OpenSQLite(t)
	doc := `
orders:
  callable: datacat.source.SQLTableSource
  args: {table: orders, driver: sqlite3}
big_orders:
  callable: datacat.source.SQLSource
  args:
    driver: sqlite3
    query: SELECT id FROM orders WHERE qty > 1
`
	c := mustCatalog(t, doc, WithPreInitialized(symbol.Args{"connection": db}))
	ctx := testutil.Context(t, 0)
	seed, _ := frame.New([]string{"id", "qty"}, [][]any{{1, 1}, {2, 3}})
	if err := c.Write(ctx, "orders", seed); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := c.Read(ctx, "big_orders")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want, _ := frame.New([]string{"id"}, [][]any{{2}})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("frame mismatch (-want +got):\n%s", diff)
	}
}

// TestWriteCapability verifies read-only sources reject writes and writable ones change reads.
func TestWriteCapability(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	doc := `
numbers:
  callable: datacat.source.RangeSource
  args: {n: 1}
people:
  callable: datacat.source.FileSource
  args: {path: "` + filepath.ToSlash(path) + `"}
`
	c := mustCatalog(t, doc)
	ctx := testutil.Context(t, 0)

	err := c.Write(ctx, "numbers", []int{1})
	var capability *CapabilityError
	if !errors.As(err, &capability) || capability.Dataset != "numbers" {
		t.Fatalf("expected CapabilityError, got %v", err)
	}

	want, _ := frame.New([]string{"name"}, [][]any{{"ada"}})
	if err := c.Write(ctx, "people", want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := c.Read(ctx, "people")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("frame mismatch (-want +got):\n%s", diff)
	}
}

// TestUnknownDataset verifies read and write report missing names.
func TestUnknownDataset(t *testing.T) {
	c := mustCatalog(t, rangeDoc)
	ctx := testutil.Context(t, 0)
	if _, err := c.Read(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on read, got %v", err)
	}
	if err := c.Write(ctx, "nope", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on write, got %v", err)
	}
	if _, err := c.Describe("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on describe, got %v", err)
	}
}

// TestConstructionErrors verifies format, shape and capability failures.
func TestConstructionErrors(t *testing.T) {
	cases := []struct {
		name  string
		doc   string
		check func(error) bool
	}{
		{"sequence top level", "- a\n- b\n", func(err error) bool {
			var target *FormatError
			return errors.As(err, &target)
		}},
		{"empty document", "", func(err error) bool {
			var target *FormatError
			return errors.As(err, &target)
		}},
		{"broken yaml", "a: [1, 2\n", func(err error) bool {
			var target *FormatError
			return errors.As(err, &target)
		}},
		{"not a source", "frame:\n  callable: datacat.frame.Frame\n  args: {columns: [a]}\n", func(err error) bool {
			var target *SchemaError
			return errors.As(err, &target) && target.Dataset == "frame"
		}},
		{"extra key", "x:\n  callable: datacat.source.RangeSource\n  args: {n: 1}\n  extra: 1\n", func(err error) bool {
			var target *objectgraph.InvalidNodeError
			return errors.As(err, &target) && target.Path == "x"
		}},
		{"malformed path", "x:\n  callable: missing.mod:a:b\n  args: {}\n", func(err error) bool {
			var target *symbol.MalformedPathError
			return errors.As(err, &target)
		}},
		{"unknown symbol", "x:\n  callable: missing.mod.Thing\n  args: {}\n", func(err error) bool {
			var target *symbol.ResolutionError
			return errors.As(err, &target)
		}},
		{"validations not a list", "x:\n  callable: datacat.source.RangeSource\n  args: {n: 1}\n  validations: {a: 1}\n", func(err error) bool {
			var target *objectgraph.InvalidNodeError
			return errors.As(err, &target) && target.Path == "x.validations"
		}},
		{"validator not a validator", "x:\n  callable: datacat.source.RangeSource\n  args: {n: 1}\n  validations:\n    - callable: datacat.source.RangeSource\n      args: {n: 1}\n", func(err error) bool {
			var target *SchemaError
			return errors.As(err, &target) && target.Path == "x.validations[0]"
		}},
		{"missing template key", "x: {{ .nope }}\n", func(err error) bool {
			return err != nil && strings.Contains(err.Error(), "nope")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromDocument(tc.doc, builtin.Registry())
			if !tc.check(err) {
				t.Fatalf("unexpected error %T: %v", err, err)
			}
		})
	}
}

const validatedDoc = `
numbers:
  callable: datacat.source.RangeSource
  args: {n: 3}
  validations:
    - callable: datacat.validation.not_empty
      args: {}
    - callable: datacat.validation.RowCount
      args: {max: 2}
empty:
  callable: datacat.source.RangeSource
  args: {n: 0}
  validations:
    - callable: datacat.validation.not_empty
      args: {}
ok:
  callable: datacat.source.RangeSource
  args: {n: 1}
`

// TestValidationsRunOnRead verifies both validator variants and skip_validation.
func TestValidationsRunOnRead(t *testing.T) {
	c := mustCatalog(t, validatedDoc)
	ctx := testutil.Context(t, 0)

	_, err := c.Read(ctx, "numbers")
	var failure *validation.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("expected Failure, got %v", err)
	}
	if failure.Dataset != "numbers" || failure.Check != "RowCount" {
		t.Fatalf("unexpected failure %+v", failure)
	}
	if _, err := c.Read(ctx, "numbers", SkipValidation()); err != nil {
		t.Fatalf("skip validation: %v", err)
	}

	entry, err := c.Describe("numbers")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if diff := cmp.Diff([]string{"not_empty", "RowCount"}, entry.Checks); diff != "" {
		t.Fatalf("checks mismatch (-want +got):\n%s", diff)
	}
	if entry.Writable {
		t.Fatalf("range source must not be writable")
	}
}

type countingValidations struct {
	calls int
}

func (v *countingValidations) ValidateData(name string, data any) (any, error) {
	v.calls++
	return nil, errors.New("Nope!")
}

// TestSkipValidationNeverInvokes verifies skipped reads and ReadAll bypass checks.
func TestSkipValidationNeverInvokes(t *testing.T) {
	validations := &countingValidations{}
	c := New(map[string]source.Source{
		"b": &source.RangeSource{N: 2},
		"a": &source.MemorySource{Data: "x"},
	}, validations)
	ctx := testutil.Context(t, 0)
	if _, err := c.Read(ctx, "a", SkipValidation()); err != nil {
		t.Fatalf("read: %v", err)
	}
	all, err := c.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if validations.calls != 0 {
		t.Fatalf("expected no validation calls, got %d", validations.calls)
	}
	if diff := cmp.Diff([]string{"a", "b"}, all.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if got, ok := all.Get("a"); !ok || got != "x" {
		t.Fatalf("unexpected data for a: %v", got)
	}
	if _, err := c.Read(ctx, "a"); err == nil || validations.calls != 1 {
		t.Fatalf("expected validated read to fail once, got %v after %d calls", err, validations.calls)
	}
}

type recordingObserver struct {
	started []string
	events  []DatasetEvent
	report  CheckReport
	ended   bool
}

func (o *recordingObserver) OnCheckStart(datasets []string) { o.started = datasets }
func (o *recordingObserver) OnDatasetEvent(event DatasetEvent) {
	o.events = append(o.events, event)
}
func (o *recordingObserver) OnCheckEnd(report CheckReport) {
	o.report = report
	o.ended = true
}

// TestCheckContinuesPastFailures verifies every dataset gets a result.
func TestCheckContinuesPastFailures(t *testing.T) {
	c := mustCatalog(t, validatedDoc)
	observer := &recordingObserver{}
	report, err := c.Check(testutil.Context(t, 0), observer)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	statuses := map[string]DatasetStatus{}
	for _, result := range report.Results {
		statuses[result.Dataset] = result.Status
	}
	want := map[string]DatasetStatus{"numbers": DatasetFailed, "empty": DatasetFailed, "ok": DatasetPassed}
	if diff := cmp.Diff(want, statuses); diff != "" {
		t.Fatalf("statuses mismatch (-want +got):\n%s", diff)
	}
	if report.Failed() != 2 {
		t.Fatalf("expected 2 failures, got %d", report.Failed())
	}
	if !observer.ended || len(observer.started) != 3 {
		t.Fatalf("observer not driven: %+v", observer)
	}
	var terminal int
	for _, event := range observer.events {
		if event.Status.Terminal() {
			terminal++
		}
	}
	if terminal != 3 {
		t.Fatalf("expected 3 terminal events, got %d", terminal)
	}
}

// TestCheckStopsOnCancel verifies a cancelled context ends the check.
func TestCheckStopsOnCancel(t *testing.T) {
	c := mustCatalog(t, rangeDoc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := c.Check(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(report.Results) != 0 {
		t.Fatalf("expected no results, got %d", len(report.Results))
	}
}
