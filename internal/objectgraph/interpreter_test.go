package objectgraph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"datacat/internal/node"
	"datacat/internal/symbol"
)

type pair struct {
	A any
	B any
}

type rangeSource struct{ n int }

type wrapper struct{ inner any }

func testRegistry(t *testing.T, calls *[]string) *symbol.Registry {
	t.Helper()
	reg := symbol.NewRegistry()
	reg.Register("test.Pair", symbol.NewType("Pair", []string{"a", "b"}, func(args symbol.Args) (any, error) {
		return pair{A: args["a"], B: args["b"]}, nil
	}))
	reg.Register("test.f", symbol.NewFunc("f", []string{"a", "b"}, func(_ []any, args symbol.Args) (any, error) {
		return args.Clone(), nil
	}).WithVariadic())
	reg.Register("test.RangeSource", symbol.NewType("RangeSource", []string{"n"}, func(args symbol.Args) (any, error) {
		n, err := args.Int("n", 0)
		if err != nil {
			return nil, err
		}
		if calls != nil {
			*calls = append(*calls, "RangeSource")
		}
		return &rangeSource{n: n}, nil
	}))
	reg.Register("test.Wrapper", symbol.NewType("Wrapper", []string{"inner"}, func(args symbol.Args) (any, error) {
		if calls != nil {
			*calls = append(*calls, "Wrapper")
		}
		return &wrapper{inner: args["inner"]}, nil
	}))
	return reg
}

// TestExplicitArgsWinOverPreInitialized verifies gaps are filled and explicit values kept.
func TestExplicitArgsWinOverPreInitialized(t *testing.T) {
	in := New(testRegistry(t, nil))
	v := node.Object("test.Pair", node.Map(node.E("a", node.Int(1))))
	got, err := in.Build(v, symbol.Args{"a": 99, "b": 2})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if diff := cmp.Diff(pair{A: 1, B: 2}, got); diff != "" {
		t.Fatalf("pair mismatch (-want +got):\n%s", diff)
	}
}

// TestVariadicSlotsAreNotInjected verifies only declared names receive pre-initialized values.
func TestVariadicSlotsAreNotInjected(t *testing.T) {
	in := New(testRegistry(t, nil))
	v := node.Object("test.f", node.Map())
	got, err := in.Build(v, symbol.Args{"a": 2, "b": 9, "c": 2, "d": 0})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if diff := cmp.Diff(symbol.Args{"a": 2, "b": 9}, got); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

// TestDeferredMatchesEager verifies create=false followed by Create equals create=true.
func TestDeferredMatchesEager(t *testing.T) {
	in := New(testRegistry(t, nil))
	v := node.Object("test.Pair", node.Map(
		node.E("a", node.String("x")),
		node.E("b", node.Seq(node.Int(1), node.Int(2))),
	))
	eager, err := in.Parse(v, true, nil)
	if err != nil {
		t.Fatalf("eager: %v", err)
	}
	out, err := in.Parse(v, false, nil)
	if err != nil {
		t.Fatalf("deferred: %v", err)
	}
	deferred, ok := out.(Deferred)
	if !ok {
		t.Fatalf("expected Deferred, got %T", out)
	}
	if deferred.Factory.Name != "Pair" {
		t.Fatalf("unexpected factory %q", deferred.Factory.Name)
	}
	created, err := deferred.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if diff := cmp.Diff(eager, created); diff != "" {
		t.Fatalf("deferred and eager differ (-eager +deferred):\n%s", diff)
	}
}

// TestNestedObjectsBuildInnerFirst verifies nested nodes are constructed before their parent.
func TestNestedObjectsBuildInnerFirst(t *testing.T) {
	var calls []string
	in := New(testRegistry(t, &calls))
	inner := node.Object("test.RangeSource", node.Map(node.E("n", node.Int(2))))
	v := node.Object("test.Wrapper", node.Map(node.E("inner", inner)))

	got, err := in.Build(v, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	w, ok := got.(*wrapper)
	if !ok {
		t.Fatalf("expected *wrapper, got %T", got)
	}
	rs, ok := w.inner.(*rangeSource)
	if !ok || rs.n != 2 {
		t.Fatalf("unexpected inner %#v", w.inner)
	}
	if diff := cmp.Diff([]string{"RangeSource", "Wrapper"}, calls); diff != "" {
		t.Fatalf("construction order (-want +got):\n%s", diff)
	}
}

// TestNestedObjectsAreBuiltWhenDeferred verifies create=false still builds nested args.
func TestNestedObjectsAreBuiltWhenDeferred(t *testing.T) {
	var calls []string
	in := New(testRegistry(t, &calls))
	inner := node.Object("test.RangeSource", node.Map(node.E("n", node.Int(1))))
	deferred, err := in.Resolve(node.Object("test.Wrapper", node.Map(node.E("inner", inner))), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, ok := deferred.Args["inner"].(*rangeSource); !ok {
		t.Fatalf("expected built inner, got %T", deferred.Args["inner"])
	}
	if diff := cmp.Diff([]string{"RangeSource"}, calls); diff != "" {
		t.Fatalf("calls (-want +got):\n%s", diff)
	}
}

// TestNestedInjection verifies pre-initialized values reach nested nodes unless disabled.
func TestNestedInjection(t *testing.T) {
	v := node.Object("test.Wrapper", node.Map(
		node.E("inner", node.Object("test.RangeSource", node.Map())),
	))
	pre := symbol.Args{"n": 5}

	got, err := New(testRegistry(t, nil)).Build(v, pre)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rs := got.(*wrapper).inner.(*rangeSource); rs.n != 5 {
		t.Fatalf("expected injected n=5, got %d", rs.n)
	}

	got, err = New(testRegistry(t, nil), WithNestedInjection(false)).Build(v, pre)
	if err != nil {
		t.Fatalf("build without nested injection: %v", err)
	}
	if rs := got.(*wrapper).inner.(*rangeSource); rs.n != 0 {
		t.Fatalf("expected n=0 without nested injection, got %d", rs.n)
	}
}

// TestLiteralMappingsAreOpaque verifies plain mappings pass through untouched.
func TestLiteralMappingsAreOpaque(t *testing.T) {
	in := New(testRegistry(t, nil))
	v := node.Object("test.Pair", node.Map(
		node.E("a", node.Map(node.E("callable", node.String("x")))),
	))
	got, err := in.Build(v, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := pair{A: map[string]any{"callable": "x"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pair mismatch (-want +got):\n%s", diff)
	}
}

// TestInvalidNodes verifies shape checks run before resolution.
func TestInvalidNodes(t *testing.T) {
	in := New(testRegistry(t, nil))
	cases := []struct {
		name string
		v    node.Value
		path string
	}{
		{"extra key", node.Map(node.E("callable", node.String("missing.X")), node.E("args", node.Map()), node.E("x", node.Int(1))), ""},
		{"missing args", node.Map(node.E("callable", node.String("missing.X"))), ""},
		{"empty", node.Map(), ""},
		{"scalar", node.Int(3), ""},
		{"callable not string", node.Map(node.E("callable", node.Int(1)), node.E("args", node.Map())), "callable"},
		{"args not mapping", node.Object("test.Pair", node.Seq()), "args"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := in.Build(tc.v, nil)
			var invalid *InvalidNodeError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidNodeError, got %v", err)
			}
			if invalid.Path != tc.path {
				t.Fatalf("expected path %q, got %q", tc.path, invalid.Path)
			}
		})
	}
}

// TestErrorsCarryDocumentPath verifies nested failures report where they happened.
func TestErrorsCarryDocumentPath(t *testing.T) {
	in := New(testRegistry(t, nil))
	v := node.Object("test.Wrapper", node.Map(
		node.E("inner", node.Object("missing.Thing", node.Map())),
	))
	_, err := in.BuildAt("orders", v, nil)
	var build *BuildError
	if !errors.As(err, &build) {
		t.Fatalf("expected BuildError, got %v", err)
	}
	if build.Path != "orders.args.inner" {
		t.Fatalf("unexpected path %q", build.Path)
	}
	var resolution *symbol.ResolutionError
	if !errors.As(err, &resolution) {
		t.Fatalf("expected ResolutionError in chain, got %v", err)
	}
}

// TestUnexpectedExplicitArgument verifies undeclared explicit args fail the call.
func TestUnexpectedExplicitArgument(t *testing.T) {
	in := New(testRegistry(t, nil))
	v := node.Object("test.Pair", node.Map(node.E("c", node.Int(1))))
	_, err := in.Build(v, nil)
	if !errors.Is(err, symbol.ErrUnexpectedArgument) {
		t.Fatalf("expected ErrUnexpectedArgument, got %v", err)
	}
}
