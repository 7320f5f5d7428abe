package validation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"datacat/internal/frame"
	"datacat/internal/symbol"
	"datacat/internal/testutil"
)

type recordingValidator struct {
	name  string
	fail  bool
	calls *[]string
}

func (v recordingValidator) Validate(any) error {
	*v.calls = append(*v.calls, v.name)
	if v.fail {
		return errors.New("Nope!")
	}
	return nil
}

func (v recordingValidator) Name() string { return v.name }

func ordersFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New([]string{"id", "name"}, [][]any{{1, "ada"}, {2, nil}})
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	return f
}

// TestValidateDataStopsAtFirstFailure verifies later checks never run.
func TestValidateDataStopsAtFirstFailure(t *testing.T) {
	var calls []string
	set := NewSet()
	set.Add("orders",
		recordingValidator{name: "v1", fail: true, calls: &calls},
		recordingValidator{name: "v2", calls: &calls},
	)
	_, err := set.ValidateData("orders", 1)
	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("expected Failure, got %v", err)
	}
	if failure.Dataset != "orders" || failure.Check != "v1" {
		t.Fatalf("unexpected failure %+v", failure)
	}
	if diff := cmp.Diff([]string{"v1"}, calls); diff != "" {
		t.Fatalf("calls (-want +got):\n%s", diff)
	}
}

// TestValidateDataPassesThrough verifies order and the unchanged return value.
func TestValidateDataPassesThrough(t *testing.T) {
	var calls []string
	set := NewSet()
	set.Add("orders", recordingValidator{name: "a", calls: &calls})
	set.Add("orders", recordingValidator{name: "b", calls: &calls})
	got, err := set.ValidateData("orders", "payload")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != "payload" {
		t.Fatalf("expected data back, got %v", got)
	}
	if diff := cmp.Diff([]string{"a", "b"}, calls); diff != "" {
		t.Fatalf("calls (-want +got):\n%s", diff)
	}
	if got, err := set.ValidateData("other", 3); err != nil || got != 3 {
		t.Fatalf("expected no-op for unknown dataset, got %v %v", got, err)
	}
}

// TestFuncValidator verifies the plain variant passes data positionally.
func TestFuncValidator(t *testing.T) {
	var seen []any
	factory := NewCheck("greater_than", []string{"z"}, func(data any, args symbol.Args) error {
		seen = append(seen, data, args["z"])
		z, _ := args.Int("z", 0)
		if data.(int) <= z {
			return errors.New("Nope!")
		}
		return nil
	})
	v, err := NewFuncValidator(factory, symbol.Args{"z": 3})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if v.Name() != "greater_than" {
		t.Fatalf("unexpected name %q", v.Name())
	}
	if err := v.Validate(5); err != nil {
		t.Fatalf("validate 5: %v", err)
	}
	if err := v.Validate(2); err == nil || err.Error() != "Nope!" {
		t.Fatalf("expected Nope!, got %v", err)
	}
	if diff := cmp.Diff([]any{5, 3, 2, 3}, seen); diff != "" {
		t.Fatalf("seen (-want +got):\n%s", diff)
	}
	if _, err := NewFuncValidator(factory, symbol.Args{"y": 1}); !errors.Is(err, symbol.ErrUnexpectedArgument) {
		t.Fatalf("expected ErrUnexpectedArgument, got %v", err)
	}
}

// TestBuiltinChecks verifies the registered plain checks.
func TestBuiltinChecks(t *testing.T) {
	reg := symbol.NewRegistry()
	Register(reg)
	orders := ordersFrame(t)
	empty, _ := frame.New([]string{"id"}, nil)
	cases := []struct {
		name    string
		path    string
		args    symbol.Args
		data    any
		wantErr bool
	}{
		{"not empty frame", "datacat.validation.not_empty", nil, orders, false},
		{"empty frame", "datacat.validation.not_empty", nil, empty, true},
		{"empty slice", "datacat.validation.not_empty", nil, []int{}, true},
		{"columns present", "datacat.validation.has_columns", symbol.Args{"columns": []any{"id", "name"}}, orders, false},
		{"column missing", "datacat.validation.has_columns", symbol.Args{"columns": []any{"email"}}, orders, true},
		{"no nulls in id", "datacat.validation.no_nulls", symbol.Args{"columns": []any{"id"}}, orders, false},
		{"null in any column", "datacat.validation.no_nulls", nil, orders, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			factory, err := reg.Resolve(tc.path)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			v, err := NewFuncValidator(factory, tc.args)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			err = v.Validate(tc.data)
			if tc.wantErr {
				if !errors.Is(err, ErrRejected) {
					t.Fatalf("expected rejection, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
		})
	}
}

// TestRowCount verifies bounds and the remembered count.
func TestRowCount(t *testing.T) {
	v, err := NewRowCount(1, 2)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := v.Validate(ordersFrame(t)); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if v.Last != 2 {
		t.Fatalf("expected last count 2, got %d", v.Last)
	}
	if err := v.Validate([]int{1, 2, 3}); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected rejection above max, got %v", err)
	}
	if v.Last != 3 {
		t.Fatalf("expected last count 3, got %d", v.Last)
	}
	if _, err := NewRowCount(3, 1); err == nil {
		t.Fatalf("expected min > max error")
	}
}

// TestJSONSchemaInline verifies frames are checked as row objects.
func TestJSONSchemaInline(t *testing.T) {
	v, err := NewJSONSchema(map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"id"},
			"properties": map[string]any{
				"id": map[string]any{"type": "integer"},
			},
		},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := v.Validate(ordersFrame(t)); err != nil {
		t.Fatalf("validate: %v", err)
	}
	bad, _ := frame.New([]string{"id"}, [][]any{{"x"}})
	if err := v.Validate(bad); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
}

// TestJSONSchemaFromFile verifies path-based schemas through the registry.
func TestJSONSchemaFromFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "schema.json", `{"type": "object", "required": ["region"]}`)
	reg := symbol.NewRegistry()
	Register(reg)
	factory, err := reg.Resolve("datacat.validation.JSONSchema")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	built, err := factory.Invoke(nil, symbol.Args{"path": path})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	v, ok := built.(Validator)
	if !ok {
		t.Fatalf("expected Validator, got %T", built)
	}
	if v.Name() != "JSONSchema" {
		t.Fatalf("unexpected name %q", v.Name())
	}
	if err := v.Validate(map[string]any{"region": "eu"}); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := v.Validate(map[string]any{}); err == nil {
		t.Fatalf("expected rejection")
	}
	if _, err := factory.Invoke(nil, symbol.Args{}); !errors.Is(err, symbol.ErrMissingArgument) {
		t.Fatalf("expected missing argument, got %v", err)
	}
}
