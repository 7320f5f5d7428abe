// Package validation holds post-read checks and the per-dataset ordered
// sets that run them.
package validation

import (
	"fmt"

	"datacat/internal/symbol"
)

// Validator checks a dataset. Validate returns an error when the data is
// rejected; Name identifies the check in logs.
type Validator interface {
	Validate(data any) error
	Name() string
}

// FuncValidator calls a registered function with the data as its only
// positional argument followed by fixed keyword arguments.
type FuncValidator struct {
	factory *symbol.Factory
	args    symbol.Args
}

// NewFuncValidator wraps a function factory and its arguments.
func NewFuncValidator(factory *symbol.Factory, args symbol.Args) (*FuncValidator, error) {
	if factory == nil {
		return nil, fmt.Errorf("func validator: factory is nil")
	}
	if err := factory.CheckArgs(args); err != nil {
		return nil, err
	}
	return &FuncValidator{factory: factory, args: args.Clone()}, nil
}

// Validate invokes the function on data.
func (v *FuncValidator) Validate(data any) error {
	_, err := v.factory.Invoke([]any{data}, v.args)
	return err
}

// Name returns the function's declared name.
func (v *FuncValidator) Name() string {
	return v.factory.Name
}

// Check is the shape of a plain validation function.
type Check func(data any, args symbol.Args) error

// NewCheck declares a plain validation function for registration.
func NewCheck(name string, params []string, check Check) *symbol.Factory {
	return symbol.NewFunc(name, params, func(positional []any, args symbol.Args) (any, error) {
		if len(positional) != 1 {
			return nil, fmt.Errorf("%s: expected the data as the only positional argument, got %d", name, len(positional))
		}
		return nil, check(positional[0], args)
	})
}
