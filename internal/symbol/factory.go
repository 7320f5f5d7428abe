package symbol

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Kind separates type constructors from plain functions.
type Kind int

const (
	// KindFunc is a plain function; validators of this kind are wrapped, not constructed.
	KindFunc Kind = iota
	// KindType constructs a value of a named type.
	KindType
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	default:
		return "func"
	}
}

// Callable is the uniform calling convention of registered symbols.
type Callable func(positional []any, args Args) (any, error)

// Factory is a registered constructor or function together with its declared
// parameter names. Params lists the named parameters that may receive
// pre-initialized values; Variadic marks factories that accept keyword
// arguments beyond Params.
type Factory struct {
	Name     string
	Kind     Kind
	Params   []string
	Required []string
	Variadic bool
	Fn       Callable
	Methods  map[string]*Factory
}

// NewType declares a constructor for a named type.
func NewType(name string, params []string, fn func(args Args) (any, error)) *Factory {
	return &Factory{
		Name:   name,
		Kind:   KindType,
		Params: params,
		Fn: func(_ []any, args Args) (any, error) {
			return fn(args)
		},
	}
}

// NewFunc declares a plain function.
func NewFunc(name string, params []string, fn Callable) *Factory {
	return &Factory{
		Name:   name,
		Kind:   KindFunc,
		Params: params,
		Fn:     fn,
	}
}

// WithRequired marks parameters that must be supplied on every call.
func (f *Factory) WithRequired(names ...string) *Factory {
	f.Required = append(f.Required, names...)
	return f
}

// WithVariadic lets the factory accept keyword arguments outside Params.
func (f *Factory) WithVariadic() *Factory {
	f.Variadic = true
	return f
}

// WithMethod attaches a method reachable through the "Name:method" selector.
func (f *Factory) WithMethod(name string, method *Factory) *Factory {
	if f.Methods == nil {
		f.Methods = map[string]*Factory{}
	}
	f.Methods[name] = method
	return f
}

// HasParam reports whether name is a declared parameter.
func (f *Factory) HasParam(name string) bool {
	return slices.Contains(f.Params, name)
}

// CheckArgs reports keyword arguments that do not fit the declaration.
func (f *Factory) CheckArgs(args Args) error {
	if !f.Variadic {
		var unexpected []string
		for name := range args {
			if !f.HasParam(name) {
				unexpected = append(unexpected, name)
			}
		}
		if len(unexpected) > 0 {
			sort.Strings(unexpected)
			return fmt.Errorf("%s: %w %s", f.Name, ErrUnexpectedArgument, strings.Join(unexpected, ", "))
		}
	}
	for _, name := range f.Required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("%s: %w %s", f.Name, ErrMissingArgument, name)
		}
	}
	return nil
}

// Invoke checks the keyword arguments against the declaration and calls the factory.
func (f *Factory) Invoke(positional []any, args Args) (any, error) {
	if f == nil || f.Fn == nil {
		return nil, fmt.Errorf("invoke: factory is nil")
	}
	if args == nil {
		args = Args{}
	}
	if err := f.CheckArgs(args); err != nil {
		return nil, err
	}
	return f.Fn(positional, args)
}
