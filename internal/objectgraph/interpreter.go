// Package objectgraph turns object nodes of a configuration tree into live
// values by resolving their callables through a symbol registry.
package objectgraph

import (
	"errors"

	"github.com/hashicorp/go-hclog"

	"datacat/internal/node"
	"datacat/internal/symbol"
)

var errNoResolver = errors.New("no symbol resolver configured")

// Resolver finds the factory behind a symbol path.
type Resolver interface {
	Resolve(path string) (*symbol.Factory, error)
}

// Deferred is a resolved callable with its merged arguments, not yet invoked.
type Deferred struct {
	Factory *symbol.Factory
	Args    symbol.Args
}

// Create invokes the deferred callable.
func (d Deferred) Create() (any, error) {
	return d.Factory.Invoke(nil, d.Args)
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for trace output.
func WithLogger(logger hclog.Logger) Option {
	return func(in *Interpreter) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithNestedInjection controls whether pre-initialized parameters reach
// object nodes nested inside args. It is on by default.
func WithNestedInjection(enabled bool) Option {
	return func(in *Interpreter) {
		in.nestedInjection = enabled
	}
}

// Interpreter walks object nodes depth first and builds them.
type Interpreter struct {
	resolver        Resolver
	logger          hclog.Logger
	nestedInjection bool
}

// New creates an interpreter backed by resolver.
func New(resolver Resolver, opts ...Option) *Interpreter {
	in := &Interpreter{
		resolver:        resolver,
		logger:          hclog.NewNullLogger(),
		nestedInjection: true,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Parse interprets v. With create it returns the constructed value, otherwise
// a Deferred holding the callable and its merged arguments.
func (in *Interpreter) Parse(v node.Value, create bool, pre symbol.Args) (any, error) {
	return in.parseAt("", v, create, pre)
}

// Build interprets v and invokes its callable.
func (in *Interpreter) Build(v node.Value, pre symbol.Args) (any, error) {
	return in.parseAt("", v, true, pre)
}

// BuildAt is Build with a document path prefix used in error messages.
func (in *Interpreter) BuildAt(path string, v node.Value, pre symbol.Args) (any, error) {
	return in.parseAt(path, v, true, pre)
}

// Resolve interprets v without invoking its callable.
func (in *Interpreter) Resolve(v node.Value, pre symbol.Args) (Deferred, error) {
	return in.resolveAt("", v, pre)
}

// ResolveAt is Resolve with a document path prefix used in error messages.
func (in *Interpreter) ResolveAt(path string, v node.Value, pre symbol.Args) (Deferred, error) {
	return in.resolveAt(path, v, pre)
}

func (in *Interpreter) parseAt(path string, v node.Value, create bool, pre symbol.Args) (any, error) {
	deferred, err := in.resolveAt(path, v, pre)
	if err != nil {
		return nil, err
	}
	if !create {
		return deferred, nil
	}
	obj, err := deferred.Create()
	if err != nil {
		return nil, &BuildError{Path: path, Callable: deferred.Factory.Name, Err: err}
	}
	in.logger.Trace("constructed object", "path", path, "callable", deferred.Factory.Name)
	return obj, nil
}

func (in *Interpreter) resolveAt(path string, v node.Value, pre symbol.Args) (Deferred, error) {
	object, ok := v.AsObject()
	if !ok {
		return Deferred{}, &InvalidNodeError{Path: path, Reason: "expected a mapping with exactly `callable` and `args`, got " + node.Describe(v)}
	}
	callablePath, ok := object.Callable.AsString()
	if !ok {
		return Deferred{}, &InvalidNodeError{Path: join(path, node.KeyCallable), Reason: "callable must be a string, got " + object.Callable.Kind().String()}
	}
	if in.resolver == nil {
		return Deferred{}, &BuildError{Path: path, Callable: callablePath, Err: errNoResolver}
	}
	factory, err := in.resolver.Resolve(callablePath)
	if err != nil {
		return Deferred{}, &BuildError{Path: path, Callable: callablePath, Err: err}
	}
	if !object.Args.IsMapping() {
		return Deferred{}, &InvalidNodeError{Path: join(path, node.KeyArgs), Reason: "args must be a mapping, got " + object.Args.Kind().String()}
	}

	nestedPre := pre
	if !in.nestedInjection {
		nestedPre = nil
	}
	args := make(symbol.Args, object.Args.Len())
	for _, entry := range object.Args.Entries() {
		if entry.Value.IsObject() {
			built, err := in.parseAt(join(path, node.KeyArgs, entry.Key), entry.Value, true, nestedPre)
			if err != nil {
				return Deferred{}, err
			}
			args[entry.Key] = built
			continue
		}
		args[entry.Key] = entry.Value.Interface()
	}

	// Only declared parameters without an explicit value are filled.
	for _, name := range factory.Params {
		if _, explicit := args[name]; explicit {
			continue
		}
		if value, ok := pre[name]; ok {
			args[name] = value
		}
	}
	return Deferred{Factory: factory, Args: args}, nil
}

func join(path string, parts ...string) string {
	for _, part := range parts {
		if path == "" {
			path = part
			continue
		}
		path += "." + part
	}
	return path
}
