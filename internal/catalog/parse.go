package catalog

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"datacat/internal/node"
	"datacat/internal/objectgraph"
	"datacat/internal/render"
	"datacat/internal/source"
	"datacat/internal/symbol"
	"datacat/internal/validation"
)

// Resolver finds the factory behind a symbol path.
type Resolver interface {
	Resolve(path string) (*symbol.Factory, error)
}

type options struct {
	logger          hclog.Logger
	parameters      map[string]any
	preInitialized  symbol.Args
	nestedInjection bool
}

// Option configures catalog construction.
type Option func(*options)

// WithLogger sets the logger shared by the catalog and its validation set.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithParameters sets the template context of the document.
func WithParameters(parameters map[string]any) Option {
	return func(o *options) {
		o.parameters = parameters
	}
}

// WithPreInitialized sets already built values injected into matching
// constructor parameters.
func WithPreInitialized(values symbol.Args) Option {
	return func(o *options) {
		o.preInitialized = values
	}
}

// WithNestedInjection controls whether pre-initialized values reach nested nodes.
func WithNestedInjection(enabled bool) Option {
	return func(o *options) {
		o.nestedInjection = enabled
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: hclog.NewNullLogger(), nestedInjection: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FromFile reads a catalog document from path. See FromDocument.
func FromFile(path string, reg Resolver, opts ...Option) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return FromDocument(string(data), reg, opts...)
}

// FromDocument renders text against the parameters, parses it and builds
// every dataset entry. Any failing entry fails the whole call.
func FromDocument(text string, reg Resolver, opts ...Option) (*Catalog, error) {
	o := buildOptions(opts)
	rendered, err := render.New(reg, render.WithLogger(o.logger)).Render("catalog", text, o.parameters)
	if err != nil {
		return nil, err
	}
	doc, err := node.Parse([]byte(rendered))
	if err != nil {
		return nil, &FormatError{Err: err}
	}
	if !doc.IsMapping() {
		return nil, &FormatError{Reason: "top level must be a mapping of datasets, got " + doc.Kind().String()}
	}

	in := objectgraph.New(reg,
		objectgraph.WithLogger(o.logger),
		objectgraph.WithNestedInjection(o.nestedInjection),
	)
	set := validation.NewSet(validation.WithLogger(o.logger))
	sources := make(map[string]source.Source, doc.Len())
	order := make([]string, 0, doc.Len())
	for _, entry := range doc.Entries() {
		name := entry.Key
		object, validations, ok := node.SplitEntry(entry.Value)
		if !ok {
			object = entry.Value
		}
		built, err := in.BuildAt(name, object, o.preInitialized)
		if err != nil {
			return nil, err
		}
		src, ok := built.(source.Source)
		if !ok {
			return nil, &SchemaError{Dataset: name, Path: name, Type: fmt.Sprintf("%T", built), Want: "data source"}
		}
		checks, err := parseValidations(in, name, validations, o.preInitialized)
		if err != nil {
			return nil, err
		}
		sources[name] = src
		order = append(order, name)
		set.Replace(name, checks)
		o.logger.Debug("dataset constructed", "dataset", name, "source", describeSource(src), "checks", len(checks))
	}
	return newCatalog(sources, order, set, o.logger), nil
}

func parseValidations(in *objectgraph.Interpreter, dataset string, v node.Value, pre symbol.Args) ([]validation.Validator, error) {
	if v.IsNull() {
		return nil, nil
	}
	path := dataset + "." + node.KeyValidations
	if v.Kind() != node.KindSequence {
		return nil, &objectgraph.InvalidNodeError{Path: path, Reason: "validations must be a sequence, got " + v.Kind().String()}
	}
	checks := make([]validation.Validator, 0, v.Len())
	for i, item := range v.Items() {
		check, err := ParseValidation(in, fmt.Sprintf("%s[%d]", path, i), item, pre)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, nil
}

// ParseValidation resolves a validation node without invoking it. Type
// factories are constructed and must yield a Validator; functions are
// wrapped with their arguments.
func ParseValidation(in *objectgraph.Interpreter, path string, v node.Value, pre symbol.Args) (validation.Validator, error) {
	deferred, err := in.ResolveAt(path, v, pre)
	if err != nil {
		return nil, err
	}
	if deferred.Factory.Kind != symbol.KindType {
		check, err := validation.NewFuncValidator(deferred.Factory, deferred.Args)
		if err != nil {
			return nil, &objectgraph.BuildError{Path: path, Callable: deferred.Factory.Name, Err: err}
		}
		return check, nil
	}
	built, err := deferred.Create()
	if err != nil {
		return nil, &objectgraph.BuildError{Path: path, Callable: deferred.Factory.Name, Err: err}
	}
	check, ok := built.(validation.Validator)
	if !ok {
		return nil, &SchemaError{Path: path, Type: fmt.Sprintf("%T", built), Want: "validator"}
	}
	return check, nil
}
