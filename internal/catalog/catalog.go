// Package catalog is a named collection of data sources with the checks
// attached to each, built from a templated configuration document.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"datacat/internal/source"
	"datacat/internal/validation"
)

// Validations runs the checks registered for a dataset.
type Validations interface {
	ValidateData(name string, data any) (any, error)
}

// Catalog maps dataset names to data sources.
type Catalog struct {
	sources     map[string]source.Source
	order       []string
	validations Validations
	logger      hclog.Logger
}

// New builds a catalog from constructed sources. Names are kept sorted. A
// nil validations runs no checks.
func New(sources map[string]source.Source, validations Validations, opts ...Option) *Catalog {
	o := buildOptions(opts)
	order := make([]string, 0, len(sources))
	copied := make(map[string]source.Source, len(sources))
	for name, src := range sources {
		order = append(order, name)
		copied[name] = src
	}
	sort.Strings(order)
	return newCatalog(copied, order, validations, o.logger)
}

func newCatalog(sources map[string]source.Source, order []string, validations Validations, logger hclog.Logger) *Catalog {
	if validations == nil {
		validations = validation.NewSet()
	}
	return &Catalog{sources: sources, order: order, validations: validations, logger: logger}
}

type readOptions struct {
	skipValidation bool
}

// ReadOption adjusts a single read.
type ReadOption func(*readOptions)

// SkipValidation reads without running the dataset's checks.
func SkipValidation() ReadOption {
	return func(o *readOptions) {
		o.skipValidation = true
	}
}

// Read reads a dataset and runs its checks unless skipped.
func (c *Catalog) Read(ctx context.Context, name string, opts ...ReadOption) (any, error) {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}
	src, ok := c.sources[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	c.logger.Debug("reading dataset", "dataset", name, "skip_validation", o.skipValidation)
	data, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if o.skipValidation {
		return data, nil
	}
	return c.validations.ValidateData(name, data)
}

// ReadAll reads every dataset in catalog order. Checks are not run.
func (c *Catalog) ReadAll(ctx context.Context) (*DataSet, error) {
	set := &DataSet{data: make(map[string]any, len(c.order))}
	for _, name := range c.order {
		data, err := c.Read(ctx, name, SkipValidation())
		if err != nil {
			return nil, err
		}
		set.names = append(set.names, name)
		set.data[name] = data
	}
	return set, nil
}

// Write stores data through a writable dataset.
func (c *Catalog) Write(ctx context.Context, name string, data any) error {
	src, ok := c.sources[name]
	if !ok {
		return &NotFoundError{Name: name}
	}
	sink, ok := src.(source.Sink)
	if !ok {
		return &CapabilityError{Dataset: name, Type: fmt.Sprintf("%T", src)}
	}
	c.logger.Debug("writing dataset", "dataset", name)
	if err := sink.Write(ctx, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Names lists datasets in declaration order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of datasets.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Source returns the data source behind name.
func (c *Catalog) Source(name string) (source.Source, bool) {
	src, ok := c.sources[name]
	return src, ok
}

// Entry summarizes one dataset.
type Entry struct {
	Name     string
	Source   string
	Writable bool
	Checks   []string
}

// Describe summarizes a dataset.
func (c *Catalog) Describe(name string) (Entry, error) {
	src, ok := c.sources[name]
	if !ok {
		return Entry{}, &NotFoundError{Name: name}
	}
	_, writable := src.(source.Sink)
	entry := Entry{Name: name, Source: describeSource(src), Writable: writable}
	if set, ok := c.validations.(*validation.Set); ok {
		for _, check := range set.Checks(name) {
			entry.Checks = append(entry.Checks, check.Name())
		}
	}
	return entry, nil
}

// String lists one "name: source" line per dataset.
func (c *Catalog) String() string {
	return c.Indent(0)
}

// Indent is String with every line prefixed by indent spaces.
func (c *Catalog) Indent(indent int) string {
	prefix := strings.Repeat(" ", indent)
	var b strings.Builder
	for _, name := range c.order {
		fmt.Fprintf(&b, "%s%s: %s\n", prefix, name, describeSource(c.sources[name]))
	}
	return b.String()
}

func describeSource(src source.Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}

// DataSet holds the results of ReadAll.
type DataSet struct {
	names []string
	data  map[string]any
}

// Get returns the data read for name.
func (d *DataSet) Get(name string) (any, bool) {
	value, ok := d.data[name]
	return value, ok
}

// Names lists the datasets in read order.
func (d *DataSet) Names() []string {
	return append([]string(nil), d.names...)
}

// Len returns the number of datasets.
func (d *DataSet) Len() int {
	return len(d.names)
}
