package validation

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"
)

// Failure is a rejected dataset.
type Failure struct {
	Dataset string
	Check   string
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("validate %s: %s: %v", f.Dataset, f.Check, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Option configures a Set.
type Option func(*Set)

// WithLogger sets the logger used to report progress.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Set) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Set maps dataset names to ordered checks.
type Set struct {
	logger hclog.Logger
	checks map[string][]Validator
}

// NewSet creates an empty set.
func NewSet(opts ...Option) *Set {
	s := &Set{logger: hclog.NewNullLogger(), checks: map[string][]Validator{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends checks for a dataset, keeping order.
func (s *Set) Add(name string, validators ...Validator) {
	s.checks[name] = append(s.checks[name], validators...)
}

// Replace sets the checks for a dataset, dropping earlier ones.
func (s *Set) Replace(name string, validators []Validator) {
	if len(validators) == 0 {
		delete(s.checks, name)
		return
	}
	s.checks[name] = append([]Validator(nil), validators...)
}

// Checks returns the checks registered for name.
func (s *Set) Checks(name string) []Validator {
	return s.checks[name]
}

// Names lists datasets that have checks, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateData runs the checks of name in order and returns data unchanged.
// The first rejection stops the remaining checks.
func (s *Set) ValidateData(name string, data any) (any, error) {
	checks, ok := s.checks[name]
	if !ok {
		return data, nil
	}
	s.logger.Info("validating data", "dataset", name, "checks", len(checks))
	for _, check := range checks {
		checkName := check.Name()
		s.logger.Debug("running check", "dataset", name, "check", checkName)
		if err := check.Validate(data); err != nil {
			s.logger.Warn("check failed", "dataset", name, "check", checkName, "error", err)
			return nil, &Failure{Dataset: name, Check: checkName, Err: err}
		}
		s.logger.Info("check passed", "dataset", name, "check", checkName)
	}
	s.logger.Info("dataset validated", "dataset", name)
	return data, nil
}
