package symbol

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps symbol paths to factories. It is populated at process start
// by each collaborator package and read afterwards.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]map[string]*Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: map[string]map[string]*Factory{}}
}

// Register binds a factory to a dotted path. Registering the same path twice panics.
func (r *Registry) Register(path string, factory *Factory) {
	parsed, err := ParsePath(path)
	if err != nil {
		panic(err.Error())
	}
	if parsed.Method != "" {
		panic(fmt.Sprintf("register %q: method selectors are attached with WithMethod", path))
	}
	if parsed.Module == "" {
		panic(fmt.Sprintf("register %q: path needs a module", path))
	}
	if factory == nil {
		panic(fmt.Sprintf("register %q: factory is nil", path))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	attrs, ok := r.modules[parsed.Module]
	if !ok {
		attrs = map[string]*Factory{}
		r.modules[parsed.Module] = attrs
	}
	if _, exists := attrs[parsed.Attr]; exists {
		panic(fmt.Sprintf("symbol %q already registered", path))
	}
	attrs[parsed.Attr] = factory
}

// Resolve looks up a symbol path, following an optional method selector.
func (r *Registry) Resolve(path string) (*Factory, error) {
	parsed, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	if parsed.Module == "" {
		return nil, &ResolutionError{Path: path, Attr: parsed.Attr, Reason: "path has no module"}
	}
	r.mu.RLock()
	attrs, ok := r.modules[parsed.Module]
	var factory *Factory
	if ok {
		factory = attrs[parsed.Attr]
	}
	r.mu.RUnlock()
	if !ok {
		return nil, &ResolutionError{Path: path, Module: parsed.Module, Attr: parsed.Attr, Reason: fmt.Sprintf("no module named %q", parsed.Module)}
	}
	if factory == nil {
		return nil, &ResolutionError{Path: path, Module: parsed.Module, Attr: parsed.Attr, Reason: fmt.Sprintf("module %q has no attribute %q", parsed.Module, parsed.Attr)}
	}
	if parsed.Method == "" {
		return factory, nil
	}
	method, ok := factory.Methods[parsed.Method]
	if !ok {
		return nil, &ResolutionError{Path: path, Module: parsed.Module, Attr: parsed.Attr, Reason: fmt.Sprintf("%q has no method %q", parsed.Attr, parsed.Method)}
	}
	return method, nil
}

// Paths returns every registered dotted path, sorted.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for module, attrs := range r.modules {
		for attr := range attrs {
			out = append(out, module+ModuleSeparator+attr)
		}
	}
	sort.Strings(out)
	return out
}
