// Package render runs the template pass applied to catalog documents and
// parameter files before they are parsed.
//
// Referencing a parameter that was not supplied is an error. Optional
// parameters are read with index, which yields nil for a missing key, and
// piped through default.
//
// Besides the parameters passed as data, templates can call functions:
//
//	{{ invoke "datacat.secrets.env" "PGPASSWORD" }}
//	{{ invoke "datacat.secrets.file" (kw "path" .secret_path) }}
//	{{ env "HOME" }}
//	{{ index . "schema" | default "public" }}
//	{{ quote .name }}
package render

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"text/template"

	"github.com/hashicorp/go-hclog"

	"datacat/internal/symbol"
)

// Resolver finds the factory behind a symbol path.
type Resolver interface {
	Resolve(path string) (*symbol.Factory, error)
}

// Keyword is a named argument built by the kw template function.
type Keyword struct {
	Name  string
	Value any
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for trace output.
func WithLogger(logger hclog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLookupEnv replaces the environment lookup used by env.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(r *Renderer) {
		if lookup != nil {
			r.lookupEnv = lookup
		}
	}
}

// Renderer renders text templates against a parameter mapping.
type Renderer struct {
	resolver  Resolver
	logger    hclog.Logger
	lookupEnv func(string) (string, bool)
}

// New creates a renderer. A nil resolver disables invoke.
func New(resolver Resolver, opts ...Option) *Renderer {
	r := &Renderer{
		resolver:  resolver,
		logger:    hclog.NewNullLogger(),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render executes text as a template named name with params as its data.
// Referencing a missing parameter is an error.
func (r *Renderer) Render(name, text string, params map[string]any) (string, error) {
	if params == nil {
		params = map[string]any{}
	}
	tmpl, err := template.New(name).Option("missingkey=error").Funcs(r.funcs()).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, params); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return out.String(), nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"invoke":  r.invoke,
		"kw":      keyword,
		"env":     r.env,
		"default": fallback,
		"quote":   quote,
	}
}

func (r *Renderer) invoke(path string, args ...any) (any, error) {
	if r.resolver == nil {
		return nil, fmt.Errorf("invoke %s: no symbol resolver configured", path)
	}
	factory, err := r.resolver.Resolve(path)
	if err != nil {
		return nil, err
	}
	var positional []any
	keywords := symbol.Args{}
	for _, arg := range args {
		if kw, ok := arg.(Keyword); ok {
			keywords[kw.Name] = kw.Value
			continue
		}
		positional = append(positional, arg)
	}
	r.logger.Trace("template invoke", "path", path, "positional", len(positional), "keywords", len(keywords))
	return factory.Invoke(positional, keywords)
}

func keyword(name string, value any) Keyword {
	return Keyword{Name: name, Value: value}
}

func (r *Renderer) env(name string) string {
	value, _ := r.lookupEnv(name)
	return value
}

// fallback returns value unless it is empty or missing. The argument order
// suits pipelines.
func fallback(def any, value ...any) any {
	if len(value) == 0 || empty(value[0]) {
		return def
	}
	return value[0]
}

func empty(v any) bool {
	switch typed := v.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case bool:
		return !typed
	case int:
		return typed == 0
	case int64:
		return typed == 0
	case float64:
		return typed == 0
	case []any:
		return len(typed) == 0
	case map[string]any:
		return len(typed) == 0
	default:
		return false
	}
}

// quote renders v as a double-quoted scalar that YAML reads back verbatim.
func quote(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return strconv.Quote(fmt.Sprint(v))
}
