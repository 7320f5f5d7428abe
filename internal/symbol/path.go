package symbol

import (
	"strings"
)

// Separators used by symbol paths of the form module.sub.Name or module.sub.Name:method.
const (
	ModuleSeparator = "."
	MethodSeparator = ":"
)

// Path is a parsed symbol path.
type Path struct {
	Raw    string
	Module string
	Attr   string
	Method string
}

// ParsePath splits a symbol path into module, attribute and optional method.
// It fails with a MalformedPathError before any lookup when more than one
// method separator is present.
func ParsePath(raw string) (Path, error) {
	parts := strings.Split(raw, MethodSeparator)
	if len(parts) > 2 {
		return Path{}, &MalformedPathError{Path: raw}
	}
	path := Path{Raw: raw}
	if len(parts) == 2 {
		path.Method = parts[1]
	}
	dotted := parts[0]
	idx := strings.LastIndex(dotted, ModuleSeparator)
	if idx < 0 {
		path.Attr = dotted
	} else {
		path.Module = dotted[:idx]
		path.Attr = dotted[idx+1:]
	}
	return path, nil
}

// Dotted returns the path without its method selector.
func (p Path) Dotted() string {
	if p.Module == "" {
		return p.Attr
	}
	return p.Module + ModuleSeparator + p.Attr
}

// String renders the path in its textual form.
func (p Path) String() string {
	if p.Method == "" {
		return p.Dotted()
	}
	return p.Dotted() + MethodSeparator + p.Method
}
