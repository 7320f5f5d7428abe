package symbol

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedArgument is returned when a keyword argument is not a declared parameter.
	ErrUnexpectedArgument = errors.New("unexpected argument")
	// ErrMissingArgument is returned when a required parameter is absent.
	ErrMissingArgument = errors.New("missing argument")
)

// MalformedPathError reports a symbol path with more than one method separator.
type MalformedPathError struct {
	Path string
}

func (err *MalformedPathError) Error() string {
	return fmt.Sprintf("%s: symbol paths accept at most one %q", err.Path, MethodSeparator)
}

// ResolutionError reports a symbol path whose module or attribute is not registered.
type ResolutionError struct {
	Path   string
	Module string
	Attr   string
	Reason string
}

func (err *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %s", err.Path, err.Reason)
}
