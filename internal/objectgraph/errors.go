package objectgraph

import "fmt"

// InvalidNodeError reports a value that should have been an object node but is not.
type InvalidNodeError struct {
	Path   string
	Reason string
}

func (err *InvalidNodeError) Error() string {
	if err.Path == "" {
		return fmt.Sprintf("invalid object node: %s", err.Reason)
	}
	return fmt.Sprintf("%s: invalid object node: %s", err.Path, err.Reason)
}

// BuildError wraps a failure to resolve or invoke the callable at Path.
type BuildError struct {
	Path     string
	Callable string
	Err      error
}

func (err *BuildError) Error() string {
	if err.Path == "" {
		return fmt.Sprintf("build %s: %v", err.Callable, err.Err)
	}
	return fmt.Sprintf("%s: build %s: %v", err.Path, err.Callable, err.Err)
}

func (err *BuildError) Unwrap() error {
	return err.Err
}
