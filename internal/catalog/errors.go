package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by NotFoundError.
var ErrNotFound = errors.New("dataset not found")

// NotFoundError reports an unknown dataset name.
type NotFoundError struct {
	Name string
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %v", err.Name, ErrNotFound)
}

func (err *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// FormatError reports a document that does not parse into a mapping.
type FormatError struct {
	Err    error
	Reason string
}

func (err *FormatError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("parse catalog: %v", err.Err)
	}
	return fmt.Sprintf("parse catalog: %s", err.Reason)
}

func (err *FormatError) Unwrap() error {
	return err.Err
}

// SchemaError reports a constructed object lacking the capability its
// position requires.
type SchemaError struct {
	Dataset string
	Path    string
	Type    string
	Want    string
}

func (err *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s is not a %s", err.Path, err.Type, err.Want)
}

// CapabilityError reports a write to a read-only data source.
type CapabilityError struct {
	Dataset string
	Type    string
}

func (err *CapabilityError) Error() string {
	return fmt.Sprintf("%s: %s does not support writing", err.Dataset, err.Type)
}
