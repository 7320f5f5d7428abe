// Package secrets provides lookups meant to be invoked from catalog
// templates, keeping credentials out of the documents themselves.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"datacat/internal/symbol"
)

// ErrNotFound reports a secret that is not set.
var ErrNotFound = errors.New("secret not found")

// Env returns the value of an environment variable. It fails when the
// variable is unset unless a fallback is given.
func Env(name string, fallback *string) (string, error) {
	if value, ok := os.LookupEnv(name); ok {
		return value, nil
	}
	if fallback != nil {
		return *fallback, nil
	}
	return "", fmt.Errorf("%w: environment variable %s", ErrNotFound, name)
}

// File returns the contents of a file with surrounding whitespace trimmed.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: file %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("read secret %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Register adds the lookups to reg under datacat.secrets. Both accept the
// key positionally or as a keyword.
func Register(reg *symbol.Registry) {
	reg.Register("datacat.secrets.env", symbol.NewFunc("env", []string{"name", "default"}, func(positional []any, args symbol.Args) (any, error) {
		name, err := keyArg(positional, args, "name")
		if err != nil {
			return nil, err
		}
		var fallback *string
		if args.Has("default") {
			value, err := args.String("default", "")
			if err != nil {
				return nil, err
			}
			fallback = &value
		}
		return Env(name, fallback)
	}))
	reg.Register("datacat.secrets.file", symbol.NewFunc("file", []string{"path"}, func(positional []any, args symbol.Args) (any, error) {
		path, err := keyArg(positional, args, "path")
		if err != nil {
			return nil, err
		}
		return File(path)
	}))
}

func keyArg(positional []any, args symbol.Args, name string) (string, error) {
	switch {
	case len(positional) > 1:
		return "", fmt.Errorf("expected at most one positional argument, got %d", len(positional))
	case len(positional) == 1 && args.Has(name):
		return "", fmt.Errorf("%s given both positionally and as a keyword", name)
	case len(positional) == 1:
		value, ok := positional[0].(string)
		if !ok {
			return "", fmt.Errorf("%s: expected string, got %T", name, positional[0])
		}
		return value, nil
	}
	value, err := args.String(name, "")
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("%w %s", symbol.ErrMissingArgument, name)
	}
	return value, nil
}
