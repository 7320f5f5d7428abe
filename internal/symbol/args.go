package symbol

import (
	"fmt"
	"maps"

	"github.com/go-viper/mapstructure/v2"
)

// ArgTag is the struct tag read by Args.Decode.
const ArgTag = "arg"

// Args are keyword arguments passed to a factory.
type Args map[string]any

// Clone returns a shallow copy.
func (a Args) Clone() Args {
	if a == nil {
		return Args{}
	}
	return maps.Clone(a)
}

// Has reports whether name is present.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// String returns a string argument, or fallback when absent.
func (a Args) String(name, fallback string) (string, error) {
	value, ok := a[name]
	if !ok || value == nil {
		return fallback, nil
	}
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("argument %s: expected string, got %T", name, value)
	}
	return text, nil
}

// Int returns an integer argument, or fallback when absent.
func (a Args) Int(name string, fallback int) (int, error) {
	value, ok := a[name]
	if !ok || value == nil {
		return fallback, nil
	}
	switch typed := value.(type) {
	case int:
		return typed, nil
	case int64:
		return int(typed), nil
	case float64:
		if typed == float64(int(typed)) {
			return int(typed), nil
		}
	}
	return 0, fmt.Errorf("argument %s: expected integer, got %T", name, value)
}

// Decode copies the arguments into the struct pointed to by out, matching
// fields by their `arg` tag.
func (a Args) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          ArgTag,
		WeaklyTypedInput: false,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("decode arguments: %w", err)
	}
	if err := decoder.Decode(map[string]any(a)); err != nil {
		return fmt.Errorf("decode arguments: %w", err)
	}
	return nil
}
