package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"datacat/internal/frame"
)

const inlineSchemaURL = "inline://datacat/schema.json"

// JSONSchema checks data against a JSON Schema compiled at construction.
// Frames are checked as a list of row objects.
type JSONSchema struct {
	schema *jsonschema.Schema
}

// NewJSONSchemaFromFile compiles the schema stored at path.
func NewJSONSchemaFromFile(path string) (*JSONSchema, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve schema path: %w", err)
	}
	schema, err := jsonschema.NewCompiler().Compile("file://" + filepath.ToSlash(abs))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &JSONSchema{schema: schema}, nil
}

// NewJSONSchema compiles an inline schema given as plain values.
func NewJSONSchema(schema any) (*JSONSchema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(inlineSchemaURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile(inlineSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &JSONSchema{schema: compiled}, nil
}

// Validate checks data.
func (s *JSONSchema) Validate(data any) error {
	if f, ok := data.(*frame.Frame); ok {
		data = f.Records()
	}
	doc, err := jsonValue(data)
	if err != nil {
		return err
	}
	if err := s.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	return nil
}

// Name returns the type name.
func (s *JSONSchema) Name() string {
	return "JSONSchema"
}

// jsonValue maps data onto the types encoding/json decodes into.
func jsonValue(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode data: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return out, nil
}
