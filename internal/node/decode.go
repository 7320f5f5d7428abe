package node

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

const mergeKey = "<<"

// Parse decodes a single YAML (or JSON) document into a Value tree. An empty
// document yields Null.
func Parse(data []byte) (Value, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Null(), nil
		}
		return Value{}, fmt.Errorf("parse yaml: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		if err == nil {
			return Value{}, fmt.Errorf("parse yaml: multiple YAML documents are not supported")
		}
		return Value{}, fmt.Errorf("parse yaml: %w", err)
	}
	return FromYAML(&doc)
}

// FromYAML converts a decoded yaml.Node into a Value tree.
func FromYAML(n *yaml.Node) (Value, error) {
	c := converter{active: map[*yaml.Node]bool{}}
	return c.convert(n)
}

type converter struct {
	active map[*yaml.Node]bool
}

func (c converter) convert(n *yaml.Node) (Value, error) {
	if n == nil {
		return Null(), nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		if c.active[n.Alias] {
			return Value{}, fmt.Errorf("line %d: recursive alias %q", n.Line, n.Value)
		}
		c.active[n.Alias] = true
		defer delete(c.active, n.Alias)
		return c.convert(n.Alias)
	case yaml.ScalarNode:
		return scalar(n)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := c.convert(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Seq(items...), nil
	case yaml.MappingNode:
		return c.mapping(n)
	default:
		return Value{}, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}

func (c converter) mapping(n *yaml.Node) (Value, error) {
	var explicit, merged []Entry
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valueNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}
		if keyNode.Value == mergeKey && keyNode.ShortTag() == "!!merge" {
			entries, err := c.mergeEntries(valueNode)
			if err != nil {
				return Value{}, err
			}
			merged = append(merged, entries...)
			continue
		}
		value, err := c.convert(valueNode)
		if err != nil {
			return Value{}, err
		}
		explicit = append(explicit, E(keyNode.Value, value))
	}
	if len(merged) == 0 {
		return Map(explicit...), nil
	}
	seen := map[string]bool{}
	for _, entry := range explicit {
		seen[entry.Key] = true
	}
	out := explicit
	for _, entry := range merged {
		if seen[entry.Key] {
			continue
		}
		seen[entry.Key] = true
		out = append(out, entry)
	}
	return Map(out...), nil
}

// mergeEntries expands the value of a "<<" key: a mapping, an alias to one,
// or a sequence of those.
func (c converter) mergeEntries(n *yaml.Node) ([]Entry, error) {
	if n.Kind == yaml.SequenceNode {
		var out []Entry
		for _, child := range n.Content {
			entries, err := c.mergeEntries(child)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
		return out, nil
	}
	value, err := c.convert(n)
	if err != nil {
		return nil, err
	}
	if !value.IsMapping() {
		return nil, fmt.Errorf("line %d: merge value must be a mapping", n.Line)
	}
	return value.Entries(), nil
}

func scalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return Value{}, fmt.Errorf("line %d: invalid integer %q", n.Line, n.Value)
		}
		return Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}
