// Package node models configuration documents as a closed variant tree.
//
// A mapping with exactly the keys "callable" and "args" is classified as an
// Object when the tree is built; every other mapping stays a plain Mapping.
// Consumers therefore decide between "construct this" and "pass this through"
// with a switch on Kind.
package node

import (
	"fmt"
	"math"
	"sort"
)

// Reserved keys of object nodes and catalog entries.
const (
	KeyCallable    = "callable"
	KeyArgs        = "args"
	KeyValidations = "validations"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Entry is one key/value pair of a mapping, kept in document order.
type Entry struct {
	Key   string
	Value Value
}

// Value is an immutable configuration tree node.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	f       float64
	s       string
	items   []Value
	entries []Entry
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Seq builds a sequence.
func Seq(items ...Value) Value { return Value{kind: KindSequence, items: items} }

// E builds a mapping entry.
func E(key string, value Value) Entry { return Entry{Key: key, Value: value} }

// Map builds a mapping, classifying it as an Object when its keys are exactly
// callable and args. Later duplicate keys replace earlier ones in place.
func Map(entries ...Entry) Value {
	deduped := make([]Entry, 0, len(entries))
	index := map[string]int{}
	for _, entry := range entries {
		if pos, ok := index[entry.Key]; ok {
			deduped[pos].Value = entry.Value
			continue
		}
		index[entry.Key] = len(deduped)
		deduped = append(deduped, entry)
	}
	kind := KindMapping
	if isObjectKeys(deduped) {
		kind = KindObject
	}
	return Value{kind: kind, entries: deduped}
}

// Object builds an object node.
func Object(callable string, args Value) Value {
	return Map(E(KeyCallable, String(callable)), E(KeyArgs, args))
}

func isObjectKeys(entries []Entry) bool {
	if len(entries) != 2 {
		return false
	}
	var callable, args bool
	for _, entry := range entries {
		switch entry.Key {
		case KeyCallable:
			callable = true
		case KeyArgs:
			args = true
		}
	}
	return callable && args
}

// Kind returns the variant.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsObject reports whether the value is a parseable object node.
func (v Value) IsObject() bool { return v.kind == KindObject }

// IsMapping reports whether the value is any mapping, object nodes included.
func (v Value) IsMapping() bool { return v.kind == KindMapping || v.kind == KindObject }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float payload, widening integers.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Items returns the elements of a sequence.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.items
}

// Entries returns mapping entries in document order.
func (v Value) Entries() []Entry {
	if !v.IsMapping() {
		return nil
	}
	return v.entries
}

// Keys returns mapping keys in document order.
func (v Value) Keys() []string {
	entries := v.Entries()
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, entry.Key)
	}
	return keys
}

// Get looks up a mapping key.
func (v Value) Get(key string) (Value, bool) {
	for _, entry := range v.Entries() {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return Value{}, false
}

// Len returns the number of sequence items or mapping entries.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping, KindObject:
		return len(v.entries)
	default:
		return 0
	}
}

// Interface converts the tree to plain Go values: nil, bool, int, float64,
// string, []any and map[string]any. Object nodes become maps.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return int(v.i)
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindSequence:
		out := make([]any, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, item.Interface())
		}
		return out
	case KindMapping, KindObject:
		out := make(map[string]any, len(v.entries))
		for _, entry := range v.entries {
			out[entry.Key] = entry.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromInterface builds a tree from plain Go values. Map keys are sorted.
func FromInterface(in any) (Value, error) {
	switch typed := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return typed, nil
	case bool:
		return Bool(typed), nil
	case int:
		return Int(int64(typed)), nil
	case int32:
		return Int(int64(typed)), nil
	case int64:
		return Int(typed), nil
	case uint64:
		if typed > math.MaxInt64 {
			return Value{}, fmt.Errorf("integer %d overflows int64", typed)
		}
		return Int(int64(typed)), nil
	case float32:
		return Float(float64(typed)), nil
	case float64:
		return Float(typed), nil
	case string:
		return String(typed), nil
	case []any:
		items := make([]Value, 0, len(typed))
		for i, item := range typed {
			value, err := FromInterface(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, value)
		}
		return Seq(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		entries := make([]Entry, 0, len(keys))
		for _, key := range keys {
			value, err := FromInterface(typed[key])
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", key, err)
			}
			entries = append(entries, E(key, value))
		}
		return Map(entries...), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", in)
	}
}
