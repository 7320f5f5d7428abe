package node

import "fmt"

// ObjectNode is the construction instruction held by an Object value.
type ObjectNode struct {
	Callable Value
	Args     Value
}

// AsObject returns the callable and args of an object node.
func (v Value) AsObject() (ObjectNode, bool) {
	if v.kind != KindObject {
		return ObjectNode{}, false
	}
	callable, _ := v.Get(KeyCallable)
	args, _ := v.Get(KeyArgs)
	return ObjectNode{Callable: callable, Args: args}, true
}

// SplitEntry separates a top-level catalog entry into its object node and its
// optional validations. Entries must have the keys callable and args, and may
// carry validations as a third key; any other shape reports ok=false.
func SplitEntry(v Value) (object Value, validations Value, ok bool) {
	if v.kind == KindObject {
		return v, Null(), true
	}
	if v.kind != KindMapping || len(v.entries) != 3 {
		return Value{}, Value{}, false
	}
	callable, hasCallable := v.Get(KeyCallable)
	args, hasArgs := v.Get(KeyArgs)
	validations, hasValidations := v.Get(KeyValidations)
	if !hasCallable || !hasArgs || !hasValidations {
		return Value{}, Value{}, false
	}
	return Map(E(KeyCallable, callable), E(KeyArgs, args)), validations, true
}

// Describe renders a short, human readable label for error messages.
func Describe(v Value) string {
	switch v.kind {
	case KindMapping, KindObject:
		return fmt.Sprintf("%s with keys %v", v.kind, v.Keys())
	case KindSequence:
		return fmt.Sprintf("sequence of %d", len(v.items))
	default:
		return v.kind.String()
	}
}
