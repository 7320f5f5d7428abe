package config

import "maps"

// DeepMerge returns base with override applied. Mappings present on both
// sides merge recursively; any other override value replaces the base value.
// Neither input is modified.
func DeepMerge(base, override map[string]any) map[string]any {
	out := maps.Clone(base)
	if out == nil {
		out = map[string]any{}
	}
	for key, value := range override {
		existing, ok := out[key].(map[string]any)
		incoming, isMap := value.(map[string]any)
		if ok && isMap {
			out[key] = DeepMerge(existing, incoming)
			continue
		}
		out[key] = value
	}
	return out
}
