// Package builtin assembles the symbol registry of every data source,
// check, constructor and template helper shipped with datacat.
package builtin

import (
	"datacat/internal/frame"
	"datacat/internal/secrets"
	"datacat/internal/source"
	"datacat/internal/symbol"
	"datacat/internal/validation"
)

// Registry returns a fresh registry populated with the built-in symbols.
func Registry() *symbol.Registry {
	reg := symbol.NewRegistry()
	Register(reg)
	return reg
}

// Register adds the built-in symbols to reg.
func Register(reg *symbol.Registry) {
	frame.Register(reg)
	source.Register(reg)
	validation.Register(reg)
	secrets.Register(reg)
}
