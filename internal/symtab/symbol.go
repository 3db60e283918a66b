// Package symtab holds the variable bindings used while evaluating an
// expression.
//
// A binding maps a variable name to a value. Bindings live in scopes: the
// outermost scope holds values preset by the caller (for example from the
// command line), and the evaluation of one table gets a child scope for the
// values it asks for. Lookup walks outwards, so a preset value answers every
// read of its variable and a prompted value is asked for once per name, no
// matter how many positions read it.
package symtab

import (
	"strconv"
)

// SymbolKind records where a binding's value came from.
type SymbolKind int

const (
	// SymbolPreset is a value given before evaluation started.
	SymbolPreset SymbolKind = iota

	// SymbolResolved is a value obtained during evaluation, usually by
	// prompting the user.
	SymbolResolved
)

// String returns a human-readable representation of the symbol kind.
func (sk SymbolKind) String() string {
	switch sk {
	case SymbolPreset:
		return "preset"
	case SymbolResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Symbol is one variable binding.
type Symbol struct {
	// Name is the variable name
	Name string

	// Kind is where the value came from
	Kind SymbolKind

	// Value is the bound value
	Value float64

	// Scope is the scope where this symbol was defined
	Scope *Scope

	// Used tracks if this symbol has been looked up. An unused preset
	// usually means a misspelled name.
	Used bool

	// Index is the definition order within its scope, starting at 0.
	Index int
}

// String returns a human-readable representation of the symbol.
// Format: "kind name = value"
// Example: "preset a = 7"
func (s *Symbol) String() string {
	return s.Kind.String() + " " + s.Name + " = " + strconv.FormatFloat(s.Value, 'g', -1, 64)
}

// IsPreset returns true if the value was given before evaluation.
func (s *Symbol) IsPreset() bool {
	return s.Kind == SymbolPreset
}

// MarkUsed marks this symbol as used.
func (s *Symbol) MarkUsed() {
	s.Used = true
}
