package symtab

import (
	"fmt"
	"sort"
	"strings"
)

// ScopeKind represents the kind of scope.
type ScopeKind int

const (
	// ScopePreset holds values given before evaluation
	ScopePreset ScopeKind = iota

	// ScopeEvaluation holds values resolved while evaluating one table
	ScopeEvaluation
)

// String returns a human-readable representation of the scope kind.
func (sk ScopeKind) String() string {
	switch sk {
	case ScopePreset:
		return "preset"
	case ScopeEvaluation:
		return "evaluation"
	default:
		return "unknown"
	}
}

// Scope is a set of bindings with an optional enclosing scope.
//
// EXAMPLE:
//
//	preset scope        a = 7        (from -set a=7)
//	  evaluation scope  b = 2        (prompted)
//
// Looking up a from the evaluation scope finds the preset; looking up b
// from the preset scope finds nothing.
type Scope struct {
	// Kind is the kind of scope
	Kind ScopeKind

	// Parent is the enclosing scope (nil for the outermost scope)
	Parent *Scope

	// Symbols maps names to their bindings in this scope
	Symbols map[string]*Symbol

	// Children are the scopes nested inside this one
	Children []*Scope

	// Depth is the nesting depth (0 for the outermost scope)
	Depth int
}

// NewScope creates a new scope with the given kind and parent.
//
// USAGE:
//
//	presets := NewScope(ScopePreset, nil)
//	run := NewScope(ScopeEvaluation, presets)
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}

	scope := &Scope{
		Kind:     kind,
		Parent:   parent,
		Symbols:  make(map[string]*Symbol),
		Children: make([]*Scope, 0),
		Depth:    depth,
	}

	// Link to parent
	if parent != nil {
		parent.Children = append(parent.Children, scope)
	}

	return scope
}

// Define adds a symbol to this scope.
//
// Returns an error if the name is already bound in this scope. A binding in
// an enclosing scope may be shadowed.
func (s *Scope) Define(symbol *Symbol) error {
	if existing, ok := s.Symbols[symbol.Name]; ok {
		return fmt.Errorf("variable %s is already bound (%s)", symbol.Name, existing)
	}

	symbol.Scope = s
	symbol.Index = len(s.Symbols)
	s.Symbols[symbol.Name] = symbol

	return nil
}

// Bind defines name with value in this scope.
func (s *Scope) Bind(name string, kind SymbolKind, value float64) (*Symbol, error) {
	symbol := &Symbol{Name: name, Kind: kind, Value: value}
	if err := s.Define(symbol); err != nil {
		return nil, err
	}
	return symbol, nil
}

// Lookup finds a symbol by name in this scope or any enclosing scope, and
// marks it used. Returns nil if the name is unbound.
func (s *Scope) Lookup(name string) *Symbol {
	// Check this scope first
	if symbol, ok := s.Symbols[name]; ok {
		symbol.MarkUsed()
		return symbol
	}

	// Not found - check parent scope
	if s.Parent != nil {
		return s.Parent.Lookup(name)
	}

	return nil
}

// LookupLocal finds a symbol by name only in this scope, without marking it
// used.
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.Symbols[name]
}

// LocalSymbols returns the symbols of this scope in definition order.
func (s *Scope) LocalSymbols() []*Symbol {
	symbols := make([]*Symbol, 0, len(s.Symbols))
	for _, symbol := range s.Symbols {
		symbols = append(symbols, symbol)
	}
	sort.Slice(symbols, func(i, j int) bool {
		return symbols[i].Index < symbols[j].Index
	})
	return symbols
}

// AllSymbols returns every binding visible from this scope, innermost
// first. Shadowed bindings are left out.
func (s *Scope) AllSymbols() []*Symbol {
	seen := make(map[string]bool)
	symbols := make([]*Symbol, 0)
	for scope := s; scope != nil; scope = scope.Parent {
		for _, symbol := range scope.LocalSymbols() {
			if seen[symbol.Name] {
				continue
			}
			seen[symbol.Name] = true
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}

// UnusedSymbols returns the symbols of this scope that were never looked
// up, in definition order.
func (s *Scope) UnusedSymbols() []*Symbol {
	unused := make([]*Symbol, 0)
	for _, symbol := range s.LocalSymbols() {
		if !symbol.Used {
			unused = append(unused, symbol)
		}
	}
	return unused
}

// String returns a human-readable representation of the scope.
// Shows the scope kind, depth, and number of symbols.
func (s *Scope) String() string {
	return fmt.Sprintf("%s scope (depth %d, %d symbols)",
		s.Kind.String(), s.Depth, len(s.Symbols))
}

// DebugString returns the scope and all its children, indented by depth.
//
// EXAMPLE OUTPUT:
//
//	preset scope (depth 0, 1 symbols)
//	  preset a = 7
//	  evaluation scope (depth 1, 1 symbols)
//	    resolved b = 2
func (s *Scope) DebugString() string {
	var sb strings.Builder
	s.writeDebug(&sb, 0)
	return sb.String()
}

func (s *Scope) writeDebug(sb *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)

	sb.WriteString(prefix + s.String() + "\n")
	for _, symbol := range s.LocalSymbols() {
		sb.WriteString(prefix + "  " + symbol.String() + "\n")
	}
	for _, child := range s.Children {
		child.writeDebug(sb, indent+1)
	}
}
