package eval

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/hassan/exprc/internal/symtab"
)

// Prompter reads variable values one line at a time.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter creates a Prompter reading from in. When interactive is set,
// a prompt naming the variable is written to out before each read.
func NewPrompter(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Value prompts for name and parses the line read as a float64.
func (p *Prompter) Value(ctx context.Context, name string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if p.interactive {
		fmt.Fprintf(p.out, "Give a value to the variable %q = ", name)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}

	text := strings.TrimSpace(line)
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", text, err)
	}
	return v, nil
}

// Bindings answers from a set of preset values and defers every other name
// to a fallback source.
type Bindings struct {
	scope    *symtab.Scope
	fallback ValueSource
}

// NewBindings creates Bindings holding values. fallback may be nil, in
// which case an unbound name is an error.
func NewBindings(values map[string]float64, fallback ValueSource) (*Bindings, error) {
	b := &Bindings{
		scope:    symtab.NewScope(symtab.ScopePreset, nil),
		fallback: fallback,
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	// Bind in name order so that symbol indices do not depend on map order.
	slices.Sort(names)
	for _, name := range names {
		if _, err := b.scope.Bind(name, symtab.SymbolPreset, values[name]); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Value returns the preset value of name, or asks the fallback.
func (b *Bindings) Value(ctx context.Context, name string) (float64, error) {
	if symbol := b.scope.Lookup(name); symbol != nil {
		return symbol.Value, nil
	}
	if b.fallback == nil {
		return 0, fmt.Errorf("no value given for %q", name)
	}
	return b.fallback.Value(ctx, name)
}

// Unused returns the names of the preset values that were never requested.
func (b *Bindings) Unused() []string {
	var names []string
	for _, symbol := range b.scope.UnusedSymbols() {
		names = append(names, symbol.Name)
	}
	return names
}

// Scope returns the scope holding the preset values.
func (b *Bindings) Scope() *symtab.Scope {
	return b.scope
}
