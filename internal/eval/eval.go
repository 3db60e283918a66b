// Package eval computes the value of an optimized table.
//
// The evaluator seeds a working store with every constant and with a value
// for every variable, then scans the operations in position order, computing
// each one whose operands are both known, until the output is known.
// Variable values come from a ValueSource, which is usually a Prompter
// reading from the terminal.
package eval

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hassan/exprc/internal/ir"
	"github.com/hassan/exprc/internal/symtab"
)

// ValueSource supplies the value of a free variable.
type ValueSource interface {
	Value(ctx context.Context, name string) (float64, error)
}

// Evaluator computes the output value of a table.
type Evaluator struct {
	source ValueSource
	trace  io.Writer
	logger *slog.Logger

	// scope holds the bindings of the last Run.
	scope *symtab.Scope
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTrace makes the evaluator print every value it stores to w:
//
//	%1 = 0
//	%3 = 7
//	%5 = %3 + %1 = 7
func WithTrace(w io.Writer) Option {
	return func(e *Evaluator) {
		e.trace = w
	}
}

// WithLogger sets the logger used for debug messages.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// New creates an Evaluator that asks source for variable values.
func New(source ValueSource, opts ...Option) *Evaluator {
	e := &Evaluator{
		source: source,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scope returns the bindings of the last call to Run, or nil before the
// first call. Its parent is the preset scope when the source is Bindings.
func (e *Evaluator) Scope() *symtab.Scope {
	return e.scope
}

// Run computes the value of t's output.
//
// Every variable in t is resolved, in position order, and each distinct
// name is requested from the source once. Division by zero follows IEEE 754
// and yields an infinity or NaN.
//
// Run panics if a whole scan over the operations computes nothing while the
// output is still unknown. That only happens for a corrupted or cyclic
// table, which the builder and the optimizer never produce.
func (e *Evaluator) Run(ctx context.Context, t *ir.Table) (float64, error) {
	values := make(map[ir.Position]float64, len(t.Constants)+len(t.Variables)+len(t.Operations))
	e.scope = symtab.NewScope(symtab.ScopeEvaluation, e.presets())

	for _, p := range ir.SortedPositions(t.Constants) {
		e.store(values, p, t.Constants[p])
	}

	for _, p := range ir.SortedPositions(t.Variables) {
		v, err := e.resolve(ctx, t.Variables[p])
		if err != nil {
			return 0, err
		}
		e.store(values, p, v)
	}

	if v, ok := values[t.Output]; ok {
		return v, nil
	}

	positions := t.OperationPositions()
	for {
		progress := false
		for _, p := range positions {
			if _, done := values[p]; done || t.Retired(p) {
				continue
			}
			op := t.Operations[p]
			left, ok := values[op.Left]
			if !ok {
				continue
			}
			right, ok := values[op.Right]
			if !ok {
				continue
			}
			v := op.Op.Apply(left, right)
			values[p] = v
			progress = true
			if e.trace != nil {
				fmt.Fprintf(e.trace, "%s = %s = %s\n", p, op, ir.FormatValue(v))
			}
			if p == t.Output {
				return v, nil
			}
		}
		if !progress {
			panic(fmt.Sprintf("eval: no operation can be computed, %s is unreachable\n%s", t.Output, t))
		}
	}
}

// presets returns the scope of preset values when the source is Bindings,
// so that each run scope is nested under it.
func (e *Evaluator) presets() *symtab.Scope {
	if b, ok := e.source.(*Bindings); ok {
		return b.scope
	}
	return nil
}

// resolve returns the value bound to name in the run scope or the preset
// scope above it, asking the source the first time the name is seen.
func (e *Evaluator) resolve(ctx context.Context, name string) (float64, error) {
	if symbol := e.scope.Lookup(name); symbol != nil {
		return symbol.Value, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	v, err := e.source.Value(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("variable %s: %w", name, err)
	}
	e.logger.Debug("resolved variable", "name", name, "value", v)
	if _, err := e.scope.Bind(name, symtab.SymbolResolved, v); err != nil {
		return 0, err
	}
	return v, nil
}

func (e *Evaluator) store(values map[ir.Position]float64, p ir.Position, v float64) {
	values[p] = v
	if e.trace != nil {
		fmt.Fprintf(e.trace, "%s = %s\n", p, ir.FormatValue(v))
	}
}
