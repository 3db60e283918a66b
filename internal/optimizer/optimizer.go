// Package optimizer rewrites a value table in place with a fixed sequence of
// passes.
//
// The default sequence is copy propagation, algebraic simplification and
// dead code elimination, each run once. Copy propagation and simplification
// only redirect uses (ir.Table.Replace); the records they make redundant are
// deleted by dead code elimination at the end.
package optimizer

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/hassan/exprc/internal/ir"
)

// Pass is one optimization over a value table.
type Pass interface {
	// Name returns a human-readable name for this pass
	Name() string

	// Run rewrites the table and reports what it changed.
	Run(table *ir.Table) (Result, error)
}

// Result is what a single pass run changed.
type Result struct {
	// Rewrites are the Replace calls made, in order.
	Rewrites []ir.Rewrite

	// Removed are the positions deleted from the table, ascending.
	Removed []ir.Position
}

// Changed reports whether the pass modified the table.
func (r Result) Changed() bool {
	return len(r.Rewrites) > 0 || len(r.Removed) > 0
}

// Optimizer runs passes over a table in order.
type Optimizer struct {
	// passes is the list of optimization passes to run
	passes []Pass

	logger *slog.Logger

	// verify runs Table.Verify after every pass.
	verify bool
}

// NewOptimizer creates an optimizer with the default passes.
//
// DEFAULT PASS ORDER:
//  1. Copy propagation - merges duplicate operations
//  2. Algebraic simplification - short-circuits identities such as x * 1
//  3. Dead code elimination - deletes everything the output does not need
func NewOptimizer() *Optimizer {
	return &Optimizer{
		passes: []Pass{
			&CopyPropagationPass{},
			&AlgebraicSimplificationPass{},
			&DeadCodeEliminationPass{},
		},
		logger: slog.New(slog.DiscardHandler),
	}
}

// AddPass appends a pass to the sequence.
func (o *Optimizer) AddPass(pass Pass) {
	o.passes = append(o.passes, pass)
}

// EnableConstantFolding adds constant folding ahead of dead code
// elimination, so the operands it makes unused are deleted in the same run.
func (o *Optimizer) EnableConstantFolding() {
	for i, pass := range o.passes {
		if _, ok := pass.(*ConstantFoldingPass); ok {
			return
		}
		if _, ok := pass.(*DeadCodeEliminationPass); ok {
			o.passes = append(o.passes[:i], append([]Pass{&ConstantFoldingPass{}}, o.passes[i:]...)...)
			return
		}
	}
	o.AddPass(&ConstantFoldingPass{})
}

// SetLogger sets where pass progress is logged. Every pass and every rewrite
// is logged at debug level.
func (o *Optimizer) SetLogger(logger *slog.Logger) {
	o.logger = logger
}

// SetVerify enables checking the table invariants after every pass. A
// violation makes Optimize fail; it always indicates a bug in a pass.
func (o *Optimizer) SetVerify(verify bool) {
	o.verify = verify
}

// Passes returns the names of the configured passes in order.
func (o *Optimizer) Passes() []string {
	names := make([]string, len(o.passes))
	for i, pass := range o.passes {
		names[i] = pass.Name()
	}
	return names
}

// Optimize runs every pass once, in order, and returns what they changed.
func (o *Optimizer) Optimize(table *ir.Table) (*OptimizationStats, error) {
	if table == nil {
		return nil, errors.New("optimize: nil table")
	}

	stats := NewOptimizationStats()
	stats.OperationsBefore = len(table.Operations)

	for _, pass := range o.passes {
		o.logger.Debug("running pass", "pass", pass.Name())

		result, err := pass.Run(table)
		if err != nil {
			return stats, fmt.Errorf("pass %s failed: %w", pass.Name(), err)
		}

		for _, r := range result.Rewrites {
			o.logger.Debug("rewrite", "pass", pass.Name(), "from", r.Old.String(), "to", r.New.String())
		}
		stats.record(pass.Name(), result)
		o.logger.Debug("pass finished", "pass", pass.Name(),
			"rewrites", len(result.Rewrites), "removed", len(result.Removed))

		if o.verify {
			if errs := table.Verify(); len(errs) > 0 {
				return stats, fmt.Errorf("pass %s left an invalid table: %w", pass.Name(), errors.Join(errs...))
			}
		}
	}

	stats.OperationsAfter = len(table.Operations)
	return stats, nil
}

// OptimizationStats tracks statistics about one Optimize call.
type OptimizationStats struct {
	// Rewrites counts the Replace calls per pass name.
	Rewrites map[string]int

	// PositionsRemoved is the number of positions deleted.
	PositionsRemoved int

	// OperationsBefore and OperationsAfter count operation records.
	OperationsBefore int
	OperationsAfter  int

	// PassExecutions tracks how many times each pass ran
	PassExecutions map[string]int
}

// NewOptimizationStats creates a new stats tracker.
func NewOptimizationStats() *OptimizationStats {
	return &OptimizationStats{
		Rewrites:       make(map[string]int),
		PassExecutions: make(map[string]int),
	}
}

func (s *OptimizationStats) record(pass string, result Result) {
	s.PassExecutions[pass]++
	s.Rewrites[pass] += len(result.Rewrites)
	s.PositionsRemoved += len(result.Removed)
}

// String returns a human-readable summary of optimization statistics.
func (s *OptimizationStats) String() string {
	var sb strings.Builder
	sb.WriteString("Optimization Stats:\n")

	names := make([]string, 0, len(s.Rewrites))
	for name := range s.Rewrites {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "  %s rewrites: %d\n", name, s.Rewrites[name])
	}

	fmt.Fprintf(&sb, "  Positions removed: %d\n", s.PositionsRemoved)
	fmt.Fprintf(&sb, "  Operations: %d -> %d\n", s.OperationsBefore, s.OperationsAfter)
	return sb.String()
}
