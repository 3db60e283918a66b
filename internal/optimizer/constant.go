package optimizer

import (
	"math"

	"github.com/hassan/exprc/internal/ir"
)

// ConstantFoldingPass evaluates operations whose operands are both constants
// at compile time. It is not part of the default sequence; see
// Optimizer.EnableConstantFolding.
//
// EXAMPLE:
//
//	Before:  %3 = 5
//	         %4 = %3 * %0
//	         %5 = %4 + %2
//	After:   %6 = -5
//	         %7 = -4
//	         output = %7      (%4 and %5 retired)
//
// Results are interned like literals: a result equal to an existing constant
// reuses its position.
type ConstantFoldingPass struct{}

// Name returns the name of this optimization pass.
func (c *ConstantFoldingPass) Name() string {
	return "ConstantFolding"
}

// Run executes constant folding on the given table.
func (c *ConstantFoldingPass) Run(table *ir.Table) (Result, error) {
	return Result{Rewrites: FoldConstants(table)}, nil
}

// FoldConstants replaces every operation on two constants with a constant
// holding its value and returns the rewrites made. One ascending scan folds
// whole constant subtrees, since users are visited after their operands.
//
// Division by zero is not folded, so the evaluator still produces the
// infinity or NaN at run time.
func FoldConstants(table *ir.Table) []ir.Rewrite {
	var rewrites []ir.Rewrite

	for _, p := range table.OperationPositions() {
		if table.Retired(p) {
			continue
		}
		op := table.Operations[p]
		left, leftOk := table.Constants[op.Left]
		right, rightOk := table.Constants[op.Right]
		if !leftOk || !rightOk {
			continue
		}
		if op.Op == ir.OpDiv && right == 0 {
			continue
		}

		to := internConstant(table, op.Op.Apply(left, right))
		table.Replace(p, to)
		rewrites = append(rewrites, ir.Rewrite{Old: p, New: to})
	}

	return rewrites
}

// internConstant returns a position holding value, allocating one if no
// constant equals it. Negative zero is never interned: it compares equal to
// zero but divides differently.
func internConstant(table *ir.Table, value float64) ir.Position {
	if value != 0 || !math.Signbit(value) {
		if p, ok := table.LookupConstant(value); ok {
			return p
		}
	}
	return table.AddConstant(value)
}
