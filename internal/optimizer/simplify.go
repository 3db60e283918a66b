package optimizer

import (
	"github.com/hassan/exprc/internal/ir"
)

// AlgebraicSimplificationPass replaces operations that are identities with
// the value they are equal to.
//
// RULES:
//
//	x * 0, 0 * x       -> 0
//	x - x              -> 0
//	x * 1, 1 * x, x / 1 -> x
//	x + 0, 0 + x, x - 0 -> x
//
// 0 and 1 are recognized by position (ir.Zero and ir.One), which the
// builder guarantees for every literal 0 and 1. 1 / x and 0 - x are not
// identities and are left alone.
//
// When both operands are the anchor, as in 1 * 1 or 0 + 0, the right operand
// is chosen; it is the anchor itself.
type AlgebraicSimplificationPass struct{}

// Name returns the name of this optimization pass.
func (a *AlgebraicSimplificationPass) Name() string {
	return "AlgebraicSimplification"
}

// Run executes algebraic simplification on the given table.
func (a *AlgebraicSimplificationPass) Run(table *ir.Table) (Result, error) {
	return Result{Rewrites: Simplify(table)}, nil
}

// Simplify makes one ascending scan over the operations, visiting each
// record once, and returns the rewrites made. Records are read when visited,
// so a rewrite of an operand is seen by its users later in the same scan:
// in (x * 1) + 0 both operations collapse to x.
func Simplify(table *ir.Table) []ir.Rewrite {
	var rewrites []ir.Rewrite

	for _, p := range table.OperationPositions() {
		if table.Retired(p) {
			continue
		}
		if to, ok := simplifyOperation(table.Operations[p]); ok {
			table.Replace(p, to)
			rewrites = append(rewrites, ir.Rewrite{Old: p, New: to})
		}
	}

	return rewrites
}

// simplifyOperation returns the position op is equal to, if op matches a
// rule.
func simplifyOperation(op ir.Operation) (ir.Position, bool) {
	switch op.Op {
	case ir.OpMul:
		if op.Left == ir.Zero || op.Right == ir.Zero {
			return ir.Zero, true
		}
		if op.Left == ir.One || op.Right == ir.One {
			return otherOperand(op, ir.One), true
		}
	case ir.OpSub:
		if op.Left == op.Right {
			return ir.Zero, true
		}
		if op.Right == ir.Zero {
			return op.Left, true
		}
	case ir.OpAdd:
		if op.Left == ir.Zero || op.Right == ir.Zero {
			return otherOperand(op, ir.Zero), true
		}
	case ir.OpDiv:
		if op.Right == ir.One {
			return op.Left, true
		}
	}
	return 0, false
}

// otherOperand returns the operand of op that is not anchor, preferring the
// right operand when both are.
func otherOperand(op ir.Operation, anchor ir.Position) ir.Position {
	if op.Left == anchor {
		return op.Right
	}
	return op.Left
}
