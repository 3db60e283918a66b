package optimizer

import (
	"github.com/hassan/exprc/internal/ir"
)

// DeadCodeEliminationPass deletes every position the output does not depend
// on.
//
// EXAMPLE:
//
//	Before:  %3 = a
//	         %4 = b
//	         %5 = %1 * %4      (retired, replaced by %1)
//	         %6 = %3 + %1
//	         output = %6
//	After:   %1 = 0
//	         %3 = a
//	         %6 = %3 + %1
//	         output = %6
//
// Reserved constants are deleted like any other position once nothing
// needs them.
//
// DESIGN CHOICE: Two-phase algorithm:
//   - First phase: mark everything reachable from the output
//   - Second phase: sweep every allocated position and delete the unmarked
type DeadCodeEliminationPass struct{}

// Name returns the name of this optimization pass.
func (d *DeadCodeEliminationPass) Name() string {
	return "DeadCodeElimination"
}

// Run executes dead code elimination on the given table.
func (d *DeadCodeEliminationPass) Run(table *ir.Table) (Result, error) {
	return Result{Removed: EliminateDeadCode(table)}, nil
}

// EliminateDeadCode deletes every position not reachable from the output
// and returns the deleted positions in ascending order.
//
// ALGORITHM:
//  1. Mark the positions reachable from Output through operation operands
//  2. For every position below the allocation counter that is not marked:
//     drop it from the uses of its operands if it is an operation, then
//     delete it from all four maps
//  3. Drop any remaining uses entries that point at deleted positions
func EliminateDeadCode(table *ir.Table) []ir.Position {
	reachable := markReachable(table)

	var removed []ir.Position
	for p := ir.Position(0); p < table.Next(); p++ {
		if reachable[p] {
			continue
		}
		if !table.Defined(p) {
			delete(table.Uses, p)
			continue
		}
		if op, ok := table.Operations[p]; ok {
			delete(table.Uses[op.Left], p)
			delete(table.Uses[op.Right], p)
		}
		delete(table.Constants, p)
		delete(table.Variables, p)
		delete(table.Operations, p)
		delete(table.Uses, p)
		removed = append(removed, p)
	}

	// Drop back-references to deleted positions the sweep did not reach.
	for _, users := range table.Uses {
		for u := range users {
			if !table.Defined(u) {
				delete(users, u)
			}
		}
	}

	return removed
}

// markReachable returns the set of positions the output depends on.
//
// DESIGN CHOICE: Use DFS with explicit stack because:
//   - Avoids recursion depth limits on deeply nested expressions
//   - Visiting order does not matter, only membership
func markReachable(table *ir.Table) map[ir.Position]bool {
	reachable := make(map[ir.Position]bool)
	stack := []ir.Position{table.Output}

	for len(stack) > 0 {
		// Pop from stack
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Already visited?
		if reachable[current] {
			continue
		}
		reachable[current] = true

		if op, ok := table.Operations[current]; ok {
			if !reachable[op.Left] {
				stack = append(stack, op.Left)
			}
			if !reachable[op.Right] {
				stack = append(stack, op.Right)
			}
		}
	}

	return reachable
}
