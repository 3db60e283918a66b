package optimizer

import (
	"github.com/hassan/exprc/internal/ir"
)

// CopyPropagationPass merges operations with identical content.
//
// EXAMPLE:
//
//	Before:  %5 = %3 + %4
//	         %6 = %3 + %4
//	         %7 = %5 * %6
//	After:   %5 = %3 + %4
//	         %7 = %5 * %5      (%6 retired)
//
// Equality is structural: same operands, same operator. x + y and y + x are
// different operations.
type CopyPropagationPass struct{}

// Name returns the name of this optimization pass.
func (c *CopyPropagationPass) Name() string {
	return "CopyPropagation"
}

// Run executes copy propagation on the given table.
func (c *CopyPropagationPass) Run(table *ir.Table) (Result, error) {
	return Result{Rewrites: PropagateCopies(table)}, nil
}

// PropagateCopies redirects every operation to the first operation with the
// same content and returns the rewrites made.
//
// ALGORITHM:
//  1. Snapshot the operation positions in ascending order
//  2. For each live record, look its current content up in the map of
//     content seen so far
//  3. If found, Replace the record with the earlier position; otherwise
//     remember it
//
// Operands always have lower positions than their users, so by the time a
// record is visited every rewrite that could patch its operands has been
// applied. Duplicates that only become equal through such patches are
// merged in the same run, which makes a second run a no-op.
func PropagateCopies(table *ir.Table) []ir.Rewrite {
	var rewrites []ir.Rewrite
	first := make(map[ir.Operation]ir.Position)

	for _, p := range table.OperationPositions() {
		if table.Retired(p) {
			continue
		}
		op := table.Operations[p]
		if canonical, ok := first[op]; ok {
			table.Replace(p, canonical)
			rewrites = append(rewrites, ir.Rewrite{Old: p, New: canonical})
			continue
		}
		first[op] = p
	}

	return rewrites
}
