package ir

import (
	"fmt"
)

// Verify checks that the table is well-formed.
// Returns a list of errors found.
//
// CHECKS:
//   - no position is defined twice (constant, variable, operation)
//   - every position is below the allocation counter
//   - every operand of an operation is defined
//   - Uses[p] is exactly the set of operations referring to p
//   - every definition has a Uses entry, except retired operations, which
//     nothing may refer to
//   - Output is defined and not retired
func (t *Table) Verify() []error {
	errors := make([]error, 0)

	kinds := make(map[Position]int)
	for p := range t.Constants {
		kinds[p]++
	}
	for p := range t.Variables {
		kinds[p]++
	}
	for p := range t.Operations {
		kinds[p]++
	}
	for _, p := range SortedPositions(kinds) {
		if kinds[p] > 1 {
			errors = append(errors, fmt.Errorf("%s is defined %d times", p, kinds[p]))
		}
		if p >= t.next {
			errors = append(errors, fmt.Errorf("%s is not below the allocation counter %d", p, t.next))
		}
	}

	// Rebuild the users of every position from the operation records.
	want := make(map[Position]map[Position]struct{})
	for _, q := range t.OperationPositions() {
		op := t.Operations[q]
		for _, operand := range []Position{op.Left, op.Right} {
			if !t.Defined(operand) {
				errors = append(errors, fmt.Errorf("%s refers to undefined %s", q, operand))
			}
			if want[operand] == nil {
				want[operand] = make(map[Position]struct{})
			}
			want[operand][q] = struct{}{}
		}
	}

	for _, p := range SortedPositions(t.Uses) {
		if !t.Defined(p) {
			errors = append(errors, fmt.Errorf("uses entry for undefined %s", p))
			continue
		}
		for u := range t.Uses[p] {
			if _, ok := want[p][u]; !ok {
				errors = append(errors, fmt.Errorf("uses of %s lists %s, which does not refer to it", p, u))
			}
		}
		for u := range want[p] {
			if _, ok := t.Uses[p][u]; !ok {
				errors = append(errors, fmt.Errorf("%s refers to %s but is missing from its uses", u, p))
			}
		}
	}

	for _, p := range t.Positions() {
		if _, ok := t.Uses[p]; ok {
			continue
		}
		if !t.Retired(p) {
			errors = append(errors, fmt.Errorf("%s has no uses entry", p))
			continue
		}
		if len(want[p]) > 0 {
			errors = append(errors, fmt.Errorf("retired %s is still referred to by %v", p, SortedPositions(want[p])))
		}
	}

	if !t.Defined(t.Output) {
		errors = append(errors, fmt.Errorf("output %s is not defined", t.Output))
	} else if t.Retired(t.Output) {
		errors = append(errors, fmt.Errorf("output %s is retired", t.Output))
	}

	return errors
}
