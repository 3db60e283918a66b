// Package ir implements the value table that expressions are compiled into.
//
// The table is a flat def-use graph in static single assignment form. Every
// value (a literal, a variable read or an arithmetic operation) is defined
// exactly once and named by a Position. Operations refer to their operands
// by Position only, so rewriting the graph means updating integers in maps,
// never pointers.
//
// EXAMPLE:
//
//	Source:  a + 0 * b
//	Table:   %3 = a
//	         %4 = b
//	         %5 = %1 * %4
//	         %6 = %3 + %5
//	         output = %6
//
// Positions 0, 1 and 2 are reserved for the constants -1, 0 and 1 in every
// table. The optimizer uses them as anchors for algebraic identities, and the
// builder compiles unary minus into a multiplication by position 0.
package ir

import (
	"strconv"
)

// Position names one value definition in a Table.
type Position uint64

// Reserved positions, present in every fresh table.
const (
	MinusOne Position = 0 // the constant -1
	Zero     Position = 1 // the constant 0
	One      Position = 2 // the constant 1

	// FirstUser is the first position handed out for user values.
	FirstUser Position = 3
)

// String returns the position in dump notation, e.g. "%3".
func (p Position) String() string {
	return "%" + strconv.FormatUint(uint64(p), 10)
}

// Operator is the arithmetic operator of an Operation.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
)

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// Apply computes left op right with IEEE 754 semantics. Division by zero
// yields an infinity or NaN.
func (op Operator) Apply(left, right float64) float64 {
	switch op {
	case OpAdd:
		return left + right
	case OpSub:
		return left - right
	case OpMul:
		return left * right
	case OpDiv:
		return left / right
	default:
		panic("ir: unknown operator " + strconv.Itoa(int(op)))
	}
}

// Operation is a binary operation record. Operations are compared
// structurally, so an Operation can be used as a map key to find duplicates.
type Operation struct {
	Left  Position
	Op    Operator
	Right Position
}

// String returns "%L op %R".
func (o Operation) String() string {
	return o.Left.String() + " " + o.Op.String() + " " + o.Right.String()
}

// Rewrite records that every use of Old was redirected to New.
type Rewrite struct {
	Old Position
	New Position
}

func (r Rewrite) String() string {
	return r.Old.String() + " -> " + r.New.String()
}
