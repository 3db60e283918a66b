package ir

import (
	"fmt"

	"github.com/hassan/exprc/internal/lexer"
	"github.com/hassan/exprc/internal/parser/ast"
)

// Builder translates a syntax tree into a value table.
//
// Each node becomes one position, with two exceptions: numeric literals equal
// to an existing constant reuse its position, and groups are transparent.
// Operands are translated before the operation that uses them, left before
// right, so positions are numbered in post-order and every operand position
// is lower than the positions of its users.
type Builder struct {
	// table is the table being built
	table *Table
}

// NewBuilder creates a new IR builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build translates expr into a fresh table whose Output is the root's
// position. On error no table is returned.
func (b *Builder) Build(expr ast.Expr) (*Table, error) {
	b.table = NewTable()
	defer func() { b.table = nil }()

	root, err := ast.Walk[Position](expr, b)
	if err != nil {
		return nil, err
	}
	b.table.Output = root
	return b.table, nil
}

func (b *Builder) VisitNumberExpr(expr *ast.NumberExpr) (Position, error) {
	if p, ok := b.table.LookupConstant(expr.Value); ok {
		return p, nil
	}
	return b.table.AddConstant(expr.Value), nil
}

func (b *Builder) VisitVariableExpr(expr *ast.VariableExpr) (Position, error) {
	return b.table.AddVariable(expr.Name), nil
}

func (b *Builder) VisitGroupingExpr(expr *ast.GroupingExpr) (Position, error) {
	return ast.Walk[Position](expr.Inner, b)
}

func (b *Builder) VisitBinaryExpr(expr *ast.BinaryExpr) (Position, error) {
	left, err := ast.Walk[Position](expr.Left, b)
	if err != nil {
		return 0, err
	}
	right, err := ast.Walk[Position](expr.Right, b)
	if err != nil {
		return 0, err
	}

	// Map token to IR operator
	var op Operator
	switch expr.Operator.Type {
	case lexer.TokenAdd:
		op = OpAdd
	case lexer.TokenSubtract:
		op = OpSub
	case lexer.TokenMultiply:
		op = OpMul
	case lexer.TokenDelimiter:
		op = OpDiv
	default:
		return 0, &UnsupportedOperatorError{Token: expr.Operator}
	}

	return b.table.AddOperation(left, op, right), nil
}

// VisitUnaryExpr compiles -E as E * -1, so that negation is simplified by
// the same rules as multiplication.
func (b *Builder) VisitUnaryExpr(expr *ast.UnaryExpr) (Position, error) {
	operand, err := ast.Walk[Position](expr.Operand, b)
	if err != nil {
		return 0, err
	}
	if expr.Operator.Type != lexer.TokenSubtract {
		return 0, &UnsupportedOperatorError{Token: expr.Operator, Unary: true}
	}
	return b.table.AddOperation(operand, OpMul, MinusOne), nil
}

// UnsupportedOperatorError reports an operator token that has no arithmetic
// meaning in its position.
type UnsupportedOperatorError struct {
	Token lexer.Token
	Unary bool
}

func (e *UnsupportedOperatorError) Error() string {
	kind := "binary"
	if e.Unary {
		kind = "unary"
	}
	return fmt.Sprintf("%s: unsupported %s operator %s", e.Token.Position, kind, e.Token.Type)
}
