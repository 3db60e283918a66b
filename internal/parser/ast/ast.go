// Package ast defines the syntax tree of the expression language.
//
// The tree is closed: Expr has an unexported marker method, so only the node
// types in this package implement it. Operations over the tree are written as
// a Visitor and run with Walk, which type-switches over every node kind.
// Adding a node kind means adding a method to Visitor, which breaks every
// visitor until it handles the new kind.
package ast

import (
	"fmt"

	"github.com/hassan/exprc/internal/lexer"
)

// Node is implemented by every tree node. Every node reports its position
// for error messages.
type Node interface {
	// Pos returns the starting position of this node in the source.
	Pos() lexer.Position

	// End returns the position just past the node.
	End() lexer.Position
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Visitor is an operation over expressions producing a T.
//
// Visitors recurse by calling Walk on child nodes, so each visitor decides
// its own evaluation order.
type Visitor[T any] interface {
	VisitBinaryExpr(expr *BinaryExpr) (T, error)
	VisitUnaryExpr(expr *UnaryExpr) (T, error)
	VisitGroupingExpr(expr *GroupingExpr) (T, error)
	VisitNumberExpr(expr *NumberExpr) (T, error)
	VisitVariableExpr(expr *VariableExpr) (T, error)
}

// Walk dispatches expr to the matching method of v.
func Walk[T any](expr Expr, v Visitor[T]) (T, error) {
	switch e := expr.(type) {
	case *BinaryExpr:
		return v.VisitBinaryExpr(e)
	case *UnaryExpr:
		return v.VisitUnaryExpr(e)
	case *GroupingExpr:
		return v.VisitGroupingExpr(e)
	case *NumberExpr:
		return v.VisitNumberExpr(e)
	case *VariableExpr:
		return v.VisitVariableExpr(e)
	default:
		// Unreachable while Expr stays sealed.
		panic(fmt.Sprintf("ast: unexpected node %T", expr))
	}
}
