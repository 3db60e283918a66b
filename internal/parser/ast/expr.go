package ast

import (
	"github.com/hassan/exprc/internal/lexer"
)

// BinaryExpr is an infix operation: left op right.
type BinaryExpr struct {
	Left     Expr
	Operator lexer.Token // +, -, * or /
	Right    Expr
}

func (b *BinaryExpr) Pos() lexer.Position { return b.Left.Pos() }
func (b *BinaryExpr) End() lexer.Position { return b.Right.End() }
func (b *BinaryExpr) exprNode()           {}

// UnaryExpr is a prefix operation. The parser only produces unary minus.
type UnaryExpr struct {
	Operator lexer.Token
	Operand  Expr
}

func (u *UnaryExpr) Pos() lexer.Position { return u.Operator.Position }
func (u *UnaryExpr) End() lexer.Position { return u.Operand.End() }
func (u *UnaryExpr) exprNode()           {}

// GroupingExpr is a parenthesized expression. It keeps both brackets so that
// positions cover the whole group.
type GroupingExpr struct {
	LeftParen  lexer.Token
	Inner      Expr
	RightParen lexer.Token
}

func (g *GroupingExpr) Pos() lexer.Position { return g.LeftParen.Position }
func (g *GroupingExpr) End() lexer.Position { return g.RightParen.Span().End }
func (g *GroupingExpr) exprNode()           {}

// NumberExpr is a numeric literal. Value is the parsed lexeme.
type NumberExpr struct {
	Token lexer.Token
	Value float64
}

func (n *NumberExpr) Pos() lexer.Position { return n.Token.Position }
func (n *NumberExpr) End() lexer.Position { return n.Token.Span().End }
func (n *NumberExpr) exprNode()           {}

// VariableExpr is a reference to a free variable.
type VariableExpr struct {
	Token lexer.Token
	Name  string
}

func (v *VariableExpr) Pos() lexer.Position { return v.Token.Position }
func (v *VariableExpr) End() lexer.Position { return v.Token.Span().End }
func (v *VariableExpr) exprNode()           {}
