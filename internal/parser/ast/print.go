package ast

import (
	"strconv"
	"strings"
)

// String renders expr fully parenthesized, e.g. "(1 + (2 * x))". Unary minus
// is written "(-x)". A group keeps its own brackets, so "(1 + 2)" in the
// source prints as "((1 + 2))".
func String(expr Expr) string {
	var b strings.Builder
	// printer never fails.
	_, _ = Walk[struct{}](expr, &printer{b: &b})
	return b.String()
}

type printer struct {
	b *strings.Builder
}

func (p *printer) VisitBinaryExpr(expr *BinaryExpr) (struct{}, error) {
	p.b.WriteByte('(')
	Walk[struct{}](expr.Left, p)
	p.b.WriteByte(' ')
	p.b.WriteString(expr.Operator.Lexeme)
	p.b.WriteByte(' ')
	Walk[struct{}](expr.Right, p)
	p.b.WriteByte(')')
	return struct{}{}, nil
}

func (p *printer) VisitUnaryExpr(expr *UnaryExpr) (struct{}, error) {
	p.b.WriteByte('(')
	p.b.WriteString(expr.Operator.Lexeme)
	Walk[struct{}](expr.Operand, p)
	p.b.WriteByte(')')
	return struct{}{}, nil
}

func (p *printer) VisitGroupingExpr(expr *GroupingExpr) (struct{}, error) {
	p.b.WriteByte('(')
	Walk[struct{}](expr.Inner, p)
	p.b.WriteByte(')')
	return struct{}{}, nil
}

func (p *printer) VisitNumberExpr(expr *NumberExpr) (struct{}, error) {
	p.b.WriteString(strconv.FormatFloat(expr.Value, 'f', -1, 64))
	return struct{}{}, nil
}

func (p *printer) VisitVariableExpr(expr *VariableExpr) (struct{}, error) {
	p.b.WriteString(expr.Name)
	return struct{}{}, nil
}

// Tree converts expr into nested maps for the debug dump. Every map has a
// "type" key naming the node kind; operators are reported by token type.
func Tree(expr Expr) map[string]any {
	m, _ := Walk[map[string]any](expr, treeBuilder{})
	return m
}

type treeBuilder struct{}

func (t treeBuilder) VisitBinaryExpr(expr *BinaryExpr) (map[string]any, error) {
	return map[string]any{
		"type":       "binary",
		"left":       Tree(expr.Left),
		"token_type": expr.Operator.Type.String(),
		"right":      Tree(expr.Right),
	}, nil
}

func (t treeBuilder) VisitUnaryExpr(expr *UnaryExpr) (map[string]any, error) {
	return map[string]any{
		"type":       "unary",
		"token_type": expr.Operator.Type.String(),
		"expr":       Tree(expr.Operand),
	}, nil
}

func (t treeBuilder) VisitGroupingExpr(expr *GroupingExpr) (map[string]any, error) {
	return map[string]any{
		"type": "grouping",
		"expr": Tree(expr.Inner),
	}, nil
}

func (t treeBuilder) VisitNumberExpr(expr *NumberExpr) (map[string]any, error) {
	return map[string]any{
		"type":  "number",
		"value": expr.Value,
	}, nil
}

func (t treeBuilder) VisitVariableExpr(expr *VariableExpr) (map[string]any, error) {
	return map[string]any{
		"type":   "variable",
		"lexeme": expr.Name,
	}, nil
}
