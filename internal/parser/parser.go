// Package parser builds the syntax tree of an arithmetic expression.
//
// Grammar:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = "-" unary | primary
//	primary = number | variable | "(" expr ")"
//
// Binary operators are parsed with precedence climbing (Pratt parsing) over
// the table in precedence.go. Parsing stops at the first error.
package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hassan/exprc/internal/lexer"
	"github.com/hassan/exprc/internal/parser/ast"
)

// TokenSource yields tokens one at a time. *lexer.Lexer and *lexer.Replay
// implement it.
type TokenSource interface {
	NextToken() (lexer.Token, error)
}

// Parser converts a stream of tokens into a syntax tree.
type Parser struct {
	tokens TokenSource

	// current is the token being examined, previous the last one consumed.
	current  lexer.Token
	previous lexer.Token

	errors []error

	// panicMode is set by the first error. Later errors are dropped since
	// they are usually consequences of the first one.
	panicMode bool
}

// bailout unwinds the recursive descent after an error. Parse recovers it.
type bailout struct{}

// New creates a parser reading tokens from src.
func New(src TokenSource) *Parser {
	p := &Parser{tokens: src}
	p.advance()
	return p
}

// Parse parses one complete expression. The whole input must be consumed;
// trailing tokens are an error.
//
// On failure the tree is nil and errors holds the first error found. Lexer
// errors are passed through unchanged, so callers can inspect them with
// errors.As.
func (p *Parser) Parse() (expr ast.Expr, errs []error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			expr, errs = nil, p.errors
		}
	}()

	if p.panicMode {
		return nil, p.errors
	}

	expr = p.parseExpression()
	if !p.isAtEnd() {
		p.fail(fmt.Sprintf("unexpected %s after expression", describe(p.current)))
	}
	return expr, nil
}

func (p *Parser) parseExpression() ast.Expr {
	return p.parsePrecedence(PrecTerm)
}

// parsePrecedence parses an expression whose operators bind at least as
// tightly as precedence.
func (p *Parser) parsePrecedence(precedence Precedence) ast.Expr {
	left := p.parsePrefix()

	for precedence <= getPrecedence(p.current.Type) {
		left = p.parseBinary(left)
	}

	return left
}

// parsePrefix parses the tokens that can start an expression.
func (p *Parser) parsePrefix() ast.Expr {
	switch p.current.Type {
	case lexer.TokenNumber:
		return p.parseNumber()
	case lexer.TokenVariable:
		return p.parseVariable()
	case lexer.TokenOpenBracket:
		return p.parseGrouping()
	case lexer.TokenSubtract:
		return p.parseUnary()
	default:
		p.fail(fmt.Sprintf("expected expression, got %s", describe(p.current)))
		return nil
	}
}

func (p *Parser) parseNumber() ast.Expr {
	token := p.current

	value, err := strconv.ParseFloat(token.Lexeme, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			p.fail(fmt.Sprintf("number literal %s is out of range", token.Lexeme))
		}
		p.fail(fmt.Sprintf("invalid number literal: %s", token.Lexeme))
	}
	p.advance()

	return &ast.NumberExpr{
		Token: token,
		Value: value,
	}
}

func (p *Parser) parseVariable() ast.Expr {
	token := p.current
	p.advance()

	return &ast.VariableExpr{
		Token: token,
		Name:  token.Lexeme,
	}
}

func (p *Parser) parseGrouping() ast.Expr {
	leftParen := p.current
	p.advance()

	inner := p.parseExpression()

	p.consume(lexer.TokenCloseBracket, "expected ')' after expression")
	rightParen := p.previous

	return &ast.GroupingExpr{
		LeftParen:  leftParen,
		Inner:      inner,
		RightParen: rightParen,
	}
}

func (p *Parser) parseUnary() ast.Expr {
	operator := p.current
	p.advance()

	operand := p.parsePrecedence(PrecUnary)

	return &ast.UnaryExpr{
		Operator: operator,
		Operand:  operand,
	}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	operator := p.current
	precedence := getPrecedence(operator.Type)
	p.advance()

	right := p.parsePrecedence(precedence + 1)

	return &ast.BinaryExpr{
		Left:     left,
		Operator: operator,
		Right:    right,
	}
}

// Helper methods

// advance moves to the next token. A lexer error is recorded as is and the
// current token becomes TokenInvalid, which no grammar rule accepts.
func (p *Parser) advance() {
	p.previous = p.current
	token, err := p.tokens.NextToken()
	if err != nil {
		if !p.panicMode {
			p.panicMode = true
			p.errors = append(p.errors, err)
		}
		token.Type = lexer.TokenInvalid
	}
	p.current = token
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

func (p *Parser) consume(tokenType lexer.TokenType, message string) {
	if p.check(tokenType) {
		p.advance()
		return
	}
	p.fail(fmt.Sprintf("%s, got %s", message, describe(p.current)))
}

func (p *Parser) isAtEnd() bool {
	return p.current.Type == lexer.TokenEOF
}

// fail records a positional error at the current token and abandons the
// parse.
func (p *Parser) fail(message string) {
	if !p.panicMode {
		p.panicMode = true
		p.errors = append(p.errors, fmt.Errorf("%s: %s", p.current.Position.String(), message))
	}
	panic(bailout{})
}

// describe names a token for error messages.
func describe(token lexer.Token) string {
	switch token.Type {
	case lexer.TokenEOF:
		return "end of input"
	case lexer.TokenInvalid:
		return "invalid token"
	default:
		return strconv.Quote(token.Lexeme)
	}
}
