package parser

import (
	"github.com/hassan/exprc/internal/lexer"
)

// Precedence is the binding strength of an operator. Higher binds tighter.
//
// From lowest to highest:
//  1. Term: + -
//  2. Factor: * /
//  3. Unary: prefix -
//
// All binary operators are left-associative.
type Precedence int

const (
	PrecNone   Precedence = iota
	PrecTerm              // +, -
	PrecFactor            // *, /
	PrecUnary             // prefix -
)

// getPrecedence returns the infix precedence of a token type. Tokens that
// cannot continue an expression get PrecNone, which ends the Pratt loop.
func getPrecedence(tokenType lexer.TokenType) Precedence {
	switch tokenType {
	case lexer.TokenAdd, lexer.TokenSubtract:
		return PrecTerm
	case lexer.TokenMultiply, lexer.TokenDelimiter:
		return PrecFactor
	default:
		return PrecNone
	}
}
