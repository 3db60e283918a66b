package lexer

// TokenType is the kind of a token.
type TokenType int

// The token kinds of the expression language. TokenInvalid is only produced
// together with an error from NextToken.
const (
	TokenEOF TokenType = iota
	TokenInvalid

	TokenOpenBracket  // (
	TokenCloseBracket // )

	TokenMultiply  // *
	TokenAdd       // +
	TokenSubtract  // -
	TokenDelimiter // /

	// TokenNumber is a decimal literal: digits with an optional fraction.
	// The lexeme is converted to float64 by the parser.
	TokenNumber

	// TokenVariable is a free variable name: a letter followed by letters
	// and digits.
	TokenVariable
)

// Token is a single lexical token.
type Token struct {
	Type TokenType

	// Lexeme is the source text of the token. It is empty for EOF.
	Lexeme string

	// Position is where the token starts.
	Position Position

	// Length is the length of the lexeme in bytes.
	Length int
}

// String returns "TYPE(lexeme) at file:line:col", for debugging and error
// messages.
func (t Token) String() string {
	return t.Type.String() + "(" + t.Lexeme + ") at " + t.Position.String()
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	end := t.Position
	end.Offset += t.Length
	end.Column += len([]rune(t.Lexeme))
	return Span{Start: t.Position, End: end}
}

// String returns the lower-case name of the token type. These names appear
// in the debug dump.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "eof"
	case TokenInvalid:
		return "invalid"
	case TokenOpenBracket:
		return "open_bracket"
	case TokenCloseBracket:
		return "close_bracket"
	case TokenMultiply:
		return "multiply"
	case TokenAdd:
		return "add"
	case TokenSubtract:
		return "subtract"
	case TokenDelimiter:
		return "delimiter"
	case TokenNumber:
		return "number"
	case TokenVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// IsOperator reports whether the token is one of + - * /.
func (tt TokenType) IsOperator() bool {
	return tt >= TokenMultiply && tt <= TokenDelimiter
}

// IsLiteral reports whether the token is a number or a variable.
func (tt TokenType) IsLiteral() bool {
	return tt == TokenNumber || tt == TokenVariable
}

// operators maps single-character operators and brackets to their types.
var operators = map[rune]TokenType{
	'(': TokenOpenBracket,
	')': TokenCloseBracket,
	'*': TokenMultiply,
	'+': TokenAdd,
	'-': TokenSubtract,
	'/': TokenDelimiter,
}
