package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Lexer scans an expression into tokens.
//
// The whole source is held in memory; an expression is a single line of
// input in practice, but line tracking still follows embedded newlines so
// that positions in error messages stay correct.
type Lexer struct {
	source   string
	filename string

	// start is the byte offset of the token being scanned, current the
	// offset of the next unread byte.
	start   int
	current int

	line      int
	lineStart int
}

// New creates a Lexer for source. filename is only used in positions.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
	}
}

// NextToken returns the next token. At the end of input it returns a
// TokenEOF token, and keeps returning it on further calls.
//
// An unknown character yields a TokenInvalid token and a *LiteralError.
// The offending character is consumed so that a caller may keep scanning.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	l.start = l.current

	if l.isAtEnd() {
		return l.makeToken(TokenEOF), nil
	}

	ch := l.advance()
	switch {
	case isAlpha(ch):
		return l.scanVariable(), nil
	case isDigit(ch):
		return l.scanNumber(), nil
	}
	if tt, ok := operators[ch]; ok {
		return l.makeToken(tt), nil
	}
	return l.makeToken(TokenInvalid), &LiteralError{
		Source:   l.source,
		Literal:  ch,
		Position: l.currentPosition(),
	}
}

// ScanTokens scans the whole source. The returned slice always ends with
// a TokenEOF token when err is nil. Scanning stops at the first error.
func (l *Lexer) ScanTokens() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) advance() rune {
	ch, size := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += size
	return ch
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return ch
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\r', '\t':
			l.advance()
		case '\n':
			l.advance()
			l.line++
			l.lineStart = l.current
		default:
			return
		}
	}
}

// scanVariable scans the rest of a variable name. The first letter has
// already been consumed.
func (l *Lexer) scanVariable() Token {
	for !l.isAtEnd() && (isAlpha(l.peek()) || isDigit(l.peek())) {
		l.advance()
	}
	return l.makeToken(TokenVariable)
}

// scanNumber scans digits with an optional fractional part. A trailing dot
// with no digits after it ("5.") is part of the number.
func (l *Lexer) scanNumber() Token {
	for !l.isAtEnd() && isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' {
		l.advance()
		for !l.isAtEnd() && isDigit(l.peek()) {
			l.advance()
		}
	}
	return l.makeToken(TokenNumber)
}

func (l *Lexer) makeToken(tt TokenType) Token {
	return Token{
		Type:     tt,
		Lexeme:   l.source[l.start:l.current],
		Position: l.currentPosition(),
		Length:   l.current - l.start,
	}
}

// currentPosition returns the position of the token being scanned.
func (l *Lexer) currentPosition() Position {
	return Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   utf8.RuneCountInString(l.source[l.lineStart:l.start]) + 1,
		Offset:   l.start,
	}
}

func isAlpha(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// Terminal escape sequences used by Highlight.
const (
	highlightStart = "\033[1;31m"
	highlightEnd   = "\033[0m"
)

// LiteralError reports a character that starts no token.
type LiteralError struct {
	// Source is the complete input being scanned.
	Source string
	// Literal is the offending character.
	Literal rune
	// Position is where Literal appears.
	Position Position
}

func (err *LiteralError) Error() string {
	return fmt.Sprintf("%s: unknown literal %q", err.Position, err.Literal)
}

// Pos returns the byte offset of the offending character.
func (err *LiteralError) Pos() int {
	return err.Position.Offset
}

// Highlight renders the source line holding the error with the offending
// character marked and a caret line under it. With color set, the marks use
// ANSI escape sequences.
func (err *LiteralError) Highlight(color bool) string {
	start, end := "", ""
	if color {
		start, end = highlightStart, highlightEnd
	}

	line := err.Source
	lineOffset := 0
	if i := strings.LastIndexByte(err.Source[:err.Position.Offset], '\n'); i >= 0 {
		lineOffset = i + 1
		line = err.Source[lineOffset:]
	}
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	at := err.Position.Offset - lineOffset
	size := utf8.RuneLen(err.Literal)
	if size < 0 || at+size > len(line) {
		size = 1
	}

	var b strings.Builder
	b.WriteString(line[:at])
	b.WriteString(start)
	b.WriteString(line[at : at+size])
	b.WriteString(end)
	b.WriteString(line[at+size:])
	b.WriteByte('\n')
	b.WriteString(start)
	b.WriteString(strings.Repeat("-", err.Position.Column-1))
	b.WriteString("^\n")
	fmt.Fprintf(&b, "Unknown literal at position %d", err.Position.Offset)
	b.WriteString(end)
	b.WriteByte('\n')
	return b.String()
}
