// Package lexer turns the text of an arithmetic expression into the stream of
// tokens consumed by the parser.
package lexer

import "strconv"

// Position is a location in the source text.
//
// Line and Column are 1-based and count runes, so they match what an editor
// shows. Offset is the 0-based byte offset into the source, which is what the
// debug dump reports for each token.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// String returns the position as "filename:line:column".
func (p Position) String() string {
	return p.Filename + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether the position carries a line number.
// The zero Position is invalid.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before reports whether p comes before other in the source.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// Span is a half-open range of source text [Start, End).
type Span struct {
	Start Position
	End   Position
}

// String returns "filename:line:col-col" for single-line spans and the full
// form otherwise.
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return s.Start.String() + "-" + strconv.Itoa(s.End.Column)
	}
	return s.Start.String() + "-" + strconv.Itoa(s.End.Line) + ":" + strconv.Itoa(s.End.Column)
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	if s.End.Before(s.Start) {
		return 0
	}
	return s.End.Offset - s.Start.Offset
}
