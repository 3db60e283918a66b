package lexer

// Replay hands out tokens that were already scanned, so a token stream can
// be both kept and parsed without scanning the source twice.
type Replay struct {
	tokens []Token
	next   int
}

// NewReplay creates a Replay over tokens, usually the result of ScanTokens.
func NewReplay(tokens []Token) *Replay {
	return &Replay{tokens: tokens}
}

// NextToken returns the next token. Once the tokens are exhausted it
// returns an EOF token placed after the last one, like Lexer.NextToken.
func (r *Replay) NextToken() (Token, error) {
	if r.next < len(r.tokens) {
		tok := r.tokens[r.next]
		r.next++
		return tok, nil
	}
	eof := Token{Type: TokenEOF}
	if n := len(r.tokens); n > 0 {
		last := r.tokens[n-1]
		eof.Position = last.Position
		eof.Position.Offset += last.Length
		eof.Position.Column += len([]rune(last.Lexeme))
	}
	return eof, nil
}
