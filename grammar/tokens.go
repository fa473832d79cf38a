package grammar

// TokenStream is a cursor-navigable view over the token slice of one
// source file. It also gives access to verbatim source slices, which the
// parser uses for raw-tail capture.
type TokenStream struct {
	src  []byte
	toks []Token
	pos  int
}

// NewTokenStream wraps source bytes and their tokens into a cursor.
func NewTokenStream(src []byte, toks []Token) *TokenStream {
	return &TokenStream{src: src, toks: toks}
}

// Peek returns the current token without consuming it.
func (ts *TokenStream) Peek() Token {
	return ts.PeekAt(0)
}

// PeekAt returns the token n positions ahead without consuming anything.
func (ts *TokenStream) PeekAt(n int) Token {
	if ts.pos+n >= len(ts.toks) {
		return ts.toks[len(ts.toks)-1] // EOF
	}
	return ts.toks[ts.pos+n]
}

// Next consumes and returns the current token. At the end of input it
// keeps returning EOF.
func (ts *TokenStream) Next() Token {
	t := ts.Peek()
	if ts.pos < len(ts.toks)-1 {
		ts.pos++
	}
	return t
}

// AtEOF is a predicate: has the cursor reached the end of input?
func (ts *TokenStream) AtEOF() bool {
	return ts.Peek().Kind == EOF
}

// Mark remembers the cursor position for a later ResetTo.
func (ts *TokenStream) Mark() int {
	return ts.pos
}

// ResetTo rewinds the cursor to a position obtained from Mark.
func (ts *TokenStream) ResetTo(mark int) {
	ts.pos = mark
}

// Source returns the verbatim source slice for a byte span.
func (ts *TokenStream) Source(start, end uint64) string {
	if start > end || end > uint64(len(ts.src)) {
		return ""
	}
	return string(ts.src[start:end])
}
