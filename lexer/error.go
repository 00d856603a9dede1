package lexer

import "fmt"

// LexError is a fatal scan-time failure: an unterminated string literal
// or a malformed numeric literal. Unknown characters are not fatal; they
// flow downstream as UNKNOWN tokens so the parser can report position.
type LexError struct {
	Line    int32
	Message string
}

func (e LexError) Error() string {
	return fmt.Sprintf("💥 lex error: line %d - %s", e.Line, e.Message)
}
