package parser

import "fmt"

// SyntaxError is a parse-time failure naming the offending token's position
// and a short human message.
type SyntaxError struct {
	Line    int32
	Column  int
	Message string
}

func CreateSyntaxError(line int32, column int, message string) SyntaxError {
	return SyntaxError{
		Line:    line,
		Column:  column,
		Message: message,
	}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("💥 syntax error: line %d, column %d - %s", e.Line, e.Column, e.Message)
}
