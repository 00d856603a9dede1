package asm

import "fmt"

// AssembleError is a fatal failure encountered while turning textual
// assembly into a binary image: an unknown opcode mnemonic, a malformed
// constant, a reference to an undefined label, or a label redefined
// within the same scope.
type AssembleError struct {
	Line    int
	Message string
}

func (e AssembleError) Error() string {
	return fmt.Sprintf("💥 assemble error: line %d - %s", e.Line, e.Message)
}
