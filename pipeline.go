package main

import (
	"fmt"
	"os"

	"github.com/theY4Kman/yaksh/asm"
	"github.com/theY4Kman/yaksh/asmgen"
	"github.com/theY4Kman/yaksh/ast"
	"github.com/theY4Kman/yaksh/lexer"
	"github.com/theY4Kman/yaksh/parser"
)

// parseSource runs a source string through the lexer and parser.
func parseSource(source string) (ast.Script, []error) {
	tokens, err := lexer.CreateLexer(source).Scan()
	if err != nil {
		return ast.Script{}, []error{err}
	}
	return parser.Make(tokens).Parse()
}

// generateAsm runs the front end and returns the textual assembly.
func generateAsm(source string) (string, []error) {
	script, errs := parseSource(source)
	if len(errs) > 0 {
		return "", errs
	}
	text, err := asmgen.Generate(script)
	if err != nil {
		return "", []error{err}
	}
	return text, nil
}

// compileSource runs the full compile pipeline and returns the binary
// image.
func compileSource(source string) ([]byte, []error) {
	text, errs := generateAsm(source)
	if len(errs) > 0 {
		return nil, errs
	}
	img, err := asm.Assemble(text)
	if err != nil {
		return nil, []error{err}
	}
	return img, nil
}

func reportErrors(errs []error) {
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}
