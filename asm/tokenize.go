package asm

import (
	"strings"
	"text/scanner"
)

// instrLine is one parsed line of textual assembly: an optional leading
// label, the opcode mnemonic, and the raw (unparsed) argument text, if
// any.
type instrLine struct {
	Num      int
	Label    string
	Mnemonic string
	Arg      string
}

// tokenizeLine recognizes the "[label:] MNEMONIC [arg]" shape of one
// assembly line. A text/scanner.Scanner is used for the structural part
// (telling a label's trailing ':' apart from the mnemonic itself); the
// argument, which may itself be an arbitrarily-quoted string constant, is
// taken as the raw remainder of the line rather than re-tokenized.
func tokenizeLine(line string) (instrLine, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(line))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	s.Error = func(*scanner.Scanner, string) {} // malformed content surfaces as an unknown mnemonic below

	tok := s.Scan()
	if tok == scanner.EOF {
		return instrLine{}, nil
	}
	first := s.TokenText()

	var label string
	if s.Peek() == ':' {
		s.Next() // consume ':'
		label = first
		tok = s.Scan()
		if tok == scanner.EOF {
			return instrLine{}, AssembleError{Message: "label with no instruction"}
		}
		first = s.TokenText()
	}

	mnemonic := first
	arg := strings.TrimSpace(line[s.Pos().Offset:])
	return instrLine{Label: label, Mnemonic: mnemonic, Arg: arg}, nil
}

// splitLines breaks the assembly text into its non-blank logical lines.
func splitLines(text string) ([]instrLine, error) {
	var out []instrLine
	for i, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		line, err := tokenizeLine(trimmed)
		if err != nil {
			return nil, err
		}
		if line.Mnemonic == "" {
			continue
		}
		line.Num = i + 1
		out = append(out, line)
	}
	return out, nil
}
