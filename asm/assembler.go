// Package asm turns the textual assembly asmgen produces into the binary
// image the loader reads: MAGIC, a deduplicated constants table, the
// function bodies, and the top-level code.
//
// Jump targets are encoded as u16 byte offsets SCOPED PER FUNCTION (and,
// symmetrically, per the top-level code section): each offset is relative
// to the start of its own enclosing stream, not to the shared output
// buffer. This lets the loader decode each function independently and
// translate its jump targets into that function's own instruction-index
// array without first flattening every function into one global byte
// space.
package asm

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theY4Kman/yaksh/bytecode"
)

type scope struct {
	origin int // absolute byte position this scope's offsets are relative to
	labels map[string]int
	rplc   map[string][]int // label name -> absolute positions of its u16 placeholders
}

func newScope(origin int) *scope {
	return &scope{origin: origin, labels: map[string]int{}, rplc: map[string][]int{}}
}

type assembler struct {
	out    bytes.Buffer
	consts [][]byte
	cTable map[string]int

	scopes         []*scope
	topLevelOrigin int
}

// Assemble compiles textual assembly into a binary .ykb image.
func Assemble(text string) ([]byte, error) {
	lines, err := splitLines(text)
	if err != nil {
		return nil, err
	}

	a := &assembler{
		cTable: map[string]int{},
		scopes: []*scope{newScope(0)},
	}
	for _, line := range lines {
		if err := a.assembleLine(line); err != nil {
			return nil, err
		}
	}
	if len(a.scopes) != 1 {
		return nil, AssembleError{Message: "unterminated PROC (missing MAKE_FUNCTION)"}
	}
	top := a.scopes[0]
	top.origin = a.topLevelOrigin
	if err := a.backpatch(top); err != nil {
		return nil, err
	}

	var final bytes.Buffer
	final.Write(bytecode.MAGIC[:])

	var constsBuf bytes.Buffer
	for _, c := range a.consts {
		constsBuf.Write(c)
	}
	lenBuf := make([]byte, 4)
	bytecode.PutUint32(lenBuf, uint32(constsBuf.Len()))
	final.Write(lenBuf)
	final.Write(constsBuf.Bytes())
	final.Write(a.out.Bytes())

	return final.Bytes(), nil
}

func (a *assembler) curScope() *scope { return a.scopes[len(a.scopes)-1] }

func (a *assembler) assembleLine(line instrLine) error {
	cur := a.curScope()
	if line.Label != "" {
		if c := line.Label[0]; !(c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return AssembleError{Line: line.Num, Message: fmt.Sprintf("invalid label name %q", line.Label)}
		}
		if _, exists := cur.labels[line.Label]; exists {
			return AssembleError{Line: line.Num, Message: fmt.Sprintf("label %q already exists in this scope", line.Label)}
		}
		cur.labels[line.Label] = a.out.Len()
	}

	op, ok := bytecode.Lookup(strings.ToUpper(line.Mnemonic))
	if !ok {
		return AssembleError{Line: line.Num, Message: fmt.Sprintf("unknown instruction %q", line.Mnemonic)}
	}
	def, _ := bytecode.Get(op)
	a.out.WriteByte(byte(op))

	switch def.OperandWidth {
	case bytecode.NoOperand:
		if line.Arg != "" {
			return AssembleError{Line: line.Num, Message: fmt.Sprintf("instruction %q takes no parameter", line.Mnemonic)}
		}
		switch op {
		case bytecode.PROC:
			a.scopes = append(a.scopes, newScope(a.out.Len()))
		case bytecode.MAKE_FUNCTION:
			if len(a.scopes) < 2 {
				return AssembleError{Line: line.Num, Message: "MAKE_FUNCTION without a matching PROC"}
			}
			finished := a.scopes[len(a.scopes)-1]
			a.scopes = a.scopes[:len(a.scopes)-1]
			if err := a.backpatch(finished); err != nil {
				return err
			}
			a.topLevelOrigin = a.out.Len()
		}
		return nil

	case bytecode.WordOperand:
		if line.Arg == "" {
			return AssembleError{Line: line.Num, Message: fmt.Sprintf("instruction %q takes one parameter", line.Mnemonic)}
		}
		cur.rplc[line.Arg] = append(cur.rplc[line.Arg], a.out.Len())
		a.out.Write([]byte{0, 0})
		return nil

	default: // ByteOperand
		if line.Arg == "" {
			return AssembleError{Line: line.Num, Message: fmt.Sprintf("instruction %q takes one parameter", line.Mnemonic)}
		}
		var param int
		if op == bytecode.LOAD_CONST {
			idx, err := a.internConst(line.Arg, line.Num)
			if err != nil {
				return err
			}
			param = idx
		} else {
			n, err := strconv.Atoi(line.Arg)
			if err != nil {
				return AssembleError{Line: line.Num, Message: fmt.Sprintf("malformed parameter %q", line.Arg)}
			}
			param = n
		}
		a.out.WriteByte(byte(param))
		return nil
	}
}

func (a *assembler) backpatch(s *scope) error {
	for label, positions := range s.rplc {
		target, ok := s.labels[label]
		if !ok {
			return AssembleError{Message: fmt.Sprintf("unknown label %q", label)}
		}
		rel := target - s.origin
		buf := a.out.Bytes()
		for _, pos := range positions {
			bytecode.PutUint16(buf[pos:pos+2], uint16(rel))
		}
	}
	return nil
}

// internConst parses a LOAD_CONST argument (a quoted string, a float
// containing '.', or an int), packs it per the wire format, and returns
// its (deduplicated) index into the constants table.
func (a *assembler) internConst(arg string, lineNum int) (int, error) {
	packed, err := packConst(arg, lineNum)
	if err != nil {
		return 0, err
	}
	key := string(packed)
	if idx, ok := a.cTable[key]; ok {
		return idx, nil
	}
	idx := len(a.consts)
	a.consts = append(a.consts, packed)
	a.cTable[key] = idx
	return idx, nil
}

func packConst(arg string, lineNum int) ([]byte, error) {
	if len(arg) >= 2 && (arg[0] == '"' || arg[0] == '\'') {
		if arg[len(arg)-1] != arg[0] {
			return nil, AssembleError{Line: lineNum, Message: fmt.Sprintf("malformed string constant: %s", arg)}
		}
		unescaped := strings.ReplaceAll(arg[1:len(arg)-1], `\`+string(arg[0]), string(arg[0]))
		buf := append([]byte{byte(bytecode.ConstString)}, []byte(unescaped)...)
		return append(buf, 0), nil
	}
	if strings.Contains(arg, ".") {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, AssembleError{Line: lineNum, Message: fmt.Sprintf("malformed float constant: %s", arg)}
		}
		buf := make([]byte, 5)
		buf[0] = byte(bytecode.ConstFloat)
		bits := math.Float32bits(float32(f))
		bytecode.PutUint32(buf[1:], bits)
		return buf, nil
	}
	n, err := strconv.ParseInt(arg, 10, 32)
	if err != nil {
		return nil, AssembleError{Line: lineNum, Message: fmt.Sprintf("malformed int constant: %s", arg)}
	}
	buf := make([]byte, 5)
	buf[0] = byte(bytecode.ConstInt)
	bytecode.PutUint32(buf[1:], uint32(int32(n)))
	return buf, nil
}
