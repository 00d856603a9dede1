package vm

import (
	"bytes"
	"fmt"
	"math"

	"github.com/theY4Kman/yaksh/bytecode"
)

// Instr is one decoded instruction. For jump opcodes, Arg has already
// been translated from a byte offset within the enclosing section to the
// index of the target instruction in that section's decoded slice, so
// dispatch is a plain index assignment at runtime.
type Instr struct {
	Op  bytecode.Op
	Arg int
}

// Program is the immutable result of decoding one binary image.
type Program struct {
	Consts []any
	Funcs  [][]Instr
	Top    []Instr
}

// Load decodes a binary image: magic stamp, constants table, the
// PROC/MAKE_FUNCTION-bracketed function bodies, then the top-level code
// running to EOF.
func Load(image []byte) (*Program, error) {
	if len(image) < 8 {
		return nil, LoadError{Message: "image truncated before the constants section"}
	}
	if !bytes.Equal(image[:4], bytecode.MAGIC[:]) {
		return nil, LoadError{Message: fmt.Sprintf("bad magic %q", image[:4])}
	}
	constsLen := int(bytecode.Uint32(image[4:8]))
	if len(image) < 8+constsLen {
		return nil, LoadError{Message: "constants section shorter than its declared length"}
	}
	consts, err := decodeConsts(image[8 : 8+constsLen])
	if err != nil {
		return nil, err
	}

	prog := &Program{Consts: consts}
	code := image[8+constsLen:]
	pos := 0
	for pos < len(code) && bytecode.Op(code[pos]) == bytecode.PROC {
		pos++ // consume the PROC marker; body offsets start just past it
		body, next, err := decodeSection(code, pos, true)
		if err != nil {
			return nil, err
		}
		prog.Funcs = append(prog.Funcs, body)
		pos = next
	}

	top, _, err := decodeSection(code, pos, false)
	if err != nil {
		return nil, err
	}
	prog.Top = top
	return prog, nil
}

// decodeConsts walks the constants section, which must be consumed
// exactly: a tag byte followed by its payload, entry after entry, until
// the declared byte length runs out.
func decodeConsts(data []byte) ([]any, error) {
	var consts []any
	pos := 0
	for pos < len(data) {
		tag := bytecode.ConstTag(data[pos])
		pos++
		switch tag {
		case bytecode.ConstInt:
			if pos+4 > len(data) {
				return nil, LoadError{Message: "truncated INT constant"}
			}
			consts = append(consts, int64(int32(bytecode.Uint32(data[pos:pos+4]))))
			pos += 4
		case bytecode.ConstFloat:
			if pos+4 > len(data) {
				return nil, LoadError{Message: "truncated FLOAT constant"}
			}
			bits := bytecode.Uint32(data[pos : pos+4])
			consts = append(consts, float64(math.Float32frombits(bits)))
			pos += 4
		case bytecode.ConstString:
			end := bytes.IndexByte(data[pos:], 0)
			if end < 0 {
				return nil, LoadError{Message: "unterminated STRING constant"}
			}
			consts = append(consts, string(data[pos:pos+end]))
			pos += end + 1
		default:
			return nil, LoadError{Message: fmt.Sprintf("unknown constant tag %d", tag)}
		}
	}
	return consts, nil
}

// decodeSection decodes instructions starting at start. With
// stopAtMakeFunction it consumes a function body and returns at the
// MAKE_FUNCTION marker (exclusive of the marker in the result);
// otherwise it runs to the end of the byte stream. Jump arguments are
// translated from section-relative byte offsets to decoded-instruction
// indices before returning.
func decodeSection(code []byte, start int, stopAtMakeFunction bool) ([]Instr, int, error) {
	origin := start
	offsets := map[int]int{} // section-relative byte offset -> instruction index
	var instrs []Instr

	pos := start
	for pos < len(code) {
		op := bytecode.Op(code[pos])
		if stopAtMakeFunction && op == bytecode.MAKE_FUNCTION {
			translated, err := translateJumps(instrs, offsets)
			return translated, pos + 1, err
		}
		def, err := bytecode.Get(op)
		if err != nil {
			return nil, 0, LoadError{Message: fmt.Sprintf("unknown opcode byte %d", code[pos])}
		}
		offsets[pos-origin] = len(instrs)
		pos++

		instr := Instr{Op: op}
		switch def.OperandWidth {
		case bytecode.ByteOperand:
			if pos >= len(code) {
				return nil, 0, LoadError{Message: fmt.Sprintf("truncated %s parameter", def.Name)}
			}
			instr.Arg = int(code[pos])
			pos++
		case bytecode.WordOperand:
			if pos+2 > len(code) {
				return nil, 0, LoadError{Message: fmt.Sprintf("truncated %s parameter", def.Name)}
			}
			instr.Arg = int(bytecode.Uint16(code[pos : pos+2]))
			pos += 2
		}
		instrs = append(instrs, instr)
	}

	if stopAtMakeFunction {
		return nil, 0, LoadError{Message: "function body missing its MAKE_FUNCTION marker"}
	}
	translated, err := translateJumps(instrs, offsets)
	return translated, pos, err
}

func translateJumps(instrs []Instr, offsets map[int]int) ([]Instr, error) {
	for i, instr := range instrs {
		switch instr.Op {
		case bytecode.JZ, bytecode.JNZ, bytecode.JMP:
			idx, ok := offsets[instr.Arg]
			if !ok {
				return nil, LoadError{Message: fmt.Sprintf("%s target offset %d does not land on an instruction", instr.Op, instr.Arg)}
			}
			instrs[i].Arg = idx
		}
	}
	return instrs, nil
}
