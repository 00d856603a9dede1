// Package bytecode defines the closed instruction set, constant tags, and
// comparison codes shared by the assembly generator, the binary assembler,
// and the VM loader.
package bytecode

import (
	"encoding/binary"
	"fmt"
)

// Op is a single instruction opcode. The numbering is stable wire format:
// changing it breaks every previously-assembled .ykb image.
type Op byte

const (
	ADD Op = iota + 1
	SUB
	DIV
	MULT
	RETN
	CALL
	STORE_VAR
	STORE_GLOBAL
	LOAD_CONST
	LOAD_GLOBAL
	LOAD_LOCAL
	PROC
	MAKE_FUNCTION
	CALL_BUILTIN
	PASS
	JZ
	JNZ
	JMP
	CMP
)

// OperandWidth describes how many bytes (beyond the opcode byte itself) an
// instruction's parameter occupies.
type OperandWidth int

const (
	NoOperand   OperandWidth = 0
	ByteOperand OperandWidth = 1
	WordOperand OperandWidth = 2
)

// OpDef is a definition of an opcode: its human-readable mnemonic and the
// width of its single parameter, if any.
type OpDef struct {
	Name         string
	OperandWidth OperandWidth
}

var definitions = map[Op]*OpDef{
	ADD:           {"ADD", NoOperand},
	SUB:           {"SUB", NoOperand},
	DIV:           {"DIV", NoOperand},
	MULT:          {"MULT", NoOperand},
	RETN:          {"RETN", NoOperand},
	CALL:          {"CALL", ByteOperand},
	STORE_VAR:     {"STORE_VAR", ByteOperand},
	STORE_GLOBAL:  {"STORE_GLOBAL", ByteOperand},
	LOAD_CONST:    {"LOAD_CONST", ByteOperand},
	LOAD_GLOBAL:   {"LOAD_GLOBAL", ByteOperand},
	LOAD_LOCAL:    {"LOAD_LOCAL", ByteOperand},
	PROC:          {"PROC", NoOperand},
	MAKE_FUNCTION: {"MAKE_FUNCTION", NoOperand},
	CALL_BUILTIN:  {"CALL_BUILTIN", ByteOperand},
	PASS:          {"PASS", NoOperand},
	JZ:            {"JZ", WordOperand},
	JNZ:           {"JNZ", WordOperand},
	JMP:           {"JMP", WordOperand},
	CMP:           {"CMP", ByteOperand},
}

// byName is the inverse of definitions, keyed by the uppercased mnemonic
// the binary assembler's textual front-end reads.
var byName = func() map[string]Op {
	m := make(map[string]Op, len(definitions))
	for op, def := range definitions {
		m[def.Name] = op
	}
	return m
}()

// Get looks up an opcode's definition.
func Get(op Op) (*OpDef, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def, nil
}

// Lookup resolves an uppercase mnemonic to its Op, e.g. "LOAD_CONST" ->
// LOAD_CONST. The match is exact: "load_const" is not found, so callers
// reading case-insensitive assembly text uppercase it first.
func Lookup(mnemonic string) (Op, bool) {
	op, ok := byName[mnemonic]
	return op, ok
}

func (op Op) String() string {
	if def, ok := definitions[op]; ok {
		return def.Name
	}
	return fmt.Sprintf("Op(%d)", byte(op))
}

// ConstTag identifies the payload shape of one entry in the constants
// table.
type ConstTag byte

const (
	ConstInt ConstTag = iota
	ConstFloat
	ConstString
)

// Compare identifies which relational test a CMP instruction performs.
// The numbering is wire format, as stable as the opcode bytes.
type Compare byte

const (
	IsEqual Compare = iota
	NotEqual
	GT
	GTE
	LT
	LTE
)

// MAGIC is the 4-byte stamp every binary image begins with.
var MAGIC = [4]byte{'B', 'Y', 'A', 'K'}

// PutUint16 and PutUint32 exist purely so every package that packs the wire
// format uses the same byte order without repeating `binary.LittleEndian`
// at every call site.
func PutUint16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func PutUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func Uint16(b []byte) uint16       { return binary.LittleEndian.Uint16(b) }
func Uint32(b []byte) uint32       { return binary.LittleEndian.Uint32(b) }
