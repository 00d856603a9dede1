package vm

import (
	"fmt"
	"strings"

	"github.com/theY4Kman/yaksh/bytecode"
)

// Disassemble decodes a binary image and renders it as a human-readable
// listing: the constants table, each function body, then the top-level
// code. Jump arguments are shown as the instruction indices the loader
// resolved them to.
func Disassemble(image []byte) (string, error) {
	prog, err := Load(image)
	if err != nil {
		return "", err
	}

	var builder strings.Builder

	builder.WriteString("== constants ==\n")
	for i, c := range prog.Consts {
		builder.WriteString(fmt.Sprintf("%4d: %s\n", i, formatConst(c)))
	}

	for i, body := range prog.Funcs {
		builder.WriteString(fmt.Sprintf("== function %d ==\n", i))
		writeInstrs(&builder, body, prog.Consts)
	}

	builder.WriteString("== top-level ==\n")
	writeInstrs(&builder, prog.Top, prog.Consts)

	return builder.String(), nil
}

func writeInstrs(builder *strings.Builder, instrs []Instr, consts []any) {
	for i, instr := range instrs {
		def, _ := bytecode.Get(instr.Op)
		switch {
		case def.OperandWidth == bytecode.NoOperand:
			builder.WriteString(fmt.Sprintf("%4d  %s\n", i, def.Name))
		case instr.Op == bytecode.LOAD_CONST && instr.Arg < len(consts):
			builder.WriteString(fmt.Sprintf("%4d  %s %d        ; %s\n", i, def.Name, instr.Arg, formatConst(consts[instr.Arg])))
		default:
			builder.WriteString(fmt.Sprintf("%4d  %s %d\n", i, def.Name, instr.Arg))
		}
	}
}

func formatConst(c any) string {
	switch v := c.(type) {
	case int64:
		return fmt.Sprintf("INT %d", v)
	case float64:
		return fmt.Sprintf("FLOAT %s", formatValue(v))
	case string:
		return fmt.Sprintf("STRING %q", v)
	}
	return fmt.Sprintf("%v", c)
}
