package vm

import (
	"fmt"
	"strconv"

	"github.com/theY4Kman/yaksh/bytecode"
)

// Runtime values are int64, float64, or string. Constants arrive at those
// widths from the loader; arithmetic on a mixed int/float pair widens the
// int side to float. Strings never coerce: the only string arithmetic is
// ADD on two strings (concatenation), anything else is a type error.

func arith(op bytecode.Op, left, right any) (any, error) {
	ls, lIsStr := left.(string)
	rs, rIsStr := right.(string)
	if lIsStr || rIsStr {
		if lIsStr && rIsStr && op == bytecode.ADD {
			return ls + rs, nil
		}
		return nil, RuntimeError{Op: op.String(), Message: fmt.Sprintf("unsupported operand types %T and %T", left, right)}
	}

	li, lIsInt := left.(int64)
	ri, rIsInt := right.(int64)
	if lIsInt && rIsInt {
		switch op {
		case bytecode.ADD:
			return li + ri, nil
		case bytecode.SUB:
			return li - ri, nil
		case bytecode.MULT:
			return li * ri, nil
		case bytecode.DIV:
			if ri == 0 {
				return nil, RuntimeError{Op: op.String(), Message: "division by zero"}
			}
			return li / ri, nil
		}
	}

	lf, err := toFloat(op, left)
	if err != nil {
		return nil, err
	}
	rf, err := toFloat(op, right)
	if err != nil {
		return nil, err
	}
	switch op {
	case bytecode.ADD:
		return lf + rf, nil
	case bytecode.SUB:
		return lf - rf, nil
	case bytecode.MULT:
		return lf * rf, nil
	case bytecode.DIV:
		if rf == 0 {
			return nil, RuntimeError{Op: op.String(), Message: "division by zero"}
		}
		return lf / rf, nil
	}
	return nil, RuntimeError{Op: op.String(), Message: "not an arithmetic opcode"}
}

func compare(code bytecode.Compare, left, right any) (bool, error) {
	opName := fmt.Sprintf("CMP %d", code)

	if ls, ok := left.(string); ok {
		rs, ok := right.(string)
		if !ok {
			return false, RuntimeError{Op: opName, Message: fmt.Sprintf("cannot compare %T with %T", left, right)}
		}
		return orderedCompare(code, opName, compareStrings(ls, rs))
	}
	if _, ok := right.(string); ok {
		return false, RuntimeError{Op: opName, Message: fmt.Sprintf("cannot compare %T with %T", left, right)}
	}

	lf, err := toFloat(bytecode.CMP, left)
	if err != nil {
		return false, err
	}
	rf, err := toFloat(bytecode.CMP, right)
	if err != nil {
		return false, err
	}
	switch {
	case lf < rf:
		return orderedCompare(code, opName, -1)
	case lf > rf:
		return orderedCompare(code, opName, 1)
	default:
		return orderedCompare(code, opName, 0)
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// orderedCompare turns a three-way comparison result into the truth value
// of the requested relational test.
func orderedCompare(code bytecode.Compare, opName string, ord int) (bool, error) {
	switch code {
	case bytecode.IsEqual:
		return ord == 0, nil
	case bytecode.NotEqual:
		return ord != 0, nil
	case bytecode.GT:
		return ord > 0, nil
	case bytecode.GTE:
		return ord >= 0, nil
	case bytecode.LT:
		return ord < 0, nil
	case bytecode.LTE:
		return ord <= 0, nil
	}
	return false, RuntimeError{Op: opName, Message: "unknown comparison code"}
}

func toFloat(op bytecode.Op, value any) (float64, error) {
	switch v := value.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, RuntimeError{Op: op.String(), Message: fmt.Sprintf("unsupported operand type %T", value)}
}

// isZero is the truth test behind JZ/JNZ: zero numbers and the empty
// string are false, everything else is true.
func isZero(value any) bool {
	switch v := value.(type) {
	case int64:
		return v == 0
	case float64:
		return v == 0
	case string:
		return v == ""
	}
	return false
}

// formatValue renders a runtime value the way print shows it. Floats
// round through single precision so a loaded 0.1 prints as 0.1, not as
// the closest double to its single-precision bits.
func formatValue(value any) string {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(float64(float32(v)), 'g', -1, 32)
	case string:
		return v
	}
	return fmt.Sprintf("%v", value)
}
