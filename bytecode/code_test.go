package bytecode

import "testing"

func TestOpcodeNumberingIsStable(t *testing.T) {
	tests := []struct {
		op   Op
		want byte
	}{
		{ADD, 1}, {SUB, 2}, {DIV, 3}, {MULT, 4}, {RETN, 5}, {CALL, 6},
		{STORE_VAR, 7}, {STORE_GLOBAL, 8}, {LOAD_CONST, 9}, {LOAD_GLOBAL, 10},
		{LOAD_LOCAL, 11}, {PROC, 12}, {MAKE_FUNCTION, 13}, {CALL_BUILTIN, 14},
		{PASS, 15}, {JZ, 16}, {JNZ, 17}, {JMP, 18}, {CMP, 19},
	}
	for _, tt := range tests {
		if byte(tt.op) != tt.want {
			t.Errorf("%s = %d, want %d", tt.op, byte(tt.op), tt.want)
		}
	}
}

func TestCompareNumbering(t *testing.T) {
	tests := []struct {
		cmp  Compare
		want byte
	}{
		{IsEqual, 0}, {NotEqual, 1}, {GT, 2}, {GTE, 3}, {LT, 4}, {LTE, 5},
	}
	for _, tt := range tests {
		if byte(tt.cmp) != tt.want {
			t.Errorf("compare = %d, want %d", byte(tt.cmp), tt.want)
		}
	}
}

func TestGetUnknownOpcode(t *testing.T) {
	if _, err := Get(Op(200)); err == nil {
		t.Fatal("expected an error for an undefined opcode")
	}
}

func TestLookupIsCaseSensitiveUppercase(t *testing.T) {
	op, ok := Lookup("LOAD_CONST")
	if !ok || op != LOAD_CONST {
		t.Fatalf("Lookup(LOAD_CONST) = %v, %v", op, ok)
	}
	if _, ok := Lookup("load_const"); ok {
		t.Fatal("Lookup should require the uppercased mnemonic; callers upcase first")
	}
}

func TestOperandWidths(t *testing.T) {
	def, err := Get(JZ)
	if err != nil {
		t.Fatal(err)
	}
	if def.OperandWidth != WordOperand {
		t.Errorf("JZ operand width = %v, want WordOperand", def.OperandWidth)
	}

	def, err = Get(ADD)
	if err != nil {
		t.Fatal(err)
	}
	if def.OperandWidth != NoOperand {
		t.Errorf("ADD operand width = %v, want NoOperand", def.OperandWidth)
	}
}

func TestLittleEndianRoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	PutUint16(buf, 0x1234)
	if Uint16(buf) != 0x1234 {
		t.Errorf("got %x", Uint16(buf))
	}
	if buf[0] != 0x34 || buf[1] != 0x12 {
		t.Errorf("expected little-endian byte order, got %v", buf)
	}
}
