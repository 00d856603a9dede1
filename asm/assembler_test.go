package asm

import (
	"bytes"
	"testing"

	"github.com/theY4Kman/yaksh/bytecode"
)

// image strips the MAGIC + consts header off an assembled image and
// returns (consts bytes, code bytes).
func image(t *testing.T, text string) ([]byte, []byte) {
	t.Helper()
	img, err := Assemble(text)
	if err != nil {
		t.Fatalf("assemble error: %v", err)
	}
	if !bytes.Equal(img[:4], bytecode.MAGIC[:]) {
		t.Fatalf("bad magic: %v", img[:4])
	}
	constsLen := int(bytecode.Uint32(img[4:8]))
	return img[8 : 8+constsLen], img[8+constsLen:]
}

func TestAssembleSimpleArithmetic(t *testing.T) {
	consts, code := image(t, "LOAD_CONST 1\nLOAD_CONST 2\nADD\n")

	wantConsts := []byte{
		byte(bytecode.ConstInt), 1, 0, 0, 0,
		byte(bytecode.ConstInt), 2, 0, 0, 0,
	}
	if !bytes.Equal(consts, wantConsts) {
		t.Errorf("consts = %v, want %v", consts, wantConsts)
	}

	wantCode := []byte{
		byte(bytecode.LOAD_CONST), 0,
		byte(bytecode.LOAD_CONST), 1,
		byte(bytecode.ADD),
	}
	if !bytes.Equal(code, wantCode) {
		t.Errorf("code = %v, want %v", code, wantCode)
	}
}

func TestAssembleConstantDedup(t *testing.T) {
	consts, code := image(t, "LOAD_CONST 5\nLOAD_CONST 5\nADD\n")

	wantConsts := []byte{byte(bytecode.ConstInt), 5, 0, 0, 0}
	if !bytes.Equal(consts, wantConsts) {
		t.Errorf("consts = %v, want a single deduplicated entry %v", consts, wantConsts)
	}
	wantCode := []byte{
		byte(bytecode.LOAD_CONST), 0,
		byte(bytecode.LOAD_CONST), 0,
		byte(bytecode.ADD),
	}
	if !bytes.Equal(code, wantCode) {
		t.Errorf("code = %v, want both sites to share index 0: %v", code, wantCode)
	}
}

func TestAssembleEmptyConstantsTable(t *testing.T) {
	img, err := Assemble("PASS\n")
	if err != nil {
		t.Fatalf("assemble error: %v", err)
	}
	if got := bytecode.Uint32(img[4:8]); got != 0 {
		t.Errorf("consts_len = %d, want 0", got)
	}
	if img[8] != byte(bytecode.PASS) {
		t.Errorf("code = %v, want a lone PASS", img[8:])
	}
}

func TestAssembleStringConstant(t *testing.T) {
	consts, _ := image(t, "LOAD_CONST 'hi'\n")
	want := []byte{byte(bytecode.ConstString), 'h', 'i', 0}
	if !bytes.Equal(consts, want) {
		t.Errorf("consts = %v, want NUL-terminated string entry %v", consts, want)
	}
}

func TestAssembleStringConstantEscapedQuote(t *testing.T) {
	consts, _ := image(t, `LOAD_CONST 'don\'t'`+"\n")
	want := append([]byte{byte(bytecode.ConstString)}, []byte("don't")...)
	want = append(want, 0)
	if !bytes.Equal(consts, want) {
		t.Errorf("consts = %v, want unescaped %v", consts, want)
	}
}

func TestAssembleFloatConstant(t *testing.T) {
	consts, _ := image(t, "LOAD_CONST 0.5\n")
	if len(consts) != 5 || consts[0] != byte(bytecode.ConstFloat) {
		t.Fatalf("consts = %v, want a 5-byte FLOAT entry", consts)
	}
	// 0.5 as an IEEE-754 single is 0x3F000000.
	if got := bytecode.Uint32(consts[1:]); got != 0x3F000000 {
		t.Errorf("float bits = %#x, want 0x3F000000", got)
	}
}

func TestAssembleMnemonicsAreCaseInsensitive(t *testing.T) {
	_, code := image(t, "load_const 1\nPass\n")
	want := []byte{byte(bytecode.LOAD_CONST), 0, byte(bytecode.PASS)}
	if !bytes.Equal(code, want) {
		t.Errorf("code = %v, want %v", code, want)
	}
}

func TestAssembleTopLevelJumpBackpatch(t *testing.T) {
	_, code := image(t, "JZ skip\nPASS\nskip: PASS\n")
	want := []byte{
		byte(bytecode.JZ), 4, 0, // skip sits 4 bytes into the top-level section
		byte(bytecode.PASS),
		byte(bytecode.PASS),
	}
	if !bytes.Equal(code, want) {
		t.Errorf("code = %v, want %v", code, want)
	}
}

func TestAssembleFunctionScopedJumpOffsets(t *testing.T) {
	text := "PROC\n" +
		"STORE_VAR 0\n" +
		"JMP fin\n" +
		"fin: RETN\n" +
		"MAKE_FUNCTION\n" +
		"LOAD_CONST 1\n" +
		"CALL 0\n"
	_, code := image(t, text)
	want := []byte{
		byte(bytecode.PROC),
		byte(bytecode.STORE_VAR), 0,
		byte(bytecode.JMP), 5, 0, // fin is 5 bytes past the PROC marker
		byte(bytecode.RETN),
		byte(bytecode.MAKE_FUNCTION),
		byte(bytecode.LOAD_CONST), 0,
		byte(bytecode.CALL), 0,
	}
	if !bytes.Equal(code, want) {
		t.Errorf("code = %v, want %v", code, want)
	}
}

func TestAssembleSameLabelNameInDifferentFunctions(t *testing.T) {
	text := "PROC\nJMP out\nout: RETN\nMAKE_FUNCTION\n" +
		"PROC\nJMP out\nout: RETN\nMAKE_FUNCTION\n" +
		"PASS\n"
	if _, err := Assemble(text); err != nil {
		t.Errorf("per-function label scopes should not collide: %v", err)
	}
}

func TestAssembleBlankLinesIgnored(t *testing.T) {
	_, code := image(t, "\n\nPASS\n\n   \nPASS\n")
	want := []byte{byte(bytecode.PASS), byte(bytecode.PASS)}
	if !bytes.Equal(code, want) {
		t.Errorf("code = %v, want %v", code, want)
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unknown mnemonic", "FROB 1\n"},
		{"duplicate label in one scope", "l: PASS\nl: PASS\n"},
		{"unknown label", "JMP nowhere\nPASS\n"},
		{"parameter on a no-operand opcode", "ADD 1\n"},
		{"missing parameter", "CALL\n"},
		{"missing jump target", "JMP\n"},
		{"malformed int parameter", "CALL x\n"},
		{"malformed string constant", "LOAD_CONST 'oops\n"},
		{"unterminated PROC", "PROC\nRETN\n"},
		{"MAKE_FUNCTION without PROC", "MAKE_FUNCTION\n"},
	}
	for _, tt := range tests {
		if _, err := Assemble(tt.text); err == nil {
			t.Errorf("%s: expected an error for:\n%s", tt.name, tt.text)
		}
	}
}
