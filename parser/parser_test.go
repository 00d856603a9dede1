package parser

import (
	"testing"

	"github.com/theY4Kman/yaksh/ast"
	"github.com/theY4Kman/yaksh/lexer"
	"github.com/theY4Kman/yaksh/token"
)

func mustLex(t *testing.T, src string) []token.Token {
	t.Helper()
	tokens, err := lexer.CreateLexer(src).Scan()
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	return tokens
}

func mustParse(t *testing.T, src string) ast.Script {
	t.Helper()
	script, errs := Make(mustLex(t, src)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return script
}

func TestParseAssign(t *testing.T) {
	script := mustParse(t, "x = 1\n")
	if len(script.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(script.Items))
	}
	assign, ok := script.Items[0].(ast.Assign)
	if !ok {
		t.Fatalf("expected ast.Assign, got %T", script.Items[0])
	}
	if assign.Var != "x" {
		t.Errorf("expected var x, got %s", assign.Var)
	}
}

func TestParseCompoundAssignDesugars(t *testing.T) {
	script := mustParse(t, "x += 1\n")
	assign := script.Items[0].(ast.Assign)
	if len(assign.Value.Items) != 3 {
		t.Fatalf("expected desugared 3-item chain, got %d items", len(assign.Value.Items))
	}
	op := assign.Value.Items[1].Operator
	if op.Kind != token.PLUS {
		t.Errorf("expected desugared operator PLUS, got %s", op.Kind)
	}
}

func TestParseExprFlattensAdditiveChain(t *testing.T) {
	script := mustParse(t, "x = 1 + 2 - 3\n")
	assign := script.Items[0].(ast.Assign)
	if len(assign.Value.Items) != 5 {
		t.Fatalf("expected 5 flat items (1 + 2 - 3), got %d", len(assign.Value.Items))
	}
}

func TestParseTermNestsInsideAdditiveChain(t *testing.T) {
	script := mustParse(t, "x = 1 + 2 * 3\n")
	assign := script.Items[0].(ast.Assign)
	if len(assign.Value.Items) != 3 {
		t.Fatalf("expected 3 top-level items (1, +, (2*3)), got %d", len(assign.Value.Items))
	}
	nested, ok := assign.Value.Items[2].Operand.(*ast.ValueStmt)
	if !ok {
		t.Fatalf("expected nested *ValueStmt for the '*' term, got %T", assign.Value.Items[2].Operand)
	}
	if len(nested.Items) != 3 {
		t.Errorf("expected nested chain to have 3 items (2, *, 3), got %d", len(nested.Items))
	}
}

func TestParseLoneTermIsNotWrapped(t *testing.T) {
	script := mustParse(t, "x = 5\n")
	assign := script.Items[0].(ast.Assign)
	if len(assign.Value.Items) != 1 {
		t.Fatalf("expected a single item, got %d", len(assign.Value.Items))
	}
	if _, ok := assign.Value.Items[0].Operand.(*ast.ValueStmt); ok {
		t.Error("a lone factor should not be wrapped in a nested ValueStmt")
	}
}

func TestParseComparisonWraps(t *testing.T) {
	script := mustParse(t, "if x == 1:\n    pass\n")
	chain := script.Items[0].(ast.IfChain)
	cond := chain.Branches[0].Cond
	if len(cond.Items) != 1 {
		t.Fatalf("expected a single-item ValueStmt wrapping the comparison, got %d items", len(cond.Items))
	}
	if _, ok := cond.Items[0].Operand.(*ast.CmpStmt); !ok {
		t.Fatalf("expected *ast.CmpStmt operand, got %T", cond.Items[0].Operand)
	}
}

func TestParseFdefWithParams(t *testing.T) {
	script := mustParse(t, "def add(a, b):\n    return a + b\n")
	fdef := script.Items[0].(ast.Fdef)
	if fdef.Name != "add" {
		t.Errorf("expected name add, got %s", fdef.Name)
	}
	if len(fdef.Params) != 2 || fdef.Params[0] != "a" || fdef.Params[1] != "b" {
		t.Errorf("unexpected params: %v", fdef.Params)
	}
	if len(fdef.Block.Stmts) != 1 {
		t.Fatalf("expected 1 statement in body, got %d", len(fdef.Block.Stmts))
	}
}

func TestParseFdefDuplicateParamIsError(t *testing.T) {
	_, errs := Make(mustLex(t, "def f(a, a):\n    pass\n")).Parse()
	if len(errs) == 0 {
		t.Fatal("expected a duplicate-parameter error")
	}
}

func TestParseDuplicateTopLevelFdefIsError(t *testing.T) {
	src := "def f(a):\n    pass\ndef f(b):\n    pass\n"
	_, errs := Make(mustLex(t, src)).Parse()
	if len(errs) == 0 {
		t.Fatal("expected a duplicate-function error")
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := "if x == 1:\n    pass\nelif x == 2:\n    pass\nelse:\n    pass\n"
	script := mustParse(t, src)
	chain := script.Items[0].(ast.IfChain)
	if len(chain.Branches) != 2 {
		t.Fatalf("expected 2 branches (if + elif), got %d", len(chain.Branches))
	}
	if chain.Else == nil {
		t.Fatal("expected an else arm")
	}
}

func TestParseNestedIfChain(t *testing.T) {
	src := "def f():\n    if x == 1:\n        pass\n    elif x == 2:\n        pass\n    else:\n        pass\n"
	script := mustParse(t, src)
	fdef := script.Items[0].(ast.Fdef)
	chain := fdef.Block.Stmts[0].(ast.IfChain)
	if len(chain.Branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(chain.Branches))
	}
	if chain.Else == nil {
		t.Fatal("expected an else arm")
	}
}

func TestParseFcallAsStatementAndAsValue(t *testing.T) {
	script := mustParse(t, "print(1, 2)\nx = add(1, 2)\n")
	if _, ok := script.Items[0].(ast.Fcall); !ok {
		t.Fatalf("expected a bare Fcall statement, got %T", script.Items[0])
	}
	assign := script.Items[1].(ast.Assign)
	if len(assign.Value.Items) != 1 {
		t.Fatalf("expected single wrapped fcall value, got %d items", len(assign.Value.Items))
	}
	val, ok := assign.Value.Items[0].Operand.(ast.Value)
	if !ok {
		t.Fatalf("expected ast.Value operand, got %T", assign.Value.Items[0].Operand)
	}
	if _, ok := val.Inner.(ast.Fcall); !ok {
		t.Fatalf("expected Fcall inside Value, got %T", val.Inner)
	}
}

func TestParseReturnWithAndWithoutValue(t *testing.T) {
	script := mustParse(t, "def f():\n    return\n")
	fdef := script.Items[0].(ast.Fdef)
	ret := fdef.Block.Stmts[0].(ast.ReturnStmt)
	if ret.Value != nil {
		t.Error("expected a nil Value for a bare return")
	}

	script2 := mustParse(t, "def f():\n    return 1\n")
	fdef2 := script2.Items[0].(ast.Fdef)
	ret2 := fdef2.Block.Stmts[0].(ast.ReturnStmt)
	if ret2.Value == nil {
		t.Error("expected a non-nil Value")
	}
}

func TestParseNumberKinds(t *testing.T) {
	script := mustParse(t, "x = 0xff\n")
	assign := script.Items[0].(ast.Assign)
	val := assign.Value.Items[0].Operand.(ast.Value)
	num := val.Inner.(ast.Number)
	if num.Kind != ast.Hex {
		t.Errorf("expected Hex kind, got %v", num.Kind)
	}
}

func TestParseMixedIndentationIsError(t *testing.T) {
	src := "def f():\n    pass\n        pass\n"
	_, errs := Make(mustLex(t, src)).Parse()
	if len(errs) == 0 {
		t.Fatal("expected a mixed-indentation error")
	}
}

func TestParseDotIsAlwaysRejected(t *testing.T) {
	_, errs := Make(mustLex(t, "x.y\n")).Parse()
	if len(errs) == 0 {
		t.Fatal("expected an error for a bare '.' token")
	}
}

func TestParseCollectsMultipleErrors(t *testing.T) {
	src := "x = \ny = \n"
	_, errs := Make(mustLex(t, src)).Parse()
	if len(errs) < 2 {
		t.Fatalf("expected at least 2 recovered errors, got %d: %v", len(errs), errs)
	}
}

func TestParseEmptyElseBlockStillRequiresPass(t *testing.T) {
	src := "if x == 1:\n    pass\nelse:\n    pass\n"
	script := mustParse(t, src)
	chain := script.Items[0].(ast.IfChain)
	if len(chain.Else.Block.Stmts) != 1 {
		t.Fatalf("expected else block to hold the pass statement, got %d stmts", len(chain.Else.Block.Stmts))
	}
}
