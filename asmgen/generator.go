// Package asmgen lowers a parsed script into the textual assembly
// language the asm package's binary assembler consumes.
package asmgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theY4Kman/yaksh/ast"
	"github.com/theY4Kman/yaksh/token"
)

// builtins is the fixed, ordered list of host-provided functions. Its only
// member today is print; CALL_BUILTIN's operand is an index into this
// list.
var builtins = []string{"print"}

type generator struct {
	out strings.Builder

	// locals is nil at the top level; inside a function body it maps a
	// name to its dense local slot, assigned on first write.
	locals map[string]int

	globals   map[string]int
	funcNames map[string]int
	funcs     []string

	pendingLabel  string
	labelCounters []int
}

// Generator retains the global and function symbol tables between
// Generate calls, so a REPL session can compile each input against the
// names the session has accumulated so far: a global assigned on one line
// keeps its slot on the next, and a function defined earlier keeps its
// table index. Batch compilation uses the package-level Generate, which
// is a single-use session.
type Generator struct {
	globals   map[string]int
	funcNames map[string]int
}

func NewGenerator() *Generator {
	return &Generator{
		globals:   map[string]int{},
		funcNames: map[string]int{},
	}
}

// Generate lowers a parsed script into its textual assembly form. Errors
// are surfaced as a single returned error; the generator itself panics on
// the first unresolvable name and Generate recovers it at this boundary,
// which keeps the recursive walk free of error plumbing.
func Generate(script ast.Script) (string, error) {
	return NewGenerator().Generate(script)
}

// Generate lowers one script against the session's accumulated symbol
// tables. Function table indices keep counting up across calls, matching
// the order a VM executing every emitted image accumulates function
// bodies in.
func (session *Generator) Generate(script ast.Script) (asm string, err error) {
	g := &generator{
		globals:       session.globals,
		funcNames:     session.funcNames,
		labelCounters: []int{0},
	}

	defer func() {
		if r := recover(); r != nil {
			if asErr, ok := r.(error); ok {
				err = asErr
				return
			}
			panic(r)
		}
	}()

	// Function defs reserve their table index in declaration order before
	// any body is generated, so a function may call itself or a function
	// declared later in the script.
	for _, item := range script.Items {
		if fdef, ok := item.(ast.Fdef); ok {
			g.funcNames[fdef.Name] = len(g.funcNames)
		}
	}

	for _, item := range script.Items {
		switch node := item.(type) {
		case ast.Fdef:
			g.genFdef(node)
		default:
			g.genStmt(node.(ast.Stmt))
		}
	}
	g.flushPendingLabel()

	var sb strings.Builder
	for _, body := range g.funcs {
		sb.WriteString(body)
	}
	sb.WriteString(g.out.String())
	return sb.String(), nil
}

func (g *generator) emit(line string) {
	if g.pendingLabel != "" {
		g.out.WriteString(g.pendingLabel)
		g.out.WriteString(": ")
		g.pendingLabel = ""
	}
	g.out.WriteString(line)
	g.out.WriteByte('\n')
}

// labelNext attaches name to the next emitted instruction. A label still
// pending (a nested if-chain's exit label at the end of an arm) is first
// given a PASS of its own so it is not lost.
func (g *generator) labelNext(name string) {
	if g.pendingLabel != "" {
		g.emit("PASS")
	}
	g.pendingLabel = name
}

// flushPendingLabel ensures a dangling label (an if-chain's exit label
// with nothing after it) attaches to something: a trailing PASS.
func (g *generator) flushPendingLabel() {
	if g.pendingLabel != "" {
		g.emit("PASS")
	}
}

func (g *generator) pushLocalLabels() {
	g.labelCounters = append(g.labelCounters, 0)
}

func (g *generator) popLocalLabels() {
	g.labelCounters = g.labelCounters[:len(g.labelCounters)-1]
	g.labelCounters[len(g.labelCounters)-1]++
}

// nextLabel builds a depth-unique label name so sibling and nested
// if-chains within the same function never collide.
func (g *generator) nextLabel(relLabel string) string {
	parts := make([]string, len(g.labelCounters))
	for i, c := range g.labelCounters {
		parts[i] = strconv.Itoa(c)
	}
	return "_" + strings.Join(parts, "_") + "_" + relLabel
}

func (g *generator) storeVar(name string) {
	if g.locals != nil {
		if idx, ok := g.locals[name]; ok {
			g.emit(fmt.Sprintf("STORE_VAR %d", idx))
			return
		}
		idx := len(g.locals)
		g.locals[name] = idx
		g.emit(fmt.Sprintf("STORE_VAR %d", idx))
		return
	}
	g.storeGlobal(name)
}

func (g *generator) storeGlobal(name string) {
	idx, ok := g.globals[name]
	if !ok {
		idx = len(g.globals)
		g.globals[name] = idx
	}
	g.emit(fmt.Sprintf("STORE_GLOBAL %d", idx))
}

func (g *generator) genFdef(f ast.Fdef) {
	savedOut := g.out
	g.out = strings.Builder{}
	savedLocals := g.locals
	g.locals = map[string]int{}
	savedCounters := g.labelCounters
	g.labelCounters = []int{0}

	g.emit("PROC")
	lastParamIdx := len(f.Params) - 1
	for idx, param := range f.Params {
		g.locals[param] = idx
		g.emit(fmt.Sprintf("STORE_VAR %d", lastParamIdx-idx))
	}
	for _, stmt := range f.Block.Stmts {
		g.genStmt(stmt)
	}
	g.flushPendingLabel()
	g.emit("MAKE_FUNCTION")

	g.funcs = append(g.funcs, g.out.String())

	g.out = savedOut
	g.locals = savedLocals
	g.labelCounters = savedCounters
}

func (g *generator) genStmt(stmt ast.Stmt) {
	switch node := stmt.(type) {
	case ast.ReturnStmt:
		if node.Value != nil {
			g.genValueStmt(node.Value)
		}
		g.emit("RETN")
	case ast.PassStmt:
		g.emit("PASS")
	case ast.IfChain:
		g.genIfChain(node)
	case ast.Assign:
		g.genAssign(node)
	case ast.Fcall:
		g.genFcall(node)
	case *ast.ValueStmt:
		g.genValueStmt(node)
	default:
		panic(UnknownNameError{Message: fmt.Sprintf("unsupported statement node %T", stmt)})
	}
}

func (g *generator) genAssign(a ast.Assign) {
	g.genValueStmt(a.Value)
	g.storeVar(a.Var)
}

// genValueStmt lowers a flat operand/operator chain. The chain is
// left-associative; under the VM's "pop L (top), pop R (next), push L op
// R" convention, that is realized by emitting every operand's code in
// REVERSE (rightmost-first) order, then every operator in forward (source)
// order.
func (g *generator) genValueStmt(vs *ast.ValueStmt) {
	var operands []ast.Operand
	var operators []ast.Operator
	for _, item := range vs.Items {
		if item.Operand != nil {
			operands = append(operands, item.Operand)
		} else {
			operators = append(operators, item.Operator)
		}
	}

	for i := len(operands) - 1; i >= 0; i-- {
		g.genOperand(operands[i])
	}
	for _, op := range operators {
		g.emit(arithMnemonic(op.Kind))
	}
}

func (g *generator) genOperand(op ast.Operand) {
	switch node := op.(type) {
	case ast.Value:
		g.genValue(node)
	case *ast.ValueStmt:
		g.genValueStmt(node)
	case *ast.CmpStmt:
		g.genCmpStmt(node)
	default:
		panic(UnknownNameError{Message: fmt.Sprintf("unsupported operand node %T", op)})
	}
}

func arithMnemonic(kind token.TokenType) string {
	switch kind {
	case token.PLUS:
		return "ADD"
	case token.MINUS:
		return "SUB"
	case token.TIMES:
		return "MULT"
	case token.SLASH:
		return "DIV"
	default:
		panic(UnknownNameError{Message: fmt.Sprintf("unsupported arithmetic operator %s", kind)})
	}
}

func compareCode(op token.TokenType) int {
	switch op {
	case token.ISEQUAL:
		return 0
	case token.NOTEQUAL:
		return 1
	case token.GT:
		return 2
	case token.GTE:
		return 3
	case token.LT:
		return 4
	case token.LTE:
		return 5
	default:
		panic(UnknownNameError{Message: fmt.Sprintf("unsupported comparison operator %s", op)})
	}
}

func (g *generator) genCmpStmt(c *ast.CmpStmt) {
	g.genValueStmt(c.Right)
	g.genValueStmt(c.Left)
	g.emit(fmt.Sprintf("CMP %d", compareCode(c.Op)))
}

func (g *generator) genValue(v ast.Value) {
	switch inner := v.Inner.(type) {
	case ast.Number:
		g.emit(fmt.Sprintf("LOAD_CONST %s", numberLiteral(inner)))
	case ast.Literal:
		g.emit(fmt.Sprintf("LOAD_CONST %s", quoteString(inner.Text)))
	case ast.Var:
		g.genVarLoad(inner.Name)
	case ast.Fcall:
		g.genFcall(inner)
	default:
		panic(UnknownNameError{Message: fmt.Sprintf("unsupported value node %T", v.Inner)})
	}
}

func numberLiteral(n ast.Number) string {
	switch val := n.Value.(type) {
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		// The binary assembler reads a constant as FLOAT only if it
		// contains a '.', so an integral float keeps a ".0" suffix.
		s := strconv.FormatFloat(val, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	default:
		panic(UnknownNameError{Message: fmt.Sprintf("unsupported number literal value %T", n.Value)})
	}
}

// quoteString escapes embedded double quotes with a single backslash, the
// same escape rule the lexer understands on the way back in.
func quoteString(s string) string {
	escaped := strings.ReplaceAll(s, `"`, `\"`)
	return `"` + escaped + `"`
}

func (g *generator) genVarLoad(name string) {
	if g.locals != nil {
		if idx, ok := g.locals[name]; ok {
			g.emit(fmt.Sprintf("LOAD_LOCAL %d", idx))
			return
		}
	}
	if idx, ok := g.globals[name]; ok {
		g.emit(fmt.Sprintf("LOAD_GLOBAL %d", idx))
		return
	}
	panic(UnknownNameError{Message: fmt.Sprintf("global or local var '%s' does not exist", name)})
}

func (g *generator) genFcall(f ast.Fcall) {
	for _, arg := range f.Args {
		g.genValueStmt(arg)
	}
	for i, name := range builtins {
		if name == f.Name {
			g.emit(fmt.Sprintf("CALL_BUILTIN %d", i))
			return
		}
	}
	idx, ok := g.funcNames[f.Name]
	if !ok {
		panic(UnknownNameError{Message: fmt.Sprintf("name '%s' does not exist", f.Name)})
	}
	g.emit(fmt.Sprintf("CALL %d", idx))
}

// genIfChain lowers `if/elif*/else?` using per-invocation depth-scoped
// labels: the condition that fails falls through to the next arm's label,
// the last arm (or the else) falls through to chain_out, and every
// non-final successful arm jumps straight to chain_out after its body.
func (g *generator) genIfChain(chain ast.IfChain) {
	g.pushLocalLabels()
	defer g.popLocalLabels()

	type arm struct {
		cond  *ast.ValueStmt // nil for an unconditional else arm
		block ast.Block
	}
	arms := make([]arm, 0, len(chain.Branches)+1)
	for _, b := range chain.Branches {
		arms = append(arms, arm{cond: b.Cond, block: b.Block})
	}
	if chain.Else != nil {
		arms = append(arms, arm{cond: nil, block: chain.Else.Block})
	}

	// chain_out is computed once per if-chain invocation (not per sibling
	// arm) so every jz/jmp in this chain targets the same exit label, and
	// distinct if-chains in the same function scope never collide.
	chainOut := g.nextLabel("chain_out")

	lastIdx := len(arms) - 1
	labelIdx := 0
	for i, a := range arms {
		var nextLabel string
		if a.cond != nil {
			g.genValueStmt(a.cond)
			if i != lastIdx {
				nextLabel = g.nextLabel(fmt.Sprintf("chain_next%d", labelIdx))
				labelIdx++
			} else {
				nextLabel = chainOut
			}
			g.emit(fmt.Sprintf("JZ %s", nextLabel))
		}
		for _, stmt := range a.block.Stmts {
			g.genStmt(stmt)
		}
		if a.cond != nil && i != lastIdx {
			g.emit(fmt.Sprintf("JMP %s", chainOut))
			g.labelNext(nextLabel)
		}
	}
	g.labelNext(chainOut)
}
