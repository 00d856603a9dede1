package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/theY4Kman/yaksh/ast"
)

// astPrinter implements ast.Visitor and builds a JSON-friendly
// representation of the AST using maps and slices. Each Visit method
// returns a value that can be marshaled directly.
type astPrinter struct{}

func (p astPrinter) VisitNumber(n ast.Number) any {
	kind := "int"
	switch n.Kind {
	case ast.Hex:
		kind = "hex"
	case ast.Bin:
		kind = "bin"
	case ast.Float:
		kind = "float"
	}
	return map[string]any{
		"type":  "Number",
		"kind":  kind,
		"value": n.Value,
	}
}

func (p astPrinter) VisitLiteral(l ast.Literal) any {
	return map[string]any{
		"type":  "Literal",
		"value": l.Text,
	}
}

func (p astPrinter) VisitVar(va ast.Var) any {
	return map[string]any{
		"type": "Var",
		"name": va.Name,
	}
}

func (p astPrinter) VisitFcall(f ast.Fcall) any {
	args := make([]any, 0, len(f.Args))
	for _, a := range f.Args {
		args = append(args, a.Accept(p))
	}
	return map[string]any{
		"type": "Fcall",
		"name": f.Name,
		"args": args,
	}
}

func (p astPrinter) VisitValue(va ast.Value) any {
	return va.Inner.Accept(p)
}

func (p astPrinter) VisitValueStmt(vs *ast.ValueStmt) any {
	items := make([]any, 0, len(vs.Items))
	for _, item := range vs.Items {
		if item.Operand != nil {
			items = append(items, p.visitOperand(item.Operand))
			continue
		}
		items = append(items, string(item.Operator.Kind))
	}
	return map[string]any{
		"type":  "ValueStmt",
		"items": items,
	}
}

// visitOperand dispatches on the concrete Operand shape: Operand itself
// only marks membership, it doesn't carry Accept.
func (p astPrinter) visitOperand(op ast.Operand) any {
	switch node := op.(type) {
	case ast.Value:
		return node.Accept(p)
	case *ast.ValueStmt:
		return node.Accept(p)
	case *ast.CmpStmt:
		return node.Accept(p)
	default:
		return fmt.Sprintf("<unknown operand %T>", op)
	}
}

func (p astPrinter) VisitCmpStmt(c *ast.CmpStmt) any {
	return map[string]any{
		"type":  "CmpStmt",
		"op":    string(c.Op),
		"left":  c.Left.Accept(p),
		"right": c.Right.Accept(p),
	}
}

func (p astPrinter) VisitAssign(a ast.Assign) any {
	return map[string]any{
		"type":  "Assign",
		"var":   a.Var,
		"value": a.Value.Accept(p),
	}
}

func (p astPrinter) VisitReturnStmt(r ast.ReturnStmt) any {
	var value any
	if r.Value != nil {
		value = r.Value.Accept(p)
	}
	return map[string]any{
		"type":  "ReturnStmt",
		"value": value,
	}
}

func (p astPrinter) VisitPassStmt(ast.PassStmt) any {
	return map[string]any{"type": "PassStmt"}
}

func (p astPrinter) VisitIfChain(i ast.IfChain) any {
	branches := make([]any, 0, len(i.Branches))
	for _, b := range i.Branches {
		branches = append(branches, map[string]any{
			"cond":  b.Cond.Accept(p),
			"block": b.Block.Accept(p),
		})
	}
	var elseVal any
	if i.Else != nil {
		elseVal = i.Else.Block.Accept(p)
	}
	return map[string]any{
		"type":     "IfChain",
		"branches": branches,
		"else":     elseVal,
	}
}

func (p astPrinter) VisitFdef(f ast.Fdef) any {
	return map[string]any{
		"type":   "Fdef",
		"name":   f.Name,
		"params": f.Params,
		"block":  f.Block.Accept(p),
	}
}

func (p astPrinter) VisitBlock(b ast.Block) any {
	stmts := make([]any, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		stmts = append(stmts, s.Accept(p))
	}
	return map[string]any{
		"type":  "Block",
		"stmts": stmts,
	}
}

// PrintASTJSON converts a parsed script into a prettified JSON string.
func PrintASTJSON(script ast.Script) (string, error) {
	printer := astPrinter{}
	out := dumpScript(script, printer)
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func dumpScript(script ast.Script, printer astPrinter) []any {
	out := make([]any, 0, len(script.Items))
	for _, item := range script.Items {
		switch node := item.(type) {
		case ast.Fdef:
			out = append(out, node.Accept(printer))
		case ast.Stmt:
			out = append(out, node.Accept(printer))
		default:
			out = append(out, fmt.Sprintf("<unknown node %T>", item))
		}
	}
	return out
}

// WriteASTJSONToFile writes the prettified AST JSON to the given file path.
func WriteASTJSONToFile(script ast.Script, path string) error {
	s, err := PrintASTJSON(script)
	if err != nil {
		return err
	}
	fDescriptor, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}
	defer fDescriptor.Close()

	if _, err := fDescriptor.Write([]byte(s)); err != nil {
		return fmt.Errorf("error writing AST to file: %s", err.Error())
	}
	return nil
}
