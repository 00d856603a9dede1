// Package ast defines the abstract syntax tree produced by the parser: a
// closed family of node types, each implementing the small marker
// interfaces below so that downstream passes (the assembly generator, the
// debug printer) can either type-switch over concrete shapes or dispatch
// through the Visitor pattern, whichever suits the pass.
package ast

// ValueExpr is implemented by the four things a Value can wrap: Number,
// Literal, Var, Fcall.
type ValueExpr interface {
	isValueExpr()
	Accept(v Visitor) any
}

// Operand is implemented by anything that can appear in a ValueStmt's item
// list at an operand position: Value, *ValueStmt (nested, for */  precedence
// grouping), *CmpStmt.
type Operand interface {
	isOperand()
}

// Stmt is implemented by every statement-class node: the things a Block may
// contain, and a Script's non-Fdef top-level items.
type Stmt interface {
	isStmt()
	Accept(v Visitor) any
}

// Visitor is the debug-printer's dispatch interface (see parser.astPrinter).
// Not every pass uses it; the assembly generator type-switches directly.
type Visitor interface {
	VisitNumber(n Number) any
	VisitLiteral(l Literal) any
	VisitVar(v Var) any
	VisitFcall(f Fcall) any
	VisitValue(v Value) any
	VisitValueStmt(vs *ValueStmt) any
	VisitCmpStmt(c *CmpStmt) any
	VisitAssign(a Assign) any
	VisitReturnStmt(r ReturnStmt) any
	VisitPassStmt(p PassStmt) any
	VisitIfChain(i IfChain) any
	VisitFdef(f Fdef) any
	VisitBlock(b Block) any
}
