// statements.go contains the statement-class AST nodes and the structural
// containers (Block, Fdef, Script) that hold them.

package ast

import "github.com/theY4Kman/yaksh/token"

// Assign binds the result of Value to Var, either rewritten from a compound
// assignment (`x += e`) by the parser or written directly.
type Assign struct {
	Var   string
	Value *ValueStmt
	Token token.Token
}

func (Assign) isStmt()                {}
func (a Assign) Accept(v Visitor) any { return v.VisitAssign(a) }

// ReturnStmt returns Value (if present) from the enclosing function.
type ReturnStmt struct {
	Value *ValueStmt // nil for a bare `return`
	Token token.Token
}

func (ReturnStmt) isStmt()                {}
func (r ReturnStmt) Accept(v Visitor) any { return v.VisitReturnStmt(r) }

// PassStmt is a no-op statement.
type PassStmt struct {
	Token token.Token
}

func (PassStmt) isStmt()                {}
func (p PassStmt) Accept(v Visitor) any { return v.VisitPassStmt(p) }

// IfBranch is one `if`/`elif` arm: a condition and the block it guards.
type IfBranch struct {
	Cond  *ValueStmt
	Block Block
}

// ElseBranch is the optional trailing `else` arm.
type ElseBranch struct {
	Block Block
}

// IfChain is the compound `if / elif* / else?` construct, represented as a
// single node so the assembly generator can lower it in one pass (see
// asmgen's if-chain label scoping).
type IfChain struct {
	Branches []IfBranch
	Else     *ElseBranch // nil if no else arm
	Token    token.Token
}

func (IfChain) isStmt()                {}
func (i IfChain) Accept(v Visitor) any { return v.VisitIfChain(i) }

// Block is an ordered sequence of statement-class nodes at the same
// indentation level.
type Block struct {
	Stmts []Stmt
}

func (b Block) Accept(v Visitor) any { return v.VisitBlock(b) }

// Fdef is a function definition: a name, its parameter names (in
// declaration order, occupying local slots 0..n-1), and its body.
type Fdef struct {
	Name   string
	Params []string
	Block  Block
	Token  token.Token
}

func (f Fdef) Accept(v Visitor) any { return v.VisitFdef(f) }

// Script is the top-level parse result: an ordered sequence of function
// definitions and statements, interleaved exactly as they appeared in
// source. Items holds Fdef for definitions and a Stmt implementation for
// everything else.
type Script struct {
	Items []any
}
