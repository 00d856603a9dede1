// expressions.go contains the value-producing AST nodes: the things that
// leave exactly one value on the VM stack once compiled.

package ast

import "github.com/theY4Kman/yaksh/token"

// NumberKind distinguishes the four numeric-literal spellings the lexer
// recognizes. The assembly generator only cares about the parsed value, but
// the kind is kept on the node for the debug printer.
type NumberKind int

const (
	Int NumberKind = iota
	Hex
	Bin
	Float
)

// Number is a numeric literal. Value is int64 for Int/Hex/Bin, float64 for
// Float.
type Number struct {
	Kind  NumberKind
	Value any
	Token token.Token
}

func (Number) isValueExpr()           {}
func (Number) isOperand()             {}
func (n Number) Accept(v Visitor) any { return v.VisitNumber(n) }

// Literal is a string literal; Text is the raw, unescaped-except-for-the-
// enclosing-quote body the lexer produced.
type Literal struct {
	Text  string
	Token token.Token
}

func (Literal) isValueExpr()           {}
func (Literal) isOperand()             {}
func (l Literal) Accept(v Visitor) any { return v.VisitLiteral(l) }

// Var is a name reference, resolved by AsmGen to either a local or a global
// slot.
type Var struct {
	Name  string
	Token token.Token
}

func (Var) isValueExpr()            {}
func (Var) isOperand()              {}
func (va Var) Accept(v Visitor) any { return v.VisitVar(va) }

// Fcall is a function call. It doubles as a value (wrapped in Value, for use
// as an operand) and as a bare statement (its result, if any, discarded).
type Fcall struct {
	Name  string
	Args  []*ValueStmt
	Token token.Token
}

func (Fcall) isValueExpr()           {}
func (Fcall) isOperand()             {}
func (Fcall) isStmt()                {}
func (f Fcall) Accept(v Visitor) any { return v.VisitFcall(f) }

// Value wraps exactly one of Number, Literal, Var, Fcall.
type Value struct {
	Inner ValueExpr
}

func (Value) isOperand()              {}
func (va Value) Accept(v Visitor) any { return v.VisitValue(va) }

// Operator is the non-operand element of a ValueStmt's item list: one of
// PLUS, MINUS, TIMES, SLASH.
type Operator struct {
	Kind  token.TokenType
	Token token.Token
}

// ValueStmtItem is one element of a ValueStmt's flat item list: either an
// Operand (Operand != nil) or an Operator (Operand == nil).
type ValueStmtItem struct {
	Operand  Operand
	Operator Operator
}

// ValueStmt is a flat, left-associative operand/operator chain. `*`/`/`
// substructure is captured by nesting a *ValueStmt as an Operand so the
// generator can fold the flat list without re-deriving precedence.
type ValueStmt struct {
	Items []ValueStmtItem
}

func (*ValueStmt) isOperand()              {}
func (*ValueStmt) isStmt()                 {}
func (vs *ValueStmt) Accept(v Visitor) any { return v.VisitValueStmt(vs) }

// CmpStmt is a single, non-chaining comparison between two value
// expressions.
type CmpStmt struct {
	Left  *ValueStmt
	Op    token.TokenType
	Right *ValueStmt
	Token token.Token
}

func (*CmpStmt) isOperand()             {}
func (*CmpStmt) isStmt()                {}
func (c *CmpStmt) Accept(v Visitor) any { return v.VisitCmpStmt(c) }
