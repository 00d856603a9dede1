// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser

//	A Recursive descent parser is a top-down parser because it starts from the top
//
// grammar rule and works its way down in to the nested sub-expressions before
// reaching the leaves of the syntax tree (terminal rules).
package parser

import (
	"fmt"
	"strings"

	"github.com/theY4Kman/yaksh/ast"
	"github.com/theY4Kman/yaksh/token"
)

// topLevelWidth is the width passed to statement-parsing helpers for a
// statement sitting directly in the script, with no enclosing block: there
// is no INDENT token in front of an `elif`/`else` continuation at this
// level, since the lexer only emits INDENT for a non-empty leading
// whitespace run.
const topLevelWidth = -1

var assignOps = map[token.TokenType]bool{
	token.ASSIGN:       true,
	token.PLUS_ASSIGN:  true,
	token.MINUS_ASSIGN: true,
	token.TIMES_ASSIGN: true,
	token.SLASH_ASSIGN: true,
}

var cmpOps = map[token.TokenType]bool{
	token.ISEQUAL:  true,
	token.NOTEQUAL: true,
	token.GT:       true,
	token.GTE:      true,
	token.LT:       true,
	token.LTE:      true,
}

// Parser is a single-token-lookahead cursor over a flat token stream.
//
// NOTE: the parser's position always points at the current (not yet
// consumed) token.
type Parser struct {
	tokens   []token.Token
	position int
}

// Make builds a Parser over the tokens produced by the lexer.
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, position: 0}
}

func (parser *Parser) peek() token.Token {
	return parser.tokens[parser.position]
}

// peekAt looks `offset` tokens ahead of the current position, clamping to
// the final token (EOF) if the offset runs past the end of input.
func (parser *Parser) peekAt(offset int) token.Token {
	idx := parser.position + offset
	if idx >= len(parser.tokens) {
		return parser.tokens[len(parser.tokens)-1]
	}
	return parser.tokens[idx]
}

func (parser *Parser) previous() token.Token {
	return parser.tokens[parser.position-1]
}

func (parser *Parser) isFinished() bool {
	return parser.peek().TokenType == token.EOF
}

func (parser *Parser) advance() token.Token {
	if !parser.isFinished() {
		parser.position++
	}
	return parser.previous()
}

func (parser *Parser) checkType(kind token.TokenType) bool {
	if parser.isFinished() && kind != token.EOF {
		return false
	}
	return parser.peek().TokenType == kind
}

func (parser *Parser) checkTypeAt(offset int, kind token.TokenType) bool {
	return parser.peekAt(offset).TokenType == kind
}

func (parser *Parser) isMatch(kinds ...token.TokenType) bool {
	for _, kind := range kinds {
		if parser.checkType(kind) {
			parser.advance()
			return true
		}
	}
	return false
}

// Consumes the current token by advancing the parser's position by one
// unit if `kind` matches the token type at the parser's current position.
//
// Returns:
//   - A SyntaxError if the provided `kind` does not match the `TokenType`
//     at the parser's current position.
func (parser *Parser) consume(kind token.TokenType, errorMessage string) (token.Token, error) {
	if parser.checkType(kind) {
		return parser.advance(), nil
	}
	cur := parser.peek()
	return token.Token{}, CreateSyntaxError(cur.Line, cur.Column, errorMessage)
}

// Parse consumes the entire token stream and returns the top-level items
// (function definitions and statements, in source order) along with any
// errors encountered. Parsing does not stop at the first error: a failing
// top-level item is skipped one token at a time until the parser
// resynchronizes, so that later errors in the same source are also
// reported.
func (parser *Parser) Parse() (ast.Script, []error) {
	script := ast.Script{Items: []any{}}
	var errors []error
	fdefNames := map[string]bool{}

	for !parser.isFinished() {
		if parser.isMatch(token.NEWLINE) {
			continue
		}
		item, err := parser.parseTop()
		if err != nil {
			errors = append(errors, err)
			if !parser.isFinished() {
				parser.advance()
			}
			continue
		}
		if fdef, ok := item.(ast.Fdef); ok {
			if fdefNames[fdef.Name] {
				errors = append(errors, CreateSyntaxError(fdef.Token.Line, fdef.Token.Column,
					fmt.Sprintf("duplicate function '%s'", fdef.Name)))
				continue
			}
			fdefNames[fdef.Name] = true
		}
		script.Items = append(script.Items, item)
	}
	return script, errors
}

func (parser *Parser) parseTop() (any, error) {
	if parser.checkType(token.R_DEF) {
		return parser.parseFdef()
	}
	return parser.parseStmt(topLevelWidth)
}

func (parser *Parser) parseFdef() (ast.Fdef, error) {
	defTok, err := parser.consume(token.R_DEF, "expected 'def'")
	if err != nil {
		return ast.Fdef{}, err
	}
	nameTok, err := parser.consume(token.NAME, "expected function name")
	if err != nil {
		return ast.Fdef{}, err
	}
	if _, err := parser.consume(token.OPEN_PAREN, "expected '(' after function name"); err != nil {
		return ast.Fdef{}, err
	}

	var params []string
	seen := map[string]bool{}
	if !parser.checkType(token.CLOSE_PAREN) {
		for {
			paramTok, err := parser.consume(token.NAME, "expected parameter name")
			if err != nil {
				return ast.Fdef{}, err
			}
			if seen[paramTok.Lexeme] {
				return ast.Fdef{}, CreateSyntaxError(paramTok.Line, paramTok.Column,
					fmt.Sprintf("duplicate parameter '%s'", paramTok.Lexeme))
			}
			seen[paramTok.Lexeme] = true
			params = append(params, paramTok.Lexeme)
			if !parser.isMatch(token.COMMA) {
				break
			}
		}
	}
	if _, err := parser.consume(token.CLOSE_PAREN, "expected ')' after parameter list"); err != nil {
		return ast.Fdef{}, err
	}
	if _, err := parser.consume(token.BLOCK_BEGIN, "expected ':' after function header"); err != nil {
		return ast.Fdef{}, err
	}
	if _, err := parser.consume(token.NEWLINE, "expected newline after ':'"); err != nil {
		return ast.Fdef{}, err
	}

	block, err := parser.parseBlock()
	if err != nil {
		return ast.Fdef{}, err
	}
	return ast.Fdef{Name: nameTok.Lexeme, Params: params, Block: block, Token: defTok}, nil
}

// parseBlock parses `(INDENT (NEWLINE | stmt))+`. The width of the block's
// INDENT is established by the first line encountered; every further line
// at this level must carry an INDENT of that exact same width. A line with
// a smaller INDENT (or none at all) ends the block without being consumed,
// so the caller can process it as a continuation or as the next line of an
// enclosing block.
func (parser *Parser) parseBlock() (ast.Block, error) {
	block := ast.Block{}
	width := -1

	for {
		if parser.checkType(token.NEWLINE) {
			parser.advance()
			continue
		}
		if !parser.checkType(token.INDENT) {
			break
		}
		lineWidth := len(parser.peek().Lexeme)
		if width == -1 {
			width = lineWidth
		} else if lineWidth < width {
			break
		} else if lineWidth > width {
			tok := parser.peek()
			return block, CreateSyntaxError(tok.Line, tok.Column, "mixed indentation")
		}
		parser.advance() // consume INDENT

		if parser.checkType(token.NEWLINE) {
			parser.advance()
			continue
		}

		stmt, err := parser.parseStmt(width)
		if err != nil {
			return block, err
		}
		block.Stmts = append(block.Stmts, stmt)

		if parser.checkType(token.NEWLINE) {
			parser.advance()
		}
	}

	if width == -1 {
		tok := parser.peek()
		return block, CreateSyntaxError(tok.Line, tok.Column, "expected an indented block")
	}
	return block, nil
}

// atContinuation reports whether the parser is positioned at a continuation
// line of a chain at the given enclosing width (an `elif`/`else` at the same
// level as the `if` that started the chain), without consuming anything.
func (parser *Parser) atContinuation(width int, kind token.TokenType) bool {
	if width == topLevelWidth {
		return parser.checkType(kind)
	}
	return parser.checkType(token.INDENT) && len(parser.peek().Lexeme) == width && parser.checkTypeAt(1, kind)
}

// consumeContinuation consumes the INDENT (if any) leading into a
// continuation line recognized by atContinuation.
func (parser *Parser) consumeContinuation(width int) {
	if width != topLevelWidth {
		parser.advance()
	}
}

func (parser *Parser) parseStmt(width int) (ast.Stmt, error) {
	switch {
	case parser.checkType(token.R_RETURN):
		return parser.parseReturnStmt()
	case parser.checkType(token.R_PASS):
		return parser.parsePassStmt()
	case parser.checkType(token.R_IF):
		return parser.parseIfChain(width)
	case parser.checkType(token.DOT):
		tok := parser.peek()
		return nil, CreateSyntaxError(tok.Line, tok.Column, "unexpected '.'")
	case parser.checkType(token.NAME):
		if assignOps[parser.peekAt(1).TokenType] {
			return parser.parseAssign()
		}
		if parser.checkTypeAt(1, token.OPEN_PAREN) {
			return parser.parseFcall()
		}
		return parser.parseValueStmt()
	default:
		return parser.parseValueStmt()
	}
}

func (parser *Parser) parseAssign() (ast.Stmt, error) {
	nameTok, err := parser.consume(token.NAME, "expected variable name")
	if err != nil {
		return nil, err
	}
	opTok := parser.advance()

	value, err := parser.parseValueStmt()
	if err != nil {
		return nil, err
	}

	if opTok.TokenType != token.ASSIGN {
		arith, ok := token.ArithOf(opTok.TokenType)
		if !ok {
			return nil, CreateSyntaxError(opTok.Line, opTok.Column, "unknown compound-assignment operator")
		}
		value = &ast.ValueStmt{Items: []ast.ValueStmtItem{
			{Operand: ast.Value{Inner: ast.Var{Name: nameTok.Lexeme, Token: nameTok}}},
			{Operator: ast.Operator{Kind: arith, Token: opTok}},
			{Operand: value},
		}}
	}

	return ast.Assign{Var: nameTok.Lexeme, Value: value, Token: nameTok}, nil
}

func (parser *Parser) parseFcall() (ast.Fcall, error) {
	nameTok, err := parser.consume(token.NAME, "expected function name")
	if err != nil {
		return ast.Fcall{}, err
	}
	if _, err := parser.consume(token.OPEN_PAREN, "expected '(' after function name"); err != nil {
		return ast.Fcall{}, err
	}

	var args []*ast.ValueStmt
	if !parser.checkType(token.CLOSE_PAREN) {
		for {
			arg, err := parser.parseValueStmt()
			if err != nil {
				return ast.Fcall{}, err
			}
			args = append(args, arg)
			if !parser.isMatch(token.COMMA) {
				break
			}
		}
	}
	if _, err := parser.consume(token.CLOSE_PAREN, "expected ')' after call arguments"); err != nil {
		return ast.Fcall{}, err
	}
	return ast.Fcall{Name: nameTok.Lexeme, Args: args, Token: nameTok}, nil
}

func (parser *Parser) parseReturnStmt() (ast.Stmt, error) {
	retTok, err := parser.consume(token.R_RETURN, "expected 'return'")
	if err != nil {
		return nil, err
	}
	var value *ast.ValueStmt
	if parser.startsValueStmt() {
		value, err = parser.parseValueStmt()
		if err != nil {
			return nil, err
		}
	}
	return ast.ReturnStmt{Value: value, Token: retTok}, nil
}

func (parser *Parser) parsePassStmt() (ast.Stmt, error) {
	tok, err := parser.consume(token.R_PASS, "expected 'pass'")
	if err != nil {
		return nil, err
	}
	return ast.PassStmt{Token: tok}, nil
}

func (parser *Parser) startsValueStmt() bool {
	switch parser.peek().TokenType {
	case token.NAME, token.NUMBER, token.LITERAL, token.OPEN_PAREN:
		return true
	default:
		return false
	}
}

// parseIfChain parses `if_chain := R_IF value_stmt ':' block
// (R_ELIF value_stmt ':' block)* (R_ELSE ':' block)?`. width is the
// indentation width of the block containing this `if` statement, used to
// recognize `elif`/`else` continuations at the same level.
func (parser *Parser) parseIfChain(width int) (ast.Stmt, error) {
	ifTok, err := parser.consume(token.R_IF, "expected 'if'")
	if err != nil {
		return nil, err
	}
	cond, err := parser.parseValueStmt()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.BLOCK_BEGIN, "expected ':' after condition"); err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.NEWLINE, "expected newline after ':'"); err != nil {
		return nil, err
	}
	block, err := parser.parseBlock()
	if err != nil {
		return nil, err
	}

	chain := ast.IfChain{Branches: []ast.IfBranch{{Cond: cond, Block: block}}, Token: ifTok}

	for parser.atContinuation(width, token.R_ELIF) {
		parser.consumeContinuation(width)
		parser.advance() // consume R_ELIF
		elifCond, err := parser.parseValueStmt()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.BLOCK_BEGIN, "expected ':' after condition"); err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.NEWLINE, "expected newline after ':'"); err != nil {
			return nil, err
		}
		elifBlock, err := parser.parseBlock()
		if err != nil {
			return nil, err
		}
		chain.Branches = append(chain.Branches, ast.IfBranch{Cond: elifCond, Block: elifBlock})
	}

	if parser.atContinuation(width, token.R_ELSE) {
		parser.consumeContinuation(width)
		parser.advance() // consume R_ELSE
		if _, err := parser.consume(token.BLOCK_BEGIN, "expected ':' after 'else'"); err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.NEWLINE, "expected newline after ':'"); err != nil {
			return nil, err
		}
		elseBlock, err := parser.parseBlock()
		if err != nil {
			return nil, err
		}
		chain.Else = &ast.ElseBranch{Block: elseBlock}
	}

	return chain, nil
}

// parseValueStmt implements `value_stmt := cmp_or_expr`. A comparison, when
// present, is wrapped in a single-item ValueStmt so every value_stmt is
// uniformly a *ast.ValueStmt, per the AST's field types.
func (parser *Parser) parseValueStmt() (*ast.ValueStmt, error) {
	left, err := parser.parseExpr()
	if err != nil {
		return nil, err
	}
	if cmpOps[parser.peek().TokenType] {
		opTok := parser.advance()
		right, err := parser.parseExpr()
		if err != nil {
			return nil, err
		}
		cmp := &ast.CmpStmt{Left: left, Op: opTok.TokenType, Right: right, Token: opTok}
		return &ast.ValueStmt{Items: []ast.ValueStmtItem{{Operand: cmp}}}, nil
	}
	return left, nil
}

// parseExpr implements `expr := term ((PLUS|MINUS) term)*`, flattening the
// whole chain into one left-associative ValueStmt.
func (parser *Parser) parseExpr() (*ast.ValueStmt, error) {
	first, err := parser.parseTerm()
	if err != nil {
		return nil, err
	}
	items := []ast.ValueStmtItem{{Operand: first}}
	for parser.checkType(token.PLUS) || parser.checkType(token.MINUS) {
		opTok := parser.advance()
		items = append(items, ast.ValueStmtItem{Operator: ast.Operator{Kind: opTok.TokenType, Token: opTok}})
		next, err := parser.parseTerm()
		if err != nil {
			return nil, err
		}
		items = append(items, ast.ValueStmtItem{Operand: next})
	}
	return &ast.ValueStmt{Items: items}, nil
}

// parseTerm implements `term := factor ((TIMES|SLASH) factor)*`. A lone
// factor is returned unwrapped so the generator doesn't have to unfold a
// redundant single-item ValueStmt; a real chain is flattened into its own
// nested ValueStmt, matching the `*`/`/` precedence-grouping convention.
func (parser *Parser) parseTerm() (ast.Operand, error) {
	first, err := parser.parseFactor()
	if err != nil {
		return nil, err
	}
	if !parser.checkType(token.TIMES) && !parser.checkType(token.SLASH) {
		return first, nil
	}
	items := []ast.ValueStmtItem{{Operand: first}}
	for parser.checkType(token.TIMES) || parser.checkType(token.SLASH) {
		opTok := parser.advance()
		items = append(items, ast.ValueStmtItem{Operator: ast.Operator{Kind: opTok.TokenType, Token: opTok}})
		next, err := parser.parseFactor()
		if err != nil {
			return nil, err
		}
		items = append(items, ast.ValueStmtItem{Operand: next})
	}
	return &ast.ValueStmt{Items: items}, nil
}

// parseFactor implements `factor := value | '(' value_stmt ')'`.
func (parser *Parser) parseFactor() (ast.Operand, error) {
	if parser.isMatch(token.OPEN_PAREN) {
		inner, err := parser.parseValueStmt()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.CLOSE_PAREN, "expected ')'"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return parser.parseValue()
}

// parseValue implements `value := fcall | Var | Number | Literal`.
func (parser *Parser) parseValue() (ast.Value, error) {
	switch {
	case parser.checkType(token.NAME):
		if parser.checkTypeAt(1, token.OPEN_PAREN) {
			fc, err := parser.parseFcall()
			if err != nil {
				return ast.Value{}, err
			}
			return ast.Value{Inner: fc}, nil
		}
		tok := parser.advance()
		return ast.Value{Inner: ast.Var{Name: tok.Lexeme, Token: tok}}, nil
	case parser.checkType(token.NUMBER):
		tok := parser.advance()
		return ast.Value{Inner: ast.Number{Kind: numberKindOf(tok.Lexeme), Value: tok.Literal, Token: tok}}, nil
	case parser.checkType(token.LITERAL):
		tok := parser.advance()
		return ast.Value{Inner: ast.Literal{Text: tok.Literal.(string), Token: tok}}, nil
	default:
		tok := parser.peek()
		return ast.Value{}, CreateSyntaxError(tok.Line, tok.Column,
			fmt.Sprintf("expected a value, got %s", tok.TokenType))
	}
}

// numberKindOf classifies a NUMBER token's lexeme the way the lexer's own
// number-scanning rules produced it: a `0x`/`0h` prefix is Hex, `0b` is Bin,
// an embedded '.' is Float, otherwise Int.
func numberKindOf(lexeme string) ast.NumberKind {
	switch {
	case strings.HasPrefix(lexeme, "0x"), strings.HasPrefix(lexeme, "0h"):
		return ast.Hex
	case strings.HasPrefix(lexeme, "0b"):
		return ast.Bin
	case strings.Contains(lexeme, "."):
		return ast.Float
	default:
		return ast.Int
	}
}
