package parser

import (
	"fmt"

	"github.com/takoeight0821/neo/ast"
	"github.com/takoeight0821/neo/lexer"
	"github.com/takoeight0821/neo/token"
	"github.com/takoeight0821/neo/utils"
)

// Parser is a recursive descent parser with one token of lookahead.
// It pulls tokens from the lexer as it goes and stops at the first error.
type Parser struct {
	lexer   *lexer.Lexer
	tok     token.Token
	started bool
}

func NewParser(l *lexer.Lexer) *Parser {
	return &Parser{lexer: l}
}

// ParseProgram parses a whole source file.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	if err := p.start(); err != nil {
		return nil, err
	}
	program := &ast.Program{}
	for !p.match(token.EOF) {
		stmt, err := p.instruction()
		if err != nil {
			return nil, err
		}
		program.Body = append(program.Body, stmt)
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return program, nil
}

// ParseExpr parses a single expression followed by an optional ';' and EOF.
func (p *Parser) ParseExpr() (ast.Expr, error) {
	if err := p.start(); err != nil {
		return nil, err
	}
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return expr, nil
}

// instruction = block | if | while | return | declaration | functionDecl | assignment | callStmt ;
func (p *Parser) instruction() (ast.Stmt, error) {
	//exhaustive:ignore
	switch p.tok.Kind {
	case token.LEFTBRACE:
		return p.block()
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.RETURN:
		return p.returnStmt()
	case token.VAR:
		return p.declaration()
	case token.FUNCTION:
		return p.functionStmt()
	default:
		return p.simpleStmt()
	}
}

// functionStmt = functionDecl | anonymousFunction callTail ";"? ;
// functionDecl = ("function" | "func") IDENT "(" params ")" block ;
//
// An anonymous function at the start of an instruction must be called immediately.
func (p *Parser) functionStmt() (ast.Stmt, error) {
	keyword, err := p.expect(token.FUNCTION)
	if err != nil {
		return nil, err
	}
	if !p.match(token.IDENT) {
		fn, err := p.functionRest(keyword)
		if err != nil {
			return nil, err
		}
		call, err := p.callTail(fn)
		if err != nil {
			return nil, err
		}
		return call, p.terminator()
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	fn, err := p.functionRest(keyword)
	if err != nil {
		return nil, err
	}
	fn.Name = name.Lexeme
	return fn, nil
}

// functionRest = "(" params ")" block ;
// params = (IDENT ("," IDENT)*)? ;
func (p *Parser) functionRest(keyword token.Token) (*ast.Function, error) {
	if _, err := p.expect(token.LEFTPAREN); err != nil {
		return nil, err
	}
	params := []string{}
	if !p.match(token.RIGHTPAREN) {
		for {
			param, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			params = append(params, param.Lexeme)
			if !p.match(token.COMMA) {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RIGHTPAREN); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Params: params, Body: body, At: keyword.Pos()}, nil
}

// block = "{" instruction* "}" ;
func (p *Parser) block() (*ast.Block, error) {
	open, err := p.expect(token.LEFTBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.Block{At: open.Pos()}
	for !p.match(token.RIGHTBRACE) {
		if p.match(token.EOF) {
			return nil, p.unexpected(token.RIGHTBRACE.String())
		}
		stmt, err := p.instruction()
		if err != nil {
			return nil, err
		}
		block.Body = append(block.Body, stmt)
	}
	if _, err := p.expect(token.RIGHTBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

// if = "if" "(" expr ")" block ("else" (block | if))? ;
func (p *Parser) ifStmt() (*ast.If, error) {
	keyword, err := p.expect(token.IF)
	if err != nil {
		return nil, err
	}
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Cond: cond, Then: then, At: keyword.Pos()}
	if !p.match(token.ELSE) {
		return stmt, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.match(token.IF) {
		// `else if` is sugar for an else block holding a single if.
		at := p.tok.Pos()
		nested, err := p.ifStmt()
		if err != nil {
			return nil, err
		}
		stmt.Else = &ast.Block{Body: []ast.Stmt{nested}, At: at}
		return stmt, nil
	}
	stmt.Else, err = p.block()
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// while = "while" "(" expr ")" block ;
func (p *Parser) whileStmt() (*ast.While, error) {
	keyword, err := p.expect(token.WHILE)
	if err != nil {
		return nil, err
	}
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, At: keyword.Pos()}, nil
}

func (p *Parser) condition() (ast.Expr, error) {
	if _, err := p.expect(token.LEFTPAREN); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RIGHTPAREN); err != nil {
		return nil, err
	}
	return cond, nil
}

// return = "return" expr? ";"? ;
func (p *Parser) returnStmt() (*ast.Return, error) {
	keyword, err := p.expect(token.RETURN)
	if err != nil {
		return nil, err
	}
	stmt := &ast.Return{At: keyword.Pos()}
	if !p.match(token.SEMICOLON) && !p.match(token.RIGHTBRACE) && !p.match(token.EOF) {
		stmt.Value, err = p.expr()
		if err != nil {
			return nil, err
		}
	}
	return stmt, p.terminator()
}

// declaration = "var" "mut"? IDENT "=" expr ";"? ;
func (p *Parser) declaration() (*ast.Declaration, error) {
	keyword, err := p.expect(token.VAR)
	if err != nil {
		return nil, err
	}
	decl := &ast.Declaration{At: keyword.Pos()}
	if p.match(token.MUT) {
		decl.Mutable = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl.Name = name.Lexeme
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	decl.Value, err = p.expr()
	if err != nil {
		return nil, err
	}
	return decl, p.terminator()
}

// assignment = IDENT ("[" expr "," expr "]")? "=" expr ";"? ;
// callStmt = call ";"? ;
//
// The target is parsed as an ordinary expression first; an identifier or an
// access followed by "=" becomes an assignment.
func (p *Parser) simpleStmt() (ast.Stmt, error) {
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}

	if p.match(token.ASSIGN) {
		var stmt *ast.Assignment
		switch target := expr.(type) {
		case *ast.Identifier:
			stmt = &ast.Assignment{Name: target.Name, At: target.Pos()}
		case *ast.Access:
			stmt = &ast.Assignment{Name: target.Target.Name, Row: target.Row, Column: target.Column, At: target.Pos()}
		default:
			return nil, utils.ErrorAt(expr.Pos(), "Invalid assignment target")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		stmt.Value, err = p.expr()
		if err != nil {
			return nil, err
		}
		return stmt, p.terminator()
	}

	call, ok := expr.(*ast.Call)
	if !ok {
		return nil, p.unexpected(token.ASSIGN.String(), "function call")
	}
	return call, p.terminator()
}

// terminator consumes an optional ';'.
func (p *Parser) terminator() error {
	if p.match(token.SEMICOLON) {
		return p.advance()
	}
	return nil
}

// expr = pipe ;
func (p *Parser) expr() (ast.Expr, error) {
	return p.pipe()
}

// pipe = or ("|>" or)* ;
func (p *Parser) pipe() (ast.Expr, error) {
	left, err := p.or()
	if err != nil {
		return nil, err
	}
	for p.match(token.PIPE) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		callee, err := p.or()
		if err != nil {
			return nil, err
		}
		left = &ast.Call{Callee: callee, Args: []ast.Expr{left}, At: callee.Pos()}
	}
	return left, nil
}

// or = and ("or" and)* ;
func (p *Parser) or() (ast.Expr, error) {
	return p.binary(p.and, token.OR)
}

// and = equality ("and" equality)* ;
func (p *Parser) and() (ast.Expr, error) {
	return p.binary(p.equality, token.AND)
}

// equality = comparison (("==" | "!=") comparison)* ;
func (p *Parser) equality() (ast.Expr, error) {
	return p.binary(p.comparison, token.EQUALEQUAL, token.NOTEQUAL)
}

// comparison = term (("<" | "<=" | ">" | ">=") term)* ;
func (p *Parser) comparison() (ast.Expr, error) {
	return p.binary(p.term, token.LESS, token.LESSEQUAL, token.GREATER, token.GREATEREQUAL)
}

// term = factor (("+" | "-") factor)* ;
func (p *Parser) term() (ast.Expr, error) {
	return p.binary(p.factor, token.PLUS, token.MINUS)
}

// factor = power (("*" | "/") power)* ;
func (p *Parser) factor() (ast.Expr, error) {
	return p.binary(p.power, token.STAR, token.SLASH)
}

// power = unary ("^" unary)* ;
func (p *Parser) power() (ast.Expr, error) {
	return p.binary(p.unary, token.CARET)
}

// binary parses one left-associative precedence level.
func (p *Parser) binary(operand func() (ast.Expr, error), ops ...token.Kind) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Op: op, Right: right}
	}
	return left, nil
}

// unary = ("not" | "-") unary | primary ;
func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.NOT, token.MINUS) {
		op := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Operand: operand}, nil
	}
	return p.postfix()
}

// postfix = primary propertyTail* ;
func (p *Parser) postfix() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(token.DOT) {
		if expr, err = p.propertyTail(expr); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

// primary = "(" expr ")" | literal ;
// literal = BOOL | STRING | SCALAR | matrix | IDENT (callTail | accessTail)? | anonymousFunction ;
func (p *Parser) primary() (ast.Expr, error) {
	tok := p.tok
	//exhaustive:ignore
	switch tok.Kind {
	case token.LEFTPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RIGHTPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.BOOL:
		return &ast.Bool{Value: tok.Literal.(bool), At: tok.Pos()}, p.advance()
	case token.STRING:
		return &ast.String{Value: tok.Literal.(string), At: tok.Pos()}, p.advance()
	case token.SCALAR:
		return &ast.Scalar{Value: tok.Literal.(float64), At: tok.Pos()}, p.advance()
	case token.LEFTBRACKET:
		return p.matrix()
	case token.IDENT:
		return p.identifier()
	case token.FUNCTION:
		return p.anonymousFunction()
	default:
		return nil, p.unexpected("expression")
	}
}

// IDENT (callTail | accessTail)?
func (p *Parser) identifier() (ast.Expr, error) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	ident := &ast.Identifier{Name: name.Lexeme, At: name.Pos()}

	//exhaustive:ignore
	switch p.tok.Kind {
	case token.LEFTPAREN:
		return p.callTail(ident)
	case token.LEFTBRACKET:
		return p.accessTail(ident)
	default:
		return ident, nil
	}
}

// callTail = "(" (expr ("," expr)*)? ")" ;
func (p *Parser) callTail(callee ast.Expr) (*ast.Call, error) {
	if _, err := p.expect(token.LEFTPAREN); err != nil {
		return nil, err
	}
	args := []ast.Expr{}
	if !p.match(token.RIGHTPAREN) {
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RIGHTPAREN); err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee, Args: args, At: callee.Pos()}, nil
}

// propertyTail = "." IDENT ;
func (p *Parser) propertyTail(object ast.Expr) (*ast.Property, error) {
	if _, err := p.expect(token.DOT); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.Property{Object: object, Name: name.Lexeme}, nil
}

// accessTail = "[" expr "," expr "]" ;
func (p *Parser) accessTail(target *ast.Identifier) (*ast.Access, error) {
	if _, err := p.expect(token.LEFTBRACKET); err != nil {
		return nil, err
	}
	row, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return nil, err
	}
	column, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RIGHTBRACKET); err != nil {
		return nil, err
	}
	return &ast.Access{Target: target, Row: row, Column: column}, nil
}

// anonymousFunction = ("function" | "func") functionRest callTail? ;
func (p *Parser) anonymousFunction() (ast.Expr, error) {
	keyword, err := p.expect(token.FUNCTION)
	if err != nil {
		return nil, err
	}
	fn, err := p.functionRest(keyword)
	if err != nil {
		return nil, err
	}
	if p.match(token.LEFTPAREN) {
		return p.callTail(fn)
	}
	return fn, nil
}

// matrix = "[" row ("|" row)* "]" ;
// row = expr ("," expr)* ;
func (p *Parser) matrix() (*ast.Matrix, error) {
	open, err := p.expect(token.LEFTBRACKET)
	if err != nil {
		return nil, err
	}
	if p.match(token.RIGHTBRACKET) {
		return nil, EmptyMatrixError{Where: open.Pos()}
	}

	matrix := &ast.Matrix{At: open.Pos()}
	for {
		row, err := p.row()
		if err != nil {
			return nil, err
		}
		matrix.Rows = append(matrix.Rows, row)
		if !p.match(token.BAR) {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RIGHTBRACKET); err != nil {
		return nil, err
	}

	for _, row := range matrix.Rows[1:] {
		if len(row) != len(matrix.Rows[0]) {
			return nil, InvalidMatrixError{Where: open.Pos()}
		}
	}
	return matrix, nil
}

func (p *Parser) row() ([]ast.Expr, error) {
	var row []ast.Expr
	for {
		cell, err := p.expr()
		if err != nil {
			return nil, err
		}
		row = append(row, cell)
		if !p.match(token.COMMA) {
			return row, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) start() error {
	if p.started {
		return nil
	}
	p.started = true
	return p.advance()
}

// advance pulls the next token from the lexer into the lookahead slot.
func (p *Parser) advance() error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.tok.Kind == kind {
			return true
		}
	}
	return false
}

// expect consumes and returns the current token if it has the given kind.
func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if !p.match(kind) {
		return p.tok, p.unexpected(kind.String())
	}
	tok := p.tok
	if kind == token.EOF {
		return tok, nil
	}
	return tok, p.advance()
}

func (p *Parser) unexpected(expected ...string) error {
	return UnexpectedTokenError{Expected: expected, Got: p.tok}
}

type UnexpectedTokenError struct {
	Expected []string
	Got      token.Token
}

func (e UnexpectedTokenError) Error() string {
	return e.Unwrap().Error()
}

func (e UnexpectedTokenError) Unwrap() error {
	var msg string
	if len(e.Expected) >= 1 {
		msg = e.Expected[0]
	}

	for _, ex := range e.Expected[1:] {
		msg = msg + " or " + ex
	}

	return utils.ErrorAt(e.Got.Pos(), fmt.Sprintf("Expected %s, got %v with value \"%s\"", msg, e.Got.Kind, e.Got.Lexeme))
}

type InvalidMatrixError struct {
	Where token.Pos
}

func (e InvalidMatrixError) Error() string {
	return e.Unwrap().Error()
}

func (e InvalidMatrixError) Unwrap() error {
	return utils.ErrorAt(e.Where, "Matrix rows must be the same length")
}

type EmptyMatrixError struct {
	Where token.Pos
}

func (e EmptyMatrixError) Error() string {
	return e.Unwrap().Error()
}

func (e EmptyMatrixError) Unwrap() error {
	return utils.ErrorAt(e.Where, "Matrix cannot be empty")
}
