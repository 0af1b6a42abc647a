package eval

import (
	"fmt"

	"github.com/takoeight0821/neo/ast"
	"github.com/takoeight0821/neo/token"
	"github.com/takoeight0821/neo/utils"
)

func (ev *Evaluator) eval(expr ast.Expr) (Value, error) {
	switch expr := expr.(type) {
	case *ast.Scalar:
		return Number(expr.Value), nil
	case *ast.Bool:
		return Bool(expr.Value), nil
	case *ast.String:
		return String(expr.Value), nil
	case *ast.Identifier:
		return ev.variable(expr)
	case *ast.Matrix:
		return ev.matrix(expr)
	case *ast.Function:
		return &Function{Decl: expr, Env: ev.env}, nil
	case *ast.Call:
		return ev.call(expr)
	case *ast.Unary:
		return ev.unary(expr)
	case *ast.Binary:
		return ev.binary(expr)
	case *ast.Property:
		return ev.property(expr)
	case *ast.Access:
		return ev.access(expr)
	}
	return nil, utils.ErrorAt(expr.Pos(), fmt.Sprintf("unexpected expression %T", expr))
}

func (ev *Evaluator) variable(id *ast.Identifier) (Value, error) {
	if b := ev.env.lookup(id.Name); b != nil {
		return b.value, nil
	}
	if b, ok := ev.builtins[id.Name]; ok {
		return b, nil
	}
	return nil, utils.Errorf(id.Pos(), "Variable '%s' doesn't exist", id.Name)
}

// matrix builds a fresh Matrix from a literal. The literal itself is never modified.
func (ev *Evaluator) matrix(lit *ast.Matrix) (Value, error) {
	m := &Matrix{Cells: make([][]Value, len(lit.Rows))}
	for i, row := range lit.Rows {
		m.Cells[i] = make([]Value, len(row))
		for j, cell := range row {
			v, err := ev.eval(cell)
			if err != nil {
				return nil, err
			}
			m.Cells[i][j] = v
		}
	}
	return m, nil
}

// call resolves the callee, evaluates the arguments left to right and applies.
// A plain name is looked up among the built-ins before the scope chain.
func (ev *Evaluator) call(c *ast.Call) (Value, error) {
	var callee Value
	if id, ok := c.Callee.(*ast.Identifier); ok {
		if b, ok := ev.builtins[id.Name]; ok {
			callee = b
		} else if b := ev.env.lookup(id.Name); b != nil {
			callee = b.value
		} else {
			return nil, utils.Errorf(c.Pos(), "Function '%s' doesn't exist", id.Name)
		}
	} else {
		var err error
		if callee, err = ev.eval(c.Callee); err != nil {
			return nil, err
		}
	}

	args := make([]Value, len(c.Args))
	for i, arg := range c.Args {
		v, err := ev.eval(arg)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch fn := callee.(type) {
	case *Builtin:
		return fn.Fn(ev, c.Pos(), args)
	case *Function:
		return ev.apply(c.Pos(), fn, args)
	}
	return nil, utils.Errorf(c.Pos(), "Value of type '%s' is not callable", callee.Type())
}

// apply runs the body of fn in a new frame under the captured one.
// Parameters are immutable.
func (ev *Evaluator) apply(at token.Pos, fn *Function, args []Value) (Value, error) {
	if len(args) != len(fn.Decl.Params) {
		return nil, utils.ErrorAt(at, "Incorrect number of arguments")
	}
	env := newEnv(fn.Env)
	for i, param := range fn.Decl.Params {
		env.define(param, args[i], false)
	}
	v, returned, err := ev.execBlock(fn.Decl.Body, env)
	if err != nil {
		return nil, err
	}
	if !returned {
		return None{}, nil
	}
	return v, nil
}

func (ev *Evaluator) unary(u *ast.Unary) (Value, error) {
	v, err := ev.eval(u.Operand)
	if err != nil {
		return nil, err
	}
	//exhaustive:ignore
	switch u.Op.Kind {
	case token.NOT:
		return Bool(!truthy(v)), nil
	case token.MINUS:
		return negate(u.Pos(), v)
	}
	return nil, utils.Errorf(u.Pos(), "Unknown unary operator '%s'", u.Op.Lexeme)
}

func (ev *Evaluator) binary(b *ast.Binary) (Value, error) {
	left, err := ev.eval(b.Left)
	if err != nil {
		return nil, err
	}

	// and/or yield the operand that decided the result.
	//exhaustive:ignore
	switch b.Op.Kind {
	case token.AND:
		if !truthy(left) {
			return left, nil
		}
		return ev.eval(b.Right)
	case token.OR:
		if truthy(left) {
			return left, nil
		}
		return ev.eval(b.Right)
	}

	right, err := ev.eval(b.Right)
	if err != nil {
		return nil, err
	}

	at := b.Pos()
	//exhaustive:ignore
	switch b.Op.Kind {
	case token.PLUS:
		return add(at, left, right)
	case token.MINUS:
		return sub(at, left, right)
	case token.STAR:
		return mul(at, left, right)
	case token.SLASH:
		return div(at, left, right)
	case token.CARET:
		return pow(at, left, right)
	case token.EQUALEQUAL:
		return Bool(equal(left, right)), nil
	case token.NOTEQUAL:
		return Bool(!equal(left, right)), nil
	case token.LESS, token.LESSEQUAL, token.GREATER, token.GREATEREQUAL:
		return compare(at, b.Op, left, right)
	}
	return nil, utils.Errorf(at, "Unknown binary operator '%s'", b.Op.Lexeme)
}

func (ev *Evaluator) property(p *ast.Property) (Value, error) {
	v, err := ev.eval(p.Object)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*Matrix)
	if !ok {
		return nil, utils.ErrorAt(p.Pos(), "Only matrix can have properties")
	}
	switch p.Name {
	case "det", "determinant":
		return m.Determinant(p.Pos())
	case "rowlen":
		return Number(m.Rows()), nil
	case "collen":
		return Number(m.Cols()), nil
	case "transposed":
		return m.Transposed(), nil
	case "copy":
		return m.Copy(), nil
	}
	return nil, utils.Errorf(p.Pos(), "Unknown property '%s'", p.Name)
}

func (ev *Evaluator) access(a *ast.Access) (Value, error) {
	v, err := ev.variable(a.Target)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*Matrix)
	if !ok {
		return nil, utils.ErrorAt(a.Pos(), "Only matrix can use access operation")
	}
	row, col, err := ev.indices(a.Pos(), m, a.Row, a.Column)
	if err != nil {
		return nil, err
	}
	return m.Cells[row][col], nil
}
