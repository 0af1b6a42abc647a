package eval

import (
	"fmt"
	"io"

	"github.com/takoeight0821/neo/ast"
	"github.com/takoeight0821/neo/token"
	"github.com/takoeight0821/neo/utils"
)

// Evaluator walks the AST. The global frame survives between calls to Run,
// so one Evaluator can serve a whole REPL session.
type Evaluator struct {
	env      *Env
	global   *Env
	out      io.Writer
	builtins map[string]*Builtin
}

// NewEvaluator creates an evaluator whose print writes to out.
func NewEvaluator(out io.Writer) *Evaluator {
	global := newEnv(nil)
	return &Evaluator{
		env:      global,
		global:   global,
		out:      out,
		builtins: builtins(),
	}
}

// Globals renders the global frame.
func (ev *Evaluator) Globals() string {
	return ev.global.String()
}

// Init implements driver.Pass.
func (ev *Evaluator) Init([]ast.Node) error {
	ev.env = ev.global
	return nil
}

// Run implements driver.Pass. Programs are executed; a bare expression is
// evaluated and its value printed, which is what the REPL wants.
func (ev *Evaluator) Run(nodes []ast.Node) ([]ast.Node, error) {
	for _, node := range nodes {
		switch node := node.(type) {
		case *ast.Program:
			if err := ev.Exec(node); err != nil {
				return nodes, err
			}
		case ast.Expr:
			v, err := ev.Eval(node)
			if err != nil {
				return nodes, err
			}
			if _, err := fmt.Fprintln(ev.out, v); err != nil {
				return nodes, err
			}
		default:
			return nodes, utils.ErrorAt(node.Pos(), fmt.Sprintf("cannot run %T", node))
		}
	}
	return nodes, nil
}

// Exec runs the instructions of a program in order. A top-level return ends
// the program without an error.
func (ev *Evaluator) Exec(program *ast.Program) error {
	for _, stmt := range program.Body {
		_, returned, err := ev.exec(stmt)
		if err != nil {
			return err
		}
		if returned {
			return nil
		}
	}
	return nil
}

// Eval evaluates an expression in the global frame.
func (ev *Evaluator) Eval(expr ast.Expr) (Value, error) {
	return ev.eval(expr)
}

// exec runs one instruction. returned is true when a return statement was
// reached, in which case v is the returned value.
func (ev *Evaluator) exec(stmt ast.Stmt) (v Value, returned bool, err error) {
	switch stmt := stmt.(type) {
	case *ast.Block:
		return ev.execBlock(stmt, newEnv(ev.env))
	case *ast.Declaration:
		return nil, false, ev.declare(stmt)
	case *ast.Function:
		return nil, false, ev.declareFunction(stmt)
	case *ast.Assignment:
		if stmt.Indexed() {
			return nil, false, ev.assignIndexed(stmt)
		}
		return nil, false, ev.assign(stmt)
	case *ast.If:
		cond, err := ev.eval(stmt.Cond)
		if err != nil {
			return nil, false, err
		}
		if truthy(cond) {
			return ev.execBlock(stmt.Then, newEnv(ev.env))
		}
		if stmt.Else != nil {
			return ev.execBlock(stmt.Else, newEnv(ev.env))
		}
		return nil, false, nil
	case *ast.While:
		for {
			cond, err := ev.eval(stmt.Cond)
			if err != nil {
				return nil, false, err
			}
			if !truthy(cond) {
				return nil, false, nil
			}
			v, returned, err := ev.execBlock(stmt.Body, newEnv(ev.env))
			if err != nil || returned {
				return v, returned, err
			}
		}
	case *ast.Return:
		if stmt.Value == nil {
			return None{}, true, nil
		}
		v, err := ev.eval(stmt.Value)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	case *ast.Call:
		_, err := ev.call(stmt)
		return nil, false, err
	}
	return nil, false, utils.ErrorAt(stmt.Pos(), fmt.Sprintf("unexpected instruction %T", stmt))
}

// execBlock runs a block in env and restores the previous frame afterwards.
func (ev *Evaluator) execBlock(block *ast.Block, env *Env) (Value, bool, error) {
	prev := ev.env
	ev.env = env
	defer func() { ev.env = prev }()

	for _, stmt := range block.Body {
		v, returned, err := ev.exec(stmt)
		if err != nil || returned {
			return v, returned, err
		}
	}
	return nil, false, nil
}

func (ev *Evaluator) declare(decl *ast.Declaration) error {
	if ev.env.declared(decl.Name) {
		return utils.Errorf(decl.Pos(), "Variable '%s' already declared in this scope", decl.Name)
	}
	v, err := ev.eval(decl.Value)
	if err != nil {
		return err
	}
	ev.env.define(decl.Name, v, decl.Mutable)
	return nil
}

func (ev *Evaluator) declareFunction(fn *ast.Function) error {
	if IsBuiltin(fn.Name) {
		return utils.Errorf(fn.Pos(), "Function name '%s' is reserved for build-in function", fn.Name)
	}
	if ev.env.declared(fn.Name) {
		return utils.Errorf(fn.Pos(), "Function '%s' already declared in this scope", fn.Name)
	}
	ev.env.define(fn.Name, &Function{Decl: fn, Env: ev.env}, false)
	return nil
}

func (ev *Evaluator) assign(a *ast.Assignment) error {
	v, err := ev.eval(a.Value)
	if err != nil {
		return err
	}
	b := ev.env.lookup(a.Name)
	if b == nil {
		return utils.Errorf(a.Pos(), "Variable '%s' must be declared before assignment", a.Name)
	}
	if !b.mutable {
		return utils.Errorf(a.Pos(), "Variable '%s' is immutable and cannot be assigned to", a.Name)
	}
	b.value = v
	return nil
}

func (ev *Evaluator) assignIndexed(a *ast.Assignment) error {
	b := ev.env.lookup(a.Name)
	if b == nil {
		return utils.Errorf(a.Pos(), "Variable '%s' must be declared before assignment", a.Name)
	}
	m, ok := b.value.(*Matrix)
	if !ok {
		return utils.ErrorAt(a.Pos(), "Only matrix can use access operation")
	}
	if !b.mutable {
		return utils.Errorf(a.Pos(), "Matrix variable '%s' is immutable and cannot be modified", a.Name)
	}
	row, col, err := ev.indices(a.Pos(), m, a.Row, a.Column)
	if err != nil {
		return err
	}
	v, err := ev.eval(a.Value)
	if err != nil {
		return err
	}
	m.Cells[row][col] = v
	return nil
}

func (ev *Evaluator) indices(at token.Pos, m *Matrix, rowExpr, colExpr ast.Expr) (int, int, error) {
	rv, err := ev.eval(rowExpr)
	if err != nil {
		return 0, 0, err
	}
	cv, err := ev.eval(colExpr)
	if err != nil {
		return 0, 0, err
	}
	row, err := index(at, rv, m.Rows())
	if err != nil {
		return 0, 0, err
	}
	col, err := index(at, cv, m.Cols())
	if err != nil {
		return 0, 0, err
	}
	return row, col, nil
}
