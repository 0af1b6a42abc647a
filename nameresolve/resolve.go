// Package nameresolve checks a program for names that can never be bound.
//
// Every declaration in a block is visible to the whole block, so the check
// only reports names that no enclosing block declares at all. It does not run
// the program and does not reject programs the evaluator would accept.
package nameresolve

import (
	"errors"

	"github.com/takoeight0821/neo/ast"
	"github.com/takoeight0821/neo/eval"
	"github.com/takoeight0821/neo/token"
	"github.com/takoeight0821/neo/utils"
)

type Resolver struct {
	env    *env
	errors []error
}

func NewResolver() *Resolver {
	return &Resolver{env: newEnv(nil)}
}

type env struct {
	parent *env
	table  map[string]token.Pos
}

func newEnv(parent *env) *env {
	return &env{
		parent: parent,
		table:  make(map[string]token.Pos),
	}
}

func (r *Resolver) Name() string {
	return "nameresolve.Resolver"
}

func (r *Resolver) Init([]ast.Node) error {
	r.env = newEnv(nil)
	r.errors = nil
	return nil
}

// Run reports every problem found, joined into one error.
func (r *Resolver) Run(program []ast.Node) ([]ast.Node, error) {
	for _, node := range program {
		switch n := node.(type) {
		case *ast.Program:
			r.scope(newEnv(r.env), n.Body)
		case ast.Expr:
			r.solve(n)
		}
	}
	return program, errors.Join(r.errors...)
}

type NotDefinedError struct {
	Name  string
	Where token.Pos
}

func (e NotDefinedError) Error() string {
	return e.Unwrap().Error()
}

func (e NotDefinedError) Unwrap() error {
	return utils.Errorf(e.Where, "%s is not defined", e.Name)
}

type AlreadyDefinedError struct {
	Name  string
	Where token.Pos
	First token.Pos
}

func (e AlreadyDefinedError) Error() string {
	return e.Unwrap().Error()
}

func (e AlreadyDefinedError) Unwrap() error {
	return utils.Errorf(e.Where, "%s is already defined at %v", e.Name, e.First)
}

func (r *Resolver) define(name string, where token.Pos) {
	if first, ok := r.env.table[name]; ok {
		r.errors = append(r.errors, AlreadyDefinedError{Name: name, Where: where, First: first})
		return
	}
	r.env.table[name] = where
}

func (e *env) defined(name string) bool {
	for ; e != nil; e = e.parent {
		if _, ok := e.table[name]; ok {
			return true
		}
	}
	return false
}

func (r *Resolver) use(name string, where token.Pos) {
	if !r.env.defined(name) && !eval.IsBuiltin(name) {
		r.errors = append(r.errors, NotDefinedError{Name: name, Where: where})
	}
}

// scope registers the declarations of a block in e and then checks its body.
func (r *Resolver) scope(e *env, body []ast.Stmt) {
	r.env = e
	defer func() { r.env = r.env.parent }()

	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.Declaration:
			r.define(s.Name, s.Pos())
		case *ast.Function:
			r.define(s.Name, s.Pos())
		}
	}
	for _, stmt := range body {
		r.solve(stmt)
	}
}

func (r *Resolver) function(f *ast.Function) {
	e := newEnv(r.env)
	for _, param := range f.Params {
		if first, ok := e.table[param]; ok {
			r.errors = append(r.errors, AlreadyDefinedError{Name: param, Where: f.Pos(), First: first})
			continue
		}
		e.table[param] = f.Pos()
	}
	// Parameters and the body share one frame.
	r.scope(e, f.Body.Body)
}

func (r *Resolver) solve(node ast.Node) {
	switch n := node.(type) {
	case *ast.Block:
		r.scope(newEnv(r.env), n.Body)
	case *ast.Function:
		r.function(n)
	case *ast.Identifier:
		r.use(n.Name, n.Pos())
	case *ast.Assignment:
		r.use(n.Name, n.Pos())
		r.children(n)
	case *ast.Access:
		r.use(n.Target.Name, n.Pos())
		r.solve(n.Row)
		r.solve(n.Column)
	case *ast.Property:
		// The property name is not a variable.
		r.solve(n.Object)
	default:
		r.children(n)
	}
}

func (r *Resolver) children(node ast.Node) {
	for _, child := range node.Children() {
		r.solve(child)
	}
}
