package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/takoeight0821/neo/token"
)

// AST

// Node is implemented by every syntax node. The set of nodes is closed:
// the evaluator switches over the concrete types declared in this file.
type Node interface {
	fmt.Stringer
	Pos() token.Pos
	// Children returns the direct child nodes in source order.
	Children() []Node
	node()
}

// Stmt is a node that may appear as an instruction.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a node that produces a value.
type Expr interface {
	Node
	exprNode()
}

type Program struct {
	Body []Stmt
}

func (p Program) String() string {
	return parenthesize("program", concat(p.Body)).String()
}

func (p *Program) Pos() token.Pos {
	if len(p.Body) == 0 {
		return token.Pos{Line: 1, Column: 1}
	}
	return p.Body[0].Pos()
}

func (p *Program) Children() []Node {
	return nodes(p.Body)
}

func (*Program) node() {}

// Function is both a declaration (when Name is set) and an anonymous function literal.
type Function struct {
	Name   string // empty for anonymous functions
	Params []string
	Body   *Block
	At     token.Pos
}

func (f Function) String() string {
	name := f.Name
	if name == "" {
		name = "anonymous"
	}
	return parenthesize("function "+name, parenthesize("", words(f.Params)), f.Body).String()
}

func (f *Function) Pos() token.Pos { return f.At }

func (f *Function) Children() []Node { return []Node{f.Body} }

func (*Function) node()     {}
func (*Function) stmtNode() {}
func (*Function) exprNode() {}

var (
	_ Stmt = &Function{}
	_ Expr = &Function{}
)

type Block struct {
	Body []Stmt
	At   token.Pos
}

func (b Block) String() string {
	return parenthesize("block", concat(b.Body)).String()
}

func (b *Block) Pos() token.Pos { return b.At }

func (b *Block) Children() []Node { return nodes(b.Body) }

func (*Block) node()     {}
func (*Block) stmtNode() {}

var _ Stmt = &Block{}

type Declaration struct {
	Name    string
	Mutable bool
	Value   Expr
	At      token.Pos
}

func (d Declaration) String() string {
	head := "var"
	if d.Mutable {
		head = "var mut"
	}
	return parenthesize(head+" "+d.Name, d.Value).String()
}

func (d *Declaration) Pos() token.Pos { return d.At }

func (d *Declaration) Children() []Node { return []Node{d.Value} }

func (*Declaration) node()     {}
func (*Declaration) stmtNode() {}

var _ Stmt = &Declaration{}

// Assignment writes to a variable, or to one matrix cell when Row and Column are set.
type Assignment struct {
	Name   string
	Row    Expr
	Column Expr
	Value  Expr
	At     token.Pos
}

func (a Assignment) String() string {
	if a.Row != nil {
		return parenthesize("assign "+a.Name, a.Row, a.Column, a.Value).String()
	}
	return parenthesize("assign "+a.Name, a.Value).String()
}

func (a *Assignment) Pos() token.Pos { return a.At }

func (a *Assignment) Indexed() bool { return a.Row != nil }

func (a *Assignment) Children() []Node {
	if a.Indexed() {
		return []Node{a.Row, a.Column, a.Value}
	}
	return []Node{a.Value}
}

func (*Assignment) node()     {}
func (*Assignment) stmtNode() {}

var _ Stmt = &Assignment{}

type If struct {
	Cond Expr
	Then *Block
	Else *Block // nil when there is no else branch
	At   token.Pos
}

func (i If) String() string {
	if i.Else == nil {
		return parenthesize("if", i.Cond, i.Then).String()
	}
	return parenthesize("if", i.Cond, i.Then, i.Else).String()
}

func (i *If) Pos() token.Pos { return i.At }

func (i *If) Children() []Node {
	if i.Else == nil {
		return []Node{i.Cond, i.Then}
	}
	return []Node{i.Cond, i.Then, i.Else}
}

func (*If) node()     {}
func (*If) stmtNode() {}

var _ Stmt = &If{}

type While struct {
	Cond Expr
	Body *Block
	At   token.Pos
}

func (w While) String() string {
	return parenthesize("while", w.Cond, w.Body).String()
}

func (w *While) Pos() token.Pos { return w.At }

func (w *While) Children() []Node { return []Node{w.Cond, w.Body} }

func (*While) node()     {}
func (*While) stmtNode() {}

var _ Stmt = &While{}

type Return struct {
	Value Expr // nil for a bare return
	At    token.Pos
}

func (r Return) String() string {
	if r.Value == nil {
		return "(return)"
	}
	return parenthesize("return", r.Value).String()
}

func (r *Return) Pos() token.Pos { return r.At }

func (r *Return) Children() []Node {
	if r.Value == nil {
		return nil
	}
	return []Node{r.Value}
}

func (*Return) node()     {}
func (*Return) stmtNode() {}

var _ Stmt = &Return{}

// Call is a function call. `a |> f` is parsed into Call{Callee: f, Args: [a]}.
type Call struct {
	Callee Expr
	Args   []Expr
	At     token.Pos
}

func (c Call) String() string {
	return parenthesize("call", c.Callee, concat(c.Args)).String()
}

func (c *Call) Pos() token.Pos { return c.At }

func (c *Call) Children() []Node {
	return append([]Node{c.Callee}, nodes(c.Args)...)
}

func (*Call) node()     {}
func (*Call) stmtNode() {}
func (*Call) exprNode() {}

var (
	_ Stmt = &Call{}
	_ Expr = &Call{}
)

type Binary struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (b Binary) String() string {
	return parenthesize("binary", b.Left, lexeme(b.Op), b.Right).String()
}

// Pos of a binary expression is the start of its left operand.
func (b *Binary) Pos() token.Pos { return b.Left.Pos() }

func (b *Binary) Children() []Node { return []Node{b.Left, b.Right} }

func (*Binary) node()     {}
func (*Binary) exprNode() {}

var _ Expr = &Binary{}

type Unary struct {
	Op      token.Token
	Operand Expr
}

func (u Unary) String() string {
	return parenthesize("unary", lexeme(u.Op), u.Operand).String()
}

func (u *Unary) Pos() token.Pos { return u.Op.Pos() }

func (u *Unary) Children() []Node { return []Node{u.Operand} }

func (*Unary) node()     {}
func (*Unary) exprNode() {}

var _ Expr = &Unary{}

type Identifier struct {
	Name string
	At   token.Pos
}

func (i Identifier) String() string {
	return parenthesize("var", word(i.Name)).String()
}

func (i *Identifier) Pos() token.Pos { return i.At }

func (*Identifier) Children() []Node { return nil }

func (*Identifier) node()     {}
func (*Identifier) exprNode() {}

var _ Expr = &Identifier{}

type Scalar struct {
	Value float64
	At    token.Pos
}

func (s Scalar) String() string {
	return parenthesize("scalar", word(strconv.FormatFloat(s.Value, 'f', -1, 64))).String()
}

func (s *Scalar) Pos() token.Pos { return s.At }

func (*Scalar) Children() []Node { return nil }

func (*Scalar) node()     {}
func (*Scalar) exprNode() {}

var _ Expr = &Scalar{}

type Bool struct {
	Value bool
	At    token.Pos
}

func (b Bool) String() string {
	if b.Value {
		return "(bool True)"
	}
	return "(bool False)"
}

func (b *Bool) Pos() token.Pos { return b.At }

func (*Bool) Children() []Node { return nil }

func (*Bool) node()     {}
func (*Bool) exprNode() {}

var _ Expr = &Bool{}

type String struct {
	Value string
	At    token.Pos
}

func (s String) String() string {
	return parenthesize("string", word(strconv.Quote(s.Value))).String()
}

func (s *String) Pos() token.Pos { return s.At }

func (*String) Children() []Node { return nil }

func (*String) node()     {}
func (*String) exprNode() {}

var _ Expr = &String{}

// Matrix is a matrix literal. The parser guarantees len(Rows) > 0 and equal row lengths.
type Matrix struct {
	Rows [][]Expr
	At   token.Pos
}

func (m Matrix) String() string {
	rows := make([]fmt.Stringer, len(m.Rows))
	for i, row := range m.Rows {
		rows[i] = parenthesize("row", concat(row))
	}
	return parenthesize("matrix", concat(rows)).String()
}

func (m *Matrix) Pos() token.Pos { return m.At }

func (m *Matrix) Children() []Node {
	var children []Node
	for _, row := range m.Rows {
		children = append(children, nodes(row)...)
	}
	return children
}

func (*Matrix) node()     {}
func (*Matrix) exprNode() {}

var _ Expr = &Matrix{}

// Property is `object.name`.
type Property struct {
	Object Expr
	Name   string
}

func (p Property) String() string {
	return parenthesize("property", p.Object, word(p.Name)).String()
}

func (p *Property) Pos() token.Pos { return p.Object.Pos() }

func (p *Property) Children() []Node { return []Node{p.Object} }

func (*Property) node()     {}
func (*Property) exprNode() {}

var _ Expr = &Property{}

// Access is `name[row, column]`.
type Access struct {
	Target *Identifier
	Row    Expr
	Column Expr
}

func (a Access) String() string {
	return parenthesize("access", a.Target, a.Row, a.Column).String()
}

func (a *Access) Pos() token.Pos { return a.Target.Pos() }

func (a *Access) Children() []Node { return []Node{a.Target, a.Row, a.Column} }

func (*Access) node()     {}
func (*Access) exprNode() {}

var _ Expr = &Access{}

type word string

func (w word) String() string { return string(w) }

func words(ws []string) fmt.Stringer {
	elems := make([]word, len(ws))
	for i, w := range ws {
		elems[i] = word(w)
	}
	return concat(elems)
}

func lexeme(t token.Token) fmt.Stringer {
	return word(t.Lexeme)
}

func nodes[T Node](elems []T) []Node {
	ns := make([]Node, len(elems))
	for i, elem := range elems {
		ns[i] = elem
	}
	return ns
}

// parenthesize takes a head string and a variadic number of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is parenthesized and separated by a space.
// If the head string is not empty, it is added at the beginning of the string.
func parenthesize(head string, elems ...fmt.Stringer) fmt.Stringer {
	var b strings.Builder
	b.WriteString("(")
	elemsStr := concat(elems).String()
	if head != "" {
		b.WriteString(head)
	}
	if elemsStr != "" {
		if head != "" {
			b.WriteString(" ")
		}
		b.WriteString(elemsStr)
	}
	b.WriteString(")")
	return &b
}

// concat takes a slice of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is separated by a space.
func concat[T fmt.Stringer](elems []T) fmt.Stringer {
	var b strings.Builder
	for _, elem := range elems {
		// ignore empty string
		// e.g. concat({}) == ""
		str := elem.String()
		if str == "" {
			continue
		}
		if b.Len() != 0 {
			b.WriteString(" ")
		}
		b.WriteString(str)
	}
	return &b
}

// Universe returns n and all of its descendants in depth-first pre-order.
func Universe(n Node) []Node {
	all := []Node{n}
	for _, child := range n.Children() {
		all = append(all, Universe(child)...)
	}
	return all
}
