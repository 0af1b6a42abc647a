package eval

import (
	"fmt"
	"math"
	"strconv"

	"github.com/takoeight0821/neo/ast"
	"github.com/takoeight0821/neo/token"
)

// Value is a runtime value. The set of values is closed.
type Value interface {
	fmt.Stringer
	// Type is the name used for the value in error messages.
	Type() string
}

type Number float64

func (n Number) String() string {
	return formatNumber(float64(n))
}

func (Number) Type() string { return "Scalar" }

var _ Value = Number(0)

// formatNumber prints whole numbers without a fractional part and everything
// else with the shortest decimal that round-trips.
func formatNumber(f float64) string {
	if f == 0 {
		return "0" // also for -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isWhole(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}

type Bool bool

func (b Bool) String() string {
	if b {
		return "True"
	}
	return "False"
}

func (Bool) Type() string { return "Bool" }

var _ Value = Bool(false)

type String string

func (s String) String() string {
	return string(s)
}

func (String) Type() string { return "String" }

var _ Value = String("")

// None is the result of a call that finished without returning a value.
type None struct{}

func (None) String() string { return "None" }

func (None) Type() string { return "None" }

var _ Value = None{}

// Function represents a closure value.
// Two Function values are equal only if they are the same pointer.
type Function struct {
	Decl *ast.Function
	Env  *Env
}

func (f *Function) String() string {
	if f.Decl.Name == "" {
		return "<anonymous function>"
	}
	return fmt.Sprintf("<function %s>", f.Decl.Name)
}

func (*Function) Type() string { return "Function" }

var _ Value = &Function{}

// Builtin is a function implemented by the interpreter.
type Builtin struct {
	Name string
	Fn   func(ev *Evaluator, at token.Pos, args []Value) (Value, error)
}

func (b *Builtin) String() string {
	return fmt.Sprintf("<built-in function %s>", b.Name)
}

func (*Builtin) Type() string { return "Function" }

var _ Value = &Builtin{}

// truthy decides conditions for if, while, and, or and not.
func truthy(v Value) bool {
	switch v := v.(type) {
	case Number:
		return v != 0
	case Bool:
		return bool(v)
	case String:
		return v != ""
	case *Matrix:
		for _, row := range v.Cells {
			for _, cell := range row {
				if truthy(cell) {
					return true
				}
			}
		}
		return false
	case None:
		return false
	default:
		return true
	}
}
