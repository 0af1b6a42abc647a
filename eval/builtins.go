package eval

import (
	"fmt"
	"strings"

	"github.com/takoeight0821/neo/token"
	"github.com/takoeight0821/neo/utils"
)

func builtins() map[string]*Builtin {
	table := []*Builtin{
		{Name: "print", Fn: builtinPrint},
		{Name: "zeros", Fn: filled(Number(0))},
		{Name: "ones", Fn: filled(Number(1))},
	}
	m := make(map[string]*Builtin, len(table))
	for _, b := range table {
		m[b.Name] = b
	}
	return m
}

// IsBuiltin reports whether name is reserved for a built-in function.
func IsBuiltin(name string) bool {
	switch name {
	case "print", "zeros", "ones":
		return true
	}
	return false
}

// print(args...) writes its arguments separated by spaces and a newline.
func builtinPrint(ev *Evaluator, at token.Pos, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	if _, err := fmt.Fprintln(ev.out, strings.Join(parts, " ")); err != nil {
		return nil, utils.ErrorAt(at, err.Error())
	}
	return None{}, nil
}

// maxCells bounds the size of matrices built by zeros and ones.
const maxCells = 1 << 24

// filled returns zeros or ones: f(n) is n x n, f(rows, cols) is rows x cols.
func filled(fill Value) func(*Evaluator, token.Pos, []Value) (Value, error) {
	return func(_ *Evaluator, at token.Pos, args []Value) (Value, error) {
		if len(args) != 1 && len(args) != 2 {
			return nil, utils.ErrorAt(at, "Incorrect number of arguments")
		}
		dims := make([]Number, len(args))
		for i, arg := range args {
			n, ok := arg.(Number)
			if !ok || n < 1 {
				return nil, utils.ErrorAt(at, "Positive scalars expected")
			}
			if !isWhole(float64(n)) {
				return nil, utils.ErrorAt(at, "Dimensions must be whole numbers")
			}
			dims[i] = n
		}
		if len(dims) == 1 {
			dims = append(dims, dims[0])
		}
		if dims[0]*dims[1] > maxCells {
			return nil, utils.Errorf(at, "Matrix of %v x %v is too large", dims[0], dims[1])
		}
		return NewMatrix(int(dims[0]), int(dims[1]), fill), nil
	}
}
