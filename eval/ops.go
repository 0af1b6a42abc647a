package eval

import (
	"math"

	"github.com/takoeight0821/neo/token"
	"github.com/takoeight0821/neo/utils"
)

// Every operator lists its legal operand pairs explicitly. There is no implicit
// coercion between types.

func unsupported(at token.Pos, op string, left, right Value) error {
	return utils.Errorf(at, "Unsupported operand types for '%s': '%s' and '%s'", op, left.Type(), right.Type())
}

// elementwise applies f to each pair of cells of two matrices of the same shape.
func elementwise(at token.Pos, left, right *Matrix, f func(token.Pos, Value, Value) (Value, error)) (Value, error) {
	if !left.sameShape(right) {
		return nil, utils.ErrorAt(at, "Matrixes must have the same shape")
	}
	out := NewMatrix(left.Rows(), left.Cols(), nil)
	for i, row := range left.Cells {
		for j, cell := range row {
			v, err := f(at, cell, right.Cells[i][j])
			if err != nil {
				return nil, err
			}
			out.Cells[i][j] = v
		}
	}
	return out, nil
}

// broadcast applies f to every cell of m.
func broadcast(m *Matrix, f func(Value) (Value, error)) (Value, error) {
	out := NewMatrix(m.Rows(), m.Cols(), nil)
	for i, row := range m.Cells {
		for j, cell := range row {
			v, err := f(cell)
			if err != nil {
				return nil, err
			}
			out.Cells[i][j] = v
		}
	}
	return out, nil
}

func add(at token.Pos, left, right Value) (Value, error) {
	switch l := left.(type) {
	case Number:
		switch r := right.(type) {
		case Number:
			return l + r, nil
		case *Matrix:
			return broadcast(r, func(c Value) (Value, error) { return add(at, l, c) })
		}
	case String:
		if r, ok := right.(String); ok {
			return l + r, nil
		}
	case *Matrix:
		switch r := right.(type) {
		case *Matrix:
			return elementwise(at, l, r, add)
		case Number:
			return broadcast(l, func(c Value) (Value, error) { return add(at, c, r) })
		}
	}
	return nil, unsupported(at, "+", left, right)
}

func sub(at token.Pos, left, right Value) (Value, error) {
	if isString(left) || isString(right) {
		return nil, utils.ErrorAt(at, "Strings cannot take part in subtract operation")
	}
	switch l := left.(type) {
	case Number:
		switch r := right.(type) {
		case Number:
			return l - r, nil
		case *Matrix:
			return broadcast(r, func(c Value) (Value, error) { return sub(at, l, c) })
		}
	case *Matrix:
		switch r := right.(type) {
		case *Matrix:
			return elementwise(at, l, r, sub)
		case Number:
			return broadcast(l, func(c Value) (Value, error) { return sub(at, c, r) })
		}
	}
	return nil, unsupported(at, "-", left, right)
}

func mul(at token.Pos, left, right Value) (Value, error) {
	if isString(left) || isString(right) {
		return nil, utils.ErrorAt(at, "Strings cannot take part in multiply operation")
	}
	switch l := left.(type) {
	case Number:
		switch r := right.(type) {
		case Number:
			return l * r, nil
		case *Matrix:
			return broadcast(r, func(c Value) (Value, error) { return mul(at, l, c) })
		}
	case *Matrix:
		switch r := right.(type) {
		case *Matrix:
			return matmul(at, l, r)
		case Number:
			return broadcast(l, func(c Value) (Value, error) { return mul(at, c, r) })
		}
	}
	return nil, unsupported(at, "*", left, right)
}

// matmul is the standard row-by-column product.
func matmul(at token.Pos, left, right *Matrix) (*Matrix, error) {
	if left.Cols() != right.Rows() {
		return nil, utils.ErrorAt(at, "Wrong shapes of matrixes. Cannot multiply")
	}
	out := NewMatrix(left.Rows(), right.Cols(), nil)
	for i := 0; i < left.Rows(); i++ {
		for j := 0; j < right.Cols(); j++ {
			var sum Value
			for k := 0; k < left.Cols(); k++ {
				product, err := mul(at, left.Cells[i][k], right.Cells[k][j])
				if err != nil {
					return nil, err
				}
				if sum == nil {
					sum = product
					continue
				}
				if sum, err = add(at, sum, product); err != nil {
					return nil, err
				}
			}
			out.Cells[i][j] = sum
		}
	}
	return out, nil
}

func div(at token.Pos, left, right Value) (Value, error) {
	if isMatrix(left) || isMatrix(right) {
		return nil, utils.ErrorAt(at, "Matrixes cannot take part in divide operation")
	}
	if isString(left) || isString(right) {
		return nil, utils.ErrorAt(at, "Strings cannot take part in divide operation")
	}
	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return nil, unsupported(at, "/", left, right)
	}
	if r == 0 {
		return nil, utils.ErrorAt(at, "Cannot divide by zero")
	}
	return l / r, nil
}

func pow(at token.Pos, left, right Value) (Value, error) {
	if isString(left) || isString(right) {
		return nil, utils.ErrorAt(at, "Strings cannot take part in power operation")
	}
	r, ok := right.(Number)
	if !ok {
		return nil, unsupported(at, "^", left, right)
	}
	switch l := left.(type) {
	case Number:
		return Number(math.Pow(float64(l), float64(r))), nil
	case *Matrix:
		return matpow(at, l, r)
	}
	return nil, unsupported(at, "^", left, right)
}

// matpow multiplies a square matrix by itself k times by repeated squaring.
// k = 0 gives the identity.
func matpow(at token.Pos, m *Matrix, k Number) (*Matrix, error) {
	if !m.square() {
		return nil, utils.ErrorAt(at, "Only square matrices can be raised to a power")
	}
	if k < 0 || !isWhole(float64(k)) {
		return nil, utils.ErrorAt(at, "Matrix power can only be calculated for non-negative numbers")
	}
	result, base := identity(m.Rows()), m
	for e := float64(k); e > 0; e = math.Floor(e / 2) {
		var err error
		if math.Mod(e, 2) == 1 {
			if result, err = matmul(at, result, base); err != nil {
				return nil, err
			}
		}
		if e > 1 {
			if base, err = matmul(at, base, base); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// compare implements <, <=, > and >= for numbers and strings.
func compare(at token.Pos, op token.Token, left, right Value) (Value, error) {
	var c int
	switch l := left.(type) {
	case Number:
		r, ok := right.(Number)
		if !ok {
			return nil, incomparable(at, op, left, right)
		}
		c = cmpOrdered(l, r)
	case String:
		r, ok := right.(String)
		if !ok {
			return nil, incomparable(at, op, left, right)
		}
		c = cmpOrdered(l, r)
	default:
		return nil, incomparable(at, op, left, right)
	}

	//exhaustive:ignore
	switch op.Kind {
	case token.LESS:
		return Bool(c < 0), nil
	case token.LESSEQUAL:
		return Bool(c <= 0), nil
	case token.GREATER:
		return Bool(c > 0), nil
	case token.GREATEREQUAL:
		return Bool(c >= 0), nil
	}
	return nil, utils.Errorf(at, "Unknown comparison operator '%s'", op.Lexeme)
}

func cmpOrdered[T Number | String](l, r T) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func incomparable(at token.Pos, op token.Token, left, right Value) error {
	return utils.Errorf(at, "Types '%s' and '%s' cannot be compared with '%s' operator", left.Type(), right.Type(), op.Lexeme)
}

// equal compares by value; matrices compare shapes and then cells, functions by identity.
func equal(left, right Value) bool {
	switch l := left.(type) {
	case Number:
		r, ok := right.(Number)
		return ok && l == r
	case Bool:
		r, ok := right.(Bool)
		return ok && l == r
	case String:
		r, ok := right.(String)
		return ok && l == r
	case None:
		_, ok := right.(None)
		return ok
	case *Matrix:
		r, ok := right.(*Matrix)
		if !ok || !l.sameShape(r) {
			return false
		}
		for i, row := range l.Cells {
			for j, cell := range row {
				if !equal(cell, r.Cells[i][j]) {
					return false
				}
			}
		}
		return true
	case *Function:
		r, ok := right.(*Function)
		return ok && l == r
	case *Builtin:
		r, ok := right.(*Builtin)
		return ok && l == r
	}
	return false
}

func negate(at token.Pos, v Value) (Value, error) {
	switch v := v.(type) {
	case Number:
		return -v, nil
	case *Matrix:
		return broadcast(v, func(c Value) (Value, error) { return negate(at, c) })
	}
	return nil, utils.Errorf(at, "Unsupported operand type for unary '-': '%s'", v.Type())
}

func isString(v Value) bool {
	_, ok := v.(String)
	return ok
}

func isMatrix(v Value) bool {
	_, ok := v.(*Matrix)
	return ok
}
