package eval

import (
	"math"
	"strings"

	"github.com/cottand/hunch/frontend/cst"
)

// applyOperator applies a binary operator to plain operands
func applyOperator(op string, l, r Value, at cst.Range) (Value, error) {
	switch op {
	case "+":
		if s, ok := l.(Str); ok {
			return s + Str(r.Inspect()), nil
		}
		if s, ok := r.(Str); ok {
			return Str(l.Inspect()) + s, nil
		}
		if ll, ok := l.(*List); ok {
			if rl, ok := r.(*List); ok {
				items := append(append([]Value(nil), ll.Items...), rl.Items...)
				return &List{Items: items, Mutable: ll.Mutable}, nil
			}
		}
		return arithmetic(op, l, r, at)
	case "-", "*", "/", "%":
		return arithmetic(op, l, r, at)
	case "==":
		return Bool(Equal(l, r)), nil
	case "!=":
		return Bool(!Equal(l, r)), nil
	case "<", "<=", ">", ">=":
		return compare(op, l, r, at)
	default:
		return nil, typeErrorf(at, "unknown operator '%s'", op)
	}
}

// arithmetic keeps Int operands Int, and widens to Float otherwise
func arithmetic(op string, l, r Value, at cst.Range) (Value, error) {
	li, lInt := l.(Int)
	ri, rInt := r.(Int)
	if lInt && rInt {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		case "/", "%":
			if ri == 0 {
				return nil, typeErrorf(at, "division by zero")
			}
			if op == "/" {
				return li / ri, nil
			}
			return li % ri, nil
		}
	}
	x, y, ok := numericPair(l, r)
	if !ok {
		return nil, typeErrorf(at, "operator '%s' cannot be applied to '%v' and '%v'", op, l.Type(), r.Type())
	}
	switch op {
	case "+":
		return Float(x + y), nil
	case "-":
		return Float(x - y), nil
	case "*":
		return Float(x * y), nil
	case "/":
		return Float(x / y), nil
	default:
		return Float(math.Mod(x, y)), nil
	}
}

func compare(op string, l, r Value, at cst.Range) (Value, error) {
	var c int
	if x, y, ok := numericPair(l, r); ok {
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	} else if ls, ok := l.(Str); ok {
		rs, ok := r.(Str)
		if !ok {
			return nil, typeErrorf(at, "operator '%s' cannot be applied to '%v' and '%v'", op, l.Type(), r.Type())
		}
		c = strings.Compare(string(ls), string(rs))
	} else {
		return nil, typeErrorf(at, "operator '%s' cannot be applied to '%v' and '%v'", op, l.Type(), r.Type())
	}
	switch op {
	case "<":
		return Bool(c < 0), nil
	case "<=":
		return Bool(c <= 0), nil
	case ">":
		return Bool(c > 0), nil
	default:
		return Bool(c >= 0), nil
	}
}

func toFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Float:
		return float64(v), true
	default:
		return 0, false
	}
}

func numericPair(a, b Value) (float64, float64, bool) {
	x, ok := toFloat(a)
	if !ok {
		return 0, 0, false
	}
	y, ok := toFloat(b)
	return x, y, ok
}
