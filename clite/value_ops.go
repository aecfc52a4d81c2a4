package clite

import (
	"math"
	"strings"
)

func unsupportedBinary(op string, left, right Value) error {
	return &UnsupportedOperationError{Operator: op, Left: left.Kind(), Right: right.Kind()}
}

func binaryOp(op string, left, right Value) (Value, error) {
	switch op {
	case "==":
		return NewBool(left.Equal(right)), nil
	case "!=":
		return NewBool(!left.Equal(right)), nil
	case "<", "<=", ">", ">=":
		return compareValues(op, left, right)
	case "+", "-", "*", "/", "%":
		return arithmetic(op, left, right)
	default:
		return NewNull(), unsupportedBinary(op, left, right)
	}
}

func arithmetic(op string, left, right Value) (Value, error) {
	switch {
	case left.Kind() == KindInt && right.Kind() == KindInt:
		return intArithmetic(op, left.Int(), right.Int())
	case left.isNumeric() && right.isNumeric():
		return floatArithmetic(op, left.Float(), right.Float())
	case op == "+" && left.Kind() == KindString && right.Kind() == KindString:
		return NewString(left.Str() + right.Str()), nil
	case op == "*" && left.Kind() == KindString && right.Kind() == KindInt:
		return repeatString(left.Str(), right.Int())
	case op == "*" && left.Kind() == KindInt && right.Kind() == KindString:
		return repeatString(right.Str(), left.Int())
	default:
		return NewNull(), unsupportedBinary(op, left, right)
	}
}

func intArithmetic(op string, l, r int64) (Value, error) {
	switch op {
	case "+":
		sum := l + r
		if (sum > l) != (r > 0) {
			return NewNull(), errIntOverflow(op)
		}
		return NewInt(sum), nil
	case "-":
		diff := l - r
		if (diff < l) != (r > 0) {
			return NewNull(), errIntOverflow(op)
		}
		return NewInt(diff), nil
	case "*":
		if l == 0 || r == 0 {
			return NewInt(0), nil
		}
		product := l * r
		if product/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return NewNull(), errIntOverflow(op)
		}
		return NewInt(product), nil
	case "/":
		if r == 0 {
			return NewNull(), &ArithmeticError{Msg: "integer division by zero"}
		}
		return NewFloat(float64(l) / float64(r)), nil
	case "%":
		if r == 0 {
			return NewNull(), &ArithmeticError{Msg: "integer modulo by zero"}
		}
		if r == -1 {
			return NewInt(0), nil
		}
		// The result takes the sign of the divisor.
		m := l % r
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return NewInt(m), nil
	}
	return NewNull(), &UnsupportedOperationError{Operator: op, Left: KindInt, Right: KindInt}
}

func errIntOverflow(op string) error {
	return &ArithmeticError{Msg: "integer overflow in '" + op + "'"}
}

func floatArithmetic(op string, l, r float64) (Value, error) {
	switch op {
	case "+":
		return NewFloat(l + r), nil
	case "-":
		return NewFloat(l - r), nil
	case "*":
		return NewFloat(l * r), nil
	case "/":
		if r == 0 {
			return NewNull(), &ArithmeticError{Msg: "float division by zero"}
		}
		return NewFloat(l / r), nil
	case "%":
		if r == 0 {
			return NewNull(), &ArithmeticError{Msg: "float modulo by zero"}
		}
		m := math.Mod(l, r)
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return NewFloat(m), nil
	}
	return NewNull(), &UnsupportedOperationError{Operator: op, Left: KindFloat, Right: KindFloat}
}

// maxRepeatLen caps the byte length of a repeated string.
const maxRepeatLen = 1 << 28

func repeatString(s string, n int64) (Value, error) {
	if n <= 0 || s == "" {
		return NewString(""), nil
	}
	if n > maxRepeatLen/int64(len(s)) {
		return NewNull(), &ArithmeticError{Msg: "string repetition too large"}
	}
	return NewString(strings.Repeat(s, int(n))), nil
}

func compareValues(op string, left, right Value) (Value, error) {
	var cmp int
	switch {
	case left.Kind() == KindInt && right.Kind() == KindInt:
		l, r := left.Int(), right.Int()
		cmp = compareOrdered(l, r)
	case left.isNumeric() && right.isNumeric():
		l, r := left.Float(), right.Float()
		if math.IsNaN(l) || math.IsNaN(r) {
			return NewBool(false), nil
		}
		cmp = compareOrdered(l, r)
	case left.Kind() == KindString && right.Kind() == KindString:
		cmp = strings.Compare(left.Str(), right.Str())
	default:
		return NewNull(), unsupportedBinary(op, left, right)
	}

	switch op {
	case "<":
		return NewBool(cmp < 0), nil
	case "<=":
		return NewBool(cmp <= 0), nil
	case ">":
		return NewBool(cmp > 0), nil
	default:
		return NewBool(cmp >= 0), nil
	}
}

func compareOrdered[T int64 | float64](l, r T) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func unaryOp(op string, operand Value) (Value, error) {
	switch op {
	case "!":
		return NewBool(!operand.Truthy()), nil
	case "-":
		switch operand.Kind() {
		case KindInt:
			if operand.Int() == math.MinInt64 {
				return NewNull(), errIntOverflow(op)
			}
			return NewInt(-operand.Int()), nil
		case KindFloat:
			return NewFloat(-operand.Float()), nil
		}
	}
	return NewNull(), &UnsupportedOperationError{Operator: op, Left: operand.Kind(), Unary: true}
}
