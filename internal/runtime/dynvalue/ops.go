package dynvalue

import (
	"fmt"
	"math"
	"strings"
)

// Operator semantics live here as one exhaustive function per operator,
// dispatching on the tag pair. Keeping each operator's full behavior in a
// single match keeps the rules auditable in one place.

// Add implements +: numeric addition with float promotion, string
// concatenation when either operand is a string, and list concatenation
// for two lists.
func Add(a, b Value) (Value, error) {
	if a.tag == TagStr || b.tag == TagStr {
		return Str(a.ToString() + b.ToString()), nil
	}
	if a.tag == TagList && b.tag == TagList {
		out := make([]Value, 0, len(*a.list)+len(*b.list))
		out = append(out, *a.list...)
		out = append(out, *b.list...)
		return Value{tag: TagList, list: &out}, nil
	}
	if a.IsNumeric() && b.IsNumeric() {
		if a.tag == TagFloat || b.tag == TagFloat {
			x, _ := a.ToFloat()
			y, _ := b.ToFloat()
			return Float(x + y), nil
		}
		return Int(a.n + b.n), nil
	}
	return None(), operandErr("+", a, b)
}

// Sub implements -: numeric only.
func Sub(a, b Value) (Value, error) {
	if a.IsNumeric() && b.IsNumeric() {
		if a.tag == TagFloat || b.tag == TagFloat {
			x, _ := a.ToFloat()
			y, _ := b.ToFloat()
			return Float(x - y), nil
		}
		return Int(a.n - b.n), nil
	}
	return None(), operandErr("-", a, b)
}

// Mul implements *: numeric multiplication, plus string repetition when
// one side is a string and the other an integer.
func Mul(a, b Value) (Value, error) {
	if a.tag == TagStr && b.tag == TagInt {
		return Str(repeat(a.s, b.n)), nil
	}
	if a.tag == TagInt && b.tag == TagStr {
		return Str(repeat(b.s, a.n)), nil
	}
	if a.IsNumeric() && b.IsNumeric() {
		if a.tag == TagFloat || b.tag == TagFloat {
			x, _ := a.ToFloat()
			y, _ := b.ToFloat()
			return Float(x * y), nil
		}
		return Int(a.n * b.n), nil
	}
	return None(), operandErr("*", a, b)
}

func repeat(s string, n int64) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, int(n))
}

// Div implements /: true division, always floating point.
func Div(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return None(), operandErr("/", a, b)
	}
	y, _ := b.ToFloat()
	if y == 0.0 {
		return None(), fmt.Errorf("%w: division", ErrDivisionByZero)
	}
	x, _ := a.ToFloat()
	return Float(x / y), nil
}

// Mod implements %: integral remainder for two ints, floating remainder
// when either operand is a float.
func Mod(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return None(), operandErr("%", a, b)
	}
	if a.tag == TagFloat || b.tag == TagFloat {
		y, _ := b.ToFloat()
		if y == 0.0 {
			return None(), fmt.Errorf("%w: modulo", ErrDivisionByZero)
		}
		x, _ := a.ToFloat()
		return Float(math.Mod(x, y)), nil
	}
	if b.n == 0 {
		return None(), fmt.Errorf("%w: modulo", ErrDivisionByZero)
	}
	return Int(a.n % b.n), nil
}

// Pow implements **: always computed in floating point, returned integral
// when both operands are ints and the result fits.
func Pow(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return None(), operandErr("**", a, b)
	}
	x, _ := a.ToFloat()
	y, _ := b.ToFloat()
	r := math.Pow(x, y)
	if a.tag == TagInt && b.tag == TagInt && b.n >= 0 && r == math.Trunc(r) && math.Abs(r) < 1e18 {
		return Int(int64(r)), nil
	}
	return Float(r), nil
}

// FloorDiv implements //: integral quotient for two ints, floored float
// quotient otherwise.
func FloorDiv(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return None(), operandErr("//", a, b)
	}
	if a.tag == TagFloat || b.tag == TagFloat {
		y, _ := b.ToFloat()
		if y == 0.0 {
			return None(), fmt.Errorf("%w: floor division", ErrDivisionByZero)
		}
		x, _ := a.ToFloat()
		return Float(math.Floor(x / y)), nil
	}
	if b.n == 0 {
		return None(), fmt.Errorf("%w: floor division", ErrDivisionByZero)
	}
	q := a.n / b.n
	if (a.n%b.n != 0) && ((a.n < 0) != (b.n < 0)) {
		q--
	}
	return Int(q), nil
}

// Neg implements unary -.
func Neg(v Value) (Value, error) {
	switch v.tag {
	case TagInt:
		return Int(-v.n), nil
	case TagFloat:
		return Float(-v.f), nil
	}
	return None(), fmt.Errorf("%w: unary - on %s", ErrUnsupportedOperand, v.tag.TypeName())
}

// Pos implements unary +.
func Pos(v Value) (Value, error) {
	if v.IsNumeric() {
		return v, nil
	}
	return None(), fmt.Errorf("%w: unary + on %s", ErrUnsupportedOperand, v.tag.TypeName())
}

// Not implements logical negation on the truthiness of any tag.
func Not(v Value) Value {
	return Bool(!v.ToBool())
}

// And and Or operate on truthiness regardless of tag and return a bool
// value, as the target runtime's overloaded operators do.
func And(a, b Value) Value { return Bool(a.ToBool() && b.ToBool()) }
func Or(a, b Value) Value  { return Bool(a.ToBool() || b.ToBool()) }

// Equal compares tag first, then value. Numeric pairs coerce (1 == 1.0);
// collections compare deeply; any other tag mixture is unequal.
func Equal(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		x, _ := a.ToFloat()
		y, _ := b.ToFloat()
		return x == y
	}
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case TagNone:
		return true
	case TagBool:
		return a.b == b.b
	case TagStr:
		return a.s == b.s
	case TagList:
		if len(*a.list) != len(*b.list) {
			return false
		}
		for i := range *a.list {
			if !Equal((*a.list)[i], (*b.list)[i]) {
				return false
			}
		}
		return true
	case TagDict:
		if len(*a.dict) != len(*b.dict) {
			return false
		}
		for k, av := range *a.dict {
			bv, ok := (*b.dict)[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case TagSet:
		if len(*a.set) != len(*b.set) {
			return false
		}
		for k := range *a.set {
			if _, ok := (*b.set)[k]; !ok {
				return false
			}
		}
		return true
	}
	return false
}

// Compare returns -1, 0 or 1 and never fails: same-tag values use their
// natural order, numeric pairs coerce, and any remaining mixed-tag pair
// falls back to a fixed tag rank. The fallback is a deliberate relaxation
// of the source language's stricter comparison rules so that
// heterogeneous sets remain totally ordered.
func Compare(a, b Value) int {
	if a.IsNumeric() && b.IsNumeric() {
		x, _ := a.ToFloat()
		y, _ := b.ToFloat()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	if a.tag != b.tag {
		if a.tag < b.tag {
			return -1
		}
		return 1
	}
	switch a.tag {
	case TagNone:
		return 0
	case TagBool:
		switch {
		case !a.b && b.b:
			return -1
		case a.b && !b.b:
			return 1
		}
		return 0
	case TagStr:
		return strings.Compare(a.s, b.s)
	case TagList:
		for i := 0; i < len(*a.list) && i < len(*b.list); i++ {
			if c := Compare((*a.list)[i], (*b.list)[i]); c != 0 {
				return c
			}
		}
		switch {
		case len(*a.list) < len(*b.list):
			return -1
		case len(*a.list) > len(*b.list):
			return 1
		}
		return 0
	default:
		// Dict and set order by their rendered form; stable and total.
		return strings.Compare(a.repr(), b.repr())
	}
}

func Less(a, b Value) Value         { return Bool(Compare(a, b) < 0) }
func LessEqual(a, b Value) Value    { return Bool(Compare(a, b) <= 0) }
func Greater(a, b Value) Value      { return Bool(Compare(a, b) > 0) }
func GreaterEqual(a, b Value) Value { return Bool(Compare(a, b) >= 0) }

// CompareOp evaluates one binary comparison by operator spelling.
func CompareOp(op string, a, b Value) (Value, error) {
	switch op {
	case "==":
		return Bool(Equal(a, b)), nil
	case "!=":
		return Bool(!Equal(a, b)), nil
	case "<":
		return Less(a, b), nil
	case "<=":
		return LessEqual(a, b), nil
	case ">":
		return Greater(a, b), nil
	case ">=":
		return GreaterEqual(a, b), nil
	}
	return None(), fmt.Errorf("%w: comparison %q", ErrUnsupportedOperand, op)
}

// BinaryOp evaluates one arithmetic/logical binary operator by spelling.
func BinaryOp(op string, a, b Value) (Value, error) {
	switch op {
	case "+":
		return Add(a, b)
	case "-":
		return Sub(a, b)
	case "*":
		return Mul(a, b)
	case "/":
		return Div(a, b)
	case "%":
		return Mod(a, b)
	case "**":
		return Pow(a, b)
	case "//":
		return FloorDiv(a, b)
	case "and":
		return And(a, b), nil
	case "or":
		return Or(a, b), nil
	}
	return None(), fmt.Errorf("%w: operator %q", ErrUnsupportedOperand, op)
}

// UnaryOp evaluates one unary operator by spelling.
func UnaryOp(op string, v Value) (Value, error) {
	switch op {
	case "-":
		return Neg(v)
	case "+":
		return Pos(v)
	case "not":
		return Not(v), nil
	}
	return None(), fmt.Errorf("%w: unary operator %q", ErrUnsupportedOperand, op)
}

func operandErr(op string, a, b Value) error {
	return fmt.Errorf("%w(s) for %s: %s and %s",
		ErrUnsupportedOperand, op, a.tag.TypeName(), b.tag.TypeName())
}
