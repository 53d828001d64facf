package dynvalue

import (
	"errors"
	"testing"
)

// checkOp is a common helper for binary operator tests.
func checkOp(t *testing.T, op string, a, b Value, want string) {
	t.Helper()
	got, err := BinaryOp(op, a, b)
	if err != nil {
		t.Fatalf("%s %s %s returned error: %v", a.ToString(), op, b.ToString(), err)
	}
	if got.ToString() != want {
		t.Errorf("%s %s %s expected=%q, got=%q", a.ToString(), op, b.ToString(), want, got.ToString())
	}
}

func checkOpErr(t *testing.T, op string, a, b Value, sentinel error) {
	t.Helper()
	_, err := BinaryOp(op, a, b)
	if err == nil {
		t.Fatalf("%s %s %s expected error, got none", a.ToString(), op, b.ToString())
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("%s %s %s expected %v, got %v", a.ToString(), op, b.ToString(), sentinel, err)
	}
}

// --- Arithmetic ---

func TestAddition(t *testing.T) {
	checkOp(t, "+", Int(2), Int(3), "5")
	checkOp(t, "+", Int(2), Float(0.5), "2.5")
	checkOp(t, "+", Float(1.5), Float(1.5), "3.0")
	// Either string operand concatenates, converting the other side.
	checkOp(t, "+", Str("ab"), Str("cd"), "abcd")
	checkOp(t, "+", Str("n="), Int(7), "n=7")
	checkOp(t, "+", List(Int(1), Int(2)), List(Int(3)), "[1, 2, 3]")
	checkOpErr(t, "+", None(), Int(1), ErrUnsupportedOperand)
	checkOpErr(t, "+", List(), Int(1), ErrUnsupportedOperand)
}

func TestListConcatLeavesOperandsAlone(t *testing.T) {
	a := List(Int(1))
	b := List(Int(2))
	sum, err := Add(a, b)
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := sum.Append(Int(3)); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if n, _ := a.Len(); n != 1 {
		t.Errorf("left operand length expected=1, got=%d", n)
	}
	if n, _ := b.Len(); n != 1 {
		t.Errorf("right operand length expected=1, got=%d", n)
	}
}

func TestMultiplication(t *testing.T) {
	checkOp(t, "*", Int(6), Int(7), "42")
	checkOp(t, "*", Float(1.5), Int(2), "3.0")
	checkOp(t, "*", Str("ab"), Int(3), "ababab")
	checkOp(t, "*", Int(2), Str("xy"), "xyxy")
	checkOp(t, "*", Str("ab"), Int(0), "")
	checkOp(t, "*", Str("ab"), Int(-2), "")
	checkOpErr(t, "*", Str("ab"), Float(2.0), ErrUnsupportedOperand)
}

func TestDivision(t *testing.T) {
	// True division always yields a float.
	checkOp(t, "/", Int(7), Int(2), "3.5")
	checkOp(t, "/", Int(6), Int(3), "2.0")
	checkOpErr(t, "/", Int(1), Int(0), ErrDivisionByZero)
	checkOpErr(t, "/", Float(1.0), Float(0.0), ErrDivisionByZero)
}

func TestFloorDivision(t *testing.T) {
	checkOp(t, "//", Int(7), Int(2), "3")
	checkOp(t, "//", Int(-7), Int(2), "-4")
	checkOp(t, "//", Float(7.5), Int(2), "3.0")
	checkOpErr(t, "//", Int(1), Int(0), ErrDivisionByZero)
}

func TestModulo(t *testing.T) {
	checkOp(t, "%", Int(7), Int(3), "1")
	checkOp(t, "%", Float(7.5), Float(2.0), "1.5")
	checkOpErr(t, "%", Int(5), Int(0), ErrDivisionByZero)
}

func TestPower(t *testing.T) {
	checkOp(t, "**", Int(2), Int(10), "1024")
	checkOp(t, "**", Int(2), Int(-1), "0.5")
	checkOp(t, "**", Float(4.0), Float(0.5), "2.0")
}

func TestUnary(t *testing.T) {
	got, err := UnaryOp("-", Int(5))
	if err != nil || got.ToString() != "-5" {
		t.Errorf("-5 expected=-5, got=%v err=%v", got.ToString(), err)
	}
	got, err = UnaryOp("not", Str(""))
	if err != nil || got.ToString() != "True" {
		t.Errorf("not '' expected=True, got=%v err=%v", got.ToString(), err)
	}
	if _, err := UnaryOp("-", Str("x")); !errors.Is(err, ErrUnsupportedOperand) {
		t.Errorf("unary - on string expected ErrUnsupportedOperand, got %v", err)
	}
}

func TestLogical(t *testing.T) {
	checkOp(t, "and", Int(1), Str(""), "False")
	checkOp(t, "and", Int(1), Str("x"), "True")
	checkOp(t, "or", Int(0), List(), "False")
	checkOp(t, "or", Int(0), List(Int(1)), "True")
}

// --- Comparison ---

func TestEquality(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{Int(1), Int(1), true},
		{Int(1), Float(1.0), true}, // numeric pairs coerce
		{Int(1), Bool(true), false},
		{None(), None(), true},
		{Str("a"), Str("a"), true},
		{Str("a"), Int(1), false},
		{List(Int(1), Int(2)), List(Int(1), Int(2)), true},
		{List(Int(1)), List(Int(2)), false},
		{Set(Int(1), Int(2)), Set(Int(2), Int(1)), true},
		{Dict(map[string]Value{"k": Int(1)}), Dict(map[string]Value{"k": Int(1)}), true},
		{Dict(map[string]Value{"k": Int(1)}), Dict(map[string]Value{"k": Int(2)}), false},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%s, %s) expected=%v, got=%v", tt.a.ToString(), tt.b.ToString(), tt.want, got)
		}
	}
}

func TestOrdering(t *testing.T) {
	checkOp2 := func(op string, a, b Value, want string) {
		t.Helper()
		got, err := CompareOp(op, a, b)
		if err != nil {
			t.Fatalf("%s %s %s returned error: %v", a.ToString(), op, b.ToString(), err)
		}
		if got.ToString() != want {
			t.Errorf("%s %s %s expected=%s, got=%s", a.ToString(), op, b.ToString(), want, got.ToString())
		}
	}
	checkOp2("<", Int(1), Int(2), "True")
	checkOp2("<", Int(2), Float(1.5), "False")
	checkOp2("<=", Float(2.0), Int(2), "True")
	checkOp2("<", Str("apple"), Str("banana"), "True")
	checkOp2(">", List(Int(1), Int(3)), List(Int(1), Int(2)), "True")
	checkOp2("<", List(Int(1)), List(Int(1), Int(0)), "True")
}

func TestMixedTagOrderingIsTotal(t *testing.T) {
	// Mixed, non-numeric tags fall back to a fixed tag rank, so any pair
	// of values is ordered and the order is antisymmetric.
	values := []Value{None(), Bool(false), Int(3), Float(2.5), Str("s"), List(Int(1)), Set(Int(1))}
	for i, a := range values {
		for j, b := range values {
			c1 := Compare(a, b)
			c2 := Compare(b, a)
			if c1 != -c2 {
				t.Errorf("Compare(%d, %d) not antisymmetric: %d vs %d", i, j, c1, c2)
			}
			if i == j && c1 != 0 {
				t.Errorf("Compare of value %d with itself expected=0, got=%d", i, c1)
			}
		}
	}
}

// --- Indexing and slicing ---

func TestIndexList(t *testing.T) {
	l := List(Int(10), Int(20), Int(30))
	got, err := Index(l, Int(1))
	if err != nil || got.ToString() != "20" {
		t.Fatalf("l[1] expected=20, got=%v err=%v", got.ToString(), err)
	}
	got, err = Index(l, Int(-1))
	if err != nil || got.ToString() != "30" {
		t.Fatalf("l[-1] expected=30, got=%v err=%v", got.ToString(), err)
	}
	if _, err := Index(l, Int(3)); !errors.Is(err, ErrIndex) {
		t.Errorf("l[3] expected ErrIndex, got %v", err)
	}
	if _, err := Index(l, Str("k")); !errors.Is(err, ErrType) {
		t.Errorf("l['k'] expected ErrType, got %v", err)
	}
}

func TestIndexDict(t *testing.T) {
	d := Dict(map[string]Value{"one": Int(1)})
	got, err := Index(d, Str("one"))
	if err != nil || got.ToString() != "1" {
		t.Fatalf("d['one'] expected=1, got=%v err=%v", got.ToString(), err)
	}
	if _, err := Index(d, Str("two")); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("d['two'] expected ErrKeyNotFound, got %v", err)
	}
}

func TestIndexString(t *testing.T) {
	got, err := Index(Str("abc"), Int(0))
	if err != nil || got.ToString() != "a" {
		t.Fatalf("\"abc\"[0] expected=a, got=%v err=%v", got.ToString(), err)
	}
}

func TestSetIndex(t *testing.T) {
	l := List(Int(1), Int(2))
	if err := SetIndex(l, Int(0), Str("x")); err != nil {
		t.Fatalf("l[0]= returned error: %v", err)
	}
	checkString(t, l, `['x', 2]`)

	d := Dict(nil)
	if err := SetIndex(d, Str("k"), Int(9)); err != nil {
		t.Fatalf("d['k']= returned error: %v", err)
	}
	checkString(t, d, `{'k': 9}`)

	if err := SetIndex(Int(1), Int(0), Int(0)); !errors.Is(err, ErrType) {
		t.Errorf("assignment into int expected ErrType, got %v", err)
	}
}

func TestSublist(t *testing.T) {
	l := List(Int(0), Int(1), Int(2), Int(3), Int(4))
	iv := func(n int64) *Value { v := Int(n); return &v }

	got, err := Sublist(l, iv(1), iv(4), nil)
	if err != nil || got.ToString() != "[1, 2, 3]" {
		t.Fatalf("l[1:4] expected=[1, 2, 3], got=%v err=%v", got.ToString(), err)
	}
	got, err = Sublist(l, nil, iv(-2), nil)
	if err != nil || got.ToString() != "[0, 1, 2]" {
		t.Fatalf("l[:-2] expected=[0, 1, 2], got=%v err=%v", got.ToString(), err)
	}
	got, err = Sublist(l, nil, nil, iv(2))
	if err != nil || got.ToString() != "[0, 2, 4]" {
		t.Fatalf("l[::2] expected=[0, 2, 4], got=%v err=%v", got.ToString(), err)
	}
	got, err = Sublist(l, nil, nil, iv(-1))
	if err != nil || got.ToString() != "[4, 3, 2, 1, 0]" {
		t.Fatalf("l[::-1] expected reversed, got=%v err=%v", got.ToString(), err)
	}
	if _, err := Sublist(l, nil, nil, iv(0)); !errors.Is(err, ErrValue) {
		t.Errorf("l[::0] expected ErrValue, got %v", err)
	}

	s, err := Sublist(Str("hello"), iv(1), iv(4), nil)
	if err != nil || s.ToString() != "ell" {
		t.Fatalf("\"hello\"[1:4] expected=ell, got=%v err=%v", s.ToString(), err)
	}
}

// --- Mutators ---

func TestRemoveDispatchesOnReceiver(t *testing.T) {
	l := List(Int(10), Int(20), Int(30))
	if err := l.Remove(Int(1)); err != nil {
		t.Fatalf("list remove returned error: %v", err)
	}
	checkString(t, l, "[10, 30]")

	d := Dict(map[string]Value{"a": Int(1), "b": Int(2)})
	if err := d.Remove(Str("a")); err != nil {
		t.Fatalf("dict remove returned error: %v", err)
	}
	checkString(t, d, `{'b': 2}`)
	if err := d.Remove(Str("zz")); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("dict remove of missing key expected ErrKeyNotFound, got %v", err)
	}

	s := Set(Int(1), Int(2))
	if err := s.Remove(Int(2)); err != nil {
		t.Fatalf("set remove returned error: %v", err)
	}
	checkString(t, s, "{1}")
}

func TestInsertAndPop(t *testing.T) {
	l := List(Int(1), Int(3))
	if err := l.Insert(1, Int(2)); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	checkString(t, l, "[1, 2, 3]")

	v, err := l.Pop(int64(0))
	if err != nil || v.ToString() != "1" {
		t.Fatalf("Pop(0) expected=1, got=%v err=%v", v.ToString(), err)
	}
	checkString(t, l, "[2, 3]")

	empty := List()
	if _, err := empty.Pop(0); !errors.Is(err, ErrIndex) {
		t.Errorf("Pop from empty list expected ErrIndex, got %v", err)
	}
}

func TestContains(t *testing.T) {
	l := List(Int(1), Float(2.0))
	if ok, _ := l.Contains(Int(2)); !ok {
		t.Errorf("2 in [1, 2.0] expected=true")
	}
	d := Dict(map[string]Value{"k": Int(1)})
	if ok, _ := d.Contains(Str("k")); !ok {
		t.Errorf("'k' in dict expected=true")
	}
	if ok, _ := Str("hello").Contains(Str("ell")); !ok {
		t.Errorf("'ell' in 'hello' expected=true")
	}
	s := Set(Int(1))
	if ok, _ := s.Contains(Float(1.0)); !ok {
		t.Errorf("1.0 in {1} expected=true")
	}
}

func TestDictViews(t *testing.T) {
	d := Dict(map[string]Value{"b": Int(2), "a": Int(1)})
	keys, err := d.Keys()
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	checkString(t, keys, `['a', 'b']`)
	vals, _ := d.Values()
	checkString(t, vals, "[1, 2]")
	items, _ := d.Items()
	checkString(t, items, `[['a', 1], ['b', 2]]`)

	got, _ := d.Get(Str("a"))
	checkString(t, got, "1")
	got, _ = d.Get(Str("zz"))
	if !got.IsNone() {
		t.Errorf("Get of missing key expected None, got %s", got.ToString())
	}
}
