package interp

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/randaguero/fangless/internal/compiler/ast"
	"github.com/randaguero/fangless/internal/runtime/dynvalue"
)

// --- Test Helper Functions ---

func id(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

func intLit(n int64) *ast.LiteralExpr {
	return &ast.LiteralExpr{Kind: ast.LitInt, Int: n}
}

func strLit(s string) *ast.LiteralExpr {
	return &ast.LiteralExpr{Kind: ast.LitStr, Str: s}
}

func boolLit(b bool) *ast.LiteralExpr {
	return &ast.LiteralExpr{Kind: ast.LitBool, Bool: b}
}

func block(stmts ...ast.Statement) *ast.Block {
	return &ast.Block{Stmts: stmts}
}

func assign(name string, value ast.Expression) *ast.Assign {
	return &ast.Assign{Target: id(name), Op: "=", Value: value}
}

func call(name string, args ...ast.Expression) *ast.CallExpr {
	return &ast.CallExpr{Callee: id(name), Args: args}
}

func method(recv ast.Expression, name string, args ...ast.Expression) *ast.CallExpr {
	return &ast.CallExpr{Callee: &ast.Attribute{Value: recv, Name: name}, Args: args}
}

func binary(left ast.Expression, op string, right ast.Expression) *ast.BinaryExpr {
	return &ast.BinaryExpr{Left: left, Op: op, Right: right}
}

func compare(left ast.Expression, op string, right ast.Expression) *ast.ComparisonExpr {
	return &ast.ComparisonExpr{Left: left, Op: op, Right: right}
}

func module(stmts ...ast.Statement) *ast.Module {
	return &ast.Module{Body: stmts}
}

// run executes a module and asserts it finished clean, returning the
// interpreter for global inspection and its captured output.
func run(t *testing.T, m *ast.Module) (*Interp, string) {
	t.Helper()
	var out bytes.Buffer
	in := New(Options{Stdout: &out})
	if err := in.Run(m); err != nil {
		t.Fatalf("Run failed: %s", err)
	}
	return in, out.String()
}

func checkGlobal(t *testing.T, in *Interp, name string, want dynvalue.Value) {
	t.Helper()
	got, ok := in.Global(name)
	if !ok {
		t.Fatalf("global %q not set", name)
	}
	if !dynvalue.Equal(got, want) {
		t.Errorf("global %q wrong. expected=%s, got=%s", name, want, got)
	}
}

// --- Statements ---

func TestAssignAndArithmetic(t *testing.T) {
	_, out := run(t, module(
		assign("x", intLit(6)),
		assign("y", binary(id("x"), "*", intLit(7))),
		&ast.ExprStmt{Value: call("print", id("y"))},
	))
	if out != "42\n" {
		t.Errorf("wrong output. expected=%q, got=%q", "42\n", out)
	}
}

func TestAugmentedAssignment(t *testing.T) {
	in, _ := run(t, module(
		assign("x", intLit(10)),
		&ast.Assign{Target: id("x"), Op: "-=", Value: intLit(4)},
		&ast.Assign{Target: id("x"), Op: "**=", Value: intLit(2)},
	))
	checkGlobal(t, in, "x", dynvalue.Int(36))
}

func TestAugmentedAssignmentBeforeBinding(t *testing.T) {
	in := New(Options{Stdout: &bytes.Buffer{}})
	err := in.Run(module(
		&ast.Assign{
			Position: ast.Position{Line: 3, Column: 1},
			Target:   id("y"), Op: "+=", Value: intLit(1),
		},
	))
	if err == nil {
		t.Fatalf("expected error for augmented assignment to unbound name")
	}
	if !strings.Contains(err.Error(), "3:1") || !strings.Contains(err.Error(), `"y"`) {
		t.Errorf("error missing position or name: %s", err)
	}
}

func TestIfElse(t *testing.T) {
	in, _ := run(t, module(
		assign("x", intLit(5)),
		&ast.If{
			Test:   compare(id("x"), ">", intLit(10)),
			Body:   block(assign("r", strLit("big"))),
			Orelse: block(assign("r", strLit("small"))),
		},
	))
	checkGlobal(t, in, "r", dynvalue.Str("small"))
}

func TestWhileWithBreakAndContinue(t *testing.T) {
	// Sum odd numbers below 10, stopping at 7.
	in, _ := run(t, module(
		assign("total", intLit(0)),
		assign("i", intLit(0)),
		&ast.While{
			Test: boolLit(true),
			Body: block(
				&ast.Assign{Target: id("i"), Op: "+=", Value: intLit(1)},
				&ast.If{
					Test: compare(id("i"), "==", intLit(7)),
					Body: block(&ast.Break{}),
				},
				&ast.If{
					Test: compare(binary(id("i"), "%", intLit(2)), "==", intLit(0)),
					Body: block(&ast.Continue{}),
				},
				&ast.Assign{Target: id("total"), Op: "+=", Value: id("i")},
			),
		},
	))
	checkGlobal(t, in, "total", dynvalue.Int(9))
}

func TestForOverRange(t *testing.T) {
	in, _ := run(t, module(
		assign("total", intLit(0)),
		&ast.For{
			Target: id("i"),
			Iter:   call("range", intLit(1), intLit(5)),
			Body:   block(&ast.Assign{Target: id("total"), Op: "+=", Value: id("i")}),
		},
	))
	checkGlobal(t, in, "total", dynvalue.Int(10))
}

func TestForOverList(t *testing.T) {
	_, out := run(t, module(
		&ast.For{
			Target: id("word"),
			Iter:   &ast.ListExpr{Elements: []ast.Expression{strLit("a"), strLit("b")}},
			Body:   block(&ast.ExprStmt{Value: call("print", id("word"))}),
		},
	))
	if out != "a\nb\n" {
		t.Errorf("wrong output. expected=%q, got=%q", "a\nb\n", out)
	}
}

func TestLoopVariableVisibleAfterLoop(t *testing.T) {
	in, _ := run(t, module(
		&ast.For{
			Target: id("i"),
			Iter:   call("range", intLit(3)),
			Body:   block(&ast.Pass{}),
		},
		assign("last", id("i")),
	))
	checkGlobal(t, in, "last", dynvalue.Int(2))
}

func TestReturnOutsideFunctionFails(t *testing.T) {
	in := New(Options{Stdout: &bytes.Buffer{}})
	if err := in.Run(module(&ast.Return{})); err == nil {
		t.Fatalf("expected error for top-level return")
	}
}

// --- Functions ---

func fibModule() *ast.Module {
	// def fib(n): if n <= 1: return n; return fib(n-1) + fib(n-2)
	fib := &ast.FunctionDef{
		Name:   "fib",
		Params: []string{"n"},
		Body: block(
			&ast.If{
				Test: compare(id("n"), "<=", intLit(1)),
				Body: block(&ast.Return{Value: id("n")}),
			},
			&ast.Return{Value: binary(
				call("fib", binary(id("n"), "-", intLit(1))),
				"+",
				call("fib", binary(id("n"), "-", intLit(2))),
			)},
		),
	}
	return module(fib, assign("r", call("fib", intLit(10))))
}

func TestRecursiveFunction(t *testing.T) {
	in, _ := run(t, fibModule())
	checkGlobal(t, in, "r", dynvalue.Int(55))
}

func TestFibonacciAgreesWithIterative(t *testing.T) {
	fib := func(n int64) int64 {
		a, b := int64(0), int64(1)
		for ; n > 0; n-- {
			a, b = b, a+b
		}
		return a
	}
	for n := int64(0); n <= 15; n++ {
		m := fibModule()
		m.Body[1] = assign("r", call("fib", intLit(n)))
		in, _ := run(t, m)
		checkGlobal(t, in, "r", dynvalue.Int(fib(n)))
	}
}

func TestCallBeforeDefinition(t *testing.T) {
	in, _ := run(t, module(
		assign("r", call("double", intLit(21))),
		&ast.FunctionDef{
			Name:   "double",
			Params: []string{"n"},
			Body:   block(&ast.Return{Value: binary(id("n"), "*", intLit(2))}),
		},
	))
	checkGlobal(t, in, "r", dynvalue.Int(42))
}

func TestFunctionWithoutReturnYieldsNone(t *testing.T) {
	in, _ := run(t, module(
		&ast.FunctionDef{Name: "noop", Params: []string{}, Body: block(&ast.Pass{})},
		assign("r", call("noop")),
	))
	checkGlobal(t, in, "r", dynvalue.None())
}

func TestFunctionScopeReadsGlobalsWritesLocals(t *testing.T) {
	in, _ := run(t, module(
		assign("g", intLit(1)),
		&ast.FunctionDef{
			Name:   "f",
			Params: []string{},
			Body: block(
				assign("g", intLit(99)),
				&ast.Return{Value: id("g")},
			),
		},
		assign("r", call("f")),
	))
	checkGlobal(t, in, "r", dynvalue.Int(99))
	checkGlobal(t, in, "g", dynvalue.Int(1))
}

func TestArityMismatch(t *testing.T) {
	in := New(Options{Stdout: &bytes.Buffer{}})
	err := in.Run(module(
		&ast.FunctionDef{Name: "f", Params: []string{"a", "b"}, Body: block(&ast.Pass{})},
		&ast.ExprStmt{Value: call("f", intLit(1))},
	))
	if err == nil {
		t.Fatalf("expected arity error")
	}
	if !strings.Contains(err.Error(), "takes 2 arguments, got 1") {
		t.Errorf("wrong arity message: %s", err)
	}
}

// --- Collections and methods ---

func TestListMethodsAndIndexing(t *testing.T) {
	in, _ := run(t, module(
		assign("xs", &ast.ListExpr{Elements: []ast.Expression{intLit(1), intLit(2)}}),
		&ast.ExprStmt{Value: method(id("xs"), "append", intLit(3))},
		assign("n", call("len", id("xs"))),
		assign("last", &ast.Subscript{Value: id("xs"), Index: intLit(-1)}),
	))
	checkGlobal(t, in, "n", dynvalue.Int(3))
	checkGlobal(t, in, "last", dynvalue.Int(3))
}

func TestSubscriptAssignment(t *testing.T) {
	in, _ := run(t, module(
		assign("xs", &ast.ListExpr{Elements: []ast.Expression{intLit(1), intLit(2)}}),
		&ast.Assign{
			Target: &ast.Subscript{Value: id("xs"), Index: intLit(0)},
			Op:     "=", Value: intLit(10),
		},
		&ast.Assign{
			Target: &ast.Subscript{Value: id("xs"), Index: intLit(1)},
			Op:     "+=", Value: intLit(5),
		},
	))
	checkGlobal(t, in, "xs", dynvalue.List(dynvalue.Int(10), dynvalue.Int(7)))
}

func TestDictOperations(t *testing.T) {
	in, _ := run(t, module(
		assign("d", &ast.DictExpr{Pairs: []ast.DictPair{
			{Key: strLit("a"), Value: intLit(1)},
		}}),
		&ast.ExprStmt{Value: method(id("d"), "set", strLit("b"), intLit(2))},
		assign("a", &ast.Subscript{Value: id("d"), Index: strLit("a")}),
		assign("missing", method(id("d"), "get", strLit("zzz"))),
		assign("ks", method(id("d"), "keys")),
	))
	checkGlobal(t, in, "a", dynvalue.Int(1))
	checkGlobal(t, in, "missing", dynvalue.None())
	checkGlobal(t, in, "ks", dynvalue.List(dynvalue.Str("a"), dynvalue.Str("b")))
}

func TestSlicing(t *testing.T) {
	in, _ := run(t, module(
		assign("xs", &ast.ListExpr{Elements: []ast.Expression{
			intLit(0), intLit(1), intLit(2), intLit(3), intLit(4),
		}}),
		assign("mid", &ast.Subscript{
			Value: id("xs"), IsSlice: true, Low: intLit(1), High: intLit(4),
		}),
		assign("rev", &ast.Subscript{
			Value: id("xs"), IsSlice: true, Step: intLit(-1),
		}),
	))
	checkGlobal(t, in, "mid", dynvalue.List(dynvalue.Int(1), dynvalue.Int(2), dynvalue.Int(3)))
	checkGlobal(t, in, "rev", dynvalue.List(
		dynvalue.Int(4), dynvalue.Int(3), dynvalue.Int(2), dynvalue.Int(1), dynvalue.Int(0)))
}

func TestListAliasing(t *testing.T) {
	// Two names for one list observe the same mutation.
	in, _ := run(t, module(
		assign("a", &ast.ListExpr{Elements: []ast.Expression{intLit(1)}}),
		assign("b", id("a")),
		&ast.ExprStmt{Value: method(id("b"), "append", intLit(2))},
		assign("n", call("len", id("a"))),
	))
	checkGlobal(t, in, "n", dynvalue.Int(2))
}

// --- Builtins and errors ---

func TestAndShortCircuitsDivision(t *testing.T) {
	// x != 0 and 1/x > 0 must not evaluate the division when x is 0.
	in, _ := run(t, module(
		assign("x", intLit(0)),
		assign("ok", binary(
			compare(id("x"), "!=", intLit(0)),
			"and",
			compare(binary(intLit(1), "/", id("x")), ">", intLit(0)),
		)),
	))
	checkGlobal(t, in, "ok", dynvalue.Bool(false))
}

func TestOrShortCircuitsDivision(t *testing.T) {
	in, _ := run(t, module(
		assign("x", intLit(0)),
		assign("ok", binary(
			compare(id("x"), "==", intLit(0)),
			"or",
			compare(binary(intLit(1), "/", id("x")), ">", intLit(0)),
		)),
	))
	checkGlobal(t, in, "ok", dynvalue.Bool(true))
}

func TestLogicalOperatorsYieldBool(t *testing.T) {
	in, _ := run(t, module(
		assign("a", binary(intLit(2), "and", intLit(3))),
		assign("b", binary(intLit(0), "or", strLit(""))),
	))
	checkGlobal(t, in, "a", dynvalue.Bool(true))
	checkGlobal(t, in, "b", dynvalue.Bool(false))
}

func TestPrintJoinsArguments(t *testing.T) {
	_, out := run(t, module(
		&ast.ExprStmt{Value: call("print", strLit("x"), intLit(1), boolLit(true))},
	))
	if out != "x 1 True\n" {
		t.Errorf("wrong output. expected=%q, got=%q", "x 1 True\n", out)
	}
}

func TestInputWithPrompt(t *testing.T) {
	var out bytes.Buffer
	in := New(Options{Stdin: strings.NewReader("alice\n"), Stdout: &out})
	err := in.Run(module(
		assign("name", call("input", strLit("? "))),
	))
	if err != nil {
		t.Fatalf("Run failed: %s", err)
	}
	if out.String() != "? " {
		t.Errorf("prompt not written. got=%q", out.String())
	}
	checkGlobal(t, in, "name", dynvalue.Str("alice"))
}

func TestConsecutiveInputsAdvanceThroughStream(t *testing.T) {
	var out bytes.Buffer
	in := New(Options{Stdin: strings.NewReader("first\nsecond\n"), Stdout: &out})
	err := in.Run(module(
		assign("a", call("input")),
		assign("b", call("input")),
	))
	if err != nil {
		t.Fatalf("Run failed: %s", err)
	}
	checkGlobal(t, in, "a", dynvalue.Str("first"))
	checkGlobal(t, in, "b", dynvalue.Str("second"))
}

func TestDivisionByZeroSurfaces(t *testing.T) {
	in := New(Options{Stdout: &bytes.Buffer{}})
	err := in.Run(module(
		assign("x", binary(intLit(1), "/", intLit(0))),
	))
	if !errors.Is(err, dynvalue.ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
}

func TestUndefinedVariable(t *testing.T) {
	in := New(Options{Stdout: &bytes.Buffer{}})
	err := in.Run(module(assign("x", id("nope"))))
	if err == nil || !strings.Contains(err.Error(), `"nope"`) {
		t.Fatalf("expected undefined variable error, got %v", err)
	}
}

func TestUnknownMethod(t *testing.T) {
	in := New(Options{Stdout: &bytes.Buffer{}})
	err := in.Run(module(
		assign("xs", &ast.ListExpr{Elements: []ast.Expression{}}),
		&ast.ExprStmt{Value: method(id("xs"), "shuffle")},
	))
	if err == nil || !strings.Contains(err.Error(), `"shuffle"`) {
		t.Fatalf("expected unknown method error, got %v", err)
	}
}
