// Package interp evaluates a parsed module directly, without going through
// C++ generation. It shares the dynamic value runtime with the compiled
// output so both paths observe the same semantics.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/randaguero/fangless/internal/compiler/ast"
	"github.com/randaguero/fangless/internal/runtime/dynvalue"
)

// Interp runs one module at a time. Zero value is not usable; construct
// with New.
type Interp struct {
	stdin  io.Reader
	stdout io.Writer

	globals map[string]dynvalue.Value
	funcs   map[string]*ast.FunctionDef
}

// Options selects the streams the program's input and print use.
// Nil fields fall back to the process streams.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
}

func New(opts Options) *Interp {
	in := &Interp{
		stdin:   opts.Stdin,
		stdout:  opts.Stdout,
		globals: make(map[string]dynvalue.Value),
		funcs:   make(map[string]*ast.FunctionDef),
	}
	if in.stdin == nil {
		in.stdin = os.Stdin
	}
	// One buffered reader for the whole run. A fresh reader per input()
	// would drop whatever it buffered past the first newline.
	in.stdin = bufio.NewReader(in.stdin)
	if in.stdout == nil {
		in.stdout = os.Stdout
	}
	return in
}

// control reports how a block finished.
type control int

const (
	ctrlNormal control = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

// frame is one function activation. Reads fall back to module globals,
// writes always bind locally.
type frame struct {
	vars   map[string]dynvalue.Value
	global bool
}

// Run executes the module's top-level statements in source order.
// Function definitions are registered before anything runs so calls
// may precede their definition textually.
func (in *Interp) Run(mod *ast.Module) error {
	for _, stmt := range mod.Body {
		if fn, ok := stmt.(*ast.FunctionDef); ok {
			if _, exists := in.funcs[fn.Name]; exists {
				return posErr(fn.Position, fmt.Errorf("function %q redefined", fn.Name))
			}
			in.funcs[fn.Name] = fn
		}
	}

	top := &frame{vars: in.globals, global: true}
	for _, stmt := range mod.Body {
		if _, ok := stmt.(*ast.FunctionDef); ok {
			continue
		}
		ctrl, _, err := in.execStmt(top, stmt)
		if err != nil {
			return err
		}
		switch ctrl {
		case ctrlBreak, ctrlContinue:
			return posErr(stmt.Pos(), fmt.Errorf("loop control outside a loop"))
		case ctrlReturn:
			return posErr(stmt.Pos(), fmt.Errorf("return outside a function"))
		}
	}
	return nil
}

// Global reads a module-level variable after Run, mainly for tests.
func (in *Interp) Global(name string) (dynvalue.Value, bool) {
	v, ok := in.globals[name]
	return v, ok
}

func posErr(pos ast.Position, err error) error {
	return fmt.Errorf("%d:%d: %w", pos.Line, pos.Column, err)
}

func (in *Interp) execBlock(fr *frame, block *ast.Block) (control, dynvalue.Value, error) {
	for _, stmt := range block.Stmts {
		ctrl, ret, err := in.execStmt(fr, stmt)
		if err != nil {
			return ctrlNormal, dynvalue.None(), err
		}
		if ctrl != ctrlNormal {
			return ctrl, ret, nil
		}
	}
	return ctrlNormal, dynvalue.None(), nil
}

func (in *Interp) execStmt(fr *frame, stmt ast.Statement) (control, dynvalue.Value, error) {
	switch s := stmt.(type) {
	case *ast.Assign:
		return ctrlNormal, dynvalue.None(), in.execAssign(fr, s)
	case *ast.If:
		return in.execIf(fr, s)
	case *ast.While:
		return in.execWhile(fr, s)
	case *ast.For:
		return in.execFor(fr, s)
	case *ast.Return:
		if s.Value == nil {
			return ctrlReturn, dynvalue.None(), nil
		}
		v, err := in.evalExpr(fr, s.Value)
		if err != nil {
			return ctrlNormal, dynvalue.None(), err
		}
		return ctrlReturn, v, nil
	case *ast.Break:
		return ctrlBreak, dynvalue.None(), nil
	case *ast.Continue:
		return ctrlContinue, dynvalue.None(), nil
	case *ast.Pass:
		return ctrlNormal, dynvalue.None(), nil
	case *ast.ExprStmt:
		_, err := in.evalExpr(fr, s.Value)
		return ctrlNormal, dynvalue.None(), err
	case *ast.FunctionDef:
		return ctrlNormal, dynvalue.None(),
			posErr(s.Position, fmt.Errorf("nested function definitions are not supported"))
	case *ast.Block:
		return in.execBlock(fr, s)
	}
	return ctrlNormal, dynvalue.None(),
		posErr(stmt.Pos(), fmt.Errorf("unsupported statement %T", stmt))
}

func (in *Interp) execAssign(fr *frame, s *ast.Assign) error {
	rhs, err := in.evalExpr(fr, s.Value)
	if err != nil {
		return err
	}

	switch target := s.Target.(type) {
	case *ast.Identifier:
		if s.Op == "" || s.Op == "=" {
			fr.bind(target.Name, rhs)
			return nil
		}
		cur, ok := in.lookup(fr, target.Name)
		if !ok {
			return posErr(s.Position, fmt.Errorf("variable %q used before assignment", target.Name))
		}
		out, err := dynvalue.BinaryOp(augmentedOp(s.Op), cur, rhs)
		if err != nil {
			return posErr(s.Position, err)
		}
		fr.bind(target.Name, out)
		return nil

	case *ast.Subscript:
		if target.IsSlice {
			return posErr(s.Position, fmt.Errorf("assignment to a slice expression is not supported"))
		}
		container, err := in.evalExpr(fr, target.Value)
		if err != nil {
			return err
		}
		key, err := in.evalExpr(fr, target.Index)
		if err != nil {
			return err
		}
		if s.Op != "" && s.Op != "=" {
			cur, err := dynvalue.Index(container, key)
			if err != nil {
				return posErr(s.Position, err)
			}
			rhs, err = dynvalue.BinaryOp(augmentedOp(s.Op), cur, rhs)
			if err != nil {
				return posErr(s.Position, err)
			}
		}
		if err := dynvalue.SetIndex(container, key, rhs); err != nil {
			return posErr(s.Position, err)
		}
		return nil
	}
	return posErr(s.Position, fmt.Errorf("cannot assign to %T", s.Target))
}

func augmentedOp(op string) string {
	// "+=" and friends drop the trailing "=". "**=" and "//=" included.
	return op[:len(op)-1]
}

func (in *Interp) execIf(fr *frame, s *ast.If) (control, dynvalue.Value, error) {
	test, err := in.evalExpr(fr, s.Test)
	if err != nil {
		return ctrlNormal, dynvalue.None(), err
	}
	if test.ToBool() {
		return in.execBlock(fr, s.Body)
	}
	if s.Orelse != nil {
		return in.execBlock(fr, s.Orelse)
	}
	return ctrlNormal, dynvalue.None(), nil
}

func (in *Interp) execWhile(fr *frame, s *ast.While) (control, dynvalue.Value, error) {
	for {
		test, err := in.evalExpr(fr, s.Test)
		if err != nil {
			return ctrlNormal, dynvalue.None(), err
		}
		if !test.ToBool() {
			return ctrlNormal, dynvalue.None(), nil
		}
		ctrl, ret, err := in.execBlock(fr, s.Body)
		if err != nil {
			return ctrlNormal, dynvalue.None(), err
		}
		switch ctrl {
		case ctrlBreak:
			return ctrlNormal, dynvalue.None(), nil
		case ctrlReturn:
			return ctrlReturn, ret, nil
		}
	}
}

func (in *Interp) execFor(fr *frame, s *ast.For) (control, dynvalue.Value, error) {
	iter, err := in.evalExpr(fr, s.Iter)
	if err != nil {
		return ctrlNormal, dynvalue.None(), err
	}
	elems, err := iter.Iterate()
	if err != nil {
		return ctrlNormal, dynvalue.None(), posErr(s.Position, err)
	}
	for _, elem := range elems {
		fr.bind(s.Target.Name, elem)
		ctrl, ret, err := in.execBlock(fr, s.Body)
		if err != nil {
			return ctrlNormal, dynvalue.None(), err
		}
		switch ctrl {
		case ctrlBreak:
			return ctrlNormal, dynvalue.None(), nil
		case ctrlReturn:
			return ctrlReturn, ret, nil
		}
	}
	return ctrlNormal, dynvalue.None(), nil
}

func (fr *frame) bind(name string, v dynvalue.Value) {
	fr.vars[name] = v
}

func (in *Interp) lookup(fr *frame, name string) (dynvalue.Value, bool) {
	if v, ok := fr.vars[name]; ok {
		return v, true
	}
	if !fr.global {
		if v, ok := in.globals[name]; ok {
			return v, true
		}
	}
	return dynvalue.None(), false
}

func (in *Interp) evalExpr(fr *frame, expr ast.Expression) (dynvalue.Value, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return evalLiteral(e), nil

	case *ast.Identifier:
		v, ok := in.lookup(fr, e.Name)
		if !ok {
			return dynvalue.None(), posErr(e.Position, fmt.Errorf("undefined variable %q", e.Name))
		}
		return v, nil

	case *ast.UnaryExpr:
		operand, err := in.evalExpr(fr, e.Operand)
		if err != nil {
			return dynvalue.None(), err
		}
		out, err := dynvalue.UnaryOp(e.Op, operand)
		if err != nil {
			return dynvalue.None(), posErr(e.Position, err)
		}
		return out, nil

	case *ast.BinaryExpr:
		left, err := in.evalExpr(fr, e.Left)
		if err != nil {
			return dynvalue.None(), err
		}
		// and/or short-circuit, so the right side must not be touched
		// until the left side's truth value demands it.
		if e.Op == "and" || e.Op == "or" {
			if e.Op == "and" && !left.ToBool() {
				return dynvalue.Bool(false), nil
			}
			if e.Op == "or" && left.ToBool() {
				return dynvalue.Bool(true), nil
			}
			right, err := in.evalExpr(fr, e.Right)
			if err != nil {
				return dynvalue.None(), err
			}
			return dynvalue.Bool(right.ToBool()), nil
		}
		right, err := in.evalExpr(fr, e.Right)
		if err != nil {
			return dynvalue.None(), err
		}
		out, err := dynvalue.BinaryOp(e.Op, left, right)
		if err != nil {
			return dynvalue.None(), posErr(e.Position, err)
		}
		return out, nil

	case *ast.ComparisonExpr:
		left, err := in.evalExpr(fr, e.Left)
		if err != nil {
			return dynvalue.None(), err
		}
		right, err := in.evalExpr(fr, e.Right)
		if err != nil {
			return dynvalue.None(), err
		}
		out, err := dynvalue.CompareOp(e.Op, left, right)
		if err != nil {
			return dynvalue.None(), posErr(e.Position, err)
		}
		return out, nil

	case *ast.CallExpr:
		return in.evalCall(fr, e)

	case *ast.Subscript:
		return in.evalSubscript(fr, e)

	case *ast.ListExpr:
		return in.evalElems(fr, e.Elements, dynvalue.List)

	case *ast.TupleExpr:
		return in.evalElems(fr, e.Elements, dynvalue.List)

	case *ast.SetExpr:
		return in.evalElems(fr, e.Elements, dynvalue.Set)

	case *ast.DictExpr:
		pairs := make(map[string]dynvalue.Value, len(e.Pairs))
		for _, p := range e.Pairs {
			k, err := in.evalExpr(fr, p.Key)
			if err != nil {
				return dynvalue.None(), err
			}
			v, err := in.evalExpr(fr, p.Value)
			if err != nil {
				return dynvalue.None(), err
			}
			pairs[k.ToString()] = v
		}
		return dynvalue.Dict(pairs), nil

	case *ast.Attribute:
		return dynvalue.None(),
			posErr(e.Position, fmt.Errorf("attribute %q is only valid as a method call", e.Name))
	}
	return dynvalue.None(), posErr(expr.Pos(), fmt.Errorf("unsupported expression %T", expr))
}

func evalLiteral(e *ast.LiteralExpr) dynvalue.Value {
	switch e.Kind {
	case ast.LitInt:
		return dynvalue.Int(e.Int)
	case ast.LitFloat:
		return dynvalue.Float(e.Float)
	case ast.LitStr:
		return dynvalue.Str(e.Str)
	case ast.LitBool:
		return dynvalue.Bool(e.Bool)
	}
	return dynvalue.None()
}

func (in *Interp) evalElems(fr *frame, elems []ast.Expression,
	build func(...dynvalue.Value) dynvalue.Value,
) (dynvalue.Value, error) {
	vals := make([]dynvalue.Value, len(elems))
	for i, el := range elems {
		v, err := in.evalExpr(fr, el)
		if err != nil {
			return dynvalue.None(), err
		}
		vals[i] = v
	}
	return build(vals...), nil
}

func (in *Interp) evalSubscript(fr *frame, e *ast.Subscript) (dynvalue.Value, error) {
	container, err := in.evalExpr(fr, e.Value)
	if err != nil {
		return dynvalue.None(), err
	}
	if !e.IsSlice {
		key, err := in.evalExpr(fr, e.Index)
		if err != nil {
			return dynvalue.None(), err
		}
		out, err := dynvalue.Index(container, key)
		if err != nil {
			return dynvalue.None(), posErr(e.Position, err)
		}
		return out, nil
	}

	bound := func(expr ast.Expression) (*dynvalue.Value, error) {
		if expr == nil {
			return nil, nil
		}
		v, err := in.evalExpr(fr, expr)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	low, err := bound(e.Low)
	if err != nil {
		return dynvalue.None(), err
	}
	high, err := bound(e.High)
	if err != nil {
		return dynvalue.None(), err
	}
	step, err := bound(e.Step)
	if err != nil {
		return dynvalue.None(), err
	}
	out, err := dynvalue.Sublist(container, low, high, step)
	if err != nil {
		return dynvalue.None(), posErr(e.Position, err)
	}
	return out, nil
}
