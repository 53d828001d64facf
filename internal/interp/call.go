package interp

import (
	"fmt"

	"github.com/randaguero/fangless/internal/compiler/ast"
	"github.com/randaguero/fangless/internal/runtime/dynvalue"
)

func (in *Interp) evalCall(fr *frame, call *ast.CallExpr) (dynvalue.Value, error) {
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		args, err := in.evalArgs(fr, call.Args)
		if err != nil {
			return dynvalue.None(), err
		}
		if fn, ok := in.funcs[callee.Name]; ok {
			return in.callFunction(fn, args, call.Position)
		}
		out, err := in.callBuiltin(callee.Name, args)
		if err != nil {
			return dynvalue.None(), posErr(call.Position, err)
		}
		return out, nil

	case *ast.Attribute:
		recv, err := in.evalExpr(fr, callee.Value)
		if err != nil {
			return dynvalue.None(), err
		}
		args, err := in.evalArgs(fr, call.Args)
		if err != nil {
			return dynvalue.None(), err
		}
		out, err := callMethod(recv, callee.Name, args)
		if err != nil {
			return dynvalue.None(), posErr(call.Position, err)
		}
		return out, nil
	}
	return dynvalue.None(), posErr(call.Position, fmt.Errorf("cannot call %T", call.Callee))
}

func (in *Interp) evalArgs(fr *frame, exprs []ast.Expression) ([]dynvalue.Value, error) {
	args := make([]dynvalue.Value, len(exprs))
	for i, e := range exprs {
		v, err := in.evalExpr(fr, e)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (in *Interp) callFunction(fn *ast.FunctionDef, args []dynvalue.Value, at ast.Position) (dynvalue.Value, error) {
	if len(args) != len(fn.Params) {
		return dynvalue.None(), posErr(at,
			fmt.Errorf("%s() takes %d arguments, got %d", fn.Name, len(fn.Params), len(args)))
	}
	fr := &frame{vars: make(map[string]dynvalue.Value, len(fn.Params))}
	for i, name := range fn.Params {
		fr.vars[name] = args[i]
	}
	ctrl, ret, err := in.execBlock(fr, fn.Body)
	if err != nil {
		return dynvalue.None(), err
	}
	switch ctrl {
	case ctrlReturn:
		return ret, nil
	case ctrlBreak, ctrlContinue:
		return dynvalue.None(), posErr(at, fmt.Errorf("loop control outside a loop in %s()", fn.Name))
	}
	return dynvalue.None(), nil
}

func (in *Interp) callBuiltin(name string, args []dynvalue.Value) (dynvalue.Value, error) {
	one := func() (dynvalue.Value, error) {
		if len(args) != 1 {
			return dynvalue.None(), fmt.Errorf("%s() takes 1 argument, got %d", name, len(args))
		}
		return args[0], nil
	}

	switch name {
	case "print":
		return dynvalue.None(), dynvalue.Print(in.stdout, args...)
	case "len":
		v, err := one()
		if err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.Len(v)
	case "range":
		return dynvalue.Range(args...)
	case "str":
		v, err := one()
		if err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.ToStr(v), nil
	case "int":
		v, err := one()
		if err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.ToIntValue(v)
	case "float":
		v, err := one()
		if err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.ToFloatValue(v)
	case "bool":
		v, err := one()
		if err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.ToBoolValue(v), nil
	case "abs":
		v, err := one()
		if err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.Abs(v)
	case "min":
		return dynvalue.Min(args...)
	case "max":
		return dynvalue.Max(args...)
	case "sum":
		v, err := one()
		if err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.Sum(v)
	case "type":
		v, err := one()
		if err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.TypeName(v), nil
	case "input":
		switch len(args) {
		case 0:
			return dynvalue.Input(in.stdin, in.stdout, nil)
		case 1:
			return dynvalue.Input(in.stdin, in.stdout, &args[0])
		}
		return dynvalue.None(), fmt.Errorf("input() takes at most 1 argument, got %d", len(args))
	case "set":
		return dynvalue.NewSet(args...)
	}
	return dynvalue.None(), fmt.Errorf("undefined function %q", name)
}

func callMethod(recv dynvalue.Value, name string, args []dynvalue.Value) (dynvalue.Value, error) {
	arity := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s() takes %d arguments, got %d", name, n, len(args))
		}
		return nil
	}

	switch name {
	case "append":
		if err := arity(1); err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.None(), recv.Append(args[0])
	case "add":
		if err := arity(1); err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.None(), recv.AddElem(args[0])
	case "remove":
		if err := arity(1); err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.None(), recv.Remove(args[0])
	case "insert":
		if err := arity(2); err != nil {
			return dynvalue.None(), err
		}
		i, err := args[0].ToInt()
		if err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.None(), recv.Insert(i, args[1])
	case "extend":
		if err := arity(1); err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.None(), recv.Extend(args[0])
	case "pop":
		switch len(args) {
		case 0:
			return recv.Pop(-1)
		case 1:
			i, err := args[0].ToInt()
			if err != nil {
				return dynvalue.None(), err
			}
			return recv.Pop(i)
		}
		return dynvalue.None(), fmt.Errorf("pop() takes at most 1 argument, got %d", len(args))
	case "contains":
		if err := arity(1); err != nil {
			return dynvalue.None(), err
		}
		ok, err := recv.Contains(args[0])
		if err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.Bool(ok), nil
	case "get":
		if err := arity(1); err != nil {
			return dynvalue.None(), err
		}
		return recv.Get(args[0])
	case "set":
		if err := arity(2); err != nil {
			return dynvalue.None(), err
		}
		return dynvalue.None(), dynvalue.SetIndex(recv, args[0], args[1])
	case "keys":
		if err := arity(0); err != nil {
			return dynvalue.None(), err
		}
		return recv.Keys()
	case "values":
		if err := arity(0); err != nil {
			return dynvalue.None(), err
		}
		return recv.Values()
	case "items":
		if err := arity(0); err != nil {
			return dynvalue.None(), err
		}
		return recv.Items()
	}
	return dynvalue.None(), fmt.Errorf("unknown method %q on %s", name, dynvalue.TypeName(recv).ToString())
}
