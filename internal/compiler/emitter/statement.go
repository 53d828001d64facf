package emitter

import (
	"fmt"

	"github.com/randaguero/fangless/internal/compiler/ast"
)

// augmentedOps maps an augmented assignment spelling to the underlying
// binary operator it desugars to.
var augmentedOps = map[string]string{
	"+=":  "+",
	"-=":  "-",
	"*=":  "*",
	"/=":  "/",
	"//=": "//",
	"%=":  "%",
	"**=": "**",
}

func (e *Emitter) emitStatement(stmt ast.Statement) {
	switch stmt := stmt.(type) {
	case *ast.Assign:
		e.emitAssign(stmt)
	case *ast.If:
		e.emitIf(stmt)
	case *ast.While:
		e.emitWhile(stmt)
	case *ast.For:
		e.emitFor(stmt)
	case *ast.Return:
		e.emitReturn(stmt)
	case *ast.Break:
		e.emitLine("break;")
	case *ast.Continue:
		e.emitLine("continue;")
	case *ast.Pass:
		// A block is never empty in the output; pass stays visible as an
		// empty statement.
		e.emitLine(";")
	case *ast.ExprStmt:
		e.emitLine(e.translateExpr(stmt.Value) + ";")
	case *ast.FunctionDef:
		e.addError(stmt.Pos(), "nested function definitions are not supported")
	case *ast.Block:
		e.emitBlock(stmt)
	default:
		e.addError(stmt.Pos(), "unknown statement type: %T", stmt)
	}
}

// emitAssign handles simple and augmented assignment to identifiers and
// subscripts. An identifier seen for the first time in the enclosing
// function gets a DynamicType declaration; the name then stays declared
// for the rest of the function regardless of block nesting.
func (e *Emitter) emitAssign(stmt *ast.Assign) {
	rhs := e.translateExpr(stmt.Value)

	switch target := stmt.Target.(type) {
	case *ast.Identifier:
		name := target.Name
		if stmt.Op == "=" {
			if e.scope.Declare(name) {
				e.emitLine(fmt.Sprintf("DynamicType %s = %s;", name, rhs))
				return
			}
			e.emitLine(fmt.Sprintf("%s = %s;", name, rhs))
			return
		}
		if !e.scope.IsDeclared(name) {
			e.addError(stmt.Pos(), "variable %q used before assignment", name)
			return
		}
		expr, ok := e.augmentedExpr(stmt, name, rhs)
		if !ok {
			return
		}
		e.emitLine(fmt.Sprintf("%s = %s;", name, expr))

	case *ast.Subscript:
		if target.IsSlice {
			e.addError(stmt.Pos(), "assignment to a slice is not supported")
			return
		}
		// Writes go through the runtime's set so a dict gains new keys
		// while the subscript read path stays free to reject them.
		container := e.translateExpr(target.Value)
		key := e.translateExpr(target.Index)
		if stmt.Op == "=" {
			e.emitLine(fmt.Sprintf("(%s).set(%s, %s);", container, key, rhs))
			return
		}
		cur := fmt.Sprintf("(%s)[%s]", container, key)
		expr, ok := e.augmentedExpr(stmt, cur, rhs)
		if !ok {
			return
		}
		e.emitLine(fmt.Sprintf("(%s).set(%s, %s);", container, key, expr))

	default:
		e.addError(stmt.Pos(), "cannot assign to %T", stmt.Target)
	}
}

// augmentedExpr desugars target OP= value into the expression
// target OP value, routing ** and // through their runtime method forms.
func (e *Emitter) augmentedExpr(stmt *ast.Assign, cur, rhs string) (string, bool) {
	op, ok := augmentedOps[stmt.Op]
	if !ok {
		e.addError(stmt.Pos(), "unsupported augmented assignment operator %q", stmt.Op)
		return "", false
	}
	switch op {
	case "//":
		return fmt.Sprintf("(%s).floor_div(%s)", cur, rhs), true
	case "**":
		return fmt.Sprintf("(%s).pow(%s)", cur, rhs), true
	}
	return fmt.Sprintf("(%s) %s (%s)", cur, op, rhs), true
}

// hoistBlockBindings predeclares, at function level, every name whose
// first plain assignment sits inside a compound statement's blocks, the
// same way the for target is declared ahead of its loop. Without this
// the declaration would land inside the C++ braces and the name would
// not survive the block. Only statements sitting directly in a function
// body hoist; anything deeper was covered by its enclosing statement.
func (e *Emitter) hoistBlockBindings(stmt ast.Statement) {
	if e.depth != 1 {
		return
	}
	for _, name := range boundNames(stmt) {
		if e.scope.Declare(name) {
			e.emitLine(fmt.Sprintf("DynamicType %s = DynamicType();", name))
		}
	}
}

// boundNames collects, in source order, the identifiers a statement's
// subtree binds: plain assignment targets and for targets. Augmented
// assignment is excluded; it requires an existing binding.
func boundNames(stmt ast.Statement) []string {
	var names []string
	var walkBlock func(*ast.Block)
	var walkStmt func(ast.Statement)
	walkStmt = func(s ast.Statement) {
		switch s := s.(type) {
		case *ast.Assign:
			if id, ok := s.Target.(*ast.Identifier); ok && s.Op == "=" {
				names = append(names, id.Name)
			}
		case *ast.If:
			walkBlock(s.Body)
			walkBlock(s.Orelse)
		case *ast.While:
			walkBlock(s.Body)
		case *ast.For:
			names = append(names, s.Target.Name)
			walkBlock(s.Body)
		case *ast.Block:
			walkBlock(s)
		}
	}
	walkBlock = func(b *ast.Block) {
		if b == nil {
			return
		}
		for _, s := range b.Stmts {
			walkStmt(s)
		}
	}
	walkStmt(stmt)
	return names
}

// emitIf flattens an elif chain (an If as the sole statement of the else
// block) into else-if branches.
func (e *Emitter) emitIf(stmt *ast.If) {
	e.hoistBlockBindings(stmt)
	e.emitLine(fmt.Sprintf("if ((%s).toBool()) {", e.translateExpr(stmt.Test)))
	e.depth++
	e.emitBlock(stmt.Body)
	e.depth--

	orelse := stmt.Orelse
	for orelse != nil {
		if len(orelse.Stmts) == 1 {
			if elif, ok := orelse.Stmts[0].(*ast.If); ok {
				e.emitLine(fmt.Sprintf("} else if ((%s).toBool()) {", e.translateExpr(elif.Test)))
				e.depth++
				e.emitBlock(elif.Body)
				e.depth--
				orelse = elif.Orelse
				continue
			}
		}
		e.emitLine("} else {")
		e.depth++
		e.emitBlock(orelse)
		e.depth--
		orelse = nil
	}
	e.emitLine("}")
}

func (e *Emitter) emitWhile(stmt *ast.While) {
	e.hoistBlockBindings(stmt)
	e.emitLine(fmt.Sprintf("while ((%s).toBool()) {", e.translateExpr(stmt.Test)))
	e.depth++
	e.emitBlock(stmt.Body)
	e.depth--
	e.emitLine("}")
}

// emitFor lowers a for loop. Iteration over range() becomes a plain
// integer loop with no intermediate list; anything else materializes the
// iterable once and walks its list form. Either way the loop variable is
// an ordinary function-scoped DynamicType bound by assignment at the top
// of each pass, so it survives the loop like any other name.
func (e *Emitter) emitFor(stmt *ast.For) {
	e.hoistBlockBindings(stmt)
	name := stmt.Target.Name
	if e.scope.Declare(name) {
		e.emitLine(fmt.Sprintf("DynamicType %s = DynamicType();", name))
	}

	if call, ok := rangeCall(stmt.Iter); ok {
		e.emitRangeFor(name, call, stmt)
		return
	}

	temp := e.nextIterTemp()
	e.emitLine(fmt.Sprintf("auto %s = (%s).toList();", temp, e.translateExpr(stmt.Iter)))
	e.emitLine(fmt.Sprintf("for (const auto& %s_el : %s) {", temp, temp))
	e.depth++
	e.emitLine(fmt.Sprintf("%s = %s_el;", name, temp))
	e.emitBlock(stmt.Body)
	e.depth--
	e.emitLine("}")
}

// rangeCall reports whether an iterable expression is a direct call to
// the range builtin with a valid argument count.
func rangeCall(expr ast.Expression) (*ast.CallExpr, bool) {
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return nil, false
	}
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok || callee.Name != "range" {
		return nil, false
	}
	if len(call.Args) < 1 || len(call.Args) > 3 {
		return nil, false
	}
	return call, true
}

func (e *Emitter) emitRangeFor(name string, call *ast.CallExpr, stmt *ast.For) {
	start, stop, step := "DynamicType(0)", "", "DynamicType(1)"
	switch len(call.Args) {
	case 1:
		stop = e.translateExpr(call.Args[0])
	case 2:
		start = e.translateExpr(call.Args[0])
		stop = e.translateExpr(call.Args[1])
	case 3:
		start = e.translateExpr(call.Args[0])
		stop = e.translateExpr(call.Args[1])
		step = e.translateExpr(call.Args[2])
	}

	// range_arg rejects non-integer bounds at runtime, matching range()
	// itself; a bare toInt() would silently truncate floats.
	temp := e.nextIterTemp()
	e.emitLine(fmt.Sprintf("long %s = range_arg(%s);", temp, start))
	e.emitLine(fmt.Sprintf("const long %s_stop = range_arg(%s);", temp, stop))
	e.emitLine(fmt.Sprintf("const long %s_step = range_arg(%s);", temp, step))
	e.emitLine(fmt.Sprintf("if (%s_step == 0) throw std::runtime_error(\"ValueError: range() arg 3 must not be zero\");", temp))
	e.emitLine(fmt.Sprintf("for (; %s_step > 0 ? %s < %s_stop : %s > %s_stop; %s += %s_step) {",
		temp, temp, temp, temp, temp, temp, temp))
	e.depth++
	e.emitLine(fmt.Sprintf("%s = DynamicType(%s);", name, temp))
	e.emitBlock(stmt.Body)
	e.depth--
	e.emitLine("}")
}

func (e *Emitter) emitReturn(stmt *ast.Return) {
	if stmt.Value == nil {
		e.emitLine("return DynamicType();")
		return
	}
	e.emitLine(fmt.Sprintf("return %s;", e.translateExpr(stmt.Value)))
}
