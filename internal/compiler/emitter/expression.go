package emitter

import (
	"fmt"
	"strings"

	"github.com/randaguero/fangless/internal/compiler/ast"
)

// builtinNames maps a source-level builtin to the name it carries in the
// runtime support library. Identifiers that collide with C++ keywords get
// a trailing underscore there.
var builtinNames = map[string]string{
	"print": "print",
	"len":   "len",
	"range": "range",
	"str":   "str",
	"int":   "int_",
	"float": "float_",
	"bool":  "bool_",
	"abs":   "abs",
	"min":   "min",
	"max":   "max",
	"sum":   "sum",
	"type":  "type",
	"input": "input",
	"set":   "set_",
}

// methodNames is the closed set of collection methods reachable through
// attribute calls, each mapping to a DynamicType member function.
var methodNames = map[string]string{
	"append":   "append",
	"add":      "add",
	"remove":   "remove",
	"get":      "get",
	"set":      "set",
	"keys":     "keys",
	"values":   "values",
	"items":    "items",
	"contains": "contains",
	"pop":      "pop",
	"extend":   "extend",
	"insert":   "insert",
}

var comparisonOps = map[string]string{
	"==": "==",
	"!=": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

// translateExpr renders one expression as C++ text. Operands are always
// parenthesised so the tree's nesting survives without precedence
// bookkeeping. On error it records a diagnostic and returns a null value
// expression so surrounding text stays well formed.
func (e *Emitter) translateExpr(expr ast.Expression) string {
	switch expr := expr.(type) {
	case *ast.LiteralExpr:
		return e.translateLiteral(expr)
	case *ast.Identifier:
		return expr.Name
	case *ast.UnaryExpr:
		return e.translateUnary(expr)
	case *ast.BinaryExpr:
		return e.translateBinary(expr)
	case *ast.ComparisonExpr:
		return e.translateComparison(expr)
	case *ast.CallExpr:
		return e.translateCall(expr)
	case *ast.Attribute:
		e.addError(expr.Pos(), "attribute %q is only usable as a method call", expr.Name)
		return "DynamicType()"
	case *ast.Subscript:
		return e.translateSubscript(expr)
	case *ast.ListExpr:
		return e.translateList(expr.Elements)
	case *ast.TupleExpr:
		// Tuples share the list representation in the runtime.
		return e.translateList(expr.Elements)
	case *ast.SetExpr:
		return e.translateSet(expr)
	case *ast.DictExpr:
		return e.translateDict(expr)
	default:
		e.addError(expr.Pos(), "unknown expression type: %T", expr)
		return "DynamicType()"
	}
}

func (e *Emitter) translateUnary(expr *ast.UnaryExpr) string {
	operand := e.translateExpr(expr.Operand)
	switch expr.Op {
	case "-":
		return fmt.Sprintf("-(%s)", operand)
	case "+":
		return fmt.Sprintf("+(%s)", operand)
	case "not":
		return fmt.Sprintf("DynamicType(!((%s).toBool()))", operand)
	}
	e.addError(expr.Pos(), "unknown unary operator %q", expr.Op)
	return "DynamicType()"
}

func (e *Emitter) translateBinary(expr *ast.BinaryExpr) string {
	left := e.translateExpr(expr.Left)
	right := e.translateExpr(expr.Right)
	switch expr.Op {
	case "+", "-", "*", "/", "%":
		return fmt.Sprintf("(%s) %s (%s)", left, expr.Op, right)
	case "**":
		return fmt.Sprintf("(%s).pow(%s)", left, right)
	case "//":
		return fmt.Sprintf("(%s).floor_div(%s)", left, right)
	case "and":
		return fmt.Sprintf("DynamicType((%s).toBool() && (%s).toBool())", left, right)
	case "or":
		return fmt.Sprintf("DynamicType((%s).toBool() || (%s).toBool())", left, right)
	}
	e.addError(expr.Pos(), "unknown binary operator %q", expr.Op)
	return "DynamicType()"
}

// translateComparison wraps the raw bool produced by the relational
// operator back into a runtime value so comparisons stay composable.
func (e *Emitter) translateComparison(expr *ast.ComparisonExpr) string {
	op, ok := comparisonOps[expr.Op]
	if !ok {
		e.addError(expr.Pos(), "unknown comparison operator %q", expr.Op)
		return "DynamicType()"
	}
	left := e.translateExpr(expr.Left)
	right := e.translateExpr(expr.Right)
	return fmt.Sprintf("DynamicType((%s) %s (%s))", left, op, right)
}

func (e *Emitter) translateCall(call *ast.CallExpr) string {
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		args[i] = e.translateExpr(a)
	}
	joined := strings.Join(args, ", ")

	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		if runtimeName, ok := builtinNames[callee.Name]; ok {
			return fmt.Sprintf("%s(%s)", runtimeName, joined)
		}
		return fmt.Sprintf("%s%s(%s)", fnPrefix, callee.Name, joined)
	case *ast.Attribute:
		method, ok := methodNames[callee.Name]
		if !ok {
			e.addError(callee.Pos(), "unknown method %q", callee.Name)
			return "DynamicType()"
		}
		recv := e.translateExpr(callee.Value)
		return fmt.Sprintf("(%s).%s(%s)", recv, method, joined)
	}
	e.addError(call.Pos(), "cannot call %T", call.Callee)
	return "DynamicType()"
}

// translateSubscript renders indexing through the runtime's operator[]
// and slicing through sublist. Absent slice bounds pass a null value and
// the runtime fills in the defaults, including the reversed ones for a
// negative step.
func (e *Emitter) translateSubscript(expr *ast.Subscript) string {
	value := e.translateExpr(expr.Value)
	if !expr.IsSlice {
		return fmt.Sprintf("(%s)[%s]", value, e.translateExpr(expr.Index))
	}
	bound := func(b ast.Expression) string {
		if b == nil {
			return "DynamicType()"
		}
		return e.translateExpr(b)
	}
	return fmt.Sprintf("(%s).sublist(%s, %s, %s)",
		value, bound(expr.Low), bound(expr.High), bound(expr.Step))
}
