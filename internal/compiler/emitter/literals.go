package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/randaguero/fangless/internal/compiler/ast"
)

// translateLiteral wraps a scalar literal in the matching DynamicType
// constructor. Strings go through std::string explicitly so the char
// pointer overload never kicks in.
func (e *Emitter) translateLiteral(lit *ast.LiteralExpr) string {
	switch lit.Kind {
	case ast.LitNone:
		return "DynamicType()"
	case ast.LitBool:
		if lit.Bool {
			return "DynamicType(true)"
		}
		return "DynamicType(false)"
	case ast.LitInt:
		return fmt.Sprintf("DynamicType(%d)", lit.Int)
	case ast.LitFloat:
		return fmt.Sprintf("DynamicType(%s)", formatFloatLiteral(lit.Float))
	case ast.LitStr:
		return fmt.Sprintf("DynamicType(std::string(%s))", quoteCpp(lit.Str))
	}
	e.addError(lit.Pos(), "unknown literal kind: %v", lit.Kind)
	return "DynamicType()"
}

// formatFloatLiteral renders a float so C++ reads it back as a double:
// integral values keep an explicit decimal point.
func formatFloatLiteral(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// quoteCpp renders a Go string as a double-quoted C++ string literal.
func quoteCpp(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Collection literals deduce their runtime shape from the node variant
// alone: lists and tuples become the vector-backed list, sets the hashed
// set, dicts the string-keyed ordered map. Elements recurse through the
// expression translator, so nesting falls out for free.

func (e *Emitter) translateList(elems []ast.Expression) string {
	parts := make([]string, len(elems))
	for i, el := range elems {
		parts[i] = e.translateExpr(el)
	}
	return fmt.Sprintf("DynamicType(std::vector<DynamicType>{%s})", strings.Join(parts, ", "))
}

func (e *Emitter) translateSet(expr *ast.SetExpr) string {
	parts := make([]string, len(expr.Elements))
	for i, el := range expr.Elements {
		parts[i] = e.translateExpr(el)
	}
	return fmt.Sprintf("DynamicType(std::unordered_set<DynamicType>{%s})", strings.Join(parts, ", "))
}

// translateDict renders a dict literal. Keys are strings in the runtime;
// a string literal key embeds directly, any other key expression is
// converted at runtime through toString.
func (e *Emitter) translateDict(expr *ast.DictExpr) string {
	parts := make([]string, len(expr.Pairs))
	for i, pair := range expr.Pairs {
		var key string
		if lit, ok := pair.Key.(*ast.LiteralExpr); ok && lit.Kind == ast.LitStr {
			key = "std::string(" + quoteCpp(lit.Str) + ")"
		} else {
			key = fmt.Sprintf("(%s).toString()", e.translateExpr(pair.Key))
		}
		parts[i] = fmt.Sprintf("{%s, %s}", key, e.translateExpr(pair.Value))
	}
	return fmt.Sprintf("DynamicType(std::map<std::string, DynamicType>{%s})", strings.Join(parts, ", "))
}
