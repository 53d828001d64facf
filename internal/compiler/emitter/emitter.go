// Package emitter translates a parsed module into C++ source text
// targeting the DynamicType runtime library. The translators trust the
// tree's nesting and parenthesise operands instead of reasoning about
// precedence; no type inference happens here, every value is a
// DynamicType at runtime.
package emitter

import (
	"fmt"
	"strings"

	"github.com/randaguero/fangless/internal/compiler/ast"
	"github.com/randaguero/fangless/internal/compiler/scope"
)

const (
	// Mangling prefix for user-defined functions, keeping them clear of
	// the runtime's builtin names.
	fnPrefix = "_fn_"

	// Synthesized function holding the module's top-level statements.
	entryFn = fnPrefix + "__main__"

	defaultIndent = 4
)

// Options configure one translation unit.
type Options struct {
	// EntryPoint controls whether the unit gets an int main() that calls
	// the synthesized top-level function. Execution of module-level code
	// is guarded explicitly; it never rides on static initialization.
	EntryPoint bool

	// Indent is the number of spaces per nesting level. Zero means the
	// default of four.
	Indent int
}

type Emitter struct {
	builder strings.Builder
	errors  []string
	scope   *scope.Tracker
	opts    Options

	depth     int
	iterCount int
}

func New(opts Options) *Emitter {
	if opts.Indent <= 0 {
		opts.Indent = defaultIndent
	}
	return &Emitter{
		errors: []string{},
		scope:  scope.NewTracker(),
		opts:   opts,
	}
}

func (e *Emitter) addError(pos ast.Position, format string, args ...any) {
	errMsg := fmt.Sprintf(format, args...)
	e.errors = append(e.errors, fmt.Sprintf("%d:%d: %s", pos.Line, pos.Column, errMsg))
}

func (e *Emitter) Errors() []string {
	return e.errors
}

// Emit translates a whole module. Function definitions come first in
// source order, then the top-level statements gathered into a
// synthesized entry function. The returned text is meaningful only when
// Errors() is empty afterwards.
func (e *Emitter) Emit(module *ast.Module) string {
	e.builder.Reset()
	e.errors = e.errors[:0]
	e.scope.Reset()
	e.depth = 0
	e.iterCount = 0

	e.emitPreamble()

	var topLevel []ast.Statement
	for _, stmt := range module.Body {
		if fn, ok := stmt.(*ast.FunctionDef); ok {
			e.emitFunction(fn)
			continue
		}
		topLevel = append(topLevel, stmt)
	}

	e.emitEntryFunction(topLevel)
	if e.opts.EntryPoint {
		e.emitMain()
	}

	return e.builder.String()
}

func (e *Emitter) emitPreamble() {
	e.emitRaw("#include \"dynamic_type.hpp\"\n")
	e.emitRaw("#include \"builtins.hpp\"\n")
	e.emitRaw("using namespace std;\n")
	e.emitRaw("\n")
}

func (e *Emitter) emitFunction(fn *ast.FunctionDef) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = "DynamicType " + p
	}
	e.emitLine(fmt.Sprintf("DynamicType %s%s(%s) {", fnPrefix, fn.Name, strings.Join(params, ", ")))

	e.scope.EnterFunction()
	for _, p := range fn.Params {
		e.scope.Declare(p)
	}
	e.depth++
	e.emitBlock(fn.Body)
	// Every function returns a value; a body that falls off the end
	// yields None.
	e.emitLine("return DynamicType();")
	e.depth--
	e.scope.ExitFunction()

	e.emitLine("}")
	e.emitRaw("\n")
}

// emitEntryFunction wraps the module's top-level statements so that
// whether they run is decided by main(), not by the host language's
// initialization rules.
func (e *Emitter) emitEntryFunction(stmts []ast.Statement) {
	e.emitLine(fmt.Sprintf("DynamicType %s() {", entryFn))
	e.depth++
	for _, stmt := range stmts {
		e.emitStatement(stmt)
	}
	e.emitLine("return DynamicType();")
	e.depth--
	e.emitLine("}")
	e.emitRaw("\n")
}

func (e *Emitter) emitMain() {
	e.emitLine("int main() {")
	e.depth++
	e.emitLine(entryFn + "();")
	e.emitLine("return 0;")
	e.depth--
	e.emitLine("}")
}

// --- Emit helpers ---

func (e *Emitter) emitLine(line string) {
	e.builder.WriteString(strings.Repeat(" ", e.depth*e.opts.Indent))
	e.builder.WriteString(line)
	e.builder.WriteString("\n")
}

func (e *Emitter) emitRaw(s string) {
	e.builder.WriteString(s)
}

func (e *Emitter) emitBlock(block *ast.Block) {
	if block == nil {
		return
	}
	for _, stmt := range block.Stmts {
		e.emitStatement(stmt)
	}
}

// nextIterTemp hands out unit-unique names for loop iterator temps.
func (e *Emitter) nextIterTemp() string {
	name := fmt.Sprintf("__iter_temp_%d", e.iterCount)
	e.iterCount++
	return name
}
