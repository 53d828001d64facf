package ast

import (
	"bytes"
	"fmt"
	"strings"
)

// Position is the source location a node came from. The parser that built
// the tree supplies it; the translators only report it in diagnostics.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// --- Interfaces ---

type Node interface {
	Pos() Position
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// --- Module ---

// Module is the root of one translation unit: function definitions mixed
// with top-level statements, in source order.
type Module struct {
	Position Position
	Body     []Statement
}

func (m *Module) Pos() Position { return m.Position }
func (m *Module) String() string {
	var out bytes.Buffer
	for _, s := range m.Body {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// --- Statements ---

// FunctionDef -> def name(params): body
type FunctionDef struct {
	Position Position
	Name     string
	Params   []string
	Body     *Block
}

func (fd *FunctionDef) statementNode() {}
func (fd *FunctionDef) Pos() Position  { return fd.Position }
func (fd *FunctionDef) String() string {
	var out bytes.Buffer
	out.WriteString("def " + fd.Name + "(")
	out.WriteString(strings.Join(fd.Params, ", "))
	out.WriteString("):\n")
	if fd.Body != nil {
		out.WriteString(indentBlock(fd.Body.String()))
	}
	return out.String()
}

// Block is a suite of statements. Blocks share the enclosing function's
// scope; they never introduce one of their own.
type Block struct {
	Position Position
	Stmts    []Statement
}

func (b *Block) statementNode() {}
func (b *Block) Pos() Position  { return b.Position }
func (b *Block) String() string {
	var out bytes.Buffer
	for _, s := range b.Stmts {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Assign -> target = value, or an augmented form (Op "+=", "-=", ...).
// Op is "=" for plain assignment. Target is an Identifier or a Subscript.
type Assign struct {
	Position Position
	Target   Expression
	Op       string
	Value    Expression
}

func (a *Assign) statementNode() {}
func (a *Assign) Pos() Position  { return a.Position }
func (a *Assign) String() string {
	return a.Target.String() + " " + a.Op + " " + a.Value.String()
}

// If -> if test: body [else: orelse]. Chained elifs arrive as a nested If
// that is the sole statement of Orelse.
type If struct {
	Position Position
	Test     Expression
	Body     *Block
	Orelse   *Block
}

func (i *If) statementNode() {}
func (i *If) Pos() Position  { return i.Position }
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("if " + i.Test.String() + ":\n")
	out.WriteString(indentBlock(i.Body.String()))
	if i.Orelse != nil {
		out.WriteString("else:\n")
		out.WriteString(indentBlock(i.Orelse.String()))
	}
	return out.String()
}

// While -> while test: body
type While struct {
	Position Position
	Test     Expression
	Body     *Block
}

func (w *While) statementNode() {}
func (w *While) Pos() Position  { return w.Position }
func (w *While) String() string {
	return "while " + w.Test.String() + ":\n" + indentBlock(w.Body.String())
}

// For -> for target in iter: body
type For struct {
	Position Position
	Target   *Identifier
	Iter     Expression
	Body     *Block
}

func (f *For) statementNode() {}
func (f *For) Pos() Position  { return f.Position }
func (f *For) String() string {
	return "for " + f.Target.String() + " in " + f.Iter.String() + ":\n" +
		indentBlock(f.Body.String())
}

// Return -> return [value]
type Return struct {
	Position Position
	Value    Expression // nil for a bare return
}

func (r *Return) statementNode() {}
func (r *Return) Pos() Position  { return r.Position }
func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}

type Break struct {
	Position Position
}

func (b *Break) statementNode() {}
func (b *Break) Pos() Position  { return b.Position }
func (b *Break) String() string { return "break" }

type Continue struct {
	Position Position
}

func (c *Continue) statementNode() {}
func (c *Continue) Pos() Position  { return c.Position }
func (c *Continue) String() string { return "continue" }

type Pass struct {
	Position Position
}

func (p *Pass) statementNode() {}
func (p *Pass) Pos() Position  { return p.Position }
func (p *Pass) String() string { return "pass" }

// ExprStmt wraps an expression evaluated for its effect (usually a call).
type ExprStmt struct {
	Position Position
	Value    Expression
}

func (es *ExprStmt) statementNode() {}
func (es *ExprStmt) Pos() Position  { return es.Position }
func (es *ExprStmt) String() string { return es.Value.String() }

// --- Expressions ---

// LiteralKind tells the translator which dynamic-value constructor a
// LiteralExpr maps to. The int/float distinction is made by the parser
// (fractional part or exponent present), never re-derived here.
type LiteralKind int

const (
	LitNone LiteralKind = iota
	LitInt
	LitFloat
	LitStr
	LitBool
)

func (k LiteralKind) String() string {
	switch k {
	case LitNone:
		return "None"
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitStr:
		return "str"
	case LitBool:
		return "bool"
	}
	return "unknown"
}

// LiteralExpr -> 42, 3.5, "hi", True, None
type LiteralExpr struct {
	Position Position
	Kind     LiteralKind
	Int      int64
	Float    float64
	Str      string
	Bool     bool
}

func (l *LiteralExpr) expressionNode() {}
func (l *LiteralExpr) Pos() Position   { return l.Position }
func (l *LiteralExpr) String() string {
	switch l.Kind {
	case LitNone:
		return "None"
	case LitInt:
		return fmt.Sprintf("%d", l.Int)
	case LitFloat:
		return fmt.Sprintf("%g", l.Float)
	case LitStr:
		return fmt.Sprintf("%q", l.Str)
	case LitBool:
		if l.Bool {
			return "True"
		}
		return "False"
	}
	return "<bad literal>"
}

// Identifier -> name
type Identifier struct {
	Position Position
	Name     string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) Pos() Position   { return i.Position }
func (i *Identifier) String() string  { return i.Name }

// UnaryExpr -> -x, +x, not x
type UnaryExpr struct {
	Position Position
	Op       string // "-", "+", "not"
	Operand  Expression
}

func (u *UnaryExpr) expressionNode() {}
func (u *UnaryExpr) Pos() Position   { return u.Position }
func (u *UnaryExpr) String() string {
	if u.Op == "not" {
		return "not " + u.Operand.String()
	}
	return u.Op + u.Operand.String()
}

// BinaryExpr -> x + y, a ** b, p and q
type BinaryExpr struct {
	Position Position
	Left     Expression
	Op       string // "+", "-", "*", "/", "//", "%", "**", "and", "or"
	Right    Expression
}

func (b *BinaryExpr) expressionNode() {}
func (b *BinaryExpr) Pos() Position   { return b.Position }
func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")"
}

// ComparisonExpr -> x < y, a == b. Chained comparisons are nested by the
// parser; each node is strictly binary.
type ComparisonExpr struct {
	Position Position
	Left     Expression
	Op       string // "==", "!=", "<", "<=", ">", ">="
	Right    Expression
}

func (c *ComparisonExpr) expressionNode() {}
func (c *ComparisonExpr) Pos() Position   { return c.Position }
func (c *ComparisonExpr) String() string {
	return "(" + c.Left.String() + " " + c.Op + " " + c.Right.String() + ")"
}

// CallExpr -> callee(arg, ...). Callee is an Identifier for plain and
// builtin calls, or an Attribute for method calls.
type CallExpr struct {
	Position Position
	Callee   Expression
	Args     []Expression
}

func (c *CallExpr) expressionNode() {}
func (c *CallExpr) Pos() Position   { return c.Position }
func (c *CallExpr) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// Attribute -> value.name
type Attribute struct {
	Position Position
	Value    Expression
	Name     string
}

func (a *Attribute) expressionNode() {}
func (a *Attribute) Pos() Position   { return a.Position }
func (a *Attribute) String() string  { return a.Value.String() + "." + a.Name }

// Subscript -> value[index] or value[low:high:step]. For a plain index only
// Index is set; for a slice IsSlice is true and any of Low/High/Step may be
// nil when omitted in the source.
type Subscript struct {
	Position Position
	Value    Expression
	Index    Expression
	IsSlice  bool
	Low      Expression
	High     Expression
	Step     Expression
}

func (s *Subscript) expressionNode() {}
func (s *Subscript) Pos() Position   { return s.Position }
func (s *Subscript) String() string {
	if !s.IsSlice {
		return s.Value.String() + "[" + s.Index.String() + "]"
	}
	part := func(e Expression) string {
		if e == nil {
			return ""
		}
		return e.String()
	}
	out := s.Value.String() + "[" + part(s.Low) + ":" + part(s.High)
	if s.Step != nil {
		out += ":" + part(s.Step)
	}
	return out + "]"
}

// TupleExpr -> (1, 2, 3)
type TupleExpr struct {
	Position Position
	Elements []Expression
}

func (t *TupleExpr) expressionNode() {}
func (t *TupleExpr) Pos() Position   { return t.Position }
func (t *TupleExpr) String() string  { return "(" + joinExprs(t.Elements) + ")" }

// ListExpr -> [1, 2, 3]
type ListExpr struct {
	Position Position
	Elements []Expression
}

func (l *ListExpr) expressionNode() {}
func (l *ListExpr) Pos() Position   { return l.Position }
func (l *ListExpr) String() string  { return "[" + joinExprs(l.Elements) + "]" }

// SetExpr -> {1, 2, 3}
type SetExpr struct {
	Position Position
	Elements []Expression
}

func (s *SetExpr) expressionNode() {}
func (s *SetExpr) Pos() Position   { return s.Position }
func (s *SetExpr) String() string  { return "{" + joinExprs(s.Elements) + "}" }

// DictPair is one key: value entry of a DictExpr.
type DictPair struct {
	Key   Expression
	Value Expression
}

// DictExpr -> {"a": 1, "b": 2}
type DictExpr struct {
	Position Position
	Pairs    []DictPair
}

func (d *DictExpr) expressionNode() {}
func (d *DictExpr) Pos() Position   { return d.Position }
func (d *DictExpr) String() string {
	parts := make([]string, len(d.Pairs))
	for i, p := range d.Pairs {
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// --- helpers ---

func joinExprs(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func indentBlock(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
