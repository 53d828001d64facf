package ast

import (
	"fmt"
	"io"
)

// Fprint writes an indented dump of the tree, one node per line. Used by
// the `ast` subcommand and handy when a translation error needs eyeballing.
func Fprint(w io.Writer, node Node, indent string) {
	switch n := node.(type) {
	case *Module:
		fmt.Fprintln(w, indent+"Module")
		for _, stmt := range n.Body {
			Fprint(w, stmt, indent+"  ")
		}

	case *FunctionDef:
		fmt.Fprintf(w, "%sFunctionDef %s(%v)\n", indent, n.Name, n.Params)
		Fprint(w, n.Body, indent+"  ")

	case *Block:
		fmt.Fprintln(w, indent+"Block")
		for _, stmt := range n.Stmts {
			Fprint(w, stmt, indent+"  ")
		}

	case *Assign:
		fmt.Fprintf(w, "%sAssign %q\n", indent, n.Op)
		fmt.Fprintln(w, indent+"  Target:")
		Fprint(w, n.Target, indent+"    ")
		fmt.Fprintln(w, indent+"  Value:")
		Fprint(w, n.Value, indent+"    ")

	case *If:
		fmt.Fprintln(w, indent+"If")
		fmt.Fprintln(w, indent+"  Test:")
		Fprint(w, n.Test, indent+"    ")
		fmt.Fprintln(w, indent+"  Body:")
		Fprint(w, n.Body, indent+"    ")
		if n.Orelse != nil {
			fmt.Fprintln(w, indent+"  Orelse:")
			Fprint(w, n.Orelse, indent+"    ")
		}

	case *While:
		fmt.Fprintln(w, indent+"While")
		fmt.Fprintln(w, indent+"  Test:")
		Fprint(w, n.Test, indent+"    ")
		Fprint(w, n.Body, indent+"  ")

	case *For:
		fmt.Fprintf(w, "%sFor %s\n", indent, n.Target.Name)
		fmt.Fprintln(w, indent+"  Iter:")
		Fprint(w, n.Iter, indent+"    ")
		Fprint(w, n.Body, indent+"  ")

	case *Return:
		fmt.Fprintln(w, indent+"Return")
		if n.Value != nil {
			Fprint(w, n.Value, indent+"  ")
		}

	case *Break:
		fmt.Fprintln(w, indent+"Break")

	case *Continue:
		fmt.Fprintln(w, indent+"Continue")

	case *Pass:
		fmt.Fprintln(w, indent+"Pass")

	case *ExprStmt:
		fmt.Fprintln(w, indent+"ExprStmt")
		Fprint(w, n.Value, indent+"  ")

	case *LiteralExpr:
		fmt.Fprintf(w, "%sLiteral(%s): %s\n", indent, n.Kind, n.String())

	case *Identifier:
		fmt.Fprintf(w, "%sIdentifier: %s\n", indent, n.Name)

	case *UnaryExpr:
		fmt.Fprintf(w, "%sUnary %q\n", indent, n.Op)
		Fprint(w, n.Operand, indent+"  ")

	case *BinaryExpr:
		fmt.Fprintf(w, "%sBinary %q\n", indent, n.Op)
		Fprint(w, n.Left, indent+"  ")
		Fprint(w, n.Right, indent+"  ")

	case *ComparisonExpr:
		fmt.Fprintf(w, "%sComparison %q\n", indent, n.Op)
		Fprint(w, n.Left, indent+"  ")
		Fprint(w, n.Right, indent+"  ")

	case *CallExpr:
		fmt.Fprintln(w, indent+"Call")
		fmt.Fprintln(w, indent+"  Callee:")
		Fprint(w, n.Callee, indent+"    ")
		for i, arg := range n.Args {
			fmt.Fprintf(w, "%s  Arg[%d]:\n", indent, i)
			Fprint(w, arg, indent+"    ")
		}

	case *Attribute:
		fmt.Fprintf(w, "%sAttribute .%s\n", indent, n.Name)
		Fprint(w, n.Value, indent+"  ")

	case *Subscript:
		if n.IsSlice {
			fmt.Fprintln(w, indent+"Subscript (slice)")
		} else {
			fmt.Fprintln(w, indent+"Subscript")
		}
		Fprint(w, n.Value, indent+"  ")
		if n.Index != nil {
			Fprint(w, n.Index, indent+"  ")
		}
		for _, part := range []Expression{n.Low, n.High, n.Step} {
			if part != nil {
				Fprint(w, part, indent+"  ")
			}
		}

	case *TupleExpr:
		fmt.Fprintln(w, indent+"Tuple")
		for _, e := range n.Elements {
			Fprint(w, e, indent+"  ")
		}

	case *ListExpr:
		fmt.Fprintln(w, indent+"List")
		for _, e := range n.Elements {
			Fprint(w, e, indent+"  ")
		}

	case *SetExpr:
		fmt.Fprintln(w, indent+"Set")
		for _, e := range n.Elements {
			Fprint(w, e, indent+"  ")
		}

	case *DictExpr:
		fmt.Fprintln(w, indent+"Dict")
		for i, p := range n.Pairs {
			fmt.Fprintf(w, "%s  Pair[%d]:\n", indent, i)
			Fprint(w, p.Key, indent+"    ")
			Fprint(w, p.Value, indent+"    ")
		}

	default:
		fmt.Fprintf(w, "%s<unknown node type: %T>\n", indent, n)
	}
}
