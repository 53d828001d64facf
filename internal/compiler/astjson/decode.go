// Package astjson decodes the JSON tree format produced by the upstream
// parser into the ast node set. It is the input contract of the
// compiler, not a parser: the document must already be a structured
// tree.
//
// Every node is an object with a "_type" discriminator and optional
// "line"/"col" position fields. The shapes follow the upstream parser's
// dump format: "Name" carries "id", "Constant" carries "value", "Call"
// carries "func" and "args", collection literals carry "elts", dicts
// parallel "keys"/"values" arrays, and statement bodies are plain
// arrays under "body"/"orelse".
package astjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/randaguero/fangless/internal/compiler/ast"
)

// node is the raw decoded form of one tree node.
type node struct {
	Type string `json:"_type"`
	Line int    `json:"line"`
	Col  int    `json:"col"`

	// Statement payloads.
	Name   string            `json:"name"`
	Params []string          `json:"params"`
	Body   []json.RawMessage `json:"body"`
	Orelse []json.RawMessage `json:"orelse"`
	Target json.RawMessage   `json:"target"`
	Op     string            `json:"op"`
	Test   json.RawMessage   `json:"test"`
	Iter   json.RawMessage   `json:"iter"`

	// Expression payloads.
	ID      string            `json:"id"`
	Value   json.RawMessage   `json:"value"`
	Operand json.RawMessage   `json:"operand"`
	Left    json.RawMessage   `json:"left"`
	Right   json.RawMessage   `json:"right"`
	Func    json.RawMessage   `json:"func"`
	Args    []json.RawMessage `json:"args"`
	Attr    string            `json:"attr"`
	Index   json.RawMessage   `json:"index"`
	Slice   *sliceNode        `json:"slice"`
	Elts    []json.RawMessage `json:"elts"`
	Keys    []json.RawMessage `json:"keys"`
	Values  []json.RawMessage `json:"values"`
}

type sliceNode struct {
	Lower json.RawMessage `json:"lower"`
	Upper json.RawMessage `json:"upper"`
	Step  json.RawMessage `json:"step"`
}

func (n *node) pos() ast.Position {
	return ast.Position{Line: n.Line, Column: n.Col}
}

// DecodeModule parses a JSON document into a module tree.
func DecodeModule(data []byte) (*ast.Module, error) {
	n, err := unmarshalNode(data)
	if err != nil {
		return nil, err
	}
	if n.Type != "Module" {
		return nil, fmt.Errorf("astjson: root node is %q, want Module", n.Type)
	}
	body, err := decodeStmts(n.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Module{Position: n.pos(), Body: body}, nil
}

func unmarshalNode(data []byte) (*node, error) {
	var n node
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return nil, fmt.Errorf("astjson: %w", err)
	}
	if n.Type == "" {
		return nil, fmt.Errorf("astjson: node missing _type")
	}
	return &n, nil
}

func decodeStmts(raw []json.RawMessage) ([]ast.Statement, error) {
	stmts := make([]ast.Statement, 0, len(raw))
	for _, r := range raw {
		s, err := decodeStmt(r)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func decodeBlock(pos ast.Position, raw []json.RawMessage) (*ast.Block, error) {
	stmts, err := decodeStmts(raw)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Position: pos, Stmts: stmts}, nil
}

func decodeStmt(data json.RawMessage) (ast.Statement, error) {
	n, err := unmarshalNode(data)
	if err != nil {
		return nil, err
	}
	switch n.Type {
	case "FunctionDef":
		body, err := decodeBlock(n.pos(), n.Body)
		if err != nil {
			return nil, err
		}
		if n.Name == "" {
			return nil, fmt.Errorf("astjson: FunctionDef missing name")
		}
		return &ast.FunctionDef{Position: n.pos(), Name: n.Name, Params: n.Params, Body: body}, nil

	case "Assign":
		target, err := decodeExpr(n.Target)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		op := n.Op
		if op == "" {
			op = "="
		}
		return &ast.Assign{Position: n.pos(), Target: target, Op: op, Value: value}, nil

	case "If":
		test, err := decodeExpr(n.Test)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(n.pos(), n.Body)
		if err != nil {
			return nil, err
		}
		var orelse *ast.Block
		if len(n.Orelse) > 0 {
			orelse, err = decodeBlock(n.pos(), n.Orelse)
			if err != nil {
				return nil, err
			}
		}
		return &ast.If{Position: n.pos(), Test: test, Body: body, Orelse: orelse}, nil

	case "While":
		test, err := decodeExpr(n.Test)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(n.pos(), n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.While{Position: n.pos(), Test: test, Body: body}, nil

	case "For":
		target, err := decodeExpr(n.Target)
		if err != nil {
			return nil, err
		}
		ident, ok := target.(*ast.Identifier)
		if !ok {
			return nil, fmt.Errorf("astjson: for-loop target must be a Name, got %T", target)
		}
		iter, err := decodeExpr(n.Iter)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(n.pos(), n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.For{Position: n.pos(), Target: ident, Iter: iter, Body: body}, nil

	case "Return":
		var value ast.Expression
		if len(n.Value) > 0 && !bytes.Equal(n.Value, []byte("null")) {
			value, err = decodeExpr(n.Value)
			if err != nil {
				return nil, err
			}
		}
		return &ast.Return{Position: n.pos(), Value: value}, nil

	case "Break":
		return &ast.Break{Position: n.pos()}, nil
	case "Continue":
		return &ast.Continue{Position: n.pos()}, nil
	case "Pass":
		return &ast.Pass{Position: n.pos()}, nil

	case "Expr":
		value, err := decodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Position: n.pos(), Value: value}, nil
	}
	return nil, fmt.Errorf("astjson: unknown statement type %q", n.Type)
}

func decodeExprs(raw []json.RawMessage) ([]ast.Expression, error) {
	exprs := make([]ast.Expression, 0, len(raw))
	for _, r := range raw {
		e, err := decodeExpr(r)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func decodeExpr(data json.RawMessage) (ast.Expression, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("astjson: missing expression")
	}
	n, err := unmarshalNode(data)
	if err != nil {
		return nil, err
	}
	switch n.Type {
	case "Constant":
		return decodeConstant(n)

	case "Name":
		if n.ID == "" {
			return nil, fmt.Errorf("astjson: Name missing id")
		}
		return &ast.Identifier{Position: n.pos(), Name: n.ID}, nil

	case "UnaryOp":
		operand, err := decodeExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Position: n.pos(), Op: n.Op, Operand: operand}, nil

	case "BinOp", "BoolOp":
		left, err := decodeExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Position: n.pos(), Left: left, Op: n.Op, Right: right}, nil

	case "Compare":
		left, err := decodeExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.ComparisonExpr{Position: n.pos(), Left: left, Op: n.Op, Right: right}, nil

	case "Call":
		callee, err := decodeExpr(n.Func)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Position: n.pos(), Callee: callee, Args: args}, nil

	case "Attribute":
		value, err := decodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Attribute{Position: n.pos(), Value: value, Name: n.Attr}, nil

	case "Subscript":
		value, err := decodeExpr(n.Value)
		if err != nil {
			return nil, err
		}
		if n.Slice != nil {
			sub := &ast.Subscript{Position: n.pos(), Value: value, IsSlice: true}
			if sub.Low, err = decodeOptExpr(n.Slice.Lower); err != nil {
				return nil, err
			}
			if sub.High, err = decodeOptExpr(n.Slice.Upper); err != nil {
				return nil, err
			}
			if sub.Step, err = decodeOptExpr(n.Slice.Step); err != nil {
				return nil, err
			}
			return sub, nil
		}
		index, err := decodeExpr(n.Index)
		if err != nil {
			return nil, err
		}
		return &ast.Subscript{Position: n.pos(), Value: value, Index: index}, nil

	case "List":
		elems, err := decodeExprs(n.Elts)
		if err != nil {
			return nil, err
		}
		return &ast.ListExpr{Position: n.pos(), Elements: elems}, nil

	case "Tuple":
		elems, err := decodeExprs(n.Elts)
		if err != nil {
			return nil, err
		}
		return &ast.TupleExpr{Position: n.pos(), Elements: elems}, nil

	case "Set":
		elems, err := decodeExprs(n.Elts)
		if err != nil {
			return nil, err
		}
		return &ast.SetExpr{Position: n.pos(), Elements: elems}, nil

	case "Dict":
		if len(n.Keys) != len(n.Values) {
			return nil, fmt.Errorf("astjson: Dict has %d keys and %d values", len(n.Keys), len(n.Values))
		}
		pairs := make([]ast.DictPair, len(n.Keys))
		for i := range n.Keys {
			k, err := decodeExpr(n.Keys[i])
			if err != nil {
				return nil, err
			}
			v, err := decodeExpr(n.Values[i])
			if err != nil {
				return nil, err
			}
			pairs[i] = ast.DictPair{Key: k, Value: v}
		}
		return &ast.DictExpr{Position: n.pos(), Pairs: pairs}, nil
	}
	return nil, fmt.Errorf("astjson: unknown expression type %q", n.Type)
}

func decodeOptExpr(data json.RawMessage) (ast.Expression, error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	return decodeExpr(data)
}

// decodeConstant maps a JSON constant to a literal. Numbers keep the
// int/float distinction by inspecting the raw token, so 3 and 3.0
// arrive as different literals.
func decodeConstant(n *node) (ast.Expression, error) {
	lit := &ast.LiteralExpr{Position: n.pos()}
	if len(n.Value) == 0 || bytes.Equal(n.Value, []byte("null")) {
		lit.Kind = ast.LitNone
		return lit, nil
	}

	dec := json.NewDecoder(bytes.NewReader(n.Value))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("astjson: bad constant: %w", err)
	}

	switch v := v.(type) {
	case bool:
		lit.Kind = ast.LitBool
		lit.Bool = v
	case string:
		lit.Kind = ast.LitStr
		lit.Str = v
	case json.Number:
		if strings.ContainsAny(v.String(), ".eE") {
			f, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("astjson: bad float constant %q: %w", v, err)
			}
			lit.Kind = ast.LitFloat
			lit.Float = f
		} else {
			i, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("astjson: bad int constant %q: %w", v, err)
			}
			lit.Kind = ast.LitInt
			lit.Int = i
		}
	default:
		return nil, fmt.Errorf("astjson: unsupported constant %s", n.Value)
	}
	return lit, nil
}
