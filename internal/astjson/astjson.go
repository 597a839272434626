// Package astjson decodes the JSON-encoded AST cmd/aslc reads from the
// file named on its command line. The lexer and parser that would normally build an
// *ast.Program are external to this module (spec.md §1's Non-goals);
// a hosted front end hands this core a parsed tree instead, and JSON
// is the most interoperable wire shape for that handoff, the way the
// teacher's own cmd/ layer decodes a request body into domain structs
// before handing it to the analyzer.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/mgv99/aslcore/internal/ast"
	"github.com/mgv99/aslcore/internal/token"
)

type wirePos struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (p wirePos) token(lexeme string) token.Token {
	return token.Token{Lexeme: lexeme, Pos: token.Position{File: p.File, Line: p.Line, Column: p.Column}}
}

type kinded struct {
	Kind string `json:"kind"`
}

type wireProgram struct {
	Pos       wirePos        `json:"pos"`
	Functions []wireFunction `json:"functions"`
}

type wireParam struct {
	Pos  wirePos         `json:"pos"`
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type wireDecl struct {
	Pos   wirePos         `json:"pos"`
	Type  json.RawMessage `json:"type"`
	Names []string        `json:"names"`
}

type wireFunction struct {
	Pos        wirePos           `json:"pos"`
	Name       string            `json:"name"`
	Params     []wireParam       `json:"params"`
	ReturnType json.RawMessage   `json:"returnType,omitempty"`
	Decls      []wireDecl        `json:"decls"`
	Body       []json.RawMessage `json:"body"`
}

// Decode parses a JSON document into an *ast.Program.
func Decode(data []byte) (*ast.Program, error) {
	var wp wireProgram
	if err := json.Unmarshal(data, &wp); err != nil {
		return nil, fmt.Errorf("astjson: %w", err)
	}

	prog := &ast.Program{Tok: wp.Pos.token("program")}
	for _, wf := range wp.Functions {
		fn, err := decodeFunction(wf)
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, nil
}

func decodeFunction(wf wireFunction) (*ast.Function, error) {
	fn := &ast.Function{Tok: wf.Pos.token(wf.Name), Name: wf.Name}

	for _, wp := range wf.Params {
		ty, err := decodeType(wp.Type)
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, &ast.Param{Tok: wp.Pos.token(wp.Name), Name: wp.Name, Type: ty})
	}

	if len(wf.ReturnType) > 0 {
		ty, err := decodeType(wf.ReturnType)
		if err != nil {
			return nil, err
		}
		fn.ReturnType = ty
	}

	for _, wd := range wf.Decls {
		ty, err := decodeType(wd.Type)
		if err != nil {
			return nil, err
		}
		fn.Decls = append(fn.Decls, &ast.VariableDecl{Tok: wd.Pos.token(""), Type: ty, Names: wd.Names})
	}

	for _, raw := range wf.Body {
		s, err := decodeStmt(raw)
		if err != nil {
			return nil, err
		}
		fn.Body = append(fn.Body, s)
	}

	return fn, nil
}

func decodeType(raw json.RawMessage) (ast.TypeNode, error) {
	var k kinded
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, fmt.Errorf("astjson: type: %w", err)
	}
	switch k.Kind {
	case "basic":
		var w struct {
			Pos  wirePos `json:"pos"`
			Name string  `json:"name"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		kind, err := basicKindFromName(w.Name)
		if err != nil {
			return nil, err
		}
		return &ast.BasicType{Tok: w.Pos.token(w.Name), Kind: kind}, nil
	case "array":
		var w struct {
			Pos  wirePos         `json:"pos"`
			Size int64           `json:"size"`
			Elem json.RawMessage `json:"elem"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		elem, err := decodeType(w.Elem)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayType{Tok: w.Pos.token("array"), Size: w.Size, Elem: elem}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown type kind %q", k.Kind)
	}
}

func basicKindFromName(name string) (ast.BasicKind, error) {
	switch name {
	case "int":
		return ast.BasicInt, nil
	case "float":
		return ast.BasicFloat, nil
	case "char":
		return ast.BasicChar, nil
	case "bool":
		return ast.BasicBool, nil
	default:
		return 0, fmt.Errorf("astjson: unknown basic type %q", name)
	}
}

func decodeStmt(raw json.RawMessage) (ast.Stmt, error) {
	var k kinded
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, fmt.Errorf("astjson: stmt: %w", err)
	}

	switch k.Kind {
	case "assign":
		var w struct {
			Pos   wirePos         `json:"pos"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		left, err := decodeExpr(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(w.Right)
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Tok: w.Pos.token(":="), Left: left, Right: right}, nil

	case "if":
		var w struct {
			Pos  wirePos           `json:"pos"`
			Cond json.RawMessage   `json:"cond"`
			Then []json.RawMessage `json:"then"`
			Else []json.RawMessage `json:"else,omitempty"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeStmts(w.Then)
		if err != nil {
			return nil, err
		}
		s := &ast.IfStmt{Tok: w.Pos.token("if"), Cond: cond, Then: then}
		if w.Else != nil {
			els, err := decodeStmts(w.Else)
			if err != nil {
				return nil, err
			}
			s.Else = els
		}
		return s, nil

	case "while":
		var w struct {
			Pos  wirePos           `json:"pos"`
			Cond json.RawMessage   `json:"cond"`
			Body []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(w.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmts(w.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Tok: w.Pos.token("while"), Cond: cond, Body: body}, nil

	case "return":
		var w struct {
			Pos   wirePos         `json:"pos"`
			Value json.RawMessage `json:"value,omitempty"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		s := &ast.ReturnStmt{Tok: w.Pos.token("return")}
		if len(w.Value) > 0 {
			v, err := decodeExpr(w.Value)
			if err != nil {
				return nil, err
			}
			s.Value = v
		}
		return s, nil

	case "read":
		var w struct {
			Pos    wirePos         `json:"pos"`
			Target json.RawMessage `json:"target"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		target, err := decodeExpr(w.Target)
		if err != nil {
			return nil, err
		}
		return &ast.ReadStmt{Tok: w.Pos.token("read"), Target: target}, nil

	case "writeExpr":
		var w struct {
			Pos   wirePos         `json:"pos"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		v, err := decodeExpr(w.Value)
		if err != nil {
			return nil, err
		}
		return &ast.WriteExprStmt{Tok: w.Pos.token("write"), Value: v}, nil

	case "writeString":
		var w struct {
			Pos wirePos `json:"pos"`
			Raw string  `json:"raw"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &ast.WriteStringStmt{Tok: w.Pos.token("write"), Raw: w.Raw}, nil

	case "call":
		var w struct {
			Pos wirePos `json:"pos"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		call, err := decodeCall(raw)
		if err != nil {
			return nil, err
		}
		return &ast.CallStmt{Tok: w.Pos.token(call.Callee), Call: call}, nil

	default:
		return nil, fmt.Errorf("astjson: unknown statement kind %q", k.Kind)
	}
}

func decodeStmts(raws []json.RawMessage) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(raws))
	for _, raw := range raws {
		s, err := decodeStmt(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeCall(raw json.RawMessage) (*ast.CallExpr, error) {
	var w struct {
		Pos    wirePos           `json:"pos"`
		Callee string            `json:"callee"`
		Args   []json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	args := make([]ast.Expr, 0, len(w.Args))
	for _, a := range w.Args {
		e, err := decodeExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return &ast.CallExpr{Tok: w.Pos.token(w.Callee), Callee: w.Callee, Args: args}, nil
}

func decodeExpr(raw json.RawMessage) (ast.Expr, error) {
	var k kinded
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, fmt.Errorf("astjson: expr: %w", err)
	}

	switch k.Kind {
	case "ident":
		var w struct {
			Pos  wirePos `json:"pos"`
			Name string  `json:"name"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &ast.Identifier{Tok: w.Pos.token(w.Name), Name: w.Name}, nil

	case "intLit":
		var w struct {
			Pos   wirePos `json:"pos"`
			Value int64   `json:"value"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &ast.IntLiteral{Tok: w.Pos.token(fmt.Sprint(w.Value)), Value: w.Value}, nil

	case "floatLit":
		var w struct {
			Pos   wirePos `json:"pos"`
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &ast.FloatLiteral{Tok: w.Pos.token(fmt.Sprint(w.Value)), Value: w.Value}, nil

	case "charLit":
		var w struct {
			Pos wirePos `json:"pos"`
			Raw string  `json:"raw"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &ast.CharLiteral{Tok: w.Pos.token(w.Raw), Raw: w.Raw}, nil

	case "boolLit":
		var w struct {
			Pos   wirePos `json:"pos"`
			Value bool    `json:"value"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return &ast.BoolLiteral{Tok: w.Pos.token(fmt.Sprint(w.Value)), Value: w.Value}, nil

	case "unary":
		var w struct {
			Pos     wirePos         `json:"pos"`
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		operand, err := decodeExpr(w.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Tok: w.Pos.token(w.Op), Op: w.Op, Operand: operand}, nil

	case "binary":
		var w struct {
			Pos   wirePos         `json:"pos"`
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		left, err := decodeExpr(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(w.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Tok: w.Pos.token(w.Op), Op: w.Op, Left: left, Right: right}, nil

	case "arrayAccess":
		var w struct {
			Pos   wirePos         `json:"pos"`
			Array json.RawMessage `json:"array"`
			Index json.RawMessage `json:"index"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		arr, err := decodeExpr(w.Array)
		if err != nil {
			return nil, err
		}
		idx, err := decodeExpr(w.Index)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayAccessExpr{Tok: w.Pos.token("[]"), Array: arr, Index: idx}, nil

	case "call":
		return decodeCall(raw)

	case "paren":
		var w struct {
			Pos   wirePos         `json:"pos"`
			Inner json.RawMessage `json:"inner"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		inner, err := decodeExpr(w.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Tok: w.Pos.token("("), Inner: inner}, nil

	default:
		return nil, fmt.Errorf("astjson: unknown expression kind %q", k.Kind)
	}
}
