package astjson

import (
	"testing"

	"github.com/mgv99/aslcore/internal/ast"
)

func TestDecodeSimpleProgram(t *testing.T) {
	prog, err := Decode([]byte(`{
		"pos": {"line": 1, "column": 1},
		"functions": [
			{
				"pos": {"line": 1, "column": 1}, "name": "main", "params": [], "decls": [],
				"body": [
					{"kind": "writeString", "pos": {"line": 1, "column": 1}, "raw": "hi"},
					{"kind": "return", "pos": {"line": 1, "column": 1}}
				]
			}
		]
	}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(prog.Functions) != 1 || prog.Functions[0].Name != "main" {
		t.Fatalf("unexpected program: %+v", prog)
	}
	body := prog.Functions[0].Body
	if len(body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(body))
	}
	ws, ok := body[0].(*ast.WriteStringStmt)
	if !ok || ws.Raw != "hi" {
		t.Fatalf("expected a writeString statement with raw \"hi\", got %+v", body[0])
	}
}

func TestDecodeRejectsUnknownExpressionKind(t *testing.T) {
	_, err := Decode([]byte(`{
		"pos": {"line": 1, "column": 1},
		"functions": [
			{
				"pos": {"line": 1, "column": 1}, "name": "main", "params": [], "decls": [],
				"body": [
					{"kind": "writeExpr", "pos": {"line": 1, "column": 1},
					 "value": {"kind": "bogus", "pos": {"line": 1, "column": 1}}}
				]
			}
		]
	}`))
	if err == nil {
		t.Fatal("expected an error decoding an unknown expression kind")
	}
}

func TestDecodeArrayType(t *testing.T) {
	prog, err := Decode([]byte(`{
		"pos": {"line": 1, "column": 1},
		"functions": [
			{
				"pos": {"line": 1, "column": 1}, "name": "main", "params": [],
				"decls": [
					{"pos": {"line": 1, "column": 1},
					 "type": {"kind": "array", "size": 5, "elem": {"kind": "basic", "name": "float"}},
					 "names": ["xs"]}
				],
				"body": [{"kind": "return", "pos": {"line": 1, "column": 1}}]
			}
		]
	}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	arr, ok := prog.Functions[0].Decls[0].Type.(*ast.ArrayType)
	if !ok || arr.Size != 5 {
		t.Fatalf("expected an array type of size 5, got %+v", prog.Functions[0].Decls[0].Type)
	}
	elem, ok := arr.Elem.(*ast.BasicType)
	if !ok || elem.Kind != ast.BasicFloat {
		t.Fatalf("expected a float element type, got %+v", arr.Elem)
	}
}
