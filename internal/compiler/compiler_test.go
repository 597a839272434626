package compiler

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/mgv99/aslcore/internal/astjson"
	"github.com/mgv99/aslcore/internal/config"
)

// runScenario decodes a JSON AST, compiles it, and snapshots either the
// generated IR (on success) or the sorted diagnostic list (on failure) —
// end-to-end coverage of the full Symbols -> Type-Check -> Code-Gen
// pipeline the way spec.md's scenario suite exercises it.
func runScenario(t *testing.T, name, jsonAST string) {
	t.Helper()
	prog, err := astjson.Decode([]byte(jsonAST))
	if err != nil {
		t.Fatalf("%s: failed to decode AST: %v", name, err)
	}

	result := Compile(prog, config.Default())

	if len(result.Diagnostics) > 0 {
		var out string
		for _, d := range result.Diagnostics {
			out += d.Error() + "\n"
		}
		snaps.MatchSnapshot(t, fmt.Sprintf("%s_diagnostics", name), out)
		return
	}
	snaps.MatchSnapshot(t, fmt.Sprintf("%s_ir", name), result.Module.Text())
}

// Scenario A: a clean program with arithmetic, a loop, and a helper
// function compiles to IR with no diagnostics.
func TestScenarioA_CleanProgram(t *testing.T) {
	runScenario(t, "scenarioA", `{
		"pos": {"line": 1, "column": 1},
		"functions": [
			{
				"pos": {"line": 1, "column": 1}, "name": "double",
				"params": [{"pos": {"line": 1, "column": 1}, "name": "x", "type": {"kind": "basic", "name": "int"}}],
				"returnType": {"kind": "basic", "name": "int"},
				"decls": [],
				"body": [
					{"kind": "return", "pos": {"line": 1, "column": 1},
					 "value": {"kind": "binary", "op": "*", "pos": {"line": 1, "column": 1},
						"left": {"kind": "ident", "name": "x", "pos": {"line": 1, "column": 1}},
						"right": {"kind": "intLit", "value": 2, "pos": {"line": 1, "column": 1}}}}
				]
			},
			{
				"pos": {"line": 2, "column": 1}, "name": "main",
				"params": [], "decls": [
					{"pos": {"line": 2, "column": 1}, "type": {"kind": "basic", "name": "int"}, "names": ["i", "total"]}
				],
				"body": [
					{"kind": "assign", "pos": {"line": 2, "column": 1},
					 "left": {"kind": "ident", "name": "i", "pos": {"line": 2, "column": 1}},
					 "right": {"kind": "intLit", "value": 0, "pos": {"line": 2, "column": 1}}},
					{"kind": "while", "pos": {"line": 2, "column": 1},
					 "cond": {"kind": "binary", "op": "<", "pos": {"line": 2, "column": 1},
						"left": {"kind": "ident", "name": "i", "pos": {"line": 2, "column": 1}},
						"right": {"kind": "intLit", "value": 3, "pos": {"line": 2, "column": 1}}},
					 "body": [
						{"kind": "assign", "pos": {"line": 2, "column": 1},
						 "left": {"kind": "ident", "name": "total", "pos": {"line": 2, "column": 1}},
						 "right": {"kind": "call", "pos": {"line": 2, "column": 1}, "callee": "double",
							"args": [{"kind": "ident", "name": "i", "pos": {"line": 2, "column": 1}}]}},
						{"kind": "assign", "pos": {"line": 2, "column": 1},
						 "left": {"kind": "ident", "name": "i", "pos": {"line": 2, "column": 1}},
						 "right": {"kind": "binary", "op": "+", "pos": {"line": 2, "column": 1},
							"left": {"kind": "ident", "name": "i", "pos": {"line": 2, "column": 1}},
							"right": {"kind": "intLit", "value": 1, "pos": {"line": 2, "column": 1}}}}
					 ]},
					{"kind": "writeExpr", "pos": {"line": 2, "column": 1},
					 "value": {"kind": "ident", "name": "total", "pos": {"line": 2, "column": 1}}},
					{"kind": "return", "pos": {"line": 2, "column": 1}}
				]
			}
		]
	}`)
}

// Scenario B: a duplicate local declaration is reported.
func TestScenarioB_DuplicateDeclaration(t *testing.T) {
	runScenario(t, "scenarioB", `{
		"pos": {"line": 1, "column": 1},
		"functions": [
			{
				"pos": {"line": 1, "column": 1}, "name": "main", "params": [],
				"decls": [
					{"pos": {"line": 1, "column": 1}, "type": {"kind": "basic", "name": "int"}, "names": ["x"]},
					{"pos": {"line": 2, "column": 1}, "type": {"kind": "basic", "name": "bool"}, "names": ["x"]}
				],
				"body": [{"kind": "return", "pos": {"line": 3, "column": 1}}]
			}
		]
	}`)
}

// Scenario C: assigning a boolean into an integer variable is a type error.
func TestScenarioC_IncompatibleAssignment(t *testing.T) {
	runScenario(t, "scenarioC", `{
		"pos": {"line": 1, "column": 1},
		"functions": [
			{
				"pos": {"line": 1, "column": 1}, "name": "main", "params": [],
				"decls": [{"pos": {"line": 1, "column": 1}, "type": {"kind": "basic", "name": "int"}, "names": ["n"]}],
				"body": [
					{"kind": "assign", "pos": {"line": 2, "column": 1},
					 "left": {"kind": "ident", "name": "n", "pos": {"line": 2, "column": 1}},
					 "right": {"kind": "boolLit", "value": true, "pos": {"line": 2, "column": 1}}},
					{"kind": "return", "pos": {"line": 3, "column": 1}}
				]
			}
		]
	}`)
}

// Scenario D: a declared array size of zero is rejected.
func TestScenarioD_InvalidArraySize(t *testing.T) {
	runScenario(t, "scenarioD", `{
		"pos": {"line": 1, "column": 1},
		"functions": [
			{
				"pos": {"line": 1, "column": 1}, "name": "main", "params": [],
				"decls": [
					{"pos": {"line": 1, "column": 1},
					 "type": {"kind": "array", "size": 0, "elem": {"kind": "basic", "name": "int"}},
					 "names": ["table"]}
				],
				"body": [{"kind": "return", "pos": {"line": 2, "column": 1}}]
			}
		]
	}`)
}

// Scenario E: a program with no properly declared main is rejected.
func TestScenarioE_MissingMain(t *testing.T) {
	runScenario(t, "scenarioE", `{
		"pos": {"line": 1, "column": 1},
		"functions": [
			{"pos": {"line": 1, "column": 1}, "name": "helper", "params": [],
			 "decls": [], "body": [{"kind": "return", "pos": {"line": 1, "column": 1}}]}
		]
	}`)
}

// Scenario F: a function that calls itself recursively compiles cleanly,
// exercising the Symbols pass's forward-signature registration.
func TestScenarioF_RecursiveFunction(t *testing.T) {
	runScenario(t, "scenarioF", `{
		"pos": {"line": 1, "column": 1},
		"functions": [
			{
				"pos": {"line": 1, "column": 1}, "name": "fact",
				"params": [{"pos": {"line": 1, "column": 1}, "name": "n", "type": {"kind": "basic", "name": "int"}}],
				"returnType": {"kind": "basic", "name": "int"},
				"decls": [],
				"body": [
					{"kind": "if", "pos": {"line": 1, "column": 1},
					 "cond": {"kind": "binary", "op": "<=", "pos": {"line": 1, "column": 1},
						"left": {"kind": "ident", "name": "n", "pos": {"line": 1, "column": 1}},
						"right": {"kind": "intLit", "value": 1, "pos": {"line": 1, "column": 1}}},
					 "then": [{"kind": "return", "pos": {"line": 1, "column": 1}, "value": {"kind": "intLit", "value": 1, "pos": {"line": 1, "column": 1}}}],
					 "else": [{"kind": "return", "pos": {"line": 1, "column": 1},
						"value": {"kind": "binary", "op": "*", "pos": {"line": 1, "column": 1},
							"left": {"kind": "ident", "name": "n", "pos": {"line": 1, "column": 1}},
							"right": {"kind": "call", "pos": {"line": 1, "column": 1}, "callee": "fact",
								"args": [{"kind": "binary", "op": "-", "pos": {"line": 1, "column": 1},
									"left": {"kind": "ident", "name": "n", "pos": {"line": 1, "column": 1}},
									"right": {"kind": "intLit", "value": 1, "pos": {"line": 1, "column": 1}}}]}}}]}
				]
			},
			{"pos": {"line": 2, "column": 1}, "name": "main", "params": [], "decls": [],
			 "body": [{"kind": "return", "pos": {"line": 2, "column": 1}}]}
		]
	}`)
}
