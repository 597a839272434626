// Package compiler wires the Types Manager, Symbol Table, Tree
// Decoration Store, and the three passes into the single entry point
// spec.md §2's data-flow diagram describes: AST in, an ir.Module and a
// diagnostic list out. It is organized as a short, ordered pipeline of
// stages — the same "named stages run in sequence, each free to fail
// independently" shape the teacher uses for its own multi-stage
// compilation driver — rather than one long function, so a future stage
// (an optimizer pass, say) has an obvious place to slot in.
package compiler

import (
	"fmt"

	"github.com/mgv99/aslcore/internal/ast"
	"github.com/mgv99/aslcore/internal/codegen"
	"github.com/mgv99/aslcore/internal/config"
	"github.com/mgv99/aslcore/internal/decoration"
	"github.com/mgv99/aslcore/internal/diagnostics"
	"github.com/mgv99/aslcore/internal/ir"
	"github.com/mgv99/aslcore/internal/sema"
	"github.com/mgv99/aslcore/internal/symbols"
	"github.com/mgv99/aslcore/internal/types"
)

// Result is everything a single Compile invocation produces. Module is
// nil whenever the diagnostic bag contains an error, since code
// generation never runs over a program that failed analysis.
type Result struct {
	Module      *ir.Module
	Diagnostics []*diagnostics.Diagnostic
}

// state is the per-invocation context threaded through every stage. It
// is discarded at the end of Compile; nothing here outlives one call
// (spec.md §5's concurrency model — single-threaded, no shared state
// across invocations).
type state struct {
	prog *ast.Program
	cfg  config.Config
	mgr  *types.Manager
	tbl  *symbols.Table
	dec  *decoration.Store
	bag  *diagnostics.Bag
	mod  *ir.Module
}

// stage is one pipeline step. gate reports whether the stage should run
// at all, given the diagnostics accumulated so far — Symbols and
// Type-Check always run (every diagnostic is independent, so both
// passes get a chance to report regardless of what came before), while
// Code-Gen only runs over a program with zero diagnostics.
type stage struct {
	name string
	run  func(*state)
	gate func(*state) bool
}

var stages = []stage{
	{name: "symbols", run: runSymbolsPass, gate: always},
	{name: "typecheck", run: runTypeCheckPass, gate: always},
	{name: "codegen", run: runCodeGenPass, gate: noErrors},
}

func always(*state) bool { return true }

func noErrors(st *state) bool { return !st.bag.HasErrors() }

// Compile runs the full Symbols -> Type-Check -> Code-Gen pipeline over
// prog. An internal invariant violation (a bug in this module, not a
// malformed program) is recovered at this boundary and reported as an
// "internal" diagnostic instead of propagating a panic to the caller.
func Compile(prog *ast.Program, cfg config.Config) (res Result) {
	st := &state{
		prog: prog,
		cfg:  cfg,
		mgr:  types.NewManager(),
		tbl:  symbols.NewTable(),
		dec:  decoration.NewStore(),
		bag:  &diagnostics.Bag{},
	}

	defer func() {
		if r := recover(); r != nil {
			st.bag.Add(diagnostics.NewInternal(prog.GetToken().Pos, fmt.Sprintf("%v", r)))
			res = Result{Diagnostics: st.bag.All()}
		}
	}()

	for _, s := range stages {
		if !s.gate(st) {
			continue
		}
		s.run(st)
	}

	return Result{Module: st.mod, Diagnostics: st.bag.All()}
}

func runSymbolsPass(st *state) {
	sema.Symbols(st.prog, st.mgr, st.tbl, st.dec, st.cfg, st.bag)
}

func runTypeCheckPass(st *state) {
	sema.TypeCheck(st.prog, st.mgr, st.tbl, st.dec, st.cfg, st.bag)
}

func runCodeGenPass(st *state) {
	st.mod = codegen.Generate(st.prog, st.mgr, st.tbl, st.dec, st.cfg)
}
