// Package sema implements the two AST-walking passes that populate the
// Symbol Table and the Tree Decoration Store: the Symbols Pass, which
// creates every scope and binding, and the Type-Check Pass, which reads
// those bindings back to decorate every expression with a type and an
// l-value flag. Both passes follow the teacher's analyzer.Analyzer
// walk-and-accumulate shape (one exported entry point per pass, a
// shared diagnostics.Bag threaded through, no pass ever stops early on
// the first error) rather than returning on the first failure.
package sema

import (
	"github.com/mgv99/aslcore/internal/ast"
	"github.com/mgv99/aslcore/internal/config"
	"github.com/mgv99/aslcore/internal/decoration"
	"github.com/mgv99/aslcore/internal/diagnostics"
	"github.com/mgv99/aslcore/internal/symbols"
	"github.com/mgv99/aslcore/internal/token"
	"github.com/mgv99/aslcore/internal/types"
)

// Symbols runs the Symbols Pass over prog: it registers every function's
// signature in the global scope, then gives each function its own scope
// populated with its parameters and local variables. It never inspects
// statement bodies — those are the Type-Check Pass's job.
func Symbols(prog *ast.Program, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config, bag *diagnostics.Bag) {
	// Pass A: register every function's signature first, so a call to a
	// function declared later in the file still resolves (spec.md §4.1).
	sigs := make([]*types.Type, len(prog.Functions))
	for i, fn := range prog.Functions {
		sigs[i] = registerSignature(fn, mgr, tbl, cfg, bag)
	}

	// Pass B: give each function its own scope, parameters, and locals.
	for i, fn := range prog.Functions {
		scopeID := tbl.PushNewScope(fn.Name)
		dec.SetScope(fn, scopeID)

		sig := sigs[i]
		for j, p := range fn.Params {
			paramTy := sig.FunctionParamType(j)
			defineOrReportDuplicate(tbl, bag, p.GetToken().Pos, p.Name, symbols.Parameter, paramTy)
		}
		for _, decl := range fn.Decls {
			declTy := resolveType(decl.Type, mgr, cfg, bag)
			for _, name := range decl.Names {
				defineOrReportDuplicate(tbl, bag, decl.GetToken().Pos, name, symbols.LocalVar, declTy)
			}
		}

		tbl.PopScope()
	}
}

// registerSignature resolves fn's parameter and return types, builds its
// Function type, and defines it in the (already current) global scope.
func registerSignature(fn *ast.Function, mgr *types.Manager, tbl *symbols.Table, cfg config.Config, bag *diagnostics.Bag) *types.Type {
	paramTypes := make([]*types.Type, len(fn.Params))
	for i, p := range fn.Params {
		paramTypes[i] = resolveType(p.Type, mgr, cfg, bag)
	}

	retTy := mgr.Void()
	if fn.ReturnType != nil {
		retTy = resolveType(fn.ReturnType, mgr, cfg, bag)
	}

	sig := mgr.Function(paramTypes, retTy)
	defineOrReportDuplicate(tbl, bag, fn.GetToken().Pos, fn.Name, symbols.Function, sig)
	return sig
}

// defineOrReportDuplicate defines name in the current scope, or raises
// declaredIdent if the scope already has a binding for it.
func defineOrReportDuplicate(tbl *symbols.Table, bag *diagnostics.Bag, pos token.Position, name string, kind symbols.Kind, ty *types.Type) {
	if _, exists := tbl.FindInCurrentScope(name); exists {
		bag.Add(diagnostics.New(diagnostics.PhaseSymbols, diagnostics.DeclaredIdent, pos, name))
		return
	}
	tbl.Define(name, kind, ty)
}

// resolveType turns a TypeNode into an interned *types.Type, validating
// array sizes along the way (SPEC_FULL.md §12's supplemented invalidArraySize
// check: a declared size must be a positive integer, and may not exceed
// cfg.MaxArraySize when the caller configured a ceiling).
func resolveType(node ast.TypeNode, mgr *types.Manager, cfg config.Config, bag *diagnostics.Bag) *types.Type {
	switch n := node.(type) {
	case *ast.BasicType:
		switch n.Kind {
		case ast.BasicInt:
			return mgr.Integer()
		case ast.BasicFloat:
			return mgr.Float()
		case ast.BasicChar:
			return mgr.Character()
		case ast.BasicBool:
			return mgr.Boolean()
		default:
			bag.Add(diagnostics.NewInternal(n.GetToken().Pos, "unknown basic type kind"))
			return mgr.Error()
		}
	case *ast.ArrayType:
		elemTy := resolveType(n.Elem, mgr, cfg, bag)
		if n.Size <= 0 || (cfg.MaxArraySize > 0 && n.Size > cfg.MaxArraySize) {
			bag.Add(diagnostics.New(diagnostics.PhaseSymbols, diagnostics.InvalidArraySize, n.GetToken().Pos, n.Size))
			return mgr.Error()
		}
		return mgr.Array(uint32(n.Size), elemTy)
	default:
		bag.Add(diagnostics.NewInternal(node.GetToken().Pos, "unknown type node"))
		return mgr.Error()
	}
}
