package sema

import (
	"github.com/mgv99/aslcore/internal/ast"
	"github.com/mgv99/aslcore/internal/config"
	"github.com/mgv99/aslcore/internal/decoration"
	"github.com/mgv99/aslcore/internal/diagnostics"
	"github.com/mgv99/aslcore/internal/symbols"
	"github.com/mgv99/aslcore/internal/types"
)

// TypeCheck runs the Type-Check Pass (spec.md §4.2) over prog, assuming
// Symbols has already run against the same Table and Store. It decorates
// every expression with a type and an l-value flag, and reports every
// violation independently — a prior error on one operand never blocks
// checking the rest of the tree, since types.Copyable and types.Comparable
// treat Error as universally compatible.
func TypeCheck(prog *ast.Program, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config, bag *diagnostics.Bag) {
	for _, fn := range prog.Functions {
		checkFunction(fn, mgr, tbl, dec, cfg, bag)
	}
	checkMain(prog, tbl, cfg, bag)
}

func checkFunction(fn *ast.Function, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config, bag *diagnostics.Bag) {
	scopeID, ok := dec.Scope(fn)
	if !ok {
		bag.Add(diagnostics.NewInternal(fn.GetToken().Pos, "function missing scope decoration"))
		return
	}
	entry, ok := tbl.FindInStack(fn.Name)
	if !ok {
		bag.Add(diagnostics.NewInternal(fn.GetToken().Pos, "function missing signature binding"))
		return
	}

	tbl.PushThisScope(scopeID)
	tbl.SetCurrentFunctionReturnType(entry.Type.FunctionReturnType())
	checkStmts(fn.Body, mgr, tbl, dec, cfg, bag)
	tbl.PopScope()
}

// checkMain enforces spec.md's requirement that the program declare a
// parameterless, void-returning entry point named cfg.EntryPoint.
func checkMain(prog *ast.Program, tbl *symbols.Table, cfg config.Config, bag *diagnostics.Bag) {
	entry, ok := tbl.FindInCurrentScope(cfg.EntryPoint)
	if ok && entry.Kind == symbols.Function &&
		entry.Type.FunctionParamCount() == 0 &&
		entry.Type.FunctionReturnType().IsVoid() {
		return
	}
	bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.NoMainProperlyDeclared, prog.GetToken().Pos))
}

func checkStmts(stmts []ast.Stmt, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config, bag *diagnostics.Bag) {
	for _, s := range stmts {
		checkStmt(s, mgr, tbl, dec, cfg, bag)
	}
}

func checkStmt(stmt ast.Stmt, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config, bag *diagnostics.Bag) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		leftTy := checkExpr(s.Left, mgr, tbl, dec, cfg, bag)
		if !dec.LValue(s.Left) && !leftTy.IsError() {
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.NonReferenceableLeftExpr, s.Left.GetToken().Pos))
		}
		rightTy := checkExpr(s.Right, mgr, tbl, dec, cfg, bag)
		if !types.Copyable(leftTy, rightTy) {
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.IncompatibleAssignment, s.Tok.Pos, rightTy, leftTy))
		}

	case *ast.IfStmt:
		requireBoolean(s.Cond, mgr, tbl, dec, cfg, bag)
		checkStmts(s.Then, mgr, tbl, dec, cfg, bag)
		if s.Else != nil {
			checkStmts(s.Else, mgr, tbl, dec, cfg, bag)
		}

	case *ast.WhileStmt:
		requireBoolean(s.Cond, mgr, tbl, dec, cfg, bag)
		checkStmts(s.Body, mgr, tbl, dec, cfg, bag)

	case *ast.ReturnStmt:
		expected := tbl.CurrentFunctionReturnType()
		if s.Value == nil {
			if !expected.IsVoid() {
				bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.IncompatibleReturn, s.Tok.Pos, expected, mgr.Void()))
			}
			return
		}
		gotTy := checkExpr(s.Value, mgr, tbl, dec, cfg, bag)
		if !types.Copyable(expected, gotTy) {
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.IncompatibleReturn, s.Tok.Pos, expected, gotTy))
		}

	case *ast.ReadStmt:
		ty := checkExpr(s.Target, mgr, tbl, dec, cfg, bag)
		if !dec.LValue(s.Target) && !ty.IsError() {
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.NonReferenceableExpression, s.Target.GetToken().Pos))
		}
		if !ty.IsPrimitive() && !ty.IsError() {
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.ReadWriteRequireBasic, s.Tok.Pos))
		}

	case *ast.WriteExprStmt:
		ty := checkExpr(s.Value, mgr, tbl, dec, cfg, bag)
		if !ty.IsPrimitive() && !ty.IsError() {
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.ReadWriteRequireBasic, s.Tok.Pos))
		}

	case *ast.WriteStringStmt:
		// A raw string literal needs no checking.

	case *ast.CallStmt:
		checkCall(s.Call, false, mgr, tbl, dec, cfg, bag)

	default:
		bag.Add(diagnostics.NewInternal(stmt.GetToken().Pos, "unknown statement node"))
	}
}

func requireBoolean(e ast.Expr, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config, bag *diagnostics.Bag) {
	ty := checkExpr(e, mgr, tbl, dec, cfg, bag)
	if !ty.IsBoolean() && !ty.IsError() {
		bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.BooleanRequired, e.GetToken().Pos))
	}
}

// checkExpr decorates e with its type and l-value flag, returning the
// type for the caller's own checks.
func checkExpr(expr ast.Expr, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config, bag *diagnostics.Bag) *types.Type {
	switch e := expr.(type) {
	case *ast.Identifier:
		entry, ok := tbl.FindInStack(e.Name)
		if !ok {
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.UndeclaredIdent, e.Tok.Pos, e.Name))
			return decorate(dec, e, mgr.Error(), false)
		}
		return decorate(dec, e, entry.Type, entry.Kind != symbols.Function)

	case *ast.IntLiteral:
		return decorate(dec, e, mgr.Integer(), false)

	case *ast.FloatLiteral:
		return decorate(dec, e, mgr.Float(), false)

	case *ast.CharLiteral:
		return decorate(dec, e, mgr.Character(), false)

	case *ast.BoolLiteral:
		return decorate(dec, e, mgr.Boolean(), false)

	case *ast.ParenExpr:
		innerTy := checkExpr(e.Inner, mgr, tbl, dec, cfg, bag)
		return decorate(dec, e, innerTy, false)

	case *ast.UnaryExpr:
		return checkUnary(e, mgr, tbl, dec, cfg, bag)

	case *ast.BinaryExpr:
		return checkBinary(e, mgr, tbl, dec, cfg, bag)

	case *ast.ArrayAccessExpr:
		return checkArrayAccess(e, mgr, tbl, dec, cfg, bag)

	case *ast.CallExpr:
		return checkCall(e, true, mgr, tbl, dec, cfg, bag)

	default:
		bag.Add(diagnostics.NewInternal(expr.GetToken().Pos, "unknown expression node"))
		return decorate(dec, expr, mgr.Error(), false)
	}
}

func decorate(dec *decoration.Store, n ast.Node, ty *types.Type, lvalue bool) *types.Type {
	dec.SetType(n, ty)
	dec.SetLValue(n, lvalue)
	return ty
}

func checkUnary(e *ast.UnaryExpr, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config, bag *diagnostics.Bag) *types.Type {
	operandTy := checkExpr(e.Operand, mgr, tbl, dec, cfg, bag)

	var result *types.Type
	switch e.Op {
	case "+", "-":
		switch {
		case operandTy.IsError():
			result = mgr.Error()
		case operandTy.IsNumeric():
			result = operandTy
		default:
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.IncompatibleOperator, e.Tok.Pos, e.Op, operandTy, operandTy))
			result = mgr.Error()
		}
	case "not":
		switch {
		case operandTy.IsError():
			result = mgr.Error()
		case operandTy.IsBoolean():
			result = mgr.Boolean()
		default:
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.BooleanRequired, e.Tok.Pos))
			result = mgr.Error()
		}
	default:
		bag.Add(diagnostics.NewInternal(e.Tok.Pos, "unknown unary operator "+e.Op))
		result = mgr.Error()
	}
	return decorate(dec, e, result, false)
}

func checkBinary(e *ast.BinaryExpr, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config, bag *diagnostics.Bag) *types.Type {
	leftTy := checkExpr(e.Left, mgr, tbl, dec, cfg, bag)
	rightTy := checkExpr(e.Right, mgr, tbl, dec, cfg, bag)

	var result *types.Type
	switch e.Op {
	case "+", "-", "*", "/", "%":
		result = checkArithmetic(e, leftTy, rightTy, mgr, cfg, bag)
	case "=", "!=", "<", "<=", ">", ">=":
		if !types.Comparable(leftTy, rightTy, e.Op) {
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.IncompatibleOperator, e.Tok.Pos, e.Op, leftTy, rightTy))
		}
		result = mgr.Boolean()
	case "and", "or":
		result = checkBooleanOp(e, leftTy, rightTy, mgr, bag)
	default:
		bag.Add(diagnostics.NewInternal(e.Tok.Pos, "unknown binary operator "+e.Op))
		result = mgr.Error()
	}
	return decorate(dec, e, result, false)
}

// checkArithmetic types +, -, *, /, and the legacy % operator. % is
// special-cased per the decided modulo-on-float Open Question (see
// DESIGN.md): the original compiler reports incompatibleOperator when
// either operand is float yet still hands back an integer-typed result
// ("integer by convention"), and this pass preserves exactly that —
// diagnostic fired, result still Integer — unless cfg.StrictFloatModulo
// opts into the cleaner Error-typed alternative instead.
func checkArithmetic(e *ast.BinaryExpr, leftTy, rightTy *types.Type, mgr *types.Manager, cfg config.Config, bag *diagnostics.Bag) *types.Type {
	if leftTy.IsError() || rightTy.IsError() {
		return mgr.Error()
	}
	if !leftTy.IsNumeric() || !rightTy.IsNumeric() {
		bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.IncompatibleOperator, e.Tok.Pos, e.Op, leftTy, rightTy))
		return mgr.Error()
	}
	if e.Op == "%" {
		if leftTy.IsFloat() || rightTy.IsFloat() {
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.IncompatibleOperator, e.Tok.Pos, e.Op, leftTy, rightTy))
			if cfg.StrictFloatModulo {
				return mgr.Error()
			}
		}
		return mgr.Integer()
	}
	if leftTy.IsFloat() || rightTy.IsFloat() {
		return mgr.Float()
	}
	return mgr.Integer()
}

func checkBooleanOp(e *ast.BinaryExpr, leftTy, rightTy *types.Type, mgr *types.Manager, bag *diagnostics.Bag) *types.Type {
	if leftTy.IsError() || rightTy.IsError() {
		return mgr.Error()
	}
	ok := true
	if !leftTy.IsBoolean() {
		bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.BooleanRequired, e.Left.GetToken().Pos))
		ok = false
	}
	if !rightTy.IsBoolean() {
		bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.BooleanRequired, e.Right.GetToken().Pos))
		ok = false
	}
	if !ok {
		return mgr.Error()
	}
	return mgr.Boolean()
}

func checkArrayAccess(e *ast.ArrayAccessExpr, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config, bag *diagnostics.Bag) *types.Type {
	arrTy := checkExpr(e.Array, mgr, tbl, dec, cfg, bag)
	idxTy := checkExpr(e.Index, mgr, tbl, dec, cfg, bag)

	var result *types.Type
	switch {
	case arrTy.IsError():
		result = mgr.Error()
	case !arrTy.IsArray():
		bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.NonArrayInArrayAccess, e.Tok.Pos))
		result = mgr.Error()
	default:
		if !idxTy.IsInteger() && !idxTy.IsError() {
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.NonIntegerIndexInArrayAccess, e.Index.GetToken().Pos))
		}
		result = arrTy.ArrayElementType()
	}

	lvalue := arrTy.IsArray() && dec.LValue(e.Array)
	return decorate(dec, e, result, lvalue)
}

// checkCall type-checks a call's arguments regardless of whether the
// callee resolves, so every argument expression still gets decorated.
// requireValue is true when the call appears in expression position,
// where a void-returning callee is an error (isNotFunction).
func checkCall(call *ast.CallExpr, requireValue bool, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config, bag *diagnostics.Bag) *types.Type {
	argTys := make([]*types.Type, len(call.Args))
	for i, a := range call.Args {
		argTys[i] = checkExpr(a, mgr, tbl, dec, cfg, bag)
	}

	entry, ok := tbl.FindInStack(call.Callee)
	var result *types.Type
	switch {
	case !ok:
		bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.UndeclaredIdent, call.Tok.Pos, call.Callee))
		result = mgr.Error()
	case entry.Kind != symbols.Function:
		bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.IsNotCallable, call.Tok.Pos, call.Callee))
		result = mgr.Error()
	default:
		sig := entry.Type
		wantN, gotN := sig.FunctionParamCount(), len(call.Args)
		if wantN != gotN {
			bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.NumberOfParameters, call.Tok.Pos, call.Callee, wantN, gotN))
		}
		n := wantN
		if gotN < n {
			n = gotN
		}
		for i := 0; i < n; i++ {
			paramTy := sig.FunctionParamType(i)
			if !types.Copyable(paramTy, argTys[i]) {
				bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.IncompatibleParameter, call.Args[i].GetToken().Pos, i+1, paramTy, argTys[i]))
			}
		}
		result = sig.FunctionReturnType()
	}

	if requireValue && result.IsVoid() {
		bag.Add(diagnostics.New(diagnostics.PhaseTypeCheck, diagnostics.IsNotFunction, call.Tok.Pos, call.Callee))
		result = mgr.Error()
	}

	return decorate(dec, call, result, false)
}
