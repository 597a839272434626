// Package codegen is the Code Generation Pass (spec.md §4.3): it walks
// a fully decorated AST and lowers it to the three-address ir.Module.
// Every expression-lowering helper follows the same "code attribute"
// shape the teacher's lowering passes use for its own bytecode emitter:
// return the address holding the computed value together with the
// instruction sequence that computes it, so a caller can splice the
// sequence into its own without caring how many temporaries it used.
package codegen

import (
	"fmt"

	"github.com/mgv99/aslcore/internal/ast"
	"github.com/mgv99/aslcore/internal/config"
	"github.com/mgv99/aslcore/internal/decoration"
	"github.com/mgv99/aslcore/internal/ir"
	"github.com/mgv99/aslcore/internal/symbols"
	"github.com/mgv99/aslcore/internal/types"
)

// Generate lowers prog to an ir.Module. It assumes Symbols and TypeCheck
// have already run cleanly against tbl and dec — generation never
// re-validates anything the earlier passes already decorated.
func Generate(prog *ast.Program, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config) *ir.Module {
	mod := &ir.Module{}
	for _, fn := range prog.Functions {
		mod.Subroutines = append(mod.Subroutines, generateFunction(fn, mgr, tbl, dec, cfg))
	}
	return mod
}

// resultParam is the implicit first parameter every function except the
// entry point gets, the slot its RETURN value is written into before
// control returns to the caller.
const resultParam = "_result"

type generator struct {
	mgr          *types.Manager
	tbl          *symbols.Table
	dec          *decoration.Store
	cfg          config.Config
	sub          *ir.Subroutine
	tempCounter  int
	labelCounter int
}

func generateFunction(fn *ast.Function, mgr *types.Manager, tbl *symbols.Table, dec *decoration.Store, cfg config.Config) *ir.Subroutine {
	scopeID, _ := dec.Scope(fn)
	tbl.PushThisScope(scopeID)
	defer tbl.PopScope()

	entry, _ := tbl.FindInStack(fn.Name)
	retTy := entry.Type.FunctionReturnType()
	tbl.SetCurrentFunctionReturnType(retTy)

	var params []string
	if fn.Name != cfg.EntryPoint {
		params = append(params, resultParam)
	}
	for _, p := range tbl.OrderedParameters(scopeID) {
		params = append(params, p.Name)
	}

	var locals []ir.Var
	for _, l := range tbl.LocalVariables(scopeID) {
		locals = append(locals, ir.Var{Name: l.Name, Size: l.Type.SizeOf()})
	}

	sub := &ir.Subroutine{Name: fn.Name, Params: params, Locals: locals}
	g := &generator{mgr: mgr, tbl: tbl, dec: dec, cfg: cfg, sub: sub}
	g.genStmts(fn.Body)

	if len(sub.Instructions) == 0 || sub.Instructions[len(sub.Instructions)-1].Op != ir.OpReturn {
		sub.Emit(ir.Instruction{Op: ir.OpReturn})
	}
	return sub
}

func (g *generator) newTemp() string {
	g.tempCounter++
	return fmt.Sprintf("%%t%d", g.tempCounter-1)
}

// newLabelSuffix mints one numeric suffix shared by every label of a
// single if/while construct (else0/endif0, while0/endwhile0), rather
// than a label-per-call counter that would interleave suffixes across
// different constructs.
func (g *generator) newLabelSuffix() int {
	g.labelCounter++
	return g.labelCounter - 1
}

func (g *generator) emitAll(code []ir.Instruction) {
	g.sub.Instructions = append(g.sub.Instructions, code...)
}

func (g *generator) genStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		g.genStmt(s)
	}
}

func (g *generator) genStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		g.genAssign(s)
	case *ast.IfStmt:
		g.genIf(s)
	case *ast.WhileStmt:
		g.genWhile(s)
	case *ast.ReturnStmt:
		g.genReturn(s)
	case *ast.ReadStmt:
		g.genRead(s)
	case *ast.WriteExprStmt:
		g.genWriteExpr(s)
	case *ast.WriteStringStmt:
		g.genWriteString(s)
	case *ast.CallStmt:
		_, code := g.genCall(s.Call, false)
		g.emitAll(code)
	}
}

// genAssignTarget resolves an l-value to its storage address: base is
// a plain variable name for a scalar target, and (base, offs) names an
// array element when offs is non-empty.
func (g *generator) genAssignTarget(e ast.Expr) (base, offs string, code []ir.Instruction) {
	switch n := e.(type) {
	case *ast.Identifier:
		// An array-typed Parameter holds a reference, not the array
		// itself; materialize it into a temp before it is used as an
		// indexed base (LOADX/XLOAD) or as a whole-array copy source.
		if entry, ok := g.tbl.FindInStack(n.Name); ok && entry.Kind == symbols.Parameter && entry.Type.IsArray() {
			t := g.newTemp()
			return t, "", []ir.Instruction{{Op: ir.OpLoad, Dst: t, Src: n.Name}}
		}
		return n.Name, "", nil
	case *ast.ParenExpr:
		return g.genAssignTarget(n.Inner)
	case *ast.ArrayAccessExpr:
		arrBase, _, arrCode := g.genAssignTarget(n.Array)
		idxAddr, idxCode := g.genExpr(n.Index)
		return arrBase, idxAddr, append(arrCode, idxCode...)
	default:
		panic("codegen: expression is not a valid assignment target")
	}
}

func (g *generator) genAssign(s *ast.AssignStmt) {
	leftTy, rightTy := g.dec.Type(s.Left), g.dec.Type(s.Right)

	if leftTy.IsArray() {
		g.genArrayCopy(s.Left, s.Right, leftTy)
		return
	}

	base, offs, code := g.genAssignTarget(s.Left)
	vaddr, vcode := g.genExpr(s.Right)
	code = append(code, vcode...)

	vaddr, code = g.widenToFloatIfNeeded(leftTy, rightTy, vaddr, code)

	if offs == "" {
		code = append(code, ir.Instruction{Op: ir.OpLoad, Dst: base, Src: vaddr})
	} else {
		code = append(code, ir.Instruction{Op: ir.OpXLoad, Dst: base, Src: offs, Src2: vaddr})
	}
	g.emitAll(code)
}

// genArrayCopy lowers a whole-array assignment by unrolling it at
// compile time into one ILOAD/LOADX/XLOAD triple per element, since the
// array's size is always statically known. Arrays carry no
// single-instruction aggregate load, so "a := b" for array-typed a, b
// is value semantics achieved one element at a time rather than by
// aliasing a's storage to b's.
func (g *generator) genArrayCopy(left, right ast.Expr, arrTy *types.Type) {
	base, _, leftCode := g.genAssignTarget(left)
	srcBase, _, rightCode := g.genAssignTarget(right)
	g.emitAll(leftCode)
	g.emitAll(rightCode)

	for i := uint32(0); i < arrTy.ArraySize(); i++ {
		off := g.newTemp()
		g.sub.Emit(ir.Instruction{Op: ir.OpILoad, Dst: off, IntLit: int64(i)})
		elem := g.newTemp()
		g.sub.Emit(ir.Instruction{Op: ir.OpLoadX, Dst: elem, Src: srcBase, Src2: off})
		g.sub.Emit(ir.Instruction{Op: ir.OpXLoad, Dst: base, Src: off, Src2: elem})
	}
}

func (g *generator) genIf(s *ast.IfStmt) {
	condAddr, ccode := g.genExpr(s.Cond)
	g.emitAll(ccode)

	n := g.newLabelSuffix()
	endLabel := fmt.Sprintf("endif%d", n)

	if s.Else == nil {
		g.sub.Emit(ir.Instruction{Op: ir.OpFJump, Src: condAddr, Label: endLabel})
		g.genStmts(s.Then)
		g.sub.Emit(ir.Instruction{Op: ir.OpLabel, Label: endLabel})
		return
	}

	elseLabel := fmt.Sprintf("else%d", n)
	g.sub.Emit(ir.Instruction{Op: ir.OpFJump, Src: condAddr, Label: elseLabel})
	g.genStmts(s.Then)
	g.sub.Emit(ir.Instruction{Op: ir.OpUJump, Label: endLabel})
	g.sub.Emit(ir.Instruction{Op: ir.OpLabel, Label: elseLabel})
	g.genStmts(s.Else)
	g.sub.Emit(ir.Instruction{Op: ir.OpLabel, Label: endLabel})
}

func (g *generator) genWhile(s *ast.WhileStmt) {
	n := g.newLabelSuffix()
	startLabel := fmt.Sprintf("while%d", n)
	endLabel := fmt.Sprintf("endwhile%d", n)

	g.sub.Emit(ir.Instruction{Op: ir.OpLabel, Label: startLabel})
	condAddr, ccode := g.genExpr(s.Cond)
	g.emitAll(ccode)
	g.sub.Emit(ir.Instruction{Op: ir.OpFJump, Src: condAddr, Label: endLabel})
	g.genStmts(s.Body)
	g.sub.Emit(ir.Instruction{Op: ir.OpUJump, Label: startLabel})
	g.sub.Emit(ir.Instruction{Op: ir.OpLabel, Label: endLabel})
}

func (g *generator) genReturn(s *ast.ReturnStmt) {
	if s.Value != nil {
		vaddr, vcode := g.genExpr(s.Value)
		valTy := g.dec.Type(s.Value)
		retTy := g.tbl.CurrentFunctionReturnType()
		vaddr, vcode = g.widenToFloatIfNeeded(retTy, valTy, vaddr, vcode)
		g.emitAll(vcode)
		g.sub.Emit(ir.Instruction{Op: ir.OpLoad, Dst: resultParam, Src: vaddr})
	}
	g.sub.Emit(ir.Instruction{Op: ir.OpReturn})
}

func (g *generator) genRead(s *ast.ReadStmt) {
	base, offs, code := g.genAssignTarget(s.Target)
	g.emitAll(code)

	readOp := ioOpForType(g.dec.Type(s.Target), ir.OpReadI, ir.OpReadF, ir.OpReadC)
	if offs == "" {
		g.sub.Emit(ir.Instruction{Op: readOp, Dst: base})
		return
	}
	tmp := g.newTemp()
	g.sub.Emit(ir.Instruction{Op: readOp, Dst: tmp})
	g.sub.Emit(ir.Instruction{Op: ir.OpXLoad, Dst: base, Src: offs, Src2: tmp})
}

func (g *generator) genWriteExpr(s *ast.WriteExprStmt) {
	addr, code := g.genExpr(s.Value)
	g.emitAll(code)
	writeOp := ioOpForType(g.dec.Type(s.Value), ir.OpWriteI, ir.OpWriteF, ir.OpWriteC)
	g.sub.Emit(ir.Instruction{Op: writeOp, Src: addr})
}

// genWriteString lowers a literal string write to one CHLOAD+WRITEC pair
// per character; the language has no string type, so a "write" with a
// quoted literal is sugar for writing its characters in sequence.
func (g *generator) genWriteString(s *ast.WriteStringStmt) {
	for _, ch := range unescapeLiteral(s.Raw) {
		tmp := g.newTemp()
		g.sub.Emit(ir.Instruction{Op: ir.OpCHLoad, Dst: tmp, Bytes: string(ch)})
		g.sub.Emit(ir.Instruction{Op: ir.OpWriteC, Src: tmp})
	}
}

// ioOpForType picks the READ*/WRITE* opcode matching ty; booleans share
// the integer family since the language represents them as 0/1 cells.
func ioOpForType(ty *types.Type, intOp, floatOp, charOp ir.Op) ir.Op {
	switch {
	case ty.IsFloat():
		return floatOp
	case ty.IsCharacter():
		return charOp
	default:
		return intOp
	}
}

// widenToFloatIfNeeded emits a FLOAT conversion when an integer-typed
// value flows into a float-typed slot (assignment, return, or a mixed
// arithmetic operand); the int/float split between scalars is only
// ever bridged at these write points, never implicitly in storage.
func (g *generator) widenToFloatIfNeeded(targetTy, sourceTy *types.Type, addr string, code []ir.Instruction) (string, []ir.Instruction) {
	if targetTy.IsFloat() && sourceTy.IsInteger() {
		t := g.newTemp()
		code = append(code, ir.Instruction{Op: ir.OpFloat, Dst: t, Src: addr})
		return t, code
	}
	return addr, code
}

func (g *generator) genExpr(expr ast.Expr) (string, []ir.Instruction) {
	switch n := expr.(type) {
	case *ast.Identifier:
		return n.Name, nil

	case *ast.IntLiteral:
		t := g.newTemp()
		return t, []ir.Instruction{{Op: ir.OpILoad, Dst: t, IntLit: n.Value}}

	case *ast.FloatLiteral:
		t := g.newTemp()
		return t, []ir.Instruction{{Op: ir.OpFLoad, Dst: t, FloatLit: n.Value}}

	case *ast.CharLiteral:
		t := g.newTemp()
		return t, []ir.Instruction{{Op: ir.OpCHLoad, Dst: t, Bytes: n.Raw}}

	case *ast.BoolLiteral:
		var lit int64
		if n.Value {
			lit = 1
		}
		t := g.newTemp()
		return t, []ir.Instruction{{Op: ir.OpILoad, Dst: t, IntLit: lit}}

	case *ast.ParenExpr:
		return g.genExpr(n.Inner)

	case *ast.ArrayAccessExpr:
		base, offs, code := g.genAssignTarget(n)
		t := g.newTemp()
		code = append(code, ir.Instruction{Op: ir.OpLoadX, Dst: t, Src: base, Src2: offs})
		return t, code

	case *ast.UnaryExpr:
		return g.genUnary(n)

	case *ast.BinaryExpr:
		return g.genBinary(n)

	case *ast.CallExpr:
		return g.genCall(n, true)

	default:
		panic("codegen: unknown expression node")
	}
}

func (g *generator) genUnary(n *ast.UnaryExpr) (string, []ir.Instruction) {
	operandTy := g.dec.Type(n.Operand)
	addr, code := g.genExpr(n.Operand)

	switch n.Op {
	case "+":
		return addr, code
	case "-":
		t := g.newTemp()
		op := ir.OpNeg
		if operandTy.IsFloat() {
			op = ir.OpFNeg
		}
		code = append(code, ir.Instruction{Op: op, Dst: t, Src: addr})
		return t, code
	case "not":
		t := g.newTemp()
		code = append(code, ir.Instruction{Op: ir.OpNot, Dst: t, Src: addr})
		return t, code
	default:
		panic("codegen: unknown unary operator " + n.Op)
	}
}

func (g *generator) genBinary(n *ast.BinaryExpr) (string, []ir.Instruction) {
	leftTy, rightTy := g.dec.Type(n.Left), g.dec.Type(n.Right)
	laddr, code := g.genExpr(n.Left)
	raddr, rcode := g.genExpr(n.Right)
	code = append(code, rcode...)

	switch n.Op {
	case "+", "-", "*", "/":
		return g.genArithmetic(n.Op, leftTy, rightTy, laddr, raddr, code)
	case "%":
		return g.genModulo(laddr, raddr, code)
	case "=", "!=", "<", "<=", ">", ">=":
		return g.genRelational(n.Op, leftTy, rightTy, laddr, raddr, code)
	case "and":
		t := g.newTemp()
		code = append(code, ir.Instruction{Op: ir.OpAnd, Dst: t, Src: laddr, Src2: raddr})
		return t, code
	case "or":
		t := g.newTemp()
		code = append(code, ir.Instruction{Op: ir.OpOr, Dst: t, Src: laddr, Src2: raddr})
		return t, code
	default:
		panic("codegen: unknown binary operator " + n.Op)
	}
}

func (g *generator) genArithmetic(op string, leftTy, rightTy *types.Type, laddr, raddr string, code []ir.Instruction) (string, []ir.Instruction) {
	isFloat := leftTy.IsFloat() || rightTy.IsFloat()
	laddr, code = g.widenToFloatIfNeeded(boolTy(isFloat, g.mgr), leftTy, laddr, code)
	raddr, code = g.widenToFloatIfNeeded(boolTy(isFloat, g.mgr), rightTy, raddr, code)

	var o ir.Op
	switch {
	case op == "+" && !isFloat:
		o = ir.OpAdd
	case op == "+" && isFloat:
		o = ir.OpFAdd
	case op == "-" && !isFloat:
		o = ir.OpSub
	case op == "-" && isFloat:
		o = ir.OpFSub
	case op == "*" && !isFloat:
		o = ir.OpMul
	case op == "*" && isFloat:
		o = ir.OpFMul
	case op == "/" && !isFloat:
		o = ir.OpDiv
	case op == "/" && isFloat:
		o = ir.OpFDiv
	}
	t := g.newTemp()
	code = append(code, ir.Instruction{Op: o, Dst: t, Src: laddr, Src2: raddr})
	return t, code
}

// genModulo always lowers through the integer DIV/MUL/SUB identity
// a - (a/b)*b, reproducing the legacy compiler's quirk of reusing
// integer opcodes for "%" even when an operand's declared type is
// float (spec.md's decided Open Question; see DESIGN.md).
func (g *generator) genModulo(laddr, raddr string, code []ir.Instruction) (string, []ir.Instruction) {
	q := g.newTemp()
	code = append(code, ir.Instruction{Op: ir.OpDiv, Dst: q, Src: laddr, Src2: raddr})
	m := g.newTemp()
	code = append(code, ir.Instruction{Op: ir.OpMul, Dst: m, Src: q, Src2: raddr})
	t := g.newTemp()
	code = append(code, ir.Instruction{Op: ir.OpSub, Dst: t, Src: laddr, Src2: m})
	return t, code
}

func (g *generator) genRelational(op string, leftTy, rightTy *types.Type, laddr, raddr string, code []ir.Instruction) (string, []ir.Instruction) {
	isFloat := leftTy.IsFloat() || rightTy.IsFloat()
	laddr, code = g.widenToFloatIfNeeded(boolTy(isFloat, g.mgr), leftTy, laddr, code)
	raddr, code = g.widenToFloatIfNeeded(boolTy(isFloat, g.mgr), rightTy, raddr, code)

	eqOp, ltOp, leOp := ir.OpEq, ir.OpLt, ir.OpLe
	if isFloat {
		eqOp, ltOp, leOp = ir.OpFEq, ir.OpFLt, ir.OpFLe
	}

	t := g.newTemp()
	switch op {
	case "=":
		code = append(code, ir.Instruction{Op: eqOp, Dst: t, Src: laddr, Src2: raddr})
	case "!=":
		eq := g.newTemp()
		code = append(code, ir.Instruction{Op: eqOp, Dst: eq, Src: laddr, Src2: raddr})
		code = append(code, ir.Instruction{Op: ir.OpNot, Dst: t, Src: eq})
	case "<":
		code = append(code, ir.Instruction{Op: ltOp, Dst: t, Src: laddr, Src2: raddr})
	case "<=":
		code = append(code, ir.Instruction{Op: leOp, Dst: t, Src: laddr, Src2: raddr})
	case ">":
		code = append(code, ir.Instruction{Op: ltOp, Dst: t, Src: raddr, Src2: laddr})
	case ">=":
		code = append(code, ir.Instruction{Op: leOp, Dst: t, Src: raddr, Src2: laddr})
	}
	return t, code
}

// genCall lowers a call, identical in shape whether it sits in statement
// or expression position: push a placeholder return slot, then each
// actual (float-coerced when the formal is float and the actual is
// integer, taken by reference via ALOAD when the actual is an array),
// CALL, pop one slot per actual, and finally pop the return slot — into
// a fresh temp when wantResult is set, bare otherwise.
func (g *generator) genCall(call *ast.CallExpr, wantResult bool) (string, []ir.Instruction) {
	entry, _ := g.tbl.FindInStack(call.Callee)
	calleeTy := entry.Type

	var code []ir.Instruction
	code = append(code, ir.Instruction{Op: ir.OpPush})

	for i, a := range call.Args {
		addr, acode := g.genExpr(a)
		code = append(code, acode...)

		formalTy := calleeTy.FunctionParamType(i)
		actualTy := g.dec.Type(a)
		switch {
		case formalTy.IsFloat() && actualTy.IsInteger():
			t := g.newTemp()
			code = append(code, ir.Instruction{Op: ir.OpFloat, Dst: t, Src: addr})
			addr = t
		case actualTy.IsArray():
			ref := g.newTemp()
			code = append(code, ir.Instruction{Op: ir.OpALoad, Dst: ref, Src: addr})
			addr = ref
		}
		code = append(code, ir.Instruction{Op: ir.OpPush, Src: addr})
	}

	code = append(code, ir.Instruction{Op: ir.OpCall, Label: call.Callee})
	for range call.Args {
		code = append(code, ir.Instruction{Op: ir.OpPop})
	}

	if wantResult {
		t := g.newTemp()
		code = append(code, ir.Instruction{Op: ir.OpPop, Dst: t})
		return t, code
	}
	code = append(code, ir.Instruction{Op: ir.OpPop})
	return "", code
}

// boolTy is a tiny helper so widenToFloatIfNeeded can be reused for
// pairwise operand coercion: it needs a "target type" that is float
// exactly when isFloat is true.
func boolTy(isFloat bool, mgr *types.Manager) *types.Type {
	if isFloat {
		return mgr.Float()
	}
	return mgr.Integer()
}

// unescapeLiteral turns the raw interior of a quoted string (escapes
// preserved as written) into the literal byte sequence it denotes.
func unescapeLiteral(raw string) []byte {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			case '\'':
				out = append(out, '\'')
			default:
				out = append(out, raw[i])
			}
			continue
		}
		out = append(out, raw[i])
	}
	return out
}
