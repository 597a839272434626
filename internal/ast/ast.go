// Package ast defines exactly the node kinds spec.md §4 and §6 name.
// The lexer and parser that build these trees are external collaborators
// (spec.md §1); this module only consumes them. Traversal uses Go type
// switches rather than the teacher's Accept/Visitor double dispatch —
// spec.md's design notes call either acceptable, and a type switch per
// pass keeps the three passes (symbols, type-check, code-gen) free to
// handle only the node shapes they care about without a Visitor
// interface that all three would otherwise have to implement in full.
package ast

import "github.com/mgv99/aslcore/internal/token"

// Node is the base interface every AST node satisfies.
type Node interface {
	GetToken() token.Token
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// TypeNode is a type annotation: either a BasicType or an ArrayType.
type TypeNode interface {
	Node
	typeNode()
}

// Program is the root of every AST this module accepts.
type Program struct {
	Tok       token.Token
	Functions []*Function
}

func (p *Program) GetToken() token.Token { return p.Tok }

// Param is one declared formal parameter.
type Param struct {
	Tok  token.Token
	Name string
	Type TypeNode
}

func (p *Param) GetToken() token.Token { return p.Tok }

// VariableDecl declares one or more names sharing a type, e.g.
// "var a, b: array[3] of int;".
type VariableDecl struct {
	Tok   token.Token
	Type  TypeNode
	Names []string
}

func (v *VariableDecl) GetToken() token.Token { return v.Tok }

// Function is a top-level function (or procedure, when ReturnType is nil).
type Function struct {
	Tok        token.Token
	Name       string
	Params     []*Param
	ReturnType TypeNode // nil for a procedure
	Decls      []*VariableDecl
	Body       []Stmt
}

func (f *Function) GetToken() token.Token { return f.Tok }

// BasicKind enumerates the four primitive spellings a Type node can name.
type BasicKind int

const (
	BasicInt BasicKind = iota
	BasicFloat
	BasicChar
	BasicBool
)

// BasicType is a bare primitive type annotation.
type BasicType struct {
	Tok  token.Token
	Kind BasicKind
}

func (b *BasicType) GetToken() token.Token { return b.Tok }
func (b *BasicType) typeNode()             {}

// ArrayType is "array [N] of <elem>".
type ArrayType struct {
	Tok  token.Token
	Size int64 // as written; may be <= 0, which the Symbols pass rejects
	Elem TypeNode
}

func (a *ArrayType) GetToken() token.Token { return a.Tok }
func (a *ArrayType) typeNode()             {}

// ---- Statements ----

// AssignStmt is "L := E".
type AssignStmt struct {
	Tok   token.Token
	Left  Expr
	Right Expr
}

func (s *AssignStmt) GetToken() token.Token { return s.Tok }
func (s *AssignStmt) stmtNode()             {}

// IfStmt is "if C then S1 [else S2] endif". Else is nil when absent.
type IfStmt struct {
	Tok  token.Token
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (s *IfStmt) GetToken() token.Token { return s.Tok }
func (s *IfStmt) stmtNode()             {}

// WhileStmt is "while C do S endwhile".
type WhileStmt struct {
	Tok  token.Token
	Cond Expr
	Body []Stmt
}

func (s *WhileStmt) GetToken() token.Token { return s.Tok }
func (s *WhileStmt) stmtNode()             {}

// ReturnStmt is "return [E];". Value is nil for a bare return.
type ReturnStmt struct {
	Tok   token.Token
	Value Expr
}

func (s *ReturnStmt) GetToken() token.Token { return s.Tok }
func (s *ReturnStmt) stmtNode()             {}

// ReadStmt is "read L;".
type ReadStmt struct {
	Tok    token.Token
	Target Expr
}

func (s *ReadStmt) GetToken() token.Token { return s.Tok }
func (s *ReadStmt) stmtNode()             {}

// WriteExprStmt is "write E;".
type WriteExprStmt struct {
	Tok   token.Token
	Value Expr
}

func (s *WriteExprStmt) GetToken() token.Token { return s.Tok }
func (s *WriteExprStmt) stmtNode()             {}

// WriteStringStmt is "write "literal text";". Raw holds the interior of
// the quotes exactly as written, escapes included.
type WriteStringStmt struct {
	Tok token.Token
	Raw string
}

func (s *WriteStringStmt) GetToken() token.Token { return s.Tok }
func (s *WriteStringStmt) stmtNode()             {}

// CallStmt is a procedure call used as a statement.
type CallStmt struct {
	Tok  token.Token
	Call *CallExpr
}

func (s *CallStmt) GetToken() token.Token { return s.Tok }
func (s *CallStmt) stmtNode()             {}

// ---- Expressions ----

// Identifier references a declared name.
type Identifier struct {
	Tok  token.Token
	Name string
}

func (e *Identifier) GetToken() token.Token { return e.Tok }
func (e *Identifier) exprNode()             {}

// IntLiteral is an INTVAL literal.
type IntLiteral struct {
	Tok   token.Token
	Value int64
}

func (e *IntLiteral) GetToken() token.Token { return e.Tok }
func (e *IntLiteral) exprNode()             {}

// FloatLiteral is a FLOATVAL literal.
type FloatLiteral struct {
	Tok   token.Token
	Value float64
}

func (e *FloatLiteral) GetToken() token.Token { return e.Tok }
func (e *FloatLiteral) exprNode()             {}

// CharLiteral is a CHARVAL literal. Raw holds the interior of the quotes:
// one byte for 'a', two characters for an escape like '\n'.
type CharLiteral struct {
	Tok token.Token
	Raw string
}

func (e *CharLiteral) GetToken() token.Token { return e.Tok }
func (e *CharLiteral) exprNode()             {}

// BoolLiteral is a BOOLVAL literal.
type BoolLiteral struct {
	Tok   token.Token
	Value bool
}

func (e *BoolLiteral) GetToken() token.Token { return e.Tok }
func (e *BoolLiteral) exprNode()             {}

// UnaryExpr is a prefix operator: "+", "-", or "not".
type UnaryExpr struct {
	Tok     token.Token
	Op      string
	Operand Expr
}

func (e *UnaryExpr) GetToken() token.Token { return e.Tok }
func (e *UnaryExpr) exprNode()             {}

// BinaryExpr is an infix operator: arithmetic, relational, or boolean.
type BinaryExpr struct {
	Tok   token.Token
	Op    string
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) GetToken() token.Token { return e.Tok }
func (e *BinaryExpr) exprNode()             {}

// ArrayAccessExpr is "a[e]".
type ArrayAccessExpr struct {
	Tok   token.Token
	Array Expr
	Index Expr
}

func (e *ArrayAccessExpr) GetToken() token.Token { return e.Tok }
func (e *ArrayAccessExpr) exprNode()             {}

// CallExpr is a call in either statement or expression position;
// spec.md §4.2 analyzes both shapes identically.
type CallExpr struct {
	Tok    token.Token
	Callee string
	Args   []Expr
}

func (e *CallExpr) GetToken() token.Token { return e.Tok }
func (e *CallExpr) exprNode()             {}

// ParenExpr is a parenthesized expression; it inherits its inner type
// and is never an l-value.
type ParenExpr struct {
	Tok   token.Token
	Inner Expr
}

func (e *ParenExpr) GetToken() token.Token { return e.Tok }
func (e *ParenExpr) exprNode()             {}
