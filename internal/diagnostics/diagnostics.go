// Package diagnostics formats the core's recoverable error records.
// Modeled on the teacher's phase-tagged error-code tables: every message
// kind the spec names gets one code and one template, and a Bag collects
// them across passes without ever aborting analysis.
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/mgv99/aslcore/internal/token"
)

// Phase is the pass that raised a diagnostic.
type Phase string

const (
	PhaseSymbols   Phase = "symbols"
	PhaseTypeCheck Phase = "typecheck"
	PhaseInternal  Phase = "internal"
)

// Code enumerates every message kind in spec.md §6.
type Code string

const (
	DeclaredIdent               Code = "declaredIdent"
	UndeclaredIdent             Code = "undeclaredIdent"
	IncompatibleAssignment      Code = "incompatibleAssignment"
	IncompatibleReturn          Code = "incompatibleReturn"
	IncompatibleParameter       Code = "incompatibleParameter"
	IncompatibleOperator        Code = "incompatibleOperator"
	BooleanRequired              Code = "booleanRequired"
	ReadWriteRequireBasic        Code = "readWriteRequireBasic"
	NonReferenceableLeftExpr     Code = "nonReferenceableLeftExpr"
	NonReferenceableExpression   Code = "nonReferenceableExpression"
	IsNotCallable                Code = "isNotCallable"
	IsNotFunction                Code = "isNotFunction"
	NumberOfParameters           Code = "numberOfParameters"
	NonArrayInArrayAccess        Code = "nonArrayInArrayAccess"
	NonIntegerIndexInArrayAccess Code = "nonIntegerIndexInArrayAccess"
	NoMainProperlyDeclared       Code = "noMainProperlyDeclared"
	InvalidArraySize             Code = "invalidArraySize"
	Internal                     Code = "internal"
)

var templates = map[Code]string{
	DeclaredIdent:                "'%s' is already declared in this scope",
	UndeclaredIdent:              "'%s' is not declared",
	IncompatibleAssignment:       "cannot assign a value of type %s to a variable of type %s",
	IncompatibleReturn:           "incompatible return type: expected %s, got %s",
	IncompatibleParameter:        "incompatible type for parameter %d: expected %s, got %s",
	IncompatibleOperator:         "incompatible operand types for operator %s: %s and %s",
	BooleanRequired:              "a boolean expression is required here",
	ReadWriteRequireBasic:        "read/write statements require a primitive scalar type",
	NonReferenceableLeftExpr:     "the left-hand side of an assignment must be a referenceable expression",
	NonReferenceableExpression:   "expression is not referenceable",
	IsNotCallable:                "'%s' is not callable",
	IsNotFunction:                "'%s' does not return a value and cannot be used as an expression",
	NumberOfParameters:           "wrong number of parameters in call to '%s': expected %d, got %d",
	NonArrayInArrayAccess:        "cannot index a non-array value",
	NonIntegerIndexInArrayAccess: "array index must be an integer",
	NoMainProperlyDeclared:       "program must declare a parameterless 'main' function returning void",
	InvalidArraySize:             "array size must be a positive integer, got %d",
	Internal:                     "internal error: %s",
}

// Diagnostic is a single recoverable record.
type Diagnostic struct {
	Code  Code
	Phase Phase
	Pos   token.Position
	Args  []any
}

func (d Diagnostic) Error() string {
	tmpl, ok := templates[d.Code]
	if !ok {
		tmpl = string(d.Code)
	}
	msg := tmpl
	if len(d.Args) > 0 {
		msg = fmt.Sprintf(tmpl, d.Args...)
	}
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: [%s] %s", d.Pos, d.Code, msg)
	}
	return fmt.Sprintf("[%s] %s", d.Code, msg)
}

// New builds a diagnostic for the given phase, code, position, and
// template arguments.
func New(phase Phase, code Code, pos token.Position, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Phase: phase, Pos: pos, Args: args}
}

// NewInternal wraps a programmer error (missing decoration, malformed
// AST) as a diagnostic rather than letting it escape as a panic.
func NewInternal(pos token.Position, detail string) *Diagnostic {
	return New(PhaseInternal, Internal, pos, detail)
}

// Bag accumulates diagnostics across passes and exposes them in a
// deterministic, position-sorted order.
type Bag struct {
	items []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) {
	b.items = append(b.items, d)
}

// HasErrors reports whether any diagnostic was recorded. Every code in
// this package is an error; there are no warnings in this language.
func (b *Bag) HasErrors() bool {
	return len(b.items) > 0
}

// All returns the diagnostics sorted by source position, then by code,
// for stable output across runs.
func (b *Bag) All() []*Diagnostic {
	out := make([]*Diagnostic, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool {
		a, c := out[i], out[j]
		if a.Pos.Line != c.Pos.Line {
			return a.Pos.Line < c.Pos.Line
		}
		if a.Pos.Column != c.Pos.Column {
			return a.Pos.Column < c.Pos.Column
		}
		return a.Code < c.Code
	})
	return out
}
