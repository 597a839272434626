// Package decoration is the Tree Decoration Store (spec.md §3): the only
// state shared between the Symbols, Type-Check, and Code-Gen passes. It
// is a side table keyed by AST node identity rather than a mutation of
// the AST itself, so an external parser's node types never need to grow
// fields the three passes would otherwise want to bolt on — the same
// tradeoff the teacher makes by keeping a separate TypeMap rather than
// writing inferred types back onto ast.Node values.
package decoration

import (
	"github.com/mgv99/aslcore/internal/ast"
	"github.com/mgv99/aslcore/internal/symbols"
	"github.com/mgv99/aslcore/internal/types"
)

// Store holds the three partial maps spec.md §3 defines. Each map's
// writes are monotone: a well-behaved pass writes a given node's
// decoration at most once.
type Store struct {
	scope  map[ast.Node]symbols.ScopeID
	typ    map[ast.Node]*types.Type
	lvalue map[ast.Node]bool
}

// NewStore creates an empty decoration store for one compilation invocation.
func NewStore() *Store {
	return &Store{
		scope:  make(map[ast.Node]symbols.ScopeID),
		typ:    make(map[ast.Node]*types.Type),
		lvalue: make(map[ast.Node]bool),
	}
}

// SetScope records the scope a Program or Function node owns.
func (s *Store) SetScope(n ast.Node, id symbols.ScopeID) {
	s.scope[n] = id
}

// Scope reads back a node's scope decoration, written by the Symbols pass.
func (s *Store) Scope(n ast.Node) (symbols.ScopeID, bool) {
	id, ok := s.scope[n]
	return id, ok
}

// SetType records an expression's inferred type.
func (s *Store) SetType(n ast.Node, t *types.Type) {
	s.typ[n] = t
}

// Type reads back an expression's type decoration, written by the
// Type-Check pass.
func (s *Store) Type(n ast.Node) *types.Type {
	t, ok := s.typ[n]
	if !ok {
		panic("decoration: type requested for undecorated node")
	}
	return t
}

// SetLValue records whether an expression denotes a storage location.
func (s *Store) SetLValue(n ast.Node, lv bool) {
	s.lvalue[n] = lv
}

// LValue reads back an expression's l-value decoration.
func (s *Store) LValue(n ast.Node) bool {
	lv, ok := s.lvalue[n]
	if !ok {
		panic("decoration: l-value requested for undecorated node")
	}
	return lv
}
