// Package symbols is the Symbol Table (spec.md §3, §4): a stack of named
// scopes plus one mutable cell for the return type of the function
// currently under analysis. Structurally this follows the teacher's
// symbols.SymbolTable (store map + outer pointer), trimmed to the
// closed set of symbol kinds this language has and extended with the
// push/pop-by-id re-entry the spec requires for the Type-Check and
// Code-Gen passes to walk back into exactly the scopes the Symbols pass
// created.
package symbols

import (
	"github.com/google/uuid"

	"github.com/mgv99/aslcore/internal/types"
)

// ScopeID identifies a scope independent of its position on the stack,
// so passes 2 and 3 can re-enter a scope pass 1 created by id rather
// than by name. Minted from google/uuid instead of a bare counter so
// scope identity never depends on traversal order — the one thing an
// implementation that parallelized Code-Gen per function (§5) would
// need to keep independent.
type ScopeID uuid.UUID

// Kind classifies a symbol-table entry.
type Kind int

const (
	LocalVar Kind = iota
	Parameter
	Function
)

// Entry is one symbol-table binding.
type Entry struct {
	Name string
	Kind Kind
	Type *types.Type
}

// scope is an ordered mapping from name to entry. Insertion order is
// preserved (via order) because parameter order controls IR argument
// order at the call site.
type scope struct {
	id      ScopeID
	name    string
	entries map[string]*Entry
	order   []string
}

func newScope(name string) *scope {
	return &scope{
		id:      ScopeID(uuid.New()),
		name:    name,
		entries: make(map[string]*Entry),
	}
}

func (s *scope) define(e *Entry) {
	if _, exists := s.entries[e.Name]; !exists {
		s.order = append(s.order, e.Name)
	}
	s.entries[e.Name] = e
}

// Table is the scope stack. The bottom of the stack is always the
// distinguished "$global$" scope, pushed by NewTable.
type Table struct {
	stack      []*scope
	byID       map[ScopeID]*scope
	returnType *types.Type // current function's declared return type
}

const GlobalScopeName = "$global$"

// NewTable creates a fresh scope stack with the global scope already
// pushed, as spec.md §4.1 requires at Program entry.
func NewTable() *Table {
	t := &Table{byID: make(map[ScopeID]*scope)}
	t.PushNewScope(GlobalScopeName)
	return t
}

// PushNewScope creates and enters a brand-new scope, returning its id
// so the owning AST node can be decorated with it.
func (t *Table) PushNewScope(name string) ScopeID {
	s := newScope(name)
	t.byID[s.id] = s
	t.stack = append(t.stack, s)
	return s.id
}

// PushThisScope re-enters a scope a prior pass already created. Passes
// 2 and 3 use this exclusively once pass 1 has run, never PushNewScope.
func (t *Table) PushThisScope(id ScopeID) {
	s, ok := t.byID[id]
	if !ok {
		panic("symbols: PushThisScope on unknown scope id")
	}
	t.stack = append(t.stack, s)
}

// PopScope leaves the current scope. Every push on every control-flow
// path out of a function or program visitor must be matched by exactly
// one pop (spec.md §5).
func (t *Table) PopScope() {
	if len(t.stack) == 0 {
		panic("symbols: PopScope on empty stack")
	}
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *Table) current() *scope {
	return t.stack[len(t.stack)-1]
}

// CurrentScopeID returns the id of the innermost active scope.
func (t *Table) CurrentScopeID() ScopeID {
	return t.current().id
}

// Define registers name in the current scope. Callers are responsible
// for checking FindInCurrentScope first and reporting a duplicate
// declaration instead of calling Define twice for the same name.
func (t *Table) Define(name string, kind Kind, ty *types.Type) {
	t.current().define(&Entry{Name: name, Kind: kind, Type: ty})
}

// FindInCurrentScope looks up name without walking outer scopes, used to
// detect duplicate declarations.
func (t *Table) FindInCurrentScope(name string) (*Entry, bool) {
	e, ok := t.current().entries[name]
	return e, ok
}

// FindInStack looks up name starting at the innermost scope and walking
// outward to $global$.
func (t *Table) FindInStack(name string) (*Entry, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if e, ok := t.stack[i].entries[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// OrderedParameters returns the Parameter entries of the given scope in
// declaration order, which is also IR argument order.
func (t *Table) OrderedParameters(id ScopeID) []*Entry {
	s, ok := t.byID[id]
	if !ok {
		panic("symbols: OrderedParameters on unknown scope id")
	}
	var params []*Entry
	for _, name := range s.order {
		if e := s.entries[name]; e.Kind == Parameter {
			params = append(params, e)
		}
	}
	return params
}

// LocalVariables returns the LocalVar entries of the given scope in
// declaration order.
func (t *Table) LocalVariables(id ScopeID) []*Entry {
	s, ok := t.byID[id]
	if !ok {
		panic("symbols: LocalVariables on unknown scope id")
	}
	var locals []*Entry
	for _, name := range s.order {
		if e := s.entries[name]; e.Kind == LocalVar {
			locals = append(locals, e)
		}
	}
	return locals
}

// SetCurrentFunctionReturnType sets the cell return statements read.
// Called on function entry, before the body is visited.
func (t *Table) SetCurrentFunctionReturnType(ty *types.Type) {
	t.returnType = ty
}

// CurrentFunctionReturnType reads the cell set by SetCurrentFunctionReturnType.
func (t *Table) CurrentFunctionReturnType() *types.Type {
	return t.returnType
}
