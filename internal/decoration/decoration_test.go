package decoration

import (
	"testing"

	"github.com/mgv99/aslcore/internal/ast"
	"github.com/mgv99/aslcore/internal/symbols"
	"github.com/mgv99/aslcore/internal/token"
	"github.com/mgv99/aslcore/internal/types"
)

func TestTypeAndLValueRoundTrip(t *testing.T) {
	mgr := types.NewManager()
	store := NewStore()
	node := &ast.Identifier{Name: "x"}

	store.SetType(node, mgr.Integer())
	store.SetLValue(node, true)

	if got := store.Type(node); got != mgr.Integer() {
		t.Fatalf("Type() = %s, want Integer", got)
	}
	if !store.LValue(node) {
		t.Fatal("LValue() = false, want true")
	}
}

func TestScopeRoundTrips(t *testing.T) {
	store := NewStore()
	node := &ast.Function{Name: "main"}
	id := symbols.ScopeID{}

	store.SetScope(node, id)
	got, ok := store.Scope(node)
	if !ok || got != id {
		t.Fatal("Scope() did not round-trip the decorated id")
	}
}

func TestTypeOnUndecoratedNodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Type() on an undecorated node to panic")
		}
	}()
	store := NewStore()
	store.Type(&ast.IntLiteral{Tok: token.Token{}, Value: 1})
}

func TestLValueOnUndecoratedNodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected LValue() on an undecorated node to panic")
		}
	}()
	store := NewStore()
	store.LValue(&ast.IntLiteral{Tok: token.Token{}, Value: 1})
}
