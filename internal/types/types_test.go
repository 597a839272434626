package types

import "testing"

func TestPrimitiveSingletonsAreStable(t *testing.T) {
	mgr := NewManager()
	if mgr.Integer() != mgr.Integer() {
		t.Fatal("Integer() returned different pointers across calls")
	}
	if mgr.Integer() == mgr.Float() {
		t.Fatal("Integer and Float must be distinct types")
	}
}

func TestArrayInterning(t *testing.T) {
	mgr := NewManager()
	a1 := mgr.Array(10, mgr.Integer())
	a2 := mgr.Array(10, mgr.Integer())
	if a1 != a2 {
		t.Fatal("two arrays of the same size and element type must intern to the same pointer")
	}

	a3 := mgr.Array(11, mgr.Integer())
	if a1 == a3 {
		t.Fatal("arrays of different sizes must not intern to the same pointer")
	}

	a4 := mgr.Array(10, mgr.Float())
	if a1 == a4 {
		t.Fatal("arrays of different element types must not intern to the same pointer")
	}
}

func TestArraySizeOf(t *testing.T) {
	mgr := NewManager()
	nested := mgr.Array(3, mgr.Array(4, mgr.Integer()))
	if got, want := nested.SizeOf(), uint32(12); got != want {
		t.Fatalf("SizeOf() = %d, want %d", got, want)
	}
	if got, want := mgr.Integer().SizeOf(), uint32(1); got != want {
		t.Fatalf("scalar SizeOf() = %d, want %d", got, want)
	}
}

func TestFunctionInterning(t *testing.T) {
	mgr := NewManager()
	f1 := mgr.Function([]*Type{mgr.Integer(), mgr.Boolean()}, mgr.Float())
	f2 := mgr.Function([]*Type{mgr.Integer(), mgr.Boolean()}, mgr.Float())
	if f1 != f2 {
		t.Fatal("two functions with identical signatures must intern to the same pointer")
	}

	f3 := mgr.Function([]*Type{mgr.Boolean(), mgr.Integer()}, mgr.Float())
	if f1 == f3 {
		t.Fatal("functions with different parameter order must not intern to the same pointer")
	}
}

func TestCopyable(t *testing.T) {
	mgr := NewManager()
	cases := []struct {
		name           string
		target, source *Type
		want           bool
	}{
		{"identical", mgr.Integer(), mgr.Integer(), true},
		{"int into float widens", mgr.Float(), mgr.Integer(), true},
		{"float into int does not narrow", mgr.Integer(), mgr.Float(), false},
		{"error absorbs as target", mgr.Error(), mgr.Boolean(), true},
		{"error absorbs as source", mgr.Boolean(), mgr.Error(), true},
		{"mismatched scalars", mgr.Boolean(), mgr.Character(), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Copyable(c.target, c.source); got != c.want {
				t.Errorf("Copyable(%s, %s) = %v, want %v", c.target, c.source, got, c.want)
			}
		})
	}
}

func TestComparable(t *testing.T) {
	mgr := NewManager()
	if !Comparable(mgr.Integer(), mgr.Float(), "=") {
		t.Error("numeric pair should be comparable with =")
	}
	if Comparable(mgr.Boolean(), mgr.Integer(), "=") {
		t.Error("boolean and integer should not be comparable with =")
	}
	if Comparable(mgr.Character(), mgr.Character(), "<") {
		t.Error("characters should not support ordering operators")
	}
	if !Comparable(mgr.Integer(), mgr.Integer(), "<=") {
		t.Error("numeric pair should support ordering operators")
	}
	if !Comparable(mgr.Error(), mgr.Boolean(), "<") {
		t.Error("Error must absorb on any operator")
	}
}
