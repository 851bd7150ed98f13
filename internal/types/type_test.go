package types

import "testing"

type fakeNode struct{ name string }

func (f *fakeNode) NodeName() string { return f.name }

func TestEqualStructural(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same int", Int(true, Int32), Int(true, Int32), true},
		{"different signedness", Int(true, Int32), Int(false, Int32), false},
		{"different width", Int(true, Int32), Int(true, Int64), false},
		{"same float", Float(Float64), Float(Float64), true},
		{"bool equals bool", Bool, Bool, true},
		{"bool not str", Bool, Str, false},
		{"pointer to same base", Pointer(Bool, false), Pointer(Bool, false), true},
		{"pointer mutability differs", Pointer(Bool, true), Pointer(Bool, false), false},
		{"array with size", Array(Int(true, Int32), 4, true), Array(Int(true, Int32), 4, true), true},
		{"array size mismatch", Array(Int(true, Int32), 4, true), Array(Int(true, Int32), 5, true), false},
		{"tuple", Tuple(Bool, Str), Tuple(Bool, Str), true},
		{"tuple length mismatch", Tuple(Bool, Str), Tuple(Bool), false},
		{"function", Function([]Type{Bool}, Str), Function([]Type{Bool}, Str), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNamedIsNominal(t *testing.T) {
	a := &fakeNode{name: "Point"}
	b := &fakeNode{name: "Point"}

	sameNode := Equal(NamedType(a), NamedType(a))
	differentNode := Equal(NamedType(a), NamedType(b))

	if !sameNode {
		t.Error("expected the same node to be equal to itself")
	}

	if differentNode {
		t.Error("expected two distinct nodes with the same name to be unequal")
	}
}

func TestUnify(t *testing.T) {
	never := Never()

	if got, ok := Unify(never, Bool); !ok || !Equal(got, Bool) {
		t.Errorf("Unify(never, bool) = (%v, %v), want (bool, true)", got, ok)
	}

	if got, ok := Unify(Bool, never); !ok || !Equal(got, Bool) {
		t.Errorf("Unify(bool, never) = (%v, %v), want (bool, true)", got, ok)
	}

	if _, ok := Unify(Bool, Str); ok {
		t.Error("expected bool and str not to unify")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Int(true, Int32), "i32"},
		{Int(false, Int8), "u8"},
		{Float(Float32), "f32"},
		{Pointer(Bool, true), "*var bool"},
		{Array(Int(true, Int32), 3, true), "[i32; 3]"},
		{Tuple(Bool, Str), "(bool, str)"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
