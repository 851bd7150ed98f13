package symbols

import (
	"testing"

	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/types"
)

func TestAddFieldEntryAndSearch(t *testing.T) {
	tree := NewTree()

	entry, code := tree.AddFieldEntry("x", types.Int(true, types.Int32), true)
	if code != diag.Null {
		t.Fatalf("AddFieldEntry returned error code %v", code)
	}

	found, ok := tree.Search([]string{"x"})
	if !ok {
		t.Fatal("expected to find x")
	}

	if found != Node(entry) {
		t.Errorf("Search returned a different node than AddFieldEntry created")
	}
}

func TestAddFieldEntryDuplicate(t *testing.T) {
	tree := NewTree()

	if _, code := tree.AddFieldEntry("x", types.Bool, false); code != diag.Null {
		t.Fatalf("first AddFieldEntry failed: %v", code)
	}

	if _, code := tree.AddFieldEntry("x", types.Bool, false); code != diag.NameAlreadyExists {
		t.Errorf("expected NameAlreadyExists, got %v", code)
	}
}

func TestReservedNamesAreNotShadowable(t *testing.T) {
	tree := NewTree()

	if _, code := tree.AddFieldEntry("i32", types.Bool, false); code != diag.NameIsReserved {
		t.Errorf("expected NameIsReserved, got %v", code)
	}

	if _, code := tree.AddNamespace("bool"); code != diag.NameIsReserved {
		t.Errorf("expected NameIsReserved for namespace named 'bool', got %v", code)
	}
}

func TestNamespacesAreOpen(t *testing.T) {
	tree := NewTree()

	ns1, code := tree.AddNamespace("geo")
	if code != diag.Null {
		t.Fatalf("AddNamespace failed: %v", code)
	}

	tree.ExitScope()

	ns2, code := tree.AddNamespace("geo")
	if code != diag.Null {
		t.Fatalf("re-entering namespace failed: %v", code)
	}

	if ns1 != ns2 {
		t.Error("expected re-adding a namespace to return the same node")
	}
}

func TestStructCannotNestNamespace(t *testing.T) {
	tree := NewTree()

	if _, code := tree.AddStructDef("Point", false); code != diag.Null {
		t.Fatalf("AddStructDef failed: %v", code)
	}

	if _, code := tree.AddNamespace("inner"); code != diag.NamespaceInStructDef {
		t.Errorf("expected NamespaceInStructDef, got %v", code)
	}
}

func TestLocalScopeRejectsNamespaceAndStruct(t *testing.T) {
	tree := NewTree()
	tree.AddLocalScope(BlockFunction)

	if _, code := tree.AddNamespace("ns"); code != diag.NamespaceInLocalScope {
		t.Errorf("expected NamespaceInLocalScope, got %v", code)
	}

	if _, code := tree.AddStructDef("S", false); code != diag.StructInLocalScope {
		t.Errorf("expected StructInLocalScope, got %v", code)
	}
}

func TestShadowingAcrossScopes(t *testing.T) {
	tree := NewTree()

	outer, _ := tree.AddFieldEntry("x", types.Int(true, types.Int32), false)
	tree.AddLocalScope(BlockPlain)
	inner, _ := tree.AddFieldEntry("x", types.Bool, false)

	found, ok := tree.Search([]string{"x"})
	if !ok || found != Node(inner) {
		t.Error("expected inner scope search to resolve to the shadowing entry")
	}

	tree.ExitScope()

	found, ok = tree.Search([]string{"x"})
	if !ok || found != Node(outer) {
		t.Error("expected outer scope search to resolve to the original entry after exiting")
	}
}

func TestExitScopeFailsAtRoot(t *testing.T) {
	tree := NewTree()

	if _, ok := tree.ExitScope(); ok {
		t.Error("expected ExitScope to fail at the root")
	}
}

func TestSearchQualifiedName(t *testing.T) {
	tree := NewTree()

	tree.AddNamespace("geo")
	tree.AddFieldEntry("origin", types.Bool, false)
	tree.ExitScope()

	found, ok := tree.Search([]string{"geo", "origin"})
	if !ok {
		t.Fatal("expected to resolve geo::origin")
	}

	if found.NodeName() != "origin" {
		t.Errorf("resolved node name = %q, want origin", found.NodeName())
	}
}
