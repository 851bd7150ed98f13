package symbols

import (
	"fmt"

	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/types"
)

// Tree is the mutable symbol tree a checker walks while processing a
// compilation unit or REPL submission. It owns the RootScope/ReservedScope
// pair and tracks a "current scope" cursor the Add*/Exit operations move.
type Tree struct {
	root     *RootScope
	reserved *ReservedScope
	current  Scope
	// Modified bumps on every mutation so a REPL driver can detect
	// staleness between submissions (spec §4.3).
	Modified bool
}

// NewTree returns a fresh Tree with primitive types already installed into
// its reserved scope.
func NewTree() *Tree {
	t := &Tree{}
	t.Reset()

	return t
}

// Reset rebuilds the tree from scratch: a new root, a new reserved scope
// with primitives reinstalled, and the cursor back at the root. Mirrors
// SymbolTree::reset in the original implementation.
func (t *Tree) Reset() {
	t.root = &RootScope{scopeBase: newScopeBase("<root>", nil)}
	t.reserved = &ReservedScope{scopeBase: newScopeBase("<reserved>", nil)}
	t.current = t.root
	t.installPrimitiveTypes()
	t.Modified = true
}

func (t *Tree) installPrimitiveTypes() {
	add := func(name string, typ types.Type) {
		t.reserved.addChild(name, &PrimitiveType{name: name, parent: t.reserved, Type: typ})
	}

	add("i8", types.Int(true, types.Int8))
	add("i16", types.Int(true, types.Int16))
	add("i32", types.Int(true, types.Int32))
	add("i64", types.Int(true, types.Int64))
	add("u8", types.Int(false, types.Int8))
	add("u16", types.Int(false, types.Int16))
	add("u32", types.Int(false, types.Int32))
	add("u64", types.Int(false, types.Int64))
	add("f32", types.Float(types.Float32))
	add("f64", types.Float(types.Float64))
	add("bool", types.Bool)
	add("str", types.Str)
	add("unit", types.Unit)
}

// Root returns the root scope.
func (t *Tree) Root() *RootScope { return t.root }

// Reserved returns the reserved scope.
func (t *Tree) Reserved() *ReservedScope { return t.reserved }

// Current returns the scope the cursor currently sits in.
func (t *Tree) Current() Scope { return t.current }

// IsReserved reports whether name is bound in the reserved scope, used by
// every Add* operation to reject shadowing attempts.
func (t *Tree) IsReserved(name string) bool {
	_, ok := t.reserved.Child(name)
	return ok
}

// AddNamespace adds (or re-enters) a namespace named by tokLexeme in the
// current scope, then makes it current. Namespaces are open: re-adding an
// existing namespace just re-enters it rather than erroring.
func (t *Tree) AddNamespace(name string) (*Namespace, diag.Code) {
	if _, ok := t.current.(*LocalScope); ok {
		return nil, diag.NamespaceInLocalScope
	}

	if _, ok := t.current.(*StructDef); ok {
		return nil, diag.NamespaceInStructDef
	}

	if t.IsReserved(name) {
		return nil, diag.NameIsReserved
	}

	if existing, ok := t.current.Child(name); ok {
		ns, isNamespace := existing.(*Namespace)
		if !isNamespace {
			return nil, diag.NameAlreadyExists
		}

		t.current = ns
		t.Modified = true

		return ns, diag.Null
	}

	ns := &Namespace{scopeBase: newScopeBase(name, t.current)}
	t.current.addChild(name, ns)
	t.current = ns
	t.Modified = true

	return ns, diag.Null
}

// AddStructDef adds a struct/class definition named name in the current
// scope, then makes it current.
func (t *Tree) AddStructDef(name string, isClass bool) (*StructDef, diag.Code) {
	if _, ok := t.current.(*LocalScope); ok {
		return nil, diag.StructInLocalScope
	}

	if t.IsReserved(name) {
		return nil, diag.NameIsReserved
	}

	if _, ok := t.current.Child(name); ok {
		return nil, diag.NameAlreadyExists
	}

	sd := &StructDef{scopeBase: newScopeBase(name, t.current), IsClass: isClass}
	t.current.addChild(name, sd)
	t.current = sd
	t.Modified = true

	return sd, diag.Null
}

// AddLocalScope always succeeds (spec §4.3: "always permitted"), pushing a
// new LocalScope of the given block kind as the current scope.
func (t *Tree) AddLocalScope(kind BlockKind) *LocalScope {
	ls := &LocalScope{scopeBase: newScopeBase(fmt.Sprintf("<local:%d>", len(t.current.Children())), t.current), BlockKind: kind}
	t.current.addChild(ls.name, ls)
	t.current = ls
	t.Modified = true

	return ls
}

// EnterScope makes s the current scope directly, without the
// creation/conflict checks Add* perform. Used by the local checker to
// re-enter a StructDef the global checker already built (struct
// definitions, unlike namespaces, are not reenterable via AddStructDef).
func (t *Tree) EnterScope(s Scope) {
	t.current = s
	t.Modified = true
}

// ExitScope returns to the parent scope, or does nothing and reports
// false if already at the root.
func (t *Tree) ExitScope() (Scope, bool) {
	parent := t.current.Parent()
	if parent == nil {
		return nil, false
	}

	scope, ok := parent.(Scope)
	if !ok {
		panic("symbols: non-scope parent in symbol tree, this is a bug")
	}

	t.current = scope
	t.Modified = true

	return scope, true
}

// AddFieldEntry declares a new variable/parameter/field in the current
// scope.
func (t *Tree) AddFieldEntry(name string, typ types.Type, mutable bool) (*FieldEntry, diag.Code) {
	if t.IsReserved(name) {
		return nil, diag.NameIsReserved
	}

	if _, ok := t.current.Child(name); ok {
		return nil, diag.NameAlreadyExists
	}

	fe := &FieldEntry{name: name, parent: t.current, Type: typ, Mutable: mutable}
	t.current.addChild(name, fe)
	t.Modified = true

	if sd, ok := t.current.(*StructDef); ok {
		sd.FieldOrder = append(sd.FieldOrder, fe)
	}

	return fe, diag.Null
}

// AddFunctionDecl declares (or extends the overload set of) a function
// named name in the current scope.
func (t *Tree) AddFunctionDecl(name string) *FunctionDecl {
	if existing, ok := t.current.Child(name); ok {
		if fd, ok := existing.(*FunctionDecl); ok {
			return fd
		}
	}

	fd := &FunctionDecl{name: name, parent: t.current}
	t.current.addChild(name, fd)
	t.Modified = true

	return fd
}

// Search resolves a multi-part name against the tree, following spec
// §4.3's algorithm: walk ancestor scopes from current to root, and at each
// ancestor whose children contain parts[0], attempt a downward match of
// the remaining parts; the reserved scope is searched first as a sibling
// root, and its hits win unconditionally.
func (t *Tree) Search(parts []string) (Node, bool) {
	if len(parts) == 0 {
		return nil, false
	}

	if node, ok := searchFromScope(parts, t.reserved); ok {
		return node, true
	}

	return searchFromScope(parts, t.current)
}

func searchFromScope(parts []string, scope Scope) (Node, bool) {
	var s Node = scope

	for s != nil {
		sc, isScope := s.(Scope)
		if !isScope {
			s = s.Parent()
			continue
		}

		if child, ok := sc.Child(parts[0]); ok {
			node := child
			found := true

			for _, p := range parts[1:] {
				childScope, ok := node.(Scope)
				if !ok {
					found = false
					break
				}

				next, ok := childScope.Child(p)
				if !ok {
					found = false
					break
				}

				node = next
			}

			if found {
				return node, true
			}
		}

		s = sc.Parent()
	}

	return nil, false
}
