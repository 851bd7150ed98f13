// Package symbols implements the scope hierarchy described in spec §3/§4.3:
// a tree rooted at RootScope, with a sibling ReservedScope holding
// primitives and keywords, Namespace and StructDef nodes grouping
// declarations, LocalScope nodes for function/block/loop bodies, and leaf
// FieldEntry/PrimitiveType/FunctionDecl nodes.
package symbols

import "github.com/brian-m/nico/internal/types"

// NodeKind discriminates the concrete symbol-tree node kinds.
type NodeKind int

const (
	KindRoot NodeKind = iota
	KindReserved
	KindNamespace
	KindStructDef
	KindLocalScope
	KindFieldEntry
	KindPrimitiveType
	KindFunctionDecl
)

// Node is satisfied by every symbol-tree node. It also implements
// types.SymbolNode so a Node can back a Named type directly.
type Node interface {
	Kind() NodeKind
	NodeName() string
	Parent() Node
}

// Scope is a Node that can own named children. Namespaces are open (the
// same name re-enters the existing namespace instead of erroring), struct
// defs and local scopes are not; lookup itself doesn't care about that
// distinction, only the Add* methods on Tree do.
type Scope interface {
	Node
	Child(name string) (Node, bool)
	Children() map[string]Node
	addChild(name string, n Node)
}

type scopeBase struct {
	name     string
	parent   Node
	children map[string]Node
}

func newScopeBase(name string, parent Node) scopeBase {
	return scopeBase{name: name, parent: parent, children: map[string]Node{}}
}

func (s *scopeBase) NodeName() string { return s.name }
func (s *scopeBase) Parent() Node     { return s.parent }

func (s *scopeBase) Child(name string) (Node, bool) {
	n, ok := s.children[name]
	return n, ok
}

func (s *scopeBase) Children() map[string]Node {
	return s.children
}

func (s *scopeBase) addChild(name string, n Node) {
	s.children[name] = n
}

// RootScope is the tree's root; it owns every user-defined top-level name.
type RootScope struct {
	scopeBase
}

func (*RootScope) Kind() NodeKind { return KindRoot }

// ReservedScope holds primitive type bindings and is searched as a
// sibling root ahead of any user scope (spec §4.3: "The reserved scope is
// searched first ... its hits win over any user-defined name").
type ReservedScope struct {
	scopeBase
}

func (*ReservedScope) Kind() NodeKind { return KindReserved }

// Namespace is a named, re-enterable grouping scope.
type Namespace struct {
	scopeBase
}

func (*Namespace) Kind() NodeKind { return KindNamespace }

// StructDef is a struct or class body.
type StructDef struct {
	scopeBase
	IsClass bool
	// FieldOrder preserves declaration order for layout/printing purposes;
	// Children is unordered so this is consulted whenever field order
	// matters (e.g. MIR struct layout, diagnostics).
	FieldOrder []*FieldEntry
}

func (*StructDef) Kind() NodeKind { return KindStructDef }

// BlockKind mirrors ast.BlockKind without importing the ast package
// (symbols must stay below ast in the dependency order since ast embeds
// *symbols.FieldEntry on NameRef/Let nodes).
type BlockKind int

const (
	BlockPlain BlockKind = iota
	BlockFunction
	BlockLoop
)

// LocalScope is a function body, block, or loop scope. Spec invariant:
// "A LocalScope may only be created inside a FunctionScope or another
// LocalScope" — enforced by Tree.AddLocalScope, which panics if the
// current scope isn't already local (function bodies open the first
// LocalScope directly under wherever the function was declared, which the
// checker treats as the bootstrap case).
type LocalScope struct {
	scopeBase
	BlockKind BlockKind
}

func (*LocalScope) Kind() NodeKind { return KindLocalScope }

// FieldEntry is a declared variable, parameter, or struct field.
type FieldEntry struct {
	name     string
	parent   Node
	Type     types.Type
	Mutable  bool
	// Declared is flipped true once the local checker has processed this
	// entry's declaration; a NameRef resolving to an entry with
	// Declared == false is reported as UndeclaredName (spec §4.4).
	Declared bool
	// Handle is an opaque slot for a backend IR handle (spec §3:
	// "handle into backend IR"); the frontend never interprets it.
	Handle int
}

func (f *FieldEntry) Kind() NodeKind  { return KindFieldEntry }
func (f *FieldEntry) NodeName() string { return f.name }
func (f *FieldEntry) Parent() Node    { return f.parent }

// PrimitiveType binds a reserved name (i32, bool, ...) to its Type.
type PrimitiveType struct {
	name   string
	parent Node
	Type   types.Type
}

func (p *PrimitiveType) Kind() NodeKind  { return KindPrimitiveType }
func (p *PrimitiveType) NodeName() string { return p.name }
func (p *PrimitiveType) Parent() Node    { return p.parent }

// FunctionSignature is one overload of a FunctionDecl.
type FunctionSignature struct {
	Params     []FunctionParam
	Return     types.Type
	// Handle is an opaque backend slot, one per overload.
	Handle int
}

// FunctionParam names one formal parameter of a signature, carrying
// enough to check named-argument calls and apply defaults.
type FunctionParam struct {
	Name       string
	Type       types.Type
	HasDefault bool
}

// FunctionDecl is a function name together with every overload declared
// for it in this scope.
type FunctionDecl struct {
	name       string
	parent     Node
	Signatures []*FunctionSignature
}

func (f *FunctionDecl) Kind() NodeKind  { return KindFunctionDecl }
func (f *FunctionDecl) NodeName() string { return f.name }
func (f *FunctionDecl) Parent() Node    { return f.parent }
