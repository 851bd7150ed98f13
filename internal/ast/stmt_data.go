package ast

import (
	"github.com/brian-m/nico/internal/symbols"
	"github.com/brian-m/nico/internal/token"
)

// ExprStmt wraps a bare expression statement.
type ExprStmt struct {
	Expr *Expr
}

func (*ExprStmt) isStmt() {}

// Let is `let [var] name (: annotation)? (= expr)?`.
type Let struct {
	Mutable    bool
	NameTok    token.Token
	Annotation *Annotation
	Init       *Expr
	Entry      *symbols.FieldEntry // filled in by the local checker
}

func (*Let) isStmt() {}

// Param is one function parameter.
type Param struct {
	NameTok    token.Token
	Annotation *Annotation
	Default    *Expr
	Entry      *symbols.FieldEntry
}

// Func is `func name ( params ) (-> annotation)? (=> expr | block)`.
type Func struct {
	NameTok    token.Token
	Params     []Param
	Return     *Annotation
	Body       *Expr // an expression (=>) or a Block
	Decl       *symbols.FunctionDecl
	SigIndex   int // which overload of Decl this Func is
}

func (*Func) isStmt() {}

// Print is `print expr (, expr)*` (development-only, spec §4.2).
type Print struct {
	Args []*Expr
}

func (*Print) isStmt() {}

// Pass is the no-op statement.
type Pass struct{}

func (*Pass) isStmt() {}

// Yield is `yield expr?`, optionally targeting a labelled block.
type Yield struct {
	Label string
	Value *Expr // nil for a bare `yield`
	// Target is resolved by the local checker to the Block this yield
	// transfers control out of.
	Target *Block
}

func (*Yield) isStmt() {}

// Continue is `continue (label)?`.
type Continue struct {
	Label string
}

func (*Continue) isStmt() {}

// Break is `break (label)? expr?`.
type Break struct {
	Label string
	Value *Expr
}

func (*Break) isStmt() {}

// Return is `return expr?`.
type Return struct {
	Value *Expr
}

func (*Return) isStmt() {}

// Dealloc is `dealloc expr`.
type Dealloc struct {
	Target *Expr
}

func (*Dealloc) isStmt() {}

// Eof marks the end of input; the parser appends exactly one per
// submission so downstream stages can detect "nothing more to check"
// without special-casing an empty statement slice.
type Eof struct{}

func (*Eof) isStmt() {}

// Field is one `name: annotation` member of a StructDecl.
type Field struct {
	NameTok    token.Token
	Annotation *Annotation
	Entry      *symbols.FieldEntry
}

// StructDecl is `struct name { field (, field)* }` or, when IsClass is
// set, the `class` spelling of the same form. The global checker opens a
// symbols.StructDef for it and installs one FieldEntry per Field.
type StructDecl struct {
	NameTok token.Token
	IsClass bool
	Fields  []Field
	Body    []*Stmt // nested func/let declarations in a class body
	Def     *symbols.StructDef
}

func (*StructDecl) isStmt() {}

// NamespaceDecl is `namespace name { stmt* }`. Namespaces are open: two
// NamespaceDecls with the same qualified name both contribute to the same
// symbols.Namespace.
type NamespaceDecl struct {
	NameTok token.Token
	Body    []*Stmt
	Scope   *symbols.Namespace
}

func (*NamespaceDecl) isStmt() {}

// EnumVariant is one bare or tuple-payload variant of an EnumDecl, e.g.
// `Red` or `Point(f64, f64)`.
type EnumVariant struct {
	NameTok   token.Token
	Payload   []*Annotation // empty for a bare variant
	Discr     int           // assigned by the global checker, in source order
}

// EnumDecl is `enum name { variant (, variant)* }`. The global checker
// represents an enum as a StructDef whose fields are its variants' tags,
// since the symbol tree has no dedicated enum node kind (spec's Type model
// has no sum-type kind beyond Named, so an enum is nominal like a struct).
type EnumDecl struct {
	NameTok  token.Token
	Variants []EnumVariant
	Def      *symbols.StructDef
}

func (*EnumDecl) isStmt() {}
