// Package ast defines the abstract syntax tree the parser builds:
// statements, expressions, and type annotations, plus the resolved-type
// cell and visitor dispatch the checker and MIR builder rely on.
//
// Every node is a fixed-identity wrapper (Stmt / Expr / Annotation)
// carrying a Loc and a Data payload; Data is a small marker interface
// implemented by one struct per concrete kind, so callers switch on
// concrete type rather than on a stored discriminant (spec §9: "prefer
// tagged sum types with exhaustive pattern matching ... overload by
// kind, not by dynamic dispatch").
package ast

import (
	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/symbols"
	"github.com/brian-m/nico/internal/types"
)

// StmtData is implemented by every concrete statement kind.
type StmtData interface{ isStmt() }

// Stmt is a statement node: its source span and its concrete payload.
type Stmt struct {
	Loc  source.Location
	Data StmtData
}

// ExprData is implemented by every concrete expression kind.
type ExprData interface{ isExpr() }

// Expr is an expression node. Type starts nil and is filled in by the
// local checker (spec §3: "Each expression carries a (mutable) type slot
// populated by the local checker"); keeping it as a pointer field on a
// fixed-identity struct is option (a) from spec §9's design notes —
// simpler than threading a parallel typed AST, at the cost of a nil
// check before the type is available.
type Expr struct {
	Loc  source.Location
	Type *types.Type
	Data ExprData
}

// SetType installs the resolved type for this expression. Called exactly
// once per expression by the local checker.
func (e *Expr) SetType(t types.Type) {
	e.Type = &t
}

// HasType reports whether the local checker has already annotated this
// expression.
func (e *Expr) HasType() bool {
	return e.Type != nil
}

// AnnotationData is implemented by every concrete type-annotation kind.
type AnnotationData interface{ isAnnotation() }

// Annotation is a syntactic type annotation, as written by the user,
// prior to being resolved against the symbol tree.
type Annotation struct {
	Loc  source.Location
	Data AnnotationData
}

// FieldEntryRef is an alias of *symbols.FieldEntry, the entry a NameRef
// expression resolves to after local checking.
type FieldEntryRef = *symbols.FieldEntry
