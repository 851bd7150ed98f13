package ast

// AnnNameRef is a bare name used as a type annotation, e.g. `i32` or
// `geo::Point<T>`.
type AnnNameRef struct {
	Name Name
}

func (*AnnNameRef) isAnnotation() {}

// AnnPointer is `*T` or `*var T`.
type AnnPointer struct {
	Base    *Annotation
	Mutable bool
}

func (*AnnPointer) isAnnotation() {}

// AnnReference is `&T` or `&var T`.
type AnnReference struct {
	Base    *Annotation
	Mutable bool
}

func (*AnnReference) isAnnotation() {}

// AnnNullptr is the `nullptr` annotation.
type AnnNullptr struct{}

func (*AnnNullptr) isAnnotation() {}

// AnnArray is `[T]` or `[T; size]`.
type AnnArray struct {
	Base    *Annotation
	Size    *Expr
	HasSize bool
}

func (*AnnArray) isAnnotation() {}

// AnnObjectField is one `name: annotation` entry of an AnnObject.
type AnnObjectField struct {
	Name string
	Type *Annotation
}

// AnnObject is an inline structural object-type annotation.
type AnnObject struct {
	Fields []AnnObjectField
}

func (*AnnObject) isAnnotation() {}

// AnnTuple is `(T1, T2, ...)` as a type annotation.
type AnnTuple struct {
	Elems []*Annotation
}

func (*AnnTuple) isAnnotation() {}

// AnnTypeof is `typeof(expr)`: the annotation resolves to whatever type
// the local checker derives for expr. Only expressions the checker can
// type without evaluating side effects are accepted; anything else is
// UncheckableTypeofAnnotation.
type AnnTypeof struct {
	Target *Expr
}

func (*AnnTypeof) isAnnotation() {}
