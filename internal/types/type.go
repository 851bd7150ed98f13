// Package types implements the semantic Type model used by the local
// checker and the MIR builder: an algebraic description of primitive,
// pointer, reference, array, tuple, object, function and named types.
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the sum type Type is built from.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindStr
	KindNullptr
	KindUnit
	KindPointer
	KindReference
	KindArray
	KindTuple
	KindFunction
	KindNamed
	// KindNever is the bottom type of an unconditionally-looping expression
	// (spec §4.4: "compatible with any context"). It has no teacher analog;
	// it exists only so Equal and Unify can treat it specially.
	KindNever
)

// IntWidth and FloatWidth mirror the lexer's literal widths; they are
// re-declared here rather than imported from the token package so the
// type model has no dependency on lexical concerns.
type IntWidth int

const (
	Int8 IntWidth = iota
	Int16
	Int32
	Int64
)

type FloatWidth int

const (
	Float32 FloatWidth = iota
	Float64
)

// SymbolNode is the minimal interface a symbol-tree node must satisfy to
// back a Named type. It is declared here (rather than imported from the
// symbols package) to avoid a dependency cycle: symbols needs Type to
// populate FieldEntry.Type, and Type needs a symbol node to back Named.
// The concrete implementation lives in internal/symbols.
type SymbolNode interface {
	// NodeName returns the declared name of the node backing a Named type,
	// used only for diagnostics and printing.
	NodeName() string
}

// Type is the semantic type of an expression or declaration. Exactly one
// of its Kind-specific fields is meaningful; which one is determined by
// Kind. Named is the sole exception to structural equality: it is
// nominal, compared by the identity of the symbol node it wraps.
type Type struct {
	Kind Kind

	// KindInt
	Signed   bool
	IntWidth IntWidth

	// KindFloat
	FloatWidth FloatWidth

	// KindPointer, KindReference, KindArray (element)
	Base    *Type
	Mutable bool // KindPointer, KindReference

	// KindArray
	Size    int
	HasSize bool

	// KindTuple
	Elems []Type

	// KindFunction
	Params []Type
	Return *Type

	// KindNamed
	Named SymbolNode
}

var (
	Bool    = Type{Kind: KindBool}
	Str     = Type{Kind: KindStr}
	Nullptr = Type{Kind: KindNullptr}
	Unit    = Type{Kind: KindUnit}
)

// I32 is the default integer type literals default to when unsuffixed
// (spec §4.4: "integer literals default to i32 unless suffixed").
var I32 = Int(true, Int32)

// F64 is the default float type (spec §4.4: "float to f64").
var F64 = Float(Float64)

// Int returns the signed/unsigned integer type of the given width.
func Int(signed bool, width IntWidth) Type {
	return Type{Kind: KindInt, Signed: signed, IntWidth: width}
}

// Float returns the float type of the given width.
func Float(width FloatWidth) Type {
	return Type{Kind: KindFloat, FloatWidth: width}
}

// Pointer returns a pointer-to-base type.
func Pointer(base Type, mutable bool) Type {
	return Type{Kind: KindPointer, Base: &base, Mutable: mutable}
}

// Reference returns a reference-to-base type.
func Reference(base Type, mutable bool) Type {
	return Type{Kind: KindReference, Base: &base, Mutable: mutable}
}

// Array returns a fixed or unsized array-of-base type.
func Array(base Type, size int, hasSize bool) Type {
	return Type{Kind: KindArray, Base: &base, Size: size, HasSize: hasSize}
}

// Tuple returns a tuple type over the given element types.
func Tuple(elems ...Type) Type {
	return Type{Kind: KindTuple, Elems: elems}
}

// Function returns a function type with the given parameter and return
// types.
func Function(params []Type, ret Type) Type {
	return Type{Kind: KindFunction, Params: params, Return: &ret}
}

// NamedType returns a Type wrapping a symbol-tree node nominally.
func NamedType(node SymbolNode) Type {
	return Type{Kind: KindNamed, Named: node}
}

// IsNumeric reports whether t is an integer or float type.
func (t Type) IsNumeric() bool {
	return t.Kind == KindInt || t.Kind == KindFloat
}

// IsPointerLike reports whether t is a pointer or reference, the two
// kinds a deref/address-of expression can operate on.
func (t Type) IsPointerLike() bool {
	return t.Kind == KindPointer || t.Kind == KindReference
}

// Equal implements the equality rule from spec §3: structural for every
// kind except Named, which compares by node identity.
func Equal(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindInt:
		return a.Signed == b.Signed && a.IntWidth == b.IntWidth
	case KindFloat:
		return a.FloatWidth == b.FloatWidth
	case KindBool, KindStr, KindNullptr, KindUnit, KindNever:
		return true
	case KindPointer, KindReference:
		return a.Mutable == b.Mutable && Equal(*a.Base, *b.Base)
	case KindArray:
		if a.HasSize != b.HasSize {
			return false
		}

		if a.HasSize && a.Size != b.Size {
			return false
		}

		return Equal(*a.Base, *b.Base)
	case KindTuple:
		if len(a.Elems) != len(b.Elems) {
			return false
		}

		for i := range a.Elems {
			if !Equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}

		return true
	case KindFunction:
		if len(a.Params) != len(b.Params) {
			return false
		}

		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}

		return Equal(*a.Return, *b.Return)
	case KindNamed:
		return a.Named == b.Named
	default:
		return false
	}
}

// String renders a human-readable type name, used in diagnostics.
func (t Type) String() string {
	switch t.Kind {
	case KindInt:
		prefix := "u"
		if t.Signed {
			prefix = "i"
		}

		return fmt.Sprintf("%s%d", prefix, widthBits(t.IntWidth))
	case KindFloat:
		bits := 32
		if t.FloatWidth == Float64 {
			bits = 64
		}

		return fmt.Sprintf("f%d", bits)
	case KindBool:
		return "bool"
	case KindStr:
		return "str"
	case KindNullptr:
		return "nullptr"
	case KindUnit:
		return "unit"
	case KindNever:
		return "!"
	case KindPointer:
		m := ""
		if t.Mutable {
			m = "var "
		}

		return fmt.Sprintf("*%s%s", m, t.Base.String())
	case KindReference:
		m := ""
		if t.Mutable {
			m = "var "
		}

		return fmt.Sprintf("&%s%s", m, t.Base.String())
	case KindArray:
		if t.HasSize {
			return fmt.Sprintf("[%s; %d]", t.Base.String(), t.Size)
		}

		return fmt.Sprintf("[%s]", t.Base.String())
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}

		return "(" + strings.Join(parts, ", ") + ")"
	case KindFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}

		return fmt.Sprintf("func(%s) -> %s", strings.Join(parts, ", "), t.Return.String())
	case KindNamed:
		if t.Named == nil {
			return "<named>"
		}

		return t.Named.NodeName()
	default:
		return "<unknown>"
	}
}

func widthBits(w IntWidth) int {
	switch w {
	case Int8:
		return 8
	case Int16:
		return 16
	case Int32:
		return 32
	case Int64:
		return 64
	default:
		return 32
	}
}

// Never returns the bottom type.
func Never() Type {
	return Type{Kind: KindNever}
}

// IsNever reports whether t is the bottom type produced by an
// unconditionally-looping expression.
func IsNever(t Type) bool {
	return t.Kind == KindNever
}

// Unify returns the common supertype of a and b for a conditional/loop
// branch pair (spec §4.4): equal types unify to themselves, and the
// bottom type unifies to whichever side is not bottom. Two concrete,
// unequal types do not unify; ok reports which case applied.
func Unify(a, b Type) (Type, bool) {
	if IsNever(a) {
		return b, true
	}

	if IsNever(b) {
		return a, true
	}

	if Equal(a, b) {
		return a, true
	}

	return Type{}, false
}
