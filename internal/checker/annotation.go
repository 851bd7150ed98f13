// Package checker implements the global and local checking stages (spec
// §4.3/§4.4): the global checker walks top-level (and namespace/struct
// nested) declarations into a symbols.Tree, establishing forward-visible
// names and signatures; the local checker then type-checks every
// statement and expression, annotates Expr.Type, resolves NameRefs, and
// enforces mutability/lvalue/unsafe-block/control-flow rules.
package checker

import (
	"fmt"

	"github.com/brian-m/nico/internal/ast"
	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/symbols"
	"github.com/brian-m/nico/internal/token"
	"github.com/brian-m/nico/internal/types"
)

// resolveAnnotation turns a syntactic Annotation into a semantic Type by
// resolving NameRefs against tree (spec §4.3's search_name algorithm, via
// symbols.Tree.Search). Shared by the global checker (struct fields,
// function signatures) and the local checker (nested let/param
// annotations it encounters while walking bodies).
func resolveAnnotation(tree *symbols.Tree, log *diag.Log, ann *ast.Annotation) (types.Type, bool) {
	if ann == nil {
		return types.Unit, false
	}

	switch d := ann.Data.(type) {
	case *ast.AnnNameRef:
		return resolveNamedAnnotation(tree, log, ann.Loc, d.Name)
	case *ast.AnnPointer:
		base, ok := resolveAnnotation(tree, log, d.Base)
		if !ok {
			return types.Unit, false
		}

		return types.Pointer(base, d.Mutable), true
	case *ast.AnnReference:
		base, ok := resolveAnnotation(tree, log, d.Base)
		if !ok {
			return types.Unit, false
		}

		return types.Reference(base, d.Mutable), true
	case *ast.AnnNullptr:
		return types.Nullptr, true
	case *ast.AnnArray:
		base, ok := resolveAnnotation(tree, log, d.Base)
		if !ok {
			return types.Unit, false
		}

		size := 0

		if d.HasSize {
			// Only a bare integer literal is accepted as an array size;
			// nico has no constant-folding pass (spec §1 non-goals: "no
			// optimization passes"), so any other size expression is
			// rejected here rather than partially evaluated.
			lit, ok := d.Size.Data.(*ast.Literal)
			if !ok || lit.Kind != ast.LitInt {
				log.Error(diag.NotAType, ann.Loc, "array size must be an integer literal")
				return types.Unit, false
			}

			size = int(lit.Tok.Literal.IntValue)
		}

		return types.Array(base, size, d.HasSize), true
	case *ast.AnnTuple:
		elems := make([]types.Type, 0, len(d.Elems))

		for _, e := range d.Elems {
			t, ok := resolveAnnotation(tree, log, e)
			if !ok {
				return types.Unit, false
			}

			elems = append(elems, t)
		}

		return types.Tuple(elems...), true
	case *ast.AnnObject:
		// The semantic Type model (spec §3) has no structural "object"
		// kind, only Named (nominal). An inline object annotation has no
		// declared name to back a Named type with, so it resolves to a
		// Unit placeholder rather than inventing a new Type kind for a
		// feature the spec itself leaves underspecified (an Open
		// Question resolution, see DESIGN.md).
		return types.Unit, true
	case *ast.AnnTypeof:
		return resolveTypeofAnnotation(tree, log, ann.Loc, d.Target)
	default:
		return types.Unit, false
	}
}

// namePartsOf flattens a Name's parts into the plain strings Tree.Search
// expects, shared by annotation resolution and the local checker's
// NameRef/Call handling.
func namePartsOf(name ast.Name) []string {
	parts := make([]string, len(name.Parts))
	for i, p := range name.Parts {
		parts[i] = p.Value()
	}

	return parts
}

func resolveNamedAnnotation(tree *symbols.Tree, log *diag.Log, loc source.Location, name ast.Name) (types.Type, bool) {
	node, ok := tree.Search(namePartsOf(name))
	if !ok {
		log.Error(diag.UnknownAnnotationName, loc, fmt.Sprintf("unknown type %q", name.String()))
		return types.Unit, false
	}

	switch n := node.(type) {
	case *symbols.PrimitiveType:
		return n.Type, true
	case *symbols.StructDef:
		return types.NamedType(n), true
	default:
		log.Error(diag.UnknownAnnotationName, loc, fmt.Sprintf("%q does not name a type", name.String()))
		return types.Unit, false
	}
}

// resolveTypeofAnnotation supports only the expressions that can be typed
// without evaluating side effects (a literal, or a name already bound to
// a typed field entry), per AnnTypeof's doc comment and spec §9's open
// question. Anything else is UncheckableTypeofAnnotation.
func resolveTypeofAnnotation(tree *symbols.Tree, log *diag.Log, loc source.Location, target *ast.Expr) (types.Type, bool) {
	if target == nil {
		log.Error(diag.UncheckableTypeofAnnotation, loc, "typeof requires an expression")
		return types.Unit, false
	}

	switch d := target.Data.(type) {
	case *ast.Literal:
		return literalType(d), true
	case *ast.NameRef:
		node, ok := tree.Search(namePartsOf(d.Name))
		if !ok {
			log.Error(diag.UndeclaredName, loc, fmt.Sprintf("undeclared name %q in typeof", d.Name.String()))
			return types.Unit, false
		}

		switch n := node.(type) {
		case *symbols.FieldEntry:
			return n.Type, true
		case *symbols.PrimitiveType:
			return n.Type, true
		default:
			log.Error(diag.UncheckableTypeofAnnotation, loc, "typeof target does not name a typed value")
			return types.Unit, false
		}
	default:
		log.Error(diag.UncheckableTypeofAnnotation, loc, "typeof only supports literals and plain names")
		return types.Unit, false
	}
}

// literalType is the default type a literal expression carries before any
// context-driven widening (spec §4.4: "integer literals default to i32
// unless suffixed; float to f64").
func literalType(lit *ast.Literal) types.Type {
	switch lit.Kind {
	case ast.LitInt:
		return types.Int(lit.Tok.Literal.Signed, fromTokenIntWidth(lit.Tok.Literal.IntWidth))
	case ast.LitFloat:
		return types.Float(fromTokenFloatWidth(lit.Tok.Literal.FloatWidth))
	case ast.LitBool:
		return types.Bool
	case ast.LitString:
		return types.Str
	default: // ast.LitNullptr
		return types.Nullptr
	}
}

func fromTokenIntWidth(w token.IntWidth) types.IntWidth {
	switch w {
	case token.Width8:
		return types.Int8
	case token.Width16:
		return types.Int16
	case token.Width64:
		return types.Int64
	default:
		return types.Int32
	}
}

func fromTokenFloatWidth(w token.FloatWidth) types.FloatWidth {
	if w == token.WidthF64 {
		return types.Float64
	}

	return types.Float32
}
