package ast

import "github.com/brian-m/nico/internal/token"

// NamePart is one `part<args>` segment of a multi-part Name.
type NamePart struct {
	Tok  token.Token
	Args []Annotation // type arguments; empty for a non-generic part
}

// Value returns the identifier text of this part.
func (p NamePart) Value() string {
	return p.Tok.Lexeme()
}

// Name is a multi-part identifier, `part_1::part_2<args>::part_3`. Names
// are never compared directly (spec §3: "Names are never compared
// directly; they are resolved against the symbol tree"); Name only
// carries the syntax, and internal/symbols.Search performs resolution.
type Name struct {
	Parts []NamePart
}

// IsQualified reports whether this name has more than one part.
func (n Name) IsQualified() bool {
	return len(n.Parts) > 1
}

// String renders the name as written, `a::b::c`, for diagnostics.
func (n Name) String() string {
	out := ""
	for i, p := range n.Parts {
		if i > 0 {
			out += "::"
		}

		out += p.Value()
	}

	return out
}
