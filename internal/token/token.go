package token

import "github.com/brian-m/nico/internal/source"

// IntWidth is the bit width of an integer literal.
type IntWidth int

const (
	Width8 IntWidth = iota
	Width16
	Width32
	Width64
)

// FloatWidth is the bit width of a float literal.
type FloatWidth int

const (
	WidthF32 FloatWidth = iota
	WidthF64
)

// Literal is the typed payload a literal Token carries. Exactly one field
// is meaningful per Kind; which one is determined by the owning Token's
// Kind, not by a discriminant stored here, mirroring how the lexer already
// knows the kind at the point it builds the literal.
type Literal struct {
	Signed     bool
	IntWidth   IntWidth
	IntValue   uint64
	FloatWidth FloatWidth
	FloatValue float64
	BoolValue  bool
	StrValue   string
	TupleIndex int
}

// Token is a single lexical unit: its kind, the source span it came from,
// and an optional typed literal payload. The lexeme is always recoverable
// from the Location, so Token does not duplicate it.
type Token struct {
	Kind    Kind
	Loc     source.Location
	Literal Literal
}

// Lexeme returns the exact source text this token was scanned from.
func (t Token) Lexeme() string {
	return t.Loc.Lexeme()
}

// New builds a Token with no literal payload.
func New(kind Kind, loc source.Location) Token {
	return Token{Kind: kind, Loc: loc}
}

// NewLiteral builds a Token carrying the given literal payload.
func NewLiteral(kind Kind, loc source.Location, lit Literal) Token {
	return Token{Kind: kind, Loc: loc, Literal: lit}
}

// Is reports whether the token has the given kind. It exists mainly so
// parser code reads as `tok.Is(token.KwIf)` rather than repeating
// `tok.Kind ==` everywhere.
func (t Token) Is(k Kind) bool {
	return t.Kind == k
}

// IsStatementTerminator reports whether this token can end a statement:
// a newline outside any grouping, a semicolon, or a synthesized Dedent.
func (t Token) IsStatementTerminator() bool {
	switch t.Kind {
	case Newline, Semicolon, Dedent, Eof:
		return true
	default:
		return false
	}
}
