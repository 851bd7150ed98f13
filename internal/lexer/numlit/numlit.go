// Package numlit decodes the shape of a scanned numeric lexeme: its base
// prefix, integer/fractional/exponent digit runs, and trailing width
// suffix. It is grounded on the teacher's layering of a participle
// sub-grammar (participle/v2) over a hand-rolled outer lexer for
// structured pieces of a larger token — here, the pieces of one numeric
// literal lexeme rather than a whole source file.
package numlit

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/token"
)

var shapeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Prefix", Pattern: `0[xXoObB]`},
	{Name: "Exp", Pattern: `[eE][+-]?`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Digits", Pattern: `[0-9A-Za-z_]+`},
})

type fracPart struct {
	Dot    string `@Dot`
	Digits string `@Digits`
}

type expPart struct {
	E      string `@Exp`
	Digits string `@Digits`
}

type grammar struct {
	Prefix string    `@Prefix?`
	Whole  string    `@Digits`
	Frac   *fracPart `@@?`
	Exp    *expPart  `@@?`
}

var shapeParser = participle.MustBuild[grammar](
	participle.Lexer(shapeLexer),
	participle.UseLookahead(2),
)

var intSuffixes = []struct {
	suffix string
	signed bool
	width  token.IntWidth
}{
	{"i8", true, token.Width8},
	{"i16", true, token.Width16},
	{"i32", true, token.Width32},
	{"i64", true, token.Width64},
	{"u8", false, token.Width8},
	{"u16", false, token.Width16},
	{"u32", false, token.Width32},
	{"u64", false, token.Width64},
}

// Decoded is the structural decomposition of one numeric lexeme, with any
// trailing width suffix separated out and the digit runs stripped of
// underscores (but not yet parsed to a numeric value — that is the
// parser's job, including the NumberOutOfRange check).
type Decoded struct {
	Base IntBase

	IntDigits  string // underscores stripped, base-prefix stripped
	HasFrac    bool
	FracDigits string
	HasExp     bool
	ExpSign    string
	ExpDigits  string

	IsFloat    bool
	Signed     bool
	IntWidth   token.IntWidth
	FloatWidth token.FloatWidth
	HasSuffix  bool
}

// IntBase is the numeric base a literal was written in.
type IntBase int

const (
	Base10 IntBase = 10
	Base2  IntBase = 2
	Base8  IntBase = 8
	Base16 IntBase = 16
)

// Decode parses lexeme (the exact source text of a numeric token, with no
// surrounding whitespace) into its structural parts, reporting a lexer
// diagnostic code on any shape violation. diag.Null means lexeme is
// well-formed.
func Decode(lexeme string) (Decoded, diag.Code) {
	// Digits also matches e/E, so outside base 16 the exponent is split off
	// by hand before the shape grammar runs.
	body, expTail := lexeme, ""
	if i := strings.IndexAny(lexeme, "eE"); i > 0 && !strings.HasPrefix(strings.ToLower(lexeme), "0x") {
		body, expTail = lexeme[:i], lexeme[i:]
	}

	g, err := shapeParser.ParseString("", body)
	if err != nil {
		return Decoded{}, diag.UnexpectedEndOfNumber
	}

	if expTail != "" {
		e := expTail[:1]
		if len(expTail) > 1 && (expTail[1] == '+' || expTail[1] == '-') {
			e = expTail[:2]
		}
		g.Exp = &expPart{E: e, Digits: expTail[len(e):]}
	}

	d := Decoded{Base: Base10, IntWidth: token.Width32, FloatWidth: token.WidthF64}

	switch strings.ToLower(g.Prefix) {
	case "0x":
		d.Base = Base16
	case "0o":
		d.Base = Base8
	case "0b":
		d.Base = Base2
	}

	whole := g.Whole
	frac := ""
	exp := ""
	expSign := ""

	if g.Frac != nil {
		d.HasFrac = true
		frac = g.Frac.Digits
	}

	if g.Exp != nil {
		d.HasExp = true
		exp = g.Exp.Digits
		e := g.Exp.E
		if len(e) > 1 && (e[1] == '+' || e[1] == '-') {
			expSign = string(e[1])
		}
	}

	if d.Base != Base10 {
		if d.HasFrac {
			return Decoded{}, diag.UnexpectedDotInNumber
		}

		if d.HasExp {
			return Decoded{}, diag.UnexpectedExpInNumber
		}
	}

	// The suffix, if any, is attached to the last-scanned digit run: the
	// exponent's digits if there was an exponent, else the fraction's, else
	// the whole part's.
	tail := &whole
	if d.HasExp {
		tail = &exp
	} else if d.HasFrac {
		tail = &frac
	}

	if code := splitSuffix(&d, tail); code != diag.Null {
		return Decoded{}, code
	}

	d.IsFloat = d.IsFloat || d.HasFrac || d.HasExp

	if code := validateDigits(whole, d.Base, true); code != diag.Null {
		return Decoded{}, code
	}

	if d.HasFrac {
		if code := validateDigits(frac, Base10, true); code != diag.Null {
			return Decoded{}, code
		}
	}

	if d.HasExp {
		if code := validateDigits(exp, Base10, true); code != diag.Null {
			return Decoded{}, code
		}
	}

	d.IntDigits = strings.ReplaceAll(whole, "_", "")
	d.FracDigits = strings.ReplaceAll(frac, "_", "")
	d.ExpDigits = strings.ReplaceAll(exp, "_", "")
	d.ExpSign = expSign

	return d, diag.Null
}

// splitSuffix strips a trailing width suffix off *tail in place, updating
// d accordingly. A bare trailing "f" marks a float (unless the literal is
// base 16, where 'f' is just a hex digit).
func splitSuffix(d *Decoded, tail *string) diag.Code {
	s := *tail

	for _, is := range intSuffixes {
		if strings.HasSuffix(s, is.suffix) && len(s) > len(is.suffix) {
			d.HasSuffix = true
			d.Signed = is.signed
			d.IntWidth = is.width
			*tail = s[:len(s)-len(is.suffix)]

			return diag.Null
		}
	}

	if d.Base == Base16 {
		// In base 16, 'f'/'F' are ordinary digits; no float suffix applies.
		d.Signed = true

		return diag.Null
	}

	if strings.HasSuffix(s, "f32") && len(s) > 3 {
		d.HasSuffix = true
		d.IsFloat = true
		d.FloatWidth = token.WidthF32
		*tail = s[:len(s)-3]

		return diag.Null
	}

	if strings.HasSuffix(s, "f64") && len(s) > 3 {
		d.HasSuffix = true
		d.IsFloat = true
		d.FloatWidth = token.WidthF64
		*tail = s[:len(s)-3]

		return diag.Null
	}

	if strings.HasSuffix(s, "f") && len(s) > 1 {
		d.HasSuffix = true
		d.IsFloat = true
		*tail = s[:len(s)-1]

		return diag.Null
	}

	d.Signed = true

	return diag.Null
}

func validateDigits(run string, base IntBase, allowUnderscore bool) diag.Code {
	if run == "" {
		return diag.UnexpectedEndOfNumber
	}

	if run[0] == '_' {
		return diag.UnexpectedEndOfNumber
	}

	for _, c := range run {
		if c == '_' {
			if !allowUnderscore {
				return diag.DigitInWrongBase
			}

			continue
		}

		if !isDigitInBase(c, base) {
			return diag.DigitInWrongBase
		}
	}

	return diag.Null
}

func isDigitInBase(c rune, base IntBase) bool {
	switch base {
	case Base2:
		return c == '0' || c == '1'
	case Base8:
		return c >= '0' && c <= '7'
	case Base16:
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	default:
		return c >= '0' && c <= '9'
	}
}
