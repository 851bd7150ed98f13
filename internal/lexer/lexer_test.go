package lexer

import (
	"testing"

	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/token"
)

// kinds is a small fluent builder for the expected token.Kind sequence,
// grounded on the teacher's TestSet fluent checker (token/lexer_test.go).
type kinds []token.Kind

func want(ks ...token.Kind) kinds {
	return kinds(ks)
}

func (k kinds) assert(t *testing.T, toks []token.Token) {
	t.Helper()

	got := make(kinds, len(toks))
	for i, tok := range toks {
		got[i] = tok.Kind
	}

	if len(got) != len(k) {
		t.Fatalf("expected %d tokens %v but got %d %v", len(k), k, len(got), got)
	}

	for i := range k {
		if got[i] != k[i] {
			t.Fatalf("token %d: expected %s but got %s (full: got=%v want=%v)", i, k[i], got[i], got, k)
		}
	}
}

func scanOK(t *testing.T, text string) Result {
	t.Helper()

	file := source.New("test.nico", text)
	log := diag.NewLog()
	res := Scan(file, false, log)

	if res.Status == StatusError {
		t.Fatalf("unexpected lexer errors for %q: %v", text, log.Diagnostics())
	}

	return res
}

func scanErr(t *testing.T, text string) []diag.Diagnostic {
	t.Helper()

	file := source.New("test.nico", text)
	log := diag.NewLog()
	res := Scan(file, false, log)

	if res.Status != StatusError {
		t.Fatalf("expected lexer error for %q, got status %v", text, res.Status)
	}

	return log.Diagnostics()
}

func TestLexerEmptyFileIsJustEof(t *testing.T) {
	res := scanOK(t, "")
	want(token.Eof).assert(t, res.Tokens)
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	res := scanOK(t, "let mut func struct")
	want(token.KwLet, token.Identifier, token.KwFunc, token.KwStruct, token.Eof).assert(t, res.Tokens)
}

func TestLexerTypeofKeyword(t *testing.T) {
	res := scanOK(t, "typeof(x)")
	want(token.KwTypeof, token.LParen, token.Identifier, token.RParen, token.Eof).assert(t, res.Tokens)
}

func TestLexerBoolLiterals(t *testing.T) {
	res := scanOK(t, "true false")
	want(token.BoolLiteral, token.BoolLiteral, token.Eof).assert(t, res.Tokens)

	if !res.Tokens[0].Literal.BoolValue {
		t.Errorf("expected true literal to carry BoolValue=true")
	}
	if res.Tokens[1].Literal.BoolValue {
		t.Errorf("expected false literal to carry BoolValue=false")
	}
}

func TestLexerInfAndNaNLiterals(t *testing.T) {
	res := scanOK(t, "inf NaN")
	want(token.FloatLiteral, token.FloatLiteral, token.Eof).assert(t, res.Tokens)

	if !isInf(res.Tokens[0].Literal.FloatValue) {
		t.Errorf("expected inf literal to decode to +Inf, got %v", res.Tokens[0].Literal.FloatValue)
	}

	nan := res.Tokens[1].Literal.FloatValue
	if nan == nan {
		t.Errorf("expected NaN literal to decode to NaN, got %v", nan)
	}
}

func isInf(f float64) bool {
	return f > 1e300 || f < -1e300
}

func TestLexerIntegerLiteral(t *testing.T) {
	res := scanOK(t, "42")
	want(token.IntLiteral, token.Eof).assert(t, res.Tokens)

	lit := res.Tokens[0].Literal
	if !lit.Signed {
		t.Errorf("expected bare int literal to default to signed")
	}
	if lit.IntWidth != token.Width32 {
		t.Errorf("expected bare int literal to default to i32, got %v", lit.IntWidth)
	}
}

func TestLexerIntegerLiteralWithSuffix(t *testing.T) {
	res := scanOK(t, "42u64")
	lit := res.Tokens[0].Literal
	if lit.Signed {
		t.Errorf("expected u64 suffix to mark literal unsigned")
	}
	if lit.IntWidth != token.Width64 {
		t.Errorf("expected u64 suffix width, got %v", lit.IntWidth)
	}
}

func TestLexerFloatLiteral(t *testing.T) {
	res := scanOK(t, "3.14")
	want(token.FloatLiteral, token.Eof).assert(t, res.Tokens)
}

func TestLexerHexLiteralTrailingFIsDigit(t *testing.T) {
	res := scanOK(t, "0x1f")
	if res.Tokens[0].Kind != token.IntLiteral {
		t.Fatalf("expected 0x1f to lex as an int literal, got %s", res.Tokens[0].Kind)
	}
}

func TestLexerNumberOutOfShapeIsError(t *testing.T) {
	diags := scanErr(t, "0b102")

	found := false
	for _, d := range diags {
		if d.Code == diag.DigitInWrongBase {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DigitInWrongBase, got %v", diags)
	}
}

func TestLexerStringLiteralWithEscapes(t *testing.T) {
	res := scanOK(t, `"hello\nworld\x41"`)
	want(token.StringLiteral, token.Eof).assert(t, res.Tokens)

	got := res.Tokens[0].Literal.StrValue
	wantStr := "hello\nworldA"
	if got != wantStr {
		t.Errorf("expected decoded string %q, got %q", wantStr, got)
	}
}

func TestLexerUnterminatedStringIsError(t *testing.T) {
	diags := scanErr(t, `"unterminated`)

	if len(diags) == 0 || diags[0].Code != diag.UnterminatedStr {
		t.Fatalf("expected UnterminatedStr, got %v", diags)
	}
}

func TestLexerInvalidEscapeSequence(t *testing.T) {
	diags := scanErr(t, `"bad\qescape"`)

	found := false
	for _, d := range diags {
		if d.Code == diag.InvalidEscSeq {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected InvalidEscSeq, got %v", diags)
	}
}

func TestLexerLineComment(t *testing.T) {
	res := scanOK(t, "let x // a trailing comment\n")
	want(token.KwLet, token.Identifier, token.Newline, token.Eof).assert(t, res.Tokens)
}

func TestLexerBlockCommentNesting(t *testing.T) {
	res := scanOK(t, "let /* outer /* inner */ still outer */ x")
	want(token.KwLet, token.Identifier, token.Eof).assert(t, res.Tokens)
}

func TestLexerUnclosedBlockCommentIsError(t *testing.T) {
	diags := scanErr(t, "/* never closed")

	if len(diags) == 0 || diags[0].Code != diag.UnclosedComment {
		t.Fatalf("expected UnclosedComment, got %v", diags)
	}
}

func TestLexerGroupingSuppressesNewlineAndIndent(t *testing.T) {
	res := scanOK(t, "(1,\n  2)")
	want(token.LParen, token.IntLiteral, token.Comma, token.IntLiteral, token.RParen, token.Eof).assert(t, res.Tokens)
}

func TestLexerUnclosedGroupingAtEofIsError(t *testing.T) {
	diags := scanErr(t, "(1, 2")

	if len(diags) == 0 || diags[0].Code != diag.UnclosedGrouping {
		t.Fatalf("expected UnclosedGrouping, got %v", diags)
	}
}

func TestLexerUnmatchedClosingGroupingIsError(t *testing.T) {
	diags := scanErr(t, ")")

	if len(diags) == 0 || diags[0].Code != diag.UnclosedGrouping {
		t.Fatalf("expected UnclosedGrouping, got %v", diags)
	}
}

func TestLexerSimpleIndentAfterColon(t *testing.T) {
	res := scanOK(t, "func f:\n  pass\n")
	want(
		token.KwFunc, token.Identifier, token.Colon, token.Newline,
		token.Indent, token.KwPass, token.Newline,
		token.Dedent, token.Eof,
	).assert(t, res.Tokens)
}

func TestLexerDedentBackToZero(t *testing.T) {
	res := scanOK(t, "func f:\n  pass\nprint 1\n")
	want(
		token.KwFunc, token.Identifier, token.Colon, token.Newline,
		token.Indent, token.KwPass, token.Newline,
		token.Dedent, token.KwPrint, token.IntLiteral, token.Newline,
		token.Eof,
	).assert(t, res.Tokens)
}

func TestLexerNestedIndentLevels(t *testing.T) {
	res := scanOK(t, "func f:\n  if x:\n    pass\n  pass\n")
	want(
		token.KwFunc, token.Identifier, token.Colon, token.Newline,
		token.Indent,
		token.KwIf, token.Identifier, token.Colon, token.Newline,
		token.Indent, token.KwPass, token.Newline,
		token.Dedent,
		token.KwPass, token.Newline,
		token.Dedent, token.Eof,
	).assert(t, res.Tokens)
}

func TestLexerBlankAndCommentOnlyLinesDoNotAffectIndentation(t *testing.T) {
	res := scanOK(t, "func f:\n  pass\n\n  // a comment\n  pass\n")
	want(
		token.KwFunc, token.Identifier, token.Colon, token.Newline,
		token.Indent,
		token.KwPass, token.Newline,
		token.Newline, // blank line
		token.Newline, // comment-only line
		token.KwPass, token.Newline,
		token.Dedent, token.Eof,
	).assert(t, res.Tokens)
}

func TestLexerMixedTabsAndSpacesIsError(t *testing.T) {
	diags := scanErr(t, "func f:\n\t pass\n")

	found := false
	for _, d := range diags {
		if d.Code == diag.MixedLeftSpacing {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MixedLeftSpacing, got %v", diags)
	}
}

func TestLexerInconsistentIndentCharacterIsError(t *testing.T) {
	diags := scanErr(t, "func f:\n  pass\nfunc g:\n\tpass\n")

	found := false
	for _, d := range diags {
		if d.Code == diag.InconsistentLeftSpacing {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected InconsistentLeftSpacing, got %v", diags)
	}
}

func TestLexerUnexpectedIndentWithoutColonIsError(t *testing.T) {
	diags := scanErr(t, "pass\n  pass\n")

	found := false
	for _, d := range diags {
		if d.Code == diag.MalformedIndent {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MalformedIndent, got %v", diags)
	}
}

func TestLexerDedentToUnknownLevelIsError(t *testing.T) {
	diags := scanErr(t, "func f:\n    pass\n  pass\n")

	found := false
	for _, d := range diags {
		if d.Code == diag.MalformedIndent {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MalformedIndent, got %v", diags)
	}
}

func TestLexerReplPausesOnOpenGrouping(t *testing.T) {
	file := source.New("repl.nico", "(1, 2")
	log := diag.NewLog()
	res := Scan(file, true, log)

	if res.Status != StatusPause {
		t.Fatalf("expected StatusPause for open grouping in REPL mode, got %v", res.Status)
	}
}

func TestLexerReplPausesOnUnterminatedString(t *testing.T) {
	file := source.New("repl.nico", `"still going`)
	log := diag.NewLog()
	res := Scan(file, true, log)

	if res.Status != StatusPause {
		t.Fatalf("expected StatusPause for unterminated string in REPL mode, got %v", res.Status)
	}
}

func TestLexerReplPausesOnUnclosedBlockComment(t *testing.T) {
	file := source.New("repl.nico", "/* still going")
	log := diag.NewLog()
	res := Scan(file, true, log)

	if res.Status != StatusPause {
		t.Fatalf("expected StatusPause for unclosed block comment in REPL mode, got %v", res.Status)
	}
}

func TestLexerAllOperators(t *testing.T) {
	res := scanOK(t, "+ - * / % += -= *= /= %= -> => == != <= >= && || :: = < >")
	want(
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign, token.PercentAssign,
		token.Arrow, token.FatArrow, token.EqualEqual, token.BangEqual, token.LessEqual, token.GreaterEqual,
		token.AmpAmp, token.PipePipe, token.ColonColon, token.Assign, token.Less, token.Greater,
		token.Eof,
	).assert(t, res.Tokens)
}

func TestLexerUnexpectedCharacterIsError(t *testing.T) {
	diags := scanErr(t, "let x = $")

	if len(diags) == 0 || diags[0].Code != diag.UnexpectedChar {
		t.Fatalf("expected UnexpectedChar, got %v", diags)
	}
}

func TestLexerLexemeRoundTrip(t *testing.T) {
	res := scanOK(t, "hello_world")
	if got := res.Tokens[0].Lexeme(); got != "hello_world" {
		t.Errorf("expected lexeme %q, got %q", "hello_world", got)
	}
}

func TestLexerTupleAccessDotDigitDoesNotSwallowIntoNumber(t *testing.T) {
	res := scanOK(t, "t.0")
	want(token.Identifier, token.Dot, token.IntLiteral, token.Eof).assert(t, res.Tokens)
}

func TestLexerExponentWithSign(t *testing.T) {
	res := scanOK(t, "1e-10")
	want(token.FloatLiteral, token.Eof).assert(t, res.Tokens)
}

func scanConfiguredOK(t *testing.T, text string, tabWidth int) Result {
	t.Helper()

	file := source.New("test.nico", text)
	log := diag.NewLog()
	res := ScanConfigured(file, false, log, tabWidth)

	if res.Status == StatusError {
		t.Fatalf("unexpected lexer errors for %q: %v", text, log.Diagnostics())
	}

	return res
}

func TestLexerTabIndentExpandsToConfiguredWidth(t *testing.T) {
	res := scanConfiguredOK(t, "func f:\n\tpass\n", 4)
	want(
		token.KwFunc, token.Identifier, token.Colon, token.Newline,
		token.Indent, token.KwPass, token.Newline,
		token.Dedent, token.Eof,
	).assert(t, res.Tokens)
}

func TestLexerIndentNotMultipleOfEstablishedUnitIsError(t *testing.T) {
	diags := scanErr(t, "func f:\n  if x:\n     pass\n")

	found := false
	for _, d := range diags {
		if d.Code == diag.MalformedIndent {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MalformedIndent, got %v", diags)
	}
}

func TestLexerTabAndSpaceSiblingLevelsCompareEqualUnderTabWidth(t *testing.T) {
	res := scanConfiguredOK(t, "func f:\n\tif x:\n    pass\n\tpass\n", 4)
	want(
		token.KwFunc, token.Identifier, token.Colon, token.Newline,
		token.Indent,
		token.KwIf, token.Identifier, token.Colon, token.Newline,
		token.Indent, token.KwPass, token.Newline,
		token.Dedent,
		token.KwPass, token.Newline,
		token.Dedent, token.Eof,
	).assert(t, res.Tokens)
}
