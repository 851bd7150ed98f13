package parser

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/brian-m/nico/internal/ast"
	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/lexer"
	"github.com/brian-m/nico/internal/source"
)

// parseOK lexes and parses text, failing the test on any diagnostic.
func parseOK(t *testing.T, text string) []*ast.Stmt {
	t.Helper()

	file := source.New("test.nico", text)
	log := diag.NewLog()

	lexRes := lexer.Scan(file, false, log)
	if lexRes.Status == lexer.StatusError {
		t.Fatalf("unexpected lexer errors for %q: %v", text, log.Diagnostics())
	}

	parseRes := Parse(lexRes.Tokens, false, log)
	if parseRes.Status != StatusOK {
		t.Fatalf("unexpected parser errors for %q: %v", text, log.Diagnostics())
	}

	return parseRes.Stmts
}

// parseErr lexes and parses text, asserting the parser logs at least one
// error.
func parseErr(t *testing.T, text string) []diag.Diagnostic {
	t.Helper()

	file := source.New("test.nico", text)
	log := diag.NewLog()

	lexRes := lexer.Scan(file, false, log)
	parseRes := Parse(lexRes.Tokens, false, log)

	if parseRes.Status != StatusError {
		t.Fatalf("expected parser error for %q, got status %v", text, parseRes.Status)
	}

	return log.Diagnostics()
}

// assertPrint renders the parsed statements and diffs against want,
// grounded on the round-trip-law intent in print.go's package doc (spec
// §8: "re-printing the parsed AST ... yields an equivalent AST").
func assertPrint(t *testing.T, text, want string) {
	t.Helper()

	stmts := parseOK(t, text)
	got := ast.PrintAll(stmts[:len(stmts)-1]) // drop the trailing synthetic Eof stmt

	if got != want {
		diffTxt, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(want),
			B:        difflib.SplitLines(got),
			FromFile: "want",
			ToFile:   "got",
			Context:  2,
		})
		t.Fatalf("print mismatch for %q:\n%s", text, diffTxt)
	}
}

func TestParserEmptyInputIsJustEof(t *testing.T) {
	stmts := parseOK(t, "")
	if len(stmts) != 1 {
		t.Fatalf("expected exactly one Eof statement, got %d", len(stmts))
	}

	if _, ok := stmts[0].Data.(*ast.Eof); !ok {
		t.Fatalf("expected an Eof statement, got %T", stmts[0].Data)
	}
}

func TestParserLetWithTypeAndInit(t *testing.T) {
	assertPrint(t, "let x: i32 = 1\n", "(let x (type i32) (lit 1))")
}

func TestParserLetVarNoInit(t *testing.T) {
	assertPrint(t, "let var x: i32\n", "(let var x (type i32))")
}

func TestParserLetWithoutTypeOrValueIsAnError(t *testing.T) {
	diags := parseErr(t, "let x\n")

	found := false

	for _, d := range diags {
		if d.Code == diag.LetWithoutTypeOrValue {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected LetWithoutTypeOrValue, got %v", diags)
	}
}

func TestParserAdditiveMultiplicativePrecedence(t *testing.T) {
	assertPrint(t, "a + b * c\n", "(expr (binary + (name a) (binary * (name b) (name c))))")
}

func TestParserComparisonBindsLooserThanAdditive(t *testing.T) {
	assertPrint(t, "a + b < c\n", "(expr (binary < (binary + (name a) (name b)) (name c)))")
}

func TestParserAssignmentIsRightAssociative(t *testing.T) {
	assertPrint(t, "a = b = c\n", "(expr (assign (name a) (assign (name b) (name c))))")
}

func TestParserNotBindsLooserThanEqualityButTighterThanAnd(t *testing.T) {
	assertPrint(t, "not a == b\n", "(expr (unary ! (binary == (name a) (name b))))")
}

func TestParserBangBindsTighterThanEquality(t *testing.T) {
	assertPrint(t, "!a == b\n", "(expr (binary == (unary ! (name a)) (name b)))")
}

func TestParserOrAndNotPrecedenceChain(t *testing.T) {
	assertPrint(t, "a or b and not c\n", "(expr (logical or (name a) (logical and (name b) (unary ! (name c)))))")
}

func TestParserUnaryMinusOnSignedLiteral(t *testing.T) {
	assertPrint(t, "-1i32\n", "(expr (unary - (lit 1i32)))")
}

func TestParserNegativeOnUnsignedIntegerIsAnError(t *testing.T) {
	diags := parseErr(t, "-1u32\n")

	found := false

	for _, d := range diags {
		if d.Code == diag.NegativeOnUnsignedInteger {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected NegativeOnUnsignedInteger, got %v", diags)
	}
}

func TestParserDivAndModRecordDivisor(t *testing.T) {
	stmts := parseOK(t, "a / b\n")

	exprStmt := stmts[0].Data.(*ast.ExprStmt)

	bin, ok := exprStmt.Expr.Data.(*ast.Binary)
	if !ok {
		t.Fatalf("expected a Binary expression, got %T", exprStmt.Expr.Data)
	}

	if !bin.RecordsDivisor {
		t.Fatalf("expected RecordsDivisor to be true for '/'")
	}
}

func TestParserCastChainsAsAndTransmute(t *testing.T) {
	assertPrint(t, "x as i64 transmute u64\n", "(expr (cast transmute (cast as (name x) (type i64)) (type u64)))")
}

func TestParserSizeofTakesATypeDirectly(t *testing.T) {
	assertPrint(t, "sizeof i32\n", "(expr (sizeof))")
}

func TestParserTupleIndexAccess(t *testing.T) {
	assertPrint(t, "t.0\n", "(expr (access (name t) 0))")
}

func TestParserFieldAccess(t *testing.T) {
	assertPrint(t, "p.x\n", "(expr (access (name p) x))")
}

func TestParserCallWithPositionalThenNamedArgs(t *testing.T) {
	assertPrint(t, "f(1, y=2)\n", "(expr (call (name f) (lit 1) y=(lit 2)))")
}

func TestParserPositionalArgumentAfterNamedIsAnError(t *testing.T) {
	diags := parseErr(t, "f(y=2, 1)\n")

	found := false

	for _, d := range diags {
		if d.Code == diag.PosArgumentAfterNamedArgument {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected PosArgumentAfterNamedArgument, got %v", diags)
	}
}

func TestParserFuncWithArrowBody(t *testing.T) {
	assertPrint(t, "func double(x) => x * 2\n", "(func double x (binary * (name x) (lit 2)))")
}

func TestParserFuncWithIndentedBlockBody(t *testing.T) {
	assertPrint(t, "func f(x):\n  pass\n", "(func f x (block (pass)))")
}

func TestParserIfThenElse(t *testing.T) {
	assertPrint(t, "if a then 1 else 2\n",
		"(expr (if (name a) (block (expr (lit 1))) (block (expr (lit 2)))))")
}

func TestParserIfColonIndentedSuite(t *testing.T) {
	assertPrint(t, "if a:\n  pass\nelse:\n  pass\n",
		"(expr (if (name a) (block (pass)) (block (pass))))")
}

func TestParserWhileDo(t *testing.T) {
	assertPrint(t, "while a do pass\n", "(expr (loop (name a) (block (pass))))")
}

func TestParserInfiniteLoopColonSuite(t *testing.T) {
	assertPrint(t, "loop:\n  pass\n", "(expr (loop (block (pass))))")
}

func TestParserDoWhile(t *testing.T) {
	assertPrint(t, "do pass while a\n", "(expr (loop (name a) (block (pass))))")
}

func TestParserLabelledLoopAndBreak(t *testing.T) {
	assertPrint(t, "outer: loop:\n  break :outer 1\n",
		"(expr (loop (block :outer (break :outer (lit 1)))))")
}

func TestParserLabelledInlineWhileDoAndBreak(t *testing.T) {
	assertPrint(t, "outer: while a do break :outer 1\n",
		"(expr (loop (name a) (block :outer (break :outer (lit 1)))))")
}

func TestParserBraceBlockUsesSemicolonSeparators(t *testing.T) {
	assertPrint(t, "{ let x: i32 = 1; x }\n", "(expr (block (let x (type i32) (lit 1)) (expr (name x))))")
}

func TestParserStructDeclWithFieldsAndMethod(t *testing.T) {
	assertPrint(t, "struct Point:\n  x: i32\n  y: i32\n  func sum(self) => self.x\n",
		"(struct Point x y (func sum self (expr (access (name self) x))))")
}

func TestParserNamespaceDecl(t *testing.T) {
	assertPrint(t, "namespace geo:\n  let x: i32 = 1\n", "(namespace geo (let x (type i32) (lit 1)))")
}

func TestParserEnumDeclWithPayload(t *testing.T) {
	assertPrint(t, "enum Shape:\n  Circle(f64)\n  Empty\n", "(enum Shape Circle Empty)")
}

func TestParserPointerAndReferenceAnnotations(t *testing.T) {
	assertPrint(t, "let x: *var i32\n", "(let x (ptr-var (type i32)))")
	assertPrint(t, "let y: &i32\n", "(let y (ref (type i32)))")
}

func TestParserArrayAnnotationWithAndWithoutSize(t *testing.T) {
	assertPrint(t, "let a: [i32]\n", "(let a (array-type (type i32)))")
	assertPrint(t, "let b: [i32; 4]\n", "(let b (array-type (type i32) (lit 4)))")
}

func TestParserGenericNameInAnnotationContext(t *testing.T) {
	assertPrint(t, "let p: geo::Point<i32>\n", "(let p (type geo::Point))")
}

func TestParserTypeofAnnotation(t *testing.T) {
	assertPrint(t, "let x: typeof(y)\n", "(let x (typeof (name y)))")
}

func TestParserTupleAndArrayLiterals(t *testing.T) {
	assertPrint(t, "(1, 2)\n", "(expr (tuple (lit 1) (lit 2)))")
	assertPrint(t, "[1, 2]\n", "(expr (array (lit 1) (lit 2)))")
}

func TestParserParenGroupingIsNotATuple(t *testing.T) {
	assertPrint(t, "(1)\n", "(expr (lit 1))")
}

func TestParserAllocWithSize(t *testing.T) {
	assertPrint(t, "alloc i32[10]\n", "(expr (alloc (lit 10)))")
}

func TestParserAddressOfAndDeref(t *testing.T) {
	assertPrint(t, "&var x\n", "(expr (address-var (name x)))")
	assertPrint(t, "*p\n", "(expr (deref (name p)))")
}

func TestParserYieldFromLabelledBlock(t *testing.T) {
	assertPrint(t, "outer: block:\n  yield :outer 1\n",
		"(expr (block :outer (yield :outer (lit 1))))")
}

func TestParserUnterminatedParenPausesInReplMode(t *testing.T) {
	file := source.New("test.nico", "f(1,")
	log := diag.NewLog()

	lexRes := lexer.Scan(file, true, log)
	parseRes := Parse(lexRes.Tokens, true, log)

	if parseRes.Status != StatusPause {
		t.Fatalf("expected StatusPause for an unterminated call in REPL mode, got %v", parseRes.Status)
	}
}
