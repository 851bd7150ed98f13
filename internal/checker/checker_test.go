package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brian-m/nico/internal/ast"
	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/lexer"
	"github.com/brian-m/nico/internal/parser"
	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/symbols"
)

// checkOK lexes, parses, and runs both checker passes over text, failing
// the test if anything logs an error.
func checkOK(t *testing.T, text string) ([]*ast.Stmt, *symbols.Tree) {
	t.Helper()

	stmts, tree, log := check(t, text)
	require.False(t, log.HasErrors(), "unexpected diagnostics for %q: %v", text, log.Diagnostics())

	return stmts, tree
}

// checkErr lexes, parses, and runs both checker passes over text, asserting
// at least one error-severity diagnostic was logged, and returns them.
func checkErr(t *testing.T, text string) []diag.Diagnostic {
	t.Helper()

	_, _, log := check(t, text)
	require.True(t, log.HasErrors(), "expected diagnostics for %q, got none", text)

	return log.Diagnostics()
}

func check(t *testing.T, text string) ([]*ast.Stmt, *symbols.Tree, *diag.Log) {
	t.Helper()

	file := source.New("test.nico", text)
	log := diag.NewLog()

	lexRes := lexer.Scan(file, false, log)
	require.NotEqual(t, lexer.StatusError, lexRes.Status, "lexer errors for %q: %v", text, log.Diagnostics())

	parseRes := parser.Parse(lexRes.Tokens, false, log)
	require.Equal(t, parser.StatusOK, parseRes.Status, "parser errors for %q: %v", text, log.Diagnostics())

	tree := symbols.NewTree()
	NewGlobal(tree, log).Check(parseRes.Stmts)
	NewLocal(tree, log).Check(parseRes.Stmts)

	return parseRes.Stmts, tree, log
}

func TestGlobalDeclaresFunctionSignature(t *testing.T) {
	_, tree := checkOK(t, "func double(x: i32) -> i32 => x * 2\n")

	fn, ok := tree.Root().Child("double")
	require.True(t, ok, "expected double to be declared at root scope")
	require.Equal(t, symbols.KindFunctionDecl, fn.Kind())
}

func TestGlobalDuplicateNameConflict(t *testing.T) {
	diags := checkErr(t, "let x: i32 = 1\nlet x: i32 = 2\n")

	assert.Condition(t, func() bool {
		for _, d := range diags {
			if d.Code == diag.NameAlreadyExists {
				return true
			}
		}

		return false
	}, "expected NameAlreadyExists among %v", diags)
}

func TestGlobalOverloadsDoNotConflict(t *testing.T) {
	checkOK(t, "func f(x: i32) -> i32 => x\nfunc f(x: f64) -> f64 => x\n")
}

func TestGlobalOverloadConflictSameSignature(t *testing.T) {
	diags := checkErr(t, "func f(x: i32) -> i32 => x\nfunc f(x: i32) -> i32 => x\n")

	assert.Condition(t, func() bool {
		for _, d := range diags {
			if d.Code == diag.FunctionOverloadConflict {
				return true
			}
		}

		return false
	}, "expected FunctionOverloadConflict among %v", diags)
}

func TestGlobalOverloadConflictSkipsBodyCheck(t *testing.T) {
	diags := checkErr(t, "func f(x: i32) -> i32 => x\nfunc f(x: i32) -> i32:\n  return \"oops\"\n")

	var sawConflict, sawMismatch bool

	for _, d := range diags {
		switch d.Code {
		case diag.FunctionOverloadConflict:
			sawConflict = true
		case diag.FunctionReturnTypeMismatch:
			sawMismatch = true
		}
	}

	assert.True(t, sawConflict, "expected FunctionOverloadConflict among %v", diags)
	assert.False(t, sawMismatch, "conflicting overload's body should not be checked, got %v", diags)
}

func TestLocalUndeclaredName(t *testing.T) {
	diags := checkErr(t, "x\n")

	assert.Equal(t, diag.UndeclaredName, diags[0].Code)
}

func TestLocalAssignToImmutable(t *testing.T) {
	diags := checkErr(t, "let x: i32 = 1\nx = 2\n")

	assert.Condition(t, func() bool {
		for _, d := range diags {
			if d.Code == diag.AssignToImmutable {
				return true
			}
		}

		return false
	}, "expected AssignToImmutable among %v", diags)
}

func TestLocalMutableAssignOK(t *testing.T) {
	checkOK(t, "let var x: i32 = 1\nx = 2\n")
}

func TestLocalLetTypeMismatch(t *testing.T) {
	diags := checkErr(t, "let x: i32 = 1.0\n")

	assert.Equal(t, diag.LetTypeMismatch, diags[0].Code)
}

func TestLocalReturnOutsideFunction(t *testing.T) {
	diags := checkErr(t, "return 1\n")

	assert.Equal(t, diag.ReturnOutsideFunction, diags[0].Code)
}

func TestLocalBreakOutsideLoop(t *testing.T) {
	diags := checkErr(t, "break\n")

	assert.Equal(t, diag.BreakOutsideLoop, diags[0].Code)
}

func TestLocalPtrDerefOutsideUnsafeBlock(t *testing.T) {
	diags := checkErr(t, "let p: *i32\n*p\n")

	assert.Condition(t, func() bool {
		for _, d := range diags {
			if d.Code == diag.PtrDerefOutsideUnsafeBlock {
				return true
			}
		}

		return false
	}, "expected PtrDerefOutsideUnsafeBlock among %v", diags)
}

func TestLocalPtrDerefInsideUnsafeBlockOK(t *testing.T) {
	checkOK(t, "let p: *i32\nunsafe block:\n  *p\n")
}

func TestLocalConditionNotBool(t *testing.T) {
	diags := checkErr(t, "if 1 then 1 else 2\n")

	assert.Condition(t, func() bool {
		for _, d := range diags {
			if d.Code == diag.ConditionNotBool {
				return true
			}
		}

		return false
	}, "expected ConditionNotBool among %v", diags)
}

func TestLocalAddressOfNonLvalueIsError(t *testing.T) {
	diags := checkErr(t, "&(1 + 2)\n")

	assert.Condition(t, func() bool {
		for _, d := range diags {
			if d.Code == diag.NotAPossibleLValue {
				return true
			}
		}

		return false
	}, "expected NotAPossibleLValue among %v", diags)
}

func TestLocalAddressOfImmutableNameOK(t *testing.T) {
	checkOK(t, "let x: i32 = 1\n&x\n")
}

func TestLocalMutableAddressOfImmutableNameIsError(t *testing.T) {
	diags := checkErr(t, "let x: i32 = 1\n&var x\n")

	assert.Condition(t, func() bool {
		for _, d := range diags {
			if d.Code == diag.AddressOfImmutable {
				return true
			}
		}

		return false
	}, "expected AddressOfImmutable among %v", diags)
}

func TestLocalFunctionCallResolvesOverload(t *testing.T) {
	stmts, _ := checkOK(t, "func f(x: i32) -> i32 => x\nfunc f(x: f64) -> f64 => x\nf(1)\nf(1.0)\n")
	require.NotEmpty(t, stmts)
}
