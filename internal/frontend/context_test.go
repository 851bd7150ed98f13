package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitOKAdvancesCursor(t *testing.T) {
	ctx := NewContext("test.nico", false)

	ctx.Submit("let x: i32 = 1\n")

	assert.Equal(t, StatusOK, ctx.Status)
	assert.False(t, ctx.Log.HasErrors())
	// The parser ends every submission with an Eof statement.
	assert.Equal(t, 2, ctx.StmtsChecked)
	require.Len(t, ctx.Stmts, 2)
	require.Len(t, ctx.Module.Script.Blocks[0].Instructions, 2)
}

func TestSubmitErrorDoesNotAdvanceCursor(t *testing.T) {
	ctx := NewContext("test.nico", false)

	ctx.Submit("x\n")

	assert.Equal(t, StatusError, ctx.Status)
	assert.True(t, ctx.Log.HasErrors())
	assert.Equal(t, 0, ctx.StmtsChecked)
}

func TestSubmitAccumulatesAcrossCalls(t *testing.T) {
	ctx := NewContext("test.nico", false)

	ctx.Submit("let x: i32 = 1\n")
	ctx.Submit("let y: i32 = 2\n")

	assert.Equal(t, StatusOK, ctx.Status)
	// Two statements, each followed by its submission's Eof statement.
	assert.Equal(t, 4, ctx.StmtsChecked)
	require.Len(t, ctx.Stmts, 4)
}

func TestSubmitSecondCallSeesFunctionFromFirst(t *testing.T) {
	ctx := NewContext("test.nico", false)

	ctx.Submit("func double(x: i32) -> i32 => x * 2\n")
	ctx.Submit("double(3)\n")

	assert.Equal(t, StatusOK, ctx.Status)
	require.Len(t, ctx.Module.Functions, 1)
}

func TestPauseKeepsPendingTextForNextSubmit(t *testing.T) {
	ctx := NewContext("<stdin>", true)

	ctx.Submit("func f(x: i32) -> i32 =>")
	assert.Equal(t, StatusPause, ctx.Status)

	ctx.Submit(" x\n")
	assert.Equal(t, StatusOK, ctx.Status)
	require.Len(t, ctx.Module.Functions, 1)
}

func TestResetRestoresInitialState(t *testing.T) {
	ctx := NewContext("test.nico", false)

	ctx.Submit("let x: i32 = 1\n")
	ctx.Reset()

	assert.Equal(t, StatusOK, ctx.Status)
	assert.Equal(t, 0, ctx.Log.Len())
	assert.Empty(t, ctx.Stmts)
	assert.Equal(t, 0, ctx.StmtsChecked)
}

func TestNewDiagnosticsOnlyReportsLatestSubmission(t *testing.T) {
	ctx := NewContext("test.nico", false)

	ctx.Submit("x\n")
	require.Len(t, ctx.NewDiagnostics(), 1)

	ctx.Submit("y\n")
	assert.Len(t, ctx.NewDiagnostics(), 1)
	assert.Len(t, ctx.Log.Diagnostics(), 2)
}

func TestConfigTabWidthAcceptsTabIndentedBlock(t *testing.T) {
	ctx := NewContext("test.nico", false)
	ctx.Config.TabWidth = 4

	ctx.Submit("func f(x: i32) -> i32:\n\treturn x\n")

	assert.Equal(t, StatusOK, ctx.Status)
	assert.False(t, ctx.Log.HasErrors())
}
