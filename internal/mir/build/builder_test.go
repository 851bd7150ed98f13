package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brian-m/nico/internal/checker"
	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/lexer"
	"github.com/brian-m/nico/internal/mir"
	"github.com/brian-m/nico/internal/parser"
	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/symbols"
)

// buildModule lexes, parses, checks, and lowers text, failing the test on
// any diagnostic along the way.
func buildModule(t *testing.T, text string) *mir.Module {
	t.Helper()

	file := source.New("test.nico", text)
	log := diag.NewLog()

	lexRes := lexer.Scan(file, false, log)
	require.NotEqual(t, lexer.StatusError, lexRes.Status, "lexer errors: %v", log.Diagnostics())

	parseRes := parser.Parse(lexRes.Tokens, false, log)
	require.Equal(t, parser.StatusOK, parseRes.Status, "parser errors: %v", log.Diagnostics())

	tree := symbols.NewTree()
	checker.NewGlobal(tree, log).Check(parseRes.Stmts)
	checker.NewLocal(tree, log).Check(parseRes.Stmts)
	require.False(t, log.HasErrors(), "checker errors for %q: %v", text, log.Diagnostics())

	module := mir.NewModule()
	NewBuilder(module).Build(parseRes.Stmts)

	return module
}

// lastBlock returns fn's final basic block.
func lastBlock(fn *mir.Function) *mir.BasicBlock {
	return fn.Blocks[len(fn.Blocks)-1]
}

func TestBuildLetAllocatesAndStores(t *testing.T) {
	module := buildModule(t, "let x: i32 = 1\n")

	entry := module.Script.Blocks[0]
	require.Len(t, entry.Instructions, 2)

	alloca, ok := entry.Instructions[0].(*mir.Alloca)
	require.True(t, ok, "expected first instruction to be Alloca, got %T", entry.Instructions[0])
	assert.Equal(t, "x", alloca.Variable.Name)

	store, ok := entry.Instructions[1].(*mir.Store)
	require.True(t, ok, "expected second instruction to be Store, got %T", entry.Instructions[1])

	addr, ok := store.Dest.(*mir.StorageAddr)
	require.True(t, ok, "expected Store.Dest to be a StorageAddr, got %T", store.Dest)
	assert.Equal(t, alloca.Variable, addr.Of)
	assert.True(t, store.Dest.Type().IsPointerLike(), "expected Store.Dest to have pointer type")
}

func TestBuildStoreDestAndLoadSourceAreAlwaysPointerTyped(t *testing.T) {
	module := buildModule(t, "let x: i32 = 1\nx\n")

	for _, instr := range module.Script.Blocks[0].Instructions {
		switch in := instr.(type) {
		case *mir.Store:
			assert.True(t, in.Dest.Type().IsPointerLike(), "Store.Dest %T has non-pointer type", in.Dest)
		case *mir.Load:
			assert.True(t, in.Source.Type().IsPointerLike(), "Load.Source %T has non-pointer type", in.Source)
		}
	}
}

func TestBuildBinaryExpr(t *testing.T) {
	module := buildModule(t, "1 + 2\n")

	entry := module.Script.Blocks[0]

	var found *mir.Binary

	for _, instr := range entry.Instructions {
		if b, ok := instr.(*mir.Binary); ok {
			found = b
		}
	}

	require.NotNil(t, found, "expected a Binary instruction among %v", entry.Instructions)
	assert.Equal(t, mir.BinAdd, found.Op)
}

func TestBuildFunctionCreatesEntryAndExit(t *testing.T) {
	module := buildModule(t, "func double(x: i32) -> i32 => x * 2\n")

	require.Len(t, module.Functions, 1)

	fn := module.Functions[0]
	assert.Equal(t, "double", fn.Name)
	require.GreaterOrEqual(t, len(fn.Blocks), 2)
	assert.Equal(t, "entry", fn.Blocks[0].Name)

	exit := lastBlock(fn)
	ret, ok := exit.Terminator.(*mir.Return)
	require.True(t, ok, "expected exit block to terminate with Return, got %T", exit.Terminator)
	assert.NotNil(t, ret.Value)
}

func TestBuildFunctionCallResolvesTarget(t *testing.T) {
	module := buildModule(t, "func double(x: i32) -> i32 => x * 2\ndouble(3)\n")

	entry := module.Script.Blocks[0]

	var call *mir.Call

	for _, instr := range entry.Instructions {
		if c, ok := instr.(*mir.Call); ok {
			call = c
		}
	}

	require.NotNil(t, call, "expected a Call instruction")
	require.NotNil(t, call.Target, "expected Call.Target to be resolved")
	assert.Equal(t, "double", call.Target.Name)
}

func TestBuildRecursiveCallResolvesTarget(t *testing.T) {
	module := buildModule(t, "func fact(n: i32) -> i32 => if n < 2 then yield 1 else yield n * fact(n - 1)\n")

	require.Len(t, module.Functions, 1)

	fn := module.Functions[0]

	var found bool

	for _, blk := range fn.Blocks {
		for _, instr := range blk.Instructions {
			if c, ok := instr.(*mir.Call); ok {
				require.NotNil(t, c.Target, "expected recursive call's Target to be resolved")
				assert.Equal(t, fn, c.Target)
				found = true
			}
		}
	}

	assert.True(t, found, "expected to find the recursive call instruction")
}

func TestBuildConditionalMergesThroughPhi(t *testing.T) {
	module := buildModule(t, "if true then yield 1 else yield 2\n")

	var branches int

	for _, blk := range module.Script.Blocks {
		if _, ok := blk.Terminator.(*mir.Branch); ok {
			branches++
		}
	}

	assert.Equal(t, 1, branches)

	var merge *mir.BasicBlock
	for _, blk := range module.Script.Blocks {
		if blk.Name == "if_merge" {
			merge = blk
		}
	}

	require.NotNil(t, merge, "expected an if_merge block")

	var phi *mir.Phi
	for _, instr := range merge.Instructions {
		if p, ok := instr.(*mir.Phi); ok {
			phi = p
		}
	}

	require.NotNil(t, phi, "expected merge block to contain a Phi, got %v", merge.Instructions)
	assert.Len(t, phi.Incoming, 2)
}

func TestBuildLogicalMergesThroughPhi(t *testing.T) {
	module := buildModule(t, "true and false\n")

	var phi *mir.Phi

	for _, blk := range module.Script.Blocks {
		for _, instr := range blk.Instructions {
			if p, ok := instr.(*mir.Phi); ok {
				phi = p
			}
		}
	}

	require.NotNil(t, phi, "expected a Phi among %v", module.Script.Blocks)
	assert.Len(t, phi.Incoming, 2)
}

func TestBuildLoopHasCondBodyMergeBlocks(t *testing.T) {
	module := buildModule(t, "while true do pass\n")

	assert.GreaterOrEqual(t, len(module.Script.Blocks), 3)
}

func TestBuildShortCircuitLogicalBranches(t *testing.T) {
	module := buildModule(t, "true and false\n")

	var branches int

	for _, blk := range module.Script.Blocks {
		if _, ok := blk.Terminator.(*mir.Branch); ok {
			branches++
		}
	}

	assert.GreaterOrEqual(t, branches, 1)
}

func TestBuildEveryNonExitBlockTerminated(t *testing.T) {
	module := buildModule(t, "func f(x: i32) -> i32 => if x < 0 then yield 0 - x else yield x\nf(1)\nwhile f(1) > 0 do pass\n")

	for _, blk := range module.Script.Blocks {
		assert.True(t, blk.Terminated(), "block %q is not terminated", blk.Name)
	}

	for _, fn := range module.Functions {
		for _, blk := range fn.Blocks {
			assert.True(t, blk.Terminated(), "function %s block %q is not terminated", fn.Name, blk.Name)
		}
	}
}

func TestBuildReturnJumpsToExit(t *testing.T) {
	module := buildModule(t, "func f(x: i32) -> i32:\n  return x\n")

	require.Len(t, module.Functions, 1)

	fn := module.Functions[0]
	var exit *mir.BasicBlock
	for _, blk := range fn.Blocks {
		if blk.Name == "exit" {
			exit = blk
		}
	}

	require.NotNil(t, exit, "expected an exit block")
	_, ok := exit.Terminator.(*mir.Return)
	assert.True(t, ok)
}
