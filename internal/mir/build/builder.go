// Package build lowers a checked AST into mir.Module: one mir.Function
// per declared nico function, plus a synthetic "script" function holding
// every top-level statement (so a REPL's successive submissions keep
// appending to the same running sequence of blocks, mirroring the
// original implementation's ControlStack::Script).
package build

import (
	"github.com/brian-m/nico/internal/ast"
	"github.com/brian-m/nico/internal/mir"
	"github.com/brian-m/nico/internal/symbols"
	"github.com/brian-m/nico/internal/types"
)

// frame tracks one enclosing function, loop, or plain block the builder
// is currently lowering into, mirroring the original implementation's
// ControlStack: a Block/Function/Loop chain searched outward for the
// nearest target of return/break/continue/yield.
type frame struct {
	isFunc bool
	isLoop bool
	label  string

	// yieldSlot is the alloca'd storage a yield/break targeting this
	// frame stores into before jumping to exitBlock; nil if this frame's
	// block never yields a value.
	yieldSlot *mir.Variable
	yieldType types.Type

	// exitBlock is where control jumps on yield (plain/loop) or return
	// (func): the block immediately after the block/loop, or the
	// function's single exit block.
	exitBlock *mir.BasicBlock
	// continueBlock is where control jumps on `continue` (loop frames
	// only): the loop's condition-recheck block.
	continueBlock *mir.BasicBlock
}

// Builder lowers checked statements into a mir.Module.
type Builder struct {
	Module *mir.Module

	fn      *mir.Function
	block   *mir.BasicBlock
	frames  []*frame
	vars    map[*symbols.FieldEntry]*mir.Variable
	sigFns  map[*symbols.FunctionSignature]*mir.Function

	// pendingCalls holds Call instructions whose Target couldn't be
	// resolved yet (mutually-recursive/forward calls); patched
	// once every function in this Build batch has been lowered.
	pendingCalls []pendingCall
}

type pendingCall struct {
	sig  *symbols.FunctionSignature
	call *mir.Call
}

// NewBuilder returns a Builder appending into module, starting in its
// script function's entry block.
func NewBuilder(module *mir.Module) *Builder {
	b := &Builder{
		Module:  module,
		vars:   map[*symbols.FieldEntry]*mir.Variable{},
		sigFns: map[*symbols.FunctionSignature]*mir.Function{},
	}

	b.fn = module.Script
	b.block = b.fn.CreateBlock("entry")

	return b
}

// Build lowers every statement in stmts into the current function.
func (b *Builder) Build(stmts []*ast.Stmt) {
	for _, st := range stmts {
		b.buildStmt(st)
	}

	for _, pc := range b.pendingCalls {
		if fn, ok := b.sigFns[pc.sig]; ok {
			pc.call.Target = fn
		}
	}

	b.pendingCalls = nil
}

func (b *Builder) pushFrame(f *frame) { b.frames = append(b.frames, f) }
func (b *Builder) popFrame()          { b.frames = b.frames[:len(b.frames)-1] }

func (b *Builder) findFuncFrame() *frame {
	for i := len(b.frames) - 1; i >= 0; i-- {
		if b.frames[i].isFunc {
			return b.frames[i]
		}
	}

	return nil
}

func (b *Builder) findBlockFrame(label string) *frame {
	for i := len(b.frames) - 1; i >= 0; i-- {
		if label == "" || b.frames[i].label == label {
			return b.frames[i]
		}
	}

	return nil
}

func (b *Builder) findLoopFrame(label string) *frame {
	for i := len(b.frames) - 1; i >= 0; i-- {
		if b.frames[i].isLoop && (label == "" || b.frames[i].label == label) {
			return b.frames[i]
		}
	}

	return nil
}

func (b *Builder) buildStmt(st *ast.Stmt) {
	switch d := st.Data.(type) {
	case *ast.ExprStmt:
		b.buildExpr(d.Expr, false)
	case *ast.Let:
		b.buildLet(d)
	case *ast.Func:
		b.buildFunc(d)
	case *ast.Print:
		for _, a := range d.Args {
			b.buildExpr(a, false)
		}
	case *ast.Pass, *ast.Eof:
		// no-op
	case *ast.Return:
		b.buildReturn(d)
	case *ast.Break:
		b.buildBreak(d)
	case *ast.Continue:
		b.buildContinue(d)
	case *ast.Yield:
		b.buildYield(d)
	case *ast.Dealloc:
		b.buildExpr(d.Target, false)
	case *ast.NamespaceDecl:
		for _, inner := range d.Body {
			b.buildStmt(inner)
		}
	case *ast.StructDecl:
		for _, inner := range d.Body {
			b.buildStmt(inner)
		}
	case *ast.EnumDecl:
		// Variants carry no runtime code of their own; nothing to lower.
	}
}

func (b *Builder) buildLet(d *ast.Let) {
	if d.Entry == nil {
		return
	}

	v := b.variableOf(d.Entry)

	b.block.AddInstruction(&mir.Alloca{Variable: v, AllocatedType: d.Entry.Type})

	if d.Init != nil {
		val := b.buildExpr(d.Init, false)
		b.block.AddInstruction(&mir.Store{Source: val, Dest: asStorageAddr(v)})
	}
}

// variableOf returns the (creating on first use) mir.Variable backing fe.
func (b *Builder) variableOf(fe *symbols.FieldEntry) *mir.Variable {
	if v, ok := b.vars[fe]; ok {
		return v
	}

	v := &mir.Variable{Typ: fe.Type, Name: fe.NodeName(), Handle: fe.Handle}
	b.vars[fe] = v

	return v
}

// buildFunc lowers a function declaration into its own mir.Function with
// a dedicated entry/exit block pair, then restores the builder's previous
// function/block/frame context.
func (b *Builder) buildFunc(d *ast.Func) {
	if d.Decl == nil || d.SigIndex < 0 || d.SigIndex >= len(d.Decl.Signatures) {
		return
	}

	sig := d.Decl.Signatures[d.SigIndex]

	savedFn, savedBlock, savedFrames := b.fn, b.block, b.frames

	fn := mir.NewFunction(d.NameTok.Lexeme(), sig.Return)
	b.Module.AddFunction(fn)
	b.sigFns[sig] = fn

	b.fn = fn
	b.frames = nil
	entry := fn.CreateBlock("entry")
	exit := fn.CreateBlock("exit")
	b.block = entry

	for i, p := range d.Params {
		if p.Entry == nil {
			continue
		}

		v := b.variableOf(p.Entry)
		fn.Params = append(fn.Params, v)

		b.block.AddInstruction(&mir.Alloca{Variable: v, AllocatedType: v.Typ})

		if i < len(sig.Params) {
			b.block.AddInstruction(&mir.Store{Source: &mir.Variable{Typ: v.Typ, Name: v.Name + ".arg"}, Dest: asStorageAddr(v)})
		}
	}

	var retSlot *mir.Variable

	if !types.Equal(sig.Return, types.Unit) {
		retSlot = &mir.Variable{Typ: sig.Return, Name: "return"}
		b.block.AddInstruction(&mir.Alloca{Variable: retSlot, AllocatedType: sig.Return})
	}

	fr := &frame{isFunc: true, yieldSlot: retSlot, yieldType: sig.Return, exitBlock: exit}
	b.pushFrame(fr)

	if blk, ok := d.Body.Data.(*ast.Block); ok {
		b.buildBlockInto(blk, fr)
	} else {
		val := b.buildExpr(d.Body, false)
		if retSlot != nil {
			b.block.AddInstruction(&mir.Store{Source: val, Dest: asStorageAddr(retSlot)})
		}
	}

	if !b.block.Terminated() {
		b.block.SetJump(exit)
	}

	b.popFrame()

	if retSlot != nil {
		loaded := fn.NewTemp(sig.Return, "ret")
		exit.AddInstruction(&mir.Load{Source: asStorageAddr(retSlot), Dest: loaded})
		fn.ReturnValue = loaded
		exit.SetReturn(loaded)
	} else {
		exit.SetReturn(nil)
	}

	b.fn, b.block, b.frames = savedFn, savedBlock, savedFrames
}

func (b *Builder) buildReturn(d *ast.Return) {
	fr := b.findFuncFrame()
	if fr == nil {
		panic("mir/build: return statement survived checking outside any function")
	}

	if d.Value != nil && fr.yieldSlot != nil {
		val := b.buildExpr(d.Value, false)
		b.block.AddInstruction(&mir.Store{Source: val, Dest: asStorageAddr(fr.yieldSlot)})
	}

	b.block.SetJump(fr.exitBlock)
	b.startUnreachableBlock("after_return")
}

func (b *Builder) buildBreak(d *ast.Break) {
	fr := b.findLoopFrame(d.Label)
	if fr == nil {
		panic("mir/build: break statement survived checking outside any loop")
	}

	if d.Value != nil && fr.yieldSlot != nil {
		val := b.buildExpr(d.Value, false)
		b.block.AddInstruction(&mir.Store{Source: val, Dest: asStorageAddr(fr.yieldSlot)})
	}

	b.block.SetJump(fr.exitBlock)
	b.startUnreachableBlock("after_break")
}

func (b *Builder) buildContinue(d *ast.Continue) {
	fr := b.findLoopFrame(d.Label)
	if fr == nil {
		panic("mir/build: continue statement survived checking outside any loop")
	}

	b.block.SetJump(fr.continueBlock)
	b.startUnreachableBlock("after_continue")
}

func (b *Builder) buildYield(d *ast.Yield) {
	fr := b.findBlockFrame(d.Label)
	if fr == nil {
		panic("mir/build: yield statement survived checking outside any block")
	}

	if d.Value != nil && fr.yieldSlot != nil {
		val := b.buildExpr(d.Value, false)
		b.block.AddInstruction(&mir.Store{Source: val, Dest: asStorageAddr(fr.yieldSlot)})
	}

	b.block.SetJump(fr.exitBlock)
	b.startUnreachableBlock("after_yield")
}

// startUnreachableBlock opens a fresh, disconnected block to keep
// lowering subsequent sibling statements well-formed after an
// unconditional jump (spec's unreachable-statement warning covers the
// source-level diagnostic; the builder just needs somewhere to put any
// trailing instructions so it never appends past a terminator).
func (b *Builder) startUnreachableBlock(label string) {
	b.block = b.fn.CreateBlock(label)
}

// buildBlockInto lowers blk's statements into the current block under
// frame fr (already pushed/configured by the caller, since a function
// body's frame doubles as both the function frame and that body's block
// frame when it's a plain Block).
func (b *Builder) buildBlockInto(blk *ast.Block, fr *frame) {
	for _, st := range blk.Stmts {
		b.buildStmt(st)
	}

	if !b.block.Terminated() {
		b.block.SetJump(fr.exitBlock)
	}
}

// buildBlockExpr lowers a Block expression (plain or loop-body), pushing
// its own frame, and returns the value produced by its yield slot (Unit
// sentinel value if it never yields).
func (b *Builder) buildBlockExpr(e *ast.Expr, label string, isLoop bool, continueBlock *mir.BasicBlock) Value {
	blk := e.Data.(*ast.Block)

	exit := b.fn.CreateBlock("block_exit")

	var slot *mir.Variable

	yieldType := types.Unit
	if e.Type != nil {
		yieldType = *e.Type
	}

	if !types.Equal(yieldType, types.Unit) {
		slot = &mir.Variable{Typ: yieldType, Name: "yield"}
		b.block.AddInstruction(&mir.Alloca{Variable: slot, AllocatedType: yieldType})
	}

	fr := &frame{isLoop: isLoop, label: label, yieldSlot: slot, yieldType: yieldType, exitBlock: exit, continueBlock: continueBlock}
	b.pushFrame(fr)

	b.buildBlockInto(blk, fr)

	b.popFrame()
	b.block = exit

	if slot == nil {
		return unitValue()
	}

	loaded := b.fn.NewTemp(yieldType, "blockval")
	b.block.AddInstruction(&mir.Load{Source: asStorageAddr(slot), Dest: loaded})

	return loaded
}

func unitValue() mir.Value {
	return &mir.Literal{Typ: types.Unit, Value: mir.LiteralValue{}}
}

// asStorageAddr returns v as a pointer-typed value suitable for a Store
// destination or Load source (spec §4.5/§8: "all Store destinations"/
// "every Load's source" have pointer type). A value that's already
// pointer-like (a dereferenced pointer used as an lvalue) passes through
// unchanged; a plain Variable or Temporary naming storage directly (the
// common case: an ordinary let, parameter, or yield/return slot) is
// wrapped in a StorageAddr over its declared type.
func asStorageAddr(v mir.Value) mir.Value {
	if v.Type().IsPointerLike() {
		return v
	}

	return &mir.StorageAddr{Of: v, Typ: types.Pointer(v.Type(), true)}
}

// Value is an alias kept local for readability in this file's signatures.
type Value = mir.Value

// buildExpr lowers e, returning the value it produces. asLvalue requests
// the addressable storage location instead of its loaded contents, for
// expressions valid on the left of an assignment or under address-of
// (spec's mutability rules, already enforced by the checker).
func (b *Builder) buildExpr(e *ast.Expr, asLvalue bool) Value {
	switch d := e.Data.(type) {
	case *ast.Literal:
		return b.buildLiteral(d)
	case *ast.NameRef:
		return b.buildNameRef(d, asLvalue)
	case *ast.Assign:
		return b.buildAssign(d)
	case *ast.Logical:
		return b.buildLogical(e, d)
	case *ast.Binary:
		return b.buildBinary(e, d)
	case *ast.Unary:
		return b.buildUnary(e, d)
	case *ast.Address:
		return b.buildExpr(d.Operand, true)
	case *ast.Deref:
		v := b.buildExpr(d.Operand, false)
		if asLvalue {
			return v
		}

		typ := types.Unit
		if e.Type != nil {
			typ = *e.Type
		}

		dest := b.fn.NewTemp(typ, "deref")
		b.block.AddInstruction(&mir.Load{Source: v, Dest: dest})

		return dest
	case *ast.Cast:
		return b.buildExpr(d.Operand, false)
	case *ast.Access:
		return b.buildExpr(d.Operand, asLvalue)
	case *ast.Subscript:
		return b.buildExpr(d.Operand, asLvalue)
	case *ast.Call:
		return b.buildCall(e, d)
	case *ast.SizeOf:
		return &mir.Literal{Typ: types.Int(false, types.Int64), Value: mir.LiteralValue{Int: 0}}
	case *ast.Alloc:
		typ := types.Unit
		if e.Type != nil {
			typ = *e.Type
		}

		return b.fn.NewTemp(typ, "alloc")
	case *ast.Tuple:
		for _, el := range d.Elems {
			b.buildExpr(el, false)
		}

		typ := types.Unit
		if e.Type != nil {
			typ = *e.Type
		}

		return b.fn.NewTemp(typ, "tuple")
	case *ast.Array:
		for _, el := range d.Elems {
			b.buildExpr(el, false)
		}

		typ := types.Unit
		if e.Type != nil {
			typ = *e.Type
		}

		return b.fn.NewTemp(typ, "array")
	case *ast.Block:
		return b.buildBlockExpr(e, d.Label, d.Kind == ast.BlockLoop, nil)
	case *ast.Conditional:
		return b.buildConditional(e, d)
	case *ast.Loop:
		return b.buildLoop(e, d)
	default:
		return unitValue()
	}
}

func (b *Builder) buildLiteral(d *ast.Literal) Value {
	lit := d.Tok.Literal

	switch d.Kind {
	case ast.LitInt:
		return &mir.Literal{Typ: literalType(d), Value: mir.LiteralValue{Int: lit.IntValue}}
	case ast.LitFloat:
		return &mir.Literal{Typ: literalType(d), Value: mir.LiteralValue{Float: lit.FloatValue}}
	case ast.LitBool:
		return &mir.Literal{Typ: types.Bool, Value: mir.LiteralValue{Bool: lit.BoolValue}}
	case ast.LitString:
		return &mir.Literal{Typ: types.Str, Value: mir.LiteralValue{Str: lit.StrValue}}
	default:
		return &mir.Literal{Typ: types.Nullptr, Value: mir.LiteralValue{IsNull: true}}
	}
}

func literalType(lit *ast.Literal) types.Type {
	payload := lit.Tok.Literal

	switch lit.Kind {
	case ast.LitFloat:
		return types.Float(types.FloatWidth(payload.FloatWidth))
	default:
		return types.Int(payload.Signed, types.IntWidth(payload.IntWidth))
	}
}

func (b *Builder) buildNameRef(d *ast.NameRef, asLvalue bool) Value {
	fe, ok := d.Resolved.(*symbols.FieldEntry)
	if !ok {
		return unitValue()
	}

	v := b.variableOf(fe)
	if asLvalue {
		return v
	}

	dest := b.fn.NewTemp(fe.Type, fe.NodeName())
	b.block.AddInstruction(&mir.Load{Source: asStorageAddr(v), Dest: dest})

	return dest
}

func (b *Builder) buildAssign(d *ast.Assign) Value {
	dest := b.buildExpr(d.Left, true)
	storageDest := asStorageAddr(dest)
	val := b.buildExpr(d.Right, false)

	if d.Op != ast.AssignPlain {
		loaded := b.fn.NewTemp(val.Type(), "cur")
		b.block.AddInstruction(&mir.Load{Source: storageDest, Dest: loaded})

		result := b.fn.NewTemp(val.Type(), "assign")
		b.block.AddInstruction(&mir.Binary{Op: assignOpToBinary(d.Op), Left: loaded, Right: val, Dest: result})
		val = result
	}

	b.block.AddInstruction(&mir.Store{Source: val, Dest: storageDest})

	return val
}

func assignOpToBinary(op ast.AssignOp) mir.BinaryOp {
	switch op {
	case ast.AssignAdd:
		return mir.BinAdd
	case ast.AssignSub:
		return mir.BinSub
	case ast.AssignMul:
		return mir.BinMul
	case ast.AssignDiv:
		return mir.BinDiv
	default:
		return mir.BinMod
	}
}

func (b *Builder) buildBinary(e *ast.Expr, d *ast.Binary) Value {
	left := b.buildExpr(d.Left, false)
	right := b.buildExpr(d.Right, false)

	typ := types.Bool
	if e.Type != nil {
		typ = *e.Type
	}

	dest := b.fn.NewTemp(typ, "bin")
	b.block.AddInstruction(&mir.Binary{Op: binaryOpOf(d.Op), Left: left, Right: right, Dest: dest})

	return dest
}

func binaryOpOf(op ast.BinaryOp) mir.BinaryOp {
	switch op {
	case ast.OpAdd:
		return mir.BinAdd
	case ast.OpSub:
		return mir.BinSub
	case ast.OpMul:
		return mir.BinMul
	case ast.OpDiv:
		return mir.BinDiv
	case ast.OpMod:
		return mir.BinMod
	case ast.OpEq:
		return mir.BinEq
	case ast.OpNeq:
		return mir.BinNeq
	case ast.OpLt:
		return mir.BinLt
	case ast.OpLe:
		return mir.BinLe
	case ast.OpGt:
		return mir.BinGt
	case ast.OpGe:
		return mir.BinGe
	case ast.OpBitOr:
		return mir.BinBitOr
	case ast.OpBitAnd:
		return mir.BinBitAnd
	default:
		return mir.BinBitXor
	}
}

// buildLogical lowers `and`/`or` with real short-circuit control flow
// (spec §4.2), rather than eagerly evaluating both sides as a plain
// Binary would.
// buildLogical lowers a short-circuit and/or into a Branch diamond
// converging on a Phi that selects the short-circuited left value or the
// fully evaluated right operand, depending on which predecessor control
// arrived from.
func (b *Builder) buildLogical(e *ast.Expr, d *ast.Logical) Value {
	left := b.buildExpr(d.Left, false)
	shortCircuitBlock := b.block

	rhsBlock := b.fn.CreateBlock("logical_rhs")
	mergeBlock := b.fn.CreateBlock("logical_merge")

	if d.Op == ast.OpAnd {
		b.block.SetBranch(left, rhsBlock, mergeBlock)
	} else {
		b.block.SetBranch(left, mergeBlock, rhsBlock)
	}

	b.block = rhsBlock
	right := b.buildExpr(d.Right, false)
	rhsEndBlock := b.block
	b.block.SetJump(mergeBlock)

	b.block = mergeBlock

	dest := b.fn.NewTemp(types.Bool, "logical")
	b.block.AddInstruction(&mir.Phi{
		Incoming: []mir.PhiEdge{
			{Block: shortCircuitBlock, Value: left},
			{Block: rhsEndBlock, Value: right},
		},
		Dest: dest,
	})

	return dest
}

func (b *Builder) buildUnary(e *ast.Expr, d *ast.Unary) Value {
	operand := b.buildExpr(d.Operand, false)

	typ := types.Bool
	if e.Type != nil {
		typ = *e.Type
	}

	dest := b.fn.NewTemp(typ, "un")

	op := mir.UnNeg
	if d.Op == ast.OpNot {
		op = mir.UnNot
	}

	b.block.AddInstruction(&mir.Unary{Op: op, Operand: operand, Dest: dest})

	return dest
}

func (b *Builder) buildCall(e *ast.Expr, d *ast.Call) Value {
	args := make([]Value, len(d.Args))
	for i, a := range d.Args {
		args[i] = b.buildExpr(a.Value, false)
	}

	typ := types.Unit
	if e.Type != nil {
		typ = *e.Type
	}

	// d.Resolved is the exact overload the checker's call resolution
	// picked. A directly recursive call resolves at once, since buildFunc
	// registers the function in sigFns before lowering its body. A call
	// that precedes its callee's declaration in this batch (a forward or
	// mutually-recursive call) leaves Target nil until Build backfills it
	// once the whole batch is lowered.
	var target *mir.Function
	if d.Resolved != nil {
		target = b.sigFns[d.Resolved]
	}

	dest := b.fn.NewTemp(typ, "call")
	call := &mir.Call{Target: target, Args: args, Dest: dest}
	b.block.AddInstruction(call)

	if target == nil && d.Resolved != nil {
		b.pendingCalls = append(b.pendingCalls, pendingCall{sig: d.Resolved, call: call})
	}

	return dest
}

// buildConditional lowers an if/elif/else chain into a diamond of
// branches converging on one merge block, gathering each taken arm's
// value into a Phi over the merge block's actual predecessor set — every
// arm that falls through (rather than terminating early via return/break/
// continue) contributes exactly one incoming edge.
func (b *Builder) buildConditional(e *ast.Expr, d *ast.Conditional) Value {
	merge := b.fn.CreateBlock("if_merge")

	typ := types.Unit
	if e.Type != nil {
		typ = *e.Type
	}

	var edges []mir.PhiEdge

	for i := range d.Arms {
		arm := &d.Arms[i]

		var armBlock, nextBlock *mir.BasicBlock

		if arm.Cond != nil {
			cond := b.buildExpr(arm.Cond, false)
			armBlock = b.fn.CreateBlock("if_then")

			if i == len(d.Arms)-1 {
				nextBlock = merge
			} else {
				nextBlock = b.fn.CreateBlock("if_next")
			}

			b.block.SetBranch(cond, armBlock, nextBlock)
			b.block = armBlock
		}

		val := b.buildExpr(arm.Body, false)

		if !b.block.Terminated() {
			edges = append(edges, mir.PhiEdge{Block: b.block, Value: val})
			b.block.SetJump(merge)
		}

		if nextBlock != nil {
			b.block = nextBlock
		}
	}

	if !b.block.Terminated() {
		b.block.SetJump(merge)
	}

	b.block = merge

	if types.Equal(typ, types.Unit) || len(edges) == 0 {
		return unitValue()
	}

	dest := b.fn.NewTemp(typ, "ifval")
	b.block.AddInstruction(&mir.Phi{Incoming: edges, Dest: dest})

	return dest
}

// buildLoop lowers while/do-while/infinite loops to a condition block,
// body block, and merge block, wiring `continue` to jump back to the
// condition recheck (spec §4.5: all loop forms lower the same way).
func (b *Builder) buildLoop(e *ast.Expr, d *ast.Loop) Value {
	cond := b.fn.CreateBlock("loop_cond")
	body := b.fn.CreateBlock("loop_body")
	merge := b.fn.CreateBlock("loop_merge")

	typ := types.Unit
	if e.Type != nil {
		typ = *e.Type
	}

	var slot *mir.Variable
	if !types.Equal(typ, types.Unit) {
		slot = &mir.Variable{Typ: typ, Name: "loop"}
		b.block.AddInstruction(&mir.Alloca{Variable: slot, AllocatedType: typ})
	}

	switch d.Form {
	case ast.LoopDoWhile:
		b.block.SetJump(body)
	default:
		b.block.SetJump(cond)
	}

	if d.Cond != nil {
		b.block = cond
		cv := b.buildExpr(d.Cond, false)
		b.block.SetBranch(cv, body, merge)
	} else {
		cond.SetJump(body)
	}

	b.block = body

	blk := d.Body.Data.(*ast.Block)
	fr := &frame{isLoop: true, label: blk.Label, yieldSlot: slot, yieldType: typ, exitBlock: merge, continueBlock: cond}
	b.pushFrame(fr)
	b.buildBlockInto(blk, fr)
	b.popFrame()

	if !b.block.Terminated() {
		if d.Form == ast.LoopDoWhile && d.Cond != nil {
			cv := b.buildExpr(d.Cond, false)
			b.block.SetBranch(cv, body, merge)
		} else {
			b.block.SetJump(cond)
		}
	}

	b.block = merge

	if slot == nil {
		return unitValue()
	}

	dest := b.fn.NewTemp(typ, "loopval")
	b.block.AddInstruction(&mir.Load{Source: asStorageAddr(slot), Dest: dest})

	return dest
}
