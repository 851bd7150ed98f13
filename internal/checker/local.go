package checker

import (
	"fmt"

	"github.com/brian-m/nico/internal/ast"
	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/symbols"
	"github.com/brian-m/nico/internal/types"
)

// controlFrame tracks one enclosing function or block/loop the local
// checker is currently inside. The two roles are independent: a frame
// pushed around a function body (isFunc) answers "is there an enclosing
// function for this return", while a frame pushed around a Block
// expression (block != nil) answers "is there an enclosing block/loop for
// this yield/break/continue" (spec §4.4). A function whose body is itself
// a Block ends up with both kinds of frame stacked, which is correct:
// they are resolved by independent searches.
type controlFrame struct {
	isFunc     bool
	funcReturn types.Type

	block     *ast.Block
	label     string
	isLoop    bool
	yieldType *types.Type
	breakType *types.Type
}

// Local type-checks every statement and expression produced by the
// parser, in sequence (spec §4.4): it annotates Expr.Type, resolves
// NameRefs against the symbol tree, enforces mutability/lvalue/unsafe
// rules, performs overload resolution at call sites, and validates
// control-flow statement placement (yield/break/continue/return).
type Local struct {
	Tree   *symbols.Tree
	Log    *diag.Log
	frames []*controlFrame
	unsafe bool

	// relaxUnsafe downgrades PtrDerefOutsideUnsafeBlock to a warning,
	// driven by the project configuration's unsafe key (see nicocfg).
	relaxUnsafe bool
}

// NewLocal returns a Local checker writing into tree and log. tree should
// already have had a Global pass run over the same statements, so that
// forward references between top-level declarations resolve.
func NewLocal(tree *symbols.Tree, log *diag.Log) *Local {
	return &Local{Tree: tree, Log: log}
}

// NewLocalConfigured is NewLocal with relaxUnsafe controlling whether a
// raw pointer dereference outside an unsafe block is reported as an error
// or merely a warning.
func NewLocalConfigured(tree *symbols.Tree, log *diag.Log, relaxUnsafe bool) *Local {
	return &Local{Tree: tree, Log: log, relaxUnsafe: relaxUnsafe}
}

// Check type-checks every statement in stmts.
func (l *Local) Check(stmts []*ast.Stmt) {
	for _, st := range stmts {
		l.checkStmt(st)
	}
}

func (l *Local) checkStmt(st *ast.Stmt) {
	switch d := st.Data.(type) {
	case *ast.ExprStmt:
		l.checkExpr(d.Expr)
	case *ast.Let:
		l.checkLet(st, d)
	case *ast.Func:
		if d.Decl == nil {
			declareFunctionSignature(l.Tree, l.Log, d, st.Loc)
		}

		l.checkFuncBody(d)
	case *ast.Print:
		for _, a := range d.Args {
			l.checkExpr(a)
		}
	case *ast.Pass, *ast.Eof:
		// no-op
	case *ast.Yield:
		l.checkYieldStmt(st, d)
	case *ast.Break:
		l.checkBreakStmt(st, d)
	case *ast.Continue:
		l.checkContinueStmt(st, d)
	case *ast.Return:
		l.checkReturnStmt(st, d)
	case *ast.Dealloc:
		t := l.checkExpr(d.Target)
		if !t.IsPointerLike() {
			l.Log.Error(diag.DereferenceNonPointer, st.Loc, fmt.Sprintf("dealloc target has type %s, expected a pointer", t.String()))
		}
	case *ast.NamespaceDecl:
		l.checkNamespace(st, d)
	case *ast.StructDecl:
		l.checkStruct(st, d)
	case *ast.EnumDecl:
		// Variants are fully established by the global pass for every enum
		// it reaches; an enum declared inside a function/block body is
		// never visited by the global pass, so the local checker declares
		// it here instead, via the same routine.
		if d.Def == nil {
			declareEnumDef(l.Tree, l.Log, st, d)
		}
	}
}

func (l *Local) checkNamespace(st *ast.Stmt, d *ast.NamespaceDecl) {
	if d.Scope != nil {
		l.Tree.EnterScope(d.Scope)
	} else {
		// Never declared by the global pass: this namespace sits somewhere
		// the global pass never walks (inside a function/block body).
		// AddNamespace reports the precise reason (NamespaceInLocalScope).
		ns, code := l.Tree.AddNamespace(d.NameTok.Lexeme())
		if code != diag.Null {
			l.Log.Error(code, st.Loc, fmt.Sprintf("cannot declare namespace %q here: %s", d.NameTok.Lexeme(), code))
			return
		}

		d.Scope = ns
	}

	for _, inner := range d.Body {
		l.checkStmt(inner)
	}

	l.Tree.ExitScope()
}

func (l *Local) checkStruct(st *ast.Stmt, d *ast.StructDecl) {
	if d.Def != nil {
		l.Tree.EnterScope(d.Def)
	} else if !declareStructDef(l.Tree, l.Log, st, d) {
		return
	}

	for _, inner := range d.Body {
		l.checkStmt(inner)
	}

	l.Tree.ExitScope()
}

func (l *Local) checkLet(st *ast.Stmt, d *ast.Let) {
	var declaredType *types.Type

	if d.Annotation != nil {
		if t, ok := resolveAnnotation(l.Tree, l.Log, d.Annotation); ok {
			declaredType = &t
		}
	}

	var initType *types.Type

	if d.Init != nil {
		t := l.checkExpr(d.Init)
		initType = &t
	}

	var finalType types.Type

	switch {
	case declaredType != nil && initType != nil:
		if !types.Equal(*declaredType, *initType) {
			l.Log.Error(diag.LetTypeMismatch, st.Loc, fmt.Sprintf("cannot initialize %s with %s", declaredType.String(), initType.String()))
		}

		finalType = *declaredType
	case declaredType != nil:
		finalType = *declaredType
	case initType != nil:
		finalType = *initType
	default:
		// LetWithoutTypeOrValue was already reported by the parser.
		finalType = types.Unit
	}

	if d.Entry != nil {
		// Declared ahead of time by the global pass (top-level, namespace,
		// or struct-level let): fix up its placeholder type now that the
		// initializer (if any) has been checked.
		d.Entry.Type = finalType
		d.Entry.Declared = true

		return
	}

	fe, code := l.Tree.AddFieldEntry(d.NameTok.Lexeme(), finalType, d.Mutable)
	if code != diag.Null {
		l.Log.Error(code, st.Loc, fmt.Sprintf("cannot declare %q: %s", d.NameTok.Lexeme(), code))
		return
	}

	fe.Declared = true
	d.Entry = fe
}

func (l *Local) checkFuncBody(fn *ast.Func) {
	if fn.Decl == nil || fn.SigIndex < 0 || fn.SigIndex >= len(fn.Decl.Signatures) {
		return
	}

	sig := fn.Decl.Signatures[fn.SigIndex]

	l.Tree.AddLocalScope(symbols.BlockFunction)

	for i := range fn.Params {
		p := &fn.Params[i]
		ptype := types.Unit

		if i < len(sig.Params) {
			ptype = sig.Params[i].Type
		}

		fe, code := l.Tree.AddFieldEntry(p.NameTok.Lexeme(), ptype, false)
		if code != diag.Null {
			l.Log.Error(code, fn.NameTok.Loc, fmt.Sprintf("cannot bind parameter %q: %s", p.NameTok.Lexeme(), code))
			continue
		}

		fe.Declared = true
		p.Entry = fe

		if p.Default != nil {
			dt := l.checkExpr(p.Default)
			if !types.Equal(dt, ptype) {
				l.Log.Error(diag.DefaultArgTypeMismatch, p.Default.Loc, fmt.Sprintf("default value type %s does not match parameter type %s", dt.String(), ptype.String()))
			}
		}
	}

	frame := &controlFrame{isFunc: true, funcReturn: sig.Return}
	l.frames = append(l.frames, frame)

	bodyType := l.checkExpr(fn.Body)

	l.frames = l.frames[:len(l.frames)-1]
	l.Tree.ExitScope()

	// A block body that never yields hands its value back through
	// `return` statements, each checked by checkReturnStmt instead.
	if fn.Body != nil && types.Equal(bodyType, types.Unit) {
		if _, isBlock := fn.Body.Data.(*ast.Block); isBlock {
			return
		}
	}

	if !types.Equal(bodyType, sig.Return) && !types.IsNever(bodyType) {
		l.Log.Error(diag.FunctionReturnTypeMismatch, fn.NameTok.Loc,
			fmt.Sprintf("function %q: body type %s does not match declared return %s", fn.NameTok.Lexeme(), bodyType.String(), sig.Return.String()))
	}
}

func (l *Local) checkYieldStmt(st *ast.Stmt, d *ast.Yield) {
	valType := types.Unit
	if d.Value != nil {
		valType = l.checkExpr(d.Value)
	}

	frame := l.findBlockFrame(d.Label)
	if frame == nil {
		l.Log.Error(diag.YieldOutsideLocalScope, st.Loc, "yield outside any block")
		return
	}

	d.Target = frame.block

	if frame.isLoop {
		l.Log.Error(diag.YieldTargetingLoop, st.Loc, "yield targeting a loop; use break to produce a loop value")
	}

	if frame.yieldType == nil {
		frame.yieldType = &valType
		return
	}

	if !types.Equal(*frame.yieldType, valType) {
		l.Log.Error(diag.YieldTypeMismatch, st.Loc, fmt.Sprintf("yield type %s does not match this block's established type %s", valType.String(), frame.yieldType.String()))
	}
}

func (l *Local) checkBreakStmt(st *ast.Stmt, d *ast.Break) {
	var valType *types.Type

	if d.Value != nil {
		t := l.checkExpr(d.Value)
		valType = &t
	}

	frame := l.findLoopFrame(d.Label)
	if frame == nil {
		l.Log.Error(diag.BreakOutsideLoop, st.Loc, "break outside any loop")
		return
	}

	if valType == nil {
		return
	}

	if frame.breakType == nil {
		frame.breakType = valType
		return
	}

	if !types.Equal(*frame.breakType, *valType) {
		l.Log.Error(diag.WhileLoopYieldingNonUnit, st.Loc, "break values disagree on type across this loop")
	}
}

func (l *Local) checkContinueStmt(st *ast.Stmt, d *ast.Continue) {
	if l.findLoopFrame(d.Label) == nil {
		l.Log.Error(diag.ContinueOutsideLoop, st.Loc, "continue outside any loop")
	}
}

func (l *Local) checkReturnStmt(st *ast.Stmt, d *ast.Return) {
	valType := types.Unit
	if d.Value != nil {
		valType = l.checkExpr(d.Value)
	}

	frame := l.findFuncFrame()
	if frame == nil {
		l.Log.Error(diag.ReturnOutsideFunction, st.Loc, "return outside any function")
		return
	}

	if !types.Equal(valType, frame.funcReturn) && !types.IsNever(valType) {
		l.Log.Error(diag.FunctionReturnTypeMismatch, st.Loc,
			fmt.Sprintf("return type %s does not match declared return %s", valType.String(), frame.funcReturn.String()))
	}
}

func (l *Local) findBlockFrame(label string) *controlFrame {
	for i := len(l.frames) - 1; i >= 0; i-- {
		f := l.frames[i]
		if f.block == nil {
			continue
		}

		if label == "" || f.label == label {
			return f
		}
	}

	return nil
}

func (l *Local) findLoopFrame(label string) *controlFrame {
	for i := len(l.frames) - 1; i >= 0; i-- {
		f := l.frames[i]
		if !f.isLoop {
			continue
		}

		if label == "" || f.label == label {
			return f
		}
	}

	return nil
}

func (l *Local) findFuncFrame() *controlFrame {
	for i := len(l.frames) - 1; i >= 0; i-- {
		if l.frames[i].isFunc {
			return l.frames[i]
		}
	}

	return nil
}

// checkBlock type-checks blk's statements in a fresh LocalScope and frame,
// returning its yielded type (Unit if it never yields) together with the
// frame, so a caller that needs the loop-specific breakType (checkLoop)
// can still read it after the scope/frame have been popped.
func (l *Local) checkBlock(blk *ast.Block) (types.Type, *controlFrame) {
	ls := l.Tree.AddLocalScope(toSymbolsBlockKind(blk.Kind))
	blk.Scope = ls

	wasUnsafe := l.unsafe
	if blk.Unsafe {
		l.unsafe = true
	}

	frame := &controlFrame{block: blk, label: blk.Label, isLoop: blk.Kind == ast.BlockLoop}
	l.frames = append(l.frames, frame)

	for _, st := range blk.Stmts {
		l.checkStmt(st)
	}

	l.frames = l.frames[:len(l.frames)-1]
	l.unsafe = wasUnsafe
	l.Tree.ExitScope()

	t := types.Unit
	if frame.yieldType != nil {
		t = *frame.yieldType
	}

	return t, frame
}

// checkBlockExpr type-checks e (whose Data must be a *ast.Block) via
// checkBlock and annotates e.Type.
func (l *Local) checkBlockExpr(e *ast.Expr) (types.Type, *controlFrame) {
	blk, ok := e.Data.(*ast.Block)
	if !ok {
		t := l.checkExpr(e)
		return t, nil
	}

	t, frame := l.checkBlock(blk)
	e.SetType(t)

	return t, frame
}

func toSymbolsBlockKind(k ast.BlockKind) symbols.BlockKind {
	switch k {
	case ast.BlockFunction:
		return symbols.BlockFunction
	case ast.BlockLoop:
		return symbols.BlockLoop
	default:
		return symbols.BlockPlain
	}
}

func (l *Local) checkLoop(loop *ast.Loop) types.Type {
	if loop.Cond != nil {
		ct := l.checkExpr(loop.Cond)
		if !types.Equal(ct, types.Bool) {
			l.Log.Error(diag.ConditionNotBool, loop.Cond.Loc, fmt.Sprintf("loop condition has type %s, expected bool", ct.String()))
		}
	}

	_, frame := l.checkBlockExpr(loop.Body)

	if frame != nil && frame.breakType != nil {
		return *frame.breakType
	}

	if loop.Form == ast.LoopInfinite {
		return types.Never()
	}

	return types.Unit
}

func (l *Local) checkConditional(cond *ast.Conditional, loc source.Location) types.Type {
	hasElse := false

	var result *types.Type

	for i := range cond.Arms {
		arm := &cond.Arms[i]

		if arm.Cond != nil {
			ct := l.checkExpr(arm.Cond)
			if !types.Equal(ct, types.Bool) {
				l.Log.Error(diag.ConditionNotBool, arm.Cond.Loc, fmt.Sprintf("condition has type %s, expected bool", ct.String()))
			}
		} else {
			hasElse = true
		}

		bt, _ := l.checkBlockExpr(arm.Body)

		if result == nil {
			t := bt
			result = &t

			continue
		}

		if u, ok := types.Unify(*result, bt); ok {
			result = &u
		} else {
			l.Log.Error(diag.ConditionalBranchTypeMismatch, loc, fmt.Sprintf("branch type %s does not match %s", bt.String(), result.String()))
		}
	}

	if result == nil {
		return types.Unit
	}

	if !hasElse {
		if u, ok := types.Unify(*result, types.Unit); ok {
			result = &u
		} else {
			l.Log.Error(diag.ConditionalBranchTypeMismatch, loc, fmt.Sprintf("if without else must yield unit, got %s", result.String()))
		}
	}

	return *result
}

// lvalueMutable reports whether e names an assignable location and, if
// so, whether that location is declared mutable.
func (l *Local) lvalueMutable(e *ast.Expr) (mutable, ok bool) {
	switch d := e.Data.(type) {
	case *ast.NameRef:
		fe, isField := d.Resolved.(*symbols.FieldEntry)
		if !isField {
			return false, false
		}

		return fe.Mutable, true
	case *ast.Access:
		if d.IsIndex {
			return false, false
		}

		fe, found := l.fieldEntryOfAccess(d)
		if !found {
			return false, false
		}

		return fe.Mutable, true
	case *ast.Deref:
		if d.Operand.Type == nil {
			return false, false
		}

		t := *d.Operand.Type
		if !t.IsPointerLike() {
			return false, false
		}

		return t.Mutable, true
	default:
		return false, false
	}
}

func (l *Local) fieldEntryOfAccess(d *ast.Access) (*symbols.FieldEntry, bool) {
	if d.Operand.Type == nil {
		return nil, false
	}

	ot := *d.Operand.Type
	if ot.Kind != types.KindNamed {
		return nil, false
	}

	sd, ok := ot.Named.(*symbols.StructDef)
	if !ok {
		return nil, false
	}

	child, ok := sd.Child(d.Name.Lexeme())
	if !ok {
		return nil, false
	}

	fe, ok := child.(*symbols.FieldEntry)
	return fe, ok
}

// checkExpr type-checks e, annotates e.Type via SetType, and returns the
// resulting type.
func (l *Local) checkExpr(e *ast.Expr) types.Type {
	if e == nil {
		return types.Unit
	}

	t := l.checkExprData(e)
	e.SetType(t)

	return t
}

func (l *Local) checkExprData(e *ast.Expr) types.Type {
	switch d := e.Data.(type) {
	case *ast.Literal:
		return literalType(d)
	case *ast.NameRef:
		return l.checkNameRef(e, d)
	case *ast.Assign:
		return l.checkAssign(e, d)
	case *ast.Logical:
		lt := l.checkExpr(d.Left)
		rt := l.checkExpr(d.Right)

		if !types.Equal(lt, types.Bool) || !types.Equal(rt, types.Bool) {
			l.Log.Error(diag.OperatorNotValidForExpr, e.Loc, "logical operator requires bool operands")
		}

		return types.Bool
	case *ast.Binary:
		return l.checkBinary(e, d)
	case *ast.Unary:
		return l.checkUnary(e, d)
	case *ast.Address:
		operand := l.checkExpr(d.Operand)

		mutable, ok := l.lvalueMutable(d.Operand)
		if !ok {
			l.Log.Error(diag.NotAPossibleLValue, e.Loc, "cannot take the address of this expression")
		} else if d.Mutable && !mutable {
			l.Log.Error(diag.AddressOfImmutable, e.Loc, "cannot take a mutable address of an immutable binding")
		}

		return types.Reference(operand, d.Mutable)
	case *ast.Deref:
		return l.checkDeref(e, d)
	case *ast.Cast:
		l.checkExpr(d.Operand)

		target, ok := resolveAnnotation(l.Tree, l.Log, d.Target)
		if !ok {
			return types.Unit
		}

		return target
	case *ast.Access:
		return l.checkAccess(e, d)
	case *ast.Subscript:
		ot := l.checkExpr(d.Operand)
		it := l.checkExpr(d.Index)

		if !it.IsNumeric() {
			l.Log.Error(diag.OperatorNotValidForExpr, e.Loc, "subscript index must be numeric")
		}

		if ot.Kind != types.KindArray || ot.Base == nil {
			l.Log.Error(diag.OperatorNotValidForExpr, e.Loc, "subscript target is not an array")
			return types.Unit
		}

		return *ot.Base
	case *ast.Call:
		return l.checkCall(e, d)
	case *ast.SizeOf:
		resolveAnnotation(l.Tree, l.Log, d.Target)
		return types.Int(false, types.Int64)
	case *ast.Alloc:
		base, ok := resolveAnnotation(l.Tree, l.Log, d.Target)
		if !ok {
			base = types.Unit
		}

		if d.Size != nil {
			st := l.checkExpr(d.Size)
			if !st.IsNumeric() {
				l.Log.Error(diag.OperatorNotValidForExpr, e.Loc, "alloc size must be numeric")
			}
		}

		return types.Pointer(base, true)
	case *ast.Tuple:
		elems := make([]types.Type, len(d.Elems))
		for i, el := range d.Elems {
			elems[i] = l.checkExpr(el)
		}

		return types.Tuple(elems...)
	case *ast.Array:
		if len(d.Elems) == 0 {
			return types.Array(types.Unit, 0, true)
		}

		first := l.checkExpr(d.Elems[0])
		for _, el := range d.Elems[1:] {
			et := l.checkExpr(el)
			if !types.Equal(first, et) {
				l.Log.Error(diag.OperatorNotValidForExpr, e.Loc, fmt.Sprintf("array element type %s does not match %s", et.String(), first.String()))
			}
		}

		return types.Array(first, len(d.Elems), true)
	case *ast.Block:
		t, _ := l.checkBlock(d)
		return t
	case *ast.Conditional:
		return l.checkConditional(d, e.Loc)
	case *ast.Loop:
		return l.checkLoop(d)
	default:
		return types.Unit
	}
}

func (l *Local) checkNameRef(e *ast.Expr, d *ast.NameRef) types.Type {
	node, found := l.Tree.Search(namePartsOf(d.Name))
	if !found {
		l.Log.Error(diag.UndeclaredName, e.Loc, fmt.Sprintf("undeclared name %q", d.Name.String()))
		return types.Unit
	}

	d.Resolved = node

	switch n := node.(type) {
	case *symbols.FieldEntry:
		if !n.Declared {
			l.Log.Error(diag.UndeclaredName, e.Loc, fmt.Sprintf("%q used before its declaration", d.Name.String()))
		}

		return n.Type
	case *symbols.PrimitiveType:
		return n.Type
	case *symbols.FunctionDecl:
		if len(n.Signatures) == 0 {
			return types.Unit
		}

		sig := n.Signatures[0]
		params := make([]types.Type, len(sig.Params))

		for i, p := range sig.Params {
			params[i] = p.Type
		}

		return types.Function(params, sig.Return)
	default:
		l.Log.Error(diag.NotAVariable, e.Loc, fmt.Sprintf("%q is not a value", d.Name.String()))
		return types.Unit
	}
}

func (l *Local) checkAssign(e *ast.Expr, d *ast.Assign) types.Type {
	lt := l.checkExpr(d.Left)
	rt := l.checkExpr(d.Right)

	mutable, ok := l.lvalueMutable(d.Left)
	if !ok {
		l.Log.Error(diag.NotAPossibleLValue, e.Loc, "left side of an assignment must be a variable, field, or dereference")
	} else if !mutable {
		l.Log.Error(diag.AssignToImmutable, e.Loc, "cannot assign to an immutable binding")
	}

	if d.Op != ast.AssignPlain && (!lt.IsNumeric() || !rt.IsNumeric()) {
		l.Log.Error(diag.OperatorNotValidForExpr, e.Loc, "compound assignment requires numeric operands")
	} else if !types.Equal(lt, rt) {
		l.Log.Error(diag.AssignmentTypeMismatch, e.Loc, fmt.Sprintf("cannot assign %s to %s", rt.String(), lt.String()))
	}

	return lt
}

func (l *Local) checkBinary(e *ast.Expr, d *ast.Binary) types.Type {
	lt := l.checkExpr(d.Left)
	rt := l.checkExpr(d.Right)

	switch d.Op {
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if !types.Equal(lt, rt) {
			l.Log.Error(diag.OperatorNotValidForExpr, e.Loc, fmt.Sprintf("cannot compare %s with %s", lt.String(), rt.String()))
		}

		return types.Bool
	default:
		if !lt.IsNumeric() || !types.Equal(lt, rt) {
			l.Log.Error(diag.OperatorNotValidForExpr, e.Loc, fmt.Sprintf("operator requires matching numeric operands, got %s and %s", lt.String(), rt.String()))
		}

		return lt
	}
}

func (l *Local) checkUnary(e *ast.Expr, d *ast.Unary) types.Type {
	ot := l.checkExpr(d.Operand)

	if d.Op == ast.OpNot {
		if !types.Equal(ot, types.Bool) {
			l.Log.Error(diag.OperatorNotValidForExpr, e.Loc, fmt.Sprintf("not requires a bool operand, got %s", ot.String()))
		}

		return types.Bool
	}

	if !ot.IsNumeric() {
		l.Log.Error(diag.OperatorNotValidForExpr, e.Loc, fmt.Sprintf("unary - requires a numeric operand, got %s", ot.String()))
	}

	return ot
}

func (l *Local) checkDeref(e *ast.Expr, d *ast.Deref) types.Type {
	ot := l.checkExpr(d.Operand)

	if lit, ok := d.Operand.Data.(*ast.Literal); ok && lit.Kind == ast.LitNullptr {
		l.Log.Error(diag.DereferenceNullptr, e.Loc, "dereferencing nullptr")
		return types.Unit
	}

	if !ot.IsPointerLike() {
		l.Log.Error(diag.DereferenceNonPointer, e.Loc, fmt.Sprintf("cannot dereference %s", ot.String()))
		return types.Unit
	}

	if ot.Kind == types.KindPointer && !l.unsafe {
		if l.relaxUnsafe {
			l.Log.Error(diag.PtrDerefOutsideUnsafeBlockWarning, e.Loc, "raw pointer dereference outside an unsafe block")
		} else {
			l.Log.Error(diag.PtrDerefOutsideUnsafeBlock, e.Loc, "raw pointer dereference outside an unsafe block")
		}
	}

	if ot.Base == nil {
		return types.Unit
	}

	return *ot.Base
}

func (l *Local) checkAccess(e *ast.Expr, d *ast.Access) types.Type {
	ot := l.checkExpr(d.Operand)

	if d.IsIndex {
		if ot.Kind != types.KindTuple {
			l.Log.Error(diag.InvalidTupleAccess, e.Loc, fmt.Sprintf("%s is not a tuple", ot.String()))
			return types.Unit
		}

		if d.Index < 0 || d.Index >= len(ot.Elems) {
			l.Log.Error(diag.TupleIndexOutOfBounds, e.Loc, fmt.Sprintf("index %d out of bounds for %s", d.Index, ot.String()))
			return types.Unit
		}

		return ot.Elems[d.Index]
	}

	if ot.Kind != types.KindNamed {
		l.Log.Error(diag.UndeclaredName, e.Loc, fmt.Sprintf("%s has no field %q", ot.String(), d.Name.Lexeme()))
		return types.Unit
	}

	fe, ok := l.fieldEntryOfAccess(d)
	if !ok {
		l.Log.Error(diag.UndeclaredName, e.Loc, fmt.Sprintf("%s has no field %q", ot.String(), d.Name.Lexeme()))
		return types.Unit
	}

	return fe.Type
}

// argInfo is the checked, positionally-or-named-tagged type of one call
// argument, used by overload resolution.
type argInfo struct {
	name  string
	named bool
	typ   types.Type
}

func (l *Local) checkCall(e *ast.Expr, d *ast.Call) types.Type {
	args := make([]argInfo, len(d.Args))

	for i := range d.Args {
		a := &d.Args[i]
		args[i] = argInfo{name: a.Name.Lexeme(), named: a.Named, typ: l.checkExpr(a.Value)}
	}

	decl := l.resolveCallee(d.Callee)
	if decl == nil {
		return types.Unit
	}

	var arityOK []*symbols.FunctionSignature

	for _, sig := range decl.Signatures {
		if signatureAcceptsArity(sig, args) {
			arityOK = append(arityOK, sig)
		}
	}

	var exact, widened []*symbols.FunctionSignature

	for _, sig := range arityOK {
		switch matchArgTypes(sig, args) {
		case matchExact:
			exact = append(exact, sig)
		case matchWiden:
			widened = append(widened, sig)
		}
	}

	candidates := exact
	if len(candidates) == 0 {
		candidates = widened
	}

	switch len(candidates) {
	case 0:
		l.Log.Error(diag.NoMatchingFunctionOverload, e.Loc, fmt.Sprintf("no overload of %q matches these arguments", calleeName(d.Callee)))
		return types.Unit
	case 1:
		d.Resolved = candidates[0]
		return candidates[0].Return
	default:
		l.Log.Error(diag.MultipleMatchingFunctionOverloads, e.Loc, fmt.Sprintf("call to %q is ambiguous among %d overloads", calleeName(d.Callee), len(candidates)))
		return types.Unit
	}
}

// resolveCallee resolves a call's callee expression to the FunctionDecl it
// names, bypassing the generic NameRef-as-value path (which would reject
// a FunctionDecl as NotAVariable) since a callee position is special.
func (l *Local) resolveCallee(callee *ast.Expr) *symbols.FunctionDecl {
	nr, ok := callee.Data.(*ast.NameRef)
	if !ok {
		l.checkExpr(callee)
		l.Log.Error(diag.NotACallable, callee.Loc, "callee is not a function name")

		return nil
	}

	node, found := l.Tree.Search(namePartsOf(nr.Name))
	if !found {
		l.Log.Error(diag.UndeclaredName, callee.Loc, fmt.Sprintf("undeclared name %q", nr.Name.String()))
		callee.SetType(types.Unit)

		return nil
	}

	decl, ok := node.(*symbols.FunctionDecl)
	if !ok {
		l.Log.Error(diag.NotACallable, callee.Loc, fmt.Sprintf("%q is not callable", nr.Name.String()))
		callee.SetType(types.Unit)

		return nil
	}

	nr.Resolved = decl
	callee.SetType(types.Unit)

	return decl
}

func calleeName(e *ast.Expr) string {
	if nr, ok := e.Data.(*ast.NameRef); ok {
		return nr.Name.String()
	}

	return "<expr>"
}

// signatureAcceptsArity reports whether args could fill sig's parameter
// list: every named arg matches a distinct parameter name, every
// positional arg fills the next unfilled parameter in order, and every
// parameter left unfilled has a default (spec §4.4 step 1).
func signatureAcceptsArity(sig *symbols.FunctionSignature, args []argInfo) bool {
	filled := make([]bool, len(sig.Params))
	posIdx := 0

	for _, a := range args {
		if a.named {
			idx := paramIndexByName(sig, a.name)
			if idx < 0 || filled[idx] {
				return false
			}

			filled[idx] = true

			continue
		}

		for posIdx < len(filled) && filled[posIdx] {
			posIdx++
		}

		if posIdx >= len(filled) {
			return false
		}

		filled[posIdx] = true
		posIdx++
	}

	for i, f := range filled {
		if !f && !sig.Params[i].HasDefault {
			return false
		}
	}

	return true
}

func paramIndexByName(sig *symbols.FunctionSignature, name string) int {
	for i, p := range sig.Params {
		if p.Name == name {
			return i
		}
	}

	return -1
}

type matchKind int

const (
	matchNone matchKind = iota
	matchWiden
	matchExact
)

// matchArgTypes reports how closely args' types fit sig's parameter
// types, preferring an exact match over an implicit-numeric-widening one
// (spec §4.4 step 2); defaulted parameters with no supplied argument are
// skipped.
func matchArgTypes(sig *symbols.FunctionSignature, args []argInfo) matchKind {
	argForParam := make([]*argInfo, len(sig.Params))
	posIdx := 0

	for i := range args {
		a := &args[i]

		if a.named {
			idx := paramIndexByName(sig, a.name)
			argForParam[idx] = a

			continue
		}

		for posIdx < len(argForParam) && argForParam[posIdx] != nil {
			posIdx++
		}

		argForParam[posIdx] = a
		posIdx++
	}

	exact := true

	for i, a := range argForParam {
		if a == nil {
			continue
		}

		if types.Equal(a.typ, sig.Params[i].Type) {
			continue
		}

		if widensTo(a.typ, sig.Params[i].Type) {
			exact = false
			continue
		}

		return matchNone
	}

	if exact {
		return matchExact
	}

	return matchWiden
}

// widensTo reports whether from can implicitly widen to to: both numeric,
// same family (int-to-int or float-to-float), spec §4.4.
func widensTo(from, to types.Type) bool {
	return from.IsNumeric() && to.IsNumeric() && from.Kind == to.Kind
}
