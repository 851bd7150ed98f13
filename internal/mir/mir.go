// Package mir defines the mid-level intermediate representation the
// builder lowers a checked AST into: a control-flow graph of basic
// blocks, each holding a straight-line run of non-terminator
// instructions followed by exactly one terminator (spec §5). Following
// internal/ast's own tagged-sum-type convention, every concrete value and
// instruction kind is a small struct implementing a marker interface, so
// a consumer (a printer, a backend) switches on concrete type rather than
// dispatching through a visitor.
package mir

import "github.com/brian-m/nico/internal/types"

// Value is implemented by every concrete MIR value kind.
type Value interface {
	isValue()
	// Type returns the semantic type this value carries.
	Type() types.Type
}

// Literal is a MIR value that reuses a literal token's payload directly
// from the AST (spec §5: "Literal tokens are shared read-only across AST
// and MIR").
type Literal struct {
	Typ   types.Type
	Value LiteralValue
}

// LiteralValue is the untyped payload of a Literal MIR value — deliberately
// not the *ast.Literal node itself, so the mir package does not depend on
// ast (ast/mir share token/types, not each other).
type LiteralValue struct {
	Int    uint64
	Float  float64
	Bool   bool
	Str    string
	IsNull bool
}

func (*Literal) isValue()            {}
func (l *Literal) Type() types.Type  { return l.Typ }

// Variable is a MIR value referencing a declared name's storage (a
// FieldEntry in the symbol tree, one per local/parameter/global).
type Variable struct {
	Typ     types.Type
	Name    string
	Handle  int // the FieldEntry.Handle this variable was built from
}

func (*Variable) isValue()           {}
func (v *Variable) Type() types.Type { return v.Typ }

// Temporary is an intermediate, SSA-style value produced by exactly one
// instruction's destination. Unlike Variable it is never mutated in
// place; a new Temporary is produced for every assignment-like operation.
type Temporary struct {
	Typ  types.Type
	Name string
	ID   int
}

func (*Temporary) isValue()           {}
func (t *Temporary) Type() types.Type { return t.Typ }

// StorageAddr wraps a plain Variable/Temporary's storage location as a
// pointer-typed value, for use as a Store destination or Load source.
// Of carries the pointee (e.g. a Variable's declared type is the value
// it holds, not the address of that storage), so every ordinary
// let/parameter/yield-slot access satisfies the invariant that every
// Store destination and Load source has pointer type (spec §4.5/§8)
// without changing what Variable.Type()/Temporary.Type() themselves
// mean everywhere else they're used as plain values.
type StorageAddr struct {
	Of  Value
	Typ types.Type // always KindPointer or KindReference, wrapping Of.Type()
}

func (*StorageAddr) isValue()           {}
func (s *StorageAddr) Type() types.Type { return s.Typ }

// Instruction is implemented by both non-terminator and terminator kinds.
type Instruction interface{ isInstruction() }

// NonTerminator is implemented by instruction kinds legal anywhere inside
// a basic block's body (everything but the last instruction).
type NonTerminator interface {
	Instruction
	isNonTerminator()
}

// Terminator is implemented by the three instruction kinds legal as a
// basic block's final instruction.
type Terminator interface {
	Instruction
	isTerminator()
}

// BinaryOp enumerates the arithmetic/comparison operations a Binary
// instruction can perform; nico's source-level operators (spec §4.2) are
// lowered onto this smaller, backend-facing set.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNeq
	BinLt
	BinLe
	BinGt
	BinGe
	BinBitOr
	BinBitAnd
	BinBitXor
)

// Binary computes Op(Left, Right) and stores the result in Dest.
type Binary struct {
	Op          BinaryOp
	Left, Right Value
	Dest        *Temporary
}

func (*Binary) isInstruction()    {}
func (*Binary) isNonTerminator()  {}

// UnaryOp enumerates the operations a Unary instruction can perform.
type UnaryOp int

const (
	UnNeg UnaryOp = iota
	UnNot
)

// Unary computes Op(Operand) and stores the result in Dest.
type Unary struct {
	Op      UnaryOp
	Operand Value
	Dest    *Temporary
}

func (*Unary) isInstruction()   {}
func (*Unary) isNonTerminator() {}

// Call invokes Target with Args, storing its return value (if non-unit)
// in Dest.
type Call struct {
	Target *Function
	Args   []Value
	Dest   *Temporary
}

func (*Call) isInstruction()   {}
func (*Call) isNonTerminator() {}

// Alloca reserves stack storage for Variable, sized for AllocatedType.
type Alloca struct {
	Variable      *Variable
	AllocatedType types.Type
}

func (*Alloca) isInstruction()   {}
func (*Alloca) isNonTerminator() {}

// Store copies Source into the storage Dest (a pointer-like value) points
// to.
type Store struct {
	Source Value
	Dest   Value
}

func (*Store) isInstruction()   {}
func (*Store) isNonTerminator() {}

// Load reads the value Source (a pointer-like value) points to into Dest.
type Load struct {
	Source Value
	Dest   *Temporary
}

func (*Load) isInstruction()   {}
func (*Load) isNonTerminator() {}

// PhiEdge is one incoming-block/value pair of a Phi instruction.
type PhiEdge struct {
	Block *BasicBlock
	Value Value
}

// Phi selects among Incoming based on which predecessor block control
// arrived from, merging values from different control-flow paths (used
// when lowering a conditional that yields a value, and a short-circuit
// and/or).
type Phi struct {
	Incoming []PhiEdge
	Dest     *Temporary
}

func (*Phi) isInstruction()   {}
func (*Phi) isNonTerminator() {}

// Jump unconditionally transfers control to Target.
type Jump struct {
	Target *BasicBlock
}

func (*Jump) isInstruction() {}
func (*Jump) isTerminator()  {}

// Branch transfers control to Then if Cond is true, else to Else.
type Branch struct {
	Cond       Value
	Then, Else *BasicBlock
}

func (*Branch) isInstruction() {}
func (*Branch) isTerminator()  {}

// Return transfers control back to the caller. Value is nil for a
// unit-returning function.
type Return struct {
	Value Value
}

func (*Return) isInstruction() {}
func (*Return) isTerminator()  {}

// BasicBlock is a maximal straight-line instruction run: zero or more
// non-terminators followed by exactly one terminator (nil until the
// builder closes the block).
type BasicBlock struct {
	Name         string
	Instructions []NonTerminator
	Terminator   Terminator
	Predecessors []*BasicBlock
	parent       *Function
}

// AddInstruction appends a non-terminator instruction to the block. It
// panics if the block is already terminated, since a terminator must be
// the block's last instruction (a builder bug, not a user error — never
// reachable from checked nico source).
func (b *BasicBlock) AddInstruction(instr NonTerminator) {
	if b.Terminator != nil {
		panic("mir: cannot add an instruction after a block's terminator")
	}

	b.Instructions = append(b.Instructions, instr)
}

// SetJump terminates the block with an unconditional Jump to target,
// recording the predecessor edge.
func (b *BasicBlock) SetJump(target *BasicBlock) {
	b.Terminator = &Jump{Target: target}
	target.Predecessors = append(target.Predecessors, b)
}

// SetBranch terminates the block with a conditional Branch, recording
// both predecessor edges.
func (b *BasicBlock) SetBranch(cond Value, then, els *BasicBlock) {
	b.Terminator = &Branch{Cond: cond, Then: then, Else: els}
	then.Predecessors = append(then.Predecessors, b)
	els.Predecessors = append(els.Predecessors, b)
}

// SetReturn terminates the block with a Return, val may be nil.
func (b *BasicBlock) SetReturn(val Value) {
	b.Terminator = &Return{Value: val}
}

// Terminated reports whether the block already has a terminator.
func (b *BasicBlock) Terminated() bool { return b.Terminator != nil }

// Function is one lowered nico function (or the synthetic top-level
// "script" function a FrontendContext builds for free-standing
// statements, mirroring the original implementation's ControlStack::Script).
type Function struct {
	Name       string
	ReturnType types.Type
	Params     []*Variable
	// ReturnValue is the temporary the function's single exit block loads
	// the return slot into and returns. Every return path (including an
	// implicit fallthrough) stores into that slot and jumps to the exit
	// block, so they all merge through one Load. Nil for a unit function.
	ReturnValue *Temporary
	Blocks      []*BasicBlock
	blockSeq    int
	tempSeq     int
}

// NewFunction returns an empty function ready to receive basic blocks.
func NewFunction(name string, returnType types.Type) *Function {
	return &Function{Name: name, ReturnType: returnType}
}

// CreateBlock appends and returns a new, unterminated basic block named
// label as given; block names are not made unique.
func (f *Function) CreateBlock(label string) *BasicBlock {
	f.blockSeq++
	bb := &BasicBlock{Name: label, parent: f}
	f.Blocks = append(f.Blocks, bb)

	return bb
}

// NewTemp returns a fresh, uniquely-named Temporary of type typ. name is
// a readability hint, empty for an anonymous temporary.
func (f *Function) NewTemp(typ types.Type, name string) *Temporary {
	f.tempSeq++

	if name == "" {
		return &Temporary{Typ: typ, Name: "t", ID: f.tempSeq}
	}

	return &Temporary{Typ: typ, Name: name, ID: f.tempSeq}
}

// Module is the complete lowering output of one compilation unit or REPL
// submission batch: every user-declared function plus the synthetic
// top-level script function.
type Module struct {
	Script    *Function
	Functions []*Function
}

// NewModule returns an empty module with its script function created.
func NewModule() *Module {
	script := NewFunction("script", types.Unit)
	return &Module{Script: script}
}

// AddFunction registers fn in the module.
func (m *Module) AddFunction(fn *Function) {
	m.Functions = append(m.Functions, fn)
}
