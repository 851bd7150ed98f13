package ast

import (
	"github.com/brian-m/nico/internal/symbols"
	"github.com/brian-m/nico/internal/token"
)

// BinaryOp enumerates the binary operators the parser recognizes.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpBitOr
	OpBitAnd
	OpBitXor
)

// LogicalOp enumerates the two short-circuiting operators.
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

// UnaryOp enumerates prefix unary operators other than deref/address-of,
// which get their own expression kinds since they carry extra semantics
// (mutability, unsafe-block checks).
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

// AssignOp enumerates plain and compound assignment operators.
type AssignOp int

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
)

// Assign is `left = right` or a compound-assign form.
type Assign struct {
	Op          AssignOp
	Left, Right *Expr
}

func (*Assign) isExpr() {}

// Logical is `left and right` / `left or right`, short-circuiting.
type Logical struct {
	Op          LogicalOp
	Left, Right *Expr
}

func (*Logical) isExpr() {}

// Binary is a non-short-circuiting binary operator expression.
type Binary struct {
	Op          BinaryOp
	Left, Right *Expr
	// RecordsDivisor is true for '/' and '%', so the MIR builder knows to
	// emit the runtime divide-by-zero check (spec §6 panic contract).
	RecordsDivisor bool
}

func (*Binary) isExpr() {}

// Unary is `-x`, `!x`, or `not x`.
type Unary struct {
	Op      UnaryOp
	Operand *Expr
}

func (*Unary) isExpr() {}

// Address is `&x` or `&var x`.
type Address struct {
	Mutable bool
	Operand *Expr
}

func (*Address) isExpr() {}

// Deref is `*x`.
type Deref struct {
	Operand *Expr
}

func (*Deref) isExpr() {}

// CastKind distinguishes `as` (checked) from `transmute` (unchecked
// bit-reinterpretation) casts, both parsed by the same unary precedence
// level in spec §4.2.
type CastKind int

const (
	CastAs CastKind = iota
	CastTransmute
)

// Cast is `x as T` or `x transmute T`.
type Cast struct {
	Kind     CastKind
	Operand  *Expr
	Target   *Annotation
}

func (*Cast) isExpr() {}

// Access is `x.y`, either a struct field access or a tuple index access.
type Access struct {
	Operand *Expr
	Name    token.Token // identifier, or an integer literal for tuple access
	IsIndex bool
	Index   int
}

func (*Access) isExpr() {}

// Subscript is `x[i]`.
type Subscript struct {
	Operand, Index *Expr
}

func (*Subscript) isExpr() {}

// Arg is one call argument: positional if Name is zero, named otherwise.
type Arg struct {
	Name  token.Token
	Named bool
	Value *Expr
}

// Call is `callee(args...)`.
type Call struct {
	Callee *Expr
	Args   []Arg
	// Resolved is filled in by the local checker once overload resolution
	// has picked exactly one signature.
	Resolved *symbols.FunctionSignature
}

func (*Call) isExpr() {}

// SizeOf is `sizeof T`.
type SizeOf struct {
	Target *Annotation
}

func (*SizeOf) isExpr() {}

// Alloc is `alloc T [size]`.
type Alloc struct {
	Target *Annotation
	Size   *Expr
}

func (*Alloc) isExpr() {}

// NameRef is a reference to a (possibly qualified, possibly generic) name.
// Resolved is nil until the local checker binds it to a symbol-tree node.
type NameRef struct {
	Name     Name
	Resolved symbols.Node
}

func (*NameRef) isExpr() {}

// LiteralKind discriminates the payload on a Literal expression.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitString
	LitNullptr
)

// Literal is a literal token reused verbatim from the lexer (spec §5:
// "Literal tokens are shared read-only across AST and MIR").
type Literal struct {
	Kind LiteralKind
	Tok  token.Token
}

func (*Literal) isExpr() {}

// Tuple is `(a, b, c)`.
type Tuple struct {
	Elems []*Expr
}

func (*Tuple) isExpr() {}

// Array is `[a, b, c]`.
type Array struct {
	Elems []*Expr
}

func (*Array) isExpr() {}

// BlockKind distinguishes the three flavors of block expression (spec §3).
type BlockKind int

const (
	BlockPlain BlockKind = iota
	BlockFunction
	BlockLoop
)

// Block is a statement-list expression that can `yield` a value. Label is
// empty when the block is unlabelled. Unsafe is true for `unsafe block`
// regions (spec §4.4).
type Block struct {
	Kind   BlockKind
	Label  string
	Unsafe bool
	Stmts  []*Stmt
	Scope  symbols.Node // the LocalScope opened for this block, set by the checker
}

func (*Block) isExpr() {}

// ConditionalArm is one `if`/`elif`/`else` arm: Cond is nil for the
// trailing `else`.
type ConditionalArm struct {
	Cond *Expr
	Body *Expr // always a Block
}

// Conditional is `if c then e elif ... else ...`.
type Conditional struct {
	Arms []ConditionalArm
}

func (*Conditional) isExpr() {}

// LoopForm distinguishes the three loop forms: `while` (in both its `do`
// and block spellings), infinite `loop`, and `do ... while`. They all
// lower the same way (spec §4.5); the debug printer does not show the form.
type LoopForm int

const (
	LoopWhile LoopForm = iota
	LoopInfinite
	LoopDoWhile
)

// Loop is `while c do body`, `loop: body`, or `do body while c`.
type Loop struct {
	Form  LoopForm
	Cond  *Expr // nil for LoopInfinite
	Body  *Expr // always a Block
}

func (*Loop) isExpr() {}
