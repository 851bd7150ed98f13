package parser

import (
	"errors"
	"strconv"

	"github.com/brian-m/nico/internal/ast"
	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/lexer/numlit"
	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/token"
)

// parseExpr is the entry point of the precedence ladder (spec §4.2):
// assignment (right-assoc) > or > and > not > equality > comparison >
// bitor > bitand > bitxor > additive > multiplicative > unary > postfix.
func (p *Parser) parseExpr() *ast.Expr {
	return p.parseAssignment()
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.Assign:        ast.AssignPlain,
	token.PlusAssign:    ast.AssignAdd,
	token.MinusAssign:   ast.AssignSub,
	token.StarAssign:    ast.AssignMul,
	token.SlashAssign:   ast.AssignDiv,
	token.PercentAssign: ast.AssignMod,
}

func (p *Parser) parseAssignment() *ast.Expr {
	left := p.parseOr()
	if left == nil {
		return nil
	}

	if op, ok := assignOps[p.cur().Kind]; ok {
		p.advance()

		right := p.parseAssignment()
		if right == nil {
			return left
		}

		return &ast.Expr{Loc: source.Merge(left.Loc, right.Loc), Data: &ast.Assign{Op: op, Left: left, Right: right}}
	}

	return left
}

func (p *Parser) parseOr() *ast.Expr {
	left := p.parseAnd()
	if left == nil {
		return nil
	}

	for p.check(token.KwOr) {
		p.advance()

		right := p.parseAnd()
		if right == nil {
			return left
		}

		left = &ast.Expr{Loc: source.Merge(left.Loc, right.Loc), Data: &ast.Logical{Op: ast.OpOr, Left: left, Right: right}}
	}

	return left
}

func (p *Parser) parseAnd() *ast.Expr {
	left := p.parseNot()
	if left == nil {
		return nil
	}

	for p.check(token.KwAnd) {
		p.advance()

		right := p.parseNot()
		if right == nil {
			return left
		}

		left = &ast.Expr{Loc: source.Merge(left.Loc, right.Loc), Data: &ast.Logical{Op: ast.OpAnd, Left: left, Right: right}}
	}

	return left
}

// parseNot handles keyword `not`, which sits in its own precedence tier
// between `and` and `equality` (Python's `or < and < not < comparison`
// ordering); it compiles to the same ast.Unary{Op: OpNot} node that `!`
// produces at the unary tier, differing only in what it binds to.
func (p *Parser) parseNot() *ast.Expr {
	if p.check(token.KwNot) {
		tok := p.advance()

		operand := p.parseNot()
		if operand == nil {
			return nil
		}

		return &ast.Expr{Loc: source.Merge(tok.Loc, operand.Loc), Data: &ast.Unary{Op: ast.OpNot, Operand: operand}}
	}

	return p.parseEquality()
}

var equalityOps = map[token.Kind]ast.BinaryOp{
	token.EqualEqual: ast.OpEq,
	token.BangEqual:  ast.OpNeq,
}

var comparisonOps = map[token.Kind]ast.BinaryOp{
	token.Less:         ast.OpLt,
	token.LessEqual:    ast.OpLe,
	token.Greater:      ast.OpGt,
	token.GreaterEqual: ast.OpGe,
}

var bitOrOps = map[token.Kind]ast.BinaryOp{token.Pipe: ast.OpBitOr}
var bitAndOps = map[token.Kind]ast.BinaryOp{token.Amp: ast.OpBitAnd}
var bitXorOps = map[token.Kind]ast.BinaryOp{token.Caret: ast.OpBitXor}

var additiveOps = map[token.Kind]ast.BinaryOp{
	token.Plus:  ast.OpAdd,
	token.Minus: ast.OpSub,
}

var multiplicativeOps = map[token.Kind]ast.BinaryOp{
	token.Star:    ast.OpMul,
	token.Slash:   ast.OpDiv,
	token.Percent: ast.OpMod,
}

// parseBinaryLevel is the shared left-associative climbing step for every
// non-short-circuiting binary tier; next parses the next-tighter level.
func (p *Parser) parseBinaryLevel(next func() *ast.Expr, ops map[token.Kind]ast.BinaryOp) *ast.Expr {
	left := next()
	if left == nil {
		return nil
	}

	for {
		op, ok := ops[p.cur().Kind]
		if !ok {
			break
		}

		opTok := p.advance()

		right := next()
		if right == nil {
			return left
		}

		recordsDivisor := opTok.Kind == token.Slash || opTok.Kind == token.Percent
		left = &ast.Expr{
			Loc:  source.Merge(left.Loc, right.Loc),
			Data: &ast.Binary{Op: op, Left: left, Right: right, RecordsDivisor: recordsDivisor},
		}
	}

	return left
}

func (p *Parser) parseEquality() *ast.Expr   { return p.parseBinaryLevel(p.parseComparison, equalityOps) }
func (p *Parser) parseComparison() *ast.Expr  { return p.parseBinaryLevel(p.parseBitOr, comparisonOps) }
func (p *Parser) parseBitOr() *ast.Expr       { return p.parseBinaryLevel(p.parseBitAnd, bitOrOps) }
func (p *Parser) parseBitAnd() *ast.Expr      { return p.parseBinaryLevel(p.parseBitXor, bitAndOps) }
func (p *Parser) parseBitXor() *ast.Expr      { return p.parseBinaryLevel(p.parseAdditive, bitXorOps) }
func (p *Parser) parseAdditive() *ast.Expr    { return p.parseBinaryLevel(p.parseMultiplicative, additiveOps) }
func (p *Parser) parseMultiplicative() *ast.Expr {
	return p.parseBinaryLevel(p.parseUnary, multiplicativeOps)
}

// parseUnary handles the true prefix operators. `as`/`transmute` casts are
// postfix-position (parseCastChain), and `not` has its own tier above, so
// they are not handled here.
func (p *Parser) parseUnary() *ast.Expr {
	switch p.cur().Kind {
	case token.Minus:
		tok := p.advance()

		operand := p.parseUnary()
		if operand == nil {
			return nil
		}

		if lit, ok := operand.Data.(*ast.Literal); ok && lit.Kind == ast.LitInt && !lit.Tok.Literal.Signed {
			p.log.Error(diag.NegativeOnUnsignedInteger, operand.Loc, "cannot negate an unsigned integer literal")
		}

		return &ast.Expr{Loc: source.Merge(tok.Loc, operand.Loc), Data: &ast.Unary{Op: ast.OpNeg, Operand: operand}}
	case token.Bang:
		tok := p.advance()

		operand := p.parseUnary()
		if operand == nil {
			return nil
		}

		return &ast.Expr{Loc: source.Merge(tok.Loc, operand.Loc), Data: &ast.Unary{Op: ast.OpNot, Operand: operand}}
	case token.Star:
		tok := p.advance()

		operand := p.parseUnary()
		if operand == nil {
			return nil
		}

		return &ast.Expr{Loc: source.Merge(tok.Loc, operand.Loc), Data: &ast.Deref{Operand: operand}}
	case token.Amp:
		tok := p.advance()
		mutable := p.match(token.KwVar)

		operand := p.parseUnary()
		if operand == nil {
			return nil
		}

		return &ast.Expr{Loc: source.Merge(tok.Loc, operand.Loc), Data: &ast.Address{Mutable: mutable, Operand: operand}}
	case token.KwSizeof:
		tok := p.advance()

		target := p.parseAnnotation()
		if target == nil {
			return nil
		}

		return &ast.Expr{Loc: source.Merge(tok.Loc, target.Loc), Data: &ast.SizeOf{Target: target}}
	default:
		return p.parseCastChain()
	}
}

func (p *Parser) parseCastChain() *ast.Expr {
	e := p.parsePostfix()
	if e == nil {
		return nil
	}

	for {
		var kind ast.CastKind

		switch {
		case p.check(token.KwAs):
			kind = ast.CastAs
		case p.check(token.KwTransmute):
			kind = ast.CastTransmute
		default:
			return e
		}

		p.advance()

		target := p.parseAnnotation()
		if target == nil {
			return e
		}

		e = &ast.Expr{Loc: source.Merge(e.Loc, target.Loc), Data: &ast.Cast{Kind: kind, Operand: e, Target: target}}
	}
}

func (p *Parser) parsePostfix() *ast.Expr {
	e := p.parsePrimary()
	if e == nil {
		return nil
	}

	for {
		switch {
		case p.match(token.Dot):
			if p.check(token.IntLiteral) {
				idxTok := p.advance()
				idx := p.tupleIndexValue(idxTok)
				e = &ast.Expr{
					Loc:  source.Merge(e.Loc, idxTok.Loc),
					Data: &ast.Access{Operand: e, Name: idxTok, IsIndex: true, Index: idx},
				}

				continue
			}

			nameTok, ok := p.expect(token.Identifier, diag.UnexpectedTokenAfterDot, "expected a field name after '.'")
			if !ok {
				return e
			}

			e = &ast.Expr{Loc: source.Merge(e.Loc, nameTok.Loc), Data: &ast.Access{Operand: e, Name: nameTok}}
		case p.check(token.LBracket):
			p.advance()

			idx := p.parseExpr()

			closeTok, ok := p.expect(token.RBracket, diag.UnexpectedToken, "expected ']'")

			loc := e.Loc
			if ok {
				loc = source.Merge(e.Loc, closeTok.Loc)
			}

			e = &ast.Expr{Loc: loc, Data: &ast.Subscript{Operand: e, Index: idx}}
		case p.check(token.LParen):
			p.advance()

			args := p.parseArgs()

			closeTok, ok := p.expect(token.RParen, diag.UnexpectedClosingParen, "expected ')'")

			loc := e.Loc
			if ok {
				loc = source.Merge(e.Loc, closeTok.Loc)
			}

			e = &ast.Expr{Loc: loc, Data: &ast.Call{Callee: e, Args: args}}
		default:
			return e
		}
	}
}

func (p *Parser) tupleIndexValue(tok token.Token) int {
	d, code := numlit.Decode(tok.Lexeme())
	if code != diag.Null {
		return 0
	}

	v, err := strconv.ParseInt(d.IntDigits, int(d.Base), 64)
	if err != nil || v < 0 {
		p.log.Error(diag.TupleIndexOutOfRange, tok.Loc, "tuple index out of range")
		return 0
	}

	return int(v)
}

// parseArgs parses a call's argument list, enforcing that every named
// argument (`name = value`) comes after all positional ones.
func (p *Parser) parseArgs() []ast.Arg {
	var args []ast.Arg

	sawNamed := false

	if p.check(token.RParen) {
		return args
	}

	for {
		if p.check(token.Identifier) && p.peekAt(1).Kind == token.Assign {
			nameTok := p.advance()
			p.advance() // '='

			val := p.parseExpr()
			args = append(args, ast.Arg{Name: nameTok, Named: true, Value: val})
			sawNamed = true
		} else {
			if sawNamed {
				p.errorHere(diag.PosArgumentAfterNamedArgument, "positional argument after named argument")
			}

			val := p.parseExpr()
			args = append(args, ast.Arg{Value: val})
		}

		if !p.match(token.Comma) {
			break
		}

		if p.check(token.RParen) {
			break // trailing comma
		}
	}

	return args
}

func isBlockStarter(k token.Kind) bool {
	switch k {
	case token.KwBlock, token.KwUnsafe, token.KwLoop, token.KwWhile, token.KwDo, token.LBrace:
		return true
	default:
		return false
	}
}

func (p *Parser) parsePrimary() *ast.Expr {
	if p.repl && p.atEof() {
		p.pause()
		return nil
	}

	tok := p.cur()

	switch tok.Kind {
	case token.IntLiteral, token.FloatLiteral, token.BoolLiteral, token.StringLiteral, token.NullptrLiteral:
		return p.parseLiteral()
	case token.Identifier:
		if p.peekAt(1).Kind == token.Colon && isBlockStarter(p.peekAt(2).Kind) {
			labelTok := p.advance()
			p.advance() // ':'

			return p.parseLabelledConstruct(labelTok.Lexeme())
		}

		name := p.parseName(false)

		return &ast.Expr{Loc: tok.Loc, Data: &ast.NameRef{Name: name}}
	case token.LParen:
		return p.parseParenOrTuple()
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.KwAlloc:
		return p.parseAlloc()
	case token.KwBlock:
		p.advance()
		return p.parseBlockBody(ast.BlockPlain, "", false)
	case token.KwUnsafe:
		p.advance()
		p.expect(token.KwBlock, diag.NotABlock, "expected 'block' after 'unsafe'")

		return p.parseBlockBody(ast.BlockPlain, "", true)
	case token.LBrace:
		return p.parseBlockBody(ast.BlockPlain, "", false)
	case token.KwIf:
		return p.parseConditional()
	case token.KwWhile:
		return p.parseWhileLoop("")
	case token.KwDo:
		return p.parseDoWhileLoop("")
	case token.KwLoop:
		return p.parseInfiniteLoop("")
	case token.KwVar:
		p.errorHere(diag.UnexpectedVarInExpression, "'var' is not valid here")
		p.advance()

		return nil
	default:
		p.errorHere(diag.NotAnExpression, "expected an expression")
		p.advance()

		return nil
	}
}

func (p *Parser) parseLabelledConstruct(label string) *ast.Expr {
	switch p.cur().Kind {
	case token.KwBlock:
		p.advance()
		return p.parseBlockBody(ast.BlockPlain, label, false)
	case token.KwUnsafe:
		p.advance()
		p.expect(token.KwBlock, diag.NotABlock, "expected 'block' after 'unsafe'")

		return p.parseBlockBody(ast.BlockPlain, label, true)
	case token.LBrace:
		return p.parseBlockBody(ast.BlockPlain, label, false)
	case token.KwLoop:
		return p.parseInfiniteLoop(label)
	case token.KwWhile:
		return p.parseWhileLoop(label)
	case token.KwDo:
		return p.parseDoWhileLoop(label)
	default:
		p.errorHere(diag.NotABlock, "expected a block or loop after label")
		return nil
	}
}

func (p *Parser) parseParenOrTuple() *ast.Expr {
	openTok := p.advance() // '('

	if p.match(token.RParen) {
		return &ast.Expr{Loc: openTok.Loc, Data: &ast.Tuple{}}
	}

	first := p.parseExpr()
	if first == nil {
		return nil
	}

	if p.check(token.Comma) {
		elems := []*ast.Expr{first}

		for p.match(token.Comma) {
			if p.check(token.RParen) {
				break // trailing comma
			}

			elems = append(elems, p.parseExpr())
		}

		p.expect(token.RParen, diag.UnexpectedClosingParen, "expected ')'")

		return &ast.Expr{Loc: openTok.Loc, Data: &ast.Tuple{Elems: elems}}
	}

	p.expect(token.RParen, diag.UnexpectedClosingParen, "expected ')'")

	return first
}

func (p *Parser) parseArrayLiteral() *ast.Expr {
	openTok := p.advance() // '['

	var elems []*ast.Expr

	if !p.check(token.RBracket) {
		elems = append(elems, p.parseExpr())

		for p.match(token.Comma) {
			if p.check(token.RBracket) {
				break
			}

			elems = append(elems, p.parseExpr())
		}
	}

	p.expect(token.RBracket, diag.UnexpectedToken, "expected ']'")

	return &ast.Expr{Loc: openTok.Loc, Data: &ast.Array{Elems: elems}}
}

func (p *Parser) parseAlloc() *ast.Expr {
	tok := p.advance() // 'alloc'

	target := p.parseAnnotation()
	if target == nil {
		return nil
	}

	var size *ast.Expr

	if p.match(token.LBracket) {
		size = p.parseExpr()
		p.expect(token.RBracket, diag.UnexpectedToken, "expected ']'")
	}

	return &ast.Expr{Loc: tok.Loc, Data: &ast.Alloc{Target: target, Size: size}}
}

func (p *Parser) parseConditional() *ast.Expr {
	startTok := p.advance() // 'if'

	var arms []ast.ConditionalArm

	cond := p.parseExpr()

	body := p.parseIfArmBody()
	if body == nil {
		return nil
	}

	arms = append(arms, ast.ConditionalArm{Cond: cond, Body: body})

	for p.check(token.KwElif) {
		p.advance()

		c := p.parseExpr()

		b := p.parseIfArmBody()
		if b == nil {
			break
		}

		arms = append(arms, ast.ConditionalArm{Cond: c, Body: b})
	}

	if p.match(token.KwElse) {
		if b := p.parseElseArmBody(); b != nil {
			arms = append(arms, ast.ConditionalArm{Cond: nil, Body: b})
		}
	}

	return &ast.Expr{Loc: startTok.Loc, Data: &ast.Conditional{Arms: arms}}
}

func (p *Parser) parseIfArmBody() *ast.Expr {
	switch {
	case p.match(token.KwThen):
		st := p.parseInlineStmt()
		return p.wrapStmtAsBlock(ast.BlockPlain, "", st)
	case p.check(token.Colon), p.check(token.LBrace):
		return p.parseBlockBody(ast.BlockPlain, "", false)
	default:
		p.errorHere(diag.ConditionalWithoutThenOrBlock, "expected 'then' or a block")
		return nil
	}
}

func (p *Parser) parseElseArmBody() *ast.Expr {
	switch {
	case p.check(token.Colon), p.check(token.LBrace):
		return p.parseBlockBody(ast.BlockPlain, "", false)
	default:
		st := p.parseInlineStmt()
		return p.wrapStmtAsBlock(ast.BlockPlain, "", st)
	}
}

func (p *Parser) parseWhileLoop(label string) *ast.Expr {
	startTok := p.advance() // 'while'

	cond := p.parseExpr()

	var body *ast.Expr

	switch {
	case p.match(token.KwDo):
		st := p.parseInlineStmt()
		body = p.wrapStmtAsBlock(ast.BlockLoop, label, st)
	case p.check(token.Colon), p.check(token.LBrace):
		body = p.parseBlockBody(ast.BlockLoop, label, false)
	default:
		p.errorHere(diag.WhileLoopWithoutDoOrBlock, "expected 'do' or a block")
		return nil
	}

	if body == nil {
		return nil
	}

	return &ast.Expr{Loc: startTok.Loc, Data: &ast.Loop{Form: ast.LoopWhile, Cond: cond, Body: body}}
}

func (p *Parser) parseInfiniteLoop(label string) *ast.Expr {
	startTok := p.advance() // 'loop'

	body := p.parseBlockBody(ast.BlockLoop, label, false)
	if body == nil {
		return nil
	}

	return &ast.Expr{Loc: startTok.Loc, Data: &ast.Loop{Form: ast.LoopInfinite, Body: body}}
}

func (p *Parser) parseDoWhileLoop(label string) *ast.Expr {
	startTok := p.advance() // 'do'

	var body *ast.Expr

	if p.check(token.Colon) || p.check(token.LBrace) {
		body = p.parseBlockBody(ast.BlockLoop, label, false)
	} else {
		st := p.parseInlineStmt()
		body = p.wrapStmtAsBlock(ast.BlockLoop, label, st)
	}

	if body == nil {
		return nil
	}

	if _, ok := p.expect(token.KwWhile, diag.DoWhileLoopWithoutWhile, "expected 'while' after loop body"); !ok {
		return nil
	}

	cond := p.parseExpr()

	return &ast.Expr{Loc: startTok.Loc, Data: &ast.Loop{Form: ast.LoopDoWhile, Cond: cond, Body: body}}
}

func (p *Parser) parseLiteral() *ast.Expr {
	tok := p.advance()

	switch tok.Kind {
	case token.IntLiteral:
		tok = p.decodeIntLiteral(tok)
		return &ast.Expr{Loc: tok.Loc, Data: &ast.Literal{Kind: ast.LitInt, Tok: tok}}
	case token.FloatLiteral:
		tok = p.decodeFloatLiteral(tok)
		return &ast.Expr{Loc: tok.Loc, Data: &ast.Literal{Kind: ast.LitFloat, Tok: tok}}
	case token.BoolLiteral:
		return &ast.Expr{Loc: tok.Loc, Data: &ast.Literal{Kind: ast.LitBool, Tok: tok}}
	case token.StringLiteral:
		return &ast.Expr{Loc: tok.Loc, Data: &ast.Literal{Kind: ast.LitString, Tok: tok}}
	default: // token.NullptrLiteral
		return &ast.Expr{Loc: tok.Loc, Data: &ast.Literal{Kind: ast.LitNullptr, Tok: tok}}
	}
}

func widthBits(w token.IntWidth) int {
	switch w {
	case token.Width8:
		return 8
	case token.Width16:
		return 16
	case token.Width64:
		return 64
	default:
		return 32
	}
}

// decodeIntLiteral re-runs numlit.Decode on the token's own lexeme (the
// lexer deliberately leaves IntValue unset, spec §4.1/§4.2 split) and
// performs the width/overflow check the lexer defers to the parser.
func (p *Parser) decodeIntLiteral(tok token.Token) token.Token {
	d, code := numlit.Decode(tok.Lexeme())
	if code != diag.Null {
		return tok // already validated during lexing; unreachable in practice
	}

	val, err := strconv.ParseUint(d.IntDigits, int(d.Base), 64)
	overflow := err != nil

	width := widthBits(tok.Literal.IntWidth)

	if !overflow {
		var max uint64

		if tok.Literal.Signed {
			if width == 64 {
				max = 1<<63 - 1
			} else {
				max = uint64(1)<<(width-1) - 1
			}
		} else {
			if width == 64 {
				max = ^uint64(0)
			} else {
				max = uint64(1)<<width - 1
			}
		}

		if val > max {
			overflow = true
		}
	}

	if overflow {
		p.log.Error(diag.NumberOutOfRange, tok.Loc, "integer literal out of range for its width")
	}

	tok.Literal.IntValue = val

	return tok
}

func (p *Parser) decodeFloatLiteral(tok token.Token) token.Token {
	lexeme := tok.Lexeme()

	// The inf/NaN keyword spellings are already fully populated by the
	// lexer's scanIdentifier, bypassing numlit entirely.
	if lexeme == "inf" || lexeme == "NaN" {
		return tok
	}

	d, code := numlit.Decode(lexeme)
	if code != diag.Null {
		return tok
	}

	numStr := d.IntDigits
	if d.HasFrac {
		numStr += "." + d.FracDigits
	}

	if d.HasExp {
		numStr += "e" + d.ExpSign + d.ExpDigits
	}

	bits := 64
	if tok.Literal.FloatWidth == token.WidthF32 {
		bits = 32
	}

	val, err := strconv.ParseFloat(numStr, bits)
	if err != nil && errors.Is(err, strconv.ErrRange) {
		p.log.Error(diag.NumberOutOfRange, tok.Loc, "float literal out of range for its width")
	}

	tok.Literal.FloatValue = val

	return tok
}
