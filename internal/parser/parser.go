// Package parser implements the recursive-descent, Pratt-style expression
// parser that turns a token.Token stream into the ast statement list,
// grounded on the same cursor-over-a-flat-stream shape as the teacher's
// token/lexer.go (start/cur bookkeeping, small peek/advance/match
// helpers, log-and-continue error handling) adapted from a rune cursor
// to a token cursor.
package parser

import (
	"github.com/brian-m/nico/internal/ast"
	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/token"
)

// Status is the outcome of a Parse call.
type Status int

const (
	// StatusOK means the token stream was parsed with no errors.
	StatusOK Status = iota
	// StatusError means at least one parser (or earlier-stage) error was
	// logged.
	StatusError
	// StatusPause means parsing stopped mid-construct in interactive mode
	// (an unmatched grouping token, a missing block body, an unfinished
	// if/while/func) so the driver may request more input and re-parse.
	StatusPause
)

// Result is what Parse returns: the parsed statements and the overall
// status.
type Result struct {
	Stmts  []*ast.Stmt
	Status Status
}

// Parser consumes one token slice left to right and produces statements.
// It does not own or append to the frontend context's statement list
// directly; the caller decides how parsed statements are merged in
// (spec §2: "a persistent frontend context ... reusable across
// interactive submissions").
type Parser struct {
	tokens []token.Token
	pos    int

	repl bool
	log  *diag.Log

	status Status
}

// New returns a Parser ready to consume tokens. repl enables
// interactive-pause behavior, mirroring lexer.New.
func New(tokens []token.Token, repl bool, log *diag.Log) *Parser {
	return &Parser{tokens: tokens, repl: repl, log: log}
}

// Parse runs the parser to completion (or to a pause point in REPL mode).
func Parse(tokens []token.Token, repl bool, log *diag.Log) Result {
	p := New(tokens, repl, log)
	return p.run()
}

func (p *Parser) run() Result {
	var stmts []*ast.Stmt

	for {
		p.skipSeparators()

		if p.atEof() {
			stmts = append(stmts, &ast.Stmt{Loc: p.cur().Loc, Data: &ast.Eof{}})
			break
		}

		st, ok := p.parseStatement()
		if p.status == StatusPause {
			return Result{Stmts: stmts, Status: StatusPause}
		}

		if ok {
			stmts = append(stmts, st)
		}
	}

	if p.log.HasErrors() {
		return Result{Stmts: stmts, Status: StatusError}
	}

	return Result{Stmts: stmts, Status: StatusOK}
}

// --- cursor primitives ---

func (p *Parser) cur() token.Token {
	return p.peekAt(0)
}

// peekAt returns the token n positions ahead of the cursor. Running off
// the end of the stream synthesizes an Eof token rather than repeating
// the last real token: in REPL mode the lexer can pause mid-construct
// without ever emitting its own Eof (an open grouping stops the scan
// outright), so the parser must still be able to recognize "out of
// input" from the token kind alone.
func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return token.New(token.Eof, source.Location{})
		}

		return token.New(token.Eof, p.tokens[len(p.tokens)-1].Loc)
	}

	return p.tokens[i]
}

func (p *Parser) check(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}

	return tok
}

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}

	return false
}

func (p *Parser) atEof() bool {
	return p.check(token.Eof)
}

func (p *Parser) pause() {
	p.status = StatusPause
}

func (p *Parser) failed() bool {
	return p.status == StatusPause
}

func (p *Parser) errorHere(code diag.Code, msg string) {
	p.log.Error(code, p.cur().Loc, msg)
}

// expect consumes the current token if it has kind k, else logs code/msg
// at the current location and returns ok=false. In REPL mode, running out
// of input while expecting a token pauses rather than errors, since that
// is exactly the "ran out of tokens mid-construct" case spec §4.2
// describes.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}

	if p.repl && p.atEof() {
		p.pause()
		return token.Token{}, false
	}

	p.errorHere(code, msg)

	return token.Token{}, false
}

func (p *Parser) skipSeparators() {
	for p.check(token.Newline) || p.check(token.Semicolon) {
		p.advance()
	}
}

// synchronize skips tokens until the next statement boundary, per spec
// §4.2's recovery policy ("on parse error, log, then skip tokens until
// the next statement boundary before resuming").
func (p *Parser) synchronize() {
	for !p.atEof() {
		if p.cur().IsStatementTerminator() {
			if p.check(token.Newline) || p.check(token.Semicolon) {
				p.advance()
			}

			return
		}

		p.advance()
	}
}

// consumeStatementEnd consumes the terminator following a statement. A
// Dedent, Eof, or closing brace is left in place for the enclosing suite
// reader to see.
func (p *Parser) consumeStatementEnd() bool {
	switch {
	case p.check(token.Newline), p.check(token.Semicolon):
		p.advance()
		return true
	case p.check(token.Dedent), p.atEof(), p.check(token.RBrace):
		return true
	default:
		p.errorHere(diag.UnexpectedToken, "expected end of statement")
		p.synchronize()

		return false
	}
}

func (p *Parser) atStatementEnd() bool {
	return p.cur().IsStatementTerminator() || p.check(token.RBrace)
}

// atInlineEnd is atStatementEnd extended with the keywords that can
// legally follow an inline `then`/`do`/`else` body on the same line
// (spec §4.2: "if c then e elif ... else ...", "while c do e").
func (p *Parser) atInlineEnd() bool {
	if p.atStatementEnd() {
		return true
	}

	switch p.cur().Kind {
	case token.KwElif, token.KwElse, token.KwWhile:
		return true
	default:
		return false
	}
}

// parseInlineStmt parses the single statement that can appear as an
// inline `then`/`do`/`else` body, without consuming a trailing statement
// terminator (the construct continues on the same line).
func (p *Parser) parseInlineStmt() *ast.Stmt {
	switch {
	case p.check(token.KwPass):
		tok := p.advance()
		return &ast.Stmt{Loc: tok.Loc, Data: &ast.Pass{}}
	case p.check(token.KwReturn):
		tok := p.advance()

		var val *ast.Expr
		if !p.atInlineEnd() {
			val = p.parseExpr()
		}

		return &ast.Stmt{Loc: tok.Loc, Data: &ast.Return{Value: val}}
	case p.check(token.KwBreak):
		tok := p.advance()
		label := p.parseLabelOpt()

		var val *ast.Expr
		if !p.atInlineEnd() {
			val = p.parseExpr()
		}

		return &ast.Stmt{Loc: tok.Loc, Data: &ast.Break{Label: label, Value: val}}
	case p.check(token.KwContinue):
		tok := p.advance()
		label := p.parseLabelOpt()

		return &ast.Stmt{Loc: tok.Loc, Data: &ast.Continue{Label: label}}
	case p.check(token.KwYield):
		tok := p.advance()
		label := p.parseLabelOpt()

		var val *ast.Expr
		if !p.atInlineEnd() {
			val = p.parseExpr()
		}

		return &ast.Stmt{Loc: tok.Loc, Data: &ast.Yield{Label: label, Value: val}}
	case p.check(token.KwDealloc):
		tok := p.advance()
		target := p.parseExpr()

		return &ast.Stmt{Loc: tok.Loc, Data: &ast.Dealloc{Target: target}}
	default:
		e := p.parseExpr()
		if e == nil {
			return nil
		}

		return &ast.Stmt{Loc: e.Loc, Data: &ast.ExprStmt{Expr: e}}
	}
}

// parseLabelOpt consumes an optional `:label` prefix, used by yield,
// break, and continue (spec §4.4: "if a label is present, resolves to the
// labelled enclosing block"); ast.Print's debug dumper renders labels the
// same way (" :label"), which is what fixes the source spelling here.
func (p *Parser) parseLabelOpt() string {
	if p.check(token.Colon) && p.peekAt(1).Kind == token.Identifier {
		p.advance()
		return p.advance().Lexeme()
	}

	return ""
}

// --- statement dispatch ---

func (p *Parser) parseStatement() (*ast.Stmt, bool) {
	switch {
	case p.check(token.KwLet):
		return p.parseLetStmt()
	case p.check(token.KwFunc):
		return p.parseFuncStmt()
	case p.check(token.KwStruct), p.check(token.KwClass):
		return p.parseStructDecl()
	case p.check(token.KwNamespace):
		return p.parseNamespaceDecl()
	case p.check(token.KwEnum):
		return p.parseEnumDecl()
	case p.check(token.KwPrint):
		return p.parsePrintStmt()
	case p.check(token.KwPass):
		return p.parsePassStmt()
	case p.check(token.KwYield):
		return p.parseYieldStmt()
	case p.check(token.KwContinue):
		return p.parseContinueStmt()
	case p.check(token.KwBreak):
		return p.parseBreakStmt()
	case p.check(token.KwReturn):
		return p.parseReturnStmt()
	case p.check(token.KwDealloc):
		return p.parseDeallocStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseLetStmt() (*ast.Stmt, bool) {
	startTok := p.advance() // 'let'
	mutable := p.match(token.KwVar)

	nameTok, ok := p.expect(token.Identifier, diag.NotAnIdentifier, "expected a name after 'let'")
	if !ok {
		if !p.failed() {
			p.synchronize()
		}

		return nil, false
	}

	var ann *ast.Annotation
	if p.match(token.Colon) {
		ann = p.parseAnnotation()
	}

	var initExpr *ast.Expr
	if p.match(token.Assign) {
		initExpr = p.parseExpr()
	}

	if ann == nil && initExpr == nil {
		p.log.Error(diag.LetWithoutTypeOrValue, nameTok.Loc, "'let' needs a type annotation or an initializer")
	}

	stmt := &ast.Stmt{Loc: startTok.Loc, Data: &ast.Let{Mutable: mutable, NameTok: nameTok, Annotation: ann, Init: initExpr}}
	p.consumeStatementEnd()

	return stmt, true
}

func (p *Parser) parseFuncStmt() (*ast.Stmt, bool) {
	startTok := p.advance() // 'func'

	nameTok, ok := p.expect(token.Identifier, diag.NotAnIdentifier, "expected a function name")
	if !ok {
		return nil, false
	}

	if _, ok := p.expect(token.LParen, diag.FuncWithoutOpeningParen, "expected '(' after function name"); !ok {
		return nil, false
	}

	params := p.parseParams()
	if p.failed() {
		return nil, false
	}

	p.expect(token.RParen, diag.UnexpectedClosingParen, "expected ')'")

	var ret *ast.Annotation
	if p.match(token.Arrow) {
		ret = p.parseAnnotation()
	}

	var body *ast.Expr

	switch {
	case p.match(token.FatArrow):
		body = p.parseExpr()
	case p.check(token.Colon), p.check(token.LBrace):
		body = p.parseBlockBody(ast.BlockFunction, "", false)
	default:
		p.errorHere(diag.FuncWithoutArrowOrBlock, "expected '=>' or a block body")
	}

	if p.failed() {
		return nil, false
	}

	stmt := &ast.Stmt{Loc: startTok.Loc, Data: &ast.Func{NameTok: nameTok, Params: params, Return: ret, Body: body}}
	p.consumeStatementEnd()

	return stmt, true
}

func (p *Parser) parseParams() []ast.Param {
	var params []ast.Param

	for !p.check(token.RParen) && !p.atEof() {
		nameTok, ok := p.expect(token.Identifier, diag.NotAnIdentifier, "expected a parameter name")
		if !ok {
			return params
		}

		var ann *ast.Annotation
		if p.match(token.Colon) {
			ann = p.parseAnnotation()
		}

		var def *ast.Expr
		if p.match(token.Assign) {
			def = p.parseExpr()
		}

		params = append(params, ast.Param{NameTok: nameTok, Annotation: ann, Default: def})

		if !p.match(token.Comma) {
			break
		}
	}

	return params
}

func (p *Parser) parseStructDecl() (*ast.Stmt, bool) {
	startTok := p.advance() // 'struct' or 'class'
	isClass := startTok.Kind == token.KwClass

	nameTok, ok := p.expect(token.Identifier, diag.NotAnIdentifier, "expected a struct name")
	if !ok {
		return nil, false
	}

	fields, body := p.parseStructMembers()
	if p.failed() {
		return nil, false
	}

	stmt := &ast.Stmt{Loc: startTok.Loc, Data: &ast.StructDecl{NameTok: nameTok, IsClass: isClass, Fields: fields, Body: body}}
	p.consumeStatementEnd()

	return stmt, true
}

func (p *Parser) parseStructMembers() ([]ast.Field, []*ast.Stmt) {
	var fields []ast.Field

	var body []*ast.Stmt

	parseOne := func() bool {
		switch {
		case p.check(token.KwFunc):
			st, ok := p.parseFuncStmt()
			if ok {
				body = append(body, st)
			}

			return true
		case p.check(token.KwLet):
			st, ok := p.parseLetStmt()
			if ok {
				body = append(body, st)
			}

			return true
		case p.check(token.Identifier):
			nameTok := p.advance()

			if _, ok := p.expect(token.Colon, diag.UnexpectedToken, "expected ':' after field name"); !ok {
				return !p.failed()
			}

			ann := p.parseAnnotation()
			fields = append(fields, ast.Field{NameTok: nameTok, Annotation: ann})

			return true
		default:
			p.errorHere(diag.UnexpectedToken, "expected a field, 'func', or 'let'")
			return true
		}
	}

	p.parseMemberBlock(parseOne)

	return fields, body
}

func (p *Parser) parseNamespaceDecl() (*ast.Stmt, bool) {
	startTok := p.advance() // 'namespace'

	nameTok, ok := p.expect(token.Identifier, diag.NotAnIdentifier, "expected a namespace name")
	if !ok {
		return nil, false
	}

	var body []*ast.Stmt

	parseOne := func() bool {
		st, ok := p.parseStatement()
		if p.failed() {
			return false
		}

		if ok {
			body = append(body, st)
		}

		return true
	}

	p.parseMemberBlock(parseOne)

	if p.failed() {
		return nil, false
	}

	stmt := &ast.Stmt{Loc: startTok.Loc, Data: &ast.NamespaceDecl{NameTok: nameTok, Body: body}}
	p.consumeStatementEnd()

	return stmt, true
}

func (p *Parser) parseEnumDecl() (*ast.Stmt, bool) {
	startTok := p.advance() // 'enum'

	nameTok, ok := p.expect(token.Identifier, diag.NotAnIdentifier, "expected an enum name")
	if !ok {
		return nil, false
	}

	var variants []ast.EnumVariant

	parseOne := func() bool {
		vTok, ok := p.expect(token.Identifier, diag.NotAnIdentifier, "expected a variant name")
		if !ok {
			return !p.failed()
		}

		var payload []*ast.Annotation

		if p.match(token.LParen) {
			if !p.check(token.RParen) {
				payload = append(payload, p.parseAnnotation())
				for p.match(token.Comma) {
					payload = append(payload, p.parseAnnotation())
				}
			}

			p.expect(token.RParen, diag.UnexpectedClosingParen, "expected ')'")
		}

		variants = append(variants, ast.EnumVariant{NameTok: vTok, Payload: payload})

		return true
	}

	p.parseMemberBlock(parseOne)

	if p.failed() {
		return nil, false
	}

	stmt := &ast.Stmt{Loc: startTok.Loc, Data: &ast.EnumDecl{NameTok: nameTok, Variants: variants}}
	p.consumeStatementEnd()

	return stmt, true
}

func (p *Parser) parsePrintStmt() (*ast.Stmt, bool) {
	startTok := p.advance() // 'print'

	args := []*ast.Expr{p.parseExpr()}
	for p.match(token.Comma) {
		args = append(args, p.parseExpr())
	}

	stmt := &ast.Stmt{Loc: startTok.Loc, Data: &ast.Print{Args: args}}
	p.consumeStatementEnd()

	return stmt, true
}

func (p *Parser) parsePassStmt() (*ast.Stmt, bool) {
	tok := p.advance()
	stmt := &ast.Stmt{Loc: tok.Loc, Data: &ast.Pass{}}
	p.consumeStatementEnd()

	return stmt, true
}

func (p *Parser) parseYieldStmt() (*ast.Stmt, bool) {
	tok := p.advance()
	label := p.parseLabelOpt()

	var val *ast.Expr
	if !p.atStatementEnd() {
		val = p.parseExpr()
	}

	stmt := &ast.Stmt{Loc: tok.Loc, Data: &ast.Yield{Label: label, Value: val}}
	p.consumeStatementEnd()

	return stmt, true
}

func (p *Parser) parseContinueStmt() (*ast.Stmt, bool) {
	tok := p.advance()
	label := p.parseLabelOpt()
	stmt := &ast.Stmt{Loc: tok.Loc, Data: &ast.Continue{Label: label}}
	p.consumeStatementEnd()

	return stmt, true
}

func (p *Parser) parseBreakStmt() (*ast.Stmt, bool) {
	tok := p.advance()
	label := p.parseLabelOpt()

	var val *ast.Expr
	if !p.atStatementEnd() {
		val = p.parseExpr()
	}

	stmt := &ast.Stmt{Loc: tok.Loc, Data: &ast.Break{Label: label, Value: val}}
	p.consumeStatementEnd()

	return stmt, true
}

func (p *Parser) parseReturnStmt() (*ast.Stmt, bool) {
	tok := p.advance()

	var val *ast.Expr
	if !p.atStatementEnd() {
		val = p.parseExpr()
	}

	stmt := &ast.Stmt{Loc: tok.Loc, Data: &ast.Return{Value: val}}
	p.consumeStatementEnd()

	return stmt, true
}

func (p *Parser) parseDeallocStmt() (*ast.Stmt, bool) {
	tok := p.advance()
	target := p.parseExpr()
	stmt := &ast.Stmt{Loc: tok.Loc, Data: &ast.Dealloc{Target: target}}
	p.consumeStatementEnd()

	return stmt, true
}

func (p *Parser) parseExprStmt() (*ast.Stmt, bool) {
	e := p.parseExpr()
	if e == nil {
		if !p.failed() {
			p.synchronize()
		}

		return nil, false
	}

	stmt := &ast.Stmt{Loc: e.Loc, Data: &ast.ExprStmt{Expr: e}}
	p.consumeStatementEnd()

	return stmt, true
}
