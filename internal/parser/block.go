package parser

import (
	"github.com/brian-m/nico/internal/ast"
	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/token"
)

// parseBlockBody parses a block body in whichever of the two surface forms
// follows: brace-delimited, or colon-introduced (spec §4.2: "Blocks are
// expressions: `block`, `unsafe block`, `{ ... }`").
func (p *Parser) parseBlockBody(kind ast.BlockKind, label string, unsafe bool) *ast.Expr {
	if p.check(token.LBrace) {
		return p.parseBraceBlock(kind, label, unsafe)
	}

	return p.parseColonSuiteBlock(kind, label, unsafe)
}

// parseBraceBlock reads `{ stmt (; stmt)* }`. Braces push the lexer's
// grouping stack, so newlines inside are suppressed; statements are
// separated by ';' instead.
func (p *Parser) parseBraceBlock(kind ast.BlockKind, label string, unsafe bool) *ast.Expr {
	openTok, ok := p.expect(token.LBrace, diag.NotABlock, "expected '{'")
	if !ok {
		return nil
	}

	var stmts []*ast.Stmt

	for !p.check(token.RBrace) {
		if p.atEof() {
			if p.repl {
				p.pause()
				return nil
			}

			p.errorHere(diag.NotABlock, "unterminated block")

			break
		}

		st, ok := p.parseStatement()
		if p.failed() {
			return nil
		}

		if ok {
			stmts = append(stmts, st)
		}

		if p.check(token.Semicolon) {
			p.advance()
		}
	}

	loc := openTok.Loc
	if closeTok, ok := p.expect(token.RBrace, diag.NotABlock, "expected '}'"); ok {
		loc = source.Merge(openTok.Loc, closeTok.Loc)
	}

	return &ast.Expr{Loc: loc, Data: &ast.Block{Kind: kind, Label: label, Unsafe: unsafe, Stmts: stmts}}
}

// parseColonSuiteBlock reads `: suite`, either a single inline statement
// right after the colon, or an indented block opened by the lexer's
// synthetic Indent token (consumeIndentation emits Indent only once the
// following line's indentation increases past a line ending in ':').
func (p *Parser) parseColonSuiteBlock(kind ast.BlockKind, label string, unsafe bool) *ast.Expr {
	colonTok, ok := p.expect(token.Colon, diag.NotABlock, "expected ':'")
	if !ok {
		return nil
	}

	var stmts []*ast.Stmt

	if p.match(token.Newline) {
		if !p.check(token.Indent) {
			if p.atEof() && p.repl {
				p.pause()
				return nil
			}

			p.errorHere(diag.NotABlock, "expected an indented block")

			return &ast.Expr{Loc: colonTok.Loc, Data: &ast.Block{Kind: kind, Label: label, Unsafe: unsafe}}
		}

		p.advance() // Indent

		for !p.check(token.Dedent) {
			if p.atEof() {
				if p.repl {
					p.pause()
					return nil
				}

				p.errorHere(diag.NotABlock, "unterminated block")

				break
			}

			st, ok := p.parseStatement()
			if p.failed() {
				return nil
			}

			if ok {
				stmts = append(stmts, st)
			}
		}

		if p.check(token.Dedent) {
			p.advance()
		}
	} else {
		st, ok := p.parseStatement()
		if p.failed() {
			return nil
		}

		if ok {
			stmts = append(stmts, st)
		}
	}

	return &ast.Expr{Loc: colonTok.Loc, Data: &ast.Block{Kind: kind, Label: label, Unsafe: unsafe, Stmts: stmts}}
}

// wrapStmtAsBlock lifts a single statement (the `then s` / `do s` / `else
// s` inline forms) into a one-statement Block, so every
// ConditionalArm.Body and Loop.Body is uniformly "always a Block" as the
// AST doc promises. label threads a loop label through to the inline
// form the same way parseBlockBody does for the colon/brace forms, so
// `outer: while c do break :outer` resolves (spec §4.2: a label may
// precede any loop form).
func (p *Parser) wrapStmtAsBlock(kind ast.BlockKind, label string, st *ast.Stmt) *ast.Expr {
	if st == nil {
		return nil
	}

	return &ast.Expr{Loc: st.Loc, Data: &ast.Block{Kind: kind, Label: label, Stmts: []*ast.Stmt{st}}}
}

// parseMemberBlock reads a struct/namespace/enum declaration body, in
// either brace or colon-suite form, calling parseOne for every member.
// parseOne returns false to request error recovery to the next member
// boundary; it returns true (even on a logged error) when it already
// advanced past the broken member itself.
func (p *Parser) parseMemberBlock(parseOne func() bool) {
	if p.check(token.LBrace) {
		p.advance()

		for !p.check(token.RBrace) {
			if p.atEof() {
				if p.repl {
					p.pause()
					return
				}

				p.errorHere(diag.NotABlock, "unterminated declaration body")

				return
			}

			if !parseOne() {
				p.synchronizeMember()
				continue
			}

			if p.check(token.Comma) || p.check(token.Semicolon) {
				p.advance()
			}
		}

		p.advance() // RBrace

		return
	}

	if _, ok := p.expect(token.Colon, diag.NotABlock, "expected ':' or '{'"); !ok {
		return
	}

	if p.match(token.Newline) {
		if !p.check(token.Indent) {
			if p.atEof() && p.repl {
				p.pause()
				return
			}

			p.errorHere(diag.NotABlock, "expected an indented body")

			return
		}

		p.advance() // Indent

		for !p.check(token.Dedent) {
			if p.atEof() {
				if p.repl {
					p.pause()
					return
				}

				p.errorHere(diag.NotABlock, "unterminated declaration body")

				return
			}

			if !parseOne() {
				p.synchronizeMember()
				continue
			}

			p.skipSeparators()
		}

		p.advance() // Dedent

		return
	}

	parseOne()
}

func (p *Parser) synchronizeMember() {
	for !p.atEof() && !p.check(token.Dedent) && !p.check(token.RBrace) &&
		!p.check(token.Newline) && !p.check(token.Comma) && !p.check(token.Semicolon) {
		p.advance()
	}

	if p.check(token.Newline) || p.check(token.Comma) || p.check(token.Semicolon) {
		p.advance()
	}
}
