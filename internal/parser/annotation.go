package parser

import (
	"github.com/brian-m/nico/internal/ast"
	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/token"
)

// parseAnnotation parses a syntactic type annotation. Primitive type
// names (i32, bool, ...) have no dedicated keyword tokens, so they fall
// out naturally through the Identifier/AnnNameRef case; the reserved-name
// vs. primitive-name distinction is a global-checker concern, not a
// lexical or parse-time one.
func (p *Parser) parseAnnotation() *ast.Annotation {
	switch p.cur().Kind {
	case token.Star:
		tok := p.advance()
		mutable := p.match(token.KwVar)

		base := p.parseAnnotation()
		if base == nil {
			return nil
		}

		return &ast.Annotation{Loc: source.Merge(tok.Loc, base.Loc), Data: &ast.AnnPointer{Base: base, Mutable: mutable}}
	case token.Amp:
		tok := p.advance()
		mutable := p.match(token.KwVar)

		base := p.parseAnnotation()
		if base == nil {
			return nil
		}

		return &ast.Annotation{Loc: source.Merge(tok.Loc, base.Loc), Data: &ast.AnnReference{Base: base, Mutable: mutable}}
	case token.NullptrLiteral:
		tok := p.advance()
		return &ast.Annotation{Loc: tok.Loc, Data: &ast.AnnNullptr{}}
	case token.LBracket:
		return p.parseAnnArray()
	case token.LBrace:
		return p.parseAnnObject()
	case token.LParen:
		return p.parseAnnTuple()
	case token.KwTypeof:
		return p.parseAnnTypeof()
	case token.Identifier:
		tok := p.cur()
		name := p.parseName(true)

		return &ast.Annotation{Loc: tok.Loc, Data: &ast.AnnNameRef{Name: name}}
	case token.KwVar:
		p.errorHere(diag.UnexpectedVarInAnnotation, "'var' is only valid after '*' or '&'")
		p.advance()

		return p.parseAnnotation()
	default:
		p.errorHere(diag.NotAType, "expected a type")
		p.advance()

		return nil
	}
}

func (p *Parser) parseAnnArray() *ast.Annotation {
	tok := p.advance() // '['

	base := p.parseAnnotation()
	if base == nil {
		return nil
	}

	hasSize := false

	var size *ast.Expr

	if p.match(token.Semicolon) {
		hasSize = true
		size = p.parseExpr()
	}

	loc := tok.Loc
	if closeTok, ok := p.expect(token.RBracket, diag.UnexpectedToken, "expected ']'"); ok {
		loc = source.Merge(tok.Loc, closeTok.Loc)
	}

	return &ast.Annotation{Loc: loc, Data: &ast.AnnArray{Base: base, Size: size, HasSize: hasSize}}
}

func (p *Parser) parseAnnObject() *ast.Annotation {
	tok := p.advance() // '{'

	var fields []ast.AnnObjectField

	for !p.check(token.RBrace) {
		nameTok, ok := p.expect(token.Identifier, diag.NotAnIdentifier, "expected a field name")
		if !ok {
			break
		}

		p.expect(token.Colon, diag.UnexpectedToken, "expected ':'")

		t := p.parseAnnotation()
		fields = append(fields, ast.AnnObjectField{Name: nameTok.Lexeme(), Type: t})

		if !p.match(token.Comma) {
			break
		}
	}

	p.expect(token.RBrace, diag.UnexpectedToken, "expected '}'")

	return &ast.Annotation{Loc: tok.Loc, Data: &ast.AnnObject{Fields: fields}}
}

func (p *Parser) parseAnnTuple() *ast.Annotation {
	tok := p.advance() // '('

	if p.match(token.RParen) {
		return &ast.Annotation{Loc: tok.Loc, Data: &ast.AnnTuple{}}
	}

	first := p.parseAnnotation()
	if first == nil {
		return nil
	}

	if p.check(token.Comma) {
		elems := []*ast.Annotation{first}

		for p.match(token.Comma) {
			if p.check(token.RParen) {
				break
			}

			elems = append(elems, p.parseAnnotation())
		}

		p.expect(token.RParen, diag.UnexpectedClosingParen, "expected ')'")

		return &ast.Annotation{Loc: tok.Loc, Data: &ast.AnnTuple{Elems: elems}}
	}

	p.expect(token.RParen, diag.UnexpectedClosingParen, "expected ')'")

	return first
}

func (p *Parser) parseAnnTypeof() *ast.Annotation {
	tok := p.advance() // 'typeof'

	if _, ok := p.expect(token.LParen, diag.TypeofWithoutOpeningParen, "expected '(' after 'typeof'"); !ok {
		return nil
	}

	target := p.parseExpr()

	p.expect(token.RParen, diag.UnexpectedClosingParen, "expected ')'")

	return &ast.Annotation{Loc: tok.Loc, Data: &ast.AnnTypeof{Target: target}}
}

// parseName parses a `part::part<args>::part` qualified name. Generic
// type-argument lists are only parsed when allowArgs is true (annotation
// contexts), never for an expression-level NameRef, to avoid the '<'/'>'
// vs. comparison-operator ambiguity (a DESIGN.md open-question
// resolution).
func (p *Parser) parseName(allowArgs bool) ast.Name {
	var parts []ast.NamePart

	for {
		tok, ok := p.expect(token.Identifier, diag.NotAnIdentifier, "expected a name")
		if !ok {
			return ast.Name{Parts: parts}
		}

		var args []ast.Annotation

		if allowArgs && p.check(token.Less) {
			p.advance()

			for {
				a := p.parseAnnotation()
				if a != nil {
					args = append(args, *a)
				}

				if !p.match(token.Comma) {
					break
				}
			}

			p.expect(token.Greater, diag.UnexpectedToken, "expected '>'")
		}

		parts = append(parts, ast.NamePart{Tok: tok, Args: args})

		if !p.match(token.ColonColon) {
			break
		}
	}

	return ast.Name{Parts: parts}
}
