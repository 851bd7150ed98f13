package ast

import (
	"testing"

	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/token"
	"github.com/stretchr/testify/assert"
)

func tok(kind token.Kind, lexeme string) token.Token {
	f := source.New("test.nico", lexeme)
	return token.New(kind, source.NewLocation(f, 0, len(lexeme), 1))
}

func TestPrintBinaryExpr(t *testing.T) {
	a := &Expr{Data: &NameRef{Name: Name{Parts: []NamePart{{Tok: tok(token.Identifier, "a")}}}}}
	b := &Expr{Data: &NameRef{Name: Name{Parts: []NamePart{{Tok: tok(token.Identifier, "b")}}}}}
	c := &Expr{Data: &NameRef{Name: Name{Parts: []NamePart{{Tok: tok(token.Identifier, "c")}}}}}

	mul := &Expr{Data: &Binary{Op: OpMul, Left: b, Right: c}}
	add := &Expr{Data: &Binary{Op: OpAdd, Left: a, Right: mul}}

	stmt := &Stmt{Data: &ExprStmt{Expr: add}}

	assert.Equal(t, "(expr (binary + (name a) (binary * (name b) (name c))))", Print(stmt))
}

func TestPrintLetAndPass(t *testing.T) {
	let := &Stmt{Data: &Let{Mutable: true, NameTok: tok(token.Identifier, "x")}}
	assert.Equal(t, "(let var x)", Print(let))

	pass := &Stmt{Data: &Pass{}}
	assert.Equal(t, "(pass)", Print(pass))
}

func TestPrintStructDecl(t *testing.T) {
	decl := &Stmt{Data: &StructDecl{
		NameTok: tok(token.Identifier, "Point"),
		Fields: []Field{
			{NameTok: tok(token.Identifier, "x")},
			{NameTok: tok(token.Identifier, "y")},
		},
	}}

	assert.Equal(t, "(struct Point x y)", Print(decl))
}

func TestPrintAllJoinsWithNewlines(t *testing.T) {
	stmts := []*Stmt{
		{Data: &Pass{}},
		{Data: &Eof{}},
	}

	assert.Equal(t, "(pass)\n(eof)", PrintAll(stmts))
}
