package checker

import (
	"fmt"

	"github.com/brian-m/nico/internal/ast"
	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/symbols"
	"github.com/brian-m/nico/internal/types"
)

// Global walks top-level declarations into a symbols.Tree (spec §4.3): it
// hoists namespaces, struct/enum definitions and their fields, and
// function signatures, so that the local checker can resolve forward
// references regardless of declaration order within a scope. It never
// descends into function/block bodies; that is the local checker's job.
type Global struct {
	Tree *symbols.Tree
	Log  *diag.Log
}

// NewGlobal returns a Global checker writing into tree and log.
func NewGlobal(tree *symbols.Tree, log *diag.Log) *Global {
	return &Global{Tree: tree, Log: log}
}

// Check declares every statement in stmts.
func (g *Global) Check(stmts []*ast.Stmt) {
	for _, st := range stmts {
		g.declareStmt(st)
	}
}

func (g *Global) declareStmt(st *ast.Stmt) {
	switch d := st.Data.(type) {
	case *ast.NamespaceDecl:
		g.declareNamespace(st, d)
	case *ast.StructDecl:
		g.declareStruct(st, d)
	case *ast.EnumDecl:
		g.declareEnum(st, d)
	case *ast.Func:
		declareFunctionSignature(g.Tree, g.Log, d, st.Loc)
	case *ast.Let:
		g.declareTopLevelLet(st, d)
	default:
		// ExprStmt, Print, Pass, Yield, Break, Continue, Return, Dealloc,
		// Eof: none of these introduce a name, so the global pass skips
		// them; the local checker type-checks them in full.
	}
}

func (g *Global) declareNamespace(st *ast.Stmt, d *ast.NamespaceDecl) {
	ns, code := g.Tree.AddNamespace(d.NameTok.Lexeme())
	if code != diag.Null {
		g.Log.Error(code, st.Loc, fmt.Sprintf("cannot declare namespace %q: %s", d.NameTok.Lexeme(), code))
		return
	}

	d.Scope = ns

	for _, inner := range d.Body {
		g.declareStmt(inner)
	}

	g.Tree.ExitScope()
}

func (g *Global) declareStruct(st *ast.Stmt, d *ast.StructDecl) {
	if !declareStructDef(g.Tree, g.Log, st, d) {
		return
	}

	for _, inner := range d.Body {
		g.declareStmt(inner)
	}

	g.Tree.ExitScope()
}

// declareStructDef registers d's StructDef and its fields, leaving it the
// current scope on success. Shared by the global pass and the local
// checker (a struct declared inside a function/block body it is walking).
func declareStructDef(tree *symbols.Tree, log *diag.Log, st *ast.Stmt, d *ast.StructDecl) bool {
	def, code := tree.AddStructDef(d.NameTok.Lexeme(), d.IsClass)
	if code != diag.Null {
		log.Error(code, st.Loc, fmt.Sprintf("cannot declare struct %q: %s", d.NameTok.Lexeme(), code))
		return false
	}

	d.Def = def

	for i := range d.Fields {
		f := &d.Fields[i]

		typ, ok := resolveAnnotation(tree, log, f.Annotation)
		if !ok {
			typ = types.Unit
		}

		fe, code := tree.AddFieldEntry(f.NameTok.Lexeme(), typ, false)
		if code != diag.Null {
			log.Error(code, st.Loc, fmt.Sprintf("cannot declare field %q: %s", f.NameTok.Lexeme(), code))
			continue
		}

		fe.Declared = true
		f.Entry = fe
	}

	return true
}

func (g *Global) declareEnum(st *ast.Stmt, d *ast.EnumDecl) {
	declareEnumDef(g.Tree, g.Log, st, d)
}

// declareEnumDef registers d's StructDef and one FieldEntry per variant.
// Shared by the global pass and the local checker (a nested enum
// declaration inside a function/block body it is walking).
func declareEnumDef(tree *symbols.Tree, log *diag.Log, st *ast.Stmt, d *ast.EnumDecl) {
	def, code := tree.AddStructDef(d.NameTok.Lexeme(), false)
	if code != diag.Null {
		log.Error(code, st.Loc, fmt.Sprintf("cannot declare enum %q: %s", d.NameTok.Lexeme(), code))
		return
	}

	d.Def = def
	named := types.NamedType(def)

	for i := range d.Variants {
		v := &d.Variants[i]
		v.Discr = i

		fe, code := tree.AddFieldEntry(v.NameTok.Lexeme(), named, false)
		if code != diag.Null {
			log.Error(code, st.Loc, fmt.Sprintf("cannot declare variant %q: %s", v.NameTok.Lexeme(), code))
			continue
		}

		fe.Declared = true
	}

	tree.ExitScope()
}

func (g *Global) declareTopLevelLet(st *ast.Stmt, d *ast.Let) {
	typ := types.Unit

	if d.Annotation != nil {
		if resolved, ok := resolveAnnotation(g.Tree, g.Log, d.Annotation); ok {
			typ = resolved
		}
	}
	// No annotation: left as a Unit placeholder. The local checker always
	// revisits every Let it walks (top-level or nested) and overwrites
	// Entry.Type from the initializer once it is type-checked, so the
	// placeholder here only needs to exist long enough for other
	// top-level declarations to forward-reference the name.

	fe, code := g.Tree.AddFieldEntry(d.NameTok.Lexeme(), typ, d.Mutable)
	if code != diag.Null {
		g.Log.Error(code, st.Loc, fmt.Sprintf("cannot declare %q: %s", d.NameTok.Lexeme(), code))
		return
	}

	// Top-level names are hoisted and visible to every other top-level
	// declaration regardless of source order, unlike local-scope lets
	// (spec §4.4's UndeclaredName is a sequential, local-scope-only rule).
	fe.Declared = true
	d.Entry = fe
}

// declareFunctionSignature registers fn as a new overload of the current
// scope's FunctionDecl named fn.NameTok, resolving its parameter and
// return annotations. Shared by the global pass (top-level/namespace/
// struct functions) and the local checker (a func statement nested inside
// a block it is walking), since nico has no rule forbidding nested
// function declarations.
func declareFunctionSignature(tree *symbols.Tree, log *diag.Log, fn *ast.Func, loc source.Location) {
	name := fn.NameTok.Lexeme()
	decl := tree.AddFunctionDecl(name)
	fn.Decl = decl

	sig := &symbols.FunctionSignature{}

	seen := map[string]bool{}

	for i := range fn.Params {
		p := &fn.Params[i]
		pname := p.NameTok.Lexeme()

		if seen[pname] {
			log.Error(diag.DuplicateFunctionParameterName, loc, fmt.Sprintf("duplicate parameter %q in %q", pname, name))
			continue
		}

		seen[pname] = true

		ptyp := types.Unit
		if p.Annotation != nil {
			if resolved, ok := resolveAnnotation(tree, log, p.Annotation); ok {
				ptyp = resolved
			}
		}

		sig.Params = append(sig.Params, symbols.FunctionParam{Name: pname, Type: ptyp, HasDefault: p.Default != nil})
	}

	if fn.Return != nil {
		if resolved, ok := resolveAnnotation(tree, log, fn.Return); ok {
			sig.Return = resolved
		}
	} else {
		sig.Return = types.Unit
	}

	for _, existing := range decl.Signatures {
		if signaturesConflict(existing, sig) {
			log.Error(diag.FunctionOverloadConflict, loc, fmt.Sprintf("overload of %q conflicts with an existing signature", name))
			// Leave SigIndex out of range so checkFuncBody skips this
			// function's body rather than checking it against an
			// unrelated, earlier-declared overload's signature.
			fn.SigIndex = -1
			return
		}
	}

	fn.SigIndex = len(decl.Signatures)
	decl.Signatures = append(decl.Signatures, sig)
}

// signaturesConflict reports whether two overloads of the same name are
// indistinguishable at a call site: same arity and, position by position,
// the same parameter type.
func signaturesConflict(a, b *symbols.FunctionSignature) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}

	for i := range a.Params {
		if !types.Equal(a.Params[i].Type, b.Params[i].Type) {
			return false
		}
	}

	return true
}
