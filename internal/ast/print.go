package ast

import (
	"fmt"
	"strings"
)

// Print renders stmt as a parenthesized s-expression, grounded on the
// teacher's AstPrinter debug dumper: every node prints as
// "(kind-tag operand...)". It exists so the parser's round-trip property
// test (spec §8: "re-printing the parsed AST and re-parsing yields an
// equivalent AST") has a stable, comparable textual form, and so
// round-trip failures can be diffed with go-difflib.
func Print(stmt *Stmt) string {
	var sb strings.Builder
	printStmt(&sb, stmt)

	return sb.String()
}

// PrintAll renders a whole statement list, one line per statement.
func PrintAll(stmts []*Stmt) string {
	var sb strings.Builder

	for i, s := range stmts {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(Print(s))
	}

	return sb.String()
}

func printStmt(sb *strings.Builder, s *Stmt) {
	switch d := s.Data.(type) {
	case *ExprStmt:
		sb.WriteString("(expr ")
		printExpr(sb, d.Expr)
		sb.WriteByte(')')
	case *Let:
		sb.WriteString("(let ")
		if d.Mutable {
			sb.WriteString("var ")
		}
		sb.WriteString(d.NameTok.Lexeme())
		if d.Annotation != nil {
			sb.WriteByte(' ')
			printAnnotation(sb, d.Annotation)
		}
		if d.Init != nil {
			sb.WriteByte(' ')
			printExpr(sb, d.Init)
		}
		sb.WriteByte(')')
	case *Func:
		fmt.Fprintf(sb, "(func %s", d.NameTok.Lexeme())
		for _, p := range d.Params {
			fmt.Fprintf(sb, " %s", p.NameTok.Lexeme())
		}
		sb.WriteString(" ")
		printExpr(sb, d.Body)
		sb.WriteByte(')')
	case *Print:
		sb.WriteString("(print")
		for _, e := range d.Args {
			sb.WriteByte(' ')
			printExpr(sb, e)
		}
		sb.WriteByte(')')
	case *Pass:
		sb.WriteString("(pass)")
	case *Yield:
		sb.WriteString("(yield")
		if d.Label != "" {
			fmt.Fprintf(sb, " :%s", d.Label)
		}
		if d.Value != nil {
			sb.WriteByte(' ')
			printExpr(sb, d.Value)
		}
		sb.WriteByte(')')
	case *Continue:
		sb.WriteString("(continue")
		if d.Label != "" {
			fmt.Fprintf(sb, " :%s", d.Label)
		}
		sb.WriteByte(')')
	case *Break:
		sb.WriteString("(break")
		if d.Label != "" {
			fmt.Fprintf(sb, " :%s", d.Label)
		}
		if d.Value != nil {
			sb.WriteByte(' ')
			printExpr(sb, d.Value)
		}
		sb.WriteByte(')')
	case *Return:
		sb.WriteString("(return")
		if d.Value != nil {
			sb.WriteByte(' ')
			printExpr(sb, d.Value)
		}
		sb.WriteByte(')')
	case *Dealloc:
		sb.WriteString("(dealloc ")
		printExpr(sb, d.Target)
		sb.WriteByte(')')
	case *Eof:
		sb.WriteString("(eof)")
	case *StructDecl:
		tag := "struct"
		if d.IsClass {
			tag = "class"
		}
		fmt.Fprintf(sb, "(%s %s", tag, d.NameTok.Lexeme())
		for _, f := range d.Fields {
			fmt.Fprintf(sb, " %s", f.NameTok.Lexeme())
		}
		for _, s := range d.Body {
			sb.WriteByte(' ')
			printStmt(sb, s)
		}
		sb.WriteByte(')')
	case *NamespaceDecl:
		fmt.Fprintf(sb, "(namespace %s", d.NameTok.Lexeme())
		for _, s := range d.Body {
			sb.WriteByte(' ')
			printStmt(sb, s)
		}
		sb.WriteByte(')')
	case *EnumDecl:
		fmt.Fprintf(sb, "(enum %s", d.NameTok.Lexeme())
		for _, v := range d.Variants {
			fmt.Fprintf(sb, " %s", v.NameTok.Lexeme())
		}
		sb.WriteByte(')')
	default:
		sb.WriteString("(unknown-stmt)")
	}
}

func printExpr(sb *strings.Builder, e *Expr) {
	if e == nil {
		sb.WriteString("nil")
		return
	}

	switch d := e.Data.(type) {
	case *Assign:
		sb.WriteString("(assign ")
		printExpr(sb, d.Left)
		sb.WriteByte(' ')
		printExpr(sb, d.Right)
		sb.WriteByte(')')
	case *Logical:
		op := "and"
		if d.Op == OpOr {
			op = "or"
		}
		fmt.Fprintf(sb, "(logical %s ", op)
		printExpr(sb, d.Left)
		sb.WriteByte(' ')
		printExpr(sb, d.Right)
		sb.WriteByte(')')
	case *Binary:
		fmt.Fprintf(sb, "(binary %s ", binaryOpSymbol(d.Op))
		printExpr(sb, d.Left)
		sb.WriteByte(' ')
		printExpr(sb, d.Right)
		sb.WriteByte(')')
	case *Unary:
		op := "-"
		if d.Op == OpNot {
			op = "!"
		}
		fmt.Fprintf(sb, "(unary %s ", op)
		printExpr(sb, d.Operand)
		sb.WriteByte(')')
	case *Address:
		if d.Mutable {
			sb.WriteString("(address-var ")
		} else {
			sb.WriteString("(address ")
		}
		printExpr(sb, d.Operand)
		sb.WriteByte(')')
	case *Deref:
		sb.WriteString("(deref ")
		printExpr(sb, d.Operand)
		sb.WriteByte(')')
	case *Cast:
		op := "as"
		if d.Kind == CastTransmute {
			op = "transmute"
		}
		fmt.Fprintf(sb, "(cast %s ", op)
		printExpr(sb, d.Operand)
		sb.WriteByte(' ')
		printAnnotation(sb, d.Target)
		sb.WriteByte(')')
	case *Access:
		sb.WriteString("(access ")
		printExpr(sb, d.Operand)
		if d.IsIndex {
			fmt.Fprintf(sb, " %d)", d.Index)
		} else {
			fmt.Fprintf(sb, " %s)", d.Name.Lexeme())
		}
	case *Subscript:
		sb.WriteString("(subscript ")
		printExpr(sb, d.Operand)
		sb.WriteByte(' ')
		printExpr(sb, d.Index)
		sb.WriteByte(')')
	case *Call:
		sb.WriteString("(call ")
		printExpr(sb, d.Callee)
		for _, a := range d.Args {
			sb.WriteByte(' ')
			if a.Named {
				fmt.Fprintf(sb, "%s=", a.Name.Lexeme())
			}
			printExpr(sb, a.Value)
		}
		sb.WriteByte(')')
	case *SizeOf:
		sb.WriteString("(sizeof)")
	case *Alloc:
		sb.WriteString("(alloc")
		if d.Size != nil {
			sb.WriteByte(' ')
			printExpr(sb, d.Size)
		}
		sb.WriteByte(')')
	case *NameRef:
		fmt.Fprintf(sb, "(name %s)", d.Name.String())
	case *Literal:
		fmt.Fprintf(sb, "(lit %s)", d.Tok.Lexeme())
	case *Tuple:
		sb.WriteString("(tuple")
		for _, el := range d.Elems {
			sb.WriteByte(' ')
			printExpr(sb, el)
		}
		sb.WriteByte(')')
	case *Array:
		sb.WriteString("(array")
		for _, el := range d.Elems {
			sb.WriteByte(' ')
			printExpr(sb, el)
		}
		sb.WriteByte(')')
	case *Block:
		sb.WriteString("(block")
		if d.Label != "" {
			fmt.Fprintf(sb, " :%s", d.Label)
		}
		for _, s := range d.Stmts {
			sb.WriteByte(' ')
			printStmt(sb, s)
		}
		sb.WriteByte(')')
	case *Conditional:
		sb.WriteString("(if")
		for _, arm := range d.Arms {
			sb.WriteByte(' ')
			if arm.Cond != nil {
				printExpr(sb, arm.Cond)
				sb.WriteByte(' ')
			}
			printExpr(sb, arm.Body)
		}
		sb.WriteByte(')')
	case *Loop:
		sb.WriteString("(loop ")
		if d.Cond != nil {
			printExpr(sb, d.Cond)
			sb.WriteByte(' ')
		}
		printExpr(sb, d.Body)
		sb.WriteByte(')')
	default:
		sb.WriteString("(unknown-expr)")
	}
}

func printAnnotation(sb *strings.Builder, a *Annotation) {
	if a == nil {
		sb.WriteString("nil")
		return
	}

	switch d := a.Data.(type) {
	case *AnnNameRef:
		fmt.Fprintf(sb, "(type %s)", d.Name.String())
	case *AnnPointer:
		tag := "ptr"
		if d.Mutable {
			tag = "ptr-var"
		}
		fmt.Fprintf(sb, "(%s ", tag)
		printAnnotation(sb, d.Base)
		sb.WriteByte(')')
	case *AnnReference:
		tag := "ref"
		if d.Mutable {
			tag = "ref-var"
		}
		fmt.Fprintf(sb, "(%s ", tag)
		printAnnotation(sb, d.Base)
		sb.WriteByte(')')
	case *AnnNullptr:
		sb.WriteString("(type nullptr)")
	case *AnnArray:
		sb.WriteString("(array-type ")
		printAnnotation(sb, d.Base)
		if d.HasSize {
			sb.WriteByte(' ')
			printExpr(sb, d.Size)
		}
		sb.WriteByte(')')
	case *AnnObject:
		sb.WriteString("(object-type")
		for _, f := range d.Fields {
			fmt.Fprintf(sb, " %s=", f.Name)
			printAnnotation(sb, f.Type)
		}
		sb.WriteByte(')')
	case *AnnTuple:
		sb.WriteString("(tuple-type")
		for _, e := range d.Elems {
			sb.WriteByte(' ')
			printAnnotation(sb, e)
		}
		sb.WriteByte(')')
	case *AnnTypeof:
		sb.WriteString("(typeof ")
		printExpr(sb, d.Target)
		sb.WriteByte(')')
	default:
		sb.WriteString("(unknown-type)")
	}
}

func binaryOpSymbol(op BinaryOp) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpBitOr:
		return "|"
	case OpBitAnd:
		return "&"
	case OpBitXor:
		return "^"
	default:
		return "?"
	}
}
