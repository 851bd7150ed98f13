// Package frontend ties the lexer, parser, checkers, and MIR builder
// together behind one persistent context object a driver (the interactive
// REPL or the one-shot CLI path) can call repeatedly (spec §2, §5: "a
// persistent frontend context ... reusable across interactive
// submissions; each submission appends and advances the cursors").
package frontend

import (
	"github.com/brian-m/nico/internal/ast"
	"github.com/brian-m/nico/internal/checker"
	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/lexer"
	"github.com/brian-m/nico/internal/mir"
	"github.com/brian-m/nico/internal/mir/build"
	"github.com/brian-m/nico/internal/nicocfg"
	"github.com/brian-m/nico/internal/parser"
	"github.com/brian-m/nico/internal/source"
	"github.com/brian-m/nico/internal/symbols"
	"github.com/brian-m/nico/internal/token"
)

// Status mirrors the original implementation's FrontendContext::Status:
// OK (ready for more input), Pause (mid-construct, needs more input before
// it can make progress), or Error (the last submission logged at least one
// error-severity diagnostic).
type Status int

const (
	StatusOK Status = iota
	StatusPause
	StatusError
)

// Context is the single piece of mutable state a driver owns across a
// whole interactive session or a one-shot file run (spec §5: "the
// frontend context is the sole mutable state, owned exclusively by the
// active stage").
type Context struct {
	Status Status
	Log    *diag.Log

	// Tokens holds the tokens scanned from the most recent submission
	// only, not the cumulative token history (mirroring the original's
	// "tokens scanned from the last input").
	Tokens []token.Token

	// Stmts is the AST of every statement processed so far, across every
	// submission.
	Stmts []*ast.Stmt
	// StmtsChecked is the number of leading Stmts the checkers have
	// already passed; a submission that fails to check leaves this
	// unchanged so the caller may retry or Reset.
	StmtsChecked int

	Tree   *symbols.Tree
	Module *mir.Module

	// Config is the project configuration (nico.yaml/.env/environment)
	// consulted by the lexer's indentation check and the local checker's
	// unsafe-pointer-dereference rule. Defaults to nicocfg.Default(); a
	// driver sets it before the first Submit to apply a loaded config.
	Config nicocfg.Config

	interactive bool
	path        string
	pending     string // raw text accumulated across Pause-extended submissions
	builder     *build.Builder
	diagStart   int // c.Log length at the start of the current Submit call
}

// NewDiagnostics returns only the diagnostics logged during the most
// recent Submit call, so a driver (REPL or CLI) can render just what
// changed rather than re-rendering the whole session's history.
func (c *Context) NewDiagnostics() []diag.Diagnostic {
	all := c.Log.Diagnostics()
	if c.diagStart > len(all) {
		return nil
	}

	return all[c.diagStart:]
}

// NewContext returns a freshly reset Context. interactive enables the
// lexer/parser's Pause behavior for incomplete multi-line input; path
// names the source for diagnostics (e.g. "<stdin>" or a real file path).
func NewContext(path string, interactive bool) *Context {
	c := &Context{path: path, interactive: interactive, Config: nicocfg.Default()}
	c.Reset()

	return c
}

// Reset restores the context to its initial state, mirroring the
// original's FrontendContext::reset(): fresh symbol tree, fresh MIR
// module, statement list and cursor cleared, status back to OK. Config is
// left untouched, since it reflects the project rather than the session.
// Used by an interactive driver after a submission it wants to discard
// entirely rather than retry (spec §5: "on error ... the caller may
// reset() the context").
func (c *Context) Reset() {
	c.Status = StatusOK
	c.Log = diag.NewLog()
	c.Tokens = nil
	c.Stmts = nil
	c.StmtsChecked = 0
	c.Tree = symbols.NewTree()
	c.Module = mir.NewModule()
	c.pending = ""
	c.builder = build.NewBuilder(c.Module)
}

// Submit feeds one more chunk of source text (a REPL line, or an entire
// file's contents in one call) through the full pipeline: lex, parse,
// global-check, local-check, and — only if nothing has logged an error —
// lower the newly-checked statements into the MIR module.
//
// On StatusPause the accumulated text is kept and nothing else changes;
// call Submit again with the next line. On StatusOK or StatusError the
// pending buffer is consumed; StmtsChecked advances past every statement
// this call newly checked only when the whole submission was error-free.
func (c *Context) Submit(text string) {
	c.diagStart = c.Log.Len()
	c.pending += text

	file := source.New(c.path, c.pending)

	lexResult := lexer.ScanConfigured(file, c.interactive, c.Log, c.Config.TabWidth)
	if lexResult.Status == lexer.StatusPause {
		c.Status = StatusPause
		return
	}

	c.Tokens = lexResult.Tokens

	parseResult := parser.Parse(c.Tokens, c.interactive, c.Log)
	if parseResult.Status == parser.StatusPause {
		c.Status = StatusPause
		return
	}

	c.pending = ""

	start := len(c.Stmts)
	c.Stmts = append(c.Stmts, parseResult.Stmts...)
	tail := c.Stmts[start:]

	checker.NewGlobal(c.Tree, c.Log).Check(tail)
	checker.NewLocalConfigured(c.Tree, c.Log, c.Config.Unsafe).Check(tail)

	if c.Log.HasErrors() {
		c.Status = StatusError
		return
	}

	c.builder.Build(tail)
	c.StmtsChecked = len(c.Stmts)
	c.Status = StatusOK
}
