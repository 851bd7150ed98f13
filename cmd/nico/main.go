// Command nico is the compiler frontend's entry point: with no arguments
// it runs an interactive read-submit-print loop; given one path it runs
// the full lex/parse/check pipeline once and reports a process exit
// status (spec §6). It carries no language semantics of its own — only
// source loading, configuration, FrontendContext wiring, and diagnostics
// rendering.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/brian-m/nico/internal/diag"
	"github.com/brian-m/nico/internal/frontend"
	"github.com/brian-m/nico/internal/nicocfg"
)

// exitCode is set by the command's RunE and consumed by main after
// cmd.Execute() returns, so a well-formed run can report any of the
// spec's exit statuses rather than cobra's built-in 0/1.
var exitCode int

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nico [path]",
		Short: "nico frontend: interactive REPL or one-shot file check",
		Long: "With no arguments, nico starts an interactive loop reading from stdin.\n" +
			"Given a single source path, it runs the frontend pipeline once and exits.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 0:
				exitCode = runREPL(cmd.InOrStdin(), cmd.OutOrStdout())
			case 1:
				exitCode = runFile(args[0], cmd.OutOrStdout())
			default:
				fmt.Fprintln(cmd.ErrOrStderr(), "nico: at most one source path may be given")
				exitCode = 64
			}

			return nil
		},
	}

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	os.Exit(exitCode)
}

// loadSource fetches path's contents through afs, uniformly across local
// and remote filesystems (grounded on viant-linager's CodeFile loader).
func loadSource(path string) (string, error) {
	fs := afs.New()

	data, err := fs.DownloadWithURL(context.Background(), path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// runFile runs the full pipeline once over the file at path and returns
// the process exit status spec §6 assigns: 0 on success, 65 on a frontend
// diagnostic, 70 on a backend-family diagnostic (never produced today,
// since the backend is out of scope — kept for forward compatibility),
// 101 on a malfunction-family diagnostic.
func runFile(path string, out io.Writer) int {
	cfg, err := nicocfg.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nico: loading configuration: %v\n", err)
		return 70
	}

	text, err := loadSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nico: loading %s: %v\n", path, err)
		return 70
	}

	ctx := frontend.NewContext(path, false)
	ctx.Config = cfg
	ctx.Submit(text)

	for _, d := range ctx.Log.Diagnostics() {
		fmt.Fprint(out, diag.Explain(d))
	}

	if !ctx.Log.HasErrors() {
		return 0
	}

	return exitStatusFor(ctx)
}

// exitStatusFor maps the worst diagnostic family logged during ctx's run
// onto the exit codes spec §6 assigns to each stage family.
func exitStatusFor(ctx *frontend.Context) int {
	status := 65

	for _, d := range ctx.Log.Diagnostics() {
		switch d.Code.Family() {
		case diag.FamilyMalfunction:
			return 101
		case diag.FamilyBackend, diag.FamilyPostProcess:
			status = 70
		}
	}

	return status
}

// runREPL feeds stdin line by line through a persistent FrontendContext,
// printing a continuation prompt while the context reports Pause (a
// construct spanning multiple lines) and resetting the context after a
// submission that logged errors, so the next line starts clean (spec §5:
// "on error ... the caller may reset() the context").
func runREPL(in io.Reader, out io.Writer) int {
	ctx := frontend.NewContext("<stdin>", true)

	if cfg, err := nicocfg.Load("./nico"); err == nil {
		ctx.Config = cfg
	}

	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, "nico> ")

	for scanner.Scan() {
		ctx.Submit(scanner.Text() + "\n")

		for _, d := range ctx.NewDiagnostics() {
			fmt.Fprint(out, diag.Explain(d))
		}

		switch ctx.Status {
		case frontend.StatusPause:
			fmt.Fprint(out, "...  ")

			continue
		case frontend.StatusError:
			ctx.Reset()
		}

		fmt.Fprint(out, "nico> ")
	}

	fmt.Fprintln(out)

	return 0
}
