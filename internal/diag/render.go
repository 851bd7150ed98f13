package diag

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain renders d as a multi-line, human-readable block: the
// "path:line:col" header, the offending source line, and a caret
// underneath pointing at the span. This mirrors the teacher's
// PosError.Explain layout (token/error.go in the retrieved corpus),
// generalized from a single-detail error to the (code, location,
// message) triple this compiler's diagnostics carry.
func Explain(d Diagnostic) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%d] %s: %s\n", int(d.Code), d.Code, d.Message))

	if !d.HasLoc {
		return sb.String()
	}

	sb.WriteString(d.Loc.String())
	sb.WriteByte('\n')

	line := sourceLine(d)
	indent := len(strconv.Itoa(d.Loc.Line()))

	sb.WriteString(fmt.Sprintf("%*s |\n", indent, ""))
	sb.WriteString(fmt.Sprintf("%*d | %s\n", indent, d.Loc.Line(), line))
	sb.WriteString(fmt.Sprintf("%*s | %s", indent, "", strings.Repeat(" ", max(d.Loc.Column()-1, 0))))

	width := d.Loc.Length()
	if width <= 0 {
		width = 1
	}

	sb.WriteString(strings.Repeat("^", width))
	sb.WriteByte('\n')

	return sb.String()
}

func sourceLine(d Diagnostic) string {
	f := d.Loc.File()
	if f == nil {
		return ""
	}

	text := f.Text()
	lineStart := d.Loc.Start() - (d.Loc.Column() - 1)
	if lineStart < 0 {
		lineStart = 0
	}

	end := lineStart
	for end < len(text) && text[end] != '\n' {
		end++
	}

	if lineStart > len(text) {
		return ""
	}

	return text[lineStart:end]
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}

// ExplainAll renders every diagnostic in l, separated by blank lines, in
// the order they were logged.
func ExplainAll(l *Log) string {
	var sb strings.Builder

	for i, d := range l.Diagnostics() {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(Explain(d))
	}

	return sb.String()
}
