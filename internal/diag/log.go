package diag

import "github.com/brian-m/nico/internal/source"

// Severity classifies a Diagnostic as blocking or advisory.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is a single reported issue: a code, an optional location
// (some malfunction-family codes have none), and a human message.
type Diagnostic struct {
	Code     Code
	Loc      source.Location
	HasLoc   bool
	Message  string
	Severity Severity
}

// Log accumulates diagnostics across a pipeline run. It is the sole
// diagnostics sink every stage writes through; nothing in this module
// writes to a process-global logger (spec §9: "thread an explicit
// diagnostics sink through each stage" rather than keep the teacher's
// singleton).
type Log struct {
	diagnostics []Diagnostic
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{}
}

// Error appends a diagnostic at loc. Its severity comes from code via
// severityOf, so a warning-family code is logged as a warning.
func (l *Log) Error(code Code, loc source.Location, message string) {
	l.diagnostics = append(l.diagnostics, Diagnostic{
		Code: code, Loc: loc, HasLoc: true, Message: message, Severity: severityOf(code),
	})
}

// ErrorNoLoc appends a diagnostic with no location (severity likewise
// taken from code), for
// malfunction-family codes that don't name a specific source span.
func (l *Log) ErrorNoLoc(code Code, message string) {
	l.diagnostics = append(l.diagnostics, Diagnostic{
		Code: code, Message: message, Severity: severityOf(code),
	})
}

func severityOf(code Code) Severity {
	if code.IsWarning() {
		return SeverityWarning
	}

	return SeverityError
}

// Diagnostics returns a read-only view of everything logged so far, in the
// order it was reported (spec §7: "The error log exposes a read-only
// view").
func (l *Log) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(l.diagnostics))
	copy(out, l.diagnostics)

	return out
}

// HasErrors reports whether any non-warning diagnostic has been logged.
// Presence of any non-warning code sets the pipeline's status to Error
// (spec §7).
func (l *Log) HasErrors() bool {
	for _, d := range l.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Reset discards all accumulated diagnostics. Used by the REPL driver when
// it resets a FrontendContext after a failed submission.
func (l *Log) Reset() {
	l.diagnostics = l.diagnostics[:0]
}

// Len returns the number of diagnostics logged so far, including warnings.
func (l *Log) Len() int {
	return len(l.diagnostics)
}
