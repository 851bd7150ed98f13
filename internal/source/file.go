// Package source holds the immutable source buffer that every other stage
// of the frontend points into.
package source

import "strings"

// CodeFile is an immutable pairing of a path and its source text. All
// Locations produced while lexing or parsing a file point back into the
// same CodeFile instance.
type CodeFile struct {
	path string
	text string
}

// New returns a CodeFile for the given path and text. The text is never
// mutated after construction.
func New(path, text string) *CodeFile {
	return &CodeFile{path: path, text: text}
}

// Path returns the file's path as it was given to New.
func (f *CodeFile) Path() string {
	return f.path
}

// Text returns the full source text.
func (f *CodeFile) Text() string {
	return f.text
}

// Len returns the number of bytes in the source text.
func (f *CodeFile) Len() int {
	return len(f.text)
}

// Location describes a span of source text as a byte offset and length,
// plus the one-based line on which the span starts. The (path, line,
// column) triple is computed lazily by scanning back to the preceding
// newline, so Location itself stays cheap to copy and carry around on
// every token and AST node.
type Location struct {
	file   *CodeFile
	start  int
	length int
	line   int
}

// NewLocation builds a Location anchored to file, starting at the given
// byte offset with the given byte length. line is the one-based line
// number of the start offset, which the lexer already knows while
// scanning and so is passed in rather than recomputed.
func NewLocation(file *CodeFile, start, length, line int) Location {
	return Location{file: file, start: start, length: length, line: line}
}

// File returns the CodeFile this location points into.
func (l Location) File() *CodeFile {
	return l.file
}

// Start returns the byte offset of the first byte in the span.
func (l Location) Start() int {
	return l.start
}

// Length returns the number of bytes in the span.
func (l Location) Length() int {
	return l.length
}

// End returns the byte offset one past the last byte in the span.
func (l Location) End() int {
	return l.start + l.length
}

// Line returns the one-based line number the span starts on.
func (l Location) Line() int {
	return l.line
}

// Lexeme returns the exact source text covered by this location.
func (l Location) Lexeme() string {
	if l.file == nil {
		return ""
	}

	return l.file.text[l.start:l.End()]
}

// Column computes the one-based column of the span's start by scanning
// back to the preceding newline. Columns are counted in bytes, matching
// how Location.start is measured.
func (l Location) Column() int {
	if l.file == nil {
		return 0
	}

	text := l.file.text
	col := 1
	for i := l.start - 1; i >= 0 && text[i] != '\n'; i-- {
		col++
	}

	return col
}

// Path returns the path of the underlying file, or "" if this is the zero
// Location.
func (l Location) Path() string {
	if l.file == nil {
		return ""
	}

	return l.file.path
}

// String renders "path:line:col", the canonical form used in diagnostics.
func (l Location) String() string {
	var sb strings.Builder

	sb.WriteString(l.Path())
	sb.WriteByte(':')
	sb.WriteString(itoa(l.line))
	sb.WriteByte(':')
	sb.WriteString(itoa(l.Column()))

	return sb.String()
}

// Merge returns the smallest Location spanning both a and b. Both must
// point into the same file; Merge panics otherwise, since it would
// indicate a cross-file AST node, an invariant violation no valid parse
// can produce.
func Merge(a, b Location) Location {
	if a.file != b.file {
		panic("source: cannot merge locations from different files")
	}

	start := a.start
	if b.start < start {
		start = b.start
	}

	end := a.End()
	if b.End() > end {
		end = b.End()
	}

	line := a.line
	if b.start < a.start {
		line = b.line
	}

	return Location{file: a.file, start: start, length: end - start, line: line}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}
