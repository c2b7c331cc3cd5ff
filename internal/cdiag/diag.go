// Package cdiag holds the shared diagnostic carrier used by every stage of
// the compiler pipeline, so that lexical, syntactic, semantic, type, and
// codegen problems are reported through one uniform shape instead of each
// stage inventing its own error type.
package cdiag

import "fmt"

// Severity distinguishes a hard failure from an advisory.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Category identifies which stage of the pipeline raised a Diagnostic.
type Category string

const (
	Lexical    Category = "lexical"
	GrammarLoad Category = "grammar-load"
	GrammarBuild Category = "grammar-build"
	Syntax     Category = "syntax"
	Semantic   Category = "semantic"
	Typecheck  Category = "type"
	Codegen    Category = "codegen"
)

// Diagnostic is a single reported problem, carrying enough positional
// information to render a source excerpt with a cursor under the offending
// column.
type Diagnostic struct {
	Severity Severity
	Category Category
	Message  string

	// Line and Col are 1-indexed. A Line of 0 means no source position
	// applies (e.g. a grammar-build error that spans the whole grammar).
	Line int
	Col  int

	// SourceLine is the full text of the offending source line, used only
	// for rendering; it is not a semantic property of the diagnostic.
	SourceLine string
}

// Error implements the error interface so a Diagnostic can be returned
// directly wherever an error is expected.
func (d Diagnostic) Error() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Category, d.Message)
	}
	return fmt.Sprintf("%s: line %d, col %d: %s", d.Category, d.Line, d.Col, d.Message)
}

// FullMessage renders the error text preceded by the offending source line
// and a cursor pointing at the column.
func (d Diagnostic) FullMessage() string {
	msg := d.Error()
	if cursor := d.SourceLineWithCursor(); cursor != "" {
		msg = cursor + "\n" + msg
	}
	return msg
}

// SourceLineWithCursor returns the offending source line with a "^" cursor
// on the line below it pointing at Col. Returns an empty string if no
// SourceLine was recorded.
func (d Diagnostic) SourceLineWithCursor() string {
	if d.SourceLine == "" {
		return ""
	}
	cursor := make([]byte, 0, d.Col)
	for i := 0; i < d.Col-1; i++ {
		cursor = append(cursor, ' ')
	}
	cursor = append(cursor, '^')
	return d.SourceLine + "\n" + string(cursor)
}

// New builds an error-severity Diagnostic with a source position.
func New(cat Category, line, col int, sourceLine string, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Severity:   Error,
		Category:   cat,
		Message:    fmt.Sprintf(format, args...),
		Line:       line,
		Col:        col,
		SourceLine: sourceLine,
	}
}

// Newf builds an error-severity Diagnostic with no particular source
// position, for stage-wide failures such as a malformed grammar file.
func Newf(cat Category, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: Error, Category: cat, Message: fmt.Sprintf(format, args...)}
}

// List is a collection of Diagnostics accumulated over a compile run. It
// implements error so it can be returned as one value when non-empty.
type List []Diagnostic

func (l List) Error() string {
	if len(l) == 0 {
		return ""
	}
	msg := l[0].FullMessage()
	if len(l) > 1 {
		msg += fmt.Sprintf("\n(and %d more)", len(l)-1)
	}
	return msg
}

// HasErrors returns whether any Diagnostic in the list is Error severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
