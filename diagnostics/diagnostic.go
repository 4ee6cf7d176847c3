// Package diagnostics defines the problems reported by a type-check pass and
// renders them for the terminal.
package diagnostics

import "sort"

type Kind string

const (
	KindCompiler Kind = "compiler"
	KindLint     Kind = "lint"
)

type Category string

const CategoryError Category = "error"

// Diagnostic is a problem with a file reference, a 1-based position and a
// message. It is implemented by CompilerDiagnostic and LintFailure.
type Diagnostic interface {
	Kind() Kind
	FileName() string
	Line() int
	Column() int
	LineText() string
	Message() string
}

// Location points into a virtual file.
type Location struct {
	File         string
	LineNumber   int
	ColumnNumber int
	// SourceLine is the text of the line, used for code frames.
	SourceLine string
}

func (l Location) FileName() string { return l.File }
func (l Location) Line() int        { return l.LineNumber }
func (l Location) Column() int      { return l.ColumnNumber }
func (l Location) LineText() string { return l.SourceLine }

// CompilerDiagnostic is a syntactic or semantic error from the compiler program.
type CompilerDiagnostic struct {
	Location
	Code     int
	Category Category
	Text     string
}

func (d CompilerDiagnostic) Kind() Kind      { return KindCompiler }
func (d CompilerDiagnostic) Message() string { return d.Text }

// LintFailure is a rule violation reported by the linter.
type LintFailure struct {
	Location
	RuleName string
	Failure  string
}

func (f LintFailure) Kind() Kind      { return KindLint }
func (f LintFailure) Message() string { return f.Failure }

// Sort orders diagnostics by file, line and column. Lint failures on the
// same position follow compiler diagnostics.
func Sort(diagnostics []Diagnostic) {
	sort.SliceStable(diagnostics, func(i, j int) bool {
		a, b := diagnostics[i], diagnostics[j]
		if a.FileName() != b.FileName() {
			return a.FileName() < b.FileName()
		}
		if a.Line() != b.Line() {
			return a.Line() < b.Line()
		}
		if a.Column() != b.Column() {
			return a.Column() < b.Column()
		}
		return a.Kind() < b.Kind()
	})
}
