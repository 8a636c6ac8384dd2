// Package diag reports semantic compiler diagnostics in the
// CompilerError/ErrorReporter shape the teacher's internal/errors package
// uses (severity levels, optional suggestions), structurally unchanged.
// Syntax errors are not reported here: package grammar prints them in the
// flat "line N: syntax error at 'lexeme'" form.
package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

type Level int

const (
	Error Level = iota
	Warning
	Note
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "error"
	}
}

// CompilerError is a single diagnostic with an optional fix-it suggestion,
// grounded on the teacher's CompilerError/Suggestion shape.
type CompilerError struct {
	Level      Level
	Line, Col  int
	Message    string
	Suggestion string
}

func (e *CompilerError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Reporter collects diagnostics and renders them to an io.Writer (normally
// os.Stderr), matching the teacher's ErrorReporter: colored tag, plain
// message text (color decorates only the level tag, never the message).
type Reporter struct {
	errs []*CompilerError
}

func NewReporter() *Reporter { return &Reporter{} }

func (r *Reporter) Add(e *CompilerError) { r.errs = append(r.errs, e) }

func (r *Reporter) HasErrors() bool {
	for _, e := range r.errs {
		if e.Level == Error {
			return true
		}
	}
	return false
}

func (r *Reporter) Errors() []*CompilerError { return r.errs }

func (r *Reporter) Print(w io.Writer) {
	for _, e := range r.errs {
		tag := color.New(color.FgRed, color.Bold)
		if e.Level == Warning {
			tag = color.New(color.FgYellow, color.Bold)
		} else if e.Level == Note {
			tag = color.New(color.FgCyan, color.Bold)
		}
		tag.Fprintf(w, "%s: ", e.Level)
		fmt.Fprintln(w, e.Error())
		if e.Suggestion != "" {
			fmt.Fprintf(w, "  help: %s\n", e.Suggestion)
		}
	}
}
