package diag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tacc/internal/diag"
)

func TestReporterHasErrorsOnlyCountsErrorLevel(t *testing.T) {
	r := diag.NewReporter()
	assert.False(t, r.HasErrors())

	r.Add(&diag.CompilerError{Level: diag.Warning, Line: 3, Message: "unused variable"})
	assert.False(t, r.HasErrors(), "a warning alone must not count as an error")

	r.Add(&diag.CompilerError{Level: diag.Error, Line: 5, Message: "undeclared identifier"})
	assert.True(t, r.HasErrors())
}

func TestCompilerErrorFormatsLineNumber(t *testing.T) {
	e := &diag.CompilerError{Line: 7, Message: "bad thing"}
	assert.Equal(t, "line 7: bad thing", e.Error())
}

func TestCompilerErrorWithoutLineOmitsPrefix(t *testing.T) {
	e := &diag.CompilerError{Message: "bad thing"}
	assert.Equal(t, "bad thing", e.Error())
}

func TestReporterPrintIncludesSuggestion(t *testing.T) {
	r := diag.NewReporter()
	r.Add(&diag.CompilerError{
		Level:      diag.Error,
		Line:       2,
		Message:    "undeclared identifier \"x\"",
		Suggestion: "did you mean \"y\"?",
	})

	var b strings.Builder
	r.Print(&b)

	out := b.String()
	assert.Contains(t, out, "line 2")
	assert.Contains(t, out, "help: did you mean")
}
