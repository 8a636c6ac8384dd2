package sema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacc/internal/parser"
	"tacc/internal/sema"
)

func TestBuildGlobalScopeDeclaresGlobalsAndFunctions(t *testing.T) {
	prog, err := parser.ParseString("<test>", `
		word total;
		word add(word a, word b) { return a + b; }
	`)
	require.NoError(t, err)

	globals, lits := sema.BuildGlobalScope(prog)
	require.NotNil(t, lits)

	_, ok := globals.Lookup("total")
	assert.True(t, ok)
	_, ok = globals.Lookup("add")
	assert.True(t, ok)
}

func TestCheckAcceptsWellFormedProgram(t *testing.T) {
	prog, err := parser.ParseString("<test>", `
		word add(word a, word b) {
			word x;
			x = a + b;
			return x;
		}
	`)
	require.NoError(t, err)

	globals, _ := sema.BuildGlobalScope(prog)
	report := sema.Check(prog, globals)
	assert.False(t, report.HasErrors())
}

func TestCheckRejectsUndeclaredIdentifier(t *testing.T) {
	prog, err := parser.ParseString("<test>", `
		word f() { return y; }
	`)
	require.NoError(t, err)

	globals, _ := sema.BuildGlobalScope(prog)
	report := sema.Check(prog, globals)
	require.True(t, report.HasErrors())
}

func TestCheckRejectsArityMismatch(t *testing.T) {
	prog, err := parser.ParseString("<test>", `
		word add(word a, word b) { return a + b; }
		word f() { return add(1); }
	`)
	require.NoError(t, err)

	globals, _ := sema.BuildGlobalScope(prog)
	report := sema.Check(prog, globals)
	require.True(t, report.HasErrors())
}

func TestCheckRejectsVoidFunctionReturningValue(t *testing.T) {
	prog, err := parser.ParseString("<test>", `
		void f() { return 1; }
	`)
	require.NoError(t, err)

	globals, _ := sema.BuildGlobalScope(prog)
	report := sema.Check(prog, globals)
	require.True(t, report.HasErrors())
}

func TestCheckRejectsKeywordSpelledAsIdentifier(t *testing.T) {
	prog, err := parser.ParseString("<test>", `
		word f() { word if; return 0; }
	`)
	require.NoError(t, err)

	globals, _ := sema.BuildGlobalScope(prog)
	report := sema.Check(prog, globals)
	require.True(t, report.HasErrors())
}

func TestCheckRejectsIndexingNonArray(t *testing.T) {
	prog, err := parser.ParseString("<test>", `
		word f(word a) { return a[0]; }
	`)
	require.NoError(t, err)

	globals, _ := sema.BuildGlobalScope(prog)
	report := sema.Check(prog, globals)
	require.True(t, report.HasErrors())
}
