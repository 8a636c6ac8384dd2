package dataflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacc/internal/cfg"
	"tacc/internal/dataflow"
	"tacc/internal/ir"
	"tacc/internal/parser"
	"tacc/internal/sema"
	"tacc/internal/translate"
)

func compileFirst(t *testing.T, source string) *ir.Function {
	t.Helper()
	prog, err := parser.ParseString("<test>", source)
	require.NoError(t, err)

	globals, lits := sema.BuildGlobalScope(prog)
	report := sema.Check(prog, globals)
	require.False(t, report.HasErrors())

	fns := translate.New(globals, lits).TranslateProgram(prog)
	require.NotEmpty(t, fns)
	fn := fns[0]
	cfg.Rebuild(fn)
	return fn
}

func symbolNamed(fn *ir.Function, name string) *ir.Symbol {
	for scope := fn.Locals; scope != nil; scope = scope.Enclosing() {
		if s, ok := scope.Lookup(name); ok {
			return s
		}
	}
	return nil
}

func TestUsesReturnsBothBinaryOperands(t *testing.T) {
	fn := compileFirst(t, `word f(word a) { word x; x = a + 1; return x; }`)

	var found bool
	for _, stmt := range fn.Stmts.Slice() {
		if b, ok := stmt.(*ir.Binary); ok {
			found = true
			uses := dataflow.Uses(b)
			require.Len(t, uses, 2)
			assert.False(t, ir.IsNumber(uses[0]) && ir.IsNumber(uses[1]), "at least one operand must be the non-literal 'a'")
		}
	}
	require.True(t, found, "expected a Binary statement for a + 1")
}

func TestKillReturnsResultForDefiningStatements(t *testing.T) {
	fn := compileFirst(t, `word f(word a) { word x; x = a + 1; return x; }`)
	for _, stmt := range fn.Stmts.Slice() {
		if b, ok := stmt.(*ir.Binary); ok {
			assert.Same(t, b.Result, dataflow.Kill(b))
		}
	}
}

func TestLiveVariablesMarksParamLiveAcrossUse(t *testing.T) {
	fn := compileFirst(t, `word f(word a) { word x; x = a + 1; return x; }`)
	dataflow.LiveVariables(fn)

	a := symbolNamed(fn, "a")
	require.NotNil(t, a)
	// The entry block holds only the Null placeholder; the body starts in
	// the block after it.
	assert.True(t, fn.Blocks[1].UEVar[a], "a is used before any redefinition in its block, so it must be upward-exposed")
}

func TestLiveVariablesExitSeedsWithGlobals(t *testing.T) {
	fn := compileFirst(t, `
		word counter;
		word f(word a) { counter = a; return a; }
	`)
	dataflow.LiveVariables(fn)

	counter := symbolNamed(fn, "counter")
	require.NotNil(t, counter)
	assert.True(t, fn.Exit.LiveOut[counter])
}

func TestLiveVariablesDeadAssignmentNotLiveOut(t *testing.T) {
	fn := compileFirst(t, `word f(word a) { word x; x = a + 1; return a; }`)
	dataflow.LiveVariables(fn)

	x := symbolNamed(fn, "x")
	require.NotNil(t, x)
	for _, b := range fn.Blocks {
		assert.False(t, b.LiveOut[x], "x is never used after its assignment, so it can never be live-out")
	}
}

func TestAvailableCopiesEntryStartsEmpty(t *testing.T) {
	fn := compileFirst(t, `word f(word a) { word x; x = a; return x; }`)
	dataflow.AvailableCopies(fn)
	assert.Empty(t, fn.Entry.AvailIn)
}

func TestAvailableCopiesPropagatesThroughStraightLineCode(t *testing.T) {
	fn := compileFirst(t, `word f(word a) { word x; word y; x = a; y = x; return y; }`)
	dataflow.AvailableCopies(fn)

	a := symbolNamed(fn, "a")
	x := symbolNamed(fn, "x")
	require.NotNil(t, a)
	require.NotNil(t, x)

	found := false
	for _, b := range fn.Blocks {
		if b.DECopies[ir.CopyPair{Result: x, Source: a}] {
			found = true
		}
	}
	assert.True(t, found, "x := a must be recorded as a downward-exposed copy somewhere in the function")
}

func TestAvailableExpressionsEntryStartsEmpty(t *testing.T) {
	fn := compileFirst(t, `word f(word a, word b) { word x; x = a + b; return x; }`)
	dataflow.AvailableExpressions(fn)
	assert.Empty(t, fn.Entry.AvailInExp)
}

func TestAvailableExpressionsKilledByOperandRedefinition(t *testing.T) {
	fn := compileFirst(t, `word f(word a, word b) { word x; word y; x = a + b; a = 1; y = a + b; return x; }`)
	dataflow.AvailableExpressions(fn)

	a := symbolNamed(fn, "a")
	b := symbolNamed(fn, "b")
	require.NotNil(t, a)
	require.NotNil(t, b)

	for _, blk := range fn.Blocks {
		if blk.ExprKill[ir.ExprKey{Op: ir.ADD, Left: a, Right: b}] {
			return
		}
	}
	t.Fatal("redefining a must kill the availability of a + b somewhere in the function")
}

func TestGlobalScalarsExcludesFunctions(t *testing.T) {
	fn := compileFirst(t, `
		word counter;
		word helper(word a) { return a; }
		word f(word a) { return helper(a) + counter; }
	`)
	globals := dataflow.GlobalScalars(fn)

	counter := symbolNamed(fn, "counter")
	require.NotNil(t, counter)
	assert.True(t, globals[counter])

	for g := range globals {
		assert.False(t, g.Typ.IsFunction(), "GlobalScalars must exclude function symbols like helper")
	}
}
