package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacc/internal/cfg"
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
	return fns[0]
}

func TestRebuildProducesEntryAndExitBlocks(t *testing.T) {
	fn := compileFirst(t, `word f(word a) { return a; }`)
	cfg.Rebuild(fn)

	require.NotNil(t, fn.Entry)
	require.NotNil(t, fn.Exit)
	assert.Same(t, fn.Entry, fn.Blocks[0])
	assert.Same(t, fn.Exit, fn.Blocks[len(fn.Blocks)-1])
}

func TestRebuildLinksIfElseBranches(t *testing.T) {
	fn := compileFirst(t, `
		word f(word a) {
			if (a == 0) {
				return 1;
			} else {
				return 2;
			}
		}
	`)
	cfg.Rebuild(fn)

	var branching *ir.Block
	for _, b := range fn.Blocks {
		if len(b.Succs) == 2 {
			branching = b
		}
	}
	require.NotNil(t, branching, "exactly one block must end in the if's two-way branch")

	for _, succ := range branching.Succs {
		assert.True(t, succ == fn.Exit || len(succ.Preds) >= 1)
	}
}

func TestRebuildLinksWhileLoopBackEdge(t *testing.T) {
	fn := compileFirst(t, `
		word f(word a) {
			while (a != 0) {
				a = a - 1;
			}
			return a;
		}
	`)
	cfg.Rebuild(fn)

	var header *ir.Block
	for _, b := range fn.Blocks {
		if len(b.Preds) >= 2 {
			header = b
		}
	}
	require.NotNil(t, header, "the loop header must be reached from both entry and the loop body")
}

func TestRebuildIsIdempotentOnSecondCall(t *testing.T) {
	fn := compileFirst(t, `
		word f(word a) {
			if (a == 0) { return 1; }
			return a;
		}
	`)
	cfg.Rebuild(fn)
	firstCount := len(fn.Blocks)

	cfg.Rebuild(fn)
	assert.Equal(t, firstCount, len(fn.Blocks), "rebuilding an already-clean CFG must reach the same fixed point")
}

func TestBlockStmtsExcludeBoundaryLabels(t *testing.T) {
	fn := compileFirst(t, `word f(word a) { word x; x = a + 1; return x; }`)
	cfg.Rebuild(fn)

	for _, b := range fn.Blocks {
		for _, stmt := range b.Stmts() {
			assert.Nil(t, stmt.AsLabel(), "Block.Stmts must skip the leading and trailing Label")
		}
	}
}

func TestEveryBlockLabelPointsBackToItself(t *testing.T) {
	fn := compileFirst(t, `
		word f(word a) {
			if (a == 0) { return 1; }
			return a;
		}
	`)
	cfg.Rebuild(fn)

	for _, b := range fn.Blocks {
		assert.Same(t, b, b.Label().Block())
	}
}
