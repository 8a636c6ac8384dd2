package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacc/grammar"
)

func TestParseFunctionAndGlobal(t *testing.T) {
	src := `
		word counter;

		word add(word a, word b) {
			word t;
			t = a + b;
			return t;
		}
	`
	prog, err := grammar.ParseString("<test>", src)
	require.NoError(t, err)
	require.Len(t, prog.Decls, 2)

	assert.NotNil(t, prog.Decls[0].Global)
	assert.Equal(t, "counter", prog.Decls[0].Global.Name)

	fn := prog.Decls[1].Function
	require.NotNil(t, fn)
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params, 2)
}

func TestParseControlFlow(t *testing.T) {
	src := `
		word f(word a) {
			word x;
			x = 0;
			while (a > 0) {
				x = x + a;
				a = a - 1;
			}
			if (x > 10) {
				return 1;
			} else {
				return 0;
			}
		}
	`
	_, err := grammar.ParseString("<test>", src)
	require.NoError(t, err)
}

func TestParseExpressionPrecedence(t *testing.T) {
	src := `
		word f() {
			word x;
			x = 1 + 2 * 3 - 4 / 2 == 3 && 1 || 0;
			return x;
		}
	`
	_, err := grammar.ParseString("<test>", src)
	require.NoError(t, err)
}

func TestParseSyntaxErrorReported(t *testing.T) {
	_, err := grammar.ParseString("<test>", `word f() { return }`)
	assert.Error(t, err)
}
