package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `word f(word a) { word x; x = a + 0; return x; }`

func runOn(t *testing.T, source string, flags ...string) (string, string, int) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.tc")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	var out, errOut bytes.Buffer
	code := run(append(append([]string{}, flags...), path), &out, &errOut)
	return out.String(), errOut.String(), code
}

// Enabling only --dce must not silently enable --asimp/--cprop/etc; the
// original CLI's bug was exactly this fallthrough.
func TestIndependentFlagsDoNotFallThrough(t *testing.T) {
	out, _, code := runOn(t, sample, "-T", "--dce")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "+", "algebraic simplification must stay off when only --dce is set")
}

func TestDefaultModeIsAssemblyStub(t *testing.T) {
	out, _, code := runOn(t, sample)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "unimplemented: target assembly")
}

func TestDashOEnablesEveryPass(t *testing.T) {
	out, _, code := runOn(t, sample, "-T", "-O")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "return a")
	assert.NotContains(t, out, "+")
}

func TestSyntaxErrorExitsNonZero(t *testing.T) {
	_, _, code := runOn(t, "word f( { return 1; }", "-T")
	assert.NotEqual(t, 0, code)
}

func TestASTDumpMode(t *testing.T) {
	out, _, code := runOn(t, sample, "-A")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "function word f")
}
