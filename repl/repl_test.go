package repl

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileReturnsOptimizedTAC(t *testing.T) {
	r := New()
	out, err := r.compile(`word f(word a) { return a + 0; }`)
	require.NoError(t, err)
	assert.Contains(t, out, "return a")
	assert.NotContains(t, out, "+")
}

func TestCompileReportsParseError(t *testing.T) {
	r := New()
	_, err := r.compile(`word f( { return 1; }`)
	assert.Error(t, err)
}

func TestCompileReportsSemanticError(t *testing.T) {
	r := New()
	_, err := r.compile(`word f() { return y; }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared")
}

func TestStartEchoesCompiledTACAndPrompts(t *testing.T) {
	in := strings.NewReader("word f(word a) { return a + 0; }\n:quit\n")
	var out bytes.Buffer

	Start(in, &out)

	got := out.String()
	assert.Contains(t, got, PROMPT)
	assert.Contains(t, got, "return a")
}

func TestStartReportsCompileErrorsInline(t *testing.T) {
	in := strings.NewReader("word f( { return 1; }\n:quit\n")
	var out bytes.Buffer

	Start(in, &out)
	assert.Contains(t, out.String(), "error:")
}

func TestSaveAndLoadRoundTripSession(t *testing.T) {
	r := New()
	_, err := r.compile(`word f(word a) { return a; }`)
	require.NoError(t, err)
	r.session.Entries = append(r.session.Entries, Entry{Source: "word f(word a) { return a; }", TAC: "L0:\n"})

	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, r.save(path))

	loaded := New()
	require.NoError(t, loaded.load(path))
	require.Len(t, loaded.session.Entries, 1)
	assert.Equal(t, r.session.Entries[0].Source, loaded.session.Entries[0].Source)
}

func TestHandleCommandRecognizesQuit(t *testing.T) {
	r := New()
	var out bytes.Buffer
	handled, quit := r.handleCommand(":quit", &out)
	assert.True(t, handled)
	assert.True(t, quit)
}

func TestHandleCommandSaveAndLoad(t *testing.T) {
	r := New()
	r.session.Entries = append(r.session.Entries, Entry{Source: "x", TAC: "y"})

	path := filepath.Join(t.TempDir(), "session.yaml")
	var out bytes.Buffer

	handled, quit := r.handleCommand(":save "+path, &out)
	assert.True(t, handled)
	assert.False(t, quit)

	fresh := New()
	handled, quit = fresh.handleCommand(":load "+path, &out)
	assert.True(t, handled)
	assert.False(t, quit)
	assert.Contains(t, out.String(), "loaded 1 entries")
	require.Len(t, fresh.session.Entries, 1)
}
