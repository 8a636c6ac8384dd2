package lsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"tacc/internal/lsp"
)

const source = `word add(word a, word b) {
	word x;
	x = a + 0;
	return x;
}
`

func TestPreviewReturnsOptimizedTACPerFunction(t *testing.T) {
	h := lsp.NewHandler()
	out, err := h.Preview("file:///add.tc", source)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "return a", "the add-zero identity must have been simplified away")
}

func TestPreviewReportsParseErrors(t *testing.T) {
	h := lsp.NewHandler()
	_, err := h.Preview("file:///bad.tc", `word f( { return 1; }`)
	assert.Error(t, err)
}

func TestPreviewReportsSemanticErrors(t *testing.T) {
	h := lsp.NewHandler()
	_, err := h.Preview("file:///bad.tc", `word f() { return y; }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error")
}

func TestHoverReturnsCachedTACForLineInsideFunction(t *testing.T) {
	h := lsp.NewHandler()
	_, err := h.Preview("file:///add.tc", source)
	require.NoError(t, err)

	hov, err := h.TextDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///add.tc"},
			Position:     protocol.Position{Line: 2},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hov)

	content, ok := hov.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Contains(t, content.Value, "return a")
}

func TestHoverReturnsNilOutsideAnyFunction(t *testing.T) {
	h := lsp.NewHandler()
	_, err := h.Preview("file:///add.tc", source)
	require.NoError(t, err)

	hov, err := h.TextDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///add.tc"},
			Position:     protocol.Position{Line: 500},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, hov)
}

func TestCodeLensSummarizesRemovedStatements(t *testing.T) {
	h := lsp.NewHandler()
	_, err := h.Preview("file:///add.tc", source)
	require.NoError(t, err)

	lenses, err := h.TextDocumentCodeLens(nil, &protocol.CodeLensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///add.tc"},
	})
	require.NoError(t, err)
	require.Len(t, lenses, 1)
	assert.Contains(t, lenses[0].Command.Title, "optimized")
}

func TestInitializeAdvertisesHoverAndCodeLens(t *testing.T) {
	h := lsp.NewHandler()
	result, err := h.Initialize(nil, &protocol.InitializeParams{})
	require.NoError(t, err)

	init, ok := result.(*protocol.InitializeResult)
	require.True(t, ok)
	require.NotNil(t, init.Capabilities.HoverProvider)
	require.NotNil(t, init.Capabilities.CodeLensProvider)
}
