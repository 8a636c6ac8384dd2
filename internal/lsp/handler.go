// Package lsp implements an editor-preview server for tacc: on open or save
// it runs the full pipeline (parse -> sema -> translate -> CFG -> optimize)
// over the document and exposes the optimized TAC as hover text and a
// codeLens summary, grounded on the teacher's internal/lsp/handler.go.
package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"tacc/internal/ast"
	"tacc/internal/diag"
	"tacc/internal/ir"
	"tacc/internal/optimize"
	"tacc/internal/parser"
	"tacc/internal/sema"
	"tacc/internal/translate"
)

// funcResult holds one function's before/after TAC for a single document,
// keyed by the source line range it spans so Hover/CodeLens can find the
// function under the cursor.
type funcResult struct {
	name       string
	startLine  int // 1-based, inclusive
	endLine    int // 1-based, inclusive
	after      string
	beforeStmt int
	afterStmt  int
}

// Handler implements the glsp protocol.Handler callbacks for tacc-lsp.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	results map[string][]*funcResult
}

func NewHandler() *Handler {
	return &Handler{
		content: make(map[string]string),
		results: make(map[string][]*funcResult),
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
				Save:      &protocol.SaveOptions{IncludeText: ptrBool(true)},
			},
			HoverProvider:    ptrBool(true),
			CodeLensProvider: &protocol.CodeLensOptions{ResolveProvider: ptrBool(false)},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error { return nil }

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error { return nil }

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.refresh(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

func (h *Handler) TextDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		return h.refresh(ctx, params.TextDocument.URI, *params.Text)
	}
	h.mu.RLock()
	text, ok := h.content[string(params.TextDocument.URI)]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	return h.refresh(ctx, params.TextDocument.URI, text)
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	for _, change := range params.ContentChanges {
		if full, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			return h.refresh(ctx, params.TextDocument.URI, full.Text)
		}
	}
	return nil
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	uri := string(params.TextDocument.URI)
	delete(h.content, uri)
	delete(h.results, uri)
	return nil
}

// TextDocumentHover returns the optimized TAC for the function the cursor
// sits inside, as plain text.
func (h *Handler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	fr := h.funcAt(string(params.TextDocument.URI), int(params.Position.Line)+1)
	if fr == nil {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindPlainText, Value: fr.after},
	}, nil
}

// TextDocumentCodeLens returns one lens per function summarizing how many
// statements the optimizer removed.
func (h *Handler) TextDocumentCodeLens(ctx *glsp.Context, params *protocol.CodeLensParams) ([]protocol.CodeLens, error) {
	h.mu.RLock()
	results := h.results[string(params.TextDocument.URI)]
	h.mu.RUnlock()

	lenses := make([]protocol.CodeLens, 0, len(results))
	for _, fr := range results {
		removed := fr.beforeStmt - fr.afterStmt
		lenses = append(lenses, protocol.CodeLens{
			Range: lineRange(fr.startLine - 1),
			Command: &protocol.Command{
				Title: fmt.Sprintf("optimized %d statements, removed %d", fr.beforeStmt, removed),
			},
		})
	}
	return lenses, nil
}

// Preview runs the pipeline over text (identified by uri for caching) and
// returns each function's optimized TAC text, used by internal/lspnet's
// websocket transport, which doesn't speak the full LSP jsonrpc2 envelope.
func (h *Handler) Preview(uri, text string) ([]string, error) {
	prog, err := parser.ParseString(uri, text)
	if err != nil {
		return nil, err
	}

	globals, lits := sema.BuildGlobalScope(prog)
	report := sema.Check(prog, globals)
	if report.HasErrors() {
		msgs := make([]string, 0, len(report.Errors()))
		for _, e := range report.Errors() {
			msgs = append(msgs, e.Error())
		}
		return nil, fmt.Errorf("%d error(s): %s", len(msgs), strings.Join(msgs, "; "))
	}

	lineCount := len(strings.Split(text, "\n"))
	results := compile(prog, globals, lits, lineCount)

	h.mu.Lock()
	h.content[uri] = text
	h.results[uri] = results
	h.mu.Unlock()

	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.after
	}
	return out, nil
}

func (h *Handler) funcAt(uri string, line int) *funcResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fr := range h.results[uri] {
		if line >= fr.startLine && line <= fr.endLine {
			return fr
		}
	}
	return nil
}

// refresh runs the pipeline over source and publishes diagnostics or, on
// success, caches per-function before/after TAC for Hover/CodeLens.
func (h *Handler) refresh(ctx *glsp.Context, uri protocol.DocumentUri, source string) error {
	h.mu.Lock()
	h.content[string(uri)] = source
	h.mu.Unlock()

	path, err := uriToPath(string(uri))
	if err != nil {
		path = string(uri)
	}

	prog, err := parser.ParseString(path, source)
	if err != nil {
		publishDiagnostics(ctx, uri, []protocol.Diagnostic{{
			Range:    lineRange(0),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("tacc"),
			Message:  err.Error(),
		}})
		return nil
	}

	globals, lits := sema.BuildGlobalScope(prog)
	report := sema.Check(prog, globals)
	if report.HasErrors() {
		publishDiagnostics(ctx, uri, toProtocolDiagnostics(report))
		return nil
	}

	lineCount := len(strings.Split(source, "\n"))
	results := compile(prog, globals, lits, lineCount)

	h.mu.Lock()
	h.results[string(uri)] = results
	h.mu.Unlock()

	publishDiagnostics(ctx, uri, nil)
	return nil
}

// compile lowers every function to TAC, records its pre-optimization
// statement count, runs the full optimizer, and records the result —
// zipping ast.Program.Functions against internal/translate's output since
// both iterate in source order.
func compile(prog *ast.Program, globals *ir.SymbolTable, lits *ir.LiteralPool, lineCount int) []*funcResult {
	fns := translate.New(globals, lits).TranslateProgram(prog)
	out := make([]*funcResult, len(fns))

	for i, fn := range fns {
		astFn := prog.Functions[i]
		before := fn.Stmts.Len()

		optimize.Drive(fn, lits, optimize.DefaultConfig())

		out[i] = &funcResult{
			name:       astFn.Name,
			startLine:  astFn.Pos.Line,
			endLine:    nextStart(prog, i, lineCount) - 1,
			after:      ir.Print(fn),
			beforeStmt: before,
			afterStmt:  fn.Stmts.Len(),
		}
	}
	return out
}

func nextStart(prog *ast.Program, i, lineCount int) int {
	if i+1 < len(prog.Functions) {
		return prog.Functions[i+1].Pos.Line
	}
	return lineCount + 1
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }

func lineRange(line int) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(line)},
		End:   protocol.Position{Line: uint32(line), Character: 1},
	}
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func toProtocolDiagnostics(report *diag.Reporter) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(report.Errors()))
	for _, e := range report.Errors() {
		line := e.Line - 1
		if line < 0 {
			line = 0
		}
		sev := protocol.DiagnosticSeverityError
		if e.Level == diag.Warning {
			sev = protocol.DiagnosticSeverityWarning
		} else if e.Level == diag.Note {
			sev = protocol.DiagnosticSeverityInformation
		}
		out = append(out, protocol.Diagnostic{
			Range:    lineRange(line),
			Severity: ptrSeverity(sev),
			Source:   ptrString("tacc"),
			Message:  e.Message,
		})
	}
	return out
}
