// SPDX-License-Identifier: Apache-2.0

// Command tacc-lsp is an editor-preview server: on open/save it runs the
// tacc pipeline over the document and exposes optimized TAC as hover text
// and a codeLens summary, grounded on the teacher's cmd/kanso-lsp.
package main

import (
	"flag"
	"log"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"tacc/internal/lsp"
	"tacc/internal/lspnet"
)

const lsName = "tacc"

var version = "0.0.1"

func main() {
	ws := flag.Bool("ws", false, "serve over websocket instead of stdio")
	addr := flag.String("addr", ":7417", "listen address when --ws is set")
	flag.Parse()

	commonlog.Configure(1, nil)

	h := lsp.NewHandler()

	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		SetTrace:              h.SetTrace,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidSave:   h.TextDocumentDidSave,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
		TextDocumentHover:     h.TextDocumentHover,
		TextDocumentCodeLens:  h.TextDocumentCodeLens,
	}

	s := server.NewServer(&handler, lsName, false)

	if *ws {
		log.Printf("tacc-lsp %s listening on %s (websocket)\n", version, *addr)
		if err := lspnet.ServeWebsocket(*addr, h); err != nil {
			log.Fatalf("tacc-lsp: %s", err)
		}
		return
	}

	log.Printf("tacc-lsp %s starting over stdio\n", version)
	if err := s.RunStdio(); err != nil {
		log.Fatalf("tacc-lsp: %s", err)
	}
}
