// Package lspnet gives tacc-lsp a websocket transport alongside its default
// stdio transport, for clients (browser-based previews, remote editors)
// that can't spawn a subprocess and speak raw LSP jsonrpc2 framing. It does
// not tunnel the full Language Server Protocol: a session posts a document
// URI and its current text and gets back each function's optimized TAC, or
// an error — a small JSON request/response pair per message.
package lspnet

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/segmentio/ksuid"

	"tacc/internal/lsp"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Request is one compile-and-preview request.
type Request struct {
	URI  string `json:"uri"`
	Text string `json:"text"`
}

// Response carries back the optimized TAC for every function in the
// document, or an error describing why it couldn't be compiled.
type Response struct {
	SessionID string   `json:"sessionId"`
	Functions []string `json:"functions,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// ServeWebsocket listens on addr and serves h's compile pipeline over
// websocket connections at /tacc until the process exits or the listener
// fails.
func ServeWebsocket(addr string, h *lsp.Handler) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/tacc", func(w http.ResponseWriter, r *http.Request) {
		handleConn(w, r, h)
	})
	return http.ListenAndServe(addr, mux)
}

func handleConn(w http.ResponseWriter, r *http.Request, h *lsp.Handler) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("tacc-lsp: websocket upgrade failed: %s", err)
		return
	}
	defer conn.Close()

	sessionID := ksuid.New().String()
	log.Printf("tacc-lsp: websocket session %s connected", sessionID)

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			log.Printf("tacc-lsp: session %s closed: %s", sessionID, err)
			return
		}

		resp := Response{SessionID: sessionID}
		functions, err := h.Preview(req.URI, req.Text)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Functions = functions
		}

		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("tacc-lsp: session %s write failed: %s", sessionID, err)
			return
		}
	}
}
