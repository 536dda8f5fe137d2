// Package lsp is the language-server shell: a JSON-RPC 2.0 loop over
// stdin/stdout that keeps open documents in a store and republishes
// compiler diagnostics on every change.
package lsp

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"

	"github.com/bract-lang/bract/internal/diag"
)

// Server speaks the language-server protocol over a reader/writer pair.
type Server struct {
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex

	store  *DocumentStore
	logger *log.Logger

	shutdown bool
}

// NewServer creates a server on stdin/stdout logging to stderr.
func NewServer() *Server {
	return NewServerOn(os.Stdin, os.Stdout)
}

// NewServerOn creates a server on an explicit transport. Used by tests.
func NewServerOn(r io.Reader, w io.Writer) *Server {
	return &Server{
		reader: bufio.NewReader(r),
		writer: w,
		store:  NewDocumentStore(),
		logger: log.New(os.Stderr, "bract-lsp: ", 0),
	}
}

// Store exposes the document store.
func (s *Server) Store() *DocumentStore { return s.store }

// Serve processes messages until EOF or an exit notification.
func (s *Server) Serve() error {
	for {
		msg, err := ReadMessage(s.reader)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if s.handle(msg) {
			return nil
		}
	}
}

// handle dispatches one message. It reports true when the client asked
// the server to exit.
func (s *Server) handle(msg *Message) bool {
	switch msg.Method {
	case "initialize":
		s.handleInitialize(msg)
	case "initialized":
		// notification, nothing to do
	case "shutdown":
		s.shutdown = true
		s.respond(msg, nil)
	case "exit":
		return true
	case "textDocument/didOpen":
		s.handleDidOpen(msg)
	case "textDocument/didChange":
		s.handleDidChange(msg)
	case "textDocument/didSave":
		s.handleDidSave(msg)
	case "textDocument/didClose":
		s.handleDidClose(msg)
	case "textDocument/definition":
		s.handleDefinition(msg)
	case "textDocument/hover":
		s.handleHover(msg)
	default:
		if msg.ID != nil && msg.Method != "" {
			s.respondError(msg, codeMethodNotFound, "unsupported method: "+msg.Method)
		}
	}
	return false
}

func (s *Server) handleInitialize(msg *Message) {
	s.respond(msg, map[string]any{
		"capabilities": map[string]any{
			"textDocumentSync":   1, // full-text sync
			"definitionProvider": true,
			"hoverProvider":      true,
		},
		"serverInfo": map[string]any{"name": "bract-lsp"},
	})
}

func (s *Server) handleDidOpen(msg *Message) {
	var params struct {
		TextDocument struct {
			URI     string `json:"uri"`
			Text    string `json:"text"`
			Version int    `json:"version"`
		} `json:"textDocument"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Printf("didOpen: %v", err)
		return
	}
	td := params.TextDocument
	s.store.UpdateDocument(td.URI, td.Text, td.Version)
	s.publishFor(td.URI)
}

func (s *Server) handleDidChange(msg *Message) {
	var params struct {
		TextDocument struct {
			URI     string `json:"uri"`
			Version int    `json:"version"`
		} `json:"textDocument"`
		ContentChanges []struct {
			Text string `json:"text"`
		} `json:"contentChanges"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Printf("didChange: %v", err)
		return
	}
	if len(params.ContentChanges) == 0 {
		return
	}
	// full sync: the last change carries the whole document
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.store.UpdateDocument(params.TextDocument.URI, text, params.TextDocument.Version)
	s.publishFor(params.TextDocument.URI)
}

func (s *Server) handleDidSave(msg *Message) {
	var params struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Printf("didSave: %v", err)
		return
	}
	s.publishFor(params.TextDocument.URI)
}

func (s *Server) handleDidClose(msg *Message) {
	var params struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Printf("didClose: %v", err)
		return
	}
	s.store.CloseDocument(params.TextDocument.URI)
	// clear stale squiggles in the editor
	s.publishDiagnostics(params.TextDocument.URI, []diag.Diagnostic{})
}

func (s *Server) publishFor(uri string) {
	diags, err := s.store.AnalyzeDocument(uri)
	if err != nil {
		s.logger.Printf("analyze %s: %v", uri, err)
		return
	}
	s.publishDiagnostics(uri, diags)
}

func (s *Server) publishDiagnostics(uri string, diags []diag.Diagnostic) {
	items := make([]any, 0, len(diags))
	for _, d := range diags {
		items = append(items, map[string]any{
			"range":    lspRange(d.Span),
			"severity": lspSeverity(d.Severity),
			"code":     string(d.Code),
			"source":   "bract",
			"message":  d.Message,
		})
	}
	params, _ := json.Marshal(map[string]any{"uri": uri, "diagnostics": items})
	s.write(&Message{JSONRPC: "2.0", Method: "textDocument/publishDiagnostics", Params: params})
}

// lspRange converts a diagnostic span to a protocol range. Protocol
// positions are zero-based.
func lspRange(sp diag.Span) map[string]any {
	line := sp.Line - 1
	col := sp.Column - 1
	if line < 0 {
		line, col = 0, 0
	}
	width := sp.End - sp.Start
	if width < 0 {
		width = 0
	}
	return map[string]any{
		"start": map[string]int{"line": line, "character": col},
		"end":   map[string]int{"line": line, "character": col + width},
	}
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SeverityError:
		return 1
	case diag.SeverityWarning:
		return 2
	default:
		return 3
	}
}

func (s *Server) respond(msg *Message, result any) {
	body, err := json.Marshal(result)
	if err != nil {
		s.logger.Printf("marshal response: %v", err)
		return
	}
	s.write(&Message{JSONRPC: "2.0", ID: msg.ID, Result: body})
}

func (s *Server) respondError(msg *Message, code int, text string) {
	s.write(&Message{JSONRPC: "2.0", ID: msg.ID, Error: &ResponseError{Code: code, Message: text}})
}

func (s *Server) write(msg *Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := WriteMessage(s.writer, msg); err != nil {
		s.logger.Printf("write: %v", err)
	}
}
