package lsp

import (
	"encoding/json"

	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/lexer"
	"github.com/bract-lang/bract/internal/sema"
)

// positionParams is the shared shape of definition and hover requests.
type positionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

func (s *Server) handleDefinition(msg *Message) {
	var params positionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.respondError(msg, codeInvalidParams, err.Error())
		return
	}

	_, sym, err := s.symbolAt(params)
	if err != nil || sym == nil {
		s.respond(msg, nil)
		return
	}
	s.respond(msg, map[string]any{
		"uri":   params.TextDocument.URI,
		"range": rangeOf(sym.DefSpan),
	})
}

// symbolAt resolves the identifier under the cursor to its symbol.
func (s *Server) symbolAt(params positionParams) (*Document, *sema.Symbol, error) {
	doc, err := s.store.snapshot(params.TextDocument.URI)
	if err != nil {
		return nil, nil, err
	}

	ident := identifierAt(doc.Module, params.Position.Line+1, params.Position.Character+1)
	if ident == nil {
		return doc, nil, nil
	}
	return doc, doc.Analysis.Bindings[ident], nil
}

// identifierAt finds the innermost identifier covering a 1-based position.
func identifierAt(mod *ast.Module, line, column int) *ast.Identifier {
	var found *ast.Identifier
	ast.Walk(mod, func(n ast.Node) bool {
		if id, ok := n.(*ast.Identifier); ok && spanContains(id.Span(), line, column) {
			found = id
		}
		return true
	})
	return found
}

func spanContains(sp lexer.Span, line, column int) bool {
	if line < sp.Start.Line || line > sp.End.Line {
		return false
	}
	if line == sp.Start.Line && column < sp.Start.Column {
		return false
	}
	if line == sp.End.Line && column >= sp.End.Column {
		return false
	}
	return true
}

// rangeOf converts a lexer span to a protocol range.
func rangeOf(sp lexer.Span) map[string]any {
	return map[string]any{
		"start": map[string]int{"line": sp.Start.Line - 1, "character": sp.Start.Column - 1},
		"end":   map[string]int{"line": sp.End.Line - 1, "character": sp.End.Column - 1},
	}
}
