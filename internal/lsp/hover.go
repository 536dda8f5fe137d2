package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/sema"
)

func (s *Server) handleHover(msg *Message) {
	var params positionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.respondError(msg, codeInvalidParams, err.Error())
		return
	}

	doc, sym, err := s.symbolAt(params)
	if err != nil || sym == nil {
		s.respond(msg, nil)
		return
	}
	s.respond(msg, map[string]any{
		"contents": map[string]any{
			"kind":  "markdown",
			"value": hoverText(doc, sym),
		},
	})
}

// hoverText renders a symbol the way the compiler sees it: kind, name,
// checked type and the resolved memory strategy for value bindings.
func hoverText(doc *Document, sym *sema.Symbol) string {
	var b strings.Builder
	b.WriteString("```bract\n")
	fmt.Fprintf(&b, "%s %s", sym.Kind, doc.Interner.Get(sym.Name))
	if sym.Type != nil {
		fmt.Fprintf(&b, ": %s", sym.Type)
	}
	b.WriteString("\n```")

	if sym.Kind == sema.SymbolVariable || sym.Kind == sema.SymbolParameter {
		if sym.Strategy != ast.StrategyInferred {
			fmt.Fprintf(&b, "\n\nmemory strategy: `%s`", sym.Strategy)
		}
		if sym.Mutable {
			b.WriteString("\n\nmutable binding")
		}
	}
	return b.String()
}
