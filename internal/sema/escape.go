package sema

import (
	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
)

// checkEscapes is the escape phase. A value escapes when it is returned
// (explicitly or as a body tail) or stored into a binding from an
// enclosing scope. Stack values must not escape their frame and region
// values must not outlive their region block.
func (a *Analyzer) checkEscapes() {
	for _, vi := range a.varOrder {
		if !vi.escapes {
			continue
		}
		name := a.name(vi.sym.Name)

		switch vi.sym.Strategy {
		case ast.StrategyStack:
			a.reportError(diag.CodeStackEscape, vi.escapeSpan,
				"stack value '"+name+"' escapes its function",
				"stack allocations are freed when the frame returns")

		case ast.StrategyRegion:
			msg := "region value '" + name + "' escapes its region"
			if vi.inRegion {
				msg = "value '" + name + "' escapes region '" + a.name(vi.region) + "'"
			}
			a.reportError(diag.CodeRegionEscape, vi.escapeSpan, msg,
				"region allocations are bulk-freed at region exit")
		}
	}
}
