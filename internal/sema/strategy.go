package sema

import (
	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
)

// resolveStrategies is the final phase: every binding still marked
// StrategyInferred gets a concrete memory strategy. The rules apply in
// order; Manual is never inferred.
func (a *Analyzer) resolveStrategies() {
	for _, vi := range a.varOrder {
		if vi.sym.Strategy != ast.StrategyInferred {
			continue
		}
		if vi.sym.Kind != SymbolVariable && vi.sym.Kind != SymbolParameter {
			continue
		}

		chosen, ok := a.inferStrategy(vi)
		if !ok {
			a.reportError(diag.CodeStrategyUnresolved, vi.sym.DefSpan,
				"cannot infer a memory strategy for '"+a.name(vi.sym.Name)+"'",
				"annotate the binding, e.g. @linear or @region(name)")
			continue
		}

		vi.sym.Strategy = chosen
		if vi.let != nil {
			vi.let.Strategy = chosen
		}
		a.stats.StrategiesInferred[chosen]++
	}
}

func (a *Analyzer) inferStrategy(vi *varInfo) (ast.MemoryStrategy, bool) {
	size := SizeOf(vi.sym.Type)
	small := size >= 0 && size <= a.cfg.StackThresholdBytes

	switch {
	case !vi.escapes && small:
		return ast.StrategyStack, true
	case vi.escapes && vi.moves <= 1 && vi.borrows == 0:
		return ast.StrategyLinear, true
	case vi.moves >= 2 || (vi.escapes && vi.borrows > 0):
		return ast.StrategySmartPtr, true
	case vi.inRegion && !vi.escapes:
		return ast.StrategyRegion, true
	default:
		return ast.StrategyInferred, false
	}
}
