package sema

import (
	"github.com/bract-lang/bract/internal/ast"
)

// unwrapIdent peels parentheses and returns the identifier underneath, or
// nil when the expression is not a plain name.
func unwrapIdent(expr ast.Expr) *ast.Identifier {
	for {
		switch e := expr.(type) {
		case *ast.Identifier:
			return e
		case *ast.Parenthesized:
			expr = e.Inner
		default:
			return nil
		}
	}
}

// varOf resolves expr to a local variable or parameter already bound by
// the type-checking pass.
func (a *Analyzer) varOf(expr ast.Expr) *varInfo {
	ident := unwrapIdent(expr)
	if ident == nil {
		return nil
	}
	sym := a.bindings[ident]
	if sym == nil || (sym.Kind != SymbolVariable && sym.Kind != SymbolParameter) {
		return nil
	}
	return a.info(sym)
}

// markRead records a by-name use. Called from the identifier case of the
// type checker, so every resolved variable use passes through here.
func (a *Analyzer) markRead(sym *Symbol, ident *ast.Identifier) {
	if sym.Kind != SymbolVariable && sym.Kind != SymbolParameter {
		return
	}
	vi := a.info(sym)
	vi.reads++
	vi.useSpan = ident.Span()
}

// markMove records that expr's value was consumed: passed by value,
// returned, or bound to a new owner. Copy types never move.
func (a *Analyzer) markMove(expr ast.Expr) {
	vi := a.varOf(expr)
	if vi == nil {
		return
	}
	if t := a.exprs[expr]; t == nil || IsCopy(t) {
		return
	}
	// the consuming use was already counted as a read
	vi.reads--
	if vi.moves == 0 {
		vi.moveSpan = expr.Span()
	}
	vi.moves++
	vi.useSpan = expr.Span()
}

// markConsume records a transfer into a linear owner, such as an argument
// to a linear-annotated parameter. Unlike markMove it applies to copy
// types too: the callee takes sole ownership either way.
func (a *Analyzer) markConsume(expr ast.Expr) {
	vi := a.varOf(expr)
	if vi == nil {
		return
	}
	vi.linearConsumed = true
	vi.reads--
	if vi.moves == 0 {
		vi.moveSpan = expr.Span()
	}
	vi.moves++
	vi.useSpan = expr.Span()
}

// markBorrow records a reference-pattern binding against the source
// variable. Mutable is true for `& mut` patterns.
func (a *Analyzer) markBorrow(expr ast.Expr, mutable bool) {
	vi := a.varOf(expr)
	if vi == nil {
		return
	}
	vi.borrows++
	if mutable {
		vi.mutBorrows++
	}
	vi.borrowSpan = expr.Span()
}

// markCrossScopeEscape flags a value stored into a binding from an
// enclosing scope. Name resolution only sees enclosing scopes, so a
// differing defining scope means the target outlives the value's scope.
func (a *Analyzer) markCrossScopeEscape(target, value ast.Expr) {
	tv := a.varOf(target)
	vv := a.varOf(value)
	if tv == nil || vv == nil || tv.sym.Scope == vv.sym.Scope {
		return
	}
	vv.escapes = true
	vv.escapeSpan = value.Span()
}

// markEscape records that expr's value leaves the current function or
// flows into an enclosing scope.
func (a *Analyzer) markEscape(expr ast.Expr) {
	vi := a.varOf(expr)
	if vi == nil {
		return
	}
	vi.escapes = true
	vi.escapeSpan = expr.Span()
}
