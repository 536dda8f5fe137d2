package sema

import (
	"fmt"

	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
	"github.com/bract-lang/bract/internal/lexer"
)

// checkOwnership is the ownership phase. The type checker classified every
// variable use as a read, move or borrow; this pass enforces the per-
// strategy rules over those counts. Uses are ordered by source position,
// which matches control flow for straight-line code; branches merge
// pessimistically, so a move on one branch poisons reads after the join.
func (a *Analyzer) checkOwnership() {
	for _, vi := range a.varOrder {
		a.checkVarOwnership(vi)
	}
}

func (a *Analyzer) checkVarOwnership(vi *varInfo) {
	name := a.name(vi.sym.Name)
	linear := vi.sym.Strategy == ast.StrategyLinear

	if linear && vi.moves == 0 {
		a.reportError(diag.CodeLinearUnused, vi.sym.DefSpan,
			"linear value '"+name+"' is never consumed",
			"a linear value must be moved or passed on exactly once")
		return
	}

	if vi.moves > 1 && linear {
		a.reportError(diag.CodeLinearDoubleUse, vi.useSpan,
			"linear value '"+name+"' is consumed more than once",
			noteAt("first consumed", vi.moveSpan))
		return
	}

	// Moving while a borrow is live invalidates the reference.
	if vi.moves > 0 && vi.borrows > 0 && after(vi.moveSpan, vi.borrowSpan) {
		a.reportError(diag.CodeBorrowConflict, vi.moveSpan,
			"cannot move '"+name+"' while it is borrowed",
			noteAt("borrowed", vi.borrowSpan))
		return
	}

	// A mutable borrow must be the only borrow of the place.
	if vi.mutBorrows > 0 && vi.borrows > 1 {
		a.reportError(diag.CodeBorrowConflict, vi.borrowSpan,
			"'"+name+"' is borrowed mutably while other borrows exist")
		return
	}

	// Shared (reference-counted) values hand out owners freely and
	// unannotated bindings defer to strategy inference, where repeated
	// moves select the smart-pointer strategy instead of erroring. A
	// transfer to a linear owner is consuming regardless of annotation.
	switch vi.sym.Strategy {
	case ast.StrategyInferred, ast.StrategySmartPtr:
		if !vi.linearConsumed {
			return
		}
	}

	if vi.moves > 0 && after(vi.useSpan, vi.moveSpan) {
		a.reportError(diag.CodeUseAfterMove, vi.useSpan,
			"use of '"+name+"' after it was moved",
			noteAt("value moved", vi.moveSpan))
	}
}

func after(a, b lexer.Span) bool {
	return a.Start.Offset > b.Start.Offset
}

func noteAt(what string, span lexer.Span) string {
	return fmt.Sprintf("%s at %d:%d", what, span.Start.Line, span.Start.Column)
}
