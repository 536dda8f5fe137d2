package memory

import (
	"github.com/pkg/errors"

	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/lexer"
)

// Convert lowers a strategy conversion of h and returns the handle carrying
// the value under the target strategy.
//
// Supported conversions:
//
//	Stack    -> Linear:   heap allocate and copy the bytes over
//	Linear   -> SmartPtr: wrap in a refcount header, source consumed
//	SmartPtr -> Linear:   unwrap, legal only while uniquely owned
//	Manual   -> SmartPtr: adopt the raw pointer under a refcount header
//	Region   -> Stack:    copy out before the region dies
//
// Identity conversions are free. Everything else is rejected.
func (l *Lowerer) Convert(h Handle, target ast.MemoryStrategy, span lexer.Span) (Handle, error) {
	if h == ZeroSizeHandle {
		return ZeroSizeHandle, nil
	}
	a, err := l.lookup(h)
	if err != nil {
		return 0, err
	}
	if a.strategy == target {
		return h, nil
	}

	switch {
	case a.strategy == ast.StrategyStack && target == ast.StrategyLinear:
		out := &allocation{strategy: ast.StrategyLinear, size: a.size, align: a.align, refcount: 1, span: span}
		nh := l.newHandle(out)
		l.emit(Instruction{Kind: OpHeapAlloc, Handle: nh, Size: a.size, Align: a.align, Span: span})
		l.emit(Instruction{Kind: OpCopyBytes, Handle: nh, Src: h, Size: a.size, Span: span})
		l.emit(Instruction{Kind: OpMarkTracked, Handle: nh, Span: span})
		l.stats.recordAlloc(l.cfg.Model, ast.StrategyLinear, a.size)
		l.stats.recordCopy(l.cfg.Model, a.size)
		l.debugf(span, "convert stack h%d -> linear h%d", h, nh)
		return nh, nil

	case a.strategy == ast.StrategyLinear && target == ast.StrategySmartPtr:
		if a.consumed {
			return 0, errors.Wrapf(ErrLinearConsumed, "conversion at %s", span.Start)
		}
		a.consumed = true
		out := &allocation{strategy: ast.StrategySmartPtr, size: a.size, align: a.align, refcount: 1, span: span}
		nh := l.newHandle(out)
		l.emit(Instruction{Kind: OpRefInit, Handle: nh, Src: h, Span: span})
		l.debugf(span, "convert linear h%d -> shared h%d", h, nh)
		return nh, nil

	case a.strategy == ast.StrategySmartPtr && target == ast.StrategyLinear:
		if a.refcount != 1 {
			return 0, errors.Wrapf(ErrSharedUnwrap, "refcount %d at %s", a.refcount, span.Start)
		}
		// The static count can still be wrong across calls, so the
		// generated code re-checks before stripping the header.
		l.emit(Instruction{Kind: OpUnwrapGuard, Handle: h, Span: span})
		out := &allocation{strategy: ast.StrategyLinear, size: a.size, align: a.align, refcount: 1, span: span}
		nh := l.newHandle(out)
		l.emit(Instruction{Kind: OpTransferOwnership, Handle: nh, Src: h, Span: span})
		l.emit(Instruction{Kind: OpMarkTracked, Handle: nh, Span: span})
		a.freed = true
		l.debugf(span, "unwrap shared h%d -> linear h%d", h, nh)
		return nh, nil

	case a.strategy == ast.StrategyManual && target == ast.StrategySmartPtr:
		out := &allocation{strategy: ast.StrategySmartPtr, size: a.size, align: a.align, refcount: 1, span: span}
		nh := l.newHandle(out)
		l.emit(Instruction{Kind: OpRefInit, Handle: nh, Src: h, Span: span})
		a.freed = true
		l.debugf(span, "adopt raw h%d -> shared h%d", h, nh)
		return nh, nil

	case a.strategy == ast.StrategyRegion && target == ast.StrategyStack:
		out := &allocation{strategy: ast.StrategyStack, size: a.size, align: a.align, refcount: 1, span: span}
		nh := l.newHandle(out)
		l.emit(Instruction{Kind: OpStackSlot, Handle: nh, Size: a.size, Align: a.align, Span: span})
		l.emit(Instruction{Kind: OpCopyBytes, Handle: nh, Src: h, Size: a.size, Span: span})
		l.stats.recordAlloc(l.cfg.Model, ast.StrategyStack, a.size)
		l.stats.recordCopy(l.cfg.Model, a.size)
		l.debugf(span, "copy region h%d out -> stack h%d", h, nh)
		return nh, nil
	}

	return 0, errors.Wrapf(ErrUnsupportedConversion, "%s -> %s at %s", a.strategy, target, span.Start)
}
