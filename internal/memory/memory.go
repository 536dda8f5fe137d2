// Package memory lowers resolved memory strategies into the abstract
// allocation contracts the native back-end implements: stack slots, heap
// allocations with linear tracking or refcount headers, region arenas and
// raw manual allocations, plus the conversions between them.
package memory

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/lexer"
)

// Handle names one lowered allocation. Handles are dense and start at 1;
// zero is never issued.
type Handle uint32

// ZeroSizeHandle is the distinguished non-null handle returned for
// zero-sized allocations. Deallocating it is a no-op.
const ZeroSizeHandle Handle = ^Handle(0)

// OpKind enumerates the contract steps the lowerer emits.
type OpKind int

const (
	OpStackSlot OpKind = iota
	OpHeapAlloc
	OpHeapFree
	OpMarkTracked       // linear: mark allocation as move-tracked
	OpConsumeFree       // linear: consume-and-free, exactly once
	OpRefInit           // smart ptr: write refcount header, count = 1
	OpRefIncrement      // smart ptr: refcount += 1
	OpRefDecrement      // smart ptr: refcount -= 1, free at zero
	OpRegionCreate      // arena setup with size hint
	OpRegionAlloc       // bump allocation from a region
	OpRegionDestroy     // bulk free of a region and its handles
	OpRawAlloc          // manual: raw allocation
	OpRawFree           // manual: raw free
	OpCopyBytes         // bitwise copy of the value
	OpCopyPointer       // pointer copy, contents shared
	OpTransferOwnership // pointer moves, source becomes invalid
	OpBoundsCheckStatic
	OpBoundsCheckRuntime
	OpBoundsCheckRegion // compare against the owning region's extent
	OpUnwrapGuard       // runtime refcount == 1 check before unwrap
	OpDebugLog
)

var opNames = map[OpKind]string{
	OpStackSlot: "stack_slot", OpHeapAlloc: "heap_alloc", OpHeapFree: "heap_free",
	OpMarkTracked: "mark_tracked", OpConsumeFree: "consume_free",
	OpRefInit: "ref_init", OpRefIncrement: "ref_inc", OpRefDecrement: "ref_dec",
	OpRegionCreate: "region_create", OpRegionAlloc: "region_alloc", OpRegionDestroy: "region_destroy",
	OpRawAlloc: "raw_alloc", OpRawFree: "raw_free",
	OpCopyBytes: "copy_bytes", OpCopyPointer: "copy_ptr", OpTransferOwnership: "transfer",
	OpBoundsCheckStatic: "bounds_static", OpBoundsCheckRuntime: "bounds_runtime",
	OpBoundsCheckRegion: "bounds_region", OpUnwrapGuard: "unwrap_guard",
	OpDebugLog: "debug_log",
}

func (k OpKind) String() string { return opNames[k] }

// Instruction is one emitted contract step.
type Instruction struct {
	Kind   OpKind
	Handle Handle
	Src    Handle
	Size   int64
	Align  int
	Region RegionID
	Span   lexer.Span
	Note   string
}

// Config tunes the lowerer. The zero value lowers for x86-64 with the
// 4096-byte region size hint and no instrumentation.
type Config struct {
	Model          CostModel
	RegionSizeHint int64
	// Debug inserts allocation/move/free log points into the stream.
	Debug bool
}

func (c Config) normalize() Config {
	if c.Model.BaseFrequencyHz == 0 {
		c.Model = DefaultModel()
	}
	if c.RegionSizeHint == 0 {
		c.RegionSizeHint = 4096
	}
	return c
}

type allocation struct {
	strategy ast.MemoryStrategy
	size     int64
	align    int
	region   RegionID
	consumed bool
	freed    bool
	refcount int
	span     lexer.Span
}

// Lowerer turns allocation sites into contract instructions and keeps the
// books: live handles, active regions and performance counters.
type Lowerer struct {
	cfg     Config
	program []Instruction

	handles map[Handle]*allocation
	next    Handle

	regions    map[RegionID]*regionState
	nextRegion RegionID

	stats tracker
}

// NewLowerer creates a lowerer with the given configuration.
func NewLowerer(cfg Config) *Lowerer {
	return &Lowerer{
		cfg:     cfg.normalize(),
		handles: make(map[Handle]*allocation),
		next:    1,
		regions: make(map[RegionID]*regionState),
	}
}

// Program returns the instructions emitted so far.
func (l *Lowerer) Program() []Instruction { return l.program }

// SetDebugInstrumentation toggles alloc/move/free log points.
func (l *Lowerer) SetDebugInstrumentation(enabled bool) { l.cfg.Debug = enabled }

// Stats reports the performance counters accumulated so far.
func (l *Lowerer) Stats() PerformanceStats { return l.stats.snapshot() }

func (l *Lowerer) emit(ins Instruction) {
	l.program = append(l.program, ins)
}

func (l *Lowerer) debugf(span lexer.Span, format string, args ...interface{}) {
	if !l.cfg.Debug {
		return
	}
	l.emit(Instruction{Kind: OpDebugLog, Span: span, Note: fmt.Sprintf(format, args...)})
}

func (l *Lowerer) newHandle(a *allocation) Handle {
	h := l.next
	l.next++
	l.handles[h] = a
	return h
}

func (l *Lowerer) lookup(h Handle) (*allocation, error) {
	a, ok := l.handles[h]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownHandle, "handle %d", h)
	}
	return a, nil
}

// Allocate lowers one allocation site. Zero-sized requests return the
// sentinel handle without emitting anything.
func (l *Lowerer) Allocate(strategy ast.MemoryStrategy, size int64, align int, region RegionID, span lexer.Span) (Handle, error) {
	if strategy == ast.StrategyInferred {
		return 0, errors.Wrapf(ErrUnresolvedStrategy, "at %s", span.Start)
	}
	if size == 0 {
		l.debugf(span, "alloc %s 0B -> sentinel", strategy)
		return ZeroSizeHandle, nil
	}

	a := &allocation{strategy: strategy, size: size, align: align, region: region, refcount: 1, span: span}
	h := l.newHandle(a)
	l.stats.recordAlloc(l.cfg.Model, strategy, size)

	switch strategy {
	case ast.StrategyStack:
		l.emit(Instruction{Kind: OpStackSlot, Handle: h, Size: size, Align: align, Span: span})

	case ast.StrategyLinear:
		l.emit(Instruction{Kind: OpHeapAlloc, Handle: h, Size: size, Align: align, Span: span})
		l.emit(Instruction{Kind: OpMarkTracked, Handle: h, Span: span})

	case ast.StrategySmartPtr:
		l.emit(Instruction{Kind: OpHeapAlloc, Handle: h, Size: size, Align: align, Span: span})
		l.emit(Instruction{Kind: OpRefInit, Handle: h, Span: span})

	case ast.StrategyRegion:
		reg, ok := l.regions[region]
		if !ok {
			return 0, errors.Wrapf(ErrRegionNotFound, "allocation at %s against region %d", span.Start, region)
		}
		reg.track(h, size)
		l.emit(Instruction{Kind: OpRegionAlloc, Handle: h, Size: size, Align: align, Region: region, Span: span})

	case ast.StrategyManual:
		l.emit(Instruction{Kind: OpRawAlloc, Handle: h, Size: size, Align: align, Span: span})
	}

	l.debugf(span, "alloc %s %dB -> h%d", strategy, size, h)
	return h, nil
}

// Deallocate lowers the strategy-appropriate release of h. Stack slots
// and region values are freed by their scope, so the site emits nothing.
func (l *Lowerer) Deallocate(h Handle, span lexer.Span) error {
	if h == ZeroSizeHandle {
		return nil
	}
	a, err := l.lookup(h)
	if err != nil {
		return err
	}
	if a.freed {
		return errors.Errorf("handle %d freed twice at %s", h, span.Start)
	}

	switch a.strategy {
	case ast.StrategyStack:
		// automatic on scope exit

	case ast.StrategyLinear:
		if a.consumed {
			return errors.Wrapf(ErrLinearConsumed, "free at %s", span.Start)
		}
		l.emit(Instruction{Kind: OpConsumeFree, Handle: h, Span: span})
		a.consumed = true

	case ast.StrategySmartPtr:
		l.emit(Instruction{Kind: OpRefDecrement, Handle: h, Span: span})
		a.refcount--
		if a.refcount > 0 {
			l.debugf(span, "decref h%d -> %d", h, a.refcount)
			return nil
		}

	case ast.StrategyRegion:
		// bulk-freed by CleanupRegion
		l.debugf(span, "region free site h%d deferred", h)
		return nil

	case ast.StrategyManual:
		l.emit(Instruction{Kind: OpRawFree, Handle: h, Span: span})
	}

	a.freed = true
	l.stats.recordFree(l.cfg.Model, a.strategy, a.size)
	l.debugf(span, "free %s h%d", a.strategy, h)
	return nil
}

// Move lowers a move of h's value and returns the handle the receiver
// sees. Linear sources are consumed; shared pointers stay shared.
func (l *Lowerer) Move(h Handle, span lexer.Span) (Handle, error) {
	if h == ZeroSizeHandle {
		return ZeroSizeHandle, nil
	}
	a, err := l.lookup(h)
	if err != nil {
		return 0, err
	}

	switch a.strategy {
	case ast.StrategyStack:
		dup := *a
		target := l.newHandle(&dup)
		l.emit(Instruction{Kind: OpCopyBytes, Handle: target, Src: h, Size: a.size, Span: span})
		l.stats.recordCopy(l.cfg.Model, a.size)
		l.debugf(span, "move stack h%d -> h%d", h, target)
		return target, nil

	case ast.StrategyLinear:
		if a.consumed {
			return 0, errors.Wrapf(ErrLinearConsumed, "move at %s", span.Start)
		}
		a.consumed = true
		dup := *a
		dup.consumed = false
		target := l.newHandle(&dup)
		l.emit(Instruction{Kind: OpTransferOwnership, Handle: target, Src: h, Span: span})
		l.debugf(span, "move linear h%d -> h%d, source consumed", h, target)
		return target, nil

	default: // SmartPtr, Region, Manual: pointer copy
		l.emit(Instruction{Kind: OpCopyPointer, Handle: h, Src: h, Span: span})
		l.debugf(span, "move %s h%d (pointer copy)", a.strategy, h)
		return h, nil
	}
}

// IncRef adds an owner to a shared allocation.
func (l *Lowerer) IncRef(h Handle, span lexer.Span) error {
	a, err := l.lookup(h)
	if err != nil {
		return err
	}
	if a.strategy != ast.StrategySmartPtr {
		return errors.Errorf("incref on %s handle %d at %s", a.strategy, h, span.Start)
	}
	a.refcount++
	l.emit(Instruction{Kind: OpRefIncrement, Handle: h, Span: span})
	return nil
}

// BoundsCheck emits the strategy-appropriate bounds check for h.
func (l *Lowerer) BoundsCheck(h Handle, span lexer.Span) error {
	if h == ZeroSizeHandle {
		return nil
	}
	a, err := l.lookup(h)
	if err != nil {
		return err
	}

	switch a.strategy {
	case ast.StrategyStack:
		// size is known at compile time, the check folds away
		l.emit(Instruction{Kind: OpBoundsCheckStatic, Handle: h, Size: a.size, Span: span})
	case ast.StrategyRegion:
		l.emit(Instruction{Kind: OpBoundsCheckRegion, Handle: h, Region: a.region, Span: span})
	default:
		l.emit(Instruction{Kind: OpBoundsCheckRuntime, Handle: h, Size: a.size, Span: span})
	}
	l.stats.addCycles(l.cfg.Model.ComparisonCost + l.cfg.Model.BranchCost)
	return nil
}
