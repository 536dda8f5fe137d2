package memory

import (
	"github.com/pkg/errors"

	"github.com/bract-lang/bract/internal/lexer"
)

// RegionID names one active arena. Zero means "no region".
type RegionID uint32

type regionState struct {
	id      RegionID
	hint    int64
	used    int64
	handles []Handle
}

func (r *regionState) track(h Handle, size int64) {
	r.handles = append(r.handles, h)
	r.used += size
}

// SetupRegion opens a new arena and emits its creation. The size hint is
// the configured default unless the caller knows better.
func (l *Lowerer) SetupRegion(hint int64, span lexer.Span) RegionID {
	if hint <= 0 {
		hint = l.cfg.RegionSizeHint
	}
	l.nextRegion++
	id := l.nextRegion
	l.regions[id] = &regionState{id: id, hint: hint}
	l.emit(Instruction{Kind: OpRegionCreate, Region: id, Size: hint, Span: span})
	l.debugf(span, "region %d open, hint %dB", id, hint)
	return id
}

// CleanupRegion bulk-frees every allocation made against the region and
// closes it. An unknown id is an internal invariant violation.
func (l *Lowerer) CleanupRegion(id RegionID, span lexer.Span) error {
	reg, ok := l.regions[id]
	if !ok {
		return errors.Wrapf(ErrRegionNotFound, "cleanup at %s for region %d", span.Start, id)
	}
	for _, h := range reg.handles {
		if a, ok := l.handles[h]; ok && !a.freed {
			a.freed = true
			l.stats.recordFree(l.cfg.Model, a.strategy, a.size)
		}
	}
	l.emit(Instruction{Kind: OpRegionDestroy, Region: id, Size: reg.used, Span: span})
	l.debugf(span, "region %d closed, %d allocations, %dB", id, len(reg.handles), reg.used)
	delete(l.regions, id)
	return nil
}

// RegionUsage reports bytes allocated against an active region.
func (l *Lowerer) RegionUsage(id RegionID) (int64, error) {
	reg, ok := l.regions[id]
	if !ok {
		return 0, errors.Wrapf(ErrRegionNotFound, "region %d", id)
	}
	return reg.used, nil
}
