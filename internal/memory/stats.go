package memory

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/bract-lang/bract/internal/ast"
)

// PerformanceStats summarizes a lowered compilation unit.
type PerformanceStats struct {
	TotalAllocations     uint64
	StrategyBreakdown    map[ast.MemoryStrategy]uint64
	LiveBytes            int64
	PeakResidentBytes    int64
	BytesCopied          int64
	EstimatedTotalCycles uint64
}

// EstimatedNanoseconds converts the cycle estimate for the given model.
func (s PerformanceStats) EstimatedNanoseconds(m CostModel) float64 {
	return m.CyclesToNanoseconds(s.EstimatedTotalCycles)
}

// Summary renders a stable, human-readable breakdown.
func (s PerformanceStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "allocations=%d peak=%dB copied=%dB cycles=%d",
		s.TotalAllocations, s.PeakResidentBytes, s.BytesCopied, s.EstimatedTotalCycles)
	strategies := maps.Keys(s.StrategyBreakdown)
	slices.Sort(strategies)
	for _, st := range strategies {
		fmt.Fprintf(&b, " %s=%d", st, s.StrategyBreakdown[st])
	}
	return b.String()
}

type tracker struct {
	allocations uint64
	byStrategy  map[ast.MemoryStrategy]uint64
	live        int64
	peak        int64
	copied      int64
	cycles      uint64
}

func (t *tracker) recordAlloc(m CostModel, strategy ast.MemoryStrategy, size int64) {
	if t.byStrategy == nil {
		t.byStrategy = make(map[ast.MemoryStrategy]uint64)
	}
	t.allocations++
	t.byStrategy[strategy]++
	t.live += size
	if t.live > t.peak {
		t.peak = t.live
	}
	t.cycles += allocCycles(m, strategy)
}

func (t *tracker) recordFree(m CostModel, strategy ast.MemoryStrategy, size int64) {
	t.live -= size
	t.cycles += freeCycles(m, strategy)
}

func (t *tracker) recordCopy(m CostModel, size int64) {
	t.copied += size
	lines := (uint64(size) + uint64(m.CacheLineSize) - 1) / uint64(m.CacheLineSize)
	t.cycles += lines * m.MemoryAccessCost
}

func (t *tracker) addCycles(n uint64) { t.cycles += n }

func (t *tracker) snapshot() PerformanceStats {
	breakdown := make(map[ast.MemoryStrategy]uint64, len(t.byStrategy))
	for k, v := range t.byStrategy {
		breakdown[k] = v
	}
	return PerformanceStats{
		TotalAllocations:     t.allocations,
		StrategyBreakdown:    breakdown,
		LiveBytes:            t.live,
		PeakResidentBytes:    t.peak,
		BytesCopied:          t.copied,
		EstimatedTotalCycles: t.cycles,
	}
}

// allocCycles estimates the cost of one allocation under a strategy.
func allocCycles(m CostModel, strategy ast.MemoryStrategy) uint64 {
	switch strategy {
	case ast.StrategyStack:
		return m.ArithmeticCost // bump the frame pointer
	case ast.StrategyLinear, ast.StrategyManual:
		return m.AllocationCost
	case ast.StrategySmartPtr:
		return m.AllocationCost + m.MemoryAccessCost // header write
	case ast.StrategyRegion:
		return m.ArithmeticCost + m.ComparisonCost // bump and capacity check
	default:
		return 0
	}
}

func freeCycles(m CostModel, strategy ast.MemoryStrategy) uint64 {
	switch strategy {
	case ast.StrategyStack, ast.StrategyRegion:
		return 0
	case ast.StrategySmartPtr:
		return m.DeallocationCost + m.MemoryAccessCost
	default:
		return m.DeallocationCost
	}
}
