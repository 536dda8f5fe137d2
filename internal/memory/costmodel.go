package memory

// Arch identifies a code-generation target architecture.
type Arch int

const (
	ArchX8664 Arch = iota
	ArchARM64
	ArchRISCV64
	ArchWASM
)

func (a Arch) String() string {
	switch a {
	case ArchX8664:
		return "x86_64"
	case ArchARM64:
		return "arm64"
	case ArchRISCV64:
		return "riscv64"
	default:
		return "wasm"
	}
}

// CostModel holds per-architecture cycle counts used to estimate the cost
// of lowered memory operations. The numbers are planning estimates, not
// measurements; they only feed the performance statistics.
type CostModel struct {
	Architecture Arch

	// operation costs in cycles
	ArithmeticCost uint64
	MultiplyCost   uint64
	DivideCost     uint64
	BitwiseCost    uint64
	ShiftCost      uint64
	LogicalCost    uint64
	ComparisonCost uint64

	MemoryAccessCost uint64
	AllocationCost   uint64
	DeallocationCost uint64

	BranchCost       uint64
	FunctionCallCost uint64
	ReturnCost       uint64
	ControlFlowCost  uint64
	AssignmentCost   uint64

	L1CacheHitCost uint64
	L2CacheHitCost uint64
	L3CacheHitCost uint64
	MemoryMissCost uint64

	RegisterCount    uint32
	CacheLineSize    uint32
	PageSize         uint32
	InstructionBytes uint32

	BaseFrequencyHz  uint64
	BoostFrequencyHz uint64
}

// ModelFor returns the cost model for the given architecture.
func ModelFor(arch Arch) CostModel {
	switch arch {
	case ArchARM64:
		return arm64Model
	case ArchRISCV64:
		return riscv64Model
	case ArchWASM:
		return wasmModel
	default:
		return x8664Model
	}
}

// DefaultModel is the x86-64 model.
func DefaultModel() CostModel { return x8664Model }

var x8664Model = CostModel{
	Architecture: ArchX8664,

	ArithmeticCost: 1,
	MultiplyCost:   3,
	DivideCost:     25,
	BitwiseCost:    1,
	ShiftCost:      1,
	LogicalCost:    1,
	ComparisonCost: 1,

	MemoryAccessCost: 4,
	AllocationCost:   100,
	DeallocationCost: 50,

	BranchCost:       1,
	FunctionCallCost: 5,
	ReturnCost:       2,
	ControlFlowCost:  1,
	AssignmentCost:   1,

	L1CacheHitCost: 4,
	L2CacheHitCost: 12,
	L3CacheHitCost: 40,
	MemoryMissCost: 200,

	RegisterCount:    16,
	CacheLineSize:    64,
	PageSize:         4096,
	InstructionBytes: 4,

	BaseFrequencyHz:  3_000_000_000,
	BoostFrequencyHz: 4_500_000_000,
}

var arm64Model = CostModel{
	Architecture: ArchARM64,

	ArithmeticCost: 1,
	MultiplyCost:   2,
	DivideCost:     15,
	BitwiseCost:    1,
	ShiftCost:      1,
	LogicalCost:    1,
	ComparisonCost: 1,

	MemoryAccessCost: 3,
	AllocationCost:   80,
	DeallocationCost: 40,

	BranchCost:       1,
	FunctionCallCost: 4,
	ReturnCost:       1,
	ControlFlowCost:  1,
	AssignmentCost:   1,

	L1CacheHitCost: 3,
	L2CacheHitCost: 8,
	L3CacheHitCost: 25,
	MemoryMissCost: 150,

	RegisterCount:    31,
	CacheLineSize:    64,
	PageSize:         4096,
	InstructionBytes: 4,

	BaseFrequencyHz:  2_400_000_000,
	BoostFrequencyHz: 3_200_000_000,
}

var riscv64Model = CostModel{
	Architecture: ArchRISCV64,

	ArithmeticCost: 1,
	MultiplyCost:   4,
	DivideCost:     35,
	BitwiseCost:    1,
	ShiftCost:      1,
	LogicalCost:    1,
	ComparisonCost: 1,

	MemoryAccessCost: 5,
	AllocationCost:   120,
	DeallocationCost: 60,

	BranchCost:       2,
	FunctionCallCost: 6,
	ReturnCost:       2,
	ControlFlowCost:  1,
	AssignmentCost:   1,

	L1CacheHitCost: 5,
	L2CacheHitCost: 15,
	L3CacheHitCost: 50,
	MemoryMissCost: 250,

	RegisterCount:    32,
	CacheLineSize:    64,
	PageSize:         4096,
	InstructionBytes: 4,

	BaseFrequencyHz:  1_500_000_000,
	BoostFrequencyHz: 2_000_000_000,
}

// The wasm numbers fold interpreter and JIT overhead into the per-op
// costs; linear memory means the cache tiers collapse to one figure.
var wasmModel = CostModel{
	Architecture: ArchWASM,

	ArithmeticCost: 2,
	MultiplyCost:   5,
	DivideCost:     40,
	BitwiseCost:    2,
	ShiftCost:      2,
	LogicalCost:    2,
	ComparisonCost: 2,

	MemoryAccessCost: 10,
	AllocationCost:   200,
	DeallocationCost: 100,

	BranchCost:       3,
	FunctionCallCost: 15,
	ReturnCost:       5,
	ControlFlowCost:  3,
	AssignmentCost:   2,

	L1CacheHitCost: 10,
	L2CacheHitCost: 10,
	L3CacheHitCost: 10,
	MemoryMissCost: 10,

	RegisterCount:    8,
	CacheLineSize:    64,
	PageSize:         65536,
	InstructionBytes: 2,

	BaseFrequencyHz:  2_000_000_000,
	BoostFrequencyHz: 3_000_000_000,
}

// CyclesToNanoseconds converts a cycle estimate to wall time at the base
// frequency.
func (m CostModel) CyclesToNanoseconds(cycles uint64) float64 {
	return float64(cycles) / float64(m.BaseFrequencyHz) * 1e9
}

// NanosecondsToCycles converts wall time back to a cycle estimate.
func (m CostModel) NanosecondsToCycles(ns float64) uint64 {
	return uint64(ns / 1e9 * float64(m.BaseFrequencyHz))
}

// RelativePerformanceFactor compares the architecture against the x86-64
// baseline of 1.0.
func (m CostModel) RelativePerformanceFactor() float32 {
	switch m.Architecture {
	case ArchARM64:
		return 0.95
	case ArchRISCV64:
		return 0.7
	case ArchWASM:
		return 0.3
	default:
		return 1.0
	}
}

// MemoryBandwidthBytesPerSec estimates sustained memory bandwidth.
func (m CostModel) MemoryBandwidthBytesPerSec() uint64 {
	switch m.Architecture {
	case ArchARM64:
		return 40_000_000_000
	case ArchRISCV64:
		return 20_000_000_000
	case ArchWASM:
		return 10_000_000_000
	default:
		return 50_000_000_000
	}
}
