package ast

// MemoryStrategy selects the allocation discipline for a value. Strategies
// are written with @-annotations on types and let-bindings; Inferred
// strategies are replaced with concrete ones during semantic analysis.
type MemoryStrategy int

const (
	// StrategyInferred means no annotation was written; analysis decides.
	StrategyInferred MemoryStrategy = iota
	// StrategyStack allocates in the enclosing stack frame.
	StrategyStack
	// StrategyLinear heap-allocates with single-owner move semantics.
	StrategyLinear
	// StrategySmartPtr heap-allocates under a reference count.
	StrategySmartPtr
	// StrategyRegion bump-allocates from a named region.
	StrategyRegion
	// StrategyManual is raw allocation with explicit free.
	StrategyManual
)

func (s MemoryStrategy) String() string {
	switch s {
	case StrategyInferred:
		return "inferred"
	case StrategyStack:
		return "stack"
	case StrategyLinear:
		return "linear"
	case StrategySmartPtr:
		return "smart"
	case StrategyRegion:
		return "region"
	case StrategyManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Ownership is the ownership mode of a binding, derived from its type's
// memory strategy.
type Ownership int

const (
	OwnershipOwned Ownership = iota
	OwnershipShared
	OwnershipBorrowed
)

func (o Ownership) String() string {
	switch o {
	case OwnershipOwned:
		return "owned"
	case OwnershipShared:
		return "shared"
	case OwnershipBorrowed:
		return "borrowed"
	default:
		return "unknown"
	}
}

// LifetimeID is an opaque lifetime identifier assigned by the semantic
// layer. The zero value means "no lifetime assigned".
type LifetimeID uint32
