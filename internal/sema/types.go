package sema

import (
	"fmt"
	"strings"

	"github.com/bract-lang/bract/internal/ast"
)

// Type is the semantic type of an expression or symbol.
type Type interface {
	String() string
	isType()
}

// Primitive is a built-in scalar type.
type Primitive struct {
	Kind ast.PrimitiveKind
}

func (t *Primitive) String() string { return t.Kind.String() }
func (*Primitive) isType()          {}

// Named is a user-declared struct, enum or alias target.
type Named struct {
	Name string
	Sym  *Symbol
}

func (t *Named) String() string { return t.Name }
func (*Named) isType()          {}

// Reference is `& [mut] T`.
type Reference struct {
	Mutable bool
	Inner   Type
}

func (t *Reference) String() string {
	if t.Mutable {
		return "&mut " + t.Inner.String()
	}
	return "&" + t.Inner.String()
}
func (*Reference) isType() {}

// Pointer is `*(const|mut) T`.
type Pointer struct {
	Mutable bool
	Inner   Type
}

func (t *Pointer) String() string {
	if t.Mutable {
		return "*mut " + t.Inner.String()
	}
	return "*const " + t.Inner.String()
}
func (*Pointer) isType() {}

// Tuple is `(T, ...)`. The empty tuple is the unit type.
type Tuple struct {
	Elems []Type
}

func (t *Tuple) String() string {
	if len(t.Elems) == 0 {
		return "()"
	}
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (*Tuple) isType() {}

// Array is `[T; N]`. Size is -1 when the length is not a constant the
// analyzer could evaluate.
type Array struct {
	Elem Type
	Size int64
}

func (t *Array) String() string {
	if t.Size < 0 {
		return "[" + t.Elem.String() + "]"
	}
	return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Size)
}
func (*Array) isType() {}

// FunctionSig is a function's type. ParamStrategies carries the memory
// annotations written on the parameters; a nil slice means none were.
// Strategies do not participate in type equality.
type FunctionSig struct {
	Params          []Type
	ParamStrategies []ast.MemoryStrategy
	Return          Type
}

// ParamStrategy returns the annotation on parameter i, or StrategyInferred
// when absent.
func (t *FunctionSig) ParamStrategy(i int) ast.MemoryStrategy {
	if i < len(t.ParamStrategies) {
		return t.ParamStrategies[i]
	}
	return ast.StrategyInferred
}

func (t *FunctionSig) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	s := "fn(" + strings.Join(parts, ", ") + ")"
	if !IsUnit(t.Return) {
		s += " -> " + t.Return.String()
	}
	return s
}
func (*FunctionSig) isType() {}

// Never is `!`, the type of diverging expressions.
type Never struct{}

func (*Never) String() string { return "!" }
func (*Never) isType()        {}

// Unknown stands in for a type the analyzer could not determine. It
// compares equal to everything so one error does not cascade.
type Unknown struct{}

func (*Unknown) String() string { return "<unknown>" }
func (*Unknown) isType()        {}

var (
	unitType    = &Tuple{}
	unknownType = &Unknown{}
	boolType    = &Primitive{Kind: ast.PrimBool}
	i32Type     = &Primitive{Kind: ast.PrimI32}
	f64Type     = &Primitive{Kind: ast.PrimF64}
	charType    = &Primitive{Kind: ast.PrimChar}
	strRefType  = &Reference{Inner: &Primitive{Kind: ast.PrimStr}}
)

// IsUnit reports whether t is the unit type.
func IsUnit(t Type) bool {
	tup, ok := t.(*Tuple)
	return ok && len(tup.Elems) == 0
}

// Equal reports structural type equality. Unknown and Never are
// compatible with everything.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return true
	}
	if _, ok := a.(*Unknown); ok {
		return true
	}
	if _, ok := b.(*Unknown); ok {
		return true
	}
	if _, ok := a.(*Never); ok {
		return true
	}
	if _, ok := b.(*Never); ok {
		return true
	}

	switch at := a.(type) {
	case *Primitive:
		bt, ok := b.(*Primitive)
		return ok && at.Kind == bt.Kind
	case *Named:
		bt, ok := b.(*Named)
		return ok && at.Name == bt.Name
	case *Reference:
		bt, ok := b.(*Reference)
		return ok && at.Mutable == bt.Mutable && Equal(at.Inner, bt.Inner)
	case *Pointer:
		bt, ok := b.(*Pointer)
		return ok && at.Mutable == bt.Mutable && Equal(at.Inner, bt.Inner)
	case *Tuple:
		bt, ok := b.(*Tuple)
		if !ok || len(at.Elems) != len(bt.Elems) {
			return false
		}
		for i := range at.Elems {
			if !Equal(at.Elems[i], bt.Elems[i]) {
				return false
			}
		}
		return true
	case *Array:
		bt, ok := b.(*Array)
		if !ok || !Equal(at.Elem, bt.Elem) {
			return false
		}
		return at.Size < 0 || bt.Size < 0 || at.Size == bt.Size
	case *FunctionSig:
		bt, ok := b.(*FunctionSig)
		if !ok || len(at.Params) != len(bt.Params) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return Equal(at.Return, bt.Return)
	default:
		return false
	}
}

// IsCopy reports whether values of t are duplicated on use rather than
// moved. Scalars, references and raw pointers are copy; aggregates and
// named types are move.
func IsCopy(t Type) bool {
	switch tt := t.(type) {
	case *Primitive:
		return tt.Kind != ast.PrimStr
	case *Reference, *Pointer, *FunctionSig, *Never, *Unknown:
		return true
	case *Tuple:
		return len(tt.Elems) == 0
	default:
		return false
	}
}

var primitiveSizes = map[ast.PrimitiveKind]int64{
	ast.PrimI8: 1, ast.PrimU8: 1, ast.PrimBool: 1,
	ast.PrimI16: 2, ast.PrimU16: 2,
	ast.PrimI32: 4, ast.PrimU32: 4, ast.PrimF32: 4, ast.PrimChar: 4,
	ast.PrimI64: 8, ast.PrimU64: 8, ast.PrimF64: 8,
	ast.PrimISize: 8, ast.PrimUSize: 8,
	ast.PrimI128: 16, ast.PrimU128: 16,
}

const pointerSize = 8

// SizeOf returns a conservative byte size for t, or -1 when it cannot be
// determined. Named types resolve through their defining struct once;
// deeper recursion gives up rather than chase cycles.
func SizeOf(t Type) int64 {
	return sizeOf(t, 4)
}

func sizeOf(t Type, depth int) int64 {
	if depth == 0 {
		return -1
	}
	switch tt := t.(type) {
	case *Primitive:
		if tt.Kind == ast.PrimStr {
			return -1 // unsized
		}
		return primitiveSizes[tt.Kind]
	case *Reference, *Pointer, *FunctionSig:
		return pointerSize
	case *Tuple:
		var total int64
		for _, e := range tt.Elems {
			s := sizeOf(e, depth-1)
			if s < 0 {
				return -1
			}
			total += s
		}
		return total
	case *Array:
		if tt.Size < 0 {
			return -1
		}
		elem := sizeOf(tt.Elem, depth-1)
		if elem < 0 {
			return -1
		}
		return elem * tt.Size
	case *Named:
		if tt.Sym == nil {
			return -1
		}
		if structType, ok := tt.Sym.Layout.(*Tuple); ok {
			return sizeOf(structType, depth-1)
		}
		return -1
	case *Never:
		return 0
	default:
		return -1
	}
}
