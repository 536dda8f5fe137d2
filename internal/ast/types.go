package ast

import (
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/lexer"
)

// PrimitiveKind enumerates the built-in primitive types.
type PrimitiveKind int

const (
	PrimI8 PrimitiveKind = iota
	PrimI16
	PrimI32
	PrimI64
	PrimI128
	PrimISize
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimU128
	PrimUSize
	PrimF32
	PrimF64
	PrimBool
	PrimChar
	PrimStr
)

var primitiveNames = map[PrimitiveKind]string{
	PrimI8: "i8", PrimI16: "i16", PrimI32: "i32", PrimI64: "i64", PrimI128: "i128",
	PrimISize: "isize",
	PrimU8: "u8", PrimU16: "u16", PrimU32: "u32", PrimU64: "u64", PrimU128: "u128",
	PrimUSize: "usize",
	PrimF32: "f32", PrimF64: "f64",
	PrimBool: "bool", PrimChar: "char", PrimStr: "str",
}

func (k PrimitiveKind) String() string { return primitiveNames[k] }

// LookupPrimitive resolves a primitive type name. The second result is
// false when the name is not a primitive.
func LookupPrimitive(name string) (PrimitiveKind, bool) {
	for k, n := range primitiveNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// IsInteger reports whether the primitive is an integer type.
func (k PrimitiveKind) IsInteger() bool {
	switch k {
	case PrimF32, PrimF64, PrimBool, PrimChar, PrimStr:
		return false
	default:
		return true
	}
}

// IsFloat reports whether the primitive is a floating-point type.
func (k PrimitiveKind) IsFloat() bool {
	return k == PrimF32 || k == PrimF64
}

// IsNumeric reports whether the primitive is an integer or float type.
func (k PrimitiveKind) IsNumeric() bool {
	return k.IsInteger() || k.IsFloat()
}

// PrimitiveType is a built-in primitive type.
type PrimitiveType struct {
	Kind PrimitiveKind
	span lexer.Span
}

func (t *PrimitiveType) Span() lexer.Span        { return t.span }
func (t *PrimitiveType) SetSpan(span lexer.Span) { t.span = span }
func (*PrimitiveType) typeNode()                 {}

// NewPrimitiveType constructs a primitive type node.
func NewPrimitiveType(kind PrimitiveKind, span lexer.Span) *PrimitiveType {
	return &PrimitiveType{Kind: kind, span: span}
}

// PathType is a possibly-generic named type `A::B<T, ...>`.
type PathType struct {
	Segments []intern.StringID
	Args     []Type
	span     lexer.Span
}

func (t *PathType) Span() lexer.Span        { return t.span }
func (t *PathType) SetSpan(span lexer.Span) { t.span = span }
func (*PathType) typeNode()                 {}

// ArrayType is `[T; size]`.
type ArrayType struct {
	Elem Type
	Size Expr
	span lexer.Span
}

func (t *ArrayType) Span() lexer.Span        { return t.span }
func (t *ArrayType) SetSpan(span lexer.Span) { t.span = span }
func (*ArrayType) typeNode()                 {}

// ReferenceType is `& [mut] T`.
type ReferenceType struct {
	Mutable bool
	Inner   Type
	span    lexer.Span
}

func (t *ReferenceType) Span() lexer.Span        { return t.span }
func (t *ReferenceType) SetSpan(span lexer.Span) { t.span = span }
func (*ReferenceType) typeNode()                 {}

// PointerType is `*(const|mut) T`.
type PointerType struct {
	Mutable bool
	Inner   Type
	span    lexer.Span
}

func (t *PointerType) Span() lexer.Span        { return t.span }
func (t *PointerType) SetSpan(span lexer.Span) { t.span = span }
func (*PointerType) typeNode()                 {}

// TupleType is `(T, ...)`.
type TupleType struct {
	Types []Type
	span  lexer.Span
}

func (t *TupleType) Span() lexer.Span        { return t.span }
func (t *TupleType) SetSpan(span lexer.Span) { t.span = span }
func (*TupleType) typeNode()                 {}

// FunctionType is `fn(params) -> R`.
type FunctionType struct {
	Params   []Type
	Return   Type
	Variadic bool
	span     lexer.Span
}

func (t *FunctionType) Span() lexer.Span        { return t.span }
func (t *FunctionType) SetSpan(span lexer.Span) { t.span = span }
func (*FunctionType) typeNode()                 {}

// InferredType is `_`.
type InferredType struct {
	span lexer.Span
}

func (t *InferredType) Span() lexer.Span        { return t.span }
func (t *InferredType) SetSpan(span lexer.Span) { t.span = span }
func (*InferredType) typeNode()                 {}

// NewInferredType constructs an inferred type node.
func NewInferredType(span lexer.Span) *InferredType {
	return &InferredType{span: span}
}

// NeverType is `!`.
type NeverType struct {
	span lexer.Span
}

func (t *NeverType) Span() lexer.Span        { return t.span }
func (t *NeverType) SetSpan(span lexer.Span) { t.span = span }
func (*NeverType) typeNode()                 {}

// AnnotatedType wraps a type with an explicit memory-strategy annotation,
// e.g. `@linear Buffer` or `@region(r) Node`. Region is the region name
// for StrategyRegion annotations.
type AnnotatedType struct {
	Strategy MemoryStrategy
	Region   intern.StringID
	Inner    Type
	span     lexer.Span
}

func (t *AnnotatedType) Span() lexer.Span        { return t.span }
func (t *AnnotatedType) SetSpan(span lexer.Span) { t.span = span }
func (*AnnotatedType) typeNode()                 {}
