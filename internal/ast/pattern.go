package ast

import (
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/lexer"
)

// WildcardPattern matches anything without binding.
type WildcardPattern struct {
	span lexer.Span
}

func (p *WildcardPattern) Span() lexer.Span        { return p.span }
func (p *WildcardPattern) SetSpan(span lexer.Span) { p.span = span }
func (*WildcardPattern) patternNode()              {}

// NewWildcardPattern constructs a wildcard pattern node.
func NewWildcardPattern(span lexer.Span) *WildcardPattern {
	return &WildcardPattern{span: span}
}

// IdentifierPattern binds a name.
type IdentifierPattern struct {
	Name intern.StringID
	span lexer.Span
}

func (p *IdentifierPattern) Span() lexer.Span        { return p.span }
func (p *IdentifierPattern) SetSpan(span lexer.Span) { p.span = span }
func (*IdentifierPattern) patternNode()              {}

// NewIdentifierPattern constructs an identifier pattern node.
func NewIdentifierPattern(name intern.StringID, span lexer.Span) *IdentifierPattern {
	return &IdentifierPattern{Name: name, span: span}
}

// ReferencePattern matches behind a reference: `& [mut] pattern`.
type ReferencePattern struct {
	Inner   Pattern
	Mutable bool
	span    lexer.Span
}

func (p *ReferencePattern) Span() lexer.Span        { return p.span }
func (p *ReferencePattern) SetSpan(span lexer.Span) { p.span = span }
func (*ReferencePattern) patternNode()              {}

// TuplePattern matches a tuple positionally.
type TuplePattern struct {
	Elements []Pattern
	span     lexer.Span
}

func (p *TuplePattern) Span() lexer.Span        { return p.span }
func (p *TuplePattern) SetSpan(span lexer.Span) { p.span = span }
func (*TuplePattern) patternNode()              {}

// ArrayPattern matches an array positionally.
type ArrayPattern struct {
	Elements []Pattern
	span     lexer.Span
}

func (p *ArrayPattern) Span() lexer.Span        { return p.span }
func (p *ArrayPattern) SetSpan(span lexer.Span) { p.span = span }
func (*ArrayPattern) patternNode()              {}

// FieldPattern is one `name: pattern` entry of a struct pattern. A nil
// Pattern is field-name shorthand.
type FieldPattern struct {
	Name    intern.StringID
	Pattern Pattern
	span    lexer.Span
}

func (p *FieldPattern) Span() lexer.Span        { return p.span }
func (p *FieldPattern) SetSpan(span lexer.Span) { p.span = span }

// StructPattern matches struct fields by name. HasRest is true when the
// pattern ends with `..`.
type StructPattern struct {
	Path    []intern.StringID
	Fields  []*FieldPattern
	HasRest bool
	span    lexer.Span
}

func (p *StructPattern) Span() lexer.Span        { return p.span }
func (p *StructPattern) SetSpan(span lexer.Span) { p.span = span }
func (*StructPattern) patternNode()              {}

// EnumPattern matches an enum variant with an optional payload tuple.
type EnumPattern struct {
	Path    []intern.StringID
	Payload []Pattern
	// HasPayload distinguishes `E::V()` from `E::V`.
	HasPayload bool
	span       lexer.Span
}

func (p *EnumPattern) Span() lexer.Span        { return p.span }
func (p *EnumPattern) SetSpan(span lexer.Span) { p.span = span }
func (*EnumPattern) patternNode()              {}

// RangePattern matches a value range `start .. end`.
type RangePattern struct {
	Start Pattern
	End   Pattern
	span  lexer.Span
}

func (p *RangePattern) Span() lexer.Span        { return p.span }
func (p *RangePattern) SetSpan(span lexer.Span) { p.span = span }
func (*RangePattern) patternNode()              {}

// OrPattern matches any of its alternatives.
type OrPattern struct {
	Alternatives []Pattern
	span         lexer.Span
}

func (p *OrPattern) Span() lexer.Span        { return p.span }
func (p *OrPattern) SetSpan(span lexer.Span) { p.span = span }
func (*OrPattern) patternNode()              {}
