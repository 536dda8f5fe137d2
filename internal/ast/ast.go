// Package ast defines the abstract syntax tree for Bract source files.
//
// Every node carries a half-open source span. Names are interned; nodes
// store intern.StringID values and the parser's interner resolves them back
// to text. The tree is acyclic: parent lookup, where a pass needs it, is
// done with a separate parent-index map built on demand.
package ast

import (
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/lexer"
)

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Item represents a top-level item.
type Item interface {
	Node
	itemNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Pattern represents a pattern node.
type Pattern interface {
	Node
	patternNode()
}

// Type represents a type annotation expression.
type Type interface {
	Node
	typeNode()
}

// Visibility of an item.
type Visibility int

const (
	VisPrivate Visibility = iota
	VisPublic
)

// Module represents a parsed compilation unit.
type Module struct {
	Items []Item
	span  lexer.Span
}

// Span returns the span covering the entire module.
func (m *Module) Span() lexer.Span { return m.span }

// NewModule constructs a module node with the provided span.
func NewModule(span lexer.Span) *Module {
	return &Module{span: span}
}

// SetSpan updates the module span.
func (m *Module) SetSpan(span lexer.Span) { m.span = span }

// Function represents a function item. A nil Body is a declaration
// terminated by ';'.
type Function struct {
	Vis        Visibility
	Name       intern.StringID
	Params     []*Parameter
	ReturnType Type
	Body       *BlockExpr
	span       lexer.Span
}

func (f *Function) Span() lexer.Span        { return f.span }
func (f *Function) SetSpan(span lexer.Span) { f.span = span }
func (*Function) itemNode()                 {}

// Parameter represents a function parameter.
type Parameter struct {
	Pattern Pattern
	Type    Type
	span    lexer.Span
}

func (p *Parameter) Span() lexer.Span        { return p.span }
func (p *Parameter) SetSpan(span lexer.Span) { p.span = span }

// NewParameter constructs a parameter node.
func NewParameter(pattern Pattern, typ Type, span lexer.Span) *Parameter {
	return &Parameter{Pattern: pattern, Type: typ, span: span}
}

// FieldsKind discriminates the three struct/variant field layouts.
type FieldsKind int

const (
	FieldsUnit FieldsKind = iota
	FieldsNamed
	FieldsTuple
)

// Fields is the field list of a struct or enum variant. Exactly one of
// Named or Tuple is populated according to Kind.
type Fields struct {
	Kind  FieldsKind
	Named []*NamedField
	Tuple []Type
}

// NamedField is one field of a named-fields struct or variant.
type NamedField struct {
	Vis  Visibility
	Name intern.StringID
	Type Type
	span lexer.Span
}

func (f *NamedField) Span() lexer.Span        { return f.span }
func (f *NamedField) SetSpan(span lexer.Span) { f.span = span }

// StructItem represents a struct declaration.
type StructItem struct {
	Vis    Visibility
	Name   intern.StringID
	Fields Fields
	span   lexer.Span
}

func (s *StructItem) Span() lexer.Span        { return s.span }
func (s *StructItem) SetSpan(span lexer.Span) { s.span = span }
func (*StructItem) itemNode()                 {}

// EnumVariant is one variant of an enum. Discriminant is the optional
// explicit value expression.
type EnumVariant struct {
	Name         intern.StringID
	Fields       Fields
	Discriminant Expr
	span         lexer.Span
}

func (v *EnumVariant) Span() lexer.Span        { return v.span }
func (v *EnumVariant) SetSpan(span lexer.Span) { v.span = span }

// EnumItem represents an enum declaration.
type EnumItem struct {
	Vis      Visibility
	Name     intern.StringID
	Variants []*EnumVariant
	span     lexer.Span
}

func (e *EnumItem) Span() lexer.Span        { return e.span }
func (e *EnumItem) SetSpan(span lexer.Span) { e.span = span }
func (*EnumItem) itemNode()                 {}

// TypeAlias represents a type alias item.
type TypeAlias struct {
	Vis    Visibility
	Name   intern.StringID
	Target Type
	span   lexer.Span
}

func (t *TypeAlias) Span() lexer.Span        { return t.span }
func (t *TypeAlias) SetSpan(span lexer.Span) { t.span = span }
func (*TypeAlias) itemNode()                 {}

// ConstItem represents a constant item.
type ConstItem struct {
	Vis   Visibility
	Name  intern.StringID
	Type  Type
	Value Expr
	span  lexer.Span
}

func (c *ConstItem) Span() lexer.Span        { return c.span }
func (c *ConstItem) SetSpan(span lexer.Span) { c.span = span }
func (*ConstItem) itemNode()                 {}

// ModuleItem represents an inline or out-of-line module declaration.
// Items is nil for `mod name;`.
type ModuleItem struct {
	Vis    Visibility
	Name   intern.StringID
	Items  []Item
	Inline bool
	span   lexer.Span
}

func (m *ModuleItem) Span() lexer.Span        { return m.span }
func (m *ModuleItem) SetSpan(span lexer.Span) { m.span = span }
func (*ModuleItem) itemNode()                 {}

// ImplItem represents an impl block. Trait is nil for inherent impls.
type ImplItem struct {
	Target Type
	Trait  *PathType
	Items  []Item
	span   lexer.Span
}

func (i *ImplItem) Span() lexer.Span        { return i.span }
func (i *ImplItem) SetSpan(span lexer.Span) { i.span = span }
func (*ImplItem) itemNode()                 {}

// UseItem represents a use declaration with an optional alias.
type UseItem struct {
	Vis   Visibility
	Path  []intern.StringID
	Alias intern.StringID
	// HasAlias distinguishes "no alias" from an alias interned at id 0.
	HasAlias bool
	span     lexer.Span
}

func (u *UseItem) Span() lexer.Span        { return u.span }
func (u *UseItem) SetSpan(span lexer.Span) { u.span = span }
func (*UseItem) itemNode()                 {}
