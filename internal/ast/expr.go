package ast

import (
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/lexer"
)

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShiftLeft
	OpShiftRight
	OpLogicalAnd
	OpLogicalOr
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

var binaryOpNames = map[BinaryOp]string{
	OpAdd: "+", OpSubtract: "-", OpMultiply: "*", OpDivide: "/", OpModulo: "%",
	OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^", OpShiftLeft: "<<", OpShiftRight: ">>",
	OpLogicalAnd: "&&", OpLogicalOr: "||",
	OpEqual: "==", OpNotEqual: "!=", OpLess: "<", OpLessEqual: "<=",
	OpGreater: ">", OpGreaterEqual: ">=",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

// IsComparison reports whether the operator yields bool from two operands
// of the same type.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return true
	default:
		return false
	}
}

// IsLogical reports whether the operator requires bool operands.
func (op BinaryOp) IsLogical() bool {
	return op == OpLogicalAnd || op == OpLogicalOr
}

// IsBitwise reports whether the operator requires integer operands.
func (op BinaryOp) IsBitwise() bool {
	switch op {
	case OpBitAnd, OpBitOr, OpBitXor, OpShiftLeft, OpShiftRight:
		return true
	default:
		return false
	}
}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNot UnaryOp = iota // !
	OpBitNot             // ~
	OpNegate             // unary -
	OpPlus               // unary +
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpBitNot:
		return "~"
	case OpNegate:
		return "-"
	default:
		return "+"
	}
}

// Identifier represents a name expression.
type Identifier struct {
	Name intern.StringID
	span lexer.Span
}

func (i *Identifier) Span() lexer.Span        { return i.span }
func (i *Identifier) SetSpan(span lexer.Span) { i.span = span }
func (*Identifier) exprNode()                 {}

// NewIdentifier constructs an identifier expression.
func NewIdentifier(name intern.StringID, span lexer.Span) *Identifier {
	return &Identifier{Name: name, span: span}
}

// LiteralKind discriminates literal expressions.
type LiteralKind int

const (
	LitInteger LiteralKind = iota
	LitFloat
	LitString
	LitChar
	LitBool
	LitNull
)

// Literal represents a literal expression. Numeric literals keep their
// textual digits; conversion happens in the back-end.
type Literal struct {
	Kind LiteralKind

	// Integer / float payload.
	Text   string // textual digits, base prefix included
	Base   lexer.NumberBase
	Suffix intern.StringID
	// HasSuffix distinguishes "no suffix" from a suffix interned at id 0.
	HasSuffix bool

	// String payload.
	Str      intern.StringID
	Raw      bool
	RawDelim int

	// Char / bool payload.
	Char rune
	Bool bool

	span lexer.Span
}

func (l *Literal) Span() lexer.Span        { return l.span }
func (l *Literal) SetSpan(span lexer.Span) { l.span = span }
func (*Literal) exprNode()                 {}
func (*Literal) patternNode()              {}

// Binary represents a binary expression.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	span  lexer.Span
}

func (b *Binary) Span() lexer.Span        { return b.span }
func (b *Binary) SetSpan(span lexer.Span) { b.span = span }
func (*Binary) exprNode()                 {}

// NewBinary constructs a binary expression node.
func NewBinary(op BinaryOp, left, right Expr, span lexer.Span) *Binary {
	return &Binary{Op: op, Left: left, Right: right, span: span}
}

// Unary represents a unary expression.
type Unary struct {
	Op   UnaryOp
	Expr Expr
	span lexer.Span
}

func (u *Unary) Span() lexer.Span        { return u.span }
func (u *Unary) SetSpan(span lexer.Span) { u.span = span }
func (*Unary) exprNode()                 {}

// Call represents a function call expression.
type Call struct {
	Callee Expr
	Args   []Expr
	span   lexer.Span
}

func (c *Call) Span() lexer.Span        { return c.span }
func (c *Call) SetSpan(span lexer.Span) { c.span = span }
func (*Call) exprNode()                 {}

// Parenthesized represents a parenthesized expression. It is kept in the
// tree so spans cover the source parentheses.
type Parenthesized struct {
	Inner Expr
	span  lexer.Span
}

func (p *Parenthesized) Span() lexer.Span        { return p.span }
func (p *Parenthesized) SetSpan(span lexer.Span) { p.span = span }
func (*Parenthesized) exprNode()                 {}

// BlockExpr represents a block with statements and an optional trailing
// expression whose value is the block's value.
type BlockExpr struct {
	Stmts []Stmt
	Tail  Expr
	span  lexer.Span
}

func (b *BlockExpr) Span() lexer.Span        { return b.span }
func (b *BlockExpr) SetSpan(span lexer.Span) { b.span = span }
func (*BlockExpr) exprNode()                 {}

// NewBlockExpr constructs a block expression node.
func NewBlockExpr(stmts []Stmt, tail Expr, span lexer.Span) *BlockExpr {
	return &BlockExpr{Stmts: stmts, Tail: tail, span: span}
}

// If represents an if expression. The else branch is either a *BlockExpr
// or another *If.
type If struct {
	Condition Expr
	Then      *BlockExpr
	Else      Expr
	span      lexer.Span
}

func (i *If) Span() lexer.Span        { return i.span }
func (i *If) SetSpan(span lexer.Span) { i.span = span }
func (*If) exprNode()                 {}
