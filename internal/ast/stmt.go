package ast

import (
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/lexer"
)

// LetStmt represents a let binding. Type and Value may be nil. Strategy is
// the memory-strategy annotation written on the binding; semantic analysis
// replaces StrategyInferred with a concrete strategy.
type LetStmt struct {
	Pattern  Pattern
	Type     Type
	Value    Expr
	Mutable  bool
	Strategy MemoryStrategy
	span     lexer.Span
}

func (s *LetStmt) Span() lexer.Span        { return s.span }
func (s *LetStmt) SetSpan(span lexer.Span) { s.span = span }
func (*LetStmt) stmtNode()                 {}

// ExprStmt represents an expression statement.
type ExprStmt struct {
	Expr Expr
	span lexer.Span
}

func (s *ExprStmt) Span() lexer.Span        { return s.span }
func (s *ExprStmt) SetSpan(span lexer.Span) { s.span = span }
func (*ExprStmt) stmtNode()                 {}

// AssignStmt represents a plain assignment.
type AssignStmt struct {
	Target Expr
	Value  Expr
	span   lexer.Span
}

func (s *AssignStmt) Span() lexer.Span        { return s.span }
func (s *AssignStmt) SetSpan(span lexer.Span) { s.span = span }
func (*AssignStmt) stmtNode()                 {}

// CompoundAssignStmt represents a compound assignment such as `x += 1`.
// Op is the underlying binary operator.
type CompoundAssignStmt struct {
	Op     BinaryOp
	Target Expr
	Value  Expr
	span   lexer.Span
}

func (s *CompoundAssignStmt) Span() lexer.Span        { return s.span }
func (s *CompoundAssignStmt) SetSpan(span lexer.Span) { s.span = span }
func (*CompoundAssignStmt) stmtNode()                 {}

// IfStmt represents an if statement. Else is nil, a *BlockExpr, or a
// nested *IfStmt for else-if chains.
type IfStmt struct {
	Condition Expr
	Then      *BlockExpr
	Else      Node
	span      lexer.Span
}

func (s *IfStmt) Span() lexer.Span        { return s.span }
func (s *IfStmt) SetSpan(span lexer.Span) { s.span = span }
func (*IfStmt) stmtNode()                 {}

// WhileStmt represents a while loop.
type WhileStmt struct {
	Condition Expr
	Body      *BlockExpr
	span      lexer.Span
}

func (s *WhileStmt) Span() lexer.Span        { return s.span }
func (s *WhileStmt) SetSpan(span lexer.Span) { s.span = span }
func (*WhileStmt) stmtNode()                 {}

// ForStmt represents a for-in loop.
type ForStmt struct {
	Pattern  Pattern
	Iterable Expr
	Body     *BlockExpr
	span     lexer.Span
}

func (s *ForStmt) Span() lexer.Span        { return s.span }
func (s *ForStmt) SetSpan(span lexer.Span) { s.span = span }
func (*ForStmt) stmtNode()                 {}

// LoopStmt represents an infinite loop with an optional label.
type LoopStmt struct {
	Label    intern.StringID
	HasLabel bool
	Body     *BlockExpr
	span     lexer.Span
}

func (s *LoopStmt) Span() lexer.Span        { return s.span }
func (s *LoopStmt) SetSpan(span lexer.Span) { s.span = span }
func (*LoopStmt) stmtNode()                 {}

// MatchArm is one arm of a match statement.
type MatchArm struct {
	Pattern Pattern
	Body    Expr
	span    lexer.Span
}

func (a *MatchArm) Span() lexer.Span        { return a.span }
func (a *MatchArm) SetSpan(span lexer.Span) { a.span = span }

// MatchStmt represents a match statement.
type MatchStmt struct {
	Subject Expr
	Arms    []*MatchArm
	span    lexer.Span
}

func (s *MatchStmt) Span() lexer.Span        { return s.span }
func (s *MatchStmt) SetSpan(span lexer.Span) { s.span = span }
func (*MatchStmt) stmtNode()                 {}

// BreakStmt represents a break with optional label and value.
type BreakStmt struct {
	Label    intern.StringID
	HasLabel bool
	Value    Expr
	span     lexer.Span
}

func (s *BreakStmt) Span() lexer.Span        { return s.span }
func (s *BreakStmt) SetSpan(span lexer.Span) { s.span = span }
func (*BreakStmt) stmtNode()                 {}

// ContinueStmt represents a continue with an optional label.
type ContinueStmt struct {
	Label    intern.StringID
	HasLabel bool
	span     lexer.Span
}

func (s *ContinueStmt) Span() lexer.Span        { return s.span }
func (s *ContinueStmt) SetSpan(span lexer.Span) { s.span = span }
func (*ContinueStmt) stmtNode()                 {}

// ReturnStmt represents a return with an optional value.
type ReturnStmt struct {
	Value Expr
	span  lexer.Span
}

func (s *ReturnStmt) Span() lexer.Span        { return s.span }
func (s *ReturnStmt) SetSpan(span lexer.Span) { s.span = span }
func (*ReturnStmt) stmtNode()                 {}

// BlockStmt represents a bare block used as a statement.
type BlockStmt struct {
	Block *BlockExpr
	span  lexer.Span
}

func (s *BlockStmt) Span() lexer.Span        { return s.span }
func (s *BlockStmt) SetSpan(span lexer.Span) { s.span = span }
func (*BlockStmt) stmtNode()                 {}

// RegionStmt represents a `region "name" { ... }` block. Allocations made
// with the region strategy inside the body are bulk-freed at block exit.
type RegionStmt struct {
	Name intern.StringID
	Body *BlockExpr
	span lexer.Span
}

func (s *RegionStmt) Span() lexer.Span        { return s.span }
func (s *RegionStmt) SetSpan(span lexer.Span) { s.span = span }
func (*RegionStmt) stmtNode()                 {}
