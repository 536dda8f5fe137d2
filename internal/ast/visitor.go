package ast

import "errors"

// ErrStopTraversal is the sentinel a visitor returns to stop the walk
// early. The walker swallows it and returns the results accumulated so
// far; every other error propagates immediately.
var ErrStopTraversal = errors.New("ast: stop traversal")

// Order selects when a visitor sees a node relative to its children.
type Order int

const (
	PreOrder Order = iota
	PostOrder
)

// VisitorContext carries traversal state shared with the visitor. Symbols
// is a scratch map for per-walk bookkeeping; Data holds free-form keyed
// values. ScopeDepth counts the scopes the walker has entered around
// function bodies, block expressions and inline module bodies.
type VisitorContext struct {
	ScopeDepth int
	Symbols    map[string]Node
	Data       map[string]any
}

// NewVisitorContext returns an empty context.
func NewVisitorContext() *VisitorContext {
	return &VisitorContext{
		Symbols: make(map[string]Node),
		Data:    make(map[string]any),
	}
}

// Visitor produces a value for each visited node.
type Visitor[T any] interface {
	Visit(node Node, ctx *VisitorContext) (T, error)
}

// MutVisitor is a visitor that may mutate nodes in place. It shares the
// walker's traversal logic with Visitor.
type MutVisitor[T any] interface {
	VisitMut(node Node, ctx *VisitorContext) (T, error)
}

// ScopedVisitor is implemented by visitors that want scope notifications.
type ScopedVisitor interface {
	EnterScope(ctx *VisitorContext)
	ExitScope(ctx *VisitorContext)
}

// Accept walks node with v in the given order, collecting one result per
// visited node. When the visitor returns ErrStopTraversal, Accept returns
// the results gathered so far and a nil error.
func Accept[T any](node Node, v Visitor[T], order Order) ([]T, error) {
	w := &walker[T]{
		visit: v.Visit,
		order: order,
		ctx:   NewVisitorContext(),
	}
	if sv, ok := v.(ScopedVisitor); ok {
		w.scoped = sv
	}
	if err := w.walk(node); err != nil && !errors.Is(err, ErrStopTraversal) {
		return w.results, err
	}
	return w.results, nil
}

// AcceptMut is the mutable counterpart of Accept.
func AcceptMut[T any](node Node, v MutVisitor[T], order Order) ([]T, error) {
	w := &walker[T]{
		visit: v.VisitMut,
		order: order,
		ctx:   NewVisitorContext(),
	}
	if sv, ok := v.(ScopedVisitor); ok {
		w.scoped = sv
	}
	if err := w.walk(node); err != nil && !errors.Is(err, ErrStopTraversal) {
		return w.results, err
	}
	return w.results, nil
}

type walker[T any] struct {
	visit   func(Node, *VisitorContext) (T, error)
	order   Order
	ctx     *VisitorContext
	scoped  ScopedVisitor
	results []T
}

func (w *walker[T]) walk(node Node) error {
	if node == nil {
		return nil
	}

	if w.order == PreOrder {
		if err := w.visitNode(node); err != nil {
			return err
		}
	}

	if err := w.walkChildren(node); err != nil {
		return err
	}

	if w.order == PostOrder {
		if err := w.visitNode(node); err != nil {
			return err
		}
	}

	return nil
}

func (w *walker[T]) visitNode(node Node) error {
	result, err := w.visit(node, w.ctx)
	if err != nil {
		return err
	}
	w.results = append(w.results, result)
	return nil
}

// walkChildren descends into every child exactly once, opening a scope
// around function bodies, block expressions and inline module bodies. A
// scope that was entered is exited even when a child fails.
func (w *walker[T]) walkChildren(node Node) (err error) {
	if opensScope(node) {
		w.enterScope()
		defer w.exitScope()
	}

	eachChild(node, func(child Node) bool {
		err = w.walk(child)
		return err == nil
	})
	return err
}

func (w *walker[T]) enterScope() {
	w.ctx.ScopeDepth++
	if w.scoped != nil {
		w.scoped.EnterScope(w.ctx)
	}
}

func (w *walker[T]) exitScope() {
	if w.scoped != nil {
		w.scoped.ExitScope(w.ctx)
	}
	w.ctx.ScopeDepth--
}

func opensScope(node Node) bool {
	switch n := node.(type) {
	case *BlockExpr:
		return true
	case *ModuleItem:
		return n.Inline
	default:
		return false
	}
}
