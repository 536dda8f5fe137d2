package ast_test

import (
	"testing"

	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/lexer"
)

// buildModule returns a module with one function whose body holds a single
// return of a binary expression: fn main() -> i32 { return 1 + 2; }
func buildModule(in *intern.Interner) *ast.Module {
	span := lexer.Span{}

	one := &ast.Literal{Kind: ast.LitInteger, Text: "1", Base: lexer.BaseDecimal}
	two := &ast.Literal{Kind: ast.LitInteger, Text: "2", Base: lexer.BaseDecimal}
	sum := ast.NewBinary(ast.OpAdd, one, two, span)

	body := ast.NewBlockExpr([]ast.Stmt{&ast.ReturnStmt{Value: sum}}, nil, span)

	fn := &ast.Function{
		Name:       in.Intern("main"),
		ReturnType: ast.NewPrimitiveType(ast.PrimI32, span),
		Body:       body,
	}

	mod := ast.NewModule(span)
	mod.Items = append(mod.Items, fn)
	return mod
}

type countingVisitor struct {
	order  []ast.Node
	depths []int
	stopAt ast.Node
}

func (v *countingVisitor) Visit(node ast.Node, ctx *ast.VisitorContext) (int, error) {
	v.order = append(v.order, node)
	v.depths = append(v.depths, ctx.ScopeDepth)
	if node == v.stopAt {
		return 0, ast.ErrStopTraversal
	}
	return len(v.order), nil
}

func TestAcceptVisitsEveryNodeOnce(t *testing.T) {
	in := intern.New()
	mod := buildModule(in)

	v := &countingVisitor{}
	results, err := ast.Accept[int](mod, v, ast.PreOrder)
	if err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}

	// Module, Function, PrimitiveType, BlockExpr, ReturnStmt, Binary, two Literals.
	if len(results) != 8 {
		t.Fatalf("visited %d nodes, want 8", len(results))
	}

	seen := make(map[ast.Node]bool)
	for _, n := range v.order {
		if seen[n] {
			t.Fatalf("node %T visited twice", n)
		}
		seen[n] = true
	}
}

func TestPreOrderParentBeforeChildren(t *testing.T) {
	in := intern.New()
	mod := buildModule(in)

	v := &countingVisitor{}
	if _, err := ast.Accept[int](mod, v, ast.PreOrder); err != nil {
		t.Fatal(err)
	}

	if _, ok := v.order[0].(*ast.Module); !ok {
		t.Fatalf("pre-order did not start at the module, got %T", v.order[0])
	}
}

func TestPostOrderChildrenBeforeParent(t *testing.T) {
	in := intern.New()
	mod := buildModule(in)

	v := &countingVisitor{}
	if _, err := ast.Accept[int](mod, v, ast.PostOrder); err != nil {
		t.Fatal(err)
	}

	if _, ok := v.order[len(v.order)-1].(*ast.Module); !ok {
		t.Fatalf("post-order did not end at the module, got %T", v.order[len(v.order)-1])
	}
}

func TestScopeDepthInsideFunctionBody(t *testing.T) {
	in := intern.New()
	mod := buildModule(in)

	v := &countingVisitor{}
	if _, err := ast.Accept[int](mod, v, ast.PreOrder); err != nil {
		t.Fatal(err)
	}

	for i, n := range v.order {
		if _, ok := n.(*ast.ReturnStmt); ok {
			if v.depths[i] != 1 {
				t.Fatalf("return statement at scope depth %d, want 1", v.depths[i])
			}
			return
		}
	}
	t.Fatal("return statement never visited")
}

func TestEarlyTerminationKeepsAccumulatedResults(t *testing.T) {
	in := intern.New()
	mod := buildModule(in)

	probe := &countingVisitor{}
	if _, err := ast.Accept[int](mod, probe, ast.PreOrder); err != nil {
		t.Fatal(err)
	}
	stopAt := probe.order[3]

	v := &countingVisitor{stopAt: stopAt}
	results, err := ast.Accept[int](mod, v, ast.PreOrder)
	if err != nil {
		t.Fatalf("ErrStopTraversal leaked to the caller: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results before the sentinel, want 3", len(results))
	}
}

func TestWalkEarlyStopSkipsBranch(t *testing.T) {
	in := intern.New()
	mod := buildModule(in)

	var visited int
	ast.Walk(mod, func(n ast.Node) bool {
		visited++
		_, isFn := n.(*ast.Function)
		return !isFn // do not descend into the function
	})

	if visited != 2 { // module + function only
		t.Fatalf("visited %d nodes, want 2", visited)
	}
}
