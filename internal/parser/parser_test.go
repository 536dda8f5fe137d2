package parser

import (
	"testing"

	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
)

func mustParseModule(t *testing.T, src string) (*ast.Module, *Parser) {
	t.Helper()
	p := New([]byte(src), WithFilename("test.bract"))
	mod := p.ParseModule()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors for %q: %+v", src, errs)
	}
	return mod, p
}

func mustParseExpr(t *testing.T, src string) (ast.Expr, *Parser) {
	t.Helper()
	p := New([]byte(src))
	expr := p.ParseExpression()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors for %q: %+v", src, errs)
	}
	if expr == nil {
		t.Fatalf("no expression parsed from %q", src)
	}
	return expr, p
}

func intLiteral(t *testing.T, expr ast.Expr, text string) {
	t.Helper()
	lit, ok := expr.(*ast.Literal)
	if !ok {
		t.Fatalf("expression is %T, want *ast.Literal", expr)
	}
	if lit.Kind != ast.LitInteger || lit.Text != text {
		t.Fatalf("literal is kind=%d text=%q, want integer %q", lit.Kind, lit.Text, text)
	}
}

func TestMultiplicationBindsTighterThanAddition(t *testing.T) {
	expr, _ := mustParseExpr(t, "1 + 2 * 3")

	add, ok := expr.(*ast.Binary)
	if !ok || add.Op != ast.OpAdd {
		t.Fatalf("root is %T, want addition", expr)
	}
	intLiteral(t, add.Left, "1")

	mul, ok := add.Right.(*ast.Binary)
	if !ok || mul.Op != ast.OpMultiply {
		t.Fatalf("right operand is %T, want multiplication", add.Right)
	}
	intLiteral(t, mul.Left, "2")
	intLiteral(t, mul.Right, "3")
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	expr, _ := mustParseExpr(t, "(1 + 2) * 3")

	mul, ok := expr.(*ast.Binary)
	if !ok || mul.Op != ast.OpMultiply {
		t.Fatalf("root is %T, want multiplication", expr)
	}
	group, ok := mul.Left.(*ast.Parenthesized)
	if !ok {
		t.Fatalf("left operand is %T, want *ast.Parenthesized", mul.Left)
	}
	add, ok := group.Inner.(*ast.Binary)
	if !ok || add.Op != ast.OpAdd {
		t.Fatalf("grouped expression is %T, want addition", group.Inner)
	}
}

func TestPrecedenceCascade(t *testing.T) {
	// Shift binds tighter than comparison, comparison tighter than
	// equality, bitwise levels sit between equality and logical.
	expr, _ := mustParseExpr(t, "a == b < c << d | e && f")

	and, ok := expr.(*ast.Binary)
	if !ok || and.Op != ast.OpLogicalAnd {
		t.Fatalf("root is %v, want &&", expr)
	}
	or, ok := and.Left.(*ast.Binary)
	if !ok || or.Op != ast.OpBitOr {
		t.Fatalf("left of && is %v, want |", and.Left)
	}
	eq, ok := or.Left.(*ast.Binary)
	if !ok || eq.Op != ast.OpEqual {
		t.Fatalf("left of | is %v, want ==", or.Left)
	}
	lt, ok := eq.Right.(*ast.Binary)
	if !ok || lt.Op != ast.OpLess {
		t.Fatalf("right of == is %v, want <", eq.Right)
	}
	shl, ok := lt.Right.(*ast.Binary)
	if !ok || shl.Op != ast.OpShiftLeft {
		t.Fatalf("right of < is %v, want <<", lt.Right)
	}
}

func TestUnaryBindsTighterThanBinary(t *testing.T) {
	expr, _ := mustParseExpr(t, "-a * b")

	mul, ok := expr.(*ast.Binary)
	if !ok || mul.Op != ast.OpMultiply {
		t.Fatalf("root is %T, want multiplication", expr)
	}
	neg, ok := mul.Left.(*ast.Unary)
	if !ok || neg.Op != ast.OpNegate {
		t.Fatalf("left operand is %T, want negation", mul.Left)
	}
}

func TestTernaryDesugarsToIf(t *testing.T) {
	expr, _ := mustParseExpr(t, "cond ? 1 : 2")

	ifExpr, ok := expr.(*ast.If)
	if !ok {
		t.Fatalf("root is %T, want *ast.If", expr)
	}
	if _, ok := ifExpr.Condition.(*ast.Identifier); !ok {
		t.Fatalf("condition is %T, want identifier", ifExpr.Condition)
	}
	intLiteral(t, ifExpr.Then.Tail, "1")
	intLiteral(t, ifExpr.Else, "2")
}

func TestCallArguments(t *testing.T) {
	expr, _ := mustParseExpr(t, "f(1, 2 + 3, g())")

	call, ok := expr.(*ast.Call)
	if !ok {
		t.Fatalf("root is %T, want *ast.Call", expr)
	}
	if len(call.Args) != 3 {
		t.Fatalf("call has %d args, want 3", len(call.Args))
	}
	if _, ok := call.Args[2].(*ast.Call); !ok {
		t.Fatalf("third arg is %T, want nested call", call.Args[2])
	}
}

func TestIdentifiersAreInterned(t *testing.T) {
	expr, p := mustParseExpr(t, "x + x")

	add := expr.(*ast.Binary)
	left := add.Left.(*ast.Identifier)
	right := add.Right.(*ast.Identifier)
	if left.Name != right.Name {
		t.Errorf("same identifier interned to different ids: %d vs %d", left.Name, right.Name)
	}
	if got := p.Interner().Get(left.Name); got != "x" {
		t.Errorf("interner resolves id to %q, want x", got)
	}
}

func TestParseFunction(t *testing.T) {
	mod, p := mustParseModule(t, `
pub fn add(a: i32, b: i32) -> i32 {
    return a + b;
}
`)

	if len(mod.Items) != 1 {
		t.Fatalf("module has %d items, want 1", len(mod.Items))
	}
	fn, ok := mod.Items[0].(*ast.Function)
	if !ok {
		t.Fatalf("item is %T, want *ast.Function", mod.Items[0])
	}
	if fn.Vis != ast.VisPublic {
		t.Error("function is not public")
	}
	if name := p.Interner().Get(fn.Name); name != "add" {
		t.Errorf("function name %q, want add", name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("function has %d params, want 2", len(fn.Params))
	}
	ret, ok := fn.ReturnType.(*ast.PrimitiveType)
	if !ok || ret.Kind != ast.PrimI32 {
		t.Fatalf("return type %v, want i32", fn.ReturnType)
	}
	if fn.Body == nil || len(fn.Body.Stmts) != 1 {
		t.Fatal("function body missing its return statement")
	}
	if _, ok := fn.Body.Stmts[0].(*ast.ReturnStmt); !ok {
		t.Fatalf("body statement is %T, want return", fn.Body.Stmts[0])
	}
}

func TestFunctionDeclarationWithoutBody(t *testing.T) {
	mod, _ := mustParseModule(t, "fn external(x: i64) -> i64;")

	fn := mod.Items[0].(*ast.Function)
	if fn.Body != nil {
		t.Error("declaration should have no body")
	}
}

func TestBlockTailExpression(t *testing.T) {
	mod, _ := mustParseModule(t, `
fn answer() -> i32 {
    let x = 41;
    x + 1
}
`)

	fn := mod.Items[0].(*ast.Function)
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("body has %d statements, want 1", len(fn.Body.Stmts))
	}
	if fn.Body.Tail == nil {
		t.Fatal("block tail missing")
	}
	if _, ok := fn.Body.Tail.(*ast.Binary); !ok {
		t.Fatalf("tail is %T, want binary expression", fn.Body.Tail)
	}
}

func TestStructLayouts(t *testing.T) {
	mod, _ := mustParseModule(t, `
struct Point { x: f64, y: f64 }
struct Pair(i32, i32);
struct Unit;
`)

	if len(mod.Items) != 3 {
		t.Fatalf("module has %d items, want 3", len(mod.Items))
	}

	named := mod.Items[0].(*ast.StructItem)
	if named.Fields.Kind != ast.FieldsNamed || len(named.Fields.Named) != 2 {
		t.Errorf("Point fields: kind=%d n=%d, want 2 named", named.Fields.Kind, len(named.Fields.Named))
	}

	tuple := mod.Items[1].(*ast.StructItem)
	if tuple.Fields.Kind != ast.FieldsTuple || len(tuple.Fields.Tuple) != 2 {
		t.Errorf("Pair fields: kind=%d n=%d, want 2 tuple", tuple.Fields.Kind, len(tuple.Fields.Tuple))
	}

	unit := mod.Items[2].(*ast.StructItem)
	if unit.Fields.Kind != ast.FieldsUnit {
		t.Errorf("Unit fields kind=%d, want unit", unit.Fields.Kind)
	}
}

func TestEnumVariants(t *testing.T) {
	mod, _ := mustParseModule(t, `
enum Shape {
    Circle(f64),
    Rect { w: f64, h: f64 },
    Empty = 0,
}
`)

	e := mod.Items[0].(*ast.EnumItem)
	if len(e.Variants) != 3 {
		t.Fatalf("enum has %d variants, want 3", len(e.Variants))
	}
	if e.Variants[0].Fields.Kind != ast.FieldsTuple {
		t.Error("Circle should carry a tuple payload")
	}
	if e.Variants[1].Fields.Kind != ast.FieldsNamed {
		t.Error("Rect should carry named fields")
	}
	if e.Variants[2].Discriminant == nil {
		t.Error("Empty should have an explicit discriminant")
	}
}

func TestMiscItems(t *testing.T) {
	mod, p := mustParseModule(t, `
use std::io::Reader as R;
type Meters = f64;
const LIMIT: i32 = 100;
mod geometry {
    pub fn area(r: f64) -> f64;
}
impl Display for Point {
    fn fmt(self: &Point) -> str;
}
`)

	if len(mod.Items) != 5 {
		t.Fatalf("module has %d items, want 5", len(mod.Items))
	}

	use := mod.Items[0].(*ast.UseItem)
	if len(use.Path) != 3 || !use.HasAlias {
		t.Errorf("use path len=%d alias=%v, want 3 segments with alias", len(use.Path), use.HasAlias)
	}
	if alias := p.Interner().Get(use.Alias); alias != "R" {
		t.Errorf("alias %q, want R", alias)
	}

	if _, ok := mod.Items[1].(*ast.TypeAlias); !ok {
		t.Errorf("item 1 is %T, want type alias", mod.Items[1])
	}
	if _, ok := mod.Items[2].(*ast.ConstItem); !ok {
		t.Errorf("item 2 is %T, want const", mod.Items[2])
	}

	m := mod.Items[3].(*ast.ModuleItem)
	if !m.Inline || len(m.Items) != 1 {
		t.Errorf("mod inline=%v items=%d, want inline with 1 item", m.Inline, len(m.Items))
	}

	impl := mod.Items[4].(*ast.ImplItem)
	if impl.Trait == nil {
		t.Error("impl should reference a trait")
	}
	if len(impl.Items) != 1 {
		t.Errorf("impl has %d items, want 1", len(impl.Items))
	}
}

func TestStatementForms(t *testing.T) {
	mod, _ := mustParseModule(t, `
fn main() {
    let mut i = 0;
    while i < 10 {
        i += 1;
    }
    for x in items {
        consume(x);
    }
    loop {
        break;
    }
    match i {
        0 => zero(),
        1 | 2 => small(),
        _ => other(),
    }
    region scratch {
        work();
    }
    i = 99;
    continue_marker();
}
`)

	fn := mod.Items[0].(*ast.Function)
	stmts := fn.Body.Stmts
	if len(stmts) != 8 {
		t.Fatalf("body has %d statements, want 8", len(stmts))
	}

	let := stmts[0].(*ast.LetStmt)
	if !let.Mutable {
		t.Error("let mut lost its mutability")
	}

	while := stmts[1].(*ast.WhileStmt)
	if len(while.Body.Stmts) != 1 {
		t.Fatal("while body missing its statement")
	}
	if _, ok := while.Body.Stmts[0].(*ast.CompoundAssignStmt); !ok {
		t.Errorf("while body statement is %T, want compound assignment", while.Body.Stmts[0])
	}

	if _, ok := stmts[2].(*ast.ForStmt); !ok {
		t.Errorf("statement 2 is %T, want for", stmts[2])
	}

	loop := stmts[3].(*ast.LoopStmt)
	if _, ok := loop.Body.Stmts[0].(*ast.BreakStmt); !ok {
		t.Errorf("loop body statement is %T, want break", loop.Body.Stmts[0])
	}

	m := stmts[4].(*ast.MatchStmt)
	if len(m.Arms) != 3 {
		t.Fatalf("match has %d arms, want 3", len(m.Arms))
	}
	if _, ok := m.Arms[1].Pattern.(*ast.OrPattern); !ok {
		t.Errorf("arm 1 pattern is %T, want or-pattern", m.Arms[1].Pattern)
	}
	if _, ok := m.Arms[2].Pattern.(*ast.WildcardPattern); !ok {
		t.Errorf("arm 2 pattern is %T, want wildcard", m.Arms[2].Pattern)
	}

	if _, ok := stmts[5].(*ast.RegionStmt); !ok {
		t.Errorf("statement 5 is %T, want region", stmts[5])
	}
	if _, ok := stmts[6].(*ast.AssignStmt); !ok {
		t.Errorf("statement 6 is %T, want assignment", stmts[6])
	}
	if _, ok := stmts[7].(*ast.ExprStmt); !ok {
		t.Errorf("statement 7 is %T, want expression statement", stmts[7])
	}
}

func TestIfElseChain(t *testing.T) {
	mod, _ := mustParseModule(t, `
fn classify(n: i32) {
    if n < 0 {
        neg();
    } else if n == 0 {
        zero();
    } else {
        pos();
    }
    after();
}
`)

	fn := mod.Items[0].(*ast.Function)
	ifStmt, ok := fn.Body.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("statement 0 is %T, want if", fn.Body.Stmts[0])
	}
	elif, ok := ifStmt.Else.(*ast.If)
	if !ok {
		t.Fatalf("else branch is %T, want nested if", ifStmt.Else)
	}
	if _, ok := elif.Else.(*ast.BlockExpr); !ok {
		t.Fatalf("final else is %T, want block", elif.Else)
	}
}

func TestLetWithMemoryAnnotation(t *testing.T) {
	mod, _ := mustParseModule(t, `
fn f() {
    let buf: @linear Buffer = acquire();
    let node: @region(scratch) Node = alloc();
}
`)

	fn := mod.Items[0].(*ast.Function)

	linear := fn.Body.Stmts[0].(*ast.LetStmt)
	if linear.Strategy != ast.StrategyLinear {
		t.Errorf("strategy %v, want linear", linear.Strategy)
	}
	annotated, ok := linear.Type.(*ast.AnnotatedType)
	if !ok {
		t.Fatalf("type is %T, want annotated", linear.Type)
	}
	if _, ok := annotated.Inner.(*ast.PathType); !ok {
		t.Errorf("inner type is %T, want path", annotated.Inner)
	}

	regional := fn.Body.Stmts[1].(*ast.LetStmt)
	if regional.Strategy != ast.StrategyRegion {
		t.Errorf("strategy %v, want region", regional.Strategy)
	}
}

func TestTypeForms(t *testing.T) {
	mod, _ := mustParseModule(t, `
fn f(
    a: &mut i32,
    b: *const u8,
    c: (i32, f64),
    d: [u8; 16],
    e: fn(i32) -> bool,
    g: Vec<Vec<i32>>,
    h: _,
) ;
`)

	fn := mod.Items[0].(*ast.Function)
	if len(fn.Params) != 7 {
		t.Fatalf("function has %d params, want 7", len(fn.Params))
	}

	ref := fn.Params[0].Type.(*ast.ReferenceType)
	if !ref.Mutable {
		t.Error("&mut parsed as immutable reference")
	}
	ptr := fn.Params[1].Type.(*ast.PointerType)
	if ptr.Mutable {
		t.Error("*const parsed as mutable pointer")
	}
	tup := fn.Params[2].Type.(*ast.TupleType)
	if len(tup.Types) != 2 {
		t.Errorf("tuple has %d elements, want 2", len(tup.Types))
	}
	arr := fn.Params[3].Type.(*ast.ArrayType)
	intLiteral(t, arr.Size, "16")
	fnType := fn.Params[4].Type.(*ast.FunctionType)
	if len(fnType.Params) != 1 || fnType.Return == nil {
		t.Error("function type lost its signature")
	}

	outer := fn.Params[5].Type.(*ast.PathType)
	if len(outer.Args) != 1 {
		t.Fatalf("Vec has %d type args, want 1", len(outer.Args))
	}
	inner, ok := outer.Args[0].(*ast.PathType)
	if !ok || len(inner.Args) != 1 {
		t.Fatal("nested generic argument lost")
	}

	if _, ok := fn.Params[6].Type.(*ast.InferredType); !ok {
		t.Errorf("param 6 type is %T, want inferred", fn.Params[6].Type)
	}
}

func TestErrorRecoveryAcrossItems(t *testing.T) {
	p := New([]byte(`
fn broken( {
fn intact() -> i32 { 1 }
`), WithFilename("test.bract"))
	mod := p.ParseModule()

	if len(p.Errors()) == 0 {
		t.Fatal("malformed input produced no diagnostics")
	}

	var names []string
	for _, item := range mod.Items {
		if fn, ok := item.(*ast.Function); ok {
			name := p.Interner().Get(fn.Name)
			names = append(names, name)
		}
	}
	found := false
	for _, n := range names {
		if n == "intact" {
			found = true
		}
	}
	if !found {
		t.Errorf("recovery lost the following function, got %v", names)
	}
}

func TestErrorRecoveryInsideBlock(t *testing.T) {
	p := New([]byte(`
fn f() {
    let = ;
    valid();
}
`))
	mod := p.ParseModule()

	if len(p.Errors()) == 0 {
		t.Fatal("malformed let produced no diagnostics")
	}
	fn, ok := mod.Items[0].(*ast.Function)
	if !ok {
		t.Fatalf("item is %T, want function", mod.Items[0])
	}
	recovered := false
	for _, stmt := range fn.Body.Stmts {
		if _, ok := stmt.(*ast.ExprStmt); ok {
			recovered = true
		}
	}
	if !recovered {
		t.Error("statement after the malformed let was lost")
	}
}

func TestDiagnosticCarriesExpectedTokens(t *testing.T) {
	p := New([]byte("fn f { }"), WithFilename("test.bract"))
	p.ParseModule()

	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatal("no diagnostics")
	}
	first := errs[0]
	if first.Stage != diag.StageParser {
		t.Errorf("stage %q, want parser", first.Stage)
	}
	if first.Span.Filename != "test.bract" {
		t.Errorf("filename %q, want test.bract", first.Span.Filename)
	}
	if len(first.Expected) == 0 {
		t.Error("diagnostic has no expected-token list")
	}
}

func TestLexicalErrorsSurfaceAsDiagnostics(t *testing.T) {
	p := New([]byte("fn f() { let x = #; }"))
	p.ParseModule()

	found := false
	for _, d := range p.Errors() {
		if d.Stage == diag.StageLexer && d.Code == diag.CodeLexInvalidCharacter {
			found = true
		}
	}
	if !found {
		t.Errorf("invalid character not reported, got %+v", p.Errors())
	}
}

func TestModuleSpanCoversItems(t *testing.T) {
	mod, _ := mustParseModule(t, "fn a();\nfn b();")

	span := mod.Span()
	if span.Start.Offset != 0 {
		t.Errorf("module starts at offset %d, want 0", span.Start.Offset)
	}
	last := mod.Items[1].Span()
	if span.End.Offset < last.End.Offset {
		t.Error("module span does not cover its last item")
	}
}
