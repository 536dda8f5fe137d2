package sema

import (
	"testing"

	"github.com/bract-lang/bract/internal/intern"
)

func TestDefineAndResolve(t *testing.T) {
	in := intern.New()
	st := NewSymbolTable()

	x := in.Intern("x")
	if _, ok := st.Define(&Symbol{Name: x, Kind: SymbolVariable}); !ok {
		t.Fatal("first definition rejected")
	}
	sym := st.Resolve(x)
	if sym == nil || sym.Scope != GlobalScope {
		t.Fatalf("resolved %+v, want symbol in global scope", sym)
	}
}

func TestDuplicateInSameScope(t *testing.T) {
	in := intern.New()
	st := NewSymbolTable()

	x := in.Intern("x")
	first, _ := st.Define(&Symbol{Name: x, Kind: SymbolVariable})
	prev, ok := st.Define(&Symbol{Name: x, Kind: SymbolFunction})
	if ok {
		t.Fatal("duplicate definition accepted")
	}
	if prev != first {
		t.Error("collision did not return the original symbol")
	}
}

func TestShadowingResolvesNearest(t *testing.T) {
	in := intern.New()
	st := NewSymbolTable()

	x := in.Intern("x")
	outer, _ := st.Define(&Symbol{Name: x, Kind: SymbolVariable})

	st.EnterScope()
	inner, ok := st.Define(&Symbol{Name: x, Kind: SymbolVariable})
	if !ok {
		t.Fatal("shadowing in a nested scope treated as collision")
	}
	if st.Resolve(x) != inner {
		t.Error("resolution did not pick the innermost binding")
	}

	st.ExitScope()
	if st.Resolve(x) != outer {
		t.Error("resolution after exit did not fall back to the outer binding")
	}
}

func TestExitedScopeStaysAddressable(t *testing.T) {
	in := intern.New()
	st := NewSymbolTable()

	y := in.Intern("y")
	child := st.EnterScope()
	st.Define(&Symbol{Name: y, Kind: SymbolVariable})
	st.ExitScope()

	if st.Resolve(y) != nil {
		t.Error("exited scope still visible to normal resolution")
	}
	if st.ResolveFrom(child, y) == nil {
		t.Error("retained scope lost its symbols")
	}
}

func TestInScope(t *testing.T) {
	st := NewSymbolTable()
	a := st.EnterScope()
	b := st.EnterScope()

	if !st.InScope(b, a) {
		t.Error("nested scope not recognized as inside its parent")
	}
	if !st.InScope(b, GlobalScope) {
		t.Error("nested scope not recognized as inside the global scope")
	}
	if st.InScope(a, b) {
		t.Error("parent scope reported as inside its child")
	}
}

func TestWalkVisitsEveryScope(t *testing.T) {
	in := intern.New()
	st := NewSymbolTable()

	st.Define(&Symbol{Name: in.Intern("a"), Kind: SymbolFunction})
	st.EnterScope()
	st.Define(&Symbol{Name: in.Intern("b"), Kind: SymbolVariable})
	st.ExitScope()
	st.EnterScope()
	st.Define(&Symbol{Name: in.Intern("c"), Kind: SymbolVariable})
	st.ExitScope()

	count := 0
	st.Walk(func(*Symbol) { count++ })
	if count != 3 {
		t.Errorf("walk visited %d symbols, want 3", count)
	}
	if st.ScopeCount() != 3 {
		t.Errorf("table holds %d scopes, want 3", st.ScopeCount())
	}
}

func TestWalkAndSymbolsKeepDefinitionOrder(t *testing.T) {
	in := intern.New()
	st := NewSymbolTable()

	names := []string{"gamma", "alpha", "beta", "delta"}
	for _, n := range names {
		st.Define(&Symbol{Name: in.Intern(n), Kind: SymbolVariable})
	}

	var walked []string
	st.Walk(func(sym *Symbol) { walked = append(walked, in.Get(sym.Name)) })
	for i, n := range names {
		if walked[i] != n {
			t.Fatalf("walk order %v, want %v", walked, names)
		}
	}

	scoped := st.Symbols(GlobalScope)
	for i, n := range names {
		if in.Get(scoped[i].Name) != n {
			t.Fatalf("Symbols order broken at %d: got %s, want %s", i, in.Get(scoped[i].Name), n)
		}
	}
}
