package sema

import (
	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/lexer"
)

// ScopeID identifies a lexical scope. The global scope is always id 0.
type ScopeID int

// GlobalScope is the id of the outermost scope.
const GlobalScope ScopeID = 0

// SymbolKind classifies what a name refers to.
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolStruct
	SymbolEnum
	SymbolTypeAlias
	SymbolConst
	SymbolVariable
	SymbolParameter
	SymbolRegion
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolStruct:
		return "struct"
	case SymbolEnum:
		return "enum"
	case SymbolTypeAlias:
		return "type alias"
	case SymbolConst:
		return "constant"
	case SymbolVariable:
		return "variable"
	case SymbolParameter:
		return "parameter"
	default:
		return "region"
	}
}

// Symbol is one named entity. Strategy starts as the annotated strategy
// (or inferred) and is concretized by strategy resolution.
type Symbol struct {
	Name     intern.StringID
	Kind     SymbolKind
	Type     Type
	Mutable  bool
	Strategy ast.MemoryStrategy
	Scope    ScopeID
	DefNode  ast.Node
	DefSpan  lexer.Span

	// Layout carries the field layout of struct symbols as a tuple type
	// so size estimation can see through named types.
	Layout Type

	Used bool
}

type scope struct {
	id      ScopeID
	parent  ScopeID
	symbols map[intern.StringID]*Symbol
	// order keeps symbols in definition order; map iteration would make
	// diagnostics that walk the table come out shuffled.
	order []*Symbol
}

// SymbolTable is a scope tree. Exiting a scope hides it from resolution
// but keeps its symbols addressable by ScopeID, which later phases and
// editor tooling rely on.
type SymbolTable struct {
	scopes  []*scope
	current ScopeID
}

// NewSymbolTable creates a table holding only the global scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		scopes: []*scope{{id: GlobalScope, parent: -1, symbols: make(map[intern.StringID]*Symbol)}},
	}
}

// EnterScope creates a child of the current scope and makes it current.
func (st *SymbolTable) EnterScope() ScopeID {
	id := ScopeID(len(st.scopes))
	st.scopes = append(st.scopes, &scope{
		id:      id,
		parent:  st.current,
		symbols: make(map[intern.StringID]*Symbol),
	})
	st.current = id
	return id
}

// ExitScope makes the parent scope current. The exited scope is retained.
func (st *SymbolTable) ExitScope() {
	parent := st.scopes[st.current].parent
	if parent >= 0 {
		st.current = ScopeID(parent)
	}
}

// Current returns the id of the current scope.
func (st *SymbolTable) Current() ScopeID {
	return st.current
}

// ScopeCount returns how many scopes were ever created.
func (st *SymbolTable) ScopeCount() int {
	return len(st.scopes)
}

// Define inserts sym into the current scope. It returns the previous
// symbol when the name is already bound in this same scope; shadowing an
// outer scope is not a collision.
func (st *SymbolTable) Define(sym *Symbol) (*Symbol, bool) {
	sc := st.scopes[st.current]
	if prev, exists := sc.symbols[sym.Name]; exists {
		return prev, false
	}
	sym.Scope = st.current
	sc.symbols[sym.Name] = sym
	sc.order = append(sc.order, sym)
	return sym, true
}

// Resolve looks name up from the current scope outward.
func (st *SymbolTable) Resolve(name intern.StringID) *Symbol {
	return st.ResolveFrom(st.current, name)
}

// ResolveFrom looks name up starting at the given scope.
func (st *SymbolTable) ResolveFrom(from ScopeID, name intern.StringID) *Symbol {
	for id := int(from); id >= 0; {
		sc := st.scopes[id]
		if sym, ok := sc.symbols[name]; ok {
			return sym
		}
		id = int(sc.parent)
	}
	return nil
}

// InScope reports whether inner is scope or nested anywhere inside it.
func (st *SymbolTable) InScope(inner, outer ScopeID) bool {
	for id := int(inner); id >= 0; {
		if ScopeID(id) == outer {
			return true
		}
		id = int(st.scopes[id].parent)
	}
	return false
}

// Symbols returns every symbol defined in the given scope, in definition
// order.
func (st *SymbolTable) Symbols(id ScopeID) []*Symbol {
	if int(id) >= len(st.scopes) {
		return nil
	}
	return st.scopes[id].order
}

// Walk visits every symbol in every scope, scopes in creation order and
// symbols in definition order.
func (st *SymbolTable) Walk(fn func(*Symbol)) {
	for _, sc := range st.scopes {
		for _, sym := range sc.order {
			fn(sym)
		}
	}
}
