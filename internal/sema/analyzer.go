// Package sema implements semantic analysis: symbol collection, name
// resolution and type checking, ownership tracking, escape analysis and
// memory-strategy resolution.
package sema

import (
	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/lexer"
)

// Config tunes the analyzer. The zero value is usable; Normalize fills in
// the defaults.
type Config struct {
	Filename string

	// MaxErrors stops analysis once this many error diagnostics have been
	// reported. 0 means the default of 100.
	MaxErrors int

	// StackThresholdBytes is the largest value considered "small" by
	// strategy inference. 0 means the default of 256.
	StackThresholdBytes int64

	// WarnUnused emits warnings for symbols that are never read.
	WarnUnused bool
}

func (c Config) normalize() Config {
	if c.MaxErrors == 0 {
		c.MaxErrors = 100
	}
	if c.StackThresholdBytes == 0 {
		c.StackThresholdBytes = 256
	}
	return c
}

// Stats summarizes one analysis run.
type Stats struct {
	SymbolsDefined     int
	ScopesCreated      int
	ExpressionsTyped   int
	FunctionsAnalyzed  int
	StrategiesInferred map[ast.MemoryStrategy]int
}

// Result is everything semantic analysis learned about a module.
type Result struct {
	Symbols     *SymbolTable
	Diagnostics []diag.Diagnostic
	Stats       Stats

	// Bindings maps identifier uses to the symbols they resolve to.
	Bindings map[*ast.Identifier]*Symbol

	// ExprTypes maps expressions to their checked types.
	ExprTypes map[ast.Expr]Type
}

// HasErrors reports whether the run produced any error diagnostics.
func (r *Result) HasErrors() bool {
	return diag.HasErrors(r.Diagnostics)
}

// Analyzer drives the semantic phases. A fresh Analyzer is cheap; every
// Analyze call starts from empty state, so analyzing the same tree twice
// gives identical results.
type Analyzer struct {
	cfg      Config
	interner *intern.Interner

	table    *SymbolTable
	diags    []diag.Diagnostic
	bindings map[*ast.Identifier]*Symbol
	exprs    map[ast.Expr]Type
	vars     map[*Symbol]*varInfo
	// varOrder keeps vars in definition order so later phases report
	// deterministically.
	varOrder []*varInfo
	stats    Stats

	// current function return type, nil outside functions
	fnReturn Type
	// region name stack for region-strategy checks
	regions []regionCtx
}

type regionCtx struct {
	name  intern.StringID
	scope ScopeID
}

// varInfo is the per-variable record shared by the ownership, escape and
// strategy phases.
type varInfo struct {
	sym        *Symbol
	let        *ast.LetStmt
	reads      int
	moves      int
	moveSpan   lexer.Span
	useSpan    lexer.Span
	borrows    int
	mutBorrows int
	borrowSpan lexer.Span
	escapes    bool
	escapeSpan lexer.Span
	inRegion   bool
	region     intern.StringID
	// linearConsumed is set when the value was handed to a linear owner,
	// making any later use an error even on unannotated bindings.
	linearConsumed bool
}

// NewAnalyzer creates an analyzer. The interner must be the one that
// interned the module's names, normally parser.Interner().
func NewAnalyzer(interner *intern.Interner, cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg.normalize(), interner: interner}
}

// Analyze runs all phases over the module and returns the result. The
// input tree is not modified except for let-statement strategies, which
// are concretized in place.
func (a *Analyzer) Analyze(mod *ast.Module) *Result {
	a.table = NewSymbolTable()
	a.diags = nil
	a.bindings = make(map[*ast.Identifier]*Symbol)
	a.exprs = make(map[ast.Expr]Type)
	a.vars = make(map[*Symbol]*varInfo)
	a.varOrder = nil
	a.stats = Stats{StrategiesInferred: make(map[ast.MemoryStrategy]int)}

	a.collectModule(mod)
	a.checkModule(mod)
	a.checkOwnership()
	a.checkEscapes()
	a.resolveStrategies()
	if a.cfg.WarnUnused {
		a.reportUnused()
	}

	a.stats.SymbolsDefined = 0
	a.table.Walk(func(*Symbol) { a.stats.SymbolsDefined++ })
	a.stats.ScopesCreated = a.table.ScopeCount()
	a.stats.ExpressionsTyped = len(a.exprs)

	return &Result{
		Symbols:     a.table,
		Diagnostics: a.diags,
		Stats:       a.stats,
		Bindings:    a.bindings,
		ExprTypes:   a.exprs,
	}
}

func (a *Analyzer) name(id intern.StringID) string {
	return a.interner.Get(id)
}

func (a *Analyzer) errorCount() int {
	n := 0
	for _, d := range a.diags {
		if d.IsError() {
			n++
		}
	}
	return n
}

func (a *Analyzer) diagSpan(span lexer.Span) diag.Span {
	return diag.Span{
		Filename: a.cfg.Filename,
		Line:     span.Start.Line,
		Column:   span.Start.Column,
		Start:    span.Start.Offset,
		End:      span.End.Offset,
	}
}

func (a *Analyzer) reportError(code diag.Code, span lexer.Span, msg string, notes ...string) {
	if a.errorCount() >= a.cfg.MaxErrors {
		return
	}
	a.diags = append(a.diags, diag.Diagnostic{
		Stage:    diag.StageSemantic,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  msg,
		Span:     a.diagSpan(span),
		Notes:    notes,
	})
}

func (a *Analyzer) reportWarning(code diag.Code, span lexer.Span, msg string) {
	a.diags = append(a.diags, diag.Diagnostic{
		Stage:    diag.StageSemantic,
		Severity: diag.SeverityWarning,
		Code:     code,
		Message:  msg,
		Span:     a.diagSpan(span),
	})
}

// reportUnused warns about local variables and private functions that are
// never read. Names starting with '_' opt out.
func (a *Analyzer) reportUnused() {
	a.table.Walk(func(sym *Symbol) {
		if sym.Used {
			return
		}
		name := a.name(sym.Name)
		if name == "" || name[0] == '_' {
			return
		}
		switch sym.Kind {
		case SymbolVariable, SymbolParameter:
			a.reportWarning(diag.CodeUnusedSymbol, sym.DefSpan,
				"unused "+sym.Kind.String()+" '"+name+"'")
		case SymbolFunction:
			if fn, ok := sym.DefNode.(*ast.Function); ok && fn.Vis == ast.VisPrivate && name != "main" {
				a.reportWarning(diag.CodeUnusedSymbol, sym.DefSpan,
					"function '"+name+"' is never called")
			}
		}
	})
}

// info returns (creating if needed) the phase-shared record for sym.
func (a *Analyzer) info(sym *Symbol) *varInfo {
	vi, ok := a.vars[sym]
	if !ok {
		vi = &varInfo{sym: sym}
		if len(a.regions) > 0 {
			vi.inRegion = true
			vi.region = a.regions[len(a.regions)-1].name
		}
		a.vars[sym] = vi
		a.varOrder = append(a.varOrder, vi)
	}
	return vi
}
