package sema

import (
	"fmt"

	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
)

// checkModule is the resolution and type-checking phase. Signatures are
// computed first so calls between functions type-check regardless of
// declaration order.
func (a *Analyzer) checkModule(mod *ast.Module) {
	a.resolveSignatures(mod.Items)
	a.checkBodies(mod.Items)
}

func (a *Analyzer) resolveSignatures(items []ast.Item) {
	for _, item := range items {
		switch it := item.(type) {
		case *ast.Function:
			sym := a.table.ResolveFrom(GlobalScope, it.Name)
			if sym == nil || sym.DefNode != ast.Node(it) {
				continue // duplicate; signature belongs to the first definition
			}
			sig := &FunctionSig{Return: unitType}
			for _, param := range it.Params {
				sig.Params = append(sig.Params, a.typeFromAST(param.Type))
				strategy := ast.StrategyInferred
				if annotated, ok := param.Type.(*ast.AnnotatedType); ok {
					strategy = annotated.Strategy
				}
				sig.ParamStrategies = append(sig.ParamStrategies, strategy)
			}
			if it.ReturnType != nil {
				sig.Return = a.typeFromAST(it.ReturnType)
			}
			sym.Type = sig

		case *ast.StructItem:
			if sym := a.table.ResolveFrom(GlobalScope, it.Name); sym != nil && sym.DefNode == ast.Node(it) {
				sym.Layout = a.structLayout(it)
				sym.Type = &Named{Name: a.name(it.Name), Sym: sym}
			}

		case *ast.EnumItem:
			if sym := a.table.ResolveFrom(GlobalScope, it.Name); sym != nil && sym.DefNode == ast.Node(it) {
				sym.Type = &Named{Name: a.name(it.Name), Sym: sym}
			}

		case *ast.ConstItem:
			if sym := a.table.ResolveFrom(GlobalScope, it.Name); sym != nil && sym.DefNode == ast.Node(it) {
				sym.Type = a.typeFromAST(it.Type)
			}

		case *ast.ModuleItem:
			a.resolveSignatures(it.Items)
		case *ast.ImplItem:
			a.resolveSignatures(it.Items)
		}
	}
}

func (a *Analyzer) checkBodies(items []ast.Item) {
	for _, item := range items {
		switch it := item.(type) {
		case *ast.Function:
			a.checkFunction(it)
		case *ast.ConstItem:
			declared := a.typeFromAST(it.Type)
			value := a.checkExpr(it.Value)
			if !Equal(declared, value) {
				a.reportError(diag.CodeTypeMismatch, it.Value.Span(),
					fmt.Sprintf("constant value has type %s, expected %s", value, declared))
			}
		case *ast.ModuleItem:
			a.checkBodies(it.Items)
		case *ast.ImplItem:
			a.checkBodies(it.Items)
		}
	}
}

func (a *Analyzer) checkFunction(fn *ast.Function) {
	if fn.Body == nil {
		return
	}
	a.stats.FunctionsAnalyzed++

	sym := a.table.ResolveFrom(GlobalScope, fn.Name)
	sig, _ := sym.Type.(*FunctionSig)
	if sig == nil {
		sig = &FunctionSig{Return: unitType}
	}
	a.fnReturn = sig.Return

	a.table.EnterScope()
	for i, param := range fn.Params {
		var ptype Type = unknownType
		if i < len(sig.Params) {
			ptype = sig.Params[i]
		}
		strategy := ast.StrategyInferred
		if annotated, ok := param.Type.(*ast.AnnotatedType); ok {
			strategy = annotated.Strategy
		}
		a.bindPattern(param.Pattern, ptype, false, strategy, nil, SymbolParameter)
	}

	bodyType := a.checkBlockInPlace(fn.Body)
	if fn.Body.Tail != nil {
		a.markMove(fn.Body.Tail)
		a.markEscape(fn.Body.Tail)
	}

	if !IsUnit(sig.Return) {
		switch {
		case fn.Body.Tail != nil && !IsUnit(bodyType):
			if !Equal(bodyType, sig.Return) {
				a.reportError(diag.CodeTypeMismatch, fn.Body.Tail.Span(),
					fmt.Sprintf("function returns %s but body yields %s", sig.Return, bodyType))
			}
		case tailGuaranteesReturn(fn.Body.Tail):
		case fn.Body.Tail == nil && blockGuaranteesReturn(fn.Body):
		default:
			a.reportError(diag.CodeMissingReturn, fn.Span(),
				"function '"+a.name(fn.Name)+"' does not return a value on all paths")
		}
	}

	a.table.ExitScope()
	a.fnReturn = nil
}

// checkBlock opens a scope around the block.
func (a *Analyzer) checkBlock(b *ast.BlockExpr) Type {
	a.table.EnterScope()
	t := a.checkBlockInPlace(b)
	a.table.ExitScope()
	return t
}

// checkBlockInPlace checks statements and tail in the current scope. The
// function body shares its scope with the parameters.
func (a *Analyzer) checkBlockInPlace(b *ast.BlockExpr) Type {
	for _, stmt := range b.Stmts {
		a.checkStmt(stmt)
	}
	if b.Tail != nil {
		return a.checkExpr(b.Tail)
	}
	return unitType
}

func (a *Analyzer) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		a.checkLet(s)

	case *ast.ExprStmt:
		a.checkExpr(s.Expr)

	case *ast.AssignStmt:
		a.checkAssign(s.Target, a.checkExpr(s.Value), s)
		a.markMove(s.Value)
		a.markCrossScopeEscape(s.Target, s.Value)

	case *ast.CompoundAssignStmt:
		valueType := a.checkExpr(s.Value)
		targetType := a.checkAssign(s.Target, valueType, s)
		if s.Op.IsBitwise() {
			if prim, ok := targetType.(*Primitive); ok && !prim.Kind.IsInteger() {
				a.reportError(diag.CodeTypeMismatch, s.Span(),
					fmt.Sprintf("operator %s= requires integers, found %s", s.Op, targetType))
			}
		}

	case *ast.IfStmt:
		a.checkCondition(s.Condition)
		a.checkBlock(s.Then)
		switch alt := s.Else.(type) {
		case *ast.BlockExpr:
			a.checkBlock(alt)
		case *ast.If:
			a.checkExpr(alt)
		case *ast.IfStmt:
			a.checkStmt(alt)
		}

	case *ast.WhileStmt:
		a.checkCondition(s.Condition)
		a.checkBlock(s.Body)

	case *ast.ForStmt:
		iterType := a.checkExpr(s.Iterable)
		elemType := elementType(iterType)
		a.table.EnterScope()
		a.bindPattern(s.Pattern, elemType, false, ast.StrategyInferred, nil, SymbolVariable)
		a.checkBlockInPlace(s.Body)
		a.table.ExitScope()

	case *ast.LoopStmt:
		a.checkBlock(s.Body)

	case *ast.MatchStmt:
		subject := a.checkExpr(s.Subject)
		for _, arm := range s.Arms {
			a.table.EnterScope()
			a.bindPattern(arm.Pattern, subject, false, ast.StrategyInferred, nil, SymbolVariable)
			a.checkExpr(arm.Body)
			a.table.ExitScope()
		}

	case *ast.RegionStmt:
		a.define(&Symbol{
			Name:    s.Name,
			Kind:    SymbolRegion,
			DefNode: s,
			DefSpan: s.Span(),
			Used:    true,
		})
		a.regions = append(a.regions, regionCtx{name: s.Name, scope: a.table.Current()})
		a.checkBlock(s.Body)
		a.regions = a.regions[:len(a.regions)-1]

	case *ast.BreakStmt:
		if s.Value != nil {
			a.checkExpr(s.Value)
		}

	case *ast.ContinueStmt:

	case *ast.ReturnStmt:
		if s.Value == nil {
			if a.fnReturn != nil && !IsUnit(a.fnReturn) {
				a.reportError(diag.CodeMissingReturn, s.Span(),
					fmt.Sprintf("return is missing a value of type %s", a.fnReturn))
			}
			return
		}
		returned := a.checkExpr(s.Value)
		a.markMove(s.Value)
		a.markEscape(s.Value)
		if a.fnReturn != nil && !Equal(returned, a.fnReturn) {
			a.reportError(diag.CodeTypeMismatch, s.Value.Span(),
				fmt.Sprintf("return value has type %s, expected %s", returned, a.fnReturn))
		}

	case *ast.BlockStmt:
		a.checkBlock(s.Block)
	}
}

func (a *Analyzer) checkLet(s *ast.LetStmt) {
	var valueType Type = unknownType
	if s.Value != nil {
		valueType = a.checkExpr(s.Value)
	}

	bindType := valueType
	if s.Type != nil {
		declared := a.typeFromAST(s.Type)
		if s.Value != nil && !Equal(declared, valueType) {
			a.reportError(diag.CodeTypeMismatch, s.Value.Span(),
				fmt.Sprintf("cannot bind %s value to %s", valueType, declared))
		}
		bindType = declared
	}

	if s.Value != nil {
		if ref, ok := s.Pattern.(*ast.ReferencePattern); ok {
			a.markBorrow(s.Value, ref.Mutable)
		} else {
			a.markMove(s.Value)
		}
	}

	a.bindPattern(s.Pattern, bindType, s.Mutable, s.Strategy, s, SymbolVariable)

	// A wildcard binds nothing, so strategy resolution never sees the
	// statement. The value dies immediately; give it a stack slot.
	if _, wild := s.Pattern.(*ast.WildcardPattern); wild && s.Strategy == ast.StrategyInferred {
		s.Strategy = ast.StrategyStack
		a.stats.StrategiesInferred[ast.StrategyStack]++
	}
}

// checkAssign validates an assignment target and returns its type. Only
// mutable variable bindings are assignable.
func (a *Analyzer) checkAssign(target ast.Expr, valueType Type, stmt ast.Stmt) Type {
	ident, ok := target.(*ast.Identifier)
	if !ok {
		a.reportError(diag.CodeNotAssignable, target.Span(), "expression is not assignable")
		return unknownType
	}

	sym := a.table.Resolve(ident.Name)
	if sym == nil {
		a.reportError(diag.CodeUnresolvedName, ident.Span(),
			"unknown name '"+a.name(ident.Name)+"'")
		return unknownType
	}
	a.bindings[ident] = sym
	sym.Used = true

	if sym.Kind != SymbolVariable && sym.Kind != SymbolParameter {
		a.reportError(diag.CodeNotAssignable, ident.Span(),
			"cannot assign to "+sym.Kind.String()+" '"+a.name(ident.Name)+"'")
		return unknownType
	}
	if !sym.Mutable {
		a.reportError(diag.CodeNotAssignable, ident.Span(),
			"cannot assign to immutable binding '"+a.name(ident.Name)+"'",
			"declare it with 'let mut' to allow assignment")
	}
	if sym.Type != nil && !Equal(sym.Type, valueType) {
		a.reportError(diag.CodeTypeMismatch, stmt.Span(),
			fmt.Sprintf("cannot assign %s to %s", valueType, sym.Type))
	}
	return sym.Type
}

func (a *Analyzer) checkCondition(cond ast.Expr) {
	t := a.checkExpr(cond)
	if !Equal(t, boolType) {
		a.reportError(diag.CodeTypeMismatch, cond.Span(),
			fmt.Sprintf("condition has type %s, expected bool", t))
	}
}

// checkExpr types an expression, recording the result for later phases.
func (a *Analyzer) checkExpr(expr ast.Expr) Type {
	t := a.typeExpr(expr)
	a.exprs[expr] = t
	return t
}

func (a *Analyzer) typeExpr(expr ast.Expr) Type {
	switch e := expr.(type) {
	case *ast.Literal:
		return a.literalType(e)

	case *ast.Identifier:
		sym := a.table.Resolve(e.Name)
		if sym == nil {
			if hidden := a.resolveHidden(e); hidden != nil {
				sym = hidden
			} else {
				a.reportError(diag.CodeUnresolvedName, e.Span(),
					"unknown name '"+a.name(e.Name)+"'")
				return unknownType
			}
		}
		a.bindings[e] = sym
		sym.Used = true
		a.markRead(sym, e)
		if sym.Type == nil {
			return unknownType
		}
		return sym.Type

	case *ast.Unary:
		return a.unaryType(e)

	case *ast.Binary:
		return a.binaryType(e)

	case *ast.Call:
		return a.callType(e)

	case *ast.Parenthesized:
		return a.checkExpr(e.Inner)

	case *ast.BlockExpr:
		return a.checkBlock(e)

	case *ast.If:
		a.checkCondition(e.Condition)
		thenType := a.checkBlock(e.Then)
		if e.Else == nil {
			return unitType
		}
		elseType := a.checkExpr(e.Else)
		if !Equal(thenType, elseType) {
			a.reportError(diag.CodeTypeMismatch, e.Span(),
				fmt.Sprintf("if branches disagree: %s vs %s", thenType, elseType))
			return unknownType
		}
		return thenType

	default:
		return unknownType
	}
}

// literalType applies the defaulting rules: untyped integers are i32,
// floats are f64, strings are &str. An explicit suffix wins.
func (a *Analyzer) literalType(lit *ast.Literal) Type {
	if lit.HasSuffix {
		if kind, ok := ast.LookupPrimitive(a.name(lit.Suffix)); ok {
			return &Primitive{Kind: kind}
		}
		a.reportError(diag.CodeTypeMismatch, lit.Span(),
			"unknown literal suffix '"+a.name(lit.Suffix)+"'")
		return unknownType
	}

	switch lit.Kind {
	case ast.LitInteger:
		return i32Type
	case ast.LitFloat:
		return f64Type
	case ast.LitString:
		return strRefType
	case ast.LitChar:
		return charType
	case ast.LitBool:
		return boolType
	default: // null
		return &Pointer{Inner: unknownType}
	}
}

func (a *Analyzer) unaryType(e *ast.Unary) Type {
	operand := a.checkExpr(e.Expr)

	switch e.Op {
	case ast.OpNot:
		if !Equal(operand, boolType) {
			a.reportError(diag.CodeTypeMismatch, e.Span(),
				fmt.Sprintf("operator ! requires bool, found %s", operand))
			return unknownType
		}
		return boolType
	case ast.OpBitNot:
		if prim, ok := operand.(*Primitive); ok && !prim.Kind.IsInteger() {
			a.reportError(diag.CodeTypeMismatch, e.Span(),
				fmt.Sprintf("operator ~ requires an integer, found %s", operand))
			return unknownType
		}
		return operand
	default: // negate, plus
		if prim, ok := operand.(*Primitive); ok && !prim.Kind.IsNumeric() {
			a.reportError(diag.CodeTypeMismatch, e.Span(),
				fmt.Sprintf("operator %s requires a number, found %s", e.Op, operand))
			return unknownType
		}
		return operand
	}
}

func (a *Analyzer) binaryType(e *ast.Binary) Type {
	left := a.checkExpr(e.Left)
	right := a.checkExpr(e.Right)

	if !Equal(left, right) {
		a.reportError(diag.CodeTypeMismatch, e.Span(),
			fmt.Sprintf("operator %s has mismatched operands: %s and %s", e.Op, left, right))
		if e.Op.IsComparison() || e.Op.IsLogical() {
			return boolType
		}
		return unknownType
	}

	switch {
	case e.Op.IsLogical():
		if !Equal(left, boolType) {
			a.reportError(diag.CodeTypeMismatch, e.Span(),
				fmt.Sprintf("operator %s requires bool operands, found %s", e.Op, left))
		}
		return boolType
	case e.Op.IsComparison():
		return boolType
	case e.Op.IsBitwise():
		if prim, ok := left.(*Primitive); ok && !prim.Kind.IsInteger() {
			a.reportError(diag.CodeTypeMismatch, e.Span(),
				fmt.Sprintf("operator %s requires integers, found %s", e.Op, left))
			return unknownType
		}
		return left
	default: // arithmetic
		if prim, ok := left.(*Primitive); ok && !prim.Kind.IsNumeric() {
			a.reportError(diag.CodeTypeMismatch, e.Span(),
				fmt.Sprintf("operator %s requires numbers, found %s", e.Op, left))
			return unknownType
		}
		return left
	}
}

func (a *Analyzer) callType(e *ast.Call) Type {
	calleeType := a.checkExpr(e.Callee)
	argTypes := make([]Type, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = a.checkExpr(arg)
	}

	sig, ok := calleeType.(*FunctionSig)
	if !ok {
		if _, unknown := calleeType.(*Unknown); !unknown {
			a.reportError(diag.CodeNotCallable, e.Callee.Span(),
				fmt.Sprintf("value of type %s is not callable", calleeType))
		}
		return unknownType
	}

	if len(argTypes) != len(sig.Params) {
		a.reportError(diag.CodeArityMismatch, e.Span(),
			fmt.Sprintf("call has %d arguments, function takes %d", len(argTypes), len(sig.Params)))
		return sig.Return
	}
	for i := range argTypes {
		if !Equal(argTypes[i], sig.Params[i]) {
			a.reportError(diag.CodeTypeMismatch, e.Args[i].Span(),
				fmt.Sprintf("argument %d has type %s, expected %s", i+1, argTypes[i], sig.Params[i]))
		}
		if sig.ParamStrategy(i) == ast.StrategyLinear {
			a.markConsume(e.Args[i])
		} else {
			a.markMove(e.Args[i])
		}
	}
	return sig.Return
}

// resolveHidden looks through exited scopes for a region-allocated binding
// matching the name. A hit means the source uses a region value after its
// region was torn down, which is an escape, not an unknown name.
func (a *Analyzer) resolveHidden(e *ast.Identifier) *Symbol {
	var found *Symbol
	a.table.Walk(func(sym *Symbol) {
		if found != nil || sym.Name != e.Name {
			return
		}
		if sym.Kind != SymbolVariable && sym.Kind != SymbolParameter {
			return
		}
		if vi := a.vars[sym]; vi != nil && vi.inRegion {
			found = sym
		}
	})
	if found == nil {
		return nil
	}
	vi := a.vars[found]
	a.reportError(diag.CodeRegionEscape, e.Span(),
		"value '"+a.name(e.Name)+"' escapes region '"+a.name(vi.region)+"'",
		"region allocations are bulk-freed at region exit")
	return found
}

// bindPattern introduces the names a pattern binds, typed as well as the
// subject type allows.
func (a *Analyzer) bindPattern(pat ast.Pattern, t Type, mutable bool, strategy ast.MemoryStrategy, let *ast.LetStmt, kind SymbolKind) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		sym := a.define(&Symbol{
			Name:     p.Name,
			Kind:     kind,
			Type:     t,
			Mutable:  mutable,
			Strategy: strategy,
			DefNode:  p,
			DefSpan:  p.Span(),
		})
		vi := a.info(sym)
		vi.let = let

	case *ast.WildcardPattern, *ast.Literal, *ast.RangePattern:

	case *ast.ReferencePattern:
		inner := t
		if ref, ok := t.(*Reference); ok {
			inner = ref.Inner
		}
		a.bindPattern(p.Inner, inner, mutable, strategy, let, kind)

	case *ast.TuplePattern:
		tup, _ := t.(*Tuple)
		for i, elem := range p.Elements {
			var et Type = unknownType
			if tup != nil && i < len(tup.Elems) {
				et = tup.Elems[i]
			}
			a.bindPattern(elem, et, mutable, strategy, let, kind)
		}

	case *ast.ArrayPattern:
		var et Type = unknownType
		if arr, ok := t.(*Array); ok {
			et = arr.Elem
		}
		for _, elem := range p.Elements {
			a.bindPattern(elem, et, mutable, strategy, let, kind)
		}

	case *ast.StructPattern:
		for _, field := range p.Fields {
			if field.Pattern != nil {
				a.bindPattern(field.Pattern, unknownType, mutable, strategy, let, kind)
				continue
			}
			// shorthand binds the field name itself
			sym := a.define(&Symbol{
				Name:    field.Name,
				Kind:    kind,
				Type:    unknownType,
				Mutable: mutable,
				DefNode: field,
				DefSpan: field.Span(),
			})
			a.info(sym).let = let
		}

	case *ast.EnumPattern:
		for _, payload := range p.Payload {
			a.bindPattern(payload, unknownType, mutable, strategy, let, kind)
		}

	case *ast.OrPattern:
		for _, alt := range p.Alternatives {
			a.bindPattern(alt, t, mutable, strategy, let, kind)
		}
	}
}

// elementType guesses the type produced by iterating t.
func elementType(t Type) Type {
	switch tt := t.(type) {
	case *Array:
		return tt.Elem
	case *Reference:
		return elementType(tt.Inner)
	default:
		return unknownType
	}
}

// tailGuaranteesReturn handles the unit-valued tail forms that still
// return on every path, such as a trailing if whose branches all return.
func tailGuaranteesReturn(tail ast.Expr) bool {
	switch e := tail.(type) {
	case *ast.If:
		return ifGuaranteesReturn(e)
	case *ast.BlockExpr:
		return blockGuaranteesReturn(e)
	default:
		return false
	}
}

// blockGuaranteesReturn reports whether every path through the block ends
// in a return (or the block has a tail value).
func blockGuaranteesReturn(b *ast.BlockExpr) bool {
	if b.Tail != nil {
		return true
	}
	if len(b.Stmts) == 0 {
		return false
	}
	return stmtGuaranteesReturn(b.Stmts[len(b.Stmts)-1])
}

func stmtGuaranteesReturn(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.IfStmt:
		if s.Else == nil || !blockGuaranteesReturn(s.Then) {
			return false
		}
		switch alt := s.Else.(type) {
		case *ast.BlockExpr:
			return blockGuaranteesReturn(alt)
		case *ast.If:
			return ifGuaranteesReturn(alt)
		case *ast.IfStmt:
			return stmtGuaranteesReturn(alt)
		}
		return false
	case *ast.BlockStmt:
		return blockGuaranteesReturn(s.Block)
	case *ast.MatchStmt:
		// conservatively false: exhaustiveness is not checked
		return false
	default:
		return false
	}
}

func ifGuaranteesReturn(e *ast.If) bool {
	if e.Else == nil || !blockGuaranteesReturn(e.Then) {
		return false
	}
	switch alt := e.Else.(type) {
	case *ast.BlockExpr:
		return blockGuaranteesReturn(alt)
	case *ast.If:
		return ifGuaranteesReturn(alt)
	}
	return false
}
