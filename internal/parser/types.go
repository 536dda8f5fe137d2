package parser

import (
	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/lexer"
)

var strategyNames = map[string]ast.MemoryStrategy{
	"stack":  ast.StrategyStack,
	"linear": ast.StrategyLinear,
	"smart":  ast.StrategySmartPtr,
	"region": ast.StrategyRegion,
	"manual": ast.StrategyManual,
}

// parseType parses a type expression with curTok on its first token.
func (p *Parser) parseType() ast.Type {
	switch p.curTok.Type {
	case lexer.IDENT:
		if p.curTok.Value == "_" {
			return ast.NewInferredType(p.curTok.Span)
		}
		if kind, ok := ast.LookupPrimitive(p.curTok.Value); ok {
			return ast.NewPrimitiveType(kind, p.curTok.Span)
		}
		return p.parsePathType()

	case lexer.AMP:
		return p.parseReferenceType()

	case lexer.ASTERISK:
		return p.parsePointerType()

	case lexer.LPAREN:
		return p.parseTupleType()

	case lexer.LBRACKET:
		return p.parseArrayType()

	case lexer.FN:
		return p.parseFunctionType()

	case lexer.BANG:
		t := &ast.NeverType{}
		t.SetSpan(p.curTok.Span)
		return t

	case lexer.AT:
		return p.parseAnnotatedType()

	default:
		p.report(diag.CodeParseMissingType, p.curTok.Span,
			"expected type, found '"+p.curTok.Lexeme+"'")
		return nil
	}
}

// parsePathType parses `A::B<T, ...>`.
func (p *Parser) parsePathType() ast.Type {
	start := p.curTok.Span
	t := &ast.PathType{Segments: []intern.StringID{p.intern(p.curTok.Value)}}

	for p.peekTok.Type == lexer.DOUBLE_COLON {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		t.Segments = append(t.Segments, p.intern(p.curTok.Value))
	}

	if p.peekTok.Type == lexer.LT {
		p.nextToken()
		args, ok := p.parseGenericArgs()
		if !ok {
			return nil
		}
		t.Args = args
	}

	t.SetSpan(start.Merge(p.curTok.Span))
	return t
}

// parseGenericArgs parses `< type, ... >` with curTok on '<'.
func (p *Parser) parseGenericArgs() ([]ast.Type, bool) {
	var args []ast.Type

	for {
		p.nextToken()
		arg := p.parseType()
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)

		p.splitShiftGreater()
		if p.peekTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	if !p.expect(lexer.GT) {
		return nil, false
	}
	return args, true
}

// splitShiftGreater rewrites a '>>' in peek position into two '>' tokens.
// Nested generic arguments like Vec<Vec<T>> otherwise lex their closers
// as one shift token.
func (p *Parser) splitShiftGreater() {
	if p.peekTok.Type != lexer.SHR {
		return
	}
	tok := p.peekTok

	mid := tok.Span.Start
	mid.Column++
	mid.Offset++

	p.peekTok = lexer.Token{
		Type: lexer.GT, Lexeme: ">", Value: ">",
		Span: lexer.Span{Start: tok.Span.Start, End: mid},
	}
	p.stash = append([]lexer.Token{{
		Type: lexer.GT, Lexeme: ">", Value: ">",
		Span: lexer.Span{Start: mid, End: tok.Span.End},
	}}, p.stash...)
}

func (p *Parser) parseReferenceType() ast.Type {
	start := p.curTok.Span

	mutable := false
	if p.peekTok.Type == lexer.MUT {
		p.nextToken()
		mutable = true
	}

	p.nextToken()
	inner := p.parseType()
	if inner == nil {
		return nil
	}

	t := &ast.ReferenceType{Mutable: mutable, Inner: inner}
	t.SetSpan(start.Merge(inner.Span()))
	return t
}

// parsePointerType parses `*const T` and `*mut T`.
func (p *Parser) parsePointerType() ast.Type {
	start := p.curTok.Span

	var mutable bool
	switch p.peekTok.Type {
	case lexer.CONST:
		mutable = false
	case lexer.MUT:
		mutable = true
	default:
		p.reportExpected(p.peekTok, "'const'", "'mut'")
		return nil
	}
	p.nextToken()

	p.nextToken()
	inner := p.parseType()
	if inner == nil {
		return nil
	}

	t := &ast.PointerType{Mutable: mutable, Inner: inner}
	t.SetSpan(start.Merge(inner.Span()))
	return t
}

// parseTupleType parses `( type, ... )`. A single type without a trailing
// comma is just that type parenthesized.
func (p *Parser) parseTupleType() ast.Type {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken()
		t := &ast.TupleType{}
		t.SetSpan(start.Merge(p.curTok.Span))
		return t
	}

	var types []ast.Type
	sawComma := false
	for {
		p.nextToken()
		typ := p.parseType()
		if typ == nil {
			return nil
		}
		types = append(types, typ)

		if p.peekTok.Type != lexer.COMMA {
			break
		}
		sawComma = true
		p.nextToken()
		if p.peekTok.Type == lexer.RPAREN {
			break
		}
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}

	if len(types) == 1 && !sawComma {
		return types[0]
	}

	t := &ast.TupleType{Types: types}
	t.SetSpan(start.Merge(p.curTok.Span))
	return t
}

// parseArrayType parses `[ type ; size ]`.
func (p *Parser) parseArrayType() ast.Type {
	start := p.curTok.Span

	p.nextToken()
	elem := p.parseType()
	if elem == nil {
		return nil
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	p.nextToken()
	size := p.parseExpr(precedenceLowest)
	if size == nil {
		return nil
	}
	if !p.expect(lexer.RBRACKET) {
		return nil
	}

	t := &ast.ArrayType{Elem: elem, Size: size}
	t.SetSpan(start.Merge(p.curTok.Span))
	return t
}

// parseFunctionType parses `fn ( type, ... ) [-> type]`.
func (p *Parser) parseFunctionType() ast.Type {
	start := p.curTok.Span

	if !p.expect(lexer.LPAREN) {
		return nil
	}

	t := &ast.FunctionType{}
	for p.peekTok.Type != lexer.RPAREN && p.peekTok.Type != lexer.EOF {
		p.nextToken()
		param := p.parseType()
		if param == nil {
			return nil
		}
		t.Params = append(t.Params, param)

		if p.peekTok.Type == lexer.COMMA {
			p.nextToken()
		}
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}

	if p.peekTok.Type == lexer.ARROW {
		p.nextToken()
		p.nextToken()
		ret := p.parseType()
		if ret == nil {
			return nil
		}
		t.Return = ret
	}

	t.SetSpan(start.Merge(p.curTok.Span))
	return t
}

// parseAnnotatedType parses `@strategy type` and `@region(name) type`.
func (p *Parser) parseAnnotatedType() ast.Type {
	start := p.curTok.Span

	// 'region' is a keyword, the other strategy names are identifiers.
	if p.peekTok.Type == lexer.REGION {
		p.nextToken()
	} else if !p.expect(lexer.IDENT) {
		return nil
	}
	strategy, ok := strategyNames[p.curTok.Value]
	if !ok {
		p.report(diag.CodeParseMissingType, p.curTok.Span,
			"unknown memory strategy '"+p.curTok.Value+"'")
		return nil
	}

	t := &ast.AnnotatedType{Strategy: strategy}

	if strategy == ast.StrategyRegion && p.peekTok.Type == lexer.LPAREN {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		t.Region = p.intern(p.curTok.Value)
		if !p.expect(lexer.RPAREN) {
			return nil
		}
	}

	p.nextToken()
	inner := p.parseType()
	if inner == nil {
		return nil
	}
	t.Inner = inner

	t.SetSpan(start.Merge(inner.Span()))
	return t
}
