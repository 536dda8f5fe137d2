package parser

import (
	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/lexer"
)

// parsePattern parses a full pattern including `|` alternatives.
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parseRangeablePattern()
	if first == nil {
		return nil
	}
	if p.peekTok.Type != lexer.PIPE {
		return first
	}

	or := &ast.OrPattern{Alternatives: []ast.Pattern{first}}
	for p.peekTok.Type == lexer.PIPE {
		p.nextToken()
		p.nextToken()
		alt := p.parseRangeablePattern()
		if alt == nil {
			return nil
		}
		or.Alternatives = append(or.Alternatives, alt)
	}

	last := or.Alternatives[len(or.Alternatives)-1]
	or.SetSpan(first.Span().Merge(last.Span()))
	return or
}

// parseRangeablePattern parses a primary pattern with an optional `..`
// upper bound.
func (p *Parser) parseRangeablePattern() ast.Pattern {
	start := p.parsePrimaryPattern()
	if start == nil {
		return nil
	}
	if p.peekTok.Type != lexer.DOTDOT {
		return start
	}

	p.nextToken()
	p.nextToken()
	end := p.parsePrimaryPattern()
	if end == nil {
		return nil
	}

	r := &ast.RangePattern{Start: start, End: end}
	r.SetSpan(start.Span().Merge(end.Span()))
	return r
}

func (p *Parser) parsePrimaryPattern() ast.Pattern {
	switch p.curTok.Type {
	case lexer.IDENT:
		if p.curTok.Value == "_" {
			return ast.NewWildcardPattern(p.curTok.Span)
		}
		return p.parsePathPattern()

	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.CHAR,
		lexer.TRUE, lexer.FALSE, lexer.NULL:
		return p.literalFromToken(p.curTok)

	case lexer.AMP:
		return p.parseReferencePattern()

	case lexer.LPAREN:
		return p.parseTuplePattern()

	case lexer.LBRACKET:
		return p.parseArrayPattern()

	default:
		p.report(diag.CodeParseMissingPattern, p.curTok.Span,
			"expected pattern, found '"+p.curTok.Lexeme+"'")
		return nil
	}
}

// parsePathPattern disambiguates the identifier-led pattern forms: a plain
// binding, a struct pattern with braces, or an enum variant with an
// optional payload.
func (p *Parser) parsePathPattern() ast.Pattern {
	start := p.curTok.Span
	path := []intern.StringID{p.intern(p.curTok.Value)}

	for p.peekTok.Type == lexer.DOUBLE_COLON {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		path = append(path, p.intern(p.curTok.Value))
	}

	switch {
	case p.peekTok.Type == lexer.LBRACE:
		p.nextToken()
		return p.parseStructPattern(path, start)

	case p.peekTok.Type == lexer.LPAREN:
		p.nextToken()
		return p.parseEnumPayload(path, start)

	case len(path) > 1:
		pat := &ast.EnumPattern{Path: path}
		pat.SetSpan(start.Merge(p.curTok.Span))
		return pat

	default:
		return ast.NewIdentifierPattern(path[0], start)
	}
}

// parseStructPattern parses `{ field: pat, shorthand, .. }` with curTok
// on '{'.
func (p *Parser) parseStructPattern(path []intern.StringID, start lexer.Span) ast.Pattern {
	pat := &ast.StructPattern{Path: path}

	for p.peekTok.Type != lexer.RBRACE && p.peekTok.Type != lexer.EOF {
		if p.peekTok.Type == lexer.DOTDOT {
			p.nextToken()
			pat.HasRest = true
			break
		}

		if !p.expect(lexer.IDENT) {
			return nil
		}
		field := &ast.FieldPattern{Name: p.intern(p.curTok.Value)}
		fieldStart := p.curTok.Span

		if p.peekTok.Type == lexer.COLON {
			p.nextToken()
			p.nextToken()
			inner := p.parsePattern()
			if inner == nil {
				return nil
			}
			field.Pattern = inner
		}
		field.SetSpan(fieldStart.Merge(p.curTok.Span))
		pat.Fields = append(pat.Fields, field)

		if p.peekTok.Type == lexer.COMMA {
			p.nextToken()
		}
	}

	if !p.expect(lexer.RBRACE) {
		return nil
	}

	pat.SetSpan(start.Merge(p.curTok.Span))
	return pat
}

// parseEnumPayload parses `( pat, ... )` with curTok on '('.
func (p *Parser) parseEnumPayload(path []intern.StringID, start lexer.Span) ast.Pattern {
	pat := &ast.EnumPattern{Path: path, HasPayload: true}

	for p.peekTok.Type != lexer.RPAREN && p.peekTok.Type != lexer.EOF {
		p.nextToken()
		inner := p.parsePattern()
		if inner == nil {
			return nil
		}
		pat.Payload = append(pat.Payload, inner)

		if p.peekTok.Type == lexer.COMMA {
			p.nextToken()
		}
	}

	if !p.expect(lexer.RPAREN) {
		return nil
	}

	pat.SetSpan(start.Merge(p.curTok.Span))
	return pat
}

func (p *Parser) parseReferencePattern() ast.Pattern {
	start := p.curTok.Span

	mutable := false
	if p.peekTok.Type == lexer.MUT {
		p.nextToken()
		mutable = true
	}

	p.nextToken()
	inner := p.parsePrimaryPattern()
	if inner == nil {
		return nil
	}

	pat := &ast.ReferencePattern{Inner: inner, Mutable: mutable}
	pat.SetSpan(start.Merge(inner.Span()))
	return pat
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	start := p.curTok.Span
	pat := &ast.TuplePattern{}

	for p.peekTok.Type != lexer.RPAREN && p.peekTok.Type != lexer.EOF {
		p.nextToken()
		elem := p.parsePattern()
		if elem == nil {
			return nil
		}
		pat.Elements = append(pat.Elements, elem)

		if p.peekTok.Type == lexer.COMMA {
			p.nextToken()
		}
	}

	if !p.expect(lexer.RPAREN) {
		return nil
	}

	pat.SetSpan(start.Merge(p.curTok.Span))
	return pat
}

func (p *Parser) parseArrayPattern() ast.Pattern {
	start := p.curTok.Span
	pat := &ast.ArrayPattern{}

	for p.peekTok.Type != lexer.RBRACKET && p.peekTok.Type != lexer.EOF {
		p.nextToken()
		elem := p.parsePattern()
		if elem == nil {
			return nil
		}
		pat.Elements = append(pat.Elements, elem)

		if p.peekTok.Type == lexer.COMMA {
			p.nextToken()
		}
	}

	if !p.expect(lexer.RBRACKET) {
		return nil
	}

	pat.SetSpan(start.Merge(p.curTok.Span))
	return pat
}
