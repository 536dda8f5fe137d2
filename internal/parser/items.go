package parser

import (
	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
	"github.com/bract-lang/bract/internal/lexer"
)

// parseItem parses one top-level item. It returns nil after reporting a
// diagnostic when curTok does not start an item; the caller resynchronizes.
func (p *Parser) parseItem() ast.Item {
	vis := ast.VisPrivate
	start := p.curTok.Span
	if p.curTok.Type == lexer.PUB {
		vis = ast.VisPublic
		p.nextToken()
	}

	switch p.curTok.Type {
	case lexer.FN:
		return p.parseFunction(vis, start)
	case lexer.STRUCT:
		return p.parseStruct(vis, start)
	case lexer.ENUM:
		return p.parseEnum(vis, start)
	case lexer.TYPE:
		return p.parseTypeAlias(vis, start)
	case lexer.CONST:
		return p.parseConst(vis, start)
	case lexer.MOD:
		return p.parseModuleItem(vis, start)
	case lexer.IMPL:
		return p.parseImpl(start)
	case lexer.USE:
		return p.parseUse(vis, start)
	default:
		p.reportExpected(p.curTok, "item")
		return nil
	}
}

// parseFunction parses `fn name(params) [-> type] (block | ;)`. A body
// of ';' declares the function without defining it.
func (p *Parser) parseFunction(vis ast.Visibility, start lexer.Span) ast.Item {
	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := p.intern(p.curTok.Value)

	if !p.expect(lexer.LPAREN) {
		return nil
	}

	fn := &ast.Function{Vis: vis, Name: name}

	if p.peekTok.Type != lexer.RPAREN {
		p.nextToken()
		param := p.parseParameter()
		if param == nil {
			return nil
		}
		fn.Params = append(fn.Params, param)

		for p.peekTok.Type == lexer.COMMA {
			p.nextToken()
			if p.peekTok.Type == lexer.RPAREN {
				break
			}
			p.nextToken()
			param = p.parseParameter()
			if param == nil {
				return nil
			}
			fn.Params = append(fn.Params, param)
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
		fn.ReturnType = ret
	}

	switch p.peekTok.Type {
	case lexer.SEMICOLON:
		p.nextToken()
	case lexer.LBRACE:
		p.nextToken()
		body := p.parseBlockExpr()
		if body == nil {
			return nil
		}
		fn.Body = body
	default:
		p.reportExpected(p.peekTok, "'{'", "';'")
		return nil
	}

	fn.SetSpan(start.Merge(p.curTok.Span))
	return fn
}

// parseParameter parses `pattern : type`.
func (p *Parser) parseParameter() *ast.Parameter {
	pat := p.parsePattern()
	if pat == nil {
		return nil
	}
	if !p.expect(lexer.COLON) {
		return nil
	}

	p.nextToken()
	typ := p.parseType()
	if typ == nil {
		return nil
	}

	return ast.NewParameter(pat, typ, pat.Span().Merge(typ.Span()))
}

// parseStruct parses the three struct layouts: named fields in braces,
// tuple fields in parentheses followed by ';', or a bare ';' unit struct.
func (p *Parser) parseStruct(vis ast.Visibility, start lexer.Span) ast.Item {
	if !p.expect(lexer.IDENT) {
		return nil
	}
	item := &ast.StructItem{Vis: vis, Name: p.intern(p.curTok.Value)}

	switch p.peekTok.Type {
	case lexer.LBRACE:
		p.nextToken()
		fields, ok := p.parseNamedFields()
		if !ok {
			return nil
		}
		item.Fields = ast.Fields{Kind: ast.FieldsNamed, Named: fields}

	case lexer.LPAREN:
		p.nextToken()
		types, ok := p.parseTupleFields()
		if !ok {
			return nil
		}
		if !p.expect(lexer.SEMICOLON) {
			return nil
		}
		item.Fields = ast.Fields{Kind: ast.FieldsTuple, Tuple: types}

	case lexer.SEMICOLON:
		p.nextToken()
		item.Fields = ast.Fields{Kind: ast.FieldsUnit}

	default:
		p.reportExpected(p.peekTok, "'{'", "'('", "';'")
		return nil
	}

	item.SetSpan(start.Merge(p.curTok.Span))
	return item
}

// parseNamedFields parses `{ [pub] name: type, ... }` with curTok on '{'.
func (p *Parser) parseNamedFields() ([]*ast.NamedField, bool) {
	var fields []*ast.NamedField

	for p.peekTok.Type != lexer.RBRACE && p.peekTok.Type != lexer.EOF {
		p.nextToken()

		fieldVis := ast.VisPrivate
		fieldStart := p.curTok.Span
		if p.curTok.Type == lexer.PUB {
			fieldVis = ast.VisPublic
			p.nextToken()
		}
		if p.curTok.Type != lexer.IDENT {
			p.reportExpected(p.curTok, "field name")
			return nil, false
		}
		name := p.intern(p.curTok.Value)

		if !p.expect(lexer.COLON) {
			return nil, false
		}
		p.nextToken()
		typ := p.parseType()
		if typ == nil {
			return nil, false
		}

		field := &ast.NamedField{Vis: fieldVis, Name: name, Type: typ}
		field.SetSpan(fieldStart.Merge(typ.Span()))
		fields = append(fields, field)

		if p.peekTok.Type == lexer.COMMA {
			p.nextToken()
		}
	}

	if !p.expect(lexer.RBRACE) {
		return nil, false
	}
	return fields, true
}

// parseTupleFields parses `( type, ... )` with curTok on '('.
func (p *Parser) parseTupleFields() ([]ast.Type, bool) {
	var types []ast.Type

	for p.peekTok.Type != lexer.RPAREN && p.peekTok.Type != lexer.EOF {
		p.nextToken()
		typ := p.parseType()
		if typ == nil {
			return nil, false
		}
		types = append(types, typ)

		if p.peekTok.Type == lexer.COMMA {
			p.nextToken()
		}
	}

	if !p.expect(lexer.RPAREN) {
		return nil, false
	}
	return types, true
}

// parseEnum parses `enum Name { Variant [fields] [= expr], ... }`.
func (p *Parser) parseEnum(vis ast.Visibility, start lexer.Span) ast.Item {
	if !p.expect(lexer.IDENT) {
		return nil
	}
	item := &ast.EnumItem{Vis: vis, Name: p.intern(p.curTok.Value)}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	for p.peekTok.Type != lexer.RBRACE && p.peekTok.Type != lexer.EOF {
		if !p.expect(lexer.IDENT) {
			return nil
		}
		variant := &ast.EnumVariant{Name: p.intern(p.curTok.Value)}
		variantStart := p.curTok.Span

		switch p.peekTok.Type {
		case lexer.LPAREN:
			p.nextToken()
			types, ok := p.parseTupleFields()
			if !ok {
				return nil
			}
			variant.Fields = ast.Fields{Kind: ast.FieldsTuple, Tuple: types}
		case lexer.LBRACE:
			p.nextToken()
			fields, ok := p.parseNamedFields()
			if !ok {
				return nil
			}
			variant.Fields = ast.Fields{Kind: ast.FieldsNamed, Named: fields}
		}

		if p.peekTok.Type == lexer.ASSIGN {
			p.nextToken()
			p.nextToken()
			disc := p.parseExpr(precedenceLowest)
			if disc == nil {
				return nil
			}
			variant.Discriminant = disc
		}

		variant.SetSpan(variantStart.Merge(p.curTok.Span))
		item.Variants = append(item.Variants, variant)

		if p.peekTok.Type == lexer.COMMA {
			p.nextToken()
		}
	}

	if !p.expect(lexer.RBRACE) {
		return nil
	}

	item.SetSpan(start.Merge(p.curTok.Span))
	return item
}

// parseTypeAlias parses `type Name = type ;`.
func (p *Parser) parseTypeAlias(vis ast.Visibility, start lexer.Span) ast.Item {
	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := p.intern(p.curTok.Value)

	if !p.expect(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	target := p.parseType()
	if target == nil {
		return nil
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	item := &ast.TypeAlias{Vis: vis, Name: name, Target: target}
	item.SetSpan(start.Merge(p.curTok.Span))
	return item
}

// parseConst parses `const NAME : type = expr ;`.
func (p *Parser) parseConst(vis ast.Visibility, start lexer.Span) ast.Item {
	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := p.intern(p.curTok.Value)

	if !p.expect(lexer.COLON) {
		return nil
	}
	p.nextToken()
	typ := p.parseType()
	if typ == nil {
		return nil
	}

	if !p.expect(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpr(precedenceLowest)
	if value == nil {
		return nil
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	item := &ast.ConstItem{Vis: vis, Name: name, Type: typ, Value: value}
	item.SetSpan(start.Merge(p.curTok.Span))
	return item
}

// parseModuleItem parses `mod name { items }` or `mod name ;`.
func (p *Parser) parseModuleItem(vis ast.Visibility, start lexer.Span) ast.Item {
	if !p.expect(lexer.IDENT) {
		return nil
	}
	item := &ast.ModuleItem{Vis: vis, Name: p.intern(p.curTok.Value)}

	switch p.peekTok.Type {
	case lexer.SEMICOLON:
		p.nextToken()

	case lexer.LBRACE:
		p.nextToken()
		item.Inline = true
		for p.peekTok.Type != lexer.RBRACE && p.peekTok.Type != lexer.EOF {
			p.nextToken()
			prev := p.curTok
			inner := p.parseItem()
			if inner != nil {
				item.Items = append(item.Items, inner)
				continue
			}
			p.recoverItem(prev)
			if p.curTok.Type == lexer.RBRACE || p.curTok.Type == lexer.EOF {
				// recoverItem may stop on the closing brace itself.
				if p.curTok.Type == lexer.RBRACE {
					item.SetSpan(start.Merge(p.curTok.Span))
					return item
				}
				break
			}
		}
		if !p.expect(lexer.RBRACE) {
			return nil
		}

	default:
		p.reportExpected(p.peekTok, "'{'", "';'")
		return nil
	}

	item.SetSpan(start.Merge(p.curTok.Span))
	return item
}

// parseImpl parses `impl Type { items }` and `impl Trait for Type { items }`.
func (p *Parser) parseImpl(start lexer.Span) ast.Item {
	p.nextToken()
	first := p.parseType()
	if first == nil {
		return nil
	}

	item := &ast.ImplItem{Target: first}

	if p.peekTok.Type == lexer.FOR {
		trait, ok := first.(*ast.PathType)
		if !ok {
			p.report(diag.CodeParseMissingType, first.Span(), "trait in impl must be a path")
			return nil
		}
		p.nextToken()
		p.nextToken()
		target := p.parseType()
		if target == nil {
			return nil
		}
		item.Trait = trait
		item.Target = target
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}

	for p.peekTok.Type != lexer.RBRACE && p.peekTok.Type != lexer.EOF {
		p.nextToken()
		prev := p.curTok
		inner := p.parseItem()
		if inner != nil {
			item.Items = append(item.Items, inner)
			continue
		}
		p.recoverItem(prev)
		if p.curTok.Type == lexer.RBRACE {
			item.SetSpan(start.Merge(p.curTok.Span))
			return item
		}
		if p.curTok.Type == lexer.EOF {
			break
		}
	}
	if !p.expect(lexer.RBRACE) {
		return nil
	}

	item.SetSpan(start.Merge(p.curTok.Span))
	return item
}

// parseUse parses `use a::b::c [as alias] ;`.
func (p *Parser) parseUse(vis ast.Visibility, start lexer.Span) ast.Item {
	if !p.expect(lexer.IDENT) {
		return nil
	}

	item := &ast.UseItem{Vis: vis}
	item.Path = append(item.Path, p.intern(p.curTok.Value))

	for p.peekTok.Type == lexer.DOUBLE_COLON {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		item.Path = append(item.Path, p.intern(p.curTok.Value))
	}

	if p.peekTok.Type == lexer.AS {
		p.nextToken()
		if !p.expect(lexer.IDENT) {
			return nil
		}
		item.Alias = p.intern(p.curTok.Value)
		item.HasAlias = true
	}

	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	item.SetSpan(start.Merge(p.curTok.Span))
	return item
}
