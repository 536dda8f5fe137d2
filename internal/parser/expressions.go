package parser

import (
	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
	"github.com/bract-lang/bract/internal/lexer"
)

// parseExpr is the Pratt loop. precedence is the binding power of the
// operator to the left; parsing stops before any operator that binds
// no tighter than that.
func (p *Parser) parseExpr(precedence int) ast.Expr {
	prefix := p.prefixFns[p.curTok.Type]
	if prefix == nil {
		if p.curTok.Type == lexer.EOF {
			p.reportExpected(p.curTok, "expression")
		} else {
			p.report(diag.CodeParseMissingExpr, p.curTok.Span,
				"expected expression, found '"+p.curTok.Lexeme+"'")
		}
		return nil
	}

	left := prefix()

	for left != nil && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekTok.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expr {
	return ast.NewIdentifier(p.intern(p.curTok.Value), p.curTok.Span)
}

func (p *Parser) parseLiteral() ast.Expr {
	return p.literalFromToken(p.curTok)
}

// literalFromToken builds a literal node from a literal-class token. It is
// shared between expression and pattern parsing.
func (p *Parser) literalFromToken(tok lexer.Token) *ast.Literal {
	lit := &ast.Literal{}
	lit.SetSpan(tok.Span)

	switch tok.Type {
	case lexer.INT:
		lit.Kind = ast.LitInteger
		lit.Text = tok.Value
		lit.Base = tok.Base
	case lexer.FLOAT:
		lit.Kind = ast.LitFloat
		lit.Text = tok.Value
		lit.Base = tok.Base
	case lexer.STRING:
		lit.Kind = ast.LitString
		lit.Str = p.intern(tok.Value)
		lit.Raw = tok.Raw
		lit.RawDelim = tok.RawDelim
	case lexer.CHAR:
		lit.Kind = ast.LitChar
		lit.Char = tok.Char
	case lexer.TRUE, lexer.FALSE:
		lit.Kind = ast.LitBool
		lit.Bool = tok.Type == lexer.TRUE
	case lexer.NULL:
		lit.Kind = ast.LitNull
	}

	if tok.Suffix != "" {
		lit.Suffix = p.intern(tok.Suffix)
		lit.HasSuffix = true
	}

	return lit
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	start := p.curTok.Span

	var op ast.UnaryOp
	switch p.curTok.Type {
	case lexer.BANG:
		op = ast.OpNot
	case lexer.TILDE:
		op = ast.OpBitNot
	case lexer.MINUS:
		op = ast.OpNegate
	default:
		op = ast.OpPlus
	}

	p.nextToken()
	operand := p.parseExpr(precedencePrefix)
	if operand == nil {
		return nil
	}

	u := &ast.Unary{Op: op, Expr: operand}
	u.SetSpan(start.Merge(operand.Span()))
	return u
}

func (p *Parser) parseBinaryExpr(left ast.Expr) ast.Expr {
	op := binaryOps[p.curTok.Type]
	prec := p.curPrecedence()

	p.nextToken()
	right := p.parseExpr(prec)
	if right == nil {
		return nil
	}

	return ast.NewBinary(op, left, right, left.Span().Merge(right.Span()))
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	if p.curTok.Type == lexer.RPAREN {
		p.report(diag.CodeParseMissingExpr, p.curTok.Span, "expected expression inside parentheses")
		return nil
	}

	inner := p.parseExpr(precedenceLowest)
	if inner == nil {
		return nil
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}

	g := &ast.Parenthesized{Inner: inner}
	g.SetSpan(start.Merge(p.curTok.Span))
	return g
}

func (p *Parser) parseBlockLiteral() ast.Expr {
	block := p.parseBlockExpr()
	if block == nil {
		return nil
	}
	return block
}

// parseIfExpr parses `if cond { ... }` with an optional `else` branch
// which is either another if or a block.
func (p *Parser) parseIfExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	cond := p.parseExpr(precedenceLowest)
	if cond == nil {
		return nil
	}
	if !p.expect(lexer.LBRACE) {
		return nil
	}

	then := p.parseBlockExpr()
	if then == nil {
		return nil
	}

	node := &ast.If{Condition: cond, Then: then}
	node.SetSpan(start.Merge(then.Span()))

	if p.peekTok.Type != lexer.ELSE {
		return node
	}
	p.nextToken() // 'else'

	var alt ast.Expr
	if p.peekTok.Type == lexer.IF {
		p.nextToken()
		alt = p.parseIfExpr()
	} else {
		if !p.expect(lexer.LBRACE) {
			return node
		}
		alt = p.parseBlockExpr()
	}
	if alt == nil {
		return node
	}

	node.Else = alt
	node.SetSpan(start.Merge(alt.Span()))
	return node
}

func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	call := &ast.Call{Callee: callee}

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken()
	} else {
		p.nextToken()
		arg := p.parseExpr(precedenceLowest)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)

		for p.peekTok.Type == lexer.COMMA {
			p.nextToken()
			p.nextToken()
			arg = p.parseExpr(precedenceLowest)
			if arg == nil {
				return nil
			}
			call.Args = append(call.Args, arg)
		}

		if !p.expect(lexer.RPAREN) {
			return nil
		}
	}

	call.SetSpan(callee.Span().Merge(p.curTok.Span))
	return call
}

// parseTernaryExpr desugars `cond ? a : b` into an if expression. Both
// branches parse at the lowest level, which makes nesting right
// associative.
func (p *Parser) parseTernaryExpr(cond ast.Expr) ast.Expr {
	p.nextToken()
	thenExpr := p.parseExpr(precedenceLowest)
	if thenExpr == nil {
		return nil
	}
	if !p.expect(lexer.COLON) {
		return nil
	}

	p.nextToken()
	elseExpr := p.parseExpr(precedenceLowest)
	if elseExpr == nil {
		return nil
	}

	then := ast.NewBlockExpr(nil, thenExpr, thenExpr.Span())
	node := &ast.If{Condition: cond, Then: then, Else: elseExpr}
	node.SetSpan(cond.Span().Merge(elseExpr.Span()))
	return node
}
