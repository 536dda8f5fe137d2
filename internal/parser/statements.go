package parser

import (
	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/lexer"
)

// stmtResult is the outcome of parsing one statement inside a block. A
// trailing expression with no semicolon before '}' becomes the block tail
// instead of a statement.
type stmtResult struct {
	stmt ast.Stmt
	tail ast.Expr
}

// parseBlockExpr parses `{ stmt* tail? }`. curTok must be on '{'; on
// return it is on the matching '}'.
func (p *Parser) parseBlockExpr() *ast.BlockExpr {
	start := p.curTok.Span
	block := ast.NewBlockExpr(nil, nil, start)

	p.nextToken()
	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		prev := p.curTok

		res := p.parseStmtOrTail()
		if res.stmt != nil {
			block.Stmts = append(block.Stmts, res.stmt)
			p.nextToken()
			continue
		}
		if res.tail != nil {
			block.Tail = res.tail
			p.nextToken() // onto '}'
			break
		}

		if p.curTok.Type == lexer.RBRACE || p.curTok.Type == lexer.EOF {
			break
		}
		p.recoverStatement(prev)
	}

	if p.curTok.Type != lexer.RBRACE {
		p.reportExpected(p.curTok, "'}'")
		return block
	}

	block.SetSpan(start.Merge(p.curTok.Span))
	return block
}

func (p *Parser) parseStmtOrTail() stmtResult {
	switch p.curTok.Type {
	case lexer.LET:
		return stmtResult{stmt: p.parseLetStmt()}
	case lexer.IF:
		return p.parseIfStmtOrTail()
	case lexer.WHILE:
		return stmtResult{stmt: p.parseWhileStmt()}
	case lexer.FOR:
		return stmtResult{stmt: p.parseForStmt()}
	case lexer.LOOP:
		return stmtResult{stmt: p.parseLoopStmt()}
	case lexer.MATCH:
		return stmtResult{stmt: p.parseMatchStmt()}
	case lexer.REGION:
		return stmtResult{stmt: p.parseRegionStmt()}
	case lexer.BREAK:
		return stmtResult{stmt: p.parseBreakStmt()}
	case lexer.CONTINUE:
		return stmtResult{stmt: p.parseContinueStmt()}
	case lexer.RETURN:
		return stmtResult{stmt: p.parseReturnStmt()}
	case lexer.LBRACE:
		return p.parseBlockStmtOrTail()
	default:
		return p.parseExprStmtOrTail()
	}
}

// parseLetStmt parses `let [mut] pattern [: type] [= expr] ;`. A memory
// annotation written on the type carries over onto the binding.
func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.curTok.Span

	mutable := false
	if p.peekTok.Type == lexer.MUT {
		p.nextToken()
		mutable = true
	}

	p.nextToken()
	pat := p.parsePattern()
	if pat == nil {
		return nil
	}

	var typ ast.Type
	strategy := ast.StrategyInferred
	if p.peekTok.Type == lexer.COLON {
		p.nextToken()
		p.nextToken()
		typ = p.parseType()
		if typ == nil {
			return nil
		}
		if annotated, ok := typ.(*ast.AnnotatedType); ok {
			strategy = annotated.Strategy
		}
	}

	var value ast.Expr
	if p.peekTok.Type == lexer.ASSIGN {
		p.nextToken()
		p.nextToken()
		value = p.parseExpr(precedenceLowest)
		if value == nil {
			return nil
		}
	}

	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	stmt := &ast.LetStmt{
		Pattern:  pat,
		Type:     typ,
		Value:    value,
		Mutable:  mutable,
		Strategy: strategy,
	}
	stmt.SetSpan(start.Merge(p.curTok.Span))
	return stmt
}

// parseIfStmtOrTail parses an if construct. When it is the last thing in
// the enclosing block it is the block's tail expression; otherwise it is
// an if statement and needs no semicolon.
func (p *Parser) parseIfStmtOrTail() stmtResult {
	expr := p.parseIfExpr()
	if expr == nil {
		return stmtResult{}
	}
	if p.peekTok.Type == lexer.RBRACE {
		return stmtResult{tail: expr}
	}
	if p.peekTok.Type == lexer.SEMICOLON {
		p.nextToken()
	}

	ifExpr := expr.(*ast.If)
	stmt := &ast.IfStmt{Condition: ifExpr.Condition, Then: ifExpr.Then}
	if ifExpr.Else != nil {
		stmt.Else = ifExpr.Else
	}
	stmt.SetSpan(ifExpr.Span())
	return stmtResult{stmt: stmt}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.curTok.Span

	p.nextToken()
	cond := p.parseExpr(precedenceLowest)
	if cond == nil {
		return nil
	}
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}

	stmt := &ast.WhileStmt{Condition: cond, Body: body}
	stmt.SetSpan(start.Merge(body.Span()))
	return stmt
}

func (p *Parser) parseForStmt() ast.Stmt {
	start := p.curTok.Span

	p.nextToken()
	pat := p.parsePattern()
	if pat == nil {
		return nil
	}
	if !p.expect(lexer.IN) {
		return nil
	}

	p.nextToken()
	iterable := p.parseExpr(precedenceLowest)
	if iterable == nil {
		return nil
	}
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}

	stmt := &ast.ForStmt{Pattern: pat, Iterable: iterable, Body: body}
	stmt.SetSpan(start.Merge(body.Span()))
	return stmt
}

func (p *Parser) parseLoopStmt() ast.Stmt {
	start := p.curTok.Span

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}

	stmt := &ast.LoopStmt{Body: body}
	stmt.SetSpan(start.Merge(body.Span()))
	return stmt
}

func (p *Parser) parseMatchStmt() ast.Stmt {
	start := p.curTok.Span

	p.nextToken()
	subject := p.parseExpr(precedenceLowest)
	if subject == nil {
		return nil
	}
	if !p.expect(lexer.LBRACE) {
		return nil
	}

	stmt := &ast.MatchStmt{Subject: subject}
	for p.peekTok.Type != lexer.RBRACE && p.peekTok.Type != lexer.EOF {
		p.nextToken()
		arm := p.parseMatchArm()
		if arm == nil {
			return nil
		}
		stmt.Arms = append(stmt.Arms, arm)

		if p.peekTok.Type == lexer.COMMA {
			p.nextToken()
		}
	}
	if !p.expect(lexer.RBRACE) {
		return nil
	}

	stmt.SetSpan(start.Merge(p.curTok.Span))
	return stmt
}

// parseMatchArm parses `pattern => expr`.
func (p *Parser) parseMatchArm() *ast.MatchArm {
	pat := p.parsePattern()
	if pat == nil {
		return nil
	}
	if !p.expect(lexer.FATARROW) {
		return nil
	}

	p.nextToken()
	body := p.parseExpr(precedenceLowest)
	if body == nil {
		return nil
	}

	arm := &ast.MatchArm{Pattern: pat, Body: body}
	arm.SetSpan(pat.Span().Merge(body.Span()))
	return arm
}

// parseRegionStmt parses `region name { ... }`.
func (p *Parser) parseRegionStmt() ast.Stmt {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := p.intern(p.curTok.Value)

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlockExpr()
	if body == nil {
		return nil
	}

	stmt := &ast.RegionStmt{Name: name, Body: body}
	stmt.SetSpan(start.Merge(body.Span()))
	return stmt
}

func (p *Parser) parseBreakStmt() ast.Stmt {
	start := p.curTok.Span
	stmt := &ast.BreakStmt{}

	if p.peekTok.Type != lexer.SEMICOLON {
		p.nextToken()
		value := p.parseExpr(precedenceLowest)
		if value == nil {
			return nil
		}
		stmt.Value = value
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	stmt.SetSpan(start.Merge(p.curTok.Span))
	return stmt
}

func (p *Parser) parseContinueStmt() ast.Stmt {
	start := p.curTok.Span
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	stmt := &ast.ContinueStmt{}
	stmt.SetSpan(start.Merge(p.curTok.Span))
	return stmt
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.curTok.Span
	stmt := &ast.ReturnStmt{}

	if p.peekTok.Type != lexer.SEMICOLON {
		p.nextToken()
		value := p.parseExpr(precedenceLowest)
		if value == nil {
			return nil
		}
		stmt.Value = value
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}

	stmt.SetSpan(start.Merge(p.curTok.Span))
	return stmt
}

func (p *Parser) parseBlockStmtOrTail() stmtResult {
	block := p.parseBlockExpr()
	if block == nil {
		return stmtResult{}
	}
	if p.peekTok.Type == lexer.RBRACE {
		return stmtResult{tail: block}
	}

	stmt := &ast.BlockStmt{Block: block}
	stmt.SetSpan(block.Span())
	return stmtResult{stmt: stmt}
}

// parseExprStmtOrTail parses an expression and classifies what follows:
// '=' or a compound operator makes it an assignment, ';' an expression
// statement and '}' the block tail.
func (p *Parser) parseExprStmtOrTail() stmtResult {
	expr := p.parseExpr(precedenceLowest)
	if expr == nil {
		return stmtResult{}
	}

	switch {
	case p.peekTok.Type == lexer.ASSIGN:
		p.nextToken()
		p.nextToken()
		value := p.parseExpr(precedenceLowest)
		if value == nil {
			return stmtResult{}
		}
		if !p.expect(lexer.SEMICOLON) {
			return stmtResult{}
		}
		stmt := &ast.AssignStmt{Target: expr, Value: value}
		stmt.SetSpan(expr.Span().Merge(p.curTok.Span))
		return stmtResult{stmt: stmt}

	case p.peekTok.Type.IsAssignOp():
		op := compoundOps[p.peekTok.Type]
		p.nextToken()
		p.nextToken()
		value := p.parseExpr(precedenceLowest)
		if value == nil {
			return stmtResult{}
		}
		if !p.expect(lexer.SEMICOLON) {
			return stmtResult{}
		}
		stmt := &ast.CompoundAssignStmt{Op: op, Target: expr, Value: value}
		stmt.SetSpan(expr.Span().Merge(p.curTok.Span))
		return stmtResult{stmt: stmt}

	case p.peekTok.Type == lexer.SEMICOLON:
		p.nextToken()
		stmt := &ast.ExprStmt{Expr: expr}
		stmt.SetSpan(expr.Span().Merge(p.curTok.Span))
		return stmtResult{stmt: stmt}

	case p.peekTok.Type == lexer.RBRACE:
		return stmtResult{tail: expr}

	default:
		p.reportExpected(p.peekTok, "';'")
		return stmtResult{}
	}
}
