// Package parser turns Bract source text into an AST.
//
// The parser is a Pratt-style recursive descent parser with a two-token
// window. Recoverable syntax errors are accumulated as diagnostics and the
// parser resynchronizes at statement and item boundaries, so a single parse
// reports as many independent errors as possible.
package parser

import (
	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/lexer"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Option configures a Parser.
type Option func(*options)

type options struct {
	filename string
	fileID   int
	interner *intern.Interner
}

// WithFilename attributes all emitted diagnostics to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithFileID sets the file id recorded in token positions.
func WithFileID(id int) Option {
	return func(o *options) {
		o.fileID = id
	}
}

// WithInterner makes the parser share an existing interner instead of
// creating its own. Useful when several files feed one compilation.
func WithInterner(in *intern.Interner) Option {
	return func(o *options) {
		o.interner = in
	}
}

// Operator precedence levels, lowest binds loosest. The cascade is
// ternary, logical, bitwise, equality, comparison, shift, additive,
// multiplicative, prefix, postfix.
const (
	precedenceLowest = iota
	precedenceTernary
	precedenceOr
	precedenceAnd
	precedenceBitOr
	precedenceBitXor
	precedenceBitAnd
	precedenceEquality
	precedenceComparison
	precedenceShift
	precedenceSum
	precedenceProduct
	precedencePrefix
	precedencePostfix
)

var precedences = map[lexer.TokenType]int{
	lexer.QUESTION: precedenceTernary,
	lexer.OR:       precedenceOr,
	lexer.AND:      precedenceAnd,
	lexer.PIPE:     precedenceBitOr,
	lexer.CARET:    precedenceBitXor,
	lexer.AMP:      precedenceBitAnd,
	lexer.EQ:       precedenceEquality,
	lexer.NOT_EQ:   precedenceEquality,
	lexer.LT:       precedenceComparison,
	lexer.LE:       precedenceComparison,
	lexer.GT:       precedenceComparison,
	lexer.GE:       precedenceComparison,
	lexer.SHL:      precedenceShift,
	lexer.SHR:      precedenceShift,
	lexer.PLUS:     precedenceSum,
	lexer.MINUS:    precedenceSum,
	lexer.ASTERISK: precedenceProduct,
	lexer.SLASH:    precedenceProduct,
	lexer.PERCENT:  precedenceProduct,
	lexer.LPAREN:   precedencePostfix,
}

var binaryOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.PLUS:     ast.OpAdd,
	lexer.MINUS:    ast.OpSubtract,
	lexer.ASTERISK: ast.OpMultiply,
	lexer.SLASH:    ast.OpDivide,
	lexer.PERCENT:  ast.OpModulo,
	lexer.AMP:      ast.OpBitAnd,
	lexer.PIPE:     ast.OpBitOr,
	lexer.CARET:    ast.OpBitXor,
	lexer.SHL:      ast.OpShiftLeft,
	lexer.SHR:      ast.OpShiftRight,
	lexer.AND:      ast.OpLogicalAnd,
	lexer.OR:       ast.OpLogicalOr,
	lexer.EQ:       ast.OpEqual,
	lexer.NOT_EQ:   ast.OpNotEqual,
	lexer.LT:       ast.OpLess,
	lexer.LE:       ast.OpLessEqual,
	lexer.GT:       ast.OpGreater,
	lexer.GE:       ast.OpGreaterEqual,
}

// compoundOps maps compound assignment tokens onto the underlying binary
// operator, e.g. "+=" onto OpAdd.
var compoundOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.PLUS_ASSIGN:    ast.OpAdd,
	lexer.MINUS_ASSIGN:   ast.OpSubtract,
	lexer.STAR_ASSIGN:    ast.OpMultiply,
	lexer.SLASH_ASSIGN:   ast.OpDivide,
	lexer.PERCENT_ASSIGN: ast.OpModulo,
	lexer.AMP_ASSIGN:     ast.OpBitAnd,
	lexer.PIPE_ASSIGN:    ast.OpBitOr,
	lexer.CARET_ASSIGN:   ast.OpBitXor,
	lexer.SHL_ASSIGN:     ast.OpShiftLeft,
	lexer.SHR_ASSIGN:     ast.OpShiftRight,
}

// Parser implements recursive descent parsing for Bract.
// Invariants:
//   - curTok is the token under examination; peekTok is the next token
//     pulled from the lexer. The pair is only mutated via nextToken.
//   - Parse functions enter with curTok on the first token of their
//     production and return with curTok on its last token. The caller
//     advances past it.
//   - errors is an append-only diagnostic accumulator. Recoverable errors
//     never abort; the parser synchronizes and continues.
type Parser struct {
	lx       *lexer.Lexer
	interner *intern.Interner
	filename string

	curTok  lexer.Token
	peekTok lexer.Token

	// stash holds tokens synthesized by splitting '>>' inside nested
	// generic argument lists.
	stash []lexer.Token

	errors []diag.Diagnostic

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New returns a parser over the provided source bytes.
func New(src []byte, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.interner == nil {
		cfg.interner = intern.New()
	}

	p := &Parser{
		lx:        lexer.New(src, cfg.fileID),
		interner:  cfg.interner,
		filename:  cfg.filename,
		prefixFns: make(map[lexer.TokenType]prefixParseFn),
		infixFns:  make(map[lexer.TokenType]infixParseFn),
	}

	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseLiteral)
	p.registerPrefix(lexer.STRING, p.parseLiteral)
	p.registerPrefix(lexer.CHAR, p.parseLiteral)
	p.registerPrefix(lexer.TRUE, p.parseLiteral)
	p.registerPrefix(lexer.FALSE, p.parseLiteral)
	p.registerPrefix(lexer.NULL, p.parseLiteral)
	p.registerPrefix(lexer.MINUS, p.parseUnaryExpr)
	p.registerPrefix(lexer.PLUS, p.parseUnaryExpr)
	p.registerPrefix(lexer.BANG, p.parseUnaryExpr)
	p.registerPrefix(lexer.TILDE, p.parseUnaryExpr)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(lexer.LBRACE, p.parseBlockLiteral)
	p.registerPrefix(lexer.IF, p.parseIfExpr)

	for tt := range binaryOps {
		p.registerInfix(tt, p.parseBinaryExpr)
	}
	p.registerInfix(lexer.LPAREN, p.parseCallExpr)
	p.registerInfix(lexer.QUESTION, p.parseTernaryExpr)

	// Seed curTok/peekTok.
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns all diagnostics accumulated so far, in source order.
func (p *Parser) Errors() []diag.Diagnostic {
	return p.errors
}

// Interner returns the interner that owns every name in the parsed tree.
func (p *Parser) Interner() *intern.Interner {
	return p.interner
}

// ParseModule parses a full compilation unit. It never returns nil; on
// malformed input the module holds whatever items could be recovered and
// Errors() carries the diagnostics.
func (p *Parser) ParseModule() *ast.Module {
	mod := ast.NewModule(p.curTok.Span)

	for p.curTok.Type != lexer.EOF {
		prev := p.curTok
		item := p.parseItem()
		if item != nil {
			mod.Items = append(mod.Items, item)
			mod.SetSpan(mod.Span().Merge(item.Span()))
			p.nextToken()
			continue
		}
		if p.curTok.Type == lexer.EOF {
			break
		}
		p.recoverItem(prev)
	}

	mod.SetSpan(mod.Span().Merge(p.curTok.Span))
	return mod
}

// ParseExpression parses a single expression. Used by tests and by tools
// that evaluate fragments rather than whole files.
func (p *Parser) ParseExpression() ast.Expr {
	return p.parseExpr(precedenceLowest)
}

// nextToken advances the token window. Lexical errors are converted to
// diagnostics here so callers only ever see well-formed tokens; the lexer
// guarantees forward progress after an error.
func (p *Parser) nextToken() {
	p.curTok = p.peekTok

	if len(p.stash) > 0 {
		p.peekTok = p.stash[0]
		p.stash = p.stash[1:]
		return
	}

	for {
		tok, err := p.lx.NextToken()
		if err != nil {
			if lexErr, ok := err.(*lexer.Error); ok {
				d := lexErr.ToDiagnostic()
				d.Span.Filename = p.filename
				p.errors = append(p.errors, d)
				continue
			}
			// Unreachable with the current lexer, but do not spin.
			p.peekTok = lexer.Token{Type: lexer.EOF}
			return
		}
		p.peekTok = tok
		return
	}
}

// expect asserts that the peek token matches tt and promotes it into
// curTok. On mismatch it reports a diagnostic and leaves the window alone.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.peekTok.Type == tt {
		p.nextToken()
		return true
	}
	p.reportExpected(p.peekTok, string(tt))
	return false
}

func (p *Parser) curPrecedence() int {
	return precedences[p.curTok.Type]
}

func (p *Parser) peekPrecedence() int {
	return precedences[p.peekTok.Type]
}

func (p *Parser) registerPrefix(tt lexer.TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *Parser) registerInfix(tt lexer.TokenType, fn infixParseFn) {
	p.infixFns[tt] = fn
}

func (p *Parser) intern(s string) intern.StringID {
	return p.interner.Intern(s)
}

// diagSpan converts a lexer span into the shared diagnostic span shape.
func (p *Parser) diagSpan(span lexer.Span) diag.Span {
	return diag.Span{
		Filename: p.filename,
		Line:     span.Start.Line,
		Column:   span.Start.Column,
		Start:    span.Start.Offset,
		End:      span.End.Offset,
	}
}

func (p *Parser) report(code diag.Code, span lexer.Span, msg string) {
	p.errors = append(p.errors, diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  msg,
		Span:     p.diagSpan(span),
	})
}

// reportExpected records an unexpected-token diagnostic listing what the
// parser would have accepted at the failure site.
func (p *Parser) reportExpected(got lexer.Token, expected ...string) {
	code := diag.CodeParseUnexpectedToken
	msg := "unexpected token '" + got.Lexeme + "'"
	if got.Type == lexer.EOF {
		code = diag.CodeParseUnexpectedEOF
		msg = "unexpected end of file"
	}
	p.errors = append(p.errors, diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  msg,
		Span:     p.diagSpan(got.Span),
		Expected: expected,
	})
}

func sameTokenPosition(a, b lexer.Token) bool {
	return a.Type == b.Type && a.Span.Start == b.Span.Start && a.Span.End == b.Span.End
}

func isItemStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.FN, lexer.STRUCT, lexer.ENUM, lexer.TYPE, lexer.CONST,
		lexer.MOD, lexer.IMPL, lexer.USE, lexer.PUB:
		return true
	default:
		return false
	}
}

// isSyncPoint lists the statement-level recovery anchors.
func isSyncPoint(tt lexer.TokenType) bool {
	switch tt {
	case lexer.FN, lexer.STRUCT, lexer.ENUM, lexer.LET, lexer.IF,
		lexer.WHILE, lexer.FOR, lexer.RETURN:
		return true
	default:
		return false
	}
}

// recoverItem skips tokens until an item boundary. At least one token is
// consumed so the item loop always makes progress.
func (p *Parser) recoverItem(prev lexer.Token) {
	if p.curTok.Type == lexer.EOF {
		return
	}
	if sameTokenPosition(p.curTok, prev) {
		p.nextToken()
	}

	for p.curTok.Type != lexer.EOF {
		switch {
		case p.curTok.Type == lexer.SEMICOLON:
			p.nextToken()
			return
		case isItemStart(p.curTok.Type):
			return
		}
		p.nextToken()
	}
}

// recoverStatement skips tokens until just past a ';' or just before a
// statement anchor or a closing brace.
func (p *Parser) recoverStatement(prev lexer.Token) {
	if p.curTok.Type == lexer.EOF {
		return
	}
	if sameTokenPosition(p.curTok, prev) {
		p.nextToken()
	}

	for p.curTok.Type != lexer.EOF {
		switch {
		case p.curTok.Type == lexer.SEMICOLON:
			p.nextToken()
			return
		case p.curTok.Type == lexer.RBRACE:
			return
		case isSyncPoint(p.curTok.Type):
			return
		}
		p.nextToken()
	}
}
