package lexer

// TokenType represents the type of a token.
type TokenType string

// NumberBase is the radix of an integer literal.
type NumberBase int

// Integer literal bases.
const (
	BaseBinary      NumberBase = 2
	BaseOctal       NumberBase = 8
	BaseDecimal     NumberBase = 10
	BaseHexadecimal NumberBase = 16
)

// Token represents a lexical token. Lexeme holds the exact source bytes.
// Value holds the decoded payload: the textual digits (with base prefix) for
// numbers, the unescaped contents for strings and the suffix-less identifier
// text for identifiers; for everything else it equals Lexeme.
type Token struct {
	Type   TokenType
	Lexeme string
	Value  string

	// Numeric literal payload.
	Base   NumberBase
	Suffix string // type suffix text, "" when absent

	// String literal payload.
	Raw      bool // raw string (r"..." or r#"..."#)
	RawDelim int  // number of '#' marks on a raw string

	// Char literal payload.
	Char rune

	Span Span
}

// Token type constants.
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"
	FLOAT  TokenType = "FLOAT"
	STRING TokenType = "STRING"
	CHAR   TokenType = "CHAR"

	// Operators
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	CARET    TokenType = "^"
	AMP      TokenType = "&"
	PIPE     TokenType = "|"
	TILDE    TokenType = "~"
	BANG     TokenType = "!"
	LT       TokenType = "<"
	GT       TokenType = ">"
	ASSIGN   TokenType = "="
	QUESTION TokenType = "?"

	// Compound operators
	AND      TokenType = "&&"
	OR       TokenType = "||"
	EQ       TokenType = "=="
	NOT_EQ   TokenType = "!="
	LE       TokenType = "<="
	GE       TokenType = ">="
	SHL      TokenType = "<<"
	SHR      TokenType = ">>"
	ARROW    TokenType = "->"
	FATARROW TokenType = "=>"

	// Assignment operators
	PLUS_ASSIGN    TokenType = "+="
	MINUS_ASSIGN   TokenType = "-="
	STAR_ASSIGN    TokenType = "*="
	SLASH_ASSIGN   TokenType = "/="
	PERCENT_ASSIGN TokenType = "%="
	AMP_ASSIGN     TokenType = "&="
	PIPE_ASSIGN    TokenType = "|="
	CARET_ASSIGN   TokenType = "^="
	SHL_ASSIGN     TokenType = "<<="
	SHR_ASSIGN     TokenType = ">>="

	// Delimiters
	COMMA        TokenType = ","
	SEMICOLON    TokenType = ";"
	COLON        TokenType = ":"
	DOUBLE_COLON TokenType = "::"
	DOT          TokenType = "."
	DOTDOT       TokenType = ".."
	AT           TokenType = "@"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	FN       TokenType = "FN"
	STRUCT   TokenType = "STRUCT"
	ENUM     TokenType = "ENUM"
	TYPE     TokenType = "TYPE"
	CONST    TokenType = "CONST"
	MOD      TokenType = "MOD"
	IMPL     TokenType = "IMPL"
	USE      TokenType = "USE"
	PUB      TokenType = "PUB"
	LET      TokenType = "LET"
	MUT      TokenType = "MUT"
	IF       TokenType = "IF"
	ELSE     TokenType = "ELSE"
	WHILE    TokenType = "WHILE"
	FOR      TokenType = "FOR"
	LOOP     TokenType = "LOOP"
	MATCH    TokenType = "MATCH"
	BREAK    TokenType = "BREAK"
	CONTINUE TokenType = "CONTINUE"
	RETURN   TokenType = "RETURN"
	REGION   TokenType = "REGION"
	MOVE     TokenType = "MOVE"
	AS       TokenType = "AS"
	IN       TokenType = "IN"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	NULL     TokenType = "NULL"

	// Comments (discarded unless the lexer preserves them)
	LINE_COMMENT      TokenType = "LINE_COMMENT"
	BLOCK_COMMENT     TokenType = "BLOCK_COMMENT"
	DOC_LINE_COMMENT  TokenType = "DOC_LINE_COMMENT"
	DOC_BLOCK_COMMENT TokenType = "DOC_BLOCK_COMMENT"
)

var keywords = map[string]TokenType{
	"fn":       FN,
	"struct":   STRUCT,
	"enum":     ENUM,
	"type":     TYPE,
	"const":    CONST,
	"mod":      MOD,
	"impl":     IMPL,
	"use":      USE,
	"pub":      PUB,
	"let":      LET,
	"mut":      MUT,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"loop":     LOOP,
	"match":    MATCH,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
	"region":   REGION,
	"move":     MOVE,
	"as":       AS,
	"in":       IN,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
}

// LookupIdent checks if the identifier is a keyword.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsComment reports whether the token is one of the four comment forms.
func (t Token) IsComment() bool {
	switch t.Type {
	case LINE_COMMENT, BLOCK_COMMENT, DOC_LINE_COMMENT, DOC_BLOCK_COMMENT:
		return true
	default:
		return false
	}
}

// IsAssignOp reports whether the token is a compound assignment operator.
func (t TokenType) IsAssignOp() bool {
	switch t {
	case PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN, PERCENT_ASSIGN,
		AMP_ASSIGN, PIPE_ASSIGN, CARET_ASSIGN, SHL_ASSIGN, SHR_ASSIGN:
		return true
	default:
		return false
	}
}
