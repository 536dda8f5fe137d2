package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer turns a read-only source buffer into a token stream. Each call to
// NextToken produces exactly one token or fails with a structured *Error;
// once the end of input is reached, EOF tokens are emitted on every further
// call. The source buffer is borrowed for the lifetime of the lexer and
// never written to.
type Lexer struct {
	src    []byte
	fileID int

	pos    int // byte offset of the current byte
	line   int // 1-based line of the byte at pos
	column int // 1-based column of the byte at pos

	preserveComments bool
}

// New creates a lexer over src. Comments are discarded.
func New(src []byte, fileID int) *Lexer {
	return &Lexer{
		src:    src,
		fileID: fileID,
		line:   1,
		column: 1,
	}
}

// NewPreservingComments creates a lexer that emits the four comment token
// forms instead of discarding them.
func NewPreservingComments(src []byte, fileID int) *Lexer {
	l := New(src, fileID)
	l.preserveComments = true
	return l
}

// position captures the position of the byte about to be consumed. It is
// taken before the first byte of a token so spans start at the token's
// first character.
func (l *Lexer) position() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.pos, FileID: l.fileID}
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.src)
}

// ch returns the current byte, or 0 at EOF.
func (l *Lexer) ch() byte {
	if l.atEOF() {
		return 0
	}
	return l.src[l.pos]
}

// peek returns the byte n positions ahead of the current one.
func (l *Lexer) peek(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

// advance consumes one byte. A newline resets column to 1 and increments
// line; any other byte increments column.
func (l *Lexer) advance() {
	if l.atEOF() {
		return
	}
	if l.src[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) spanFrom(start Position) Span {
	return Span{Start: start, End: l.position()}
}

func (l *Lexer) errorAt(kind ErrorKind, pos Position, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() (Token, error) {
	for {
		l.skipWhitespace()

		start := l.position()

		if l.atEOF() {
			return Token{Type: EOF, Span: PointSpan(start)}, nil
		}

		switch ch := l.ch(); {
		case ch == '/' && (l.peek(1) == '/' || l.peek(1) == '*'):
			tok, err := l.scanComment(start)
			if err != nil {
				return Token{}, err
			}
			if l.preserveComments {
				return tok, nil
			}
			continue

		case isIdentStart(ch):
			if ch == 'r' && l.startsRawString() {
				return l.scanRawString(start)
			}
			return l.scanIdentifier(start), nil

		case isDigit(ch):
			return l.scanNumber(start)

		case ch == '"':
			return l.scanString(start)

		case ch == '\'':
			return l.scanChar(start)

		default:
			return l.scanOperator(start)
		}
	}
}

func (l *Lexer) makeToken(tt TokenType, start Position) Token {
	span := l.spanFrom(start)
	lexeme := string(l.src[start.Offset:span.End.Offset])
	return Token{Type: tt, Lexeme: lexeme, Value: lexeme, Span: span}
}

func (l *Lexer) scanIdentifier(start Position) Token {
	for isIdentStart(l.ch()) || isDigit(l.ch()) {
		l.advance()
	}
	tok := l.makeToken(IDENT, start)
	tok.Type = LookupIdent(tok.Lexeme)
	return tok
}

// scanComment consumes one of the four comment forms. Doc comments start
// with /// or /**. Block comments nest.
func (l *Lexer) scanComment(start Position) (Token, error) {
	l.advance() // first '/'
	if l.ch() == '/' {
		l.advance()
		tt := LINE_COMMENT
		if l.ch() == '/' {
			tt = DOC_LINE_COMMENT
		}
		for !l.atEOF() && l.ch() != '\n' {
			l.advance()
		}
		return l.makeToken(tt, start), nil
	}

	l.advance() // '*'
	tt := BLOCK_COMMENT
	if l.ch() == '*' && l.peek(1) != '/' {
		tt = DOC_BLOCK_COMMENT
	}

	depth := 1
	for depth > 0 {
		if l.atEOF() {
			return Token{}, l.errorAt(ErrUnterminatedBlockComment, start, "unterminated block comment")
		}
		if l.ch() == '/' && l.peek(1) == '*' {
			l.advance()
			l.advance()
			depth++
		} else if l.ch() == '*' && l.peek(1) == '/' {
			l.advance()
			l.advance()
			depth--
		} else {
			l.advance()
		}
	}
	return l.makeToken(tt, start), nil
}

// scanNumber consumes an integer or float literal. The textual digits are
// preserved verbatim (including any base prefix) in Value; no numeric
// conversion happens at lex time.
func (l *Lexer) scanNumber(start Position) (Token, error) {
	var value strings.Builder
	base := BaseDecimal

	if l.ch() == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X' || l.peek(1) == 'b' || l.peek(1) == 'B' || l.peek(1) == 'o' || l.peek(1) == 'O') {
		value.WriteByte(l.ch())
		l.advance()
		prefix := l.ch()
		value.WriteByte(prefix)
		l.advance()

		var valid func(byte) bool
		switch prefix {
		case 'x', 'X':
			base = BaseHexadecimal
			valid = isHexDigit
		case 'b', 'B':
			base = BaseBinary
			valid = func(c byte) bool { return c == '0' || c == '1' }
		default:
			base = BaseOctal
			valid = func(c byte) bool { return c >= '0' && c <= '7' }
		}

		digits := 0
		for valid(l.ch()) || l.ch() == '_' {
			if l.ch() != '_' {
				value.WriteByte(l.ch())
				digits++
			}
			l.advance()
		}
		if digits == 0 {
			return Token{}, l.errorAt(ErrInvalidNumeric, start, "missing digits after base prefix %q", "0"+string(prefix))
		}
		return l.finishNumber(start, INT, base, value.String())
	}

	for isDigit(l.ch()) || l.ch() == '_' {
		if l.ch() != '_' {
			value.WriteByte(l.ch())
		}
		l.advance()
	}

	isFloat := false
	if l.ch() == '.' && isDigit(l.peek(1)) {
		isFloat = true
		value.WriteByte('.')
		l.advance()
		for isDigit(l.ch()) || l.ch() == '_' {
			if l.ch() != '_' {
				value.WriteByte(l.ch())
			}
			l.advance()
		}
	}

	// Scientific notation is part of the same token: 1e10, 2.5e-3.
	if l.ch() == 'e' || l.ch() == 'E' {
		isFloat = true
		value.WriteByte(l.ch())
		l.advance()
		if l.ch() == '+' || l.ch() == '-' {
			value.WriteByte(l.ch())
			l.advance()
		}
		if !isDigit(l.ch()) {
			return Token{}, l.errorAt(ErrInvalidNumeric, start, "missing digits in float exponent")
		}
		for isDigit(l.ch()) || l.ch() == '_' {
			if l.ch() != '_' {
				value.WriteByte(l.ch())
			}
			l.advance()
		}
	}

	if isFloat {
		return l.finishNumber(start, FLOAT, BaseDecimal, value.String())
	}
	return l.finishNumber(start, INT, base, value.String())
}

// finishNumber attaches an optional trailing type-suffix identifier.
func (l *Lexer) finishNumber(start Position, tt TokenType, base NumberBase, value string) (Token, error) {
	suffix := ""
	if isIdentStart(l.ch()) {
		suffixStart := l.pos
		for isIdentStart(l.ch()) || isDigit(l.ch()) {
			l.advance()
		}
		suffix = string(l.src[suffixStart:l.pos])
	}

	span := l.spanFrom(start)
	return Token{
		Type:   tt,
		Lexeme: string(l.src[start.Offset:span.End.Offset]),
		Value:  value,
		Base:   base,
		Suffix: suffix,
		Span:   span,
	}, nil
}

// startsRawString reports whether the current 'r' begins a raw string:
// an 'r', any number of '#' marks, then a '"'.
func (l *Lexer) startsRawString() bool {
	n := 1
	for l.peek(n) == '#' {
		n++
	}
	return l.peek(n) == '"'
}

// scanRawString consumes r##"..."## style literals. No escapes are
// processed; the '#' count is recorded so the token round-trips.
func (l *Lexer) scanRawString(start Position) (Token, error) {
	l.advance() // 'r'
	marks := 0
	for l.ch() == '#' {
		marks++
		l.advance()
	}
	l.advance() // opening '"'

	var value strings.Builder
	for {
		if l.atEOF() {
			return Token{}, l.errorAt(ErrUnterminatedString, start, "unterminated raw string literal")
		}
		if l.ch() == '"' && l.rawTerminatorFollows(marks) {
			l.advance() // closing '"'
			for i := 0; i < marks; i++ {
				l.advance()
			}
			span := l.spanFrom(start)
			return Token{
				Type:     STRING,
				Lexeme:   string(l.src[start.Offset:span.End.Offset]),
				Value:    value.String(),
				Raw:      true,
				RawDelim: marks,
				Span:     span,
			}, nil
		}
		value.WriteByte(l.ch())
		l.advance()
	}
}

func (l *Lexer) rawTerminatorFollows(marks int) bool {
	for i := 1; i <= marks; i++ {
		if l.peek(i) != '#' {
			return false
		}
	}
	return true
}

func (l *Lexer) scanString(start Position) (Token, error) {
	l.advance() // opening '"'

	var value strings.Builder
	for {
		if l.atEOF() {
			return Token{}, l.errorAt(ErrUnterminatedString, start, "unterminated string literal")
		}
		if l.ch() == '"' {
			l.advance()
			span := l.spanFrom(start)
			return Token{
				Type:   STRING,
				Lexeme: string(l.src[start.Offset:span.End.Offset]),
				Value:  value.String(),
				Span:   span,
			}, nil
		}
		if l.ch() == '\\' {
			r, err := l.scanEscape()
			if err != nil {
				return Token{}, err
			}
			value.WriteRune(r)
			continue
		}
		value.WriteByte(l.ch())
		l.advance()
	}
}

func (l *Lexer) scanChar(start Position) (Token, error) {
	l.advance() // opening '\''

	if l.atEOF() || l.ch() == '\n' {
		return Token{}, l.errorAt(ErrUnterminatedChar, start, "unterminated char literal")
	}
	if l.ch() == '\'' {
		return Token{}, l.errorAt(ErrInvalidCharacter, start, "empty char literal")
	}

	var r rune
	if l.ch() == '\\' {
		var err error
		r, err = l.scanEscape()
		if err != nil {
			return Token{}, err
		}
	} else {
		var size int
		r, size = utf8.DecodeRune(l.src[l.pos:])
		for i := 0; i < size; i++ {
			l.advance()
		}
	}

	if l.ch() != '\'' {
		return Token{}, l.errorAt(ErrUnterminatedChar, start, "unterminated char literal")
	}
	l.advance()

	span := l.spanFrom(start)
	return Token{
		Type:   CHAR,
		Lexeme: string(l.src[start.Offset:span.End.Offset]),
		Value:  string(r),
		Char:   r,
		Span:   span,
	}, nil
}

// scanEscape decodes one backslash escape sequence and returns its scalar
// value. Supported forms: \n \t \r \" \' \\ \0 \xNN \u{1-6 hex digits}.
func (l *Lexer) scanEscape() (rune, error) {
	escStart := l.position()
	l.advance() // '\\'

	switch c := l.ch(); c {
	case 'n':
		l.advance()
		return '\n', nil
	case 't':
		l.advance()
		return '\t', nil
	case 'r':
		l.advance()
		return '\r', nil
	case '"':
		l.advance()
		return '"', nil
	case '\'':
		l.advance()
		return '\'', nil
	case '\\':
		l.advance()
		return '\\', nil
	case '0':
		l.advance()
		return 0, nil
	case 'x':
		l.advance()
		hi, lo := l.ch(), l.peek(1)
		if !isHexDigit(hi) || !isHexDigit(lo) {
			return 0, l.errorAt(ErrInvalidEscape, escStart, "expected two hex digits after \\x")
		}
		l.advance()
		l.advance()
		v, _ := strconv.ParseUint(string([]byte{hi, lo}), 16, 8)
		return rune(v), nil
	case 'u':
		l.advance()
		if l.ch() != '{' {
			return 0, l.errorAt(ErrInvalidEscape, escStart, "expected '{' after \\u")
		}
		l.advance()
		var digits strings.Builder
		for isHexDigit(l.ch()) {
			digits.WriteByte(l.ch())
			l.advance()
		}
		if digits.Len() == 0 || digits.Len() > 6 || l.ch() != '}' {
			return 0, l.errorAt(ErrInvalidEscape, escStart, "malformed \\u{...} escape")
		}
		l.advance() // '}'
		v, _ := strconv.ParseUint(digits.String(), 16, 32)
		if v > utf8.MaxRune {
			return 0, l.errorAt(ErrInvalidEscape, escStart, "escape value out of unicode range")
		}
		return rune(v), nil
	default:
		return 0, l.errorAt(ErrInvalidEscape, escStart, "invalid escape sequence \\%c", c)
	}
}

func (l *Lexer) scanOperator(start Position) (Token, error) {
	two := string([]byte{l.ch(), l.peek(1)})
	three := two
	if l.peek(2) != 0 {
		three = two + string(l.peek(2))
	}

	switch three {
	case "<<=", ">>=":
		l.advance()
		l.advance()
		l.advance()
		return l.makeToken(TokenType(three), start), nil
	}

	switch two {
	case "&&", "||", "==", "!=", "<=", ">=", "<<", ">>", "->", "=>", "::", "..",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=":
		l.advance()
		l.advance()
		return l.makeToken(TokenType(two), start), nil
	}

	switch ch := l.ch(); ch {
	case '+', '-', '*', '/', '%', '^', '&', '|', '~', '!', '<', '>', '=', '?',
		':', ',', ';', '.', '@', '(', ')', '{', '}', '[', ']':
		l.advance()
		return l.makeToken(TokenType(string(ch)), start), nil
	default:
		r, size := utf8.DecodeRune(l.src[l.pos:])
		for i := 0; i < size; i++ {
			l.advance()
		}
		return Token{}, l.errorAt(ErrInvalidCharacter, start, "invalid character %q", string(r))
	}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}
