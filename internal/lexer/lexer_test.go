package lexer

import (
	"errors"
	"testing"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	l := New([]byte(src), 0)
	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken(%q): %v", src, err)
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func lexOne(t *testing.T, src string) Token {
	t.Helper()
	toks := lexAll(t, src)
	if len(toks) != 2 {
		t.Fatalf("lexing %q produced %d tokens, want 1 + EOF", src, len(toks))
	}
	return toks[0]
}

func TestTokenTypes(t *testing.T) {
	src := `let mut x = 42; fn main() -> i32 { x += 1 }`
	want := []TokenType{
		LET, MUT, IDENT, ASSIGN, INT, SEMICOLON,
		FN, IDENT, LPAREN, RPAREN, ARROW, IDENT,
		LBRACE, IDENT, PLUS_ASSIGN, INT, RBRACE, EOF,
	}

	toks := lexAll(t, src)
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s (%q), want %s", i, toks[i].Type, toks[i].Lexeme, tt)
		}
	}
}

func TestOperators(t *testing.T) {
	src := `== != <= >= << >> <<= >>= && || -> => :: .. @ ?`
	want := []TokenType{
		EQ, NOT_EQ, LE, GE, SHL, SHR, SHL_ASSIGN, SHR_ASSIGN,
		AND, OR, ARROW, FATARROW, DOUBLE_COLON, DOTDOT, AT, QUESTION, EOF,
	}

	toks := lexAll(t, src)
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestSpansAreHalfOpen(t *testing.T) {
	toks := lexAll(t, "let x")

	let := toks[0]
	if let.Span.Start.Offset != 0 || let.Span.End.Offset != 3 {
		t.Errorf("let span offsets [%d, %d), want [0, 3)", let.Span.Start.Offset, let.Span.End.Offset)
	}
	if let.Span.Start.Line != 1 || let.Span.Start.Column != 1 {
		t.Errorf("let starts at %d:%d, want 1:1", let.Span.Start.Line, let.Span.Start.Column)
	}

	x := toks[1]
	if x.Span.Start.Offset != 4 || x.Span.End.Offset != 5 {
		t.Errorf("x span offsets [%d, %d), want [4, 5)", x.Span.Start.Offset, x.Span.End.Offset)
	}
	if x.Span.Start.Column != 5 {
		t.Errorf("x starts at column %d, want 5", x.Span.Start.Column)
	}
}

func TestLineTracking(t *testing.T) {
	toks := lexAll(t, "a\nbb\n  c")
	wantLines := []int{1, 2, 3}
	wantCols := []int{1, 1, 3}
	for i := 0; i < 3; i++ {
		p := toks[i].Span.Start
		if p.Line != wantLines[i] || p.Column != wantCols[i] {
			t.Errorf("token %d at %d:%d, want %d:%d", i, p.Line, p.Column, wantLines[i], wantCols[i])
		}
	}
}

func TestEOFIsRepeatable(t *testing.T) {
	l := New([]byte("x"), 0)
	if tok, _ := l.NextToken(); tok.Type != IDENT {
		t.Fatalf("first token %s, want IDENT", tok.Type)
	}
	for i := 0; i < 3; i++ {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatal(err)
		}
		if tok.Type != EOF {
			t.Fatalf("call %d past the end: got %s, want EOF", i, tok.Type)
		}
		if tok.Span.Start != tok.Span.End {
			t.Errorf("EOF span is not a point span: %+v", tok.Span)
		}
	}
}

func TestNumericLiterals(t *testing.T) {
	tests := []struct {
		src   string
		typ   TokenType
		value string
		base  NumberBase
	}{
		{"42", INT, "42", BaseDecimal},
		{"1_000_000", INT, "1000000", BaseDecimal},
		{"0xFF", INT, "0xFF", BaseHexadecimal},
		{"0b1010", INT, "0b1010", BaseBinary},
		{"0o777", INT, "0o777", BaseOctal},
		{"3.14", FLOAT, "3.14", BaseDecimal},
		{"1e10", FLOAT, "1e10", BaseDecimal},
		{"2.5e-3", FLOAT, "2.5e-3", BaseDecimal},
	}

	for _, tc := range tests {
		tok := lexOne(t, tc.src)
		if tok.Type != tc.typ {
			t.Errorf("%q: type %s, want %s", tc.src, tok.Type, tc.typ)
		}
		if tok.Value != tc.value {
			t.Errorf("%q: value %q, want %q", tc.src, tok.Value, tc.value)
		}
		if tok.Base != tc.base {
			t.Errorf("%q: base %d, want %d", tc.src, tok.Base, tc.base)
		}
	}
}

func TestNumericSuffixes(t *testing.T) {
	tok := lexOne(t, "42u64")
	if tok.Type != INT || tok.Value != "42" || tok.Suffix != "u64" {
		t.Errorf("42u64: got type=%s value=%q suffix=%q", tok.Type, tok.Value, tok.Suffix)
	}

	tok = lexOne(t, "1.5f32")
	if tok.Type != FLOAT || tok.Value != "1.5" || tok.Suffix != "f32" {
		t.Errorf("1.5f32: got type=%s value=%q suffix=%q", tok.Type, tok.Value, tok.Suffix)
	}
}

func TestStringLiteral(t *testing.T) {
	tok := lexOne(t, `"hello\n\t\"quoted\" \x41 \u{1F600}"`)
	if tok.Type != STRING {
		t.Fatalf("type %s, want STRING", tok.Type)
	}
	want := "hello\n\t\"quoted\" A \U0001F600"
	if tok.Value != want {
		t.Errorf("value %q, want %q", tok.Value, want)
	}
}

func TestRawStringLiteral(t *testing.T) {
	tok := lexOne(t, `r##"no \n escapes "# here"##`)
	if tok.Type != STRING {
		t.Fatalf("type %s, want STRING", tok.Type)
	}
	if !tok.Raw || tok.RawDelim != 2 {
		t.Errorf("raw=%v delim=%d, want raw with 2 marks", tok.Raw, tok.RawDelim)
	}
	if want := `no \n escapes "# here`; tok.Value != want {
		t.Errorf("value %q, want %q", tok.Value, want)
	}
}

func TestRawPrefixStillLexesIdentifiers(t *testing.T) {
	tok := lexOne(t, "radius")
	if tok.Type != IDENT || tok.Value != "radius" {
		t.Errorf("got type=%s value=%q, want identifier radius", tok.Type, tok.Value)
	}
}

func TestCharLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want rune
	}{
		{`'a'`, 'a'},
		{`'\n'`, '\n'},
		{`'\''`, '\''},
		{`'\u{1F600}'`, 0x1F600},
		{`'é'`, 'é'},
	}
	for _, tc := range tests {
		tok := lexOne(t, tc.src)
		if tok.Type != CHAR {
			t.Errorf("%q: type %s, want CHAR", tc.src, tok.Type)
			continue
		}
		if tok.Char != tc.want {
			t.Errorf("%q: rune %U, want %U", tc.src, tok.Char, tc.want)
		}
	}
}

func TestCommentsDiscardedByDefault(t *testing.T) {
	src := "a // line\n/* block /* nested */ */ b /// doc\nc"
	toks := lexAll(t, src)
	var types []TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	want := []TokenType{IDENT, IDENT, IDENT, EOF}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("got %v, want %v", types, want)
		}
	}
}

func TestCommentsPreserved(t *testing.T) {
	l := NewPreservingComments([]byte("// line\n/// doc\n/* block */\n/** docblock */"), 0)
	want := []TokenType{LINE_COMMENT, DOC_LINE_COMMENT, BLOCK_COMMENT, DOC_BLOCK_COMMENT, EOF}
	for i, tt := range want {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatal(err)
		}
		if tok.Type != tt {
			t.Errorf("token %d: got %s, want %s", i, tok.Type, tt)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind ErrorKind
	}{
		{"#", ErrInvalidCharacter},
		{`"open`, ErrUnterminatedString},
		{"'a", ErrUnterminatedChar},
		{"/* open", ErrUnterminatedBlockComment},
		{`"\q"`, ErrInvalidEscape},
		{"0x", ErrInvalidNumeric},
		{"1e", ErrInvalidNumeric},
	}

	for _, tc := range tests {
		l := New([]byte(tc.src), 0)
		var lexErr *Error
		for {
			tok, err := l.NextToken()
			if err != nil {
				if !errors.As(err, &lexErr) {
					t.Fatalf("%q: error is %T, want *Error", tc.src, err)
				}
				break
			}
			if tok.Type == EOF {
				break
			}
		}
		if lexErr == nil {
			t.Errorf("%q: lexed without error, want kind %d", tc.src, tc.kind)
			continue
		}
		if lexErr.Kind != tc.kind {
			t.Errorf("%q: kind %d, want %d", tc.src, lexErr.Kind, tc.kind)
		}
	}
}

func TestUnterminatedStringReportsOpeningQuote(t *testing.T) {
	l := New([]byte("  \"abc"), 0)
	_, err := l.NextToken()
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if lexErr.Pos.Column != 3 {
		t.Errorf("error at column %d, want 3 (the opening quote)", lexErr.Pos.Column)
	}
}

func TestSpanMerge(t *testing.T) {
	a := Span{Start: Position{Line: 1, Column: 1, Offset: 0}, End: Position{Line: 1, Column: 4, Offset: 3}}
	b := Span{Start: Position{Line: 2, Column: 1, Offset: 10}, End: Position{Line: 2, Column: 3, Offset: 12}}

	m := a.Merge(b)
	if m.Start != a.Start || m.End != b.End {
		t.Errorf("merge = %+v, want start of a and end of b", m)
	}
	if !m.Contains(a) || !m.Contains(b) {
		t.Error("merged span does not contain its inputs")
	}
}
