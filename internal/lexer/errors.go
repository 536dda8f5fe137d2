package lexer

import "github.com/bract-lang/bract/internal/diag"

// ErrorKind classifies lexical failures.
type ErrorKind int

const (
	ErrInvalidCharacter ErrorKind = iota
	ErrUnterminatedString
	ErrUnterminatedChar
	ErrUnterminatedBlockComment
	ErrInvalidEscape
	ErrInvalidNumeric
)

// Error is a structured lexical error carrying the offending position.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     Position
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Message
}

func (k ErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrInvalidCharacter:
		return diag.CodeLexInvalidCharacter
	case ErrUnterminatedString:
		return diag.CodeLexUnterminatedString
	case ErrUnterminatedChar:
		return diag.CodeLexUnterminatedChar
	case ErrUnterminatedBlockComment:
		return diag.CodeLexUnterminatedBlockComment
	case ErrInvalidEscape:
		return diag.CodeLexInvalidEscape
	case ErrInvalidNumeric:
		return diag.CodeLexInvalidNumeric
	default:
		return diag.Code("LEX_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e *Error) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Line:   e.Pos.Line,
			Column: e.Pos.Column,
			Start:  e.Pos.Offset,
			End:    e.Pos.Offset,
		},
	}
}
