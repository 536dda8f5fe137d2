package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer    Stage = "lexer"
	StageParser   Stage = "parser"
	StageSemantic Stage = "semantic"
	StageLowering Stage = "lowering"
	StageDriver   Stage = "driver"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable machine-readable identifier for a diagnostic.
type Code string

const (
	// Lexical errors
	CodeLexInvalidCharacter        Code = "LEX_INVALID_CHARACTER"
	CodeLexUnterminatedString      Code = "LEX_UNTERMINATED_STRING"
	CodeLexUnterminatedChar        Code = "LEX_UNTERMINATED_CHAR"
	CodeLexUnterminatedBlockComment Code = "LEX_UNTERMINATED_BLOCK_COMMENT"
	CodeLexInvalidEscape           Code = "LEX_INVALID_ESCAPE"
	CodeLexInvalidNumeric          Code = "LEX_INVALID_NUMERIC"

	// Syntactic errors
	CodeParseUnexpectedToken Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseUnexpectedEOF   Code = "PARSE_UNEXPECTED_EOF"
	CodeParseMissingExpr     Code = "PARSE_MISSING_EXPR"
	CodeParseMissingPattern  Code = "PARSE_MISSING_PATTERN"
	CodeParseMissingType     Code = "PARSE_MISSING_TYPE"

	// Semantic errors
	CodeDuplicateSymbol      Code = "SEMA_DUPLICATE_SYMBOL"
	CodeUnresolvedName       Code = "SEMA_UNRESOLVED_NAME"
	CodeTypeMismatch         Code = "SEMA_TYPE_MISMATCH"
	CodeArityMismatch        Code = "SEMA_ARITY_MISMATCH"
	CodeMissingReturn        Code = "SEMA_MISSING_RETURN"
	CodeNotAssignable        Code = "SEMA_NOT_ASSIGNABLE"
	CodeNotCallable          Code = "SEMA_NOT_CALLABLE"
	CodeUseAfterMove         Code = "SEMA_USE_AFTER_MOVE"
	CodeLinearUnused         Code = "SEMA_LINEAR_UNUSED"
	CodeLinearDoubleUse      Code = "SEMA_LINEAR_DOUBLE_USE"
	CodeBorrowConflict       Code = "SEMA_BORROW_CONFLICT"
	CodeStackEscape          Code = "SEMA_STACK_ESCAPE"
	CodeRegionEscape         Code = "SEMA_REGION_ESCAPE"
	CodeStrategyUnresolved   Code = "SEMA_STRATEGY_UNRESOLVED"
	CodeUnusedSymbol         Code = "SEMA_UNUSED_SYMBOL"

	// Lowering and code-generation errors
	CodeUnsupportedConversion Code = "MEM_UNSUPPORTED_CONVERSION"
	CodeSharedUnwrap          Code = "MEM_SHARED_UNWRAP"
	CodeRegionNotFound        Code = "MEM_REGION_NOT_FOUND"
	CodeGenFailed             Code = "CODEGEN_FAILED"

	// Driver/IO errors
	CodeDriverReadFailed  Code = "DRIVER_READ_FAILED"
	CodeDriverWriteFailed Code = "DRIVER_WRITE_FAILED"
	CodeDriverLinkFailed  Code = "DRIVER_LINK_FAILED"
	CodeDriverBadFlag     Code = "DRIVER_BAD_FLAG"
)

// Span represents a location in source code. Start and End are byte
// offsets; Line and Column locate the start, 1-based.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	// Expected lists the token descriptions a parser diagnostic would have
	// accepted at the failure site.
	Expected []string
	Notes    []string
}

// WithNote returns the diagnostic with an additional note attached.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithExpected returns the diagnostic with expected alternatives attached.
func (d Diagnostic) WithExpected(expected ...string) Diagnostic {
	d.Expected = append(d.Expected, expected...)
	return d
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// HasErrors reports whether any diagnostic in the list is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.IsError() {
			return true
		}
	}
	return false
}
