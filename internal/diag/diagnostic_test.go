package diag_test

import (
	"testing"

	"github.com/bract-lang/bract/internal/diag"
)

func TestRenderWithSpan(t *testing.T) {
	d := diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     diag.CodeParseUnexpectedToken,
		Message:  "unexpected token '}'",
		Span:     diag.Span{Filename: "main.bract", Line: 3, Column: 7, Start: 21, End: 22},
		Expected: []string{"expression", "';'"},
	}

	want := "main.bract:3:7: error: unexpected token '}'\n  expected one of: expression, ';'"
	if got := diag.Render(d); got != want {
		t.Fatalf("Render mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestRenderWithoutSpan(t *testing.T) {
	d := diag.Diagnostic{
		Severity: diag.SeverityWarning,
		Message:  "linker not found",
	}

	if got := diag.Render(d); got != "warning: linker not found" {
		t.Fatalf("Render mismatch: %q", got)
	}
}

func TestHasErrors(t *testing.T) {
	diags := []diag.Diagnostic{
		{Severity: diag.SeverityWarning},
		{Severity: diag.SeverityNote},
	}
	if diag.HasErrors(diags) {
		t.Fatal("HasErrors reported true for warnings only")
	}

	diags = append(diags, diag.Diagnostic{Severity: diag.SeverityError})
	if !diag.HasErrors(diags) {
		t.Fatal("HasErrors missed an error diagnostic")
	}
}
