package lsp

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/bract-lang/bract/internal/diag"
)

func TestUpdateAndGetDocument(t *testing.T) {
	store := NewDocumentStore()
	store.UpdateDocument("file:///a.bract", "fn main() {}", 1)

	text, err := store.GetDocument("file:///a.bract")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if text != "fn main() {}" {
		t.Fatalf("text = %q", text)
	}
}

func TestGetUnknownDocument(t *testing.T) {
	store := NewDocumentStore()
	if _, err := store.GetDocument("file:///nope.bract"); !errors.Is(err, ErrUnknownDocument) {
		t.Fatalf("got %v, want ErrUnknownDocument", err)
	}
	if _, err := store.AnalyzeDocument("file:///nope.bract"); !errors.Is(err, ErrUnknownDocument) {
		t.Fatalf("analyze: got %v, want ErrUnknownDocument", err)
	}
}

func TestStaleVersionIsIgnored(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///a.bract"
	store.UpdateDocument(uri, "fn v5() {}", 5)
	store.UpdateDocument(uri, "fn v3() {}", 3)

	text, err := store.GetDocument(uri)
	if err != nil {
		t.Fatal(err)
	}
	if text != "fn v5() {}" {
		t.Fatalf("stale update applied: %q", text)
	}
}

func TestAnalyzeDocumentReportsSemanticErrors(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///bad.bract"
	store.UpdateDocument(uri, "fn main() -> i32 { return nope; }", 1)

	diags, err := store.AnalyzeDocument(uri)
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}
	found := false
	for _, d := range diags {
		if d.Code == diag.CodeUnresolvedName {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %v, want SEMA_UNRESOLVED_NAME", diags)
	}
}

func TestAnalyzeAfterEditDropsFixedDiagnostics(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///fix.bract"
	store.UpdateDocument(uri, "fn main() -> i32 { return nope; }", 1)
	if diags, _ := store.AnalyzeDocument(uri); len(diags) == 0 {
		t.Fatal("broken version produced no diagnostics")
	}

	store.UpdateDocument(uri, "fn main() -> i32 { return 0; }", 2)
	diags, err := store.AnalyzeDocument(uri)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range diags {
		if d.IsError() {
			t.Fatalf("fixed version still has error: %v", d)
		}
	}
}

func TestCloseDocument(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///a.bract"
	store.UpdateDocument(uri, "fn main() {}", 1)
	store.CloseDocument(uri)
	if _, err := store.GetDocument(uri); !errors.Is(err, ErrUnknownDocument) {
		t.Fatalf("document still open after close: %v", err)
	}
}
