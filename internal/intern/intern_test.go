package intern_test

import (
	"testing"

	"github.com/bract-lang/bract/internal/intern"
)

func TestInternIsIdempotent(t *testing.T) {
	in := intern.New()

	a := in.Intern("main")
	b := in.Intern("main")

	if a != b {
		t.Fatalf("interning the same string twice produced ids %d and %d", a, b)
	}
	if got := in.Get(a); got != "main" {
		t.Fatalf("Get(%d) = %q, want %q", a, got, "main")
	}
}

func TestInternIsInjective(t *testing.T) {
	in := intern.New()

	words := []string{"fn", "main", "x", "fn_main", "", "main "}
	seen := make(map[intern.StringID]string)
	for _, w := range words {
		id := in.Intern(w)
		if prev, ok := seen[id]; ok {
			t.Fatalf("id %d assigned to both %q and %q", id, prev, w)
		}
		seen[id] = w
	}

	if in.Len() != len(words) {
		t.Fatalf("Len() = %d, want %d", in.Len(), len(words))
	}
}

func TestLookupDoesNotIntern(t *testing.T) {
	in := intern.New()

	if _, ok := in.Lookup("absent"); ok {
		t.Fatal("Lookup reported an id for a string that was never interned")
	}
	if in.Len() != 0 {
		t.Fatalf("Lookup grew the pool to %d entries", in.Len())
	}
}

func TestGetUnknownID(t *testing.T) {
	in := intern.New()

	if got := in.Get(intern.NoString); got != "" {
		t.Fatalf("Get(NoString) = %q, want empty", got)
	}
	if got := in.Get(42); got != "" {
		t.Fatalf("Get(42) = %q, want empty", got)
	}
}
