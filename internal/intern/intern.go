// Package intern provides dense 32-bit identifiers for source strings.
//
// Identifiers, literal suffixes, and string literal payloads are interned once
// per compilation unit so the rest of the pipeline can compare names by id.
// The pool is append-only for the lifetime of the unit and is confined to the
// driver's goroutine.
package intern

// StringID is a dense index into an Interner's pool. The zero value is the
// id of the first interned string, so StringID is only meaningful together
// with the Interner that produced it.
type StringID uint32

// NoString is a sentinel for "no string present" (e.g. an absent literal
// suffix). It is never returned by Intern.
const NoString StringID = ^StringID(0)

// Interner maps strings to dense ids and back. The mapping is injective:
// two distinct strings never share an id, and interning the same string
// twice yields the same id.
type Interner struct {
	strings []string
	ids     map[string]StringID
}

// New returns an empty interner.
func New() *Interner {
	return &Interner{
		ids: make(map[string]StringID),
	}
}

// Intern returns the id for s, allocating a new one on first sight.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.ids[s]; ok {
		return id
	}
	id := StringID(len(in.strings))
	in.strings = append(in.strings, s)
	in.ids[s] = id
	return id
}

// Lookup returns the id for s without interning it. The second result is
// false if s has never been interned.
func (in *Interner) Lookup(s string) (StringID, bool) {
	id, ok := in.ids[s]
	return id, ok
}

// Get returns the string for id. It returns "" for ids the interner never
// issued, including NoString.
func (in *Interner) Get(id StringID) string {
	if int(id) >= len(in.strings) {
		return ""
	}
	return in.strings[id]
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int {
	return len(in.strings)
}
