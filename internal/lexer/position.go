package lexer

import "fmt"

// Position is a point in a source buffer. Line and Column are 1-based;
// Offset is the 0-based byte offset into the buffer identified by FileID.
type Position struct {
	Line   int
	Column int
	Offset int
	FileID int
}

// String renders the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p precedes other in the same buffer.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// Span is a half-open source range [Start, End). A point span has
// Start == End; EOF tokens carry a point span.
type Span struct {
	Start Position
	End   Position
}

// PointSpan returns a zero-width span at pos.
func PointSpan(pos Position) Span {
	return Span{Start: pos, End: pos}
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	merged := s
	if other.Start.Offset < merged.Start.Offset {
		merged.Start = other.Start
	}
	if other.End.Offset > merged.End.Offset {
		merged.End = other.End
	}
	return merged
}

// Contains reports whether other lies within s.
func (s Span) Contains(other Span) bool {
	return s.Start.Offset <= other.Start.Offset && other.End.Offset <= s.End.Offset
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}
