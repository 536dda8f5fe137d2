package diag

import (
	"fmt"
	"io"
	"strings"
)

// Formatter renders diagnostics in the compiler's user-visible text format:
//
//	file:line:column: <severity>: <message>
//	  expected one of: <alternatives>
//
// Diagnostics are printed in the order given, which the pipeline guarantees
// to be source order.
type Formatter struct {
	w io.Writer
}

// NewFormatter creates a formatter writing to w.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// Format writes a single diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	fmt.Fprintln(f.w, Render(d))
}

// FormatAll writes every diagnostic in order.
func (f *Formatter) FormatAll(diags []Diagnostic) {
	for _, d := range diags {
		f.Format(d)
	}
}

// Render returns the text form of a diagnostic without writing it.
func Render(d Diagnostic) string {
	var b strings.Builder

	severity := string(d.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}

	if d.Span.IsValid() {
		fmt.Fprintf(&b, "%s: %s: %s", d.Span, severity, d.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s", severity, d.Message)
	}

	if len(d.Expected) > 0 {
		fmt.Fprintf(&b, "\n  expected one of: %s", strings.Join(d.Expected, ", "))
	}
	for _, note := range d.Notes {
		fmt.Fprintf(&b, "\n  note: %s", note)
	}

	return b.String()
}
