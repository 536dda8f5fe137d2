package ast

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/bract-lang/bract/internal/intern"
)

// Fprint writes an indented dump of the tree for debugging and the
// `parse` subcommand. Interned names are resolved through names; spans
// are omitted.
func Fprint(w io.Writer, node Node, names *intern.Interner) {
	p := printer{w: w, names: names}
	p.value(reflect.ValueOf(node), 0)
	fmt.Fprintln(w)
}

type printer struct {
	w     io.Writer
	names *intern.Interner
}

var stringIDType = reflect.TypeOf(intern.StringID(0))

func (p *printer) indent(depth int) {
	fmt.Fprint(p.w, strings.Repeat("  ", depth))
}

func (p *printer) value(v reflect.Value, depth int) {
	if !v.IsValid() {
		fmt.Fprint(p.w, "nil")
		return
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			fmt.Fprint(p.w, "nil")
			return
		}
		p.value(v.Elem(), depth)

	case reflect.Struct:
		fmt.Fprintf(p.w, "%s {", v.Type().Name())
		printed := false
		for i := 0; i < v.NumField(); i++ {
			field := v.Type().Field(i)
			if field.PkgPath != "" {
				continue // unexported, spans live here
			}
			fv := v.Field(i)
			if p.skippable(fv) {
				continue
			}
			printed = true
			fmt.Fprintln(p.w)
			p.indent(depth + 1)
			fmt.Fprintf(p.w, "%s: ", field.Name)
			p.field(fv, depth+1)
		}
		if printed {
			fmt.Fprintln(p.w)
			p.indent(depth)
		}
		fmt.Fprint(p.w, "}")

	case reflect.Slice:
		fmt.Fprint(p.w, "[")
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(p.w)
			p.indent(depth + 1)
			p.field(v.Index(i), depth+1)
		}
		if v.Len() > 0 {
			fmt.Fprintln(p.w)
			p.indent(depth)
		}
		fmt.Fprint(p.w, "]")

	default:
		p.scalar(v)
	}
}

// field prints one struct field or slice element.
func (p *printer) field(v reflect.Value, depth int) {
	if v.Type() == stringIDType && p.names != nil {
		fmt.Fprintf(p.w, "%q", p.names.Get(intern.StringID(v.Uint())))
		return
	}
	p.value(v, depth)
}

func (p *printer) scalar(v reflect.Value) {
	switch v.Kind() {
	case reflect.String:
		fmt.Fprintf(p.w, "%q", v.String())
	default:
		if s, ok := v.Interface().(fmt.Stringer); ok {
			fmt.Fprintf(p.w, "%s", s.String())
			return
		}
		fmt.Fprintf(p.w, "%v", v.Interface())
	}
}

// skippable hides zero-valued fields so dumps stay readable.
func (p *printer) skippable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return v.IsNil()
	case reflect.Bool:
		return !v.Bool()
	}
	return false
}
