package sema

import (
	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
)

// collectModule is the collection phase: every top-level name is defined
// before any body is checked, so items may reference each other in any
// order.
func (a *Analyzer) collectModule(mod *ast.Module) {
	for _, item := range mod.Items {
		a.collectItem(item)
	}
}

func (a *Analyzer) collectItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.Function:
		a.define(&Symbol{
			Name:    it.Name,
			Kind:    SymbolFunction,
			DefNode: it,
			DefSpan: it.Span(),
		})

	case *ast.StructItem:
		a.define(&Symbol{
			Name:    it.Name,
			Kind:    SymbolStruct,
			DefNode: it,
			DefSpan: it.Span(),
		})

	case *ast.EnumItem:
		a.define(&Symbol{
			Name:    it.Name,
			Kind:    SymbolEnum,
			DefNode: it,
			DefSpan: it.Span(),
		})

	case *ast.TypeAlias:
		a.define(&Symbol{
			Name:    it.Name,
			Kind:    SymbolTypeAlias,
			DefNode: it,
			DefSpan: it.Span(),
		})

	case *ast.ConstItem:
		a.define(&Symbol{
			Name:    it.Name,
			Kind:    SymbolConst,
			DefNode: it,
			DefSpan: it.Span(),
		})

	case *ast.ModuleItem:
		// Inline module items share the enclosing namespace for now;
		// module-qualified resolution comes with multi-file builds.
		for _, inner := range it.Items {
			a.collectItem(inner)
		}

	case *ast.ImplItem:
		for _, inner := range it.Items {
			a.collectItem(inner)
		}

	case *ast.UseItem:
		// Imports resolve across compilation units, which a single-module
		// analysis cannot see. They are recorded but not bound.
	}
}

func (a *Analyzer) define(sym *Symbol) *Symbol {
	prev, ok := a.table.Define(sym)
	if !ok {
		a.reportError(diag.CodeDuplicateSymbol, sym.DefSpan,
			"duplicate definition of '"+a.name(sym.Name)+"'",
			"previously defined at "+prev.DefSpan.Start.String())
		return prev
	}
	return sym
}

// typeFromAST resolves a syntactic type annotation to a semantic type.
// Unknown names report unresolved-name and produce the unknown type.
func (a *Analyzer) typeFromAST(t ast.Type) Type {
	switch tt := t.(type) {
	case nil:
		return unitType

	case *ast.PrimitiveType:
		return &Primitive{Kind: tt.Kind}

	case *ast.PathType:
		// Single-segment paths resolve against the symbol table; longer
		// paths name entities in other modules and stay opaque.
		name := a.name(tt.Segments[len(tt.Segments)-1])
		if len(tt.Segments) == 1 {
			sym := a.table.Resolve(tt.Segments[0])
			if sym == nil {
				a.reportError(diag.CodeUnresolvedName, tt.Span(),
					"unknown type '"+name+"'")
				return unknownType
			}
			sym.Used = true
			switch sym.Kind {
			case SymbolStruct, SymbolEnum:
				return &Named{Name: name, Sym: sym}
			case SymbolTypeAlias:
				if alias, ok := sym.DefNode.(*ast.TypeAlias); ok {
					return a.typeFromAST(alias.Target)
				}
				return unknownType
			default:
				a.reportError(diag.CodeTypeMismatch, tt.Span(),
					"'"+name+"' is a "+sym.Kind.String()+", not a type")
				return unknownType
			}
		}
		return &Named{Name: name}

	case *ast.ReferenceType:
		return &Reference{Mutable: tt.Mutable, Inner: a.typeFromAST(tt.Inner)}

	case *ast.PointerType:
		return &Pointer{Mutable: tt.Mutable, Inner: a.typeFromAST(tt.Inner)}

	case *ast.TupleType:
		elems := make([]Type, len(tt.Types))
		for i, e := range tt.Types {
			elems[i] = a.typeFromAST(e)
		}
		return &Tuple{Elems: elems}

	case *ast.ArrayType:
		size := int64(-1)
		if lit, ok := tt.Size.(*ast.Literal); ok && lit.Kind == ast.LitInteger {
			size = parseIntText(lit.Text)
		}
		return &Array{Elem: a.typeFromAST(tt.Elem), Size: size}

	case *ast.FunctionType:
		sig := &FunctionSig{Return: unitType}
		for _, p := range tt.Params {
			sig.Params = append(sig.Params, a.typeFromAST(p))
		}
		if tt.Return != nil {
			sig.Return = a.typeFromAST(tt.Return)
		}
		return sig

	case *ast.InferredType:
		return unknownType

	case *ast.NeverType:
		return &Never{}

	case *ast.AnnotatedType:
		return a.typeFromAST(tt.Inner)

	default:
		return unknownType
	}
}

// structLayout builds the tuple-of-field-types layout used for size
// estimation. Called after collection so field types can resolve.
func (a *Analyzer) structLayout(item *ast.StructItem) Type {
	layout := &Tuple{}
	switch item.Fields.Kind {
	case ast.FieldsNamed:
		for _, f := range item.Fields.Named {
			layout.Elems = append(layout.Elems, a.typeFromAST(f.Type))
		}
	case ast.FieldsTuple:
		for _, f := range item.Fields.Tuple {
			layout.Elems = append(layout.Elems, a.typeFromAST(f))
		}
	}
	return layout
}

// parseIntText evaluates the digits of an integer literal, honoring the
// base prefix kept in the text. Returns -1 on overflow or bad digits.
func parseIntText(text string) int64 {
	base := int64(10)
	digits := text
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X':
			base, digits = 16, text[2:]
		case 'b', 'B':
			base, digits = 2, text[2:]
		case 'o', 'O':
			base, digits = 8, text[2:]
		}
	}

	var v int64
	for i := 0; i < len(digits); i++ {
		var d int64
		switch c := digits[i]; {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case c >= 'a' && c <= 'f':
			d = int64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int64(c-'A') + 10
		default:
			return -1
		}
		if d >= base {
			return -1
		}
		v = v*base + d
		if v < 0 {
			return -1
		}
	}
	return v
}
