package ast

// Walk traverses the AST starting from node, calling fn for each node in
// pre-order. If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	eachChild(node, func(child Node) bool {
		Walk(child, fn)
		return true
	})
}

// eachChild calls fn for every direct child of node, in source order.
// Traversal stops early if fn returns false. This is the single place that
// knows the shape of every node; Walk and the visitor framework both drive
// it so the two traversals cannot drift apart.
func eachChild(node Node, fn func(Node) bool) bool {
	visit := func(n Node) bool {
		if n == nil || isNilNode(n) {
			return true
		}
		return fn(n)
	}

	switch n := node.(type) {
	case *Module:
		for _, item := range n.Items {
			if !visit(item) {
				return false
			}
		}

	case *Function:
		for _, param := range n.Params {
			if !visit(param) {
				return false
			}
		}
		if !visit(n.ReturnType) {
			return false
		}
		if n.Body != nil {
			return visit(n.Body)
		}

	case *Parameter:
		if !visit(n.Pattern) {
			return false
		}
		return visit(n.Type)

	case *StructItem:
		return eachField(n.Fields, visit)

	case *EnumItem:
		for _, variant := range n.Variants {
			if !visit(variant) {
				return false
			}
		}

	case *EnumVariant:
		if !eachField(n.Fields, visit) {
			return false
		}
		return visit(n.Discriminant)

	case *NamedField:
		return visit(n.Type)

	case *TypeAlias:
		return visit(n.Target)

	case *ConstItem:
		if !visit(n.Type) {
			return false
		}
		return visit(n.Value)

	case *ModuleItem:
		for _, item := range n.Items {
			if !visit(item) {
				return false
			}
		}

	case *ImplItem:
		if n.Trait != nil && !visit(n.Trait) {
			return false
		}
		if !visit(n.Target) {
			return false
		}
		for _, item := range n.Items {
			if !visit(item) {
				return false
			}
		}

	case *UseItem:
		// Path segments are interned ids, not nodes.

	case *LetStmt:
		if !visit(n.Pattern) {
			return false
		}
		if !visit(n.Type) {
			return false
		}
		return visit(n.Value)

	case *ExprStmt:
		return visit(n.Expr)

	case *AssignStmt:
		if !visit(n.Target) {
			return false
		}
		return visit(n.Value)

	case *CompoundAssignStmt:
		if !visit(n.Target) {
			return false
		}
		return visit(n.Value)

	case *IfStmt:
		if !visit(n.Condition) {
			return false
		}
		if n.Then != nil && !visit(n.Then) {
			return false
		}
		return visit(n.Else)

	case *WhileStmt:
		if !visit(n.Condition) {
			return false
		}
		if n.Body != nil {
			return visit(n.Body)
		}

	case *ForStmt:
		if !visit(n.Pattern) {
			return false
		}
		if !visit(n.Iterable) {
			return false
		}
		if n.Body != nil {
			return visit(n.Body)
		}

	case *LoopStmt:
		if n.Body != nil {
			return visit(n.Body)
		}

	case *MatchStmt:
		if !visit(n.Subject) {
			return false
		}
		for _, arm := range n.Arms {
			if !visit(arm) {
				return false
			}
		}

	case *MatchArm:
		if !visit(n.Pattern) {
			return false
		}
		return visit(n.Body)

	case *BreakStmt:
		return visit(n.Value)

	case *ContinueStmt:
		// No children.

	case *ReturnStmt:
		return visit(n.Value)

	case *BlockStmt:
		if n.Block != nil {
			return visit(n.Block)
		}

	case *RegionStmt:
		if n.Body != nil {
			return visit(n.Body)
		}

	case *BlockExpr:
		for _, stmt := range n.Stmts {
			if !visit(stmt) {
				return false
			}
		}
		return visit(n.Tail)

	case *Binary:
		if !visit(n.Left) {
			return false
		}
		return visit(n.Right)

	case *Unary:
		return visit(n.Expr)

	case *Call:
		if !visit(n.Callee) {
			return false
		}
		for _, arg := range n.Args {
			if !visit(arg) {
				return false
			}
		}

	case *Parenthesized:
		return visit(n.Inner)

	case *If:
		if !visit(n.Condition) {
			return false
		}
		if n.Then != nil && !visit(n.Then) {
			return false
		}
		return visit(n.Else)

	case *ReferencePattern:
		return visit(n.Inner)

	case *TuplePattern:
		for _, elem := range n.Elements {
			if !visit(elem) {
				return false
			}
		}

	case *ArrayPattern:
		for _, elem := range n.Elements {
			if !visit(elem) {
				return false
			}
		}

	case *StructPattern:
		for _, field := range n.Fields {
			if !visit(field) {
				return false
			}
		}

	case *FieldPattern:
		return visit(n.Pattern)

	case *EnumPattern:
		for _, sub := range n.Payload {
			if !visit(sub) {
				return false
			}
		}

	case *RangePattern:
		if !visit(n.Start) {
			return false
		}
		return visit(n.End)

	case *OrPattern:
		for _, alt := range n.Alternatives {
			if !visit(alt) {
				return false
			}
		}

	case *PathType:
		for _, arg := range n.Args {
			if !visit(arg) {
				return false
			}
		}

	case *ArrayType:
		if !visit(n.Elem) {
			return false
		}
		return visit(n.Size)

	case *ReferenceType:
		return visit(n.Inner)

	case *PointerType:
		return visit(n.Inner)

	case *TupleType:
		for _, typ := range n.Types {
			if !visit(typ) {
				return false
			}
		}

	case *FunctionType:
		for _, param := range n.Params {
			if !visit(param) {
				return false
			}
		}
		return visit(n.Return)

	case *AnnotatedType:
		return visit(n.Inner)

	// Leaf nodes have no children.
	case *Identifier, *Literal, *WildcardPattern, *IdentifierPattern,
		*PrimitiveType, *InferredType, *NeverType:
	}

	return true
}

func eachField(fields Fields, visit func(Node) bool) bool {
	switch fields.Kind {
	case FieldsNamed:
		for _, f := range fields.Named {
			if !visit(f) {
				return false
			}
		}
	case FieldsTuple:
		for _, t := range fields.Tuple {
			if !visit(t) {
				return false
			}
		}
	}
	return true
}

// isNilNode reports whether an interface-typed child holds a nil pointer.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Module:
		return v == nil
	case *BlockExpr:
		return v == nil
	case *PathType:
		return v == nil
	default:
		return false
	}
}
