package rustsrc

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Grammar node type names this package relies on.
const (
	NodeTypeParameters    = "type_parameters"
	NodeConstrainedParam  = "constrained_type_parameter"
	NodeOptionalParam     = "optional_type_parameter"
	NodeTraitBounds       = "trait_bounds"
	NodeWhereClause       = "where_clause"
	NodeWherePredicate    = "where_predicate"
	NodeLifetime          = "lifetime"
	NodeFunctionItem      = "function_item"
	NodeFunctionSignature = "function_signature_item"
	NodeStructItem        = "struct_item"
	NodeEnumItem          = "enum_item"
	NodeTraitItem         = "trait_item"
	NodeImplItem          = "impl_item"
	NodeModItem           = "mod_item"
	NodeDeclarationList   = "declaration_list"
)

// TypeParams returns the `<...>` generic parameter list of a declaration,
// or nil when the declaration has no generics.
func TypeParams(decl *sitter.Node) *sitter.Node {
	return decl.ChildByFieldName("type_parameters")
}

// GenericParams lists the individual generic parameters (type parameters,
// lifetimes, const parameters) in source order. The positional index of a
// parameter in this slice is its coordinate index.
func GenericParams(tp *sitter.Node) []*sitter.Node {
	if tp == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, tp.NamedChildCount())
	for i := 0; i < int(tp.NamedChildCount()); i++ {
		out = append(out, tp.NamedChild(i))
	}
	return out
}

// ParamBoundsNode returns the `: Bound + Bound` list attached to one generic
// parameter, or nil for an unconstrained parameter. Parameters with defaults
// (`T: Clone = X`) nest the constrained parameter under the default node.
func ParamBoundsNode(param *sitter.Node) *sitter.Node {
	if param.Type() == NodeOptionalParam {
		if name := param.ChildByFieldName("name"); name != nil {
			param = name
		}
	}
	if param.Type() != NodeConstrainedParam {
		return nil
	}
	return param.ChildByFieldName("bounds")
}

// ParamName returns the identifier node of a generic parameter, unwrapping
// constrained and defaulted forms. May be nil for exotic parameters.
func ParamName(param *sitter.Node) *sitter.Node {
	if param.Type() == NodeOptionalParam {
		if name := param.ChildByFieldName("name"); name != nil {
			param = name
		}
	}
	if param.Type() == NodeConstrainedParam {
		return param.ChildByFieldName("left")
	}
	return param
}

// Bounds lists the individual bounds of a trait_bounds node in source order.
func Bounds(tb *sitter.Node) []*sitter.Node {
	if tb == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, tb.NamedChildCount())
	for i := 0; i < int(tb.NamedChildCount()); i++ {
		out = append(out, tb.NamedChild(i))
	}
	return out
}

// WhereClause returns the where clause of a declaration, or nil. The clause
// is a direct named child rather than a field in the Rust grammar.
func WhereClause(decl *sitter.Node) *sitter.Node {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child.Type() == NodeWhereClause {
			return child
		}
	}
	return nil
}

// WherePredicates lists the predicates of a where clause in source order.
// The positional index in this slice is the predicate's coordinate index.
func WherePredicates(wc *sitter.Node) []*sitter.Node {
	if wc == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, wc.NamedChildCount())
	for i := 0; i < int(wc.NamedChildCount()); i++ {
		child := wc.NamedChild(i)
		if child.Type() == NodeWherePredicate {
			out = append(out, child)
		}
	}
	return out
}

// PredicateLeft returns the bounded type expression of a where predicate.
func PredicateLeft(pred *sitter.Node) *sitter.Node {
	return pred.ChildByFieldName("left")
}

// PredicateBounds returns the bound list of a where predicate, or nil.
func PredicateBounds(pred *sitter.Node) *sitter.Node {
	return pred.ChildByFieldName("bounds")
}

// TypeShapedPredicate reports whether a where predicate constrains a type
// expression. Lifetime predicates (`'a: 'b`) are not removable sites.
func TypeShapedPredicate(pred *sitter.Node) bool {
	left := PredicateLeft(pred)
	return left != nil && left.Type() != NodeLifetime
}

// ImplKeyword returns the `impl` keyword token of an impl block. The token is
// the structural anchor for impl blocks, which carry no name.
func ImplKeyword(impl *sitter.Node) *sitter.Node {
	for i := 0; i < int(impl.ChildCount()); i++ {
		child := impl.Child(i)
		if child.Type() == "impl" {
			return child
		}
	}
	return nil
}
