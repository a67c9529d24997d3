// Package analysis extracts removable-bound coordinates from parsed Rust
// source. Every bound on a generic parameter or where-clause predicate gets a
// positional coordinate that later addresses exactly that bound during
// mutation, independent of the tree object it was derived from.
package analysis

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"winnow/internal/rustsrc"
)

// SiteKind discriminates the two places a bound can live.
type SiteKind int

const (
	// SiteTypeParam is a bound attached directly to a generic parameter,
	// as in `fn f<T: Clone + Send>()`.
	SiteTypeParam SiteKind = iota
	// SiteWhere is a bound inside a where-clause predicate,
	// as in `where T: Clone, V: Send`.
	SiteWhere
)

// BoundSite is the structural coordinate of one removable bound. Positional
// indices are valid only against the generics snapshot they were derived
// from: removing any bound at or before an index invalidates it.
type BoundSite struct {
	Kind SiteKind

	// Ident is the generic parameter name (type-param sites only).
	Ident string
	// BoundedType is the constrained type expression (where sites only).
	BoundedType string

	// ParamIndex is the parameter's position among all generic parameters.
	ParamIndex int
	// PredIndex is the predicate's position among all where-clause predicates.
	PredIndex int
	// BoundIndex is the bound's position within its bound list.
	BoundIndex int
}

func (s BoundSite) String() string {
	switch s.Kind {
	case SiteWhere:
		return fmt.Sprintf("where %s [pred %d, bound %d]", s.BoundedType, s.PredIndex, s.BoundIndex)
	default:
		return fmt.Sprintf("%s [param %d, bound %d]", s.Ident, s.ParamIndex, s.BoundIndex)
	}
}

// ParamBounds records the bound list of one constrained generic parameter.
type ParamBounds struct {
	Ident      string
	ParamIndex int
	Bounds     []string
}

// WhereBounds records the bound list of one type-shaped where predicate.
type WhereBounds struct {
	BoundedType string
	PredIndex   int
	Bounds      []string
}

// CollectParamBounds derives coordinates for every generic parameter of decl
// that carries at least one bound, preserving source order. Declarations
// without generics yield nil.
func CollectParamBounds(f *rustsrc.File, decl *sitter.Node) []ParamBounds {
	var out []ParamBounds
	for idx, param := range rustsrc.GenericParams(rustsrc.TypeParams(decl)) {
		tb := rustsrc.ParamBoundsNode(param)
		bounds := rustsrc.Bounds(tb)
		if len(bounds) == 0 {
			continue
		}
		pb := ParamBounds{ParamIndex: idx, Bounds: boundTexts(f, bounds)}
		if name := rustsrc.ParamName(param); name != nil {
			pb.Ident = f.Text(name)
		}
		out = append(out, pb)
	}
	return out
}

// CollectWhereBounds derives coordinates for every type-shaped where
// predicate of decl that carries at least one bound. Predicate indices count
// all predicates in the clause, including lifetime predicates that are
// skipped as sites.
func CollectWhereBounds(f *rustsrc.File, decl *sitter.Node) []WhereBounds {
	var out []WhereBounds
	for idx, pred := range rustsrc.WherePredicates(rustsrc.WhereClause(decl)) {
		if !rustsrc.TypeShapedPredicate(pred) {
			continue
		}
		bounds := rustsrc.Bounds(rustsrc.PredicateBounds(pred))
		if len(bounds) == 0 {
			continue
		}
		out = append(out, WhereBounds{
			BoundedType: f.Text(rustsrc.PredicateLeft(pred)),
			PredIndex:   idx,
			Bounds:      boundTexts(f, bounds),
		})
	}
	return out
}

func boundTexts(f *rustsrc.File, nodes []*sitter.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = f.Text(n)
	}
	return out
}
