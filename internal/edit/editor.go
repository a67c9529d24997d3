// Package edit removes a single bound from one precisely identified
// declaration. The target declaration is located by the span of its
// identifying token, then the bound addressed by a coordinate is cut out of
// the source bytes, collapsing bound lists, predicates, and clauses that
// become empty.
package edit

import (
	sitter "github.com/smacker/go-tree-sitter"

	"winnow/internal/analysis"
	"winnow/internal/rustsrc"
)

// Target identifies the declaration to mutate. Name is empty for impl
// blocks, which match by anchor alone.
type Target struct {
	Kind   analysis.ItemKind
	Name   string
	Anchor rustsrc.Span
}

// Apply traverses f, finds the first node of the target kind whose anchor
// (and name, where applicable) matches, and removes the bound addressed by
// site. It returns the mutated source and whether a mutation occurred.
// A missing target or a site whose indices fall outside the current generics
// yields (nil, false); the input file is never modified.
func Apply(f *rustsrc.File, target Target, site analysis.BoundSite) ([]byte, bool) {
	e := &editor{f: f, target: target, site: site}
	e.walk(f.Root(), inFile)
	return e.result, e.done
}

type container int

const (
	inFile container = iota
	inImplBody
	inTraitBody
)

type editor struct {
	f      *rustsrc.File
	target Target
	site   analysis.BoundSite
	result []byte
	done   bool
}

func (e *editor) walk(node *sitter.Node, ctx container) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if e.done {
			return
		}
		child := node.NamedChild(i)
		switch child.Type() {
		case rustsrc.NodeFunctionItem:
			switch {
			case ctx == inImplBody && e.target.Kind == analysis.KindImplMethod:
				e.try(child, child.ChildByFieldName("name"))
			case ctx == inTraitBody && e.target.Kind == analysis.KindTraitMethod:
				e.try(child, child.ChildByFieldName("name"))
			case ctx == inFile && e.target.Kind == analysis.KindFunction:
				e.try(child, child.ChildByFieldName("name"))
			}
			if !e.done {
				if body := child.ChildByFieldName("body"); body != nil {
					e.walk(body, inFile)
				}
			}

		case rustsrc.NodeFunctionSignature:
			if ctx == inTraitBody && e.target.Kind == analysis.KindTraitMethod {
				e.try(child, child.ChildByFieldName("name"))
			}

		case rustsrc.NodeStructItem:
			if e.target.Kind == analysis.KindStruct {
				e.try(child, child.ChildByFieldName("name"))
			}

		case rustsrc.NodeEnumItem:
			if e.target.Kind == analysis.KindEnum {
				e.try(child, child.ChildByFieldName("name"))
			}

		case rustsrc.NodeTraitItem:
			if e.target.Kind == analysis.KindTrait {
				e.try(child, child.ChildByFieldName("name"))
			}
			if !e.done {
				if body := child.ChildByFieldName("body"); body != nil {
					e.walk(body, inTraitBody)
				}
			}

		case rustsrc.NodeImplItem:
			if e.target.Kind == analysis.KindImpl {
				e.try(child, rustsrc.ImplKeyword(child))
			}
			if !e.done {
				if body := child.ChildByFieldName("body"); body != nil {
					e.walk(body, inImplBody)
				}
			}

		case rustsrc.NodeModItem:
			if body := child.ChildByFieldName("body"); body != nil {
				e.walk(body, inFile)
			}

		default:
			e.walk(child, ctx)
		}
	}
}

// try attempts the mutation on decl if its anchor and name match the target.
func (e *editor) try(decl, anchor *sitter.Node) {
	if e.done || anchor == nil {
		return
	}
	if !rustsrc.NodeSpan(anchor).Equal(e.target.Anchor) {
		return
	}
	if e.target.Name != "" && e.f.Text(anchor) != e.target.Name {
		return
	}
	if out, ok := removeSite(e.f, decl, e.site); ok {
		e.result = out
		e.done = true
	}
}

func removeSite(f *rustsrc.File, decl *sitter.Node, site analysis.BoundSite) ([]byte, bool) {
	switch site.Kind {
	case analysis.SiteWhere:
		return removeWhereBound(f, decl, site.PredIndex, site.BoundIndex)
	default:
		return removeParamBound(f, decl, site.ParamIndex, site.BoundIndex)
	}
}

// removeParamBound cuts the bound at boundIdx from the parameter at paramIdx.
// Removing the last bound removes the whole `: ...` introducer.
func removeParamBound(f *rustsrc.File, decl *sitter.Node, paramIdx, boundIdx int) ([]byte, bool) {
	params := rustsrc.GenericParams(rustsrc.TypeParams(decl))
	if paramIdx < 0 || paramIdx >= len(params) {
		return nil, false
	}
	tb := rustsrc.ParamBoundsNode(params[paramIdx])
	bounds := rustsrc.Bounds(tb)
	if boundIdx < 0 || boundIdx >= len(bounds) {
		return nil, false
	}
	if len(bounds) == 1 {
		start := trimLeftWS(f.Src, tb.StartByte())
		return splice(f.Src, start, tb.EndByte()), true
	}
	start, end := elemSpan(bounds, boundIdx)
	return splice(f.Src, start, end), true
}

// removeWhereBound cuts the bound at boundIdx from the predicate at predIdx.
// An emptied predicate is dropped; an emptied clause is dropped entirely.
func removeWhereBound(f *rustsrc.File, decl *sitter.Node, predIdx, boundIdx int) ([]byte, bool) {
	wc := rustsrc.WhereClause(decl)
	preds := rustsrc.WherePredicates(wc)
	if predIdx < 0 || predIdx >= len(preds) {
		return nil, false
	}
	pred := preds[predIdx]
	if !rustsrc.TypeShapedPredicate(pred) {
		return nil, false
	}
	bounds := rustsrc.Bounds(rustsrc.PredicateBounds(pred))
	if boundIdx < 0 || boundIdx >= len(bounds) {
		return nil, false
	}
	if len(bounds) > 1 {
		start, end := elemSpan(bounds, boundIdx)
		return splice(f.Src, start, end), true
	}
	if len(preds) == 1 {
		start := trimLeftWS(f.Src, wc.StartByte())
		return splice(f.Src, start, wc.EndByte()), true
	}
	start, end := elemSpan(preds, predIdx)
	return splice(f.Src, start, end), true
}

// elemSpan returns the byte range that removes element idx from a separated
// list along with one separator: up to the next element's start for interior
// elements, or from the previous element's end for the last one.
func elemSpan(nodes []*sitter.Node, idx int) (uint32, uint32) {
	if idx < len(nodes)-1 {
		return nodes[idx].StartByte(), nodes[idx+1].StartByte()
	}
	return nodes[idx-1].EndByte(), nodes[idx].EndByte()
}

func splice(src []byte, start, end uint32) []byte {
	out := make([]byte, 0, len(src)-int(end-start))
	out = append(out, src[:start]...)
	out = append(out, src[end:]...)
	return out
}

func trimLeftWS(src []byte, pos uint32) uint32 {
	for pos > 0 {
		switch src[pos-1] {
		case ' ', '\t', '\n', '\r':
			pos--
		default:
			return pos
		}
	}
	return pos
}
