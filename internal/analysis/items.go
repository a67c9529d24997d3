package analysis

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"winnow/internal/rustsrc"
)

// ItemKind enumerates the seven declaration kinds that can carry prunable
// bounds. The set is closed: switches over it are exhaustive.
type ItemKind int

const (
	KindFunction ItemKind = iota
	KindStruct
	KindEnum
	KindTrait
	KindImpl
	KindTraitMethod
	KindImplMethod
)

var kindNames = map[ItemKind]string{
	KindFunction:    "function",
	KindStruct:      "struct",
	KindEnum:        "enum",
	KindTrait:       "trait",
	KindImpl:        "impl",
	KindTraitMethod: "trait-method",
	KindImplMethod:  "impl-method",
}

func (k ItemKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ItemKind(%d)", int(k))
}

// ParseKind maps a CLI kind name to its ItemKind.
func ParseKind(s string) (ItemKind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// PruneOrder is the order kinds are processed when pruning all of them.
var PruneOrder = []ItemKind{
	KindFunction, KindImpl, KindTrait, KindTraitMethod, KindImplMethod, KindEnum, KindStruct,
}

// Item is one declaration with at least one removable bound. The anchor span
// identifies the declaration across parses of the same bytes; coordinate
// lists are snapshots and must be re-derived after any accepted removal.
type Item struct {
	Kind ItemKind
	// Name of the declaration; empty for impl blocks, which are anchor-only.
	Name string
	// Label is the human-readable identity used in reports, e.g. "// fn foo".
	Label string
	// Anchor is the span of the identifying token: the name for named kinds,
	// the `impl` keyword for impl blocks.
	Anchor rustsrc.Span
	// Owner labels the enclosing impl/trait for method items.
	Owner string

	Params []ParamBounds
	Wheres []WhereBounds
}

// HasBounds reports whether the item yields at least one candidate.
func (it Item) HasBounds() bool {
	return len(it.Params) > 0 || len(it.Wheres) > 0
}

// Extract walks a parsed file and returns, in source order, every declaration
// of the seven supported kinds whose generics carry at least one bound.
// Methods nested in traits and impls are extracted as their own items,
// independent of whether the enclosing declaration has bounds.
func Extract(f *rustsrc.File) []Item {
	var items []Item
	extractIn(f, f.Root(), &items)
	return items
}

func extractIn(f *rustsrc.File, node *sitter.Node, items *[]Item) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case rustsrc.NodeFunctionItem:
			extractNamed(f, child, KindFunction, "// fn %s", items)
			recurseBody(f, child, items)

		case rustsrc.NodeStructItem:
			extractNamed(f, child, KindStruct, "// struct %s", items)

		case rustsrc.NodeEnumItem:
			extractNamed(f, child, KindEnum, "// enum %s", items)

		case rustsrc.NodeTraitItem:
			extractTrait(f, child, items)

		case rustsrc.NodeImplItem:
			extractImpl(f, child, items)

		case rustsrc.NodeModItem:
			if body := child.ChildByFieldName("body"); body != nil {
				extractIn(f, body, items)
			}

		default:
			extractIn(f, child, items)
		}
	}
}

func recurseBody(f *rustsrc.File, fn *sitter.Node, items *[]Item) {
	if body := fn.ChildByFieldName("body"); body != nil {
		extractIn(f, body, items)
	}
}

func extractNamed(f *rustsrc.File, decl *sitter.Node, kind ItemKind, labelFmt string, items *[]Item) {
	name := decl.ChildByFieldName("name")
	if name == nil {
		return
	}
	it := Item{
		Kind:   kind,
		Name:   f.Text(name),
		Label:  fmt.Sprintf(labelFmt, f.Text(name)),
		Anchor: rustsrc.NodeSpan(name),
		Params: CollectParamBounds(f, decl),
		Wheres: CollectWhereBounds(f, decl),
	}
	if it.HasBounds() {
		*items = append(*items, it)
	}
}

func extractTrait(f *rustsrc.File, decl *sitter.Node, items *[]Item) {
	name := decl.ChildByFieldName("name")
	if name == nil {
		return
	}
	traitName := f.Text(name)
	extractNamed(f, decl, KindTrait, "// trait %s", items)

	// Method generics live on the method signature, not the trait.
	body := decl.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		m := body.NamedChild(i)
		if m.Type() != rustsrc.NodeFunctionItem && m.Type() != rustsrc.NodeFunctionSignature {
			continue
		}
		mname := m.ChildByFieldName("name")
		if mname == nil {
			continue
		}
		it := Item{
			Kind:   KindTraitMethod,
			Name:   f.Text(mname),
			Label:  fmt.Sprintf("// trait %s::%s", traitName, f.Text(mname)),
			Anchor: rustsrc.NodeSpan(mname),
			Owner:  traitName,
			Params: CollectParamBounds(f, m),
			Wheres: CollectWhereBounds(f, m),
		}
		if it.HasBounds() {
			*items = append(*items, it)
		}
		recurseBody(f, m, items)
	}
}

func extractImpl(f *rustsrc.File, decl *sitter.Node, items *[]Item) {
	kw := rustsrc.ImplKeyword(decl)
	typeNode := decl.ChildByFieldName("type")
	if kw == nil || typeNode == nil {
		return
	}
	selfTy := flatten(f.Text(typeNode))

	owner := selfTy
	label := fmt.Sprintf("// impl %s", selfTy)
	if traitNode := decl.ChildByFieldName("trait"); traitNode != nil {
		owner = fmt.Sprintf("%s for %s", flatten(f.Text(traitNode)), selfTy)
		label = fmt.Sprintf("// impl %s", owner)
	}

	it := Item{
		Kind:   KindImpl,
		Label:  label,
		Anchor: rustsrc.NodeSpan(kw),
		Params: CollectParamBounds(f, decl),
		Wheres: CollectWhereBounds(f, decl),
	}
	if it.HasBounds() {
		*items = append(*items, it)
	}

	body := decl.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		m := body.NamedChild(i)
		if m.Type() != rustsrc.NodeFunctionItem {
			continue
		}
		mname := m.ChildByFieldName("name")
		if mname == nil {
			continue
		}
		mit := Item{
			Kind:   KindImplMethod,
			Name:   f.Text(mname),
			Label:  fmt.Sprintf("// %s::%s", owner, f.Text(mname)),
			Anchor: rustsrc.NodeSpan(mname),
			Owner:  owner,
			Params: CollectParamBounds(f, m),
			Wheres: CollectWhereBounds(f, m),
		}
		if mit.HasBounds() {
			*items = append(*items, mit)
		}
		recurseBody(f, m, items)
	}
}

// flatten collapses a multi-line type expression into a single-line label.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
