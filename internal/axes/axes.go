// Package axes implements the thirteen XPath axes over
// internal/adapter.Node (spec.md §4.3). No teacher analogue exists —
// funxy has no tree-shaped data model — so this is grounded directly
// on spec.md's axis table and principal-node-kind rule.
package axes

import (
	"sort"

	"github.com/funvibe/xpathlite/internal/adapter"
)

// Axis identifies one of the thirteen XPath axes.
type Axis int

const (
	Child Axis = iota
	Descendant
	DescendantOrSelf
	Self
	Parent
	Ancestor
	AncestorOrSelf
	FollowingSibling
	PrecedingSibling
	Following
	Preceding
	AttributeAxis
	NamespaceAxis
)

var names = map[string]Axis{
	"child": Child, "descendant": Descendant, "descendant-or-self": DescendantOrSelf,
	"self": Self, "parent": Parent, "ancestor": Ancestor, "ancestor-or-self": AncestorOrSelf,
	"following-sibling": FollowingSibling, "preceding-sibling": PrecedingSibling,
	"following": Following, "preceding": Preceding,
	"attribute": AttributeAxis, "namespace": NamespaceAxis,
}

// ByName resolves an axis keyword to an Axis.
func ByName(name string) (Axis, bool) {
	a, ok := names[name]
	return a, ok
}

// PrincipalKind is the node kind selected by a bare-name node test on
// axis a (spec.md Glossary: "element for child/descendant, attribute
// for attribute, namespace for namespace").
func (a Axis) PrincipalKind() adapter.Kind {
	switch a {
	case AttributeAxis:
		return adapter.Attribute
	case NamespaceAxis:
		return adapter.Namespace
	default:
		return adapter.Element
	}
}

// Forward reports whether the axis enumerates nodes in document
// order (forward axes) vs reverse document order (reverse axes:
// ancestor, ancestor-or-self, preceding, preceding-sibling, parent).
func (a Axis) Forward() bool {
	switch a {
	case Ancestor, AncestorOrSelf, Preceding, PrecedingSibling, Parent:
		return false
	default:
		return true
	}
}

// Nodes returns the axis's node set from ctxNode, in the axis's
// natural order (callers that need document order call Sort
// separately, as path evaluation does per spec.md §4.3).
func Nodes(a Axis, ctxNode adapter.Node) []adapter.Node {
	switch a {
	case Child:
		return ctxNode.Children()
	case Descendant:
		return descendants(ctxNode, false)
	case DescendantOrSelf:
		return descendants(ctxNode, true)
	case Self:
		return []adapter.Node{ctxNode}
	case Parent:
		if p := ctxNode.Parent(); p != nil {
			return []adapter.Node{p}
		}
		return nil
	case Ancestor:
		return ancestors(ctxNode, false)
	case AncestorOrSelf:
		return ancestors(ctxNode, true)
	case FollowingSibling:
		return siblings(ctxNode, true)
	case PrecedingSibling:
		return siblings(ctxNode, false)
	case Following:
		return following(ctxNode)
	case Preceding:
		return preceding(ctxNode)
	case AttributeAxis:
		return ctxNode.Attributes()
	case NamespaceAxis:
		return ctxNode.Namespaces()
	}
	return nil
}

func descendants(n adapter.Node, includeSelf bool) []adapter.Node {
	var out []adapter.Node
	if includeSelf {
		out = append(out, n)
	}
	var walk func(adapter.Node)
	walk = func(cur adapter.Node) {
		for _, c := range cur.Children() {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

func ancestors(n adapter.Node, includeSelf bool) []adapter.Node {
	var out []adapter.Node
	if includeSelf {
		out = append(out, n)
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

func siblings(n adapter.Node, after bool) []adapter.Node {
	p := n.Parent()
	if p == nil {
		return nil
	}
	children := p.Children()
	idx := -1
	for i, c := range children {
		if c == n {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	var out []adapter.Node
	if after {
		out = append(out, children[idx+1:]...)
	} else {
		// preceding-sibling is in reverse document order.
		for i := idx - 1; i >= 0; i-- {
			out = append(out, children[i])
		}
	}
	return out
}

// following is every node after ctxNode in document order excluding
// descendants and attributes/namespaces of ctxNode.
func following(ctxNode adapter.Node) []adapter.Node {
	root := documentRoot(ctxNode)
	all := descendants(root, true)
	var out []adapter.Node
	selfPos := ctxNode.DocumentPosition()
	excluded := descendantSet(ctxNode)
	for _, n := range all {
		if n.DocumentPosition().Less(selfPos) || n == ctxNode {
			continue
		}
		if excluded[n] {
			continue
		}
		out = append(out, n)
	}
	return out
}

// preceding is every node before ctxNode in document order excluding
// ancestors, in reverse document order.
func preceding(ctxNode adapter.Node) []adapter.Node {
	root := documentRoot(ctxNode)
	all := descendants(root, true)
	ancestorSet := map[adapter.Node]bool{}
	for _, a := range ancestors(ctxNode, true) {
		ancestorSet[a] = true
	}
	selfPos := ctxNode.DocumentPosition()
	var out []adapter.Node
	for i := len(all) - 1; i >= 0; i-- {
		n := all[i]
		if !n.DocumentPosition().Less(selfPos) {
			continue
		}
		if ancestorSet[n] {
			continue
		}
		out = append(out, n)
	}
	return out
}

func descendantSet(n adapter.Node) map[adapter.Node]bool {
	set := map[adapter.Node]bool{}
	for _, d := range descendants(n, false) {
		set[d] = true
	}
	return set
}

func documentRoot(n adapter.Node) adapter.Node {
	cur := n
	for cur.Parent() != nil {
		cur = cur.Parent()
	}
	return cur
}

// Sort returns nodes in document order with duplicates removed by
// identity (spec.md §4.3: path evaluation "deduplicate by identity
// and sort in document order").
func Sort(nodes []adapter.Node) []adapter.Node {
	seen := map[adapter.Node]bool{}
	uniq := make([]adapter.Node, 0, len(nodes))
	for _, n := range nodes {
		if !seen[n] {
			seen[n] = true
			uniq = append(uniq, n)
		}
	}
	sort.Slice(uniq, func(i, j int) bool {
		return uniq[i].DocumentPosition().Less(uniq[j].DocumentPosition())
	})
	return uniq
}
