// Package simple is a minimal in-memory implementation of
// internal/adapter.Node, used by tests and by internal/xmlio (the
// loader cmd/xpathlite reads documents through). The
// core engine never imports this package; XML parsing/DOM
// construction is an external collaborator (spec.md §1/§6). Its node
// shape (element has name+attrs+children+parent, string value
// computed on demand) is a common one across the retrieved pack; it
// is written fresh for this package, not copied from any one example.
package simple

import (
	"strings"

	"github.com/funvibe/xpathlite/internal/adapter"
)

// Node is a tree node belonging to a single Document.
type Node struct {
	doc      *Document
	seq      int64
	kind     adapter.Kind
	name     adapter.ExpandedName
	text     string
	parent   *Node
	children []*Node
	attrs    []*Node
	nsNodes  []*Node
}

// Document is a registry of nodes plus the registration index used
// for cross-document ordering (DESIGN.md: "document ordering across
// foreign documents").
type Document struct {
	Index int
	Root  *Node
	next  int64
}

var docCounter int

// NewDocument starts a fresh document registration.
func NewDocument() *Document {
	docCounter++
	d := &Document{Index: docCounter}
	d.Root = &Node{doc: d, kind: adapter.Document, seq: d.allocSeq()}
	return d
}

func (d *Document) allocSeq() int64 {
	s := d.next
	d.next++
	return s
}

// AddElement appends a new element child under parent (nil means the
// document root) and returns it.
func (d *Document) AddElement(parent *Node, local string, uri ...string) *Node {
	if parent == nil {
		parent = d.Root
	}
	n := &Node{
		doc:    d,
		kind:   adapter.Element,
		name:   adapter.ExpandedName{Local: local, Present: true},
		parent: parent,
		seq:    d.allocSeq(),
	}
	if len(uri) > 0 {
		n.name.URI = uri[0]
	}
	parent.children = append(parent.children, n)
	return n
}

// AddText appends a text child.
func (d *Document) AddText(parent *Node, text string) *Node {
	n := &Node{doc: d, kind: adapter.Text, text: text, parent: parent, seq: d.allocSeq()}
	parent.children = append(parent.children, n)
	return n
}

// AddComment appends a comment child.
func (d *Document) AddComment(parent *Node, text string) *Node {
	n := &Node{doc: d, kind: adapter.Comment, text: text, parent: parent, seq: d.allocSeq()}
	parent.children = append(parent.children, n)
	return n
}

// AddPI appends a processing-instruction child.
func (d *Document) AddPI(parent *Node, target, data string) *Node {
	n := &Node{doc: d, kind: adapter.ProcessingInstruction,
		name: adapter.ExpandedName{Local: target, Present: true}, text: data, parent: parent, seq: d.allocSeq()}
	parent.children = append(parent.children, n)
	return n
}

// SetAttribute adds/overwrites an attribute on elem.
func (d *Document) SetAttribute(elem *Node, local, value string) *Node {
	return d.SetAttributeNS(elem, "", local, value)
}

// SetAttributeNS is SetAttribute with an explicit namespace URI, for
// attributes parsed from a prefixed QName (xmlio.Load).
func (d *Document) SetAttributeNS(elem *Node, uri, local, value string) *Node {
	n := &Node{doc: d, kind: adapter.Attribute,
		name: adapter.ExpandedName{URI: uri, Local: local, Present: true}, text: value, parent: elem, seq: d.allocSeq()}
	elem.attrs = append(elem.attrs, n)
	return n
}

// AddNamespace records an in-scope namespace binding on elem (prefix
// empty names the default namespace). Namespace nodes carry the
// prefix as their name and the bound URI as their string value
// (spec.md §3's seventh node kind, the `namespace::` axis).
func (d *Document) AddNamespace(elem *Node, prefix, uri string) *Node {
	n := &Node{doc: d, kind: adapter.Namespace,
		name: adapter.ExpandedName{Local: prefix, Present: prefix != ""}, text: uri, parent: elem, seq: d.allocSeq()}
	elem.nsNodes = append(elem.nsNodes, n)
	return n
}

func wrap(nodes []*Node) []adapter.Node {
	if nodes == nil {
		return nil
	}
	out := make([]adapter.Node, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func (n *Node) Kind() adapter.Kind        { return n.kind }
func (n *Node) Name() adapter.ExpandedName { return n.name }

func (n *Node) StringValue() string {
	switch n.kind {
	case adapter.Text, adapter.Comment, adapter.ProcessingInstruction, adapter.Attribute:
		return n.text
	case adapter.Element, adapter.Document:
		var sb strings.Builder
		var walk func(*Node)
		walk = func(c *Node) {
			if c.kind == adapter.Text {
				sb.WriteString(c.text)
			}
			for _, ch := range c.children {
				walk(ch)
			}
		}
		walk(n)
		return sb.String()
	}
	return ""
}

func (n *Node) Parent() adapter.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []adapter.Node   { return wrap(n.children) }
func (n *Node) Attributes() []adapter.Node { return wrap(n.attrs) }
func (n *Node) Namespaces() []adapter.Node { return wrap(n.nsNodes) }

func (n *Node) DocumentPosition() adapter.Position {
	return adapter.Position{Doc: n.doc.Index, Seq: n.seq}
}
