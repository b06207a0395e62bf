// Package adapter defines the tree-adapter interface that the core
// engine depends on to walk XML-like trees (spec.md §6). XML parsing
// and DOM construction are explicitly out of scope for the core; any
// concrete tree representation (an XML parser's DOM, a JSON-ish
// synthetic tree, etc.) need only implement Node.
package adapter

// Kind is one of the seven XDM node kinds (spec.md §3).
type Kind int

const (
	Document Kind = iota
	Element
	Attribute
	Text
	Comment
	ProcessingInstruction
	Namespace
)

func (k Kind) String() string {
	switch k {
	case Document:
		return "document-node"
	case Element:
		return "element"
	case Attribute:
		return "attribute"
	case Text:
		return "text"
	case Comment:
		return "comment"
	case ProcessingInstruction:
		return "processing-instruction"
	case Namespace:
		return "namespace"
	}
	return "unknown"
}

// ExpandedName is a (namespace-uri, local-name) pair; Present is false
// for nodes without a name (text, comment, document).
type ExpandedName struct {
	URI     string
	Local   string
	Prefix  string
	Present bool
}

// Position is a totally-ordered key used for document-order
// comparison (`<<`/`>>`) and for deduplication in set operations
// (spec.md §3). Doc is the document's registration index (see
// DESIGN.md's "document ordering across foreign documents" decision);
// Seq is a preorder sequence number unique within that document.
type Position struct {
	Doc int
	Seq int64
}

// Less reports whether p precedes o in document order.
func (p Position) Less(o Position) bool {
	if p.Doc != o.Doc {
		return p.Doc < o.Doc
	}
	return p.Seq < o.Seq
}

// Node is the tree-adapter interface consumed by the core (spec.md §6).
// Implementations provide reference identity: two Node values
// observing the same underlying tree node must be == comparable (Go
// interface equality over a pointer receiver satisfies this).
type Node interface {
	Kind() Kind
	Name() ExpandedName
	StringValue() string
	// There is no typed-value accessor: atomization (ast.Atomize)
	// takes StringValue and yields it as xs:untypedAtomic.
	Parent() Node
	Children() []Node
	Attributes() []Node
	Namespaces() []Node
	DocumentPosition() Position
}
