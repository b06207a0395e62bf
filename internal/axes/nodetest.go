package axes

import "github.com/funvibe/xpathlite/internal/adapter"

// NodeTest filters the result of an axis step (spec.md §4.3).
type NodeTest struct {
	// Kind-test form: Any is a bare node()/wildcard test against the
	// axis's principal kind; HasKind narrows to a specific
	// adapter.Kind (text(), comment(), processing-instruction(),
	// element(), attribute(), document-node()).
	Any     bool
	Kind    adapter.Kind
	HasKind bool

	// Name-test form: prefix/local with wildcard support (* , pfx:*,
	// *:local); AnyURI and AnyLocal both true means "*".
	URI      string
	Local    string
	Wildcard bool // "*" or "pfx:*" or "*:local"
	AnyURI   bool // "*:local": match any namespace
	AnyLocal bool // "pfx:*": match any local name in URI

	// PITarget restricts processing-instruction(name) to a literal
	// target string; empty means any target.
	PITarget string
}

// AnyKindTest is node().
func AnyKindTest() NodeTest { return NodeTest{Any: true} }

// Matches reports whether n satisfies the test when reached via
// principal kind pk.
func (t NodeTest) Matches(n adapter.Node, pk adapter.Kind) bool {
	if t.HasKind {
		if n.Kind() != t.Kind {
			return false
		}
		if t.Kind == adapter.ProcessingInstruction && t.PITarget != "" {
			return n.Name().Local == t.PITarget
		}
		return true
	}
	if t.Any {
		return n.Kind() == pk
	}
	if n.Kind() != pk {
		return false
	}
	name := n.Name()
	if !name.Present {
		return false
	}
	if t.AnyURI && t.AnyLocal {
		return true
	}
	if t.AnyURI {
		return name.Local == t.Local
	}
	if t.AnyLocal {
		return name.URI == t.URI
	}
	return name.URI == t.URI && name.Local == t.Local
}
