package functions

import (
	"github.com/funvibe/xpathlite/internal/adapter"
	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// registerNode wires fn: node-accessor functions (spec.md §4.6), all
// of which either read context focus directly or walk adapter.Node
// per spec.md §6's tree-adapter contract. Grounded on funxy's
// builtins_*.go "read one field off the receiver, wrap it" shape,
// there applied to AST nodes rather than XML nodes.
func registerNode(r *Registry) {
	r.register(FnNamespace, "name", 0, 1, fnName)
	r.register(FnNamespace, "local-name", 0, 1, fnLocalName)
	r.register(FnNamespace, "namespace-uri", 0, 1, fnNamespaceURI)
	r.fixed(FnNamespace, "root", 1, fnRoot)
	r.fixed(FnNamespace, "data", 1, fnData)
	r.register(FnNamespace, "base-uri", 0, 1, fnBaseURI)
	r.register(FnNamespace, "document-uri", 0, 1, fnDocumentURI)
	r.fixed(FnNamespace, "position", 0, fnPosition)
	r.fixed(FnNamespace, "last", 0, fnLast)
	r.fixed(FnNamespace, "doc", 1, fnDoc)
	r.fixed(FnNamespace, "doc-available", 1, fnDocAvailable)
	r.register(FnNamespace, "lang", 1, 2, fnLang)
	r.register(FnNamespace, "id", 1, 2, fnID)
	r.fixed(FnNamespace, "generate-id", 1, fnGenerateID)
}

func contextNode(local string, ctx *context.Context) (adapter.Node, error) {
	if ctx.Item == nil {
		return nil, diagNewXPDY0002("%s: context item is absent", local)
	}
	ni, ok := ctx.Item.(xdm.NodeItem)
	if !ok {
		return nil, diagNewXPTY0004("%s: context item is not a node", local)
	}
	return ni.Node, nil
}

func nodeArgOrContext(local string, ctx *context.Context, args []xdm.Sequence, idx int) (adapter.Node, error) {
	if len(args) <= idx {
		return contextNode(local, ctx)
	}
	if args[idx].IsEmpty() {
		return nil, nil
	}
	if len(args[idx]) != 1 {
		return nil, diagNewXPTY0004("%s: argument is not a single node", local)
	}
	ni, ok := args[idx][0].(xdm.NodeItem)
	if !ok {
		return nil, diagNewXPTY0004("%s: argument is not a node", local)
	}
	return ni.Node, nil
}

func fnName(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	n, err := nodeArgOrContext("name", ctx, args, 0)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return strSeq(""), nil
	}
	nm := n.Name()
	if !nm.Present {
		return strSeq(""), nil
	}
	if nm.Prefix != "" {
		return strSeq(nm.Prefix + ":" + nm.Local), nil
	}
	return strSeq(nm.Local), nil
}

func fnLocalName(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	n, err := nodeArgOrContext("local-name", ctx, args, 0)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return strSeq(""), nil
	}
	return strSeq(n.Name().Local), nil
}

func fnNamespaceURI(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	n, err := nodeArgOrContext("namespace-uri", ctx, args, 0)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return strSeq(""), nil
	}
	return strSeq(n.Name().URI), nil
}

func fnRoot(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	n, err := nodeArgOrContext("root", ctx, args, 0)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	cur := n
	for cur.Parent() != nil {
		cur = cur.Parent()
	}
	return xdm.Singleton(xdm.NodeItem{Node: cur}), nil
}

func fnData(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	atoms, err := astAtomize(args[0])
	if err != nil {
		return nil, err
	}
	out := make(xdm.Sequence, len(atoms))
	for i, a := range atoms {
		out[i] = a
	}
	return out, nil
}

// fnBaseURI returns the evaluation's static base URI for any node
// argument/context node; the tree adapter carries no per-node base-URI
// override (spec.md §6 has no xml:base accessor), so every node in one
// evaluation shares ctx.BaseURI.
func fnBaseURI(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	n, err := nodeArgOrContext("base-uri", ctx, args, 0)
	if err != nil {
		return nil, err
	}
	if n == nil || ctx.BaseURI == "" {
		return nil, nil
	}
	return strSeq(ctx.BaseURI), nil
}

func fnDocumentURI(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	n, err := nodeArgOrContext("document-uri", ctx, args, 0)
	if err != nil {
		return nil, err
	}
	if n == nil || n.Kind() != adapter.Document {
		return nil, nil
	}
	uri, ok := ctx.Documents.URIOf(n)
	if !ok {
		return nil, nil
	}
	return strSeq(uri), nil
}

func fnPosition(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if ctx.Item == nil {
		return nil, diagNewXPDY0002("position: context item is absent")
	}
	return intSeq(int64(ctx.Position)), nil
}

func fnLast(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if ctx.Item == nil {
		return nil, diagNewXPDY0002("last: context item is absent")
	}
	return intSeq(int64(ctx.Size)), nil
}

func fnDoc(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	uri, err := atomizeOptionalString("doc", args[0])
	if err != nil {
		return nil, err
	}
	if uri == "" {
		return nil, nil
	}
	if n, ok := ctx.Documents.Get(uri); ok {
		return xdm.Singleton(xdm.NodeItem{Node: n}), nil
	}
	if ctx.Opts.DocLoader == nil {
		return nil, diagNewFODC0002("doc: no document loader configured for %q", uri)
	}
	n, err := ctx.Opts.DocLoader(uri)
	if err != nil {
		return nil, diagNewFODC0002("doc: failed to load %q: %v", uri, err)
	}
	ctx.Documents.Put(uri, n)
	return xdm.Singleton(xdm.NodeItem{Node: n}), nil
}

// fnDocAvailable reports whether fn:doc(uri) would succeed without
// raising an error, per F&O's fn:doc-available. It consults the
// document cache's load ledger first (internal/context/doccache.go)
// and falls back to actually invoking the loader, caching the result
// on success, since a URI neither cached nor ledgered may still be
// loadable.
func fnDocAvailable(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	uri, err := atomizeOptionalString("doc-available", args[0])
	if err != nil {
		return nil, err
	}
	if uri == "" {
		return boolSeq(false), nil
	}
	if ctx.Documents.Available(uri) {
		return boolSeq(true), nil
	}
	if ctx.Opts.DocLoader == nil {
		return boolSeq(false), nil
	}
	n, err := ctx.Opts.DocLoader(uri)
	if err != nil {
		return boolSeq(false), nil
	}
	ctx.Documents.Put(uri, n)
	return boolSeq(true), nil
}

func fnLang(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	testLang, err := atomizeOptionalString("lang", args[0])
	if err != nil {
		return nil, err
	}
	n, err := nodeArgOrContext("lang", ctx, args, 1)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return boolSeq(false), nil
	}
	actual := nodeLang(n)
	return boolSeq(langMatches(testLang, actual)), nil
}

// nodeLang walks up the ancestor axis for the nearest xml:lang
// attribute, per F&O's fn:lang definition.
func nodeLang(n adapter.Node) string {
	for cur := n; cur != nil; cur = cur.Parent() {
		for _, attr := range cur.Attributes() {
			nm := attr.Name()
			if nm.Present && nm.Local == "lang" && nm.URI == "http://www.w3.org/XML/1998/namespace" {
				return attr.StringValue()
			}
		}
	}
	return ""
}

func langMatches(test, actual string) bool {
	if test == "" {
		return actual == ""
	}
	if len(actual) < len(test) {
		return false
	}
	if !equalFoldASCII(actual[:len(test)], test) {
		return false
	}
	return len(actual) == len(test) || actual[len(test)] == '-'
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func fnID(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	atoms, err := astAtomize(args[0])
	if err != nil {
		return nil, err
	}
	n, err := nodeArgOrContext("id", ctx, args, 1)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	root := n
	for root.Parent() != nil {
		root = root.Parent()
	}
	wanted := map[string]bool{}
	for _, a := range atoms {
		for _, tok := range splitFields(a.String()) {
			wanted[tok] = true
		}
	}
	var out xdm.Sequence
	var walk func(nd adapter.Node)
	walk = func(nd adapter.Node) {
		for _, attr := range nd.Attributes() {
			nm := attr.Name()
			if nm.Present && nm.Local == "id" && wanted[attr.StringValue()] {
				out = append(out, xdm.NodeItem{Node: nd})
			}
		}
		for _, c := range nd.Children() {
			walk(c)
		}
	}
	walk(root)
	return out, nil
}

func splitFields(s string) []string {
	var out []string
	cur := ""
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

func fnGenerateID(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return strSeq(""), nil
	}
	if len(args[0]) != 1 {
		return nil, diagNewXPTY0004("generate-id: argument is not a single node")
	}
	ni, ok := args[0][0].(xdm.NodeItem)
	if !ok {
		return nil, diagNewXPTY0004("generate-id: argument is not a node")
	}
	pos := ni.Node.DocumentPosition()
	return strSeq(generateIDString(pos)), nil
}

func generateIDString(pos adapter.Position) string {
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	enc := func(n int64) string {
		if n == 0 {
			return "0"
		}
		neg := n < 0
		if neg {
			n = -n
		}
		var b []byte
		for n > 0 {
			b = append([]byte{digits[n%36]}, b...)
			n /= 36
		}
		if neg {
			return "-" + string(b)
		}
		return string(b)
	}
	return "id" + enc(int64(pos.Doc)) + "-" + enc(pos.Seq)
}
