package functions

import (
	"strings"

	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// registerQName wires fn:QName/local-name-from-QName/prefix-from-QName/
// namespace-uri-from-QName/resolve-QName/namespace-uri-for-prefix
// (spec.md §4.6), grounded on the same node-accessor "pull one field,
// wrap it" shape as builtins_node.go but over xdm.Atomic's QName field
// instead of adapter.Node.
func registerQName(r *Registry) {
	r.fixed(FnNamespace, "QName", 2, fnQName)
	r.fixed(FnNamespace, "local-name-from-QName", 1, fnLocalNameFromQName)
	r.fixed(FnNamespace, "prefix-from-QName", 1, fnPrefixFromQName)
	r.fixed(FnNamespace, "namespace-uri-from-QName", 1, fnNamespaceURIFromQName)
	r.fixed(FnNamespace, "resolve-QName", 2, fnResolveQName)
	r.fixed(FnNamespace, "namespace-uri-for-prefix", 2, fnNamespaceURIForPrefix)
}

func fnQName(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	uri, err := atomizeOptionalString("QName", args[0])
	if err != nil {
		return nil, err
	}
	lexical, err := stringArg("QName", args[1])
	if err != nil {
		return nil, err
	}
	prefix, local := "", lexical
	if i := strings.IndexByte(lexical, ':'); i >= 0 {
		prefix, local = lexical[:i], lexical[i+1:]
	}
	return xdm.Singleton(xdm.NewQName(xdm.QName{Prefix: prefix, URI: uri, Local: local})), nil
}

func fnLocalNameFromQName(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return nil, nil
	}
	a, err := atomizeOne("local-name-from-QName", args[0])
	if err != nil {
		return nil, err
	}
	return strSeq(a.QName.Local), nil
}

func fnPrefixFromQName(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return nil, nil
	}
	a, err := atomizeOne("prefix-from-QName", args[0])
	if err != nil {
		return nil, err
	}
	if a.QName.Prefix == "" {
		return nil, nil
	}
	return strSeq(a.QName.Prefix), nil
}

func fnNamespaceURIFromQName(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return nil, nil
	}
	a, err := atomizeOne("namespace-uri-from-QName", args[0])
	if err != nil {
		return nil, err
	}
	return strSeq(a.QName.URI), nil
}

func fnResolveQName(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return nil, nil
	}
	lexical, err := stringArg("resolve-QName", args[0])
	if err != nil {
		return nil, err
	}
	prefix, local := "", lexical
	if i := strings.IndexByte(lexical, ':'); i >= 0 {
		prefix, local = lexical[:i], lexical[i+1:]
	}
	uri := ""
	if prefix != "" {
		resolved, ok := ctx.ResolveNamespace(prefix)
		if !ok {
			return nil, diagNewFONS0004("resolve-QName: unbound namespace prefix %q", prefix)
		}
		uri = resolved
	} else {
		uri = ctx.DefaultElementNS
	}
	return xdm.Singleton(xdm.NewQName(xdm.QName{Prefix: prefix, URI: uri, Local: local})), nil
}

func fnNamespaceURIForPrefix(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	prefix, err := atomizeOptionalString("namespace-uri-for-prefix", args[0])
	if err != nil {
		return nil, err
	}
	uri, ok := ctx.ResolveNamespace(prefix)
	if !ok {
		return nil, nil
	}
	return strSeq(uri), nil
}
