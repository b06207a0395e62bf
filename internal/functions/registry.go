// Package functions is the built-in (QName, arity) -> implementation
// registry consulted by internal/ast's FunctionCallExpr/ArrowExpr/
// NamedFunctionRefExpr (spec.md §4.6). Grounded on funxy's
// internal/modules doc-registry pattern (DocPackage/DocEntry/
// RegisterDocPackage: a package-keyed map populated by init()-time
// registration) generalized from "documentation lookup" to
// "implementation lookup", plus internal/evaluator's
// one-file-per-concern builtins_*.go layout (string/numeric/date/
// regex/map/array/higher-order split across files here the same way).
package functions

import (
	"sort"

	"github.com/funvibe/xpathlite/internal/ast"
	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// FnNamespace is the standard fn: namespace (spec.md §4.6).
const FnNamespace = "http://www.w3.org/2005/xpath-functions"

// MathNamespace is the math: namespace (3.0+, spec.md §4.6).
const MathNamespace = "http://www.w3.org/2005/xpath-functions/math"

// MapNamespace is the map: namespace (3.1, spec.md §4.6).
const MapNamespace = "http://www.w3.org/2005/xpath-functions/map"

// ArrayNamespace is the array: namespace (3.1, spec.md §4.6).
const ArrayNamespace = "http://www.w3.org/2005/xpath-functions/array"

// XsNamespace is the xs: constructor-function namespace.
const XsNamespace = "http://www.w3.org/2001/XMLSchema"

// Impl is the Go implementation of one built-in function signature.
// It mirrors funxy's evaluator.Builtin{Fn, Name} shape, generalized to
// XDM sequences and carrying its own arity bounds instead of relying
// on a separate type-checked call site (spec.md Non-goals: no
// Hindley-Milner unification, arity/type checking is a direct runtime
// check here).
type Impl func(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error)

// entry is one registered built-in, the Registry's analogue of
// funxy's modules.DocEntry.
type entry struct {
	uri, local string
	minArity   int
	maxArity   int // -1 for unbounded
	fn         Impl
}

// boundCallable adapts one arity-specific entry to ast.Callable.
type boundCallable struct{ e *entry }

func (b boundCallable) Call(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return b.e.fn(ctx, args)
}

func (b boundCallable) Arity() (min, max int) { return b.e.minArity, b.e.maxArity }

// Registry resolves (uri, local, arity) to a Callable, and doubles as
// a documentation index the way funxy's modules.docPackages does
// (Names below).
type Registry struct {
	entries map[string][]*entry // keyed by uri#local
}

func newRegistry() *Registry { return &Registry{entries: map[string][]*entry{}} }

func key(uri, local string) string { return uri + "#" + local }

// register adds one built-in under (uri, local), accepting any arity
// in [minArity, maxArity] (maxArity -1 means unbounded).
func (r *Registry) register(uri, local string, minArity, maxArity int, fn Impl) {
	e := &entry{uri: uri, local: local, minArity: minArity, maxArity: maxArity, fn: fn}
	k := key(uri, local)
	r.entries[k] = append(r.entries[k], e)
}

// fixed registers a built-in taking exactly arity arguments.
func (r *Registry) fixed(uri, local string, arity int, fn Impl) {
	r.register(uri, local, arity, arity, fn)
}

// Lookup implements ast.FuncRegistry: arity must fall within some
// registered entry's [min, max] range for (uri, local).
func (r *Registry) Lookup(uri, local string, arity int) (ast.Callable, bool) {
	for _, e := range r.entries[key(uri, local)] {
		if arity >= e.minArity && (e.maxArity == -1 || arity <= e.maxArity) {
			return boundCallable{e}, true
		}
	}
	return nil, false
}

// Names returns every registered (uri, local) pair, sorted, mirroring
// funxy's modules.GetAllDocPackages listing use case (introspection /
// a future `-list-functions` CLI flag).
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
