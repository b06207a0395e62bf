// Package context implements the XPath dynamic evaluation context
// (spec.md §4.7): context item/position/size, variable scopes,
// namespace bindings, the frozen current-dateTime, and the
// context-scoped document cache. Contexts are copy-on-write snapshots
// (spec.md §9 "Context immutability") rather than mutable globals.
//
// Grounded on funxy's environment-chaining pattern in
// internal/evaluator (parent-env lookup for variable scoping),
// generalized into explicit With* constructors so every sub-
// expression that changes focus (predicates, for/let bindings,
// function-call boundaries) gets its own immutable snapshot.
package context

import (
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/xpathlite/internal/adapter"
	"github.com/funvibe/xpathlite/internal/schema"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// Options configures engine-wide, evaluation-spanning behavior that
// does not change across clones (spec.md §5 "Cancellation/timeouts",
// §7 "compatibility mode").
type Options struct {
	// CompatibilityMode enables XPath-1.0-style string/number
	// coercion instead of raising XPTY0004 (spec.md §7).
	CompatibilityMode bool
	// Cancel, if non-nil, is the flag Context.Cancelled reports
	// (spec.md §5). The evaluator does not call Cancelled, so setting
	// it does not abort an evaluation in progress.
	Cancel func() bool
	// DocLoader resolves an absolute URI to a document root node for
	// fn:doc/fn:doc-available. Network/file I/O never happens
	// implicitly; the caller owns this callback (spec.md §5).
	DocLoader func(uri string) (adapter.Node, error)
}

// variableScope is one frame of the copy-on-write variable stack.
// Either value is bound directly (`for`, function parameters) or
// thunk holds a deferred, memoized `let` binding (spec.md §4.5: "value
// computed on first use, memoized per invocation").
type variableScope struct {
	name   string
	uri    string
	value  xdm.Sequence
	thunk  *letThunk
	parent *variableScope
}

// letThunk defers a `let` binding's source evaluation until first
// reference and caches the outcome, so a never-referenced binding
// (e.g. `let $x := 1 div 0 return "ok"`) never raises its error.
// Evaluation is single-threaded per in-flight evaluation (Non-goals:
// "thread-safe shared evaluation"), so no locking is needed.
type letThunk struct {
	eval     func() (xdm.Sequence, error)
	computed bool
	value    xdm.Sequence
	err      error
}

func (t *letThunk) force() (xdm.Sequence, error) {
	if !t.computed {
		t.value, t.err = t.eval()
		t.computed = true
	}
	return t.value, t.err
}

// Context is an immutable evaluation-context snapshot. Every field is
// either a value type or a pointer to an immutable structure, so
// With* methods can share unmodified substructure freely.
type Context struct {
	// Focus (spec.md §4.7 / Glossary "Focus").
	Item     xdm.Item
	Position int
	Size     int

	vars *variableScope

	Namespaces            map[string]string // prefix -> URI
	DefaultElementNS      string
	DefaultFunctionNS     string

	Documents *DocumentCache
	BaseURI   string

	CurrentDateTime time.Time
	ImplicitTZ      time.Duration // offset east of UTC

	Collations       map[string]Collation
	DefaultCollation string

	Schema schema.Schema

	Opts Options

	// EvalID correlates this context (and every clone derived from
	// it) with one evaluation run (SPEC_FULL.md: "evaluation-stack
	// correlation key").
	EvalID string
}

// New creates the root context for one evaluation, sampling
// current-dateTime exactly once (spec.md §4.7: "must remain stable
// across an entire evaluation").
func New(root adapter.Node, opts Options) *Context {
	c := &Context{
		Item:             xdm.NodeItem{Node: root},
		Position:         1,
		Size:             1,
		Namespaces:       map[string]string{"xml": "http://www.w3.org/XML/1998/namespace"},
		Documents:        NewDocumentCache(),
		CurrentDateTime:  time.Now(),
		Collations:       map[string]Collation{DefaultCollationURI: UnicodeCodepointCollation{}},
		DefaultCollation: DefaultCollationURI,
		Schema:           schema.None{},
		Opts:             opts,
		EvalID:           uuid.NewString(),
	}
	_, c.ImplicitTZ = c.CurrentDateTime.Zone()
	if root != nil {
		c.Documents.Register(root)
	}
	return c
}

func (c *Context) clone() *Context {
	cp := *c
	return &cp
}

// WithFocus returns a snapshot with a new context item/position/size,
// used when entering a predicate or step (spec.md §4.3/§4.7).
func (c *Context) WithFocus(item xdm.Item, position, size int) *Context {
	cp := c.clone()
	cp.Item, cp.Position, cp.Size = item, position, size
	return cp
}

// WithVariable returns a snapshot binding name (optionally
// namespace-qualified by uri) to value, shadowing any outer binding
// of the same name (spec.md §4.5: "innermost-binding-wins").
func (c *Context) WithVariable(uri, name string, value xdm.Sequence) *Context {
	cp := c.clone()
	cp.vars = &variableScope{name: name, uri: uri, value: value, parent: c.vars}
	return cp
}

// WithLazyVariable returns a snapshot binding name to a `let` source
// that is only evaluated the first time the variable is referenced,
// then memoized (spec.md §4.5).
func (c *Context) WithLazyVariable(uri, name string, eval func() (xdm.Sequence, error)) *Context {
	cp := c.clone()
	cp.vars = &variableScope{name: name, uri: uri, thunk: &letThunk{eval: eval}, parent: c.vars}
	return cp
}

// Variable looks up a bound variable, walking the scope chain
// innermost-first, forcing and memoizing a `let` thunk on first
// reference. ok is false if undeclared (XPST0008, raised by the
// caller with the offending token's span); err is non-nil only if
// forcing a `let` thunk's source expression failed.
func (c *Context) Variable(uri, name string) (xdm.Sequence, bool, error) {
	for s := c.vars; s != nil; s = s.parent {
		if s.name == name && s.uri == uri {
			if s.thunk != nil {
				v, err := s.thunk.force()
				return v, true, err
			}
			return s.value, true, nil
		}
	}
	return nil, false, nil
}

// WithNamespace returns a snapshot with an added/overridden prefix
// binding.
func (c *Context) WithNamespace(prefix, uri string) *Context {
	cp := c.clone()
	ns := make(map[string]string, len(c.Namespaces)+1)
	for k, v := range c.Namespaces {
		ns[k] = v
	}
	ns[prefix] = uri
	cp.Namespaces = ns
	return cp
}

// ResolveNamespace resolves a prefix to its URI, per the static
// in-scope namespace bindings (XPST0081 if unbound and non-empty).
func (c *Context) ResolveNamespace(prefix string) (string, bool) {
	if prefix == "" {
		return c.DefaultElementNS, true
	}
	uri, ok := c.Namespaces[prefix]
	return uri, ok
}

// Collation returns the named collation, or the default collation if
// uri is empty.
func (c *Context) Collation(uri string) (Collation, bool) {
	if uri == "" {
		uri = c.DefaultCollation
	}
	col, ok := c.Collations[uri]
	return col, ok
}

// Cancelled polls the caller-supplied cancellation flag (spec.md §5).
func (c *Context) Cancelled() bool {
	return c.Opts.Cancel != nil && c.Opts.Cancel()
}

// ImplicitTimezoneMinutes returns the implicit timezone as signed
// minutes east of UTC, for date/time comparisons missing a timezone
// (spec.md §4.6).
func (c *Context) ImplicitTimezoneMinutes() int {
	return int(c.ImplicitTZ.Minutes())
}
