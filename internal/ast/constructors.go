package ast

import (
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// MapEntryNode is one `key: value` pair of a map constructor.
type MapEntryNode struct {
	Key, Value Node
}

// MapConstructorExpr is `map { k1: v1, k2: v2, ... }` (spec.md §3.1).
type MapConstructorExpr struct {
	Entries []MapEntryNode
	Sp      diagnostics.Span
}

func (n *MapConstructorExpr) Span() diagnostics.Span { return n.Sp }

func (n *MapConstructorExpr) Eval(env *Env) (xdm.Sequence, error) {
	m := xdm.NewMap()
	for _, e := range n.Entries {
		kseq, err := e.Key.Eval(env)
		if err != nil {
			return nil, err
		}
		key, err := AtomizeOne(env, kseq, n.Sp)
		if err != nil {
			return nil, err
		}
		vseq, err := e.Value.Eval(env)
		if err != nil {
			return nil, err
		}
		m = m.Put(key, vseq)
	}
	return xdm.Singleton(m), nil
}

// ArrayConstructorExpr covers both the square-bracket form
// `[e1, e2, ...]` (each member its own sequence) and the curly form
// `array { expr }` (expr's result flattened and re-singleton-boxed
// member-by-member) per spec.md §3.1.
type ArrayConstructorExpr struct {
	SquareMembers []Node // non-nil for `[...]`
	CurlyBody     Node   // non-nil for `array {...}`
	Sp            diagnostics.Span
}

func (n *ArrayConstructorExpr) Span() diagnostics.Span { return n.Sp }

func (n *ArrayConstructorExpr) Eval(env *Env) (xdm.Sequence, error) {
	if n.CurlyBody != nil {
		seq, err := n.CurlyBody.Eval(env)
		if err != nil {
			return nil, err
		}
		members := make([]xdm.Sequence, len(seq))
		for i, it := range seq {
			members[i] = xdm.Singleton(it)
		}
		return xdm.Singleton(xdm.NewArray(members...)), nil
	}
	members := make([]xdm.Sequence, len(n.SquareMembers))
	for i, m := range n.SquareMembers {
		seq, err := m.Eval(env)
		if err != nil {
			return nil, err
		}
		members[i] = seq
	}
	return xdm.Singleton(xdm.NewArray(members...)), nil
}

// LookupExpr implements the `?key`/`?*`/`?(expr)` map/array lookup
// postfix operator (spec.md §3.1). Target evaluates to a singleton
// map or array; KeyExpr nil with Star=true means `?*` (all values).
type LookupExpr struct {
	Target  Node
	KeyExpr Node // nil for `?*`
	Star    bool
	Sp      diagnostics.Span
}

func (n *LookupExpr) Span() diagnostics.Span { return n.Sp }

func (n *LookupExpr) Eval(env *Env) (xdm.Sequence, error) {
	tseq, err := n.Target.Eval(env)
	if err != nil {
		return nil, err
	}
	if len(tseq) != 1 {
		return nil, runtimeErr(env, diagnostics.XPTY0004, n.Sp, "lookup target is not a single map or array")
	}
	switch t := tseq[0].(type) {
	case *xdm.MapItem:
		if n.Star {
			var out xdm.Sequence
			for _, e := range t.Entries() {
				out = append(out, e.Value...)
			}
			return out, nil
		}
		kseq, err := n.KeyExpr.Eval(env)
		if err != nil {
			return nil, err
		}
		key, err := AtomizeOne(env, kseq, n.Sp)
		if err != nil {
			return nil, err
		}
		v, _ := t.Get(key)
		return v, nil
	case *xdm.ArrayItem:
		if n.Star {
			var out xdm.Sequence
			for _, m := range t.Members() {
				out = append(out, m...)
			}
			return out, nil
		}
		kseq, err := n.KeyExpr.Eval(env)
		if err != nil {
			return nil, err
		}
		key, err := AtomizeOne(env, kseq, n.Sp)
		if err != nil {
			return nil, err
		}
		pos, err := xdm.Cast(key, xdm.KInteger)
		if err != nil {
			return nil, wrapRuntimeErr(env, err, n.Sp)
		}
		v, ok := t.Get(int(pos.Int.Int64()))
		if !ok {
			return nil, runtimeErr(env, diagnostics.FOAR0002, n.Sp, "array index %d out of bounds", pos.Int.Int64())
		}
		return v, nil
	}
	return nil, runtimeErr(env, diagnostics.XPTY0004, n.Sp, "lookup target is not a map or array")
}
