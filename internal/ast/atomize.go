package ast

import (
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// Atomize implements spec.md §4.2's atomization: nodes yield their
// typed value (untyped-atomic-as-string absent a schema, per
// internal/schema.None), maps/arrays/function items raise FOTY0013
// (surfaced here as XPTY0004, the nearest code this engine's reduced
// error taxonomy models it as — both mean "atomization applied to a
// function-family item").
func Atomize(seq xdm.Sequence) ([]xdm.Atomic, error) {
	out := make([]xdm.Atomic, 0, len(seq))
	for _, it := range seq {
		switch v := it.(type) {
		case xdm.Atomic:
			out = append(out, v)
		case xdm.NodeItem:
			out = append(out, xdm.Atomic{Kind: xdm.KUntypedAtomic, Str: v.Node.StringValue()})
		default:
			return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.XPTY0004, diagnostics.Span{},
				"atomization is not defined for a map, array, or function item")
		}
	}
	return out, nil
}

// AtomizeOne atomizes seq and requires exactly one resulting atomic
// (most scalar operator operands), raising XPTY0004 on a sequence of
// length != 1.
func AtomizeOne(env *Env, seq xdm.Sequence, sp diagnostics.Span) (xdm.Atomic, error) {
	atoms, err := Atomize(seq)
	if err != nil {
		return xdm.Atomic{}, err
	}
	if len(atoms) != 1 {
		return xdm.Atomic{}, runtimeErr(env, diagnostics.XPTY0004, sp,
			"expected a single atomic value, got a sequence of length %d", len(atoms))
	}
	return atoms[0], nil
}

// AtomizeOptional atomizes seq and requires at most one item, returning
// ok=false for the empty sequence.
func AtomizeOptional(env *Env, seq xdm.Sequence, sp diagnostics.Span) (xdm.Atomic, bool, error) {
	if seq.IsEmpty() {
		return xdm.Atomic{}, false, nil
	}
	a, err := AtomizeOne(env, seq, sp)
	return a, true, err
}
