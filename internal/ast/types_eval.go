package ast

import (
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// CastExpr is `expr cast as type?` (spec.md §4.2).
type CastExpr struct {
	Operand  Node
	Target   xdm.Kind
	Optional bool
	Sp       diagnostics.Span
}

func (n *CastExpr) Span() diagnostics.Span { return n.Sp }

func (n *CastExpr) Eval(env *Env) (xdm.Sequence, error) {
	seq, err := n.Operand.Eval(env)
	if err != nil {
		return nil, err
	}
	a, ok, err := AtomizeOptional(env, seq, n.Sp)
	if err != nil {
		return nil, err
	}
	if !ok {
		if n.Optional {
			return nil, nil
		}
		return nil, runtimeErr(env, diagnostics.XPTY0004, n.Sp, "cannot cast an empty sequence to a non-optional type")
	}
	r, err := xdm.Cast(a, n.Target)
	if err != nil {
		return nil, wrapRuntimeErr(env, err, n.Sp)
	}
	return xdm.Singleton(r), nil
}

// CastableExpr is `expr castable as type?` (spec.md §4.2): never
// raises, returns false for any error during the would-be cast.
type CastableExpr struct {
	Operand  Node
	Target   xdm.Kind
	Optional bool
	Sp       diagnostics.Span
}

func (n *CastableExpr) Span() diagnostics.Span { return n.Sp }

func (n *CastableExpr) Eval(env *Env) (xdm.Sequence, error) {
	seq, err := n.Operand.Eval(env)
	if err != nil {
		return nil, err
	}
	a, ok, err := AtomizeOptional(env, seq, n.Sp)
	if err != nil {
		return xdm.Singleton(xdm.NewBoolean(false)), nil
	}
	if !ok {
		return xdm.Singleton(xdm.NewBoolean(n.Optional)), nil
	}
	_, err = xdm.Cast(a, n.Target)
	return xdm.Singleton(xdm.NewBoolean(err == nil)), nil
}

// InstanceOfExpr is `expr instance of sequenceType` (spec.md §4.2).
type InstanceOfExpr struct {
	Operand Node
	Type    xdm.SequenceType
	Sp      diagnostics.Span
}

func (n *InstanceOfExpr) Span() diagnostics.Span { return n.Sp }

func (n *InstanceOfExpr) Eval(env *Env) (xdm.Sequence, error) {
	seq, err := n.Operand.Eval(env)
	if err != nil {
		return nil, err
	}
	return xdm.Singleton(xdm.NewBoolean(xdm.Matches(seq, n.Type))), nil
}

// TreatExpr is `expr treat as sequenceType` (spec.md §4.2): raises
// XPDY0050 if the dynamic type does not match.
type TreatExpr struct {
	Operand Node
	Type    xdm.SequenceType
	Sp      diagnostics.Span
}

func (n *TreatExpr) Span() diagnostics.Span { return n.Sp }

func (n *TreatExpr) Eval(env *Env) (xdm.Sequence, error) {
	seq, err := n.Operand.Eval(env)
	if err != nil {
		return nil, err
	}
	if !xdm.Matches(seq, n.Type) {
		return nil, runtimeErr(env, diagnostics.XPDY0050, n.Sp, "value does not match the treat-as sequence type")
	}
	return seq, nil
}
