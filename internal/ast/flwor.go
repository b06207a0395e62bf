package ast

import (
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/operators"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// IfExpr is `if (cond) then t else e` (spec.md §4.5).
type IfExpr struct {
	Cond, Then, Else Node
	Sp               diagnostics.Span
}

func (n *IfExpr) Span() diagnostics.Span { return n.Sp }

func (n *IfExpr) Eval(env *Env) (xdm.Sequence, error) {
	cseq, err := n.Cond.Eval(env)
	if err != nil {
		return nil, err
	}
	v, err := operators.EBV(cseq)
	if err != nil {
		return nil, wrapRuntimeErr(env, err, n.Sp)
	}
	if v {
		return n.Then.Eval(env)
	}
	return n.Else.Eval(env)
}

// Binding is one clause of a for/let/quantified expression.
type Binding struct {
	URI, Local string
	Source     Node
	IsFor      bool // true: `for $x in E` (iterates); false: `let $x := E` (binds once)
}

// ForLetExpr chains one or more for/let bindings followed by a return
// clause (spec.md §4.5's FLWOR-lite: "for/let clauses, no where/order
// by/group by"). Bindings evaluate left to right; each `for` binding
// multiplies the result set (cartesian iteration), each `let` binding
// just extends scope once.
type ForLetExpr struct {
	Bindings []Binding
	Return   Node
	Sp       diagnostics.Span
}

func (n *ForLetExpr) Span() diagnostics.Span { return n.Sp }

func (n *ForLetExpr) Eval(env *Env) (xdm.Sequence, error) {
	return evalBindings(env, n.Bindings, n.Return)
}

func evalBindings(env *Env, bindings []Binding, ret Node) (xdm.Sequence, error) {
	if len(bindings) == 0 {
		return ret.Eval(env)
	}
	b := bindings[0]
	rest := bindings[1:]

	if !b.IsFor {
		// `let` is lazy: the source is not evaluated here at all, only
		// deferred into a thunk that Context.Variable forces (and
		// memoizes) on first reference.
		source, srcEnv := b.Source, env
		lazy := env.Ctx.WithLazyVariable(b.URI, b.Local, func() (xdm.Sequence, error) {
			return source.Eval(srcEnv)
		})
		return evalBindings(env.WithCtx(lazy), rest, ret)
	}

	seq, err := b.Source.Eval(env)
	if err != nil {
		return nil, err
	}
	var out xdm.Sequence
	for _, item := range seq {
		sub := env.WithCtx(env.Ctx.WithVariable(b.URI, b.Local, xdm.Singleton(item)))
		r, err := evalBindings(sub, rest, ret)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

// QuantifierKind distinguishes `some` from `every`.
type QuantifierKind int

const (
	Some QuantifierKind = iota
	Every
)

// QuantifiedExpr is `some $x in E satisfies C` / `every $x in E
// satisfies C` (spec.md §4.5), supporting multiple bound variables.
type QuantifiedExpr struct {
	Kind       QuantifierKind
	Bindings   []Binding
	Satisfies  Node
	Sp         diagnostics.Span
}

func (n *QuantifiedExpr) Span() diagnostics.Span { return n.Sp }

func (n *QuantifiedExpr) Eval(env *Env) (xdm.Sequence, error) {
	result, err := evalQuantified(env, n.Bindings, n.Satisfies, n.Kind)
	if err != nil {
		return nil, err
	}
	return xdm.Singleton(xdm.NewBoolean(result)), nil
}

func evalQuantified(env *Env, bindings []Binding, satisfies Node, kind QuantifierKind) (bool, error) {
	if len(bindings) == 0 {
		seq, err := satisfies.Eval(env)
		if err != nil {
			return false, err
		}
		return operators.EBV(seq)
	}
	b := bindings[0]
	rest := bindings[1:]
	seq, err := b.Source.Eval(env)
	if err != nil {
		return false, err
	}
	for _, item := range seq {
		sub := env.WithCtx(env.Ctx.WithVariable(b.URI, b.Local, xdm.Singleton(item)))
		ok, err := evalQuantified(sub, rest, satisfies, kind)
		if err != nil {
			return false, err
		}
		if kind == Some && ok {
			return true, nil
		}
		if kind == Every && !ok {
			return false, nil
		}
	}
	return kind == Every, nil
}
