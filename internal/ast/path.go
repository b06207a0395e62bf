package ast

import (
	"github.com/funvibe/xpathlite/internal/adapter"
	"github.com/funvibe/xpathlite/internal/axes"
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/operators"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// Step is one axis step of a PathExpr (spec.md §4.3): an axis, a node
// test, and zero or more predicates, each of which re-establishes
// focus (position/size) over the step's current candidate list.
type Step struct {
	Axis       axes.Axis
	Test       axes.NodeTest
	Predicates []Node
	Sp         diagnostics.Span
}

// PathExpr is a `/`-or-`//`-separated chain of axis steps (spec.md
// §4.3). Start, when non-nil, is a leading PostfixExpr-based step
// (e.g. `$x` in `$x/a`, `.` in `./a`, `f()` in `f()/a`) whose result
// supplies the initial node set instead of the context item; Root,
// meaningful only when Start is nil, means `/` or `//` opened the
// path and the engine starts from the context item's owning document.
type PathExpr struct {
	Start Node
	Root  bool
	Steps []Step
	Sp    diagnostics.Span
}

func (n *PathExpr) Span() diagnostics.Span { return n.Sp }

func (n *PathExpr) Eval(env *Env) (xdm.Sequence, error) {
	var current []adapter.Node
	switch {
	case n.Start != nil:
		seq, err := n.Start.Eval(env)
		if err != nil {
			return nil, err
		}
		for _, it := range seq {
			ni, ok := it.(xdm.NodeItem)
			if !ok {
				return nil, runtimeErr(env, diagnostics.XPTY0019, n.Sp, "path step operand is not a node")
			}
			current = append(current, ni.Node)
		}
	case n.Root:
		if env.Ctx.Item == nil {
			return nil, runtimeErr(env, diagnostics.XPDY0002, n.Sp, "context item is absent for an absolute path")
		}
		ni, ok := env.Ctx.Item.(xdm.NodeItem)
		if !ok {
			return nil, runtimeErr(env, diagnostics.XPTY0020, n.Sp, "context item is not a node")
		}
		current = []adapter.Node{documentRoot(ni.Node)}
	default:
		if env.Ctx.Item == nil {
			return nil, runtimeErr(env, diagnostics.XPDY0002, n.Sp, "context item is absent")
		}
		ni, ok := env.Ctx.Item.(xdm.NodeItem)
		if !ok {
			return nil, runtimeErr(env, diagnostics.XPTY0020, n.Sp, "context item is not a node")
		}
		current = []adapter.Node{ni.Node}
	}

	for _, step := range n.Steps {
		next, err := evalStep(env, step, current)
		if err != nil {
			return nil, err
		}
		current = axes.Sort(next)
	}
	return xdm.WrapNodes(current), nil
}

func documentRoot(n adapter.Node) adapter.Node {
	cur := n
	for cur.Parent() != nil {
		cur = cur.Parent()
	}
	return cur
}

func evalStep(env *Env, step Step, current []adapter.Node) ([]adapter.Node, error) {
	pk := step.Axis.PrincipalKind()
	var candidates []adapter.Node
	for _, ctxNode := range current {
		for _, cand := range axes.Nodes(step.Axis, ctxNode) {
			if step.Test.Matches(cand, pk) {
				candidates = append(candidates, cand)
			}
		}
	}
	if !step.Axis.Forward() {
		candidates = axes.Sort(candidates)
	}
	for _, pred := range step.Predicates {
		var err error
		candidates, err = filterByPredicate(env, candidates, pred)
		if err != nil {
			return nil, err
		}
	}
	return candidates, nil
}

// filterByPredicate applies a bracketed predicate to a candidate node
// list, implementing the numeric-position shorthand (spec.md §4.3:
// "a predicate whose value is numeric tests context position").
func filterByPredicate(env *Env, candidates []adapter.Node, pred Node) ([]adapter.Node, error) {
	size := len(candidates)
	var out []adapter.Node
	for i, node := range candidates {
		subEnv := env.WithCtx(env.Ctx.WithFocus(xdm.NodeItem{Node: node}, i+1, size))
		seq, err := pred.Eval(subEnv)
		if err != nil {
			return nil, err
		}
		keep, err := predicateKeeps(seq, i+1)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, node)
		}
	}
	return out, nil
}

func predicateKeeps(seq xdm.Sequence, position int) (bool, error) {
	if len(seq) == 1 {
		if a, ok := seq[0].(xdm.Atomic); ok && a.IsNumeric() {
			f, _ := a.NumericValue()
			return f == float64(position), nil
		}
	}
	return operators.EBV(seq)
}

// FilterExpr applies `[...]` predicates (and, for maps/arrays, `?`
// lookups) to a non-path primary expression's result, per spec.md
// §4.3's general postfix-filter production.
type FilterExpr struct {
	Primary    Node
	Predicates []Node
	Sp         diagnostics.Span
}

func (n *FilterExpr) Span() diagnostics.Span { return n.Sp }

func (n *FilterExpr) Eval(env *Env) (xdm.Sequence, error) {
	seq, err := n.Primary.Eval(env)
	if err != nil {
		return nil, err
	}
	for _, pred := range n.Predicates {
		size := len(seq)
		var kept xdm.Sequence
		for i, item := range seq {
			subEnv := env.WithCtx(env.Ctx.WithFocus(item, i+1, size))
			pr, err := pred.Eval(subEnv)
			if err != nil {
				return nil, err
			}
			keep, err := predicateKeeps(pr, i+1)
			if err != nil {
				return nil, err
			}
			if keep {
				kept = append(kept, item)
			}
		}
		seq = kept
	}
	return seq, nil
}
