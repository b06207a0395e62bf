package ast

import (
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/operators"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// FunctionCallExpr is a static function call `name(args...)` resolved
// by (namespace URI, local name, arity) against the engine's function
// registry (spec.md §4.6).
type FunctionCallExpr struct {
	URI, Local string
	Args       []Node
	Sp         diagnostics.Span
}

func (n *FunctionCallExpr) Span() diagnostics.Span { return n.Sp }

func (n *FunctionCallExpr) Eval(env *Env) (xdm.Sequence, error) {
	argVals := make([]xdm.Sequence, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Eval(env)
		if err != nil {
			return nil, err
		}
		argVals[i] = v
	}
	fn, ok := env.Funcs.Lookup(n.URI, n.Local, len(n.Args))
	if !ok {
		return nil, runtimeErr(env, diagnostics.XPST0017, n.Sp, "unknown function or wrong arity: %s#%d", n.Local, len(n.Args))
	}
	callEnv := env.Push(n.Local, n.Sp)
	r, err := fn.Call(callEnv.Ctx, argVals)
	if err != nil {
		return nil, wrapRuntimeErr(callEnv, err, n.Sp)
	}
	return r, nil
}

// DynamicCallExpr invokes a function-item-valued expression, covering
// both `$f(args)` and the implicit call a FunctionItem receives from
// ArrowExpr/SimpleMapExpr's closures (spec.md §4.6 higher-order calls).
type DynamicCallExpr struct {
	Target Node
	Args   []Node
	Sp     diagnostics.Span
}

func (n *DynamicCallExpr) Span() diagnostics.Span { return n.Sp }

func (n *DynamicCallExpr) Eval(env *Env) (xdm.Sequence, error) {
	tseq, err := n.Target.Eval(env)
	if err != nil {
		return nil, err
	}
	if len(tseq) != 1 {
		return nil, runtimeErr(env, diagnostics.XPTY0004, n.Sp, "dynamic call target is not a single function item")
	}
	argVals := make([]xdm.Sequence, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Eval(env)
		if err != nil {
			return nil, err
		}
		argVals[i] = v
	}
	r, err := callItem(env, tseq[0], argVals, n.Sp)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// callItem invokes any XDM function item: an ordinary FunctionItem, or
// a map/array used as a function from key/position to value (spec.md
// §8's `map { "a": 1, "b": 2 }("b")`, per XDM's "maps and arrays are
// functions" rule).
func callItem(env *Env, item xdm.Item, args []xdm.Sequence, sp diagnostics.Span) (xdm.Sequence, error) {
	switch t := item.(type) {
	case *xdm.FunctionItem:
		r, err := t.Call(args)
		if err != nil {
			return nil, wrapRuntimeErr(env, err, sp)
		}
		return r, nil
	case *xdm.MapItem:
		if len(args) != 1 {
			return nil, runtimeErr(env, diagnostics.XPTY0004, sp, "map used as a function takes exactly one argument, got %d", len(args))
		}
		key, err := AtomizeOne(env, args[0], sp)
		if err != nil {
			return nil, err
		}
		v, _ := t.Get(key)
		return v, nil
	case *xdm.ArrayItem:
		if len(args) != 1 {
			return nil, runtimeErr(env, diagnostics.XPTY0004, sp, "array used as a function takes exactly one argument, got %d", len(args))
		}
		key, err := AtomizeOne(env, args[0], sp)
		if err != nil {
			return nil, err
		}
		pos, err := xdm.Cast(key, xdm.KInteger)
		if err != nil {
			return nil, wrapRuntimeErr(env, err, sp)
		}
		v, ok := t.Get(int(pos.Int.Int64()))
		if !ok {
			return nil, runtimeErr(env, diagnostics.FOAR0002, sp, "array index %d out of bounds", pos.Int.Int64())
		}
		return v, nil
	}
	return nil, runtimeErr(env, diagnostics.XPTY0004, sp, "dynamic call target is not a function item, map, or array")
}

// InlineFunctionExpr is `function($p1 as T1, ...) as R { body }`
// (spec.md §4.6: first-class inline functions), producing a
// FunctionItem closure that captures env by value at construction
// time (XPath has no mutable closures to worry about).
type InlineFunctionExpr struct {
	Params []string // parameter local names, declared types elided (spec.md Non-goals: no schema-validated function signatures)
	Body   Node
	Sp     diagnostics.Span
}

func (n *InlineFunctionExpr) Span() diagnostics.Span { return n.Sp }

func (n *InlineFunctionExpr) Eval(env *Env) (xdm.Sequence, error) {
	capturedEnv := env
	fi := &xdm.FunctionItem{
		Name: "",
		Sig:  xdm.FunctionSignature{ParamTypes: make([]xdm.SequenceType, len(n.Params))},
		Call: func(args []xdm.Sequence) (xdm.Sequence, error) {
			if len(args) != len(n.Params) {
				return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.XPTY0004, n.Sp,
					"inline function expects %d arguments, got %d", len(n.Params), len(args))
			}
			callCtx := capturedEnv.Ctx
			for i, p := range n.Params {
				callCtx = callCtx.WithVariable("", p, args[i])
			}
			r, err := n.Body.Eval(capturedEnv.WithCtx(callCtx))
			return r, err
		},
	}
	return xdm.Singleton(fi), nil
}

// NamedFunctionRefExpr is `name#arity`, a reference to a statically
// resolvable function by name without calling it (spec.md §4.6).
type NamedFunctionRefExpr struct {
	URI, Local string
	Arity      int
	Sp         diagnostics.Span
}

func (n *NamedFunctionRefExpr) Span() diagnostics.Span { return n.Sp }

func (n *NamedFunctionRefExpr) Eval(env *Env) (xdm.Sequence, error) {
	fn, ok := env.Funcs.Lookup(n.URI, n.Local, n.Arity)
	if !ok {
		return nil, runtimeErr(env, diagnostics.XPST0017, n.Sp, "unknown function or wrong arity: %s#%d", n.Local, n.Arity)
	}
	capturedEnv := env
	fi := &xdm.FunctionItem{
		Name: n.Local,
		Sig:  xdm.FunctionSignature{ParamTypes: make([]xdm.SequenceType, n.Arity)},
		Call: func(args []xdm.Sequence) (xdm.Sequence, error) {
			return fn.Call(capturedEnv.Ctx, args)
		},
	}
	return xdm.Singleton(fi), nil
}

// SimpleMapExpr is the `!` operator (spec.md §4.4): apply Right to
// each item of Left's result, with the context focus rebound per item.
type SimpleMapExpr struct {
	Left, Right Node
	Sp          diagnostics.Span
}

func (n *SimpleMapExpr) Span() diagnostics.Span { return n.Sp }

func (n *SimpleMapExpr) Eval(env *Env) (xdm.Sequence, error) {
	lseq, err := n.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	return operators.SimpleMap(lseq, func(item xdm.Item, position int) (xdm.Sequence, error) {
		sub := env.WithCtx(env.Ctx.WithFocus(item, position, len(lseq)))
		return n.Right.Eval(sub)
	})
}

// ArrowExpr is `E => f(args...)` (spec.md §4.4): E becomes f's first
// argument, followed by the explicit arglist. Target may be a static
// name (URI/Local set) or a dynamic function-item expression
// (CalleeExpr set).
type ArrowExpr struct {
	Left       Node
	URI, Local string // static form
	CalleeExpr Node   // dynamic form: `E => $f(args)`
	Args       []Node
	Sp         diagnostics.Span
}

func (n *ArrowExpr) Span() diagnostics.Span { return n.Sp }

func (n *ArrowExpr) Eval(env *Env) (xdm.Sequence, error) {
	lseq, err := n.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	restArgs := make([]xdm.Sequence, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Eval(env)
		if err != nil {
			return nil, err
		}
		restArgs[i] = v
	}
	full := append([]xdm.Sequence{lseq}, restArgs...)

	if n.CalleeExpr != nil {
		tseq, err := n.CalleeExpr.Eval(env)
		if err != nil {
			return nil, err
		}
		if len(tseq) != 1 {
			return nil, runtimeErr(env, diagnostics.XPTY0004, n.Sp, "arrow target is not a single function item")
		}
		return callItem(env, tseq[0], full, n.Sp)
	}

	fn, ok := env.Funcs.Lookup(n.URI, n.Local, len(full))
	if !ok {
		return nil, runtimeErr(env, diagnostics.XPST0017, n.Sp, "unknown function or wrong arity: %s#%d", n.Local, len(full))
	}
	r, err := fn.Call(env.Ctx, full)
	if err != nil {
		return nil, wrapRuntimeErr(env, err, n.Sp)
	}
	return r, nil
}
