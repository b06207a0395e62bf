// Package ast unifies every XPath construct behind one Node interface
// (spec.md §4: "the grammar productions become AST node kinds, not a
// different engine per production"). Grounded on funxy's
// internal/ast package shape (one Go type per grammar production, each
// carrying its own Span, dispatched through a single Evaluate entry
// point) generalized from funxy's expression-statement split into
// XPath's single-expression-language model.
package ast

import (
	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// Node is any XPath expression tree node.
type Node interface {
	Eval(env *Env) (xdm.Sequence, error)
	Span() diagnostics.Span
}

// Callable is anything an ast.FunctionCallExpr or ArrowExpr can invoke:
// implemented by internal/functions' registry entries, kept as a structural
// interface here so ast never imports
// internal/functions (which itself imports ast's sibling packages,
// not ast) and no import cycle forms.
type Callable interface {
	Call(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error)
	Arity() (min, max int) // max = -1 for unbounded/variadic
}

// FuncRegistry resolves a static function name to a Callable.
type FuncRegistry interface {
	Lookup(uri, local string, arity int) (Callable, bool)
}

// Env threads everything AST evaluation needs beyond the dynamic
// context proper: the function registry (kept separate from
// context.Context to avoid a context<->functions import cycle) and a
// symbolic evaluation-stack trail for diagnostics (spec.md §6).
type Env struct {
	Ctx   *context.Context
	Funcs FuncRegistry
	Stack []diagnostics.StackFrame
}

// WithCtx returns a shallow copy of env pointed at a new dynamic
// context, used at every focus-changing boundary (predicates, steps,
// for/let bindings, function calls).
func (e *Env) WithCtx(ctx *context.Context) *Env {
	cp := *e
	cp.Ctx = ctx
	return &cp
}

// Push records a new frame on the evaluation-stack trail, returning an
// Env carrying it (spec.md §6 "evaluation stack" attached to runtime
// errors).
func (e *Env) Push(symbol string, span diagnostics.Span) *Env {
	cp := *e
	cp.Stack = append(append([]diagnostics.StackFrame{}, e.Stack...), diagnostics.StackFrame{Symbol: symbol, Span: span})
	return &cp
}

func runtimeErr(env *Env, code diagnostics.Code, span diagnostics.Span, format string, args ...interface{}) error {
	err := diagnostics.Runtime(code, span, env.Stack, format, args...)
	return err.WithEvalID(env.Ctx.EvalID)
}

// Literal is a string/integer/decimal/double literal.
type Literal struct {
	Value xdm.Atomic
	Sp    diagnostics.Span
}

func (n *Literal) Span() diagnostics.Span { return n.Sp }
func (n *Literal) Eval(env *Env) (xdm.Sequence, error) {
	return xdm.Singleton(n.Value), nil
}

// VarRef is a `$name` reference.
type VarRef struct {
	URI, Local string
	Sp         diagnostics.Span
}

func (n *VarRef) Span() diagnostics.Span { return n.Sp }
func (n *VarRef) Eval(env *Env) (xdm.Sequence, error) {
	v, ok, err := env.Ctx.Variable(n.URI, n.Local)
	if !ok {
		return nil, runtimeErr(env, diagnostics.XPST0008, n.Sp, "undeclared variable $%s", n.Local)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ContextItemExpr is the `.` expression.
type ContextItemExpr struct {
	Sp diagnostics.Span
}

func (n *ContextItemExpr) Span() diagnostics.Span { return n.Sp }
func (n *ContextItemExpr) Eval(env *Env) (xdm.Sequence, error) {
	if env.Ctx.Item == nil {
		return nil, runtimeErr(env, diagnostics.XPDY0002, n.Sp, "context item is absent")
	}
	return xdm.Singleton(env.Ctx.Item), nil
}

// SequenceExpr is the `,` sequence constructor.
type SequenceExpr struct {
	Operands []Node
	Sp       diagnostics.Span
}

func (n *SequenceExpr) Span() diagnostics.Span { return n.Sp }
func (n *SequenceExpr) Eval(env *Env) (xdm.Sequence, error) {
	var out xdm.Sequence
	for _, o := range n.Operands {
		s, err := o.Eval(env)
		if err != nil {
			return nil, err
		}
		out = append(out, s...)
	}
	return out, nil
}

// ParenExpr is `()` or `( expr )`; distinguishes the empty sequence
// from a single-item sequence built from expr.
type ParenExpr struct {
	Inner Node // nil means `()`
	Sp    diagnostics.Span
}

func (n *ParenExpr) Span() diagnostics.Span { return n.Sp }
func (n *ParenExpr) Eval(env *Env) (xdm.Sequence, error) {
	if n.Inner == nil {
		return nil, nil
	}
	return n.Inner.Eval(env)
}
