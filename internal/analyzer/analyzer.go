// Package analyzer performs a static, pre-evaluation pass over a
// parsed expression tree: every statically resolvable function call
// is checked against the function registry, and every variable
// reference is checked against its enclosing for/let/quantified
// bindings plus the caller-declared external variables (spec.md §12
// "Static analysis"). Grounded on funxy's internal/analyzer
// (a bottom-up walk collecting every diagnostic into a report rather
// than failing on the first), scoped down from full Hindley-Milner
// type inference to XDM's simpler job: XPath has no user-declared
// function/variable signatures to infer against, only a fixed,
// already-typed built-in registry and a dynamically-supplied initial
// variable set, so the only soundly static checks are name/arity
// resolution, not full SequenceType inference (recorded as an Open
// Question decision in DESIGN.md).
package analyzer

import (
	"github.com/funvibe/xpathlite/internal/ast"
	"github.com/funvibe/xpathlite/internal/diagnostics"
)

// VarName identifies one externally bound variable (namespace URI may
// be empty), the static counterpart of context.Context.WithVariable.
type VarName struct {
	URI, Local string
}

type scope struct {
	uri, local string
	parent     *scope
}

func (s *scope) has(uri, local string) bool {
	for c := s; c != nil; c = c.parent {
		if c.uri == uri && c.local == local {
			return true
		}
	}
	return false
}

func (s *scope) push(uri, local string) *scope {
	return &scope{uri: uri, local: local, parent: s}
}

// analyzer accumulates diagnostics across the whole walk instead of
// stopping at the first, the same "collect, don't abort" shape as
// funxy's Analyzer.
type analyzer struct {
	reg  ast.FuncRegistry
	errs []error
}

// Analyze walks root, resolving every static function call/arrow/
// named-function-reference against reg and every variable reference
// against its lexical for/let/quantified/inline-function bindings plus
// externalVars, returning every diagnostic found (nil if none).
func Analyze(root ast.Node, reg ast.FuncRegistry, externalVars []VarName) []error {
	a := &analyzer{reg: reg}
	sc := (*scope)(nil)
	for _, v := range externalVars {
		sc = sc.push(v.URI, v.Local)
	}
	a.walk(root, sc)
	return a.errs
}

func (a *analyzer) fail(code diagnostics.Code, sp diagnostics.Span, format string, args ...interface{}) {
	a.errs = append(a.errs, diagnostics.New(diagnostics.PhaseAnalyzer, code, sp, format, args...))
}

func (a *analyzer) checkCall(uri, local string, arity int, sp diagnostics.Span) {
	if _, ok := a.reg.Lookup(uri, local, arity); !ok {
		a.fail(diagnostics.XPST0017, sp, "unknown function or wrong arity: %s#%d", local, arity)
	}
}

// walk recurses over every node kind ast.go/constructors.go/flwor.go/
// functions_eval.go/operators_eval.go/path.go/types_eval.go define,
// threading the lexical variable scope through for/let/quantified
// bindings and inline-function parameters.
func (a *analyzer) walk(n ast.Node, sc *scope) {
	if n == nil {
		return
	}
	switch t := n.(type) {
	case *ast.Literal, *ast.ContextItemExpr:
		// leaves

	case *ast.VarRef:
		if !sc.has(t.URI, t.Local) {
			a.fail(diagnostics.XPST0008, t.Sp, "undeclared variable $%s", t.Local)
		}

	case *ast.SequenceExpr:
		for _, op := range t.Operands {
			a.walk(op, sc)
		}

	case *ast.ParenExpr:
		a.walk(t.Inner, sc)

	case *ast.MapConstructorExpr:
		for _, e := range t.Entries {
			a.walk(e.Key, sc)
			a.walk(e.Value, sc)
		}

	case *ast.ArrayConstructorExpr:
		if t.CurlyBody != nil {
			a.walk(t.CurlyBody, sc)
		}
		for _, m := range t.SquareMembers {
			a.walk(m, sc)
		}

	case *ast.LookupExpr:
		a.walk(t.Target, sc)
		a.walk(t.KeyExpr, sc)

	case *ast.IfExpr:
		a.walk(t.Cond, sc)
		a.walk(t.Then, sc)
		a.walk(t.Else, sc)

	case *ast.ForLetExpr:
		a.walkBindings(t.Bindings, t.Return, sc)

	case *ast.QuantifiedExpr:
		a.walkBindings(t.Bindings, t.Satisfies, sc)

	case *ast.FunctionCallExpr:
		a.checkCall(t.URI, t.Local, len(t.Args), t.Sp)
		for _, arg := range t.Args {
			a.walk(arg, sc)
		}

	case *ast.DynamicCallExpr:
		a.walk(t.Target, sc)
		for _, arg := range t.Args {
			a.walk(arg, sc)
		}

	case *ast.InlineFunctionExpr:
		inner := sc
		for _, p := range t.Params {
			inner = inner.push("", p)
		}
		a.walk(t.Body, inner)

	case *ast.NamedFunctionRefExpr:
		a.checkCall(t.URI, t.Local, t.Arity, t.Sp)

	case *ast.SimpleMapExpr:
		a.walk(t.Left, sc)
		a.walk(t.Right, sc)

	case *ast.ArrowExpr:
		a.walk(t.Left, sc)
		for _, arg := range t.Args {
			a.walk(arg, sc)
		}
		if t.CalleeExpr != nil {
			a.walk(t.CalleeExpr, sc)
		} else {
			a.checkCall(t.URI, t.Local, len(t.Args)+1, t.Sp)
		}

	case *ast.BinaryExpr:
		a.walk(t.Left, sc)
		a.walk(t.Right, sc)

	case *ast.UnaryExpr:
		a.walk(t.Operand, sc)

	case *ast.PathExpr:
		a.walk(t.Start, sc)
		for _, step := range t.Steps {
			for _, pred := range step.Predicates {
				a.walk(pred, sc)
			}
		}

	case *ast.FilterExpr:
		a.walk(t.Primary, sc)
		for _, pred := range t.Predicates {
			a.walk(pred, sc)
		}

	case *ast.CastExpr:
		a.walk(t.Operand, sc)

	case *ast.CastableExpr:
		a.walk(t.Operand, sc)

	case *ast.InstanceOfExpr:
		a.walk(t.Operand, sc)

	case *ast.TreatExpr:
		a.walk(t.Operand, sc)
	}
}

func (a *analyzer) walkBindings(bindings []ast.Binding, ret ast.Node, sc *scope) {
	if len(bindings) == 0 {
		a.walk(ret, sc)
		return
	}
	b := bindings[0]
	a.walk(b.Source, sc)
	a.walkBindings(bindings[1:], ret, sc.push(b.URI, b.Local))
}
