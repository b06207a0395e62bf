// Package pipeline orchestrates Parse -> Analyze -> Evaluate for one
// XPath expression (spec.md §12), deliberately NOT the
// `select`/`iter_select`/`Selector` convenience façade (an explicit
// Non-goal — callers compose the three stages themselves, or through
// Run below, and own the adapter.Node tree and variable bindings).
// Grounded on funxy's internal/pipeline.Pipeline (a fixed Processor
// list threading one PipelineContext through), trimmed from funxy's
// general N-stage/Loader-aware pipeline to the three fixed XPath
// stages this engine has.
package pipeline

import (
	"github.com/funvibe/xpathlite/internal/adapter"
	"github.com/funvibe/xpathlite/internal/analyzer"
	"github.com/funvibe/xpathlite/internal/ast"
	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/dialects"
	"github.com/funvibe/xpathlite/internal/kernel"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// Request bundles everything one evaluation needs: the source text,
// which dialect to parse it under, the namespace bindings in scope,
// the external variables the caller will bind (for static analysis),
// the document root the dynamic context starts focused on, and the
// context.Options controlling cancellation/doc-loading/compatibility
// mode.
type Request struct {
	Source       string
	Version      dialects.Version
	Namespaces   kernel.NamespaceResolver
	ExternalVars []analyzer.VarName
	InitialVars  map[analyzer.VarName]xdm.Sequence
	Root         adapter.Node
	Options      context.Options
}

// Result is everything a caller might want back from one Run: the
// parsed tree (reusable for repeated evaluation against different
// contexts), any static diagnostics, and the evaluated value.
type Result struct {
	Tree        ast.Node
	Diagnostics []error
	Value       xdm.Sequence
}

// Parse compiles req.Source under req.Version's grammar profile.
func Parse(req Request) (ast.Node, *dialects.Dialect, error) {
	d := dialects.For(req.Version)
	tree, err := d.Parse(req.Source, req.Namespaces)
	if err != nil {
		return nil, d, err
	}
	return tree, d, nil
}

// Analyze statically checks tree's function calls and variable
// references against d's registry and req.ExternalVars.
func Analyze(tree ast.Node, d *dialects.Dialect, externalVars []analyzer.VarName) []error {
	return analyzer.Analyze(tree, d.Registry, externalVars)
}

// Evaluate runs tree against a freshly constructed dynamic context
// rooted at req.Root, pre-binding req.InitialVars.
func Evaluate(tree ast.Node, d *dialects.Dialect, req Request) (xdm.Sequence, error) {
	ctx := context.New(req.Root, req.Options)
	for name, val := range req.InitialVars {
		ctx = ctx.WithVariable(name.URI, name.Local, val)
	}
	env := &ast.Env{Ctx: ctx, Funcs: d.Registry}
	return tree.Eval(env)
}

// Run executes the full Parse -> Analyze -> Evaluate chain, stopping
// before evaluation if analysis produced any diagnostic (spec.md §12:
// a statically-unresolvable function call or variable should never
// reach the evaluator).
func Run(req Request) Result {
	tree, d, err := Parse(req)
	if err != nil {
		return Result{Diagnostics: []error{err}}
	}
	diags := Analyze(tree, d, req.ExternalVars)
	res := Result{Tree: tree, Diagnostics: diags}
	if len(diags) > 0 {
		return res
	}
	val, err := Evaluate(tree, d, req)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, err)
		return res
	}
	res.Value = val
	return res
}
