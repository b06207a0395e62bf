package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/analyzer"
	"github.com/funvibe/xpathlite/internal/dialects"
)

func TestAnalyzeAcceptsKnownFunctionAndBoundVariable(t *testing.T) {
	d := dialects.For(dialects.V31)
	tree, err := d.Parse("concat($x, 'y')", nil)
	require.NoError(t, err)

	errs := analyzer.Analyze(tree, d.Registry, []analyzer.VarName{{Local: "x"}})
	assert.Empty(t, errs)
}

func TestAnalyzeRejectsUnknownFunction(t *testing.T) {
	d := dialects.For(dialects.V31)
	tree, err := d.Parse("bogus-fn(1)", nil)
	require.NoError(t, err)

	errs := analyzer.Analyze(tree, d.Registry, nil)
	require.Len(t, errs, 1)
}

func TestAnalyzeRejectsWrongArity(t *testing.T) {
	d := dialects.For(dialects.V31)
	tree, err := d.Parse("true(1)", nil)
	require.NoError(t, err)

	errs := analyzer.Analyze(tree, d.Registry, nil)
	require.Len(t, errs, 1)
}

func TestAnalyzeRejectsUnboundVariable(t *testing.T) {
	d := dialects.For(dialects.V31)
	tree, err := d.Parse("$missing", nil)
	require.NoError(t, err)

	errs := analyzer.Analyze(tree, d.Registry, nil)
	require.Len(t, errs, 1)
}

func TestAnalyzeAcceptsForBoundVariable(t *testing.T) {
	d := dialects.For(dialects.V31)
	tree, err := d.Parse("for $i in (1, 2, 3) return $i", nil)
	require.NoError(t, err)

	errs := analyzer.Analyze(tree, d.Registry, nil)
	assert.Empty(t, errs)
}

func TestAnalyzeScopesForBindingToReturnClauseOnly(t *testing.T) {
	d := dialects.For(dialects.V31)
	tree, err := d.Parse("(for $i in (1, 2) return $i), $i", nil)
	require.NoError(t, err)

	errs := analyzer.Analyze(tree, d.Registry, nil)
	require.Len(t, errs, 1)
}

func TestAnalyzeAcceptsInlineFunctionParameter(t *testing.T) {
	d := dialects.For(dialects.V31)
	tree, err := d.Parse("function($n) { $n + 1 }", nil)
	require.NoError(t, err)

	errs := analyzer.Analyze(tree, d.Registry, nil)
	assert.Empty(t, errs)
}

func TestAnalyzeAcceptsNamedFunctionRef(t *testing.T) {
	d := dialects.For(dialects.V31)
	tree, err := d.Parse("true#0", nil)
	require.NoError(t, err)

	errs := analyzer.Analyze(tree, d.Registry, nil)
	assert.Empty(t, errs)
}

func TestAnalyzeRejectsNamedFunctionRefWrongArity(t *testing.T) {
	d := dialects.For(dialects.V31)
	tree, err := d.Parse("true#3", nil)
	require.NoError(t, err)

	errs := analyzer.Analyze(tree, d.Registry, nil)
	require.Len(t, errs, 1)
}

func TestAnalyzeAcceptsStaticArrow(t *testing.T) {
	d := dialects.For(dialects.V31)
	tree, err := d.Parse("'abc' => upper-case()", nil)
	require.NoError(t, err)

	errs := analyzer.Analyze(tree, d.Registry, nil)
	assert.Empty(t, errs)
}
