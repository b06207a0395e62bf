package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/adapter/simple"
	"github.com/funvibe/xpathlite/internal/analyzer"
	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/dialects"
	"github.com/funvibe/xpathlite/internal/pipeline"
	"github.com/funvibe/xpathlite/internal/xdm"
)

func bookstore() *simple.Node {
	doc := simple.NewDocument()
	store := doc.AddElement(nil, "bookstore")
	book := doc.AddElement(store, "book")
	doc.SetAttribute(book, "category", "fiction")
	title := doc.AddElement(book, "title")
	doc.AddText(title, "The Great Gatsby")
	price := doc.AddElement(book, "price")
	doc.AddText(price, "9.99")
	return doc.Root
}

func run(t *testing.T, version dialects.Version, root *simple.Node, expr string) pipeline.Result {
	t.Helper()
	return pipeline.Run(pipeline.Request{
		Source:  expr,
		Version: version,
		Root:    root,
		Options: context.Options{},
	})
}

func TestRunEvaluatesSimplePath(t *testing.T) {
	root := bookstore()
	res := run(t, dialects.V20, root, "/bookstore/book/title")
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Value, 1)
}

func TestRunEvaluatesAttributePredicate(t *testing.T) {
	root := bookstore()
	res := run(t, dialects.V20, root, "/bookstore/book[@category='fiction']/price")
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Value, 1)
}

func TestRunSurfacesAnalyzerDiagnostics(t *testing.T) {
	root := bookstore()
	res := run(t, dialects.V31, root, "nonexistent-function(1, 2)")
	assert.NotEmpty(t, res.Diagnostics)
	assert.Nil(t, res.Value)
}

func TestRunSurfacesParseErrors(t *testing.T) {
	root := bookstore()
	res := run(t, dialects.V31, root, "/bookstore/book[")
	assert.NotEmpty(t, res.Diagnostics)
}

func TestRunHonorsVersionGatedSyntax(t *testing.T) {
	root := bookstore()
	// Maps are a 3.1-only construct (spec.md §7/§8).
	expr := `map{"a": 1}`
	v31 := run(t, dialects.V31, root, expr)
	assert.Empty(t, v31.Diagnostics)

	v10 := run(t, dialects.V10, root, expr)
	assert.NotEmpty(t, v10.Diagnostics)
}

func TestEvaluateWithInitialVariable(t *testing.T) {
	root := bookstore()
	varName := analyzer.VarName{Local: "who"}
	tree, d, err := pipeline.Parse(pipeline.Request{
		Source:  "$who",
		Version: dialects.V20,
	})
	require.NoError(t, err)

	diags := pipeline.Analyze(tree, d, []analyzer.VarName{varName})
	require.Empty(t, diags)

	val, err := pipeline.Evaluate(tree, d, pipeline.Request{
		Root: root,
		InitialVars: map[analyzer.VarName]xdm.Sequence{
			varName: xdm.Sequence{xdm.NewString(xdm.KString, "Alice")},
		},
	})
	require.NoError(t, err)
	require.Len(t, val, 1)
	assert.Equal(t, "Alice", val[0].(xdm.Atomic).String())
}
