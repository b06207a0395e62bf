package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/adapter/simple"
	"github.com/funvibe/xpathlite/internal/ast"
	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/dialects"
	"github.com/funvibe/xpathlite/internal/pipeline"
	"github.com/funvibe/xpathlite/internal/xdm"
)

func newEnv(t *testing.T) *ast.Env {
	t.Helper()
	doc := simple.NewDocument()
	root := doc.AddElement(nil, "root")
	ctx := context.New(root, context.Options{})
	return &ast.Env{Ctx: ctx}
}

func bookstore() *simple.Node {
	doc := simple.NewDocument()
	store := doc.AddElement(nil, "bookstore")
	book := doc.AddElement(store, "book")
	title := doc.AddElement(book, "title")
	doc.AddText(title, "The Great Gatsby")
	return doc.Root
}

func run(t *testing.T, version dialects.Version, root *simple.Node, expr string) pipeline.Result {
	t.Helper()
	return pipeline.Run(pipeline.Request{Source: expr, Version: version, Root: root, Options: context.Options{}})
}

func TestLiteralEvalReturnsSingleton(t *testing.T) {
	env := newEnv(t)
	lit := &ast.Literal{Value: xdm.NewInteger(42)}
	seq, err := lit.Eval(env)
	require.NoError(t, err)
	require.Len(t, seq, 1)
	assert.Equal(t, int64(42), seq[0].(xdm.Atomic).Int.Int64())
}

func TestVarRefUndeclaredRaisesXPST0008(t *testing.T) {
	env := newEnv(t)
	ref := &ast.VarRef{Local: "nope"}
	_, err := ref.Eval(env)
	require.Error(t, err)
	assert.True(t, diagnostics.Is(err, diagnostics.XPST0008))
}

func TestVarRefResolvesBoundValue(t *testing.T) {
	env := newEnv(t)
	env = env.WithCtx(env.Ctx.WithVariable("", "x", xdm.Sequence{xdm.NewInteger(7)}))
	ref := &ast.VarRef{Local: "x"}
	seq, err := ref.Eval(env)
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq[0].(xdm.Atomic).Int.Int64())
}

func TestIfExprTakesThenBranchOnTrue(t *testing.T) {
	env := newEnv(t)
	n := &ast.IfExpr{
		Cond: &ast.Literal{Value: xdm.NewBoolean(true)},
		Then: &ast.Literal{Value: xdm.NewString(xdm.KString, "yes")},
		Else: &ast.Literal{Value: xdm.NewString(xdm.KString, "no")},
	}
	seq, err := n.Eval(env)
	require.NoError(t, err)
	assert.Equal(t, "yes", seq[0].(xdm.Atomic).Str)
}

func TestIfExprTakesElseBranchOnFalse(t *testing.T) {
	env := newEnv(t)
	n := &ast.IfExpr{
		Cond: &ast.Literal{Value: xdm.NewBoolean(false)},
		Then: &ast.Literal{Value: xdm.NewString(xdm.KString, "yes")},
		Else: &ast.Literal{Value: xdm.NewString(xdm.KString, "no")},
	}
	seq, err := n.Eval(env)
	require.NoError(t, err)
	assert.Equal(t, "no", seq[0].(xdm.Atomic).Str)
}

func TestSequenceExprFlattensOperands(t *testing.T) {
	env := newEnv(t)
	n := &ast.SequenceExpr{Operands: []ast.Node{
		&ast.Literal{Value: xdm.NewInteger(1)},
		&ast.Literal{Value: xdm.NewInteger(2)},
	}}
	seq, err := n.Eval(env)
	require.NoError(t, err)
	assert.Len(t, seq, 2)
}

func TestParenExprEmptyIsEmptySequence(t *testing.T) {
	env := newEnv(t)
	n := &ast.ParenExpr{}
	seq, err := n.Eval(env)
	require.NoError(t, err)
	assert.Empty(t, seq)
}

func TestLetBindingIsLazyAndMemoized(t *testing.T) {
	// Regression: `let $x := (1 div 0) return "ok"` must not force the
	// division-by-zero source since $x is never referenced.
	res := run(t, dialects.V30, bookstore(), `let $x := (1 div 0) return "ok"`)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Value, 1)
	assert.Equal(t, "ok", res.Value[0].(xdm.Atomic).Str)
}

func TestLetBindingValueIsUsableWhenReferenced(t *testing.T) {
	res := run(t, dialects.V30, bookstore(), `let $x := 1 + 1 return $x`)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Value, 1)
	assert.Equal(t, int64(2), res.Value[0].(xdm.Atomic).Int.Int64())
}

func TestForBindingIteratesCartesian(t *testing.T) {
	res := run(t, dialects.V20, bookstore(), `for $x in (1, 2), $y in (3, 4) return $x`)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Value, 4)
}

func TestQuantifiedSomeAndEvery(t *testing.T) {
	some := run(t, dialects.V20, bookstore(), `some $x in (1, 2) satisfies $x = 2`)
	require.Empty(t, some.Diagnostics)
	assert.True(t, some.Value[0].(xdm.Atomic).Bool)

	every := run(t, dialects.V20, bookstore(), `every $x in (1, 2) satisfies $x = 2`)
	require.Empty(t, every.Diagnostics)
	assert.False(t, every.Value[0].(xdm.Atomic).Bool)
}

func TestPathExprSelectsChildPathTitle(t *testing.T) {
	res := run(t, dialects.V20, bookstore(), `/bookstore/book/title`)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Value, 1)
}

func TestFilterExprNumericPredicateIsPosition(t *testing.T) {
	doc := simple.NewDocument()
	root := doc.AddElement(nil, "root")
	doc.AddElement(root, "item")
	doc.AddElement(root, "item")
	res := run(t, dialects.V20, doc.Root, `/root/item[2]`)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Value, 1)
}
