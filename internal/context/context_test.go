package context_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/adapter/simple"
	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/xdm"
)

func newRootCtx(t *testing.T) (*context.Context, *simple.Node) {
	t.Helper()
	doc := simple.NewDocument()
	root := doc.AddElement(nil, "root")
	return context.New(root, context.Options{}), root
}

func TestWithVariableShadowsOuterBinding(t *testing.T) {
	c, _ := newRootCtx(t)
	c1 := c.WithVariable("", "x", xdm.Sequence{xdm.NewInteger(1)})
	c2 := c1.WithVariable("", "x", xdm.Sequence{xdm.NewInteger(2)})

	v, ok, err := c2.Variable("", "x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), v[0].(xdm.Atomic).Int.Int64())

	// the original snapshot is unaffected (copy-on-write).
	v1, ok, err := c1.Variable("", "x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), v1[0].(xdm.Atomic).Int.Int64())
}

func TestVariableUndeclaredMisses(t *testing.T) {
	c, _ := newRootCtx(t)
	_, ok, err := c.Variable("", "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithLazyVariableDefersEvaluation(t *testing.T) {
	c, _ := newRootCtx(t)
	called := false
	lazy := c.WithLazyVariable("", "x", func() (xdm.Sequence, error) {
		called = true
		return xdm.Sequence{xdm.NewInteger(42)}, nil
	})
	assert.False(t, called, "thunk must not run until referenced")

	v, ok, err := lazy.Variable("", "x")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, called)
	assert.Equal(t, int64(42), v[0].(xdm.Atomic).Int.Int64())
}

func TestWithLazyVariableMemoizesAcrossReferences(t *testing.T) {
	c, _ := newRootCtx(t)
	calls := 0
	lazy := c.WithLazyVariable("", "x", func() (xdm.Sequence, error) {
		calls++
		return xdm.Sequence{xdm.NewInteger(int64(calls))}, nil
	})
	v1, _, err := lazy.Variable("", "x")
	require.NoError(t, err)
	v2, _, err := lazy.Variable("", "x")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, v1, v2)
}

func TestWithLazyVariableNeverForcedIfUnreferenced(t *testing.T) {
	c, _ := newRootCtx(t)
	boom := errors.New("should never run")
	lazy := c.WithLazyVariable("", "unused", func() (xdm.Sequence, error) {
		return nil, boom
	})
	_, ok, err := lazy.Variable("", "other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithFocusSnapshot(t *testing.T) {
	c, root := newRootCtx(t)
	item := xdm.NodeItem{Node: root}
	c2 := c.WithFocus(item, 2, 5)
	assert.Equal(t, 2, c2.Position)
	assert.Equal(t, 5, c2.Size)
	assert.Equal(t, 1, c.Position, "original snapshot unchanged")
}

func TestWithNamespaceAddsBinding(t *testing.T) {
	c, _ := newRootCtx(t)
	c2 := c.WithNamespace("x", "urn:example")
	uri, ok := c2.ResolveNamespace("x")
	require.True(t, ok)
	assert.Equal(t, "urn:example", uri)

	_, ok = c.ResolveNamespace("x")
	assert.False(t, ok, "original snapshot unchanged")
}

func TestDocumentCacheGetPutAvailable(t *testing.T) {
	dc := context.NewDocumentCache()
	_, ok := dc.Get("urn:a")
	assert.False(t, ok)
	assert.False(t, dc.Available("urn:a"))

	doc := simple.NewDocument()
	dc.Put("urn:a", doc.Root)

	n, ok := dc.Get("urn:a")
	require.True(t, ok)
	assert.Equal(t, doc.Root, n)
	assert.True(t, dc.Available("urn:a"))

	uri, ok := dc.URIOf(doc.Root)
	require.True(t, ok)
	assert.Equal(t, "urn:a", uri)
}

func TestDocumentCacheRegisterIsIdempotent(t *testing.T) {
	dc := context.NewDocumentCache()
	doc := simple.NewDocument()
	first := dc.Register(doc.Root)
	second := dc.Register(doc.Root)
	assert.Equal(t, first, second)
}
