package functions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/adapter/simple"
	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/functions"
	"github.com/funvibe/xpathlite/internal/xdm"
)

func newCtx(t *testing.T) *context.Context {
	t.Helper()
	doc := simple.NewDocument()
	return context.New(doc.Root, context.Options{})
}

func call(t *testing.T, r *functions.Registry, local string, arity int, args ...xdm.Sequence) xdm.Sequence {
	t.Helper()
	return callNS(t, r, functions.FnNamespace, local, arity, args...)
}

func callNS(t *testing.T, r *functions.Registry, uri, local string, arity int, args ...xdm.Sequence) xdm.Sequence {
	t.Helper()
	c, ok := r.Lookup(uri, local, arity)
	require.True(t, ok, "function %s#%d not registered", local, arity)
	out, err := c.Call(newCtx(t), args)
	require.NoError(t, err)
	return out
}

func str(s string) xdm.Sequence { return xdm.Sequence{xdm.NewString(xdm.KString, s)} }

func TestConcatVariadic(t *testing.T) {
	r := functions.New()
	out := call(t, r, "concat", 3, str("a"), str("b"), str("c"))
	require.Len(t, out, 1)
	assert.Equal(t, "abc", out[0].(xdm.Atomic).String())
}

func TestUpperCase(t *testing.T) {
	r := functions.New()
	out := call(t, r, "upper-case", 1, str("abc"))
	require.Len(t, out, 1)
	assert.Equal(t, "ABC", out[0].(xdm.Atomic).String())
}

func TestContains(t *testing.T) {
	r := functions.New()
	out := call(t, r, "contains", 2, str("hello world"), str("world"))
	require.Len(t, out, 1)
	assert.True(t, out[0].(xdm.Atomic).Bool)
}

func TestLookupUnknownArityFails(t *testing.T) {
	r := functions.New()
	_, ok := r.Lookup(functions.FnNamespace, "concat", 0)
	assert.False(t, ok)
}

func TestMapSizeAndGet(t *testing.T) {
	r := functions.New()
	m := xdm.NewMap().Put(xdm.NewString(xdm.KString, "a"), xdm.Sequence{xdm.NewInteger(42)})

	size := callNS(t, r, functions.MapNamespace, "size", 1, xdm.Sequence{m})
	require.Len(t, size, 1)
	assert.Equal(t, int64(1), size[0].(xdm.Atomic).Int.Int64())

	got := callNS(t, r, functions.MapNamespace, "get", 2, xdm.Sequence{m}, str("a"))
	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].(xdm.Atomic).Int.Int64())
}

func TestArrayFlatten(t *testing.T) {
	r := functions.New()
	a := xdm.NewArray(xdm.Sequence{xdm.NewInteger(1)}, xdm.Sequence{xdm.NewInteger(2)})
	out := callNS(t, r, functions.ArrayNamespace, "flatten", 1, xdm.Sequence{a})
	require.Len(t, out, 2)
}
