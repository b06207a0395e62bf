package xdm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/xdm"
)

func TestMapPutIsCopyOnWrite(t *testing.T) {
	m1 := xdm.NewMap()
	m2 := m1.Put(xdm.NewString(xdm.KString, "a"), xdm.Sequence{xdm.NewInteger(1)})

	assert.Equal(t, 0, m1.Size())
	assert.Equal(t, 1, m2.Size())

	v, ok := m2.Get(xdm.NewString(xdm.KString, "a"))
	require.True(t, ok)
	require.Len(t, v, 1)
	assert.Equal(t, int64(1), mustInt(t, v[0].(xdm.Atomic)))
}

func mustInt(t *testing.T, a xdm.Atomic) int64 {
	t.Helper()
	require.NotNil(t, a.Int)
	return a.Int.Int64()
}

func TestMapMergeUseFirstKeepsEarliestValue(t *testing.T) {
	k := xdm.NewString(xdm.KString, "x")
	m1 := xdm.NewMap().Put(k, xdm.Sequence{xdm.NewInteger(1)})
	m2 := xdm.NewMap().Put(k, xdm.Sequence{xdm.NewInteger(2)})

	merged, err := xdm.Merge([]*xdm.MapItem{m1, m2}, xdm.UseFirst)
	require.NoError(t, err)

	v, ok := merged.Get(k)
	require.True(t, ok)
	assert.Equal(t, int64(1), mustInt(t, v[0].(xdm.Atomic)))
}

func TestMapMergeRejectRejectsDuplicateKeys(t *testing.T) {
	k := xdm.NewString(xdm.KString, "x")
	m1 := xdm.NewMap().Put(k, xdm.Sequence{xdm.NewInteger(1)})
	m2 := xdm.NewMap().Put(k, xdm.Sequence{xdm.NewInteger(2)})

	_, err := xdm.Merge([]*xdm.MapItem{m1, m2}, xdm.Reject)
	assert.Error(t, err)
}

func TestArrayAppendIsCopyOnWrite(t *testing.T) {
	a1 := xdm.NewArray(xdm.Sequence{xdm.NewInteger(1)})
	a2 := a1.Append(xdm.Sequence{xdm.NewInteger(2)})

	assert.Equal(t, 1, a1.Len())
	assert.Equal(t, 2, a2.Len())

	v, ok := a2.Get(2)
	require.True(t, ok)
	assert.Equal(t, int64(2), mustInt(t, v[0].(xdm.Atomic)))
}

func TestArrayFlattenConcatenatesMembers(t *testing.T) {
	a := xdm.NewArray(
		xdm.Sequence{xdm.NewInteger(1), xdm.NewInteger(2)},
		xdm.Sequence{xdm.NewInteger(3)},
	)
	flat := a.Flatten()
	require.Len(t, flat, 3)
}

func TestAtomicEqualAcrossNumericKinds(t *testing.T) {
	i := xdm.NewInteger(2)
	d := xdm.NewDouble(2.0)
	assert.True(t, i.Equal(d))
}
