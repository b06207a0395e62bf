package operators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/adapter"
	"github.com/funvibe/xpathlite/internal/adapter/simple"
	"github.com/funvibe/xpathlite/internal/operators"
	"github.com/funvibe/xpathlite/internal/xdm"
)

func mustDate(t *testing.T, s string) xdm.Atomic {
	t.Helper()
	dt, err := xdm.ParseDateTime(s, xdm.KDate)
	require.NoError(t, err)
	return xdm.Atomic{Kind: xdm.KDate, DT: dt}
}

func TestArithmeticIntegerOps(t *testing.T) {
	sum, err := operators.Arithmetic(operators.Add, xdm.NewInteger(2), xdm.NewInteger(3))
	require.NoError(t, err)
	assert.Equal(t, int64(5), sum.Int.Int64())

	q, err := operators.Arithmetic(operators.IDiv, xdm.NewInteger(7), xdm.NewInteger(2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), q.Int.Int64())

	m, err := operators.Arithmetic(operators.Mod, xdm.NewInteger(7), xdm.NewInteger(2))
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.Int.Int64())
}

func TestArithmeticIntegerDivByZeroRaisesFOAR0001(t *testing.T) {
	_, err := operators.Arithmetic(operators.IDiv, xdm.NewInteger(1), xdm.NewInteger(0))
	require.Error(t, err)
}

func TestArithmeticDoubleDivisionByZeroYieldsInf(t *testing.T) {
	r, err := operators.Arithmetic(operators.Div, xdm.NewDouble(1), xdm.NewDouble(0))
	require.NoError(t, err)
	assert.True(t, r.F64 > 0 && r.F64*2 == r.F64, "expected +Inf")
}

func TestArithmeticDateMinusDateIsExactCalendarDifference(t *testing.T) {
	a := mustDate(t, "2000-03-01")
	b := mustDate(t, "2000-01-01")
	r, err := operators.Arithmetic(operators.Sub, a, b)
	require.NoError(t, err)
	require.Equal(t, xdm.KDayTimeDuration, r.Kind)
	// 2000 is a leap year: Jan(31)+Feb(29) = 60 days, not an
	// approximate fractional-year count (~60.87).
	assert.Equal(t, 60*86400.0, r.Dur.Seconds)
}

func TestArithmeticDatePlusDuration(t *testing.T) {
	a := mustDate(t, "2000-01-01")
	dur := xdm.Atomic{Kind: xdm.KDayTimeDuration, Dur: &xdm.DurationValue{Seconds: 2 * 86400}}
	r, err := operators.Arithmetic(operators.Add, a, dur)
	require.NoError(t, err)
	require.Equal(t, xdm.KDate, r.Kind)
	assert.Equal(t, 3, r.DT.Day)
	assert.Equal(t, 1, r.DT.Month)
	assert.Equal(t, 2000, r.DT.Year)
}

func TestValueCompareNumeric(t *testing.T) {
	ok, err := operators.ValueCompare(operators.Lt, xdm.NewInteger(1), xdm.NewInteger(2), nil, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValueCompareString(t *testing.T) {
	ok, err := operators.ValueCompare(operators.Eq, xdm.NewString(xdm.KString, "a"), xdm.NewString(xdm.KString, "a"), nil, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValueCompareBoolean(t *testing.T) {
	ok, err := operators.ValueCompare(operators.Gt, xdm.NewBoolean(true), xdm.NewBoolean(false), nil, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValueCompareIncompatibleTypesErrors(t *testing.T) {
	_, err := operators.ValueCompare(operators.Eq, xdm.NewBoolean(true), xdm.NewString(xdm.KString, "x"), nil, 0)
	require.Error(t, err)
}

func TestGeneralCompareAnyPairMatches(t *testing.T) {
	as := []xdm.Atomic{xdm.NewInteger(1), xdm.NewInteger(2)}
	bs := []xdm.Atomic{xdm.NewInteger(2), xdm.NewInteger(3)}
	ok, err := operators.GeneralCompare(operators.Eq, as, bs, nil, 0, false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGeneralCompareCompatibilityCoercion(t *testing.T) {
	as := []xdm.Atomic{xdm.NewString(xdm.KString, "2")}
	bs := []xdm.Atomic{xdm.NewInteger(2)}
	ok, err := operators.GeneralCompare(operators.Eq, as, bs, nil, 0, true)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNodeCompareIsAndOrder(t *testing.T) {
	doc := simple.NewDocument()
	a := doc.AddElement(nil, "a")
	b := doc.AddElement(nil, "b")
	assert.True(t, operators.NodeCompare(operators.Is, a, a))
	assert.False(t, operators.NodeCompare(operators.Is, a, b))
	assert.True(t, operators.NodeCompare(operators.Before, a, b))
	assert.True(t, operators.NodeCompare(operators.After, b, a))
}

func TestEBVEmptySequenceIsFalse(t *testing.T) {
	ok, err := operators.EBV(nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEBVSingleNodeIsTrue(t *testing.T) {
	doc := simple.NewDocument()
	root := doc.AddElement(nil, "root")
	ok, err := operators.EBV(xdm.Sequence{xdm.NodeItem{Node: root}})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEBVStringAndNumber(t *testing.T) {
	ok, err := operators.EBV(xdm.Sequence{xdm.NewString(xdm.KString, "")})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = operators.EBV(xdm.Sequence{xdm.NewInteger(0)})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEBVMultiItemNonNodeSequenceErrors(t *testing.T) {
	_, err := operators.EBV(xdm.Sequence{xdm.NewInteger(1), xdm.NewInteger(2)})
	require.Error(t, err)
}

func TestSetUnionIntersectExcept(t *testing.T) {
	doc := simple.NewDocument()
	root := doc.AddElement(nil, "root")
	a := doc.AddElement(root, "a")
	b := doc.AddElement(root, "b")
	c := doc.AddElement(root, "c")

	left := []adapter.Node{a, b}
	right := []adapter.Node{b, c}

	union := operators.Set(operators.Union, left, right)
	assert.Equal(t, []adapter.Node{a, b, c}, union)

	inter := operators.Set(operators.Intersect, left, right)
	assert.Equal(t, []adapter.Node{b}, inter)

	except := operators.Set(operators.Except, left, right)
	assert.Equal(t, []adapter.Node{a}, except)
}

func TestRangeAscendingAndEmpty(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, operators.Range(1, 3))
	assert.Nil(t, operators.Range(3, 1))
}

func TestConcatFlattensInOrder(t *testing.T) {
	out := operators.Concat(xdm.Sequence{xdm.NewInteger(1)}, xdm.Sequence{xdm.NewInteger(2), xdm.NewInteger(3)})
	require.Len(t, out, 3)
}

func TestStringConcat(t *testing.T) {
	r, err := operators.StringConcat(xdm.NewString(xdm.KString, "a"), xdm.NewInteger(1))
	require.NoError(t, err)
	assert.Equal(t, "a1", r.Str)
}

func TestSimpleMapConcatenatesPerItemResults(t *testing.T) {
	seq := xdm.Sequence{xdm.NewInteger(1), xdm.NewInteger(2)}
	out, err := operators.SimpleMap(seq, func(item xdm.Item, position int) (xdm.Sequence, error) {
		return xdm.Sequence{item, item}, nil
	})
	require.NoError(t, err)
	assert.Len(t, out, 4)
}

func TestArrowAppliesFunctionToSequence(t *testing.T) {
	seq := xdm.Sequence{xdm.NewInteger(1)}
	out, err := operators.Arrow(seq, func(first xdm.Sequence) (xdm.Sequence, error) {
		return first, nil
	})
	require.NoError(t, err)
	assert.Equal(t, seq, out)
}
