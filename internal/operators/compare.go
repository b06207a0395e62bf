package operators

import (
	"strings"

	"github.com/funvibe/xpathlite/internal/adapter"
	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// CompareOp identifies a value/general comparison operator
// (spec.md §4.4: eq/ne/lt/le/gt/ge and their general-comparison forms
// =, !=, <, <=, >, >=).
type CompareOp int

const (
	Eq CompareOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// ValueCompare implements the six `eq`/`ne`/`lt`/... operators on a
// single pair of atomics, per spec.md §4.4's value-comparison table:
// same-kind or promotable, collation-aware for strings, implicit-
// timezone-aware for date/time.
func ValueCompare(op CompareOp, a, b xdm.Atomic, col context.Collation, implicitTZ int) (bool, error) {
	a = xdm.PromoteURIToString(a)
	b = xdm.PromoteURIToString(b)

	switch {
	case a.IsNumeric() && b.IsNumeric():
		pa, pb := xdm.Promote(a, b)
		af, _ := pa.NumericValue()
		bf, _ := pb.NumericValue()
		return applyOrder(op, compareFloat(af, bf)), nil

	case a.Kind == xdm.KBoolean && b.Kind == xdm.KBoolean:
		return applyOrder(op, compareBool(a.Bool, b.Bool)), nil

	case isStringFamily(a.Kind) && isStringFamily(b.Kind):
		if col == nil {
			return applyOrder(op, strings.Compare(a.Str, b.Str)), nil
		}
		return applyOrder(op, col.Compare(a.Str, b.Str)), nil

	case isDateTimeFamily(a.Kind) && a.Kind == b.Kind:
		da, db := normalizeTZ(*a.DT, implicitTZ), normalizeTZ(*b.DT, implicitTZ)
		return applyOrder(op, da.Compare(db)), nil

	case isDurKind(a.Kind) && isDurKind(b.Kind):
		af, aok := durationSeconds(*a.Dur)
		bf, bok := durationSeconds(*b.Dur)
		if !aok || !bok {
			if op == Eq {
				return a.Dur.Equal(*b.Dur), nil
			}
			if op == Ne {
				return !a.Dur.Equal(*b.Dur), nil
			}
			return false, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FORG0006, diagnostics.Span{},
				"duration values not comparable with an ordering operator")
		}
		return applyOrder(op, compareFloat(af, bf)), nil

	case a.Kind == xdm.KQName && b.Kind == xdm.KQName:
		if op != Eq && op != Ne {
			return false, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.XPTY0004, diagnostics.Span{},
				"xs:QName supports only eq/ne comparison")
		}
		eq := a.QName.URI == b.QName.URI && a.QName.Local == b.QName.Local
		return applyOrder(op, boolToCompare(eq)), nil

	default:
		if (a.Kind == xdm.KBase64Binary || a.Kind == xdm.KHexBinary) && a.Kind == b.Kind {
			eq := string(a.Bin) == string(b.Bin)
			if op == Eq {
				return eq, nil
			}
			if op == Ne {
				return !eq, nil
			}
		}
		return false, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.XPTY0004, diagnostics.Span{},
			"operand types not comparable: "+a.Kind.String()+" vs "+b.Kind.String())
	}
}

func boolToCompare(eq bool) int {
	if eq {
		return 0
	}
	return 1
}

func applyOrder(op CompareOp, c int) bool {
	switch op {
	case Eq:
		return c == 0
	case Ne:
		return c != 0
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	}
	return false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a && b:
		return -1
	default:
		return 1
	}
}

func isStringFamily(k xdm.Kind) bool {
	return xdm.IsSubtypeOf(k, xdm.KString) || k == xdm.KAnyURI
}

func isDateTimeFamily(k xdm.Kind) bool {
	return isDateTimeKind(k)
}

func normalizeTZ(dt xdm.DateTimeValue, implicitMinutes int) xdm.DateTimeValue {
	if dt.HasTimezone {
		return dt
	}
	dt.HasTimezone = true
	dt.TZOffsetMinutes = implicitMinutes
	return dt
}

// durationSeconds reduces a duration to comparable total seconds; ok
// is false for general xs:duration values that mix month and second
// components incommensurably per spec.md §4.6 (only order-comparable
// within the same subtype there).
func durationSeconds(d xdm.DurationValue) (float64, bool) {
	if d.Months != 0 && d.Seconds != 0 {
		return 0, false
	}
	if d.Months != 0 {
		return float64(d.Months) * 30 * 86400, true
	}
	return d.Seconds, true
}

// GeneralCompare implements spec.md §4.4's general comparison: true if
// any pairing of items from the atomized operand sequences satisfies
// the value comparison, with numeric/string coercion in compatibility
// mode (spec.md §7).
func GeneralCompare(op CompareOp, as, bs []xdm.Atomic, col context.Collation, implicitTZ int, compat bool) (bool, error) {
	for _, a := range as {
		for _, b := range bs {
			x, y := a, b
			if compat {
				x, y = coerceForGeneralCompare(x, y)
			}
			ok, err := ValueCompare(op, x, y, col, implicitTZ)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// coerceForGeneralCompare applies XPath-1.0 compatibility coercion:
// if exactly one operand is numeric, the other is cast to a number;
// otherwise both become strings.
func coerceForGeneralCompare(a, b xdm.Atomic) (xdm.Atomic, xdm.Atomic) {
	if a.IsNumeric() != b.IsNumeric() {
		if a.IsNumeric() {
			b = forceNumber(b)
		} else {
			a = forceNumber(a)
		}
		return a, b
	}
	if !a.IsNumeric() && !b.IsNumeric() && (a.Kind != xdm.KString || b.Kind != xdm.KString) {
		return xdm.NewString(xdm.KString, a.String()), xdm.NewString(xdm.KString, b.String())
	}
	return a, b
}

func forceNumber(a xdm.Atomic) xdm.Atomic {
	v, err := xdm.Cast(a, xdm.KDouble)
	if err != nil {
		return xdm.NewDouble(nan())
	}
	return v
}

func nan() float64 {
	var z float64
	return z / z
}

// NodeCompare implements the `is`, `<<`, `>>` node comparisons
// (spec.md §4.4): identity and document-order relations.
type NodeCompareOp int

const (
	Is NodeCompareOp = iota
	Before
	After
)

func NodeCompare(op NodeCompareOp, a, b adapter.Node) bool {
	if op == Is {
		return a == b
	}
	pa, pb := a.DocumentPosition(), b.DocumentPosition()
	if op == Before {
		return pa.Less(pb)
	}
	return pb.Less(pa)
}
