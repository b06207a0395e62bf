// Promotion lattice: integer -> decimal -> float -> double;
// anyURI -> string; yearMonthDuration/dayTimeDuration -> duration.
// Promotions are asymmetric, used during arithmetic/function dispatch
// (spec.md §3). Grounded on spec.md directly; uses
// golang.org/x/exp/constraints for the generic numeric helpers, per
// SPEC_FULL.md's domain-stack wiring (golang.org/x/exp is already a
// transitive teacher dependency via modernc.org/sqlite).
package xdm

import (
	"math/big"

	"golang.org/x/exp/constraints"
)

// withinRange reports whether v lies within [lo, hi], used when
// validating xs:int/xs:short/xs:byte/unsigned-* subrange constraints
// during cast (internal/xdm/cast.go).
func withinRange[T constraints.Integer](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// numericRank orders the four numeric tiers for promotion decisions.
func numericRank(k Kind) int {
	switch {
	case IsSubtypeOf(k, KInteger):
		return 0
	case k == KDecimal:
		return 1
	case k == KFloat:
		return 2
	case k == KDouble:
		return 3
	}
	return -1
}

// Promote converts a and b to the least common numeric supertype per
// the promotion lattice, returning the promoted pair.
func Promote(a, b Atomic) (Atomic, Atomic) {
	ra, rb := numericRank(a.Kind), numericRank(b.Kind)
	if ra < 0 || rb < 0 || ra == rb {
		return a, b
	}
	if ra < rb {
		return promoteTo(a, rb), b
	}
	return a, promoteTo(b, ra)
}

func promoteTo(a Atomic, rank int) Atomic {
	switch rank {
	case 1: // -> decimal
		if IsSubtypeOf(a.Kind, KInteger) {
			return Atomic{Kind: KDecimal, Dec: new(big.Rat).SetInt(a.Int)}
		}
	case 2: // -> float
		v, _ := a.NumericValue()
		return Atomic{Kind: KFloat, F32: float32(v)}
	case 3: // -> double
		v, _ := a.NumericValue()
		return Atomic{Kind: KDouble, F64: v}
	}
	return a
}

// PromoteURIToString promotes an xs:anyURI operand to xs:string when
// paired with a string-family operand (spec.md §3).
func PromoteURIToString(a Atomic) Atomic {
	if a.Kind == KAnyURI {
		return Atomic{Kind: KString, Str: a.Str}
	}
	return a
}

// PromoteDurationToGeneral widens a yearMonthDuration/dayTimeDuration
// to the general xs:duration type, used where an operator's static
// signature only declares xs:duration.
func PromoteDurationToGeneral(a Atomic) Atomic {
	if a.Kind == KYearMonthDuration || a.Kind == KDayTimeDuration {
		cp := *a.Dur
		return Atomic{Kind: KDuration, Dur: &cp}
	}
	return a
}
