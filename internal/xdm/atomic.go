package xdm

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Atomic is a single typed value from the XDM lattice. Numerics carry
// their narrowest representation so that type-preserving operations
// retain it (spec.md §3): integers as big.Int (exact, unbounded per
// xs:integer), decimals as big.Rat (exact), float/double as Go
// float32/float64 (binary floating point per XSD semantics, incl.
// signed zero/NaN/Inf).
type Atomic struct {
	Kind Kind

	Str   string   // string family, anyURI, QName lexical form, NOTATION
	Bool  bool     // xs:boolean
	Int   *big.Int // xs:integer and subranges
	Dec   *big.Rat // xs:decimal
	F32   float32  // xs:float
	F64   float64  // xs:double
	DT    *DateTimeValue
	Dur   *DurationValue
	Bin   []byte // xs:hexBinary / xs:base64Binary raw octets
	QName QName
}

func (Atomic) ItemKind() ItemCategory { return CategoryAtomic }

// QName is an expanded qualified name.
type QName struct {
	Prefix string
	URI    string
	Local  string
}

func (q QName) String() string {
	if q.Prefix != "" {
		return q.Prefix + ":" + q.Local
	}
	return q.Local
}

// NewString builds an xs:string (or a string-family subtype) atomic.
func NewString(k Kind, s string) Atomic { return Atomic{Kind: k, Str: s} }

func NewBoolean(b bool) Atomic { return Atomic{Kind: KBoolean, Bool: b} }

func NewInteger(i int64) Atomic { return Atomic{Kind: KInteger, Int: big.NewInt(i)} }

func NewIntegerBig(i *big.Int) Atomic { return Atomic{Kind: KInteger, Int: i} }

func NewDecimal(r *big.Rat) Atomic { return Atomic{Kind: KDecimal, Dec: r} }

func NewFloat(f float32) Atomic { return Atomic{Kind: KFloat, F32: f} }

func NewDouble(f float64) Atomic { return Atomic{Kind: KDouble, F64: f} }

func NewAnyURI(s string) Atomic { return Atomic{Kind: KAnyURI, Str: s} }

func NewQName(q QName) Atomic { return Atomic{Kind: KQName, QName: q} }

// NumericValue is a float64 view of any numeric atomic, used by
// operators after applying the promotion lattice (internal/xdm
// promotion.go performs the promotion itself; this is just a reader).
func (a Atomic) NumericValue() (float64, bool) {
	switch a.Kind {
	case KInteger, KLong, KInt, KShort, KByte, KNonNegativeInteger, KNonPositiveInteger,
		KNegativeInteger, KPositiveInteger, KUnsignedLong, KUnsignedInt, KUnsignedShort, KUnsignedByte:
		if a.Int == nil {
			return 0, false
		}
		f := new(big.Float).SetInt(a.Int)
		v, _ := f.Float64()
		return v, true
	case KDecimal:
		if a.Dec == nil {
			return 0, false
		}
		v, _ := a.Dec.Float64()
		return v, true
	case KFloat:
		return float64(a.F32), true
	case KDouble:
		return a.F64, true
	}
	return 0, false
}

// IsNumeric reports whether the Kind belongs to the numeric branch of
// the lattice (integer/decimal/float/double or a subtype thereof).
func (a Atomic) IsNumeric() bool {
	return IsSubtypeOf(a.Kind, KDecimal) || a.Kind == KFloat || a.Kind == KDouble
}

// String renders the XPath string-value of the atomic, per its
// lexical-space rules (spec.md §3, invariant #4's round-trip
// property depends on these being exact inverses of the type's
// constructor parsing).
func (a Atomic) String() string {
	switch a.Kind {
	case KBoolean:
		if a.Bool {
			return "true"
		}
		return "false"
	case KFloat:
		return formatFloat(float64(a.F32), 32)
	case KDouble:
		return formatFloat(a.F64, 64)
	case KDecimal:
		if a.Dec == nil {
			return "0"
		}
		return formatDecimal(a.Dec)
	case KBase64Binary:
		return EncodeBase64(a.Bin)
	case KHexBinary:
		return EncodeHex(a.Bin)
	case KQName:
		return a.QName.String()
	case KDate, KTime, KDateTime, KDateTimeStamp, KGYear, KGMonth, KGDay, KGMonthDay, KGYearMonth:
		if a.DT != nil {
			return a.DT.Format(a.Kind)
		}
		return ""
	case KDuration, KYearMonthDuration, KDayTimeDuration:
		if a.Dur != nil {
			return a.Dur.Format(a.Kind)
		}
		return ""
	default:
		if IsSubtypeOf(a.Kind, KInteger) {
			if a.Int == nil {
				return "0"
			}
			return a.Int.String()
		}
		return a.Str
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case f == 0:
		if math.Signbit(f) {
			return "-0"
		}
		return "0"
	}
	s := strconv.FormatFloat(f, 'G', -1, bits)
	// XSD lexical form uses 'E' not Go's style; normalize exponent marker.
	s = strings.Replace(s, "E", "E", 1)
	if !strings.ContainsAny(s, "E.") {
		s += ".0"
	}
	return s
}

func formatDecimal(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.FloatString(decimalDisplayPrecision(r))
}

// decimalDisplayPrecision picks enough fractional digits to
// round-trip r exactly for denominators that are powers of 2/5 (the
// common case for XSD decimal literals); falls back to 20 digits.
func decimalDisplayPrecision(r *big.Rat) int {
	denom := new(big.Int).Set(r.Denom())
	digits := 0
	for denom.Cmp(big.NewInt(1)) > 0 && digits < 40 {
		two, five := big.NewInt(2), big.NewInt(5)
		switch {
		case new(big.Int).Mod(denom, two).Sign() == 0:
			denom.Div(denom, two)
		case new(big.Int).Mod(denom, five).Sign() == 0:
			denom.Div(denom, five)
		default:
			return 20
		}
		digits++
	}
	if digits == 0 {
		digits = 1
	}
	return digits
}

// Equal implements the `eq` comparison for same-kind atomics (used
// directly by map-key comparison per spec.md §3: "integer keys 1 and
// 1.0 collide" — map keys compare via the common-type `eq`).
func (a Atomic) Equal(b Atomic) bool {
	if a.IsNumeric() && b.IsNumeric() {
		af, _ := a.NumericValue()
		bf, _ := b.NumericValue()
		return af == bf
	}
	switch a.Kind {
	case KBoolean:
		return b.Kind == KBoolean && a.Bool == b.Bool
	case KBase64Binary, KHexBinary:
		return string(a.Bin) == string(b.Bin)
	case KQName:
		return b.Kind == KQName && a.QName.URI == b.QName.URI && a.QName.Local == b.QName.Local
	case KDate, KTime, KDateTime, KDateTimeStamp, KGYear, KGMonth, KGDay, KGMonthDay, KGYearMonth:
		return a.DT != nil && b.DT != nil && a.DT.Equal(*b.DT)
	case KDuration, KYearMonthDuration, KDayTimeDuration:
		return a.Dur != nil && b.Dur != nil && a.Dur.Equal(*b.Dur)
	default:
		return a.Str == b.Str
	}
}

func (a Atomic) GoString() string { return fmt.Sprintf("Atomic{%s %q}", a.Kind, a.String()) }
