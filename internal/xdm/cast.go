package xdm

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/funvibe/xpathlite/internal/diagnostics"
)

// integerRange gives the [lo, hi] bounds for bounded integer
// subtypes; ok is false for xs:integer itself (unbounded).
func integerRange(k Kind) (lo, hi int64, ok bool) {
	switch k {
	case KLong:
		return math.MinInt64, math.MaxInt64, true
	case KInt:
		return math.MinInt32, math.MaxInt32, true
	case KShort:
		return math.MinInt16, math.MaxInt16, true
	case KByte:
		return math.MinInt8, math.MaxInt8, true
	case KNonNegativeInteger, KUnsignedLong:
		return 0, math.MaxInt64, true
	case KUnsignedInt:
		return 0, math.MaxUint32, true
	case KUnsignedShort:
		return 0, math.MaxUint16, true
	case KUnsignedByte:
		return 0, math.MaxUint8, true
	case KPositiveInteger:
		return 1, math.MaxInt64, true
	case KNonPositiveInteger:
		return math.MinInt64, 0, true
	case KNegativeInteger:
		return math.MinInt64, -1, true
	}
	return 0, 0, false
}

// Cast converts v (already atomized) to the target Kind, per XSD
// constructor-function rules (spec.md §3/§4.6). Returns FORG0001 on
// an invalid lexical value and FOCA0001/FOCA0003 on out-of-range
// numeric casts.
func Cast(v Atomic, target Kind) (Atomic, error) {
	if v.Kind == target {
		return v, nil
	}

	// Numeric family: always castable via the lexical string unless
	// source is itself numeric, in which case convert directly.
	if IsSubtypeOf(target, KDecimal) || target == KFloat || target == KDouble {
		return castToNumeric(v, target)
	}

	switch target {
	case KString, KNormalizedString, KToken, KLanguage, KNMTOKEN, KName, KNCName:
		return Atomic{Kind: target, Str: v.String()}, nil
	case KBoolean:
		return castToBoolean(v)
	case KAnyURI:
		return Atomic{Kind: KAnyURI, Str: v.String()}, nil
	case KHexBinary:
		if v.Kind == KBase64Binary {
			return Atomic{Kind: KHexBinary, Bin: v.Bin}, nil
		}
		b, err := DecodeHex(v.String())
		if err != nil {
			return Atomic{}, castErr(v, target, err)
		}
		return Atomic{Kind: KHexBinary, Bin: b}, nil
	case KBase64Binary:
		if v.Kind == KHexBinary {
			return Atomic{Kind: KBase64Binary, Bin: v.Bin}, nil
		}
		b, err := DecodeBase64(v.String())
		if err != nil {
			return Atomic{}, castErr(v, target, err)
		}
		return Atomic{Kind: KBase64Binary, Bin: b}, nil
	case KQName:
		return Atomic{Kind: KQName, QName: QName{Local: v.String()}}, nil
	case KDate, KTime, KDateTime, KDateTimeStamp, KGYear, KGMonth, KGDay, KGMonthDay, KGYearMonth:
		dt, err := ParseDateTime(v.String(), target)
		if err != nil {
			return Atomic{}, castErr(v, target, err)
		}
		return Atomic{Kind: target, DT: dt}, nil
	case KDuration, KYearMonthDuration, KDayTimeDuration:
		d, err := ParseDuration(v.String(), target)
		if err != nil {
			return Atomic{}, castErr(v, target, err)
		}
		return Atomic{Kind: target, Dur: d}, nil
	}
	return Atomic{}, castErr(v, target, fmt.Errorf("unsupported cast target %s", target))
}

func castErr(v Atomic, target Kind, cause error) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FORG0001, diagnostics.Span{},
		"cannot cast %q to %s: %v", v.String(), target, cause)
}

func castToBoolean(v Atomic) (Atomic, error) {
	switch v.Kind {
	case KBoolean:
		return v, nil
	case KString, KUntypedAtomic:
		s := strings.TrimSpace(v.Str)
		switch s {
		case "true", "1":
			return NewBoolean(true), nil
		case "false", "0":
			return NewBoolean(false), nil
		}
		return Atomic{}, castErr(v, KBoolean, fmt.Errorf("invalid boolean lexical form"))
	default:
		if v.IsNumeric() {
			f, _ := v.NumericValue()
			return NewBoolean(f != 0 && !math.IsNaN(f)), nil
		}
	}
	return Atomic{}, castErr(v, KBoolean, fmt.Errorf("not castable"))
}

func castToNumeric(v Atomic, target Kind) (Atomic, error) {
	var f float64
	var exactInt *big.Int
	var exactDec *big.Rat

	switch {
	case v.IsNumeric():
		f, _ = v.NumericValue()
		if IsSubtypeOf(v.Kind, KInteger) {
			exactInt = v.Int
		}
		if v.Kind == KDecimal {
			exactDec = v.Dec
		}
	case v.Kind == KBoolean:
		if v.Bool {
			f = 1
		}
	default:
		s := strings.TrimSpace(v.String())
		var err error
		if target == KFloat || target == KDouble {
			f, err = strconv.ParseFloat(normalizeSpecial(s), 64)
		} else {
			r, ok := new(big.Rat).SetString(s)
			if !ok {
				err = fmt.Errorf("invalid numeric lexical form %q", s)
			} else {
				exactDec = r
				f, _ = r.Float64()
			}
		}
		if err != nil {
			return Atomic{}, castErr(v, target, err)
		}
	}

	switch target {
	case KFloat:
		return Atomic{Kind: KFloat, F32: float32(f)}, nil
	case KDouble:
		return Atomic{Kind: KDouble, F64: f}, nil
	case KDecimal:
		if exactDec != nil {
			return Atomic{Kind: KDecimal, Dec: exactDec}, nil
		}
		if exactInt != nil {
			return Atomic{Kind: KDecimal, Dec: new(big.Rat).SetInt(exactInt)}, nil
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Atomic{}, castErr(v, target, fmt.Errorf("NaN/INF not representable as xs:decimal"))
		}
		return Atomic{Kind: KDecimal, Dec: new(big.Rat).SetFloat64(f)}, nil
	default: // integer family
		var i *big.Int
		if exactInt != nil {
			i = exactInt
		} else if exactDec != nil {
			i = new(big.Int).Quo(exactDec.Num(), exactDec.Denom())
		} else {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return Atomic{}, castErr(v, target, fmt.Errorf("NaN/INF not representable as an integer"))
			}
			i = big.NewInt(int64(math.Trunc(f)))
		}
		if lo, hi, bounded := integerRange(target); bounded {
			if !i.IsInt64() || !withinRange(i.Int64(), lo, hi) {
				return Atomic{}, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FOCA0003, diagnostics.Span{},
					"%s value %s out of range", target, i.String())
			}
		}
		return Atomic{Kind: target, Int: i}, nil
	}
}

func normalizeSpecial(s string) string {
	switch s {
	case "INF", "+INF":
		return "+Inf"
	case "-INF":
		return "-Inf"
	}
	return s
}
