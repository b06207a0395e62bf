// Package operators implements XPath's arithmetic, comparison,
// logical, set, and sequence-construction operators (spec.md §4.4).
// Grounded on funxy's internal/evaluator/expressions.go binary-op
// dispatch pattern (switch on operator token, promote operands,
// error on type mismatch), generalized to the XDM promotion lattice.
package operators

import (
	"math"
	"math/big"
	"time"

	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// ArithOp identifies one of the six arithmetic operators.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	IDiv
	Mod
)

// Arithmetic evaluates a numeric or duration arithmetic operator per
// spec.md §4.4: promotion per lattice; division by zero on
// integer/decimal raises FOAR0001, on double yields ±INF/NaN; idiv
// truncates toward zero.
func Arithmetic(op ArithOp, a, b xdm.Atomic) (xdm.Atomic, error) {
	if isDurationLike(a.Kind) || isDurationLike(b.Kind) {
		return durationArithmetic(op, a, b)
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return xdm.Atomic{}, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.XPTY0004, diagnostics.Span{},
			"arithmetic operand is not numeric")
	}
	pa, pb := xdm.Promote(a, b)

	if pa.Kind == xdm.KInteger && op != Div {
		return integerArithmetic(op, pa, pb)
	}
	if pa.Kind == xdm.KDecimal {
		return decimalArithmetic(op, pa, pb)
	}
	af, _ := pa.NumericValue()
	bf, _ := pb.NumericValue()
	return floatArithmetic(op, pa.Kind, af, bf)
}

func isDurationLike(k xdm.Kind) bool {
	return k == xdm.KDuration || k == xdm.KYearMonthDuration || k == xdm.KDayTimeDuration ||
		k == xdm.KDate || k == xdm.KTime || k == xdm.KDateTime || k == xdm.KDateTimeStamp
}

func integerArithmetic(op ArithOp, a, b xdm.Atomic) (xdm.Atomic, error) {
	x, y := a.Int, b.Int
	switch op {
	case Add:
		return xdm.NewIntegerBig(new(big.Int).Add(x, y)), nil
	case Sub:
		return xdm.NewIntegerBig(new(big.Int).Sub(x, y)), nil
	case Mul:
		return xdm.NewIntegerBig(new(big.Int).Mul(x, y)), nil
	case IDiv:
		if y.Sign() == 0 {
			return xdm.Atomic{}, divByZero()
		}
		return xdm.NewIntegerBig(new(big.Int).Quo(x, y)), nil
	case Mod:
		if y.Sign() == 0 {
			return xdm.Atomic{}, divByZero()
		}
		return xdm.NewIntegerBig(new(big.Int).Rem(x, y)), nil
	}
	return xdm.Atomic{}, nil
}

func decimalArithmetic(op ArithOp, a, b xdm.Atomic) (xdm.Atomic, error) {
	x, y := a.Dec, b.Dec
	switch op {
	case Add:
		return xdm.NewDecimal(new(big.Rat).Add(x, y)), nil
	case Sub:
		return xdm.NewDecimal(new(big.Rat).Sub(x, y)), nil
	case Mul:
		return xdm.NewDecimal(new(big.Rat).Mul(x, y)), nil
	case Div:
		if y.Sign() == 0 {
			return xdm.Atomic{}, divByZero()
		}
		return xdm.NewDecimal(new(big.Rat).Quo(x, y)), nil
	case IDiv:
		if y.Sign() == 0 {
			return xdm.Atomic{}, divByZero()
		}
		q := new(big.Rat).Quo(x, y)
		i := new(big.Int).Quo(q.Num(), q.Denom())
		return xdm.NewIntegerBig(i), nil
	case Mod:
		if y.Sign() == 0 {
			return xdm.Atomic{}, divByZero()
		}
		q := new(big.Rat).Quo(x, y)
		i := new(big.Int).Quo(q.Num(), q.Denom())
		prod := new(big.Rat).Mul(new(big.Rat).SetInt(i), y)
		return xdm.NewDecimal(new(big.Rat).Sub(x, prod)), nil
	}
	return xdm.Atomic{}, nil
}

func floatArithmetic(op ArithOp, kind xdm.Kind, a, b float64) (xdm.Atomic, error) {
	var r float64
	switch op {
	case Add:
		r = a + b
	case Sub:
		r = a - b
	case Mul:
		r = a * b
	case Div:
		r = a / b // IEEE 754: yields ±Inf/NaN per spec.md §4.4, never an error
	case IDiv:
		if b == 0 {
			return xdm.Atomic{}, divByZero()
		}
		q := math.Trunc(a / b)
		return xdm.NewIntegerBig(big.NewInt(int64(q))), nil
	case Mod:
		r = math.Mod(a, b)
	}
	if kind == xdm.KFloat {
		return xdm.NewFloat(float32(r)), nil
	}
	return xdm.NewDouble(r), nil
}

func divByZero() error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FOAR0001, diagnostics.Span{},
		"integer/decimal division by zero")
}

func durationArithmetic(op ArithOp, a, b xdm.Atomic) (xdm.Atomic, error) {
	switch {
	case isDateTimeKind(a.Kind) && isDurKind(b.Kind) && (op == Add || op == Sub):
		dur := *b.Dur
		if op == Sub {
			dur = xdm.DurationValue{Months: -dur.Months, Seconds: -dur.Seconds}
		}
		return xdm.Atomic{Kind: a.Kind, DT: ptrDT(a.DT.AddDuration(dur))}, nil
	case isDurKind(a.Kind) && isDateTimeKind(b.Kind) && op == Add:
		return xdm.Atomic{Kind: b.Kind, DT: ptrDT(b.DT.AddDuration(*a.Dur))}, nil
	case isDateTimeKind(a.Kind) && isDateTimeKind(b.Kind) && op == Sub:
		// date/time - date/time => dayTimeDuration (difference in seconds).
		diffSeconds := dateTimeDiffSeconds(*a.DT, *b.DT)
		return xdm.Atomic{Kind: xdm.KDayTimeDuration, Dur: &xdm.DurationValue{Seconds: diffSeconds}}, nil
	case isDurKind(a.Kind) && isDurKind(b.Kind):
		switch op {
		case Add:
			d := xdm.AddDurations(*a.Dur, *b.Dur)
			return xdm.Atomic{Kind: a.Kind, Dur: &d}, nil
		case Sub:
			neg := xdm.DurationValue{Months: -b.Dur.Months, Seconds: -b.Dur.Seconds}
			d := xdm.AddDurations(*a.Dur, neg)
			return xdm.Atomic{Kind: a.Kind, Dur: &d}, nil
		case Div:
			v, ok := xdm.DivideDurationByDuration(*a.Dur, *b.Dur)
			if !ok {
				return xdm.Atomic{}, divByZero()
			}
			return xdm.NewDouble(v), nil
		}
	case isDurKind(a.Kind) && b.IsNumeric() && (op == Mul || op == Div):
		f, _ := b.NumericValue()
		if op == Div {
			if f == 0 {
				return xdm.Atomic{}, divByZero()
			}
			f = 1 / f
		}
		d := xdm.MultiplyDuration(*a.Dur, f)
		return xdm.Atomic{Kind: a.Kind, Dur: &d}, nil
	case a.IsNumeric() && isDurKind(b.Kind) && op == Mul:
		f, _ := a.NumericValue()
		d := xdm.MultiplyDuration(*b.Dur, f)
		return xdm.Atomic{Kind: b.Kind, Dur: &d}, nil
	}
	return xdm.Atomic{}, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.XPTY0004, diagnostics.Span{},
		"invalid operand types for date/time/duration arithmetic")
}

func isDateTimeKind(k xdm.Kind) bool {
	return k == xdm.KDate || k == xdm.KTime || k == xdm.KDateTime || k == xdm.KDateTimeStamp ||
		k == xdm.KGYear || k == xdm.KGMonth || k == xdm.KGDay || k == xdm.KGMonthDay || k == xdm.KGYearMonth
}

func isDurKind(k xdm.Kind) bool {
	return k == xdm.KDuration || k == xdm.KYearMonthDuration || k == xdm.KDayTimeDuration
}

func ptrDT(v xdm.DateTimeValue) *xdm.DateTimeValue { return &v }

func dateTimeDiffSeconds(a, b xdm.DateTimeValue) float64 {
	toSeconds := func(v xdm.DateTimeValue) float64 {
		midnight := time.Date(v.Year, time.Month(v.Month), v.Day, 0, 0, 0, 0, time.UTC)
		return float64(midnight.Unix()) + float64(v.Hour)*3600 + float64(v.Minute)*60 + v.Second - float64(v.TZOffsetMinutes)*60
	}
	return toSeconds(a) - toSeconds(b)
}
