package functions

import (
	"math"
	"math/big"

	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// registerNumeric wires fn: numeric functions and the math: module
// (3.0+, spec.md §4.6). Grounded on funxy's builtins_numeric.go
// group-by-signature layout; the math: trig/exp functions call
// straight into Go's stdlib math package, which is the only sensible
// home for IEEE double transcendental functions (no third-party
// library in the retrieval pack offers anything beyond stdlib math
// here — see DESIGN.md).
func registerNumeric(r *Registry) {
	r.fixed(FnNamespace, "abs", 1, fnAbs)
	r.fixed(FnNamespace, "ceiling", 1, fnCeiling)
	r.fixed(FnNamespace, "floor", 1, fnFloor)
	r.register(FnNamespace, "round", 1, 2, fnRound)
	r.register(FnNamespace, "round-half-to-even", 1, 2, fnRoundHalfToEven)
	r.fixed(FnNamespace, "number", 1, fnNumber)

	r.fixed(MathNamespace, "pi", 0, mathPi)
	r.fixed(MathNamespace, "exp", 1, mathUnary(math.Exp))
	r.fixed(MathNamespace, "exp10", 1, mathUnary(func(x float64) float64 { return math.Pow(10, x) }))
	r.fixed(MathNamespace, "log", 1, mathUnary(math.Log))
	r.fixed(MathNamespace, "log10", 1, mathUnary(math.Log10))
	r.fixed(MathNamespace, "pow", 2, mathPow)
	r.fixed(MathNamespace, "sqrt", 1, mathUnary(math.Sqrt))
	r.fixed(MathNamespace, "sin", 1, mathUnary(math.Sin))
	r.fixed(MathNamespace, "cos", 1, mathUnary(math.Cos))
	r.fixed(MathNamespace, "tan", 1, mathUnary(math.Tan))
	r.fixed(MathNamespace, "asin", 1, mathUnary(math.Asin))
	r.fixed(MathNamespace, "acos", 1, mathUnary(math.Acos))
	r.fixed(MathNamespace, "atan", 1, mathUnary(math.Atan))
	r.fixed(MathNamespace, "atan2", 2, mathAtan2)
}

func fnAbs(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return nil, nil
	}
	a, err := atomizeOne("abs", args[0])
	if err != nil {
		return nil, err
	}
	switch {
	case xdm.IsSubtypeOf(a.Kind, xdm.KInteger):
		return xdm.Singleton(xdm.NewIntegerBig(new(big.Int).Abs(a.Int))), nil
	case a.Kind == xdm.KDecimal:
		return xdm.Singleton(xdm.NewDecimal(new(big.Rat).Abs(a.Dec))), nil
	case a.Kind == xdm.KFloat:
		return xdm.Singleton(xdm.NewFloat(float32(math.Abs(float64(a.F32))))), nil
	default:
		f, _ := a.NumericValue()
		return xdm.Singleton(xdm.NewDouble(math.Abs(f))), nil
	}
}

func fnCeiling(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return roundingFn("ceiling", args[0], func(f float64) float64 { return math.Ceil(f) },
		func(r *big.Rat) *big.Rat { return ratCeil(r) })
}

func fnFloor(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return roundingFn("floor", args[0], func(f float64) float64 { return math.Floor(f) },
		func(r *big.Rat) *big.Rat { return ratFloor(r) })
}

func fnRound(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	precision := int64(0)
	if len(args) == 2 {
		var err error
		precision, err = intArg("round", args[1])
		if err != nil {
			return nil, err
		}
	}
	return roundAt("round", args[0], precision, roundHalfUp)
}

func fnRoundHalfToEven(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	precision := int64(0)
	if len(args) == 2 {
		var err error
		precision, err = intArg("round-half-to-even", args[1])
		if err != nil {
			return nil, err
		}
	}
	return roundAt("round-half-to-even", args[0], precision, roundHalfEven)
}

func fnNumber(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return doubleSeq(math.NaN()), nil
	}
	a, err := atomizeOne("number", args[0])
	if err != nil {
		return nil, err
	}
	v, err := xdm.Cast(a, xdm.KDouble)
	if err != nil {
		return doubleSeq(math.NaN()), nil
	}
	return doubleSeq(v.F64), nil
}

func roundingFn(local string, seq xdm.Sequence, ffn func(float64) float64, rfn func(*big.Rat) *big.Rat) (xdm.Sequence, error) {
	if seq.IsEmpty() {
		return nil, nil
	}
	a, err := atomizeOne(local, seq)
	if err != nil {
		return nil, err
	}
	switch {
	case xdm.IsSubtypeOf(a.Kind, xdm.KInteger):
		return xdm.Singleton(a), nil
	case a.Kind == xdm.KDecimal:
		return xdm.Singleton(xdm.NewDecimal(rfn(a.Dec))), nil
	case a.Kind == xdm.KFloat:
		return xdm.Singleton(xdm.NewFloat(float32(ffn(float64(a.F32))))), nil
	default:
		f, _ := a.NumericValue()
		return xdm.Singleton(xdm.NewDouble(ffn(f))), nil
	}
}

func ratCeil(r *big.Rat) *big.Rat {
	q := new(big.Int)
	m := new(big.Int)
	q.QuoRem(r.Num(), r.Denom(), m)
	if m.Sign() != 0 && r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return new(big.Rat).SetInt(q)
}

func ratFloor(r *big.Rat) *big.Rat {
	q := new(big.Int)
	m := new(big.Int)
	q.QuoRem(r.Num(), r.Denom(), m)
	if m.Sign() != 0 && r.Sign() < 0 {
		q.Sub(q, big.NewInt(1))
	}
	return new(big.Rat).SetInt(q)
}

type roundMode int

const (
	roundHalfUp roundMode = iota
	roundHalfEven
)

// roundAt implements fn:round/fn:round-half-to-even's optional
// $precision parameter by scaling, rounding to an integer, and
// scaling back, per F&O's "round to $precision decimal digits" rule.
func roundAt(local string, seq xdm.Sequence, precision int64, mode roundMode) (xdm.Sequence, error) {
	if seq.IsEmpty() {
		return nil, nil
	}
	a, err := atomizeOne(local, seq)
	if err != nil {
		return nil, err
	}
	switch {
	case xdm.IsSubtypeOf(a.Kind, xdm.KInteger):
		if precision >= 0 {
			return xdm.Singleton(a), nil
		}
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(-precision), nil)
		rat := new(big.Rat).SetFrac(a.Int, scale)
		rounded := roundRat(rat, mode)
		return xdm.Singleton(xdm.NewIntegerBig(new(big.Int).Mul(rounded, scale))), nil
	case a.Kind == xdm.KDecimal:
		scale := pow10Rat(precision)
		scaled := new(big.Rat).Mul(a.Dec, scale)
		rounded := roundRat(scaled, mode)
		out := new(big.Rat).Quo(new(big.Rat).SetInt(rounded), scale)
		return xdm.Singleton(xdm.NewDecimal(out)), nil
	default:
		f, _ := a.NumericValue()
		scale := math.Pow(10, float64(precision))
		var rf float64
		if mode == roundHalfEven {
			rf = math.RoundToEven(f*scale) / scale
		} else {
			rf = roundHalfAwayFromZero(f*scale) / scale
		}
		if a.Kind == xdm.KFloat {
			return xdm.Singleton(xdm.NewFloat(float32(rf))), nil
		}
		return xdm.Singleton(xdm.NewDouble(rf)), nil
	}
}

// roundHalfAwayFromZero rounds f to the nearest integer, halves away
// from zero.
func roundHalfAwayFromZero(f float64) float64 { return math.Round(f) }

// pow10Rat returns 10**p as an exact big.Rat for any sign of p
// (big.Int.Exp panics on a negative exponent with no modulus).
func pow10Rat(p int64) *big.Rat {
	if p >= 0 {
		return new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(p), nil))
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(-p), nil)
	return new(big.Rat).SetFrac(big.NewInt(1), denom)
}

// roundRat rounds r to the nearest integer. q/rem come from truncated
// (toward-zero) division; "increment" below means move q's magnitude
// one step further from zero.
func roundRat(r *big.Rat, mode roundMode) *big.Int {
	q := new(big.Int)
	rem := new(big.Int)
	q.QuoRem(r.Num(), r.Denom(), rem)
	if rem.Sign() == 0 {
		return q
	}
	twice := new(big.Int).Abs(rem)
	twice.Mul(twice, big.NewInt(2))
	cmp := twice.Cmp(r.Denom())

	increment := cmp > 0
	if cmp == 0 {
		switch mode {
		case roundHalfEven:
			parity := new(big.Int).Abs(q)
			increment = parity.Bit(0) == 1
		default:
			// fn:round: halfway rounds toward positive infinity.
			increment = r.Sign() > 0
		}
	}
	if increment {
		if r.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return q
}

func mathPi(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return doubleSeq(math.Pi), nil
}

func mathUnary(f func(float64) float64) Impl {
	return func(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
		if args[0].IsEmpty() {
			return nil, nil
		}
		x, err := floatArg("math", args[0])
		if err != nil {
			return nil, err
		}
		return doubleSeq(f(x)), nil
	}
}

func mathPow(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return nil, nil
	}
	x, err := floatArg("math:pow", args[0])
	if err != nil {
		return nil, err
	}
	y, err := floatArg("math:pow", args[1])
	if err != nil {
		return nil, err
	}
	return doubleSeq(math.Pow(x, y)), nil
}

func mathAtan2(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	y, err := floatArg("math:atan2", args[0])
	if err != nil {
		return nil, err
	}
	x, err := floatArg("math:atan2", args[1])
	if err != nil {
		return nil, err
	}
	return doubleSeq(math.Atan2(y, x)), nil
}
