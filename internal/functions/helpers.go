package functions

import (
	"math/big"

	"github.com/funvibe/xpathlite/internal/ast"
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// atomizeOne atomizes seq and requires exactly one resulting atomic,
// the functions-package equivalent of ast.AtomizeOne (which needs an
// *ast.Env this package never has access to — built-ins are called
// with only the dynamic context, per ast.Callable).
func atomizeOne(local string, seq xdm.Sequence) (xdm.Atomic, error) {
	atoms, err := ast.Atomize(seq)
	if err != nil {
		return xdm.Atomic{}, err
	}
	if len(atoms) != 1 {
		return xdm.Atomic{}, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.XPTY0004, diagnostics.Span{},
			"%s: expected a single atomic value, got a sequence of length %d", local, len(atoms))
	}
	return atoms[0], nil
}

// atomizeOptionalString atomizes seq to at most one item and reads it
// as a string, with fallback for the empty sequence (most fn: string
// functions treat a missing $arg as the context item's string value;
// simplified here to "" since resolving the context item lives in
// internal/ast, not here — call sites needing context-item defaulting
// pass it explicitly).
func atomizeOptionalString(local string, seq xdm.Sequence) (string, error) {
	if seq.IsEmpty() {
		return "", nil
	}
	a, err := atomizeOne(local, seq)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

func stringArg(local string, seq xdm.Sequence) (string, error) {
	a, err := atomizeOne(local, seq)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

func boolArg(local string, seq xdm.Sequence) (bool, error) {
	a, err := atomizeOne(local, seq)
	if err != nil {
		return false, err
	}
	v, err := xdm.Cast(a, xdm.KBoolean)
	if err != nil {
		return false, err
	}
	return v.Bool, nil
}

func intArg(local string, seq xdm.Sequence) (int64, error) {
	a, err := atomizeOne(local, seq)
	if err != nil {
		return 0, err
	}
	v, err := xdm.Cast(a, xdm.KInteger)
	if err != nil {
		return 0, err
	}
	return v.Int.Int64(), nil
}

func floatArg(local string, seq xdm.Sequence) (float64, error) {
	a, err := atomizeOne(local, seq)
	if err != nil {
		return 0, err
	}
	f, ok := a.NumericValue()
	if !ok {
		v, err := xdm.Cast(a, xdm.KDouble)
		if err != nil {
			return 0, err
		}
		return v.F64, nil
	}
	return f, nil
}

func strSeq(s string) xdm.Sequence { return xdm.Singleton(xdm.NewString(xdm.KString, s)) }
func boolSeq(b bool) xdm.Sequence  { return xdm.Singleton(xdm.NewBoolean(b)) }
func intSeq(i int64) xdm.Sequence  { return xdm.Singleton(xdm.NewInteger(i)) }
func doubleSeq(f float64) xdm.Sequence { return xdm.Singleton(xdm.NewDouble(f)) }

func bigRat(f float64) *big.Rat { return new(big.Rat).SetFloat64(f) }

// astAtomize re-exports ast.Atomize under a local name so built-in
// files don't need to spell out the ast import at every call site.
func astAtomize(seq xdm.Sequence) ([]xdm.Atomic, error) { return ast.Atomize(seq) }

func diagNewXPDY0002(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.XPDY0002, diagnostics.Span{}, format, args...)
}

func diagNewFOCA0002(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FOCA0002, diagnostics.Span{}, format, args...)
}

func diagNewFORG0001(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FORG0001, diagnostics.Span{}, format, args...)
}

func diagNewFORG0006(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FORG0006, diagnostics.Span{}, format, args...)
}

func diagNewFORG0003(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FORG0003, diagnostics.Span{}, format, args...)
}

func diagNewFODC0002(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FODC0002, diagnostics.Span{}, format, args...)
}

func diagNewFONS0004(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FONS0004, diagnostics.Span{}, format, args...)
}

func diagNewFORX0003(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FORX0003, diagnostics.Span{}, format, args...)
}

func diagNewFODT0003(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FODT0003, diagnostics.Span{}, format, args...)
}

func diagNewXPTY0004(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.XPTY0004, diagnostics.Span{}, format, args...)
}

func diagNewFOAR0001(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FOAR0001, diagnostics.Span{}, format, args...)
}

func diagNewFOAR0002(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FOAR0002, diagnostics.Span{}, format, args...)
}

func diagNewXPST0017(format string, args ...interface{}) error {
	return diagnostics.New(diagnostics.PhaseRuntime, diagnostics.XPST0017, diagnostics.Span{}, format, args...)
}
