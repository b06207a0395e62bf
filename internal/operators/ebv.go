package operators

import (
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// EBV computes the Effective Boolean Value of a sequence (spec.md
// §4.2): empty sequence is false; a single boolean/string/numeric/
// anyURI atomic coerces directly; a node sequence is true iff
// non-empty; anything else (maps, arrays, function items, or a
// sequence of length > 1 not all nodes) raises FORG0006.
func EBV(seq xdm.Sequence) (bool, error) {
	if seq.IsEmpty() {
		return false, nil
	}
	first := seq[0]
	if first.ItemKind() == xdm.CategoryNode {
		return true, nil
	}
	if len(seq) > 1 {
		return false, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FORG0006, diagnostics.Span{},
			"effective boolean value undefined for a sequence of more than one item that is not all nodes")
	}
	a, ok := first.(xdm.Atomic)
	if !ok {
		return false, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FORG0006, diagnostics.Span{},
			"effective boolean value undefined for a map, array, or function item")
	}
	switch {
	case a.Kind == xdm.KBoolean:
		return a.Bool, nil
	case xdm.IsSubtypeOf(a.Kind, xdm.KString) || a.Kind == xdm.KAnyURI:
		return a.Str != "", nil
	case a.IsNumeric():
		f, _ := a.NumericValue()
		return f != 0 && !isNaN(f), nil
	default:
		return false, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FORG0006, diagnostics.Span{},
			"effective boolean value undefined for type "+a.Kind.String())
	}
}

func isNaN(f float64) bool { return f != f }
