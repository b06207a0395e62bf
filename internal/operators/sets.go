package operators

import (
	"github.com/funvibe/xpathlite/internal/adapter"
	"github.com/funvibe/xpathlite/internal/axes"
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// SetOp identifies a node-sequence set operator (spec.md §4.4).
type SetOp int

const (
	Union SetOp = iota
	Intersect
	Except
)

// Set evaluates union/intersect/except over two node sequences,
// deduplicating by identity and returning the result in document
// order (spec.md §4.4: "result is always in document order, with
// duplicates removed by identity").
func Set(op SetOp, a, b []adapter.Node) []adapter.Node {
	switch op {
	case Union:
		return axes.Sort(append(append([]adapter.Node{}, a...), b...))
	case Intersect:
		inB := toSet(b)
		var out []adapter.Node
		for _, n := range a {
			if inB[n] {
				out = append(out, n)
			}
		}
		return axes.Sort(out)
	case Except:
		inB := toSet(b)
		var out []adapter.Node
		for _, n := range a {
			if !inB[n] {
				out = append(out, n)
			}
		}
		return axes.Sort(out)
	}
	return nil
}

func toSet(nodes []adapter.Node) map[adapter.Node]bool {
	set := make(map[adapter.Node]bool, len(nodes))
	for _, n := range nodes {
		set[n] = true
	}
	return set
}

// Range implements the `to` operator (spec.md §4.4): an empty
// sequence if lo > hi, else the ascending integer sequence [lo, hi].
func Range(lo, hi int64) []int64 {
	if lo > hi {
		return nil
	}
	out := make([]int64, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

// Concat implements `,`, the sequence constructor: flattening operand
// sequences without deduplication or reordering (spec.md §4.4).
func Concat(seqs ...xdm.Sequence) xdm.Sequence {
	var out xdm.Sequence
	for _, s := range seqs {
		out = append(out, s...)
	}
	return out
}

// StringConcat implements `||` (spec.md §4.4): concatenates the
// string values of two atomized, atomic operands.
func StringConcat(a, b xdm.Atomic) (xdm.Atomic, error) {
	sa, err := xdm.Cast(a, xdm.KString)
	if err != nil {
		return xdm.Atomic{}, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.XPTY0004, diagnostics.Span{},
			"`||` operand is not castable to xs:string")
	}
	sb, err := xdm.Cast(b, xdm.KString)
	if err != nil {
		return xdm.Atomic{}, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.XPTY0004, diagnostics.Span{},
			"`||` operand is not castable to xs:string")
	}
	return xdm.NewString(xdm.KString, sa.Str+sb.Str), nil
}
