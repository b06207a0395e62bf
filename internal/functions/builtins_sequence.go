package functions

import (
	"math/big"
	"sort"

	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/operators"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// registerSequence wires fn: general sequence functions plus the
// higher-order fn:for-each/filter/fold-left/fold-right (spec.md §4.6),
// grounded on funxy's builtins_sequence.go grouping and, for the
// higher-order forms, the evaluator's closure-calling convention
// generalized to xdm function items via callFunctionItem.
func registerSequence(r *Registry) {
	r.fixed(FnNamespace, "count", 1, fnCount)
	r.fixed(FnNamespace, "empty", 1, fnEmpty)
	r.fixed(FnNamespace, "exists", 1, fnExists)
	r.register(FnNamespace, "distinct-values", 1, 2, fnDistinctValues)
	r.fixed(FnNamespace, "reverse", 1, fnReverse)
	r.register(FnNamespace, "subsequence", 2, 3, fnSubsequence)
	r.fixed(FnNamespace, "insert-before", 3, fnInsertBefore)
	r.fixed(FnNamespace, "remove", 2, fnRemove)
	r.register(FnNamespace, "index-of", 2, 3, fnIndexOf)
	r.register(FnNamespace, "deep-equal", 2, 3, fnDeepEqual)
	r.register(FnNamespace, "min", 1, 2, fnMin)
	r.register(FnNamespace, "max", 1, 2, fnMax)
	r.register(FnNamespace, "sum", 1, 2, fnSum)
	r.fixed(FnNamespace, "avg", 1, fnAvg)
	r.fixed(FnNamespace, "zero-or-one", 1, fnZeroOrOne)
	r.fixed(FnNamespace, "one-or-more", 1, fnOneOrMore)
	r.fixed(FnNamespace, "exactly-one", 1, fnExactlyOne)
	r.fixed(FnNamespace, "head", 1, fnHead)
	r.fixed(FnNamespace, "tail", 1, fnTail)

	r.fixed(FnNamespace, "for-each", 2, fnForEach)
	r.fixed(FnNamespace, "filter", 2, fnFilter)
	r.fixed(FnNamespace, "fold-left", 3, fnFoldLeft)
	r.fixed(FnNamespace, "fold-right", 3, fnFoldRight)
	r.fixed(FnNamespace, "for-each-pair", 3, fnForEachPair)
	r.register(FnNamespace, "sort", 1, 2, fnSort)
}

func fnCount(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return intSeq(int64(len(args[0]))), nil
}

func fnEmpty(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return boolSeq(args[0].IsEmpty()), nil
}

func fnExists(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return boolSeq(!args[0].IsEmpty()), nil
}

func fnDistinctValues(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	atoms, err := astAtomize(args[0])
	if err != nil {
		return nil, err
	}
	col, _ := collationArg(ctx, args, 1)
	var out xdm.Sequence
	for _, a := range atoms {
		dup := false
		for _, seen := range out {
			sa := seen.(xdm.Atomic)
			if atomicEqualCollated(a, sa, col) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, a)
		}
	}
	return out, nil
}

func atomicEqualCollated(a, b xdm.Atomic, col context.Collation) bool {
	if col != nil && a.Kind == xdm.KString && b.Kind == xdm.KString {
		return col.Equal(a.Str, b.Str)
	}
	return a.Equal(b)
}

func fnReverse(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	seq := args[0]
	out := make(xdm.Sequence, len(seq))
	for i, it := range seq {
		out[len(seq)-1-i] = it
	}
	return out, nil
}

func fnSubsequence(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	seq := args[0]
	start, err := floatArg("subsequence", args[1])
	if err != nil {
		return nil, err
	}
	from := roundHalfAwayFromZero(start)
	to := float64(len(seq)) + 1
	if len(args) == 3 {
		length, err := floatArg("subsequence", args[2])
		if err != nil {
			return nil, err
		}
		to = from + roundHalfAwayFromZero(length)
	}
	if from < 1 {
		from = 1
	}
	if to > float64(len(seq))+1 {
		to = float64(len(seq)) + 1
	}
	if to <= from {
		return nil, nil
	}
	return append(xdm.Sequence{}, seq[int(from)-1:int(to)-1]...), nil
}

func fnInsertBefore(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	seq := args[0]
	pos, err := intArg("insert-before", args[1])
	if err != nil {
		return nil, err
	}
	if pos < 1 {
		pos = 1
	}
	if pos > int64(len(seq))+1 {
		pos = int64(len(seq)) + 1
	}
	out := make(xdm.Sequence, 0, len(seq)+len(args[2]))
	out = append(out, seq[:pos-1]...)
	out = append(out, args[2]...)
	out = append(out, seq[pos-1:]...)
	return out, nil
}

func fnRemove(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	seq := args[0]
	pos, err := intArg("remove", args[1])
	if err != nil {
		return nil, err
	}
	if pos < 1 || pos > int64(len(seq)) {
		return append(xdm.Sequence{}, seq...), nil
	}
	out := make(xdm.Sequence, 0, len(seq)-1)
	out = append(out, seq[:pos-1]...)
	out = append(out, seq[pos:]...)
	return out, nil
}

func fnIndexOf(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	atoms, err := astAtomize(args[0])
	if err != nil {
		return nil, err
	}
	target, err := atomizeOne("index-of", args[1])
	if err != nil {
		return nil, err
	}
	col, _ := collationArg(ctx, args, 2)
	var out xdm.Sequence
	for i, a := range atoms {
		if atomicEqualCollated(a, target, col) {
			out = append(out, xdm.NewInteger(int64(i+1)))
		}
	}
	return out, nil
}

func fnDeepEqual(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, b := args[0], args[1]
	if len(a) != len(b) {
		return boolSeq(false), nil
	}
	for i := range a {
		if !deepEqualItem(a[i], b[i]) {
			return boolSeq(false), nil
		}
	}
	return boolSeq(true), nil
}

func deepEqualItem(a, b xdm.Item) bool {
	switch at := a.(type) {
	case xdm.Atomic:
		bt, ok := b.(xdm.Atomic)
		return ok && at.Equal(bt)
	case xdm.NodeItem:
		bt, ok := b.(xdm.NodeItem)
		if !ok {
			return false
		}
		return at.Node.Kind() == bt.Node.Kind() && at.Node.StringValue() == bt.Node.StringValue()
	case *xdm.MapItem:
		bt, ok := b.(*xdm.MapItem)
		if !ok || at.Size() != bt.Size() {
			return false
		}
		for _, e := range at.Entries() {
			bv, ok := bt.Get(e.Key)
			if !ok || len(bv) != len(e.Value) {
				return false
			}
			for i := range e.Value {
				if !deepEqualItem(e.Value[i], bv[i]) {
					return false
				}
			}
		}
		return true
	case *xdm.ArrayItem:
		bt, ok := b.(*xdm.ArrayItem)
		if !ok || at.Len() != bt.Len() {
			return false
		}
		for i := 1; i <= at.Len(); i++ {
			av, _ := at.Get(i)
			bv, _ := bt.Get(i)
			if len(av) != len(bv) {
				return false
			}
			for j := range av {
				if !deepEqualItem(av[j], bv[j]) {
					return false
				}
			}
		}
		return true
	}
	return false
}

func fnMin(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return minMax("min", args, false)
}

func fnMax(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return minMax("max", args, true)
}

func minMax(local string, args []xdm.Sequence, wantMax bool) (xdm.Sequence, error) {
	atoms, err := astAtomize(args[0])
	if err != nil {
		return nil, err
	}
	if len(atoms) == 0 {
		return nil, nil
	}
	best := atoms[0]
	bestF, _ := best.NumericValue()
	for _, a := range atoms[1:] {
		f, ok := a.NumericValue()
		if !ok {
			if a.String() > best.String() == wantMax {
				best = a
			}
			continue
		}
		if (f > bestF) == wantMax {
			best, bestF = a, f
		}
	}
	return xdm.Singleton(best), nil
}

func fnSum(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	atoms, err := astAtomize(args[0])
	if err != nil {
		return nil, err
	}
	if len(atoms) == 0 {
		if len(args) == 2 {
			return args[1], nil
		}
		return intSeq(0), nil
	}
	allInt := true
	total := new(big.Rat)
	var fsum float64
	for _, a := range atoms {
		switch {
		case xdm.IsSubtypeOf(a.Kind, xdm.KInteger):
			total.Add(total, new(big.Rat).SetInt(a.Int))
		case a.Kind == xdm.KDecimal:
			total.Add(total, a.Dec)
		default:
			allInt = false
			f, _ := a.NumericValue()
			fsum += f
		}
	}
	if allInt {
		if isIntegerRat(total) {
			return xdm.Singleton(xdm.NewIntegerBig(ratToInt(total))), nil
		}
		return xdm.Singleton(xdm.NewDecimal(total)), nil
	}
	f, _ := new(big.Float).SetRat(total).Float64()
	return doubleSeq(f + fsum), nil
}

func isIntegerRat(r *big.Rat) bool { return r.IsInt() }
func ratToInt(r *big.Rat) *big.Int { return new(big.Int).Quo(r.Num(), r.Denom()) }

func fnAvg(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	atoms, err := astAtomize(args[0])
	if err != nil {
		return nil, err
	}
	if len(atoms) == 0 {
		return nil, nil
	}
	sumSeq, err := fnSum(ctx, []xdm.Sequence{args[0]})
	if err != nil {
		return nil, err
	}
	sum := sumSeq[0].(xdm.Atomic)
	f, _ := sum.NumericValue()
	if !xdm.IsSubtypeOf(sum.Kind, xdm.KInteger) && sum.Kind != xdm.KDecimal {
		return doubleSeq(f / float64(len(atoms))), nil
	}
	avgRat := new(big.Rat).Quo(atomicAsRat(sum), big.NewRat(int64(len(atoms)), 1))
	return xdm.Singleton(xdm.NewDecimal(avgRat)), nil
}

// atomicAsRat views an integer- or decimal-kinded atomic as an exact
// big.Rat, for fn:avg's division step.
func atomicAsRat(a xdm.Atomic) *big.Rat {
	if xdm.IsSubtypeOf(a.Kind, xdm.KInteger) {
		return new(big.Rat).SetInt(a.Int)
	}
	return a.Dec
}

func fnZeroOrOne(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if len(args[0]) > 1 {
		return nil, diagNewFORG0003OneOfMsg("zero-or-one", len(args[0]))
	}
	return args[0], nil
}

func fnOneOrMore(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if len(args[0]) < 1 {
		return nil, diagNewFORG0003OneOfMsg("one-or-more", len(args[0]))
	}
	return args[0], nil
}

func fnExactlyOne(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if len(args[0]) != 1 {
		return nil, diagNewFORG0003OneOfMsg("exactly-one", len(args[0]))
	}
	return args[0], nil
}

func fnHead(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return nil, nil
	}
	return xdm.Singleton(args[0][0]), nil
}

func fnTail(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if len(args[0]) <= 1 {
		return nil, nil
	}
	return append(xdm.Sequence{}, args[0][1:]...), nil
}

func fnForEach(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	fnItem, err := singleFunctionItem("for-each", args[1])
	if err != nil {
		return nil, err
	}
	var out xdm.Sequence
	for _, it := range args[0] {
		r, err := callFunctionItem("for-each", fnItem, []xdm.Sequence{xdm.Singleton(it)})
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

func fnFilter(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	fnItem, err := singleFunctionItem("filter", args[1])
	if err != nil {
		return nil, err
	}
	var out xdm.Sequence
	for _, it := range args[0] {
		r, err := callFunctionItem("filter", fnItem, []xdm.Sequence{xdm.Singleton(it)})
		if err != nil {
			return nil, err
		}
		keep, err := operators.EBV(r)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, it)
		}
	}
	return out, nil
}

func fnFoldLeft(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	fnItem, err := singleFunctionItem("fold-left", args[2])
	if err != nil {
		return nil, err
	}
	acc := args[1]
	for _, it := range args[0] {
		acc, err = callFunctionItem("fold-left", fnItem, []xdm.Sequence{acc, xdm.Singleton(it)})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func fnFoldRight(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	fnItem, err := singleFunctionItem("fold-right", args[2])
	if err != nil {
		return nil, err
	}
	acc := args[1]
	seq := args[0]
	var err2 error
	for i := len(seq) - 1; i >= 0; i-- {
		acc, err2 = callFunctionItem("fold-right", fnItem, []xdm.Sequence{xdm.Singleton(seq[i]), acc})
		if err2 != nil {
			return nil, err2
		}
	}
	return acc, nil
}

func fnForEachPair(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	fnItem, err := singleFunctionItem("for-each-pair", args[2])
	if err != nil {
		return nil, err
	}
	a, b := args[0], args[1]
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var out xdm.Sequence
	for i := 0; i < n; i++ {
		r, err := callFunctionItem("for-each-pair", fnItem, []xdm.Sequence{xdm.Singleton(a[i]), xdm.Singleton(b[i])})
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

func fnSort(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	seq := append(xdm.Sequence{}, args[0]...)
	keys := make([]xdm.Atomic, len(seq))
	for i, it := range seq {
		atoms, err := astAtomize(xdm.Singleton(it))
		if err != nil {
			return nil, err
		}
		if len(atoms) == 1 {
			keys[i] = atoms[0]
		}
	}
	sort.SliceStable(seq, func(i, j int) bool {
		return compareSortKeys(keys[i], keys[j]) < 0
	})
	return seq, nil
}

func compareSortKeys(a, b xdm.Atomic) int {
	af, aok := a.NumericValue()
	bf, bok := b.NumericValue()
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := a.String(), b.String()
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func diagNewFORG0003OneOfMsg(local string, got int) error {
	return diagNewFORG0003("%s: expected a sequence matching its cardinality constraint, got length %d", local, got)
}
