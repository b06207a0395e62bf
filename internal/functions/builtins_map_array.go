package functions

import (
	"sort"

	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/operators"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// registerMapArray wires the 3.1 map:/array: modules (spec.md §4.6,
// §8). Grounded on xdm.MapItem/ArrayItem's already-immutable,
// copy-on-write Put/Append API (spec.md §9's "maps/arrays are
// immutable values, not mutable collections") — every mutator here is
// a thin wrapper returning a new value, the same shape as funxy's
// config-option Set-returns-new-value pattern in internal/config.
func registerMapArray(r *Registry) {
	r.fixed(MapNamespace, "merge", 1, mapMerge1)
	r.fixed(MapNamespace, "merge", 2, mapMerge2)
	r.fixed(MapNamespace, "size", 1, mapSize)
	r.fixed(MapNamespace, "keys", 1, mapKeys)
	r.fixed(MapNamespace, "contains", 2, mapContains)
	r.fixed(MapNamespace, "get", 2, mapGet)
	r.fixed(MapNamespace, "put", 3, mapPut)
	r.fixed(MapNamespace, "remove", 2, mapRemove)
	r.fixed(MapNamespace, "for-each", 2, mapForEach)

	r.fixed(ArrayNamespace, "size", 1, arraySize)
	r.fixed(ArrayNamespace, "get", 2, arrayGet)
	r.fixed(ArrayNamespace, "put", 3, arrayPut)
	r.fixed(ArrayNamespace, "append", 2, arrayAppend)
	r.fixed(ArrayNamespace, "subarray", 2, arraySubarray2)
	r.fixed(ArrayNamespace, "insert-before", 3, arrayInsertBefore)
	r.fixed(ArrayNamespace, "remove", 2, arrayRemove)
	r.fixed(ArrayNamespace, "reverse", 1, arrayReverse)
	r.register(ArrayNamespace, "join", 1, -1, arrayJoin)
	r.fixed(ArrayNamespace, "flatten", 1, arrayFlatten)
	r.fixed(ArrayNamespace, "for-each", 2, arrayForEach)
	r.fixed(ArrayNamespace, "filter", 2, arrayFilter)
	r.fixed(ArrayNamespace, "fold-left", 3, arrayFoldLeft)
	r.fixed(ArrayNamespace, "fold-right", 3, arrayFoldRight)
	r.fixed(ArrayNamespace, "for-each-pair", 3, arrayForEachPair)
	r.register(ArrayNamespace, "sort", 1, 2, arraySort)
}

func asMap(local string, seq xdm.Sequence) (*xdm.MapItem, error) {
	if len(seq) != 1 {
		return nil, diagNewXPTY0004("%s: expected a single map, got a sequence of length %d", local, len(seq))
	}
	m, ok := seq[0].(*xdm.MapItem)
	if !ok {
		return nil, diagNewXPTY0004("%s: argument is not a map", local)
	}
	return m, nil
}

func asArray(local string, seq xdm.Sequence) (*xdm.ArrayItem, error) {
	if len(seq) != 1 {
		return nil, diagNewXPTY0004("%s: expected a single array, got a sequence of length %d", local, len(seq))
	}
	a, ok := seq[0].(*xdm.ArrayItem)
	if !ok {
		return nil, diagNewXPTY0004("%s: argument is not an array", local)
	}
	return a, nil
}

func mapMerge1(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return mapMergeWith(args[0], xdm.UseFirst)
}

func mapMerge2(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	optMap, err := asMap("map:merge", args[1])
	if err != nil {
		return nil, err
	}
	policy := xdm.UseFirst
	dupSeq, ok := optMap.Get(xdm.NewString(xdm.KString, "duplicates"))
	if ok && len(dupSeq) == 1 {
		if s, ok := dupSeq[0].(xdm.Atomic); ok {
			switch s.String() {
			case "use-last":
				policy = xdm.UseLast
			case "combine":
				policy = xdm.Combine
			case "reject":
				policy = xdm.Reject
			case "use-any":
				policy = xdm.UseAny
			}
		}
	}
	return mapMergeWith(args[0], policy)
}

func mapMergeWith(seq xdm.Sequence, policy xdm.DuplicateKeyPolicy) (xdm.Sequence, error) {
	maps := make([]*xdm.MapItem, 0, len(seq))
	for _, it := range seq {
		m, ok := it.(*xdm.MapItem)
		if !ok {
			return nil, diagNewXPTY0004("map:merge: sequence member is not a map")
		}
		maps = append(maps, m)
	}
	merged, err := xdm.Merge(maps, policy)
	if err != nil {
		return nil, err
	}
	return xdm.Singleton(merged), nil
}

func mapSize(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	m, err := asMap("map:size", args[0])
	if err != nil {
		return nil, err
	}
	return intSeq(int64(m.Size())), nil
}

func mapKeys(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	m, err := asMap("map:keys", args[0])
	if err != nil {
		return nil, err
	}
	out := make(xdm.Sequence, 0, m.Size())
	for _, e := range m.Entries() {
		out = append(out, e.Key)
	}
	return out, nil
}

func mapContains(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	m, err := asMap("map:contains", args[0])
	if err != nil {
		return nil, err
	}
	key, err := atomizeOne("map:contains", args[1])
	if err != nil {
		return nil, err
	}
	_, ok := m.Get(key)
	return boolSeq(ok), nil
}

func mapGet(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	m, err := asMap("map:get", args[0])
	if err != nil {
		return nil, err
	}
	key, err := atomizeOne("map:get", args[1])
	if err != nil {
		return nil, err
	}
	v, _ := m.Get(key)
	return v, nil
}

func mapPut(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	m, err := asMap("map:put", args[0])
	if err != nil {
		return nil, err
	}
	key, err := atomizeOne("map:put", args[1])
	if err != nil {
		return nil, err
	}
	return xdm.Singleton(m.Put(key, args[2])), nil
}

func mapRemove(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	m, err := asMap("map:remove", args[0])
	if err != nil {
		return nil, err
	}
	keys, err := astAtomize(args[1])
	if err != nil {
		return nil, err
	}
	out := xdm.NewMap()
	remove := map[string]bool{}
	for _, k := range keys {
		remove[k.String()] = true
	}
	for _, e := range m.Entries() {
		if remove[e.Key.String()] {
			continue
		}
		out = out.Put(e.Key, e.Value)
	}
	return xdm.Singleton(out), nil
}

func mapForEach(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	m, err := asMap("map:for-each", args[0])
	if err != nil {
		return nil, err
	}
	fnItem, err := singleFunctionItem("map:for-each", args[1])
	if err != nil {
		return nil, err
	}
	var out xdm.Sequence
	for _, e := range m.Entries() {
		r, err := callFunctionItem("map:for-each", fnItem, []xdm.Sequence{xdm.Singleton(e.Key), e.Value})
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

func arraySize(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:size", args[0])
	if err != nil {
		return nil, err
	}
	return intSeq(int64(a.Len())), nil
}

func arrayGet(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:get", args[0])
	if err != nil {
		return nil, err
	}
	pos, err := intArg("array:get", args[1])
	if err != nil {
		return nil, err
	}
	v, ok := a.Get(int(pos))
	if !ok {
		return nil, diagNewFOAR0002("array:get: index %d out of bounds", pos)
	}
	return v, nil
}

func arrayPut(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:put", args[0])
	if err != nil {
		return nil, err
	}
	pos, err := intArg("array:put", args[1])
	if err != nil {
		return nil, err
	}
	if pos < 1 || int(pos) > a.Len() {
		return nil, diagNewFOAR0002("array:put: index %d out of bounds", pos)
	}
	members := append([]xdm.Sequence{}, a.Members()...)
	members[pos-1] = args[2]
	return xdm.Singleton(xdm.NewArray(members...)), nil
}

func arrayAppend(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:append", args[0])
	if err != nil {
		return nil, err
	}
	return xdm.Singleton(a.Append(args[1])), nil
}

func arraySubarray2(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:subarray", args[0])
	if err != nil {
		return nil, err
	}
	start, err := intArg("array:subarray", args[1])
	if err != nil {
		return nil, err
	}
	members := a.Members()
	if start < 1 || int(start) > len(members)+1 {
		return nil, diagNewFOAR0002("array:subarray: start %d out of bounds", start)
	}
	return xdm.Singleton(xdm.NewArray(members[start-1:]...)), nil
}

func arrayInsertBefore(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:insert-before", args[0])
	if err != nil {
		return nil, err
	}
	pos, err := intArg("array:insert-before", args[1])
	if err != nil {
		return nil, err
	}
	members := a.Members()
	if pos < 1 || int(pos) > len(members)+1 {
		return nil, diagNewFOAR0002("array:insert-before: position %d out of bounds", pos)
	}
	out := make([]xdm.Sequence, 0, len(members)+1)
	out = append(out, members[:pos-1]...)
	out = append(out, args[2])
	out = append(out, members[pos-1:]...)
	return xdm.Singleton(xdm.NewArray(out...)), nil
}

func arrayRemove(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:remove", args[0])
	if err != nil {
		return nil, err
	}
	pos, err := intArg("array:remove", args[1])
	if err != nil {
		return nil, err
	}
	members := a.Members()
	if pos < 1 || int(pos) > len(members) {
		return nil, diagNewFOAR0002("array:remove: position %d out of bounds", pos)
	}
	out := make([]xdm.Sequence, 0, len(members)-1)
	out = append(out, members[:pos-1]...)
	out = append(out, members[pos:]...)
	return xdm.Singleton(xdm.NewArray(out...)), nil
}

func arrayReverse(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:reverse", args[0])
	if err != nil {
		return nil, err
	}
	members := a.Members()
	out := make([]xdm.Sequence, len(members))
	for i, m := range members {
		out[len(members)-1-i] = m
	}
	return xdm.Singleton(xdm.NewArray(out...)), nil
}

func arrayJoin(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	var members []xdm.Sequence
	for _, seq := range args {
		a, err := asArray("array:join", seq)
		if err != nil {
			return nil, err
		}
		members = append(members, a.Members()...)
	}
	return xdm.Singleton(xdm.NewArray(members...)), nil
}

func arrayFlatten(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:flatten", args[0])
	if err != nil {
		return nil, err
	}
	return a.Flatten(), nil
}

func arrayForEach(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:for-each", args[0])
	if err != nil {
		return nil, err
	}
	fnItem, err := singleFunctionItem("array:for-each", args[1])
	if err != nil {
		return nil, err
	}
	out := make([]xdm.Sequence, a.Len())
	for i, m := range a.Members() {
		r, err := callFunctionItem("array:for-each", fnItem, []xdm.Sequence{m})
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return xdm.Singleton(xdm.NewArray(out...)), nil
}

func arrayFilter(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:filter", args[0])
	if err != nil {
		return nil, err
	}
	fnItem, err := singleFunctionItem("array:filter", args[1])
	if err != nil {
		return nil, err
	}
	var out []xdm.Sequence
	for _, m := range a.Members() {
		r, err := callFunctionItem("array:filter", fnItem, []xdm.Sequence{m})
		if err != nil {
			return nil, err
		}
		keep, err := operators.EBV(r)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, m)
		}
	}
	return xdm.Singleton(xdm.NewArray(out...)), nil
}

func arrayFoldLeft(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:fold-left", args[0])
	if err != nil {
		return nil, err
	}
	fnItem, err := singleFunctionItem("array:fold-left", args[2])
	if err != nil {
		return nil, err
	}
	acc := args[1]
	for _, m := range a.Members() {
		acc, err = callFunctionItem("array:fold-left", fnItem, []xdm.Sequence{acc, m})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func arrayFoldRight(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:fold-right", args[0])
	if err != nil {
		return nil, err
	}
	fnItem, err := singleFunctionItem("array:fold-right", args[2])
	if err != nil {
		return nil, err
	}
	acc := args[1]
	members := a.Members()
	for i := len(members) - 1; i >= 0; i-- {
		var err2 error
		acc, err2 = callFunctionItem("array:fold-right", fnItem, []xdm.Sequence{members[i], acc})
		if err2 != nil {
			return nil, err2
		}
	}
	return acc, nil
}

func arrayForEachPair(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a1, err := asArray("array:for-each-pair", args[0])
	if err != nil {
		return nil, err
	}
	a2, err := asArray("array:for-each-pair", args[1])
	if err != nil {
		return nil, err
	}
	fnItem, err := singleFunctionItem("array:for-each-pair", args[2])
	if err != nil {
		return nil, err
	}
	n := a1.Len()
	if a2.Len() < n {
		n = a2.Len()
	}
	out := make([]xdm.Sequence, n)
	m1, m2 := a1.Members(), a2.Members()
	for i := 0; i < n; i++ {
		r, err := callFunctionItem("array:for-each-pair", fnItem, []xdm.Sequence{m1[i], m2[i]})
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return xdm.Singleton(xdm.NewArray(out...)), nil
}

func arraySort(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	a, err := asArray("array:sort", args[0])
	if err != nil {
		return nil, err
	}
	members := append([]xdm.Sequence{}, a.Members()...)
	keys := make([]xdm.Atomic, len(members))
	for i, m := range members {
		atoms, err := astAtomize(m)
		if err != nil {
			return nil, err
		}
		if len(atoms) == 1 {
			keys[i] = atoms[0]
		}
	}
	sort.SliceStable(members, func(i, j int) bool {
		return compareSortKeys(keys[i], keys[j]) < 0
	})
	return xdm.Singleton(xdm.NewArray(members...)), nil
}
