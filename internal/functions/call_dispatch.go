package functions

import "github.com/funvibe/xpathlite/internal/xdm"

// callFunctionItem invokes any of the three XDM "callable" item
// shapes with a fixed argument list — the internal/functions analogue
// of internal/ast's callItem, needed here because fn:for-each,
// fn:filter, fn:fold-left/right, and the map/array-as-function lookup
// forms (spec.md §8) all take an arbitrary function item as an
// argument rather than a statically resolved name.
func callFunctionItem(local string, item xdm.Item, args []xdm.Sequence) (xdm.Sequence, error) {
	switch t := item.(type) {
	case *xdm.FunctionItem:
		return t.Call(args)
	case *xdm.MapItem:
		if len(args) != 1 {
			return nil, diagNewXPTY0004("%s: map used as a function takes exactly one argument, got %d", local, len(args))
		}
		key, err := atomizeOne(local, args[0])
		if err != nil {
			return nil, err
		}
		v, _ := t.Get(key)
		return v, nil
	case *xdm.ArrayItem:
		if len(args) != 1 {
			return nil, diagNewXPTY0004("%s: array used as a function takes exactly one argument, got %d", local, len(args))
		}
		key, err := atomizeOne(local, args[0])
		if err != nil {
			return nil, err
		}
		pos, err := xdm.Cast(key, xdm.KInteger)
		if err != nil {
			return nil, err
		}
		v, ok := t.Get(int(pos.Int.Int64()))
		if !ok {
			return nil, diagNewFOAR0002("%s: array index %d out of bounds", local, pos.Int.Int64())
		}
		return v, nil
	}
	return nil, diagNewXPTY0004("%s: argument is not a function item, map, or array", local)
}

// singleFunctionItem atomizes-free-extracts the one xdm.Item a
// higher-order function's $f/$action parameter must hold.
func singleFunctionItem(local string, seq xdm.Sequence) (xdm.Item, error) {
	if len(seq) != 1 {
		return nil, diagNewXPTY0004("%s: expected a single function item, got a sequence of length %d", local, len(seq))
	}
	return seq[0], nil
}
