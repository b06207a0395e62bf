package operators

import "github.com/funvibe/xpathlite/internal/xdm"

// SimpleMap implements the `!` operator (spec.md §4.4): apply fn to
// each item of seq in turn, with concatenation of the results (not
// atomization — the right-hand side may itself produce nodes or
// atomics). The per-item evaluation closure is supplied by the AST
// layer, which has access to the expression tree and a context whose
// focus it rebinds per item.
func SimpleMap(seq xdm.Sequence, fn func(item xdm.Item, position int) (xdm.Sequence, error)) (xdm.Sequence, error) {
	var out xdm.Sequence
	for i, it := range seq {
		r, err := fn(it, i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

// Arrow implements the `=>` operator (spec.md §4.4): apply a named or
// dynamic function to seq as its first argument, followed by the
// remaining argument sequences. Like SimpleMap, the function lookup
// and evaluation is performed by the caller (internal/ast), since it
// may be a static function reference or a dynamic function item.
func Arrow(seq xdm.Sequence, fn func(first xdm.Sequence) (xdm.Sequence, error)) (xdm.Sequence, error) {
	return fn(seq)
}
