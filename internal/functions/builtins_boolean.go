package functions

import (
	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/operators"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// registerBoolean wires fn:not/true/false, grounded on funxy's
// builtins_boolean.go pattern of one tiny closure per truth-table
// builtin. Effective Boolean Value coercion itself lives in
// internal/operators (shared with the `if`/predicate evaluators), not
// reimplemented here.
func registerBoolean(r *Registry) {
	r.fixed(FnNamespace, "not", 1, fnNot)
	r.fixed(FnNamespace, "true", 0, fnTrue)
	r.fixed(FnNamespace, "false", 0, fnFalse)
	r.fixed(FnNamespace, "boolean", 1, fnBoolean)
}

func fnNot(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	b, err := operators.EBV(args[0])
	if err != nil {
		return nil, err
	}
	return boolSeq(!b), nil
}

func fnTrue(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return boolSeq(true), nil
}

func fnFalse(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return boolSeq(false), nil
}

func fnBoolean(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	b, err := operators.EBV(args[0])
	if err != nil {
		return nil, err
	}
	return boolSeq(b), nil
}
