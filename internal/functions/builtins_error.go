package functions

import (
	"log/slog"

	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// registerError wires fn:error (user-raised dynamic errors, spec.md
// §4.6/§6) and fn:trace (diagnostic passthrough). Grounded on
// internal/diagnostics' Runtime constructor directly — there is no
// teacher analogue for a "raise an error value from within the
// language itself" builtin, funxy's errors are all host-side.
func registerError(r *Registry) {
	r.fixed(FnNamespace, "error", 0, fnError0)
	r.fixed(FnNamespace, "error", 1, fnError1)
	r.fixed(FnNamespace, "error", 2, fnError2)
	r.fixed(FnNamespace, "error", 3, fnError3)
	r.register(FnNamespace, "trace", 1, 2, fnTrace)
}

func fnError0(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	return nil, raiseFOER0000(ctx, "", "")
}

func fnError1(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	code, err := atomizeOptionalString("error", args[0])
	if err != nil {
		return nil, err
	}
	return nil, raiseFOER0000(ctx, code, "")
}

func fnError2(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	code, err := atomizeOptionalString("error", args[0])
	if err != nil {
		return nil, err
	}
	desc, err := atomizeOptionalString("error", args[1])
	if err != nil {
		return nil, err
	}
	return nil, raiseFOER0000(ctx, code, desc)
}

func fnError3(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	code, err := atomizeOptionalString("error", args[0])
	if err != nil {
		return nil, err
	}
	desc, err := atomizeOptionalString("error", args[1])
	if err != nil {
		return nil, err
	}
	// args[2] is the error object's associated $error-object sequence
	// (spec.md Non-goals: try/catch $err:value binding is out of
	// scope, so it is accepted but not separately surfaced).
	return nil, raiseFOER0000(ctx, code, desc)
}

func raiseFOER0000(ctx *context.Context, code, description string) error {
	msg := description
	if msg == "" {
		msg = "fn:error called"
	}
	if code != "" {
		msg = code + ": " + msg
	}
	e := diagnostics.Runtime(diagnostics.FOER0000, diagnostics.Span{}, nil, "%s", msg)
	return e.WithEvalID(ctx.EvalID)
}

// fnTrace logs the argument sequence's string form at debug level,
// tagged with the optional $label (spec.md §4.6: fn:trace is
// identity-valued but observable as a side channel), and returns the
// sequence unchanged.
func fnTrace(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	label := "trace"
	if len(args) == 2 {
		l, err := atomizeOptionalString("trace", args[1])
		if err != nil {
			return nil, err
		}
		if l != "" {
			label = l
		}
	}
	atoms, err := astAtomize(args[0])
	if err == nil {
		parts := make([]string, len(atoms))
		for i, a := range atoms {
			parts[i] = a.String()
		}
		slog.Debug("fn:trace", "label", label, "eval_id", ctx.EvalID, "value", parts)
	}
	return args[0], nil
}
