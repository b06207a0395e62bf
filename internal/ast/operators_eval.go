package ast

import (
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/operators"
	"github.com/funvibe/xpathlite/internal/xdm"
)

// OpKind enumerates every infix operator handled by BinaryExpr; each
// maps onto internal/operators' typed operator enums at evaluation
// time (spec.md §4.4).
type OpKind int

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpIDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpGEq
	OpGNe
	OpGLt
	OpGLe
	OpGGt
	OpGGe
	OpIs
	OpPrecedes
	OpFollows
	OpUnion
	OpIntersect
	OpExcept
	OpTo
	OpAnd
	OpOr
	OpStringConcat
)

// BinaryExpr evaluates a single infix operator over two subexpressions.
type BinaryExpr struct {
	Op          OpKind
	Left, Right Node
	Sp          diagnostics.Span
}

func (n *BinaryExpr) Span() diagnostics.Span { return n.Sp }

func (n *BinaryExpr) Eval(env *Env) (xdm.Sequence, error) {
	switch n.Op {
	case OpAnd, OpOr:
		return n.evalLogical(env)
	case OpUnion, OpIntersect, OpExcept:
		return n.evalSet(env)
	case OpTo:
		return n.evalRange(env)
	case OpIs, OpPrecedes, OpFollows:
		return n.evalNodeCompare(env)
	}

	lseq, err := n.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	rseq, err := n.Right.Eval(env)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case OpAdd, OpSub, OpMul, OpDiv, OpIDiv, OpMod:
		la, lok, err := AtomizeOptional(env, lseq, n.Sp)
		if err != nil {
			return nil, err
		}
		ra, rok, err := AtomizeOptional(env, rseq, n.Sp)
		if err != nil {
			return nil, err
		}
		if !lok || !rok {
			return nil, nil
		}
		r, err := operators.Arithmetic(arithOpOf(n.Op), la, ra)
		if err != nil {
			return nil, wrapRuntimeErr(env, err, n.Sp)
		}
		return xdm.Singleton(r), nil

	case OpStringConcat:
		la, err := AtomizeOne(env, lseq, n.Sp)
		if err != nil {
			return nil, err
		}
		ra, err := AtomizeOne(env, rseq, n.Sp)
		if err != nil {
			return nil, err
		}
		r, err := operators.StringConcat(la, ra)
		if err != nil {
			return nil, wrapRuntimeErr(env, err, n.Sp)
		}
		return xdm.Singleton(r), nil

	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		la, lok, err := AtomizeOptional(env, lseq, n.Sp)
		if err != nil {
			return nil, err
		}
		ra, rok, err := AtomizeOptional(env, rseq, n.Sp)
		if err != nil {
			return nil, err
		}
		if !lok || !rok {
			return nil, nil
		}
		col, _ := env.Ctx.Collation("")
		ok, err := operators.ValueCompare(valueOpOf(n.Op), la, ra, col, env.Ctx.ImplicitTimezoneMinutes())
		if err != nil {
			return nil, wrapRuntimeErr(env, err, n.Sp)
		}
		return xdm.Singleton(xdm.NewBoolean(ok)), nil

	case OpGEq, OpGNe, OpGLt, OpGLe, OpGGt, OpGGe:
		la, err := Atomize(lseq)
		if err != nil {
			return nil, err
		}
		ra, err := Atomize(rseq)
		if err != nil {
			return nil, err
		}
		col, _ := env.Ctx.Collation("")
		ok, err := operators.GeneralCompare(generalOpOf(n.Op), la, ra, col, env.Ctx.ImplicitTimezoneMinutes(), env.Ctx.Opts.CompatibilityMode)
		if err != nil {
			return nil, wrapRuntimeErr(env, err, n.Sp)
		}
		return xdm.Singleton(xdm.NewBoolean(ok)), nil
	}
	return nil, runtimeErr(env, diagnostics.XPST0003, n.Sp, "unsupported binary operator")
}

func (n *BinaryExpr) evalLogical(env *Env) (xdm.Sequence, error) {
	lseq, err := n.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	lv, err := operators.EBV(lseq)
	if err != nil {
		return nil, wrapRuntimeErr(env, err, n.Sp)
	}
	if n.Op == OpAnd && !lv {
		return xdm.Singleton(xdm.NewBoolean(false)), nil
	}
	if n.Op == OpOr && lv {
		return xdm.Singleton(xdm.NewBoolean(true)), nil
	}
	rseq, err := n.Right.Eval(env)
	if err != nil {
		return nil, err
	}
	rv, err := operators.EBV(rseq)
	if err != nil {
		return nil, wrapRuntimeErr(env, err, n.Sp)
	}
	return xdm.Singleton(xdm.NewBoolean(rv)), nil
}

func (n *BinaryExpr) evalSet(env *Env) (xdm.Sequence, error) {
	lseq, err := n.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	rseq, err := n.Right.Eval(env)
	if err != nil {
		return nil, err
	}
	if !lseq.AllNodes() || !rseq.AllNodes() {
		return nil, runtimeErr(env, diagnostics.XPTY0004, n.Sp, "set operator operand is not a node sequence")
	}
	var op operators.SetOp
	switch n.Op {
	case OpUnion:
		op = operators.Union
	case OpIntersect:
		op = operators.Intersect
	case OpExcept:
		op = operators.Except
	}
	return xdm.WrapNodes(operators.Set(op, lseq.Nodes(), rseq.Nodes())), nil
}

func (n *BinaryExpr) evalRange(env *Env) (xdm.Sequence, error) {
	lseq, err := n.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	rseq, err := n.Right.Eval(env)
	if err != nil {
		return nil, err
	}
	la, lok, err := AtomizeOptional(env, lseq, n.Sp)
	if err != nil {
		return nil, err
	}
	ra, rok, err := AtomizeOptional(env, rseq, n.Sp)
	if err != nil {
		return nil, err
	}
	if !lok || !rok {
		return nil, nil
	}
	lcast, err := xdm.Cast(la, xdm.KInteger)
	if err != nil {
		return nil, wrapRuntimeErr(env, err, n.Sp)
	}
	rcast, err := xdm.Cast(ra, xdm.KInteger)
	if err != nil {
		return nil, wrapRuntimeErr(env, err, n.Sp)
	}
	vals := operators.Range(lcast.Int.Int64(), rcast.Int.Int64())
	out := make(xdm.Sequence, len(vals))
	for i, v := range vals {
		out[i] = xdm.NewInteger(v)
	}
	return out, nil
}

func (n *BinaryExpr) evalNodeCompare(env *Env) (xdm.Sequence, error) {
	lseq, err := n.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	rseq, err := n.Right.Eval(env)
	if err != nil {
		return nil, err
	}
	if lseq.IsEmpty() || rseq.IsEmpty() {
		return nil, nil
	}
	ln, lok := lseq[0].(xdm.NodeItem)
	rn, rok := rseq[0].(xdm.NodeItem)
	if len(lseq) != 1 || len(rseq) != 1 || !lok || !rok {
		return nil, runtimeErr(env, diagnostics.XPTY0004, n.Sp, "node comparison operand is not a single node")
	}
	var op operators.NodeCompareOp
	switch n.Op {
	case OpIs:
		op = operators.Is
	case OpPrecedes:
		op = operators.Before
	case OpFollows:
		op = operators.After
	}
	return xdm.Singleton(xdm.NewBoolean(operators.NodeCompare(op, ln.Node, rn.Node))), nil
}

// UnaryExpr evaluates unary `+`/`-` (spec.md §4.4).
type UnaryExpr struct {
	Negate  bool
	Operand Node
	Sp      diagnostics.Span
}

func (n *UnaryExpr) Span() diagnostics.Span { return n.Sp }

func (n *UnaryExpr) Eval(env *Env) (xdm.Sequence, error) {
	seq, err := n.Operand.Eval(env)
	if err != nil {
		return nil, err
	}
	a, ok, err := AtomizeOptional(env, seq, n.Sp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if !n.Negate {
		if !a.IsNumeric() {
			return nil, runtimeErr(env, diagnostics.XPTY0004, n.Sp, "unary `+` operand is not numeric")
		}
		return xdm.Singleton(a), nil
	}
	r, err := operators.Arithmetic(operators.Mul, a, xdm.NewInteger(-1))
	if err != nil {
		return nil, wrapRuntimeErr(env, err, n.Sp)
	}
	return xdm.Singleton(r), nil
}

func wrapRuntimeErr(env *Env, err error, sp diagnostics.Span) error {
	if de, ok := err.(*diagnostics.Error); ok {
		de.Stack = env.Stack
		if de.EvalID == "" {
			de.EvalID = env.Ctx.EvalID
		}
		return de
	}
	return runtimeErr(env, diagnostics.FOER0000, sp, "%s", err.Error())
}

func arithOpOf(op OpKind) operators.ArithOp {
	switch op {
	case OpAdd:
		return operators.Add
	case OpSub:
		return operators.Sub
	case OpMul:
		return operators.Mul
	case OpDiv:
		return operators.Div
	case OpIDiv:
		return operators.IDiv
	case OpMod:
		return operators.Mod
	}
	return operators.Add
}

func valueOpOf(op OpKind) operators.CompareOp {
	switch op {
	case OpEq:
		return operators.Eq
	case OpNe:
		return operators.Ne
	case OpLt:
		return operators.Lt
	case OpLe:
		return operators.Le
	case OpGt:
		return operators.Gt
	case OpGe:
		return operators.Ge
	}
	return operators.Eq
}

func generalOpOf(op OpKind) operators.CompareOp {
	switch op {
	case OpGEq:
		return operators.Eq
	case OpGNe:
		return operators.Ne
	case OpGLt:
		return operators.Lt
	case OpGLe:
		return operators.Le
	case OpGGt:
		return operators.Gt
	case OpGGe:
		return operators.Ge
	}
	return operators.Eq
}
