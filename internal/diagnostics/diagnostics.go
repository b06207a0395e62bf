// Package diagnostics defines the XPath F&O error taxonomy and the
// DiagnosticError type carried across every phase of the engine.
package diagnostics

import (
	"fmt"
	"strings"
)

// Phase identifies which stage of the pipeline raised an error.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseAnalyzer Phase = "analyzer"
	PhaseRuntime  Phase = "runtime"
)

// Code is an XPath/XQuery Functions & Operators error code.
type Code string

// Static errors (parse / analysis).
const (
	XPST0003 Code = "XPST0003" // syntax error
	XPST0008 Code = "XPST0008" // undeclared variable/type
	XPST0017 Code = "XPST0017" // unknown function or wrong arity
	XPST0051 Code = "XPST0051" // unknown atomic type
	XPST0080 Code = "XPST0080" // target type of cast must not be xs:NOTATION/xs:anyAtomicType
	XPST0081 Code = "XPST0081" // unbound namespace prefix
	XQST0000 Code = "XQST0000" // reserved
)

// Dynamic errors (evaluation).
const (
	XPDY0002 Code = "XPDY0002" // absent context item
	XPDY0050 Code = "XPDY0050" // treat as mismatch
	XPTY0004 Code = "XPTY0004" // bad operand type
	XPTY0018 Code = "XPTY0018" // path step mixes nodes and atomics
	XPTY0019 Code = "XPTY0019" // non-node step input
	XPTY0020 Code = "XPTY0020" // axis step context item is not a node
	FORG0001 Code = "FORG0001" // invalid value for cast/constructor
	FORG0003 Code = "FORG0003" // zero-or-one called on >1 items
	FORG0006 Code = "FORG0006" // invalid argument type (EBV / aggregate)
	FORG0009 Code = "FORG0009" // error in resolving relative URI
	FORX0001 Code = "FORX0001" // invalid regex flags
	FORX0002 Code = "FORX0002" // invalid regular expression
	FORX0003 Code = "FORX0003" // regex matches zero-length string
	FORX0004 Code = "FORX0004" // invalid replacement string
	FOAR0001 Code = "FOAR0001" // division by zero
	FOAR0002 Code = "FOAR0002" // numeric operation overflow/underflow
	FOCA0001 Code = "FOCA0001" // input value too large for decimal
	FOCA0002 Code = "FOCA0002" // invalid lexical value
	FOCA0003 Code = "FOCA0003" // input value too large for integer
	FODT0001 Code = "FODT0001" // overflow/underflow in date/time operation
	FODT0002 Code = "FODT0002" // overflow/underflow in duration operation
	FODT0003 Code = "FODT0003" // invalid timezone value
	FONS0004 Code = "FONS0004" // no namespace found for prefix
	FOER0000 Code = "FOER0000" // unidentified error (fn:error)
	FODC0002 Code = "FODC0002" // error retrieving resource (fn:doc)
	FODC0005 Code = "FODC0005" // invalid argument to fn:doc
)

// StackFrame is one entry in the evaluation-stack snapshot attached to
// dynamic errors (spec.md §6: "evaluation stack").
type StackFrame struct {
	Symbol string
	Span   Span
}

// Span is a byte-offset source range within the parsed expression text.
type Span struct {
	Start int
	End   int
}

// Error is the error type produced and propagated by every phase.
type Error struct {
	Code    Code
	Phase   Phase
	Message string
	Span    Span
	Stack   []StackFrame
	// EvalID correlates this error with the evaluation context that
	// produced it (internal/context stamps every snapshot with a
	// uuid.UUID; we just keep the string form here to avoid an
	// import cycle).
	EvalID string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", e.Phase, e.Code, e.Message)
	if e.Span.Start != 0 || e.Span.End != 0 {
		fmt.Fprintf(&b, " (at %d:%d)", e.Span.Start, e.Span.End)
	}
	return b.String()
}

// New builds a static (parse/analysis) error.
func New(phase Phase, code Code, span Span, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Phase:   phase,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}

// Runtime builds a dynamic (evaluation) error carrying a stack snapshot.
func Runtime(code Code, span Span, stack []StackFrame, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Phase:   PhaseRuntime,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
		Stack:   stack,
	}
}

// WithEvalID attaches the evaluation correlation id and returns e for
// chaining at the point of raise.
func (e *Error) WithEvalID(id string) *Error {
	e.EvalID = id
	return e
}

// Is reports whether err is a *Error with the given code, so callers
// can do diagnostics.Is(err, diagnostics.FOAR0001) without a type
// assertion at every call site.
func Is(err error, code Code) bool {
	de, ok := err.(*Error)
	return ok && de.Code == code
}
