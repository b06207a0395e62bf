// Package schema defines the optional schema-provider interface
// consulted during static analysis (spec.md §6, §4.8). The core never
// validates XML against a schema; it only asks a caller-supplied
// Schema for declared element/attribute types when one is configured
// on the evaluation context.
package schema

import "github.com/funvibe/xpathlite/internal/xdm"

// QName identifies an element or attribute declaration.
type QName struct {
	URI   string
	Local string
}

// Schema is the abstract provider consulted by internal/analyzer and,
// optionally, by the evaluator's atomization step (spec.md §6).
type Schema interface {
	ElementType(name QName) (xdm.SequenceType, bool)
	AttributeType(name QName) (xdm.SequenceType, bool)
	IsDerived(sub, sup xdm.Kind) bool
}

// None is a Schema that declares nothing; every lookup misses and
// IsDerived falls back to xdm.IsSubtypeOf. Used when no schema was
// supplied to the evaluation context.
type None struct{}

func (None) ElementType(QName) (xdm.SequenceType, bool)   { return xdm.SequenceType{}, false }
func (None) AttributeType(QName) (xdm.SequenceType, bool) { return xdm.SequenceType{}, false }
func (None) IsDerived(sub, sup xdm.Kind) bool              { return xdm.IsSubtypeOf(sub, sup) }
