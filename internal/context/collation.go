package context

import "strings"

// Collation orders/compares strings for fn:compare, sort keys, and
// general-comparison string operands (spec.md §4.7, §9 Open Question
// "Collation registry").
type Collation interface {
	Compare(a, b string) int
	Equal(a, b string) bool
}

// UnicodeCodepointCollation is the mandatory default collation
// (spec.md §9: "implementations must at minimum support the Unicode
// codepoint collation").
type UnicodeCodepointCollation struct{}

func (UnicodeCodepointCollation) Compare(a, b string) int { return strings.Compare(a, b) }
func (UnicodeCodepointCollation) Equal(a, b string) bool  { return a == b }

const DefaultCollationURI = "http://www.w3.org/2005/xpath-functions/collation/codepoint"
