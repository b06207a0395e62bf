// Package xpregex translates XPath/XQuery F&O regular expressions
// (XML Schema Part 2 Appendix F syntax, plus the fn:matches/replace/
// tokenize/analyze-string flag letters s,m,i,x,q) into
// github.com/dlclark/regexp2 patterns, since Go's stdlib regexp
// (RE2) lacks backreferences and the exact XSD character-class
// semantics the F&O functions require (spec.md §4.6 regex functions).
// No teacher analogue — funxy has no regex surface — grounded on the
// F&O regex syntax rules themselves, per SPEC_FULL.md's domain-stack
// wiring for github.com/dlclark/regexp2.
package xpregex

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/funvibe/xpathlite/internal/diagnostics"
)

// Flags holds the parsed regex-functions flag string (spec.md §4.6:
// "s" dot-all, "m" multi-line, "i" case-insensitive, "x" whitespace-
// extended, "q" literal).
type Flags struct {
	DotAll         bool
	Multiline      bool
	CaseInsensitive bool
	Extended       bool
	Literal        bool
}

// ParseFlags decodes the flag string, raising FORX0001 on an unknown
// letter.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, r := range s {
		switch r {
		case 's':
			f.DotAll = true
		case 'm':
			f.Multiline = true
		case 'i':
			f.CaseInsensitive = true
		case 'x':
			f.Extended = true
		case 'q':
			f.Literal = true
		default:
			return f, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FORX0001, diagnostics.Span{},
				"invalid regular expression flag '"+string(r)+"'")
		}
	}
	return f, nil
}

// Compile translates an XSD/F&O pattern plus flags into a compiled
// regexp2.Regexp. A "q" flag pattern is treated as a literal string
// (every metacharacter escaped) per spec.md §4.6.
func Compile(pattern string, flags Flags) (*regexp2.Regexp, error) {
	if flags.Literal {
		pattern = escapeLiteral(pattern)
	} else {
		var err error
		pattern, err = translate(pattern)
		if err != nil {
			return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FORX0002, diagnostics.Span{}, err.Error())
		}
	}
	opts := regexp2.None
	if flags.CaseInsensitive {
		opts |= regexp2.IgnoreCase
	}
	if flags.Multiline {
		opts |= regexp2.Multiline
	}
	if flags.DotAll {
		opts |= regexp2.Singleline
	}
	if flags.Extended {
		opts |= regexp2.IgnorePatternWhitespace
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, diagnostics.New(diagnostics.PhaseRuntime, diagnostics.FORX0002, diagnostics.Span{},
			"invalid regular expression: "+err.Error())
	}
	return re, nil
}

var regexMetachars = `\.^$|()[]{}*+?`

// escapeLiteral backslash-escapes every regex metacharacter so the
// pattern matches its input literally ("q" flag).
func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(regexMetachars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// translate rewrites XSD-specific regex class escapes
// (\p{IsBasicLatin}, \c, \i, multi-character escape sets) that
// regexp2's .NET-flavored engine does not recognize natively into
// equivalent character classes. XSD's core syntax (quantifiers,
// groups, backreferences, anchors, \d \w \s and their negations) is
// already .NET-compatible and passes through unchanged.
func translate(pattern string) (string, error) {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes) && runes[i+1] == 'i':
			b.WriteString(`[_\p{L}]`)
			i++
		case r == '\\' && i+1 < len(runes) && runes[i+1] == 'I':
			b.WriteString(`[^_\p{L}]`)
			i++
		case r == '\\' && i+1 < len(runes) && runes[i+1] == 'c':
			b.WriteString(`[_\p{L}\p{N}.:-]`)
			i++
		case r == '\\' && i+1 < len(runes) && runes[i+1] == 'C':
			b.WriteString(`[^_\p{L}\p{N}.:-]`)
			i++
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}
