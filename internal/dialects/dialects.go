// Package dialects layers the four XPath versions (1.0/2.0/3.0/3.1,
// spec.md §7) over the one shared internal/kernel parser and
// internal/functions registry. Grounded on funxy's internal/pipeline
// Processor chain (PipelineContext threaded through a fixed stage
// list) generalized from "one fixed language" to "one engine, four
// grammar profiles" — a Dialect is the per-version configuration a
// Processor-style pipeline stage consults, not a separate parser.
package dialects

import (
	"github.com/funvibe/xpathlite/internal/ast"
	"github.com/funvibe/xpathlite/internal/functions"
	"github.com/funvibe/xpathlite/internal/kernel"
)

// Version names one of the four supported dialects (spec.md §7).
type Version string

const (
	V10 Version = "1.0"
	V20 Version = "2.0"
	V30 Version = "3.0"
	V31 Version = "3.1"
)

// Dialect pairs a grammar Profile with the built-in registry visible
// to it. Every dialect shares one Registry instance (spec.md §7: "the
// function library is the same across versions; version gates syntax,
// not which functions exist" — see DESIGN.md's Open Question entry),
// built once by functions.New and reused by every Dialect below.
type Dialect struct {
	Version  Version
	Profile  kernel.Profile
	Registry *functions.Registry
}

var sharedRegistry = functions.New()

// For returns the Dialect for version, defaulting to 3.1 (the most
// permissive profile) for an unrecognized string, mirroring
// funxy's pipeline default-stage-list fallback rather than failing
// closed — callers that care about strict version validation should
// check Recognized first.
func For(v Version) *Dialect {
	switch v {
	case V10:
		return &Dialect{Version: V10, Profile: kernel.V10(), Registry: sharedRegistry}
	case V20:
		return &Dialect{Version: V20, Profile: kernel.V20(), Registry: sharedRegistry}
	case V30:
		return &Dialect{Version: V30, Profile: kernel.V30(), Registry: sharedRegistry}
	default:
		return &Dialect{Version: V31, Profile: kernel.V31(), Registry: sharedRegistry}
	}
}

// Recognized reports whether v names one of the four defined
// versions.
func Recognized(v Version) bool {
	switch v {
	case V10, V20, V30, V31:
		return true
	default:
		return false
	}
}

// Parse compiles src under this dialect's grammar profile, resolving
// prefixes through ns (pass nil for an empty static namespace
// context beyond the fixed `xml` prefix).
func (d *Dialect) Parse(src string, ns kernel.NamespaceResolver) (ast.Node, error) {
	if ns == nil {
		ns = func(string) (string, bool) { return "", false }
	}
	p, err := kernel.New(src, d.Profile, ns)
	if err != nil {
		return nil, err
	}
	return p.ParseExpr()
}
