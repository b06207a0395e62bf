package kernel

// Profile gates which additive XPath grammar features a Parser
// accepts, letting internal/dialects layer XPath 1.0 through 3.1 over
// one shared engine (spec.md §4.1/§7: "version selects a grammar
// subset, not a different engine"). Grounded on funxy's
// precedences-map-plus-registration-functions pattern
// (internal/parser/parser.go init()), generalized from "a fixed table"
// into "a table gated by a per-instance capability set" since XPath's
// versions are strictly additive over one grammar rather than funxy's
// single fixed language.
type Profile struct {
	Name string

	FLWOR          bool // for, spec.md §4.5 (2.0+)
	LetBinding     bool // let, spec.md §4.5 (3.0+ only; unlike the unmarked `for`)
	QuantifiedExpr bool // some/every (2.0+)
	IfExpr         bool // if/then/else (2.0+)
	InstanceOf     bool // instance of / treat as / castable as / cast as (2.0+)
	SimpleMap      bool // `!` (3.0+)
	StringConcat   bool // `||` (3.0+)
	Arrow          bool // `=>` (3.1; 3.0 drafts omitted it, SPEC_FULL.md follows the final 3.1 grammar)
	InlineFunction bool // function(...) {...} / name#arity (3.0+)
	MapsAndArrays  bool // map{}/array{}/[...]/?lookup (3.1)
}

// V10 is the XPath 1.0 grammar subset: paths, axis steps, predicates,
// arithmetic, general comparison (no eq/ne/lt/.../`instance of`/FLWOR).
func V10() Profile { return Profile{Name: "1.0"} }

// V20 adds FLWOR-lite (for/let), quantified/if expressions, value
// comparison (eq/ne/...), and the SequenceType operators.
func V20() Profile {
	return Profile{Name: "2.0", FLWOR: true, QuantifiedExpr: true, IfExpr: true, InstanceOf: true}
}

// V30 adds the simple-map, string-concat, arrow, inline-function, and
// `let` operators on top of 2.0.
func V30() Profile {
	p := V20()
	p.Name = "3.0"
	p.SimpleMap = true
	p.StringConcat = true
	p.Arrow = true
	p.InlineFunction = true
	p.LetBinding = true
	return p
}

// V31 adds maps and arrays on top of 3.0.
func V31() Profile {
	p := V30()
	p.Name = "3.1"
	p.MapsAndArrays = true
	return p
}
