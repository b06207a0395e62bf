package functions

import (
	"math"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/funvibe/xpathlite/internal/context"
	"github.com/funvibe/xpathlite/internal/xdm"
	"github.com/funvibe/xpathlite/internal/xpregex"
)

// registerStrings wires the fn: string built-ins (spec.md §4.6),
// grounded on funxy's builtins_string.go split (search/replace/
// trim/case groups) generalized from List<Char> operands to XDM
// string-family atomics.
func registerStrings(r *Registry) {
	r.register(FnNamespace, "concat", 2, -1, fnConcat)
	r.fixed(FnNamespace, "string-length", 0, fnStringLength0)
	r.fixed(FnNamespace, "string-length", 1, fnStringLength1)
	r.fixed(FnNamespace, "normalize-space", 0, fnNormalizeSpace0)
	r.fixed(FnNamespace, "normalize-space", 1, fnNormalizeSpace1)
	r.fixed(FnNamespace, "upper-case", 1, fnUpperCase)
	r.fixed(FnNamespace, "lower-case", 1, fnLowerCase)
	r.register(FnNamespace, "contains", 2, 3, fnContains)
	r.register(FnNamespace, "starts-with", 2, 3, fnStartsWith)
	r.register(FnNamespace, "ends-with", 2, 3, fnEndsWith)
	r.register(FnNamespace, "substring-before", 2, 3, fnSubstringBefore)
	r.register(FnNamespace, "substring-after", 2, 3, fnSubstringAfter)
	r.register(FnNamespace, "substring", 2, 3, fnSubstring)
	r.fixed(FnNamespace, "translate", 3, fnTranslate)
	r.register(FnNamespace, "string-join", 1, 2, fnStringJoin)
	r.fixed(FnNamespace, "string-to-codepoints", 1, fnStringToCodepoints)
	r.fixed(FnNamespace, "codepoints-to-string", 1, fnCodepointsToString)
	r.register(FnNamespace, "matches", 2, 3, fnMatches)
	r.register(FnNamespace, "replace", 3, 4, fnReplace)
	r.register(FnNamespace, "tokenize", 1, 3, fnTokenize)
	r.register(FnNamespace, "analyze-string", 2, 3, fnAnalyzeString)
	r.fixed(FnNamespace, "compare", 2, fnCompare)
	r.fixed(FnNamespace, "string", 1, fnStringCtor)
}

func fnConcat(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	var b strings.Builder
	for _, a := range args {
		s, err := stringArg("concat", a)
		if err != nil {
			return nil, err
		}
		b.WriteString(s)
	}
	return strSeq(b.String()), nil
}

func fnStringLength0(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := contextString(ctx)
	if err != nil {
		return nil, err
	}
	return intSeq(int64(len([]rune(s)))), nil
}

func fnStringLength1(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := atomizeOptionalString("string-length", args[0])
	if err != nil {
		return nil, err
	}
	return intSeq(int64(len([]rune(s)))), nil
}

func fnNormalizeSpace0(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := contextString(ctx)
	if err != nil {
		return nil, err
	}
	return strSeq(normalizeSpace(s)), nil
}

func fnNormalizeSpace1(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := atomizeOptionalString("normalize-space", args[0])
	if err != nil {
		return nil, err
	}
	return strSeq(normalizeSpace(s)), nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fnUpperCase(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := stringArg("upper-case", args[0])
	if err != nil {
		return nil, err
	}
	return strSeq(strings.ToUpper(s)), nil
}

func fnLowerCase(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := stringArg("lower-case", args[0])
	if err != nil {
		return nil, err
	}
	return strSeq(strings.ToLower(s)), nil
}

func collationArg(ctx *context.Context, args []xdm.Sequence, idx int) (context.Collation, error) {
	if len(args) <= idx {
		col, _ := ctx.Collation("")
		return col, nil
	}
	uri, err := stringArg("collation", args[idx])
	if err != nil {
		return nil, err
	}
	col, ok := ctx.Collation(uri)
	if !ok {
		return nil, diagNewFOCA0002("unknown collation %q", uri)
	}
	return col, nil
}

func fnContains(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s1, err := atomizeOptionalString("contains", args[0])
	if err != nil {
		return nil, err
	}
	s2, err := atomizeOptionalString("contains", args[1])
	if err != nil {
		return nil, err
	}
	return boolSeq(strings.Contains(s1, s2)), nil
}

func fnStartsWith(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s1, err := atomizeOptionalString("starts-with", args[0])
	if err != nil {
		return nil, err
	}
	s2, err := atomizeOptionalString("starts-with", args[1])
	if err != nil {
		return nil, err
	}
	return boolSeq(strings.HasPrefix(s1, s2)), nil
}

func fnEndsWith(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s1, err := atomizeOptionalString("ends-with", args[0])
	if err != nil {
		return nil, err
	}
	s2, err := atomizeOptionalString("ends-with", args[1])
	if err != nil {
		return nil, err
	}
	return boolSeq(strings.HasSuffix(s1, s2)), nil
}

func fnSubstringBefore(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s1, err := atomizeOptionalString("substring-before", args[0])
	if err != nil {
		return nil, err
	}
	s2, err := atomizeOptionalString("substring-before", args[1])
	if err != nil {
		return nil, err
	}
	if s2 == "" {
		return strSeq(""), nil
	}
	i := strings.Index(s1, s2)
	if i < 0 {
		return strSeq(""), nil
	}
	return strSeq(s1[:i]), nil
}

func fnSubstringAfter(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s1, err := atomizeOptionalString("substring-after", args[0])
	if err != nil {
		return nil, err
	}
	s2, err := atomizeOptionalString("substring-after", args[1])
	if err != nil {
		return nil, err
	}
	if s2 == "" {
		return strSeq(s1), nil
	}
	i := strings.Index(s1, s2)
	if i < 0 {
		return strSeq(""), nil
	}
	return strSeq(s1[i+len(s2):]), nil
}

func fnSubstring(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := atomizeOptionalString("substring", args[0])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	start, err := floatArg("substring", args[1])
	if err != nil {
		return nil, err
	}
	length := float64(len(runes)) - start + 1
	haveLen := false
	if len(args) == 3 {
		length, err = floatArg("substring", args[2])
		if err != nil {
			return nil, err
		}
		haveLen = true
	}
	_ = haveLen
	// spec.md §4.6: fractional start/length round half-to-even, 1-based.
	from := math.RoundToEven(start)
	to := from + math.RoundToEven(length)
	if from < 1 {
		from = 1
	}
	if to > float64(len(runes))+1 {
		to = float64(len(runes)) + 1
	}
	if to <= from {
		return strSeq(""), nil
	}
	return strSeq(string(runes[int(from)-1 : int(to)-1])), nil
}

func fnTranslate(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := atomizeOptionalString("translate", args[0])
	if err != nil {
		return nil, err
	}
	from, err := atomizeOptionalString("translate", args[1])
	if err != nil {
		return nil, err
	}
	to, err := atomizeOptionalString("translate", args[2])
	if err != nil {
		return nil, err
	}
	fromR, toR := []rune(from), []rune(to)
	var b strings.Builder
	for _, r := range s {
		idx := -1
		for i, fr := range fromR {
			if fr == r {
				idx = i
				break
			}
		}
		if idx == -1 {
			b.WriteRune(r)
			continue
		}
		if idx < len(toR) {
			b.WriteRune(toR[idx])
		}
	}
	return strSeq(b.String()), nil
}

func fnStringJoin(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	atoms, err := astAtomize(args[0])
	if err != nil {
		return nil, err
	}
	sep := ""
	if len(args) == 2 {
		sep, err = atomizeOptionalString("string-join", args[1])
		if err != nil {
			return nil, err
		}
	}
	parts := make([]string, len(atoms))
	for i, a := range atoms {
		parts[i] = a.String()
	}
	return strSeq(strings.Join(parts, sep)), nil
}

func fnStringToCodepoints(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := atomizeOptionalString("string-to-codepoints", args[0])
	if err != nil {
		return nil, err
	}
	var out xdm.Sequence
	for _, r := range s {
		out = append(out, xdm.NewInteger(int64(r)))
	}
	return out, nil
}

func fnCodepointsToString(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	atoms, err := astAtomize(args[0])
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, a := range atoms {
		b.WriteRune(rune(a.Int.Int64()))
	}
	return strSeq(b.String()), nil
}

func fnMatches(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := atomizeOptionalString("matches", args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := stringArg("matches", args[1])
	if err != nil {
		return nil, err
	}
	flagStr := ""
	if len(args) == 3 {
		flagStr, err = stringArg("matches", args[2])
		if err != nil {
			return nil, err
		}
	}
	flags, err := xpregex.ParseFlags(flagStr)
	if err != nil {
		return nil, err
	}
	re, err := xpregex.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	ok, err := re.MatchString(s)
	if err != nil {
		return nil, err
	}
	return boolSeq(ok), nil
}

func fnReplace(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := atomizeOptionalString("replace", args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := stringArg("replace", args[1])
	if err != nil {
		return nil, err
	}
	replacement, err := stringArg("replace", args[2])
	if err != nil {
		return nil, err
	}
	flagStr := ""
	if len(args) == 4 {
		flagStr, err = stringArg("replace", args[3])
		if err != nil {
			return nil, err
		}
	}
	flags, err := xpregex.ParseFlags(flagStr)
	if err != nil {
		return nil, err
	}
	re, err := xpregex.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	out, err := re.Replace(s, translateReplacement(replacement), -1, -1)
	if err != nil {
		return nil, err
	}
	return strSeq(out), nil
}

// translateReplacement rewrites F&O's `$n` backreference syntax into
// regexp2's `${n}` form.
func translateReplacement(r string) string {
	var b strings.Builder
	runes := []rune(r)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '$' && i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9' {
			j := i + 1
			for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
				j++
			}
			b.WriteString("${" + string(runes[i+1:j]) + "}")
			i = j - 1
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

func fnTokenize(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := atomizeOptionalString("tokenize", args[0])
	if err != nil {
		return nil, err
	}
	pattern := `\s+`
	if len(args) >= 2 {
		pattern, err = stringArg("tokenize", args[1])
		if err != nil {
			return nil, err
		}
		s = strings.TrimSpace(s)
	}
	flagStr := ""
	if len(args) == 3 {
		flagStr, err = stringArg("tokenize", args[2])
		if err != nil {
			return nil, err
		}
	}
	flags, err := xpregex.ParseFlags(flagStr)
	if err != nil {
		return nil, err
	}
	re, err := xpregex.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	parts, err := regexSplit(re, s)
	if err != nil {
		return nil, err
	}
	var out xdm.Sequence
	for _, p := range parts {
		out = append(out, xdm.NewString(xdm.KString, p))
	}
	return out, nil
}

// fnAnalyzeString implements fn:analyze-string (spec.md §4.6). Real
// F&O returns an <fn:analyze-string-result> element tree, but this
// engine has no XML-construction surface (SPEC_FULL.md Non-goals:
// "XML parsing/DOM construction as core"), so the result is modeled
// as an array of maps — one per matched/non-matched segment, each
// with a "match" boolean, the segment "value", and (for matches) a
// "groups" array of the pattern's capture-group strings in order.
func fnAnalyzeString(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s, err := atomizeOptionalString("analyze-string", args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := stringArg("analyze-string", args[1])
	if err != nil {
		return nil, err
	}
	flagStr := ""
	if len(args) == 3 {
		flagStr, err = stringArg("analyze-string", args[2])
		if err != nil {
			return nil, err
		}
	}
	flags, err := xpregex.ParseFlags(flagStr)
	if err != nil {
		return nil, err
	}
	re, err := xpregex.Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	segments, err := analyzeStringSegments(re, s)
	if err != nil {
		return nil, err
	}
	return xdm.Singleton(segments), nil
}

// analyzeStringSegments walks every non-overlapping match exactly as
// regexSplit does, but keeps the matched text and its capture groups
// instead of discarding them.
func analyzeStringSegments(re *regexp2.Regexp, s string) (*xdm.ArrayItem, error) {
	var members []xdm.Sequence
	pos := 0
	m, err := re.FindStringMatch(s)
	if err != nil {
		return nil, err
	}
	for m != nil {
		start := m.Index
		end := m.Index + m.Length
		if end == start {
			return nil, diagNewFORX0003("fn:analyze-string: regex matches zero-length string")
		}
		if start > pos {
			members = append(members, xdm.Sequence{nonMatchSegment(s[pos:start])})
		}
		members = append(members, xdm.Sequence{matchSegment(m)})
		pos = end
		m, err = re.FindNextMatch(m)
		if err != nil {
			return nil, err
		}
	}
	if pos < len(s) {
		members = append(members, xdm.Sequence{nonMatchSegment(s[pos:])})
	}
	return xdm.NewArray(members...), nil
}

func nonMatchSegment(s string) *xdm.MapItem {
	out := xdm.NewMap()
	out = out.Put(xdm.NewString(xdm.KString, "match"), boolSeq(false))
	out = out.Put(xdm.NewString(xdm.KString, "value"), strSeq(s))
	return out
}

func matchSegment(m *regexp2.Match) *xdm.MapItem {
	groups := m.Groups()
	var captures []xdm.Sequence
	for _, g := range groups[1:] {
		captures = append(captures, strSeq(g.String()))
	}
	out := xdm.NewMap()
	out = out.Put(xdm.NewString(xdm.KString, "match"), boolSeq(true))
	out = out.Put(xdm.NewString(xdm.KString, "value"), strSeq(m.String()))
	out = out.Put(xdm.NewString(xdm.KString, "groups"), xdm.Sequence{xdm.NewArray(captures...)})
	return out
}

func fnCompare(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	s1, err := atomizeOptionalString("compare", args[0])
	if err != nil {
		return nil, err
	}
	s2, err := atomizeOptionalString("compare", args[1])
	if err != nil {
		return nil, err
	}
	col, _ := ctx.Collation("")
	return intSeq(int64(col.Compare(s1, s2))), nil
}

func fnStringCtor(ctx *context.Context, args []xdm.Sequence) (xdm.Sequence, error) {
	if args[0].IsEmpty() {
		return strSeq(""), nil
	}
	s, err := stringArg("string", args[0])
	if err != nil {
		return nil, err
	}
	return strSeq(s), nil
}

func contextString(ctx *context.Context) (string, error) {
	if ctx.Item == nil {
		return "", diagNewXPDY0002("string-length/normalize-space: context item is absent")
	}
	atoms, err := astAtomize(xdm.Singleton(ctx.Item))
	if err != nil {
		return "", err
	}
	if len(atoms) != 1 {
		return "", nil
	}
	return atoms[0].String(), nil
}
