package functions

import "github.com/dlclark/regexp2"

// regexSplit implements fn:tokenize's "split on every non-overlapping
// match" semantics over regexp2, which (unlike Go's stdlib regexp) has
// no built-in Split — grounded on regexp2's documented
// FindStringMatch/FindNextMatch iteration idiom.
func regexSplit(re *regexp2.Regexp, s string) ([]string, error) {
	var out []string
	pos := 0
	m, err := re.FindStringMatch(s)
	if err != nil {
		return nil, err
	}
	for m != nil {
		start := m.Index
		end := m.Index + m.Length
		if end == start {
			// F&O's tokenize forbids a pattern that matches a
			// zero-length string: FORX0003.
			return nil, diagNewFORX0003("fn:tokenize: regex matches zero-length string")
		}
		out = append(out, s[pos:start])
		pos = end
		m, err = re.FindNextMatch(m)
		if err != nil {
			return nil, err
		}
	}
	out = append(out, s[pos:])
	return out, nil
}
