package inflector

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule is a single suffix rewrite. Pattern is matched case-insensitively
// against the end of a word. The first capture group, if any, is kept and
// Replacement is appended after it; everything before the match is kept
// verbatim.
type Rule struct {
	Pattern     string
	Replacement string

	re *regexp.Regexp
}

// RuleTable is an ordered list of rules. The first matching rule wins.
type RuleTable []Rule

// NewRule compiles a suffix rule.
func NewRule(pattern, replacement string) (Rule, error) {
	re, err := regexp.Compile(`(?i)(?:` + pattern + `)$`)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid rule pattern '%s': %w", pattern, err)
	}
	return Rule{Pattern: pattern, Replacement: replacement, re: re}, nil
}

// MustRule is like NewRule but panics if the pattern does not compile.
func MustRule(pattern, replacement string) Rule {
	r, err := NewRule(pattern, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

// Match reports whether the rule applies to word. On success it returns the
// untouched stem in front of the match and the captured text that survives
// the rewrite.
func (r Rule) Match(word string) (stem, captured string, ok bool) {
	if r.re == nil {
		return "", "", false
	}
	loc := r.re.FindStringSubmatchIndex(word)
	if loc == nil {
		return "", "", false
	}
	stem = word[:loc[0]]
	if len(loc) >= 4 && loc[2] >= 0 {
		captured = word[loc[2]:loc[3]]
	}
	return stem, captured, true
}

// Apply rewrites word if the rule matches.
func (r Rule) Apply(word string) (string, bool) {
	stem, captured, ok := r.Match(word)
	if !ok {
		return word, false
	}
	return stem + captured + r.Replacement, true
}

// Apply runs word through the table and returns the result of the first
// matching rule, or word unchanged when nothing matches.
func (t RuleTable) Apply(word string) string {
	for _, rule := range t {
		if result, ok := rule.Apply(word); ok {
			return result
		}
	}
	return word
}

// irregularRules expands a singular/plural pair into plural-direction and
// singular-direction rules. When both forms share a first letter that letter
// is captured so the caller's capitalisation survives.
func irregularRules(singular, plural string) (plurals, singulars []Rule, err error) {
	if singular == "" || plural == "" {
		return nil, nil, fmt.Errorf("irregular rule needs both forms, got '%s' and '%s'", singular, plural)
	}

	sHead, sSize := utf8.DecodeRuneInString(singular)
	pHead, pSize := utf8.DecodeRuneInString(plural)

	type spec struct{ pattern, replacement string }
	var pl, sg []spec
	if strings.EqualFold(string(sHead), string(pHead)) {
		head := "(" + regexp.QuoteMeta(string(sHead)) + ")"
		pl = []spec{
			{head + regexp.QuoteMeta(plural[pSize:]), plural[pSize:]},
			{head + regexp.QuoteMeta(singular[sSize:]), plural[pSize:]},
		}
		sg = []spec{
			{head + regexp.QuoteMeta(plural[pSize:]), singular[sSize:]},
		}
	} else {
		pl = []spec{
			{regexp.QuoteMeta(plural), plural},
			{regexp.QuoteMeta(singular), plural},
		}
		sg = []spec{
			{regexp.QuoteMeta(plural), singular},
		}
	}

	for _, s := range pl {
		r, err := NewRule(s.pattern, s.replacement)
		if err != nil {
			return nil, nil, err
		}
		plurals = append(plurals, r)
	}
	for _, s := range sg {
		r, err := NewRule(s.pattern, s.replacement)
		if err != nil {
			return nil, nil, err
		}
		singulars = append(singulars, r)
	}
	return plurals, singulars, nil
}
