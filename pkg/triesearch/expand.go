package triesearch

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Aman-CERP/triesearch/internal/errors"
)

// ExpansionRule lets Alternate match every stored character matching Pattern.
// Alternate may be longer than one character.
type ExpansionRule struct {
	Pattern   string `yaml:"pattern" json:"pattern"`
	Alternate string `yaml:"alternate" json:"alternate"`
}

// DefaultExpansionRules returns the default equivalence table for common
// Latin diacritics.
func DefaultExpansionRules() []ExpansionRule {
	return []ExpansionRule{
		{Pattern: "[åäàáâã]", Alternate: "a"},
		{Pattern: "[èéêë]", Alternate: "e"},
		{Pattern: "[ìíîï]", Alternate: "i"},
		{Pattern: "[òóôõö]", Alternate: "o"},
		{Pattern: "[ùúûü]", Alternate: "u"},
		{Pattern: "[æ]", Alternate: "ae"},
	}
}

type compiledRule struct {
	re        *regexp.Regexp
	alternate string
}

// compileRules compiles rules case-insensitively. Nil selects the defaults.
func compileRules(rules []ExpansionRule) ([]compiledRule, error) {
	if rules == nil {
		rules = DefaultExpansionRules()
	}
	out := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		if r.Pattern == "" || r.Alternate == "" {
			return nil, errors.Newf(errors.ErrCodePatternInvalid, "expansion rule %d needs a pattern and an alternate", i)
		}
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePatternInvalid, err).
				WithDetail("rule", strconv.Itoa(i))
		}
		out = append(out, compiledRule{re: re, alternate: r.Alternate})
	}
	return out, nil
}

// expander maps a stored rune to the query strings that match it.
type expander struct {
	rules      []compiledRule
	fold       bool
	ignoreCase bool
	memo       map[rune][]string
}

func newExpander(opts Options) (*expander, error) {
	rules, err := compileRules(opts.ExpansionRules)
	if err != nil {
		return nil, err
	}
	return &expander{
		rules:      rules,
		fold:       opts.FoldDiacritics,
		ignoreCase: opts.IgnoreCase,
		memo:       make(map[rune][]string),
	}, nil
}

// alternatives returns r itself followed by every distinct alternate.
func (x *expander) alternatives(r rune) []string {
	if alts, ok := x.memo[r]; ok {
		return alts
	}

	self := string(r)
	alts := []string{self}
	add := func(s string) {
		if !x.ignoreCase && unicode.IsUpper(r) {
			s = strings.ToUpper(s)
		}
		if s == "" {
			return
		}
		for _, a := range alts {
			if a == s {
				return
			}
		}
		alts = append(alts, s)
	}

	for _, rule := range x.rules {
		if rule.re.MatchString(self) {
			add(rule.alternate)
		}
	}
	if x.fold {
		add(foldRune(r))
	}

	x.memo[r] = alts
	return alts
}

// foldRune strips combining marks from the canonical decomposition of r.
// Runes without a decomposition fold to themselves.
func foldRune(r rune) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, string(r))
	if err != nil {
		return string(r)
	}
	return out
}
