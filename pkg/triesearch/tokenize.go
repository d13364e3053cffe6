package triesearch

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// splitWords splits s on re and drops blank fragments. A nil re keeps s whole.
func splitWords(re *regexp.Regexp, s string) []string {
	var parts []string
	if re == nil {
		parts = []string{s}
	} else {
		parts = re.Split(s, -1)
	}
	return nonBlank(parts)
}

func nonBlank(parts []string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// insertWords derives the words a key value is indexed under. The value is
// normalized before it is split and measured, the same order Search applies
// to a phrase, so case folding that changes rune counts cannot make the two
// sides disagree.
func (e *Engine[R]) insertWords(value string) []string {
	value = e.normalize(value)
	var words []string
	if e.opts.Tokenizer != nil {
		words = nonBlank(e.opts.Tokenizer(value))
	} else {
		words = splitWords(e.splitInsert, value)
	}

	if e.opts.InsertFullUnsplitKey && strings.TrimSpace(value) != "" &&
		(len(words) != 1 || words[0] != value) {
		words = append(words, value)
	}

	out := words[:0:0]
	for _, w := range words {
		if !e.searchable(w) {
			continue
		}
		if !slices.Contains(out, w) {
			out = append(out, w)
		}
	}
	return out
}

// queryWords splits an already normalized phrase into words.
func (e *Engine[R]) queryWords(phrase string) []string {
	return splitWords(e.splitQuery, phrase)
}

func (e *Engine[R]) normalize(s string) string {
	if e.opts.IgnoreCase {
		return strings.ToLower(s)
	}
	return s
}

// searchable counts runes of the normalized word.
func (e *Engine[R]) searchable(word string) bool {
	return utf8.RuneCountInString(word) >= e.opts.MinWordLength
}
