// Package triesearch provides a prefix-search engine over records indexed by
// one or more derived keys.
//
// An Engine owns a hasharray.Collection as its record store and a character
// trie as its lookup structure. Every node on a word's insertion path keeps
// the records whose words pass through it, so any prefix of an indexed word
// reaches the record:
//
//	e, err := triesearch.New[Person](
//	    []keyfield.KeyField{keyfield.Name("Name")},
//	)
//	err = e.Add(Person{Name: "Anna"}, Person{Name: "Anne"})
//	both, err := e.Get("an")
//	anna, err := e.Get("anna")
//
// # Tokenizing
//
// Key values are split into words by Options.SplitOnInsert and queries by
// Options.SplitOnQuery. Words shorter than Options.MinWordLength are neither
// indexed nor searched. With Options.IgnoreCase both sides are lower-cased.
//
// # Expansion
//
// A stored character matching an ExpansionRule is also reached by the rule's
// alternate when searching, so "cafe" finds "café". Words are indexed as
// written; equivalence is resolved while walking the trie. DefaultExpansionRules covers
// the common Latin vowels; Options.FoldDiacritics derives base forms for any
// decomposable rune.
//
// # Reducers
//
// Search feeds one Batch per searched word to a Reducer. NewOrReducer (the
// default) returns every record matched by any word. NewUnionReducer requires
// a match in every phrase. NewAllWordsReducer requires a match for every word.
//
// # Thread Safety
//
// Engine is not safe for concurrent use. Wrap it in Locked when several
// goroutines share one instance.
package triesearch
