package triesearch

import (
	"github.com/Aman-CERP/triesearch/pkg/hasharray"
	"github.com/Aman-CERP/triesearch/pkg/keyfield"
)

// ReduceContext is handed to Reducer.Reset at the start of every search.
// Every field is a copy owned by the reducer.
type ReduceContext struct {
	KeyFields []keyfield.KeyField
	Options   Options
	Phrases   []string
}

// Match is one record found for a word.
type Match[R any] struct {
	Handle hasharray.Handle
	Record R
}

// Batch carries the matches for one searched word.
type Batch[R any] struct {
	// Phrase is the phrase as the caller supplied it.
	Phrase string
	// IgnoreCasePhrase is Phrase after case folding, or Phrase itself when
	// case is significant.
	IgnoreCasePhrase string
	// Words are the searchable words of the phrase.
	Words []string
	// PhraseIndex is the position of Phrase in the search.
	PhraseIndex int
	// Index is the position of the word in Words.
	Index int
	// Matches are the distinct records reachable through the word.
	Matches []Match[R]
}

// Word returns the word this batch was produced for.
func (b Batch[R]) Word() string {
	if b.Index < 0 || b.Index >= len(b.Words) {
		return ""
	}
	return b.Words[b.Index]
}

// Reducer combines per-word batches into a search result.
// A reducer is reset before each search and read once after the last batch.
type Reducer[R any] interface {
	Reset(ctx ReduceContext)
	Reduce(batch Batch[R])
	Matches() []R
	KeyFields() []keyfield.KeyField
}

// orderedSet is an insertion-ordered set of matches.
type orderedSet[R any] struct {
	order []Match[R]
	index map[hasharray.Handle]struct{}
}

func newOrderedSet[R any]() *orderedSet[R] {
	return &orderedSet[R]{index: make(map[hasharray.Handle]struct{})}
}

func (s *orderedSet[R]) add(matches ...Match[R]) {
	for _, m := range matches {
		if _, ok := s.index[m.Handle]; ok {
			continue
		}
		s.index[m.Handle] = struct{}{}
		s.order = append(s.order, m)
	}
}

func (s *orderedSet[R]) has(h hasharray.Handle) bool {
	_, ok := s.index[h]
	return ok
}

// retain keeps the members also present in other.
func (s *orderedSet[R]) retain(other *orderedSet[R]) {
	kept := s.order[:0]
	for _, m := range s.order {
		if other.has(m.Handle) {
			kept = append(kept, m)
			continue
		}
		delete(s.index, m.Handle)
	}
	s.order = kept
}

func (s *orderedSet[R]) records() []R {
	out := make([]R, len(s.order))
	for i, m := range s.order {
		out[i] = m.Record
	}
	return out
}

type reducerBase struct {
	ctx ReduceContext
}

func (b *reducerBase) KeyFields() []keyfield.KeyField {
	return keyfield.CloneAll(b.ctx.KeyFields)
}

// OrReducer returns every record matched by any word of any phrase, in the
// order first seen.
type OrReducer[R any] struct {
	reducerBase
	set *orderedSet[R]
}

// NewOrReducer creates the default reducer.
func NewOrReducer[R any]() *OrReducer[R] {
	return &OrReducer[R]{set: newOrderedSet[R]()}
}

// Reset clears the matches of the previous search.
func (r *OrReducer[R]) Reset(ctx ReduceContext) {
	r.ctx = ctx
	r.set = newOrderedSet[R]()
}

// Reduce adds every match of the batch.
func (r *OrReducer[R]) Reduce(b Batch[R]) {
	r.set.add(b.Matches...)
}

// Matches returns the collected records in first-seen order.
func (r *OrReducer[R]) Matches() []R {
	return r.set.records()
}

// UnionReducer unions the words within a phrase and intersects the phrases.
// A record must match at least one word of every phrase that had a
// searchable word. Order follows the first phrase.
type UnionReducer[R any] struct {
	reducerBase
	phrases map[int]*orderedSet[R]
	order   []int
}

// NewUnionReducer creates a reducer requiring a match in every phrase.
func NewUnionReducer[R any]() *UnionReducer[R] {
	return &UnionReducer[R]{phrases: make(map[int]*orderedSet[R])}
}

// Reset clears the per-phrase sets of the previous search.
func (r *UnionReducer[R]) Reset(ctx ReduceContext) {
	r.ctx = ctx
	r.phrases = make(map[int]*orderedSet[R])
	r.order = nil
}

// Reduce adds the batch matches to the set of its phrase.
func (r *UnionReducer[R]) Reduce(b Batch[R]) {
	set, ok := r.phrases[b.PhraseIndex]
	if !ok {
		set = newOrderedSet[R]()
		r.phrases[b.PhraseIndex] = set
		r.order = append(r.order, b.PhraseIndex)
	}
	set.add(b.Matches...)
}

// Matches intersects the phrase sets.
func (r *UnionReducer[R]) Matches() []R {
	return intersectAll(r.phrases, r.order)
}

// AllWordsReducer returns the records matched by every searched word.
type AllWordsReducer[R any] struct {
	reducerBase
	words map[int]*orderedSet[R]
	order []int
	n     int
}

// NewAllWordsReducer creates a reducer requiring a match for every word.
func NewAllWordsReducer[R any]() *AllWordsReducer[R] {
	return &AllWordsReducer[R]{words: make(map[int]*orderedSet[R])}
}

// Reset clears the per-word sets of the previous search.
func (r *AllWordsReducer[R]) Reset(ctx ReduceContext) {
	r.ctx = ctx
	r.words = make(map[int]*orderedSet[R])
	r.order = nil
	r.n = 0
}

// Reduce records the batch matches as the set of its word.
func (r *AllWordsReducer[R]) Reduce(b Batch[R]) {
	set := newOrderedSet[R]()
	set.add(b.Matches...)
	r.words[r.n] = set
	r.order = append(r.order, r.n)
	r.n++
}

// Matches intersects the word sets.
func (r *AllWordsReducer[R]) Matches() []R {
	return intersectAll(r.words, r.order)
}

func intersectAll[R any](sets map[int]*orderedSet[R], order []int) []R {
	if len(order) == 0 {
		return []R{}
	}
	acc := newOrderedSet[R]()
	acc.add(sets[order[0]].order...)
	for _, k := range order[1:] {
		acc.retain(sets[k])
	}
	return acc.records()
}

// ReducerByName returns a built-in reducer: "or", "union" or "all".
func ReducerByName[R any](name string) (Reducer[R], bool) {
	switch name {
	case "", "or":
		return NewOrReducer[R](), true
	case "union":
		return NewUnionReducer[R](), true
	case "all":
		return NewAllWordsReducer[R](), true
	default:
		return nil, false
	}
}
