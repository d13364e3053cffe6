package triesearch

import (
	"iter"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/Aman-CERP/triesearch/internal/errors"
	"github.com/Aman-CERP/triesearch/pkg/hasharray"
	"github.com/Aman-CERP/triesearch/pkg/keyfield"
)

// Sentinel errors. Compare with errors.Is.
var (
	// ErrDestroyed reports a mutation on a destroyed engine.
	ErrDestroyed = errors.New(errors.ErrCodeEngineDestroyed, "engine has been destroyed", nil).
			WithSuggestion("create a new engine with triesearch.New")
	// ErrNotInitialized reports use of an Engine not created by New.
	ErrNotInitialized = errors.New(errors.ErrCodeNotInitialized, "engine was not created with triesearch.New", nil)
	// ErrNotRecord reports an attempt to add a value that is not record-shaped.
	ErrNotRecord = hasharray.ErrNotRecord
)

// State is the engine lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateActive
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDestroyed:
		return "destroyed"
	default:
		return "uninitialized"
	}
}

// SearchOptions tunes one Search call.
type SearchOptions[R any] struct {
	// Reducer combines word matches. Nil selects a fresh OrReducer.
	Reducer Reducer[R]
	// Limit caps the result length. Zero means no cap.
	Limit int
	// Into receives the results; they are appended to it.
	Into []R
}

// Engine indexes records by key and answers prefix queries over the keys.
type Engine[R any] struct {
	state     State
	keyFields []keyfield.KeyField
	opts      Options

	splitInsert *regexp.Regexp
	splitQuery  *regexp.Regexp
	expander    *expander

	store      *hasharray.Collection[R]
	trie       *trie
	placements map[hasharray.Handle][]nodeID
	cache      *queryCache

	subs    []subscriber[R]
	nextSub int
}

// New creates an engine indexing records by keyFields.
// An engine without key fields only indexes what Map is given.
func New[R any](keyFields []keyfield.KeyField, opts ...Option) (*Engine[R], error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	store, err := hasharray.New[R](keyFields,
		hasharray.WithIgnoreDuplicates(o.IgnoreDuplicates),
		hasharray.WithIdentity(o.Identity),
	)
	if err != nil {
		return nil, err
	}

	// Patterns were checked by Validate.
	splitInsert, _ := compileSplit(o.SplitOnInsert)
	splitQuery, _ := compileSplit(o.SplitOnQuery)
	exp, _ := newExpander(o)

	return &Engine[R]{
		state:       StateActive,
		keyFields:   keyfield.CloneAll(keyFields),
		opts:        o.clone(),
		splitInsert: splitInsert,
		splitQuery:  splitQuery,
		expander:    exp,
		store:       store,
		trie:        newTrie(),
		placements:  make(map[hasharray.Handle][]nodeID),
		cache:       newQueryCache(o.cacheSize()),
	}, nil
}

// State returns the lifecycle state.
func (e *Engine[R]) State() State {
	return e.state
}

// KeyFields returns a copy of the configured key fields.
func (e *Engine[R]) KeyFields() []keyfield.KeyField {
	return keyfield.CloneAll(e.keyFields)
}

// Options returns a copy of the engine options.
func (e *Engine[R]) Options() Options {
	return e.opts.clone()
}

func (e *Engine[R]) checkMutable() error {
	switch e.state {
	case StateActive:
		return nil
	case StateDestroyed:
		return ErrDestroyed
	default:
		return ErrNotInitialized
	}
}

// Add stores records and indexes their key values. Every record is validated
// before any is stored. Records rejected as duplicates are not indexed.
func (e *Engine[R]) Add(records ...R) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	for _, r := range records {
		if !keyfield.IsRecord(r) {
			return errors.Newf(errors.ErrCodeNotRecord, "cannot add %T: not record-shaped", r)
		}
	}

	added := 0
	for _, r := range records {
		h, accepted, err := e.store.Insert(r)
		if err != nil {
			return err
		}
		if !accepted {
			slog.Debug("triesearch_record_rejected", slog.String("reason", "duplicate_key"))
			continue
		}
		for _, kf := range e.keyFields {
			value, ok, err := keyfield.ResolveString(r, kf)
			if err != nil {
				return err
			}
			if ok {
				e.indexValue(h, value)
			}
		}
		added++
	}

	e.cache.purge()
	slog.Debug("triesearch_add",
		slog.Int("records", len(records)),
		slog.Int("indexed", added),
		slog.Int("nodes", e.trie.size()))
	e.notify(ActionAdd)
	return nil
}

// AddSeq adds every record produced by seq.
func (e *Engine[R]) AddSeq(seq iter.Seq[R]) error {
	return e.Add(slices.Collect(seq)...)
}

// Map stores record under key instead of its key fields. key is tokenized
// like any key value for search, and Lookup(key) returns the record. With
// IgnoreDuplicates, Map is a no-op when key is already stored. Subscribers
// are notified only when the record was indexed.
func (e *Engine[R]) Map(key string, record R) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "map key must not be blank", nil)
	}

	h, accepted := e.store.InsertUnder(record, key)
	if !accepted {
		slog.Debug("triesearch_record_rejected",
			slog.String("reason", "duplicate_key"),
			slog.String("key", key))
		return nil
	}
	e.indexValue(h, key)
	e.cache.purge()
	e.notify(ActionAdd)
	return nil
}

func (e *Engine[R]) indexValue(h hasharray.Handle, value string) {
	for _, w := range e.insertWords(value) {
		placed := e.trie.insert([]rune(w), h)
		e.placements[h] = append(e.placements[h], placed...)
	}
}

func (e *Engine[R]) unindex(h hasharray.Handle) {
	e.trie.detach(h, e.placements[h])
	delete(e.placements, h)
	e.store.RemoveHandle(h)
}

// Remove removes records from the store and the trie.
// Records that are not stored are ignored.
func (e *Engine[R]) Remove(records ...R) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	for _, r := range records {
		if h, ok := e.store.HandleOf(r); ok {
			e.unindex(h)
		}
	}
	e.cache.purge()
	return nil
}

// RemoveByKey removes every record stored under each exact key and returns them.
func (e *Engine[R]) RemoveByKey(keys ...string) ([]R, error) {
	if err := e.checkMutable(); err != nil {
		return nil, err
	}
	var removed []R
	for _, h := range e.store.HandlesAll(keys...) {
		if r, ok := e.store.Record(h); ok {
			removed = append(removed, r)
		}
		e.unindex(h)
	}
	e.cache.purge()
	return removed, nil
}

// RemoveFirst removes and returns the oldest record.
func (e *Engine[R]) RemoveFirst() (R, bool, error) {
	return e.removeAt(0)
}

// RemoveLast removes and returns the newest record.
func (e *Engine[R]) RemoveLast() (R, bool, error) {
	return e.removeAt(-1)
}

func (e *Engine[R]) removeAt(index int) (R, bool, error) {
	var zero R
	if err := e.checkMutable(); err != nil {
		return zero, false, err
	}
	h, ok := e.store.HandleAt(index)
	if !ok {
		return zero, false, nil
	}
	r, _ := e.store.Record(h)
	e.unindex(h)
	e.cache.purge()
	return r, true, nil
}

// Clear removes every record and trie node.
func (e *Engine[R]) Clear() error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	e.reset()
	slog.Debug("triesearch_clear")
	e.notify(ActionClear)
	return nil
}

func (e *Engine[R]) reset() {
	e.store.Clear()
	e.trie.reset()
	e.placements = make(map[hasharray.Handle][]nodeID)
	e.cache.purge()
}

// Destroy clears the engine and moves it to StateDestroyed. Subscribers get
// one ActionDestroy event and are then dropped. Later mutations fail with
// ErrDestroyed.
func (e *Engine[R]) Destroy() error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	records := e.store.SizeFlat()
	e.reset()
	e.state = StateDestroyed
	slog.Debug("triesearch_destroyed", slog.Int("records", records))
	e.notify(ActionDestroy)
	e.subs = nil
	return nil
}

// Get searches a single phrase with the default reducer.
func (e *Engine[R]) Get(phrase string) ([]R, error) {
	return e.Search([]string{phrase}, SearchOptions[R]{})
}

// Search finds the records reachable through every searchable word of
// phrases and combines them with the reducer. A destroyed engine returns
// no results.
func (e *Engine[R]) Search(phrases []string, opts SearchOptions[R]) ([]R, error) {
	switch e.state {
	case StateUninitialized:
		return nil, ErrNotInitialized
	case StateDestroyed:
		if opts.Into == nil {
			return []R{}, nil
		}
		return opts.Into, nil
	}
	if opts.Limit < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidInput, "search limit must not be negative, got %d", opts.Limit)
	}

	reducer := opts.Reducer
	if reducer == nil {
		reducer = NewOrReducer[R]()
	}
	reducer.Reset(ReduceContext{
		KeyFields: keyfield.CloneAll(e.keyFields),
		Options:   e.opts.clone(),
		Phrases:   slices.Clone(phrases),
	})

	for pi, phrase := range phrases {
		icPhrase := e.normalize(phrase)
		words := e.queryWords(icPhrase)
		for wi, w := range words {
			if !e.searchable(w) {
				continue
			}
			reducer.Reduce(Batch[R]{
				Phrase:           phrase,
				IgnoreCasePhrase: icPhrase,
				Words:            words,
				PhraseIndex:      pi,
				Index:            wi,
				Matches:          e.matches(w),
			})
		}
	}

	results := reducer.Matches()
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	if opts.Into == nil {
		return results, nil
	}
	return append(opts.Into, results...), nil
}

// matches resolves the records reachable through word, via the cache.
func (e *Engine[R]) matches(word string) []Match[R] {
	handles, hit := e.cache.get(word)
	if !hit {
		handles = e.trie.search(word, e.expander.alternatives)
		e.cache.add(word, handles)
	}

	out := make([]Match[R], 0, len(handles))
	for _, h := range handles {
		if r, ok := e.store.Record(h); ok {
			out = append(out, Match[R]{Handle: h, Record: r})
		}
	}
	return out
}

// Has reports whether any record is stored under the exact key.
func (e *Engine[R]) Has(key string) bool {
	return e.store != nil && e.store.Has(key)
}

// Lookup returns the records stored under the exact key.
func (e *Engine[R]) Lookup(key string) []R {
	if e.store == nil {
		return []R{}
	}
	return e.store.GetAsArray(key)
}

// LookupAll returns the de-duplicated records for keys; hasharray.Wildcard
// selects every record.
func (e *Engine[R]) LookupAll(keys ...string) []R {
	if e.store == nil {
		return []R{}
	}
	return e.store.GetAll(keys...)
}

// Keys returns the distinct derived keys in first-seen order.
func (e *Engine[R]) Keys() []string {
	if e.store == nil {
		return nil
	}
	return e.store.Keys()
}

// Records returns every stored record in insertion order.
func (e *Engine[R]) Records() []R {
	if e.store == nil {
		return []R{}
	}
	return e.store.ValuesFlat()
}

// All iterates stored records in insertion order.
func (e *Engine[R]) All() iter.Seq[R] {
	if e.store == nil {
		return func(func(R) bool) {}
	}
	return e.store.All()
}

// Len returns the number of stored records.
func (e *Engine[R]) Len() int {
	if e.store == nil {
		return 0
	}
	return e.store.SizeFlat()
}

// Size returns the number of live trie nodes.
func (e *Engine[R]) Size() int {
	if e.trie == nil {
		return 0
	}
	return e.trie.size()
}

// Stats describes the engine contents.
type Stats struct {
	State   string     `json:"state"`
	Records int        `json:"records"`
	Keys    int        `json:"keys"`
	Nodes   int        `json:"nodes"`
	Cache   CacheStats `json:"cache"`
}

// Stats returns a snapshot of engine counters.
func (e *Engine[R]) Stats() Stats {
	s := Stats{State: e.state.String(), Records: e.Len(), Nodes: e.Size()}
	if e.store != nil {
		s.Keys = e.store.Size()
	}
	s.Cache = e.cache.stats(e.opts.cacheSize())
	return s
}
