package triesearch

import (
	"regexp"
	"strconv"

	"github.com/Aman-CERP/triesearch/internal/errors"
)

// Default option values.
const (
	DefaultMinWordLength = 1
	DefaultMaxCacheSize  = 64
	DefaultSplitPattern  = `\s+`
)

// Options configures an Engine.
type Options struct {
	// IgnoreDuplicates rejects records whose derived key already exists in
	// the store. Rejected records are not indexed in the trie either.
	IgnoreDuplicates bool

	// Cache enables the per-word query cache.
	Cache bool

	// MaxCacheSize bounds the query cache. Zero disables caching.
	MaxCacheSize int

	// IgnoreCase lower-cases indexed words and queries.
	IgnoreCase bool

	// MinWordLength is the minimum number of runes a word needs to be
	// indexed or searched.
	MinWordLength int

	// SplitOnInsert splits key values into words. Empty disables splitting.
	SplitOnInsert string

	// SplitOnQuery splits query phrases into words. Empty disables splitting.
	SplitOnQuery string

	// InsertFullUnsplitKey also indexes the whole key value when splitting
	// produced more than the value itself.
	InsertFullUnsplitKey bool

	// ExpansionRules lists character equivalences applied on insert.
	// Nil means DefaultExpansionRules; an empty slice disables expansion.
	ExpansionRules []ExpansionRule

	// FoldDiacritics indexes every decomposable rune under its base form too.
	FoldDiacritics bool

	// Tokenizer replaces SplitOnInsert when set.
	Tokenizer func(value string) []string

	// Identity overrides how the store recognizes the same record.
	Identity func(record any) any
}

// DefaultOptions returns the default engine configuration.
func DefaultOptions() Options {
	return Options{
		Cache:         true,
		MaxCacheSize:  DefaultMaxCacheSize,
		IgnoreCase:    true,
		MinWordLength: DefaultMinWordLength,
		SplitOnInsert: DefaultSplitPattern,
		SplitOnQuery:  DefaultSplitPattern,
	}
}

// Option configures the engine.
type Option func(*Options)

// WithOptions replaces every option at once.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
	}
}

// WithIgnoreDuplicates enables/disables duplicate-key rejection.
func WithIgnoreDuplicates(enabled bool) Option {
	return func(o *Options) {
		o.IgnoreDuplicates = enabled
	}
}

// WithCache enables the query cache bounded to size entries.
// A size of zero or less disables it.
func WithCache(size int) Option {
	return func(o *Options) {
		o.Cache = size > 0
		o.MaxCacheSize = max(size, 0)
	}
}

// WithoutCache disables the query cache.
func WithoutCache() Option {
	return func(o *Options) {
		o.Cache = false
	}
}

// WithIgnoreCase enables/disables case folding.
func WithIgnoreCase(enabled bool) Option {
	return func(o *Options) {
		o.IgnoreCase = enabled
	}
}

// WithMinWordLength sets the minimum indexed and searched word length.
func WithMinWordLength(n int) Option {
	return func(o *Options) {
		o.MinWordLength = n
	}
}

// WithSplit sets the insert and query split patterns.
// An empty pattern disables splitting on that side.
func WithSplit(onInsert, onQuery string) Option {
	return func(o *Options) {
		o.SplitOnInsert = onInsert
		o.SplitOnQuery = onQuery
	}
}

// WithInsertFullUnsplitKey also indexes whole key values.
func WithInsertFullUnsplitKey(enabled bool) Option {
	return func(o *Options) {
		o.InsertFullUnsplitKey = enabled
	}
}

// WithExpansionRules replaces the expansion table.
func WithExpansionRules(rules ...ExpansionRule) Option {
	return func(o *Options) {
		o.ExpansionRules = append([]ExpansionRule{}, rules...)
	}
}

// WithFoldDiacritics enables/disables base-form folding of accented runes.
func WithFoldDiacritics(enabled bool) Option {
	return func(o *Options) {
		o.FoldDiacritics = enabled
	}
}

// WithTokenizer sets a custom insert tokenizer.
func WithTokenizer(fn func(value string) []string) Option {
	return func(o *Options) {
		o.Tokenizer = fn
	}
}

// WithIdentity overrides record identity in the store.
func WithIdentity(fn func(record any) any) Option {
	return func(o *Options) {
		o.Identity = fn
	}
}

// Validate checks option values and compiles patterns.
func (o Options) Validate() error {
	if o.MinWordLength < 1 {
		return errors.Newf(errors.ErrCodeConfigInvalid, "min word length must be at least 1, got %d", o.MinWordLength).
			WithDetail("field", "MinWordLength")
	}
	if o.MaxCacheSize < 0 {
		return errors.Newf(errors.ErrCodeConfigInvalid, "max cache size must not be negative, got %d", o.MaxCacheSize).
			WithDetail("field", "MaxCacheSize")
	}
	if _, err := compileSplit(o.SplitOnInsert); err != nil {
		return err
	}
	if _, err := compileSplit(o.SplitOnQuery); err != nil {
		return err
	}
	_, err := compileRules(o.ExpansionRules)
	return err
}

func (o Options) cacheSize() int {
	if !o.Cache {
		return 0
	}
	return o.MaxCacheSize
}

func (o Options) clone() Options {
	c := o
	if o.ExpansionRules != nil {
		c.ExpansionRules = append([]ExpansionRule{}, o.ExpansionRules...)
	}
	return c
}

func compileSplit(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePatternInvalid, err).
			WithDetail("pattern", strconv.Quote(pattern))
	}
	return re, nil
}
