package triesearch

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/triesearch/pkg/hasharray"
)

// queryCache wraps an LRU of per-word trie traversals. A nil cache is
// disabled: lookups miss and stores are dropped.
type queryCache struct {
	lru    *lru.Cache[string, []hasharray.Handle]
	hits   int64
	misses int64
}

// newQueryCache returns nil when size is zero.
func newQueryCache(size int) *queryCache {
	if size <= 0 {
		return nil
	}
	c, _ := lru.New[string, []hasharray.Handle](size)
	return &queryCache{lru: c}
}

func (c *queryCache) get(word string) ([]hasharray.Handle, bool) {
	if c == nil {
		return nil, false
	}
	handles, ok := c.lru.Get(word)
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return handles, ok
}

func (c *queryCache) add(word string, handles []hasharray.Handle) {
	if c == nil {
		return
	}
	c.lru.Add(word, handles)
}

// purge drops every entry. Counters are kept.
func (c *queryCache) purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

// CacheStats reports query cache usage.
type CacheStats struct {
	Enabled  bool  `json:"enabled"`
	Capacity int   `json:"capacity"`
	Len      int   `json:"len"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
}

func (c *queryCache) stats(capacity int) CacheStats {
	if c == nil {
		return CacheStats{}
	}
	return CacheStats{
		Enabled:  true,
		Capacity: capacity,
		Len:      c.lru.Len(),
		Hits:     c.hits,
		Misses:   c.misses,
	}
}
