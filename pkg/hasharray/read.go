package hasharray

import (
	"iter"
	"slices"

	"github.com/Aman-CERP/triesearch/pkg/keyfield"
)

// Get returns every record associated with key, in insertion order.
// ok is false when the key has no entry.
func (c *Collection[R]) Get(key string) ([]R, bool) {
	bucket, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	return c.resolve(bucket), true
}

// GetOne returns the record associated with key when exactly one is.
func (c *Collection[R]) GetOne(key string) (R, bool) {
	var zero R
	bucket := c.byKey[key]
	if len(bucket) != 1 {
		return zero, false
	}
	return c.records[bucket[0]], true
}

// GetAsArray is Get that always returns a non-nil slice.
func (c *Collection[R]) GetAsArray(key string) []R {
	out, _ := c.Get(key)
	if out == nil {
		return []R{}
	}
	return out
}

// GetAll returns the de-duplicated union of the records for keys, in
// first-seen order. The Wildcard key selects every record.
func (c *Collection[R]) GetAll(keys ...string) []R {
	return c.resolve(c.HandlesAll(keys...))
}

// HandlesAll is GetAll returning handles.
func (c *Collection[R]) HandlesAll(keys ...string) []Handle {
	if slices.Contains(keys, Wildcard) {
		return slices.Clone(c.order)
	}
	seen := make(map[Handle]struct{})
	out := make([]Handle, 0)
	for _, k := range keys {
		for _, h := range c.byKey[k] {
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}
	return out
}

// HandlesFor returns the handles associated with key.
func (c *Collection[R]) HandlesFor(key string) []Handle {
	return slices.Clone(c.byKey[key])
}

// GetAt returns the record at position index in insertion order.
func (c *Collection[R]) GetAt(index int) (R, bool) {
	var zero R
	if index < 0 || index >= len(c.order) {
		return zero, false
	}
	return c.records[c.order[index]], true
}

// HandleAt returns the handle at position index in insertion order.
// A negative index counts from the newest record.
func (c *Collection[R]) HandleAt(index int) (Handle, bool) {
	if index < 0 {
		index += len(c.order)
	}
	if index < 0 || index >= len(c.order) {
		return 0, false
	}
	return c.order[index], true
}

// Collides reports whether any KeyField resolved on partial already has an entry.
// partial may be any record-shaped value, not necessarily of type R.
func (c *Collection[R]) Collides(partial any) bool {
	for _, kf := range c.keyFields {
		k, ok, err := keyfield.ResolveString(partial, kf)
		if err != nil {
			return false
		}
		if !ok {
			continue
		}
		if _, exists := c.byKey[k]; exists {
			return true
		}
	}
	return false
}

// Has reports whether key has an entry.
func (c *Collection[R]) Has(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// Keys returns the derived keys in the order they were first created.
func (c *Collection[R]) Keys() []string {
	return slices.Clone(c.keyOrder)
}

// Values returns the per-key record sequences in Keys order.
func (c *Collection[R]) Values() [][]R {
	out := make([][]R, 0, len(c.keyOrder))
	for _, k := range c.keyOrder {
		out = append(out, c.resolve(c.byKey[k]))
	}
	return out
}

// Entries iterates key -> records pairs in Keys order.
func (c *Collection[R]) Entries() iter.Seq2[string, []R] {
	return func(yield func(string, []R) bool) {
		for _, k := range c.Keys() {
			if !yield(k, c.resolve(c.byKey[k])) {
				return
			}
		}
	}
}

// ValuesFlat returns every record in insertion order.
func (c *Collection[R]) ValuesFlat() []R {
	return c.resolve(c.order)
}

// EntriesFlat iterates position -> record in insertion order.
func (c *Collection[R]) EntriesFlat() iter.Seq2[int, R] {
	return func(yield func(int, R) bool) {
		for i, h := range slices.Clone(c.order) {
			if !yield(i, c.records[h]) {
				return
			}
		}
	}
}

// All iterates records in insertion order.
func (c *Collection[R]) All() iter.Seq[R] {
	return func(yield func(R) bool) {
		for _, h := range slices.Clone(c.order) {
			if !yield(c.records[h]) {
				return
			}
		}
	}
}

// Size returns the number of distinct keys.
func (c *Collection[R]) Size() int {
	return len(c.byKey)
}

// SizeFlat returns the number of stored records.
func (c *Collection[R]) SizeFlat() int {
	return len(c.order)
}

func (c *Collection[R]) resolve(handles []Handle) []R {
	out := make([]R, 0, len(handles))
	for _, h := range handles {
		out = append(out, c.records[h])
	}
	return out
}
