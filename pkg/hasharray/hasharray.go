package hasharray

import (
	"iter"
	"log/slog"
	"reflect"
	"slices"

	"github.com/Aman-CERP/triesearch/internal/errors"
	"github.com/Aman-CERP/triesearch/pkg/keyfield"
)

// Wildcard selects every record in GetAll.
const Wildcard = "*"

// Sentinel errors. Compare with errors.Is.
var (
	// ErrNotRecord reports an attempt to add a value that is not record-shaped.
	ErrNotRecord = keyfield.ErrNotRecord
	// ErrTypeMismatch reports a missing or incompatible collection argument.
	ErrTypeMismatch = errors.New(errors.ErrCodeTypeMismatch, "argument is not a collection", nil)
)

// Handle is a stable reference to a record stored in a Collection.
// Handles are never reused within one Collection.
type Handle uint64

// Collection is an insertion-ordered set of records indexed by derived keys.
type Collection[R any] struct {
	keyFields []keyfield.KeyField
	opts      Options

	next    Handle
	records map[Handle]R
	keysOf  map[Handle][]string
	ids     map[any]Handle
	// anon holds records whose identity is nil. They are matched by deep
	// equality.
	anon []Handle

	order    []Handle
	byKey    map[string][]Handle
	keyOrder []string
}

// New creates a collection that indexes records by keyFields.
// Every KeyField must be a name or a non-empty path.
func New[R any](keyFields []keyfield.KeyField, opts ...Option) (*Collection[R], error) {
	for i, kf := range keyFields {
		if err := kf.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeKeyFieldInvalid, err).
				WithDetail("index", itoa(i))
		}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.normalize()

	c := &Collection[R]{
		keyFields: keyfield.CloneAll(keyFields),
		opts:      o,
	}
	c.reset()
	return c, nil
}

func (c *Collection[R]) reset() {
	c.records = make(map[Handle]R)
	c.keysOf = make(map[Handle][]string)
	c.ids = make(map[any]Handle)
	c.anon = nil
	c.order = nil
	c.byKey = make(map[string][]Handle)
	c.keyOrder = nil
}

// KeyFields returns a copy of the configured key fields.
func (c *Collection[R]) KeyFields() []keyfield.KeyField {
	return keyfield.CloneAll(c.keyFields)
}

// Options returns the effective options.
func (c *Collection[R]) Options() Options {
	return c.opts
}

// Add indexes records. Every record is validated before any is stored, so a
// non-record argument leaves the collection unchanged.
func (c *Collection[R]) Add(records ...R) error {
	for _, r := range records {
		if !keyfield.IsRecord(r) {
			return errors.Newf(errors.ErrCodeNotRecord, "cannot add %T: not record-shaped", r)
		}
	}
	for _, r := range records {
		if _, _, err := c.Insert(r); err != nil {
			return err
		}
	}
	return nil
}

// AddSeq adds every record produced by seq.
func (c *Collection[R]) AddSeq(seq iter.Seq[R]) error {
	return c.Add(slices.Collect(seq)...)
}

// Insert adds one record and returns its handle. accepted is false when the
// record was rejected as a duplicate; the handle is then zero.
// Re-inserting a stored record re-indexes it under any newly derived keys
// without changing its position.
func (c *Collection[R]) Insert(record R) (h Handle, accepted bool, err error) {
	keys, err := c.deriveKeys(record)
	if err != nil {
		return 0, false, err
	}

	if c.rejectsAny(keys) {
		return 0, false, nil
	}
	h = c.store(record)
	c.link(h, keys)
	return h, true, nil
}

// InsertUnder adds one record under the given keys without deriving any
// from its fields. Blank keys are skipped. With IgnoreDuplicates the record
// is rejected when one of the given keys already exists. A stored record
// keeps its handle and gains the keys.
func (c *Collection[R]) InsertUnder(record R, keys ...string) (h Handle, accepted bool) {
	distinct := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" && !slices.Contains(distinct, k) {
			distinct = append(distinct, k)
		}
	}
	keys = distinct
	if c.rejectsAny(keys) {
		return 0, false
	}
	h = c.store(record)
	c.link(h, keys)
	return h, true
}

func (c *Collection[R]) rejectsAny(keys []string) bool {
	if !c.opts.IgnoreDuplicates {
		return false
	}
	for _, k := range keys {
		if _, exists := c.byKey[k]; exists {
			slog.Debug("hasharray_duplicate_rejected", slog.String("key", k))
			return true
		}
	}
	return false
}

// store returns the handle of record, assigning a new one when the record
// is not stored yet.
func (c *Collection[R]) store(record R) Handle {
	if h, ok := c.HandleOf(record); ok {
		return h
	}
	c.next++
	h := c.next
	c.records[h] = record
	if id := c.opts.Identity(record); id != nil {
		c.ids[id] = h
	} else {
		c.anon = append(c.anon, h)
	}
	c.order = append(c.order, h)
	return h
}

func (c *Collection[R]) link(h Handle, keys []string) {
	for _, k := range keys {
		bucket, exists := c.byKey[k]
		if !exists {
			c.keyOrder = append(c.keyOrder, k)
		}
		if slices.Contains(bucket, h) {
			continue
		}
		c.byKey[k] = append(bucket, h)
		c.keysOf[h] = append(c.keysOf[h], k)
	}
}

// deriveKeys resolves every KeyField on record, dropping absent values and
// repeated keys.
func (c *Collection[R]) deriveKeys(record any) ([]string, error) {
	keys := make([]string, 0, len(c.keyFields))
	for _, kf := range c.keyFields {
		k, ok, err := keyfield.ResolveString(record, kf)
		if err != nil {
			return nil, err
		}
		if ok && !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Remove removes each record from every key bucket and from the order.
// Records that are not stored are ignored.
func (c *Collection[R]) Remove(records ...R) {
	for _, r := range records {
		if h, ok := c.HandleOf(r); ok {
			c.RemoveHandle(h)
		}
	}
}

// RemoveHandle removes the record behind h. It reports whether anything was removed.
func (c *Collection[R]) RemoveHandle(h Handle) bool {
	record, ok := c.records[h]
	if !ok {
		return false
	}

	for _, k := range c.keysOf[h] {
		bucket := c.byKey[k]
		if i := slices.Index(bucket, h); i >= 0 {
			bucket = slices.Delete(bucket, i, i+1)
		}
		if len(bucket) == 0 {
			delete(c.byKey, k)
			if i := slices.Index(c.keyOrder, k); i >= 0 {
				c.keyOrder = slices.Delete(c.keyOrder, i, i+1)
			}
			continue
		}
		c.byKey[k] = bucket
	}

	if i := slices.Index(c.order, h); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	if id := c.opts.Identity(record); id != nil {
		if c.ids[id] == h {
			delete(c.ids, id)
		}
	} else if i := slices.Index(c.anon, h); i >= 0 {
		c.anon = slices.Delete(c.anon, i, i+1)
	}
	delete(c.keysOf, h)
	delete(c.records, h)
	return true
}

// RemoveByKey removes every record currently associated with each key.
// It returns the removed records in bucket order.
func (c *Collection[R]) RemoveByKey(keys ...string) []R {
	var removed []R
	for _, k := range keys {
		for _, h := range slices.Clone(c.byKey[k]) {
			r := c.records[h]
			if c.RemoveHandle(h) {
				removed = append(removed, r)
			}
		}
	}
	return removed
}

// RemoveFirst removes and returns the oldest record.
func (c *Collection[R]) RemoveFirst() (R, bool) {
	var zero R
	if len(c.order) == 0 {
		return zero, false
	}
	h := c.order[0]
	r := c.records[h]
	c.RemoveHandle(h)
	return r, true
}

// RemoveLast removes and returns the newest record.
func (c *Collection[R]) RemoveLast() (R, bool) {
	var zero R
	if len(c.order) == 0 {
		return zero, false
	}
	h := c.order[len(c.order)-1]
	r := c.records[h]
	c.RemoveHandle(h)
	return r, true
}

// Clear removes every record.
func (c *Collection[R]) Clear() {
	c.reset()
}

// HandleOf returns the handle of a stored record. A record without an
// identity is found by reflect.DeepEqual against the other records without
// one.
func (c *Collection[R]) HandleOf(record R) (Handle, bool) {
	id := c.opts.Identity(record)
	if id != nil {
		h, ok := c.ids[id]
		return h, ok
	}
	for _, h := range c.anon {
		if reflect.DeepEqual(c.records[h], record) {
			return h, true
		}
	}
	return 0, false
}

// Record returns the record behind h.
func (c *Collection[R]) Record(h Handle) (R, bool) {
	r, ok := c.records[h]
	return r, ok
}

// Contains reports whether record is stored.
func (c *Collection[R]) Contains(record R) bool {
	_, ok := c.HandleOf(record)
	return ok
}

// KeysOf returns the derived keys record was indexed under.
func (c *Collection[R]) KeysOf(h Handle) []string {
	return slices.Clone(c.keysOf[h])
}

func itoa(i int) string {
	s, _ := keyfield.String(i)
	return s
}
