package hasharray

import (
	"slices"

	"github.com/Aman-CERP/triesearch/internal/errors"
	"github.com/Aman-CERP/triesearch/pkg/keyfield"
)

// ClonePolicy selects what Clone does with stored records.
type ClonePolicy int

const (
	// ClonePolicyNone creates an empty collection with the same key fields and options.
	ClonePolicyNone ClonePolicy = iota
	// ClonePolicyShallow re-adds the same record references.
	ClonePolicyShallow
	// ClonePolicyDeep re-adds deep copies of every record.
	ClonePolicyDeep
)

// String returns the policy name.
func (p ClonePolicy) String() string {
	switch p {
	case ClonePolicyNone:
		return "none"
	case ClonePolicyShallow:
		return "shallow"
	case ClonePolicyDeep:
		return "deep"
	default:
		return "unknown"
	}
}

// Clone copies the collection. overrides are applied on top of the current
// options, so a clone can for example switch duplicate handling. Records keep
// the keys they are stored under, including keys given to InsertUnder.
func (c *Collection[R]) Clone(policy ClonePolicy, overrides ...Option) (*Collection[R], error) {
	opts := append([]Option{WithOptions(c.opts)}, overrides...)
	out, err := New[R](c.keyFields, opts...)
	if err != nil {
		return nil, err
	}

	switch policy {
	case ClonePolicyNone:
	case ClonePolicyShallow:
		for _, h := range c.order {
			out.InsertUnder(c.records[h], c.keysOf[h]...)
		}
	case ClonePolicyDeep:
		for _, h := range c.order {
			cp, ok := out.opts.DeepCopy(c.records[h]).(R)
			if !ok {
				return nil, errors.Newf(errors.ErrCodeTypeMismatch,
					"deep copy of %T returned a different type", c.records[h])
			}
			out.InsertUnder(cp, c.keysOf[h]...)
		}
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidInput, "unknown clone policy %d", int(policy))
	}
	return out, nil
}

// Filter returns a new collection holding the records of GetAll(key) that
// satisfy pred.
func (c *Collection[R]) Filter(key string, pred func(R) bool) (*Collection[R], error) {
	out, err := c.Clone(ClonePolicyNone)
	if err != nil {
		return nil, err
	}
	for _, h := range c.HandlesAll(key) {
		r := c.records[h]
		if pred(r) {
			if _, _, err := out.Insert(r); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// FilterByKey is Filter with a key-presence test: a record passes when field
// resolves to a value that is neither absent nor false.
func (c *Collection[R]) FilterByKey(key string, field keyfield.KeyField) (*Collection[R], error) {
	return c.Filter(key, func(r R) bool {
		v, ok, err := keyfield.Resolve(r, field)
		if err != nil || !ok {
			return false
		}
		if b, isBool := v.(bool); isBool && !b {
			return false
		}
		return true
	})
}

// Intersection collects every record of c whose (key, record) pair is also
// indexed in target. Results go into output, or into an empty clone of c when
// output is nil.
func (c *Collection[R]) Intersection(target, output *Collection[R]) (*Collection[R], error) {
	if target == nil {
		return nil, ErrTypeMismatch
	}
	if output == nil {
		var err error
		if output, err = c.Clone(ClonePolicyNone); err != nil {
			return nil, err
		}
	}

	for _, h := range c.order {
		r := c.records[h]
		th, ok := target.HandleOf(r)
		if !ok {
			continue
		}
		for _, k := range c.keysOf[h] {
			if slices.Contains(target.byKey[k], th) {
				if _, _, err := output.Insert(r); err != nil {
					return nil, err
				}
				break
			}
		}
	}
	return output, nil
}
