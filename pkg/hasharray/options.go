package hasharray

import (
	"github.com/Aman-CERP/triesearch/internal/deepcopy"
)

// Options configures a Collection.
type Options struct {
	// IgnoreDuplicates rejects any record whose derived key already exists.
	IgnoreDuplicates bool

	// Identity maps a record to a comparable identity used to detect that the
	// same record is added or removed again. Records with a nil identity are
	// matched by reflect.DeepEqual, a scan over the other such records.
	// Defaults to ReferenceIdentity.
	Identity func(record any) any

	// DeepCopy clones a record for ClonePolicyDeep. Defaults to a
	// reflection-based deep copy.
	DeepCopy func(record any) any
}

// Option configures the collection.
type Option func(*Options)

// WithIgnoreDuplicates enables/disables duplicate-key rejection.
func WithIgnoreDuplicates(enabled bool) Option {
	return func(o *Options) {
		o.IgnoreDuplicates = enabled
	}
}

// WithIdentity overrides how records are recognized as the same record.
func WithIdentity(fn func(record any) any) Option {
	return func(o *Options) {
		o.Identity = fn
	}
}

// WithDeepCopy overrides the record copier used by ClonePolicyDeep.
func WithDeepCopy(fn func(record any) any) Option {
	return func(o *Options) {
		o.DeepCopy = fn
	}
}

// WithOptions replaces every option at once.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
	}
}

func defaultOptions() Options {
	return Options{
		Identity: ReferenceIdentity,
		DeepCopy: deepcopy.Any,
	}
}

func (o *Options) normalize() {
	if o.Identity == nil {
		o.Identity = ReferenceIdentity
	}
	if o.DeepCopy == nil {
		o.DeepCopy = deepcopy.Any
	}
}
