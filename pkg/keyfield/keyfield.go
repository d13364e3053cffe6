package keyfield

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Aman-CERP/triesearch/internal/errors"
)

// Sentinel errors. Compare with errors.Is.
var (
	// ErrInvalid reports a KeyField that is neither a name nor a path.
	ErrInvalid = errors.New(errors.ErrCodeKeyFieldInvalid, "invalid key field", nil)
	// ErrNotRecord reports a top-level value that is not record-shaped.
	ErrNotRecord = errors.New(errors.ErrCodeNotRecord, "value is not record-shaped", nil)
)

// KeyField names the field (or nested path of fields) a key is derived from.
// The zero value is invalid.
type KeyField struct {
	path []string
}

// Name returns a KeyField for a single top-level field.
func Name(name string) KeyField {
	return KeyField{path: []string{name}}
}

// Path returns a KeyField that walks the given segments in order.
func Path(segments ...string) KeyField {
	return KeyField{path: slices.Clone(segments)}
}

// ParseDotted splits "address.city" into a path KeyField.
// A value without dots yields a single-name KeyField.
func ParseDotted(s string) (KeyField, error) {
	kf := KeyField{path: strings.Split(s, ".")}
	if err := kf.Validate(); err != nil {
		return KeyField{}, err
	}
	return kf, nil
}

// Parse builds a KeyField from a loosely typed configuration value: a string
// (single name), or a []string / []any of strings (path).
func Parse(v any) (KeyField, error) {
	var kf KeyField
	switch t := v.(type) {
	case string:
		kf = Name(t)
	case []string:
		kf = Path(t...)
	case []any:
		segs := make([]string, 0, len(t))
		for _, s := range t {
			str, ok := s.(string)
			if !ok {
				return KeyField{}, errors.Newf(errors.ErrCodeKeyFieldInvalid,
					"key path segment %v (%T) is not a string", s, s)
			}
			segs = append(segs, str)
		}
		kf = Path(segs...)
	case KeyField:
		kf = t
	default:
		return KeyField{}, errors.Newf(errors.ErrCodeKeyFieldInvalid,
			"key field must be a name or a path, got %T", v)
	}
	if err := kf.Validate(); err != nil {
		return KeyField{}, err
	}
	return kf, nil
}

// ParseAll parses every value, failing on the first invalid one.
func ParseAll(values ...any) ([]KeyField, error) {
	out := make([]KeyField, 0, len(values))
	for i, v := range values {
		kf, err := Parse(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeKeyFieldInvalid, err).
				WithDetail("index", fmt.Sprint(i))
		}
		out = append(out, kf)
	}
	return out, nil
}

// Validate reports whether kf is usable for construction.
func (kf KeyField) Validate() error {
	if len(kf.path) == 0 {
		return errors.New(errors.ErrCodeKeyFieldInvalid, "key field is empty", nil)
	}
	if len(kf.path) == 1 && kf.path[0] == "" {
		return errors.New(errors.ErrCodeKeyFieldInvalid, "key field name is empty", nil)
	}
	return nil
}

// IsPath reports whether kf has more than one segment.
func (kf KeyField) IsPath() bool {
	return len(kf.path) > 1
}

// Segments returns a copy of the path segments.
func (kf KeyField) Segments() []string {
	return slices.Clone(kf.path)
}

// Equal reports whether two KeyFields address the same path.
func (kf KeyField) Equal(other KeyField) bool {
	return slices.Equal(kf.path, other.path)
}

// String renders the KeyField in dotted form.
func (kf KeyField) String() string {
	return strings.Join(kf.path, ".")
}

// MarshalYAML renders names as scalars and paths as sequences.
func (kf KeyField) MarshalYAML() (any, error) {
	if len(kf.path) == 1 {
		return kf.path[0], nil
	}
	return kf.path, nil
}

// CloneAll returns an independent copy of the KeyField list.
func CloneAll(fields []KeyField) []KeyField {
	out := make([]KeyField, len(fields))
	for i, f := range fields {
		out[i] = Path(f.path...)
	}
	return out
}
