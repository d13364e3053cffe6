package keyfield

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/Aman-CERP/triesearch/internal/errors"
)

// Resolve extracts the value kf addresses in record.
//
// It returns ok=false when the value is absent: a missing field, a nil value,
// an intermediate value that is not record-shaped, or an empty segment.
// The error is non-nil only when record itself is not record-shaped.
func Resolve(record any, kf KeyField) (value any, ok bool, err error) {
	rv, shaped := recordValue(reflect.ValueOf(record))
	if !shaped {
		return nil, false, errors.Newf(errors.ErrCodeNotRecord,
			"cannot resolve %q on %T: not record-shaped", kf.String(), record)
	}
	if len(kf.path) == 0 {
		return nil, false, nil
	}

	cur := rv
	for i, seg := range kf.path {
		if seg == "" {
			return nil, false, nil
		}
		if i > 0 {
			next, shaped := recordValue(cur)
			if !shaped {
				return nil, false, nil
			}
			cur = next
		}
		field, found := lookupField(cur, seg)
		if !found {
			return nil, false, nil
		}
		cur = field
	}

	cur = indirect(cur)
	if !cur.IsValid() || !cur.CanInterface() {
		return nil, false, nil
	}
	return cur.Interface(), true, nil
}

// ResolveString resolves kf and renders the value as an index key.
// Values with no string form (nil, absent) report ok=false.
func ResolveString(record any, kf KeyField) (string, bool, error) {
	v, ok, err := Resolve(record, kf)
	if err != nil || !ok {
		return "", false, err
	}
	s, ok := String(v)
	return s, ok, nil
}

// IsRecord reports whether v is record-shaped.
func IsRecord(v any) bool {
	_, ok := recordValue(reflect.ValueOf(v))
	return ok
}

// String renders a resolved key value. Strings pass through, numbers and
// booleans use their canonical form, fmt.Stringer is honored, and anything
// else falls back to fmt.Sprint.
func String(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.String:
		return rv.String(), true
	}
	return fmt.Sprint(v), true
}

// recordValue unwraps pointers and interfaces and reports whether the result
// is a struct or a string-keyed map.
func recordValue(rv reflect.Value) (reflect.Value, bool) {
	rv = indirect(rv)
	if !rv.IsValid() {
		return rv, false
	}
	switch rv.Kind() {
	case reflect.Struct:
		return rv, true
	case reflect.Map:
		return rv, rv.Type().Key().Kind() == reflect.String
	}
	return rv, false
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func lookupField(rv reflect.Value, name string) (reflect.Value, bool) {
	switch rv.Kind() {
	case reflect.Map:
		key := reflect.ValueOf(name).Convert(rv.Type().Key())
		v := rv.MapIndex(key)
		if !v.IsValid() {
			return reflect.Value{}, false
		}
		return v, true
	case reflect.Struct:
		rt := rv.Type()
		if sf, ok := rt.FieldByName(name); ok && sf.IsExported() {
			// Promoted fields behind a nil embedded pointer are absent.
			v, err := rv.FieldByIndexErr(sf.Index)
			if err != nil {
				return reflect.Value{}, false
			}
			return v, true
		}
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if !sf.IsExported() {
				continue
			}
			tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			if tag == name {
				return rv.Field(i), true
			}
		}
	}
	return reflect.Value{}, false
}
