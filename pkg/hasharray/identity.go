package hasharray

import (
	"reflect"
)

type refKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// ReferenceIdentity identifies pointers, maps, slices, channels and funcs by
// the address they refer to, and other comparable values by equality.
// Non-comparable values (for example structs holding a slice) get a nil
// identity, so the collection matches them by reflect.DeepEqual.
func ReferenceIdentity(record any) any {
	if record == nil {
		return nil
	}
	rv := reflect.ValueOf(record)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if rv.IsNil() {
			return nil
		}
		return refKey{typ: rv.Type(), ptr: rv.Pointer()}
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		return refKey{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}
	}
	if rv.Comparable() {
		return record
	}
	return nil
}
