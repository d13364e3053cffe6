// Package deepcopy clones arbitrary Go values by walking them with reflection.
//
// Pointers, maps, slices, arrays, interfaces and exported struct fields are
// copied recursively. Unexported struct fields are copied by value (shallow).
// Shared pointers and cycles are preserved: a pointer seen twice maps to the
// same copy.
package deepcopy

import (
	"reflect"
)

// Copy returns a deep copy of v.
func Copy[T any](v T) T {
	src := reflect.ValueOf(&v).Elem()
	dst := reflect.New(src.Type()).Elem()
	c := copier{seen: make(map[visit]reflect.Value)}
	c.copy(dst, src)
	out, _ := dst.Interface().(T)
	return out
}

// Any is Copy for values whose static type is unknown.
func Any(v any) any {
	if v == nil {
		return nil
	}
	src := reflect.ValueOf(v)
	dst := reflect.New(src.Type()).Elem()
	c := copier{seen: make(map[visit]reflect.Value)}
	c.copy(dst, src)
	return dst.Interface()
}

type visit struct {
	ptr uintptr
	typ reflect.Type
}

type copier struct {
	seen map[visit]reflect.Value
}

func (c *copier) copy(dst, src reflect.Value) {
	switch src.Kind() {
	case reflect.Pointer:
		if src.IsNil() {
			return
		}
		key := visit{ptr: src.Pointer(), typ: src.Type()}
		if prev, ok := c.seen[key]; ok {
			dst.Set(prev)
			return
		}
		p := reflect.New(src.Type().Elem())
		c.seen[key] = p
		c.copy(p.Elem(), src.Elem())
		dst.Set(p)

	case reflect.Interface:
		if src.IsNil() {
			return
		}
		inner := src.Elem()
		cp := reflect.New(inner.Type()).Elem()
		c.copy(cp, inner)
		dst.Set(cp)

	case reflect.Map:
		if src.IsNil() {
			return
		}
		key := visit{ptr: src.Pointer(), typ: src.Type()}
		if prev, ok := c.seen[key]; ok {
			dst.Set(prev)
			return
		}
		m := reflect.MakeMapWithSize(src.Type(), src.Len())
		c.seen[key] = m
		iter := src.MapRange()
		for iter.Next() {
			k := reflect.New(iter.Key().Type()).Elem()
			c.copy(k, iter.Key())
			v := reflect.New(iter.Value().Type()).Elem()
			c.copy(v, iter.Value())
			m.SetMapIndex(k, v)
		}
		dst.Set(m)

	case reflect.Slice:
		if src.IsNil() {
			return
		}
		s := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			c.copy(s.Index(i), src.Index(i))
		}
		dst.Set(s)

	case reflect.Array:
		for i := 0; i < src.Len(); i++ {
			c.copy(dst.Index(i), src.Index(i))
		}

	case reflect.Struct:
		// Unexported fields cannot be set through reflection; take them by value.
		dst.Set(src)
		for i := 0; i < src.NumField(); i++ {
			if !dst.Field(i).CanSet() {
				continue
			}
			c.copy(dst.Field(i), src.Field(i))
		}

	default:
		dst.Set(src)
	}
}
