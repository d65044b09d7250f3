package cow

import (
	"reflect"
	"sync"

	clone "github.com/huandu/go-clone/generic"
)

// Cloner is implemented by types that know how to duplicate themselves.
type Cloner[T any] interface {
	Clone() T
}

// flatTypes caches whether a type can be duplicated by plain assignment.
var flatTypes sync.Map // map[reflect.Type]bool

// Clone returns a copy of v that shares no mutable memory with it.
//
// Values implementing Cloner[T] are copied with their Clone method. Values
// whose type holds no slices, maps, pointers, channels, funcs or interfaces are
// copied by assignment. Everything else is deep-copied field by field,
// unexported fields included.
func Clone[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}

	rt := reflect.TypeOf(v)
	if rt == nil || isFlat(rt) {
		return v
	}

	return clone.Clone(v)
}

func isFlat(rt reflect.Type) bool {
	if cached, ok := flatTypes.Load(rt); ok {
		return cached.(bool)
	}

	flat := computeFlat(rt)
	flatTypes.Store(rt, flat)

	return flat
}

func computeFlat(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return computeFlat(rt.Elem())
	case reflect.Struct:
		for i := range rt.NumField() {
			if !computeFlat(rt.Field(i).Type) {
				return false
			}
		}

		return true
	default:
		return false
	}
}
