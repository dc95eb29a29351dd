package core

import (
	"encoding"
	"encoding/json"
	"reflect"

	"github.com/barkimedes/go-deepcopy"
	"github.com/huandu/go-clone"
	"github.com/mitchellh/copystructure"
)

// Copier returns a deep copy of v that shares no mutable state with it.
type Copier func(v any) (any, error)

func CopyStructure(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return copystructure.Copy(v)
}

func CopyClone(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return clone.Clone(v), nil
}

func CopyDeepcopy(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return deepcopy.Anything(v)
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

// Freeze returns v encoded as a json.RawMessage when its JSON form depends on
// marshal methods or unexported state, which the copiers cannot reproduce.
// Any other value is returned unchanged for the Copier to copy.
func Freeze(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	if !opaque(reflect.ValueOf(v), make(map[uintptr]bool)) {
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// opaque reports whether rv, or anything reachable from it, encodes through
// a marshal method or holds unexported fields.
func opaque(rv reflect.Value, seen map[uintptr]bool) bool {
	if !rv.IsValid() {
		return false
	}
	t := rv.Type()
	if implementsMarshaler(t) || implementsMarshaler(reflect.PointerTo(t)) {
		return true
	}

	switch rv.Kind() {
	case reflect.Interface:
		return opaque(rv.Elem(), seen)
	case reflect.Pointer:
		if rv.IsNil() {
			return false
		}
		if seen[rv.Pointer()] {
			return false
		}
		seen[rv.Pointer()] = true
		return opaque(rv.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				return true
			}
			if opaque(rv.Field(i), seen) {
				return true
			}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if opaque(iter.Key(), seen) || opaque(iter.Value(), seen) {
				return true
			}
		}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if opaque(rv.Index(i), seen) {
				return true
			}
		}
	}
	return false
}

func implementsMarshaler(t reflect.Type) bool {
	return t.Implements(marshalerType) || t.Implements(textMarshalerType)
}
