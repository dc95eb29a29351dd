package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Shape is the JSON shape a value encodes to.
type Shape uint8

const (
	ShapeNull Shape = iota
	ShapeScalar
	ShapeObject
	ShapeArray
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeObject:
		return "object"
	case ShapeArray:
		return "array"
	}
	return "null"
}

var marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// ShapeOf returns the JSON shape of v without encoding it, except for values
// with their own MarshalJSON, which are encoded and inspected.
func ShapeOf(v any) Shape {
	switch t := v.(type) {
	case nil:
		return ShapeNull
	case json.RawMessage:
		return rawShape(t)
	}

	rv := reflect.ValueOf(v)
	for {
		if !rv.IsValid() {
			return ShapeNull
		}
		if rv.Type().Implements(marshalerType) {
			if rv.Kind() == reflect.Pointer && rv.IsNil() {
				return ShapeNull
			}
			data, err := rv.Interface().(json.Marshaler).MarshalJSON()
			if err != nil {
				return ShapeScalar
			}
			return rawShape(data)
		}
		if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
			break
		}
		if rv.IsNil() {
			return ShapeNull
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return ShapeNull
		}
		return ShapeObject
	case reflect.Struct:
		return ShapeObject
	case reflect.Slice:
		if rv.IsNil() {
			return ShapeNull
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return ShapeScalar
		}
		return ShapeArray
	case reflect.Array:
		return ShapeArray
	}
	return ShapeScalar
}

func rawShape(data []byte) Shape {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ShapeNull
	}
	switch data[0] {
	case '{':
		return ShapeObject
	case '[':
		return ShapeArray
	case 'n':
		return ShapeNull
	}
	return ShapeScalar
}

// StringKeys extracts a deduplicated list of map keys from a sequence of
// strings, keeping first-seen order.
func StringKeys(v any) ([]string, error) {
	var keys []string
	switch t := v.(type) {
	case nil:
		return nil, fmt.Errorf("keys must be a sequence of strings, got null")
	case []string:
		keys = t
	case json.RawMessage:
		if err := json.Unmarshal(t, &keys); err != nil {
			return nil, fmt.Errorf("keys must be a sequence of strings: %w", err)
		}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("keys must be a sequence of strings, got %T", v)
		}
		keys = make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i)
			for elem.Kind() == reflect.Interface && !elem.IsNil() {
				elem = elem.Elem()
			}
			if elem.Kind() != reflect.String {
				return nil, fmt.Errorf("key at index %d is %s, not a string", i, elem.Kind())
			}
			keys = append(keys, elem.String())
		}
	}

	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out, nil
}
