package core

import (
	"reflect"
	"strings"
)

// Kind is the declared shape of an updatable field.
type Kind uint8

const (
	KindUnset Kind = iota
	KindScalar
	KindMap
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	}
	return "unset"
}

type StructTag struct {
	Ignore   bool
	ReadOnly bool
	Kind     Kind
}

// ParseTag reads the `update` struct tag. Unknown tokens are ignored.
func ParseTag(field reflect.StructField) StructTag {
	tag := field.Tag.Get("update")
	if tag == "" {
		return StructTag{}
	}

	st := StructTag{}
	parts := strings.Split(tag, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "-":
			st.Ignore = true
		case "readonly":
			st.ReadOnly = true
		case "scalar":
			st.Kind = KindScalar
		case "map":
			st.Kind = KindMap
		case "list":
			st.Kind = KindList
		}
	}

	return st
}

// KindOf returns the default kind for a Go type. Maps are Map fields, slices
// and arrays (other than byte slices) are List fields, everything else is a
// Scalar. Pointers are looked through.
func KindOf(typ reflect.Type) Kind {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.Map:
		return KindMap
	case reflect.Slice, reflect.Array:
		if typ.Elem().Kind() == reflect.Uint8 {
			return KindScalar
		}
		return KindList
	}
	return KindScalar
}

// WireName returns the JSON name of the field and whether the json tag
// excludes it from encoding.
func WireName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		name = field.Name
	}
	return name, false
}
