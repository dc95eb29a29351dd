package core

import (
	"reflect"
	"sync"
)

type FieldInfo struct {
	Index    int
	Name     string
	WireName string
	Kind     Kind
	Tag      StructTag
}

// Updatable reports whether the field may appear in an update document.
func (f FieldInfo) Updatable() bool {
	return !f.Tag.Ignore && !f.Tag.ReadOnly
}

type TypeInfo struct {
	Fields []FieldInfo
}

var (
	typeCache sync.Map // map[reflect.Type]*TypeInfo
)

// GetTypeInfo returns the cached field information for typ. Unexported fields
// and fields excluded from JSON are skipped.
func GetTypeInfo(typ reflect.Type) *TypeInfo {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if info, ok := typeCache.Load(typ); ok {
		return info.(*TypeInfo)
	}

	info := &TypeInfo{}
	if typ.Kind() == reflect.Struct {
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			wire, skip := WireName(field)
			if skip {
				continue
			}
			tag := ParseTag(field)
			kind := tag.Kind
			if kind == KindUnset {
				kind = KindOf(field.Type)
			}
			info.Fields = append(info.Fields, FieldInfo{
				Index:    i,
				Name:     field.Name,
				WireName: wire,
				Kind:     kind,
				Tag:      tag,
			})
		}
	}

	actual, _ := typeCache.LoadOrStore(typ, info)
	return actual.(*TypeInfo)
}
