package update

import (
	"fmt"
	"reflect"

	"github.com/brunoga/update/internal/core"
)

// PatchFromValue returns a patch that sets every updatable field of v that
// is not the zero value. v must be a struct or a pointer to one; its fields
// are matched to the schema by their json names. Fields the schema does not
// declare are skipped.
func PatchFromValue(schema *Schema, key ResourceKey, v any, opts ...PatchOption) (*Patch, error) {
	p, err := NewPatch(schema, key, opts...)
	if err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, &ValidationError{Reason: "value is nil"}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, &ValidationError{Reason: fmt.Sprintf("value must be a struct, got %T", v)}
	}

	info := core.GetTypeInfo(rv.Type())
	for _, f := range info.Fields {
		if !f.Updatable() {
			continue
		}
		if _, ok := schema.Lookup(f.WireName); !ok {
			continue
		}
		fv := rv.Field(f.Index)
		if fv.IsZero() {
			continue
		}
		if err := p.Set(f.WireName, fv.Interface()); err != nil {
			return nil, err
		}
	}
	return p, nil
}
