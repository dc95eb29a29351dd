package update

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/brunoga/update/internal/core"
)

// FieldDecl declares an updatable field and its kind.
type FieldDecl struct {
	Name string
	Kind FieldKind
}

// Schema is the ordered set of fields a resource type accepts in updates.
// Operation/kind compatibility is checked against it when an operation is
// recorded. A Schema is immutable and may be shared.
type Schema struct {
	name   string
	fields []FieldDecl
	index  map[string]int
}

// NewSchema validates the declarations and returns a schema for them.
func NewSchema(name string, decls ...FieldDecl) (*Schema, error) {
	s := &Schema{
		name:   name,
		fields: make([]FieldDecl, 0, len(decls)),
		index:  make(map[string]int, len(decls)),
	}
	for _, d := range decls {
		if d.Name == "" {
			return nil, &ValidationError{Reason: "field name must not be empty"}
		}
		if !d.Kind.valid() {
			return nil, &ValidationError{Field: d.Name, Reason: fmt.Sprintf("unknown field kind %v", d.Kind)}
		}
		if _, dup := s.index[d.Name]; dup {
			return nil, &ValidationError{Field: d.Name, Reason: "declared more than once"}
		}
		s.index[d.Name] = len(s.fields)
		s.fields = append(s.fields, d)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on invalid declarations.
func MustSchema(name string, decls ...FieldDecl) *Schema {
	s, err := NewSchema(name, decls...)
	if err != nil {
		panic(err)
	}
	return s
}

var schemaCache sync.Map // map[reflect.Type]*Schema

// SchemaFor derives a schema from the struct tags of T. Wire names come from
// the json tag; kinds from the `update` tag or, without one, from the Go type.
// Fields tagged `update:"-"` or `update:"readonly"` are left out.
func SchemaFor[T any]() (*Schema, error) {
	var t T
	typ := reflect.TypeOf(t)
	if typ == nil {
		return nil, &ValidationError{Reason: "cannot derive schema from interface type"}
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if s, ok := schemaCache.Load(typ); ok {
		return s.(*Schema), nil
	}
	if typ.Kind() != reflect.Struct {
		return nil, &ValidationError{Reason: fmt.Sprintf("cannot derive schema from %v", typ)}
	}

	info := core.GetTypeInfo(typ)
	decls := make([]FieldDecl, 0, len(info.Fields))
	for _, f := range info.Fields {
		if !f.Updatable() {
			continue
		}
		decls = append(decls, FieldDecl{Name: f.WireName, Kind: kindFromCore(f.Kind)})
	}
	s, err := NewSchema(typ.Name(), decls...)
	if err != nil {
		return nil, err
	}
	actual, _ := schemaCache.LoadOrStore(typ, s)
	return actual.(*Schema), nil
}

// Name returns the schema name (the Go type name for derived schemas).
func (s *Schema) Name() string { return s.name }

// Fields returns a copy of the declarations in declaration order.
func (s *Schema) Fields() []FieldDecl {
	out := make([]FieldDecl, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the kind of the named field.
func (s *Schema) Lookup(name string) (FieldKind, bool) {
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}
	return s.fields[i].Kind, true
}
