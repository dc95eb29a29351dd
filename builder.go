package update

import "fmt"

// ScalarField is a typed handle for a scalar field. Operations return the
// owning builder so calls can be chained:
//
//	u.Description().Set("pump").Unit().SetNull()
//
// Failures are kept in the patch and reported by Patch.Err and serialization.
type ScalarField[U any, V any] struct {
	owner U
	patch *Patch
	name  string
}

// NewScalarField returns a handle for name. It panics if the patch schema
// does not declare name as a scalar field.
func NewScalarField[U any, V any](owner U, p *Patch, name string) ScalarField[U, V] {
	mustDeclare(p, name, Scalar)
	return ScalarField[U, V]{owner: owner, patch: p, name: name}
}

// Set records value as the new field value.
func (f ScalarField[U, V]) Set(value V) U {
	f.patch.failIf(f.patch.Set(f.name, value))
	return f.owner
}

// SetNull records an explicit null.
func (f ScalarField[U, V]) SetNull() U {
	f.patch.failIf(f.patch.Set(f.name, nil))
	return f.owner
}

// MapField is a typed handle for a map field with string keys.
type MapField[U any, V any] struct {
	owner U
	patch *Patch
	name  string
}

// NewMapField returns a handle for name. It panics if the patch schema does
// not declare name as a map field.
func NewMapField[U any, V any](owner U, p *Patch, name string) MapField[U, V] {
	mustDeclare(p, name, Map)
	return MapField[U, V]{owner: owner, patch: p, name: name}
}

// Set replaces the whole map.
func (f MapField[U, V]) Set(value map[string]V) U {
	if value == nil {
		return f.SetNull()
	}
	f.patch.failIf(f.patch.Set(f.name, value))
	return f.owner
}

// SetNull records an explicit null.
func (f MapField[U, V]) SetNull() U {
	f.patch.failIf(f.patch.Set(f.name, nil))
	return f.owner
}

// Add upserts the given entries.
func (f MapField[U, V]) Add(value map[string]V) U {
	if value == nil {
		value = map[string]V{}
	}
	f.patch.failIf(f.patch.Add(f.name, value))
	return f.owner
}

// Remove deletes the given keys.
func (f MapField[U, V]) Remove(keys ...string) U {
	if keys == nil {
		keys = []string{}
	}
	f.patch.failIf(f.patch.Remove(f.name, keys))
	return f.owner
}

// ListField is a typed handle for a list field.
type ListField[U any, E any] struct {
	owner U
	patch *Patch
	name  string
}

// NewListField returns a handle for name. It panics if the patch schema does
// not declare name as a list field.
func NewListField[U any, E any](owner U, p *Patch, name string) ListField[U, E] {
	mustDeclare(p, name, List)
	return ListField[U, E]{owner: owner, patch: p, name: name}
}

// Set replaces the whole list.
func (f ListField[U, E]) Set(value []E) U {
	if value == nil {
		return f.SetNull()
	}
	f.patch.failIf(f.patch.Set(f.name, value))
	return f.owner
}

// SetNull records an explicit null.
func (f ListField[U, E]) SetNull() U {
	f.patch.failIf(f.patch.Set(f.name, nil))
	return f.owner
}

// Add appends the given elements.
func (f ListField[U, E]) Add(value []E) U {
	if value == nil {
		value = []E{}
	}
	f.patch.failIf(f.patch.Add(f.name, value))
	return f.owner
}

// Remove deletes the given elements.
func (f ListField[U, E]) Remove(value []E) U {
	if value == nil {
		value = []E{}
	}
	f.patch.failIf(f.patch.Remove(f.name, value))
	return f.owner
}

func mustDeclare(p *Patch, name string, kind FieldKind) {
	got, ok := p.schema.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("update: %s has no field %q", p.schema.Name(), name))
	}
	if got != kind {
		panic(fmt.Sprintf("update: field %q of %s is %s, not %s", name, p.schema.Name(), got, kind))
	}
}

func (p *Patch) failIf(err error) {
	if err != nil {
		p.fail(err)
	}
}
