// Package update builds partial-update documents for the time series and
// assets APIs.
//
// A Patch accumulates field-level operations (set, add, remove) for a single
// resource selected by a ResourceKey and serializes them into the change
// document accepted by the update endpoints:
//
//	{"id": 1, "update": {"description": {"set": "pump"}, "metadata": {"add": {"site": "a"}}}}
//
// Which operations a field accepts is fixed by its FieldKind in the Schema the
// patch was created with.
package update

import (
	"fmt"

	"github.com/brunoga/update/internal/core"
)

type opValue struct {
	value   any
	present bool
}

type fieldState struct {
	name string
	kind FieldKind
	ops  [numOps]opValue
}

// Patch holds the accumulated update intents for one resource. It is not
// safe for concurrent use; use Clone to hand a copy to another goroutine.
type Patch struct {
	schema *Schema
	key    ResourceKey
	fields []*fieldState
	index  map[string]int
	copier Copier
	final  bool
	err    error
}

// NewPatch returns an empty patch for the resource selected by key. The key
// is validated before anything else.
func NewPatch(schema *Schema, key ResourceKey, opts ...PatchOption) (*Patch, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, &ValidationError{Reason: "schema is nil"}
	}
	cfg := defaultPatchConfig()
	for _, opt := range opts {
		opt.applyPatch(&cfg)
	}
	return &Patch{
		schema: schema,
		key:    key,
		index:  make(map[string]int),
		copier: cfg.copier,
	}, nil
}

// Key returns the resource key the patch applies to.
func (p *Patch) Key() ResourceKey { return p.key }

// Schema returns the schema the patch validates against.
func (p *Patch) Schema() *Schema { return p.schema }

// Len returns the number of fields with at least one recorded operation.
func (p *Patch) Len() int { return len(p.fields) }

// IsEmpty reports whether no operation has been recorded.
func (p *Patch) IsEmpty() bool { return len(p.fields) == 0 }

// Err returns the first error recorded by a typed field handle.
func (p *Patch) Err() error { return p.err }

// Finalize makes the patch read-only. Later operations fail with a
// ValidationError.
func (p *Patch) Finalize() *Patch {
	p.final = true
	return p
}

// Finalized reports whether Finalize was called.
func (p *Patch) Finalized() bool { return p.final }

// Set records a full replacement of field. A nil value is recorded as an
// explicit null, which is different from leaving the field untouched.
//
// Values that encode through MarshalJSON or MarshalText, or that hold
// unexported fields, are recorded as their encoded json.RawMessage.
func (p *Patch) Set(field string, value any) error {
	return p.record(field, OpSet, value)
}

// Add records an additive merge into a map or list field.
func (p *Patch) Add(field string, value any) error {
	return p.record(field, OpAdd, value)
}

// Remove records the removal of keys from a map field or of elements from a
// list field. For map fields value must be a sequence of strings.
func (p *Patch) Remove(field string, value any) error {
	return p.record(field, OpRemove, value)
}

// record validates and stores one operation. On error the patch is left
// exactly as it was.
func (p *Patch) record(field string, op OpKind, value any) error {
	if p.final {
		return &ValidationError{Field: field, Reason: "patch is finalized"}
	}
	kind, ok := p.schema.Lookup(field)
	if !ok {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("unknown field for %s", p.schema.Name())}
	}
	if !kind.Allows(op) {
		return &InvalidOperationError{Field: field, Kind: kind, Op: op}
	}

	value, err := core.Freeze(value)
	if err != nil {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("cannot encode value: %v", err)}
	}
	value, err = checkValue(field, kind, op, value)
	if err != nil {
		return err
	}
	copied, err := p.copier(value)
	if err != nil {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("cannot copy value: %v", err)}
	}

	p.store(field, kind, op, copied)
	return nil
}

func (p *Patch) store(field string, kind FieldKind, op OpKind, value any) {
	i, ok := p.index[field]
	if !ok {
		i = len(p.fields)
		p.index[field] = i
		p.fields = append(p.fields, &fieldState{name: field, kind: kind})
	}
	p.fields[i].ops[op] = opValue{value: value, present: true}
}

// checkValue verifies the value has the JSON shape the operation needs and
// returns the value to record.
func checkValue(field string, kind FieldKind, op OpKind, value any) (any, error) {
	if kind == Scalar {
		return value, nil
	}
	if kind == Map && op == OpRemove {
		keys, err := core.StringKeys(value)
		if err != nil {
			return nil, &ValidationError{Field: field, Reason: err.Error()}
		}
		return keys, nil
	}

	want := core.ShapeObject
	if kind == List {
		want = core.ShapeArray
	}
	shape := core.ShapeOf(value)
	if shape == want || (op == OpSet && shape == core.ShapeNull) {
		return value, nil
	}
	return nil, &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("%s on %s field needs %s value, got %s", op, kind, want, shape),
	}
}

// Lookup returns the value recorded for field and op. The value is shared
// with the patch and must not be modified.
func (p *Patch) Lookup(field string, op OpKind) (any, bool) {
	i, ok := p.index[field]
	if !ok || op >= numOps {
		return nil, false
	}
	v := p.fields[i].ops[op]
	return v.value, v.present
}

// Ops returns the recorded operations in serialization order: fields in the
// order they were first touched, and set, add, remove within a field. Values
// are shared with the patch and must not be modified.
func (p *Patch) Ops() []FieldPatch {
	var out []FieldPatch
	for _, f := range p.fields {
		for op := OpSet; op < numOps; op++ {
			if !f.ops[op].present {
				continue
			}
			out = append(out, FieldPatch{
				Field: f.name,
				Kind:  f.kind,
				Op:    op,
				Value: f.ops[op].value,
			})
		}
	}
	return out
}

// Clone returns a deep copy of the patch that shares no mutable state with
// it. The clone is not finalized.
func (p *Patch) Clone() (*Patch, error) {
	c := &Patch{
		schema: p.schema,
		key:    p.key,
		fields: make([]*fieldState, len(p.fields)),
		index:  make(map[string]int, len(p.index)),
		copier: p.copier,
		err:    p.err,
	}
	for i, f := range p.fields {
		nf := &fieldState{name: f.name, kind: f.kind}
		for op := OpSet; op < numOps; op++ {
			if !f.ops[op].present {
				continue
			}
			v, err := p.copier(f.ops[op].value)
			if err != nil {
				return nil, fmt.Errorf("cloning field %q: %w", f.name, err)
			}
			nf.ops[op] = opValue{value: v, present: true}
		}
		c.fields[i] = nf
		c.index[f.name] = i
	}
	return c, nil
}

func (p *Patch) String() string {
	return fmt.Sprintf("Patch(%s, %s, %d fields)", p.schema.Name(), p.key, len(p.fields))
}

// fail keeps the first error reported by a typed field handle.
func (p *Patch) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
