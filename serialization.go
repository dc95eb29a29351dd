package update

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/brunoga/update/internal/core"
)

// Serialize encodes the patch into its wire form:
//
//	{"id": 1, "update": {"<field>": {"set": v, "add": v, "remove": v}}}
//
// Fields appear in the order they were first touched. An empty patch is
// rejected with a ValidationError.
func (p *Patch) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (p *Patch) MarshalJSON() ([]byte, error) {
	return p.Serialize()
}

func (p *Patch) appendJSON(buf *bytes.Buffer) error {
	if p.err != nil {
		return p.err
	}
	if p.IsEmpty() {
		return &ValidationError{Reason: "empty update"}
	}

	buf.WriteByte('{')
	if err := p.key.appendJSON(buf); err != nil {
		return err
	}
	buf.WriteString(`,"update":{`)
	for i, f := range p.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.name)
		if err != nil {
			return err
		}
		buf.Write(name)
		buf.WriteString(`:{`)
		first := true
		for op := OpSet; op < numOps; op++ {
			if !f.ops[op].present {
				continue
			}
			data, err := json.Marshal(f.ops[op].value)
			if err != nil {
				return &ValidationError{Field: f.name, Reason: fmt.Sprintf("cannot encode %s value: %v", op, err)}
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			buf.WriteByte('"')
			buf.WriteString(op.String())
			buf.WriteString(`":`)
			buf.Write(data)
		}
		buf.WriteByte('}')
	}
	buf.WriteString(`}}`)
	return nil
}

// UnmarshalJSON decodes a wire patch. If the receiver already has a schema it
// is used for validation, otherwise field kinds are inferred as in ParsePatch.
func (p *Patch) UnmarshalJSON(data []byte) error {
	var opts []PatchOption
	if p.copier != nil {
		opts = append(opts, WithCopier(p.copier))
	}
	parsed, err := ParsePatch(data, p.schema, opts...)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// Serialize encodes the batch as {"items": [...]} in registration order.
// The batch fails as a whole if it is empty or any patch fails.
func (b *Batch) Serialize() ([]byte, error) {
	if len(b.patches) == 0 {
		return nil, &ValidationError{Reason: "empty batch"}
	}
	var buf bytes.Buffer
	buf.WriteString(`{"items":[`)
	for i, p := range b.patches {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := p.appendJSON(&buf); err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, p.key, err)
		}
	}
	buf.WriteString(`]}`)
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (b *Batch) MarshalJSON() ([]byte, error) {
	return b.Serialize()
}

// UnmarshalJSON decodes a wire batch, inferring field kinds.
func (b *Batch) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBatch(data, nil)
	if err != nil {
		return err
	}
	*b = *parsed
	return nil
}

type parsedField struct {
	name string
	ops  [numOps]json.RawMessage
}

// ParsePatch decodes a wire patch. Field order and value bytes are kept, so
// serializing the result reproduces the input's canonical form. With a nil
// schema the field kinds are inferred from the values: objects are maps,
// arrays are lists and anything else is a scalar.
func ParsePatch(data []byte, schema *Schema, opts ...PatchOption) (*Patch, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var (
		id         *int64
		externalID *string
		fields     []parsedField
		sawUpdate  bool
	)
	for dec.More() {
		member, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		switch member {
		case "id":
			// A null member counts as absent.
			var n *json.Number
			if err := dec.Decode(&n); err != nil {
				return nil, &InvalidKeyError{Reason: fmt.Sprintf("id: %v", err)}
			}
			id = nil
			if n == nil {
				continue
			}
			v, err := strconv.ParseInt(n.String(), 10, 64)
			if err != nil {
				return nil, &InvalidKeyError{Reason: fmt.Sprintf("id %s is not an integer", *n)}
			}
			id = &v
		case "externalId":
			var s *string
			if err := dec.Decode(&s); err != nil {
				return nil, &InvalidKeyError{Reason: fmt.Sprintf("externalId: %v", err)}
			}
			externalID = s
		case "update":
			if fields, err = parseUpdate(dec); err != nil {
				return nil, err
			}
			sawUpdate = true
		default:
			return nil, &ValidationError{Reason: fmt.Sprintf("unexpected member %q", member)}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("unexpected %v", tok)
		}
		return nil, &ValidationError{Reason: fmt.Sprintf("trailing data after patch: %v", err)}
	}

	key, err := NewResourceKey(id, externalID)
	if err != nil {
		return nil, err
	}
	if !sawUpdate || len(fields) == 0 {
		return nil, &ValidationError{Reason: "empty update"}
	}
	if schema == nil {
		if schema, err = inferSchema(fields); err != nil {
			return nil, err
		}
	}

	p, err := NewPatch(schema, key, opts...)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		for op := OpSet; op < numOps; op++ {
			raw := f.ops[op]
			if raw == nil {
				continue
			}
			var value any = raw
			if core.ShapeOf(raw) == core.ShapeNull {
				value = nil
			}
			if err := p.record(f.name, op, value); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

// ParseBatch decodes a wire batch {"items": [...]}.
func ParseBatch(data []byte, schema *Schema, opts ...PatchOption) (*Batch, error) {
	var surrogate struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &surrogate); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("malformed batch: %v", err)}
	}
	if len(surrogate.Items) == 0 {
		return nil, &ValidationError{Reason: "empty batch"}
	}
	b := &Batch{patches: make([]*Patch, 0, len(surrogate.Items))}
	for i, item := range surrogate.Items {
		p, err := ParsePatch(item, schema, opts...)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		b.patches = append(b.patches, p)
	}
	return b, nil
}

func parseUpdate(dec *json.Decoder) ([]parsedField, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var fields []parsedField
	seen := make(map[string]bool)
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, &ValidationError{Field: name, Reason: "appears more than once"}
		}
		seen[name] = true

		var ops map[string]json.RawMessage
		if err := dec.Decode(&ops); err != nil {
			return nil, &ValidationError{Field: name, Reason: fmt.Sprintf("malformed operations: %v", err)}
		}
		if len(ops) == 0 {
			return nil, &ValidationError{Field: name, Reason: "no operations"}
		}
		f := parsedField{name: name}
		for verb, raw := range ops {
			op, ok := parseOpKind(verb)
			if !ok {
				return nil, &ValidationError{Field: name, Reason: fmt.Sprintf("unknown operation %q", verb)}
			}
			var buf bytes.Buffer
			if err := json.Compact(&buf, raw); err != nil {
				return nil, &ValidationError{Field: name, Reason: err.Error()}
			}
			f.ops[op] = json.RawMessage(buf.Bytes())
		}
		fields = append(fields, f)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return fields, nil
}

// inferSchema guesses field kinds from the decoded values. The add value
// decides first, then the set value. A field with only a remove operation is
// taken to be a list.
func inferSchema(fields []parsedField) (*Schema, error) {
	decls := make([]FieldDecl, 0, len(fields))
	for _, f := range fields {
		kind := Scalar
		switch {
		case f.ops[OpAdd] != nil:
			kind = kindOfShape(core.ShapeOf(f.ops[OpAdd]))
			if kind == Scalar {
				return nil, &ValidationError{Field: f.name, Reason: "add value must be an object or an array"}
			}
		case f.ops[OpSet] != nil && core.ShapeOf(f.ops[OpSet]) != core.ShapeNull:
			kind = kindOfShape(core.ShapeOf(f.ops[OpSet]))
		case f.ops[OpRemove] != nil:
			kind = List
		}
		decls = append(decls, FieldDecl{Name: f.name, Kind: kind})
	}
	return NewSchema("inferred", decls...)
}

func kindOfShape(s core.Shape) FieldKind {
	switch s {
	case core.ShapeObject:
		return Map
	case core.ShapeArray:
		return List
	}
	return Scalar
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return &ValidationError{Reason: fmt.Sprintf("malformed patch: %v", err)}
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return &ValidationError{Reason: fmt.Sprintf("malformed patch: expected %q, got %v", want, tok)}
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", &ValidationError{Reason: fmt.Sprintf("malformed patch: %v", err)}
	}
	key, ok := tok.(string)
	if !ok {
		return "", &ValidationError{Reason: fmt.Sprintf("malformed patch: expected member name, got %v", tok)}
	}
	return key, nil
}
