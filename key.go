package update

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ResourceKey selects the remote resource a patch applies to. It holds either
// a numeric id or an external id, never both. The zero value is invalid.
type ResourceKey struct {
	id         int64
	externalID string
	hasID      bool
}

// ID returns a key selecting a resource by its numeric id.
func ID(id int64) ResourceKey {
	return ResourceKey{id: id, hasID: true}
}

// ExternalID returns a key selecting a resource by its external id. An empty
// external id yields an invalid key.
func ExternalID(externalID string) ResourceKey {
	return ResourceKey{externalID: externalID}
}

// NewResourceKey builds a key from optional identifiers. Exactly one of id and
// externalID must be non-nil.
func NewResourceKey(id *int64, externalID *string) (ResourceKey, error) {
	switch {
	case id != nil && externalID != nil:
		return ResourceKey{}, &InvalidKeyError{Reason: "both id and externalId are set"}
	case id != nil:
		return ID(*id), nil
	case externalID != nil:
		k := ExternalID(*externalID)
		return k, k.Validate()
	}
	return ResourceKey{}, &InvalidKeyError{Reason: "neither id nor externalId is set"}
}

// Validate returns an InvalidKeyError if the key selects nothing.
func (k ResourceKey) Validate() error {
	if k.hasID {
		return nil
	}
	if k.externalID == "" {
		return &InvalidKeyError{Reason: "neither id nor externalId is set"}
	}
	return nil
}

// IsID reports whether the key is a numeric id.
func (k ResourceKey) IsID() bool { return k.hasID }

// ID returns the numeric id and whether the key holds one.
func (k ResourceKey) ID() (int64, bool) { return k.id, k.hasID }

// ExternalID returns the external id and whether the key holds one.
func (k ResourceKey) ExternalID() (string, bool) {
	return k.externalID, !k.hasID && k.externalID != ""
}

func (k ResourceKey) String() string {
	if k.hasID {
		return "id:" + strconv.FormatInt(k.id, 10)
	}
	if k.externalID != "" {
		return "externalId:" + k.externalID
	}
	return "<invalid key>"
}

// appendJSON writes the key member (without braces) to buf.
func (k ResourceKey) appendJSON(buf *bytes.Buffer) error {
	if err := k.Validate(); err != nil {
		return err
	}
	if k.hasID {
		buf.WriteString(`"id":`)
		buf.WriteString(strconv.FormatInt(k.id, 10))
		return nil
	}
	data, err := json.Marshal(k.externalID)
	if err != nil {
		return err
	}
	buf.WriteString(`"externalId":`)
	buf.Write(data)
	return nil
}

// MarshalJSON encodes the key as {"id":n} or {"externalId":"s"}, the shape
// used by delete and retrieve requests.
func (k ResourceKey) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := k.appendJSON(&buf); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (k *ResourceKey) UnmarshalJSON(data []byte) error {
	var surrogate struct {
		ID         *int64  `json:"id"`
		ExternalID *string `json:"externalId"`
	}
	if err := json.Unmarshal(data, &surrogate); err != nil {
		return fmt.Errorf("decoding resource key: %w", err)
	}
	key, err := NewResourceKey(surrogate.ID, surrogate.ExternalID)
	if err != nil {
		return err
	}
	*k = key
	return nil
}
