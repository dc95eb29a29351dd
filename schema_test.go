package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchema_Validation(t *testing.T) {
	tests := []struct {
		name  string
		decls []FieldDecl
	}{
		{"empty name", []FieldDecl{{Name: "", Kind: Scalar}}},
		{"unknown kind", []FieldDecl{{Name: "a", Kind: FieldKind(9)}}},
		{"zero kind", []FieldDecl{{Name: "a"}}},
		{"duplicate", []FieldDecl{{Name: "a", Kind: Scalar}, {Name: "a", Kind: Map}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema("S", tt.decls...)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	assert.Panics(t, func() { MustSchema("S", FieldDecl{Name: "a"}) })
}

func TestSchema_Lookup(t *testing.T) {
	kind, ok := testSchema.Lookup("metadata")
	assert.True(t, ok)
	assert.Equal(t, Map, kind)
	_, ok = testSchema.Lookup("missing")
	assert.False(t, ok)

	fields := testSchema.Fields()
	fields[0].Name = "changed"
	assert.Equal(t, "description", testSchema.Fields()[0].Name)
}

func TestFieldKind_Allows(t *testing.T) {
	assert.True(t, Scalar.Allows(OpSet))
	assert.False(t, Scalar.Allows(OpAdd))
	assert.False(t, Scalar.Allows(OpRemove))
	for _, k := range []FieldKind{Map, List} {
		for op := OpSet; op < numOps; op++ {
			assert.True(t, k.Allows(op), "%s %s", k, op)
		}
	}
	assert.False(t, FieldKind(0).Allows(OpSet))
}

type taggedResource struct {
	ID          int64             `json:"id" update:"readonly"`
	ExternalID  *string           `json:"externalId,omitempty"`
	Description *string           `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Position    []float64         `json:"position,omitempty" update:"scalar"`
	CreatedTime int64             `json:"createdTime" update:"-"`
	Internal    string            `json:"-"`
}

func TestSchemaFor(t *testing.T) {
	s, err := SchemaFor[taggedResource]()
	require.NoError(t, err)
	assert.Equal(t, "taggedResource", s.Name())
	assert.Equal(t, []FieldDecl{
		{Name: "externalId", Kind: Scalar},
		{Name: "description", Kind: Scalar},
		{Name: "metadata", Kind: Map},
		{Name: "tags", Kind: List},
		{Name: "position", Kind: Scalar},
	}, s.Fields())

	again, err := SchemaFor[*taggedResource]()
	require.NoError(t, err)
	assert.Same(t, s, again)

	_, err = SchemaFor[int]()
	assert.ErrorIs(t, err, ErrValidation)
	_, err = SchemaFor[any]()
	assert.ErrorIs(t, err, ErrValidation)
}
