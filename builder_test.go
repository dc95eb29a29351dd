package update

import (
	"testing"
)

type testUpdate struct {
	patch *Patch
}

func (u *testUpdate) Description() ScalarField[*testUpdate, string] {
	return NewScalarField[*testUpdate, string](u, u.patch, "description")
}

func (u *testUpdate) AssetID() ScalarField[*testUpdate, int64] {
	return NewScalarField[*testUpdate, int64](u, u.patch, "assetId")
}

func (u *testUpdate) Metadata() MapField[*testUpdate, string] {
	return NewMapField[*testUpdate, string](u, u.patch, "metadata")
}

func (u *testUpdate) SecurityCategories() ListField[*testUpdate, int64] {
	return NewListField[*testUpdate, int64](u, u.patch, "securityCategories")
}

func newTestUpdate(t *testing.T) *testUpdate {
	t.Helper()
	p, err := NewPatch(testSchema, ID(1))
	if err != nil {
		t.Fatalf("NewPatch failed: %v", err)
	}
	return &testUpdate{patch: p}
}

func TestBuilder_Chain(t *testing.T) {
	u := newTestUpdate(t)
	u.Description().Set("blabla").
		Metadata().Set(map[string]string{"a": "1"}).
		Metadata().Add(map[string]string{"b": "2"}).
		SecurityCategories().Remove([]int64{3}).
		AssetID().SetNull()

	got, err := u.patch.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	want := `{"id":1,"update":{"description":{"set":"blabla"},"metadata":{"set":{"a":"1"},"add":{"b":"2"}},"securityCategories":{"remove":[3]},"assetId":{"set":null}}}`
	if string(got) != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestBuilder_NilCollections(t *testing.T) {
	u := newTestUpdate(t)
	u.Metadata().Set(nil).
		SecurityCategories().Set(nil).
		Metadata().Remove().
		SecurityCategories().Add(nil)

	got, err := u.patch.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	want := `{"id":1,"update":{"metadata":{"set":null,"remove":[]},"securityCategories":{"set":null,"add":[]}}}`
	if string(got) != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestBuilder_StickyError(t *testing.T) {
	u := newTestUpdate(t)
	u.Description().Set("ok")
	u.patch.Finalize()
	u.Description().Set("late")

	if u.patch.Err() == nil {
		t.Fatal("Expected sticky error after finalize")
	}
	if _, err := u.patch.Serialize(); err == nil {
		t.Error("Expected Serialize to report the sticky error")
	}
}

func TestBuilder_DeclarationMismatchPanics(t *testing.T) {
	p, err := NewPatch(testSchema, ID(1))
	if err != nil {
		t.Fatalf("NewPatch failed: %v", err)
	}
	tests := []struct {
		name string
		fn   func()
	}{
		{"unknown", func() { NewScalarField[*Patch, string](p, p, "nope") }},
		{"scalar as map", func() { NewMapField[*Patch, string](p, p, "description") }},
		{"map as list", func() { NewListField[*Patch, string](p, p, "metadata") }},
		{"list as scalar", func() { NewScalarField[*Patch, int](p, p, "securityCategories") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Expected panic")
				}
			}()
			tt.fn()
		})
	}
}
