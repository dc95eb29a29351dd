package core

import (
	"reflect"
	"testing"
)

func TestGetTypeInfo(t *testing.T) {
	type S struct {
		ID       int64             `json:"id" update:"readonly"`
		Name     *string           `json:"name"`
		Labels   []string          `json:"labels"`
		Meta     map[string]string `json:"metadata"`
		Raw      []int             `json:"raw" update:"scalar"`
		Internal string            `json:"-"`
		hidden   int
	}

	info := GetTypeInfo(reflect.TypeOf(S{}))
	if len(info.Fields) != 5 {
		t.Fatalf("Expected 5 fields, got %d", len(info.Fields))
	}

	want := []struct {
		wire      string
		kind      Kind
		updatable bool
	}{
		{"id", KindScalar, false},
		{"name", KindScalar, true},
		{"labels", KindList, true},
		{"metadata", KindMap, true},
		{"raw", KindScalar, true},
	}
	for i, w := range want {
		f := info.Fields[i]
		if f.WireName != w.wire || f.Kind != w.kind || f.Updatable() != w.updatable {
			t.Errorf("Field %d incorrect: %+v", i, f)
		}
	}

	// Pointer types share the cache entry of their element type.
	info2 := GetTypeInfo(reflect.TypeOf(&S{}))
	if info != info2 {
		t.Errorf("Expected same info pointer for same type (cache hit)")
	}
}
