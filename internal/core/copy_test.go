package core

import (
	"encoding/json"
	"math/big"
	"net/netip"
	"reflect"
	"testing"
	"time"
)

var copiers = map[string]Copier{
	"copystructure": CopyStructure,
	"clone":         CopyClone,
	"deepcopy":      CopyDeepcopy,
}

func TestCopiersIsolate(t *testing.T) {
	for name, c := range copiers {
		t.Run(name, func(t *testing.T) {
			src := map[string][]int{"a": {1, 2}}
			out, err := c(src)
			if err != nil {
				t.Fatalf("copy failed: %v", err)
			}
			dst, ok := out.(map[string][]int)
			if !ok {
				t.Fatalf("expected map[string][]int, got %T", out)
			}
			src["a"][0] = 99
			src["b"] = []int{3}
			if !reflect.DeepEqual(dst, map[string][]int{"a": {1, 2}}) {
				t.Errorf("copy shares state with source: %v", dst)
			}
		})
	}
}

func TestCopiersKeepNamedTypes(t *testing.T) {
	for name, c := range copiers {
		t.Run(name, func(t *testing.T) {
			raw := json.RawMessage(`{"a":1}`)
			out, err := c(raw)
			if err != nil {
				t.Fatalf("copy failed: %v", err)
			}
			if _, ok := out.(json.RawMessage); !ok {
				t.Fatalf("expected json.RawMessage, got %T", out)
			}
		})
	}
}

func TestCopiersNil(t *testing.T) {
	for name, c := range copiers {
		out, err := c(nil)
		if err != nil || out != nil {
			t.Errorf("%s: expected (nil, nil), got (%v, %v)", name, out, err)
		}
	}
}

func BenchmarkCopiers(b *testing.B) {
	src := map[string]any{
		"metadata": map[string]string{"a": "1", "b": "2"},
		"labels":   []string{"x", "y", "z"},
	}
	for name, c := range copiers {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := c(src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

type withHidden struct {
	Name   string `json:"name"`
	hidden int
}

func TestFreeze(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"big int", big.NewInt(12345), `12345`},
		{"addr", netip.MustParseAddr("10.0.0.1"), `"10.0.0.1"`},
		{"time", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), `"2020-01-02T03:04:05Z"`},
		{"nested in map", map[string]any{"at": time.Unix(0, 0).UTC()}, `{"at":"1970-01-01T00:00:00Z"}`},
		{"nested in slice", []netip.Addr{netip.MustParseAddr("::1")}, `["::1"]`},
		{"unexported field", withHidden{Name: "n", hidden: 1}, `{"name":"n"}`},
		{"nil big int", (*big.Int)(nil), `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Freeze(tt.in)
			if err != nil {
				t.Fatalf("Freeze failed: %v", err)
			}
			raw, ok := out.(json.RawMessage)
			if !ok {
				t.Fatalf("expected json.RawMessage, got %T", out)
			}
			if string(raw) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, raw)
			}
		})
	}
}

func TestFreezeKeepsPlainValues(t *testing.T) {
	type point struct {
		X int `json:"x"`
	}
	for _, in := range []any{
		nil,
		"s",
		int64(3),
		[]byte("abc"),
		[]int64{1, 2},
		map[string]string{"a": "1"},
		map[string]any{"a": []any{1.5, "x"}},
		point{X: 1},
		&point{X: 2},
	} {
		out, err := Freeze(in)
		if err != nil {
			t.Fatalf("Freeze(%v) failed: %v", in, err)
		}
		if !reflect.DeepEqual(out, in) {
			t.Errorf("Freeze(%v) changed the value to %v", in, out)
		}
	}
}

func TestFreezeCycle(t *testing.T) {
	type node struct {
		Next *node `json:"-"`
	}
	n := &node{}
	n.Next = n
	if _, err := Freeze(n); err != nil {
		t.Fatalf("Freeze failed: %v", err)
	}
}
