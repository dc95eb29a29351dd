package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_Split(t *testing.T) {
	var patches []*Patch
	for i := int64(0); i < 5; i++ {
		p := newTestPatch(t, ID(i))
		require.NoError(t, p.Set("name", "n"))
		patches = append(patches, p)
	}
	b := NewBatch(patches...)

	chunks := b.Split(2)
	require.Len(t, chunks, 3)
	assert.Equal(t, 2, chunks[0].Len())
	assert.Equal(t, 2, chunks[1].Len())
	assert.Equal(t, 1, chunks[2].Len())

	var order []int64
	for _, c := range chunks {
		for _, p := range c.Patches() {
			id, _ := p.Key().ID()
			order = append(order, id)
		}
	}
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, order)

	assert.Len(t, b.Split(0), 1)
	assert.Len(t, b.Split(5), 1)
	assert.Len(t, b.Split(1), 5)
}

func TestBatch_AddIgnoresNil(t *testing.T) {
	p := newTestPatch(t, ID(1))
	b := NewBatch(nil, p, nil)
	assert.Equal(t, 1, b.Len())

	ps := b.Patches()
	ps[0] = nil
	assert.NotNil(t, b.Patches()[0])
}
