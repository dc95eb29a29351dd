package update

// Batch is an ordered list of patches sent in one update call. Patches are
// kept in registration order and never merged, even when two of them target
// the same resource.
type Batch struct {
	patches []*Patch
}

// NewBatch returns a batch holding patches in the given order.
func NewBatch(patches ...*Patch) *Batch {
	b := &Batch{}
	return b.Add(patches...)
}

// Add appends patches to the batch. Nil patches are ignored.
func (b *Batch) Add(patches ...*Patch) *Batch {
	for _, p := range patches {
		if p != nil {
			b.patches = append(b.patches, p)
		}
	}
	return b
}

// Len returns the number of patches in the batch.
func (b *Batch) Len() int { return len(b.patches) }

// Patches returns the patches in registration order.
func (b *Batch) Patches() []*Patch {
	out := make([]*Patch, len(b.patches))
	copy(out, b.patches)
	return out
}

// Split chunks the batch into batches of at most size patches, preserving
// order. A size below one returns the batch unchanged.
func (b *Batch) Split(size int) []*Batch {
	if size < 1 || len(b.patches) <= size {
		return []*Batch{b}
	}
	out := make([]*Batch, 0, (len(b.patches)+size-1)/size)
	for start := 0; start < len(b.patches); start += size {
		end := start + size
		if end > len(b.patches) {
			end = len(b.patches)
		}
		out = append(out, NewBatch(b.patches[start:end]...))
	}
	return out
}
