package gobatch3d

import "slices"

// IndexSize is the size in bytes of one stored index.
const IndexSize = 4

// IndexBuffer is the flat index store of a display array. Indices address
// the whole vertex buffer, not a single part.
type IndexBuffer struct {
	indices []uint32
}

func NewIndexBuffer(capacity int) *IndexBuffer {
	return &IndexBuffer{indices: make([]uint32, 0, capacity)}
}

func (ib *IndexBuffer) Len() int {
	return len(ib.indices)
}

func (ib *IndexBuffer) At(i int) uint32 {
	return ib.indices[i]
}

func (ib *IndexBuffer) Append(i uint32) {
	ib.indices = append(ib.indices, i)
}

func (ib *IndexBuffer) Reserve(n int) {
	ib.indices = slices.Grow(ib.indices, n)
}

// Erase removes the indices in [start, end).
func (ib *IndexBuffer) Erase(start, end int) {
	ib.indices = slices.Delete(ib.indices, start, end)
}

// Rebase subtracts delta from every index stored at position from or later.
func (ib *IndexBuffer) Rebase(from int, delta uint32) {
	for i := from; i < len(ib.indices); i++ {
		ib.indices[i] -= delta
	}
}

// Range returns a copy of the indices in [start, end).
func (ib *IndexBuffer) Range(start, end int) []uint32 {
	return slices.Clone(ib.indices[start:end])
}

func (ib *IndexBuffer) Snapshot() []uint32 {
	return slices.Clone(ib.indices)
}

func (ib *IndexBuffer) Copy() *IndexBuffer {
	return &IndexBuffer{indices: slices.Clone(ib.indices)}
}
