package gobatch3d

import "slices"

// VertexBuffer is the flat vertex store of a display array.
type VertexBuffer struct {
	vertices []Vertex
}

func NewVertexBuffer(capacity int) *VertexBuffer {
	return &VertexBuffer{vertices: make([]Vertex, 0, capacity)}
}

func (vb *VertexBuffer) Len() int {
	return len(vb.vertices)
}

func (vb *VertexBuffer) At(i int) Vertex {
	return vb.vertices[i]
}

// Ptr gives access to a stored vertex for in place edits.
func (vb *VertexBuffer) Ptr(i int) *Vertex {
	return &vb.vertices[i]
}

func (vb *VertexBuffer) Append(v Vertex) int {
	vb.vertices = append(vb.vertices, v)
	return len(vb.vertices) - 1
}

// Reserve makes room for n more vertices without reallocating.
func (vb *VertexBuffer) Reserve(n int) {
	vb.vertices = slices.Grow(vb.vertices, n)
}

// Erase removes the vertices in [start, end).
func (vb *VertexBuffer) Erase(start, end int) {
	vb.vertices = slices.Delete(vb.vertices, start, end)
}

// Snapshot returns a copy of the vertices.
func (vb *VertexBuffer) Snapshot() []Vertex {
	return slices.Clone(vb.vertices)
}

func (vb *VertexBuffer) Copy() *VertexBuffer {
	return &VertexBuffer{vertices: slices.Clone(vb.vertices)}
}
