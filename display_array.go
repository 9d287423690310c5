package gobatch3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Source is read access to the geometry of an array, all that Merge needs.
type Source interface {
	Primitive() PrimitiveType
	Format() VertexFormat
	VertexCount() int
	IndexCount() int
	Vertex(i int) Vertex
	Index(i int) uint32
}

// DisplayArray is the drawing capability shared by regular and batched
// arrays.
type DisplayArray interface {
	Source
	// Generation changes every time the array data changes. A renderer
	// compares it with the generation it last uploaded.
	Generation() uint64
	Bounds() Bounds
	// DrawParts returns the ranges to submit, in draw order.
	DrawParts() []Part
}

// Replicator is implemented by arrays that can be duplicated for per
// instance deformation.
type Replicator interface {
	Replica() *Array
}

// Replicate duplicates a. Arrays without a Replica method, batches in
// particular, return ErrNotReplicable.
func Replicate(a DisplayArray) (*Array, error) {
	r, ok := a.(Replicator)
	if !ok {
		return nil, fmt.Errorf("%T: %w", a, ErrNotReplicable)
	}
	return r.Replica(), nil
}

// Compatible reports whether src can be merged into an array of the given
// primitive type and format.
func Compatible(prim PrimitiveType, format VertexFormat, src Source) bool {
	return format.Valid() && src.Primitive() == prim && src.Format() == format
}

type arrayData struct {
	primitive  PrimitiveType
	format     VertexFormat
	vertices   *VertexBuffer
	indices    *IndexBuffer
	bounds     Bounds
	generation uint64
}

func newArrayData(prim PrimitiveType, format VertexFormat) arrayData {
	return arrayData{
		primitive: prim,
		format:    format,
		vertices:  NewVertexBuffer(0),
		indices:   NewIndexBuffer(0),
	}
}

func (a *arrayData) Primitive() PrimitiveType { return a.primitive }
func (a *arrayData) Format() VertexFormat     { return a.format }
func (a *arrayData) VertexCount() int         { return a.vertices.Len() }
func (a *arrayData) IndexCount() int          { return a.indices.Len() }
func (a *arrayData) Vertex(i int) Vertex      { return a.vertices.At(i) }
func (a *arrayData) Index(i int) uint32       { return a.indices.At(i) }
func (a *arrayData) Generation() uint64       { return a.generation }
func (a *arrayData) Bounds() Bounds           { return a.bounds }

// Vertices returns a copy of the vertex buffer.
func (a *arrayData) Vertices() []Vertex {
	return a.vertices.Snapshot()
}

// Indices returns a copy of the index buffer.
func (a *arrayData) Indices() []uint32 {
	return a.indices.Snapshot()
}

// updateCache recomputes derived data and marks the array dirty.
func (a *arrayData) updateCache() {
	a.bounds = boundsOf(a.vertices, 0, a.vertices.Len())
	a.generation++
}

// Array is a regular display array, owned by a single mesh instance.
type Array struct {
	arrayData
}

func NewArray(prim PrimitiveType, format VertexFormat) *Array {
	return &Array{arrayData: newArrayData(prim, format)}
}

func (a *Array) AddVertex(v Vertex) uint32 {
	return uint32(a.vertices.Append(v))
}

func (a *Array) AddIndex(i uint32) {
	a.indices.Append(i)
}

func (a *Array) AddTriangle(i0, i1, i2 uint32) {
	a.indices.Append(i0)
	a.indices.Append(i1)
	a.indices.Append(i2)
}

// VertexPtr gives access to a stored vertex, for deformers. Call UpdateCache
// once done.
func (a *Array) VertexPtr(i int) *Vertex {
	return a.vertices.Ptr(i)
}

// UpdateCache must be called after the array was edited.
func (a *Array) UpdateCache() {
	a.updateCache()
}

// TransformInPlace applies mat to every vertex.
func (a *Array) TransformInPlace(mat mgl32.Mat4) {
	nmat := DirectionMatrix(mat)
	for i := 0; i < a.vertices.Len(); i++ {
		a.vertices.Ptr(i).Transform(mat, nmat)
	}
	a.updateCache()
}

func (a *Array) DrawParts() []Part {
	return []Part{{
		VertexCount: a.vertices.Len(),
		IndexCount:  a.indices.Len(),
	}}
}

// Replica returns an independent deep copy of a.
func (a *Array) Replica() *Array {
	return &Array{arrayData: arrayData{
		primitive:  a.primitive,
		format:     a.format,
		vertices:   a.vertices.Copy(),
		indices:    a.indices.Copy(),
		bounds:     a.bounds,
		generation: a.generation,
	}}
}
