package gobatch3d

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BatchArray merges many arrays of one vertex format into a single vertex
// and index buffer. Each merged array becomes a Part that can later be split
// out again.
//
// A BatchArray has no Replica method: a batch is never duplicated.
type BatchArray struct {
	arrayData
	parts *PartTable
}

func NewBatchArray(prim PrimitiveType, format VertexFormat) *BatchArray {
	return &BatchArray{
		arrayData: newArrayData(prim, format),
		parts:     NewPartTable(),
	}
}

// Merge copies src into the batch, transformed by mat, and returns the
// handle of the new part.
func (b *BatchArray) Merge(src Source, mat mgl32.Mat4) (Handle, error) {
	if !Compatible(b.primitive, b.format, src) {
		return Handle{}, fmt.Errorf("merge %v/%v into %v/%v: %w",
			src.Primitive(), src.Format(), b.primitive, b.format, ErrIncompatibleFormat)
	}
	if !IsInvertible(mat) {
		return Handle{}, fmt.Errorf("merge: %w", ErrSingularTransform)
	}

	vertexCount := src.VertexCount()
	indexCount := src.IndexCount()
	startVertex := b.vertices.Len()
	startIndex := b.indices.Len()

	if uint64(startVertex)+uint64(vertexCount) > math.MaxUint32 {
		return Handle{}, fmt.Errorf("merge %d vertices at %d: %w", vertexCount, startVertex, ErrIndexOverflow)
	}
	for i := 0; i < indexCount; i++ {
		if idx := src.Index(i); uint64(idx) >= uint64(vertexCount) {
			return Handle{}, fmt.Errorf("merge: index %d is %d of %d vertices: %w", i, idx, vertexCount, ErrIndexOutOfRange)
		}
	}

	h := b.parts.Add(Part{
		StartVertex: startVertex,
		VertexCount: vertexCount,
		StartIndex:  startIndex,
		IndexCount:  indexCount,
	})

	b.vertices.Reserve(vertexCount)
	b.indices.Reserve(indexCount)

	slog.Debug("add part",
		"part", b.parts.Len()-1,
		"start_index", startIndex, "index_count", indexCount,
		"start_vertex", startVertex, "vertex_count", vertexCount)

	nmat := DirectionMatrix(mat)
	for i := 0; i < vertexCount; i++ {
		v := src.Vertex(i)
		v.Transform(mat, nmat)
		b.vertices.Append(v)
		b.bounds.Extend(v.Position)
	}

	base := uint32(startVertex)
	for i := 0; i < indexCount; i++ {
		b.indices.Append(base + src.Index(i))
	}

	b.generation++
	return h, nil
}

// Split removes the part named by h. Every later part moves down and its
// indices are renumbered; h becomes stale.
func (b *BatchArray) Split(h Handle) error {
	pos, err := b.parts.Lookup(h)
	if err != nil {
		return fmt.Errorf("split: %w", err)
	}
	part := b.parts.At(pos)

	slog.Debug("move indices",
		"from", part.StartIndex, "to", b.indices.Len()-part.IndexCount,
		"shift", part.IndexCount)

	// Renumber before erasing: everything past the part points at vertices
	// that are about to move down by VertexCount.
	b.indices.Rebase(part.EndIndex(), uint32(part.VertexCount))
	b.indices.Erase(part.StartIndex, part.EndIndex())

	slog.Debug("remove vertexes", "start_vertex", part.StartVertex, "end_vertex", part.EndVertex())
	b.vertices.Erase(part.StartVertex, part.EndVertex())

	b.parts.Remove(pos)

	b.updateCache()
	return nil
}

// Part returns the ranges of the part named by h.
func (b *BatchArray) Part(h Handle) (Part, error) {
	pos, err := b.parts.Lookup(h)
	if err != nil {
		return Part{}, err
	}
	return b.parts.At(pos), nil
}

// PartIndex returns the current draw position of the part named by h.
func (b *BatchArray) PartIndex(h Handle) (int, error) {
	return b.parts.Lookup(h)
}

// Contains reports whether h names a live part of the batch.
func (b *BatchArray) Contains(h Handle) bool {
	_, err := b.parts.Lookup(h)
	return err == nil
}

// PartIndices returns a copy of the indices of the part named by h.
func (b *BatchArray) PartIndices(h Handle) ([]uint32, error) {
	p, err := b.Part(h)
	if err != nil {
		return nil, err
	}
	return b.indices.Range(p.StartIndex, p.EndIndex()), nil
}

// PartBounds returns the bounding box of the part named by h.
func (b *BatchArray) PartBounds(h Handle) (Bounds, error) {
	p, err := b.Part(h)
	if err != nil {
		return Bounds{}, err
	}
	return boundsOf(b.vertices, p.StartVertex, p.EndVertex()), nil
}

func (b *BatchArray) PartCount() int {
	return b.parts.Len()
}

func (b *BatchArray) Handles() []Handle {
	return b.parts.Handles()
}

func (b *BatchArray) DrawParts() []Part {
	return b.parts.Parts()
}
