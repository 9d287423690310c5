package gobatch3d

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// fanArray builds an array of nv vertices and ni indices cycling over the
// vertices.
func fanArray(nv, ni int) *Array {
	a := NewArray(Triangles, DefaultFormat)
	for i := 0; i < nv; i++ {
		p := mgl32.Vec3{float32(i), float32(i * 2), 0}
		a.AddVertex(NewVertex(p, mgl32.Vec3{0, 0, 1}, mgl32.Vec4{1, 0, 0, 1}, mgl32.Vec2{}, white))
	}
	for i := 0; i < ni; i++ {
		a.AddIndex(uint32(i % nv))
	}
	a.UpdateCache()
	return a
}

func assertPartitioned(t *testing.T, b *BatchArray) {
	t.Helper()
	parts := b.DrawParts()
	nv, ni := 0, 0
	for _, p := range parts {
		assert.Equal(t, nv, p.StartVertex, "parts must be contiguous")
		assert.Equal(t, ni, p.StartIndex, "parts must be contiguous")
		assert.Equal(t, p.StartIndex*IndexSize, p.IndexByteOffset)
		for i := p.StartIndex; i < p.EndIndex(); i++ {
			idx := int(b.Index(i))
			assert.GreaterOrEqual(t, idx, p.StartVertex)
			assert.Less(t, idx, p.EndVertex())
		}
		nv += p.VertexCount
		ni += p.IndexCount
	}
	assert.Equal(t, b.VertexCount(), nv)
	assert.Equal(t, b.IndexCount(), ni)
}

func TestMergeSplitScenario(t *testing.T) {
	b := NewBatchArray(Triangles, DefaultFormat)

	h0, err := b.Merge(fanArray(4, 6), mgl32.Ident4())
	require.NoError(t, err)
	assert.Equal(t, 4, b.VertexCount())
	assert.Equal(t, 6, b.IndexCount())
	p0, err := b.Part(h0)
	require.NoError(t, err)
	assert.Equal(t, Part{StartVertex: 0, VertexCount: 4, StartIndex: 0, IndexCount: 6, IndexByteOffset: 0}, p0)

	h1, err := b.Merge(fanArray(3, 3), mgl32.Ident4())
	require.NoError(t, err)
	p1, err := b.Part(h1)
	require.NoError(t, err)
	assert.Equal(t, Part{StartVertex: 4, VertexCount: 3, StartIndex: 6, IndexCount: 3, IndexByteOffset: 24}, p1)

	before, err := b.PartIndices(h1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{4, 5, 6}, before)

	require.NoError(t, b.Split(h0))
	assert.Equal(t, 3, b.VertexCount())
	assert.Equal(t, 3, b.IndexCount())

	pos, err := b.PartIndex(h1)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	p1, err = b.Part(h1)
	require.NoError(t, err)
	assert.Equal(t, Part{StartVertex: 0, VertexCount: 3, StartIndex: 0, IndexCount: 3, IndexByteOffset: 0}, p1)

	after, err := b.PartIndices(h1)
	require.NoError(t, err)
	for i := range after {
		assert.Equal(t, before[i]-4, after[i])
	}
	assertPartitioned(t, b)
}

func TestMergeKeepsPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := NewBatchArray(Triangles, DefaultFormat)
	for i := 0; i < 50; i++ {
		nv := 1 + rng.Intn(20)
		ni := rng.Intn(40)
		startVertex := b.VertexCount()
		h, err := b.Merge(fanArray(nv, ni), TransMatrix(float32(i), 0, 0))
		require.NoError(t, err)

		p, err := b.Part(h)
		require.NoError(t, err)
		assert.Equal(t, startVertex, p.StartVertex)
		idx, err := b.PartIndices(h)
		require.NoError(t, err)
		for _, v := range idx {
			assert.GreaterOrEqual(t, int(v), p.StartVertex)
			assert.Less(t, int(v), p.EndVertex())
		}
		assertPartitioned(t, b)
	}
	assert.Equal(t, 50, b.PartCount())
}

func TestMergeThenSplitRestoresLengths(t *testing.T) {
	b := NewBatchArray(Triangles, DefaultFormat)
	_, err := b.Merge(fanArray(5, 9), mgl32.Ident4())
	require.NoError(t, err)
	nv, ni := b.VertexCount(), b.IndexCount()

	h, err := b.Merge(NewBox(1, 2, 3, white), mgl32.Ident4())
	require.NoError(t, err)
	require.NoError(t, b.Split(h))

	assert.Equal(t, nv, b.VertexCount())
	assert.Equal(t, ni, b.IndexCount())
	assertPartitioned(t, b)
}

func TestSplitShiftsLaterParts(t *testing.T) {
	for k := 0; k < 5; k++ {
		b := NewBatchArray(Triangles, DefaultFormat)
		var handles []Handle
		for i := 0; i < 5; i++ {
			h, err := b.Merge(fanArray(3+i, 6+i), mgl32.Ident4())
			require.NoError(t, err)
			handles = append(handles, h)
		}
		partsBefore := b.DrawParts()
		indicesBefore := make([][]uint32, len(handles))
		for i, h := range handles {
			indicesBefore[i], _ = b.PartIndices(h)
		}
		removed := partsBefore[k]

		require.NoError(t, b.Split(handles[k]))
		assertPartitioned(t, b)

		for j, h := range handles {
			if j == k {
				assert.False(t, b.Contains(h))
				continue
			}
			p, err := b.Part(h)
			require.NoError(t, err)
			idx, err := b.PartIndices(h)
			require.NoError(t, err)
			if j < k {
				assert.Equal(t, partsBefore[j], p)
				assert.Equal(t, indicesBefore[j], idx)
				continue
			}
			assert.Equal(t, partsBefore[j].StartVertex-removed.VertexCount, p.StartVertex)
			assert.Equal(t, partsBefore[j].StartIndex-removed.IndexCount, p.StartIndex)
			for i := range idx {
				assert.Equal(t, indicesBefore[j][i]-uint32(removed.VertexCount), idx[i])
			}
		}
	}
}

func TestSplitPreservesVertexData(t *testing.T) {
	b := NewBatchArray(Triangles, DefaultFormat)
	h0, err := b.Merge(NewQuad(1, 1, white), mgl32.Ident4())
	require.NoError(t, err)
	box := NewBox(1, 1, 1, color.RGBA{R: 10, A: 255})
	h1, err := b.Merge(box, TransMatrix(5, 0, 0))
	require.NoError(t, err)

	require.NoError(t, b.Split(h0))
	p, err := b.Part(h1)
	require.NoError(t, err)
	for i := 0; i < box.VertexCount(); i++ {
		want := box.Vertex(i).Position.Add(mgl32.Vec3{5, 0, 0})
		got := b.Vertex(p.StartVertex + i).Position
		assert.True(t, want.ApproxEqual(got), "vertex %d: %v != %v", i, got, want)
	}
}

func TestStaleHandle(t *testing.T) {
	b := NewBatchArray(Triangles, DefaultFormat)
	h0, err := b.Merge(fanArray(3, 3), mgl32.Ident4())
	require.NoError(t, err)
	require.NoError(t, b.Split(h0))

	err = b.Split(h0)
	assert.ErrorIs(t, err, ErrStaleHandle)
	_, err = b.Part(h0)
	assert.ErrorIs(t, err, ErrStaleHandle)

	// the slot is recycled, the old handle must not alias the new part
	h1, err := b.Merge(fanArray(4, 6), mgl32.Ident4())
	require.NoError(t, err)
	assert.NotEqual(t, h0, h1)
	_, err = b.Part(h0)
	assert.ErrorIs(t, err, ErrStaleHandle)

	_, err = b.Part(Handle{})
	assert.ErrorIs(t, err, ErrStaleHandle)
	_, err = b.Part(Handle{slot: 99, generation: 1})
	assert.ErrorIs(t, err, ErrStaleHandle)
}

func TestMergeRejectsIncompatibleSource(t *testing.T) {
	b := NewBatchArray(Triangles, DefaultFormat)

	_, err := b.Merge(NewArray(Triangles, VertexFormat{UVCount: 2, ColorCount: 1}), mgl32.Ident4())
	assert.ErrorIs(t, err, ErrIncompatibleFormat)

	_, err = b.Merge(NewArray(Lines, DefaultFormat), mgl32.Ident4())
	assert.ErrorIs(t, err, ErrIncompatibleFormat)

	_, err = b.Merge(fanArray(3, 3), ScaleMatrix(1, 0, 1))
	assert.ErrorIs(t, err, ErrSingularTransform)

	assert.Equal(t, 0, b.VertexCount())
	assert.Equal(t, 0, b.PartCount())
	assert.Equal(t, uint64(0), b.Generation())
}

func TestMergeRejectsIndexOutOfRange(t *testing.T) {
	b := NewBatchArray(Triangles, DefaultFormat)
	_, err := b.Merge(fanArray(3, 3), mgl32.Ident4())
	require.NoError(t, err)
	vertices, indices, gen := b.VertexCount(), b.Indices(), b.Generation()

	testCases := []struct {
		name string
		idx  [3]uint32
	}{
		{"past end", [3]uint32{0, 1, 7}},
		{"one past", [3]uint32{0, 1, 3}},
		{"wraps", [3]uint32{0, 1, math.MaxUint32}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := NewArray(Triangles, DefaultFormat)
			for range 3 {
				src.AddVertex(Vertex{})
			}
			src.AddTriangle(tc.idx[0], tc.idx[1], tc.idx[2])

			_, err := b.Merge(src, mgl32.Ident4())
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
			assert.Equal(t, vertices, b.VertexCount())
			assert.Equal(t, indices, b.Indices())
			assert.Equal(t, 1, b.PartCount())
			assert.Equal(t, gen, b.Generation())
		})
	}
}

// hugeSource claims more vertices than a batch can index.
type hugeSource struct {
	*Array
}

func (hugeSource) VertexCount() int { return math.MaxUint32 }

func TestMergeRejectsIndexOverflow(t *testing.T) {
	b := NewBatchArray(Triangles, DefaultFormat)
	_, err := b.Merge(fanArray(3, 3), mgl32.Ident4())
	require.NoError(t, err)
	gen := b.Generation()

	_, err = b.Merge(hugeSource{NewArray(Triangles, DefaultFormat)}, mgl32.Ident4())
	assert.ErrorIs(t, err, ErrIndexOverflow)
	assert.Equal(t, 3, b.VertexCount())
	assert.Equal(t, 1, b.PartCount())
	assert.Equal(t, gen, b.Generation())
}

func TestMergeNonUniformScaleKeepsTangentsOrthogonal(t *testing.T) {
	b := NewBatchArray(Triangles, DefaultFormat)
	mat := ComposeTransform(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0.3, 0.7, 0.2}, mgl32.Vec3{4, 0.5, 2})
	sphere := NewUVSphere(1, 12, 8, white)
	h, err := b.Merge(sphere, mat)
	require.NoError(t, err)

	p, err := b.Part(h)
	require.NoError(t, err)
	for i := p.StartVertex; i < p.EndVertex(); i++ {
		v := b.Vertex(i)
		n := v.Normal
		tan := v.Tangent.Vec3()
		if n.Len() == 0 || tan.Len() == 0 {
			continue
		}
		assert.InDelta(t, 1, n.Len(), 1e-4)
		assert.InDelta(t, 0, n.Dot(tan), 1e-4, "vertex %d", i)
		assert.Equal(t, sphere.Vertex(i-p.StartVertex).Tangent[3], v.Tangent[3])
	}
}

func TestMergeTranslationLeavesNormals(t *testing.T) {
	b := NewBatchArray(Triangles, DefaultFormat)
	_, err := b.Merge(NewQuad(2, 2, white), TransMatrix(10, 20, 30))
	require.NoError(t, err)
	for i := 0; i < b.VertexCount(); i++ {
		assert.True(t, mgl32.Vec3{0, 0, 1}.ApproxEqual(b.Vertex(i).Normal))
		assert.InDelta(t, 30, b.Vertex(i).Position.Z(), 1e-5)
	}
}

func TestBatchGenerationAndBounds(t *testing.T) {
	b := NewBatchArray(Triangles, DefaultFormat)
	assert.True(t, b.Bounds().IsEmpty())

	h0, err := b.Merge(NewBox(2, 2, 2, white), mgl32.Ident4())
	require.NoError(t, err)
	g0 := b.Generation()
	_, err = b.Merge(NewBox(2, 2, 2, white), TransMatrix(10, 0, 0))
	require.NoError(t, err)
	g1 := b.Generation()
	assert.Greater(t, g1, g0)
	assert.InDelta(t, 12, b.Bounds().Size().X(), 1e-5)

	require.NoError(t, b.Split(h0))
	assert.Greater(t, b.Generation(), g1)
	assert.InDelta(t, 9, b.Bounds().Min.X(), 1e-5)
	assert.InDelta(t, 2, b.Bounds().Size().X(), 1e-5)
}

func TestBatchCannotBeReplicated(t *testing.T) {
	b := NewBatchArray(Triangles, DefaultFormat)
	_, err := b.Merge(fanArray(3, 3), mgl32.Ident4())
	require.NoError(t, err)

	var arr DisplayArray = b
	_, ok := arr.(Replicator)
	assert.False(t, ok)

	r, err := Replicate(b)
	assert.ErrorIs(t, err, ErrNotReplicable)
	assert.Nil(t, r)
}

func TestArrayReplicaIsIndependent(t *testing.T) {
	a := NewBox(1, 1, 1, white)
	r, err := Replicate(a)
	require.NoError(t, err)
	require.Equal(t, a.VertexCount(), r.VertexCount())

	r.TransformInPlace(TransMatrix(3, 0, 0))
	assert.NotEqual(t, a.Vertex(0).Position, r.Vertex(0).Position)
	assert.Greater(t, r.Generation(), a.Generation())
}
