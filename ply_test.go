package gobatch3d

import (
	"bytes"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadPLY = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
property uchar red
property uchar green
property uchar blue
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3 10 20 30
`

func TestLoadPLYTriangulatesQuad(t *testing.T) {
	arr, err := LoadArrayFromPLYReader(strings.NewReader(quadPLY), FACE_NORMAL)
	require.NoError(t, err)

	assert.Equal(t, 4, arr.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, arr.Indices())
	for i := 0; i < arr.VertexCount(); i++ {
		v := arr.Vertex(i)
		assert.InDelta(t, 1, v.Normal.Z(), 1e-5)
		assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, v.Colors[0])
		assert.InDelta(t, 0, v.Normal.Dot(v.Tangent.Vec3()), 1e-5)
	}
	assert.False(t, arr.Bounds().IsEmpty())
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, arr.Bounds().Max)
}

func TestLoadPLYReverse(t *testing.T) {
	arr, err := LoadArrayFromPLYReader(strings.NewReader(quadPLY), FACE_REVERSE)
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 2, 1, 3, 1, 0}, arr.Indices())
	assert.InDelta(t, -1, arr.Vertex(0).Normal.Z(), 1e-5)
}

func TestLoadPLYErrors(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"no magic", "solid cube\n"},
		{"binary", "ply\nformat binary_little_endian 1.0\nend_header\n"},
		{"short vertices", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n"},
		{"bad index", "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 7\n"},
		{"bad uv", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nproperty float s\nproperty float t\nend_header\n0 0 0 0.5 oops\n"},
		{"bad vertex color", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nproperty uchar red\nproperty uchar green\nproperty uchar blue\nend_header\n0 0 0 10 red 30\n"},
		{"vertex color range", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nproperty uchar red\nproperty uchar green\nproperty uchar blue\nend_header\n0 0 0 10 300 30\n"},
		{"bad face color", strings.Replace(quadPLY, "10 20 30", "10 x 30", 1)},
		{"two vertex face", "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n2 0 1\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadArrayFromPLYReader(strings.NewReader(tc.data), FACE_NORMAL)
			assert.Error(t, err)
		})
	}

	_, err := LoadArrayFromPLYFile(filepath.Join(t.TempDir(), "missing.ply"), FACE_NORMAL)
	assert.Error(t, err)
}

func TestSavePLYRoundTrip(t *testing.T) {
	b := NewBatchArray(Triangles, DefaultFormat)
	_, err := b.Merge(NewBox(1, 1, 1, color.RGBA{R: 200, G: 10, B: 10, A: 255}), TransMatrix(2, 0, 0))
	require.NoError(t, err)
	_, err = b.Merge(NewQuad(1, 1, white), mgl32.Ident4())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SavePLY(&buf, b))

	back, err := LoadArrayFromPLYReader(&buf, FACE_NORMAL)
	require.NoError(t, err)
	require.Equal(t, b.VertexCount(), back.VertexCount())
	assert.Equal(t, b.Indices(), back.Indices())
	for i := 0; i < b.VertexCount(); i++ {
		want, got := b.Vertex(i), back.Vertex(i)
		assert.True(t, want.Position.ApproxEqualThreshold(got.Position, 1e-4), "vertex %d", i)
		assert.True(t, want.Normal.ApproxEqualThreshold(got.Normal, 1e-4), "normal %d", i)
		assert.Equal(t, want.Colors[0], got.Colors[0])
	}

	path := filepath.Join(t.TempDir(), "batch.ply")
	require.NoError(t, SavePLYFile(path, b))
	fromFile, err := LoadArrayFromPLYFile(path, FACE_NORMAL)
	require.NoError(t, err)
	assert.Equal(t, b.IndexCount(), fromFile.IndexCount())

	assert.Error(t, SavePLY(&buf, NewArray(Lines, DefaultFormat)))
}
