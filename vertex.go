package gobatch3d

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxUVs is the number of uv sets a vertex can carry.
	MaxUVs = 4
	// MaxColors is the number of color layers a vertex can carry.
	MaxColors = 4
)

// PrimitiveType is the kind of primitive the indices of an array describe.
type PrimitiveType int

const (
	Triangles PrimitiveType = iota
	Lines
)

func (p PrimitiveType) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	}
	return fmt.Sprintf("PrimitiveType(%d)", int(p))
}

// VertexFormat describes how many uv and color layers of a Vertex are in use.
// Arrays can only be merged together when their formats are equal.
type VertexFormat struct {
	UVCount    uint8
	ColorCount uint8
}

// DefaultFormat is one uv set and one color.
var DefaultFormat = VertexFormat{UVCount: 1, ColorCount: 1}

func (f VertexFormat) String() string {
	return fmt.Sprintf("uv:%d color:%d", f.UVCount, f.ColorCount)
}

// Valid reports whether the format fits in a Vertex.
func (f VertexFormat) Valid() bool {
	return f.UVCount <= MaxUVs && f.ColorCount <= MaxColors
}

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	// Tangent xyz is the surface tangent, w the bitangent sign.
	Tangent mgl32.Vec4
	UVs     [MaxUVs]mgl32.Vec2
	Colors  [MaxColors]color.RGBA
}

func NewVertex(pos, normal mgl32.Vec3, tangent mgl32.Vec4, uv mgl32.Vec2, col color.RGBA) Vertex {
	v := Vertex{
		Position: pos,
		Normal:   normal,
		Tangent:  tangent,
	}
	v.UVs[0] = uv
	v.Colors[0] = col
	return v
}

// Transform moves the vertex by mat. The normal goes through nmat, the
// direction matrix of mat (see DirectionMatrix), while the tangent lies in
// the surface and goes through the linear part of mat. That keeps normal and
// tangent orthogonal under non-uniform scale and shear.
func (v *Vertex) Transform(mat, nmat mgl32.Mat4) {
	v.Position = mat.Mul4x1(v.Position.Vec4(1)).Vec3()
	v.Normal = safeNormalize(nmat.Mul4x1(v.Normal.Vec4(0)).Vec3())
	t := mat.Mul4x1(v.Tangent.Vec3().Vec4(0)).Vec3()
	v.Tangent = safeNormalize(t).Vec4(v.Tangent[3])
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}
