package gobatch3d

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NewQuad builds a w x h quad in the xy plane facing +z.
func NewQuad(w, h float32, col color.RGBA) *Array {
	a := NewArray(Triangles, DefaultFormat)
	hw, hh := w/2, h/2
	n := mgl32.Vec3{0, 0, 1}
	t := mgl32.Vec4{1, 0, 0, 1}
	a.AddVertex(NewVertex(mgl32.Vec3{-hw, -hh, 0}, n, t, mgl32.Vec2{0, 1}, col))
	a.AddVertex(NewVertex(mgl32.Vec3{hw, -hh, 0}, n, t, mgl32.Vec2{1, 1}, col))
	a.AddVertex(NewVertex(mgl32.Vec3{hw, hh, 0}, n, t, mgl32.Vec2{1, 0}, col))
	a.AddVertex(NewVertex(mgl32.Vec3{-hw, hh, 0}, n, t, mgl32.Vec2{0, 0}, col))
	a.AddTriangle(0, 1, 2)
	a.AddTriangle(0, 2, 3)
	a.UpdateCache()
	return a
}

type boxFace struct {
	normal, tangent, bitangent mgl32.Vec3
}

var boxFaces = [6]boxFace{
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
}

// NewBox builds a box centred on the origin with one quad of four vertices
// per face, so each face keeps its own normal.
func NewBox(w, h, d float32, col color.RGBA) *Array {
	a := NewArray(Triangles, DefaultFormat)
	half := mgl32.Vec3{w / 2, h / 2, d / 2}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range boxFaces {
		base := uint32(a.VertexCount())
		for _, c := range corners {
			p := f.normal.Add(f.tangent.Mul(c[0])).Add(f.bitangent.Mul(c[1]))
			p = mgl32.Vec3{p[0] * half[0], p[1] * half[1], p[2] * half[2]}
			uv := mgl32.Vec2{(c[0] + 1) / 2, (1 - c[1]) / 2}
			a.AddVertex(NewVertex(p, f.normal, f.tangent.Vec4(1), uv, col))
		}
		a.AddTriangle(base, base+1, base+2)
		a.AddTriangle(base, base+2, base+3)
	}
	a.UpdateCache()
	return a
}

// NewUVSphere builds a sphere of the given radius from slices around the y
// axis and stacks from pole to pole.
func NewUVSphere(radius float32, slices, stacks int, col color.RGBA) *Array {
	if slices < 3 {
		slices = 3
	}
	if stacks < 2 {
		stacks = 2
	}
	a := NewArray(Triangles, DefaultFormat)
	for st := 0; st <= stacks; st++ {
		phi := math.Pi * float64(st) / float64(stacks)
		for sl := 0; sl <= slices; sl++ {
			theta := 2 * math.Pi * float64(sl) / float64(slices)
			n := mgl32.Vec3{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			t := mgl32.Vec3{float32(-math.Sin(theta)), 0, float32(math.Cos(theta))}
			uv := mgl32.Vec2{float32(sl) / float32(slices), float32(st) / float32(stacks)}
			a.AddVertex(NewVertex(n.Mul(radius), n, t.Vec4(1), uv, col))
		}
	}
	row := uint32(slices + 1)
	for st := 0; st < stacks; st++ {
		for sl := 0; sl < slices; sl++ {
			i0 := uint32(st)*row + uint32(sl)
			i1 := i0 + row
			if st != 0 {
				a.AddTriangle(i0, i0+1, i1)
			}
			if st != stacks-1 {
				a.AddTriangle(i0+1, i1+1, i1)
			}
		}
	}
	a.UpdateCache()
	return a
}
