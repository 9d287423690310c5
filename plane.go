package gobatch3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane is Ax + By + Cz + D = 0 with a unit normal; points with a positive
// distance are in front.
type Plane struct {
	A, B, C, D float32
}

const planeThickness = 1e-4

func NewPlane(point, normal mgl32.Vec3) Plane {
	n := normal.Normalize()
	return Plane{A: n[0], B: n[1], C: n[2], D: -n.Dot(point)}
}

func planeFromVec4(v mgl32.Vec4) Plane {
	l := v.Vec3().Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{A: v[0] / l, B: v[1] / l, C: v[2] / l, D: v[3] / l}
}

// PointOnPlane is the signed distance of v, snapped to zero within the plane
// thickness.
func (p Plane) PointOnPlane(v mgl32.Vec3) float32 {
	num := p.A*v[0] + p.B*v[1] + p.C*v[2] + p.D
	if math.Abs(float64(num)) < planeThickness {
		return 0
	}
	return num
}

// Where is the largest signed distance of the corners of b. A negative
// value means b lies wholly behind the plane.
func (p Plane) Where(b Bounds) float32 {
	if b.IsEmpty() {
		return float32(math.Inf(-1))
	}
	// corner furthest along the normal
	v := b.Min
	if p.A >= 0 {
		v[0] = b.Max[0]
	}
	if p.B >= 0 {
		v[1] = b.Max[1]
	}
	if p.C >= 0 {
		v[2] = b.Max[2]
	}
	return p.PointOnPlane(v)
}

// Frustum is the six planes of a view projection, normals pointing inward.
type Frustum [6]Plane

// NewFrustum extracts the clip planes of viewProj: left, right, bottom, top,
// near, far.
func NewFrustum(viewProj mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)
	return Frustum{
		planeFromVec4(r3.Add(r0)),
		planeFromVec4(r3.Sub(r0)),
		planeFromVec4(r3.Add(r1)),
		planeFromVec4(r3.Sub(r1)),
		planeFromVec4(r3.Add(r2)),
		planeFromVec4(r3.Sub(r2)),
	}
}

// Intersects reports whether b may be visible. Boxes straddling a corner of
// the frustum can be reported visible when they are not.
func (f Frustum) Intersects(b Bounds) bool {
	for _, p := range f {
		if p.Where(b) < 0 {
			return false
		}
	}
	return true
}
