package gobatch3d

import (
	"github.com/go-gl/mathgl/mgl32"
)

// A small epsilon value for floating-point comparisons to avoid precision errors.
const epsilon = 1e-6

// LineIntersectsTriangle reports whether the segment start-end crosses the
// triangle and where, as a fraction t of the segment length.
func LineIntersectsTriangle(start, end mgl32.Vec3, tri [3]mgl32.Vec3) (float32, bool) {
	planeNormal := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
	lineDir := end.Sub(start)

	dotNormalDir := planeNormal.Dot(lineDir)
	if abs32(dotNormalDir) < epsilon {
		return 0, false
	}
	t := -planeNormal.Dot(start.Sub(tri[0])) / dotNormalDir
	if t < -epsilon || t > 1+epsilon {
		return 0, false
	}

	hit := start.Add(lineDir.Mul(t))
	return t, isPointInPolygon(hit, tri[:], planeNormal)
}

// isPointInPolygon casts a ray in the projection of the polygon onto the
// axis plane its normal is most aligned with.
func isPointInPolygon(point mgl32.Vec3, polygon []mgl32.Vec3, normal mgl32.Vec3) bool {
	absX, absY, absZ := abs32(normal[0]), abs32(normal[1]), abs32(normal[2])

	u, v := 0, 1
	if absX > absY && absX > absZ {
		u, v = 1, 2
	} else if absY > absX && absY > absZ {
		u, v = 0, 2
	}

	intersections := 0
	for i := range polygon {
		p1 := polygon[i]
		p2 := polygon[(i+1)%len(polygon)]
		if (p1[v] > point[v]) != (p2[v] > point[v]) {
			x := (p2[u]-p1[u])*(point[v]-p1[v])/(p2[v]-p1[v]) + p1[u]
			if point[u] < x {
				intersections++
			}
		}
	}
	return intersections%2 == 1
}

// pickPart returns the nearest hit of the segment on the triangles of p.
func pickPart(src Source, p Part, start, end mgl32.Vec3) (float32, bool) {
	if src.Primitive() != Triangles {
		return 0, false
	}
	best, found := float32(0), false
	for i := p.StartIndex; i+2 < p.EndIndex(); i += 3 {
		tri := [3]mgl32.Vec3{
			src.Vertex(int(src.Index(i))).Position,
			src.Vertex(int(src.Index(i + 1))).Position,
			src.Vertex(int(src.Index(i + 2))).Position,
		}
		if t, ok := LineIntersectsTriangle(start, end, tri); ok && (!found || t < best) {
			best, found = t, true
		}
	}
	return best, found
}

// PickPart returns the part of b the segment start-end hits first.
func (b *BatchArray) PickPart(start, end mgl32.Vec3) (Handle, float32, bool) {
	var hit Handle
	best, found := float32(0), false
	for i, p := range b.parts.Parts() {
		if t, ok := pickPart(b, p, start, end); ok && (!found || t < best) {
			hit, best, found = b.parts.HandleAt(i), t, true
		}
	}
	return hit, best, found
}

// Pick returns the object the segment start-end hits first.
func (w *World) Pick(start, end mgl32.Vec3) (*Object, bool) {
	var hit *Object
	var best float32
	for _, o := range w.objects {
		var t float32
		var ok bool
		if o.Batched {
			p, err := o.batch.Part(o.handle)
			if err != nil {
				continue
			}
			t, ok = pickPart(o.batch, p, start, end)
		} else {
			t, ok = pickPart(o.instance, o.instance.DrawParts()[0], start, end)
		}
		if ok && (hit == nil || t < best) {
			hit, best = o, t
		}
	}
	return hit, hit != nil
}

// Ray returns the points on the near and far planes under screen position
// x, y.
func (c *Camera) Ray(x, y, width, height float32) (start, end mgl32.Vec3) {
	inv := c.ViewProjection(width, height).Inv()
	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height
	unproject := func(z float32) mgl32.Vec3 {
		p := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, z, 1})
		return p.Vec3().Mul(1 / p.W())
	}
	return unproject(-1), unproject(1)
}
