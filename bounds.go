package gobatch3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Bounds is an axis aligned bounding box. The zero value is empty.
type Bounds struct {
	Min, Max mgl32.Vec3
	valid    bool
}

func EmptyBounds() Bounds {
	return Bounds{}
}

func (b Bounds) IsEmpty() bool {
	return !b.valid
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p mgl32.Vec3) {
	if !b.valid {
		b.Min, b.Max, b.valid = p, p, true
		return
	}
	for i := 0; i < 3; i++ {
		b.Min[i] = float32(math.Min(float64(b.Min[i]), float64(p[i])))
		b.Max[i] = float32(math.Max(float64(b.Max[i]), float64(p[i])))
	}
}

func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the x, y and z lengths of the box.
func (b Bounds) Size() mgl32.Vec3 {
	if !b.valid {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

func boundsOf(vb *VertexBuffer, start, end int) Bounds {
	var b Bounds
	for i := start; i < end; i++ {
		b.Extend(vb.vertices[i].Position)
	}
	return b
}
