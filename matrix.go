package gobatch3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	ROTX = 0
	ROTY = 1
	ROTZ = 2
)

// singularEpsilon is the smallest determinant a merge transform may have,
// relative to the product of its axis lengths.
const singularEpsilon = 1e-6

func NewRotationMatrix(aRotation int, theta float32) mgl32.Mat4 {
	switch aRotation {
	case ROTX:
		return mgl32.HomogRotate3DX(theta)
	case ROTY:
		return mgl32.HomogRotate3DY(theta)
	case ROTZ:
		return mgl32.HomogRotate3DZ(theta)
	}
	return mgl32.Ident4()
}

// NewForwardMatrix rotates by z, then y, then x.
func NewForwardMatrix(x, y, z float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(x).Mul4(mgl32.HomogRotate3DY(y)).Mul4(mgl32.HomogRotate3DZ(z))
}

func TransMatrix(x, y, z float32) mgl32.Mat4 {
	return mgl32.Translate3D(x, y, z)
}

func ScaleMatrix(x, y, z float32) mgl32.Mat4 {
	return mgl32.Scale3D(x, y, z)
}

// ComposeTransform builds translate * rotate * scale, rotation given as euler
// angles in radians.
func ComposeTransform(pos, rot, scale mgl32.Vec3) mgl32.Mat4 {
	return TransMatrix(pos[0], pos[1], pos[2]).
		Mul4(NewForwardMatrix(rot[0], rot[1], rot[2])).
		Mul4(ScaleMatrix(scale[0], scale[1], scale[2]))
}

// DirectionMatrix is the inverse transpose of mat with the translation
// zeroed, the matrix normals must be transformed by.
func DirectionMatrix(mat mgl32.Mat4) mgl32.Mat4 {
	nmat := mat.Inv().Transpose()
	nmat[12], nmat[13], nmat[14] = 0, 0, 0
	nmat[3], nmat[7], nmat[11] = 0, 0, 0
	return nmat
}

// IsInvertible reports whether mat is far enough from singular to produce
// usable normals. The determinant of the linear part is measured against
// the volume its axes would span if they were orthogonal, so uniformly tiny
// or huge scales still pass.
func IsInvertible(mat mgl32.Mat4) bool {
	var cols [3][3]float64
	volume := 1.0
	for c := range 3 {
		col := mat.Col(c)
		cols[c] = [3]float64{float64(col[0]), float64(col[1]), float64(col[2])}
		volume *= math.Sqrt(cols[c][0]*cols[c][0] + cols[c][1]*cols[c][1] + cols[c][2]*cols[c][2])
	}
	det := cols[0][0]*(cols[1][1]*cols[2][2]-cols[2][1]*cols[1][2]) -
		cols[1][0]*(cols[0][1]*cols[2][2]-cols[2][1]*cols[0][2]) +
		cols[2][0]*(cols[0][1]*cols[1][2]-cols[1][1]*cols[0][2])
	if math.IsNaN(det) || math.IsInf(det, 0) || volume == 0 {
		return false
	}
	return math.Abs(det) > singularEpsilon*volume
}
