package gobatch3d

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// The minimum brightness for any surface.
const ambientLight = 0.65

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// shadeColor lights base with a directional light travelling along
// lightDir. A surface facing the light keeps its color, one facing away only
// gets the ambient term.
func shadeColor(base color.RGBA, normal, lightDir mgl32.Vec3) color.RGBA {
	diffuse := 0.0
	if normal.Len() > 0 && lightDir.Len() > 0 {
		diffuse = float64(normal.Normalize().Dot(lightDir.Normalize().Mul(-1)))
	}
	diffuse = math.Max(diffuse, 0)

	brightness := ambientLight + diffuse*(1-ambientLight)

	// full brightness subtracts nothing, none subtracts 240
	c := 240 - int(brightness*240)

	const min = 7
	return color.RGBA{
		R: uint8(clamp(int(base.R)-c, min, 255)),
		G: uint8(clamp(int(base.G)-c, min, 255)),
		B: uint8(clamp(int(base.B)-c, min, 255)),
		A: base.A,
	}
}
