package gobatch3d

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestShadeColor(t *testing.T) {
	grey := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	down := mgl32.Vec3{0, 0, -1}

	testCases := []struct {
		name     string
		base     color.RGBA
		normal   mgl32.Vec3
		expected color.RGBA
	}{
		{
			name:     "Facing the light",
			base:     grey,
			normal:   mgl32.Vec3{0, 0, 1},
			expected: grey,
		},
		{
			name:     "Facing away from light",
			base:     grey,
			normal:   mgl32.Vec3{0, 0, -1},
			expected: color.RGBA{R: 116, G: 116, B: 116, A: 255}, // Only ambient light
		},
		{
			name:     "90 degrees to light",
			base:     grey,
			normal:   mgl32.Vec3{1, 0, 0},
			expected: color.RGBA{R: 116, G: 116, B: 116, A: 255},
		},
		{
			name:     "45 degrees to light",
			base:     grey,
			normal:   mgl32.Vec3{1, 0, 1},
			expected: color.RGBA{R: 175, G: 175, B: 175, A: 255},
		},
		{
			name:     "Color clamping low",
			base:     color.RGBA{R: 10, G: 10, B: 10, A: 128},
			normal:   mgl32.Vec3{0, 0, -1},
			expected: color.RGBA{R: 7, G: 7, B: 7, A: 128},
		},
		{
			name:     "Zero normal is ambient only",
			base:     grey,
			normal:   mgl32.Vec3{},
			expected: color.RGBA{R: 116, G: 116, B: 116, A: 255},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := shadeColor(tc.base, tc.normal, down)
			if result != tc.expected {
				t.Errorf("shadeColor() = %v, want %v", result, tc.expected)
			}
		})
	}
}
