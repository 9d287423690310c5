package gobatch3d

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

func DrawLine(screen *ebiten.Image, startX, startY, endX, endY float32, col color.Color) {
	vector.StrokeLine(screen, startX, startY, endX, endY, 1, col, false)
}

// box corner pairs, corners numbered by bit: x=1, y=2, z=4
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// boundsSegments projects the edges of b to screen space. Edges with an end
// behind the camera are left out.
func boundsSegments(viewProj mgl32.Mat4, width, height float32, b Bounds) [][4]float32 {
	if b.IsEmpty() {
		return nil
	}
	var pts [8][2]float32
	var ok [8]bool
	for i := range pts {
		c := b.Min
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		pts[i][0], pts[i][1], _, ok[i] = Project(viewProj, c, width, height)
	}
	segs := make([][4]float32, 0, len(boxEdges))
	for _, e := range boxEdges {
		if !ok[e[0]] || !ok[e[1]] {
			continue
		}
		a, c := pts[e[0]], pts[e[1]]
		segs = append(segs, [4]float32{a[0], a[1], c[0], c[1]})
	}
	return segs
}

// DrawBounds outlines b on screen.
func DrawBounds(screen *ebiten.Image, viewProj mgl32.Mat4, width, height int, b Bounds, col color.Color) {
	for _, s := range boundsSegments(viewProj, float32(width), float32(height), b) {
		DrawLine(screen, s[0], s[1], s[2], s[3], col)
	}
}
