package gobatch3d

import "github.com/hajimehoshi/ebiten/v2"

// recordingDrawer is a mock screen that keeps every draw call.
type recordingDrawer struct {
	calls []drawCall
}

type drawCall struct {
	vertices []ebiten.Vertex
	indices  []uint16
}

func (d *recordingDrawer) DrawTriangles(vertices []ebiten.Vertex, indices []uint16, img *ebiten.Image, options *ebiten.DrawTrianglesOptions) {
	d.calls = append(d.calls, drawCall{
		vertices: append([]ebiten.Vertex(nil), vertices...),
		indices:  append([]uint16(nil), indices...),
	})
}
