package gobatch3d

import (
	"image"
	"image/color"
	"log/slog"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// TriangleDrawer receives one triangle list per drawn part. *ebiten.Image
// implements it.
type TriangleDrawer interface {
	DrawTriangles(vertices []ebiten.Vertex, indices []uint16, img *ebiten.Image, options *ebiten.DrawTrianglesOptions)
}

type uploadedPart struct {
	Part
	// indices relative to StartVertex
	indices []uint16
	bounds  Bounds
}

// upload is the renderer side copy of a display array, rebuilt whenever the
// array generation moves.
type upload struct {
	generation uint64
	positions  []mgl32.Vec3
	colors     []color.RGBA
	parts      []uploadedPart
	seen       bool
}

type drawItem struct {
	up    *upload
	part  *uploadedPart
	depth float32
}

// Renderer submits display arrays part by part to a TriangleDrawer.
type Renderer struct {
	Camera *Camera
	// Light is the direction the light travels in.
	Light mgl32.Vec3
	// Source is the texture sampled by every triangle. A white pixel is used
	// when nil.
	Source *ebiten.Image

	uploads map[DisplayArray]*upload
	items   []drawItem
	screen  []ebiten.Vertex
	visible []bool
	culled  []uint16
}

func NewRenderer(cam *Camera, light mgl32.Vec3) *Renderer {
	return &Renderer{
		Camera:  cam,
		Light:   light,
		uploads: make(map[DisplayArray]*upload),
	}
}

// Sync re-uploads arr when its generation differs from the uploaded one and
// reports whether it did.
func (r *Renderer) Sync(arr DisplayArray) bool {
	up, ok := r.uploads[arr]
	if ok && up.generation == arr.Generation() {
		return false
	}
	if !ok {
		up = &upload{}
		r.uploads[arr] = up
	}

	n := arr.VertexCount()
	up.positions = up.positions[:0]
	up.colors = up.colors[:0]
	for i := 0; i < n; i++ {
		v := arr.Vertex(i)
		up.positions = append(up.positions, v.Position)
		up.colors = append(up.colors, shadeColor(v.Colors[0], v.Normal, r.Light))
	}

	up.parts = up.parts[:0]
	for _, p := range arr.DrawParts() {
		if p.VertexCount > math.MaxUint16+1 {
			slog.Warn("part too large to draw", "vertex_count", p.VertexCount)
			continue
		}
		indices := make([]uint16, p.IndexCount)
		for i := range indices {
			indices[i] = uint16(arr.Index(p.StartIndex+i) - uint32(p.StartVertex))
		}
		up.parts = append(up.parts, uploadedPart{
			Part:    p,
			indices: indices,
			bounds:  boundsOfPositions(up.positions[p.StartVertex:p.EndVertex()]),
		})
	}

	slog.Debug("upload display array",
		"generation", arr.Generation(), "previous", up.generation,
		"vertices", n, "parts", len(up.parts))
	up.generation = arr.Generation()
	return true
}

// Forget drops the uploaded copy of arr.
func (r *Renderer) Forget(arr DisplayArray) {
	delete(r.uploads, arr)
}

// Uploaded reports the generation last uploaded for arr.
func (r *Renderer) Uploaded(arr DisplayArray) (uint64, bool) {
	up, ok := r.uploads[arr]
	if !ok {
		return 0, false
	}
	return up.generation, true
}

// Draw syncs arrays and submits every part inside the view frustum to dst,
// far parts first.
// Uploads of arrays no longer passed in are dropped.
func (r *Renderer) Draw(dst TriangleDrawer, width, height int, arrays []DisplayArray) {
	w, h := float32(width), float32(height)
	viewProj := r.Camera.ViewProjection(w, h)
	frustum := NewFrustum(viewProj)

	for _, up := range r.uploads {
		up.seen = false
	}
	r.items = r.items[:0]
	for _, arr := range arrays {
		r.Sync(arr)
		up := r.uploads[arr]
		up.seen = true
		for i := range up.parts {
			part := &up.parts[i]
			if part.IndexCount == 0 || !frustum.Intersects(part.bounds) {
				continue
			}
			_, _, depth, ok := Project(viewProj, part.bounds.Center(), w, h)
			if !ok {
				continue
			}
			r.items = append(r.items, drawItem{up: up, part: part, depth: depth})
		}
	}
	for arr, up := range r.uploads {
		if !up.seen {
			delete(r.uploads, arr)
		}
	}

	sort.SliceStable(r.items, func(i, j int) bool {
		return r.items[i].depth > r.items[j].depth
	})

	src := r.source()
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	for _, it := range r.items {
		r.drawPart(dst, src, op, viewProj, w, h, it.up, it.part)
	}
}

func (r *Renderer) drawPart(dst TriangleDrawer, src *ebiten.Image, op *ebiten.DrawTrianglesOptions, viewProj mgl32.Mat4, w, h float32, up *upload, part *uploadedPart) {
	r.screen = r.screen[:0]
	r.visible = r.visible[:0]
	for i := part.StartVertex; i < part.EndVertex(); i++ {
		x, y, _, ok := Project(viewProj, up.positions[i], w, h)
		c := up.colors[i]
		r.screen = append(r.screen, ebiten.Vertex{
			DstX:   x,
			DstY:   y,
			SrcX:   1,
			SrcY:   1,
			ColorR: float32(c.R) / 255,
			ColorG: float32(c.G) / 255,
			ColorB: float32(c.B) / 255,
			ColorA: float32(c.A) / 255,
		})
		r.visible = append(r.visible, ok)
	}

	r.culled = r.culled[:0]
	for i := 0; i+2 < len(part.indices); i += 3 {
		a, b, c := part.indices[i], part.indices[i+1], part.indices[i+2]
		if !r.visible[a] || !r.visible[b] || !r.visible[c] {
			continue
		}
		if !frontFacing(r.screen[a], r.screen[b], r.screen[c]) {
			continue
		}
		r.culled = append(r.culled, a, b, c)
	}
	if len(r.culled) == 0 {
		return
	}
	dst.DrawTriangles(r.screen, r.culled, src, op)
}

// frontFacing reports counter clockwise winding once projected; screen y
// points down, which flips the sign of the area.
func frontFacing(a, b, c ebiten.Vertex) bool {
	area := (b.DstX-a.DstX)*(c.DstY-a.DstY) - (b.DstY-a.DstY)*(c.DstX-a.DstX)
	return area < 0
}

func (r *Renderer) source() *ebiten.Image {
	if r.Source == nil {
		whiteImage := ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		r.Source = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return r.Source
}

func boundsOfPositions(ps []mgl32.Vec3) Bounds {
	var b Bounds
	for _, p := range ps {
		b.Extend(p)
	}
	return b
}
