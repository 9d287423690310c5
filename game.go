package gobatch3d

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/smasonuk/gobatch3d/haptics"
)

const spinSpeed = 0.02

var (
	boundsColor     = color.RGBA{R: 255, G: 255, A: 255}
	partBoundsColor = color.RGBA{G: 160, B: 255, A: 255}
)

// parked is an object split out of the world and waiting to be merged back.
type parked struct {
	name string
	mat  mgl32.Mat4
	src  DisplayArray
}

// Game shows a configured scene. S or a right click splits a batched object
// out of its batch and M merges the last one back. Space spins the first
// batched object, B outlines bounds and E exports the batches as PLY. The
// left mouse button orbits the camera, the wheel zooms and R resets the view.
type Game struct {
	cfg      *Config
	world    *World
	camera   *Camera
	renderer *Renderer

	devices  *haptics.Registry
	actuator *haptics.Actuator
	pads     []ebiten.GamepadID

	parked       []parked
	spinning     bool
	showBounds   bool
	lastX, lastY int
	dragged      bool
}

func NewGame(cfg *Config) (*Game, error) {
	g := &Game{cfg: cfg}
	slog.Info("initializing world")
	world, err := BuildWorld(cfg)
	if err != nil {
		return nil, err
	}
	g.world = world

	g.camera = NewCameraLookAt(mgl32.Vec3(cfg.Camera.Position), mgl32.Vec3(cfg.Camera.Target), mgl32.Vec3{0, 1, 0})
	g.camera.SetFOV(cfg.Camera.FOV)
	g.camera.SetClip(cfg.Camera.Near, cfg.Camera.Far)
	g.renderer = NewRenderer(g.camera, cfg.LightDirection())

	g.devices = haptics.NewRegistry()
	if cfg.Haptics.Enabled {
		haptics.RegisterGamepads(g.devices)
	}
	g.actuator = haptics.NewActuator(g.devices, haptics.Play, cfg.Haptics.Gamepad)
	g.actuator.StrengthLeft = cfg.Haptics.Strength
	g.actuator.StrengthRight = cfg.Haptics.Strength
	g.actuator.Duration = time.Duration(cfg.Haptics.DurationMS) * time.Millisecond

	slog.Info("initialization complete", "objects", len(world.Objects()), "batches", len(world.Batches()))
	return g, nil
}

func (g *Game) Update() error {
	if g.cfg.Haptics.Enabled {
		g.pads = inpututil.AppendJustConnectedGamepadIDs(g.pads[:0])
		for _, id := range g.pads {
			g.devices.Register(haptics.NewGamepadDevice(id))
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.splitLast(); err != nil {
			slog.Warn("split failed", "err", err)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if err := g.splitAt(ebiten.CursorPosition()); err != nil {
			slog.Warn("split failed", "err", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		if err := g.export(); err != nil {
			slog.Warn("export failed", "err", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		if err := g.mergeParked(); err != nil {
			slog.Warn("merge failed", "err", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.resetCamera()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.showBounds = !g.showBounds
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.spinning = !g.spinning
	}
	if g.spinning {
		if err := g.spinFirst(); err != nil {
			slog.Warn("spin failed", "err", err)
			g.spinning = false
		}
	}

	g.updateCamera()

	if _, err := g.actuator.Update(time.Now()); err != nil {
		slog.Debug("rumble", "err", err)
	}
	return nil
}

func (g *Game) resetCamera() {
	p := g.cfg.Camera.Position
	g.camera.SetCameraPosition(p[0], p[1], p[2])
	g.camera.LookAt(mgl32.Vec3(g.cfg.Camera.Target))
}

func (g *Game) updateCamera() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragged = true
		g.lastX, g.lastY = ebiten.CursorPosition()
	}
	if g.dragged {
		x, y := ebiten.CursorPosition()
		speed := g.cfg.Camera.OrbitSpeed
		g.camera.Orbit(-float32(x-g.lastX)*speed, float32(y-g.lastY)*speed)
		g.lastX, g.lastY = x, y
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragged = false
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.camera.Zoom(float32(dy) * g.cfg.Camera.ZoomSpeed)
	}
}

func (g *Game) splitLast() error {
	objs := g.world.Objects()
	for i := len(objs) - 1; i >= 0; i-- {
		if objs[i].Batched {
			return g.park(objs[i])
		}
	}
	return nil
}

// splitAt splits out the batched object under screen position x, y.
func (g *Game) splitAt(x, y int) error {
	w, h := g.Layout(0, 0)
	start, end := g.camera.Ray(float32(x), float32(y), float32(w), float32(h))
	o, ok := g.world.Pick(start, end)
	if !ok || !o.Batched {
		return nil
	}
	return g.park(o)
}

func (g *Game) park(o *Object) error {
	if err := g.world.RemoveObject(o.Name); err != nil {
		return err
	}
	g.parked = append(g.parked, parked{name: o.Name, mat: o.Transform(), src: o.source})
	g.actuator.Trigger()
	slog.Info("split object", "name", o.Name)
	return nil
}

// export writes every batch to its own PLY file.
func (g *Game) export() error {
	for i, b := range g.world.Batches() {
		name := fmt.Sprintf("batch-%d.ply", i)
		if err := SavePLYFile(name, b); err != nil {
			return err
		}
		slog.Info("exported batch", "file", name, "parts", b.PartCount())
	}
	return nil
}

func (g *Game) mergeParked() error {
	if len(g.parked) == 0 {
		return nil
	}
	p := g.parked[len(g.parked)-1]
	if _, err := g.world.AddObject(p.name, p.src, p.mat, true); err != nil {
		return err
	}
	g.parked = g.parked[:len(g.parked)-1]
	slog.Info("merged object", "name", p.name)
	return nil
}

func (g *Game) spinFirst() error {
	for _, o := range g.world.Objects() {
		if !o.Batched {
			continue
		}
		spun := o.Transform().Mul4(NewRotationMatrix(ROTY, spinSpeed))
		return g.world.SetTransform(o.Name, spun)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	w, h := g.Layout(0, 0)
	g.renderer.Draw(screen, w, h, g.world.DisplayArrays())

	if g.showBounds {
		g.drawBounds(screen, w, h)
	}

	parts, vertices := 0, 0
	for _, b := range g.world.Batches() {
		parts += b.PartCount()
		vertices += b.VertexCount()
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %0.2f\nbatches: %d parts: %d vertices: %d\nparked: %d (S/right click split, M merge)\ncamera: %.1f (R reset)",
		ebiten.ActualFPS(), len(g.world.Batches()), parts, vertices, len(g.parked), g.camera.GetPosition()))
}

func (g *Game) drawBounds(screen *ebiten.Image, w, h int) {
	viewProj := g.camera.ViewProjection(float32(w), float32(h))
	for _, b := range g.world.Batches() {
		DrawBounds(screen, viewProj, w, h, b.Bounds(), boundsColor)
		for _, handle := range b.Handles() {
			pb, err := b.PartBounds(handle)
			if err != nil {
				continue
			}
			DrawBounds(screen, viewProj, w, h, pb, partBoundsColor)
		}
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}
