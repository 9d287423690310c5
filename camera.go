package gobatch3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Camera struct {
	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3
	fovY     float32
	near     float32
	far      float32
}

// NewCameraLookAt places a camera at camPos looking at lookAt, with a 60
// degree vertical field of view.
func NewCameraLookAt(camPos, lookAt, up mgl32.Vec3) *Camera {
	return &Camera{
		position: camPos,
		target:   lookAt,
		up:       up,
		fovY:     mgl32.DegToRad(60),
		near:     0.1,
		far:      1000,
	}
}

func (c *Camera) SetFOV(degrees float32) {
	c.fovY = mgl32.DegToRad(degrees)
}

func (c *Camera) SetClip(near, far float32) {
	c.near, c.far = near, far
}

func (c *Camera) GetPosition() mgl32.Vec3 {
	return c.position
}

func (c *Camera) SetCameraPosition(x, y, z float32) {
	c.position = mgl32.Vec3{x, y, z}
}

func (c *Camera) LookAt(lookAt mgl32.Vec3) {
	c.target = lookAt
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.target, c.up)
}

func (c *Camera) Projection(width, height float32) mgl32.Mat4 {
	if height == 0 {
		height = 1
	}
	return mgl32.Perspective(c.fovY, width/height, c.near, c.far)
}

// ViewProjection is the world to clip space matrix for a viewport.
func (c *Camera) ViewProjection(width, height float32) mgl32.Mat4 {
	return c.Projection(width, height).Mul4(c.View())
}

// Project maps a world position to screen coordinates, y down. depth is the
// distance along the view direction; ok is false behind the camera.
func Project(viewProj mgl32.Mat4, p mgl32.Vec3, width, height float32) (x, y, depth float32, ok bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 1e-5 {
		return 0, 0, w, false
	}
	ndcX, ndcY := clip.X()/w, clip.Y()/w
	x = (ndcX + 1) * width / 2
	y = (1 - ndcY) * height / 2
	return x, y, w, true
}

// Orbit turns the camera around its target by yaw and pitch radians.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	offset := c.position.Sub(c.target)
	r := offset.Len()
	if r == 0 {
		return
	}
	yaw := math.Atan2(float64(offset.X()), float64(offset.Z())) + float64(dYaw)
	pitch := math.Asin(float64(offset.Y()/r)) + float64(dPitch)
	const limit = math.Pi/2 - 0.01
	pitch = math.Max(-limit, math.Min(limit, pitch))

	offset = mgl32.Vec3{
		float32(math.Cos(pitch) * math.Sin(yaw)),
		float32(math.Sin(pitch)),
		float32(math.Cos(pitch) * math.Cos(yaw)),
	}.Mul(r)
	c.position = c.target.Add(offset)
}

// Zoom moves the camera toward its target by d, never past it.
func (c *Camera) Zoom(d float32) {
	offset := c.position.Sub(c.target)
	r := offset.Len()
	if r == 0 {
		return
	}
	nr := r - d
	if nr < c.near*2 {
		nr = c.near * 2
	}
	c.position = c.target.Add(offset.Mul(nr / r))
}
