// Package camera provides the first-person free-look camera.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/notanengine/internal/engine/input"
	"github.com/Faultbox/notanengine/internal/engine/transform"
)

// Limits applied on every update.
const (
	MaxPitch = 89.0
	MinFOV   = 1.0
	MaxFOV   = 45.0
	yawWrap  = 360.0
)

// WorldUp is the fixed up axis used for strafing and lookAt.
var WorldUp = mgl32.Vec3{0, 1, 0}

// FreeLook is a fly-through camera steered by yaw and pitch in degrees.
type FreeLook struct {
	Transform transform.Transform

	front mgl32.Vec3
	yaw   float32
	pitch float32

	Speed       float32
	Sensitivity float32
	fov         float32
}

// New returns a camera at position looking down -Z (yaw -90).
func New(position mgl32.Vec3) *FreeLook {
	c := &FreeLook{
		Transform:   transform.New(),
		yaw:         -90,
		Speed:       1,
		Sensitivity: 1,
		fov:         MaxFOV,
	}
	c.Transform.SetPosition(position)
	c.updateFront()
	return c
}

func (c *FreeLook) Position() mgl32.Vec3 { return c.Transform.Position() }
func (c *FreeLook) Front() mgl32.Vec3    { return c.front }
func (c *FreeLook) Yaw() float32         { return c.yaw }
func (c *FreeLook) Pitch() float32       { return c.pitch }
func (c *FreeLook) FOV() float32         { return c.fov }

// Right is the strafe direction, normalize(front x up).
func (c *FreeLook) Right() mgl32.Vec3 {
	return c.front.Cross(WorldUp).Normalize()
}

// SetPosition teleports the camera.
func (c *FreeLook) SetPosition(p mgl32.Vec3) { c.Transform.SetPosition(p) }

// SetFOV sets the vertical field of view, clamped to [MinFOV, MaxFOV].
func (c *FreeLook) SetFOV(deg float32) { c.fov = clamp(deg, MinFOV, MaxFOV) }

// SetOrientation sets yaw and pitch and applies the usual clamping.
func (c *FreeLook) SetOrientation(yaw, pitch float32) {
	c.yaw, c.pitch = yaw, pitch
	c.constrain()
	c.updateFront()
}

// Update consumes one frame of input: held movement keys, the mouse motion
// and the scroll accumulated since the previous update.
func (c *FreeLook) Update(dt float32, in *input.State) {
	step := c.Speed * dt
	right := c.Right()

	var move mgl32.Vec3
	if in.Held(input.KeyForward) {
		move = move.Add(c.front)
	}
	if in.Held(input.KeyBackward) {
		move = move.Sub(c.front)
	}
	if in.Held(input.KeyRight) {
		move = move.Add(right)
	}
	if in.Held(input.KeyLeft) {
		move = move.Sub(right)
	}
	if in.Held(input.KeyUp) {
		move = move.Add(WorldUp)
	}
	if in.Held(input.KeyDown) {
		move = move.Sub(WorldUp)
	}
	if move != (mgl32.Vec3{}) {
		c.Transform.Translate(move.Mul(step))
	}

	dx, dy := in.MouseOffset()
	c.yaw += dx * c.Sensitivity
	// Screen Y grows downward; moving the mouse up looks up.
	c.pitch -= dy * c.Sensitivity
	c.constrain()
	c.updateFront()

	c.SetFOV(c.fov - in.ScrollOffset())
}

func (c *FreeLook) constrain() {
	c.pitch = clamp(c.pitch, -MaxPitch, MaxPitch)
	if c.yaw >= yawWrap || c.yaw <= -yawWrap {
		c.yaw = 0
	}
}

func (c *FreeLook) updateFront() {
	c.front = FrontFromAngles(c.yaw, c.pitch)
}

// FrontFromAngles converts yaw and pitch in degrees to a unit direction.
func FrontFromAngles(yaw, pitch float32) mgl32.Vec3 {
	y := float64(yaw) * gomath.Pi / 180
	p := float64(pitch) * gomath.Pi / 180
	return mgl32.Vec3{
		float32(gomath.Cos(y) * gomath.Cos(p)),
		float32(gomath.Sin(p)),
		float32(gomath.Sin(y) * gomath.Cos(p)),
	}.Normalize()
}

// ViewMatrix returns lookAt(position, position+front, up).
func (c *FreeLook) ViewMatrix() mgl32.Mat4 {
	pos := c.Position()
	return mgl32.LookAtV(pos, pos.Add(c.front), WorldUp)
}

// Projection returns a perspective matrix using the current FOV.
func (c *FreeLook) Projection(aspect, near, far float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.fov), aspect, near, far)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
