// Package transform holds an object's position, Euler rotation and scale
// together with the world matrix derived from them.
package transform

import "github.com/go-gl/mathgl/mgl32"

// Transform is a position/rotation/scale triple. Rotation is in degrees and
// is applied as three independent axis rotations (X, then Y, then Z), so it
// only composes correctly for axis-aligned rotations.
//
// The matrix is rebuilt by every mutator; reads never recompute.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3
	matrix   mgl32.Mat4
}

// New returns an identity transform.
func New() Transform {
	t := Transform{scale: mgl32.Vec3{1, 1, 1}}
	t.Update()
	return t
}

func (t *Transform) Position() mgl32.Vec3 { return t.position }
func (t *Transform) Rotation() mgl32.Vec3 { return t.rotation }
func (t *Transform) Scale() mgl32.Vec3    { return t.scale }

// Matrix returns the cached world matrix.
func (t *Transform) Matrix() mgl32.Mat4 { return t.matrix }

func (t *Transform) SetPosition(p mgl32.Vec3) {
	t.position = p
	t.Update()
}

// SetRotation sets Euler angles in degrees.
func (t *Transform) SetRotation(degrees mgl32.Vec3) {
	t.rotation = degrees
	t.Update()
}

func (t *Transform) SetScale(s mgl32.Vec3) {
	t.scale = s
	t.Update()
}

// SetUniformScale sets the same scale factor on every axis.
func (t *Transform) SetUniformScale(f float32) {
	t.SetScale(mgl32.Vec3{f, f, f})
}

// Translate moves the transform by delta.
func (t *Transform) Translate(delta mgl32.Vec3) {
	t.SetPosition(t.position.Add(delta))
}

// Rotate replaces the rotation with degrees about axis. The stored Euler
// rotation is in degrees like every other angle here, so Rotate(90, Y)
// reads back as {0, 90, 0}; callers porting radian code must convert first.
// The axis is normalized and scaled by the angle, which is only meaningful
// for basis axes. A zero axis leaves the rotation unchanged.
func (t *Transform) Rotate(degrees float32, axis mgl32.Vec3) {
	if axis.Len() == 0 {
		return
	}
	t.SetRotation(axis.Normalize().Mul(degrees))
}

// Update rebuilds the world matrix as T * Rx * Ry * Rz * S.
func (t *Transform) Update() {
	t.matrix = Compose(t.position, t.rotation, t.scale)
}

// Compose builds T(position) * Rx * Ry * Rz * S(scale) with rotation in degrees.
func Compose(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	m := mgl32.Translate3D(position[0], position[1], position[2])
	m = m.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rotation[0])))
	m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotation[1])))
	m = m.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rotation[2])))
	return m.Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}
