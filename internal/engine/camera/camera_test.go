package camera_test

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/notanengine/internal/engine/camera"
	"github.com/Faultbox/notanengine/internal/engine/input"
)

const eps = 1e-5

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], eps, "component %d of %v", i, got)
	}
}

func assertMat(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], eps, "element %d of %v", i, got)
	}
}

func TestDefaultsFaceNegativeZ(t *testing.T) {
	c := camera.New(mgl32.Vec3{0, 0, 3})

	assert.Equal(t, float32(-90), c.Yaw())
	assert.Equal(t, float32(0), c.Pitch())
	assert.Equal(t, float32(45), c.FOV())
	assert.Equal(t, float32(1), c.Speed)
	assert.Equal(t, float32(1), c.Sensitivity)
	assertVec(t, mgl32.Vec3{0, 0, -1}, c.Front())
	assertVec(t, mgl32.Vec3{1, 0, 0}, c.Right())
}

func TestPitchAlwaysClamped(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := camera.New(mgl32.Vec3{})
	in := input.NewState()

	for i := 0; i < 500; i++ {
		in.MouseDelta(0, (rng.Float32()-0.5)*4000)
		c.Update(0.016, in)
		require.GreaterOrEqual(t, c.Pitch(), float32(-89))
		require.LessOrEqual(t, c.Pitch(), float32(89))
	}

	in.MouseDelta(0, -1e6) // mouse far up
	c.Update(0.016, in)
	assert.Equal(t, float32(89), c.Pitch())

	in.MouseDelta(0, 1e6)
	c.Update(0.016, in)
	assert.Equal(t, float32(-89), c.Pitch())
}

func TestYawWrapsToZero(t *testing.T) {
	tests := []struct {
		name  string
		delta float32
	}{
		{name: "past positive", delta: 460}, // -90 + 460 = 370
		{name: "exactly 360", delta: 450},
		{name: "past negative", delta: -300}, // -90 - 300 = -390
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := camera.New(mgl32.Vec3{})
			in := input.NewState()
			in.MouseDelta(tt.delta, 0)
			c.Update(0, in)
			assert.Equal(t, float32(0), c.Yaw())
		})
	}

	c := camera.New(mgl32.Vec3{})
	in := input.NewState()
	in.MouseDelta(359+90-1, 0)
	c.Update(0, in)
	assert.Equal(t, float32(358), c.Yaw(), "yaw below 360 is kept")
}

func TestMouseUpLooksUp(t *testing.T) {
	c := camera.New(mgl32.Vec3{})
	in := input.NewState()
	in.MouseDelta(0, -10)
	c.Update(0, in)

	assert.Equal(t, float32(10), c.Pitch())
	assert.Greater(t, c.Front().Y(), float32(0))
}

func TestSensitivityScalesMouse(t *testing.T) {
	c := camera.New(mgl32.Vec3{})
	c.Sensitivity = 0.1
	in := input.NewState()
	in.MouseDelta(100, 0)
	c.Update(0, in)

	assert.InDelta(t, -80, c.Yaw(), 1e-4)
}

func TestFrontIsUnitFromAngles(t *testing.T) {
	for _, a := range [][2]float32{{-90, 0}, {0, 0}, {45, 30}, {-170, -89}, {300, 89}} {
		f := camera.FrontFromAngles(a[0], a[1])
		assert.InDelta(t, 1, f.Len(), eps, "yaw %v pitch %v", a[0], a[1])
	}
	assertVec(t, mgl32.Vec3{1, 0, 0}, camera.FrontFromAngles(0, 0))
	assert.True(t, camera.FrontFromAngles(0, 89).Y() > 0.99)
}

func TestMovementUsesFrontRightAndUp(t *testing.T) {
	c := camera.New(mgl32.Vec3{0, 0, 3})
	c.Speed = 2
	in := input.NewState()

	in.KeyPressed(input.KeyForward)
	c.Update(0.5, in)
	assertVec(t, mgl32.Vec3{0, 0, 2}, c.Position())
	in.KeyReleased(input.KeyForward)

	in.KeyPressed(input.KeyRight)
	c.Update(0.5, in)
	assertVec(t, mgl32.Vec3{1, 0, 2}, c.Position())
	in.KeyReleased(input.KeyRight)

	in.KeyPressed(input.KeyUp)
	c.Update(1, in)
	assertVec(t, mgl32.Vec3{1, 2, 2}, c.Position())

	// Opposite keys cancel.
	in.KeyPressed(input.KeyDown)
	c.Update(1, in)
	assertVec(t, mgl32.Vec3{1, 2, 2}, c.Position())
}

func TestScrollZoomsAndClamps(t *testing.T) {
	c := camera.New(mgl32.Vec3{})
	in := input.NewState()

	in.Scrolled(5)
	c.Update(0, in)
	assert.Equal(t, float32(40), c.FOV())

	in.Scrolled(100)
	c.Update(0, in)
	assert.Equal(t, float32(1), c.FOV())

	in.Scrolled(-100)
	c.Update(0, in)
	assert.Equal(t, float32(45), c.FOV())

	// Drained scroll does not apply twice.
	c.Update(0, in)
	assert.Equal(t, float32(45), c.FOV())
}

func TestViewMatrixLooksAlongFront(t *testing.T) {
	c := camera.New(mgl32.Vec3{0, 0, 3})
	want := mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 1, 0})
	assertMat(t, want, c.ViewMatrix())

	// A point straight ahead lands on the view axis.
	p := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, -5, 1})
	assert.InDelta(t, 0, p.X(), eps)
	assert.InDelta(t, 0, p.Y(), eps)
	assert.Less(t, p.Z(), float32(0))
}

func TestSetOrientationClamps(t *testing.T) {
	c := camera.New(mgl32.Vec3{})
	c.SetOrientation(720, 120)
	assert.Equal(t, float32(0), c.Yaw())
	assert.Equal(t, float32(89), c.Pitch())
}
