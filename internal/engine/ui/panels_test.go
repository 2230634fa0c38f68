package ui

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/notanengine/internal/engine/entity"
)

func TestFrameHistoryAverage(t *testing.T) {
	h := NewFrameHistory(4)
	assert.Zero(t, h.AverageMS())
	assert.Zero(t, h.FPS())

	h.Push(0.010)
	h.Push(0.030)
	assert.InDelta(t, 20, h.AverageMS(), 1e-4)
	assert.InDelta(t, 50, h.FPS(), 1e-3)
}

func TestFrameHistoryWraps(t *testing.T) {
	h := NewFrameHistory(2)
	h.Push(1)
	h.Push(0.002)
	h.Push(0.004)
	assert.InDelta(t, 3, h.AverageMS(), 1e-4)
}

func TestTransformFieldsRoundTrip(t *testing.T) {
	e := entity.New("cube", nil)
	e.Transform.SetPosition(mgl32.Vec3{1, 2, 3})

	f := ReadTransform(e)
	assert.Equal(t, [3]float32{1, 2, 3}, f.Position)
	assert.Equal(t, [3]float32{1, 1, 1}, f.Scale)

	f.Rotation = [3]float32{0, 90, 0}
	f.Scale = [3]float32{2, 2, 2}
	f.Apply(e)

	assert.Equal(t, mgl32.Vec3{0, 90, 0}, e.Transform.Rotation())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, e.Transform.Scale())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, e.Transform.Position())
	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90))).Mul4(mgl32.Scale3D(2, 2, 2))
	got := e.Transform.Matrix()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func TestProjectionClamp(t *testing.T) {
	p := Projection{Near: -1, Far: -5}
	p.Clamp()
	assert.Greater(t, p.Near, float32(0))
	assert.Greater(t, p.Far, p.Near)

	p = Projection{Near: 0.1, Far: 100}
	p.Clamp()
	assert.Equal(t, Projection{Near: 0.1, Far: 100}, p)
}
