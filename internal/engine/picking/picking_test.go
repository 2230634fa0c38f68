package picking_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/notanengine/internal/engine/entity"
	"github.com/Faultbox/notanengine/internal/engine/mesh"
	"github.com/Faultbox/notanengine/internal/engine/picking"
	"github.com/Faultbox/notanengine/internal/engine/render"
)

var unitBox = mesh.Bounds{Min: mgl32.Vec3{-0.5, -0.5, -0.5}, Max: mgl32.Vec3{0.5, 0.5, 0.5}}

func boxEntity(name string, pos mgl32.Vec3) *entity.Entity {
	m := mesh.NewStatic(name)
	m.Bounds = unitBox
	e := entity.New(name, m)
	e.Transform.SetPosition(pos)
	return e
}

func camera() (view, projection mgl32.Mat4) {
	view = mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	projection = mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)
	return view, projection
}

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

func TestScreenToRayThroughCenter(t *testing.T) {
	view, projection := camera()
	ray := picking.ScreenToRay(50, 50, 100, 100, projection.Mul4(view).Inv())

	assertVec(t, mgl32.Vec3{0, 0, -1}, ray.Direction)
	assertVec(t, mgl32.Vec3{0, 0, 2.9}, ray.Origin)
}

func TestIntersectBounds(t *testing.T) {
	tests := []struct {
		name string
		ray  picking.Ray
		hit  bool
		t    float32
	}{
		{"front", picking.Ray{Origin: mgl32.Vec3{0, 0, 3}, Direction: mgl32.Vec3{0, 0, -1}}, true, 2.5},
		{"inside", picking.Ray{Origin: mgl32.Vec3{}, Direction: mgl32.Vec3{1, 0, 0}}, true, 0.5},
		{"behind", picking.Ray{Origin: mgl32.Vec3{0, 0, 3}, Direction: mgl32.Vec3{0, 0, 1}}, false, 0},
		{"parallel outside", picking.Ray{Origin: mgl32.Vec3{0, 2, 3}, Direction: mgl32.Vec3{0, 0, -1}}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectBounds(unitBox)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.InDelta(t, tt.t, got, 1e-5)
			}
		})
	}
}

func TestIntersectPlaneY(t *testing.T) {
	ray := picking.Ray{Origin: mgl32.Vec3{1, 4, 1}, Direction: mgl32.Vec3{0, -1, 0}}
	x, z, ok := ray.IntersectPlaneY(0)
	require.True(t, ok)
	assert.Equal(t, float32(1), x)
	assert.Equal(t, float32(1), z)

	_, _, ok = ray.IntersectPlaneY(5)
	assert.False(t, ok, "plane behind the origin")

	flat := picking.Ray{Direction: mgl32.Vec3{1, 0, 0}}
	_, _, ok = flat.IntersectPlaneY(0)
	assert.False(t, ok)
}

func TestWorldBounds(t *testing.T) {
	scaled := picking.WorldBounds(unitBox, mgl32.Translate3D(1, 0, 0).Mul4(mgl32.Scale3D(2, 2, 2)))
	assertVec(t, mgl32.Vec3{0, -1, -1}, scaled.Min)
	assertVec(t, mgl32.Vec3{2, 1, 1}, scaled.Max)

	box := mesh.Bounds{Max: mgl32.Vec3{1, 1, 2}}
	rotated := picking.WorldBounds(box, mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	assertVec(t, mgl32.Vec3{0, 0, -1}, rotated.Min)
	assertVec(t, mgl32.Vec3{2, 1, 0}, rotated.Max)
}

func TestPickScreenNearestVisible(t *testing.T) {
	near := boxEntity("cube", mgl32.Vec3{})
	far := boxEntity("cube2", mgl32.Vec3{0, 0, -3})
	entities := map[string]render.Drawable{
		"cube":  {Entity: near},
		"cube2": {Entity: far},
		"empty": {},
	}
	view, projection := camera()

	name, ok := picking.PickScreen(50, 50, 100, 100, view, projection, entities)
	require.True(t, ok)
	assert.Equal(t, "cube", name)

	near.SetVisible(false)
	name, ok = picking.PickScreen(50, 50, 100, 100, view, projection, entities)
	require.True(t, ok)
	assert.Equal(t, "cube2", name)

	_, ok = picking.PickScreen(0, 0, 100, 100, view, projection, entities)
	assert.False(t, ok, "corner ray misses both boxes")

	_, ok = picking.PickScreen(50, 50, 0, 0, view, projection, entities)
	assert.False(t, ok)
}
