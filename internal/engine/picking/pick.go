package picking

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/notanengine/internal/engine/render"
)

// Pick returns the nearest visible entity hit by ray.
func Pick(ray Ray, entities map[string]render.Drawable) (name string, distance float32, ok bool) {
	for n, d := range entities {
		e := d.Entity
		if e == nil || e.Mesh == nil || !e.Visible() {
			continue
		}
		t, hit := ray.IntersectBounds(WorldBounds(e.Mesh.Bounds, e.Transform.Matrix()))
		if !hit {
			continue
		}
		// Ties resolve by name so repeated clicks are stable.
		if !ok || t < distance || (t == distance && n < name) {
			name, distance, ok = n, t, true
		}
	}
	return name, distance, ok
}

// PickScreen casts from pixel (x, y) of a width×height viewport.
func PickScreen(x, y, width, height float32, view, projection mgl32.Mat4, entities map[string]render.Drawable) (string, bool) {
	if width <= 0 || height <= 0 {
		return "", false
	}
	ray := ScreenToRay(x, y, width, height, projection.Mul4(view).Inv())
	name, _, ok := Pick(ray, entities)
	return name, ok
}
