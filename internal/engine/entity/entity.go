// Package entity places meshes in the world.
package entity

import (
	"github.com/Faultbox/notanengine/internal/engine/mesh"
	"github.com/Faultbox/notanengine/internal/engine/transform"
)

// Entity is a transform plus a mesh. The mesh is shared, not owned: clones
// draw the same GPU buffers and releasing an entity frees nothing.
type Entity struct {
	Name      string
	Transform transform.Transform
	Mesh      *mesh.StaticMesh

	visible bool
}

// New returns a visible entity at the origin.
func New(name string, m *mesh.StaticMesh) *Entity {
	return &Entity{
		Name:      name,
		Transform: transform.New(),
		Mesh:      m,
		visible:   true,
	}
}

// Update runs once per frame before drawing.
func (e *Entity) Update(dt float32) {
	e.Transform.Update()
}

func (e *Entity) Visible() bool     { return e.visible }
func (e *Entity) SetVisible(v bool) { e.visible = v }

// Clone copies the entity under a new name. The copy shares the mesh.
func (e *Entity) Clone(name string) *Entity {
	c := *e
	c.Name = name
	return &c
}
