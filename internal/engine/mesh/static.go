package mesh

import (
	"github.com/Faultbox/notanengine/internal/engine/gpu"
	"github.com/Faultbox/notanengine/internal/engine/material"
)

// StaticMesh is an ordered set of submeshes. It may be shared by several
// entities; whoever created it releases it.
type StaticMesh struct {
	Name      string
	Submeshes []*Submesh
	Bounds    Bounds

	released bool
}

// NewStatic wraps submeshes into a mesh.
func NewStatic(name string, submeshes ...*Submesh) *StaticMesh {
	return &StaticMesh{Name: name, Submeshes: submeshes}
}

// Add appends a submesh.
func (m *StaticMesh) Add(s *Submesh) {
	m.Submeshes = append(m.Submeshes, s)
}

// Empty reports whether there is nothing to draw.
func (m *StaticMesh) Empty() bool {
	return m == nil || len(m.Submeshes) == 0
}

// SetMaterial assigns mat to every submesh.
func (m *StaticMesh) SetMaterial(mat *material.Material) {
	for _, s := range m.Submeshes {
		s.SetMaterial(mat)
	}
}

// Triangles counts triangles across submeshes.
func (m *StaticMesh) Triangles() int {
	n := 0
	for _, s := range m.Submeshes {
		n += int(s.IndexCount) / 3
	}
	return n
}

// Release frees the GPU buffers of every submesh. Later calls are no-ops.
func (m *StaticMesh) Release(api gpu.API) {
	if m == nil || m.released {
		return
	}
	for _, s := range m.Submeshes {
		s.release(api)
	}
	m.released = true
}
