package mesh

import (
	"github.com/Faultbox/notanengine/internal/engine/gpu"
	"github.com/Faultbox/notanengine/internal/engine/material"
)

// Submesh is one vertex array drawn with a single material.
//
// IndexCount holds the element count for indexed submeshes and the vertex
// count otherwise.
type Submesh struct {
	gpu.MeshHandles
	IndexCount        int32
	Material          *material.Material
	UseMaterial       bool
	UseIndexedDrawing bool
}

// NewSubmesh uploads interleaved vertex floats described by attribs.
// Indices may be nil for array drawing; mat may be nil for an untextured
// submesh.
func NewSubmesh(api gpu.API, vertices []float32, attribs []gpu.VertexAttrib, indices []uint32, mat *material.Material) *Submesh {
	s := &Submesh{
		MeshHandles:       api.CreateMesh(vertices, indices, attribs),
		UseIndexedDrawing: len(indices) > 0,
	}
	if s.UseIndexedDrawing {
		s.IndexCount = int32(len(indices))
	} else {
		s.IndexCount = int32(vertexCount(vertices, attribs))
	}
	s.SetMaterial(mat)
	return s
}

// FromVertices uploads vertices in DefaultLayout.
func FromVertices(api gpu.API, vertices []Vertex, indices []uint32, mat *material.Material) *Submesh {
	return NewSubmesh(api, Flatten(vertices), DefaultLayout, indices, mat)
}

func vertexCount(vertices []float32, attribs []gpu.VertexAttrib) int {
	if len(attribs) == 0 || attribs[0].Stride <= 0 {
		return 0
	}
	return len(vertices) / int(attribs[0].Stride/4)
}

// SetMaterial swaps the material. A nil material draws untextured.
func (s *Submesh) SetMaterial(m *material.Material) {
	s.Material = m
	s.UseMaterial = m != nil
}

// Valid reports whether the submesh has GPU storage.
func (s *Submesh) Valid() bool { return s.VAO != 0 }

func (s *Submesh) release(api gpu.API) {
	if s.Valid() {
		api.DeleteMesh(s.MeshHandles)
	}
	s.MeshHandles = gpu.MeshHandles{}
}
