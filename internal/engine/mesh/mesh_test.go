package mesh_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/notanengine/internal/engine/gpu/gputest"
	"github.com/Faultbox/notanengine/internal/engine/material"
	"github.com/Faultbox/notanengine/internal/engine/mesh"
)

func TestFlattenMatchesLayout(t *testing.T) {
	v := mesh.Vertex{
		Position:  mgl32.Vec3{1, 2, 3},
		Normal:    mgl32.Vec3{4, 5, 6},
		TexCoords: mgl32.Vec2{7, 8},
	}
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, mesh.Flatten([]mesh.Vertex{v}))

	require.Len(t, mesh.DefaultLayout, 3)
	for i, a := range mesh.DefaultLayout {
		assert.Equal(t, uint32(i), a.Location)
		assert.Equal(t, int32(32), a.Stride)
	}
	assert.Equal(t, 24, mesh.DefaultLayout[2].Offset)
}

func TestFaceNormal(t *testing.T) {
	n, ok := mesh.FaceNormal(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, n)

	_, ok = mesh.FaceNormal(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{2, 2, 2})
	assert.False(t, ok, "collinear points are degenerate")
}

func TestBoundsOf(t *testing.T) {
	b := mesh.BoundsOf([]mesh.Vertex{
		{Position: mgl32.Vec3{-1, 2, 0}},
		{Position: mgl32.Vec3{3, -4, 1}},
	})
	assert.Equal(t, mgl32.Vec3{-1, -4, 0}, b.Min)
	assert.Equal(t, mgl32.Vec3{3, 2, 1}, b.Max)
	assert.Equal(t, mgl32.Vec3{1, -1, 0.5}, b.Center())
	assert.Equal(t, mgl32.Vec3{4, 6, 1}, b.Size())

	assert.Equal(t, mesh.Bounds{}, mesh.BoundsOf(nil))
}

func TestNonIndexedSubmeshCountsVertices(t *testing.T) {
	api := gputest.New()
	s := mesh.NewSubmesh(api, make([]float32, 3*8), mesh.DefaultLayout, nil, nil)

	assert.True(t, s.Valid())
	assert.False(t, s.UseIndexedDrawing)
	assert.False(t, s.UseMaterial)
	assert.Equal(t, int32(3), s.IndexCount)
	assert.Zero(t, s.EBO)
}

func TestIndexedSubmeshWithMaterial(t *testing.T) {
	api := gputest.New()
	mat := material.New()
	s := mesh.FromVertices(api, make([]mesh.Vertex, 4), []uint32{0, 1, 2, 2, 3, 0}, mat)

	assert.True(t, s.UseIndexedDrawing)
	assert.True(t, s.UseMaterial)
	assert.Same(t, mat, s.Material)
	assert.Equal(t, int32(6), s.IndexCount)
	assert.NotZero(t, s.EBO)
}

func TestSetMaterialHotSwap(t *testing.T) {
	api := gputest.New()
	s := mesh.FromVertices(api, make([]mesh.Vertex, 3), nil, nil)

	mat := material.New()
	s.SetMaterial(mat)
	assert.True(t, s.UseMaterial)

	s.SetMaterial(nil)
	assert.False(t, s.UseMaterial)
	assert.Nil(t, s.Material)
}

func TestPrimitives(t *testing.T) {
	api := gputest.New()

	cube := mesh.Cube(api, nil)
	require.Len(t, cube.Submeshes, 1)
	assert.Equal(t, int32(mesh.CubeVertexCount), cube.Submeshes[0].IndexCount)
	assert.False(t, cube.Submeshes[0].UseIndexedDrawing)
	assert.Equal(t, 12, cube.Triangles())

	plane := mesh.Plane(api, material.New())
	require.Len(t, plane.Submeshes, 1)
	assert.True(t, plane.Submeshes[0].UseIndexedDrawing)
	assert.Equal(t, int32(6), plane.Submeshes[0].IndexCount)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, plane.Bounds.Size())
}

func TestReleaseOnce(t *testing.T) {
	api := gputest.New()
	m := mesh.NewStatic("pair",
		mesh.FromVertices(api, make([]mesh.Vertex, 3), nil, nil),
		mesh.FromVertices(api, make([]mesh.Vertex, 3), nil, nil),
	)
	vaos := []uint32{m.Submeshes[0].VAO, m.Submeshes[1].VAO}

	m.Release(api)
	m.Release(api)

	for _, vao := range vaos {
		assert.Equal(t, 1, api.DeletedMeshes[vao])
	}
	assert.Equal(t, 2, api.Count("DeleteMesh"))
	assert.False(t, m.Submeshes[0].Valid())
}

func TestEmptySubmeshIsNotReleased(t *testing.T) {
	api := gputest.New()
	m := mesh.NewStatic("empty", mesh.NewSubmesh(api, nil, mesh.DefaultLayout, nil, nil))

	m.Release(api)
	assert.Zero(t, api.Count("DeleteMesh"))
	assert.False(t, m.Empty())
	assert.True(t, (*mesh.StaticMesh)(nil).Empty())
}
