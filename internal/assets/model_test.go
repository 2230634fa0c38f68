package assets_test

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/notanengine/internal/assets"
)

const crateOBJ = `mtllib crate.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
o Front
usemtl crate
f 1/1/1 2/2/1 3/3/1 4/4/1
o Side
usemtl bare
f 1 2 3
usemtl unknown
f 1/1 3/3 4/4
`

const crateMTL = `newmtl crate
Ns 32
map_Kd textures\crate_diff.png
map_Ks textures/crate_spec.png
newmtl bare
Kd 1 0 0
`

func TestLoadModel(t *testing.T) {
	e := newEnv(t)
	writeFile(t, filepath.Join(e.root, "models", "crate", "crate.obj"), []byte(crateOBJ))
	writeFile(t, filepath.Join(e.root, "models", "crate", "crate.mtl"), []byte(crateMTL))
	writeFile(t, filepath.Join(e.root, "models", "crate", "textures", "crate_diff.png"), pngBytes(t, 2, 2))
	writeFile(t, filepath.Join(e.root, "models", "crate", "textures", "crate_spec.png"), pngBytes(t, 2, 2))

	m := e.m.LoadModel("models/crate/crate.obj")
	require.Len(t, m.Submeshes, 3)

	front := m.Submeshes[0]
	assert.True(t, front.UseIndexedDrawing)
	assert.Equal(t, int32(6), front.IndexCount, "quad is fanned into two triangles")
	require.True(t, front.Material.HasDiffuse())
	require.Len(t, front.Material.SpecularMaps, 1)
	assert.Equal(t, float32(32), front.Material.Shininess)

	bare := m.Submeshes[1]
	assert.Equal(t, int32(3), bare.IndexCount)
	assert.False(t, bare.Material.HasDiffuse())
	assert.Equal(t, float32(assets.DefaultModelShininess), bare.Material.Shininess)

	unknown := m.Submeshes[2]
	assert.Equal(t, float32(assets.DefaultModelShininess), unknown.Material.Shininess)

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, m.Bounds.Min)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, m.Bounds.Max)
	assert.Equal(t, 2, e.api.Count("CreateTexture2D"))

	// Model textures are not flipped and are shared through the cache.
	again := e.m.LoadModel("models/crate/crate.obj")
	assert.Same(t, front.Material.DiffuseMaps[0], again.Submeshes[0].Material.DiffuseMaps[0])
	assert.Equal(t, 2, e.api.Count("CreateTexture2D"))
}

func TestLoadModelFailuresYieldEmptyMesh(t *testing.T) {
	e := newEnv(t)
	writeFile(t, filepath.Join(e.root, "bad.obj"), []byte("v 0 0 0\nf 1 2 3\n"))

	for _, path := range []string{"missing.obj", "bad.obj"} {
		m := e.m.LoadModel(path)
		require.NotNil(t, m, path)
		assert.True(t, m.Empty(), path)
	}
	assert.Zero(t, e.api.Count("CreateMesh"))
	assert.Equal(t, 1, e.logs.FilterMessage("model not found").Len())
	assert.Equal(t, 1, e.logs.FilterMessage("model failed to load").Len())
}

func TestLoadModelMissingMaterialLibrary(t *testing.T) {
	e := newEnv(t)
	writeFile(t, filepath.Join(e.root, "tri.obj"), []byte("mtllib none.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl x\nf 1 2 3\n"))

	m := e.m.LoadModel("tri.obj")
	require.Len(t, m.Submeshes, 1)
	assert.Equal(t, 1, e.logs.FilterMessage("material library not found").Len())
}

func TestLoadModelFlatNormalsAndFlippedV(t *testing.T) {
	e := newEnv(t)
	writeFile(t, filepath.Join(e.root, "tri.obj"), []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0.25\nf 1/1 2/1 3/1\n"))

	m := e.m.LoadModel("tri.obj")
	require.Len(t, m.Submeshes, 1)

	data := e.api.MeshData[m.Submeshes[0].VAO]
	require.Len(t, data, 3*8)
	for i := 0; i < 3; i++ {
		v := data[i*8 : i*8+8]
		assert.Equal(t, []float32{0, 0, 1}, v[3:6], "flat normal of vertex %d", i)
		assert.Equal(t, float32(0.75), v[7], "flipped v of vertex %d", i)
	}
}

func TestReleaseFreesModels(t *testing.T) {
	e := newEnv(t)
	writeFile(t, filepath.Join(e.root, "tri.obj"), []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))

	m := e.m.LoadModel("tri.obj")
	vao := m.Submeshes[0].VAO
	e.m.Release()

	assert.Equal(t, 1, e.api.DeletedMeshes[vao])
}

func TestLoadModelJoinsMaterialLibraries(t *testing.T) {
	e := newEnv(t)
	writeFile(t, filepath.Join(e.root, "lamp", "lamp.obj"), []byte("mtllib base.mtl metal.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl shiny\nf 1 2 3\n"))
	writeFile(t, filepath.Join(e.root, "lamp", "base.mtl"), []byte("newmtl plain\nKd 1 1 1\n"))
	writeFile(t, filepath.Join(e.root, "lamp", "metal.mtl"), []byte("newmtl shiny\nNs 64\nmap_Kd lamp_diff.png\nmap_Ks -bm 1 lamp_spec.png\n"))
	writeFile(t, filepath.Join(e.root, "lamp", "lamp_diff.png"), pngBytes(t, 2, 2))
	writeFile(t, filepath.Join(e.root, "lamp", "lamp_spec.png"), pngBytes(t, 2, 2))

	m := e.m.LoadModel("lamp/lamp.obj")
	require.Len(t, m.Submeshes, 1)

	mat := m.Submeshes[0].Material
	assert.Equal(t, float32(64), mat.Shininess)
	assert.Len(t, mat.DiffuseMaps, 1)
	assert.Len(t, mat.SpecularMaps, 1, "map_Ks options are skipped")
	assert.NotSame(t, mat.DiffuseMaps[0], mat.SpecularMaps[0])
}
