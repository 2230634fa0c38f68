package shader_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/notanengine/internal/engine/gpu/gputest"
	"github.com/Faultbox/notanengine/internal/engine/material"
	"github.com/Faultbox/notanengine/internal/engine/shader"
	"github.com/Faultbox/notanengine/internal/engine/texture"
)

func newProgram(t *testing.T) (*shader.Program, *gputest.Recorder, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	api := gputest.New()
	p, err := shader.Compile(api, "test", "vs", "fs", shader.WithLogger(zap.New(core)))
	require.NoError(t, err)
	api.Reset()
	logs.TakeAll()
	return p, api, logs
}

// textures returns n textures with distinct IDs starting at first.
func textures(first uint32, n int) []*texture.Texture {
	out := make([]*texture.Texture, n)
	for i := range out {
		out[i] = &texture.Texture{ID: first + uint32(i)}
	}
	return out
}

func TestCompileFailureKeepsHandle(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	api := gputest.New()
	api.CompileErr = errors.New("fragment: 0:1: syntax error")

	p, err := shader.Compile(api, "broken", "vs", "fs", shader.WithLogger(zap.New(core)))
	require.Error(t, err)
	require.NotNil(t, p)
	assert.NotZero(t, p.ID)
	assert.Equal(t, 1, logs.FilterMessage("shader program failed to build").Len())

	p.Use()
	assert.Equal(t, 1, api.Count("UseProgram"))
}

func TestUniformLocationsAreCached(t *testing.T) {
	p, api, _ := newProgram(t)

	p.SetFloat("u_time", 1)
	p.SetFloat("u_time", 2)
	p.SetVec3("u_viewPos", mgl32.Vec3{1, 2, 3})

	assert.Equal(t, 2, api.Count("UniformLocation"))
	v, _ := api.Uniform("u_time")
	assert.Equal(t, float32(2), v)
}

func TestSetBool(t *testing.T) {
	p, api, _ := newProgram(t)

	p.SetBool("u_useMaterial", true)
	v, _ := api.Uniform("u_useMaterial")
	assert.Equal(t, int32(1), v)

	p.SetBool("u_useMaterial", false)
	v, _ = api.Uniform("u_useMaterial")
	assert.Equal(t, int32(0), v)
}

func TestSetMaterialInterleavesUnits(t *testing.T) {
	tests := []struct {
		diffuse, specular int
	}{
		{1, 0},
		{1, 1},
		{3, 2},
		{8, 7},
		{0, 4},
	}

	for _, tt := range tests {
		p, api, logs := newProgram(t)
		mat := material.New(textures(100, tt.diffuse)...)
		mat.SpecularMaps = textures(200, tt.specular)

		p.SetMaterial("u_material", mat)

		bindings := api.TextureBindings()
		require.Len(t, bindings, tt.diffuse+tt.specular)

		used := make(map[uint32]bool)
		for i, tex := range mat.DiffuseMaps {
			unit := bindings[tex.ID]
			assert.Equal(t, uint32(2*i), unit)
			assert.False(t, used[unit], "unit %d reused", unit)
			used[unit] = true
		}
		for i, tex := range mat.SpecularMaps {
			unit := bindings[tex.ID]
			assert.Equal(t, uint32(2*i+1), unit)
			assert.False(t, used[unit], "unit %d reused", unit)
			used[unit] = true
		}

		ops := api.Ops()
		assert.Equal(t, "ActiveTexture", ops[len(ops)-1])
		last := api.Calls[len(api.Calls)-1]
		assert.Equal(t, uint32(0), last.Args[0])
		assert.Zero(t, logs.Len())
	}
}

func TestSetMaterialSamplerUniforms(t *testing.T) {
	p, api, _ := newProgram(t)
	mat := material.New(textures(1, 2)...)
	mat.SpecularMaps = textures(10, 1)
	mat.Shininess = 32
	mat.TilingFactor = 2

	p.SetMaterial("u_material", mat)

	for name, want := range map[string]any{
		"u_material.texture_diffuse[0]":  int32(0),
		"u_material.texture_diffuse[1]":  int32(2),
		"u_material.texture_specular[0]": int32(1),
		"u_material.specularCount":       uint32(1),
		"u_material.shininess":           float32(32),
		"u_material.tilingFactor":        float32(2),
	} {
		got, ok := api.Uniform(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}

func TestSetMaterialWithoutSpecularClearsCount(t *testing.T) {
	p, api, _ := newProgram(t)
	shiny := material.New(textures(10, 1)...)
	shiny.SpecularMaps = textures(11, 1)
	plain := material.New(textures(20, 1)...)

	p.SetMaterial("u_material", shiny)
	count, _ := api.Uniform("u_material.specularCount")
	assert.Equal(t, uint32(1), count)

	p.SetMaterial("u_material", plain)
	count, _ = api.Uniform("u_material.specularCount")
	assert.Equal(t, uint32(0), count, "a diffuse-only material must not sample the previous specular map")

	// The stale sampler is still pointing at unit 1; only the count guards it.
	sampler, _ := api.Uniform("u_material.texture_specular[0]")
	assert.Equal(t, int32(1), sampler)
	assert.Equal(t, uint32(0), api.TextureBindings()[20])
}

func TestSetMaterialOverLimit(t *testing.T) {
	p, api, logs := newProgram(t)
	mat := material.New(textures(1, 10)...)
	mat.SpecularMaps = textures(100, 6)

	p.SetMaterial("u_material", mat)

	assert.Zero(t, api.Count("BindTexture2D"))
	assert.Zero(t, api.Count("ActiveTexture"))
	assert.Zero(t, api.Count("Uniform1i"))

	warnings := logs.FilterLevelExact(zapcore.WarnLevel)
	require.Equal(t, 1, warnings.Len())
	fields := warnings.All()[0].ContextMap()
	assert.Equal(t, int64(10), fields["diffuse"])
	assert.Equal(t, int64(6), fields["specular"])
}

func TestSetMaterialAtLimit(t *testing.T) {
	p, api, logs := newProgram(t)
	mat := material.New(textures(1, 8)...)
	mat.SpecularMaps = textures(100, 7)

	p.SetMaterial("u_material", mat)

	assert.Equal(t, shader.MaxMaterialTextures, api.Count("BindTexture2D"))
	assert.Zero(t, logs.Len())
}

func TestReload(t *testing.T) {
	p, api, logs := newProgram(t)
	oldID := p.ID
	p.SetFloat("u_time", 1)

	require.NoError(t, p.Reload("vs2", "fs2"))
	assert.NotEqual(t, oldID, p.ID)
	assert.Equal(t, 1, api.DeletedPrograms[oldID])

	// Locations are looked up again against the new program.
	p.SetFloat("u_time", 1)
	assert.Equal(t, 2, api.Count("UniformLocation"))
	assert.Equal(t, 1, logs.FilterMessage("shader reloaded").Len())
}

func TestReloadFailureKeepsProgram(t *testing.T) {
	p, api, logs := newProgram(t)
	oldID := p.ID

	api.CompileErr = errors.New("link: missing main")
	require.Error(t, p.Reload("bad", "bad"))

	assert.Equal(t, oldID, p.ID)
	assert.Zero(t, api.DeletedPrograms[oldID])
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestDelete(t *testing.T) {
	p, api, _ := newProgram(t)
	id := p.ID

	p.Delete()
	p.Delete()
	assert.Equal(t, 1, api.DeletedPrograms[id])
}
