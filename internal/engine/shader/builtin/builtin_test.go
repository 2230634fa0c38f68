package builtin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/notanengine/internal/engine/shader/builtin"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{builtin.Basic, builtin.EntityLighting, builtin.StencilOutline}, builtin.Names())
}

func TestSource(t *testing.T) {
	for _, name := range builtin.Names() {
		vs, fs, ok := builtin.Source(name)
		require.True(t, ok, name)
		assert.Contains(t, vs, "#version 410 core")
		assert.Contains(t, vs, "u_model")
		assert.Contains(t, fs, "FragColor")
	}

	vs, fs, ok := builtin.Source("missing")
	assert.False(t, ok)
	assert.Empty(t, vs)
	assert.Empty(t, fs)
}

func TestMaterialUniformsDeclared(t *testing.T) {
	_, fs, ok := builtin.Source(builtin.EntityLighting)
	require.True(t, ok)
	for _, u := range []string{"texture_diffuse", "texture_specular", "shininess", "tilingFactor", "u_dirLight", "u_spotLight", "u_viewPos"} {
		assert.Contains(t, fs, u)
	}
}
