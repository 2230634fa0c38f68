package material_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/notanengine/internal/engine/material"
	"github.com/Faultbox/notanengine/internal/engine/texture"
)

func TestNewDefaults(t *testing.T) {
	m := material.New()
	assert.Equal(t, float32(10), m.Shininess)
	assert.Equal(t, float32(1), m.TilingFactor)
	assert.False(t, m.HasDiffuse())
	assert.Zero(t, m.TextureCount())
}

func TestTextureCount(t *testing.T) {
	m := material.New(&texture.Texture{ID: 1}, &texture.Texture{ID: 2})
	m.SpecularMaps = []*texture.Texture{{ID: 3}}

	assert.True(t, m.HasDiffuse())
	assert.Equal(t, 3, m.TextureCount())
}

func TestNilMaterial(t *testing.T) {
	var m *material.Material
	assert.False(t, m.HasDiffuse())
	assert.Zero(t, m.TextureCount())
}
