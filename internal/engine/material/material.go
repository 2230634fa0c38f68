// Package material groups the textures and surface parameters a submesh is
// shaded with.
package material

import "github.com/Faultbox/notanengine/internal/engine/texture"

// Default surface parameters.
const (
	DefaultShininess    = 10
	DefaultTilingFactor = 1
)

// Material references textures owned elsewhere (normally the asset cache).
// Releasing a material never frees GPU memory.
type Material struct {
	DiffuseMaps  []*texture.Texture
	SpecularMaps []*texture.Texture
	Shininess    float32
	TilingFactor float32
}

// New returns a material with the given diffuse maps and default parameters.
func New(diffuse ...*texture.Texture) *Material {
	return &Material{
		DiffuseMaps:  diffuse,
		Shininess:    DefaultShininess,
		TilingFactor: DefaultTilingFactor,
	}
}

// HasDiffuse reports whether at least one diffuse map is attached.
func (m *Material) HasDiffuse() bool {
	return m != nil && len(m.DiffuseMaps) > 0
}

// TextureCount is the number of texture units SetMaterial would need.
func (m *Material) TextureCount() int {
	if m == nil {
		return 0
	}
	return len(m.DiffuseMaps) + len(m.SpecularMaps)
}
