// Package shader wraps GPU programs with cached uniform lookups and the
// material binding convention the built-in shaders expect.
package shader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/notanengine/internal/engine/gpu"
	"github.com/Faultbox/notanengine/internal/engine/material"
)

// MaxMaterialTextures is the number of sampler units a material may occupy.
const MaxMaterialTextures = 15

// Program is a linked shader program.
type Program struct {
	ID   uint32
	Name string

	api       gpu.API
	log       *zap.Logger
	locations map[string]int32
}

// Option configures a Program.
type Option func(*Program)

// WithLogger routes compile diagnostics and material warnings to l.
func WithLogger(l *zap.Logger) Option {
	return func(p *Program) {
		if l != nil {
			p.log = l
		}
	}
}

// Compile builds a program from GLSL sources. A failed compile or link is
// logged and returned as err, but the program is still returned and usable:
// draws with it simply produce nothing.
func Compile(api gpu.API, name, vertexSrc, fragmentSrc string, opts ...Option) (*Program, error) {
	p := &Program{
		Name:      name,
		api:       api,
		log:       zap.NewNop(),
		locations: make(map[string]int32),
	}
	for _, opt := range opts {
		opt(p)
	}

	id, err := api.CompileProgram(vertexSrc, fragmentSrc)
	p.ID = id
	if err != nil {
		p.log.Error("shader program failed to build",
			zap.String("program", name),
			zap.Uint32("id", id),
			zap.Error(err))
		return p, fmt.Errorf("shader %s: %w", name, err)
	}
	p.log.Debug("shader program built", zap.String("program", name), zap.Uint32("id", id))
	return p, nil
}

// Reload replaces the program with one built from new sources. When the new
// sources fail the old program stays in use.
func (p *Program) Reload(vertexSrc, fragmentSrc string) error {
	id, err := p.api.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		p.api.DeleteProgram(id)
		p.log.Warn("shader reload failed, keeping previous program",
			zap.String("program", p.Name),
			zap.Error(err))
		return fmt.Errorf("reload shader %s: %w", p.Name, err)
	}

	p.api.DeleteProgram(p.ID)
	p.ID = id
	clear(p.locations)
	p.log.Info("shader reloaded", zap.String("program", p.Name), zap.Uint32("id", id))
	return nil
}

// Delete frees the program.
func (p *Program) Delete() {
	if p.ID != 0 {
		p.api.DeleteProgram(p.ID)
		p.ID = 0
	}
}

// Use makes the program current.
func (p *Program) Use() { p.api.UseProgram(p.ID) }

func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.api.UniformLocation(p.ID, name)
	p.locations[name] = loc
	return loc
}

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.api.Uniform1i(p.location(name), i)
}

func (p *Program) SetInt(name string, v int32)     { p.api.Uniform1i(p.location(name), v) }
func (p *Program) SetUInt(name string, v uint32)   { p.api.Uniform1ui(p.location(name), v) }
func (p *Program) SetFloat(name string, v float32) { p.api.Uniform1f(p.location(name), v) }

func (p *Program) SetVec3(name string, v mgl32.Vec3) { p.api.Uniform3f(p.location(name), v) }

func (p *Program) SetMat4(name string, m mgl32.Mat4) { p.api.UniformMatrix4(p.location(name), m) }

// SetMaterial binds a material's textures and parameters to the struct
// uniform called name. Diffuse map i goes to unit 2i and specular map i to
// unit 2i+1. A material needing more than MaxMaterialTextures units is
// skipped with a warning. The active unit is left at 0.
// name.specularCount is set to the number of specular maps.
func (p *Program) SetMaterial(name string, m *material.Material) {
	if m == nil {
		return
	}
	diffuse, specular := len(m.DiffuseMaps), len(m.SpecularMaps)
	if diffuse+specular > MaxMaterialTextures {
		p.log.Warn("material exceeds texture unit limit",
			zap.String("program", p.Name),
			zap.String("uniform", name),
			zap.Int("diffuse", diffuse),
			zap.Int("specular", specular),
			zap.Int("limit", MaxMaterialTextures))
		return
	}

	for i, tex := range m.DiffuseMaps {
		unit := uint32(2 * i)
		tex.SetUnit(unit)
		tex.Bind(p.api)
		p.SetInt(fmt.Sprintf("%s.texture_diffuse[%d]", name, i), int32(unit))
	}
	for i, tex := range m.SpecularMaps {
		unit := uint32(2*i + 1)
		tex.SetUnit(unit)
		tex.Bind(p.api)
		p.SetInt(fmt.Sprintf("%s.texture_specular[%d]", name, i), int32(unit))
	}

	// Samplers keep whatever unit the previous material left there, so the
	// shader only reads texture_specular[0] when specularCount is set.
	p.SetUInt(name+".specularCount", uint32(specular))
	p.SetFloat(name+".shininess", m.Shininess)
	p.SetFloat(name+".tilingFactor", m.TilingFactor)
	p.api.ActiveTexture(0)
}
