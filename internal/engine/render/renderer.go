// Package render draws entities through the gpu API: one draw call per
// submesh, with an optional stencil outline pass.
package render

import (
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/notanengine/internal/engine/entity"
	"github.com/Faultbox/notanengine/internal/engine/gpu"
	"github.com/Faultbox/notanengine/internal/engine/mesh"
	"github.com/Faultbox/notanengine/internal/engine/shader"
	"github.com/Faultbox/notanengine/internal/engine/transform"
)

// Uniform names the built-in programs read.
const (
	UniformModel        = "u_model"
	UniformView         = "u_view"
	UniformProjection   = "u_projection"
	UniformUseMaterial  = "u_useMaterial"
	UniformMaterial     = "u_material"
	UniformOutlineColor = "u_outlineColor"
)

// DefaultOutlineScale is how much larger the outline silhouette is drawn.
const DefaultOutlineScale = 1.1

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	Wireframe   bool
	CheckErrors bool
	Logger      *zap.Logger
}

// Stats counts the work of the current frame. Submeshes counts distinct
// submeshes drawn; outline passes add draw calls only.
type Stats struct {
	DrawCalls int
	Entities  int
	Submeshes int
}

// Renderer owns frame-level GPU state.
type Renderer struct {
	api    gpu.API
	config Config
	log    *zap.Logger
	stats  Stats
}

// Drawable pairs an entity with the program it is drawn with.
type Drawable struct {
	Entity  *entity.Entity
	Program *shader.Program
}

// New creates a renderer. Call Init once the GPU context is current.
func New(api gpu.API, cfg Config) *Renderer {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{api: api, config: cfg, log: log}
}

// Init sets the default depth and stencil state. The stencil test is on
// but, with a zero write mask set per frame, plain draws leave it
// untouched.
func (r *Renderer) Init() {
	r.api.SetDepthTest(true)
	r.api.SetStencilTest(true)
	r.api.StencilFunc(gpu.NotEqual, 1, 0xFF)
	r.api.StencilOp(gpu.Keep, gpu.Keep, gpu.Replace)
	r.api.SetWireframe(r.config.Wireframe)
	r.api.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	r.log.Debug("renderer initialized",
		zap.Int("width", r.config.Width),
		zap.Int("height", r.config.Height))
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	r.api.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (width, height int) { return r.config.Width, r.config.Height }

// Aspect is the viewport width over height, or 1 for a degenerate viewport.
func (r *Renderer) Aspect() float32 {
	if r.config.Width <= 0 || r.config.Height <= 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// BeginFrame clears every buffer and resets frame stats.
func (r *Renderer) BeginFrame(clearColor mgl32.Vec4) {
	r.stats = Stats{}
	r.api.ClearColor(clearColor)
	r.api.StencilMask(0xFF)
	r.api.Clear(gpu.ClearAll)
	r.api.StencilMask(0x00)
}

// EndFrame reports GPU errors raised during the frame when error checking
// is enabled.
func (r *Renderer) EndFrame() {
	if !r.config.CheckErrors {
		return
	}
	if err := r.api.CheckError("frame"); err != nil {
		r.log.Error("gpu error", zap.Error(err))
	}
}

func (r *Renderer) Wireframe() bool { return r.config.Wireframe }

// SetWireframe switches polygon fill mode.
func (r *Renderer) SetWireframe(enabled bool) {
	r.config.Wireframe = enabled
	r.api.SetWireframe(enabled)
}

// ToggleWireframe flips polygon fill mode.
func (r *Renderer) ToggleWireframe() { r.SetWireframe(!r.config.Wireframe) }

// Stats returns the counters of the frame in progress.
func (r *Renderer) Stats() Stats { return r.stats }

// DrawSubmesh issues the draw call for one submesh with p already in use.
// A submesh that asks for a material but has no diffuse map is switched to
// untextured for good.
func (r *Renderer) DrawSubmesh(p *shader.Program, s *mesh.Submesh) {
	if s.UseMaterial && !s.Material.HasDiffuse() {
		r.log.Warn("material has no diffuse map, drawing untextured",
			zap.String("program", p.Name),
			zap.Uint32("vao", s.VAO))
		s.UseMaterial = false
	}

	p.SetBool(UniformUseMaterial, s.UseMaterial)
	if s.UseMaterial {
		p.SetMaterial(UniformMaterial, s.Material)
	}
	r.draw(s)
	r.stats.Submeshes++
}

func (r *Renderer) draw(s *mesh.Submesh) {
	r.api.BindVertexArray(s.VAO)
	if s.UseIndexedDrawing {
		r.api.DrawElements(s.IndexCount)
	} else {
		r.api.DrawArrays(s.IndexCount)
	}
	r.stats.DrawCalls++
}

// DrawStaticMesh draws every submesh in order.
func (r *Renderer) DrawStaticMesh(p *shader.Program, m *mesh.StaticMesh) {
	if m == nil {
		return
	}
	for _, s := range m.Submeshes {
		r.DrawSubmesh(p, s)
	}
}

// DrawEntity draws e with p. Invisible entities issue no GPU calls.
func (r *Renderer) DrawEntity(e *entity.Entity, p *shader.Program, view, projection mgl32.Mat4) {
	if !e.Visible() {
		return
	}
	p.Use()
	p.SetMat4(UniformModel, e.Transform.Matrix())
	p.SetMat4(UniformView, view)
	p.SetMat4(UniformProjection, projection)
	r.DrawStaticMesh(p, e.Mesh)
	r.stats.Entities++
}

// UpdateAndDrawEntity advances e by dt and draws it.
func (r *Renderer) UpdateAndDrawEntity(e *entity.Entity, p *shader.Program, dt float32, view, projection mgl32.Mat4) {
	e.Update(dt)
	r.DrawEntity(e, p, view, projection)
}

// UpdateAndDrawEntityMap updates and draws every entry in name order.
func (r *Renderer) UpdateAndDrawEntityMap(entities map[string]Drawable, dt float32, view, projection mgl32.Mat4) {
	for _, name := range slices.Sorted(maps.Keys(entities)) {
		d := entities[name]
		r.UpdateAndDrawEntity(d.Entity, d.Program, dt, view, projection)
	}
}

// DrawOutlineEntity draws e normally while writing 1 into the stencil
// buffer, then draws it again scaled by factor with the outline program
// wherever the stencil is not 1. Depth writes are off for the second pass.
func (r *Renderer) DrawOutlineEntity(e *entity.Entity, p, outline *shader.Program, color mgl32.Vec3, view, projection mgl32.Mat4, factor float32) {
	if !e.Visible() {
		return
	}

	r.api.StencilFunc(gpu.Always, 1, 0xFF)
	r.api.StencilMask(0xFF)
	r.DrawEntity(e, p, view, projection)

	r.api.StencilFunc(gpu.NotEqual, 1, 0xFF)
	r.api.StencilMask(0x00)
	r.api.SetDepthMask(false)

	t := &e.Transform
	scaled := transform.Compose(t.Position(), t.Rotation(), t.Scale().Mul(factor))

	outline.Use()
	outline.SetMat4(UniformModel, scaled)
	outline.SetMat4(UniformView, view)
	outline.SetMat4(UniformProjection, projection)
	outline.SetVec3(UniformOutlineColor, color)
	if e.Mesh != nil {
		for _, s := range e.Mesh.Submeshes {
			r.draw(s)
		}
	}

	r.api.StencilMask(0xFF)
	r.api.StencilFunc(gpu.Always, 0, 0xFF)
	r.api.SetDepthMask(true)
}
