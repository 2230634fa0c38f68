// Package scene composes the demo world shared by both executables: the
// crate cubes, the tiled floor, the optional Sponza model, a sun and a
// flashlight that follows the camera.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/notanengine/internal/assets"
	"github.com/Faultbox/notanengine/internal/engine/camera"
	"github.com/Faultbox/notanengine/internal/engine/entity"
	"github.com/Faultbox/notanengine/internal/engine/gpu"
	"github.com/Faultbox/notanengine/internal/engine/input"
	"github.com/Faultbox/notanengine/internal/engine/lighting"
	"github.com/Faultbox/notanengine/internal/engine/material"
	"github.com/Faultbox/notanengine/internal/engine/mesh"
	"github.com/Faultbox/notanengine/internal/engine/render"
	"github.com/Faultbox/notanengine/internal/engine/shader"
	"github.com/Faultbox/notanengine/internal/engine/shader/builtin"
)

// Asset paths, relative to the assets root.
const (
	SponzaModel     = "models/Sponza/sponza.obj"
	CrateTexture    = "textures/container.jpg"
	FloorTexture    = "textures/trak_tile.jpg"
	FloorTiling     = 2
	SponzaScale     = 0.01
	FloorScale      = 10
	DirLightUniform = "u_dirLight"
	SpotUniform     = "u_spotLight"
	ViewPosUniform  = "u_viewPos"
)

// Entity names.
const (
	Sponza = "sponza"
	Cube   = "cube"
	Cube2  = "cube2"
	Floor  = "floor"
)

// Config contains scene configuration options.
type Config struct {
	Width  int
	Height int

	CameraPosition    mgl32.Vec3
	CameraSpeed       float32
	CameraSensitivity float32
	FOV               float32
	Near              float32
	Far               float32

	ClearColor   mgl32.Vec4
	Wireframe    bool
	CheckErrors  bool
	WatchShaders bool

	Assets assets.Options
	Logger *zap.Logger
}

// DefaultConfig returns the demo's settings.
func DefaultConfig() Config {
	return Config{
		Width:             1280,
		Height:            720,
		CameraPosition:    mgl32.Vec3{0, 0, 3},
		CameraSpeed:       1,
		CameraSensitivity: 1,
		FOV:               camera.MaxFOV,
		Near:              0.1,
		Far:               100,
		ClearColor:        mgl32.Vec4{0, 0, 0, 1},
	}
}

type outline struct {
	name   string
	factor float32
}

// Scene owns the asset manager, the renderer and everything in the world.
type Scene struct {
	config Config
	api    gpu.API
	log    *zap.Logger

	assets   *assets.Manager
	renderer *render.Renderer
	watcher  *assets.ShaderWatcher

	Camera    *camera.FreeLook
	Near, Far float32
	DirLight  *lighting.Directional
	SpotLight *lighting.Spot

	// OutlineColor is the color of the stencil silhouettes.
	OutlineColor mgl32.Vec3

	basic   *shader.Program
	lit     *shader.Program
	outline *shader.Program
	useLit  bool

	entities map[string]render.Drawable
	outlines []outline
	released bool
}

// New loads programs, textures and models and builds the world. The GPU
// context must be current. Only a missing program is fatal; every other
// load failure degrades to a placeholder.
func New(api gpu.API, cfg Config) (*Scene, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Assets.Logger == nil {
		cfg.Assets.Logger = log.Named("assets")
	}

	s := &Scene{
		config:       cfg,
		api:          api,
		log:          log,
		assets:       assets.NewManager(api, cfg.Assets),
		Near:         cfg.Near,
		Far:          cfg.Far,
		OutlineColor: mgl32.Vec3{1, 0, 0},
		useLit:       true,
		entities:     make(map[string]render.Drawable),
	}

	s.renderer = render.New(api, render.Config{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Wireframe:   cfg.Wireframe,
		CheckErrors: cfg.CheckErrors,
		Logger:      log.Named("render"),
	})
	s.renderer.Init()

	s.Camera = camera.New(cfg.CameraPosition)
	s.Camera.Speed = cfg.CameraSpeed
	s.Camera.Sensitivity = cfg.CameraSensitivity
	s.Camera.SetFOV(cfg.FOV)

	var err error
	if s.basic, err = s.loadProgram(builtin.Basic); err != nil {
		return nil, err
	}
	if s.lit, err = s.loadProgram(builtin.EntityLighting); err != nil {
		return nil, err
	}
	if s.outline, err = s.loadProgram(builtin.StencilOutline); err != nil {
		return nil, err
	}

	s.buildEntities()
	s.buildLights()

	if cfg.WatchShaders {
		if s.watcher, err = s.assets.WatchShaders(); err != nil {
			log.Warn("shader hot reload disabled", zap.Error(err))
		}
	}

	log.Info("scene ready",
		zap.Int("entities", len(s.entities)),
		zap.Int("textures", s.assets.TextureCount()))
	return s, nil
}

func (s *Scene) loadProgram(name string) (*shader.Program, error) {
	p, err := s.assets.LoadShader(name)
	if p == nil {
		return nil, fmt.Errorf("loading program %s: %w", name, err)
	}
	return p, nil
}

func (s *Scene) buildEntities() {
	// Model textures keep their rows; the loader flips V instead.
	sponza := entity.New(Sponza, s.assets.LoadModel(SponzaModel))
	sponza.Transform.SetUniformScale(SponzaScale)
	sponza.SetVisible(false)

	cubeMesh := s.assets.Own(mesh.Cube(s.api, s.textured(CrateTexture)))
	cube := entity.New(Cube, cubeMesh)

	cube2 := cube.Clone(Cube2)
	cube2.Transform.SetPosition(mgl32.Vec3{-1.5, 0, 0})

	floorMat := s.textured(FloorTexture)
	floorMat.TilingFactor = FloorTiling
	floor := entity.New(Floor, s.assets.Own(mesh.Plane(s.api, floorMat)))
	floor.Transform.SetPosition(mgl32.Vec3{0, -0.5, 0})
	floor.Transform.SetUniformScale(FloorScale)
	floor.Transform.Rotate(-90, mgl32.Vec3{1, 0, 0})

	for _, e := range []*entity.Entity{sponza, cube, cube2, floor} {
		s.entities[e.Name] = render.Drawable{Entity: e, Program: s.lit}
	}
	s.outlines = []outline{
		{name: Cube, factor: render.DefaultOutlineScale},
		{name: Cube2, factor: 1.05},
	}
}

// textured returns a material using the texture at path. A texture that
// failed to load is left out, so the renderer draws the mesh untextured.
func (s *Scene) textured(path string) *material.Material {
	mat := material.New()
	if tex := s.assets.LoadTexture(path); tex.Valid() {
		mat.DiffuseMaps = append(mat.DiffuseMaps, tex)
	}
	return mat
}

func (s *Scene) buildLights() {
	s.DirLight = lighting.NewDirectional(DirLightUniform)
	s.DirLight.Direction = mgl32.Vec3{-0.2, -1, 0}
	s.DirLight.Ambient = mgl32.Vec3{0.05, 0.05, 0.05}
	s.DirLight.Diffuse = mgl32.Vec3{0.4, 0.4, 0.4}
	s.DirLight.Specular = mgl32.Vec3{0.5, 0.5, 0.5}

	s.SpotLight = lighting.NewSpot(SpotUniform)
	s.SpotLight.Diffuse = mgl32.Vec3{0.4, 0.4, 0.4}
	s.SpotLight.Specular = mgl32.Vec3{0.4, 0.4, 0.4}
	s.SpotLight.Attenuation = lighting.Attenuation{Constant: 1, Linear: 0.09, Quadratic: 0.032}
	s.SpotLight.InnerCutoff = 12.5
	s.SpotLight.OuterCutoff = 17.5
	s.SpotLight.FollowCamera(s.Camera.Position(), s.Camera.Front())
}

// Renderer returns the scene's renderer.
func (s *Scene) Renderer() *render.Renderer { return s.renderer }

// Assets returns the scene's asset manager.
func (s *Scene) Assets() *assets.Manager { return s.assets }

// Entities returns the drawable map. Entries may be edited in place.
func (s *Scene) Entities() map[string]render.Drawable { return s.entities }

// Entity returns the named entity or nil.
func (s *Scene) Entity(name string) *entity.Entity { return s.entities[name].Entity }

// Lit reports whether entities are drawn with the lighting program.
func (s *Scene) Lit() bool { return s.useLit }

// SetLit switches every entity between the lighting program and the
// unlit textured one.
func (s *Scene) SetLit(lit bool) {
	s.useLit = lit
	p := s.basic
	if lit {
		p = s.lit
	}
	for name, d := range s.entities {
		d.Program = p
		s.entities[name] = d
	}
}

// Resize updates the viewport and the projection aspect.
func (s *Scene) Resize(width, height int) {
	s.renderer.Resize(width, height)
}

// Projection is the perspective matrix for the current camera and viewport.
func (s *Scene) Projection() mgl32.Mat4 {
	return s.Camera.Projection(s.renderer.Aspect(), s.Near, s.Far)
}

// Frame advances the world by dt seconds and draws it. Tab toggles mouse
// capture and P toggles wireframe; the host reacts to the capture state.
func (s *Scene) Frame(dt float32, in *input.State) {
	if in.Pressed(input.KeyToggleCursor) {
		in.SetCaptured(!in.Captured())
	}
	if in.Pressed(input.KeyToggleWireframe) {
		s.renderer.ToggleWireframe()
	}
	if s.watcher != nil {
		if names := s.assets.ReloadChanged(s.watcher); len(names) > 0 {
			s.log.Info("shaders reloaded", zap.Strings("programs", names))
		}
	}

	s.Camera.Update(dt, in)

	s.renderer.BeginFrame(s.config.ClearColor)

	view := s.Camera.ViewMatrix()
	projection := s.Projection()

	s.SpotLight.FollowCamera(s.Camera.Position(), s.Camera.Front())
	s.lit.Use()
	s.lit.SetVec3(ViewPosUniform, s.Camera.Position())
	s.DirLight.Apply(s.lit)
	s.SpotLight.Apply(s.lit)

	s.renderer.UpdateAndDrawEntityMap(s.entities, dt, view, projection)

	for _, o := range s.outlines {
		d, ok := s.entities[o.name]
		if !ok {
			continue
		}
		d.Entity.Update(dt)
		s.renderer.DrawOutlineEntity(d.Entity, d.Program, s.outline, s.OutlineColor, view, projection, o.factor)
	}

	s.renderer.EndFrame()
}

// Release stops the shader watcher and frees every GPU object the scene
// loaded. It runs once.
func (s *Scene) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.log.Warn("closing shader watcher", zap.Error(err))
		}
	}
	s.assets.Release()
}
