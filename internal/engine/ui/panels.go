package ui

import (
	"fmt"
	"maps"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/notanengine/internal/engine/camera"
	"github.com/Faultbox/notanengine/internal/engine/entity"
	"github.com/Faultbox/notanengine/internal/engine/lighting"
	"github.com/Faultbox/notanengine/internal/engine/render"
)

// FrameHistory keeps the last frame times for the stats panel.
type FrameHistory struct {
	samples []float32 // ms
	next    int
	filled  int
}

// NewFrameHistory keeps up to n samples.
func NewFrameHistory(n int) *FrameHistory {
	return &FrameHistory{samples: make([]float32, max(n, 1))}
}

// Push records a frame duration in seconds.
func (h *FrameHistory) Push(dt float32) {
	h.samples[h.next] = dt * 1000
	h.next = (h.next + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))
}

// AverageMS is the mean frame time over the recorded samples.
func (h *FrameHistory) AverageMS() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, ms := range h.samples[:h.filled] {
		sum += ms
	}
	return sum / float32(h.filled)
}

// FPS derives frames per second from AverageMS.
func (h *FrameHistory) FPS() float32 {
	avg := h.AverageMS()
	if avg == 0 {
		return 0
	}
	return 1000 / avg
}

// FrameStats shows time per frame, FPS and the renderer's counters.
func FrameStats(dt float32, history *FrameHistory, stats render.Stats) {
	history.Push(dt)

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	if !imgui.BeginV("Frame stats", nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Time per frame: %.3f ms", dt*1000))
	if dt > 0 {
		imgui.Text(fmt.Sprintf("FPS: %.1f", 1/dt))
	}
	imgui.Text(fmt.Sprintf("Average: %.2f ms (%.0f FPS)", history.AverageMS(), history.FPS()))
	imgui.PlotLinesFloatPtr("##frametime", &history.samples[0], int32(len(history.samples)))

	imgui.Separator()
	imgui.Text(fmt.Sprintf("Draw calls: %d", stats.DrawCalls))
	imgui.Text(fmt.Sprintf("Entities: %d", stats.Entities))
	imgui.Text(fmt.Sprintf("Submeshes: %d", stats.Submeshes))

	imgui.End()
}

// TransformFields is the editable copy of an entity transform.
type TransformFields struct {
	Position [3]float32
	Rotation [3]float32
	Scale    [3]float32
}

// ReadTransform copies e's transform into editable arrays.
func ReadTransform(e *entity.Entity) TransformFields {
	return TransformFields{
		Position: e.Transform.Position(),
		Rotation: e.Transform.Rotation(),
		Scale:    e.Transform.Scale(),
	}
}

// Apply writes the fields back to e. The matrix is recomputed by the
// setters.
func (f TransformFields) Apply(e *entity.Entity) {
	e.Transform.SetPosition(mgl32.Vec3(f.Position))
	e.Transform.SetRotation(mgl32.Vec3(f.Rotation))
	e.Transform.SetScale(mgl32.Vec3(f.Scale))
}

// EntityProperties edits position, rotation, scale and visibility of every
// entity, in name order. The selected entity is highlighted.
func EntityProperties(entities map[string]render.Drawable, selected string) {
	if !imgui.BeginV("Entity Properties", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	for _, name := range slices.Sorted(maps.Keys(entities)) {
		e := entities[name].Entity
		if e == nil {
			continue
		}
		flags := imgui.TreeNodeFlagsDefaultOpen
		if name == selected {
			flags |= imgui.TreeNodeFlagsSelected
		}
		if !imgui.TreeNodeExStrV(name+"##entity", flags) {
			continue
		}

		fields := ReadTransform(e)
		changed := imgui.InputFloat3("Position##"+name, &fields.Position)
		changed = imgui.InputFloat3("Rotation##"+name, &fields.Rotation) || changed
		changed = imgui.InputFloat3("Scale##"+name, &fields.Scale) || changed
		if changed {
			fields.Apply(e)
		}

		visible := e.Visible()
		if imgui.Checkbox("Visible##"+name, &visible) {
			e.SetVisible(visible)
		}
		if e.Mesh != nil {
			imgui.TextDisabled(fmt.Sprintf("%d submeshes", len(e.Mesh.Submeshes)))
		}
		imgui.TreePop()
	}

	imgui.End()
}

// DirectionalLightProperties edits the sun: direction as raw vector or as
// azimuth/elevation, and the three color terms.
func DirectionalLightProperties(light *lighting.Directional) {
	if !imgui.BeginV("Directional Light Properties", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	dir := [3]float32(light.Direction)
	if imgui.SliderFloat3("Direction##dirLight", &dir, -1, 1) {
		light.Direction = mgl32.Vec3(dir)
	}

	azimuth, elevation := lighting.SunAngles(light.Direction)
	az, el := azimuth, elevation
	changed := imgui.SliderFloat("Azimuth##dirLight", &az, 0, 360)
	changed = imgui.SliderFloat("Elevation##dirLight", &el, -90, 90) || changed
	if changed {
		light.Direction = lighting.SunDirection(az, el)
	}

	colorSlider("Ambient##dirLight", &light.Ambient)
	colorSlider("Diffuse##dirLight", &light.Diffuse)
	colorSlider("Specular##dirLight", &light.Specular)

	imgui.End()
}

func colorSlider(label string, v *mgl32.Vec3) {
	c := [3]float32(*v)
	if imgui.SliderFloat3(label, &c, 0, 1) {
		*v = mgl32.Vec3(c)
	}
}

// Projection holds the clip planes edited next to the camera.
type Projection struct {
	Near float32
	Far  float32
}

// Clamp keeps the planes usable: near stays positive and far beyond it.
func (p *Projection) Clamp() {
	p.Near = max(p.Near, 0.001)
	if p.Far <= p.Near {
		p.Far = p.Near + 0.001
	}
}

// CameraProperties edits the camera's speed, sensitivity, fov and position
// and the projection planes.
func CameraProperties(cam *camera.FreeLook, proj *Projection) {
	if !imgui.BeginV("Camera and Projection", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.SliderFloat("Speed##camera", &cam.Speed, 0.1, 20)
	imgui.SliderFloat("Sensitivity##camera", &cam.Sensitivity, 0.01, 2)

	fov := cam.FOV()
	if imgui.SliderFloat("FOV##camera", &fov, camera.MinFOV, camera.MaxFOV) {
		cam.SetFOV(fov)
	}

	pos := [3]float32(cam.Position())
	if imgui.InputFloat3("Position##camera", &pos) {
		cam.SetPosition(mgl32.Vec3(pos))
	}
	imgui.Text(fmt.Sprintf("Yaw %.1f  Pitch %.1f", cam.Yaw(), cam.Pitch()))

	imgui.Separator()
	changed := imgui.InputFloat("Near##projection", &proj.Near)
	changed = imgui.InputFloat("Far##projection", &proj.Far) || changed
	if changed {
		proj.Clamp()
	}

	imgui.End()
}

// RendererProperties exposes the wireframe toggle.
func RendererProperties(r *render.Renderer) {
	if !imgui.BeginV("Renderer", nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.End()
		return
	}
	wireframe := r.Wireframe()
	if imgui.Checkbox("Wireframe", &wireframe) {
		r.SetWireframe(wireframe)
	}
	w, h := r.Size()
	imgui.TextDisabled(fmt.Sprintf("%dx%d", w, h))
	imgui.End()
}

// Background draws a texture over the whole work area, behind every panel.
// The texture is flipped on V to undo OpenGL's bottom-up rows.
func Background(textureID uint32) {
	x, y, w, h := Viewport()
	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))
	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove |
		imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsNoBringToFrontOnFocus |
		imgui.WindowFlagsNoSavedSettings | imgui.WindowFlagsNoInputs
	if imgui.BeginV("##scene", nil, flags) {
		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(textureID))
		imgui.ImageV(*texRef, imgui.NewVec2(w, h), imgui.NewVec2(0, 1), imgui.NewVec2(1, 0))
	}
	imgui.End()
	imgui.PopStyleVar()
}
