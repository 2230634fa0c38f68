// Package gputest provides a recording gpu.API for tests that need to
// observe draw, bind and uniform traffic without a GL context.
package gputest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/notanengine/internal/engine/gpu"
)

// Call is one recorded API invocation.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string { return fmt.Sprintf("%s%v", c.Op, c.Args) }

// Recorder implements gpu.API by recording every call. Handles are
// allocated from a single counter starting at 1.
type Recorder struct {
	Calls []Call

	// CompileErr, when set, is returned by CompileProgram alongside a
	// valid handle, the way a driver reports a bad shader.
	CompileErr error

	next      uint32
	locations map[string]int32
	names     map[int32]string
	uniforms  map[string]any

	Textures        map[uint32]gpu.PixelFormat
	DeletedTextures map[uint32]int
	Meshes          map[uint32]gpu.MeshHandles
	MeshData        map[uint32][]float32
	DeletedMeshes   map[uint32]int
	DeletedPrograms map[uint32]int
}

var _ gpu.API = (*Recorder)(nil)

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{
		locations:       make(map[string]int32),
		names:           make(map[int32]string),
		uniforms:        make(map[string]any),
		Textures:        make(map[uint32]gpu.PixelFormat),
		DeletedTextures: make(map[uint32]int),
		Meshes:          make(map[uint32]gpu.MeshHandles),
		MeshData:        make(map[uint32][]float32),
		DeletedMeshes:   make(map[uint32]int),
		DeletedPrograms: make(map[uint32]int),
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) handle() uint32 {
	r.next++
	return r.next
}

// Reset forgets recorded calls and uniform values but keeps handles and
// uniform locations stable.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.uniforms = make(map[string]any)
}

// Count returns how many calls to op were recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the recorded operation names in order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Filter returns the recorded calls to op in order.
func (r *Recorder) Filter(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Uniform returns the last value written to the named uniform.
func (r *Recorder) Uniform(name string) (any, bool) {
	v, ok := r.uniforms[name]
	return v, ok
}

// TextureBindings returns, for each BindTexture2D, the texture bound and the
// unit that was active at the time.
func (r *Recorder) TextureBindings() map[uint32]uint32 {
	out := make(map[uint32]uint32)
	var unit uint32
	for _, c := range r.Calls {
		switch c.Op {
		case "ActiveTexture":
			unit = c.Args[0].(uint32)
		case "BindTexture2D":
			out[c.Args[0].(uint32)] = unit
		}
	}
	return out
}

func (r *Recorder) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	id := r.handle()
	r.record("CompileProgram", id)
	return id, r.CompileErr
}

func (r *Recorder) UseProgram(program uint32) { r.record("UseProgram", program) }

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram", program)
	r.DeletedPrograms[program]++
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	key := fmt.Sprintf("%d/%s", program, name)
	if loc, ok := r.locations[key]; ok {
		return loc
	}
	loc := int32(len(r.locations))
	r.locations[key] = loc
	r.names[loc] = name
	r.record("UniformLocation", program, name)
	return loc
}

func (r *Recorder) setUniform(op string, location int32, v any) {
	name := r.names[location]
	r.uniforms[name] = v
	r.record(op, name, v)
}

func (r *Recorder) Uniform1i(location int32, v int32)   { r.setUniform("Uniform1i", location, v) }
func (r *Recorder) Uniform1ui(location int32, v uint32) { r.setUniform("Uniform1ui", location, v) }
func (r *Recorder) Uniform1f(location int32, v float32) { r.setUniform("Uniform1f", location, v) }

func (r *Recorder) Uniform3f(location int32, v mgl32.Vec3) {
	r.setUniform("Uniform3f", location, v)
}

func (r *Recorder) UniformMatrix4(location int32, m mgl32.Mat4) {
	r.setUniform("UniformMatrix4", location, m)
}

func (r *Recorder) CreateTexture2D(width, height int32, format gpu.PixelFormat, pixels []byte) uint32 {
	if len(pixels) == 0 {
		r.record("CreateTexture2D", uint32(0))
		return 0
	}
	id := r.handle()
	r.Textures[id] = format
	r.record("CreateTexture2D", id, width, height, format)
	return id
}

func (r *Recorder) ActiveTexture(unit uint32)    { r.record("ActiveTexture", unit) }
func (r *Recorder) BindTexture2D(texture uint32) { r.record("BindTexture2D", texture) }

func (r *Recorder) DeleteTexture(texture uint32) {
	r.record("DeleteTexture", texture)
	r.DeletedTextures[texture]++
}

func (r *Recorder) CreateMesh(vertices []float32, indices []uint32, attribs []gpu.VertexAttrib) gpu.MeshHandles {
	if len(vertices) == 0 {
		r.record("CreateMesh", gpu.MeshHandles{})
		return gpu.MeshHandles{}
	}
	h := gpu.MeshHandles{VAO: r.handle(), VBO: r.handle()}
	if len(indices) > 0 {
		h.EBO = r.handle()
	}
	r.Meshes[h.VAO] = h
	r.MeshData[h.VAO] = append([]float32(nil), vertices...)
	r.record("CreateMesh", h, len(vertices), len(indices), len(attribs))
	return h
}

func (r *Recorder) BindVertexArray(vao uint32) { r.record("BindVertexArray", vao) }
func (r *Recorder) DrawElements(count int32)   { r.record("DrawElements", count) }
func (r *Recorder) DrawArrays(count int32)     { r.record("DrawArrays", count) }

func (r *Recorder) DeleteMesh(h gpu.MeshHandles) {
	r.record("DeleteMesh", h)
	r.DeletedMeshes[h.VAO]++
}

// DrawCalls returns the number of indexed plus non-indexed draws.
func (r *Recorder) DrawCalls() int {
	return r.Count("DrawElements") + r.Count("DrawArrays")
}

func (r *Recorder) SetDepthTest(enabled bool)   { r.record("SetDepthTest", enabled) }
func (r *Recorder) SetDepthMask(write bool)     { r.record("SetDepthMask", write) }
func (r *Recorder) SetStencilTest(enabled bool) { r.record("SetStencilTest", enabled) }

func (r *Recorder) StencilFunc(fn gpu.CompareFunc, ref int32, mask uint32) {
	r.record("StencilFunc", fn, ref, mask)
}

func (r *Recorder) StencilOp(stencilFail, depthFail, pass gpu.StencilAction) {
	r.record("StencilOp", stencilFail, depthFail, pass)
}

func (r *Recorder) StencilMask(mask uint32)            { r.record("StencilMask", mask) }
func (r *Recorder) SetWireframe(enabled bool)          { r.record("SetWireframe", enabled) }
func (r *Recorder) ClearColor(c mgl32.Vec4)            { r.record("ClearColor", c) }
func (r *Recorder) Clear(mask gpu.ClearMask)           { r.record("Clear", mask) }
func (r *Recorder) Viewport(x, y, width, height int32) { r.record("Viewport", x, y, width, height) }
func (r *Recorder) CheckError(op string) error         { return nil }
