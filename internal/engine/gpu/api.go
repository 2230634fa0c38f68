// Package gpu is the narrow graphics API the engine core draws through.
//
// Mesh, shader, texture and render code never call OpenGL directly. They
// take an API, which is GL in the running program and a gputest.Recorder
// in tests.
package gpu

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PixelFormat is the channel layout of texture data.
type PixelFormat uint32

const (
	FormatRed PixelFormat = iota + 1
	FormatRGB
	FormatRGBA
)

// Channels returns the number of bytes per pixel.
func (f PixelFormat) Channels() int {
	switch f {
	case FormatRed:
		return 1
	case FormatRGB:
		return 3
	case FormatRGBA:
		return 4
	default:
		return 0
	}
}

func (f PixelFormat) String() string {
	switch f {
	case FormatRed:
		return "RED"
	case FormatRGB:
		return "RGB"
	case FormatRGBA:
		return "RGBA"
	default:
		return "UNKNOWN"
	}
}

// VertexAttrib describes one float attribute inside an interleaved vertex buffer.
// Stride and Offset are in bytes.
type VertexAttrib struct {
	Location   uint32
	Components int32
	Stride     int32
	Offset     int
}

// MeshHandles are the GPU objects backing one uploaded mesh. EBO is zero
// for non-indexed meshes.
type MeshHandles struct {
	VAO uint32
	VBO uint32
	EBO uint32
}

// CompareFunc is a depth/stencil comparison.
type CompareFunc uint32

const (
	Never CompareFunc = iota
	Always
	Less
	LessEqual
	Equal
	NotEqual
)

// StencilAction is what happens to a stencil value after a test.
type StencilAction uint32

const (
	Keep StencilAction = iota
	Zero
	Replace
)

// ClearMask selects buffers for Clear.
type ClearMask uint32

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
	ClearStencil

	ClearAll = ClearColor | ClearDepth | ClearStencil
)

// API is the set of GPU operations the engine needs.
type API interface {
	// CompileProgram compiles and links a program. On failure the returned
	// handle is still the created program object and err carries the
	// driver's info log.
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1ui(location int32, v uint32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, v mgl32.Vec3)
	UniformMatrix4(location int32, m mgl32.Mat4)

	// CreateTexture2D uploads tightly packed pixels with mipmaps and
	// repeat wrapping.
	CreateTexture2D(width, height int32, format PixelFormat, pixels []byte) uint32
	ActiveTexture(unit uint32)
	BindTexture2D(texture uint32)
	DeleteTexture(texture uint32)

	// CreateMesh uploads an interleaved vertex buffer and, when indices is
	// non-empty, an element buffer.
	CreateMesh(vertices []float32, indices []uint32, attribs []VertexAttrib) MeshHandles
	BindVertexArray(vao uint32)
	DrawElements(count int32)
	DrawArrays(count int32)
	DeleteMesh(h MeshHandles)

	SetDepthTest(enabled bool)
	SetDepthMask(write bool)
	SetStencilTest(enabled bool)
	StencilFunc(fn CompareFunc, ref int32, mask uint32)
	StencilOp(stencilFail, depthFail, pass StencilAction)
	StencilMask(mask uint32)
	SetWireframe(enabled bool)
	ClearColor(c mgl32.Vec4)
	Clear(mask ClearMask)
	Viewport(x, y, width, height int32)

	// CheckError drains the driver error queue and reports what it found.
	CheckError(op string) error
}
