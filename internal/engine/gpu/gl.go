package gpu

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// GL implements API on top of an OpenGL 4.1 core context. It must only be
// used from the thread that owns the context.
type GL struct{}

// InitGL loads the OpenGL function pointers for the current context and
// logs the driver in use.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func InitGL(log *zap.Logger) (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)
	return &GL{}, nil
}

func (*GL) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	program := gl.CreateProgram()

	var errs []string
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		errs = append(errs, "vertex: "+err.Error())
	}
	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		errs = append(errs, "fragment: "+err.Error())
	}

	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		errs = append(errs, "link: "+infoLog(logLen, func(buf *uint8) {
			gl.GetProgramInfoLog(program, logLen, nil, buf)
		}))
	}

	if len(errs) > 0 {
		return program, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		return shader, fmt.Errorf("%s", infoLog(logLen, func(buf *uint8) {
			gl.GetShaderInfoLog(shader, logLen, nil, buf)
		}))
	}
	return shader, nil
}

func infoLog(n int32, read func(*uint8)) string {
	if n <= 0 {
		return "no info log"
	}
	buf := make([]byte, n)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func (*GL) UseProgram(program uint32)    { gl.UseProgram(program) }
func (*GL) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (*GL) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*GL) Uniform1i(location int32, v int32)   { gl.Uniform1i(location, v) }
func (*GL) Uniform1ui(location int32, v uint32) { gl.Uniform1ui(location, v) }
func (*GL) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (*GL) Uniform3f(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (*GL) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

var glFormats = map[PixelFormat]uint32{
	FormatRed:  gl.RED,
	FormatRGB:  gl.RGB,
	FormatRGBA: gl.RGBA,
}

func (*GL) CreateTexture2D(width, height int32, format PixelFormat, pixels []byte) uint32 {
	glFormat, ok := glFormats[format]
	if !ok || len(pixels) == 0 {
		return 0
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(glFormat), width, height, 0, glFormat, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

func (*GL) ActiveTexture(unit uint32)    { gl.ActiveTexture(gl.TEXTURE0 + unit) }
func (*GL) BindTexture2D(texture uint32) { gl.BindTexture(gl.TEXTURE_2D, texture) }

func (*GL) DeleteTexture(texture uint32) {
	if texture != 0 {
		gl.DeleteTextures(1, &texture)
	}
}

func (*GL) CreateMesh(vertices []float32, indices []uint32, attribs []VertexAttrib) MeshHandles {
	var h MeshHandles
	if len(vertices) == 0 {
		return h
	}

	gl.GenVertexArrays(1, &h.VAO)
	gl.BindVertexArray(h.VAO)

	gl.GenBuffers(1, &h.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	if len(indices) > 0 {
		gl.GenBuffers(1, &h.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, h.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	}

	for _, a := range attribs {
		gl.VertexAttribPointerWithOffset(a.Location, a.Components, gl.FLOAT, false, a.Stride, uintptr(a.Offset))
		gl.EnableVertexAttribArray(a.Location)
	}

	gl.BindVertexArray(0)
	return h
}

func (*GL) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (*GL) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
}

func (*GL) DrawArrays(count int32) { gl.DrawArrays(gl.TRIANGLES, 0, count) }

func (*GL) DeleteMesh(h MeshHandles) {
	if h.EBO != 0 {
		gl.DeleteBuffers(1, &h.EBO)
	}
	if h.VBO != 0 {
		gl.DeleteBuffers(1, &h.VBO)
	}
	if h.VAO != 0 {
		gl.DeleteVertexArrays(1, &h.VAO)
	}
}

func toggle(capability uint32, enabled bool) {
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func (*GL) SetDepthTest(enabled bool)   { toggle(gl.DEPTH_TEST, enabled) }
func (*GL) SetDepthMask(write bool)     { gl.DepthMask(write) }
func (*GL) SetStencilTest(enabled bool) { toggle(gl.STENCIL_TEST, enabled) }

var glCompare = [...]uint32{
	Never:     gl.NEVER,
	Always:    gl.ALWAYS,
	Less:      gl.LESS,
	LessEqual: gl.LEQUAL,
	Equal:     gl.EQUAL,
	NotEqual:  gl.NOTEQUAL,
}

var glStencilAction = [...]uint32{
	Keep:    gl.KEEP,
	Zero:    gl.ZERO,
	Replace: gl.REPLACE,
}

func (*GL) StencilFunc(fn CompareFunc, ref int32, mask uint32) {
	gl.StencilFunc(glCompare[fn], ref, mask)
}

func (*GL) StencilOp(stencilFail, depthFail, pass StencilAction) {
	gl.StencilOp(glStencilAction[stencilFail], glStencilAction[depthFail], glStencilAction[pass])
}

func (*GL) StencilMask(mask uint32) { gl.StencilMask(mask) }

func (*GL) SetWireframe(enabled bool) {
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func (*GL) ClearColor(c mgl32.Vec4) { gl.ClearColor(c[0], c[1], c[2], c[3]) }

func (*GL) Clear(mask ClearMask) {
	var bits uint32
	if mask&ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if mask&ClearStencil != 0 {
		bits |= gl.STENCIL_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (*GL) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

var glErrorNames = map[uint32]string{
	gl.INVALID_ENUM:                  "INVALID_ENUM",
	gl.INVALID_VALUE:                 "INVALID_VALUE",
	gl.INVALID_OPERATION:             "INVALID_OPERATION",
	gl.OUT_OF_MEMORY:                 "OUT_OF_MEMORY",
	gl.INVALID_FRAMEBUFFER_OPERATION: "INVALID_FRAMEBUFFER_OPERATION",
}

func (*GL) CheckError(op string) error {
	var names []string
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		name, ok := glErrorNames[code]
		if !ok {
			name = fmt.Sprintf("0x%04X", code)
		}
		names = append(names, name)
		if len(names) >= 16 {
			break
		}
	}
	if len(names) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", op, strings.Join(names, ", "))
}
