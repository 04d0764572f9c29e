// Package native describes the GPU binding surface the rest of glow is
// written against.
//
// Nothing outside of this package (and its opengl implementation) issues
// native calls directly. Every call on Functions must happen on the goroutine
// that owns the GPU context.
package native

type (
	// Enum is a native enumerant (targets, formats, types, parameter names).
	Enum uint32
	// Object is a native object name. Zero is never handed out by a
	// generate call.
	Object uint32
	// Location is a uniform or attribute location. Inactive entries carry
	// NoLocation.
	Location int32
)

const (
	// Invalid is the object name of a resource that has not been allocated
	// yet.
	Invalid Object = 0
	// NoLocation is the location of an uniform or attribute the linked
	// program does not contain.
	NoLocation Location = -1
)

// Functions is the set of native calls glow depends on.
type Functions interface {
	GetInteger(pname Enum) int
	PixelStorei(pname Enum, param int)

	GenTexture() Object
	BindTexture(target Enum, t Object)
	DeleteTexture(t Object)
	TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, ty Enum, data []byte)
	TexSubImage2D(target Enum, level int, x, y, width, height int, format, ty Enum, data []byte)
	TexParameteri(target, pname Enum, param int)
	TexParameterf(target, pname Enum, param float32)
	GenerateMipmap(target Enum)

	GenFramebuffer() Object
	BindFramebuffer(target Enum, fb Object)
	DeleteFramebuffer(fb Object)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Object, level int)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, rb Object)
	CheckFramebufferStatus(target Enum) Enum

	GenRenderbuffer() Object
	BindRenderbuffer(target Enum, rb Object)
	DeleteRenderbuffer(rb Object)
	RenderbufferStorage(target, internalFormat Enum, width, height int)
	RenderbufferStorageMultisample(target Enum, samples int, internalFormat Enum, width, height int)

	GenBuffer() Object
	BindBuffer(target Enum, b Object)
	DeleteBuffer(b Object)
	BufferData(target Enum, data []byte, usage Enum)

	GenVertexArray() Object
	BindVertexArray(va Object)
	DeleteVertexArray(va Object)
	EnableVertexAttribArray(loc Location)
	DisableVertexAttribArray(loc Location)
	VertexAttribPointer(loc Location, size int, ty Enum, normalized bool, stride, offset int)
	DrawArrays(mode Enum, first, count int)

	CreateShader(ty Enum) Object
	ShaderSource(s Object, source string)
	CompileShader(s Object)
	GetShaderi(s Object, pname Enum) int
	GetShaderInfoLog(s Object) string
	DeleteShader(s Object)

	CreateProgram() Object
	AttachShader(p, s Object)
	DetachShader(p, s Object)
	LinkProgram(p Object)
	GetProgrami(p Object, pname Enum) int
	GetProgramInfoLog(p Object) string
	UseProgram(p Object)
	DeleteProgram(p Object)

	GetActiveUniform(p Object, index int) (name string, size int, ty Enum)
	GetUniformLocation(p Object, name string) Location
	GetActiveAttrib(p Object, index int) (name string, size int, ty Enum)
	GetAttribLocation(p Object, name string) Location

	Uniform1fv(loc Location, v []float32)
	Uniform2fv(loc Location, v []float32)
	Uniform3fv(loc Location, v []float32)
	Uniform4fv(loc Location, v []float32)
	Uniform1iv(loc Location, v []int32)
	Uniform2iv(loc Location, v []int32)
	Uniform3iv(loc Location, v []int32)
	Uniform4iv(loc Location, v []int32)
	UniformMatrix2fv(loc Location, transpose bool, v []float32)
	UniformMatrix3fv(loc Location, transpose bool, v []float32)
	UniformMatrix4fv(loc Location, transpose bool, v []float32)
}
