// Package opengl implements native.Functions on top of go-gl's OpenGL 4.1
// core bindings. gl.Init must have been called on the goroutine owning the
// context before any of these functions are used.
package opengl

import (
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/irfansharif/glow/internal/native"
)

// Functions is the OpenGL implementation of native.Functions.
type Functions struct{}

var _ native.Functions = Functions{}

// New returns the OpenGL binding surface.
func New() Functions {
	return Functions{}
}

func ptr[T any](data []T) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

func cstr(s string) *uint8 {
	return gl.Str(s + "\x00")
}

func (Functions) GetInteger(pname native.Enum) int {
	var v int32
	gl.GetIntegerv(uint32(pname), &v)
	return int(v)
}

func (Functions) PixelStorei(pname native.Enum, param int) {
	gl.PixelStorei(uint32(pname), int32(param))
}

func (Functions) GenTexture() native.Object {
	var t uint32
	gl.GenTextures(1, &t)
	return native.Object(t)
}

func (Functions) BindTexture(target native.Enum, t native.Object) {
	gl.BindTexture(uint32(target), uint32(t))
}

func (Functions) DeleteTexture(t native.Object) {
	v := uint32(t)
	gl.DeleteTextures(1, &v)
}

func (Functions) TexImage2D(target native.Enum, level int, internalFormat native.Enum, width, height int, format, ty native.Enum, data []byte) {
	gl.TexImage2D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), 0, uint32(format), uint32(ty), ptr(data))
}

func (Functions) TexSubImage2D(target native.Enum, level int, x, y, width, height int, format, ty native.Enum, data []byte) {
	gl.TexSubImage2D(uint32(target), int32(level), int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(ty), ptr(data))
}

func (Functions) TexParameteri(target, pname native.Enum, param int) {
	gl.TexParameteri(uint32(target), uint32(pname), int32(param))
}

func (Functions) TexParameterf(target, pname native.Enum, param float32) {
	gl.TexParameterf(uint32(target), uint32(pname), param)
}

func (Functions) GenerateMipmap(target native.Enum) {
	gl.GenerateMipmap(uint32(target))
}

func (Functions) GenFramebuffer() native.Object {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	return native.Object(fb)
}

func (Functions) BindFramebuffer(target native.Enum, fb native.Object) {
	gl.BindFramebuffer(uint32(target), uint32(fb))
}

func (Functions) DeleteFramebuffer(fb native.Object) {
	v := uint32(fb)
	gl.DeleteFramebuffers(1, &v)
}

func (Functions) FramebufferTexture2D(target, attachment, texTarget native.Enum, t native.Object, level int) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), uint32(t), int32(level))
}

func (Functions) FramebufferRenderbuffer(target, attachment, rbTarget native.Enum, rb native.Object) {
	gl.FramebufferRenderbuffer(uint32(target), uint32(attachment), uint32(rbTarget), uint32(rb))
}

func (Functions) CheckFramebufferStatus(target native.Enum) native.Enum {
	return native.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (Functions) GenRenderbuffer() native.Object {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	return native.Object(rb)
}

func (Functions) BindRenderbuffer(target native.Enum, rb native.Object) {
	gl.BindRenderbuffer(uint32(target), uint32(rb))
}

func (Functions) DeleteRenderbuffer(rb native.Object) {
	v := uint32(rb)
	gl.DeleteRenderbuffers(1, &v)
}

func (Functions) RenderbufferStorage(target, internalFormat native.Enum, width, height int) {
	gl.RenderbufferStorage(uint32(target), uint32(internalFormat), int32(width), int32(height))
}

func (Functions) RenderbufferStorageMultisample(target native.Enum, samples int, internalFormat native.Enum, width, height int) {
	gl.RenderbufferStorageMultisample(uint32(target), int32(samples), uint32(internalFormat), int32(width), int32(height))
}

func (Functions) GenBuffer() native.Object {
	var b uint32
	gl.GenBuffers(1, &b)
	return native.Object(b)
}

func (Functions) BindBuffer(target native.Enum, b native.Object) {
	gl.BindBuffer(uint32(target), uint32(b))
}

func (Functions) DeleteBuffer(b native.Object) {
	v := uint32(b)
	gl.DeleteBuffers(1, &v)
}

func (Functions) BufferData(target native.Enum, data []byte, usage native.Enum) {
	gl.BufferData(uint32(target), len(data), ptr(data), uint32(usage))
}

func (Functions) GenVertexArray() native.Object {
	var va uint32
	gl.GenVertexArrays(1, &va)
	return native.Object(va)
}

func (Functions) BindVertexArray(va native.Object) {
	gl.BindVertexArray(uint32(va))
}

func (Functions) DeleteVertexArray(va native.Object) {
	v := uint32(va)
	gl.DeleteVertexArrays(1, &v)
}

func (Functions) EnableVertexAttribArray(loc native.Location) {
	gl.EnableVertexAttribArray(uint32(loc))
}

func (Functions) DisableVertexAttribArray(loc native.Location) {
	gl.DisableVertexAttribArray(uint32(loc))
}

func (Functions) VertexAttribPointer(loc native.Location, size int, ty native.Enum, normalized bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(uint32(loc), int32(size), uint32(ty), normalized, int32(stride), uintptr(offset))
}

func (Functions) DrawArrays(mode native.Enum, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (Functions) CreateShader(ty native.Enum) native.Object {
	return native.Object(gl.CreateShader(uint32(ty)))
}

func (Functions) ShaderSource(s native.Object, source string) {
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(s), 1, csource, nil)
	free()
}

func (Functions) CompileShader(s native.Object) {
	gl.CompileShader(uint32(s))
}

func (Functions) GetShaderi(s native.Object, pname native.Enum) int {
	var v int32
	gl.GetShaderiv(uint32(s), uint32(pname), &v)
	return int(v)
}

func (Functions) GetShaderInfoLog(s native.Object) string {
	var logLength int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(uint32(s), logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (Functions) DeleteShader(s native.Object) {
	gl.DeleteShader(uint32(s))
}

func (Functions) CreateProgram() native.Object {
	return native.Object(gl.CreateProgram())
}

func (Functions) AttachShader(p, s native.Object) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (Functions) DetachShader(p, s native.Object) {
	gl.DetachShader(uint32(p), uint32(s))
}

func (Functions) LinkProgram(p native.Object) {
	gl.LinkProgram(uint32(p))
}

func (Functions) GetProgrami(p native.Object, pname native.Enum) int {
	var v int32
	gl.GetProgramiv(uint32(p), uint32(pname), &v)
	return int(v)
}

func (Functions) GetProgramInfoLog(p native.Object) string {
	var logLength int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(uint32(p), logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (Functions) UseProgram(p native.Object) {
	gl.UseProgram(uint32(p))
}

func (Functions) DeleteProgram(p native.Object) {
	gl.DeleteProgram(uint32(p))
}

// active reads the name, size and type of the index'th active uniform or
// attribute; query is gl.GetActiveUniform or gl.GetActiveAttrib.
func active(p native.Object, index int, maxLength uint32, query func(uint32, uint32, int32, *int32, *int32, *uint32, *uint8)) (string, int, native.Enum) {
	var bufSize int32
	gl.GetProgramiv(uint32(p), maxLength, &bufSize)
	if bufSize <= 0 {
		bufSize = 256
	}
	buf := make([]uint8, bufSize)
	var length, size int32
	var ty uint32
	query(uint32(p), uint32(index), bufSize, &length, &size, &ty, &buf[0])
	return string(buf[:length]), int(size), native.Enum(ty)
}

func (Functions) GetActiveUniform(p native.Object, index int) (string, int, native.Enum) {
	return active(p, index, gl.ACTIVE_UNIFORM_MAX_LENGTH, gl.GetActiveUniform)
}

func (Functions) GetUniformLocation(p native.Object, name string) native.Location {
	return native.Location(gl.GetUniformLocation(uint32(p), cstr(name)))
}

func (Functions) GetActiveAttrib(p native.Object, index int) (string, int, native.Enum) {
	return active(p, index, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, gl.GetActiveAttrib)
}

func (Functions) GetAttribLocation(p native.Object, name string) native.Location {
	return native.Location(gl.GetAttribLocation(uint32(p), cstr(name)))
}

func (Functions) Uniform1fv(loc native.Location, v []float32) {
	gl.Uniform1fv(int32(loc), int32(len(v)), &v[0])
}

func (Functions) Uniform2fv(loc native.Location, v []float32) {
	gl.Uniform2fv(int32(loc), int32(len(v)/2), &v[0])
}

func (Functions) Uniform3fv(loc native.Location, v []float32) {
	gl.Uniform3fv(int32(loc), int32(len(v)/3), &v[0])
}

func (Functions) Uniform4fv(loc native.Location, v []float32) {
	gl.Uniform4fv(int32(loc), int32(len(v)/4), &v[0])
}

func (Functions) Uniform1iv(loc native.Location, v []int32) {
	gl.Uniform1iv(int32(loc), int32(len(v)), &v[0])
}

func (Functions) Uniform2iv(loc native.Location, v []int32) {
	gl.Uniform2iv(int32(loc), int32(len(v)/2), &v[0])
}

func (Functions) Uniform3iv(loc native.Location, v []int32) {
	gl.Uniform3iv(int32(loc), int32(len(v)/3), &v[0])
}

func (Functions) Uniform4iv(loc native.Location, v []int32) {
	gl.Uniform4iv(int32(loc), int32(len(v)/4), &v[0])
}

func (Functions) UniformMatrix2fv(loc native.Location, transpose bool, v []float32) {
	gl.UniformMatrix2fv(int32(loc), int32(len(v)/4), transpose, &v[0])
}

func (Functions) UniformMatrix3fv(loc native.Location, transpose bool, v []float32) {
	gl.UniformMatrix3fv(int32(loc), int32(len(v)/9), transpose, &v[0])
}

func (Functions) UniformMatrix4fv(loc native.Location, transpose bool, v []float32) {
	gl.UniformMatrix4fv(int32(loc), int32(len(v)/16), transpose, &v[0])
}
