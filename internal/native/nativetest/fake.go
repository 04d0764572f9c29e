// Package nativetest provides an in-memory native.Functions for tests. It
// counts calls, tracks bindings, keeps texture contents as bytes and
// "compiles" GLSL by scanning declarations, which is enough to drive
// resource and program resolution end to end without a GPU.
package nativetest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/irfansharif/glow/internal/native"
)

// Uninitialized is the byte texture storage is filled with when allocated
// without data.
const Uninitialized = 0xcd

// Image is one mip level of a texture, stored with tightly packed rows.
type Image struct {
	Width, Height  int
	InternalFormat native.Enum
	Format, Type   native.Enum
	Data           []byte
}

// BytesPerPixel returns the size of a pixel in Data.
func (i *Image) BytesPerPixel() int {
	return native.Components(i.Format) * native.TypeSize(i.Type)
}

// Texture is the fake's view of a texture object.
type Texture struct {
	Levels     map[int]*Image
	Parameters map[native.Enum]float64
	Mipmaps    int
}

// Framebuffer is the fake's view of a framebuffer object.
type Framebuffer struct {
	Attachments map[native.Enum]native.Object
}

// Renderbuffer is the fake's view of a renderbuffer object.
type Renderbuffer struct {
	InternalFormat native.Enum
	Width, Height  int
	Samples        int
}

// Pointer is a recorded vertex attribute pointer.
type Pointer struct {
	Buffer     native.Object
	Size       int
	Type       native.Enum
	Normalized bool
	Stride     int
	Offset     int
	Enabled    bool
}

// Draw is a recorded draw call.
type Draw struct {
	Program native.Object
	Mode    native.Enum
	First   int
	Count   int
}

type decl struct {
	storage  string // uniform, attribute or in
	glslType string
	name     string
	size     int
}

type shader struct {
	ty       native.Enum
	source   string
	compiled bool
	log      string
	decls    []decl
}

type variable struct {
	name     string
	size     int
	ty       native.Enum
	location native.Location
}

type program struct {
	attached   []native.Object
	linked     bool
	log        string
	uniforms   []variable
	attributes []variable
	floats     map[native.Location][]float32
	ints       map[native.Location][]int32
}

// Fake is a counting, in-memory native.Functions. The zero value is not
// usable; construct one with New.
type Fake struct {
	mu sync.Mutex

	// Calls counts invocations per method name.
	Calls map[string]int
	// Draws records every DrawArrays call.
	Draws []Draw

	next          native.Object
	bound         map[native.Enum]native.Object
	pixelStore    map[native.Enum]int
	textures      map[native.Object]*Texture
	framebuffers  map[native.Object]*Framebuffer
	renderbuffers map[native.Object]*Renderbuffer
	buffers       map[native.Object][]byte
	vertexArrays  map[native.Object]map[native.Location]*Pointer
	shaders       map[native.Object]*shader
	programs      map[native.Object]*program
	vertexArray   native.Object
	current       native.Object
	// nextLocation is shared by all programs so that relinking moves
	// uniforms to fresh locations.
	nextLocation native.Location
}

var _ native.Functions = (*Fake)(nil)

// New returns an empty fake with the default pixel store state.
func New() *Fake {
	return &Fake{
		Calls:         make(map[string]int),
		bound:         make(map[native.Enum]native.Object),
		pixelStore:    map[native.Enum]int{native.UNPACK_ALIGNMENT: 4},
		textures:      make(map[native.Object]*Texture),
		framebuffers:  make(map[native.Object]*Framebuffer),
		renderbuffers: make(map[native.Object]*Renderbuffer),
		buffers:       make(map[native.Object][]byte),
		vertexArrays:  make(map[native.Object]map[native.Location]*Pointer),
		shaders:       make(map[native.Object]*shader),
		programs:      make(map[native.Object]*program),
	}
}

func (f *Fake) count(name string) {
	f.Calls[name]++
}

func (f *Fake) gen() native.Object {
	f.next++
	return f.next
}

// Count returns how often the named method was called.
func (f *Fake) Count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

// Bound returns the object bound to target.
func (f *Fake) Bound(target native.Enum) native.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bound[target]
}

// Texture returns the state of a texture object, or nil if it does not
// exist.
func (f *Fake) Texture(t native.Object) *Texture {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.textures[t]
}

// Framebuffer returns the state of a framebuffer object.
func (f *Fake) Framebuffer(fb native.Object) *Framebuffer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.framebuffers[fb]
}

// Renderbuffer returns the state of a renderbuffer object.
func (f *Fake) Renderbuffer(rb native.Object) *Renderbuffer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.renderbuffers[rb]
}

// Buffer returns the contents of a buffer object.
func (f *Fake) Buffer(b native.Object) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buffers[b]
}

// Pointers returns the attribute pointers recorded on a vertex array.
func (f *Fake) Pointers(va native.Object) map[native.Location]*Pointer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vertexArrays[va]
}

// Exists reports whether the named object is alive, for any object kind.
func (f *Fake) Exists(o native.Object) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.textures[o]; ok {
		return true
	}
	if _, ok := f.framebuffers[o]; ok {
		return true
	}
	if _, ok := f.renderbuffers[o]; ok {
		return true
	}
	if _, ok := f.shaders[o]; ok {
		return true
	}
	_, ok := f.programs[o]
	return ok
}

// UniformFloats returns the float values last uploaded to the named uniform
// of program p.
func (f *Fake) UniformFloats(p native.Object, name string) []float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr := f.programs[p]
	if pr == nil {
		return nil
	}
	return pr.floats[pr.uniformLocation(name)]
}

// UniformInts returns the integer values last uploaded to the named uniform
// of program p.
func (f *Fake) UniformInts(p native.Object, name string) []int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr := f.programs[p]
	if pr == nil {
		return nil
	}
	return pr.ints[pr.uniformLocation(name)]
}

func (f *Fake) GetInteger(pname native.Enum) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetInteger")
	if v, ok := f.pixelStore[pname]; ok {
		return v
	}
	for _, target := range []native.Enum{
		native.TEXTURE_1D, native.TEXTURE_2D, native.TEXTURE_3D,
		native.FRAMEBUFFER, native.READ_FRAMEBUFFER, native.RENDERBUFFER,
	} {
		if binding, ok := native.BindingFor(target); ok && binding == pname {
			return int(f.bound[target])
		}
	}
	return 0
}

func (f *Fake) PixelStorei(pname native.Enum, param int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("PixelStorei")
	f.pixelStore[pname] = param
}

func (f *Fake) GenTexture() native.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GenTexture")
	t := f.gen()
	f.textures[t] = &Texture{Levels: make(map[int]*Image), Parameters: make(map[native.Enum]float64)}
	return t
}

func (f *Fake) BindTexture(target native.Enum, t native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("BindTexture")
	f.bound[target] = t
}

func (f *Fake) DeleteTexture(t native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteTexture")
	delete(f.textures, t)
	for target, o := range f.bound {
		if o == t {
			f.bound[target] = native.Invalid
		}
	}
}

// stride is the distance between rows of client memory under the current
// unpack alignment.
func (f *Fake) stride(width, bpp int) int {
	align := f.pixelStore[native.UNPACK_ALIGNMENT]
	if align <= 0 {
		align = 1
	}
	row := width * bpp
	return (row + align - 1) / align * align
}

func (f *Fake) TexImage2D(target native.Enum, level int, internalFormat native.Enum, width, height int, format, ty native.Enum, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("TexImage2D")
	t := f.textures[f.bound[target]]
	if t == nil {
		return
	}
	img := &Image{Width: width, Height: height, InternalFormat: internalFormat, Format: format, Type: ty}
	bpp := img.BytesPerPixel()
	img.Data = make([]byte, width*height*bpp)
	if data == nil {
		for i := range img.Data {
			img.Data[i] = Uninitialized
		}
	} else {
		stride := f.stride(width, bpp)
		for y := 0; y < height; y++ {
			copy(img.Data[y*width*bpp:(y+1)*width*bpp], data[y*stride:])
		}
	}
	t.Levels[level] = img
}

func (f *Fake) TexSubImage2D(target native.Enum, level int, x, y, width, height int, format, ty native.Enum, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("TexSubImage2D")
	t := f.textures[f.bound[target]]
	if t == nil {
		return
	}
	img := t.Levels[level]
	if img == nil {
		panic(fmt.Sprintf("nativetest: TexSubImage2D on unallocated level %d", level))
	}
	if x < 0 || y < 0 || x+width > img.Width || y+height > img.Height {
		panic(fmt.Sprintf("nativetest: TexSubImage2D %dx%d+%d+%d outside of %dx%d", width, height, x, y, img.Width, img.Height))
	}
	bpp := native.Components(format) * native.TypeSize(ty)
	stride := f.stride(width, bpp)
	for row := 0; row < height; row++ {
		dst := ((y+row)*img.Width + x) * bpp
		copy(img.Data[dst:dst+width*bpp], data[row*stride:])
	}
}

func (f *Fake) TexParameteri(target, pname native.Enum, param int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("TexParameteri")
	if t := f.textures[f.bound[target]]; t != nil {
		t.Parameters[pname] = float64(param)
	}
}

func (f *Fake) TexParameterf(target, pname native.Enum, param float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("TexParameterf")
	if t := f.textures[f.bound[target]]; t != nil {
		t.Parameters[pname] = float64(param)
	}
}

func (f *Fake) GenerateMipmap(target native.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GenerateMipmap")
	if t := f.textures[f.bound[target]]; t != nil {
		t.Mipmaps++
	}
}

func (f *Fake) GenFramebuffer() native.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GenFramebuffer")
	fb := f.gen()
	f.framebuffers[fb] = &Framebuffer{Attachments: make(map[native.Enum]native.Object)}
	return fb
}

func (f *Fake) BindFramebuffer(target native.Enum, fb native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("BindFramebuffer")
	f.bound[target] = fb
}

func (f *Fake) DeleteFramebuffer(fb native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteFramebuffer")
	delete(f.framebuffers, fb)
}

func (f *Fake) FramebufferTexture2D(target, attachment, texTarget native.Enum, t native.Object, level int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("FramebufferTexture2D")
	if fb := f.framebuffers[f.bound[target]]; fb != nil {
		fb.Attachments[attachment] = t
	}
}

func (f *Fake) FramebufferRenderbuffer(target, attachment, rbTarget native.Enum, rb native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("FramebufferRenderbuffer")
	if fb := f.framebuffers[f.bound[target]]; fb != nil {
		fb.Attachments[attachment] = rb
	}
}

// FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT is reported for framebuffers
// without attachments.
const FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT = 0x8cd7

func (f *Fake) CheckFramebufferStatus(target native.Enum) native.Enum {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CheckFramebufferStatus")
	fb := f.framebuffers[f.bound[target]]
	if fb == nil || len(fb.Attachments) == 0 {
		return FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT
	}
	return native.FRAMEBUFFER_COMPLETE
}

func (f *Fake) GenRenderbuffer() native.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GenRenderbuffer")
	rb := f.gen()
	f.renderbuffers[rb] = &Renderbuffer{}
	return rb
}

func (f *Fake) BindRenderbuffer(target native.Enum, rb native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("BindRenderbuffer")
	f.bound[target] = rb
}

func (f *Fake) DeleteRenderbuffer(rb native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteRenderbuffer")
	delete(f.renderbuffers, rb)
}

func (f *Fake) RenderbufferStorage(target, internalFormat native.Enum, width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("RenderbufferStorage")
	if rb := f.renderbuffers[f.bound[target]]; rb != nil {
		*rb = Renderbuffer{InternalFormat: internalFormat, Width: width, Height: height}
	}
}

func (f *Fake) RenderbufferStorageMultisample(target native.Enum, samples int, internalFormat native.Enum, width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("RenderbufferStorageMultisample")
	if rb := f.renderbuffers[f.bound[target]]; rb != nil {
		*rb = Renderbuffer{InternalFormat: internalFormat, Width: width, Height: height, Samples: samples}
	}
}

func (f *Fake) GenBuffer() native.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GenBuffer")
	b := f.gen()
	f.buffers[b] = nil
	return b
}

func (f *Fake) BindBuffer(target native.Enum, b native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("BindBuffer")
	f.bound[target] = b
}

func (f *Fake) DeleteBuffer(b native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteBuffer")
	delete(f.buffers, b)
}

func (f *Fake) BufferData(target native.Enum, data []byte, usage native.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("BufferData")
	f.buffers[f.bound[target]] = append([]byte(nil), data...)
}

func (f *Fake) GenVertexArray() native.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GenVertexArray")
	va := f.gen()
	f.vertexArrays[va] = make(map[native.Location]*Pointer)
	return va
}

func (f *Fake) BindVertexArray(va native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("BindVertexArray")
	f.vertexArray = va
}

func (f *Fake) DeleteVertexArray(va native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteVertexArray")
	delete(f.vertexArrays, va)
}

func (f *Fake) pointer(loc native.Location) *Pointer {
	ptrs := f.vertexArrays[f.vertexArray]
	if ptrs == nil {
		return &Pointer{}
	}
	p := ptrs[loc]
	if p == nil {
		p = &Pointer{}
		ptrs[loc] = p
	}
	return p
}

func (f *Fake) EnableVertexAttribArray(loc native.Location) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("EnableVertexAttribArray")
	f.pointer(loc).Enabled = true
}

func (f *Fake) DisableVertexAttribArray(loc native.Location) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DisableVertexAttribArray")
	f.pointer(loc).Enabled = false
}

func (f *Fake) VertexAttribPointer(loc native.Location, size int, ty native.Enum, normalized bool, stride, offset int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("VertexAttribPointer")
	p := f.pointer(loc)
	p.Buffer = f.bound[native.ARRAY_BUFFER]
	p.Size, p.Type, p.Normalized, p.Stride, p.Offset = size, ty, normalized, stride, offset
}

func (f *Fake) DrawArrays(mode native.Enum, first, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DrawArrays")
	f.Draws = append(f.Draws, Draw{Program: f.current, Mode: mode, First: first, Count: count})
}

func (f *Fake) CreateShader(ty native.Enum) native.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CreateShader")
	s := f.gen()
	f.shaders[s] = &shader{ty: ty}
	return s
}

func (f *Fake) ShaderSource(s native.Object, source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("ShaderSource")
	if sh := f.shaders[s]; sh != nil {
		sh.source = source
	}
}

var declaration = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(uniform|attribute|in)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)

func (f *Fake) CompileShader(s native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CompileShader")
	sh := f.shaders[s]
	if sh == nil {
		return
	}
	sh.decls = nil
	if i := strings.Index(sh.source, "#error"); i >= 0 {
		line := 1 + strings.Count(sh.source[:i], "\n")
		sh.compiled = false
		sh.log = fmt.Sprintf("ERROR: 0:%d: '#error' : preprocessor error", line)
		return
	}
	for _, m := range declaration.FindAllStringSubmatch(sh.source, -1) {
		d := decl{storage: m[1], glslType: m[2], name: m[3], size: 1}
		if m[4] != "" {
			d.size, _ = strconv.Atoi(m[4])
		}
		sh.decls = append(sh.decls, d)
	}
	sh.compiled = true
	sh.log = ""
}

func (f *Fake) GetShaderi(s native.Object, pname native.Enum) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetShaderi")
	sh := f.shaders[s]
	if sh == nil {
		return 0
	}
	switch pname {
	case native.COMPILE_STATUS:
		if sh.compiled {
			return native.TRUE
		}
		return native.FALSE
	case native.INFO_LOG_LENGTH:
		return len(sh.log)
	}
	return 0
}

func (f *Fake) GetShaderInfoLog(s native.Object) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetShaderInfoLog")
	if sh := f.shaders[s]; sh != nil {
		return sh.log
	}
	return ""
}

func (f *Fake) DeleteShader(s native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteShader")
	delete(f.shaders, s)
}

func (f *Fake) CreateProgram() native.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CreateProgram")
	p := f.gen()
	f.programs[p] = &program{
		floats: make(map[native.Location][]float32),
		ints:   make(map[native.Location][]int32),
	}
	return p
}

func (f *Fake) AttachShader(p, s native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("AttachShader")
	if pr := f.programs[p]; pr != nil {
		pr.attached = append(pr.attached, s)
	}
}

func (f *Fake) DetachShader(p, s native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DetachShader")
	pr := f.programs[p]
	if pr == nil {
		return
	}
	for i, a := range pr.attached {
		if a == s {
			pr.attached = append(pr.attached[:i], pr.attached[i+1:]...)
			return
		}
	}
}

var glslTypes = map[string]native.Enum{
	"float":     native.FLOAT,
	"vec2":      native.FLOAT_VEC2,
	"vec3":      native.FLOAT_VEC3,
	"vec4":      native.FLOAT_VEC4,
	"int":       native.INT,
	"ivec2":     native.INT_VEC2,
	"ivec3":     native.INT_VEC3,
	"ivec4":     native.INT_VEC4,
	"bool":      native.BOOL,
	"mat2":      native.FLOAT_MAT2,
	"mat3":      native.FLOAT_MAT3,
	"mat4":      native.FLOAT_MAT4,
	"sampler1D": native.SAMPLER_1D,
	"sampler2D": native.SAMPLER_2D,
	"sampler3D": native.SAMPLER_3D,
}

func (f *Fake) LinkProgram(p native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("LinkProgram")
	pr := f.programs[p]
	if pr == nil {
		return
	}
	pr.linked, pr.log = true, ""
	var uniforms, attributes []variable
	seen := make(map[string]bool)
	for _, s := range pr.attached {
		sh := f.shaders[s]
		if sh == nil || !sh.compiled {
			pr.linked = false
			pr.log = fmt.Sprintf("ERROR: shader %d was not successfully compiled", s)
			continue
		}
		for _, d := range sh.decls {
			attribute := d.storage == "attribute" || (d.storage == "in" && sh.ty == native.VERTEX_SHADER)
			if d.storage != "uniform" && !attribute {
				continue
			}
			key := d.storage + ":" + d.name
			if attribute {
				key = "attribute:" + d.name
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			v := variable{name: d.name, size: d.size, ty: glslTypes[d.glslType]}
			if d.size > 1 {
				v.name = d.name + "[0]"
			}
			if attribute {
				v.location = native.Location(len(attributes))
				attributes = append(attributes, v)
			} else {
				v.location = f.nextLocation
				f.nextLocation++
				uniforms = append(uniforms, v)
			}
		}
	}
	if !pr.linked {
		return
	}
	pr.uniforms, pr.attributes = uniforms, attributes
	pr.floats = make(map[native.Location][]float32)
	pr.ints = make(map[native.Location][]int32)
}

func (f *Fake) GetProgrami(p native.Object, pname native.Enum) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetProgrami")
	pr := f.programs[p]
	if pr == nil {
		return 0
	}
	switch pname {
	case native.LINK_STATUS:
		if pr.linked {
			return native.TRUE
		}
		return native.FALSE
	case native.INFO_LOG_LENGTH:
		return len(pr.log)
	case native.ACTIVE_UNIFORMS:
		return len(pr.uniforms)
	case native.ACTIVE_ATTRIBUTES:
		return len(pr.attributes)
	}
	return 0
}

func (f *Fake) GetProgramInfoLog(p native.Object) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetProgramInfoLog")
	if pr := f.programs[p]; pr != nil {
		return pr.log
	}
	return ""
}

func (f *Fake) UseProgram(p native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("UseProgram")
	f.current = p
}

func (f *Fake) DeleteProgram(p native.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteProgram")
	delete(f.programs, p)
}

func (f *Fake) GetActiveUniform(p native.Object, index int) (string, int, native.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetActiveUniform")
	v := f.programs[p].uniforms[index]
	return v.name, v.size, v.ty
}

func (pr *program) uniformLocation(name string) native.Location {
	for _, v := range pr.uniforms {
		if v.name == name || strings.TrimSuffix(v.name, "[0]") == name {
			return v.location
		}
	}
	return native.NoLocation
}

func (f *Fake) GetUniformLocation(p native.Object, name string) native.Location {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetUniformLocation")
	pr := f.programs[p]
	if pr == nil {
		return native.NoLocation
	}
	return pr.uniformLocation(name)
}

func (f *Fake) GetActiveAttrib(p native.Object, index int) (string, int, native.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetActiveAttrib")
	v := f.programs[p].attributes[index]
	return v.name, v.size, v.ty
}

func (f *Fake) GetAttribLocation(p native.Object, name string) native.Location {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetAttribLocation")
	pr := f.programs[p]
	if pr == nil {
		return native.NoLocation
	}
	for _, v := range pr.attributes {
		if v.name == name || strings.TrimSuffix(v.name, "[0]") == name {
			return v.location
		}
	}
	return native.NoLocation
}

func (f *Fake) setFloats(name string, loc native.Location, v []float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count(name)
	if pr := f.programs[f.current]; pr != nil && loc != native.NoLocation {
		pr.floats[loc] = append([]float32(nil), v...)
	}
}

func (f *Fake) setInts(name string, loc native.Location, v []int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count(name)
	if pr := f.programs[f.current]; pr != nil && loc != native.NoLocation {
		pr.ints[loc] = append([]int32(nil), v...)
	}
}

func (f *Fake) Uniform1fv(loc native.Location, v []float32) { f.setFloats("Uniform1fv", loc, v) }
func (f *Fake) Uniform2fv(loc native.Location, v []float32) { f.setFloats("Uniform2fv", loc, v) }
func (f *Fake) Uniform3fv(loc native.Location, v []float32) { f.setFloats("Uniform3fv", loc, v) }
func (f *Fake) Uniform4fv(loc native.Location, v []float32) { f.setFloats("Uniform4fv", loc, v) }
func (f *Fake) Uniform1iv(loc native.Location, v []int32)   { f.setInts("Uniform1iv", loc, v) }
func (f *Fake) Uniform2iv(loc native.Location, v []int32)   { f.setInts("Uniform2iv", loc, v) }
func (f *Fake) Uniform3iv(loc native.Location, v []int32)   { f.setInts("Uniform3iv", loc, v) }
func (f *Fake) Uniform4iv(loc native.Location, v []int32)   { f.setInts("Uniform4iv", loc, v) }

func (f *Fake) UniformMatrix2fv(loc native.Location, transpose bool, v []float32) {
	f.setFloats("UniformMatrix2fv", loc, v)
}

func (f *Fake) UniformMatrix3fv(loc native.Location, transpose bool, v []float32) {
	f.setFloats("UniformMatrix3fv", loc, v)
}

func (f *Fake) UniformMatrix4fv(loc native.Location, transpose bool, v []float32) {
	f.setFloats("UniformMatrix4fv", loc, v)
}
