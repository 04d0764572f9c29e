// Package shader compiles and links shader programs lazily, and keeps the
// uniforms and attributes applications look up bound to whatever the
// current link provides.
//
// All work is gated on change counters. A shader counts its source edits, a
// program remembers which of them it last linked, and it re-enumerates its
// uniforms, attributes and global subscriptions only when a link happened
// or something new was declared since. A program whose inputs did not change
// costs a handful of comparisons per Use.
package shader

import (
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"github.com/irfansharif/glow/internal/native"
)

var shaderLogger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("GLOW_DEBUG_SHADER") == "1" {
		shaderLogger = log.New(os.Stdout, "[shader] ", log.Ltime|log.Lmsgprefix)
	}
}

// sourceRevision is bumped by every source change of any shader. Programs
// that saw the current revision can skip comparing their shaders' counters.
var sourceRevision atomic.Uint64

// Shader is a single shader stage. It may be attached to several programs;
// the native object is released with the last of them.
type Shader struct {
	ty native.Enum

	mu      sync.Mutex
	source  string
	changes uint64
	status  string

	// Owned by the goroutine owning the GPU context.
	name     native.Object
	compiled uint64

	refs atomic.Int32
}

// New returns a shader of the given stage type.
func New(ty native.Enum, source string) *Shader {
	sourceRevision.Add(1)
	return &Shader{ty: ty, source: source, changes: 1}
}

func Vertex(source string) *Shader   { return New(native.VERTEX_SHADER, source) }
func Fragment(source string) *Shader { return New(native.FRAGMENT_SHADER, source) }
func Geometry(source string) *Shader { return New(native.GEOMETRY_SHADER, source) }

// SetSource replaces the source text. Programs using the shader relink on
// their next Use, unless the text is unchanged.
func (s *Shader) SetSource(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if source == s.source {
		return
	}
	s.source = source
	s.changes++
	sourceRevision.Add(1)
}

func (s *Shader) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Changed returns the number of source versions the shader went through.
func (s *Shader) Changed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changes
}

// Status returns the compile log of the last failed compilation, or the
// empty string.
func (s *Shader) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Shader) Type() native.Enum { return s.ty }

func (s *Shader) String() string {
	switch s.ty {
	case native.VERTEX_SHADER:
		return "vertex"
	case native.FRAGMENT_SHADER:
		return "fragment"
	case native.GEOMETRY_SHADER:
		return "geometry"
	default:
		return "shader"
	}
}

// compile compiles the current source unless it already was. It returns
// the source version the native object holds.
func (s *Shader) compile(f native.Functions) (version uint64, ok bool) {
	s.mu.Lock()
	source, changes := s.source, s.changes
	s.mu.Unlock()

	if s.name == native.Invalid {
		s.name = f.CreateShader(s.ty)
	} else if s.compiled == changes {
		return changes, s.Status() == ""
	}

	f.ShaderSource(s.name, source)
	f.CompileShader(s.name)
	s.compiled = changes

	status := ""
	if f.GetShaderi(s.name, native.COMPILE_STATUS) == native.FALSE {
		if status = f.GetShaderInfoLog(s.name); status == "" {
			status = "compilation failed"
		}
		log.Printf("WARNING: %s shader compilation failed: %s", s, status)
	} else {
		shaderLogger.Printf("compiled %s shader %d (version %d)", s, s.name, changes)
	}
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	return changes, status == ""
}

func (s *Shader) retain() {
	s.refs.Add(1)
}

// release drops a reference, deleting the native object with the last one.
func (s *Shader) release(f native.Functions) {
	if s.refs.Add(-1) > 0 || s.name == native.Invalid {
		return
	}
	f.DeleteShader(s.name)
	s.name, s.compiled = native.Invalid, 0
}
