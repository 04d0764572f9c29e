// Package vertex provides an immediate-style writer for vertex attribute
// arrays.
//
// Values are written per attribute into planes, which are packed one after
// the other into a single buffer object at draw time:
//
//	a.Begin(native.TRIANGLE_FAN).
//		Attribute(position).Vec2(-1, -1).Vec2(1, -1).Vec2(1, 1).Vec2(-1, 1).
//		Attribute(texcoord).Vec2(0, 0).Vec2(1, 0).Vec2(1, 1).Vec2(0, 1)
//	err := a.Draw()
package vertex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/irfansharif/glow/internal/native"
	"github.com/irfansharif/glow/internal/shader"
)

var vertexLogger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("GLOW_DEBUG_VERTEX") == "1" {
		vertexLogger = log.New(os.Stdout, "[vertex] ", log.Ltime|log.Lmsgprefix)
	}
}

var (
	// ErrIncomplete is returned when drawing planes holding different numbers
	// of vertices.
	ErrIncomplete = errors.New("vertex arrays not filled equally")
	// ErrDimension is returned when values written to a plane do not match
	// the dimension of its attribute, or of values written before.
	ErrDimension = errors.New("vertex dimension mismatch")
	// ErrNoAttribute is returned when values are written before selecting an
	// attribute.
	ErrNoAttribute = errors.New("no attribute selected")
)

// growth is the factor the staging buffer grows by when it runs out of room.
const growth = 1.5

type plane struct {
	attribute *shader.Attribute
	dim       int
	data      []float32
}

func (p *plane) count() int {
	if p.dim == 0 {
		return 0
	}
	return len(p.data) / p.dim
}

// Stats describes the last draw.
type Stats struct {
	Draws    int
	Vertices int
	Bytes    int
}

// Arrays writes vertex attribute values and draws them. Writing errors are
// sticky: once a write fails, later writes are ignored until the next Begin,
// and Draw returns the first error.
//
// Arrays must be used from the goroutine owning the GPU context.
type Arrays struct {
	fn native.Functions

	vao, vbo native.Object
	mode     native.Enum
	planes   []*plane
	current  *plane
	err      error

	staging []byte
	stats   Stats
}

func NewArrays(fn native.Functions) *Arrays {
	return &Arrays{fn: fn, mode: native.TRIANGLES}
}

// Begin discards everything written and starts a new batch drawn with mode.
func (a *Arrays) Begin(mode native.Enum) *Arrays {
	a.mode = mode
	a.planes = a.planes[:0]
	a.current = nil
	a.err = nil
	return a
}

// Attribute selects the plane values are written to, adding one if the
// attribute was not written to since Begin.
func (a *Arrays) Attribute(attr *shader.Attribute) *Arrays {
	for _, p := range a.planes {
		if p.attribute == attr {
			a.current = p
			return a
		}
	}
	a.current = &plane{attribute: attr}
	a.planes = append(a.planes, a.current)
	return a
}

func (a *Arrays) Float(x float32) *Arrays         { return a.put(1, x) }
func (a *Arrays) Vec2(x, y float32) *Arrays       { return a.put(2, x, y) }
func (a *Arrays) Vec3(x, y, z float32) *Arrays    { return a.put(3, x, y, z) }
func (a *Arrays) Vec4(x, y, z, w float32) *Arrays { return a.put(4, x, y, z, w) }

// Values writes len(v)/dim vertices of dim components each.
func (a *Arrays) Values(dim int, v ...float32) *Arrays { return a.put(dim, v...) }

func (a *Arrays) put(dim int, v ...float32) *Arrays {
	if a.err != nil {
		return a
	}
	p := a.current
	if p == nil {
		a.err = ErrNoAttribute
		return a
	}
	if dim < 1 || dim > 4 || len(v)%dim != 0 {
		a.err = fmt.Errorf("%w: %d values for %s do not divide into %d", ErrDimension, len(v), p.attribute.Name(), dim)
		return a
	}
	if p.attribute.Active() && p.attribute.Dimension() != dim {
		a.err = fmt.Errorf("%w: %s takes %d components, got %d", ErrDimension, p.attribute, p.attribute.Dimension(), dim)
		return a
	}
	if p.dim != 0 && p.dim != dim {
		a.err = fmt.Errorf("%w: %s was written with %d components, got %d", ErrDimension, p.attribute.Name(), p.dim, dim)
		return a
	}
	p.dim = dim
	p.data = append(p.data, v...)
	return a
}

// Err returns the first write error since Begin.
func (a *Arrays) Err() error { return a.err }

// Count returns the number of vertices written, or ErrIncomplete if the
// planes disagree.
func (a *Arrays) Count() (int, error) {
	if len(a.planes) == 0 {
		return 0, nil
	}
	n := a.planes[0].count()
	for _, p := range a.planes[1:] {
		if c := p.count(); c != n {
			return 0, fmt.Errorf("%w: %s holds %d vertices, %s holds %d",
				ErrIncomplete, a.planes[0].attribute.Name(), n, p.attribute.Name(), c)
		}
	}
	return n, nil
}

// Draw uploads the planes of active attributes and draws them. Planes of
// inactive attributes are written but not drawn.
func (a *Arrays) Draw() error {
	if a.err != nil {
		return a.err
	}
	count, err := a.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	size := 0
	for _, p := range a.planes {
		if p.attribute.Active() {
			size += len(p.data) * 4
		}
	}
	if cap(a.staging) < size {
		a.staging = make([]byte, 0, int(float64(size)*growth))
	}
	a.staging = a.staging[:0]
	offsets := make([]int, len(a.planes))
	for i, p := range a.planes {
		if !p.attribute.Active() {
			continue
		}
		offsets[i] = len(a.staging)
		for _, f := range p.data {
			a.staging = binary.NativeEndian.AppendUint32(a.staging, math.Float32bits(f))
		}
	}

	if a.vao == native.Invalid {
		a.vao = a.fn.GenVertexArray()
		a.vbo = a.fn.GenBuffer()
	}
	a.fn.BindVertexArray(a.vao)
	a.fn.BindBuffer(native.ARRAY_BUFFER, a.vbo)
	a.fn.BufferData(native.ARRAY_BUFFER, a.staging, native.STREAM_DRAW)

	for i, p := range a.planes {
		if !p.attribute.Active() {
			continue
		}
		loc := p.attribute.Location()
		a.fn.EnableVertexAttribArray(loc)
		a.fn.VertexAttribPointer(loc, p.dim, native.FLOAT, false, 0, offsets[i])
	}
	a.fn.DrawArrays(a.mode, 0, count)
	for _, p := range a.planes {
		if p.attribute.Active() {
			a.fn.DisableVertexAttribArray(p.attribute.Location())
		}
	}
	a.fn.BindVertexArray(native.Invalid)

	a.stats = Stats{Draws: a.stats.Draws + 1, Vertices: count, Bytes: len(a.staging)}
	vertexLogger.Printf("drew %d vertices from %d plane(s), %d bytes", count, len(a.planes), len(a.staging))
	return nil
}

// Stats returns the number of draws so far and the size of the last one.
func (a *Arrays) Stats() Stats { return a.stats }

// Delete releases the native buffer and vertex array.
func (a *Arrays) Delete() {
	if a.vao == native.Invalid {
		return
	}
	a.fn.DeleteBuffer(a.vbo)
	a.fn.DeleteVertexArray(a.vao)
	a.vao, a.vbo = native.Invalid, native.Invalid
}
