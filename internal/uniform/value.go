// Package uniform holds typed uniform values and the registry of named
// global values programs mirror into their uniforms.
package uniform

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/irfansharif/glow/internal/native"
)

// Type is the shape of one uniform element.
type Type int

const (
	Unsupported Type = iota
	Int
	IntVec2
	IntVec3
	IntVec4
	Float
	Vec2
	Vec3
	Vec4
	Mat2
	Mat3
	Mat4
)

var typeNames = [...]string{
	Unsupported: "unsupported",
	Int:         "int",
	IntVec2:     "ivec2",
	IntVec3:     "ivec3",
	IntVec4:     "ivec4",
	Float:       "float",
	Vec2:        "vec2",
	Vec3:        "vec3",
	Vec4:        "vec4",
	Mat2:        "mat2",
	Mat3:        "mat3",
	Mat4:        "mat4",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Dimension returns the number of scalar components in one element.
func (t Type) Dimension() int {
	switch t {
	case Int, Float:
		return 1
	case IntVec2, Vec2:
		return 2
	case IntVec3, Vec3:
		return 3
	case IntVec4, Vec4, Mat2:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	default:
		return 0
	}
}

// IsFloat reports whether elements of the type are floating point.
func (t Type) IsFloat() bool {
	return t >= Float && t <= Mat4
}

// Enum returns the native type of t.
func (t Type) Enum() native.Enum {
	switch t {
	case Int:
		return native.INT
	case IntVec2:
		return native.INT_VEC2
	case IntVec3:
		return native.INT_VEC3
	case IntVec4:
		return native.INT_VEC4
	case Float:
		return native.FLOAT
	case Vec2:
		return native.FLOAT_VEC2
	case Vec3:
		return native.FLOAT_VEC3
	case Vec4:
		return native.FLOAT_VEC4
	case Mat2:
		return native.FLOAT_MAT2
	case Mat3:
		return native.FLOAT_MAT3
	case Mat4:
		return native.FLOAT_MAT4
	default:
		return 0
	}
}

// TypeOf maps a native uniform or attribute type to a Type. Samplers and
// booleans are set like integers, and map to Int.
func TypeOf(e native.Enum) Type {
	switch e {
	case native.INT, native.BOOL, native.SAMPLER_1D, native.SAMPLER_2D, native.SAMPLER_3D:
		return Int
	case native.INT_VEC2:
		return IntVec2
	case native.INT_VEC3:
		return IntVec3
	case native.INT_VEC4:
		return IntVec4
	case native.FLOAT:
		return Float
	case native.FLOAT_VEC2:
		return Vec2
	case native.FLOAT_VEC3:
		return Vec3
	case native.FLOAT_VEC4:
		return Vec4
	case native.FLOAT_MAT2:
		return Mat2
	case native.FLOAT_MAT3:
		return Mat3
	case native.FLOAT_MAT4:
		return Mat4
	default:
		return Unsupported
	}
}

// Value is a typed array of uniform elements. Integer types keep their
// components in ints, float types in floats. The zero Value is not Valid.
type Value struct {
	typ    Type
	ints   []int32
	floats []float32
}

func OfInt(x int32) Value { return Ints(Int, x) }

func OfIVec2(x, y int32) Value { return Ints(IntVec2, x, y) }

func OfIVec3(x, y, z int32) Value { return Ints(IntVec3, x, y, z) }

func OfIVec4(x, y, z, w int32) Value { return Ints(IntVec4, x, y, z, w) }

func OfFloat(x float32) Value { return Floats(Float, x) }

func OfVec2(x, y float32) Value { return Floats(Vec2, x, y) }

func OfVec3(x, y, z float32) Value { return Floats(Vec3, x, y, z) }

func OfVec4(x, y, z, w float32) Value { return Floats(Vec4, x, y, z, w) }

// Ints returns an integer value of type t from its flattened components.
func Ints(t Type, v ...int32) Value {
	return Value{typ: t, ints: slices.Clone(v)}
}

// Floats returns a float value of type t from its flattened components;
// matrices are column major.
func Floats(t Type, v ...float32) Value {
	return Value{typ: t, floats: slices.Clone(v)}
}

func OfMat2(ms ...mgl32.Mat2) Value {
	var v []float32
	for _, m := range ms {
		v = append(v, m[:]...)
	}
	return Value{typ: Mat2, floats: v}
}

func OfMat3(ms ...mgl32.Mat3) Value {
	var v []float32
	for _, m := range ms {
		v = append(v, m[:]...)
	}
	return Value{typ: Mat3, floats: v}
}

func OfMat4(ms ...mgl32.Mat4) Value {
	var v []float32
	for _, m := range ms {
		v = append(v, m[:]...)
	}
	return Value{typ: Mat4, floats: v}
}

// Type returns the element type.
func (v Value) Type() Type { return v.typ }

// Count returns the number of elements.
func (v Value) Count() int {
	d := v.typ.Dimension()
	if d == 0 {
		return 0
	}
	return v.components() / d
}

func (v Value) components() int {
	if v.typ.IsFloat() {
		return len(v.floats)
	}
	return len(v.ints)
}

// Valid reports whether v holds a whole, non-zero number of elements of a
// supported type, stored in the slice its type calls for.
func (v Value) Valid() bool {
	d := v.typ.Dimension()
	if d == 0 {
		return false
	}
	if v.typ.IsFloat() && len(v.ints) > 0 || !v.typ.IsFloat() && len(v.floats) > 0 {
		return false
	}
	n := v.components()
	return n > 0 && n%d == 0
}

// Ints returns a copy of the integer components.
func (v Value) Ints() []int32 { return slices.Clone(v.ints) }

// Floats returns a copy of the float components.
func (v Value) Floats() []float32 { return slices.Clone(v.floats) }

// Equal reports whether v and o have the same type and components.
func (v Value) Equal(o Value) bool {
	return v.typ == o.typ && slices.Equal(v.ints, o.ints) && slices.Equal(v.floats, o.floats)
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	return Value{typ: v.typ, ints: slices.Clone(v.ints), floats: slices.Clone(v.floats)}
}

func (v Value) String() string {
	if n := v.Count(); n > 1 {
		return fmt.Sprintf("%s[%d]", v.typ, n)
	}
	return v.typ.String()
}

// Upload sets the uniform at loc of the program in use to v. Invalid
// values are ignored.
func (v Value) Upload(f native.Functions, loc native.Location) {
	if !v.Valid() {
		return
	}
	switch v.typ {
	case Int:
		f.Uniform1iv(loc, v.ints)
	case IntVec2:
		f.Uniform2iv(loc, v.ints)
	case IntVec3:
		f.Uniform3iv(loc, v.ints)
	case IntVec4:
		f.Uniform4iv(loc, v.ints)
	case Float:
		f.Uniform1fv(loc, v.floats)
	case Vec2:
		f.Uniform2fv(loc, v.floats)
	case Vec3:
		f.Uniform3fv(loc, v.floats)
	case Vec4:
		f.Uniform4fv(loc, v.floats)
	case Mat2:
		f.UniformMatrix2fv(loc, false, v.floats)
	case Mat3:
		f.UniformMatrix3fv(loc, false, v.floats)
	case Mat4:
		f.UniformMatrix4fv(loc, false, v.floats)
	}
}
