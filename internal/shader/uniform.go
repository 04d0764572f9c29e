package shader

import (
	"errors"
	"fmt"
	"log"

	"github.com/irfansharif/glow/internal/native"
	"github.com/irfansharif/glow/internal/uniform"
)

// ErrMismatch is returned when a value does not fit the uniform it is set
// on.
var ErrMismatch = errors.New("uniform type or size mismatch")

// Uniform is a named uniform of a program. It survives relinks: a uniform
// the program stops providing becomes inactive and comes back, as the same
// Uniform, once a later link provides it again.
//
// Uniforms are used from the goroutine owning the GPU context.
type Uniform struct {
	program *Program
	name    string

	location native.Location
	ty       uniform.Type
	size     int

	lenient    bool
	mismatches int

	global  *uniform.Global
	applied uint64 // revision of global last pushed
}

func newUniform(p *Program, name string) *Uniform {
	return &Uniform{program: p, name: name, location: native.NoLocation}
}

func (u *Uniform) Name() string { return u.name }

// Location returns the native location, or native.NoLocation while
// inactive.
func (u *Uniform) Location() native.Location { return u.location }

// Active reports whether the linked program provides the uniform.
func (u *Uniform) Active() bool { return u.location != native.NoLocation }

// Type returns the element type as linked, Unsupported while inactive.
func (u *Uniform) Type() uniform.Type { return u.ty }

// Size returns the number of elements as linked, zero while inactive.
func (u *Uniform) Size() int { return u.size }

// Global returns the global the uniform mirrors, if any.
func (u *Uniform) Global() *uniform.Global { return u.global }

// SetLenient makes mismatching values a logged warning rather than an
// error.
func (u *Uniform) SetLenient(lenient bool) *Uniform {
	u.lenient = lenient
	return u
}

func (u *Uniform) Lenient() bool { return u.lenient }

// Suppressed returns how many mismatch warnings were swallowed since the
// last link.
func (u *Uniform) Suppressed() int {
	return max(u.mismatches-1, 0)
}

// Set uploads v to the uniform of the program in use. A mismatching value
// fails with ErrMismatch if the uniform is active and strict; otherwise it is
// discarded with a warning. Setting a uniform by hand supersedes its global
// until the global's value is pushed again at the next Use.
func (u *Uniform) Set(v uniform.Value) error {
	if err := u.set(v); err != nil {
		return err
	}
	u.applied = 0
	return nil
}

func (u *Uniform) set(v uniform.Value) error {
	if err := u.check(v); err != nil {
		if !u.lenient && u.Active() {
			return err
		}
		if u.mismatches == 0 {
			log.Printf("WARNING: %v", err)
		}
		u.mismatches++
		return nil
	}
	v.Upload(u.program.fn, u.location)
	return nil
}

func (u *Uniform) check(v uniform.Value) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %s holds a partial element, cannot apply to %s", ErrMismatch, v, u)
	}
	if !u.Active() || v.Type() != u.ty || v.Count() != u.size {
		return fmt.Errorf("%w: cannot apply %s to %s", ErrMismatch, v, u)
	}
	return nil
}

func (u *Uniform) activate(loc native.Location, ty uniform.Type, size int) {
	u.location, u.ty, u.size = loc, ty, size
}

func (u *Uniform) deactivate() {
	u.location, u.ty, u.size = native.NoLocation, uniform.Unsupported, 0
}

func (u *Uniform) attach(g *uniform.Global) {
	if u.global != g {
		u.global, u.applied = g, 0
	}
}

func (u *Uniform) detach() {
	u.global, u.applied = nil, 0
}

// push applies the global's value if it changed since it was last pushed.
func (u *Uniform) push() error {
	v, rev := u.global.Load()
	if rev == u.applied {
		return nil
	}
	if err := u.set(v); err != nil {
		return fmt.Errorf("%s: %w", u.global, err)
	}
	u.applied = rev
	return nil
}

func (u *Uniform) String() string {
	s := fmt.Sprintf("uniform %q", u.name)
	if u.Active() {
		s += fmt.Sprintf(" %s", u.ty)
		if u.size > 1 {
			s += fmt.Sprintf("[%d]", u.size)
		}
		s += fmt.Sprintf(" at %d", u.location)
	} else {
		s += " (inactive)"
	}
	if u.global != nil {
		s += fmt.Sprintf(" mirroring %q", u.global.Name())
	}
	return s
}

// Attribute is a named vertex attribute of a program, resolved the same way
// uniforms are.
type Attribute struct {
	name     string
	location native.Location
	ty       uniform.Type
	size     int
}

func newAttribute(name string) *Attribute {
	return &Attribute{name: name, location: native.NoLocation}
}

func (a *Attribute) Name() string { return a.name }

func (a *Attribute) Location() native.Location { return a.location }

func (a *Attribute) Active() bool { return a.location != native.NoLocation }

func (a *Attribute) Type() uniform.Type { return a.ty }

// Dimension returns the number of components per vertex, zero while
// inactive.
func (a *Attribute) Dimension() int { return a.ty.Dimension() }

func (a *Attribute) Size() int { return a.size }

func (a *Attribute) activate(loc native.Location, ty uniform.Type, size int) {
	a.location, a.ty, a.size = loc, ty, size
}

func (a *Attribute) deactivate() {
	a.location, a.ty, a.size = native.NoLocation, uniform.Unsupported, 0
}

func (a *Attribute) String() string {
	if !a.Active() {
		return fmt.Sprintf("attribute %q (inactive)", a.name)
	}
	return fmt.Sprintf("attribute %q %s at %d", a.name, a.ty, a.location)
}
