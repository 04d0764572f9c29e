package shader

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/irfansharif/glow/internal/native"
	"github.com/irfansharif/glow/internal/uniform"
)

// ErrDeleted is returned when using a deleted program.
var ErrDeleted = errors.New("program deleted")

// Program is a shader program linked on demand from its shaders.
//
// Use must be called from the goroutine owning the GPU context. Uniform and
// Attribute lookups may happen anywhere.
type Program struct {
	fn      native.Functions
	globals *uniform.Registry
	shaders []*Shader

	// Owned by the goroutine owning the GPU context.
	name           native.Object
	linked         []uint64 // shader versions at the last link attempt
	sourceRevision uint64
	globalRevision uint64
	mirrored       []*Uniform
	usable         bool // the last link attempt succeeded
	everLinked     bool
	deleted        bool
	links          int

	mu                 sync.Mutex
	uniforms           map[string]*Uniform
	uniformDecls       uint64
	uniformsResolved   uint64
	attributes         map[string]*Attribute
	attributeDecls     uint64
	attributesResolved uint64
	status             string
}

// NewProgram returns a program made of shaders. Uniforms named like a
// global of registry mirror it; registry may be nil.
func NewProgram(fn native.Functions, registry *uniform.Registry, shaders ...*Shader) *Program {
	for _, s := range shaders {
		s.retain()
	}
	return &Program{
		fn:         fn,
		globals:    registry,
		shaders:    shaders,
		linked:     make([]uint64, len(shaders)),
		uniforms:   make(map[string]*Uniform),
		attributes: make(map[string]*Attribute),
	}
}

// Use makes the program current, first relinking it if any of its shaders
// changed and re-resolving whatever the change invalidated, then pushes the
// globals whose values moved since the last Use.
//
// Compile and link failures are not errors: they are reported through
// Status and the program keeps its previous locations. The returned error
// carries the global values strict uniforms rejected.
func (p *Program) Use() error {
	if p.deleted {
		return ErrDeleted
	}
	relinked := p.link()
	if p.everLinked {
		p.fn.UseProgram(p.name)
	}
	if !p.usable {
		return nil
	}

	p.mu.Lock()
	uniformsStale := relinked || p.uniformDecls != p.uniformsResolved
	attributesStale := relinked || p.attributeDecls != p.attributesResolved
	p.mu.Unlock()

	if uniformsStale {
		p.resolveUniforms()
	}
	if attributesStale {
		p.resolveAttributes()
	}
	if p.globals == nil {
		return nil
	}
	if rev := p.globals.Revision(); uniformsStale || rev != p.globalRevision {
		p.resolveGlobals(rev, relinked)
	}

	var errs []error
	for _, u := range p.mirrored {
		if err := u.push(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// link relinks the program if a shader changed since the last attempt, and
// reports whether a successful link happened.
func (p *Program) link() bool {
	rev := sourceRevision.Load()
	if p.name != native.Invalid && rev == p.sourceRevision {
		return false
	}
	p.sourceRevision = rev

	stale := p.name == native.Invalid
	for i, s := range p.shaders {
		if s.Changed() != p.linked[i] {
			stale = true
		}
	}
	if !stale {
		return false
	}
	if p.name == native.Invalid {
		p.name = p.fn.CreateProgram()
	}

	for i, s := range p.shaders {
		p.linked[i], _ = s.compile(p.fn)
		p.fn.AttachShader(p.name, s.name)
	}
	p.fn.LinkProgram(p.name)
	for _, s := range p.shaders {
		p.fn.DetachShader(p.name, s.name)
	}
	p.links++

	p.mu.Lock()
	for _, u := range p.uniforms {
		u.mismatches = 0
	}
	p.mu.Unlock()

	if p.fn.GetProgrami(p.name, native.LINK_STATUS) == native.FALSE {
		status := p.fn.GetProgramInfoLog(p.name)
		if status == "" {
			status = "link failed"
		}
		p.setStatus(status)
		p.usable = false
		log.Printf("WARNING: program %d link failed: %s", p.name, status)
		return false
	}
	p.setStatus("")
	p.usable, p.everLinked = true, true
	shaderLogger.Printf("linked program %d (%d links)", p.name, p.links)
	return true
}

// arrayName strips the element suffix arrays are reported with.
func arrayName(name string) string {
	return strings.TrimSuffix(name, "[0]")
}

func (p *Program) resolveUniforms() {
	p.mu.Lock()
	defer p.mu.Unlock()

	seen := make(map[string]bool)
	n := p.fn.GetProgrami(p.name, native.ACTIVE_UNIFORMS)
	for i := 0; i < n; i++ {
		name, size, ty := p.fn.GetActiveUniform(p.name, i)
		name = arrayName(name)
		if strings.HasPrefix(name, "gl_") {
			continue
		}
		u, ok := p.uniforms[name]
		if !ok {
			u = newUniform(p, name)
			p.uniforms[name] = u
		}
		u.activate(p.fn.GetUniformLocation(p.name, name), uniform.TypeOf(ty), size)
		seen[name] = true
	}
	for name, u := range p.uniforms {
		if !seen[name] {
			u.deactivate()
		}
	}
	p.uniformsResolved = p.uniformDecls
	shaderLogger.Printf("program %d: resolved %d active uniform(s) of %d", p.name, len(seen), len(p.uniforms))
}

func (p *Program) resolveAttributes() {
	p.mu.Lock()
	defer p.mu.Unlock()

	seen := make(map[string]bool)
	n := p.fn.GetProgrami(p.name, native.ACTIVE_ATTRIBUTES)
	for i := 0; i < n; i++ {
		name, size, ty := p.fn.GetActiveAttrib(p.name, i)
		name = arrayName(name)
		if strings.HasPrefix(name, "gl_") {
			continue
		}
		a, ok := p.attributes[name]
		if !ok {
			a = newAttribute(name)
			p.attributes[name] = a
		}
		a.activate(p.fn.GetAttribLocation(p.name, name), uniform.TypeOf(ty), size)
		seen[name] = true
	}
	for name, a := range p.attributes {
		if !seen[name] {
			a.deactivate()
		}
	}
	p.attributesResolved = p.attributeDecls
}

// resolveGlobals recomputes which active uniforms mirror a global. After a
// relink every mirrored value is pushed again, since linking resets them.
func (p *Program) resolveGlobals(rev uint64, relinked bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.mirrored = p.mirrored[:0]
	for name, u := range p.uniforms {
		g, ok := p.globals.Lookup(name)
		if !ok || !u.Active() {
			u.detach()
			continue
		}
		u.attach(g)
		if relinked {
			u.applied = 0
		}
		p.mirrored = append(p.mirrored, u)
	}
	sort.Slice(p.mirrored, func(i, j int) bool { return p.mirrored[i].name < p.mirrored[j].name })
	p.globalRevision = rev
}

// Uniform returns the uniform called name, creating an inactive one if the
// program does not know it yet. The same name always yields the same
// Uniform.
func (p *Program) Uniform(name string) *Uniform {
	name = arrayName(name)
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.uniforms[name]
	if !ok {
		u = newUniform(p, name)
		p.uniforms[name] = u
		p.uniformDecls++
	}
	return u
}

// Attribute returns the attribute called name, creating an inactive one if
// the program does not know it yet.
func (p *Program) Attribute(name string) *Attribute {
	name = arrayName(name)
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.attributes[name]
	if !ok {
		a = newAttribute(name)
		p.attributes[name] = a
		p.attributeDecls++
	}
	return a
}

// Active returns the active uniforms, sorted by name.
func (p *Program) Active() []*Uniform {
	return p.filter(true)
}

// Inactive returns the uniforms the program knows of but the current link
// does not provide, sorted by name.
func (p *Program) Inactive() []*Uniform {
	return p.filter(false)
}

func (p *Program) filter(active bool) []*Uniform {
	p.mu.Lock()
	defer p.mu.Unlock()
	var us []*Uniform
	for _, u := range p.uniforms {
		if u.Active() == active {
			us = append(us, u)
		}
	}
	sort.Slice(us, func(i, j int) bool { return us[i].name < us[j].name })
	return us
}

// Attributes returns all known attributes, sorted by name.
func (p *Program) Attributes() []*Attribute {
	p.mu.Lock()
	defer p.mu.Unlock()
	as := make([]*Attribute, 0, len(p.attributes))
	for _, a := range p.attributes {
		as = append(as, a)
	}
	sort.Slice(as, func(i, j int) bool { return as[i].name < as[j].name })
	return as
}

// Mirrored returns the uniforms currently mirroring a global.
func (p *Program) Mirrored() []*Uniform {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Uniform(nil), p.mirrored...)
}

// Status returns the last link log if linking failed, or the empty string.
func (p *Program) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Program) setStatus(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = s
}

// Name returns the native program, or native.Invalid before the first Use.
func (p *Program) Name() native.Object { return p.name }

// Shaders returns the attached shaders.
func (p *Program) Shaders() []*Shader { return p.shaders }

// Delete releases the native program and the program's hold on its
// shaders. A deleted program cannot be used.
func (p *Program) Delete() {
	if p.deleted {
		return
	}
	p.deleted = true
	if p.name != native.Invalid {
		p.fn.DeleteProgram(p.name)
		p.name = native.Invalid
	}
	for _, s := range p.shaders {
		s.release(p.fn)
	}
}

func (p *Program) String() string {
	stages := make([]string, len(p.shaders))
	for i, s := range p.shaders {
		stages[i] = s.String()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	active := 0
	for _, u := range p.uniforms {
		if u.Active() {
			active++
		}
	}
	return fmt.Sprintf("program %d [%s] %d active, %d inactive uniform(s)",
		p.name, strings.Join(stages, " "), active, len(p.uniforms)-active)
}
