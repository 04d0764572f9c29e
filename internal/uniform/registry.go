package uniform

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// ErrDuplicate is returned when declaring a global under a name that is
// already taken.
var ErrDuplicate = errors.New("duplicate global uniform")

// Registry is a set of uniquely named globals. Programs sharing a registry
// mirror its globals into their same-named uniforms. It is safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	globals  map[string]*Global
	revision atomic.Uint64
}

func NewRegistry() *Registry {
	return &Registry{globals: make(map[string]*Global)}
}

// Declare creates the global called name. Names are never reused: declaring
// an existing name fails with ErrDuplicate and leaves the existing global
// untouched.
func (r *Registry) Declare(name string) (*Global, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.globals[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	return r.declareLocked(name), nil
}

func (r *Registry) declareLocked(name string) *Global {
	g := &Global{name: name}
	r.globals[name] = g
	r.revision.Add(1)
	return g
}

// Get returns the global called name, declaring it if needed.
func (r *Registry) Get(name string) *Global {
	if g, ok := r.Lookup(name); ok {
		return g
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.globals[name]; ok {
		return g
	}
	return r.declareLocked(name)
}

// Lookup returns the global called name, if any.
func (r *Registry) Lookup(name string) (*Global, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.globals[name]
	return g, ok
}

// Names returns the declared names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.globals))
	for name := range r.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Revision counts declarations. It changes exactly when a new name appears.
func (r *Registry) Revision() uint64 {
	return r.revision.Load()
}

// Global is a named value. Every change to the value bumps its revision;
// readers compare revisions to tell whether they are behind.
type Global struct {
	name string

	mu       sync.Mutex
	value    Value
	revision uint64
}

func (g *Global) Name() string { return g.name }

// Set stores a copy of v. Setting the current value again changes nothing.
func (g *Global) Set(v Value) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.revision > 0 && g.value.Equal(v) {
		return
	}
	g.value = v.Clone()
	g.revision++
}

// Load returns a copy of the value with the revision it was stored at.
// Revision zero means the value was never set.
func (g *Global) Load() (Value, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value.Clone(), g.revision
}

// Revision returns the number of changes made to the value.
func (g *Global) Revision() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.revision
}

func (g *Global) String() string {
	v, rev := g.Load()
	if rev == 0 {
		return fmt.Sprintf("global %q (unset)", g.name)
	}
	return fmt.Sprintf("global %q %s", g.name, v)
}
