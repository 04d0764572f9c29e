// Package resource wraps native GPU objects (textures, framebuffers,
// renderbuffers) behind deferred update queues.
//
// Producers describe changes as commands and Send them from any goroutine;
// nothing touches the native object until the goroutine owning the GPU
// context binds it. Binding allocates the native object on first use and
// then drains the commands queued so far, in order. Texture uploads are
// additionally metered by a flow.Controller, and whatever a controller
// declines is re-queued as a Transfer for a later bind.
package resource

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/irfansharif/glow/internal/native"
)

var resourceLogger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("GLOW_DEBUG_RESOURCE") == "1" {
		resourceLogger = log.New(os.Stdout, "[resource] ", log.Ltime|log.Lmsgprefix)
	}
}

// kind is what differs between resource types: how their native objects
// are made, bound and released, and how they interpret commands.
type kind interface {
	generate() native.Object
	bind(target native.Enum, name native.Object)
	release(name native.Object)
	apply(target native.Enum, cmd Command)
}

// Object is the lifecycle shared by all resources. The native name is owned
// by the goroutine owning the GPU context; Send is safe from anywhere.
type Object struct {
	fn      native.Functions
	kind    kind
	label   string
	name    native.Object
	pending queue[Command]

	mu     sync.Mutex
	status string
}

func (o *Object) init(fn native.Functions, k kind, label string) {
	o.fn, o.kind, o.label = fn, k, label
}

// Send queues cmd for the next bind. It never touches the native object.
func (o *Object) Send(cmd Command) {
	o.pending.push(cmd)
}

// Bind allocates the native object if needed, binds it to target and applies
// the commands queued before the call. Commands queued while applying (such
// as transfer continuations) are left for the next bind. It reports whether
// there was nothing to apply.
func (o *Object) Bind(target native.Enum) (upToDate bool) {
	if o.name == native.Invalid {
		o.name = o.kind.generate()
		resourceLogger.Printf("allocated %s %d", o.label, o.name)
	}
	o.kind.bind(target, o.name)
	n := o.pending.drain(func(cmd Command) {
		o.kind.apply(target, cmd)
	})
	if n > 0 {
		resourceLogger.Printf("applied %d command(s) to %s %d, %d left", n, o.label, o.name, o.pending.len())
	}
	return n == 0
}

// Update brings the object up to date without disturbing whatever the caller
// has bound to target. It is a no-op for allocated objects with nothing
// pending.
func (o *Object) Update(target native.Enum) {
	if o.name != native.Invalid && o.pending.len() == 0 {
		return
	}
	previous := native.Invalid
	binding, ok := native.BindingFor(target)
	if ok {
		previous = native.Object(o.fn.GetInteger(binding))
	}
	o.Bind(target)
	o.kind.bind(target, previous)
}

// Delete drops pending commands and releases the native object. A later
// bind allocates a fresh one.
func (o *Object) Delete() {
	if n := o.pending.clear(); n > 0 {
		resourceLogger.Printf("dropped %d pending command(s) of %s %d", n, o.label, o.name)
	}
	if o.name == native.Invalid {
		return
	}
	o.kind.release(o.name)
	resourceLogger.Printf("released %s %d", o.label, o.name)
	o.name = native.Invalid
}

// Name returns the native object, or native.Invalid before the first bind.
func (o *Object) Name() native.Object {
	return o.name
}

// Pending returns the number of queued commands.
func (o *Object) Pending() int {
	return o.pending.len()
}

// Status returns the last diagnostic recorded for the object; it is empty
// when the last checked operation succeeded.
func (o *Object) Status() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Object) setStatus(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = s
}
