package resource

import (
	"fmt"

	"github.com/irfansharif/glow/internal/native"
)

// Renderbuffer is a renderbuffer object.
type Renderbuffer struct {
	Object
}

var _ kind = (*Renderbuffer)(nil)

func NewRenderbuffer(fn native.Functions) *Renderbuffer {
	rb := &Renderbuffer{}
	rb.init(fn, rb, "renderbuffer")
	return rb
}

// SendStorage allocates width x height storage of internalFormat.
func (rb *Renderbuffer) SendStorage(internalFormat native.Enum, width, height int) *Renderbuffer {
	rb.Send(rbStorage{internalFormat: internalFormat, width: width, height: height})
	return rb
}

// SendStorageMultisample allocates multisampled storage.
func (rb *Renderbuffer) SendStorageMultisample(samples int, internalFormat native.Enum, width, height int) *Renderbuffer {
	rb.Send(rbStorage{samples: samples, internalFormat: internalFormat, width: width, height: height})
	return rb
}

func (rb *Renderbuffer) generate() native.Object {
	return rb.fn.GenRenderbuffer()
}

func (rb *Renderbuffer) bind(target native.Enum, name native.Object) {
	rb.fn.BindRenderbuffer(target, name)
}

func (rb *Renderbuffer) release(name native.Object) {
	rb.fn.DeleteRenderbuffer(name)
}

func (rb *Renderbuffer) apply(target native.Enum, cmd Command) {
	c, ok := cmd.(rbStorage)
	if !ok {
		panic(fmt.Sprintf("resource: renderbuffer cannot apply %T", cmd))
	}
	if c.samples > 0 {
		rb.fn.RenderbufferStorageMultisample(target, c.samples, c.internalFormat, c.width, c.height)
		return
	}
	rb.fn.RenderbufferStorage(target, c.internalFormat, c.width, c.height)
}
