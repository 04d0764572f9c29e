package resource

import (
	"fmt"

	"github.com/irfansharif/glow/internal/native"
)

// Framebuffer is a framebuffer object. Attached textures and renderbuffers
// are brought up to date when the attachment is applied.
type Framebuffer struct {
	Object
	checked bool
}

var _ kind = (*Framebuffer)(nil)

func NewFramebuffer(fn native.Functions) *Framebuffer {
	fb := &Framebuffer{}
	fb.init(fn, fb, "framebuffer")
	return fb
}

// SendTexture attaches level of a 2D texture at attachment.
func (fb *Framebuffer) SendTexture(attachment native.Enum, t *Texture, level int) *Framebuffer {
	fb.Send(fbTexture2D{attachment: attachment, texTarget: native.TEXTURE_2D, texture: t, level: level})
	return fb
}

// SendRenderbuffer attaches rb at attachment.
func (fb *Framebuffer) SendRenderbuffer(attachment native.Enum, rb *Renderbuffer) *Framebuffer {
	fb.Send(fbRenderbuffer{attachment: attachment, renderbuffer: rb})
	return fb
}

// BindFramebuffer binds fb to target like Bind, then checks whether it is
// complete. Incomplete framebuffers record the native status in Status.
func (fb *Framebuffer) BindFramebuffer(target native.Enum) (upToDate bool) {
	upToDate = fb.Bind(target)
	if upToDate && fb.checked {
		return true
	}
	fb.checked = true
	if status := fb.fn.CheckFramebufferStatus(target); status != native.FRAMEBUFFER_COMPLETE {
		fb.setStatus(fmt.Sprintf("framebuffer incomplete: 0x%x", uint32(status)))
		resourceLogger.Printf("framebuffer %d incomplete: 0x%x", fb.name, uint32(status))
	} else {
		fb.setStatus("")
	}
	return upToDate
}

func (fb *Framebuffer) generate() native.Object {
	return fb.fn.GenFramebuffer()
}

func (fb *Framebuffer) bind(target native.Enum, name native.Object) {
	fb.fn.BindFramebuffer(target, name)
}

func (fb *Framebuffer) release(name native.Object) {
	fb.checked = false
	fb.fn.DeleteFramebuffer(name)
}

func (fb *Framebuffer) apply(target native.Enum, cmd Command) {
	switch c := cmd.(type) {
	case fbTexture2D:
		c.texture.Update(c.texTarget)
		fb.fn.FramebufferTexture2D(target, c.attachment, c.texTarget, c.texture.Name(), c.level)
	case fbRenderbuffer:
		c.renderbuffer.Update(native.RENDERBUFFER)
		fb.fn.FramebufferRenderbuffer(target, c.attachment, native.RENDERBUFFER, c.renderbuffer.Name())
	default:
		panic(fmt.Sprintf("resource: framebuffer cannot apply %T", cmd))
	}
}
