package resource

import (
	"fmt"
	"sync"

	"github.com/irfansharif/glow/internal/flow"
	"github.com/irfansharif/glow/internal/native"
)

// Filter is a texture minification or magnification filter.
type Filter native.Enum

const (
	Nearest              Filter = native.NEAREST
	Linear               Filter = native.LINEAR
	NearestMipmapNearest Filter = native.NEAREST_MIPMAP_NEAREST
	LinearMipmapNearest  Filter = native.LINEAR_MIPMAP_NEAREST
	NearestMipmapLinear  Filter = native.NEAREST_MIPMAP_LINEAR
	LinearMipmapLinear   Filter = native.LINEAR_MIPMAP_LINEAR
)

// Wrap is a texture coordinate wrap mode.
type Wrap native.Enum

const (
	Repeat      Wrap = native.REPEAT
	Mirror      Wrap = native.MIRRORED_REPEAT
	ClampToEdge Wrap = native.CLAMP_TO_EDGE
)

// Stats tracks the upload work of a texture.
type Stats struct {
	BytesUploaded int64 // bytes handed to the native upload calls
	Chunks        int   // native upload calls that carried data
	Deferred      int   // transfers re-queued without progress
	Pending       int   // commands waiting for the next bind
}

// Texture is a texture object whose uploads are metered by a flow
// controller. Unless configured otherwise it uploads everything at once.
type Texture struct {
	Object

	mu    sync.Mutex
	flow  flow.Controller
	stats Stats
}

var _ kind = (*Texture)(nil)

// NewTexture returns a texture that is allocated on first bind.
func NewTexture(fn native.Functions) *Texture {
	t := &Texture{flow: flow.Unlimited{}}
	t.init(fn, t, "texture")
	return t
}

// SetFlow sets the controller metering subsequent uploads.
func (t *Texture) SetFlow(c flow.Controller) *Texture {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flow = c
	return t
}

// Flow returns the controller metering uploads.
func (t *Texture) Flow() flow.Controller {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flow
}

// SendImage defines the image at level as width x height texels of
// internalFormat, filled from src. Parts of the image src does not cover
// are left uninitialized.
func (t *Texture) SendImage(level int, internalFormat native.Enum, width, height int, src PixelSource) *Texture {
	flow.Warm(t.Flow())
	t.Send(Transfer{
		Level:          level,
		Fresh:          true,
		InternalFormat: internalFormat,
		Width:          width,
		Height:         height,
		W:              width,
		H:              height,
		Source:         src,
	})
	return t
}

// SendSource defines the base image from src, sized and formatted like it.
func (t *Texture) SendSource(src PixelSource) *Texture {
	return t.SendImage(0, internalFormatForFormat(src.Format()), src.Width(), src.Height(), src)
}

// SendStorage defines the image at level without contents.
func (t *Texture) SendStorage(level int, internalFormat native.Enum, width, height int) *Texture {
	flow.Warm(t.Flow())
	t.Send(texStorage{level: level, internalFormat: internalFormat, width: width, height: height})
	return t
}

// SendSubImage replaces the width x height rectangle at (x, y) of the image
// at level with the top left of src.
func (t *Texture) SendSubImage(level, x, y, width, height int, src PixelSource) *Texture {
	flow.Warm(t.Flow())
	t.Send(Transfer{Level: level, X: x, Y: y, W: width, H: height, Source: src})
	return t
}

// SendParameter sets an integer texture parameter.
func (t *Texture) SendParameter(pname native.Enum, param int) *Texture {
	t.Send(texParameteri{pname: pname, param: param})
	return t
}

// SendParameterf sets a float texture parameter.
func (t *Texture) SendParameterf(pname native.Enum, param float32) *Texture {
	t.Send(texParameterf{pname: pname, param: param})
	return t
}

func (t *Texture) SendMinFilter(f Filter) *Texture {
	return t.SendParameter(native.TEXTURE_MIN_FILTER, int(f))
}

func (t *Texture) SendMagFilter(f Filter) *Texture {
	return t.SendParameter(native.TEXTURE_MAG_FILTER, int(f))
}

// SendWrap sets the wrap mode along all three axes.
func (t *Texture) SendWrap(w Wrap) *Texture {
	t.SendParameter(native.TEXTURE_WRAP_R, int(w))
	t.SendParameter(native.TEXTURE_WRAP_S, int(w))
	return t.SendParameter(native.TEXTURE_WRAP_T, int(w))
}

func (t *Texture) SendWrapS(w Wrap) *Texture { return t.SendParameter(native.TEXTURE_WRAP_S, int(w)) }
func (t *Texture) SendWrapT(w Wrap) *Texture { return t.SendParameter(native.TEXTURE_WRAP_T, int(w)) }
func (t *Texture) SendWrapR(w Wrap) *Texture { return t.SendParameter(native.TEXTURE_WRAP_R, int(w)) }

// SendGenerateMipmap regenerates the mipmap chain from the base image once
// the commands queued before it have been applied.
func (t *Texture) SendGenerateMipmap() *Texture {
	t.Send(generateMipmap{})
	return t
}

// Transfers returns the uploads that have not completed yet.
func (t *Texture) Transfers() []Transfer {
	var transfers []Transfer
	for _, cmd := range t.pending.snapshot() {
		if tr, ok := cmd.(Transfer); ok {
			transfers = append(transfers, tr)
		}
	}
	return transfers
}

// Stats returns a snapshot of the upload statistics.
func (t *Texture) Stats() Stats {
	t.mu.Lock()
	s := t.stats
	t.mu.Unlock()
	s.Pending = t.Pending()
	return s
}

func (t *Texture) record(fn func(*Stats)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.stats)
}

func (t *Texture) generate() native.Object {
	return t.fn.GenTexture()
}

func (t *Texture) bind(target native.Enum, name native.Object) {
	t.fn.BindTexture(target, name)
}

func (t *Texture) release(name native.Object) {
	t.fn.DeleteTexture(name)
}

func (t *Texture) apply(target native.Enum, cmd Command) {
	switch c := cmd.(type) {
	case Transfer:
		t.transfer(target, c)
	case texStorage:
		format, ty := storageFormat(c.internalFormat)
		t.fn.TexImage2D(target, c.level, c.internalFormat, c.width, c.height, format, ty, nil)
	case texParameteri:
		t.fn.TexParameteri(target, c.pname, c.param)
	case texParameterf:
		t.fn.TexParameterf(target, c.pname, c.param)
	case generateMipmap:
		t.fn.GenerateMipmap(target)
	default:
		panic(fmt.Sprintf("resource: texture cannot apply %T", cmd))
	}
}
