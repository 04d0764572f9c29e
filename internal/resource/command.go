package resource

import "github.com/irfansharif/glow/internal/native"

// Command is a deferred native operation. Commands carry only data; each
// resource kind interprets the commands it understands when it is bound,
// against whatever target it was bound to.
type Command interface {
	command()
}

type (
	texStorage struct {
		level          int
		internalFormat native.Enum
		width, height  int
	}

	texParameteri struct {
		pname native.Enum
		param int
	}

	texParameterf struct {
		pname native.Enum
		param float32
	}

	generateMipmap struct{}

	fbTexture2D struct {
		attachment native.Enum
		texTarget  native.Enum
		texture    *Texture
		level      int
	}

	fbRenderbuffer struct {
		attachment   native.Enum
		renderbuffer *Renderbuffer
	}

	rbStorage struct {
		samples        int
		internalFormat native.Enum
		width, height  int
	}
)

func (texStorage) command()     {}
func (texParameteri) command()  {}
func (texParameterf) command()  {}
func (generateMipmap) command() {}
func (fbTexture2D) command()    {}
func (fbRenderbuffer) command() {}
func (rbStorage) command()      {}
func (Transfer) command()       {}
