package resource

import (
	"sync"

	"github.com/irfansharif/glow/internal/native"
)

// PixelSource is anything pixels can be grabbed from, a decoded image or a
// procedurally generated one.
type PixelSource interface {
	Width() int
	Height() int
	// Depth is the size of one pixel in bits.
	Depth() int
	Format() native.Enum
	Type() native.Enum
	// Grab copies the width x height rectangle at (x, y) into dst, starting
	// at offset, with rows stride bytes apart.
	Grab(x, y, width, height int, dst []byte, offset, stride int)
}

// Transfer is an upload of (part of) a pixel source into a texture image,
// either one that has yet to start or the remainder of one a flow
// controller cut short.
type Transfer struct {
	Level int
	// Fresh transfers (re)define the image at Level with the declared
	// InternalFormat, Width and Height before uploading into it.
	Fresh          bool
	InternalFormat native.Enum
	Width, Height  int

	// X and Y locate the destination rectangle within the image, W and H
	// bound its size.
	X, Y, W, H int
	// SkipX and SkipY locate the rectangle within Source.
	SkipX, SkipY int
	Source       PixelSource
}

// transferBuffer is the staging memory shared by all uploads. It is held
// for the duration of one grab and upload.
var transferBuffer struct {
	sync.Mutex
	buf []byte
}

// withTransferBuffer calls fn with at least n bytes of staging memory,
// growing the shared buffer if it is too small.
func withTransferBuffer(n int, fn func(buf []byte)) {
	transferBuffer.Lock()
	defer transferBuffer.Unlock()
	if len(transferBuffer.buf) < n {
		transferBuffer.buf = make([]byte, n*3/2)
		resourceLogger.Printf("grew transfer buffer to %d bytes", len(transferBuffer.buf))
	}
	fn(transferBuffer.buf[:n])
}

func pad(value, granularity int) int {
	return (value + granularity - 1) / granularity * granularity
}

// internalFormatForFormat picks the unsized internal format matching a
// client pixel format.
func internalFormatForFormat(format native.Enum) native.Enum {
	switch format {
	case native.RED_INTEGER:
		return native.RED
	case native.RG_INTEGER:
		return native.RG
	case native.BGR, native.RGB_INTEGER, native.BGR_INTEGER:
		return native.RGB
	case native.BGRA, native.RGBA_INTEGER, native.BGRA_INTEGER:
		return native.RGBA
	default:
		return format
	}
}

// storageFormat picks a client format and type compatible with an internal
// format, for allocations that carry no data.
func storageFormat(internalFormat native.Enum) (native.Enum, native.Enum) {
	switch internalFormat {
	case native.DEPTH_COMPONENT, native.DEPTH_COMPONENT24:
		return native.DEPTH_COMPONENT, native.FLOAT
	case native.RED, native.R8:
		return native.RED, native.UNSIGNED_BYTE
	case native.RG, native.RG8:
		return native.RG, native.UNSIGNED_BYTE
	case native.RGB, native.RGB8:
		return native.RGB, native.UNSIGNED_BYTE
	default:
		return native.RGBA, native.UNSIGNED_BYTE
	}
}

// transfer runs one step of t. It uploads as many rows as the flow
// controller grants and queues the rest as a continuation.
func (t *Texture) transfer(target native.Enum, tr Transfer) {
	src := tr.Source
	w := min(tr.W, src.Width()-tr.SkipX)
	h := min(tr.H, src.Height()-tr.SkipY)
	if w <= 0 || h <= 0 {
		if tr.Fresh {
			t.allocate(target, tr)
		}
		return
	}

	// Rows are padded to the unpack alignment.
	align := t.fn.GetInteger(native.UNPACK_ALIGNMENT)
	if align <= 0 {
		align = 4
	}
	bpp := (src.Depth() + 7) / 8
	stride := pad(w*bpp, align)

	// Ask for the whole rectangle. Any grant short of it is rounded to
	// whole rows, and a non-zero grant always moves at least one.
	requested := float64(stride * h)
	granted := t.Flow().Allocate(requested)
	lines := h
	if granted < requested {
		lines = int(granted) / stride
		if granted > 0 {
			lines = max(lines, 1)
		}
	}

	// Nothing granted: make sure the image exists and retry the same
	// rectangle on the next bind.
	if lines <= 0 {
		if tr.Fresh {
			t.allocate(target, tr)
			tr.Fresh = false
		}
		tr.W, tr.H = w, h
		t.Send(tr)
		t.record(func(s *Stats) { s.Deferred++ })
		return
	}

	// Stage and upload the granted rows.
	withTransferBuffer(stride*lines, func(buf []byte) {
		src.Grab(tr.SkipX, tr.SkipY, w, lines, buf, 0, stride)
		whole := tr.X == 0 && tr.Y == 0 && w == tr.Width && lines == tr.Height
		switch {
		case tr.Fresh && whole:
			t.fn.TexImage2D(target, tr.Level, tr.InternalFormat, w, lines, src.Format(), src.Type(), buf)
		case tr.Fresh:
			t.allocate(target, tr)
			fallthrough
		default:
			t.fn.TexSubImage2D(target, tr.Level, tr.X, tr.Y, w, lines, src.Format(), src.Type(), buf)
		}
	})
	t.record(func(s *Stats) {
		s.BytesUploaded += int64(stride * lines)
		s.Chunks++
	})

	// Queue the remaining rows as a continuation.
	if lines < h {
		tr.Fresh = false
		tr.Y += lines
		tr.SkipY += lines
		tr.W, tr.H = w, h-lines
		t.Send(tr)
		resourceLogger.Printf("texture %d: uploaded %d/%d rows, continuing at row %d", t.name, lines, h, tr.Y)
	}
}

// allocate defines the image a fresh transfer targets, without contents.
func (t *Texture) allocate(target native.Enum, tr Transfer) {
	format, ty := tr.Source.Format(), tr.Source.Type()
	t.fn.TexImage2D(target, tr.Level, tr.InternalFormat, tr.Width, tr.Height, format, ty, nil)
}
