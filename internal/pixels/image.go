// Package pixels provides pixel sources textures can stream from: decoded
// images and procedural gradients.
package pixels

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/irfansharif/glow/internal/native"
)

// Image is a pixel source backed by the pixels of a decoded image.
type Image struct {
	width, height int
	bpp           int
	format        native.Enum

	pix    []byte
	stride int
}

// FromImage wraps img. RGBA, NRGBA and Gray images are used in place; any
// other image is converted to NRGBA first.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	switch m := img.(type) {
	case *image.RGBA:
		return &Image{width: b.Dx(), height: b.Dy(), bpp: 4, format: native.RGBA,
			pix: m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], stride: m.Stride}
	case *image.NRGBA:
		return &Image{width: b.Dx(), height: b.Dy(), bpp: 4, format: native.RGBA,
			pix: m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], stride: m.Stride}
	case *image.Gray:
		return &Image{width: b.Dx(), height: b.Dy(), bpp: 1, format: native.RED,
			pix: m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], stride: m.Stride}
	}
	converted := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(converted, converted.Bounds(), img, b.Min, draw.Src)
	return FromImage(converted)
}

// Scaled resamples img to width x height.
func Scaled(img image.Image, width, height int) *Image {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return FromImage(dst)
}

// Decode reads an image from path. PNG, JPEG, GIF, BMP, TIFF and WebP are
// understood.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	pixelsLogger.Printf("decoded %s (%s, %dx%d)", path, format, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// Load decodes the image at path into a pixel source.
func Load(path string) (*Image, error) {
	img, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

func (m *Image) Width() int          { return m.width }
func (m *Image) Height() int         { return m.height }
func (m *Image) Depth() int          { return m.bpp * 8 }
func (m *Image) Format() native.Enum { return m.format }
func (m *Image) Type() native.Enum   { return native.UNSIGNED_BYTE }

func (m *Image) Grab(x, y, width, height int, dst []byte, offset, stride int) {
	n := width * m.bpp
	for row := 0; row < height; row++ {
		from := (y+row)*m.stride + x*m.bpp
		copy(dst[offset+row*stride:offset+row*stride+n], m.pix[from:from+n])
	}
}
