package pixels

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/irfansharif/glow/internal/native"
)

func checkerboard(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: uint8((x + y) % 2 * 255), A: 255})
		}
	}
	return img
}

// grab returns the tightly packed pixels of a rectangle of src.
func grab(src interface {
	Depth() int
	Grab(x, y, width, height int, dst []byte, offset, stride int)
}, x, y, width, height int) []byte {
	bpp := src.Depth() / 8
	dst := make([]byte, width*height*bpp)
	src.Grab(x, y, width, height, dst, 0, width*bpp)
	return dst
}

func TestFromImage(t *testing.T) {
	img := checkerboard(4, 3)
	m := FromImage(img)
	require.Equal(t, 4, m.Width())
	require.Equal(t, 3, m.Height())
	require.Equal(t, 32, m.Depth())
	require.Equal(t, native.Enum(native.RGBA), m.Format())
	require.Equal(t, native.Enum(native.UNSIGNED_BYTE), m.Type())
	require.Equal(t, img.Pix, grab(m, 0, 0, 4, 3))

	// Sub-images start at their own origin.
	sub := FromImage(img.SubImage(image.Rect(1, 1, 3, 3)))
	require.Equal(t, 2, sub.Width())
	require.Equal(t, 2, sub.Height())
	want := append(append([]byte(nil), img.Pix[img.PixOffset(1, 1):img.PixOffset(3, 1)]...),
		img.Pix[img.PixOffset(1, 2):img.PixOffset(3, 2)]...)
	require.Equal(t, want, grab(sub, 0, 0, 2, 2))
}

func TestFromImageConverts(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.Pix = []byte{1, 2, 3, 4}
	m := FromImage(gray)
	require.Equal(t, native.Enum(native.RED), m.Format())
	require.Equal(t, 8, m.Depth())
	require.Equal(t, []byte{3, 4}, grab(m, 0, 1, 2, 1))

	paletted := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{color.Black, color.White})
	paletted.SetColorIndex(1, 0, 1)
	m = FromImage(paletted)
	require.Equal(t, native.Enum(native.RGBA), m.Format())
	require.Equal(t, []byte{0, 0, 0, 255, 255, 255, 255, 255}, grab(m, 0, 0, 2, 1))
}

func TestGrabIntoPaddedRows(t *testing.T) {
	m := FromImage(checkerboard(3, 2))
	dst := make([]byte, 2+2*16)
	m.Grab(1, 0, 2, 2, dst, 2, 16)
	require.Equal(t, grab(m, 1, 0, 2, 1), dst[2:10])
	require.Equal(t, grab(m, 1, 1, 2, 1), dst[18:26])
	require.Equal(t, make([]byte, 8), dst[10:18], "padding is left alone")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	img := checkerboard(5, 4)

	write := func(name string, encode func(f *os.File) error) string {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, encode(f))
		require.NoError(t, f.Close())
		return path
	}
	for _, path := range []string{
		write("board.png", func(f *os.File) error { return png.Encode(f, img) }),
		write("board.bmp", func(f *os.File) error { return bmp.Encode(f, img) }),
	} {
		m, err := Load(path)
		require.NoError(t, err, path)
		require.Equal(t, 5, m.Width())
		require.Equal(t, 4, m.Height())
		require.Equal(t, img.Pix, grab(m, 0, 0, 5, 4), path)
	}

	_, err := Load(filepath.Join(dir, "missing.png"))
	require.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = Load(garbage)
	require.ErrorIs(t, err, image.ErrFormat)
}

func TestScaled(t *testing.T) {
	m := Scaled(checkerboard(8, 8), 4, 2)
	require.Equal(t, 4, m.Width())
	require.Equal(t, 2, m.Height())
	require.Len(t, grab(m, 0, 0, 4, 2), 32)
}

func TestGradient(t *testing.T) {
	black, white := colorful.Color{}, colorful.Color{R: 1, G: 1, B: 1}
	g := NewGradient(5, 3, Stop{Pos: 1, Color: white}, Stop{Pos: 0, Color: black})
	require.Equal(t, 0.0, g.Stops()[0].Pos)
	require.Equal(t, 32, g.Depth())

	row := grab(g, 0, 0, 5, 1)
	require.Equal(t, []byte{0, 0, 0, 255}, row[:4])
	require.Equal(t, []byte{255, 255, 255, 255}, row[16:])
	for x := 1; x < 5; x++ {
		require.Greater(t, row[x*4], row[(x-1)*4], "brightens left to right")
		require.Equal(t, byte(255), row[x*4+3])
	}

	// Every row is the same, and sub-rectangles agree with the whole.
	all := grab(g, 0, 0, 5, 3)
	require.Equal(t, row, all[20:40])
	require.Equal(t, row[8:16], grab(g, 2, 2, 2, 1))

	require.Equal(t, make([]byte, 0), grab(NewGradient(0, 0), 0, 0, 0, 0))
	require.Equal(t, []byte{0, 0, 0, 255}, grab(NewGradient(1, 1), 0, 0, 1, 1))
}

func TestRandomStops(t *testing.T) {
	stops := RandomStops(rand.New(rand.NewSource(1)))
	require.Len(t, stops, 5)
	require.Equal(t, 0.0, stops[0].Pos)
	require.Equal(t, 1.0, stops[4].Pos)
	require.Equal(t, colorful.Color{R: 1, G: 1, B: 1}, stops[1].Color)
	for _, s := range stops {
		require.True(t, s.Color.IsValid())
	}
	require.Equal(t, stops, RandomStops(rand.New(rand.NewSource(1))), "deterministic")

	shimmered := Shimmered(stops, rand.New(rand.NewSource(2)))
	require.Equal(t, stops[:2], shimmered[:2])
	require.NotEqual(t, stops[2:], shimmered[2:])
	for i := 2; i < 5; i++ {
		h0, s0, _ := stops[i].Color.Hsv()
		h1, s1, _ := shimmered[i].Color.Hsv()
		require.InDelta(t, h0, h1, 1e-6)
		require.InDelta(t, s0, s1, 1e-6)
	}
}
