package resource

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfansharif/glow/internal/flow"
	"github.com/irfansharif/glow/internal/native"
	"github.com/irfansharif/glow/internal/native/nativetest"
)

// bytesSource is a tightly packed in-memory pixel source.
type bytesSource struct {
	width, height int
	bpp           int
	format, ty    native.Enum
	data          []byte
}

func newRGBSource(width, height int) *bytesSource {
	s := &bytesSource{width: width, height: height, bpp: 3, format: native.RGB, ty: native.UNSIGNED_BYTE}
	s.data = make([]byte, width*height*3)
	for i := range s.data {
		s.data[i] = byte(i*7 + 1)
	}
	return s
}

func newRGBASource(width, height int, seed byte) *bytesSource {
	s := &bytesSource{width: width, height: height, bpp: 4, format: native.RGBA, ty: native.UNSIGNED_BYTE}
	s.data = make([]byte, width*height*4)
	for i := range s.data {
		s.data[i] = seed + byte(i)
	}
	return s
}

func (s *bytesSource) Width() int          { return s.width }
func (s *bytesSource) Height() int         { return s.height }
func (s *bytesSource) Depth() int          { return s.bpp * 8 }
func (s *bytesSource) Format() native.Enum { return s.format }
func (s *bytesSource) Type() native.Enum   { return s.ty }

func (s *bytesSource) Grab(x, y, width, height int, dst []byte, offset, stride int) {
	for row := 0; row < height; row++ {
		from := ((y+row)*s.width + x) * s.bpp
		copy(dst[offset+row*stride:], s.data[from:from+width*s.bpp])
	}
}

// region returns the tightly packed bytes of a rectangle of img.
func region(img *nativetest.Image, x, y, width, height int) []byte {
	bpp := img.BytesPerPixel()
	var out []byte
	for row := y; row < y+height; row++ {
		from := (row*img.Width + x) * bpp
		out = append(out, img.Data[from:from+width*bpp]...)
	}
	return out
}

func TestQueueDrainDefersPushesDuringDrain(t *testing.T) {
	var q queue[int]
	q.push(1)
	q.push(2)

	var seen []int
	n := q.drain(func(v int) {
		seen = append(seen, v)
		q.push(v * 10)
	})
	require.Equal(t, 2, n)
	require.Equal(t, []int{1, 2}, seen)
	require.Equal(t, []int{10, 20}, q.snapshot())

	require.Equal(t, 2, q.clear())
	require.Equal(t, 0, q.drain(func(int) { t.Fatal("unexpected entry") }))
}

func TestBindAllocatesLazilyAndOnce(t *testing.T) {
	f := nativetest.New()
	tex := NewTexture(f)
	require.Equal(t, native.Invalid, tex.Name())

	tex.SendMinFilter(Linear)
	require.Equal(t, 0, f.Count("GenTexture"), "sending must not touch the native object")
	require.Equal(t, 1, tex.Pending())

	require.False(t, tex.Bind(native.TEXTURE_2D))
	name := tex.Name()
	require.NotEqual(t, native.Invalid, name)
	require.Equal(t, name, f.Bound(native.TEXTURE_2D))
	require.Equal(t, float64(native.LINEAR), f.Texture(name).Parameters[native.TEXTURE_MIN_FILTER])

	calls := f.Count("TexParameteri")
	require.True(t, tex.Bind(native.TEXTURE_2D))
	require.True(t, tex.Bind(native.TEXTURE_2D))
	require.Equal(t, 1, f.Count("GenTexture"))
	require.Equal(t, calls, f.Count("TexParameteri"), "an up to date bind applies nothing")
	require.Equal(t, name, tex.Name())
}

func TestCommandsApplyInOrder(t *testing.T) {
	f := nativetest.New()
	tex := NewTexture(f)
	tex.SendMagFilter(Linear).SendMagFilter(Nearest).SendWrap(Mirror).SendWrapS(ClampToEdge)
	tex.SendParameterf(native.TEXTURE_MIN_FILTER, native.LINEAR)
	tex.Bind(native.TEXTURE_2D)

	params := f.Texture(tex.Name()).Parameters
	require.Equal(t, float64(native.NEAREST), params[native.TEXTURE_MAG_FILTER])
	require.Equal(t, float64(native.CLAMP_TO_EDGE), params[native.TEXTURE_WRAP_S])
	require.Equal(t, float64(native.MIRRORED_REPEAT), params[native.TEXTURE_WRAP_T])
	require.Equal(t, float64(native.MIRRORED_REPEAT), params[native.TEXTURE_WRAP_R])
	require.Equal(t, float64(native.LINEAR), params[native.TEXTURE_MIN_FILTER])
}

func TestUpdateKeepsCallersBinding(t *testing.T) {
	f := nativetest.New()
	a, b := NewTexture(f), NewTexture(f)
	a.Bind(native.TEXTURE_2D)

	b.SendGenerateMipmap()
	b.Update(native.TEXTURE_2D)
	require.Equal(t, a.Name(), f.Bound(native.TEXTURE_2D))
	require.Equal(t, 0, b.Pending())
	require.Equal(t, 1, f.Texture(b.Name()).Mipmaps)

	binds := f.Count("BindTexture")
	b.Update(native.TEXTURE_2D)
	require.Equal(t, binds, f.Count("BindTexture"), "updating an up to date object is a no-op")
}

func TestDeleteDropsPendingAndReallocates(t *testing.T) {
	f := nativetest.New()
	tex := NewTexture(f)
	tex.Bind(native.TEXTURE_2D)
	first := tex.Name()

	tex.SendGenerateMipmap()
	tex.Delete()
	require.Equal(t, 0, tex.Pending())
	require.Equal(t, native.Invalid, tex.Name())
	require.False(t, f.Exists(first))
	require.Equal(t, 0, f.Count("GenerateMipmap"))

	tex.Delete()
	require.Equal(t, 1, f.Count("DeleteTexture"))

	require.True(t, tex.Bind(native.TEXTURE_2D))
	require.NotEqual(t, first, tex.Name())
	require.True(t, f.Exists(tex.Name()))
}

func TestConcurrentProducers(t *testing.T) {
	f := nativetest.New()
	tex := NewTexture(f)

	const producers, each = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				tex.SendGenerateMipmap()
			}
		}()
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		select {
		case <-done:
			tex.Bind(native.TEXTURE_2D)
			require.Equal(t, producers*each, f.Texture(tex.Name()).Mipmaps)
			return
		default:
			tex.Bind(native.TEXTURE_2D)
		}
	}
}

func TestUnthrottledUpload(t *testing.T) {
	f := nativetest.New()
	src := newRGBSource(5, 7)
	tex := NewTexture(f).SendSource(src)
	require.Len(t, tex.Transfers(), 1)

	tex.Bind(native.TEXTURE_2D)
	img := f.Texture(tex.Name()).Levels[0]
	require.Equal(t, src.data, img.Data)
	require.Equal(t, native.Enum(native.RGB), img.InternalFormat)
	require.Equal(t, 1, f.Count("TexImage2D"))
	require.Equal(t, 0, f.Count("TexSubImage2D"))
	require.Empty(t, tex.Transfers())

	stats := tex.Stats()
	require.Equal(t, 1, stats.Chunks)
	require.Equal(t, int64(16*7), stats.BytesUploaded, "rows are padded to the unpack alignment")
}

func TestChunkedUploadMatchesUnthrottled(t *testing.T) {
	src := newRGBSource(5, 7)
	const stride = 16 // 5 RGB pixels padded to 4 bytes

	reference := nativetest.New()
	ref := NewTexture(reference).SendSource(src)
	ref.Bind(native.TEXTURE_2D)
	want := reference.Texture(ref.Name()).Levels[0].Data

	f := nativetest.New()
	tex := NewTexture(f).SetFlow(flow.Capped{Limit: 2 * stride})
	tex.SendImage(0, native.RGB, 5, 7, src)

	tex.Bind(native.TEXTURE_2D)
	img := f.Texture(tex.Name()).Levels[0]
	require.Equal(t, src.data[:2*15], region(img, 0, 0, 5, 2))
	for _, b := range region(img, 0, 2, 5, 5) {
		require.Equal(t, byte(nativetest.Uninitialized), b)
	}
	require.Equal(t, 1, tex.Pending(), "the continuation waits for the next bind")
	transfers := tex.Transfers()
	require.Len(t, transfers, 1)
	assert.Equal(t, 2, transfers[0].Y)
	assert.Equal(t, 2, transfers[0].SkipY)
	assert.Equal(t, 5, transfers[0].H)
	assert.False(t, transfers[0].Fresh)

	binds := 1
	for tex.Pending() > 0 {
		tex.Bind(native.TEXTURE_2D)
		binds++
		require.LessOrEqual(t, binds, 10)
	}
	require.Equal(t, 4, binds)
	require.Equal(t, want, f.Texture(tex.Name()).Levels[0].Data)
	require.Equal(t, 1, f.Count("TexImage2D"))
	require.Equal(t, 4, f.Count("TexSubImage2D"))
	require.Equal(t, int64(stride*7), tex.Stats().BytesUploaded, "no row is uploaded twice")
}

func TestUploadHonoursUnpackAlignment(t *testing.T) {
	f := nativetest.New()
	f.PixelStorei(native.UNPACK_ALIGNMENT, 8)

	src := newRGBSource(5, 3)
	tex := NewTexture(f).SetFlow(flow.Capped{Limit: 16})
	tex.SendSource(src)
	for i := 0; i < 3; i++ {
		require.False(t, tex.Bind(native.TEXTURE_2D))
	}
	require.Equal(t, 0, tex.Pending())
	require.Equal(t, src.data, f.Texture(tex.Name()).Levels[0].Data)
	require.Equal(t, int64(3*16), tex.Stats().BytesUploaded)
}

func TestZeroGrantAllocatesAndRetries(t *testing.T) {
	f := nativetest.New()
	src := newRGBASource(4, 4, 0)
	quota := flow.NewRationed(0, 0)
	tex := NewTexture(f).SetFlow(quota)
	tex.SendSource(src)

	require.False(t, tex.Bind(native.TEXTURE_2D))
	img := f.Texture(tex.Name()).Levels[0]
	require.NotNil(t, img, "the image is allocated even without a grant")
	require.Equal(t, 4, img.Width)
	require.Equal(t, 4, img.Height)
	require.Equal(t, 1, tex.Pending())
	require.Equal(t, 1, tex.Stats().Deferred)
	retry := tex.Transfers()[0]
	require.False(t, retry.Fresh)
	require.Equal(t, 0, retry.Y)
	require.Equal(t, 4, retry.H)

	// Still nothing granted: the retry is re-queued unchanged.
	tex.Bind(native.TEXTURE_2D)
	require.Equal(t, retry, tex.Transfers()[0])
	require.Equal(t, 2, tex.Stats().Deferred)

	quota.Permit(1 << 20)
	tex.Bind(native.TEXTURE_2D)
	require.Equal(t, 0, tex.Pending())
	require.Equal(t, src.data, f.Texture(tex.Name()).Levels[0].Data)
	require.Equal(t, 1, f.Count("TexImage2D"))
	require.Equal(t, 1, f.Count("TexSubImage2D"))
}

func TestZeroGrantRetriesSubImage(t *testing.T) {
	f := nativetest.New()
	src := newRGBASource(4, 2, 3)
	quota := flow.NewRationed(0, 0)
	tex := NewTexture(f).SetFlow(quota)
	tex.SendStorage(0, native.RGBA8, 8, 8).SendSubImage(0, 2, 3, 4, 2, src)

	tex.Bind(native.TEXTURE_2D)
	require.Equal(t, 1, tex.Pending())
	retry := tex.Transfers()[0]
	require.Equal(t, Transfer{X: 2, Y: 3, W: 4, H: 2, Source: src}, retry)
	require.Zero(t, f.Count("TexSubImage2D"))

	tex.Bind(native.TEXTURE_2D)
	require.Equal(t, retry, tex.Transfers()[0])
	require.Equal(t, 2, tex.Stats().Deferred)
	require.Zero(t, f.Count("TexSubImage2D"))

	quota.Permit(1 << 20)
	tex.Bind(native.TEXTURE_2D)
	require.Equal(t, 0, tex.Pending())
	require.Equal(t, 1, f.Count("TexSubImage2D"))
	require.Equal(t, src.data, region(f.Texture(tex.Name()).Levels[0], 2, 3, 4, 2))
}

func TestGrantBelowOneRowUploadsARow(t *testing.T) {
	f := nativetest.New()
	src := newRGBASource(4, 4, 9) // 16 byte rows
	quota := flow.NewRationed(40, 10)
	tex := NewTexture(f).SetFlow(quota)
	tex.SendSource(src)

	for i := 0; i < 4; i++ {
		tex.Bind(native.TEXTURE_2D)
		require.Equal(t, i+1, tex.Stats().Chunks, "every bind moves one row")
	}
	require.Equal(t, 0, tex.Pending())
	require.Equal(t, 0.0, quota.Remaining())
	require.Zero(t, tex.Stats().Deferred)
	require.Equal(t, src.data, f.Texture(tex.Name()).Levels[0].Data)
	require.Equal(t, 1, f.Count("TexImage2D"))
	require.Equal(t, 4, f.Count("TexSubImage2D"))
}

func TestImageLargerThanSource(t *testing.T) {
	f := nativetest.New()
	src := newRGBASource(2, 2, 100)
	tex := NewTexture(f).SendImage(0, native.RGBA8, 4, 3, src)
	tex.Bind(native.TEXTURE_2D)

	img := f.Texture(tex.Name()).Levels[0]
	require.Equal(t, 4, img.Width)
	require.Equal(t, 3, img.Height)
	require.Equal(t, native.Enum(native.RGBA8), img.InternalFormat)
	require.Equal(t, src.data, region(img, 0, 0, 2, 2))
	for _, b := range region(img, 2, 0, 2, 3) {
		require.Equal(t, byte(nativetest.Uninitialized), b)
	}
}

func TestSubImage(t *testing.T) {
	f := nativetest.New()
	tex := NewTexture(f).SendStorage(0, native.RGBA8, 8, 8)
	// Requests beyond the source are clipped to it.
	src := newRGBASource(4, 2, 7)
	tex.SendSubImage(0, 2, 3, 10, 10, src)
	tex.Bind(native.TEXTURE_2D)

	img := f.Texture(tex.Name()).Levels[0]
	require.Equal(t, 8, img.Width)
	require.Equal(t, src.data, region(img, 2, 3, 4, 2))
	require.Equal(t, byte(nativetest.Uninitialized), region(img, 0, 0, 1, 1)[0])
}

func TestChunkedSubImage(t *testing.T) {
	f := nativetest.New()
	src := newRGBASource(3, 5, 1)
	tex := NewTexture(f).SetFlow(flow.Capped{Limit: 12})
	tex.SendStorage(0, native.RGBA8, 6, 6).SendSubImage(0, 1, 1, 3, 5, src)

	for i := 0; i < 5; i++ {
		tex.Bind(native.TEXTURE_2D)
	}
	require.Equal(t, 0, tex.Pending())
	img := f.Texture(tex.Name()).Levels[0]
	require.Equal(t, src.data, region(img, 1, 1, 3, 5))
	require.Equal(t, 5, f.Count("TexSubImage2D"))
}

func TestFramebufferAttachmentsUpdateAttached(t *testing.T) {
	f := nativetest.New()
	color := NewTexture(f).SendStorage(0, native.RGBA8, 16, 16)
	depth := NewRenderbuffer(f).SendStorage(native.DEPTH_COMPONENT24, 16, 16)

	fb := NewFramebuffer(f).
		SendTexture(native.COLOR_ATTACHMENT0, color, 0).
		SendRenderbuffer(native.DEPTH_ATTACHMENT, depth)
	require.False(t, fb.BindFramebuffer(native.FRAMEBUFFER))
	require.Empty(t, fb.Status())

	require.NotEqual(t, native.Invalid, color.Name())
	require.Equal(t, 0, color.Pending())
	require.Equal(t, 0, depth.Pending())
	require.Equal(t, native.Invalid, f.Bound(native.TEXTURE_2D), "attaching must not disturb texture bindings")

	state := f.Framebuffer(fb.Name())
	require.Equal(t, color.Name(), state.Attachments[native.COLOR_ATTACHMENT0])
	require.Equal(t, depth.Name(), state.Attachments[native.DEPTH_ATTACHMENT])
	rb := f.Renderbuffer(depth.Name())
	require.Equal(t, 16, rb.Width)
	require.Equal(t, native.Enum(native.DEPTH_COMPONENT24), rb.InternalFormat)

	checks := f.Count("CheckFramebufferStatus")
	require.True(t, fb.BindFramebuffer(native.FRAMEBUFFER))
	require.Equal(t, checks, f.Count("CheckFramebufferStatus"))
}

func TestIncompleteFramebufferStatus(t *testing.T) {
	f := nativetest.New()
	fb := NewFramebuffer(f)
	require.True(t, fb.BindFramebuffer(native.FRAMEBUFFER))
	require.Contains(t, fb.Status(), "incomplete")

	fb.SendRenderbuffer(native.COLOR_ATTACHMENT0, NewRenderbuffer(f).SendStorageMultisample(4, native.RGBA8, 8, 8))
	fb.BindFramebuffer(native.FRAMEBUFFER)
	require.Empty(t, fb.Status())
	rb := f.Renderbuffer(f.Framebuffer(fb.Name()).Attachments[native.COLOR_ATTACHMENT0])
	require.Equal(t, 4, rb.Samples)
}
