package pixels

import (
	"io"
	"log"
	"math/rand"
	"os"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/irfansharif/glow/internal/native"
)

var pixelsLogger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("GLOW_DEBUG_PIXELS") == "1" {
		pixelsLogger = log.New(os.Stdout, "[pixels] ", log.Ltime|log.Lmsgprefix)
	}
}

// Stop is a gradient color at a position in [0, 1].
type Stop struct {
	Pos   float64
	Color colorful.Color
}

// Gradient is an RGBA pixel source blending its stops left to right, in
// Lab space. Every row is the same.
type Gradient struct {
	width, height int
	stops         []Stop
	row           []byte
}

// NewGradient returns a width x height gradient through stops, which need
// not be sorted. With no stops the gradient is black.
func NewGradient(width, height int, stops ...Stop) *Gradient {
	stops = slices.Clone(stops)
	slices.SortStableFunc(stops, func(a, b Stop) int {
		switch {
		case a.Pos < b.Pos:
			return -1
		case a.Pos > b.Pos:
			return 1
		}
		return 0
	})
	g := &Gradient{width: width, height: height, stops: stops, row: make([]byte, width*4)}
	for x := 0; x < width; x++ {
		t := 0.0
		if width > 1 {
			t = float64(x) / float64(width-1)
		}
		r, gr, b := g.At(t).RGB255()
		copy(g.row[x*4:], []byte{r, gr, b, 255})
	}
	return g
}

// At returns the color at position t.
func (g *Gradient) At(t float64) colorful.Color {
	if len(g.stops) == 0 {
		return colorful.Color{}
	}
	first, last := g.stops[0], g.stops[len(g.stops)-1]
	if t <= first.Pos {
		return first.Color
	}
	if t >= last.Pos {
		return last.Color
	}
	i := 1
	for g.stops[i].Pos < t {
		i++
	}
	lo, hi := g.stops[i-1], g.stops[i]
	if hi.Pos == t {
		return hi.Color
	}
	return lo.Color.BlendLab(hi.Color, (t-lo.Pos)/(hi.Pos-lo.Pos)).Clamped()
}

// Stops returns the sorted stops.
func (g *Gradient) Stops() []Stop { return slices.Clone(g.stops) }

func (g *Gradient) Width() int          { return g.width }
func (g *Gradient) Height() int         { return g.height }
func (g *Gradient) Depth() int          { return 32 }
func (g *Gradient) Format() native.Enum { return native.RGBA }
func (g *Gradient) Type() native.Enum   { return native.UNSIGNED_BYTE }

func (g *Gradient) Grab(x, y, width, height int, dst []byte, offset, stride int) {
	src := g.row[x*4 : (x+width)*4]
	for row := 0; row < height; row++ {
		copy(dst[offset+row*stride:], src)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hsb converts hue, saturation and brightness, all in [0, 100], to a color.
func hsb(h, s, b float64) colorful.Color {
	return colorful.Hsv(h*3.6, clamp(s/100.0, 0, 1), clamp(b/100.0, 0, 1))
}

// RandomStops returns five evenly spaced stops: a dark base, plain white,
// and three muted accents.
func RandomStops(r *rand.Rand) []Stop {
	colors := []colorful.Color{
		hsb(r.Float64()*100, r.Float64()*100, r.Float64()*30),
		colorful.Color{R: 1, G: 1, B: 1},
	}
	for i := 2; i < 5; i++ {
		colors = append(colors, hsb(r.Float64()*100, r.Float64()*50+25, r.Float64()*50+25))
	}
	stops := make([]Stop, len(colors))
	for i, c := range colors {
		stops[i] = Stop{Pos: float64(i) / float64(len(colors)-1), Color: c}
	}
	return stops
}

// Shimmered jitters the brightness of the accent stops, the ones past the
// first two.
func Shimmered(stops []Stop, r *rand.Rand) []Stop {
	out := slices.Clone(stops)
	for i := 2; i < len(out); i++ {
		h, s, v := out[i].Color.Hsv()
		v = clamp(v+(r.Float64()-0.5)*0.2, 0, 1)
		out[i].Color = colorful.Hsv(h, s, v)
	}
	return out
}
