package app

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	minZoom  = 0.1
	maxZoom  = 8.0
	zoomStep = 0.15
)

// View manages the current view state including zoom, pan, and viewport.
// Canvas coordinates are pixels relative to the viewport center, y down.
type View struct {
	Zoom          float64
	PanX, PanY    float64
	Width, Height int
}

// NewView creates a new view state with default values.
func NewView(width, height int) *View {
	return &View{
		Zoom:   1.0,
		Width:  width,
		Height: height,
	}
}

// SetZoom sets the zoom level, clamping to valid range.
func (vs *View) SetZoom(zoom float64) {
	if zoom < minZoom {
		vs.Zoom = minZoom
	} else if zoom > maxZoom {
		vs.Zoom = maxZoom
	} else {
		vs.Zoom = zoom
	}
}

// SetPan sets the pan position to the given coordinates.
func (vs *View) SetPan(x, y float64) {
	vs.PanX = x
	vs.PanY = y
}

// SetViewport updates the viewport dimensions.
func (vs *View) SetViewport(width, height int) {
	vs.Width = width
	vs.Height = height
}

// Reset resets zoom to 1.0 and centers the canvas.
func (vs *View) Reset() {
	vs.Zoom = 1.0
	vs.PanX, vs.PanY = 0, 0
}

// PanBy moves the view by (dx, dy) framebuffer pixels.
func (vs *View) PanBy(dx, dy float64) {
	vs.SetPan(vs.PanX+dx, vs.PanY+dy)
}

// ZoomAt zooms in (delta > 0) or out around the framebuffer position
// (x, y), keeping the canvas point under it in place.
func (vs *View) ZoomAt(delta, x, y float64) {
	// Cursor position relative to viewport center.
	cursorX, cursorY := x-float64(vs.Width)/2, y-float64(vs.Height)/2

	// What canvas point is under the cursor right now?
	canvasX, canvasY := vs.ToCanvas(x, y)

	vs.SetZoom(vs.Zoom * (1.0 + delta*zoomStep))

	// Calculate new pan to keep that canvas point at the cursor.
	vs.SetPan(cursorX-canvasX*vs.Zoom, cursorY-canvasY*vs.Zoom)
}

// ToCanvas maps a framebuffer position to canvas coordinates.
func (vs *View) ToCanvas(x, y float64) (float64, float64) {
	return (x - float64(vs.Width)/2 - vs.PanX) / vs.Zoom,
		(y - float64(vs.Height)/2 - vs.PanY) / vs.Zoom
}

// Transform maps canvas coordinates to clip space.
func (vs *View) Transform() mgl32.Mat4 {
	w, h := float32(max(vs.Width, 1)), float32(max(vs.Height, 1))
	zoom := float32(vs.Zoom)
	return mgl32.Scale3D(2/w, -2/h, 1).
		Mul4(mgl32.Translate3D(float32(vs.PanX), float32(vs.PanY), 0)).
		Mul4(mgl32.Scale3D(zoom, zoom, 1))
}
