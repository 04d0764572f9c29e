package vertex

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rclancey/earcut"

	"github.com/irfansharif/glow/internal/shader"
)

// ErrDegenerate is returned for polygons that cannot be triangulated.
var ErrDegenerate = errors.New("degenerate polygon")

// Triangulate splits a simple polygon into triangles using the earcut
// algorithm. Holes are given as further rings.
func Triangulate(outline []mgl32.Vec2, holes ...[]mgl32.Vec2) ([][3]mgl32.Vec2, error) {
	if len(outline) < 3 {
		return nil, fmt.Errorf("%w: %d vertices < 3", ErrDegenerate, len(outline))
	}

	// Flat coordinates as earcut wants them: [x0, y0, x1, y1, ...].
	n := len(outline)
	for _, h := range holes {
		n += len(h)
	}
	coords := make([]float64, 0, n*2)
	var holeIndices []int
	for i, ring := range append([][]mgl32.Vec2{outline}, holes...) {
		if i > 0 {
			holeIndices = append(holeIndices, len(coords)/2)
		}
		for _, p := range ring {
			coords = append(coords, float64(p[0]), float64(p[1]))
		}
	}

	// Triangulate.
	indices, err := earcut.Earcut(coords, holeIndices, 2 /* dim */)
	if err != nil {
		return nil, fmt.Errorf("triangulating %d-vertex polygon: %w", len(outline), err)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices not divisible by 3", ErrDegenerate, len(indices))
	}

	// Convert triangle indices back to vertices.
	vertex := func(i int) mgl32.Vec2 {
		return mgl32.Vec2{float32(coords[i*2]), float32(coords[i*2+1])}
	}
	triangles := make([][3]mgl32.Vec2, len(indices)/3)
	for t := range triangles {
		triangles[t] = [3]mgl32.Vec2{vertex(indices[t*3]), vertex(indices[t*3+1]), vertex(indices[t*3+2])}
	}
	return triangles, nil
}

// Polygon triangulates outline and writes the triangles' vertices to the
// plane of attr. The batch should be drawn as native.TRIANGLES.
func (a *Arrays) Polygon(attr *shader.Attribute, outline []mgl32.Vec2, holes ...[]mgl32.Vec2) *Arrays {
	a.Attribute(attr)
	if a.err != nil {
		return a
	}
	triangles, err := Triangulate(outline, holes...)
	if err != nil {
		a.err = err
		return a
	}
	for _, t := range triangles {
		for _, p := range t {
			a.Vec2(p[0], p[1])
		}
	}
	return a
}
