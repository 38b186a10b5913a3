// Package render turns overlay shapes into GPU-ready vertex data:
// 1. Triangulates every shape polygon with earcut.
// 2. Colors the triangles from the overlay palette.
// 3. Hands the interleaved vertices to a GPU buffer and draws them with a
// world-to-NDC matrix derived from the current view.
//
// It also rasterizes the same shapes on the CPU for PNG snapshots.
package render

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/overlay"
	"github.com/irfansharif/extent/internal/palette"
	"github.com/irfansharif/extent/internal/view"
)

// FloatsPerVertex is the interleaved layout: x, y, r, g, b, a.
const FloatsPerVertex = 6

// Buffer is the GPU side of the renderer.
type Buffer interface {
	Upload(vertices []float32) error
	Draw(transform [16]float32) error
}

// Stats tracks rendering performance metrics.
type Stats struct {
	Triangles         int
	LastPrepareTimeMs float64 // time spent in last Prepare() call in milliseconds
	LastDrawTimeUs    float64 // time spent in last Draw() call in microseconds
}

type Renderer struct {
	buffer  Buffer
	palette palette.Palette
	origin  geom.Point // vertex coordinates are relative to this point
	stats   Stats
}

func NewRenderer(buffer Buffer, pal palette.Palette) *Renderer {
	return &Renderer{buffer: buffer, palette: pal}
}

// Prepare triangulates the shapes and uploads them.
func (r *Renderer) Prepare(shapes []overlay.Shape) error {
	startTime := time.Now()
	if len(shapes) > 0 {
		r.origin = geom.BoundsOf(shapes[0].Path).Center()
	}
	vertices, err := Tessellate(shapes, r.palette, r.origin)
	if err != nil {
		return err
	}
	if err := r.buffer.Upload(vertices); err != nil {
		return fmt.Errorf("uploading overlay: %w", err)
	}
	r.stats.Triangles = len(vertices) / FloatsPerVertex / 3
	r.stats.LastPrepareTimeMs = float64(time.Since(startTime).Microseconds()) / 1000.0
	return nil
}

// Draw renders the last prepared shapes through v.
func (r *Renderer) Draw(v *view.View) error {
	startTime := time.Now()
	if err := r.buffer.Draw(Transform(v, r.origin)); err != nil {
		return fmt.Errorf("drawing overlay: %w", err)
	}
	r.stats.LastDrawTimeUs = float64(time.Since(startTime).Microseconds())
	return nil
}

// SetPalette changes the colors used by the next Prepare.
func (r *Renderer) SetPalette(pal palette.Palette) {
	r.palette = pal
}

// Stats returns the current performance statistics.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Tessellate triangulates shapes in order and returns interleaved vertices,
// positioned relative to origin.
func Tessellate(shapes []overlay.Shape, pal palette.Palette, origin geom.Point) ([]float32, error) {
	vertices := make([]float32, 0, len(shapes)*18*FloatsPerVertex) // estimate
	for _, shape := range shapes {
		triangles, err := earClip(shape.Path, origin)
		if err != nil {
			return nil, fmt.Errorf("%s shape: %w", shape.Kind, err)
		}
		c := palette.Float(pal[shape.Color])
		for _, tri := range triangles {
			for v := 0; v < 3; v++ {
				vertices = append(vertices,
					float32(tri[v].X), float32(tri[v].Y), // position
					c[0], c[1], c[2], c[3], // color
				)
			}
		}
	}
	return vertices, nil
}

// Transform computes the matrix taking origin-relative world coordinates to
// OpenGL NDC for the view's visible extent.
func Transform(v *view.View, origin geom.Point) [16]float32 {
	ext := v.Extent()
	return [16]float32(mgl32.Ortho2D(
		float32(ext.X-origin.X), float32(ext.X+ext.W-origin.X),
		float32(ext.Y-origin.Y), float32(ext.Y+ext.H-origin.Y),
	))
}
