// Package view tracks the visible window onto the projected map plane and
// converts between framebuffer pixels and world coordinates.
package view

import (
	"github.com/irfansharif/extent/internal/geom"
)

const (
	minResolution = 0.05     // world units per pixel, fully zoomed in
	maxResolution = 156543.0 // world units per pixel at web-mercator zoom 0
)

// View manages the current view state: the world point under the viewport
// center, the resolution (world units per pixel) and the viewport size.
// Pixel space has its origin at the top-left with y growing downwards; world
// space has y growing northwards.
type View struct {
	Center        geom.Point
	Resolution    float64
	Width, Height int
}

// NewView creates a view of the given size centered on center.
func NewView(width, height int, center geom.Point, resolution float64) *View {
	vs := &View{
		Center: center,
		Width:  width,
		Height: height,
	}
	vs.SetResolution(resolution)
	return vs
}

// SetResolution sets the resolution, clamping to valid range.
func (vs *View) SetResolution(res float64) {
	vs.Resolution = geom.Clamp(res, minResolution, maxResolution)
}

// SetViewport updates the viewport dimensions.
func (vs *View) SetViewport(width, height int) {
	vs.Width = width
	vs.Height = height
}

// PixelToWorld converts a framebuffer position to world coordinates.
func (vs *View) PixelToWorld(px geom.Point) geom.Point {
	cx, cy := float64(vs.Width)/2, float64(vs.Height)/2
	return geom.MakePoint(
		vs.Center.X+(px.X-cx)*vs.Resolution,
		vs.Center.Y-(px.Y-cy)*vs.Resolution,
	)
}

// WorldToPixel is the inverse of PixelToWorld.
func (vs *View) WorldToPixel(p geom.Point) geom.Point {
	cx, cy := float64(vs.Width)/2, float64(vs.Height)/2
	return geom.MakePoint(
		cx+(p.X-vs.Center.X)/vs.Resolution,
		cy-(p.Y-vs.Center.Y)/vs.Resolution,
	)
}

// PixelFrame returns the affine transform taking framebuffer positions to
// world coordinates; it agrees with PixelToWorld.
func (vs *View) PixelFrame() geom.Affine {
	cx, cy := float64(vs.Width)/2, float64(vs.Height)/2
	r := vs.Resolution
	return geom.MakeAffine(r, 0, vs.Center.X-cx*r, 0, -r, vs.Center.Y+cy*r)
}

// WorldFrame is the inverse of PixelFrame, for callers mapping many world
// points to pixels.
func (vs *View) WorldFrame() (geom.Affine, error) {
	return vs.PixelFrame().Inv()
}

// PixelsToWorld converts a pixel distance to world units at the current
// resolution.
func (vs *View) PixelsToWorld(px float64) float64 {
	return px * vs.Resolution
}

// PanPixels moves the view so that content follows a pointer drag of
// (dx, dy) pixels.
func (vs *View) PanPixels(dx, dy float64) {
	vs.Center = vs.Center.Add(geom.MakePoint(-dx*vs.Resolution, dy*vs.Resolution))
}

// ZoomAt scales the resolution by 1/factor, keeping the world point under
// pixel px fixed on screen. factor > 1 zooms in.
func (vs *View) ZoomAt(px geom.Point, factor float64) {
	if factor <= 0 {
		return
	}
	anchor := vs.PixelToWorld(px)
	vs.SetResolution(vs.Resolution / factor)
	drift := vs.PixelToWorld(px).Sub(anchor)
	vs.Center = vs.Center.Sub(drift)
}

// Fit centers the view on b and picks the resolution at which b, grown by
// margin pixels on each side, fills the viewport.
func (vs *View) Fit(b geom.Box, margin float64) {
	vs.Center = b.Center()
	availW := float64(vs.Width) - 2*margin
	availH := float64(vs.Height) - 2*margin
	if availW <= 0 || availH <= 0 || b.W <= 0 || b.H <= 0 {
		return
	}
	res := b.W / availW
	if r := b.H / availH; r > res {
		res = r
	}
	vs.SetResolution(res)
}

// Extent returns the world-space box currently visible.
func (vs *View) Extent() geom.Box {
	w := float64(vs.Width) * vs.Resolution
	h := float64(vs.Height) * vs.Resolution
	return geom.MakeBox(vs.Center.X-w/2, vs.Center.Y-h/2, w, h)
}
