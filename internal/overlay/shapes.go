// Package overlay translates rectangle model snapshots into drawable shapes
// and answers hit-tests against them. It is the only place that knows what
// the rectangle looks like on screen: handle sizes are fixed in pixels and
// converted to world units with the current map resolution.
package overlay

import (
	"fmt"
	"math"

	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/interact"
	"github.com/irfansharif/extent/internal/palette"
	"github.com/irfansharif/extent/internal/rect"
)

const circleSegments = 20 // polygon approximation of the rotation handle

// Kind is what a shape represents.
type Kind int

const (
	KindBody Kind = iota
	KindOutline
	KindStem
	KindCorner
	KindRotate
)

func (k Kind) String() string {
	switch k {
	case KindBody:
		return "body"
	case KindOutline:
		return "outline"
	case KindStem:
		return "stem"
	case KindCorner:
		return "corner"
	case KindRotate:
		return "rotate"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Target returns the hit-test tag carried by shapes of this kind. Decorations
// (outline, stem) are not interactive.
func (k Kind) Target() interact.Target {
	switch k {
	case KindBody:
		return interact.TargetBody
	case KindCorner:
		return interact.TargetCorner
	case KindRotate:
		return interact.TargetRotate
	default:
		return interact.TargetNone
	}
}

// Style holds the pixel sizes of the overlay decorations.
type Style struct {
	HandlePixels       float64 // side of a corner handle square
	RotateGapPixels    float64 // distance from top edge to rotation handle center
	RotateRadiusPixels float64
	LinePixels         float64 // outline and stem thickness
}

// DefaultStyle matches common map-editor handle sizes.
var DefaultStyle = Style{
	HandlePixels:       10,
	RotateGapPixels:    30,
	RotateRadiusPixels: 7,
	LinePixels:         2,
}

// Shape is a filled polygon in world coordinates. Path is open (the first
// point is not repeated).
type Shape struct {
	Kind   Kind
	Corner rect.Corner // for KindCorner
	Path   []geom.Point
	Color  palette.Role
	Z      int // draw and hit-test order; higher is on top
}

// Hit returns the hit-test tag for the shape.
func (s Shape) Hit() interact.Hit {
	return interact.Hit{Target: s.Kind.Target(), Corner: s.Corner}
}

// Build returns the shapes for m at the given resolution (world units per
// pixel), bottom-most first. hover marks the handle currently under the
// pointer, if any.
func Build(m rect.Model, resolution float64, style Style, hover interact.Hit) []Shape {
	px := func(n float64) float64 { return n * resolution }
	corners := m.CornerPoints()
	line := px(style.LinePixels)

	shapes := make([]Shape, 0, 12)
	shapes = append(shapes, Shape{Kind: KindBody, Path: corners[:], Color: palette.BodyFill, Z: 0})

	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		shapes = append(shapes, Shape{Kind: KindOutline, Path: segment(a, b, line), Color: palette.Outline, Z: 1})
	}

	top := m.TopMidpoint()
	handle := m.RotationHandle(px(style.RotateGapPixels))
	shapes = append(shapes, Shape{Kind: KindStem, Path: segment(top, handle, line), Color: palette.Stem, Z: 1})

	half := px(style.HandlePixels) / 2
	for _, c := range rect.Corners {
		// Handles turn with the rectangle.
		frame := geom.LocalFrame(m.CornerPosition(c), m.Angle)
		square := []geom.Point{{X: -half, Y: -half}, {X: half, Y: -half}, {X: half, Y: half}, {X: -half, Y: half}}
		for j, p := range square {
			square[j] = frame.MulPoint(p)
		}
		shape := Shape{Kind: KindCorner, Corner: c, Path: square, Color: palette.Handle, Z: 2}
		if hover.Target == interact.TargetCorner && hover.Corner == c {
			shape.Color = palette.HandleHover
		}
		shapes = append(shapes, shape)
	}

	rotate := Shape{Kind: KindRotate, Path: circle(handle, px(style.RotateRadiusPixels)), Color: palette.Handle, Z: 3}
	if hover.Target == interact.TargetRotate {
		rotate.Color = palette.HandleHover
	}
	return append(shapes, rotate)
}

// segment returns a quad of the given thickness around the segment a-b.
func segment(a, b geom.Point, thickness float64) []geom.Point {
	d := b.Sub(a)
	length := math.Hypot(d.X, d.Y)
	if length == 0 {
		d, length = geom.MakePoint(1, 0), 1
	}
	n := geom.MakePoint(-d.Y/length, d.X/length).Scale(thickness / 2)
	return []geom.Point{a.Sub(n), b.Sub(n), b.Add(n), a.Add(n)}
}

// circle returns a regular polygon approximating a circle.
func circle(center geom.Point, radius float64) []geom.Point {
	pts := make([]geom.Point, circleSegments)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
		pts[i] = center.Add(geom.MakePoint(cos*radius, sin*radius))
	}
	return pts
}
