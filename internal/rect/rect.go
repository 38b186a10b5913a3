// Package rect holds the rotated rectangle model edited on the map. A Model is
// an immutable value: every change produces a new Model.
package rect

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/irfansharif/extent/internal/geom"
)

const (
	MinSize = 10.0     // smallest width/height, in world units
	MaxSize = 100000.0 // largest width/height, in world units
)

// ErrInvalidModel is returned when an externally supplied model cannot be
// accepted.
var ErrInvalidModel = errors.New("invalid rectangle")

// Corner identifies one of the four corners, in ring winding order.
type Corner int

const (
	BottomLeft Corner = iota
	BottomRight
	TopRight
	TopLeft
)

// Corners lists every corner in winding order.
var Corners = [4]Corner{BottomLeft, BottomRight, TopRight, TopLeft}

func (c Corner) String() string {
	switch c {
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	case TopRight:
		return "top-right"
	case TopLeft:
		return "top-left"
	default:
		return fmt.Sprintf("corner(%d)", int(c))
	}
}

// local returns the corner's position relative to an unrotated rectangle
// centered at the origin.
func (c Corner) local(w, h float64) geom.Point {
	hw, hh := w/2, h/2
	switch c {
	case BottomLeft:
		return geom.MakePoint(-hw, -hh)
	case BottomRight:
		return geom.MakePoint(hw, -hh)
	case TopRight:
		return geom.MakePoint(hw, hh)
	default:
		return geom.MakePoint(-hw, hh)
	}
}

// Model is a rectangle of Width x Height centered at Center and rotated by
// Angle radians (0 = aligned with north, positive = clockwise). Lengths are in
// the linear units of the map projection.
type Model struct {
	Center geom.Point
	Width  float64
	Height float64
	Angle  float64
}

// New returns a model with width and height clamped to [MinSize, MaxSize].
func New(center geom.Point, width, height, angle float64) Model {
	return Model{
		Center: center,
		Width:  geom.Clamp(width, MinSize, MaxSize),
		Height: geom.Clamp(height, MinSize, MaxSize),
		Angle:  angle,
	}
}

// Validate reports whether m can be accepted as an external override.
func (m Model) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"center x", m.Center.X},
		{"center y", m.Center.Y},
		{"width", m.Width},
		{"height", m.Height},
		{"angle", m.Angle},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidModel, f.name)
		}
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: size %.2fx%.2f must be positive", ErrInvalidModel, m.Width, m.Height)
	}
	return nil
}

func (m Model) WithCenter(c geom.Point) Model { m.Center = c; return m }
func (m Model) WithAngle(a float64) Model     { m.Angle = a; return m }

// WithSize replaces width and height, clamping both.
func (m Model) WithSize(w, h float64) Model {
	m.Width = geom.Clamp(w, MinSize, MaxSize)
	m.Height = geom.Clamp(h, MinSize, MaxSize)
	return m
}

// AspectRatio returns width / height.
func (m Model) AspectRatio() float64 { return m.Width / m.Height }

// CornerPosition returns the world position of a single corner.
func (m Model) CornerPosition(c Corner) geom.Point {
	return geom.LocalToWorld(c.local(m.Width, m.Height), m.Center, m.Angle)
}

// CornerPoints returns the four world-space corners in winding order
// (bottom-left, bottom-right, top-right, top-left).
func (m Model) CornerPoints() [4]geom.Point {
	frame := geom.LocalFrame(m.Center, m.Angle)
	var out [4]geom.Point
	for i, c := range Corners {
		out[i] = frame.MulPoint(c.local(m.Width, m.Height))
	}
	return out
}

// RotationHandle returns the world position of the rotation handle, placed
// offset world units beyond the midpoint of the top edge.
func (m Model) RotationHandle(offset float64) geom.Point {
	return geom.LocalToWorld(geom.MakePoint(0, m.Height/2+offset), m.Center, m.Angle)
}

// TopMidpoint returns the world position of the middle of the top edge.
func (m Model) TopMidpoint() geom.Point {
	return m.RotationHandle(0)
}

// PolygonRing returns the closed outline (first corner repeated).
func (m Model) PolygonRing() orb.Ring {
	corners := m.CornerPoints()
	ring := make(orb.Ring, 0, len(corners)+1)
	for _, p := range corners {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	return append(ring, ring[0])
}

// Contains reports whether p lies inside the rectangle body.
func (m Model) Contains(p geom.Point) bool {
	return planar.RingContains(m.PolygonRing(), orb.Point{p.X, p.Y})
}

// Bounds returns the axis-aligned bounding box of the rotated rectangle.
func (m Model) Bounds() geom.Box {
	corners := m.CornerPoints()
	return geom.BoundsOf(corners[:])
}

func (m Model) String() string {
	return fmt.Sprintf("rect{center=%v w=%.2f h=%.2f angle=%.4f}", m.Center, m.Width, m.Height, m.Angle)
}

type wireModel struct {
	Center [2]float64 `json:"center"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Angle  float64    `json:"angle"`
}

// MarshalJSON encodes the model as {center:[x,y], width, height, angle}.
func (m Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireModel{
		Center: [2]float64{m.Center.X, m.Center.Y},
		Width:  m.Width,
		Height: m.Height,
		Angle:  m.Angle,
	})
}

func (m *Model) UnmarshalJSON(data []byte) error {
	var w wireModel
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = Model{
		Center: geom.MakePoint(w.Center[0], w.Center[1]),
		Width:  w.Width,
		Height: w.Height,
		Angle:  w.Angle,
	}
	return nil
}
