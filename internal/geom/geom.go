// Package geom provides the 2D primitives used by the rectangle editor:
// - Point arithmetic and vector operations
// - Rotations and local/world conversions about a center
// - Angle helpers (snapping, unit conversion)
// - Affine transforms and bounding boxes
//
// All functions are pure. Non-finite input is not checked for.
package geom

import (
	"fmt"
	"math"
)

// DefaultSnapIncrement is the angle increment used when snapping (15°).
const DefaultSnapIncrement = math.Pi / 12

// Point represents a 2D point or vector in Cartesian coordinates.
type Point struct {
	X float64
	Y float64
}

// Box represents an axis-aligned rectangle.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// Affine represents a 2D affine transform in row-major form:
// [ a b c ]
// [ d e f ]
// where (x', y') = (a*x + b*y + c, d*x + e*y + f)
type Affine struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

func MakePoint(x, y float64) Point               { return Point{X: x, Y: y} }
func MakeBox(x, y, w, h float64) Box             { return Box{X: x, Y: y, W: w, H: h} }
func MakeAffine(a, b, c, d, e, f float64) Affine { return Affine{A: a, B: b, C: c, D: d, E: e, F: f} }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

func (p Point) String() string { return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y) }

func Dot(p, q Point) float64 { return p.X*q.X + p.Y*q.Y }

func Dist(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rotation returns the transform rotating points by angle radians about the
// origin, using x' = x·cos θ − y·sin θ, y' = x·sin θ + y·cos θ.
func Rotation(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return MakeAffine(cos, -sin, 0, sin, cos, 0)
}

// Translation returns the transform that offsets points by p.
func Translation(p Point) Affine {
	return MakeAffine(1, 0, p.X, 0, 1, p.Y)
}

// MulPoint applies the affine transform to a point.
func (t Affine) MulPoint(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// Mul composes two affine transforms (applies u then t).
func (t Affine) Mul(u Affine) Affine {
	return MakeAffine(
		t.A*u.A+t.B*u.D,
		t.A*u.B+t.B*u.E,
		t.A*u.C+t.B*u.F+t.C,
		t.D*u.A+t.E*u.D,
		t.D*u.B+t.E*u.E,
		t.D*u.C+t.E*u.F+t.F,
	)
}

// Inv returns the inverse of the affine transform.
// Returns an error if the transform is not invertible (determinant is zero).
func (t Affine) Inv() (Affine, error) {
	det := t.A*t.E - t.B*t.D
	if math.Abs(det) < 1e-10 {
		return Affine{}, fmt.Errorf("affine transform is not invertible (determinant ≈ 0)")
	}
	return MakeAffine(
		t.E/det, -t.B/det, (t.B*t.F-t.C*t.E)/det,
		-t.D/det, t.A/det, (t.C*t.D-t.A*t.F)/det,
	), nil
}

// RotatePoint rotates p about the origin by angle radians.
func RotatePoint(p Point, angle float64) Point {
	return Rotation(angle).MulPoint(p)
}

// InverseRotatePoint undoes RotatePoint.
func InverseRotatePoint(p Point, angle float64) Point {
	return RotatePoint(p, -angle)
}

// LocalToWorld maps a point expressed relative to an (unrotated) shape
// centered at center into world space.
func LocalToWorld(local, center Point, angle float64) Point {
	return center.Add(RotatePoint(local, angle))
}

// WorldToLocal is the inverse of LocalToWorld.
func WorldToLocal(world, center Point, angle float64) Point {
	return InverseRotatePoint(world.Sub(center), angle)
}

// LocalFrame returns the transform equivalent to LocalToWorld for a fixed
// center and angle, for callers mapping many points at once.
func LocalFrame(center Point, angle float64) Affine {
	return Translation(center).Mul(Rotation(angle))
}

// AngleBetween returns the direction of the vector from -> to, in radians.
func AngleBetween(from, to Point) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// SnapAngle rounds angle to the nearest multiple of increment. A
// non-positive increment falls back to DefaultSnapIncrement.
func SnapAngle(angle, increment float64) float64 {
	if increment <= 0 {
		increment = DefaultSnapIncrement
	}
	return math.Round(angle/increment) * increment
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func RadiansToDegrees(rad float64) float64 { return rad * 180 / math.Pi }
func DegreesToRadians(deg float64) float64 { return deg * math.Pi / 180 }

// NormalizeDegrees wraps deg into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 || deg == 0 { // -tiny + 360 rounds up; also drops the sign of -0
		return 0
	}
	return deg
}

// DisplayDegrees converts rad to degrees rounded to the given number of
// decimals and wrapped into [0, 360). Rounding happens first, so values just
// below 360 report as 0.
func DisplayDegrees(rad float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return NormalizeDegrees(math.Round(RadiansToDegrees(rad)*scale) / scale)
}

// BoundsOf returns the axis-aligned bounding box of the given points. An empty
// input yields the zero Box.
func BoundsOf(points []Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	xmin, xmax := math.MaxFloat64, -math.MaxFloat64
	ymin, ymax := math.MaxFloat64, -math.MaxFloat64
	for _, p := range points {
		xmin = math.Min(xmin, p.X)
		xmax = math.Max(xmax, p.X)
		ymin = math.Min(ymin, p.Y)
		ymax = math.Max(ymax, p.Y)
	}
	return MakeBox(xmin, ymin, xmax-xmin, ymax-ymin)
}

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{b.X + 0.5*b.W, b.Y + 0.5*b.H}
}

// Expand grows the box by d on every side.
func (b Box) Expand(d float64) Box {
	return MakeBox(b.X-d, b.Y-d, b.W+2*d, b.H+2*d)
}
