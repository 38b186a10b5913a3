package overlay

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/interact"
	"github.com/irfansharif/extent/internal/rect"
)

const minExtent = 1e-9 // rtreego rejects zero-length rectangles

// feature is an interactive shape indexed by its bounding box.
type feature struct {
	shape Shape
	ring  orb.Ring
	box   rtreego.Rect
}

// Bounds implements the rtreego.Spatial interface.
func (f *feature) Bounds() rtreego.Rect {
	return f.box
}

// Layer is the drawable overlay for one model snapshot. It is rebuilt
// whenever the model or the map resolution changes.
type Layer struct {
	Model      rect.Model
	Resolution float64
	Shapes     []Shape

	tree *rtreego.Rtree
}

// NewLayer builds the shapes for m and indexes the interactive ones.
func NewLayer(m rect.Model, resolution float64, style Style, hover interact.Hit) *Layer {
	l := &Layer{
		Model:      m,
		Resolution: resolution,
		Shapes:     Build(m, resolution, style, hover),
		tree:       rtreego.NewTree(2, 2, 8),
	}
	for _, s := range l.Shapes {
		if s.Kind.Target() == interact.TargetNone {
			continue // decorations are not hit-tested
		}
		l.tree.Insert(newFeature(s))
	}
	return l
}

func newFeature(s Shape) *feature {
	ring := make(orb.Ring, 0, len(s.Path)+1)
	for _, p := range s.Path {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	ring = append(ring, ring[0])

	b := geom.BoundsOf(s.Path)
	box, err := rtreego.NewRect(
		rtreego.Point{b.X, b.Y},
		[]float64{max(b.W, minExtent), max(b.H, minExtent)},
	)
	if err != nil {
		panic(err) // lengths are positive by construction
	}
	return &feature{shape: s, ring: ring, box: box}
}

// HitTest returns the interactive features containing the world point,
// topmost first.
func (l *Layer) HitTest(p geom.Point) []interact.Hit {
	candidates := l.tree.SearchIntersect(rtreego.Point{p.X, p.Y}.ToRect(minExtent))
	found := make([]*feature, 0, len(candidates))
	for _, c := range candidates {
		f := c.(*feature)
		if planar.RingContains(f.ring, orb.Point{p.X, p.Y}) {
			found = append(found, f)
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].shape.Z > found[j].shape.Z })

	hits := make([]interact.Hit, len(found))
	for i, f := range found {
		hits[i] = f.shape.Hit()
	}
	return hits
}

// Len returns the number of indexed interactive features.
func (l *Layer) Len() int {
	return l.tree.Size()
}
