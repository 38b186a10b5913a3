package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/irfansharif/extent/internal/geom"
)

// Projector converts between the map's planar coordinates and geographic
// longitude/latitude degrees.
type Projector interface {
	ToLonLat(p geom.Point) geom.Point
	FromLonLat(ll geom.Point) geom.Point
}

type webMercator struct{}

// WebMercator projects between EPSG:3857 meters and WGS84 degrees.
var WebMercator Projector = webMercator{}

func (webMercator) ToLonLat(p geom.Point) geom.Point {
	ll := project.Mercator.ToWGS84(orb.Point{p.X, p.Y})
	return geom.MakePoint(ll.Lon(), ll.Lat())
}

func (webMercator) FromLonLat(ll geom.Point) geom.Point {
	p := project.WGS84.ToMercator(orb.Point{ll.X, ll.Y})
	return geom.MakePoint(p.X(), p.Y())
}
