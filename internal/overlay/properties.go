package overlay

import (
	"fmt"

	"github.com/irfansharif/extent/internal/export"
	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/rect"
)

// Properties are the user-facing readouts of a model.
type Properties struct {
	Width        float64    `json:"width"`
	Height       float64    `json:"height"`
	AngleDegrees float64    `json:"angleDegrees"` // within [0, 360), two decimals
	Center       [2]float64 `json:"center"`       // map units
	LonLat       [2]float64 `json:"lonLat"`
	Area         float64    `json:"area"`
}

// PropertiesOf reports m for display.
func PropertiesOf(m rect.Model, proj export.Projector) Properties {
	ll := proj.ToLonLat(m.Center)
	return Properties{
		Width:        m.Width,
		Height:       m.Height,
		AngleDegrees: geom.DisplayDegrees(m.Angle, 2),
		Center:       [2]float64{m.Center.X, m.Center.Y},
		LonLat:       [2]float64{ll.X, ll.Y},
		Area:         m.Width * m.Height,
	}
}

func (p Properties) String() string {
	return fmt.Sprintf("%.2f x %.2f, %.2f°, center %.6f, %.6f", p.Width, p.Height, p.AngleDegrees, p.LonLat[0], p.LonLat[1])
}
