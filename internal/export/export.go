// Package export writes and reads the rectangle as a small key-value text
// block:
//
//	center:
//	  - 2.349014
//	  - 48.852969
//	angle: 45.00
//	extentX: 2000.00
//	extentY: 1000.00
//
// The center is in longitude/latitude degrees, the angle in degrees within
// [0, 360), and the extents are width and height in map units.
package export

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/rect"
)

// Document is the decoded form of the text block.
type Document struct {
	Center  []float64 `yaml:"center"`
	Angle   float64   `yaml:"angle"`
	ExtentX float64   `yaml:"extentX"`
	ExtentY float64   `yaml:"extentY"`
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}

func number(v float64, prec int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v, 'f', prec, 64)}
}

// Marshal renders m as export text. The node tree is built by hand so the
// fixed decimal precision survives encoding.
func Marshal(m rect.Model, proj Projector) ([]byte, error) {
	ll := proj.ToLonLat(m.Center)
	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar("center"), {
				Kind:    yaml.SequenceNode,
				Content: []*yaml.Node{number(ll.X, 6), number(ll.Y, 6)},
			},
			scalar("angle"), number(geom.DisplayDegrees(m.Angle, 2), 2),
			scalar("extentX"), number(m.Width, 2),
			scalar("extentY"), number(m.Height, 2),
		},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses export text back into a model.
func Unmarshal(data []byte, proj Projector) (rect.Model, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return rect.Model{}, fmt.Errorf("%w: %v", rect.ErrInvalidModel, err)
	}
	return doc.Model(proj)
}

// Model converts a decoded document into a validated model.
func (d Document) Model(proj Projector) (rect.Model, error) {
	if len(d.Center) != 2 {
		return rect.Model{}, fmt.Errorf("%w: center needs 2 values, got %d", rect.ErrInvalidModel, len(d.Center))
	}
	lon, lat := d.Center[0], d.Center[1]
	if math.Abs(lon) > 180 || math.Abs(lat) > 90 {
		return rect.Model{}, fmt.Errorf("%w: center %.6f, %.6f is not a longitude/latitude", rect.ErrInvalidModel, lon, lat)
	}
	m := rect.Model{
		Center: proj.FromLonLat(geom.MakePoint(lon, lat)),
		Width:  d.ExtentX,
		Height: d.ExtentY,
		Angle:  geom.DegreesToRadians(d.Angle),
	}
	if err := m.Validate(); err != nil {
		return rect.Model{}, err
	}
	return rect.New(m.Center, m.Width, m.Height, m.Angle), nil
}
