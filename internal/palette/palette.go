// Package palette derives the overlay colors from a single accent hue.
package palette

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Role is what a color is used for.
type Role int

const (
	BodyFill Role = iota
	Outline
	Handle
	HandleHover
	Stem
	numRoles
)

// Palette holds one RGBA color per Role.
type Palette [numRoles]color.RGBA

func rgba(c colorful.Color, alpha uint8) color.RGBA {
	c = c.Clamped()
	red, green, blue := c.RGB255()
	return color.RGBA{R: red, G: green, B: blue, A: alpha}
}

// FromHue builds the overlay palette from an accent hue in degrees. The body
// is a translucent tint of the accent; handles are the accent itself with a
// lighter hover variant.
func FromHue(hue float64) Palette {
	accent := colorful.Hsv(hue, 0.85, 0.85)
	white := colorful.Color{R: 1, G: 1, B: 1}

	p := Palette{}
	p[BodyFill] = rgba(accent.BlendLab(white, 0.35), 80)
	p[Outline] = rgba(accent, 255)
	p[Handle] = rgba(accent, 255)
	p[HandleHover] = rgba(accent.BlendLab(white, 0.45), 255)
	p[Stem] = rgba(accent.BlendLab(colorful.Color{}, 0.2), 220)
	return p
}

// Hex parses a "#rrggbb" color and returns its hue in degrees.
func Hex(s string) (float64, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, err
	}
	h, _, _ := c.Hsv()
	return h, nil
}

// Float returns c as normalized RGBA components for vertex attributes.
func Float(c color.RGBA) [4]float32 {
	return [4]float32{
		float32(c.R) / 255.0, float32(c.G) / 255.0,
		float32(c.B) / 255.0, float32(c.A) / 255.0,
	}
}
