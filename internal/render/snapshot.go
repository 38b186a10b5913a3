package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/vector"

	"github.com/irfansharif/extent/internal/overlay"
	"github.com/irfansharif/extent/internal/palette"
	"github.com/irfansharif/extent/internal/view"
)

// Snapshot rasterizes shapes onto a white image the size of the view's
// viewport.
func Snapshot(shapes []overlay.Shape, pal palette.Palette, v *view.View) (*image.RGBA, error) {
	if v.Width <= 0 || v.Height <= 0 {
		return nil, fmt.Errorf("cannot snapshot: invalid viewport dimensions %dx%d", v.Width, v.Height)
	}
	toPixel, err := v.WorldFrame()
	if err != nil {
		return nil, fmt.Errorf("cannot snapshot: %w", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, v.Width, v.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	for _, shape := range shapes {
		if len(shape.Path) < 3 {
			continue
		}
		z := vector.NewRasterizer(v.Width, v.Height)
		for i, p := range shape.Path {
			px := toPixel.MulPoint(p)
			if i == 0 {
				z.MoveTo(float32(px.X), float32(px.Y))
			} else {
				z.LineTo(float32(px.X), float32(px.Y))
			}
		}
		z.ClosePath()

		c := pal[shape.Color]
		src := image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		z.Draw(img, img.Bounds(), src, image.Point{})
	}
	return img, nil
}

// WritePNG rasterizes shapes and encodes the result as PNG.
func WritePNG(w io.Writer, shapes []overlay.Shape, pal palette.Palette, v *view.View) error {
	img, err := Snapshot(shapes, pal, v)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
