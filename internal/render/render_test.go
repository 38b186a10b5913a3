package render

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/interact"
	"github.com/irfansharif/extent/internal/overlay"
	"github.com/irfansharif/extent/internal/palette"
	"github.com/irfansharif/extent/internal/rect"
	"github.com/irfansharif/extent/internal/view"
)

type fakeBuffer struct {
	vertices  []float32
	transform [16]float32
	draws     int
	err       error
}

func (b *fakeBuffer) Upload(vertices []float32) error {
	b.vertices = vertices
	return b.err
}

func (b *fakeBuffer) Draw(transform [16]float32) error {
	b.transform = transform
	b.draws++
	return b.err
}

func testShapes(m rect.Model) []overlay.Shape {
	return overlay.Build(m, 1, overlay.DefaultStyle, interact.Hit{})
}

func TestTessellate(t *testing.T) {
	m := rect.New(geom.MakePoint(5e6, 6e6), 400, 200, 0.3)
	shapes := testShapes(m)
	pal := palette.FromHue(200)
	vertices, err := Tessellate(shapes, pal, m.Center)
	if err != nil {
		t.Fatal(err)
	}
	// body 2 + outline 4*2 + stem 2 + corners 4*2 + 20-gon 18.
	const wantTriangles = 38
	if got := len(vertices) / FloatsPerVertex / 3; got != wantTriangles {
		t.Errorf("%d triangles, want %d", got, wantTriangles)
	}
	// Positions are relative to the origin, so they stay small.
	for i := 0; i < len(vertices); i += FloatsPerVertex {
		if math.Abs(float64(vertices[i])) > 500 || math.Abs(float64(vertices[i+1])) > 500 {
			t.Fatalf("vertex %d at (%v, %v) not origin-relative", i/FloatsPerVertex, vertices[i], vertices[i+1])
		}
	}
	// First triangle is the body fill.
	body := palette.Float(pal[palette.BodyFill])
	for j := 0; j < 4; j++ {
		if vertices[2+j] != body[j] {
			t.Errorf("color component %d = %v, want %v", j, vertices[2+j], body[j])
		}
	}
}

func TestTessellateDegenerate(t *testing.T) {
	shapes := []overlay.Shape{{Kind: overlay.KindBody, Path: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}}
	if _, err := Tessellate(shapes, palette.FromHue(0), geom.Point{}); err == nil {
		t.Error("expected error for a two-point polygon")
	}
}

func TestTransformMapsExtentToNDC(t *testing.T) {
	v := view.NewView(800, 600, geom.MakePoint(1000, 2000), 2)
	origin := geom.MakePoint(900, 1900)
	m := mgl32.Mat4(Transform(v, origin))

	ndc := func(p geom.Point) mgl32.Vec4 {
		return m.Mul4x1(mgl32.Vec4{float32(p.X - origin.X), float32(p.Y - origin.Y), 0, 1})
	}
	if c := ndc(v.Center); math.Abs(float64(c[0])) > 1e-5 || math.Abs(float64(c[1])) > 1e-5 {
		t.Errorf("view center at NDC %v", c)
	}
	// Top-left pixel is NDC (-1, 1).
	if c := ndc(v.PixelToWorld(geom.MakePoint(0, 0))); math.Abs(float64(c[0]+1)) > 1e-5 || math.Abs(float64(c[1]-1)) > 1e-5 {
		t.Errorf("top-left at NDC %v", c)
	}
}

func TestRendererPrepareDraw(t *testing.T) {
	buf := &fakeBuffer{}
	r := NewRenderer(buf, palette.FromHue(120))
	m := rect.New(geom.MakePoint(100, 100), 400, 200, 0)
	if err := r.Prepare(testShapes(m)); err != nil {
		t.Fatal(err)
	}
	if r.Stats().Triangles != 38 || len(buf.vertices) == 0 {
		t.Errorf("stats %+v, %d floats uploaded", r.Stats(), len(buf.vertices))
	}
	if err := r.Draw(view.NewView(800, 600, m.Center, 1)); err != nil {
		t.Fatal(err)
	}
	if buf.draws != 1 {
		t.Errorf("%d draws", buf.draws)
	}

	buf.err = errors.New("context lost")
	if err := r.Draw(view.NewView(800, 600, m.Center, 1)); !errors.Is(err, buf.err) {
		t.Errorf("got %v, want wrapped buffer error", err)
	}
}

func TestSnapshot(t *testing.T) {
	m := rect.New(geom.MakePoint(0, 0), 200, 100, 0)
	v := view.NewView(400, 300, m.Center, 1)
	pal := palette.FromHue(0)

	img, err := Snapshot(testShapes(m), pal, v)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 400, 300) {
		t.Fatalf("bounds %v", img.Bounds())
	}
	if c := img.RGBAAt(5, 5); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("background pixel %v, want white", c)
	}
	if c := img.RGBAAt(200, 150); c.R == 255 && c.G == 255 && c.B == 255 {
		t.Error("body pixel was not tinted")
	}
	// Top-right corner handle is drawn opaque with the handle color.
	h := pal[palette.Handle]
	if c := img.RGBAAt(300, 100); c.R != h.R || c.G != h.G || c.B != h.B {
		t.Errorf("handle pixel %v, want %v", c, h)
	}

	var out bytes.Buffer
	if err := WritePNG(&out, testShapes(m), pal, v); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&out); err != nil {
		t.Errorf("decoding snapshot: %v", err)
	}

	if _, err := Snapshot(nil, pal, view.NewView(0, 0, geom.Point{}, 1)); err == nil {
		t.Error("expected error for an empty viewport")
	}
}
