package view

import (
	"math"
	"testing"

	"github.com/irfansharif/extent/internal/geom"
)

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestPixelWorldConversion(t *testing.T) {
	v := NewView(800, 600, geom.MakePoint(1000, 2000), 2)

	if got := v.PixelToWorld(geom.MakePoint(400, 300)); !near(got, v.Center) {
		t.Errorf("viewport center maps to %v", got)
	}
	// Top-left pixel is north-west of the center.
	if got := v.PixelToWorld(geom.MakePoint(0, 0)); !near(got, geom.MakePoint(200, 2600)) {
		t.Errorf("top-left maps to %v", got)
	}
	px := geom.MakePoint(123, 456)
	if got := v.WorldToPixel(v.PixelToWorld(px)); !near(got, px) {
		t.Errorf("round trip gave %v", got)
	}
	if got := v.PixelsToWorld(30); got != 60 {
		t.Errorf("30px = %v world units", got)
	}
}

func TestPanFollowsDrag(t *testing.T) {
	v := NewView(800, 600, geom.MakePoint(0, 0), 1)
	anchor := v.PixelToWorld(geom.MakePoint(100, 100))
	v.PanPixels(50, -20)
	if got := v.WorldToPixel(anchor); !near(got, geom.MakePoint(150, 80)) {
		t.Errorf("anchor moved to %v, want (150, 80)", got)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	v := NewView(800, 600, geom.MakePoint(500, 500), 10)
	px := geom.MakePoint(700, 120)
	anchor := v.PixelToWorld(px)
	v.ZoomAt(px, 2)
	if v.Resolution != 5 {
		t.Errorf("resolution %v, want 5", v.Resolution)
	}
	if got := v.PixelToWorld(px); !near(got, anchor) {
		t.Errorf("anchor drifted to %v, want %v", got, anchor)
	}
}

func TestResolutionClamped(t *testing.T) {
	v := NewView(10, 10, geom.Point{}, 1e12)
	if v.Resolution != maxResolution {
		t.Errorf("resolution %v", v.Resolution)
	}
	v.SetResolution(0)
	if v.Resolution != minResolution {
		t.Errorf("resolution %v", v.Resolution)
	}
}

func TestFit(t *testing.T) {
	v := NewView(400, 200, geom.Point{}, 1)
	v.Fit(geom.MakeBox(0, 0, 1000, 1000), 50)
	if !near(v.Center, geom.MakePoint(500, 500)) {
		t.Errorf("center %v", v.Center)
	}
	if v.Resolution != 10 { // height-bound: 1000 / (200 - 100)
		t.Errorf("resolution %v, want 10", v.Resolution)
	}
	ext := v.Extent()
	if ext.W != 4000 || ext.H != 2000 {
		t.Errorf("extent %+v", ext)
	}
}

func TestFramesMatchConversions(t *testing.T) {
	v := NewView(640, 480, geom.MakePoint(5120.5, -3300.25), 0.75)
	toPixel, err := v.WorldFrame()
	if err != nil {
		t.Fatal(err)
	}
	for _, px := range []geom.Point{{X: 0, Y: 0}, {X: 320, Y: 240}, {X: 639, Y: 12}, {X: -50, Y: 900}} {
		world := v.PixelToWorld(px)
		if got := v.PixelFrame().MulPoint(px); !near(got, world) {
			t.Errorf("PixelFrame(%v) = %v, want %v", px, got, world)
		}
		if got := toPixel.MulPoint(world); !near(got, px) {
			t.Errorf("WorldFrame(%v) = %v, want %v", world, got, px)
		}
	}
}
