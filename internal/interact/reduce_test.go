package interact

import (
	"math"
	"testing"

	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/rect"
)

func pt(x, y float64) geom.Point { return geom.MakePoint(x, y) }

var (
	bodyHit   = Hit{Target: TargetBody}
	rotateHit = Hit{Target: TargetRotate}
)

func cornerHit(c rect.Corner) Hit { return Hit{Target: TargetCorner, Corner: c} }

// drag runs a press at from, a single move to to, and returns the state and
// effect after the move.
func drag(t *testing.T, m rect.Model, hit Hit, from, to geom.Point, shift bool) (State, Effect) {
	t.Helper()
	s, eff := Reduce(Idle{}, m, PointerDown{World: from, Hits: []Hit{hit}})
	if !eff.Handled || eff.Changed {
		t.Fatalf("pointer-down: unexpected effect %+v", eff)
	}
	return Reduce(s, m, PointerMove{World: to, Shift: shift})
}

func TestPickHitPriority(t *testing.T) {
	tests := []struct {
		name string
		hits []Hit
		want Hit
		ok   bool
	}{
		{"empty", nil, Hit{}, false},
		{"body only", []Hit{bodyHit}, bodyHit, true},
		{"corner over body", []Hit{bodyHit, cornerHit(rect.TopLeft)}, cornerHit(rect.TopLeft), true},
		{"rotate over corner", []Hit{cornerHit(rect.TopRight), rotateHit, bodyHit}, rotateHit, true},
		{"first corner wins", []Hit{cornerHit(rect.BottomLeft), cornerHit(rect.TopRight)}, cornerHit(rect.BottomLeft), true},
		{"none ignored", []Hit{{Target: TargetNone}}, Hit{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickHit(tt.hits)
			if ok != tt.ok || got != tt.want {
				t.Errorf("PickHit(%v) = %v, %t; want %v, %t", tt.hits, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPointerDownEntersState(t *testing.T) {
	m := rect.New(pt(0, 0), 100, 50, 0)
	tests := []struct {
		hits []Hit
		want string
	}{
		{[]Hit{bodyHit}, "moving"},
		{[]Hit{bodyHit, cornerHit(rect.BottomRight)}, "resizing(bottom-right)"},
		{[]Hit{bodyHit, cornerHit(rect.BottomRight), rotateHit}, "rotating"},
	}
	for _, tt := range tests {
		s, eff := Reduce(Idle{}, m, PointerDown{World: pt(1, 1), Hits: tt.hits})
		if s.String() != tt.want {
			t.Errorf("hits %v: state %s, want %s", tt.hits, s, tt.want)
		}
		if !eff.Handled || eff.Changed {
			t.Errorf("hits %v: effect %+v", tt.hits, eff)
		}
	}
}

func TestRotatingRecordsStartAngle(t *testing.T) {
	m := rect.New(pt(10, 10), 100, 50, 0.3)
	s, _ := Reduce(Idle{}, m, PointerDown{World: pt(10, 60), Hits: []Hit{rotateHit}})
	rot, ok := s.(Rotating)
	if !ok {
		t.Fatalf("state %s, want rotating", s)
	}
	if math.Abs(rot.StartAngleToPointer-math.Pi/2) > 1e-12 {
		t.Errorf("start angle %.6f, want pi/2", rot.StartAngleToPointer)
	}
	if rot.Start != m {
		t.Errorf("start model %v, want %v", rot.Start, m)
	}
}

func TestIdlePassThrough(t *testing.T) {
	m := rect.New(pt(0, 0), 100, 50, 0)
	s, eff := Reduce(Idle{}, m, PointerDown{World: pt(500, 500)})
	if IsActive(s) {
		t.Errorf("state %s, want idle", s)
	}
	if eff.Handled || eff.Changed {
		t.Errorf("effect %+v, want pass-through", eff)
	}
	s, eff = Reduce(s, m, PointerMove{World: pt(510, 510)})
	if IsActive(s) || eff.Changed || eff.Handled {
		t.Errorf("idle move: state %s effect %+v", s, eff)
	}
	if _, eff = Reduce(s, m, PointerUp{}); eff.Handled {
		t.Error("idle pointer-up should pass through")
	}
}

func TestMove(t *testing.T) {
	m := rect.New(pt(1000, 2000), 300, 200, 0.4)
	from := pt(1010, 2010)
	s, eff := drag(t, m, bodyHit, from, from.Add(pt(50, -30)), false)
	if !eff.Changed {
		t.Fatal("expected a change")
	}
	want := m.WithCenter(pt(1050, 1970))
	if eff.Model != want {
		t.Errorf("got %v, want %v", eff.Model, want)
	}
	if _, ok := s.(Moving); !ok {
		t.Errorf("state %s, want moving", s)
	}

	// Deltas are measured from the press position, not the previous move.
	_, eff = Reduce(s, eff.Model, PointerMove{World: from.Add(pt(100, 0))})
	if got := eff.Model.Center; geom.Dist(got, pt(1100, 2000)) > 1e-9 {
		t.Errorf("second move center %v, want (1100, 2000)", got)
	}
}

func TestResizeSymmetric(t *testing.T) {
	m := rect.New(pt(0, 0), 100, 50, 0)
	for _, c := range rect.Corners {
		_, eff := drag(t, m, cornerHit(c), m.CornerPosition(c), pt(-80, 30), false)
		if eff.Model.Width != 160 || eff.Model.Height != 60 {
			t.Errorf("%s: size %.2fx%.2f, want 160x60", c, eff.Model.Width, eff.Model.Height)
		}
		if eff.Model.Center != m.Center || eff.Model.Angle != m.Angle {
			t.Errorf("%s: center/angle moved: %v", c, eff.Model)
		}
	}
}

func TestResizeRotated(t *testing.T) {
	m := rect.New(pt(500, 500), 100, 50, math.Pi/2)
	// Local (100, 40) in a frame rotated by 90°.
	world := geom.LocalToWorld(pt(100, 40), m.Center, m.Angle)
	_, eff := drag(t, m, cornerHit(rect.TopRight), m.CornerPosition(rect.TopRight), world, false)
	if math.Abs(eff.Model.Width-200) > 1e-9 || math.Abs(eff.Model.Height-80) > 1e-9 {
		t.Errorf("size %.4fx%.4f, want 200x80", eff.Model.Width, eff.Model.Height)
	}
	if eff.Model.Angle != m.Angle {
		t.Errorf("angle changed to %v", eff.Model.Angle)
	}
}

func TestResizeClampsDimensions(t *testing.T) {
	m := rect.New(pt(0, 0), 1000, 500, 0)
	_, eff := drag(t, m, cornerHit(rect.TopRight), pt(500, 250), pt(3*rect.MaxSize, 1), false)
	if eff.Model.Width != rect.MaxSize {
		t.Errorf("width %.2f, want %.2f", eff.Model.Width, rect.MaxSize)
	}
	if eff.Model.Height != rect.MinSize {
		t.Errorf("height %.2f, want %.2f", eff.Model.Height, rect.MinSize)
	}
}

func TestResizeAspectLock(t *testing.T) {
	m := rect.New(pt(0, 0), 1000, 500, 0)
	_, eff := drag(t, m, cornerHit(rect.TopRight), pt(500, 250), pt(1000, 10), true)
	if eff.Model.Width != 2000 || eff.Model.Height != 1000 {
		t.Errorf("size %.2fx%.2f, want 2000x1000", eff.Model.Width, eff.Model.Height)
	}
}

func TestResizeUsesStartAspect(t *testing.T) {
	m := rect.New(pt(0, 0), 1000, 500, 0)
	s, eff := drag(t, m, cornerHit(rect.TopRight), pt(500, 250), pt(400, 400), false)
	if eff.Model.Width != 800 || eff.Model.Height != 800 {
		t.Fatalf("free resize gave %v", eff.Model)
	}
	// Shift pressed mid-gesture locks to the ratio at pointer-down (2.0), not
	// the current square.
	_, eff = Reduce(s, eff.Model, PointerMove{World: pt(400, 400), Shift: true})
	if eff.Model.Width != 800 || eff.Model.Height != 400 {
		t.Errorf("locked resize gave %.2fx%.2f, want 800x400", eff.Model.Width, eff.Model.Height)
	}
}

func TestRotate(t *testing.T) {
	m := rect.New(pt(0, 0), 100, 50, 0.1)
	from := pt(0, 100) // pi/2 from center
	to := pt(-100, 0)  // pi from center
	_, eff := drag(t, m, rotateHit, from, to, false)
	if want := 0.1 + math.Pi/2; math.Abs(eff.Model.Angle-want) > 1e-12 {
		t.Errorf("angle %.6f, want %.6f", eff.Model.Angle, want)
	}
	if eff.Model.Center != m.Center || eff.Model.Width != m.Width || eff.Model.Height != m.Height {
		t.Errorf("non-angle fields changed: %v", eff.Model)
	}
}

func TestRotateSnap(t *testing.T) {
	m := rect.New(pt(0, 0), 100, 50, 0)
	r := 100.0
	from := pt(r, 0)
	to := pt(r*math.Cos(0.26), r*math.Sin(0.26))
	_, eff := drag(t, m, rotateHit, from, to, true)
	if math.Abs(eff.Model.Angle-math.Pi/12) > 1e-12 {
		t.Errorf("angle %.6f, want pi/12", eff.Model.Angle)
	}
	_, eff = drag(t, m, rotateHit, from, to, false)
	if math.Abs(eff.Model.Angle-0.26) > 1e-9 {
		t.Errorf("unsnapped angle %.6f, want 0.26", eff.Model.Angle)
	}
}

func TestPointerUpEndsSession(t *testing.T) {
	m := rect.New(pt(0, 0), 100, 50, 0)
	s, eff := drag(t, m, bodyHit, pt(0, 0), pt(10, 0), false)
	s, up := Reduce(s, eff.Model, PointerUp{World: pt(10, 0)})
	if IsActive(s) {
		t.Errorf("state %s after pointer-up", s)
	}
	if !up.Handled || up.Changed {
		t.Errorf("pointer-up effect %+v", up)
	}
	// Subsequent moves do not touch the model.
	_, eff = Reduce(s, eff.Model, PointerMove{World: pt(99, 99)})
	if eff.Changed {
		t.Error("move after pointer-up changed the model")
	}
}

func TestSecondPointerDownIgnored(t *testing.T) {
	m := rect.New(pt(0, 0), 100, 50, 0)
	s, _ := Reduce(Idle{}, m, PointerDown{World: pt(0, 0), Hits: []Hit{bodyHit}})
	s2, eff := Reduce(s, m, PointerDown{World: pt(50, 25), Hits: []Hit{rotateHit}})
	if s2 != s {
		t.Errorf("state changed from %s to %s", s, s2)
	}
	if !eff.Handled {
		t.Error("press during a drag should be consumed")
	}
}

func TestCancel(t *testing.T) {
	m := rect.New(pt(0, 0), 100, 50, 0)
	s, eff := drag(t, m, bodyHit, pt(0, 0), pt(40, 0), false)

	next, c := Reduce(s, eff.Model, Cancel{})
	if IsActive(next) || c.Changed {
		t.Errorf("plain cancel: state %s effect %+v", next, c)
	}

	next, c = Reduce(s, eff.Model, Cancel{Revert: true})
	if IsActive(next) || !c.Changed || c.Model != m {
		t.Errorf("reverting cancel: state %s effect %+v", next, c)
	}

	if _, c = Reduce(Idle{}, m, Cancel{Revert: true}); c.Changed || c.Handled {
		t.Errorf("idle cancel: effect %+v", c)
	}
}

func TestHoverCursor(t *testing.T) {
	m := rect.New(pt(0, 0), 100, 50, 0)
	tests := []struct {
		hits []Hit
		want Cursor
	}{
		{nil, CursorDefault},
		{[]Hit{bodyHit}, CursorMove},
		{[]Hit{bodyHit, rotateHit}, CursorRotate},
		{[]Hit{cornerHit(rect.TopRight)}, CursorResizeNESW},
		{[]Hit{cornerHit(rect.BottomLeft)}, CursorResizeNESW},
		{[]Hit{cornerHit(rect.TopLeft)}, CursorResizeNWSE},
		{[]Hit{cornerHit(rect.BottomRight)}, CursorResizeNWSE},
	}
	for _, tt := range tests {
		s, eff := Reduce(Idle{}, m, PointerMove{World: pt(0, 0), Hits: tt.hits})
		if IsActive(s) || eff.Changed {
			t.Errorf("hover %v mutated: %s %+v", tt.hits, s, eff)
		}
		if eff.Cursor != tt.want {
			t.Errorf("hover %v: cursor %s, want %s", tt.hits, eff.Cursor, tt.want)
		}
	}

	// A quarter turn swaps the diagonals.
	turned := m.WithAngle(math.Pi / 2)
	_, eff := Reduce(Idle{}, turned, PointerMove{Hits: []Hit{cornerHit(rect.TopRight)}})
	if eff.Cursor != CursorResizeNWSE {
		t.Errorf("turned top-right cursor %s", eff.Cursor)
	}
}

func TestNilStateIsIdle(t *testing.T) {
	m := rect.New(pt(0, 0), 100, 50, 0)
	s, eff := Reduce(nil, m, PointerDown{Hits: []Hit{bodyHit}})
	if _, ok := s.(Moving); !ok || !eff.Handled {
		t.Errorf("state %v effect %+v", s, eff)
	}
}
