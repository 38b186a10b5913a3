package interact

import (
	"math"

	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/rect"
)

// Event is one of PointerDown, PointerMove, PointerUp or Cancel.
type Event interface {
	isEvent()
}

// PointerDown is a primary-button press. Hits are the features the host found
// under the pointer, in any order.
type PointerDown struct {
	Pixel geom.Point
	World geom.Point
	Hits  []Hit
}

// PointerMove is a pointer motion. Shift is the modifier state sampled when the
// move was dispatched; Hits is only consulted while idle, for cursor hints.
type PointerMove struct {
	Pixel geom.Point
	World geom.Point
	Hits  []Hit
	Shift bool
}

// PointerUp is a primary-button release.
type PointerUp struct {
	Pixel geom.Point
	World geom.Point
}

// Cancel forcibly ends a drag, e.g. when the window loses focus. With Revert
// set the model captured at pointer-down is restored.
type Cancel struct {
	Revert bool
}

func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (PointerUp) isEvent()   {}
func (Cancel) isEvent()      {}

// Effect is the outcome of reducing one event.
type Effect struct {
	// Model is the model after the event. It is only meaningful when Changed
	// is set.
	Model   rect.Model
	Changed bool
	// Handled is false when the event did not concern the rectangle and the
	// host should process it itself (e.g. pan the map).
	Handled bool
	Cursor  Cursor
}

// Options tunes the reducer.
type Options struct {
	SnapIncrement float64 // radians; used while shift is held during a rotation
}

// DefaultOptions snaps rotations to 15° steps.
var DefaultOptions = Options{SnapIncrement: geom.DefaultSnapIncrement}

// Reduce applies ev to state s with DefaultOptions.
func Reduce(s State, m rect.Model, ev Event) (State, Effect) {
	return DefaultOptions.Reduce(s, m, ev)
}

// Reduce applies ev to state s, where m is the caller's current model. It
// never retains m beyond the returned state.
func (o Options) Reduce(s State, m rect.Model, ev Event) (State, Effect) {
	if s == nil {
		s = Idle{}
	}
	switch ev := ev.(type) {
	case PointerDown:
		return o.pointerDown(s, m, ev)
	case PointerMove:
		return o.pointerMove(s, m, ev)
	case PointerUp:
		if !IsActive(s) {
			return s, Effect{}
		}
		return Idle{}, Effect{Handled: true}
	case Cancel:
		start, ok := startModel(s)
		if !ok {
			return s, Effect{}
		}
		if ev.Revert && start != m {
			return Idle{}, Effect{Model: start, Changed: true, Handled: true}
		}
		return Idle{}, Effect{Handled: true}
	default:
		return s, Effect{}
	}
}

func (o Options) pointerDown(s State, m rect.Model, ev PointerDown) (State, Effect) {
	if IsActive(s) {
		// A second press without a release; keep the current gesture.
		return s, Effect{Handled: true, Cursor: CursorGrabbing}
	}
	hit, ok := PickHit(ev.Hits)
	if !ok {
		return Idle{}, Effect{}
	}

	var next State
	switch hit.Target {
	case TargetRotate:
		next = Rotating{
			Start:               m,
			StartPointer:        ev.World,
			StartAngleToPointer: geom.AngleBetween(m.Center, ev.World),
		}
	case TargetCorner:
		next = Resizing{Start: m, StartPointer: ev.World, Corner: hit.Corner}
	default:
		next = Moving{Start: m, StartPointer: ev.World}
	}
	return next, Effect{Handled: true, Cursor: CursorGrabbing}
}

func (o Options) pointerMove(s State, m rect.Model, ev PointerMove) (State, Effect) {
	var next rect.Model
	switch s := s.(type) {
	case Moving:
		delta := ev.World.Sub(s.StartPointer)
		next = m.WithCenter(s.Start.Center.Add(delta))

	case Resizing:
		next = resize(s, m, ev.World, ev.Shift)

	case Rotating:
		current := geom.AngleBetween(m.Center, ev.World)
		angle := s.Start.Angle + (current - s.StartAngleToPointer)
		if ev.Shift {
			angle = geom.SnapAngle(angle, o.SnapIncrement)
		}
		next = m.WithAngle(angle)

	default:
		hit, _ := PickHit(ev.Hits)
		return s, Effect{Cursor: cursorFor(hit, m)}
	}
	return s, Effect{
		Model:   next,
		Changed: next != m,
		Handled: true,
		Cursor:  CursorGrabbing,
	}
}

// resize scales the rectangle symmetrically about its frozen center: the
// pointer's local offset from the center is half the new size, whichever
// corner is dragged. With aspect lock the height follows the width using the
// ratio captured at pointer-down.
func resize(s Resizing, m rect.Model, world geom.Point, aspectLock bool) rect.Model {
	local := geom.WorldToLocal(world, s.Start.Center, s.Start.Angle)
	w := math.Abs(local.X) * 2
	h := math.Abs(local.Y) * 2
	if aspectLock {
		h = w / s.Start.AspectRatio()
	}
	next := m.WithSize(w, h)
	next.Center = s.Start.Center
	next.Angle = s.Start.Angle
	return next
}
