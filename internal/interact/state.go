// Package interact turns pointer gestures into rectangle model changes.
//
// The state machine is a pure reducer: Reduce(state, model, event) returns the
// next state and an Effect describing what, if anything, the host should do.
// There are four states: Idle, Moving, Resizing and Rotating. Every state but
// Idle is an in-progress drag that remembers the model and pointer position
// captured at pointer-down.
package interact

import (
	"fmt"

	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/rect"
)

// State is one of Idle, Moving, Resizing or Rotating.
type State interface {
	fmt.Stringer
	isState()
}

// Idle is the state between gestures.
type Idle struct{}

// Moving drags the whole rectangle.
type Moving struct {
	Start        rect.Model // model at pointer-down
	StartPointer geom.Point // world position at pointer-down
}

// Resizing drags a corner. Center and angle stay frozen for the whole gesture.
type Resizing struct {
	Start        rect.Model
	StartPointer geom.Point
	Corner       rect.Corner
}

// Rotating drags the rotation handle.
type Rotating struct {
	Start               rect.Model
	StartPointer        geom.Point
	StartAngleToPointer float64 // angle from center to pointer at pointer-down
}

func (Idle) isState()     {}
func (Moving) isState()   {}
func (Resizing) isState() {}
func (Rotating) isState() {}

func (Idle) String() string       { return "idle" }
func (Moving) String() string     { return "moving" }
func (s Resizing) String() string { return fmt.Sprintf("resizing(%s)", s.Corner) }
func (Rotating) String() string   { return "rotating" }

// IsActive reports whether s is an in-progress drag.
func IsActive(s State) bool {
	switch s.(type) {
	case nil, Idle:
		return false
	default:
		return true
	}
}

// startModel returns the model captured when the drag in s began.
func startModel(s State) (rect.Model, bool) {
	switch s := s.(type) {
	case Moving:
		return s.Start, true
	case Resizing:
		return s.Start, true
	case Rotating:
		return s.Start, true
	default:
		return rect.Model{}, false
	}
}
