package interact

import (
	"github.com/irfansharif/extent/internal/rect"
)

// Cursor is a pointer-style hint for the host.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorMove
	CursorResizeNESW // diagonal running bottom-left to top-right
	CursorResizeNWSE // diagonal running top-left to bottom-right
	CursorRotate
	CursorGrabbing
)

func (c Cursor) String() string {
	switch c {
	case CursorMove:
		return "move"
	case CursorResizeNESW:
		return "nesw-resize"
	case CursorResizeNWSE:
		return "nwse-resize"
	case CursorRotate:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	default:
		return "default"
	}
}

// cursorFor returns the hover hint for a hit on model m. Resize hints follow
// the on-screen diagonal of the corner, so they flip as the rectangle turns.
func cursorFor(h Hit, m rect.Model) Cursor {
	switch h.Target {
	case TargetRotate:
		return CursorRotate
	case TargetBody:
		return CursorMove
	case TargetCorner:
		d := m.CornerPosition(h.Corner).Sub(m.Center)
		// Quadrants I and III run bottom-left to top-right.
		if (d.X >= 0) == (d.Y >= 0) {
			return CursorResizeNESW
		}
		return CursorResizeNWSE
	default:
		return CursorDefault
	}
}
