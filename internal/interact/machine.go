package interact

import (
	"io"
	"log"
	"os"

	"github.com/irfansharif/extent/internal/geom"
	"github.com/irfansharif/extent/internal/rect"
)

var interactLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("EXTENT_DEBUG_INTERACT") == "1" {
		interactLogger = log.New(os.Stdout, "[interact] ", log.Ltime|log.Lmsgprefix)
	}
}

// Machine wraps Reduce for hosts that dispatch events from callbacks. It holds
// the gesture state and the live shift flag, and reports every model change to
// onChange. The model itself stays with the caller, who passes its current
// copy into every call.
//
// Machine is not safe for concurrent use; all calls must come from the host's
// event thread.
type Machine struct {
	opts     Options
	state    State
	shift    bool
	cursor   Cursor
	onChange func(rect.Model)
}

// NewMachine creates an idle machine. onChange may be nil.
func NewMachine(opts Options, onChange func(rect.Model)) *Machine {
	if opts.SnapIncrement <= 0 {
		opts.SnapIncrement = DefaultOptions.SnapIncrement
	}
	return &Machine{
		opts:     opts,
		state:    Idle{},
		onChange: onChange,
	}
}

// SetOptions replaces the reducer options; an in-progress gesture continues
// with the new ones.
func (mc *Machine) SetOptions(opts Options) {
	if opts.SnapIncrement <= 0 {
		opts.SnapIncrement = DefaultOptions.SnapIncrement
	}
	mc.opts = opts
}

// State returns the current gesture state.
func (mc *Machine) State() State { return mc.state }

// Active reports whether a drag is in progress.
func (mc *Machine) Active() bool { return IsActive(mc.state) }

// Cursor returns the most recent cursor hint.
func (mc *Machine) Cursor() Cursor { return mc.cursor }

// SetShift records the shift key state. It is read on every pointer move.
func (mc *Machine) SetShift(held bool) { mc.shift = held }

// PointerDown starts a gesture if hits contains a recognized target. It
// returns false when the host should handle the press itself.
func (mc *Machine) PointerDown(m rect.Model, pixel, world geom.Point, hits []Hit) bool {
	return mc.dispatch(m, PointerDown{Pixel: pixel, World: world, Hits: hits})
}

// PointerMove advances the active gesture, or refreshes the hover cursor when
// idle.
func (mc *Machine) PointerMove(m rect.Model, pixel, world geom.Point, hits []Hit) bool {
	return mc.dispatch(m, PointerMove{Pixel: pixel, World: world, Hits: hits, Shift: mc.shift})
}

// PointerUp ends the active gesture.
func (mc *Machine) PointerUp(m rect.Model, pixel, world geom.Point) bool {
	return mc.dispatch(m, PointerUp{Pixel: pixel, World: world})
}

// Cancel ends the active gesture without a pointer-up. Hosts must call it when
// their event source is interrupted (focus loss), otherwise the gesture is
// left dangling.
func (mc *Machine) Cancel(m rect.Model, revert bool) bool {
	return mc.dispatch(m, Cancel{Revert: revert})
}

func (mc *Machine) dispatch(m rect.Model, ev Event) bool {
	prev := mc.state
	next, eff := mc.opts.Reduce(prev, m, ev)
	mc.state = next
	if IsActive(next) {
		mc.cursor = CursorGrabbing
	} else {
		mc.cursor = eff.Cursor
	}
	if prev.String() != next.String() {
		interactLogger.Printf("%s -> %s", prev, next)
	}
	if eff.Changed && mc.onChange != nil {
		mc.onChange(eff.Model)
	}
	return eff.Handled
}
