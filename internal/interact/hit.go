package interact

import (
	"fmt"

	"github.com/irfansharif/extent/internal/rect"
)

// Target is the kind of overlay feature under the pointer.
type Target int

const (
	TargetNone Target = iota
	TargetBody
	TargetCorner
	TargetRotate
)

func (t Target) String() string {
	switch t {
	case TargetNone:
		return "none"
	case TargetBody:
		return "body"
	case TargetCorner:
		return "corner"
	case TargetRotate:
		return "rotate"
	default:
		return fmt.Sprintf("target(%d)", int(t))
	}
}

// priority orders targets when several are under the pointer; handles win
// over the body, and the rotation handle wins over corners.
func (t Target) priority() int {
	switch t {
	case TargetRotate:
		return 3
	case TargetCorner:
		return 2
	case TargetBody:
		return 1
	default:
		return 0
	}
}

// Hit is one candidate feature reported by the host's hit-test. Corner is only
// meaningful for TargetCorner.
type Hit struct {
	Target Target
	Corner rect.Corner
}

func (h Hit) String() string {
	if h.Target == TargetCorner {
		return fmt.Sprintf("corner(%s)", h.Corner)
	}
	return h.Target.String()
}

// PickHit applies the target priority (rotation handle, then corners, then
// body) to the candidates. Among equal-priority candidates the first one
// reported wins. ok is false when nothing recognizable was hit.
func PickHit(hits []Hit) (best Hit, ok bool) {
	for _, h := range hits {
		if h.Target.priority() > best.Target.priority() {
			best = h
		}
	}
	return best, best.Target != TargetNone
}
