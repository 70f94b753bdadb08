package movemode

import (
	"time"

	"github.com/1broseidon/termboard/internal/geom"
	"github.com/1broseidon/termboard/internal/tiling"
)

// Phase represents the current phase of the drag gesture
type Phase int

const (
	// PhaseIdle means no gesture owns an icon
	PhaseIdle Phase = iota
	// PhasePendingEdit means an icon was pressed outside edit mode and the
	// long-press timer is armed
	PhasePendingEdit
	// PhaseDragging means an icon is active and follows the pointer
	PhaseDragging
	// PhaseReleasing means the snap-back animation is in flight
	PhaseReleasing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePendingEdit:
		return "pending-edit"
	case PhaseDragging:
		return "dragging"
	case PhaseReleasing:
		return "releasing"
	default:
		return "unknown"
	}
}

// Direction represents an arrow key direction
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// NoIndex marks the absence of an active icon.
const NoIndex = -1

// DragState is the transient state of one pointer gesture.
type DragState struct {
	// Active is the index of the dragged app, or NoIndex.
	Active int
	// Correction is added to the raw gesture delta so the dragged icon stays
	// under the pointer after its index jumped.
	Correction geom.Point
	// Offset is the corrected delta last applied to the dragged icon.
	Offset geom.Point
	// GrantedAt is zero outside a gesture.
	GrantedAt time.Time
}

// NewDragState returns a state with no active icon.
func NewDragState() DragState {
	return DragState{Active: NoIndex}
}

// HasActive reports whether an icon is grabbed.
func (s DragState) HasActive() bool {
	return s.Active != NoIndex
}

// Reorder describes one relocation of the active app.
type Reorder struct {
	From int
	To   int
}

// Step applies a move delta (measured since grant) to s. icons and slots must
// describe the current app sequence. When the dragged box lands on another
// index the returned state carries the new active index and correction and
// ok is true.
func (s DragState) Step(delta geom.Point, icons []tiling.IconPosition, slots []tiling.GridPosition) (next DragState, move Reorder, ok bool) {
	next = s
	if s.Active < 0 || s.Active >= len(icons) {
		return next, Reorder{}, false
	}

	corrected := delta.Add(s.Correction)
	next.Offset = corrected

	current := icons[s.Active]
	dragged := geom.Translate(current.Rect, corrected.X, corrected.Y)

	dest, found := findDestination(dragged, icons, slots)
	if !found || dest.Idx == current.Idx {
		return next, Reorder{}, false
	}

	next.Correction = s.Correction.Add(current.Rect.Origin().Sub(dest.Rect.Origin()))
	next.Active = dest.Idx
	next.Offset = delta.Add(next.Correction)
	return next, Reorder{From: current.Idx, To: dest.Idx}, true
}

// Retarget moves the active index to to without a pointer move, shifting
// the correction by the slot jump so the icon stays where it is drawn.
func (s DragState) Retarget(to int, icons []tiling.IconPosition) DragState {
	if s.Active < 0 || s.Active >= len(icons) || to < 0 || to >= len(icons) {
		return s
	}
	shift := icons[s.Active].Rect.Origin().Sub(icons[to].Rect.Origin())
	s.Correction = s.Correction.Add(shift)
	s.Offset = s.Offset.Add(shift)
	s.Active = to
	return s
}

// findDestination returns the first icon, in row-major order, that the
// dragged box overlaps. Failing that, landing on an empty slot past the last
// icon selects the last icon.
func findDestination(dragged geom.Rect, icons []tiling.IconPosition, slots []tiling.GridPosition) (tiling.IconPosition, bool) {
	for _, icon := range icons {
		if geom.Overlaps(dragged, icon.Rect) {
			return icon, true
		}
	}
	if len(icons) == 0 {
		return tiling.IconPosition{}, false
	}
	for _, slot := range slots {
		if slot.Idx < len(icons) {
			continue
		}
		if geom.Overlaps(dragged, slot.Rect) {
			return icons[len(icons)-1], true
		}
	}
	return tiling.IconPosition{}, false
}

// iconAt returns the index of the first icon containing p, or NoIndex.
func iconAt(icons []tiling.IconPosition, p geom.Point) int {
	for _, icon := range icons {
		if geom.Contains(p, icon.Rect) {
			return icon.Idx
		}
	}
	return NoIndex
}
