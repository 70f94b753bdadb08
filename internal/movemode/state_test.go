package movemode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/termboard/internal/geom"
	"github.com/1broseidon/termboard/internal/tiling"
)

func springboardLayout(t *testing.T) tiling.Layout {
	t.Helper()
	l := tiling.NewLayout(springboard, 400, 600)
	require.True(t, l.Valid())
	return l
}

func TestDragState_StepKeepsIconUnderPointer(t *testing.T) {
	l := springboardLayout(t)
	icons := l.IconPositions(5)
	slots := l.GridPositions()

	s := NewDragState()
	s.Active = 0

	s, move, ok := s.Step(geom.Point{X: 120}, icons, slots)
	require.True(t, ok)
	assert.Equal(t, Reorder{From: 0, To: 1}, move)

	// Rest origin of the new slot plus the offset equals the old origin plus
	// the raw delta.
	visual := icons[s.Active].Rect.Origin().Add(s.Offset)
	assert.InDelta(t, icons[0].Rect.X1+120, visual.X, 1e-9)
	assert.InDelta(t, icons[0].Rect.Y1, visual.Y, 1e-9)

	s, _, ok = s.Step(geom.Point{X: 125}, icons, slots)
	assert.False(t, ok, "small follow-up delta stays in the new slot")
	assert.Equal(t, 1, s.Active)
	assert.InDelta(t, 125-103.333333, s.Offset.X, 1e-5)
}

func TestDragState_RetargetKeepsDrawnPosition(t *testing.T) {
	l := springboardLayout(t)
	icons := l.IconPositions(5)

	s := NewDragState()
	s.Active = 0
	s.Offset = geom.Point{X: 5}

	s = s.Retarget(1, icons)
	assert.Equal(t, 1, s.Active)
	visual := icons[s.Active].Rect.Origin().Add(s.Offset)
	assert.InDelta(t, icons[0].Rect.X1+5, visual.X, 1e-9)
	assert.InDelta(t, -103.333333, s.Correction.X, 1e-5)

	assert.Equal(t, s, s.Retarget(9, icons), "out of range target is ignored")
}

func TestDragState_StepBackwards(t *testing.T) {
	l := springboardLayout(t)
	icons := l.IconPositions(8)
	slots := l.GridPositions()

	s := NewDragState()
	s.Active = 5

	// Straight up onto the slot above.
	s, move, ok := s.Step(geom.Point{Y: -100}, icons, slots)
	require.True(t, ok)
	assert.Equal(t, Reorder{From: 5, To: 1}, move)
	assert.InDelta(t, 100, s.Correction.Y, 1e-9)
	assert.InDelta(t, 0, s.Offset.Y, 1e-9)
}

func TestDragState_StepFirstMatchWins(t *testing.T) {
	l := springboardLayout(t)
	icons := l.IconPositions(8)
	slots := l.GridPositions()

	s := NewDragState()
	s.Active = 5
	// Halfway between slot 0 and slot 1 of the row above: the dragged box
	// touches both and the earlier one in row-major order wins.
	_, move, ok := s.Step(geom.Point{X: -50, Y: -100}, icons, slots)
	require.True(t, ok)
	assert.Equal(t, 0, move.To)
}

func TestDragState_StepOutsideEverything(t *testing.T) {
	l := springboardLayout(t)
	icons := l.IconPositions(3)
	slots := l.GridPositions()

	s := NewDragState()
	s.Active = 0
	next, _, ok := s.Step(geom.Point{X: -500, Y: -500}, icons, slots)
	assert.False(t, ok)
	assert.Equal(t, 0, next.Active)
	assert.Equal(t, geom.Point{X: -500, Y: -500}, next.Offset)
}

func TestDragState_StepInvalidActive(t *testing.T) {
	l := springboardLayout(t)
	icons := l.IconPositions(3)

	for _, active := range []int{NoIndex, 3, 10} {
		s := NewDragState()
		s.Active = active
		next, _, ok := s.Step(geom.Point{X: 200}, icons, l.GridPositions())
		assert.False(t, ok)
		assert.Equal(t, s, next)
	}
}

func TestFindDestination_NoIconsNoTrailingDrop(t *testing.T) {
	l := springboardLayout(t)
	_, ok := findDestination(geom.Rect{X1: 0, Y1: 0, X2: 50, Y2: 50}, nil, l.GridPositions())
	assert.False(t, ok)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "pending-edit", PhasePendingEdit.String())
	assert.Equal(t, "dragging", PhaseDragging.String())
	assert.Equal(t, "releasing", PhaseReleasing.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
