package animation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/termboard/internal/apps"
	"github.com/1broseidon/termboard/internal/geom"
	"github.com/1broseidon/termboard/internal/tiling"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func newTestDriver() (*Driver, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	d := NewDriver(Options{
		FrameRate: 60,
		Frequency: DefaultFrequency,
		Damping:   DefaultDamping,
		SnapBack:  100 * time.Millisecond,
		Clock:     clock.Now,
	})
	return d, clock
}

func appList(ids ...string) []apps.App {
	list := make([]apps.App, len(ids))
	for i, id := range ids {
		list[i] = apps.App{ID: id}
	}
	return list
}

func testLayout() tiling.Layout {
	return tiling.NewLayout(tiling.Grid{Columns: 4, Rows: 6, Gutter: 10, Inset: 20, IconAspect: 1}, 400, 600)
}

func settle(t *testing.T, d *Driver, clock *fakeClock) int {
	t.Helper()
	frames := 0
	for d.Animating() {
		d.Step(clock.advance(time.Second / 60))
		frames++
		require.Less(t, frames, 2000, "animation never settled")
	}
	return frames
}

func TestDriver_NewAppsStartAtTarget(t *testing.T) {
	d, _ := newTestDriver()
	layout := testLayout()

	d.Relayout(appList("A", "B", "C"), layout, -1)
	assert.False(t, d.Animating())

	pos, ok := d.Position("C")
	require.True(t, ok)
	assert.Equal(t, layout.RestPosition(2), pos)
}

func TestDriver_ReorderSpringsToNewSlots(t *testing.T) {
	d, clock := newTestDriver()
	layout := testLayout()
	d.Relayout(appList("A", "B", "C"), layout, -1)

	d.Relayout(appList("B", "A", "C"), layout, -1)
	require.True(t, d.Animating())

	d.Step(clock.advance(time.Second / 60))
	posA, _ := d.Position("A")
	assert.Greater(t, posA.X, layout.RestPosition(0).X, "A starts moving right")
	assert.Less(t, posA.X, layout.RestPosition(1).X, "but is not there yet")

	frames := settle(t, d, clock)
	assert.Greater(t, frames, 1)

	posA, _ = d.Position("A")
	posB, _ := d.Position("B")
	assert.Equal(t, layout.RestPosition(1), posA)
	assert.Equal(t, layout.RestPosition(0), posB)
}

func TestDriver_ActiveAppJumps(t *testing.T) {
	d, _ := newTestDriver()
	layout := testLayout()
	d.Relayout(appList("A", "B", "C"), layout, -1)

	d.Relayout(appList("B", "A", "C"), layout, 1)
	posA, _ := d.Position("A")
	assert.Equal(t, layout.RestPosition(1), posA)

	posB, _ := d.Position("B")
	assert.Equal(t, layout.RestPosition(1), posB, "B has not moved yet")
	assert.True(t, d.Animating())
}

func TestDriver_RelayoutKeepsInFlightState(t *testing.T) {
	d, clock := newTestDriver()
	layout := testLayout()
	d.Relayout(appList("A", "B"), layout, -1)
	d.Relayout(appList("B", "A"), layout, -1)

	for i := 0; i < 3; i++ {
		d.Step(clock.advance(time.Second / 60))
	}
	mid, _ := d.Position("A")

	// Adding an app must not reset A.
	d.Relayout(appList("B", "A", "Z"), layout, -1)
	after, _ := d.Position("A")
	assert.Equal(t, mid, after)

	_, ok := d.Position("Z")
	assert.True(t, ok)

	d.Relayout(appList("B", "Z"), layout, -1)
	_, ok = d.Position("A")
	assert.False(t, ok, "removed ids are dropped")
}

func TestDriver_SnapBackIsLinearAndCallsDone(t *testing.T) {
	d, clock := newTestDriver()
	d.SetDragOffset(geom.Point{X: 40, Y: -20})

	calls := 0
	d.SnapBack(func() { calls++ })

	d.Step(clock.advance(50 * time.Millisecond))
	f := d.Frame(clock.now)
	assert.InDelta(t, 20, f.Offset.X, 1e-9)
	assert.InDelta(t, -10, f.Offset.Y, 1e-9)
	assert.Equal(t, 0, calls)

	d.Step(clock.advance(60 * time.Millisecond))
	assert.Equal(t, geom.Point{}, d.Frame(clock.now).Offset)
	assert.Equal(t, 1, calls)

	d.Step(clock.advance(time.Second))
	assert.Equal(t, 1, calls)
	assert.False(t, d.Animating())
}

func TestDriver_SetDragOffsetCancelsSnapBack(t *testing.T) {
	d, clock := newTestDriver()
	d.SetDragOffset(geom.Point{X: 40})

	called := false
	d.SnapBack(func() { called = true })
	d.SetDragOffset(geom.Point{X: 5})

	d.Step(clock.advance(time.Second))
	assert.False(t, called)
	assert.Equal(t, geom.Point{X: 5}, d.Frame(clock.now).Offset)
}

func TestDriver_ZeroSnapBackCompletesImmediately(t *testing.T) {
	d := NewDriver(Options{})
	d.SetDragOffset(geom.Point{X: 3})

	called := false
	d.SnapBack(func() { called = true })
	assert.True(t, called)
	assert.Equal(t, geom.Point{}, d.Frame(time.Now()).Offset)
}

func TestDriver_Pressing(t *testing.T) {
	d, clock := newTestDriver()

	d.SetPressed(true)
	assert.True(t, d.Animating())
	settle(t, d, clock)
	assert.Equal(t, 1.0, d.Frame(clock.now).Pressing)

	d.SetPressed(false)
	settle(t, d, clock)
	assert.Equal(t, 0.0, d.Frame(clock.now).Pressing)
}

func TestDriver_FrameWiggle(t *testing.T) {
	d, clock := newTestDriver()
	assert.Equal(t, 0.0, d.Frame(clock.now).Wiggle)
	assert.InDelta(t, 1, d.Frame(clock.now.Add(100*time.Millisecond)).Wiggle, 1e-9)
	assert.InDelta(t, -1, d.Frame(clock.now.Add(300*time.Millisecond)).Wiggle, 1e-9)
}
