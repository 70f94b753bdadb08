package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/termboard/internal/apps"
	"github.com/1broseidon/termboard/internal/config"
	"github.com/1broseidon/termboard/internal/movemode"
)

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestModel builds a model on the default config (terminal profile,
// seven apps) sized 80x24. The grid is then 80x22: cells are 18x5 with
// icons 14 cells wide, so icon 0 spans columns 2..16 and icon 1 spans
// columns 22.7..36.7 of the first row.
func newTestModel(t *testing.T) (model, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	m, err := newModel(Options{
		Result: &config.LoadResult{Config: config.DefaultConfig()},
		Now:    clock.now,
	})
	require.NoError(t, err)
	t.Cleanup(func() { m.zones.Close() })

	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, clock
}

func update(m model, msg tea.Msg) model {
	next, _ := m.Update(msg)
	return next.(model)
}

func updateCmd(m model, msg tea.Msg) (model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func ids(m model) []string {
	return apps.IDs(m.shell.Apps())
}

func fireAll(m model) model {
	for _, id := range m.sched.pendingIDs() {
		m = update(m, timerMsg{id: id})
	}
	return m
}

func TestWindowSizeSetsContainer(t *testing.T) {
	m, _ := newTestModel(t)

	layout := m.engine.Layout()
	require.True(t, layout.Valid())
	assert.Equal(t, 18.0, layout.Sizes().ItemWidth)
	assert.Equal(t, 5.0, layout.Sizes().ItemHeight)
	assert.Equal(t, 4, layout.Sizes().PerLine)

	pos, ok := m.driver.Position("mail")
	require.True(t, ok)
	assert.InDelta(t, 20.667, pos.X, 0.01)
	assert.Equal(t, 0.0, pos.Y)
}

func TestLongPressEntersEditMode(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(m, press(5, 2))
	assert.Equal(t, movemode.PhasePendingEdit, m.engine.Phase())
	assert.False(t, m.shell.IsEditing())
	require.Len(t, m.sched.pendingIDs(), 1)

	m = fireAll(m)
	assert.True(t, m.shell.IsEditing())
	assert.Equal(t, movemode.PhaseDragging, m.engine.Phase())
	assert.Equal(t, 0, m.engine.Active())
	assert.True(t, m.ticking, "edit mode keeps frames running for the wiggle")
}

func TestEarlyReleaseCancelsLongPress(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(m, press(5, 2))
	ids := m.sched.pendingIDs()
	require.Len(t, ids, 1)

	m = update(m, release(5, 2))
	assert.Empty(t, m.sched.pendingIDs())

	// The tick still arrives but is ignored.
	m = update(m, timerMsg{id: ids[0]})
	assert.False(t, m.shell.IsEditing())
	assert.Equal(t, movemode.PhaseIdle, m.engine.Phase())
}

func TestDragReordersAndSnapsBack(t *testing.T) {
	m, clock := newTestModel(t)

	m = update(m, keyRune('e'))
	require.True(t, m.shell.IsEditing())

	m = update(m, press(5, 2))
	require.Equal(t, movemode.PhaseDragging, m.engine.Phase())

	m = update(m, motion(26, 2))
	assert.Equal(t, []string{"mail", "calendar", "notes", "music", "terminal", "weather", "clock"}, ids(m))
	assert.Equal(t, 1, m.engine.Active())

	// The dragged icon stays under the pointer: rest position of index 1
	// plus the corrected offset equals the original slot plus 21 columns.
	drag := m.engine.Drag()
	assert.InDelta(t, 21-20.667, drag.Offset.X, 0.01)

	m = update(m, release(26, 2))
	assert.Equal(t, movemode.PhaseReleasing, m.engine.Phase())

	clock.advance(100 * time.Millisecond)
	m = update(m, frameMsg{at: clock.now()})
	assert.Equal(t, movemode.PhaseIdle, m.engine.Phase())
	assert.Equal(t, movemode.NoIndex, m.engine.Active())
	assert.True(t, m.shell.IsEditing(), "release keeps edit mode on")
}

func TestTapOutsideStopsEditing(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(m, keyRune('e'))
	require.True(t, m.shell.IsEditing())

	// Slot 7 is empty: seven apps fill slots 0..6.
	m = update(m, press(70, 8))
	assert.False(t, m.shell.IsEditing())
	assert.Equal(t, movemode.PhaseIdle, m.engine.Phase())
}

func TestDoneKeyStopsEditing(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(m, keyRune('e'))
	m = update(m, press(5, 2))
	require.Equal(t, 0, m.engine.Active())

	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.shell.IsEditing())
	assert.Equal(t, movemode.NoIndex, m.engine.Active())
	assert.False(t, m.pressed)

	// A motion after Done does nothing.
	m = update(m, motion(40, 2))
	assert.Equal(t, "calendar", ids(m)[0])
}

func TestEditKeyToggles(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(m, keyRune('e'))
	assert.True(t, m.shell.IsEditing())
	m = update(m, keyRune('e'))
	assert.False(t, m.shell.IsEditing())
}

func TestKeyboardSelectAndNudge(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.engine.Selected())
	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 5, m.engine.Selected())
	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.engine.Selected())

	// Nudging needs edit mode.
	m = update(m, keyRune('L'))
	assert.Equal(t, "calendar", ids(m)[0])

	m = update(m, keyRune('e'))
	m = update(m, keyRune('L'))
	assert.Equal(t, []string{"calendar", "notes", "mail"}, ids(m)[:3])
	assert.Equal(t, 2, m.engine.Selected())

	m = update(m, tea.KeyMsg{Type: tea.KeyShiftLeft})
	assert.Equal(t, []string{"calendar", "mail", "notes"}, ids(m)[:3])
}

func TestFramesStopWhenSettled(t *testing.T) {
	m, clock := newTestModel(t)
	assert.False(t, m.ticking)

	m = update(m, keyRune('e'))
	assert.True(t, m.ticking)

	m = update(m, keyRune('e'))
	for i := 0; i < 2000 && m.ticking; i++ {
		clock.advance(m.frame)
		m = update(m, frameMsg{at: clock.now()})
	}
	assert.False(t, m.ticking)
	assert.False(t, m.driver.Animating())
}

func TestReloadMergesApps(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(m, keyRune('e'))
	m = update(m, keyRune('L'))
	require.Equal(t, "mail", ids(m)[0])

	cfg := config.DefaultConfig()
	cfg.Apps = []config.AppEntry{
		{ID: "calendar", Name: "Calendar"},
		{ID: "mail", Name: "Mail"},
		{ID: "files", Name: "Files"},
	}
	m = update(m, reloadMsg{result: &config.LoadResult{Config: cfg}})

	assert.Empty(t, m.lastErr)
	assert.Equal(t, []string{"mail", "calendar", "files"}, ids(m))
	_, ok := m.driver.Position("files")
	assert.True(t, ok)
	_, ok = m.driver.Position("notes")
	assert.False(t, ok)
}

func TestReloadKeepsSelectionOnApp(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(m, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 2, m.engine.Selected())
	require.Equal(t, "notes", ids(m)[2])

	cfg := config.DefaultConfig()
	cfg.Apps = []config.AppEntry{
		{ID: "notes", Name: "Notes"},
		{ID: "clock", Name: "Clock"},
		{ID: "calendar", Name: "Calendar"},
	}
	m = update(m, reloadMsg{result: &config.LoadResult{Config: cfg}})
	assert.Equal(t, []string{"calendar", "notes", "clock"}, ids(m))
	assert.Equal(t, 1, m.engine.Selected())

	cfg = config.DefaultConfig()
	cfg.Apps = []config.AppEntry{{ID: "clock", Name: "Clock"}}
	m = update(m, reloadMsg{result: &config.LoadResult{Config: cfg}})
	assert.Equal(t, []string{"clock"}, ids(m))
	assert.Equal(t, 0, m.engine.Selected())
}

func TestReloadErrorKeepsState(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(m, reloadMsg{err: errors.New("timing.long_press: must be > 0")})
	assert.Equal(t, "timing.long_press: must be > 0", m.lastErr)
	assert.Len(t, ids(m), 7)
}

func TestHelpToggleShrinksGrid(t *testing.T) {
	m, _ := newTestModel(t)
	_, before := m.gridSize()

	m = update(m, keyRune('?'))
	assert.True(t, m.help.ShowAll)
	_, after := m.gridSize()
	assert.Less(t, after, before)
}

func TestViewShowsIconsAndDone(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "Calendar")
	assert.Contains(t, view, "7 apps")
	assert.NotContains(t, view, "Done")

	m = update(m, keyRune('e'))
	view = m.View()
	assert.Contains(t, view, "editing")
	assert.Contains(t, view, "Done")
	assert.Equal(t, 24, len(strings.Split(view, "\n")))
}

func TestQuitClosesEngine(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := updateCmd(m, keyRune('q'))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())

	// A closed engine ignores gestures.
	m = update(m, press(5, 2))
	assert.Equal(t, movemode.PhaseIdle, m.engine.Phase())
	assert.Empty(t, m.sched.pendingIDs())
}
