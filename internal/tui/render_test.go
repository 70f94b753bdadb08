package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/termboard/internal/animation"
	"github.com/1broseidon/termboard/internal/apps"
	"github.com/1broseidon/termboard/internal/geom"
	"github.com/1broseidon/termboard/internal/movemode"
	"github.com/1broseidon/termboard/internal/tiling"
)

func terminalLayout() tiling.Layout {
	grid := tiling.Grid{Columns: 4, Rows: 4, Gutter: 2, Inset: 4, IconAspect: 0.25}
	return tiling.NewLayout(grid, 80, 22)
}

func testApps() []apps.App {
	return []apps.App{
		{ID: "a", Name: "Alpha", Icon: "A"},
		{ID: "b", Name: "Bravo", Icon: "B"},
		{ID: "c", Name: "Charlie"},
	}
}

func TestPlaceIconsAtRest(t *testing.T) {
	views := placeIcons(testApps(), terminalLayout(), animation.Frame{}, movemode.NoIndex, 0, false)
	require.Len(t, views, 3)

	assert.Equal(t, 2, views[0].X)
	assert.Equal(t, 0, views[0].Y)
	assert.Equal(t, 14, views[0].W)
	assert.Equal(t, 3, views[0].H)
	assert.True(t, views[0].NameRow)
	assert.Equal(t, paintSelected, views[0].Paint)

	assert.Equal(t, 23, views[1].X)
	assert.Equal(t, paintIcon, views[1].Paint)
}

func TestPlaceIconsActiveDrawnLastWithOffset(t *testing.T) {
	frame := animation.Frame{
		Offset:   geom.Point{X: 5, Y: 1},
		Pressing: 1,
	}
	views := placeIcons(testApps(), terminalLayout(), frame, 0, 0, true)
	require.Len(t, views, 3)

	last := views[2]
	assert.Equal(t, 0, last.Index)
	assert.Equal(t, paintLifted, last.Paint)
	// Scaled by 1.15: two extra columns, centred on the original box.
	assert.Equal(t, 16, last.W)
	assert.Equal(t, 6, last.X)
	assert.Equal(t, 1, last.Y)
}

func TestPlaceIconsInvalidLayout(t *testing.T) {
	layout := tiling.NewLayout(tiling.Grid{Columns: 4, Rows: 4}, 0, 0)
	assert.Nil(t, placeIcons(testApps(), layout, animation.Frame{}, -1, 0, false))
}

func TestCanvasDrawsBoxAndName(t *testing.T) {
	c := newCanvas(12, 4)
	c.drawIcon(iconView{
		App:     apps.App{ID: "a", Name: "Alpha", Icon: "A"},
		X:       1,
		W:       10,
		H:       3,
		NameRow: true,
		Paint:   paintIcon,
	})
	lines := strings.Split(c.String(), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "╭────────╮")
	assert.Contains(t, lines[1], "A")
	assert.Contains(t, lines[2], "╰────────╯")
	assert.Contains(t, lines[3], "Alpha")
}

func TestCanvasTruncatesLongNames(t *testing.T) {
	c := newCanvas(6, 2)
	c.drawIcon(iconView{
		App:     apps.App{ID: "x", Name: "Extraordinary"},
		W:       6,
		H:       1,
		NameRow: true,
		Paint:   paintIcon,
	})
	lines := strings.Split(c.String(), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[ E")
	assert.Contains(t, lines[1], "Extra…")
}

func TestCanvasClipsOutsideWrites(t *testing.T) {
	c := newCanvas(3, 1)
	c.text(-1, 0, "abcd", paintNone)
	c.text(0, 5, "zz", paintNone)
	assert.Equal(t, "bcd", c.String())
}
