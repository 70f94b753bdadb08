package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/termboard/internal/animation"
	"github.com/1broseidon/termboard/internal/apps"
	"github.com/1broseidon/termboard/internal/tiling"
)

type paint int

const (
	paintNone paint = iota
	paintIcon
	paintSelected
	paintActive
	paintLifted
	paintName
)

var paintStyles = map[paint]lipgloss.Style{
	paintNone:     lipgloss.NewStyle(),
	paintIcon:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	paintSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	paintActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
	paintLifted:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Faint(true),
	paintName:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// iconView is one icon placed on the character grid.
type iconView struct {
	App   apps.App
	Index int
	X, Y  int
	W, H  int
	// NameRow is false when the cell has no room for the name below the box.
	NameRow bool
	Paint   paint
}

// placeIcons converts the animated frame into character positions. The active
// icon comes last so that it is drawn on top.
func placeIcons(list []apps.App, layout tiling.Layout, frame animation.Frame, active, selected int, editing bool) []iconView {
	if !layout.Valid() {
		return nil
	}
	sizes := layout.Sizes()
	inset := layout.Grid().Inset

	baseW := int(math.Round(sizes.IconSize))
	baseH := int(math.Floor(sizes.IconHeight))
	if baseW < 1 {
		baseW = 1
	}
	if baseH < 1 {
		baseH = 1
	}
	nameRow := float64(baseH+1) <= sizes.ItemHeight

	views := make([]iconView, 0, len(list))
	for idx, app := range list {
		pos, ok := frame.Positions[app.ID]
		if !ok {
			pos = layout.RestPosition(idx)
		}
		v := iconView{
			App:     app,
			Index:   idx,
			W:       baseW,
			H:       baseH,
			NameRow: nameRow,
			Paint:   paintIcon,
		}
		x := pos.X + inset/2
		y := pos.Y

		switch {
		case idx == active:
			x += frame.Offset.X
			y += frame.Offset.Y
			extra := int(math.Round(float64(baseW) * (animation.Scale(frame.Pressing) - 1)))
			v.W += extra
			x -= float64(extra) / 2
			v.Paint = paintActive
			if animation.Opacity(frame.Pressing) < 0.85 {
				v.Paint = paintLifted
			}
		case editing:
			// One column of sway per three degrees of tilt.
			x += math.Round(animation.Rotation(idx, frame.Wiggle) / 3)
		}
		if idx == selected && idx != active {
			v.Paint = paintSelected
		}

		v.X = int(math.Round(x))
		v.Y = int(math.Round(y))
		views = append(views, v)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[j].Index == active && views[i].Index != active
	})
	return views
}

// canvas is a character grid with one paint per cell.
type canvas struct {
	w, h   int
	cells  [][]string
	paints [][]paint
}

func newCanvas(w, h int) *canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &canvas{w: w, h: h}
	c.cells = make([][]string, h)
	c.paints = make([][]paint, h)
	for y := 0; y < h; y++ {
		c.cells[y] = make([]string, w)
		c.paints[y] = make([]paint, w)
		for x := 0; x < w; x++ {
			c.cells[y][x] = " "
		}
	}
	return c
}

func (c *canvas) set(x, y int, s string, p paint) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = s
	c.paints[y][x] = p
}

// text writes s starting at x. Wide runes take two cells.
func (c *canvas) text(x, y int, s string, p paint) {
	for _, r := range s {
		ch := string(r)
		w := ansi.StringWidth(ch)
		if w == 0 {
			continue
		}
		c.set(x, y, ch, p)
		if w == 2 {
			c.set(x+1, y, "", p)
		}
		x += w
	}
}

func (c *canvas) fill(x, y, w int, p paint) {
	for i := 0; i < w; i++ {
		c.set(x+i, y, " ", p)
	}
}

// drawIcon draws v as a rounded box with its label in the middle and the
// app name below.
func (c *canvas) drawIcon(v iconView) {
	label := v.App.Label()
	switch {
	case v.H >= 3 && v.W >= 3:
		c.text(v.X, v.Y, "╭"+strings.Repeat("─", v.W-2)+"╮", v.Paint)
		for row := 1; row < v.H-1; row++ {
			c.set(v.X, v.Y+row, "│", v.Paint)
			c.fill(v.X+1, v.Y+row, v.W-2, v.Paint)
			c.set(v.X+v.W-1, v.Y+row, "│", v.Paint)
		}
		c.text(v.X, v.Y+v.H-1, "╰"+strings.Repeat("─", v.W-2)+"╯", v.Paint)
		c.centered(v.X+1, v.Y+v.H/2, v.W-2, label, v.Paint)
	default:
		for row := 0; row < v.H; row++ {
			c.fill(v.X, v.Y+row, v.W, v.Paint)
		}
		if v.W >= 3 {
			c.set(v.X, v.Y+v.H/2, "[", v.Paint)
			c.set(v.X+v.W-1, v.Y+v.H/2, "]", v.Paint)
			c.centered(v.X+1, v.Y+v.H/2, v.W-2, label, v.Paint)
		} else {
			c.centered(v.X, v.Y+v.H/2, v.W, label, v.Paint)
		}
	}

	if v.NameRow {
		c.centered(v.X, v.Y+v.H, v.W, v.App.Name, paintName)
	}
}

// centered writes s truncated to width and centered in [x, x+width).
func (c *canvas) centered(x, y, width int, s string, p paint) {
	if width <= 0 || s == "" {
		return
	}
	s = ansi.Truncate(s, width, "…")
	pad := (width - ansi.StringWidth(s)) / 2
	c.text(x+pad, y, s, p)
}

// String renders the canvas, styling runs of equal paint together.
func (c *canvas) String() string {
	lines := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var b strings.Builder
		var run strings.Builder
		current := paintNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current == paintNone {
				b.WriteString(run.String())
			} else {
				b.WriteString(paintStyles[current].Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			if c.paints[y][x] != current {
				flush()
				current = c.paints[y][x]
			}
			run.WriteString(c.cells[y][x])
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// renderGrid draws every icon of the frame into a width x height block.
func renderGrid(views []iconView, width, height int) string {
	c := newCanvas(width, height)
	for _, v := range views {
		c.drawIcon(v)
	}
	return c.String()
}
