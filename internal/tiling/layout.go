package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/termboard/internal/config"
	"github.com/1broseidon/termboard/internal/geom"
)

// Grid holds the fixed cell configuration of a home screen.
type Grid struct {
	Columns    int
	Rows       int
	Gutter     float64 // subtracted from each cell's nominal width
	Inset      float64 // icon is this much narrower than its cell
	IconAspect float64 // icon height / icon width, capped at the cell height
}

// GridFromProfile builds a Grid from a configured profile.
func GridFromProfile(p *config.Profile) Grid {
	return Grid{
		Columns:    p.Columns,
		Rows:       p.Rows,
		Gutter:     p.Gutter,
		Inset:      p.Inset,
		IconAspect: p.IconAspect,
	}
}

// Sizes are the pixel dimensions derived from a container size.
type Sizes struct {
	ItemWidth  float64 `yaml:"item_width"`
	ItemHeight float64 `yaml:"item_height"`
	IconSize   float64 `yaml:"icon_size"`
	IconHeight float64 `yaml:"icon_height"`
	// PerLine comes from dividing the container by ItemWidth and can differ
	// from the configured column count.
	PerLine int     `yaml:"per_line"`
	PadItem float64 `yaml:"pad_item"`
}

// IconPosition is the visual footprint of the app at Idx.
type IconPosition struct {
	Idx  int
	Rect geom.Rect
}

// GridPosition is the full cell of slot Idx.
type GridPosition struct {
	Idx  int
	Rect geom.Rect
}

// Layout computes cell geometry for one container size. It is a value type and
// is meant to be rebuilt whenever the container or the app count changes.
type Layout struct {
	grid   Grid
	width  float64
	height float64
	sizes  Sizes
	valid  bool
}

// NewLayout derives the layout for a width x height container.
func NewLayout(grid Grid, width, height float64) Layout {
	l := Layout{grid: grid, width: width, height: height}
	if grid.Columns <= 0 || grid.Rows <= 0 || width <= 0 || height <= 0 {
		return l
	}

	itemWidth := math.Floor(width/float64(grid.Columns)) - grid.Gutter
	itemHeight := math.Floor(height / float64(grid.Rows))
	if itemWidth <= 0 || itemHeight <= 0 {
		return l
	}

	aspect := grid.IconAspect
	if aspect <= 0 {
		aspect = 1
	}
	iconSize := itemWidth - grid.Inset
	if iconSize < 1 {
		iconSize = 1
	}

	iconHeight := math.Min(iconSize*aspect, itemHeight)

	perLine := int(math.Floor(width / itemWidth))
	padItem := 0.0
	if perLine > 1 {
		padItem = (width - float64(perLine)*itemWidth) / float64(perLine-1)
	}

	l.sizes = Sizes{
		ItemWidth:  itemWidth,
		ItemHeight: itemHeight,
		IconSize:   iconSize,
		IconHeight: iconHeight,
		PerLine:    perLine,
		PadItem:    padItem,
	}
	l.valid = perLine > 0
	return l
}

// Valid reports whether the container is large enough to hold any cell.
func (l Layout) Valid() bool {
	return l.valid
}

// Sizes returns the derived dimensions.
func (l Layout) Sizes() Sizes {
	return l.sizes
}

// Grid returns the configuration the layout was computed from.
func (l Layout) Grid() Grid {
	return l.grid
}

// SlotCount returns rows x items-per-line.
func (l Layout) SlotCount() int {
	if !l.valid {
		return 0
	}
	return l.grid.Rows * l.sizes.PerLine
}

// cellOrigin returns the top-left corner of slot idx, row-major.
func (l Layout) cellOrigin(idx int) geom.Point {
	s := l.sizes
	line := idx / s.PerLine
	inLine := idx % s.PerLine
	return geom.Point{
		X: float64(inLine) * (s.ItemWidth + s.PadItem),
		Y: float64(line) * s.ItemHeight,
	}
}

// IconPositions returns one icon box per app, row-major.
func (l Layout) IconPositions(count int) []IconPosition {
	if !l.valid || count <= 0 {
		return nil
	}
	s := l.sizes
	positions := make([]IconPosition, count)
	for i := 0; i < count; i++ {
		o := l.cellOrigin(i)
		left := o.X + l.grid.Inset/2
		positions[i] = IconPosition{
			Idx:  i,
			Rect: geom.Rect{X1: left, Y1: o.Y, X2: left + s.IconSize, Y2: o.Y + s.IconHeight},
		}
	}
	return positions
}

// GridPositions returns every slot of the screen, including the ones past the
// last app.
func (l Layout) GridPositions() []GridPosition {
	total := l.SlotCount()
	if total == 0 {
		return nil
	}
	s := l.sizes
	positions := make([]GridPosition, total)
	for i := 0; i < total; i++ {
		o := l.cellOrigin(i)
		positions[i] = GridPosition{
			Idx:  i,
			Rect: geom.Rect{X1: o.X, Y1: o.Y, X2: o.X + s.ItemWidth, Y2: o.Y + s.ItemHeight},
		}
	}
	return positions
}

// RestPosition returns where the cell of idx starts. Indices past SlotCount
// continue the row-major pattern below the grid.
func (l Layout) RestPosition(idx int) geom.Point {
	if !l.valid || idx < 0 {
		return geom.Point{}
	}
	return l.cellOrigin(idx)
}

// SlotAt returns the index of the slot containing p, or -1.
func (l Layout) SlotAt(p geom.Point) int {
	for _, pos := range l.GridPositions() {
		if geom.Contains(p, pos.Rect) {
			return pos.Idx
		}
	}
	return -1
}

// Describe renders the derived sizes for diagnostics.
func (s Sizes) Describe() string {
	return fmt.Sprintf("cell=%gx%g icon=%gx%g per_line=%d pad=%.2f",
		s.ItemWidth, s.ItemHeight, s.IconSize, s.IconHeight, s.PerLine, s.PadItem)
}
