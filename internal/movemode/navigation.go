package movemode

// NavigateSlot calculates the new slot index after moving in a direction.
// Uses spatial navigation: arrow keys move in the grid based on direction.
// Wraps around at edges.
func NavigateSlot(currentIdx int, dir Direction, rows, cols int) int {
	if rows <= 0 || cols <= 0 {
		return currentIdx
	}

	row := currentIdx / cols
	col := currentIdx % cols

	switch dir {
	case DirUp:
		row = (row - 1 + rows) % rows
	case DirDown:
		row = (row + 1) % rows
	case DirLeft:
		col = (col - 1 + cols) % cols
	case DirRight:
		col = (col + 1) % cols
	}

	return row*cols + col
}

// NavigateIndex moves through count icons on a grid of cols columns, landing
// only on occupied slots. Moving onto an empty trailing slot clamps to the
// last icon.
func NavigateIndex(currentIdx int, dir Direction, count, rows, cols int) int {
	if count <= 0 {
		return 0
	}
	if currentIdx < 0 || currentIdx >= count {
		return 0
	}
	if cols <= 0 {
		return currentIdx
	}

	// Only rows that hold icons take part in wrapping.
	usedRows := (count + cols - 1) / cols
	if rows > 0 && usedRows > rows {
		usedRows = rows
	}
	next := NavigateSlot(currentIdx, dir, usedRows, cols)
	return clampIndex(next, count)
}

func clampIndex(idx, count int) int {
	if idx < 0 {
		return 0
	}
	if idx >= count {
		return count - 1
	}
	return idx
}
