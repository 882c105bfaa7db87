package ui

type LayoutMode int

const (
	// LayoutWide puts the labyrinth board beside the scrollback.
	LayoutWide LayoutMode = iota
	// LayoutStacked puts the board above the scrollback.
	LayoutStacked
	LayoutTooSmall
)

const (
	MinCols = 40
	MinRows = 12
)

func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < MinCols || rows < MinRows {
		return LayoutTooSmall
	}
	if cols >= 100 {
		return LayoutWide
	}
	return LayoutStacked
}
