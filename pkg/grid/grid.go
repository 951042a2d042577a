// Package grid lays out fixed-size cells in rows, left to right.
package grid

// GetGridCoords returns the column and row of index in a grid cols wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Layout places cells of CellW x CellH pixels starting at (OriginX, OriginY).
type Layout struct {
	OriginX, OriginY int
	CellW, CellH     int
	Cols             int
}

// Cell returns the top-left pixel of cell index.
func (l Layout) Cell(index int) (px, py int) {
	x, y := GetGridCoords(index, l.Cols)
	return l.OriginX + x*l.CellW, l.OriginY + y*l.CellH
}

// Rows is the number of rows needed for n cells.
func (l Layout) Rows(n int) int {
	return (n + l.Cols - 1) / l.Cols
}
