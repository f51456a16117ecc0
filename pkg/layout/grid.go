package layout

import (
	"fyne.io/fyne/v2"
)

// Cell is one dashboard cell and the size its current display needs.
type Cell struct {
	ID   string
	Size fyne.Size
}

type Placement struct {
	ID       string
	Position fyne.Position
	Size     fyne.Size
}

// Grid places cells row by row, Cols per row. A row is as tall as its tallest cell.
type Grid struct {
	Cols    int
	Padding float32
}

// NewGrid creates a new Grid layout with the specified number of columns
func NewGrid(cols int, padding float32) *Grid {
	return &Grid{
		Cols:    max(cols, 1),
		Padding: padding,
	}
}

func (g *Grid) Layout(cells []Cell) []Placement {
	placements := make([]Placement, 0, len(cells))
	cols := max(g.Cols, 1)
	padding2 := g.Padding * 2

	var y float32
	for start := 0; start < len(cells); start += cols {
		row := cells[start:min(start+cols, len(cells))]
		var x, rowHeight float32
		for _, c := range row {
			placements = append(placements, Placement{
				ID:       c.ID,
				Position: fyne.NewPos(x+g.Padding, y+g.Padding),
				Size:     c.Size,
			})
			x += c.Size.Width + padding2
			rowHeight = max(rowHeight, c.Size.Height)
		}
		y += rowHeight + padding2
	}
	return placements
}

// MinSize is the bounding box of Layout(cells).
func (g *Grid) MinSize(cells []Cell) fyne.Size {
	var size fyne.Size
	for _, p := range g.Layout(cells) {
		size.Width = max(size.Width, p.Position.X+p.Size.Width+g.Padding)
		size.Height = max(size.Height, p.Position.Y+p.Size.Height+g.Padding)
	}
	return size
}
