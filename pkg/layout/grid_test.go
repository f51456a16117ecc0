package layout_test

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roffe/gaugepanel/pkg/layout"
)

func TestGridLayout(t *testing.T) {
	g := layout.NewGrid(2, 5)
	cells := []layout.Cell{
		{ID: "a", Size: fyne.NewSize(160, 80)},
		{ID: "b", Size: fyne.NewSize(200, 200)},
		{ID: "c", Size: fyne.NewSize(160, 80)},
	}
	got := g.Layout(cells)

	assert.Equal(t, []layout.Placement{
		{ID: "a", Position: fyne.NewPos(5, 5), Size: fyne.NewSize(160, 80)},
		{ID: "b", Position: fyne.NewPos(175, 5), Size: fyne.NewSize(200, 200)},
		{ID: "c", Position: fyne.NewPos(5, 215), Size: fyne.NewSize(160, 80)},
	}, got)
	assert.Equal(t, fyne.NewSize(380, 300), g.MinSize(cells))
}

func TestGridEmpty(t *testing.T) {
	g := layout.NewGrid(0, 4)
	assert.Equal(t, 1, g.Cols)
	assert.Empty(t, g.Layout(nil))
	assert.Equal(t, fyne.Size{}, g.MinSize(nil))
}
