package widgets

import "fyne.io/fyne/v2"

// GaugeConfig is what an analog renderer needs to draw the dial face.
type GaugeConfig struct {
	Title         string
	DisplayString string // default "%.1f"
	Min, Max      float64
	RedLine       float64
	Steps         int
	MinSize       fyne.Size
}

const (
	defaultDisplayString = "%.1f"
	defaultSteps         = 20
)

var (
	digitalMinSize = fyne.NewSize(160, 80)
	analogMinSize  = fyne.NewSize(200, 200)
)
