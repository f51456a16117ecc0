package widgets

import (
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/roffe/gaugepanel/pkg/ebus"
)

// Variant is one of the selectable renderings of a value stream.
type Variant int

const (
	Digital Variant = iota
	Analog
)

// Variants in the order they are offered to the user. The index is what gets persisted.
var Variants = []Variant{Digital, Analog}

func (v Variant) String() string {
	switch v {
	case Digital:
		return "Digital"
	case Analog:
		return "Analog"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

func (v Variant) Valid() bool {
	return v >= Digital && v <= Analog
}

// Display describes one display variant to the renderer.
type Display struct {
	Variant  Variant
	Key      string
	Label    string
	Path     string
	SourceID string

	BaseUnit  string
	Unit      string // unit of the values on Values
	ConvertTo string // empty when no conversion applies

	Values        ebus.Stream
	DisplayString string
	MinSize       fyne.Size

	// Analog only.
	Gauge          *GaugeConfig
	MinValueStream ebus.View
	MaxValueStream ebus.View
	RedLineStream  ebus.View
}

func (d *Display) Format(v float64) string {
	format := d.DisplayString
	if format == "" {
		format = defaultDisplayString
	}
	return fmt.Sprintf(format, v)
}
