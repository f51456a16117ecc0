package widgets

import (
	"go.uber.org/zap"

	"github.com/roffe/gaugepanel/pkg/ebus"
	"github.com/roffe/gaugepanel/pkg/units"
)

const TypeUniversal = "universal"

// Universal shows a single value as a digital readout or an analog gauge,
// optionally converted to another unit.
type Universal struct {
	BaseWidget

	registry *units.Registry
	log      *zap.SugaredLogger

	unit  string
	raw   ebus.Stream
	scope *ebus.Scope

	thresholds map[Threshold]*ebus.Property

	displays [2]*Display
	detached bool
}

func NewUniversal(id string, options *Options, bundle StreamBundle, panel InstrumentPanel, opts ...Option) *Universal {
	cfg := newConfig(opts)
	w := &Universal{
		BaseWidget: NewBaseWidget(id, options, bundle, panel),
		registry:   cfg.registry,
		log:        cfg.log,
		scope:      ebus.NewScope(),
		thresholds: make(map[Threshold]*ebus.Property, len(Thresholds)),
	}
	if w.options.normalize() {
		w.log.Warnw("invalid selected widget, using digital", "widget", id)
	}

	w.unit = w.GetUnitForPath(options.Path)
	w.raw = w.stream()

	for _, t := range Thresholds {
		p := ebus.NewProperty()
		p.Push(w.options.Threshold(t))
		w.thresholds[t] = p
	}

	w.bind()
	return w
}

// bind resolves the conversion and rebuilds both display descriptors.
func (w *Universal) bind() {
	values := w.raw
	unit := w.unit
	var convertTo string
	if target, ok := w.options.Conversion(); ok {
		if conv, ok := w.conversion(target); ok {
			values = ebus.Map(values, conv)
			unit, convertTo = target, target
		} else {
			w.log.Warnw("no such conversion", "widget", w.id, "unit", w.unit, "convertTo", target)
		}
	}
	values = w.scope.Track(values)

	w.displays[Digital] = &Display{
		Variant:       Digital,
		Key:           w.id,
		Label:         w.options.Path,
		Path:          w.options.Path,
		SourceID:      w.options.SourceID,
		BaseUnit:      w.unit,
		Unit:          unit,
		ConvertTo:     convertTo,
		Values:        values,
		DisplayString: defaultDisplayString,
		MinSize:       digitalMinSize,
	}
	w.displays[Analog] = &Display{
		Variant:       Analog,
		Key:           w.id,
		Label:         w.options.Path,
		Path:          w.options.Path,
		SourceID:      w.options.SourceID,
		BaseUnit:      w.unit,
		Unit:          unit,
		ConvertTo:     convertTo,
		Values:        values,
		DisplayString: defaultDisplayString,
		MinSize:       analogMinSize,
		Gauge: &GaugeConfig{
			Title:         unit,
			DisplayString: defaultDisplayString,
			Min:           w.options.Threshold(MinThreshold),
			Max:           w.options.Threshold(MaxThreshold),
			RedLine:       w.options.Threshold(RedLineThreshold),
			Steps:         defaultSteps,
			MinSize:       analogMinSize,
		},
		MinValueStream: w.scope.TrackView(w.thresholds[MinThreshold]),
		MaxValueStream: w.scope.TrackView(w.thresholds[MaxThreshold]),
		RedLineStream:  w.scope.TrackView(w.thresholds[RedLineThreshold]),
	}
}

func (w *Universal) conversion(target string) (units.Conversion, bool) {
	table, _ := w.registry.Lookup(w.unit)
	return table.Get(target)
}

// ConversionApplied reports whether the displayed values are converted.
func (w *Universal) ConversionApplied() bool {
	return w.displays[Digital].ConvertTo != ""
}

func (w *Universal) Type() string {
	return TypeUniversal
}

// Unit returns the base unit of the bound path, "" when unknown.
func (w *Universal) Unit() string {
	return w.unit
}

// Display returns the descriptor of the selected variant.
func (w *Universal) Display() *Display {
	v := w.options.Selected()
	if !v.Valid() {
		v = Digital
	}
	return w.displays[v]
}

func (w *Universal) Settings() *Settings {
	return newSettings(&SettingsHandler{Widget: w, Panel: w.panel})
}

func (w *Universal) pushThreshold(t Threshold, v float64) {
	if p, ok := w.thresholds[t]; ok {
		p.Push(v)
	}
}

func (w *Universal) Detach() {
	if w.detached {
		return
	}
	w.detached = true
	w.scope.Close()
	for _, p := range w.thresholds {
		p.Close()
	}
}
