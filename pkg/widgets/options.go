package widgets

// Options is the persisted configuration of a widget. The host keeps a
// reference to the same value and saves it; the widget normalizes it in place
// and is the only writer of ConvertTo, SelectedWidget and the thresholds.
type Options struct {
	ID             string   `json:"id" yaml:"id"`
	SourceID       string   `json:"sourceId" yaml:"sourceId"`
	Path           string   `json:"path" yaml:"path"`
	ConvertTo      *string  `json:"convertTo,omitempty" yaml:"convertTo,omitempty"`
	SelectedWidget *int     `json:"selectedWidget,omitempty" yaml:"selectedWidget,omitempty"`
	MinValue       *float64 `json:"minValue,omitempty" yaml:"minValue,omitempty"`
	MaxValue       *float64 `json:"maxValue,omitempty" yaml:"maxValue,omitempty"`
	RedLine        *float64 `json:"redLine,omitempty" yaml:"redLine,omitempty"`
}

const (
	DefaultMinValue = 0
	DefaultMaxValue = 2
	DefaultRedLine  = 1.5
)

// Conversion returns the target unit, if one is set.
func (o *Options) Conversion() (string, bool) {
	if o.ConvertTo == nil || *o.ConvertTo == "" {
		return "", false
	}
	return *o.ConvertTo, true
}

func (o *Options) Selected() Variant {
	if o.SelectedWidget == nil {
		return Digital
	}
	return Variant(*o.SelectedWidget)
}

func (o *Options) Threshold(t Threshold) float64 {
	if p := o.thresholdField(t); p != nil && *p != nil {
		return **p
	}
	return t.Default()
}

func (o *Options) thresholdField(t Threshold) **float64 {
	switch t {
	case MinThreshold:
		return &o.MinValue
	case MaxThreshold:
		return &o.MaxValue
	case RedLineThreshold:
		return &o.RedLine
	}
	return nil
}

// normalize defaults SelectedWidget. It reports whether a stored value had to
// be replaced because it was out of range.
func (o *Options) normalize() (replaced bool) {
	if o.SelectedWidget != nil && Variant(*o.SelectedWidget).Valid() {
		return false
	}
	replaced = o.SelectedWidget != nil
	o.setSelected(Digital)
	return replaced
}

func (o *Options) setConvertTo(unit string) {
	if unit == "" {
		o.ConvertTo = nil
		return
	}
	o.ConvertTo = &unit
}

func (o *Options) setSelected(v Variant) {
	i := int(v)
	o.SelectedWidget = &i
}

func (o *Options) setThreshold(t Threshold, v float64) {
	if p := o.thresholdField(t); p != nil {
		*p = &v
	}
}

// Clone returns a deep copy, used by the host when it snapshots documents.
func (o *Options) Clone() *Options {
	c := *o
	if o.ConvertTo != nil {
		s := *o.ConvertTo
		c.ConvertTo = &s
	}
	if o.SelectedWidget != nil {
		i := *o.SelectedWidget
		c.SelectedWidget = &i
	}
	for _, t := range Thresholds {
		if p := o.thresholdField(t); *p != nil {
			c.setThreshold(t, **p)
		}
	}
	return &c
}
