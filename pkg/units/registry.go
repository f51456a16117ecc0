package units

import (
	"slices"
	"sync"
)

// Conversion maps a value in a base unit to the equivalent value in a target unit.
// It must be pure; it runs for every emitted sample.
type Conversion func(float64) float64

// Table holds the conversions available for one base unit, in registration order.
type Table struct {
	base    string
	order   []string
	entries map[string]Conversion
}

func (t *Table) Base() string {
	if t == nil {
		return ""
	}
	return t.base
}

// Units returns the target units in registration order.
func (t *Table) Units() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.order)
}

func (t *Table) Get(target string) (Conversion, bool) {
	if t == nil {
		return nil, false
	}
	c, ok := t.entries[target]
	return c, ok
}

type Registry struct {
	mu     sync.RWMutex
	bases  []string
	tables map[string]*Table
}

func NewRegistry() *Registry {
	return &Registry{
		tables: make(map[string]*Table),
	}
}

// Register adds or replaces a conversion. A replaced target keeps its position.
func (r *Registry) Register(base, target string, c Conversion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[base]
	if !ok {
		t = &Table{base: base, entries: make(map[string]Conversion)}
		r.tables[base] = t
		r.bases = append(r.bases, base)
	}
	if _, exists := t.entries[target]; !exists {
		t.order = append(t.order, target)
	}
	t.entries[target] = c
}

// RegisterDerived registers base => target using the general converter.
// from and to name the units as the converter knows them, which may differ
// from the labels shown to the user (tempK vs K).
func (r *Registry) RegisterDerived(base, target, from, to string) error {
	c, err := Converter(from, to)
	if err != nil {
		return err
	}
	r.Register(base, target, c)
	return nil
}

// Lookup returns the conversions for a base unit. An unknown base unit is not
// an error, it just has no conversions.
func (r *Registry) Lookup(base string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[base]
	return t, ok
}

// Convert looks up and applies a single conversion.
func (r *Registry) Convert(base, target string, v float64) (float64, bool) {
	t, _ := r.Lookup(base)
	c, ok := t.Get(target)
	if !ok {
		return v, false
	}
	return c(v), true
}

func (r *Registry) Bases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.bases)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process wide registry, populated on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerDefaults(defaultRegistry)
	})
	return defaultRegistry
}

func perMinute(hz float64) float64 {
	return hz * 60
}

func registerDefaults(r *Registry) {
	entries := []struct {
		base, target string
		from, to     string
		conv         Conversion
	}{
		{base: "m/s", target: "kn", from: "m/s", to: "kn"},
		{base: "m/s", target: "km/h", from: "m/s", to: "km/h"},
		{base: "K", target: "C", from: "tempK", to: "tempC"},
		{base: "K", target: "F", from: "tempK", to: "tempF"},
		{base: "Hz", target: "1/min", conv: perMinute},
		{base: "m", target: "fathom", from: "m", to: "fathom"},
		{base: "m", target: "feet", from: "m", to: "foot"},
		{base: "m", target: "km", from: "m", to: "km"},
		{base: "m", target: "nm", from: "m", to: "nmi"},
		{base: "Pa", target: "kPa", from: "pascal", to: "kPa"},
		{base: "Pa", target: "bar", from: "pascal", to: "bar"},
		{base: "Pa", target: "psi", from: "pascal", to: "psi"},
		{base: "s", target: "minutes", from: "s", to: "minutes"},
		{base: "s", target: "hours", from: "s", to: "hours"},
		{base: "s", target: "days", from: "s", to: "days"},
		{base: "rad/s", target: "deg/s", from: "rad/s", to: "deg/s"},
		{base: "rad/s", target: "deg/min", from: "rad/s", to: "deg/min"},
	}
	for _, e := range entries {
		conv := e.conv
		if conv == nil {
			conv = MustConverter(e.from, e.to)
		}
		r.Register(e.base, e.target, conv)
	}
}
