package widgets

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrInvalidNumber  = errors.New("invalid number")
	ErrUnknownVariant = errors.New("unknown display variant")
	ErrUnknownUnit    = errors.New("unknown unit")
)

// Settings is the editable form for one widget. It holds no state of its
// own; every control calls back into the SettingsHandler it was built from.
type Settings struct {
	WidgetID string
	// Unit is nil when the path has no known unit.
	Unit  *UnitChoice
	Modes []*ModeControl
	// Thresholds is empty unless the analog variant is selected.
	Thresholds []*ThresholdInput
}

type UnitChoice struct {
	BaseUnit string
	// Options starts with the base unit followed by the registry targets in registration order.
	Options  []string
	Selected string
	OnChange func(unit string) error
}

type ModeControl struct {
	ID       string
	Group    string
	Label    string
	Variant  Variant
	Checked  bool
	OnChange func() error
}

type ThresholdInput struct {
	ID        string
	Label     string
	Threshold Threshold
	Default   float64
	Size      int
	OnChange  func(input string) error
}

// Mode returns the control for v, nil if there is none.
func (s *Settings) Mode(v Variant) *ModeControl {
	for _, m := range s.Modes {
		if m.Variant == v {
			return m
		}
	}
	return nil
}

// Threshold returns the input for t, nil if it is not shown.
func (s *Settings) Threshold(t Threshold) *ThresholdInput {
	for _, in := range s.Thresholds {
		if in.Threshold == t {
			return in
		}
	}
	return nil
}

// SettingsHandler applies settings edits to a widget and tells the host.
type SettingsHandler struct {
	Widget *Universal
	Panel  InstrumentPanel
}

func newSettings(h *SettingsHandler) *Settings {
	w := h.Widget
	s := &Settings{WidgetID: w.id}

	if w.unit != "" {
		s.Unit = &UnitChoice{
			BaseUnit: w.unit,
			Options:  h.unitOptions(),
			Selected: w.unit,
			OnChange: h.SelectUnit,
		}
		if w.ConversionApplied() {
			s.Unit.Selected = w.displays[Digital].ConvertTo
		}
	}

	selected := w.options.Selected()
	for _, v := range Variants {
		s.Modes = append(s.Modes, &ModeControl{
			ID:      w.id + v.String(),
			Group:   w.id + "-mode",
			Label:   v.String(),
			Variant: v,
			Checked: selected == v,
			OnChange: func() error {
				return h.SelectVariant(v)
			},
		})
	}

	if selected == Analog {
		for _, t := range Thresholds {
			s.Thresholds = append(s.Thresholds, &ThresholdInput{
				ID:        w.id + "-" + t.String(),
				Label:     t.Label(),
				Threshold: t,
				Default:   w.options.Threshold(t),
				Size:      4,
				OnChange: func(input string) error {
					return h.SetThreshold(t, input)
				},
			})
		}
	}
	return s
}

func (h *SettingsHandler) unitOptions() []string {
	table, _ := h.Widget.registry.Lookup(h.Widget.unit)
	return append([]string{h.Widget.unit}, table.Units()...)
}

// SelectUnit sets the display unit. Choosing the base unit clears the conversion.
func (h *SettingsHandler) SelectUnit(unit string) error {
	w := h.Widget
	if !slices.Contains(h.unitOptions(), unit) {
		return fmt.Errorf("%w: %q for %q", ErrUnknownUnit, unit, w.unit)
	}
	if unit == w.unit {
		w.options.setConvertTo("")
	} else {
		w.options.setConvertTo(unit)
	}
	w.bind()
	h.Panel.Persist()
	h.Panel.PushGridChanges()
	return nil
}

func (h *SettingsHandler) SelectVariant(v Variant) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	h.Widget.options.setSelected(v)
	h.Panel.Persist()
	h.Panel.PushGridChanges()
	return nil
}

// SetThreshold parses input and, when it is a finite number, stores it, pushes
// it to the live gauge and persists. Threshold edits never change the layout.
func (h *SettingsHandler) SetThreshold(t Threshold, input string) error {
	w := h.Widget
	v, err := parseNumber(input)
	if err != nil {
		w.log.Warnw("rejected threshold", "widget", w.id, "field", t.String(), "input", input)
		return err
	}
	w.options.setThreshold(t, v)
	w.pushThreshold(t, v)
	h.Panel.Persist()
	return nil
}

// parseNumber accepts a single decimal comma ("0,5") but not thousands
// separators: "1,000" and "1,2,3" are rejected.
func parseNumber(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, input)
	}
	return v, nil
}
