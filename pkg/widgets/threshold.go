package widgets

// Threshold identifies one of the analog gauge limits.
type Threshold int

const (
	MinThreshold Threshold = iota
	RedLineThreshold
	MaxThreshold
)

// Thresholds in the order they are shown in the settings panel.
var Thresholds = []Threshold{MinThreshold, RedLineThreshold, MaxThreshold}

func (t Threshold) String() string {
	switch t {
	case MinThreshold:
		return "min"
	case RedLineThreshold:
		return "redline"
	case MaxThreshold:
		return "max"
	}
	return "unknown"
}

func (t Threshold) Label() string {
	switch t {
	case MinThreshold:
		return "Minimum"
	case RedLineThreshold:
		return "Redline"
	case MaxThreshold:
		return "Maximum"
	}
	return ""
}

func (t Threshold) Default() float64 {
	switch t {
	case MaxThreshold:
		return DefaultMaxValue
	case RedLineThreshold:
		return DefaultRedLine
	}
	return DefaultMinValue
}

// ParseThreshold accepts the names printed by String.
func ParseThreshold(s string) (Threshold, bool) {
	for _, t := range Thresholds {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}
