package units

import (
	"errors"
	"fmt"

	"github.com/martinlindhe/unit"
)

var (
	ErrUnknownUnit       = errors.New("unknown unit")
	ErrIncompatibleUnits = errors.New("incompatible units")
)

type kind int

const (
	kindSpeed kind = iota
	kindTemperature
	kindFrequency
	kindLength
	kindPressure
	kindTime
	kindAngularVelocity
)

func (k kind) String() string {
	switch k {
	case kindSpeed:
		return "speed"
	case kindTemperature:
		return "temperature"
	case kindFrequency:
		return "frequency"
	case kindLength:
		return "length"
	case kindPressure:
		return "pressure"
	case kindTime:
		return "time"
	case kindAngularVelocity:
		return "angular velocity"
	}
	return "unknown"
}

// quantity maps a unit to and from the SI base of its kind.
// factor is set for purely multiplicative units: base = v*factor.
type quantity struct {
	kind   kind
	factor float64
	toBase func(float64) float64
	from   func(float64) float64
}

func linear(k kind, factor float64) quantity {
	return quantity{kind: k, factor: factor}
}

func (q quantity) toSI(v float64) float64 {
	if q.toBase != nil {
		return q.toBase(v)
	}
	return v * q.factor
}

func (q quantity) fromSI(v float64) float64 {
	if q.from != nil {
		return q.from(v)
	}
	return v / q.factor
}

func speed(l unit.Length, d unit.Duration) float64 {
	return float64(l) / float64(d)
}

func perDuration(d unit.Duration) float64 {
	return 1 / float64(d)
}

var (
	kelvin = quantity{
		kind:   kindTemperature,
		toBase: func(v float64) float64 { return unit.FromKelvin(v).Kelvin() },
		from:   func(k float64) float64 { return unit.FromKelvin(k).Kelvin() },
	}
	celsius = quantity{
		kind:   kindTemperature,
		toBase: func(v float64) float64 { return unit.FromCelsius(v).Kelvin() },
		from:   func(k float64) float64 { return unit.FromKelvin(k).Celsius() },
	}
	fahrenheit = quantity{
		kind:   kindTemperature,
		toBase: func(v float64) float64 { return unit.FromFahrenheit(v).Kelvin() },
		from:   func(k float64) float64 { return unit.FromKelvin(k).Fahrenheit() },
	}
)

var quantities = map[string]quantity{
	"m/s":  linear(kindSpeed, speed(unit.Meter, unit.Second)),
	"km/h": linear(kindSpeed, speed(unit.Kilometer, unit.Hour)),
	"kn":   linear(kindSpeed, speed(unit.NauticalMile, unit.Hour)),
	"mph":  linear(kindSpeed, speed(unit.Mile, unit.Hour)),

	"tempK": kelvin,
	"K":     kelvin,
	"tempC": celsius,
	"C":     celsius,
	"tempF": fahrenheit,
	"F":     fahrenheit,

	"Hz":    linear(kindFrequency, perDuration(unit.Second)),
	"1/min": linear(kindFrequency, perDuration(unit.Minute)),

	"m":      linear(kindLength, float64(unit.Meter)),
	"km":     linear(kindLength, float64(unit.Kilometer)),
	"foot":   linear(kindLength, float64(unit.Foot)),
	"feet":   linear(kindLength, float64(unit.Foot)),
	"fathom": linear(kindLength, float64(unit.Fathom)),
	"nmi":    linear(kindLength, float64(unit.NauticalMile)),
	"nm":     linear(kindLength, float64(unit.NauticalMile)),

	"pascal": linear(kindPressure, float64(unit.Pascal)),
	"Pa":     linear(kindPressure, float64(unit.Pascal)),
	"kPa":    linear(kindPressure, float64(unit.Kilopascal)),
	"bar":    linear(kindPressure, float64(unit.Bar)),
	"psi":    linear(kindPressure, float64(unit.PoundsPerSquareInch)),

	"s":       linear(kindTime, float64(unit.Second)),
	"minutes": linear(kindTime, float64(unit.Minute)),
	"hours":   linear(kindTime, float64(unit.Hour)),
	"days":    linear(kindTime, float64(unit.Day)),

	"rad/s":   linear(kindAngularVelocity, float64(unit.Radian)/float64(unit.Second)),
	"deg/s":   linear(kindAngularVelocity, float64(unit.Degree)/float64(unit.Second)),
	"deg/min": linear(kindAngularVelocity, float64(unit.Degree)/float64(unit.Minute)),
}

// Converter returns a Conversion from one unit to another of the same kind.
// Temperatures go through unit.Temperature, everything else is a single factor.
func Converter(from, to string) (Conversion, error) {
	src, ok := quantities[from]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
	}
	dst, ok := quantities[to]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, to)
	}
	if src.kind != dst.kind {
		return nil, fmt.Errorf("%w: %s (%s) => %s (%s)", ErrIncompatibleUnits, from, src.kind, to, dst.kind)
	}
	if src.toBase == nil && dst.from == nil {
		factor := src.factor / dst.factor
		return func(v float64) float64 {
			return v * factor
		}, nil
	}
	return func(v float64) float64 {
		return dst.fromSI(src.toSI(v))
	}, nil
}

// MustConverter is like Converter but panics on error. Only for static registration.
func MustConverter(from, to string) Conversion {
	c, err := Converter(from, to)
	if err != nil {
		panic(err)
	}
	return c
}
