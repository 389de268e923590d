package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ReadingKind tags a TemperatureReading.
type ReadingKind string

const (
	ReadingNumeric     ReadingKind = "numeric"
	ReadingDescriptive ReadingKind = "descriptive"
)

type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "C"
	Fahrenheit TemperatureUnit = "F"
)

// DescriptiveLevel is how the body feels when no thermometer is available.
type DescriptiveLevel string

const (
	FeelingNormal        DescriptiveLevel = "feeling_normal"
	SlightlyWarm         DescriptiveLevel = "slightly_warm"
	HotToTouch           DescriptiveLevel = "hot_to_touch"
	VeryHotSweating      DescriptiveLevel = "very_hot_sweating"
	BurningUp            DescriptiveLevel = "burning_up"
	ExtremeHeatConfusion DescriptiveLevel = "extreme_heat_confusion"
)

var descriptiveLevels = map[DescriptiveLevel]bool{
	FeelingNormal:        true,
	SlightlyWarm:         true,
	HotToTouch:           true,
	VeryHotSweating:      true,
	BurningUp:            true,
	ExtremeHeatConfusion: true,
}

// Valid reports whether l is one of the six severity buckets.
func (l DescriptiveLevel) Valid() bool {
	return descriptiveLevels[l]
}

// TemperatureReading is either Numeric{Value, Unit} or Descriptive{Level}.
type TemperatureReading struct {
	Kind  ReadingKind
	Value float64
	Unit  TemperatureUnit
	Level DescriptiveLevel
}

func NumericReading(value float64, unit TemperatureUnit) TemperatureReading {
	return TemperatureReading{Kind: ReadingNumeric, Value: value, Unit: unit}
}

func DescriptiveReading(level DescriptiveLevel) TemperatureReading {
	return TemperatureReading{Kind: ReadingDescriptive, Level: level}
}

type readingJSON struct {
	Type  ReadingKind     `json:"type"`
	Value json.RawMessage `json:"value"`
	Unit  TemperatureUnit `json:"unit,omitempty"`
}

// MarshalJSON encodes the selector's shape: {"type","value","unit"}.
func (r TemperatureReading) MarshalJSON() ([]byte, error) {
	var value any = r.Value
	if r.Kind == ReadingDescriptive {
		value = r.Level
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	out := readingJSON{Type: r.Kind, Value: raw}
	if r.Kind == ReadingNumeric {
		out.Unit = r.Unit
	}
	return json.Marshal(out)
}

func (r *TemperatureReading) UnmarshalJSON(b []byte) error {
	var in readingJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	switch in.Type {
	case ReadingNumeric:
		var v float64
		if err := json.Unmarshal(in.Value, &v); err != nil {
			return fmt.Errorf("numeric temperature value: %w", err)
		}
		*r = NumericReading(v, in.Unit)
	case ReadingDescriptive:
		var l string
		if err := json.Unmarshal(in.Value, &l); err != nil {
			return fmt.Errorf("descriptive temperature value: %w", err)
		}
		*r = DescriptiveReading(DescriptiveLevel(l))
	default:
		return errors.New("temperature reading type must be numeric or descriptive")
	}
	return nil
}

// TemperatureAssessment is the remote assessment of a reading.
type TemperatureAssessment struct {
	Category     string   `json:"category"`
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	TemperatureF *float64 `json:"temperature_f,omitempty"`
	InputType    string   `json:"input_type,omitempty"`
	Description  string   `json:"description,omitempty"`
	Urgency      string   `json:"urgency,omitempty"`
}

// TemperatureState is the reading together with its derived category.
type TemperatureState struct {
	Reading    TemperatureReading     `json:"reading"`
	Assessment *TemperatureAssessment `json:"assessment,omitempty"`
}
