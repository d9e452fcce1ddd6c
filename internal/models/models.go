package models

import (
	"encoding/json"
	"math"
)

// PriceBar represents a single OHLCV observation.
// Bars are immutable inputs: the indicator runtime never mutates them and
// never reorders them; callers own chronological ordering.
type PriceBar struct {
	// Time identifies the bar for alignment purposes only; it is never
	// parsed or compared by the runtime.
	Time  string  `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`

	// Volume fields are pointers so that "absent" and "zero" stay
	// distinguishable; flow-based indicators fall back differently for each.
	Volume         *int64 `json:"volume,omitempty"`
	ShortVolume    *int64 `json:"shortVolume,omitempty"`
	DarkPoolVolume *int64 `json:"darkPoolVolume,omitempty"`
}

// Validate validates a PriceBar for API ingestion.
// The runtime itself is total over malformed numeric input (see pkg/indicator),
// so this is a form/transport-level check, not a computation precondition.
func (b *PriceBar) Validate() error {
	if b.Time == "" {
		return ErrMissingTime
	}
	if b.High < b.Low {
		return ErrInvalidBar
	}
	for _, p := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return ErrInvalidPrice
		}
	}
	for _, v := range []*int64{b.Volume, b.ShortVolume, b.DarkPoolVolume} {
		if v != nil && *v < 0 {
			return ErrInvalidVolume
		}
	}
	return nil
}

// EvalContext carries annotation-only context through a computation.
// It is echoed into result metadata and never used for branching.
type EvalContext struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
}

// IndicatorInstance references one configured indicator.
// Params is the raw key/value map produced by the dashboard forms; absent
// keys fall back to per-indicator defaults inside the runtime.
type IndicatorInstance struct {
	ID      string                 `json:"id"`
	Enabled bool                   `json:"enabled"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// OutputType tells downstream renderers how to interpret a value series.
type OutputType string

const (
	OutputNumeric OutputType = "numeric" // continuous line
	OutputScore   OutputType = "score"   // banded score, typically [-1, +1]
	OutputRegime  OutputType = "regime"  // ordinal category, render as color strip
	OutputBinary  OutputType = "binary"  // step function
	OutputCustom  OutputType = "custom"  // renderer decides
)

// IsValid reports whether t is one of the known output types.
func (t OutputType) IsValid() bool {
	switch t {
	case OutputNumeric, OutputScore, OutputRegime, OutputBinary, OutputCustom:
		return true
	}
	return false
}

// SeriesValue is one entry of a computed series. A zero SeriesValue is the
// "not yet computable" marker used during algorithm warm-up; it serializes
// as JSON null so chart layers can gap the line.
type SeriesValue struct {
	Float float64
	Valid bool
}

// ComputedValue returns a valid series value.
func ComputedValue(f float64) SeriesValue {
	return SeriesValue{Float: f, Valid: true}
}

// NotYetComputable returns the warm-up marker.
func NotYetComputable() SeriesValue {
	return SeriesValue{}
}

// MarshalJSON encodes the marker as null.
func (v SeriesValue) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// UnmarshalJSON decodes null as the marker.
func (v *SeriesValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = SeriesValue{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = SeriesValue{Float: f, Valid: true}
	return nil
}

// IndicatorResult is the output of one computation.
// Values is always exactly as long as the input bar sequence, even in
// degenerate cases; warm-up positions hold the marker.
type IndicatorResult struct {
	OutputType OutputType             `json:"outputType"`
	Values     []SeriesValue          `json:"values"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}
