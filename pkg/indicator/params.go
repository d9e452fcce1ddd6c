package indicator

import (
	"math"
	"strconv"

	"github.com/karimwaheed/strategy-lab/internal/models"
)

// Typed parameter records per algorithm. Raw form values are resolved into
// these once, up front, so the computation functions never touch the
// untyped map.

type flowTrendParams struct {
	Lookback int // smoothing window, not a warm-up gate
}

type regimeParams struct {
	Fast int
	Slow int
}

type zscoreParams struct {
	Lookback int
}

func resolveFlowTrendParams(params map[string]interface{}) flowTrendParams {
	return flowTrendParams{
		Lookback: clampMin(intParam(params, "lookback", defaultFlowTrendLookback), 1),
	}
}

func resolveRegimeParams(params map[string]interface{}) regimeParams {
	return regimeParams{
		Fast: clampMin(intParam(params, "fast", defaultRegimeFast), 1),
		Slow: clampMin(intParam(params, "slow", defaultRegimeSlow), 1),
	}
}

func resolveZScoreParams(params map[string]interface{}) zscoreParams {
	return zscoreParams{
		Lookback: clampMin(intParam(params, "lookback", defaultZScoreLookback), minZScoreLookback),
	}
}

// intParam reads an integer parameter from a form-supplied value map.
// JSON decoding hands numbers over as float64, and some form fields arrive
// as strings; both are accepted. Anything unusable falls back to the default.
func intParam(params map[string]interface{}, key string, def int) int {
	raw, ok := params[key]
	if !ok {
		return def
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return def
		}
		return int(v)
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

// clampMin clamps v to the documented minimum instead of rejecting it,
// keeping the runtime total over its input domain.
func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}

// resolveFlowVolume returns the flow volume for bars[i] following the
// fallback chain: shortVolume, then the bar's own volume, then the previous
// bar's volume, then 0.
func resolveFlowVolume(bars []models.PriceBar, i int) float64 {
	b := bars[i]
	if b.ShortVolume != nil {
		return float64(*b.ShortVolume)
	}
	if b.Volume != nil {
		return float64(*b.Volume)
	}
	if i > 0 && bars[i-1].Volume != nil {
		return float64(*bars[i-1].Volume)
	}
	return 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
