package indicator

import (
	"math"

	"github.com/karimwaheed/strategy-lab/internal/models"
)

const (
	defaultRegimeFast = 2
	defaultRegimeSlow = 30

	// erPeriod is the efficiency-ratio window. Fixed, not a parameter.
	erPeriod = 10
)

// Slope-percentage thresholds quantizing the adaptive MA into four ordinal
// regime codes. Fixed constants, not parameters.
const (
	regimeQuietMax     = 0.15
	regimeNormalMax    = 0.45
	regimeExpandingMax = 1.0
)

// Ordinal regime codes. Downstream renderers treat these categorically.
const (
	RegimeQuiet     = 0
	RegimeNormal    = 1
	RegimeExpanding = 2
	RegimeCrisis    = 3
)

// computeRegime classifies each bar into a volatility/trend regime using an
// efficiency-ratio-weighted adaptive moving average in the tradition of
// Kaufman's KAMA. The efficiency ratio contracts the MA during choppy,
// low-information stretches and expands it while trending; the magnitude of
// the resulting per-bar slope is quantized into the four regime codes.
//
// Bars at or before the efficiency-ratio window are not yet computable; the
// adaptive MA is seeded with the close at the end of that window.
func computeRegime(bars []models.PriceBar, p regimeParams) []models.SeriesValue {
	values := make([]models.SeriesValue, len(bars))
	if len(bars) <= erPeriod {
		return values
	}

	fastSC := 2.0 / (float64(p.Fast) + 1)
	slowSC := 2.0 / (float64(p.Slow) + 1)

	seeded := false
	var ma float64
	for i := erPeriod; i < len(bars); i++ {
		c := bars[i].Close
		if !finite(c) {
			continue // marker; carried MA state is unchanged
		}
		if !seeded {
			// Seed bar: the MA starts here but emits nothing yet.
			ma = c
			seeded = true
			continue
		}

		change, volatility, ok := erWindow(bars, i)
		if !ok {
			continue
		}
		er := 0.0
		if volatility > 0 {
			er = change / volatility
		}
		sc := er*(fastSC-slowSC) + slowSC
		sc *= sc

		prev := ma
		ma = prev + sc*(c-prev)

		slopePct := 0.0
		if prev != 0 {
			slopePct = math.Abs(ma-prev) / math.Abs(prev) * 100
		}
		values[i] = models.ComputedValue(float64(classifyRegime(slopePct)))
	}
	return values
}

// erWindow returns the directional change and total path length over the
// efficiency-ratio window ending at bar i. ok is false when any close in
// the window is non-finite.
func erWindow(bars []models.PriceBar, i int) (change, volatility float64, ok bool) {
	base := bars[i-erPeriod].Close
	if !finite(base) {
		return 0, 0, false
	}
	change = math.Abs(bars[i].Close - base)
	for k := i - erPeriod + 1; k <= i; k++ {
		if !finite(bars[k].Close) || !finite(bars[k-1].Close) {
			return 0, 0, false
		}
		volatility += math.Abs(bars[k].Close - bars[k-1].Close)
	}
	return change, volatility, true
}

func classifyRegime(slopePct float64) int {
	switch {
	case slopePct < regimeQuietMax:
		return RegimeQuiet
	case slopePct < regimeNormalMax:
		return RegimeNormal
	case slopePct < regimeExpandingMax:
		return RegimeExpanding
	}
	return RegimeCrisis
}
