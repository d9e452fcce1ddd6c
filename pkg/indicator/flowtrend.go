package indicator

import (
	"github.com/karimwaheed/strategy-lab/internal/models"
)

const defaultFlowTrendLookback = 20

// computeFlowTrend accumulates sign(close[i] - close[i-1]) * flowVolume[i]
// into a running sum, then smooths the sum with a simple moving average of
// width p.Lookback. Bar 0 contributes nothing (no prior close) but is still
// emitted: the lookback is a smoothing window, not a warm-up gate, so the
// average runs over the partial prefix until the window fills.
func computeFlowTrend(bars []models.PriceBar, p flowTrendParams) []models.SeriesValue {
	values := make([]models.SeriesValue, len(bars))
	if len(bars) == 0 {
		return values
	}

	raw := make([]float64, len(bars))
	bad := make([]bool, len(bars))
	sum := 0.0
	for i := range bars {
		if !finite(bars[i].Close) {
			bad[i] = true
			raw[i] = sum
			continue
		}
		if i > 0 && finite(bars[i-1].Close) {
			// Flat closes have sign 0: they contribute nothing but
			// still advance the accumulator index.
			sum += sign(bars[i].Close-bars[i-1].Close) * resolveFlowVolume(bars, i)
		}
		raw[i] = sum
	}

	window := p.Lookback
	windowSum := 0.0
	for i := range raw {
		windowSum += raw[i]
		if i >= window {
			windowSum -= raw[i-window]
		}
		if bad[i] {
			continue // marker; malformed close is not propagated
		}
		n := i + 1
		if n > window {
			n = window
		}
		smoothed := windowSum / float64(n)
		if !finite(smoothed) {
			continue
		}
		values[i] = models.ComputedValue(smoothed)
	}
	return values
}
