package indicator

import (
	"math"

	"github.com/karimwaheed/strategy-lab/internal/models"
)

// Fixed flow-bias constants. No parameters are read from the instance.
const (
	// biasBaseline is the expected "normal" dark-pool share of volume.
	biasBaseline = 0.2
	// biasAlpha is the exponential decay applied to the raw per-bar bias.
	biasAlpha = 0.25
	// biasScale stretches the share deviation before clamping to [-1, 1].
	biasScale = 5.0
)

// computeFlowBias scores each bar in [-1, +1]: positive reads as
// accumulation-like dark-pool flow, negative as distribution-like. The raw
// per-bar signal is the bar's direction times its dark-pool share deviation
// from baseline, clamped, then exponentially smoothed with seed 0.
func computeFlowBias(bars []models.PriceBar) []models.SeriesValue {
	values := make([]models.SeriesValue, len(bars))
	bias := 0.0
	for i, b := range bars {
		if !finite(b.Close) || !finite(b.Open) {
			continue // marker; smoothed state is carried forward
		}

		volume := 0.0
		if b.Volume != nil {
			volume = float64(*b.Volume)
		}
		darkVolume := 0.0
		if b.DarkPoolVolume != nil {
			darkVolume = float64(*b.DarkPoolVolume)
		}
		// max(volume, 1) guards the zero-volume bar without branching
		// into a separate degenerate path.
		darkShare := darkVolume / math.Max(volume, 1)

		direction := sign(b.Close - b.Open)
		rawBias := clamp(direction*(darkShare-biasBaseline)*biasScale, -1, 1)
		bias = biasAlpha*rawBias + (1-biasAlpha)*bias
		values[i] = models.ComputedValue(bias)
	}
	return values
}
