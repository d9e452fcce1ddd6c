package indicator

import (
	"math"

	"github.com/karimwaheed/strategy-lab/internal/models"
)

const (
	defaultZScoreLookback = 10
	minZScoreLookback     = 2
)

// computeZScore emits, for each bar once the window is full, how many
// population standard deviations the close sits from the window mean.
// Conventionally read as a mean-reversion extremity signal (|z| > 2 is
// "extreme"). A zero-variance window emits 0 rather than dividing by zero.
func computeZScore(bars []models.PriceBar, p zscoreParams) []models.SeriesValue {
	values := make([]models.SeriesValue, len(bars))
	n := p.Lookback
	for i := range bars {
		if i < n-1 {
			continue // warm-up marker
		}

		window := bars[i-n+1 : i+1]
		sum := 0.0
		ok := true
		for _, b := range window {
			if !finite(b.Close) {
				ok = false
				break
			}
			sum += b.Close
		}
		if !ok {
			continue
		}
		mean := sum / float64(n)

		variance := 0.0
		for _, b := range window {
			d := b.Close - mean
			variance += d * d
		}
		variance /= float64(n)

		std := math.Sqrt(variance)
		z := 0.0
		if std > 0 {
			z = (bars[i].Close - mean) / std
		}
		if !finite(z) {
			continue
		}
		values[i] = models.ComputedValue(z)
	}
	return values
}
