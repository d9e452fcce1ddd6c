package indicator

import (
	"fmt"
	"math"

	"github.com/karimwaheed/strategy-lab/internal/models"
)

// Test helpers shared by the per-algorithm tests.

func i64(v int64) *int64 { return &v }

// barsFromCloses builds a minimal bar sequence where open equals close and
// every volume field is absent.
func barsFromCloses(closes ...float64) []models.PriceBar {
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{
			Time:  fmt.Sprintf("t%d", i),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return bars
}

// geometricCloses builds n closes growing by ratio r per bar from start.
func geometricCloses(n int, start, r float64) []float64 {
	closes := make([]float64, n)
	c := start
	for i := range closes {
		closes[i] = c
		c *= 1 + r
	}
	return closes
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
