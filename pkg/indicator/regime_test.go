package indicator

import (
	"math"
	"testing"
)

func defaultRegime() regimeParams {
	return regimeParams{Fast: defaultRegimeFast, Slow: defaultRegimeSlow}
}

func TestRegime_WarmupAndSeedAreMarkers(t *testing.T) {
	closes := geometricCloses(15, 100, 0.01)
	values := computeRegime(barsFromCloses(closes...), defaultRegime())

	// Bars at or before the ER window, plus the seed bar, stay markers.
	for i := 0; i <= erPeriod; i++ {
		if values[i].Valid {
			t.Errorf("Expected marker at warm-up index %d", i)
		}
	}
	for i := erPeriod + 1; i < len(values); i++ {
		if !values[i].Valid {
			t.Errorf("Expected regime code at index %d", i)
		}
	}
}

func TestRegime_FlatSeriesStaysQuiet(t *testing.T) {
	// Zero volatility must hit the efficiency-ratio guard, not divide.
	closes := make([]float64, 16)
	for i := range closes {
		closes[i] = 100
	}
	values := computeRegime(barsFromCloses(closes...), defaultRegime())

	for i := erPeriod + 1; i < len(values); i++ {
		if !values[i].Valid {
			t.Fatalf("Expected regime code at index %d", i)
		}
		if values[i].Float != RegimeQuiet {
			t.Errorf("Expected quiet regime at %d, got %v", i, values[i].Float)
		}
	}
}

func TestRegime_SlopeBands(t *testing.T) {
	// On a geometric series the efficiency ratio is 1, so the first
	// classified bar has slope = fastSC^2 * r * 100 exactly (the adaptive
	// MA is seeded on the previous close). With fast=2, fastSC^2 = 4/9.
	cases := []struct {
		name     string
		ratio    float64
		expected int
	}{
		{"quiet", 0.002, RegimeQuiet},         // 0.089%
		{"normal", 0.005, RegimeNormal},       // 0.222%
		{"expanding", 0.015, RegimeExpanding}, // 0.667%
		{"crisis", 0.05, RegimeCrisis},        // 2.22%
	}

	for _, tc := range cases {
		closes := geometricCloses(erPeriod+2, 100, tc.ratio)
		values := computeRegime(barsFromCloses(closes...), defaultRegime())
		got := values[erPeriod+1]
		if !got.Valid {
			t.Fatalf("%s: expected code at first classified bar", tc.name)
		}
		if int(got.Float) != tc.expected {
			t.Errorf("%s: expected regime %d, got %v", tc.name, tc.expected, got.Float)
		}
	}
}

func TestRegime_TooFewBars(t *testing.T) {
	for n := 0; n <= erPeriod; n++ {
		closes := geometricCloses(n, 100, 0.01)
		values := computeRegime(barsFromCloses(closes...), defaultRegime())
		if len(values) != n {
			t.Fatalf("Expected %d values for %d bars, got %d", n, n, len(values))
		}
		for i, v := range values {
			if v.Valid {
				t.Errorf("Expected marker at %d with only %d bars", i, n)
			}
		}
	}
}

func TestRegime_NaNCloseSkipsBarButRecovers(t *testing.T) {
	closes := geometricCloses(30, 100, 0.01)
	bars := barsFromCloses(closes...)
	bars[14].Close = math.NaN()

	values := computeRegime(bars, defaultRegime())
	if values[14].Valid {
		t.Error("Expected marker at NaN close")
	}
	// Once the NaN leaves the ER window the classifier resumes.
	for i := 14 + erPeriod + 1; i < len(values); i++ {
		if !values[i].Valid {
			t.Errorf("Expected classifier to recover by index %d", i)
		}
		if math.IsNaN(values[i].Float) {
			t.Errorf("NaN propagated to index %d", i)
		}
	}
}

func TestRegime_FastSlowClampedToOne(t *testing.T) {
	p := resolveRegimeParams(map[string]interface{}{"fast": -3, "slow": 0})
	if p.Fast != 1 || p.Slow != 1 {
		t.Errorf("Expected fast/slow clamped to 1, got %d/%d", p.Fast, p.Slow)
	}
}
