package indicator

import (
	"math"
	"testing"

	"github.com/karimwaheed/strategy-lab/internal/models"
)

func TestIntParam_Coercions(t *testing.T) {
	cases := []struct {
		name     string
		params   map[string]interface{}
		expected int
	}{
		{"missing", nil, 20},
		{"float64", map[string]interface{}{"lookback": 14.0}, 14},
		{"int", map[string]interface{}{"lookback": 7}, 7},
		{"numeric string", map[string]interface{}{"lookback": "9"}, 9},
		{"garbage string", map[string]interface{}{"lookback": "fast"}, 20},
		{"bool ignored", map[string]interface{}{"lookback": true}, 20},
		{"nan", map[string]interface{}{"lookback": math.NaN()}, 20},
	}
	for _, tc := range cases {
		if got := intParam(tc.params, "lookback", 20); got != tc.expected {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.expected, got)
		}
	}
}

func TestResolveFlowVolume_FallbackChain(t *testing.T) {
	bars := []models.PriceBar{
		{Time: "t0", Close: 1, Volume: i64(30)},
		{Time: "t1", Close: 2},
		{Time: "t2", Close: 3, ShortVolume: i64(12), Volume: i64(99)},
	}

	if got := resolveFlowVolume(bars, 2); got != 12 {
		t.Errorf("Expected shortVolume to win, got %f", got)
	}
	if got := resolveFlowVolume(bars, 0); got != 30 {
		t.Errorf("Expected own volume, got %f", got)
	}
	if got := resolveFlowVolume(bars, 1); got != 30 {
		t.Errorf("Expected previous bar volume, got %f", got)
	}

	bare := []models.PriceBar{{Time: "t0", Close: 1}}
	if got := resolveFlowVolume(bare, 0); got != 0 {
		t.Errorf("Expected 0 when no volume anywhere, got %f", got)
	}
}

func TestSign(t *testing.T) {
	if sign(3) != 1 || sign(-0.5) != -1 || sign(0) != 0 {
		t.Error("sign misbehaved")
	}
}
