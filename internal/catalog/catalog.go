package catalog

import (
	"github.com/karimwaheed/strategy-lab/internal/models"
	"github.com/karimwaheed/strategy-lab/pkg/indicator"
)

// Entry describes one indicator for the dashboard: the declared defaults the
// runtime falls back to, plus form-facing metadata. The runtime itself only
// ever consumes parameter values, never these descriptions.
type Entry struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"` // "trend", "regime", "flow", "mean-reversion"
	OutputType  models.OutputType      `json:"outputType"`
	Defaults    map[string]interface{} `json:"defaults,omitempty"`
	Params      []ParamHint            `json:"params,omitempty"`
}

// ParamHint is a UI hint for one parameter field.
type ParamHint struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Min     int    `json:"min"`
	Default int    `json:"default"`
}

var entries = []Entry{
	{
		ID:          indicator.IDCumulativeFlowTrend,
		Name:        "Cumulative Flow Trend",
		Description: "Running sum of direction-signed flow volume, SMA-smoothed",
		Category:    "trend",
		OutputType:  models.OutputNumeric,
		Defaults:    map[string]interface{}{"lookback": 20},
		Params: []ParamHint{
			{Key: "lookback", Label: "Smoothing window", Min: 1, Default: 20},
		},
	},
	{
		ID:          indicator.IDAdaptiveRegime,
		Name:        "Adaptive Regime",
		Description: "Efficiency-ratio adaptive MA slope quantized into four regime codes",
		Category:    "regime",
		OutputType:  models.OutputRegime,
		Defaults:    map[string]interface{}{"fast": 2, "slow": 30},
		Params: []ParamHint{
			{Key: "fast", Label: "Fast period", Min: 1, Default: 2},
			{Key: "slow", Label: "Slow period", Min: 1, Default: 30},
		},
	},
	{
		ID:          indicator.IDFlowBias,
		Name:        "Flow Bias",
		Description: "Exponentially decayed dark-pool accumulation/distribution score",
		Category:    "flow",
		OutputType:  models.OutputScore,
	},
	{
		ID:          indicator.IDRollingZScore,
		Name:        "Rolling Z-Score",
		Description: "Close deviation from the rolling window mean in population std units",
		Category:    "mean-reversion",
		OutputType:  models.OutputNumeric,
		Defaults:    map[string]interface{}{"lookback": 10},
		Params: []ParamHint{
			{Key: "lookback", Label: "Lookback", Min: 2, Default: 10},
		},
	},
}

// Get returns the catalog entry for an id. Legacy ids resolve to their
// canonical entry.
func Get(id string) (Entry, bool) {
	canonical := indicator.Normalize(id)
	for _, e := range entries {
		if e.ID == canonical {
			return e, true
		}
	}
	return Entry{}, false
}

// List returns all catalog entries in their stable display order.
func List() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
