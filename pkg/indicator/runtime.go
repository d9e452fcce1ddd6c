package indicator

import (
	"fmt"

	"github.com/karimwaheed/strategy-lab/internal/models"
)

// Canonical indicator identifiers. The runtime dispatches over this closed
// set; anything else takes the fail-soft unknown-id path.
const (
	IDCumulativeFlowTrend = "cumulative-flow-trend"
	IDAdaptiveRegime      = "adaptive-regime"
	IDFlowBias            = "flow-bias"
	IDRollingZScore       = "rolling-zscore"
)

// legacyIDs maps ids from older catalog versions onto canonical ones, so a
// caller mid-migration between catalog versions keeps getting results.
var legacyIDs = map[string]string{
	"sobv_trend":            IDCumulativeFlowTrend,
	"kama_regime":           IDAdaptiveRegime,
	"darkflow_bias":         IDFlowBias,
	"zscore_price_lookback": IDRollingZScore,
}

// Normalize resolves a legacy indicator id to its canonical form.
// Unknown ids pass through unchanged.
func Normalize(id string) string {
	if canonical, ok := legacyIDs[id]; ok {
		return canonical
	}
	return id
}

// KnownIDs returns the canonical ids the runtime can compute.
func KnownIDs() []string {
	return []string{IDCumulativeFlowTrend, IDAdaptiveRegime, IDFlowBias, IDRollingZScore}
}

// DefaultOutputType returns the declared default output type for an id.
// The second return is false for unknown ids.
func DefaultOutputType(id string) (models.OutputType, bool) {
	switch Normalize(id) {
	case IDCumulativeFlowTrend:
		return models.OutputNumeric, true
	case IDAdaptiveRegime:
		return models.OutputRegime, true
	case IDFlowBias:
		return models.OutputScore, true
	case IDRollingZScore:
		return models.OutputNumeric, true
	}
	return models.OutputCustom, false
}

// Compute runs one indicator over a time-ordered bar sequence and returns a
// bar-aligned result. It is pure: no side effects, no retained references,
// safe to call concurrently on independent inputs.
//
// The result always satisfies len(Values) == len(bars). Warm-up positions
// and malformed numeric input are represented in-band by the
// not-yet-computable marker; an unrecognized id yields an all-marker result
// with the reason recorded in Meta. Compute never fails.
func Compute(instance models.IndicatorInstance, bars []models.PriceBar, evalCtx models.EvalContext) models.IndicatorResult {
	switch Normalize(instance.ID) {
	case IDCumulativeFlowTrend:
		p := resolveFlowTrendParams(instance.Params)
		return models.IndicatorResult{
			OutputType: models.OutputNumeric,
			Values:     computeFlowTrend(bars, p),
			Meta:       resultMeta(evalCtx, map[string]interface{}{"lookback": p.Lookback}, 0),
		}

	case IDAdaptiveRegime:
		p := resolveRegimeParams(instance.Params)
		return models.IndicatorResult{
			OutputType: models.OutputRegime,
			Values:     computeRegime(bars, p),
			Meta: resultMeta(evalCtx, map[string]interface{}{
				"fast": p.Fast,
				"slow": p.Slow,
			}, erPeriod+1),
		}

	case IDFlowBias:
		return models.IndicatorResult{
			OutputType: models.OutputScore,
			Values:     computeFlowBias(bars),
			Meta: resultMeta(evalCtx, map[string]interface{}{
				"baseline": biasBaseline,
				"alpha":    biasAlpha,
			}, 0),
		}

	case IDRollingZScore:
		p := resolveZScoreParams(instance.Params)
		return models.IndicatorResult{
			OutputType: models.OutputNumeric,
			Values:     computeZScore(bars, p),
			Meta:       resultMeta(evalCtx, map[string]interface{}{"lookback": p.Lookback}, p.Lookback-1),
		}
	}

	// Fail-soft: the caller may be mid-migration between catalog versions,
	// so an unknown id is annotated, not raised.
	values := make([]models.SeriesValue, len(bars))
	meta := resultMeta(evalCtx, nil, 0)
	meta["reason"] = fmt.Sprintf("unknown indicator id %q", instance.ID)
	return models.IndicatorResult{
		OutputType: models.OutputCustom,
		Values:     values,
		Meta:       meta,
	}
}

// resultMeta assembles the diagnostic annotations attached to every result.
// Nothing downstream branches on these; they exist for debugging and for the
// dashboard's inspector panel.
func resultMeta(evalCtx models.EvalContext, params map[string]interface{}, warmupBars int) map[string]interface{} {
	meta := map[string]interface{}{
		"symbol":    evalCtx.Symbol,
		"timeframe": evalCtx.Timeframe,
	}
	if params != nil {
		meta["params"] = params
	}
	if warmupBars > 0 {
		meta["warmup_bars"] = warmupBars
	}
	return meta
}
