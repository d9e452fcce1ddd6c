package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karimwaheed/strategy-lab/internal/ideas"
	"github.com/karimwaheed/strategy-lab/internal/models"
)

func computeBars(closes ...float64) []models.PriceBar {
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{
			Time:  fmt.Sprintf("2024-01-%02dT00:00:00Z", i+1),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return bars
}

func TestCompute_AdHocInstance(t *testing.T) {
	server, _ := testRouter(t)

	resp := postJSON(t, server.URL+"/api/v1/compute", map[string]interface{}{
		"instance": map[string]interface{}{
			"id":      "rolling-zscore",
			"enabled": true,
			"params":  map[string]interface{}{"lookback": 3},
		},
		"bars":    computeBars(10, 10, 10, 13),
		"context": map[string]interface{}{"symbol": "SPY", "timeframe": "1d"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.IndicatorResult
	decodeBody(t, resp, &result)
	assert.Equal(t, models.OutputNumeric, result.OutputType)
	require.Len(t, result.Values, 4)
	assert.False(t, result.Values[0].Valid)
	assert.False(t, result.Values[1].Valid)
	assert.True(t, result.Values[3].Valid)
	assert.Equal(t, "SPY", result.Meta["symbol"])
}

func TestCompute_UnknownIndicatorFailsSoft(t *testing.T) {
	server, _ := testRouter(t)

	resp := postJSON(t, server.URL+"/api/v1/compute", map[string]interface{}{
		"instance": map[string]interface{}{"id": "not-a-real-indicator", "enabled": true},
		"bars":     computeBars(1, 2, 3),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "unknown ids must not fail the request")

	var result models.IndicatorResult
	decodeBody(t, resp, &result)
	require.Len(t, result.Values, 3)
	for i, v := range result.Values {
		assert.False(t, v.Valid, "value %d should be a marker", i)
	}
	assert.Contains(t, result.Meta["reason"], "unknown indicator id")
}

func TestCompute_RejectsInvalidBars(t *testing.T) {
	server, _ := testRouter(t)

	bars := computeBars(10, 11)
	bars[1].Time = ""
	resp := postJSON(t, server.URL+"/api/v1/compute", map[string]interface{}{
		"instance": map[string]interface{}{"id": "rolling-zscore", "enabled": true},
		"bars":     bars,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCompute_RejectsTooManyBars(t *testing.T) {
	server, _ := testRouter(t)

	closes := make([]float64, 101) // router configured with MaxComputeBars=100
	for i := range closes {
		closes[i] = float64(i)
	}
	resp := postJSON(t, server.URL+"/api/v1/compute", map[string]interface{}{
		"instance": map[string]interface{}{"id": "rolling-zscore", "enabled": true},
		"bars":     computeBars(closes...),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestComputeIdea_FiltersDisabledInstances(t *testing.T) {
	server, store := testRouter(t)

	idea := &ideas.Idea{
		ID:        "idea-1",
		Name:      "Mixed bag",
		Symbol:    "SPY",
		Timeframe: "1d",
		Indicators: []models.IndicatorInstance{
			{ID: "rolling-zscore", Enabled: true, Params: map[string]interface{}{"lookback": 2}},
			{ID: "adaptive-regime", Enabled: false},
			{ID: "rolling-zscore", Enabled: true, Params: map[string]interface{}{"lookback": 3}},
		},
	}
	require.NoError(t, store.Create(context.Background(), idea))

	resp := postJSON(t, server.URL+"/api/v1/ideas/idea-1/compute", map[string]interface{}{
		"bars": computeBars(10, 11, 12, 13),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		IdeaID    string `json:"ideaId"`
		Symbol    string `json:"symbol"`
		Timeframe string `json:"timeframe"`
		BarCount  int    `json:"barCount"`
		Results   []struct {
			ID     string                 `json:"id"`
			Result models.IndicatorResult `json:"result"`
		} `json:"results"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "idea-1", body.IdeaID)
	assert.Equal(t, "SPY", body.Symbol)
	assert.Equal(t, 4, body.BarCount)
	require.Len(t, body.Results, 2, "disabled instances should be skipped")
	for _, r := range body.Results {
		assert.Equal(t, "rolling-zscore", r.ID)
		assert.Len(t, r.Result.Values, 4)
	}
}

func TestComputeIdea_NotFound(t *testing.T) {
	server, _ := testRouter(t)

	resp := postJSON(t, server.URL+"/api/v1/ideas/missing/compute", map[string]interface{}{
		"bars": computeBars(1, 2),
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestComputeIdea_EmptyBars(t *testing.T) {
	server, store := testRouter(t)

	idea := &ideas.Idea{
		ID: "idea-2", Name: "Empty", Symbol: "QQQ", Timeframe: "5m",
		Indicators: []models.IndicatorInstance{{ID: "flow-bias", Enabled: true}},
	}
	require.NoError(t, store.Create(context.Background(), idea))

	body, _ := json.Marshal(map[string]interface{}{"bars": []models.PriceBar{}})
	resp, err := http.Post(server.URL+"/api/v1/ideas/idea-2/compute", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		BarCount int `json:"barCount"`
		Results  []struct {
			Result models.IndicatorResult `json:"result"`
		} `json:"results"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, 0, out.BarCount)
	require.Len(t, out.Results, 1)
	assert.Empty(t, out.Results[0].Result.Values)
}
