package ideas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdea_Validate(t *testing.T) {
	idea := testIdea("idea-1")
	assert.NoError(t, idea.Validate())

	noName := testIdea("idea-1")
	noName.Name = ""
	assert.ErrorIs(t, noName.Validate(), ErrInvalidName)

	noTimeframe := testIdea("idea-1")
	noTimeframe.Timeframe = ""
	assert.ErrorIs(t, noTimeframe.Validate(), ErrInvalidTimeframe)
}

func TestIdea_EnabledInstances(t *testing.T) {
	idea := testIdea("idea-1")
	enabled := idea.EnabledInstances()
	require.Len(t, enabled, 1)
	assert.Equal(t, "rolling-zscore", enabled[0].ID)
}

func TestIdea_Context(t *testing.T) {
	ctx := testIdea("idea-1").Context()
	assert.Equal(t, "SPY", ctx.Symbol)
	assert.Equal(t, "1d", ctx.Timeframe)
}
