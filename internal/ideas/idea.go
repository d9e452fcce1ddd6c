package ideas

import (
	"errors"
	"time"

	"github.com/karimwaheed/strategy-lab/internal/models"
)

var (
	ErrNotFound         = errors.New("idea not found")
	ErrAlreadyExists    = errors.New("idea already exists")
	ErrInvalidName      = errors.New("idea name cannot be empty")
	ErrInvalidSymbol    = errors.New("idea symbol cannot be empty")
	ErrInvalidTimeframe = errors.New("idea timeframe cannot be empty")
)

// Idea is one strategy idea as edited in the dashboard: a symbol/timeframe
// pair with notes and a set of attached indicator instances.
type Idea struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Symbol     string                     `json:"symbol"`
	Timeframe  string                     `json:"timeframe"`
	Notes      string                     `json:"notes,omitempty"`
	Indicators []models.IndicatorInstance `json:"indicators"`
	CreatedAt  time.Time                  `json:"createdAt"`
	UpdatedAt  time.Time                  `json:"updatedAt"`
}

// Validate checks the structural fields of an idea. Indicator ids are
// deliberately not validated here: the runtime tolerates unknown ids
// (catalog migrations), so the store must too.
func (i *Idea) Validate() error {
	if i.Name == "" {
		return ErrInvalidName
	}
	if i.Symbol == "" {
		return ErrInvalidSymbol
	}
	if i.Timeframe == "" {
		return ErrInvalidTimeframe
	}
	return nil
}

// EnabledInstances returns the idea's enabled indicator instances. Disabled
// instances are filtered here, before the runtime ever sees them.
func (i *Idea) EnabledInstances() []models.IndicatorInstance {
	enabled := make([]models.IndicatorInstance, 0, len(i.Indicators))
	for _, inst := range i.Indicators {
		if inst.Enabled {
			enabled = append(enabled, inst)
		}
	}
	return enabled
}

// Context returns the evaluation context computations for this idea run under.
func (i *Idea) Context() models.EvalContext {
	return models.EvalContext{Symbol: i.Symbol, Timeframe: i.Timeframe}
}

// copyIdea returns a deep enough copy to hand out of a store safely.
func copyIdea(idea *Idea) *Idea {
	out := *idea
	out.Indicators = make([]models.IndicatorInstance, len(idea.Indicators))
	copy(out.Indicators, idea.Indicators)
	return &out
}
