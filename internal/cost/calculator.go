package cost

import "github.com/hjjung-katech/newsletter-generator-sub000/internal/model"

// ModelRate holds per-model token pricing (USD per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Rates maps model IDs to pricing.
type Rates map[string]ModelRate

// DefaultRates returns the default Anthropic pricing.
func DefaultRates() Rates {
	return Rates{
		"claude-haiku-4-5-20251001": {
			Input: 0.80, Output: 4.00,
		},
		"claude-sonnet-4-5-20250929": {
			Input: 3.00, Output: 15.00,
		},
	}
}

// Calculator computes API usage costs for a run.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Claude computes the cost of accumulated token usage against a model.
// Unknown models cost 0.
func (c *Calculator) Claude(modelID string, usage model.TokenUsage) float64 {
	rate, ok := c.rates[modelID]
	if !ok {
		return 0
	}
	inCost := (float64(usage.InputTokens) / 1e6) * rate.Input
	outCost := (float64(usage.OutputTokens) / 1e6) * rate.Output
	return inCost + outCost
}
