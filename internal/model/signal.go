package model

import "time"

// FactorID identifies one checklist item.
type FactorID string

const (
	FactorSeasonality FactorID = "seasonality"
	FactorPriorRange  FactorID = "prior_range"
	FactorBreakout    FactorID = "breakout"
	FactorTrend       FactorID = "trend"
	FactorFibonacci   FactorID = "fibonacci"
	FactorElliott     FactorID = "elliott"
)

// AllFactors lists the checklist in display order.
var AllFactors = []FactorID{
	FactorSeasonality,
	FactorPriorRange,
	FactorBreakout,
	FactorTrend,
	FactorFibonacci,
	FactorElliott,
}

// FactorStatus separates "no data" from a failed check.
type FactorStatus string

const (
	StatusPass        FactorStatus = "PASS"
	StatusFail        FactorStatus = "FAIL"
	StatusUnavailable FactorStatus = "UNAVAILABLE"
)

// Points returns the score contribution of a status.
func (s FactorStatus) Points() int {
	if s == StatusPass {
		return 1
	}
	return 0
}

// FactorResult is a single checklist item's outcome.
type FactorResult struct {
	ID         FactorID     `json:"id"`
	Name       string       `json:"name"`
	Status     FactorStatus `json:"status"`
	Manual     bool         `json:"manual"`
	Commentary string       `json:"commentary"`
}

// BiasTier is the interpretation of a total score.
type BiasTier string

const (
	TierHigh     BiasTier = "High"
	TierModerate BiasTier = "Moderate"
	TierLow      BiasTier = "Low"
)

// BiasSignal is the final output of the strategy engine.
type BiasSignal struct {
	Factors     []FactorResult `json:"factors"`
	Score       int            `json:"score"`
	MaxScore    int            `json:"max_score"`
	Unavailable int            `json:"unavailable"`
	Tier        BiasTier       `json:"tier"`
	EvaluatedAt time.Time      `json:"evaluated_at"`
}
