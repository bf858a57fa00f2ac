package strategy

import (
	"time"

	"WTISentinel/internal/model"
)

// Params holds the checklist thresholds.
type Params struct {
	BullishWeekdays   []time.Weekday
	MinPriorRange     float64 // USD, 1.00 = 100 pips
	BreakoutTolerance float64 // USD below the recent high
}

// DefaultParams returns the thresholds used when none are configured.
func DefaultParams() Params {
	return Params{
		BullishWeekdays:   []time.Weekday{time.Monday, time.Tuesday, time.Wednesday},
		MinPriorRange:     1.00,
		BreakoutTolerance: 0.30,
	}
}

// Tiers maps a minimum score to an interpretation, highest first.
var Tiers = []struct {
	MinScore int
	Tier     model.BiasTier
}{
	{5, model.TierHigh},
	{3, model.TierModerate},
}

// mapTier maps a total score to a BiasTier.
func mapTier(score int) model.BiasTier {
	for _, t := range Tiers {
		if score >= t.MinScore {
			return t.Tier
		}
	}
	return model.TierLow
}

// Evaluate scores the checklist for the given indicators. now drives the
// seasonality factor and is stamped on the signal; overrides replace the
// automatic result of a factor.
func Evaluate(ind *model.MarketIndicators, now time.Time, p Params, overrides map[model.FactorID]bool) *model.BiasSignal {
	factors := []model.FactorResult{
		scoreSeasonality(now, p),
		scorePriorRange(ind, p),
		scoreBreakout(ind, p),
		scoreTrend(ind),
		scoreFibonacci(ind),
		scoreElliott(ind),
	}

	signal := &model.BiasSignal{MaxScore: len(factors), EvaluatedAt: now}
	for i := range factors {
		f := &factors[i]
		if v, ok := overrides[f.ID]; ok {
			f.Manual = true
			if v {
				f.Status = model.StatusPass
			} else {
				f.Status = model.StatusFail
			}
		}
		signal.Score += f.Status.Points()
		if f.Status == model.StatusUnavailable {
			signal.Unavailable++
		}
	}
	signal.Factors = factors
	signal.Tier = mapTier(signal.Score)
	return signal
}
