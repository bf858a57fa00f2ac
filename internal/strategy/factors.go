package strategy

import (
	"fmt"
	"time"

	"WTISentinel/internal/model"
)

var factorNames = map[model.FactorID]string{
	model.FactorSeasonality: "Day-of-week seasonality",
	model.FactorPriorRange:  "Prior-day range",
	model.FactorBreakout:    "Breakout proximity",
	model.FactorTrend:       "Trend / EMA alignment",
	model.FactorFibonacci:   "Fibonacci zone",
	model.FactorElliott:     "Elliott wave stage",
}

// FactorName returns the display name of a checklist item.
func FactorName(id model.FactorID) string {
	if n, ok := factorNames[id]; ok {
		return n
	}
	return string(id)
}

func result(id model.FactorID, pass bool, commentary string) model.FactorResult {
	status := model.StatusFail
	if pass {
		status = model.StatusPass
	}
	return model.FactorResult{ID: id, Name: FactorName(id), Status: status, Commentary: commentary}
}

func unavailable(id model.FactorID, commentary string) model.FactorResult {
	return model.FactorResult{ID: id, Name: FactorName(id), Status: model.StatusUnavailable, Commentary: commentary}
}

// scoreSeasonality passes on the configured bullish weekdays.
func scoreSeasonality(now time.Time, p Params) model.FactorResult {
	day := now.Weekday()
	for _, d := range p.BullishWeekdays {
		if d == day {
			return result(model.FactorSeasonality, true, day.String())
		}
	}
	return result(model.FactorSeasonality, false, day.String())
}

// scorePriorRange passes when yesterday moved at least MinPriorRange.
func scorePriorRange(ind *model.MarketIndicators, p Params) model.FactorResult {
	if !ind.PriorDayRangeOK {
		return unavailable(model.FactorPriorRange, "no completed daily bar")
	}
	return result(model.FactorPriorRange, ind.PriorDayRange >= p.MinPriorRange,
		fmt.Sprintf("range %.2f (min %.2f)", ind.PriorDayRange, p.MinPriorRange))
}

// scoreBreakout passes when price is within BreakoutTolerance of the recent
// high or already above it.
func scoreBreakout(ind *model.MarketIndicators, p Params) model.FactorResult {
	if !ind.RecentHighOK {
		return unavailable(model.FactorBreakout, "no breakout level")
	}
	dist := ind.RecentHigh - ind.CurrentPrice
	commentary := fmt.Sprintf("%.2f below %.2f", dist, ind.RecentHigh)
	if dist < 0 {
		commentary = fmt.Sprintf("broke out above %.2f", ind.RecentHigh)
	}
	return result(model.FactorBreakout, dist <= p.BreakoutTolerance, commentary)
}

// scoreTrend passes on price > fast EMA > slow EMA.
func scoreTrend(ind *model.MarketIndicators) model.FactorResult {
	if !ind.EMAOK {
		return unavailable(model.FactorTrend, "not enough bars for EMA")
	}
	pass := ind.CurrentPrice > ind.EMAFast && ind.EMAFast > ind.EMASlow
	return result(model.FactorTrend, pass, fmt.Sprintf("EMA %.2f / %.2f", ind.EMAFast, ind.EMASlow))
}

// scoreFibonacci passes when price sits in the daily 61.8%..38.2% zone.
func scoreFibonacci(ind *model.MarketIndicators) model.FactorResult {
	if !ind.FibOK {
		return unavailable(model.FactorFibonacci, "no daily range")
	}
	pass := ind.FibLevel618 <= ind.CurrentPrice && ind.CurrentPrice <= ind.FibLevel382
	return result(model.FactorFibonacci, pass, fmt.Sprintf("zone %.2f → %.2f", ind.FibLevel618, ind.FibLevel382))
}

// scoreElliott passes when the 2h impulse detector sees a likely wave 2.
func scoreElliott(ind *model.MarketIndicators) model.FactorResult {
	w := ind.Wave
	if !w.Available() {
		return unavailable(model.FactorElliott, w.Tag.Label())
	}
	return result(model.FactorElliott, w.Tag == model.WaveInsideRetracement, w.Tag.Label())
}
