package model

import "time"

// MarketIndicators holds the computed inputs of the bias checklist.
// A zero value with the matching *OK flag false means the indicator could
// not be computed, which is different from a computed zero.
type MarketIndicators struct {
	CurrentPrice float64 `json:"current_price"`

	PriorDayRange   float64 `json:"prior_day_range"`
	PriorDayRangeOK bool    `json:"prior_day_range_ok"`

	RecentHigh   float64 `json:"recent_high"` // breakout structure
	RecentHighOK bool    `json:"recent_high_ok"`

	EMAFast float64 `json:"ema_fast"`
	EMASlow float64 `json:"ema_slow"`
	EMAOK   bool    `json:"ema_ok"`

	FibLevel382 float64 `json:"fib_382"`
	FibLevel50  float64 `json:"fib_50"`
	FibLevel618 float64 `json:"fib_618"`
	FibOK       bool    `json:"fib_ok"`

	Wave WaveClassification `json:"wave"`
}

// MarketSnapshot is one collection pass for a symbol.
type MarketSnapshot struct {
	Symbol     string           `json:"symbol"`
	Indicators MarketIndicators `json:"indicators"`
	Now        time.Time        `json:"now"`
	Source     string           `json:"source"`
}
