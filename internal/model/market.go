package model

import "time"

// Candle represents a single candlestick bar.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Interval names the sampling period of a series.
type Interval string

const (
	Interval1h Interval = "1h"
	Interval2h Interval = "2h"
	Interval1d Interval = "1d"
)

// Duration returns the wall-clock length of one bar.
func (i Interval) Duration() time.Duration {
	switch i {
	case Interval1h:
		return time.Hour
	case Interval2h:
		return 2 * time.Hour
	case Interval1d:
		return 24 * time.Hour
	default:
		return 0
	}
}
