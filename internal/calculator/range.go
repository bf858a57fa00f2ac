package calculator

import (
	"errors"
	"math"
	"time"

	"WTISentinel/internal/model"
)

// ErrNoCompletedBars is returned when no daily bar closed before the reference day.
var ErrNoCompletedBars = errors.New("no completed daily bars")

// FibLevels are retracement levels measured down from the range high.
type FibLevels struct {
	High     float64
	Level382 float64
	Level50  float64
	Level618 float64
	Low      float64
}

// Contains reports whether price lies in the 61.8%..38.2% zone, inclusive.
func (f FibLevels) Contains(price float64) bool {
	return f.Level618 <= price && price <= f.Level382
}

// completedBefore returns the prefix of daily bars whose calendar day is
// earlier than now's, in now's location.
func completedBefore(dailyBars []model.Candle, now time.Time) []model.Candle {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	n := len(dailyBars)
	for n > 0 && !dailyBars[n-1].Time.In(now.Location()).Before(today) {
		n--
	}
	return dailyBars[:n]
}

// PriorDayRange returns high-low of the last daily bar completed before now's day.
func PriorDayRange(dailyBars []model.Candle, now time.Time) (float64, error) {
	done := completedBefore(dailyBars, now)
	if len(done) == 0 {
		return 0, ErrNoCompletedBars
	}
	prev := done[len(done)-1]
	return prev.High - prev.Low, nil
}

// RecentHigh scans the most recent lookback completed daily bars and returns
// the highest high, the breakout level price is measured against.
func RecentHigh(dailyBars []model.Candle, lookback int, now time.Time) (float64, error) {
	if lookback <= 0 {
		return 0, errors.New("lookback must be positive")
	}
	done := completedBefore(dailyBars, now)
	if len(done) == 0 {
		return 0, ErrNoCompletedBars
	}
	high, _ := highLow(done, lookback)
	return high, nil
}

// FibonacciZone computes retracement levels of the range spanned by the most
// recent lookback daily bars.
func FibonacciZone(dailyBars []model.Candle, lookback int) (FibLevels, error) {
	if lookback <= 0 {
		return FibLevels{}, errors.New("lookback must be positive")
	}
	if len(dailyBars) == 0 {
		return FibLevels{}, errors.New("no daily bars provided")
	}
	high, low := highLow(dailyBars, lookback)
	diff := high - low
	return FibLevels{
		High:     high,
		Level382: high - diff*0.382,
		Level50:  high - diff*0.5,
		Level618: high - diff*0.618,
		Low:      low,
	}, nil
}

func highLow(bars []model.Candle, lookback int) (high, low float64) {
	start := len(bars) - lookback
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(bars); i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low
}
