// Package wave locates the strongest recent impulse leg in a candle series and
// checks whether the latest close sits in that leg's Fibonacci retracement band.
package wave

import (
	"math"

	"WTISentinel/internal/model"
)

// Config controls a detection call.
type Config struct {
	Window          int     // candles per impulse leg
	RetracementLow  float64 // deeper fraction, gives Level618
	RetracementHigh float64 // shallower fraction, gives Level382
}

// DefaultConfig returns a 6-candle window (about 12h of 2h candles) with the
// classic 0.618/0.382 band.
func DefaultConfig() Config {
	return Config{Window: 6, RetracementLow: 0.618, RetracementHigh: 0.382}
}

func (c Config) valid() bool {
	if c.Window <= 0 {
		return false
	}
	for _, f := range []float64{c.RetracementLow, c.RetracementHigh} {
		if math.IsNaN(f) || f < 0 || f > 1 {
			return false
		}
	}
	return true
}

// Detect finds the window of Window candles with the largest trailing sum of
// close-to-close changes and classifies the last close against the leg's
// retracement band. It never returns an error: short series, a bad config
// or non-finite prices give model.UnavailableWave().
//
// The first window considered ends at index Window, so a series needs at
// least Window+1 candles. Ties keep the earliest window.
func Detect(series []model.Candle, cfg Config) model.WaveClassification {
	n := len(series)
	if !cfg.valid() || n < cfg.Window+1 {
		return model.UnavailableWave()
	}

	// Trailing sum over diff[e-Window+1..e] where diff[i] = close[i]-close[i-1];
	// it telescopes to close[e]-close[e-Window].
	bestEnd := -1
	bestSum := math.Inf(-1)
	for e := cfg.Window; e < n; e++ {
		sum := series[e].Close - series[e-cfg.Window].Close
		if math.IsNaN(sum) {
			continue
		}
		if sum > bestSum {
			bestSum = sum
			bestEnd = e
		}
	}

	start := bestEnd - cfg.Window + 1
	if bestEnd < 0 || start < 0 {
		return model.UnavailableWave()
	}

	legLow, legHigh := math.Inf(1), math.Inf(-1)
	for i := start; i <= bestEnd; i++ {
		if !finite(series[i].Low, series[i].High) {
			return model.UnavailableWave()
		}
		if series[i].Low < legLow {
			legLow = series[i].Low
		}
		if series[i].High > legHigh {
			legHigh = series[i].High
		}
	}
	price := series[n-1].Close
	if !finite(legLow, legHigh, price, bestSum) {
		return model.UnavailableWave()
	}

	span := legHigh - legLow
	level382 := legHigh - span*cfg.RetracementHigh
	level618 := legHigh - span*cfg.RetracementLow

	tag := model.WaveOutsideRetracement
	if level618 <= price && price <= level382 {
		tag = model.WaveInsideRetracement
	}

	return model.WaveClassification{
		Tag:          tag,
		LegLow:       legLow,
		LegHigh:      legHigh,
		Level382:     level382,
		Level618:     level618,
		CurrentPrice: price,
		StartIndex:   start,
		EndIndex:     bestEnd,
		NetChange:    bestSum,
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
