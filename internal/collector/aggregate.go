package collector

import (
	"time"

	"WTISentinel/internal/model"
)

// aggregateBars merges chronological bars into UTC-aligned buckets of the given size.
func aggregateBars(bars []model.Candle, size time.Duration) []model.Candle {
	if len(bars) == 0 || size <= 0 {
		return nil
	}
	var out []model.Candle
	var cur model.Candle
	started := false

	for _, b := range bars {
		bucket := b.Time.UTC().Truncate(size)
		if !started || !bucket.Equal(cur.Time) {
			if started {
				out = append(out, cur)
			}
			cur = model.Candle{Time: bucket, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
			started = true
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
	}
	if started {
		out = append(out, cur)
	}
	return out
}

func lastN(bars []model.Candle, n int) []model.Candle {
	if n > 0 && len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}
