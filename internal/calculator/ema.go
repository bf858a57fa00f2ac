package calculator

import (
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"

	"WTISentinel/internal/model"
)

// CalculateEMA returns the latest exponential moving average of prices.
func CalculateEMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("not enough data for EMA(%d): %d prices", period, len(prices))
	}
	ema := talib.Ema(prices, period)
	return ema[len(ema)-1], nil
}

// CalculateEMAPair returns the fast and slow EMAs of the bar closes.
func CalculateEMAPair(bars []model.Candle, fast, slow int) (fastEMA, slowEMA float64, err error) {
	if fast >= slow {
		return 0, 0, fmt.Errorf("fast period %d must be shorter than slow period %d", fast, slow)
	}
	closes := extractCloses(bars)
	if fastEMA, err = CalculateEMA(closes, fast); err != nil {
		return 0, 0, err
	}
	if slowEMA, err = CalculateEMA(closes, slow); err != nil {
		return 0, 0, err
	}
	return fastEMA, slowEMA, nil
}

// BullishAlignment reports price > fast EMA > slow EMA.
func BullishAlignment(price, fastEMA, slowEMA float64) bool {
	return price > fastEMA && fastEMA > slowEMA
}

func extractCloses(bars []model.Candle) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
