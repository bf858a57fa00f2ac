package collector

import (
	"context"

	"WTISentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, interval model.Interval, count int) ([]model.Candle, error)
	FetchCurrentPrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}
