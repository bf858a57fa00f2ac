package collector

import (
	"context"
	"time"

	"WTISentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price    float64
	Bars     map[model.Interval][]model.Candle
	Err      error
	Calls    int
	Anchored time.Time // end time of generated bars; zero means time.Now()
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, _ string, interval model.Interval, count int) ([]model.Candle, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Bars[interval]; ok {
		return lastN(bars, count), nil
	}
	end := m.Anchored
	if end.IsZero() {
		end = time.Now()
	}
	return generateMockBars(m.Price, count, interval.Duration(), end), nil
}

func (m *MockFetcher) FetchCurrentPrice(_ context.Context, _ string) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Price, nil
}

func generateMockBars(basePrice float64, count int, step time.Duration, end time.Time) []model.Candle {
	if step <= 0 {
		step = time.Hour
	}
	bars := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Candle{
			Time:   end.Add(-time.Duration(count-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000,
		}
	}
	return bars
}
