package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"WTISentinel/internal/calculator"
	"WTISentinel/internal/model"
	"WTISentinel/internal/wave"
)

// ErrNoData is returned when a source answers without any bars.
var ErrNoData = errors.New("no data returned")

// Settings controls how much history is fetched and how indicators are derived.
type Settings struct {
	IntradayBars     int
	DailyBars        int
	EMAFast          int
	EMASlow          int
	BreakoutLookback int
	FibLookback      int
	Wave             wave.Config
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		IntradayBars:     120,
		DailyBars:        60,
		EMAFast:          20,
		EMASlow:          50,
		BreakoutLookback: 20,
		FibLookback:      20,
		Wave:             wave.DefaultConfig(),
	}
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher  Fetcher
	Symbol   string
	Settings Settings
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, settings Settings) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Settings: settings}
}

// Series fetches a single series for the symbol.
func (c *Collector) Series(ctx context.Context, interval model.Interval, count int) ([]model.Candle, error) {
	bars, err := c.Fetcher.FetchBars(ctx, c.Symbol, interval, count)
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", interval, err)
	}
	return bars, nil
}

// DetectWave fetches one series and runs the impulse detector on it.
func (c *Collector) DetectWave(ctx context.Context, interval model.Interval, cfg wave.Config) (model.WaveClassification, error) {
	count := c.Settings.IntradayBars
	if interval == model.Interval1d {
		count = c.Settings.DailyBars
	}
	if count < cfg.Window+1 {
		count = cfg.Window + 1
	}
	bars, err := c.Series(ctx, interval, count)
	if err != nil {
		return model.UnavailableWave(), err
	}
	return wave.Detect(bars, cfg), nil
}

// Collect fetches market data and computes all checklist indicators.
// now is only used to decide which daily bars are complete.
func (c *Collector) Collect(ctx context.Context, now time.Time) (*model.MarketSnapshot, error) {
	s := c.Settings
	intraday, err := c.Series(ctx, model.Interval2h, s.IntradayBars)
	if err != nil {
		return nil, err
	}
	daily, err := c.Series(ctx, model.Interval1d, s.DailyBars)
	if err != nil {
		return nil, err
	}
	price, err := c.Fetcher.FetchCurrentPrice(ctx, c.Symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch current price: %w", err)
	}

	logger := log.With().Str("component", "collector").Str("symbol", c.Symbol).Logger()
	ind := model.MarketIndicators{CurrentPrice: price}

	if r, err := calculator.PriorDayRange(daily, now); err != nil {
		logger.Warn().Err(err).Msg("prior-day range unavailable")
	} else {
		ind.PriorDayRange, ind.PriorDayRangeOK = r, true
	}

	if h, err := calculator.RecentHigh(daily, s.BreakoutLookback, now); err != nil {
		logger.Warn().Err(err).Msg("breakout level unavailable")
	} else {
		ind.RecentHigh, ind.RecentHighOK = h, true
	}

	if fast, slow, err := calculator.CalculateEMAPair(intraday, s.EMAFast, s.EMASlow); err != nil {
		logger.Warn().Err(err).Msg("EMA alignment unavailable")
	} else {
		ind.EMAFast, ind.EMASlow, ind.EMAOK = fast, slow, true
	}

	if fib, err := calculator.FibonacciZone(daily, s.FibLookback); err != nil {
		logger.Warn().Err(err).Msg("fibonacci zone unavailable")
	} else {
		ind.FibLevel382, ind.FibLevel50, ind.FibLevel618, ind.FibOK = fib.Level382, fib.Level50, fib.Level618, true
	}

	ind.Wave = wave.Detect(intraday, s.Wave)
	if !ind.Wave.Available() {
		logger.Warn().Int("bars", len(intraday)).Int("window", s.Wave.Window).Msg("impulse leg unavailable")
	}

	return &model.MarketSnapshot{
		Symbol:     c.Symbol,
		Indicators: ind,
		Now:        now,
		Source:     c.Fetcher.Name(),
	}, nil
}
