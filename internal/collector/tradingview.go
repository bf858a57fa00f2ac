package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const tradingViewURL = "https://www.tradingview.com/symbols/USOIL/technicals/?exchange=FX"

// TechnicalSignal is TradingView's summary rating.
type TechnicalSignal string

const (
	SignalStrongBuy   TechnicalSignal = "Strong Buy"
	SignalBuy         TechnicalSignal = "Buy"
	SignalNeutral     TechnicalSignal = "Neutral"
	SignalSell        TechnicalSignal = "Sell"
	SignalStrongSell  TechnicalSignal = "Strong Sell"
	SignalNotDetected TechnicalSignal = "Not Detected"
	SignalUnavailable TechnicalSignal = "Unavailable"
)

// Order matters: each "Strong" rating is checked before the plain one it contains.
var signalSearchOrder = []TechnicalSignal{
	SignalStrongBuy, SignalBuy, SignalNeutral, SignalStrongSell, SignalSell,
}

// Bullish reports whether the rating favours a long entry.
func (s TechnicalSignal) Bullish() bool {
	return s == SignalStrongBuy || s == SignalBuy
}

// TradingViewFetcher reads the technicals summary from the public symbol page.
type TradingViewFetcher struct {
	URL    string
	Client *http.Client
}

// NewTradingViewFetcher creates a fetcher with optional proxy support.
func NewTradingViewFetcher(proxyURL string) *TradingViewFetcher {
	return &TradingViewFetcher{
		URL:    tradingViewURL,
		Client: newHTTPClient(proxyURL, 15*time.Second),
	}
}

// FetchSignal returns SignalUnavailable for a non-200 page and
// SignalNotDetected when no rating text is present. Transport failures are
// returned as errors.
func (f *TradingViewFetcher) FetchSignal(ctx context.Context) (TechnicalSignal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return SignalUnavailable, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return SignalUnavailable, fmt.Errorf("tradingview fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return SignalUnavailable, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SignalUnavailable, fmt.Errorf("tradingview read body: %w", err)
	}
	return detectSignal(string(body)), nil
}

func detectSignal(html string) TechnicalSignal {
	for _, s := range signalSearchOrder {
		if strings.Contains(html, string(s)) {
			return s
		}
	}
	return SignalNotDetected
}
