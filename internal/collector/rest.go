package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"WTISentinel/internal/model"
)

// RESTFetcher implements Fetcher against a self-hosted bar API.
//
//	GET {base}/api/v1/bars?symbol=WTI&interval=2h&limit=120
//	GET {base}/api/v1/quote?symbol=WTI
//
// Bars may be a top-level array or wrapped in "data"; each bar may use short
// (t,o,h,l,c,v) or long field names.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, 30*time.Second),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

func (f *RESTFetcher) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	endpoint := f.BaseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest get %s: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rest read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rest get %s: status %d, body: %s", path, resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("rest get %s: invalid json", path)
	}
	return body, nil
}

func (f *RESTFetcher) FetchBars(ctx context.Context, symbol string, interval model.Interval, count int) ([]model.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", string(interval))
	q.Set("limit", strconv.Itoa(count))
	body, err := f.get(ctx, "/api/v1/bars", q)
	if err != nil {
		return nil, err
	}
	bars := parseBars(gjson.ParseBytes(body))
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return lastN(bars, count), nil
}

func (f *RESTFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	body, err := f.get(ctx, "/api/v1/quote", q)
	if err != nil {
		return 0, err
	}
	price := firstOf(gjson.ParseBytes(body), "price", "last", "data.price")
	if !price.Exists() || price.Float() <= 0 {
		return 0, fmt.Errorf("rest quote: no price for %s", symbol)
	}
	return price.Float(), nil
}

func parseBars(root gjson.Result) []model.Candle {
	arr := root
	if !arr.IsArray() {
		arr = root.Get("data")
	}
	var bars []model.Candle
	arr.ForEach(func(_, v gjson.Result) bool {
		ts := firstOf(v, "t", "timestamp", "time")
		if !ts.Exists() {
			return true
		}
		bars = append(bars, model.Candle{
			Time:   parseTimestamp(ts),
			Open:   firstOf(v, "o", "open").Float(),
			High:   firstOf(v, "h", "high").Float(),
			Low:    firstOf(v, "l", "low").Float(),
			Close:  firstOf(v, "c", "close").Float(),
			Volume: firstOf(v, "v", "volume").Float(),
		})
		return true
	})
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars
}

func firstOf(v gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

// parseTimestamp accepts unix seconds, unix milliseconds or RFC 3339.
func parseTimestamp(r gjson.Result) time.Time {
	if r.Type == gjson.String {
		if t, err := time.Parse(time.RFC3339, r.String()); err == nil {
			return t.UTC()
		}
	}
	n := r.Int()
	if n > 1e12 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}
