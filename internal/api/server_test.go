package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"WTISentinel/internal/checklist"
	"WTISentinel/internal/collector"
	"WTISentinel/internal/model"
	"WTISentinel/internal/recorder"
	"WTISentinel/internal/scheduler"
	"WTISentinel/internal/strategy"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type nopNotifier struct{}

func (nopNotifier) SendWithRetry(context.Context, string, int) error { return nil }

type staticSignal collector.TechnicalSignal

func (s staticSignal) FetchSignal(context.Context) (collector.TechnicalSignal, error) {
	return collector.TechnicalSignal(s), nil
}

func newTestServer(t *testing.T, fetcher collector.Fetcher) (*Server, *checklist.Manager) {
	t.Helper()
	cl, err := checklist.NewManager("")
	if err != nil {
		t.Fatal(err)
	}
	col := collector.NewCollector(fetcher, "WTI", collector.DefaultSettings())
	sched := scheduler.NewScheduler(context.Background(), col, staticSignal(collector.SignalStrongBuy), cl,
		nopNotifier{}, recorder.NewNoopRecorder(), strategy.DefaultParams())
	return NewServer(ServerConfig{Addr: ":0"}, sched, cl), cl
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func stepBars(closes []float64) []model.Candle {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Candle, len(closes))
	for i, c := range closes {
		bars[i] = model.Candle{Time: start.Add(time.Duration(i) * 2 * time.Hour), Open: c, High: c + 0.5, Low: c - 0.5, Close: c}
	}
	return bars
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{Price: 72})
	w := do(t, s, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"healthy"`) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestWave_ShortSeriesIsUnavailable(t *testing.T) {
	mock := &collector.MockFetcher{Price: 72, Bars: map[model.Interval][]model.Candle{
		model.Interval2h: stepBars([]float64{70, 71, 72}),
	}}
	s, _ := newTestServer(t, mock)

	w := do(t, s, http.MethodGet, "/api/wave", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for sparse data, got %d", w.Code)
	}
	var resp waveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Wave.Tag != model.WaveUnavailable || resp.Label != "Unavailable" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Wave.StartIndex != -1 || resp.Wave.EndIndex != -1 {
		t.Errorf("unavailable indices should be -1, got %d..%d", resp.Wave.StartIndex, resp.Wave.EndIndex)
	}
}

func TestWave_WindowQuery(t *testing.T) {
	mock := &collector.MockFetcher{Price: 121, Bars: map[model.Interval][]model.Candle{
		model.Interval2h: stepBars([]float64{100, 101, 103, 106, 110, 115, 121}),
	}}
	s, _ := newTestServer(t, mock)

	w := do(t, s, http.MethodGet, "/api/wave?interval=2h&window=3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp waveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Interval != model.Interval2h {
		t.Errorf("interval = %s", resp.Interval)
	}
	if resp.Wave.StartIndex != 4 || resp.Wave.EndIndex != 6 || resp.Wave.NetChange != 15 {
		t.Errorf("unexpected leg %+v", resp.Wave)
	}
	if resp.Label != "Impulse Complete or Waiting" {
		t.Errorf("label = %q", resp.Label)
	}
}

func TestWave_BadQuery(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{Price: 72})
	for _, path := range []string{"/api/wave?interval=4h", "/api/wave?window=0", "/api/wave?window=abc"} {
		if w := do(t, s, http.MethodGet, path, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestWave_FetchError(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{Err: errors.New("feed down")})
	if w := do(t, s, http.MethodGet, "/api/wave", ""); w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestBias(t *testing.T) {
	s, cl := newTestServer(t, &collector.MockFetcher{Price: 72})
	for _, id := range model.AllFactors {
		if err := cl.Set(id, true); err != nil {
			t.Fatal(err)
		}
	}

	w := do(t, s, http.MethodGet, "/api/bias", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var ev scheduler.Evaluation
	if err := json.Unmarshal(w.Body.Bytes(), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.RunID == "" {
		t.Error("missing run id")
	}
	if ev.Signal.Score != 6 || ev.Signal.Tier != model.TierHigh {
		t.Errorf("unexpected signal %+v", ev.Signal)
	}
	if ev.Technical != collector.SignalStrongBuy {
		t.Errorf("technical = %s", ev.Technical)
	}
	if ev.Snapshot.Symbol != "WTI" {
		t.Errorf("symbol = %s", ev.Snapshot.Symbol)
	}
}

func TestSignal(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{Price: 72})
	w := do(t, s, http.MethodGet, "/api/signal", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var resp struct {
		Signal  string `json:"signal"`
		Bullish bool   `json:"bullish"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Signal != "Strong Buy" || !resp.Bullish {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestChecklistEndpoints(t *testing.T) {
	s, cl := newTestServer(t, &collector.MockFetcher{Price: 72})

	w := do(t, s, http.MethodPut, "/api/checklist/elliott", `{"pass": true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status %d: %s", w.Code, w.Body.String())
	}
	if !cl.Overrides()[model.FactorElliott] {
		t.Error("override not stored")
	}

	w = do(t, s, http.MethodPut, "/api/checklist/trend", `{"pass": false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status %d", w.Code)
	}
	if v, ok := cl.Overrides()[model.FactorTrend]; !ok || v {
		t.Error("false override not stored")
	}

	w = do(t, s, http.MethodGet, "/api/checklist", "")
	var state model.ChecklistState
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if len(state.Overrides) != 2 {
		t.Errorf("expected 2 overrides, got %v", state.Overrides)
	}

	if w = do(t, s, http.MethodDelete, "/api/checklist/elliott", ""); w.Code != http.StatusOK {
		t.Fatalf("DELETE status %d", w.Code)
	}
	if _, ok := cl.Overrides()[model.FactorElliott]; ok {
		t.Error("override not cleared")
	}

	if w = do(t, s, http.MethodPut, "/api/checklist/volume", `{"pass": true}`); w.Code != http.StatusNotFound {
		t.Errorf("unknown factor: expected 404, got %d", w.Code)
	}
	if w = do(t, s, http.MethodPut, "/api/checklist/elliott", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing pass: expected 400, got %d", w.Code)
	}
}
