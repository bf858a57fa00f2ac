package strategy

import (
	"testing"
	"time"

	"WTISentinel/internal/model"
)

// 2025-06-03 is a Tuesday.
var tuesday = time.Date(2025, 6, 3, 14, 0, 0, 0, time.UTC)

func bullishIndicators() *model.MarketIndicators {
	return &model.MarketIndicators{
		CurrentPrice:    72.10,
		PriorDayRange:   1.45,
		PriorDayRangeOK: true,
		RecentHigh:      72.30,
		RecentHighOK:    true,
		EMAFast:         71.50,
		EMASlow:         70.80,
		EMAOK:           true,
		FibLevel382:     72.50,
		FibLevel50:      71.80,
		FibLevel618:     71.00,
		FibOK:           true,
		Wave: model.WaveClassification{
			Tag:          model.WaveInsideRetracement,
			LegLow:       69.00,
			LegHigh:      74.00,
			Level382:     72.09,
			Level618:     70.91,
			CurrentPrice: 72.00,
			StartIndex:   10,
			EndIndex:     15,
			NetChange:    4.2,
		},
	}
}

func findFactor(t *testing.T, sig *model.BiasSignal, id model.FactorID) model.FactorResult {
	t.Helper()
	for _, f := range sig.Factors {
		if f.ID == id {
			return f
		}
	}
	t.Fatalf("factor %s missing", id)
	return model.FactorResult{}
}

func TestEvaluate_AllPass(t *testing.T) {
	sig := Evaluate(bullishIndicators(), tuesday, DefaultParams(), nil)
	if sig == nil {
		t.Fatal("expected non-nil signal")
	}
	if len(sig.Factors) != len(model.AllFactors) {
		t.Fatalf("expected %d factors, got %d", len(model.AllFactors), len(sig.Factors))
	}
	for i, id := range model.AllFactors {
		if sig.Factors[i].ID != id {
			t.Errorf("factor %d: expected %s, got %s", i, id, sig.Factors[i].ID)
		}
		if sig.Factors[i].Status != model.StatusPass {
			t.Errorf("%s: expected PASS, got %s (%s)", id, sig.Factors[i].Status, sig.Factors[i].Commentary)
		}
	}
	if sig.Score != 6 || sig.MaxScore != 6 {
		t.Errorf("expected 6/6, got %d/%d", sig.Score, sig.MaxScore)
	}
	if sig.Tier != model.TierHigh {
		t.Errorf("expected High tier, got %s", sig.Tier)
	}
	if !sig.EvaluatedAt.Equal(tuesday) {
		t.Errorf("EvaluatedAt = %v", sig.EvaluatedAt)
	}
}

func TestEvaluate_UnavailableIsNotFail(t *testing.T) {
	ind := &model.MarketIndicators{CurrentPrice: 72, Wave: model.UnavailableWave()}
	sig := Evaluate(ind, tuesday, DefaultParams(), nil)

	if sig.Unavailable != 5 {
		t.Errorf("expected 5 unavailable factors, got %d", sig.Unavailable)
	}
	for _, id := range []model.FactorID{model.FactorPriorRange, model.FactorBreakout, model.FactorTrend, model.FactorFibonacci, model.FactorElliott} {
		if f := findFactor(t, sig, id); f.Status != model.StatusUnavailable {
			t.Errorf("%s: expected UNAVAILABLE, got %s", id, f.Status)
		}
	}
	if sig.Score != 1 {
		t.Errorf("only seasonality should score, got %d", sig.Score)
	}
	if sig.Tier != model.TierLow {
		t.Errorf("expected Low tier, got %s", sig.Tier)
	}
}

func TestSeasonality(t *testing.T) {
	tests := []struct {
		day  time.Time
		want model.FactorStatus
	}{
		{time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), model.StatusPass}, // Monday
		{time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), model.StatusPass}, // Wednesday
		{time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), model.StatusFail}, // Thursday
		{time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC), model.StatusFail}, // Friday
	}
	for _, tt := range tests {
		got := scoreSeasonality(tt.day, DefaultParams())
		if got.Status != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.day.Weekday(), tt.want, got.Status)
		}
	}
}

func TestPriorRangeAndBreakoutThresholds(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name      string
		rng       float64
		price     float64
		high      float64
		wantRange model.FactorStatus
		wantBrk   model.FactorStatus
	}{
		{"at thresholds", 1.00, 72.00, 72.30, model.StatusPass, model.StatusPass},
		{"quiet day far below", 0.80, 71.00, 72.30, model.StatusFail, model.StatusFail},
		{"above high", 1.20, 73.00, 72.30, model.StatusPass, model.StatusPass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind := &model.MarketIndicators{
				CurrentPrice:    tt.price,
				PriorDayRange:   tt.rng,
				PriorDayRangeOK: true,
				RecentHigh:      tt.high,
				RecentHighOK:    true,
			}
			if got := scorePriorRange(ind, p).Status; got != tt.wantRange {
				t.Errorf("prior range: expected %s, got %s", tt.wantRange, got)
			}
			if got := scoreBreakout(ind, p).Status; got != tt.wantBrk {
				t.Errorf("breakout: expected %s, got %s", tt.wantBrk, got)
			}
		})
	}
}

func TestTrend_RequiresFullAlignment(t *testing.T) {
	ind := bullishIndicators()
	ind.EMAFast, ind.EMASlow = 70.0, 71.0
	if got := scoreTrend(ind).Status; got != model.StatusFail {
		t.Errorf("fast below slow should fail, got %s", got)
	}
	ind.EMAFast, ind.EMASlow = 72.5, 71.0
	if got := scoreTrend(ind).Status; got != model.StatusFail {
		t.Errorf("price below fast EMA should fail, got %s", got)
	}
}

func TestElliott_OutsideFails(t *testing.T) {
	ind := bullishIndicators()
	ind.Wave.Tag = model.WaveOutsideRetracement
	f := scoreElliott(ind)
	if f.Status != model.StatusFail {
		t.Errorf("expected FAIL, got %s", f.Status)
	}
	if f.Commentary != model.WaveOutsideRetracement.Label() {
		t.Errorf("unexpected commentary %q", f.Commentary)
	}
}

func TestEvaluate_ManualOverrides(t *testing.T) {
	ind := &model.MarketIndicators{CurrentPrice: 72, Wave: model.UnavailableWave()}
	overrides := map[model.FactorID]bool{
		model.FactorElliott:     true,
		model.FactorFibonacci:   true,
		model.FactorSeasonality: false,
	}
	sig := Evaluate(ind, tuesday, DefaultParams(), overrides)

	el := findFactor(t, sig, model.FactorElliott)
	if !el.Manual || el.Status != model.StatusPass {
		t.Errorf("elliott override not applied: %+v", el)
	}
	season := findFactor(t, sig, model.FactorSeasonality)
	if !season.Manual || season.Status != model.StatusFail {
		t.Errorf("seasonality override not applied: %+v", season)
	}
	if tr := findFactor(t, sig, model.FactorTrend); tr.Manual {
		t.Error("trend should not be marked manual")
	}
	if sig.Score != 2 {
		t.Errorf("expected score 2, got %d", sig.Score)
	}
	if sig.Unavailable != 3 {
		t.Errorf("expected 3 unavailable, got %d", sig.Unavailable)
	}
}

func TestMapTier_AllBoundaries(t *testing.T) {
	tests := []struct {
		score int
		tier  model.BiasTier
	}{
		{6, model.TierHigh},
		{5, model.TierHigh},
		{4, model.TierModerate},
		{3, model.TierModerate},
		{2, model.TierLow},
		{0, model.TierLow},
	}
	for _, tt := range tests {
		if got := mapTier(tt.score); got != tt.tier {
			t.Errorf("score %d: expected %s, got %s", tt.score, tt.tier, got)
		}
	}
}
