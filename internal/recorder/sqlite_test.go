package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"WTISentinel/internal/model"
)

func sampleSnapshot(runID string) *BiasSnapshot {
	return &BiasSnapshot{
		RunID:     runID,
		Symbol:    "WTI",
		Source:    "mock",
		Price:     72.4,
		Technical: "Buy",
		Signal: &model.BiasSignal{
			Factors: []model.FactorResult{
				{ID: model.FactorSeasonality, Status: model.StatusPass},
				{ID: model.FactorTrend, Status: model.StatusFail},
				{ID: model.FactorElliott, Status: model.StatusPass, Manual: true},
			},
			Score:       2,
			MaxScore:    6,
			Unavailable: 0,
			Tier:        model.TierLow,
			EvaluatedAt: time.Date(2025, 6, 3, 10, 1, 0, 0, time.UTC),
		},
	}
}

func TestFactorStatuses_Order(t *testing.T) {
	got := sampleSnapshot("x").factorStatuses()
	want := []string{"PASS", "UNAVAILABLE", "UNAVAILABLE", "FAIL", "UNAVAILABLE", "PASS"}
	if len(got) != len(want) {
		t.Fatalf("expected %d statuses, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: expected %s, got %s", model.AllFactors[i], want[i], got[i])
		}
	}
}

func TestSQLiteRecorder_RecordBias(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	ctx := context.Background()
	if err := r.RecordBias(ctx, sampleSnapshot("run-1")); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordBias(ctx, sampleSnapshot("run-2")); err != nil {
		t.Fatal(err)
	}
	if err := r.RecordBias(ctx, sampleSnapshot("run-1")); err == nil {
		t.Error("expected duplicate run id to be rejected")
	}

	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM bias_snapshots`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected 2 rows, got %d", count)
	}

	var tier, elliott string
	var score int
	var ts int64
	err = r.db.QueryRow(`SELECT tier, f_elliott, score, timestamp FROM bias_snapshots WHERE run_id = ?`, "run-2").
		Scan(&tier, &elliott, &score, &ts)
	if err != nil {
		t.Fatal(err)
	}
	if tier != "Low" || elliott != "PASS" || score != 2 {
		t.Errorf("unexpected row: tier=%s elliott=%s score=%d", tier, elliott, score)
	}
	if ts != time.Date(2025, 6, 3, 10, 1, 0, 0, time.UTC).Unix() {
		t.Errorf("unexpected timestamp %d", ts)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if err := r.RecordBias(context.Background(), sampleSnapshot("n")); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
}
