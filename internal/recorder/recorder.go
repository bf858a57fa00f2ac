package recorder

import (
	"context"

	"WTISentinel/internal/model"
)

// BiasSnapshot holds one scheduled checklist evaluation.
type BiasSnapshot struct {
	RunID     string
	Symbol    string
	Source    string
	Price     float64
	Technical string // TradingView summary rating, empty when not fetched
	Signal    *model.BiasSignal
}

// factorStatuses returns the status of each checklist item in AllFactors order.
func (s *BiasSnapshot) factorStatuses() []string {
	byID := make(map[model.FactorID]model.FactorStatus, len(s.Signal.Factors))
	for _, f := range s.Signal.Factors {
		byID[f.ID] = f.Status
	}
	out := make([]string, len(model.AllFactors))
	for i, id := range model.AllFactors {
		st, ok := byID[id]
		if !ok {
			st = model.StatusUnavailable
		}
		out[i] = string(st)
	}
	return out
}

// Recorder persists evaluation history for analysis.
type Recorder interface {
	RecordBias(ctx context.Context, snap *BiasSnapshot) error
	Close() error
}
