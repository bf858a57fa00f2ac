package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"WTISentinel/internal/checklist"
	"WTISentinel/internal/collector"
	"WTISentinel/internal/model"
	"WTISentinel/internal/notifier"
	"WTISentinel/internal/recorder"
	"WTISentinel/internal/strategy"
)

// Notifier delivers formatted reports.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// SignalSource provides the external technicals rating.
type SignalSource interface {
	FetchSignal(ctx context.Context) (collector.TechnicalSignal, error)
}

// Evaluation is the outcome of one checklist run.
type Evaluation struct {
	RunID     string                    `json:"run_id"`
	Snapshot  *model.MarketSnapshot     `json:"snapshot"`
	Signal    *model.BiasSignal         `json:"signal"`
	Technical collector.TechnicalSignal `json:"technical"`
}

// Scheduler manages all cron tasks and the shared evaluation pipeline.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Signals   SignalSource
	Checklist *checklist.Manager
	Notifier  Notifier
	Recorder  recorder.Recorder
	Params    strategy.Params
	Ctx       context.Context

	now func() time.Time
}

// NewScheduler creates a new Scheduler. signals may be nil.
func NewScheduler(ctx context.Context, col *collector.Collector, signals SignalSource, cl *checklist.Manager,
	n Notifier, rec recorder.Recorder, params strategy.Params) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Signals:   signals,
		Checklist: cl,
		Notifier:  n,
		Recorder:  rec,
		Params:    params,
		Ctx:       ctx,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RegisterAll registers the evaluation, daily summary and weekly reset tasks.
func (s *Scheduler) RegisterAll(evalCron, dailyCron, resetCron string) error {
	if _, err := s.Cron.AddFunc(evalCron, s.evaluationTask); err != nil {
		return fmt.Errorf("register evaluation task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dailyCron, s.dailySummary); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(resetCron, s.resetTask); err != nil {
		return fmt.Errorf("register weekly reset: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Str("component", "scheduler").Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Str("component", "scheduler").Msg("scheduler stopped")
}

// RunEvaluationNow executes the evaluation task immediately (RUN_ON_START).
func (s *Scheduler) RunEvaluationNow() {
	s.evaluationTask()
}

// Evaluate collects market data and scores the checklist with the current
// manual overrides. It neither records nor notifies.
func (s *Scheduler) Evaluate(ctx context.Context) (*Evaluation, error) {
	runID := uuid.NewString()
	now := s.now()
	logger := log.With().Str("component", "scheduler").Str("run_id", runID).Logger()

	snap, err := s.Collector.Collect(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	signal := strategy.Evaluate(&snap.Indicators, now, s.Params, s.Checklist.Overrides())

	technical := s.Technical(ctx)
	logger.Info().
		Str("symbol", snap.Symbol).
		Float64("price", snap.Indicators.CurrentPrice).
		Int("score", signal.Score).
		Str("tier", string(signal.Tier)).
		Str("wave", string(snap.Indicators.Wave.Tag)).
		Str("technical", string(technical)).
		Msg("checklist evaluated")

	return &Evaluation{RunID: runID, Snapshot: snap, Signal: signal, Technical: technical}, nil
}

// Wave runs the impulse detector on one interval with the configured window,
// or with window when it is positive.
func (s *Scheduler) Wave(ctx context.Context, interval model.Interval, window int) (model.WaveClassification, error) {
	cfg := s.Collector.Settings.Wave
	if window > 0 {
		cfg.Window = window
	}
	return s.Collector.DetectWave(ctx, interval, cfg)
}

// Technical returns the external rating, SignalUnavailable on failure and an
// empty rating when no source is configured.
func (s *Scheduler) Technical(ctx context.Context) collector.TechnicalSignal {
	if s.Signals == nil {
		return ""
	}
	sig, err := s.Signals.FetchSignal(ctx)
	if err != nil {
		log.Warn().Err(err).Str("component", "scheduler").Msg("technicals rating unavailable")
		return collector.SignalUnavailable
	}
	return sig
}

func (s *Scheduler) record(ev *Evaluation) {
	if err := s.Recorder.RecordBias(s.Ctx, &recorder.BiasSnapshot{
		RunID:     ev.RunID,
		Symbol:    ev.Snapshot.Symbol,
		Source:    ev.Snapshot.Source,
		Price:     ev.Snapshot.Indicators.CurrentPrice,
		Technical: string(ev.Technical),
		Signal:    ev.Signal,
	}); err != nil {
		log.Error().Err(err).Str("component", "scheduler").Str("run_id", ev.RunID).Msg("record bias")
	}
}

func (s *Scheduler) evaluationTask() {
	ev, err := s.Evaluate(s.Ctx)
	if err != nil {
		log.Error().Err(err).Str("component", "scheduler").Msg("evaluation failed")
		return
	}
	s.record(ev)

	previous := s.Checklist.LastTier()
	if s.Checklist.SetLastTier(ev.Signal.Tier) {
		log.Info().Str("component", "scheduler").Str("run_id", ev.RunID).
			Str("from", string(previous)).Str("to", string(ev.Signal.Tier)).Msg("bias tier changed")
		s.trySend(notifier.FormatBiasReport(ev.Snapshot, ev.Signal, string(ev.Technical)))
	}
}

func (s *Scheduler) dailySummary() {
	ev, err := s.Evaluate(s.Ctx)
	if err != nil {
		log.Error().Err(err).Str("component", "scheduler").Msg("daily summary failed")
		s.trySend(fmt.Sprintf("❌ Daily summary failed: %v", err))
		return
	}
	s.record(ev)
	s.Checklist.SetLastTier(ev.Signal.Tier)
	s.trySend(notifier.FormatBiasReport(ev.Snapshot, ev.Signal, string(ev.Technical)))
}

func (s *Scheduler) resetTask() {
	s.Checklist.Reset()
	log.Info().Str("component", "scheduler").Msg("weekly overrides reset")
	s.trySend("🔄 Weekly reset: manual checklist overrides cleared.")
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// "/bias@MyBot" in group chats
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch name {
	case "/bias":
		ev, err := s.Evaluate(ctx)
		if err != nil {
			return fmt.Sprintf("❌ Evaluation failed: %v", err)
		}
		s.record(ev)
		return notifier.FormatBiasReport(ev.Snapshot, ev.Signal, string(ev.Technical))
	case "/wave":
		w, err := s.Wave(ctx, model.Interval2h, 0)
		if err != nil {
			return fmt.Sprintf("❌ Wave detection failed: %v", err)
		}
		return notifier.FormatWave(w, model.Interval2h)
	case "/signal":
		return notifier.FormatSignal(s.Collector.Symbol, string(s.Technical(ctx)))
	case "/set":
		if len(args) != 2 {
			return "Usage: /set &lt;factor&gt; on|off"
		}
		id, err := checklist.ParseFactor(args[0])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		var pass bool
		switch strings.ToLower(args[1]) {
		case "on", "true", "yes", "1":
			pass = true
		case "off", "false", "no", "0":
		default:
			return "Usage: /set &lt;factor&gt; on|off"
		}
		if err := s.Checklist.Set(id, pass); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatChecklist(s.Checklist.Overrides())
	case "/clear":
		if len(args) != 1 {
			return "Usage: /clear &lt;factor&gt;"
		}
		id, err := checklist.ParseFactor(args[0])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		if err := s.Checklist.Clear(id); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatChecklist(s.Checklist.Overrides())
	case "/reset":
		s.Checklist.Reset()
		return notifier.FormatChecklist(nil)
	case "/checklist":
		return notifier.FormatChecklist(s.Checklist.Overrides())
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Str("component", "scheduler").Msg("send notification")
	}
}
