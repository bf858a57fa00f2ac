package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"WTISentinel/internal/api"
	"WTISentinel/internal/checklist"
	"WTISentinel/internal/collector"
	"WTISentinel/internal/config"
	"WTISentinel/internal/logging"
	"WTISentinel/internal/notifier"
	"WTISentinel/internal/recorder"
	"WTISentinel/internal/scheduler"
	"WTISentinel/internal/strategy"
	"WTISentinel/internal/wave"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
	log.Info().Msg("WTISentinel starting...")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	weekdays, _ := cfg.Weekdays()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "rest":
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{Price: 72}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	if cfg.Redis.Addr != "" {
		rdb := collector.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		fetcher = collector.NewCachedFetcher(fetcher, rdb, cfg.Redis.TTL)
	}
	log.Info().Str("source", fetcher.Name()).Str("symbol", cfg.DataSource.Symbol).Msg("data source ready")

	// Init collector
	st := cfg.Strategy
	settings := collector.DefaultSettings()
	settings.EMAFast, settings.EMASlow = st.EMAFast, st.EMASlow
	settings.BreakoutLookback, settings.FibLookback = st.BreakoutLookback, st.FibLookback
	settings.Wave = wave.Config{Window: st.WaveWindow, RetracementLow: st.RetracementLow, RetracementHigh: st.RetracementHigh}
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, settings)

	// Init checklist store
	cl, err := checklist.NewManager(cfg.Checklist.StateFile)
	if err != nil {
		log.Fatal().Err(err).Msg("init checklist")
	}

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder: PostgreSQL when configured, then SQLite, else noop.
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	switch {
	case cfg.Database.PostgresURL != "":
		pr, err := recorder.NewPostgresRecorder(ctx, cfg.Database.PostgresURL, recorder.DefaultPoolConfig())
		if err != nil {
			log.Warn().Err(err).Msg("init postgres recorder failed, using noop")
		} else {
			rec = pr
		}
	case cfg.Database.SQLitePath != "":
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	params := strategy.Params{
		BullishWeekdays:   weekdays,
		MinPriorRange:     st.MinPriorRange,
		BreakoutTolerance: st.BreakoutTolerance,
	}
	tv := collector.NewTradingViewFetcher(cfg.Proxy)

	sched := scheduler.NewScheduler(ctx, col, tv, cl, tn, rec, params)
	if err := sched.RegisterAll(cfg.Schedule.EvalCron, cfg.Schedule.DailyCron, cfg.Schedule.ResetCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("Telegram polling started")

	srv := api.NewServer(api.ServerConfig{
		Addr:           cfg.HTTP.Addr,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		ProductionMode: !cfg.Log.Pretty,
	}, sched, cl)
	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("http server")
		}
	}()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, evaluating now")
		go sched.RunEvaluationNow()
	}

	log.Info().Msg("WTISentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	cancel()
	log.Info().Msg("WTISentinel stopped")
}
