package recorder

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// PoolConfig bounds the PostgreSQL connection pool.
type PoolConfig struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:          4,
		MinConns:          1,
		MaxConnLifetime:   30 * time.Minute,
		MaxConnIdleTime:   5 * time.Minute,
		HealthCheckPeriod: 30 * time.Second,
	}
}

// PostgresRecorder persists evaluation history to PostgreSQL through a pgx pool.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder connects, pings and migrates.
func NewPostgresRecorder(ctx context.Context, databaseURL string, cfg PoolConfig) (*PostgresRecorder, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{pool: pool}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("component", "recorder").Msg("postgres recorder opened")
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`create table if not exists bias_snapshots (
			id            bigserial primary key,
			run_id        text not null unique,
			evaluated_at  timestamptz not null,
			symbol        text,
			source        text,
			price         double precision,
			technical     text,
			f_seasonality text,
			f_prior_range text,
			f_breakout    text,
			f_trend       text,
			f_fibonacci   text,
			f_elliott     text,
			score         integer,
			max_score     integer,
			unavailable   integer,
			tier          text
		)`,
		`create index if not exists idx_bias_evaluated_at on bias_snapshots(evaluated_at)`,
	}
	for _, s := range stmts {
		if _, err := r.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) RecordBias(ctx context.Context, snap *BiasSnapshot) error {
	sig := snap.Signal
	f := snap.factorStatuses()
	_, err := r.pool.Exec(ctx, `
		insert into bias_snapshots(
			run_id, evaluated_at, symbol, source, price, technical,
			f_seasonality, f_prior_range, f_breakout, f_trend, f_fibonacci, f_elliott,
			score, max_score, unavailable, tier
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		on conflict (run_id) do nothing
	`,
		snap.RunID, sig.EvaluatedAt, snap.Symbol, snap.Source, snap.Price, snap.Technical,
		f[0], f[1], f[2], f[3], f[4], f[5],
		sig.Score, sig.MaxScore, sig.Unavailable, string(sig.Tier),
	)
	return err
}

func (r *PostgresRecorder) Close() error {
	r.pool.Close()
	return nil
}
