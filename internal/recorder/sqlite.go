package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists evaluation history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("component", "recorder").Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bias_snapshots (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id             TEXT NOT NULL,
			timestamp          INTEGER NOT NULL,
			symbol             TEXT,
			source             TEXT,
			price              REAL,
			technical          TEXT,
			f_seasonality      TEXT,
			f_prior_range      TEXT,
			f_breakout         TEXT,
			f_trend            TEXT,
			f_fibonacci        TEXT,
			f_elliott          TEXT,
			score              INTEGER,
			max_score          INTEGER,
			unavailable        INTEGER,
			tier               TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bias_ts ON bias_snapshots(timestamp)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bias_run ON bias_snapshots(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordBias(ctx context.Context, snap *BiasSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sig := snap.Signal
	f := snap.factorStatuses()
	_, err := r.db.ExecContext(ctx, `INSERT INTO bias_snapshots
		(run_id, timestamp, symbol, source, price, technical,
		 f_seasonality, f_prior_range, f_breakout, f_trend, f_fibonacci, f_elliott,
		 score, max_score, unavailable, tier)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.RunID, sig.EvaluatedAt.Unix(), snap.Symbol, snap.Source, snap.Price, snap.Technical,
		f[0], f[1], f[2], f[3], f[4], f[5],
		sig.Score, sig.MaxScore, sig.Unavailable, string(sig.Tier),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Str("component", "recorder").Msg("closing sqlite recorder")
	return r.db.Close()
}
