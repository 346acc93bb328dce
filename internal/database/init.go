package database

import (
	"context"
	"fmt"
)

// Schema statements, one table per statement so a partial failure reports the
// table that broke. Types mirror the contracts in internal/models; spreads are
// DOUBLE PRECISION to match the float fields they scan into (half-point lines
// are exact in binary floating point).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS games (
		week INT NOT NULL,
		game_id TEXT PRIMARY KEY,
		game_date DATE,
		kickoff_local TEXT NOT NULL DEFAULT '',
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		favorite TEXT NOT NULL DEFAULT '',
		underdog TEXT NOT NULL DEFAULT '',
		spread DOUBLE PRECISION,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS market_now (
		game_id TEXT PRIMARY KEY REFERENCES games(game_id),
		consensus_spread DOUBLE PRECISION,
		consensus_total DOUBLE PRECISION,
		books_covered INT NOT NULL DEFAULT 0,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS confidence (
		game_id TEXT PRIMARY KEY REFERENCES games(game_id),
		week INT NOT NULL,
		pick_team TEXT NOT NULL,
		pick_side TEXT NOT NULL CHECK (pick_side IN ('favorite', 'underdog')),
		cover_prob DOUBLE PRECISION NOT NULL CHECK (cover_prob >= 0.01 AND cover_prob <= 0.99),
		score DOUBLE PRECISION NOT NULL,
		reasons JSONB NOT NULL DEFAULT '[]',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		week INT NOT NULL,
		game_id TEXT NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		home_score INT NOT NULL,
		away_score INT NOT NULL,
		completed_at TIMESTAMPTZ,
		PRIMARY KEY (week, game_id)
	)`,
	`CREATE TABLE IF NOT EXISTS picks_history (
		week INT NOT NULL,
		game_id TEXT NOT NULL,
		pick_team TEXT NOT NULL,
		pick_side TEXT NOT NULL CHECK (pick_side IN ('favorite', 'underdog')),
		tuesday_spread DOUBLE PRECISION NOT NULL,
		cover_prob DOUBLE PRECISION NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		ats_result TEXT NOT NULL CHECK (ats_result IN ('favorite', 'underdog', 'push')),
		outcome TEXT CHECK (outcome IN ('win', 'loss')),
		won BOOLEAN,
		cover_margin DOUBLE PRECISION NOT NULL,
		brier DOUBLE PRECISION,
		logloss DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (week, game_id)
	)`,
	`CREATE TABLE IF NOT EXISTS model_weights (
		id UUID NOT NULL,
		asof_week INT PRIMARY KEY,
		w_movement DOUBLE PRECISION NOT NULL,
		w_home DOUBLE PRECISION NOT NULL,
		w_weather DOUBLE PRECISION NOT NULL,
		w_injury DOUBLE PRECISION NOT NULL,
		w_bookskill DOUBLE PRECISION NOT NULL,
		w_variance DOUBLE PRECISION NOT NULL,
		k DOUBLE PRECISION NOT NULL,
		sigma DOUBLE PRECISION NOT NULL,
		cal_a DOUBLE PRECISION NOT NULL,
		cal_b DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_games_week ON games (week)`,
	`CREATE INDEX IF NOT EXISTS idx_confidence_week ON confidence (week)`,
	`CREATE INDEX IF NOT EXISTS idx_picks_history_outcome ON picks_history (week) WHERE outcome IS NOT NULL`,
}

// InitSchema creates the pipeline tables if they do not exist. Safe to run on
// every startup.
func InitSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
