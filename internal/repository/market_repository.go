package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/peytons-picks/internal/database"
	"github.com/yourusername/peytons-picks/internal/models"
)

// PostgresMarketRepository implements MarketRepository for PostgreSQL
type PostgresMarketRepository struct {
	db *database.DB
}

// NewPostgresMarketRepository creates a new market snapshot repository
func NewPostgresMarketRepository(db *database.DB) MarketRepository {
	return &PostgresMarketRepository{db: db}
}

// Upsert replaces the snapshot for a game (last write wins, no history)
func (r *PostgresMarketRepository) Upsert(ctx context.Context, snap *models.MarketSnapshot) error {
	query := `
		INSERT INTO market_now (game_id, consensus_spread, consensus_total, books_covered, fetched_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id) DO UPDATE SET
			consensus_spread = EXCLUDED.consensus_spread,
			consensus_total = EXCLUDED.consensus_total,
			books_covered = EXCLUDED.books_covered,
			fetched_at = EXCLUDED.fetched_at
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		snap.GameID, snap.ConsensusSpread, snap.ConsensusTotal, snap.BooksCovered, snap.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert market snapshot: %w", err)
	}
	return nil
}

// GetByGameID retrieves the current snapshot for one game
func (r *PostgresMarketRepository) GetByGameID(ctx context.Context, gameID string) (*models.MarketSnapshot, error) {
	query := `
		SELECT game_id, consensus_spread, consensus_total, books_covered, fetched_at
		FROM market_now WHERE game_id = $1
	`

	snap := &models.MarketSnapshot{}
	err := r.db.GetPool().QueryRow(ctx, query, gameID).Scan(
		&snap.GameID, &snap.ConsensusSpread, &snap.ConsensusTotal, &snap.BooksCovered, &snap.FetchedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get market snapshot: %w", err)
	}

	return snap, nil
}

// GetByWeek retrieves current snapshots for all games in a week keyed by game_id
func (r *PostgresMarketRepository) GetByWeek(ctx context.Context, week int) (map[string]*models.MarketSnapshot, error) {
	query := `
		SELECT m.game_id, m.consensus_spread, m.consensus_total, m.books_covered, m.fetched_at
		FROM market_now m
		JOIN games g ON g.game_id = m.game_id
		WHERE g.week = $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query market snapshots by week: %w", err)
	}
	defer rows.Close()

	snaps := make(map[string]*models.MarketSnapshot)
	for rows.Next() {
		snap := &models.MarketSnapshot{}
		err := rows.Scan(&snap.GameID, &snap.ConsensusSpread, &snap.ConsensusTotal, &snap.BooksCovered, &snap.FetchedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market snapshot: %w", err)
		}
		snaps[snap.GameID] = snap
	}

	return snaps, rows.Err()
}
