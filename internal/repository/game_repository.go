package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/peytons-picks/internal/database"
	"github.com/yourusername/peytons-picks/internal/models"
)

const errScanGame = "failed to scan game: %w"

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

const upsertGameSQL = `
	INSERT INTO games (week, game_id, game_date, kickoff_local, home_team, away_team, favorite, underdog, spread, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (game_id) DO UPDATE SET
		week = EXCLUDED.week,
		game_date = EXCLUDED.game_date,
		kickoff_local = EXCLUDED.kickoff_local,
		home_team = EXCLUDED.home_team,
		away_team = EXCLUDED.away_team,
		favorite = EXCLUDED.favorite,
		underdog = EXCLUDED.underdog,
		spread = EXCLUDED.spread,
		notes = EXCLUDED.notes
`

// Upsert inserts or replaces a schedule row
func (r *PostgresGameRepository) Upsert(ctx context.Context, game *models.Game) error {
	_, err := r.db.GetPool().Exec(ctx, upsertGameSQL,
		game.Week, game.GameID, game.GameDate, game.KickoffLocal, game.HomeTeam,
		game.AwayTeam, game.Favorite, game.Underdog, game.OpeningSpread, game.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}
	return nil
}

// UpsertBatch upserts a whole imported week and returns the row count
func (r *PostgresGameRepository) UpsertBatch(ctx context.Context, games []*models.Game) (int, error) {
	upserts := 0
	for _, game := range games {
		if err := r.Upsert(ctx, game); err != nil {
			return upserts, err
		}
		upserts++
	}
	return upserts, nil
}

const selectGameColumns = `
	SELECT week, game_id, game_date, kickoff_local, home_team, away_team,
	       favorite, underdog, spread, notes, created_at
	FROM games
`

// GetByID retrieves a game by its stable id
func (r *PostgresGameRepository) GetByID(ctx context.Context, gameID string) (*models.Game, error) {
	query := selectGameColumns + ` WHERE game_id = $1`

	game := &models.Game{}
	err := r.db.GetPool().QueryRow(ctx, query, gameID).Scan(
		&game.Week, &game.GameID, &game.GameDate, &game.KickoffLocal, &game.HomeTeam,
		&game.AwayTeam, &game.Favorite, &game.Underdog, &game.OpeningSpread,
		&game.Notes, &game.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetByWeek retrieves all games for a week ordered by kickoff
func (r *PostgresGameRepository) GetByWeek(ctx context.Context, week int) ([]*models.Game, error) {
	query := selectGameColumns + ` WHERE week = $1 ORDER BY game_date, kickoff_local, game_id`

	rows, err := r.db.GetPool().Query(ctx, query, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by week: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		err := rows.Scan(
			&game.Week, &game.GameID, &game.GameDate, &game.KickoffLocal, &game.HomeTeam,
			&game.AwayTeam, &game.Favorite, &game.Underdog, &game.OpeningSpread,
			&game.Notes, &game.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}
