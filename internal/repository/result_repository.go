package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/peytons-picks/internal/database"
	"github.com/yourusername/peytons-picks/internal/models"
)

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new final-score repository
func NewPostgresResultRepository(db *database.DB) ResultRepository {
	return &PostgresResultRepository{db: db}
}

// Upsert writes a final score, stamping completed_at on first insert
func (r *PostgresResultRepository) Upsert(ctx context.Context, score *models.FinalScore) error {
	query := `
		INSERT INTO results (week, game_id, home_team, away_team, home_score, away_score, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (week, game_id) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			completed_at = COALESCE(results.completed_at, NOW())
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		score.Week, score.GameID, score.HomeTeam, score.AwayTeam, score.HomeScore, score.AwayScore,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert result: %w", err)
	}
	return nil
}

// GetByWeek retrieves final scores for a week keyed by game_id
func (r *PostgresResultRepository) GetByWeek(ctx context.Context, week int) (map[string]*models.FinalScore, error) {
	query := `
		SELECT week, game_id, home_team, away_team, home_score, away_score, completed_at
		FROM results WHERE week = $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query results by week: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]*models.FinalScore)
	for rows.Next() {
		score := &models.FinalScore{}
		err := rows.Scan(
			&score.Week, &score.GameID, &score.HomeTeam, &score.AwayTeam,
			&score.HomeScore, &score.AwayScore, &score.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		scores[score.GameID] = score
	}

	return scores, rows.Err()
}
