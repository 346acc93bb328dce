package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/peytons-picks/internal/database"
	"github.com/yourusername/peytons-picks/internal/models"
)

const errScanGraded = "failed to scan graded prediction: %w"

// PostgresGradedRepository implements GradedRepository for PostgreSQL
type PostgresGradedRepository struct {
	db *database.DB
}

// NewPostgresGradedRepository creates a new graded prediction repository
func NewPostgresGradedRepository(db *database.DB) GradedRepository {
	return &PostgresGradedRepository{db: db}
}

// Upsert writes a graded row, idempotent on (week, game_id)
func (r *PostgresGradedRepository) Upsert(ctx context.Context, graded *models.GradedPrediction) error {
	query := `
		INSERT INTO picks_history
			(week, game_id, pick_team, pick_side, tuesday_spread, cover_prob, score,
			 ats_result, outcome, won, cover_margin, brier, logloss, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (week, game_id) DO UPDATE SET
			pick_team = EXCLUDED.pick_team,
			pick_side = EXCLUDED.pick_side,
			tuesday_spread = EXCLUDED.tuesday_spread,
			cover_prob = EXCLUDED.cover_prob,
			score = EXCLUDED.score,
			ats_result = EXCLUDED.ats_result,
			outcome = EXCLUDED.outcome,
			won = EXCLUDED.won,
			cover_margin = EXCLUDED.cover_margin,
			brier = EXCLUDED.brier,
			logloss = EXCLUDED.logloss,
			created_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		graded.Week, graded.GameID, graded.PickTeam, graded.PickSide, graded.TuesdaySpread,
		graded.CoverProb, graded.Score, graded.ATSResult, graded.Outcome, graded.Won,
		graded.CoverMargin, graded.Brier, graded.LogLoss,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert graded prediction: %w", err)
	}
	return nil
}

const selectGradedColumns = `
	SELECT week, game_id, pick_team, pick_side, tuesday_spread, cover_prob, score,
	       ats_result, outcome, won, cover_margin, brier, logloss, created_at
	FROM picks_history
`

// GetByWeek retrieves all graded rows for one week
func (r *PostgresGradedRepository) GetByWeek(ctx context.Context, week int) ([]*models.GradedPrediction, error) {
	query := selectGradedColumns + ` WHERE week = $1 ORDER BY game_id`
	return r.queryGraded(ctx, query, week)
}

// GetGradableWindow retrieves non-push rows with week in [fromWeek, throughWeek]
func (r *PostgresGradedRepository) GetGradableWindow(ctx context.Context, fromWeek, throughWeek int) ([]*models.GradedPrediction, error) {
	query := selectGradedColumns + `
		WHERE week BETWEEN $1 AND $2 AND outcome IN ('win', 'loss')
		ORDER BY week, game_id`
	return r.queryGraded(ctx, query, fromWeek, throughWeek)
}

func (r *PostgresGradedRepository) queryGraded(ctx context.Context, query string, args ...interface{}) ([]*models.GradedPrediction, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query graded predictions: %w", err)
	}
	defer rows.Close()

	graded, err := scanGradedRows(rows)
	if err != nil {
		return nil, err
	}
	return graded, rows.Err()
}

func scanGradedRows(rows pgx.Rows) ([]*models.GradedPrediction, error) {
	var graded []*models.GradedPrediction
	for rows.Next() {
		g := &models.GradedPrediction{}
		err := rows.Scan(
			&g.Week, &g.GameID, &g.PickTeam, &g.PickSide, &g.TuesdaySpread,
			&g.CoverProb, &g.Score, &g.ATSResult, &g.Outcome, &g.Won,
			&g.CoverMargin, &g.Brier, &g.LogLoss, &g.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGraded, err)
		}
		graded = append(graded, g)
	}
	return graded, nil
}
