package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/peytons-picks/internal/database"
	"github.com/yourusername/peytons-picks/internal/models"
)

const errScanPrediction = "failed to scan prediction: %w"

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Upsert replaces the live prediction row for a game in full. Every column is
// overwritten, including week, so a game's week correction propagates.
func (r *PostgresPredictionRepository) Upsert(ctx context.Context, pred *models.Prediction) error {
	query := `
		INSERT INTO confidence (game_id, week, pick_team, pick_side, cover_prob, score, reasons, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (game_id) DO UPDATE SET
			week = EXCLUDED.week,
			pick_team = EXCLUDED.pick_team,
			pick_side = EXCLUDED.pick_side,
			cover_prob = EXCLUDED.cover_prob,
			score = EXCLUDED.score,
			reasons = EXCLUDED.reasons,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		pred.GameID, pred.Week, pred.PickTeam, pred.PickSide, pred.CoverProb,
		pred.Score, pred.Reasons,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction: %w", err)
	}
	return nil
}

// GetByGameID retrieves the live prediction for one game
func (r *PostgresPredictionRepository) GetByGameID(ctx context.Context, gameID string) (*models.Prediction, error) {
	query := `
		SELECT game_id, week, pick_team, pick_side, cover_prob, score, reasons, updated_at
		FROM confidence WHERE game_id = $1
	`

	pred := &models.Prediction{}
	err := r.db.GetPool().QueryRow(ctx, query, gameID).Scan(
		&pred.GameID, &pred.Week, &pred.PickTeam, &pred.PickSide, &pred.CoverProb,
		&pred.Score, &pred.Reasons, &pred.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return pred, nil
}

// GetByWeek retrieves all live predictions for a week
func (r *PostgresPredictionRepository) GetByWeek(ctx context.Context, week int) ([]*models.Prediction, error) {
	query := `
		SELECT game_id, week, pick_team, pick_side, cover_prob, score, reasons, updated_at
		FROM confidence WHERE week = $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by week: %w", err)
	}
	defer rows.Close()

	var preds []*models.Prediction
	for rows.Next() {
		pred := &models.Prediction{}
		err := rows.Scan(
			&pred.GameID, &pred.Week, &pred.PickTeam, &pred.PickSide, &pred.CoverProb,
			&pred.Score, &pred.Reasons, &pred.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		preds = append(preds, pred)
	}

	return preds, rows.Err()
}

// ListByWeek returns the ranked weekly board: schedule rows joined against
// predictions and market snapshots, ordered by descending score with
// unranked games last. This ordering is the board consumer's contract.
func (r *PostgresPredictionRepository) ListByWeek(ctx context.Context, week int) ([]*models.BoardRow, error) {
	query := `
		SELECT g.week, g.game_id, g.game_date, g.kickoff_local,
		       g.home_team, g.away_team, g.favorite, g.underdog, g.spread, g.notes, g.created_at,
		       c.pick_team, c.pick_side, c.cover_prob, c.score, c.reasons,
		       m.consensus_spread, m.consensus_total
		FROM games g
		LEFT JOIN confidence c ON c.game_id = g.game_id
		LEFT JOIN market_now m ON m.game_id = g.game_id
		WHERE g.week = $1
		ORDER BY c.score DESC NULLS LAST, g.game_date, g.kickoff_local, g.game_id
	`

	rows, err := r.db.GetPool().Query(ctx, query, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query board: %w", err)
	}
	defer rows.Close()

	var board []*models.BoardRow
	for rows.Next() {
		row := &models.BoardRow{}
		err := rows.Scan(
			&row.Game.Week, &row.Game.GameID, &row.Game.GameDate, &row.Game.KickoffLocal,
			&row.Game.HomeTeam, &row.Game.AwayTeam, &row.Game.Favorite, &row.Game.Underdog,
			&row.Game.OpeningSpread, &row.Game.Notes, &row.Game.CreatedAt,
			&row.PickTeam, &row.PickSide, &row.CoverProb, &row.Score, &row.Reasons,
			&row.ConsensusSpread, &row.ConsensusTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board row: %w", err)
		}
		board = append(board, row)
	}

	return board, rows.Err()
}
