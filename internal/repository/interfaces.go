package repository

import (
	"context"

	"github.com/yourusername/peytons-picks/internal/models"
)

// GameRepository defines access to the weekly schedule.
type GameRepository interface {
	Upsert(ctx context.Context, game *models.Game) error
	UpsertBatch(ctx context.Context, games []*models.Game) (int, error)
	GetByID(ctx context.Context, gameID string) (*models.Game, error)
	GetByWeek(ctx context.Context, week int) ([]*models.Game, error)
}

// MarketRepository defines access to the last-write-wins market snapshots.
type MarketRepository interface {
	Upsert(ctx context.Context, snap *models.MarketSnapshot) error
	GetByGameID(ctx context.Context, gameID string) (*models.MarketSnapshot, error)
	GetByWeek(ctx context.Context, week int) (map[string]*models.MarketSnapshot, error)
}

// PredictionRepository is the prediction store: one live row per game_id,
// replaced in full on every upsert. ListByWeek is the board contract —
// descending score with unranked rows last.
type PredictionRepository interface {
	Upsert(ctx context.Context, pred *models.Prediction) error
	GetByGameID(ctx context.Context, gameID string) (*models.Prediction, error)
	GetByWeek(ctx context.Context, week int) ([]*models.Prediction, error)
	ListByWeek(ctx context.Context, week int) ([]*models.BoardRow, error)
}

// ResultRepository defines access to final scores.
type ResultRepository interface {
	Upsert(ctx context.Context, score *models.FinalScore) error
	GetByWeek(ctx context.Context, week int) (map[string]*models.FinalScore, error)
}

// GradedRepository defines access to graded prediction history.
type GradedRepository interface {
	Upsert(ctx context.Context, graded *models.GradedPrediction) error
	GetByWeek(ctx context.Context, week int) ([]*models.GradedPrediction, error)
	// GetGradableWindow returns non-push rows with week in [fromWeek, throughWeek].
	GetGradableWindow(ctx context.Context, fromWeek, throughWeek int) ([]*models.GradedPrediction, error)
}

// WeightRepository defines access to weight sets. GetLatest returns the row
// with the highest asof_week, or models.ErrNotFound when none exists.
type WeightRepository interface {
	GetLatest(ctx context.Context) (*models.WeightSet, error)
	GetByAsofWeek(ctx context.Context, asofWeek int) (*models.WeightSet, error)
	// UpsertCalibration writes a new weight set keyed by asofWeek, seeding
	// default coefficients on insert and replacing only the calibration
	// terms on conflict.
	UpsertCalibration(ctx context.Context, asofWeek int, calA, calB float64) error
}

// Repositories holds all repository implementations.
type Repositories struct {
	Game       GameRepository
	Market     MarketRepository
	Prediction PredictionRepository
	Result     ResultRepository
	Graded     GradedRepository
	Weight     WeightRepository
}
