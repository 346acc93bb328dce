package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/peytons-picks/internal/database"
	"github.com/yourusername/peytons-picks/internal/models"
)

// PostgresWeightRepository implements WeightRepository for PostgreSQL
type PostgresWeightRepository struct {
	db *database.DB
}

// NewPostgresWeightRepository creates a new weight set repository
func NewPostgresWeightRepository(db *database.DB) WeightRepository {
	return &PostgresWeightRepository{db: db}
}

const selectWeightColumns = `
	SELECT id, asof_week, w_movement, w_home, w_weather, w_injury, w_bookskill,
	       w_variance, k, sigma, cal_a, cal_b, created_at
	FROM model_weights
`

// GetLatest retrieves the most recent weight set by asof_week
func (r *PostgresWeightRepository) GetLatest(ctx context.Context) (*models.WeightSet, error) {
	query := selectWeightColumns + ` ORDER BY asof_week DESC LIMIT 1`
	return r.queryOne(ctx, query)
}

// GetByAsofWeek retrieves the weight set derived as of a specific week
func (r *PostgresWeightRepository) GetByAsofWeek(ctx context.Context, asofWeek int) (*models.WeightSet, error) {
	query := selectWeightColumns + ` WHERE asof_week = $1`
	return r.queryOne(ctx, query, asofWeek)
}

// UpsertCalibration appends or updates the weight set keyed by asof_week.
// New rows are seeded with the default coefficients; on conflict only the
// calibration terms are replaced (coefficients are never mutated in place).
func (r *PostgresWeightRepository) UpsertCalibration(ctx context.Context, asofWeek int, calA, calB float64) error {
	defaults := models.DefaultWeightSet()
	query := `
		INSERT INTO model_weights
			(id, asof_week, w_movement, w_home, w_weather, w_injury, w_bookskill,
			 w_variance, k, sigma, cal_a, cal_b, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (asof_week) DO UPDATE SET
			cal_a = EXCLUDED.cal_a,
			cal_b = EXCLUDED.cal_b
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		uuid.New(), asofWeek, defaults.WMovement, defaults.WHome, defaults.WWeather,
		defaults.WInjury, defaults.WBookSkill, defaults.WVariance, defaults.K,
		defaults.Sigma, calA, calB,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert weight set: %w", err)
	}
	return nil
}

func (r *PostgresWeightRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.WeightSet, error) {
	ws := &models.WeightSet{}
	err := r.db.GetPool().QueryRow(ctx, query, args...).Scan(
		&ws.ID, &ws.AsofWeek, &ws.WMovement, &ws.WHome, &ws.WWeather, &ws.WInjury,
		&ws.WBookSkill, &ws.WVariance, &ws.K, &ws.Sigma, &ws.CalA, &ws.CalB, &ws.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weight set: %w", err)
	}

	return ws, nil
}
