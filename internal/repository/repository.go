package repository

import (
	"fmt"

	"github.com/yourusername/peytons-picks/internal/database"
)

// NewRepositories creates and returns all repository implementations.
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Game:       NewPostgresGameRepository(db),
		Market:     NewPostgresMarketRepository(db),
		Prediction: NewPostgresPredictionRepository(db),
		Result:     NewPostgresResultRepository(db),
		Graded:     NewPostgresGradedRepository(db),
		Weight:     NewPostgresWeightRepository(db),
	}, nil
}
