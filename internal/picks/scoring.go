package picks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/peytons-picks/internal/metrics"
	"github.com/yourusername/peytons-picks/internal/models"
	"github.com/yourusername/peytons-picks/internal/repository"
)

// ScoringService runs the prediction side of the pipeline: extract features,
// evaluate both framings, pick a side and upsert one confidence row per game.
type ScoringService struct {
	games       repository.GameRepository
	market      repository.MarketRepository
	predictions repository.PredictionRepository
	weights     repository.WeightRepository
	selector    *Selector
	log         *logrus.Logger
}

// NewScoringService creates a scoring service.
func NewScoringService(repos *repository.Repositories, selector *Selector, log *logrus.Logger) *ScoringService {
	return &ScoringService{
		games:       repos.Game,
		market:      repos.Market,
		predictions: repos.Prediction,
		weights:     repos.Weight,
		selector:    selector,
		log:         log,
	}
}

// Summary reports one scoring run. Per-game failures are counted here, never
// promoted to run failures.
type Summary struct {
	Week      int `json:"week"`
	Games     int `json:"games"`
	Upserts   int `json:"upserts"`
	Skipped   int `json:"skipped"`
	Fallbacks int `json:"fallbacks"`
}

// ScoreWeek scores every game in the week and upserts the resulting
// predictions. Re-running is idempotent: rows are replaced, never duplicated.
// A store or provider failure aborts the run with previously stored
// predictions untouched.
func (s *ScoringService) ScoreWeek(ctx context.Context, week int) (*Summary, error) {
	start := time.Now()
	defer func() { metrics.ScoringRunDuration.Observe(time.Since(start).Seconds()) }()

	games, err := s.games.GetByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("loading week %d schedule: %w", week, err)
	}
	if len(games) == 0 {
		return &Summary{Week: week}, nil
	}

	snaps, err := s.market.GetByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("loading week %d market snapshots: %w", week, err)
	}

	ws, err := s.activeWeights(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Week: week, Games: len(games)}
	for _, game := range games {
		pred, fallback, err := s.selector.Select(game, snaps[game.GameID], ws)
		if errors.Is(err, models.ErrUnresolvableGame) {
			summary.Skipped++
			metrics.GamesSkippedTotal.Inc()
			s.log.WithField("game_id", game.GameID).Warn("Skipping unresolvable game")
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := s.predictions.Upsert(ctx, pred); err != nil {
			return nil, fmt.Errorf("upserting prediction for %s: %w", game.GameID, err)
		}
		summary.Upserts++
		metrics.PredictionsUpsertedTotal.Inc()

		if fallback {
			summary.Fallbacks++
			metrics.FallbackPicksTotal.Inc()
		}
	}

	s.log.WithFields(logrus.Fields{
		"week":      week,
		"games":     summary.Games,
		"upserts":   summary.Upserts,
		"skipped":   summary.Skipped,
		"fallbacks": summary.Fallbacks,
		"asof_week": ws.AsofWeek,
	}).Info("Week scored")

	return summary, nil
}

// Board returns the ranked weekly board rows.
func (s *ScoringService) Board(ctx context.Context, week int) ([]*models.BoardRow, error) {
	return s.predictions.ListByWeek(ctx, week)
}

// activeWeights reads the most recent weight set, falling back to the
// built-in defaults when none has been calibrated yet.
func (s *ScoringService) activeWeights(ctx context.Context) (*models.WeightSet, error) {
	ws, err := s.weights.GetLatest(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return models.DefaultWeightSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading active weight set: %w", err)
	}
	return ws, nil
}
