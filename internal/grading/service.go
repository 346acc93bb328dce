package grading

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/peytons-picks/internal/metrics"
	"github.com/yourusername/peytons-picks/internal/models"
	"github.com/yourusername/peytons-picks/internal/repository"
)

// Service grades a completed week: every stored prediction with a final
// score gets a history row.
type Service struct {
	games       repository.GameRepository
	predictions repository.PredictionRepository
	results     repository.ResultRepository
	graded      repository.GradedRepository
	log         *logrus.Logger
}

// NewService creates a grading service.
func NewService(repos *repository.Repositories, log *logrus.Logger) *Service {
	return &Service{
		games:       repos.Game,
		predictions: repos.Prediction,
		results:     repos.Result,
		graded:      repos.Graded,
		log:         log,
	}
}

// Summary reports one grading run.
type Summary struct {
	Week    int `json:"week"`
	Graded  int `json:"graded"`
	Pushes  int `json:"pushes"`
	Pending int `json:"pending"`
	Skipped int `json:"skipped"`
}

// GradeWeek settles every prediction in the week that has a final score.
// Predictions without a final yet are counted as pending and left alone.
// Idempotent: graded rows are keyed by (week, game_id) and replaced in full.
func (s *Service) GradeWeek(ctx context.Context, week int) (*Summary, error) {
	games, err := s.games.GetByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("loading week %d schedule: %w", week, err)
	}

	preds, err := s.predictions.GetByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("loading week %d predictions: %w", week, err)
	}
	predByGame := make(map[string]*models.Prediction, len(preds))
	for _, p := range preds {
		predByGame[p.GameID] = p
	}

	finals, err := s.results.GetByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("loading week %d results: %w", week, err)
	}

	summary := &Summary{Week: week}
	for _, game := range games {
		pred, ok := predByGame[game.GameID]
		if !ok {
			continue
		}
		final, ok := finals[game.GameID]
		if !ok {
			summary.Pending++
			continue
		}

		row, err := Grade(game, pred, final)
		if errors.Is(err, models.ErrUnresolvableGame) {
			summary.Skipped++
			s.log.WithField("game_id", game.GameID).Warn("Skipping ungradeable game")
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := s.graded.Upsert(ctx, row); err != nil {
			return nil, fmt.Errorf("storing graded row for %s: %w", game.GameID, err)
		}
		summary.Graded++
		metrics.GradedTotal.Inc()
		if row.IsPush() {
			summary.Pushes++
		}
	}

	s.log.WithFields(logrus.Fields{
		"week":    week,
		"graded":  summary.Graded,
		"pushes":  summary.Pushes,
		"pending": summary.Pending,
		"skipped": summary.Skipped,
	}).Info("Week graded")

	return summary, nil
}
