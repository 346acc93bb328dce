// Package calibration fits the affine probability correction against recent
// graded history.
package calibration

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/peytons-picks/internal/metrics"
	"github.com/yourusername/peytons-picks/internal/model"
	"github.com/yourusername/peytons-picks/internal/models"
	"github.com/yourusername/peytons-picks/internal/repository"
)

// Candidate grids for the affine correction p' = a*p + b. Small on purpose:
// with a handful of games per week anything finer just fits noise.
var (
	gridA = []float64{0.8, 0.9, 1.0, 1.1, 1.2}
	gridB = []float64{-0.1, -0.05, 0, 0.05, 0.1}
)

// DefaultWindow is the number of completed weeks fed to a recalibration.
const DefaultWindow = 4

// Candidate probabilities are clamped with the same loose bounds grading uses
// for its loss metrics, not the tighter storage bounds. The wider ceiling is
// what makes a confident miss expensive enough for the search to feel it.
const (
	metricFloor = 0.001
	metricCeil  = 0.999
)

// Calibrator searches the candidate grid for the correction minimizing mean
// log-loss over a window of graded picks.
type Calibrator struct {
	graded  repository.GradedRepository
	weights repository.WeightRepository
	log     *logrus.Logger
}

// NewCalibrator creates a calibrator.
func NewCalibrator(repos *repository.Repositories, log *logrus.Logger) *Calibrator {
	return &Calibrator{graded: repos.Graded, weights: repos.Weight, log: log}
}

// Result reports one completed calibration run.
type Result struct {
	FromWeek    int     `json:"from_week"`
	ThroughWeek int     `json:"through_week"`
	Rows        int     `json:"rows"`
	CalA        float64 `json:"cal_a"`
	CalB        float64 `json:"cal_b"`
	LogLoss     float64 `json:"logloss"`
}

// Recalibrate fits the correction on the non-push graded rows of the window
// ending at throughWeek and stores it keyed by that week. Pushes never reach
// the search; a window with no decided picks returns models.ErrNoGradableData
// and writes nothing. Ties on mean log-loss keep the first candidate in grid
// order, so repeated runs over the same history pick the same pair.
func (c *Calibrator) Recalibrate(ctx context.Context, throughWeek, window int) (*Result, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	fromWeek := throughWeek - window + 1
	if fromWeek < 1 {
		fromWeek = 1
	}

	rows, err := c.graded.GetGradableWindow(ctx, fromWeek, throughWeek)
	if err != nil {
		return nil, fmt.Errorf("loading graded window [%d, %d]: %w", fromWeek, throughWeek, err)
	}
	rows = decided(rows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("window [%d, %d]: %w", fromWeek, throughWeek, models.ErrNoGradableData)
	}

	bestA, bestB, bestLoss := searchGrid(rows)

	if err := c.weights.UpsertCalibration(ctx, throughWeek, bestA, bestB); err != nil {
		return nil, fmt.Errorf("storing calibration for week %d: %w", throughWeek, err)
	}

	metrics.CalibrationRunsTotal.Inc()
	metrics.CalibrationLogLoss.Set(bestLoss)

	c.log.WithFields(logrus.Fields{
		"from_week":    fromWeek,
		"through_week": throughWeek,
		"rows":         len(rows),
		"cal_a":        bestA,
		"cal_b":        bestB,
		"logloss":      bestLoss,
	}).Info("Calibration stored")

	return &Result{
		FromWeek:    fromWeek,
		ThroughWeek: throughWeek,
		Rows:        len(rows),
		CalA:        bestA,
		CalB:        bestB,
		LogLoss:     bestLoss,
	}, nil
}

// searchGrid returns the grid pair with the lowest mean log-loss. Strictly
// lower wins; grid order breaks ties.
func searchGrid(rows []*models.GradedPrediction) (a, b, loss float64) {
	best := math.Inf(1)
	for _, ca := range gridA {
		for _, cb := range gridB {
			l := meanLogLoss(rows, ca, cb)
			if l < best {
				best = l
				a, b = ca, cb
			}
		}
	}
	return a, b, best
}

// meanLogLoss scores one candidate pair over the window. Each row's stored
// probability is re-run through the candidate correction, clamped to the
// metric bounds, before the loss.
func meanLogLoss(rows []*models.GradedPrediction, a, b float64) float64 {
	var sum float64
	for _, row := range rows {
		p := model.Clamp(a*row.CoverProb+b, metricFloor, metricCeil)
		if *row.Won {
			sum += -math.Log(p)
		} else {
			sum += -math.Log(1 - p)
		}
	}
	return sum / float64(len(rows))
}

// decided drops any push rows a store implementation might hand back.
func decided(rows []*models.GradedPrediction) []*models.GradedPrediction {
	out := rows[:0]
	for _, row := range rows {
		if row.Won != nil {
			out = append(out, row)
		}
	}
	return out
}
