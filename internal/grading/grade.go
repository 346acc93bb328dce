// Package grading settles stored predictions against final scores and the
// opening line they were generated from.
package grading

import (
	"fmt"
	"math"

	"github.com/yourusername/peytons-picks/internal/models"
)

// Loss metrics are clamped tighter than prediction probabilities so a single
// confident miss cannot blow up the mean log-loss.
const (
	metricFloor = 0.001
	metricCeil  = 0.999
)

// Grade settles one prediction against the final score. The spread is always
// the opening line, never the market consensus at kickoff. A game landing
// exactly on the number is a push: the row records the push with nil
// outcome, win flag and loss metrics. Grading is deterministic, so re-running
// a completed week rewrites identical rows.
func Grade(g *models.Game, pred *models.Prediction, final *models.FinalScore) (*models.GradedPrediction, error) {
	if !g.HasSides() {
		return nil, fmt.Errorf("game %s: %w", g.GameID, models.ErrUnresolvableGame)
	}
	if g.OpeningSpread == nil {
		return nil, fmt.Errorf("game %s has no opening line: %w", g.GameID, models.ErrUnresolvableGame)
	}

	favMargin := float64(final.HomeScore - final.AwayScore)
	if !g.FavoriteIsHome() {
		favMargin = -favMargin
	}

	mag, _ := g.SpreadMagnitude()
	coverMargin := favMargin - mag

	graded := &models.GradedPrediction{
		Week:          g.Week,
		GameID:        g.GameID,
		PickTeam:      pred.PickTeam,
		PickSide:      pred.PickSide,
		TuesdaySpread: *g.OpeningSpread,
		CoverProb:     pred.CoverProb,
		Score:         pred.Score,
		CoverMargin:   coverMargin,
	}

	switch {
	case coverMargin > 0:
		graded.ATSResult = models.ATSFavorite
	case coverMargin < 0:
		graded.ATSResult = models.ATSUnderdog
	default:
		graded.ATSResult = models.ATSPush
		return graded, nil
	}

	won := string(pred.PickSide) == string(graded.ATSResult)
	outcome := models.OutcomeLoss
	if won {
		outcome = models.OutcomeWin
	}
	graded.Outcome = &outcome
	graded.Won = &won

	brier, logLoss := lossMetrics(pred.CoverProb, won)
	graded.Brier = &brier
	graded.LogLoss = &logLoss

	return graded, nil
}

// lossMetrics computes the Brier score and log-loss of a settled pick.
func lossMetrics(p float64, won bool) (brier, logLoss float64) {
	p = math.Min(math.Max(p, metricFloor), metricCeil)
	y := 0.0
	if won {
		y = 1.0
	}
	brier = (p - y) * (p - y)
	logLoss = -(y*math.Log(p) + (1-y)*math.Log(1-p))
	return brier, logLoss
}
