// Package picks contains the pick decision rule and the weekly scoring run.
package picks

import (
	"fmt"
	"math"

	"github.com/yourusername/peytons-picks/internal/features"
	"github.com/yourusername/peytons-picks/internal/model"
	"github.com/yourusername/peytons-picks/internal/models"
)

// Fallback probability recorded when a game has resolvable sides but no
// usable opening line.
const fallbackCoverProb = 0.55

// Selector evaluates both framings of a game and chooses the side to back.
type Selector struct {
	curve model.Curve
}

// NewSelector creates a selector over the given probability curve.
func NewSelector(curve model.Curve) *Selector {
	return &Selector{curve: curve}
}

// Select produces the prediction for one game. The boolean reports whether
// the conservative fallback fired.
//
// Failure policy (fixed, not ad hoc): a game whose favorite or underdog
// cannot be resolved returns models.ErrUnresolvableGame and is skipped by
// the caller — no pick is fabricated. A game with known sides but no opening
// spread gets the single conservative fallback: favorite side at the fixed
// fallback probability, with a reason string noting it.
func (s *Selector) Select(g *models.Game, snap *models.MarketSnapshot, ws *models.WeightSet) (*models.Prediction, bool, error) {
	if !g.HasSides() {
		return nil, false, fmt.Errorf("game %s: %w", g.GameID, models.ErrUnresolvableGame)
	}

	spreadMag, hasSpread := g.SpreadMagnitude()
	if !hasSpread {
		return s.fallback(g), true, nil
	}

	vec := features.Extract(g, snap)
	favRes := model.Evaluate(s.curve, vec, spreadMag, ws)
	dogRes := model.Evaluate(s.curve, vec.ForSide(models.PickSideUnderdog), -spreadMag, ws)

	// Higher raw score wins; ties go to the favorite.
	side, res := models.PickSideFavorite, favRes
	team := g.Favorite
	if dogRes.Raw > favRes.Raw {
		side, res = models.PickSideUnderdog, dogRes
		team = g.Underdog
	}

	return &models.Prediction{
		GameID:    g.GameID,
		Week:      g.Week,
		PickTeam:  team,
		PickSide:  side,
		CoverProb: res.Calibrated,
		Score:     confidenceScore(res.Calibrated),
		Reasons:   buildReasons(g, snap, vec, side, res, ws, s.curve),
	}, false, nil
}

func (s *Selector) fallback(g *models.Game) *models.Prediction {
	p := fallbackCoverProb
	return &models.Prediction{
		GameID:    g.GameID,
		Week:      g.Week,
		PickTeam:  g.Favorite,
		PickSide:  models.PickSideFavorite,
		CoverProb: p,
		Score:     confidenceScore(p),
		Reasons: []string{
			fmt.Sprintf("no usable opening line; conservative favorite default at %.2f", p),
		},
	}
}

// confidenceScore maps a calibrated probability to the signed ranking score.
// Monotonic in the probability; 0 at a coin flip.
func confidenceScore(p float64) float64 {
	return 100 * (p - 0.5)
}

func buildReasons(g *models.Game, snap *models.MarketSnapshot, vec features.Vector, side models.PickSide, res model.Result, ws *models.WeightSet, curve model.Curve) []string {
	reasons := make([]string, 0, 5)

	spreadMag, _ := g.SpreadMagnitude()
	if side == models.PickSideFavorite {
		reasons = append(reasons, fmt.Sprintf("favorite %s laying %.1f", g.Favorite, spreadMag))
	} else {
		reasons = append(reasons, fmt.Sprintf("underdog %s getting %.1f", g.Underdog, spreadMag))
	}

	if snap != nil && snap.ConsensusSpread != nil {
		reasons = append(reasons, fmt.Sprintf(
			"line moved %+.1f (open %.1f, market %.1f across %d books; weight %.2f)",
			vec.Movement, spreadMag, math.Abs(*snap.ConsensusSpread), snap.BooksCovered, ws.WMovement))
	} else {
		reasons = append(reasons, "no market snapshot; movement 0")
	}

	switch vec.HomeEdge {
	case 1:
		reasons = append(reasons, fmt.Sprintf("favorite at home (weight %.2f)", ws.WHome))
	case -1:
		reasons = append(reasons, fmt.Sprintf("favorite on the road (weight %.2f)", ws.WHome))
	}

	reasons = append(reasons, fmt.Sprintf("variance penalty %.3f (weight %.2f)", vec.VariancePenalty, ws.WVariance))
	reasons = append(reasons, fmt.Sprintf(
		"%s curve: raw %+.3f -> p %.3f, calibrated %.3f (a=%.2f b=%.2f)",
		curve.Name(), res.Raw, res.Prob, res.Calibrated, ws.CalA, ws.CalB))

	return reasons
}
