// Package features turns one game's line data into the numeric feature
// vector consumed by the probability model.
package features

import (
	"math"

	"github.com/yourusername/peytons-picks/internal/models"
)

const (
	// DefaultTotal stands in for the market total when no snapshot exists.
	DefaultTotal = 54.0

	spreadPenaltyCoef = 0.015
	totalPenaltyCoef  = 0.005
)

// Vector is the feature set for one game, framed from the favorite's side.
// Use ForSide to obtain the underdog framing.
type Vector struct {
	// Movement is |consensus_spread| - |opening_spread|: positive when the
	// market has moved further toward the favorite since the open. Zero when
	// no market snapshot carries a spread.
	Movement float64
	// HomeEdge is +1 when the favorite is at home, -1 on the road, 0 when
	// the favorite is unknown.
	HomeEdge float64
	// VariancePenalty grows with spread magnitude and total; it marks
	// high-total, high-spread games as less predictable and is always
	// subtracted from the composite score, for either side.
	VariancePenalty float64
	// Weather, Injury and BookSkill stay 0 until a collaborator supplies
	// real signals; the model tolerates all-zero placeholders.
	Weather   float64
	Injury    float64
	BookSkill float64
}

// Extract builds the favorite-framed feature vector for a game. snap may be
// nil; missing market data degrades to zero movement and the default total.
func Extract(g *models.Game, snap *models.MarketSnapshot) Vector {
	var v Vector

	openMag, hasOpen := g.SpreadMagnitude()

	if hasOpen && snap != nil && snap.ConsensusSpread != nil {
		v.Movement = math.Abs(*snap.ConsensusSpread) - openMag
	}

	if g.HasSides() {
		if g.FavoriteIsHome() {
			v.HomeEdge = 1
		} else {
			v.HomeEdge = -1
		}
	}

	total := DefaultTotal
	if snap != nil && snap.ConsensusTotal != nil {
		total = *snap.ConsensusTotal
	}
	v.VariancePenalty = spreadPenaltyCoef*openMag + totalPenaltyCoef*total

	return v
}

// ForSide returns the vector framed for the given side. The underdog framing
// negates the directional features; the variance penalty applies to both
// sides unchanged.
func (v Vector) ForSide(side models.PickSide) Vector {
	if side == models.PickSideFavorite {
		return v
	}
	flipped := v
	flipped.Movement = -v.Movement
	flipped.HomeEdge = -v.HomeEdge
	return flipped
}
