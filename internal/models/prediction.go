package models

import "time"

// PickSide identifies which side of the spread a prediction backs.
type PickSide string

const (
	PickSideFavorite PickSide = "favorite"
	PickSideUnderdog PickSide = "underdog"
)

// Prediction is one live confidence row per game. Exactly one row exists per
// game_id regardless of week corrections; every scoring run replaces the row
// in full (upsert), nothing is ever partially updated or deleted.
type Prediction struct {
	GameID   string   `db:"game_id" json:"game_id" validate:"required"`
	Week     int      `db:"week" json:"week" validate:"required,gt=0"`
	PickTeam string   `db:"pick_team" json:"pick_team" validate:"required"`
	PickSide PickSide `db:"pick_side" json:"pick_side" validate:"required,oneof=favorite underdog"`
	// CoverProb is the calibrated cover probability, clamped to [0.01, 0.99].
	CoverProb float64 `db:"cover_prob" json:"cover_prob" validate:"gte=0.01,lte=0.99"`
	// Score is the signed confidence used for ranking; monotonic in CoverProb.
	Score     float64   `db:"score" json:"score"`
	Reasons   []string  `db:"reasons" json:"reasons"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// BoardRow is one row of the ranked weekly board: the schedule row joined
// against its prediction and market snapshot where they exist. Consumers rely
// on the descending-score, nulls-last ordering of PredictionRepository.ListByWeek.
type BoardRow struct {
	Game            Game      `json:"game"`
	PickTeam        *string   `json:"pick_team"`
	PickSide        *PickSide `json:"pick_side"`
	CoverProb       *float64  `json:"cover_prob"`
	Score           *float64  `json:"score"`
	Reasons         []string  `json:"reasons"`
	ConsensusSpread *float64  `json:"consensus_spread"`
	ConsensusTotal  *float64  `json:"consensus_total"`
}

// Ranked reports whether the row carries a usable confidence score.
func (b *BoardRow) Ranked() bool {
	return b.Score != nil
}
